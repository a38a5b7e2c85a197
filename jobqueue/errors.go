// Copyright 2024 The Tessera authors. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package jobqueue

import (
	"context"
	"errors"
)

// ErrorCode classifies a failed job the way the source's VCF status route
// distinguishes a Celery TimeLimitExceeded or WorkerLostError from a plain
// task exception.
type ErrorCode string

const (
	ErrorCodeTimeLimitExceeded ErrorCode = "TIME_LIMIT_EXCEEDED"
	ErrorCodeWorkerLost        ErrorCode = "WORKER_LOST_ERROR"
	ErrorCodeRunFailure        ErrorCode = "RUN_FAILURE"
)

// ErrWorkerLost marks a job whose worker goroutine panicked, the nearest Go
// analogue of a Celery worker process dying mid-task.
var ErrWorkerLost = errors.New("jobqueue: worker lost (panic recovered)")

// Classify maps a job failure to the error code a status endpoint should
// report alongside it.
func Classify(err error) ErrorCode {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return ErrorCodeTimeLimitExceeded
	case errors.Is(err, ErrWorkerLost):
		return ErrorCodeWorkerLost
	default:
		return ErrorCodeRunFailure
	}
}
