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

// Package jobqueue runs long-lived annotation work (VCF ingestion) off the
// request path and lets a caller poll for its outcome by ID, the in-process
// analogue of the source's Celery-backed async VCF route.
package jobqueue

import "context"

// Status is the lifecycle state of a submitted job. The zero value,
// StatusUnknown, is what Engine.Status returns for an ID it has never seen -
// Celery calls this "PENDING" and treats it as indistinguishable from an
// unknown task id until the broker acks the submission.
type Status string

const (
	StatusUnknown Status = ""
	StatusSent    Status = "SENT"
	StatusStarted Status = "STARTED"
	StatusSuccess Status = "SUCCESS"
	StatusFailure Status = "FAILURE"
)

// Result is a job's current or final state.
type Result struct {
	ID     string
	Status Status
	// Value holds the job's return value once Status is StatusSuccess.
	Value any
	// Err holds the job's failure once Status is StatusFailure.
	Err error
}

// Func is the work a submitted job performs. ctx is the context passed to
// Submit; closing the job's engine does not cancel it.
type Func func(ctx context.Context) (any, error)
