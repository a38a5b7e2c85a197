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
	"math"
	"sync"
	"time"

	movingaverage "github.com/RobinUS2/golang-moving-average"
)

// DefaultItemsPerSecond is the throughput assumed before any job has
// completed, matching the source's ANYVAR_EXPECTED_VRS_IDS_PER_SECOND
// default of 500.
const DefaultItemsPerSecond = 500

// ThroughputEstimator smooths observed items/second across recently
// completed jobs so RetryAfter can give a caller a reasonable poll
// interval for one still in flight.
type ThroughputEstimator struct {
	mu  sync.Mutex
	avg *movingaverage.MovingAverage
}

// NewThroughputEstimator returns an estimator smoothing over the last
// window observations.
func NewThroughputEstimator(window int) *ThroughputEstimator {
	return &ThroughputEstimator{avg: movingaverage.New(window)}
}

// Observe records that n items were processed over duration d.
func (e *ThroughputEstimator) Observe(n int, d time.Duration) {
	if d <= 0 || n <= 0 {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.avg.Add(float64(n) / d.Seconds())
}

// RetryAfter estimates how long a job with remaining items left to process
// will still take, rounded up to whole seconds and clamped to at least one
// second.
func (e *ThroughputEstimator) RetryAfter(remaining int) time.Duration {
	e.mu.Lock()
	rate := e.avg.Avg()
	e.mu.Unlock()
	if rate <= 0 {
		rate = DefaultItemsPerSecond
	}
	secs := math.Ceil(float64(remaining) / rate)
	if secs < 1 {
		secs = 1
	}
	return time.Duration(secs * float64(time.Second))
}
