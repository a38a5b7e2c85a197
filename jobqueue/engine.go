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
	"fmt"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Engine runs submitted jobs on a bounded pool of goroutines and remembers
// each job's outcome until it is forgotten, playing the role the source
// fills with a Celery worker plus its Redis/database result backend.
type Engine struct {
	sem chan struct{}
	wg  sync.WaitGroup

	mu       sync.Mutex
	statuses map[string]Status
	closed   bool
	closeCh  chan struct{}

	results *lru.Cache[string, Result]
}

// New returns an Engine that runs at most maxConcurrent jobs at once and
// remembers up to resultCacheSize completed results before evicting the
// least recently touched one.
func New(maxConcurrent, resultCacheSize int) *Engine {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	c, err := lru.New[string, Result](resultCacheSize)
	if err != nil {
		panic(fmt.Errorf("jobqueue: lru.New(%d): %w", resultCacheSize, err))
	}
	return &Engine{
		sem:      make(chan struct{}, maxConcurrent),
		statuses: make(map[string]Status),
		closeCh:  make(chan struct{}),
		results:  c,
	}
}

// Submit starts fn running under id. It returns an error if id has already
// been submitted and not yet Forgotten. The status is set to StatusSent
// before Submit returns, mirroring the after_task_publish signal handler
// that marks a task SENT as soon as the broker has accepted it.
func (e *Engine) Submit(ctx context.Context, id string, fn Func) error {
	e.mu.Lock()
	if _, ok := e.statuses[id]; ok {
		e.mu.Unlock()
		return fmt.Errorf("jobqueue: job %q already submitted", id)
	}
	if e.closed {
		e.mu.Unlock()
		return fmt.Errorf("jobqueue: engine is closed")
	}
	e.statuses[id] = StatusSent
	e.mu.Unlock()

	e.wg.Add(1)
	go e.run(ctx, id, fn)
	return nil
}

func (e *Engine) run(ctx context.Context, id string, fn Func) {
	defer e.wg.Done()

	select {
	case e.sem <- struct{}{}:
		defer func() { <-e.sem }()
	case <-e.closeCh:
		return
	}

	e.setStatus(id, StatusStarted)

	result := Result{ID: id, Status: StatusSuccess}
	func() {
		defer func() {
			if r := recover(); r != nil {
				result.Status = StatusFailure
				result.Err = fmt.Errorf("%w: %v", ErrWorkerLost, r)
			}
		}()
		v, err := fn(ctx)
		if err != nil {
			result.Status = StatusFailure
			result.Err = err
			return
		}
		result.Value = v
	}()

	e.setStatus(id, result.Status)
	e.results.Add(id, result)
}

func (e *Engine) setStatus(id string, s Status) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.statuses[id] = s
}

// Status reports id's current state, and false if id has never been
// submitted (or has since been Forgotten) - the same PENDING-means-unknown
// ambiguity the source's status route resolves by treating a never-SENT
// task id as not found.
func (e *Engine) Status(id string) (Result, bool) {
	e.mu.Lock()
	status, known := e.statuses[id]
	e.mu.Unlock()
	if !known {
		return Result{}, false
	}
	if status == StatusSuccess || status == StatusFailure {
		if r, ok := e.results.Get(id); ok {
			return r, true
		}
	}
	return Result{ID: id, Status: status}, true
}

// AwaitSent polls Status up to attempts times, interval apart, until id is
// known - the Go analogue of the status route's ten half-second waits for
// a just-submitted run's PENDING-vs-SENT ambiguity to resolve. Submit
// records StatusSent before it returns, so the wait only matters for an id
// whose Submit has not happened yet (e.g. one issued by another caller).
func (e *Engine) AwaitSent(ctx context.Context, id string, attempts int, interval time.Duration) (Result, bool) {
	for i := 0; i < attempts; i++ {
		if r, ok := e.Status(id); ok {
			return r, true
		}
		select {
		case <-ctx.Done():
			return Result{}, false
		case <-time.After(interval):
		}
	}
	return e.Status(id)
}

// Forget discards id's cached status and result, the Go analogue of
// AsyncResult.forget().
func (e *Engine) Forget(id string) {
	e.mu.Lock()
	delete(e.statuses, id)
	e.mu.Unlock()
	e.results.Remove(id)
}

// Close stops handing the semaphore to not-yet-started jobs and waits for
// every already-running job to finish. Jobs still waiting for a slot when
// Close is called are abandoned and remain StatusSent forever.
func (e *Engine) Close() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	e.mu.Unlock()
	close(e.closeCh)
	e.wg.Wait()
}
