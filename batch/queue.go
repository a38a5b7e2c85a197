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

// Package batch implements the background batch-write engine behind a
// Batcher's batch mode: a bounded queue of pending write batches, drained
// by a single background goroutine that calls back into the backend's
// direct-write path. This decouples the caller issuing AddObjects calls
// from the backend actually executing them, the same way
// storage/internal/queue.go decouples tessera's buffer flush from the
// storage write; the bound on pending batches, and the WaitForWrites
// barrier semantics, are ported from
// original_source/src/anyvar/storage/sql_storage.py's
// SqlStorageBatchThread, which blocks queue_batch() once
// max_pending_batches batches are outstanding and implements
// wait_for_writes() by draining the queue under a condition variable.
package batch

import (
	"context"
	"fmt"
	"sync"

	"k8s.io/klog/v2"
)

// FlushFunc applies one queued batch of items. A FlushFunc must not retain
// items beyond the call; the queue reuses no storage across calls, but
// callers building batches from pooled buffers should copy if unsure.
type FlushFunc[T any] func(ctx context.Context, items []T) error

// work is either a batch to flush, or a barrier request used to implement
// WaitForWrites: the worker closes done once every batch queued ahead of
// the barrier has been flushed.
type work[T any] struct {
	batch []T
	done  chan<- struct{}
}

// Queue is a bounded, ordered queue of pending write batches drained by a
// single background goroutine.
type Queue[T any] struct {
	flush FlushFunc[T]

	mu       sync.Mutex
	cond     *sync.Cond
	pending  []work[T]
	maxQueue int
	closed   bool

	workerDone chan struct{}
}

// NewQueue starts a Queue backed by a single goroutine that calls f for
// each enqueued batch in order. maxPendingBatches bounds how many batches
// may be queued ahead of the worker before Enqueue blocks, providing the
// back-pressure the source applies via max_pending_batches.
func NewQueue[T any](maxPendingBatches int, f FlushFunc[T]) *Queue[T] {
	if maxPendingBatches <= 0 {
		maxPendingBatches = 1
	}
	q := &Queue[T]{
		flush:      f,
		maxQueue:   maxPendingBatches,
		workerDone: make(chan struct{}),
	}
	q.cond = sync.NewCond(&q.mu)
	go q.run()
	return q
}

// Enqueue adds batch to the queue, blocking while maxPendingBatches batches
// are already outstanding. It returns an error only if the queue has been
// closed.
func (q *Queue[T]) Enqueue(ctx context.Context, batch []T) error {
	return q.push(work[T]{batch: batch})
}

// WaitForWrites blocks until every batch enqueued before this call has
// been flushed, the sole read/write synchronization primitive offered by a
// batch-mode Storage, matching wait_for_writes in the source.
func (q *Queue[T]) WaitForWrites(ctx context.Context) error {
	done := make(chan struct{})
	if err := q.push(work[T]{done: done}); err != nil {
		return err
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *Queue[T]) push(w work[T]) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	for len(q.pending) >= q.maxQueue && !q.closed {
		q.cond.Wait()
	}
	if q.closed {
		return fmt.Errorf("batch queue is closed")
	}
	q.pending = append(q.pending, w)
	q.cond.Signal()
	return nil
}

// Close flushes any remaining queued batches and stops the background
// goroutine. It blocks until the worker has drained.
func (q *Queue[T]) Close(ctx context.Context) error {
	q.mu.Lock()
	q.closed = true
	q.cond.Broadcast()
	q.mu.Unlock()
	<-q.workerDone
	return nil
}

func (q *Queue[T]) run() {
	ctx := context.Background()
	defer close(q.workerDone)
	for {
		q.mu.Lock()
		for len(q.pending) == 0 && !q.closed {
			q.cond.Wait()
		}
		if len(q.pending) == 0 && q.closed {
			q.mu.Unlock()
			return
		}
		w := q.pending[0]
		q.pending = q.pending[1:]
		q.cond.Signal()
		q.mu.Unlock()

		if w.done != nil {
			close(w.done)
			continue
		}
		if err := q.flush(ctx, w.batch); err != nil {
			klog.Errorf("batch flush failed for %d item(s): %v", len(w.batch), err)
		}
	}
}
