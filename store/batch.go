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

package store

import "context"

// Batcher is implemented by a Storage whose AddObjects calls can be
// diverted through a background batch-write engine rather than applied
// one at a time. original_source/src/anyvar/storage/sql_storage.py exposes
// this as a mutable `batch_mode` flag plus a `SqlStorageBatchManager`
// context manager; the §9 "Scoped batch context" redesign note replaces
// both with the explicit BeginBatch/EndBatch pair below, so that batch
// mode is a property of a *scope* rather than of the Storage value itself.
type Batcher interface {
	Storage

	// BeginBatch switches this Storage into batch mode: subsequent
	// AddObjects calls made through the returned handle are queued rather
	// than applied synchronously. vcfpipeline shares one handle across its
	// worker goroutines; the handles of this module's backends are safe for
	// that concurrent use.
	BeginBatch(ctx context.Context) (BatchHandle, error)
}

// BatchHandle is the scope returned by BeginBatch. EndBatch must be called
// exactly once to leave batch mode.
type BatchHandle interface {
	Storage

	// EndBatch flushes any remaining queued writes and, if flushOnExit is
	// true, blocks until they are durable (equivalent to calling
	// WaitForWrites) before returning this Storage to direct-write mode.
	EndBatch(ctx context.Context, flushOnExit bool) error
}

// RunBatch runs fn with b in batch mode, always calling EndBatch on the
// way out -- including when fn panics or returns an error -- mirroring the
// guaranteed-flush-on-exit behaviour of the source's
// `with storage.batch_manager(): ...` context manager.
func RunBatch(ctx context.Context, b Batcher, flushOnExit bool, fn func(context.Context, BatchHandle) error) (err error) {
	bh, err := b.BeginBatch(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if endErr := bh.EndBatch(ctx, flushOnExit); endErr != nil && err == nil {
			err = endErr
		}
	}()
	return fn(ctx, bh)
}
