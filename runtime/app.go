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

// Package runtime is the composition root wiring a Storage, a Translator,
// and the optional liftover and async-job collaborators into one handle,
// the Go counterpart of anyvar.py's AnyVar class and its create_storage/
// create_translator factories. Unlike the source, which keeps a single
// implicit module-level _anyvar_app guarded by a lock (see
// queueing/celery_worker.py's get_anyvar_app), every caller here
// constructs and owns its own App value explicitly - there is no hidden
// global singleton to race against.
package runtime

import (
	"context"
	"errors"
	"fmt"

	"github.com/biocommons/anyvar-go/blobstore"
	"github.com/biocommons/anyvar-go/jobqueue"
	"github.com/biocommons/anyvar-go/liftover"
	"github.com/biocommons/anyvar-go/store"
	"github.com/biocommons/anyvar-go/translate"
)

// App bundles the collaborators a request handler or batch job needs.
// Translator is supplied by the caller: instantiating a concrete
// translator (a reference-sequence data proxy, an HGVS parser) is outside
// this module's scope, matching translate.Translator's doc comment.
type App struct {
	Storage    store.Storage
	Translator translate.Translator

	// Liftover is nil if cross-assembly coordinate conversion is not
	// configured.
	Liftover *liftover.Client

	// Jobs is nil if asynchronous VCF annotation is not configured, the
	// Go analogue of has_queueing_enabled() returning false.
	Jobs *jobqueue.Engine

	// Blobs is nil if asynchronous VCF annotation has nowhere to stage
	// working files, the generalization of ANYVAR_VCF_ASYNC_WORK_DIR.
	Blobs blobstore.Store
}

// HasQueueing reports whether asynchronous job submission is available.
func (a *App) HasQueueing() bool {
	return a.Jobs != nil
}

// Close releases every owned resource, the Go analogue of
// teardown_anyvar's worker_shutdown handler tearing down the storage
// connector. It closes Jobs first, which waits for running jobs to finish;
// jobs still waiting for a worker slot are abandoned.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	if a.Jobs != nil {
		a.Jobs.Close()
	}
	if a.Storage != nil {
		if err := a.Storage.Close(ctx); err != nil {
			errs = append(errs, fmt.Errorf("closing storage: %w", err))
		}
	}
	return errors.Join(errs...)
}
