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

// Package blobstore abstracts where an asynchronous VCF job's input and
// output files live, generalizing the source's ANYVAR_VCF_ASYNC_WORK_DIR
// (a bare local directory) into a Store interface with posix, S3 and GCS
// implementations, the way storage/aws and storage/gcp give tessera's
// entry bundles a blob-store-shaped home behind one narrow interface.
package blobstore

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound is returned by Get when key does not exist.
var ErrNotFound = errors.New("blobstore: key not found")

// Store is a minimal content-addressed-by-key blob store: everything a
// VCF job's work directory needs, and nothing a specific backend's client
// doesn't already provide natively.
type Store interface {
	// Get streams the contents stored at key. The caller must Close the
	// returned ReadCloser.
	Get(ctx context.Context, key string) (io.ReadCloser, error)

	// Put stores contents under key, overwriting any existing value.
	Put(ctx context.Context, key string, contents io.Reader) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}
