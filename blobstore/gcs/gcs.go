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

// Package gcs is a blobstore.Store backed by Google Cloud Storage,
// grounded on storage/gcp/gcp.go's gcsStorage type.
package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"

	gcs "cloud.google.com/go/storage"

	"github.com/biocommons/anyvar-go/blobstore"
)

// Store stores blobs as objects in a single GCS bucket.
type Store struct {
	bucket string
	client *gcs.Client
}

// New returns a Store backed by bucket using client.
func New(client *gcs.Client, bucket string) *Store {
	return &Store{bucket: bucket, client: client}
}

func (s *Store) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	r, err := s.client.Bucket(s.bucket).Object(key).NewReader(ctx)
	if err != nil {
		if errors.Is(err, gcs.ErrObjectNotExist) {
			return nil, blobstore.ErrNotFound
		}
		return nil, fmt.Errorf("gcs: open reader for %q in bucket %q: %w", key, s.bucket, err)
	}
	return r, nil
}

func (s *Store) Put(ctx context.Context, key string, contents io.Reader) error {
	w := s.client.Bucket(s.bucket).Object(key).NewWriter(ctx)
	if _, err := io.Copy(w, contents); err != nil {
		_ = w.Close()
		return fmt.Errorf("gcs: write %q to bucket %q: %w", key, s.bucket, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("gcs: close writer for %q in bucket %q: %w", key, s.bucket, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.client.Bucket(s.bucket).Object(key).Delete(ctx); err != nil && !errors.Is(err, gcs.ErrObjectNotExist) {
		return fmt.Errorf("gcs: delete %q from bucket %q: %w", key, s.bucket, err)
	}
	return nil
}

var _ blobstore.Store = (*Store)(nil)
