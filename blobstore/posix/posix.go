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

// Package posix is a blobstore.Store backed by a local directory, the
// direct generalization of the source's ANYVAR_VCF_ASYNC_WORK_DIR.
package posix

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/biocommons/anyvar-go/blobstore"
)

// Store roots every key under Dir.
type Store struct {
	Dir string
}

// New returns a Store rooted at dir. dir must already exist.
func New(dir string) *Store {
	return &Store{Dir: dir}
}

func (s *Store) path(key string) string {
	return filepath.Join(s.Dir, filepath.FromSlash(key))
}

func (s *Store) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	f, err := os.Open(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, blobstore.ErrNotFound
		}
		return nil, fmt.Errorf("posix: open %s: %w", key, err)
	}
	return f, nil
}

func (s *Store) Put(ctx context.Context, key string, contents io.Reader) error {
	p := s.path(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("posix: mkdir for %s: %w", key, err)
	}
	f, err := os.Create(p)
	if err != nil {
		return fmt.Errorf("posix: create %s: %w", key, err)
	}
	defer f.Close()
	if _, err := io.Copy(f, contents); err != nil {
		return fmt.Errorf("posix: write %s: %w", key, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if err := os.Remove(s.path(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("posix: remove %s: %w", key, err)
	}
	return nil
}

var _ blobstore.Store = (*Store)(nil)
