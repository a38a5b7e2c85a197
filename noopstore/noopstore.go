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

// Package noopstore is a store.Storage that discards every write and
// answers every read as empty. It exists for load-testing the VCF
// annotation pipeline (spec §5) without paying for persistence, matching
// the "null object" storage backend pattern the source exposes for the
// same purpose.
package noopstore

import (
	"context"

	"github.com/biocommons/anyvar-go/store"
	"github.com/biocommons/anyvar-go/vrs"
)

// Store discards all writes.
type Store struct{}

// New returns a Store.
func New() *Store { return &Store{} }

var _ store.Batcher = (*Store)(nil)

func (*Store) Close(context.Context) error         { return nil }
func (*Store) WaitForWrites(context.Context) error { return nil }
func (*Store) WipeDB(context.Context) error        { return nil }

func (*Store) AddObjects(context.Context, ...vrs.Variation) error { return nil }

func (*Store) GetObject(context.Context, string) (vrs.Variation, error) { return nil, nil }

func (*Store) GetAllObjectIDs(context.Context, store.ObjectType) ([]string, error) { return nil, nil }

func (*Store) GetObjectCount(context.Context, store.ObjectType) (int64, error) { return 0, nil }

func (*Store) DeleteObjects(context.Context, ...string) error { return nil }

func (*Store) AddMapping(context.Context, store.Mapping) error { return nil }

func (*Store) DeleteMapping(context.Context, string, string, store.MappingType) error { return nil }

func (*Store) GetMappings(context.Context, string, store.MappingType) ([]store.Mapping, error) {
	return nil, nil
}

func (*Store) AddAnnotation(context.Context, store.Annotation) (int64, error) { return 0, nil }

func (*Store) DeleteAnnotation(context.Context, int64) error { return nil }

func (*Store) GetAnnotations(context.Context, string, string) ([]store.Annotation, error) {
	return nil, nil
}

func (*Store) SearchAlleles(context.Context, store.RangeQuery) ([]*vrs.Allele, error) {
	return nil, nil
}

// BeginBatch returns a handle that, like direct mode, discards everything.
func (s *Store) BeginBatch(context.Context) (store.BatchHandle, error) {
	return batchHandle{s}, nil
}

type batchHandle struct {
	*Store
}

func (batchHandle) EndBatch(context.Context, bool) error { return nil }
