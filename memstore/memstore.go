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

// Package memstore is an in-memory store.Storage, useful for tests and for
// local development without a database. It applies every write
// synchronously and never actually needs batch mode, but implements
// store.Batcher anyway so it can stand in for a SQL-backed store in tests
// that exercise the batch-mode API surface.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/biocommons/anyvar-go/rangeindex"
	"github.com/biocommons/anyvar-go/store"
	"github.com/biocommons/anyvar-go/vrs"
)

// Store is a goroutine-safe, in-memory implementation of store.Storage.
type Store struct {
	mu sync.RWMutex

	variations map[string]vrs.Variation
	locations  map[string]*vrs.SequenceLocation

	mappings    []store.Mapping
	annotations map[int64]store.Annotation
	nextAnnID   int64
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		variations:  make(map[string]vrs.Variation),
		locations:   make(map[string]*vrs.SequenceLocation),
		annotations: make(map[int64]store.Annotation),
	}
}

var _ store.Batcher = (*Store)(nil)

func (s *Store) Close(context.Context) error { return nil }

// WaitForWrites is a no-op: every write in Store is already synchronous.
func (s *Store) WaitForWrites(context.Context) error { return nil }

func (s *Store) WipeDB(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.variations = make(map[string]vrs.Variation)
	s.locations = make(map[string]*vrs.SequenceLocation)
	s.mappings = nil
	s.annotations = make(map[int64]store.Annotation)
	s.nextAnnID = 0
	return nil
}

func (s *Store) AddObjects(ctx context.Context, variations ...vrs.Variation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range variations {
		d, err := vrs.Decompose(v)
		if err != nil {
			return fmt.Errorf("add object: %w: %w", store.ErrIncompleteObject, err)
		}
		loc := d.Location
		s.locations[loc.ID] = &loc
		id, err := variationID(v)
		if err != nil {
			return err
		}
		s.variations[id] = v
	}
	return nil
}

func variationID(v vrs.Variation) (string, error) {
	switch o := v.(type) {
	case *vrs.Allele:
		return o.ID, nil
	case *vrs.CopyNumberCount:
		return o.ID, nil
	case *vrs.CopyNumberChange:
		return o.ID, nil
	default:
		return "", fmt.Errorf("unsupported variation type %T", v)
	}
}

func (s *Store) GetObject(ctx context.Context, id string) (vrs.Variation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.variations[id], nil
}

func (s *Store) GetAllObjectIDs(ctx context.Context, typ store.ObjectType) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var ids []string
	for id, v := range s.variations {
		if typ == "" || matchesType(v, typ) {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *Store) GetObjectCount(ctx context.Context, typ store.ObjectType) (int64, error) {
	ids, err := s.GetAllObjectIDs(ctx, typ)
	if err != nil {
		return 0, err
	}
	return int64(len(ids)), nil
}

func matchesType(v vrs.Variation, typ store.ObjectType) bool {
	switch v.(type) {
	case *vrs.Allele:
		return typ == store.ObjectTypeAllele
	case *vrs.CopyNumberCount:
		return typ == store.ObjectTypeCopyNumberCount
	case *vrs.CopyNumberChange:
		return typ == store.ObjectTypeCopyNumberChange
	default:
		return false
	}
}

func (s *Store) DeleteObjects(ctx context.Context, ids ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		delete(s.variations, id)
	}
	return nil
}

func (s *Store) AddMapping(ctx context.Context, m store.Mapping) error {
	if m.SourceID == m.DestID {
		return fmt.Errorf("add mapping: %w: %s", store.ErrSelfMapping, m.SourceID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.variations[m.SourceID]; !ok {
		return fmt.Errorf("add mapping: %w: source %s", store.ErrMissingReference, m.SourceID)
	}
	if _, ok := s.variations[m.DestID]; !ok {
		return fmt.Errorf("add mapping: %w: dest %s", store.ErrMissingReference, m.DestID)
	}
	for _, existing := range s.mappings {
		if existing == m {
			return nil
		}
	}
	s.mappings = append(s.mappings, m)
	return nil
}

func (s *Store) DeleteMapping(ctx context.Context, sourceID, destID string, typ store.MappingType) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.mappings[:0]
	for _, m := range s.mappings {
		if m.SourceID == sourceID && m.DestID == destID && m.Type == typ {
			continue
		}
		out = append(out, m)
	}
	s.mappings = out
	return nil
}

func (s *Store) GetMappings(ctx context.Context, id string, typ store.MappingType) ([]store.Mapping, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []store.Mapping
	for _, m := range s.mappings {
		if m.SourceID != id {
			continue
		}
		if typ != "" && m.Type != typ {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

func (s *Store) AddAnnotation(ctx context.Context, a store.Annotation) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextAnnID++
	a.ID = s.nextAnnID
	s.annotations[a.ID] = a
	return a.ID, nil
}

func (s *Store) DeleteAnnotation(ctx context.Context, annotationID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.annotations, annotationID)
	return nil
}

func (s *Store) GetAnnotations(ctx context.Context, id string, typ string) ([]store.Annotation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []store.Annotation
	for _, a := range s.annotations {
		if a.VariationID != id {
			continue
		}
		if typ != "" && a.Type != typ {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// SearchAlleles implements spec §4.4's outer-bound overlap semantics: an
// allele matches if its location's outer bounds overlap [q.Start, q.End].
func (s *Store) SearchAlleles(ctx context.Context, q store.RangeQuery) ([]*vrs.Allele, error) {
	bounds := rangeindex.Bounds{RefgetAccession: q.RefgetAccession, Start: q.Start, End: q.End}
	if err := bounds.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", store.ErrInvalidSearchParams, err)
	}
	if q.Limit < 0 {
		return nil, store.ErrInvalidSearchParams
	}
	limit := rangeindex.ClampLimit(q.Limit)

	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*vrs.Allele
	for _, v := range s.variations {
		a, ok := v.(*vrs.Allele)
		if !ok {
			continue
		}
		loc := a.Location
		if loc == nil {
			continue
		}
		start, ok := loc.Start.Outer(true)
		if !ok {
			continue
		}
		end, ok := loc.End.Outer(false)
		if !ok {
			continue
		}
		if rangeindex.Overlaps(bounds, loc.SequenceReference.RefgetAccession, start, end) {
			out = append(out, a)
			if len(out) >= limit {
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// BeginBatch returns a handle that writes straight through to s: the
// in-memory backend has no durability lag to buffer against, so batch mode
// degenerates to direct mode while still satisfying store.Batcher.
func (s *Store) BeginBatch(ctx context.Context) (store.BatchHandle, error) {
	return batchHandle{s}, nil
}

type batchHandle struct {
	*Store
}

func (b batchHandle) EndBatch(ctx context.Context, flushOnExit bool) error {
	if flushOnExit {
		return b.Store.WaitForWrites(ctx)
	}
	return nil
}
