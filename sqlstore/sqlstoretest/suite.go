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

// Package sqlstoretest is a shared store.Storage conformance suite run by
// both sqlstore/pgdialect and sqlstore/mysqldialect's flag-gated
// integration tests against a live database, so the two backends are held
// to identical behavior without duplicating the suite itself.
package sqlstoretest

import (
	"context"
	"errors"
	"testing"

	"github.com/biocommons/anyvar-go/sqlstore"
	"github.com/biocommons/anyvar-go/store"
	"github.com/biocommons/anyvar-go/vrs"
)

// Run exercises the store.Storage contract against s, which must start out
// with an empty (or already-initialized) schema.
func Run(t *testing.T, s *sqlstore.Storage) {
	ctx := context.Background()
	t.Cleanup(func() {
		if err := s.WipeDB(ctx); err != nil {
			t.Errorf("cleanup WipeDB: %v", err)
		}
	})

	loc := vrs.NewSequenceLocation("ga4gh:SQ.suite", vrs.IntCoordinate(100), vrs.IntCoordinate(101))
	a := vrs.NewAllele(loc, vrs.LiteralSequenceExpression{Type: vrs.TypeLiteralSequenceExpression, Sequence: "T"})
	if err := vrs.RecursiveIdentify(a); err != nil {
		t.Fatalf("RecursiveIdentify: %v", err)
	}

	if err := s.AddObjects(ctx, a); err != nil {
		t.Fatalf("AddObjects: %v", err)
	}
	if err := s.AddObjects(ctx, a); err != nil {
		t.Fatalf("AddObjects (re-registration): %v", err)
	}

	got, err := s.GetObject(ctx, a.ID)
	if err != nil {
		t.Fatalf("GetObject: %v", err)
	}
	if got == nil {
		t.Fatal("expected to find the registered allele")
	}
	if gotAllele := got.(*vrs.Allele); gotAllele.ID != a.ID {
		t.Fatalf("got wrong allele: %+v", gotAllele)
	}

	n, err := s.GetObjectCount(ctx, store.ObjectTypeAllele)
	if err != nil {
		t.Fatalf("GetObjectCount: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 allele after re-registration, got %d", n)
	}

	results, err := s.SearchAlleles(ctx, store.RangeQuery{RefgetAccession: "ga4gh:SQ.suite", Start: 50, End: 150, Limit: 10})
	if err != nil {
		t.Fatalf("SearchAlleles: %v", err)
	}
	if len(results) != 1 || results[0].ID != a.ID {
		t.Fatalf("unexpected search result: %+v", results)
	}

	annID, err := s.AddAnnotation(ctx, store.Annotation{VariationID: a.ID, Type: "vcf-source", Value: []byte(`{"chrom":"1"}`)})
	if err != nil {
		t.Fatalf("AddAnnotation: %v", err)
	}
	if annID == 0 {
		t.Fatal("expected a non-zero assigned annotation ID")
	}
	anns, err := s.GetAnnotations(ctx, a.ID, "")
	if err != nil {
		t.Fatalf("GetAnnotations: %v", err)
	}
	if len(anns) != 1 {
		t.Fatalf("expected 1 annotation, got %d", len(anns))
	}
	if err := s.DeleteAnnotation(ctx, annID); err != nil {
		t.Fatalf("DeleteAnnotation: %v", err)
	}

	liftedLoc := vrs.NewSequenceLocation("ga4gh:SQ.suite", vrs.IntCoordinate(200), vrs.IntCoordinate(201))
	lifted := vrs.NewAllele(liftedLoc, vrs.LiteralSequenceExpression{Type: vrs.TypeLiteralSequenceExpression, Sequence: "T"})
	if err := vrs.RecursiveIdentify(lifted); err != nil {
		t.Fatalf("RecursiveIdentify (lifted): %v", err)
	}
	if err := s.AddObjects(ctx, lifted); err != nil {
		t.Fatalf("AddObjects (lifted): %v", err)
	}

	if err := s.AddMapping(ctx, store.Mapping{SourceID: a.ID, DestID: a.ID, Type: store.MappingTypeLiftover}); !errors.Is(err, store.ErrSelfMapping) {
		t.Fatalf("AddMapping self-mapping: got %v, want ErrSelfMapping", err)
	}
	if err := s.AddMapping(ctx, store.Mapping{SourceID: a.ID, DestID: "ga4gh:VA.nonexistent", Type: store.MappingTypeLiftover}); !errors.Is(err, store.ErrMissingReference) {
		t.Fatalf("AddMapping missing reference: got %v, want ErrMissingReference", err)
	}

	m := store.Mapping{SourceID: a.ID, DestID: lifted.ID, Type: store.MappingTypeLiftover}
	if err := s.AddMapping(ctx, m); err != nil {
		t.Fatalf("AddMapping: %v", err)
	}
	mappings, err := s.GetMappings(ctx, a.ID, "")
	if err != nil {
		t.Fatalf("GetMappings: %v", err)
	}
	if len(mappings) != 1 {
		t.Fatalf("expected 1 mapping, got %d", len(mappings))
	}
	if _, err := s.GetMappings(ctx, a.ID, store.MappingTypeTranslation); err != nil {
		t.Fatalf("GetMappings by type: %v", err)
	}
	if err := s.DeleteMapping(ctx, m.SourceID, m.DestID, m.Type); err != nil {
		t.Fatalf("DeleteMapping: %v", err)
	}

	if err := s.DeleteObjects(ctx, a.ID); err != nil {
		t.Fatalf("DeleteObjects: %v", err)
	}
	got, err = s.GetObject(ctx, a.ID)
	if err != nil {
		t.Fatalf("GetObject after delete: %v", err)
	}
	if got != nil {
		t.Fatalf("expected object to be gone after DeleteObjects, got %+v", got)
	}
}

// RunBatch exercises a batch-mode write against s.
func RunBatch(t *testing.T, s *sqlstore.Storage) {
	ctx := context.Background()
	t.Cleanup(func() {
		if err := s.WipeDB(ctx); err != nil {
			t.Errorf("cleanup WipeDB: %v", err)
		}
	})

	loc := vrs.NewSequenceLocation("ga4gh:SQ.batch", vrs.IntCoordinate(1), vrs.IntCoordinate(2))
	a := vrs.NewAllele(loc, vrs.LiteralSequenceExpression{Type: vrs.TypeLiteralSequenceExpression, Sequence: "A"})
	if err := vrs.RecursiveIdentify(a); err != nil {
		t.Fatalf("RecursiveIdentify: %v", err)
	}

	err := store.RunBatch(ctx, s, true, func(ctx context.Context, bh store.BatchHandle) error {
		return bh.AddObjects(ctx, a)
	})
	if err != nil {
		t.Fatalf("RunBatch: %v", err)
	}

	got, err := s.GetObject(ctx, a.ID)
	if err != nil {
		t.Fatalf("GetObject: %v", err)
	}
	if got == nil {
		t.Fatal("expected the batch-mode write to be visible after flushOnExit")
	}
}

// RunBatchMapping exercises AddMapping called within the same batch scope
// as the AddObjects call that registers its endpoints, verifying the
// batch handle flushes queued writes before checking mapping endpoints
// exist.
func RunBatchMapping(t *testing.T, s *sqlstore.Storage) {
	ctx := context.Background()
	t.Cleanup(func() {
		if err := s.WipeDB(ctx); err != nil {
			t.Errorf("cleanup WipeDB: %v", err)
		}
	})

	srcLoc := vrs.NewSequenceLocation("ga4gh:SQ.batchmapping", vrs.IntCoordinate(1), vrs.IntCoordinate(2))
	src := vrs.NewAllele(srcLoc, vrs.LiteralSequenceExpression{Type: vrs.TypeLiteralSequenceExpression, Sequence: "A"})
	if err := vrs.RecursiveIdentify(src); err != nil {
		t.Fatalf("RecursiveIdentify (src): %v", err)
	}
	dstLoc := vrs.NewSequenceLocation("ga4gh:SQ.batchmapping", vrs.IntCoordinate(10), vrs.IntCoordinate(11))
	dst := vrs.NewAllele(dstLoc, vrs.LiteralSequenceExpression{Type: vrs.TypeLiteralSequenceExpression, Sequence: "G"})
	if err := vrs.RecursiveIdentify(dst); err != nil {
		t.Fatalf("RecursiveIdentify (dst): %v", err)
	}

	err := store.RunBatch(ctx, s, true, func(ctx context.Context, bh store.BatchHandle) error {
		if err := bh.AddObjects(ctx, src, dst); err != nil {
			return err
		}
		return bh.AddMapping(ctx, store.Mapping{SourceID: src.ID, DestID: dst.ID, Type: store.MappingTypeLiftover})
	})
	if err != nil {
		t.Fatalf("RunBatch: %v", err)
	}

	mappings, err := s.GetMappings(ctx, src.ID, "")
	if err != nil {
		t.Fatalf("GetMappings: %v", err)
	}
	if len(mappings) != 1 {
		t.Fatalf("expected the mapping added within the batch scope to be visible, got %v", mappings)
	}
}
