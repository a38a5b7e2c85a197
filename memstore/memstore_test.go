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

package memstore

import (
	"context"
	"errors"
	"testing"

	"github.com/biocommons/anyvar-go/store"
	"github.com/biocommons/anyvar-go/vrs"
)

func mustAllele(t *testing.T, refget string, start, end int64, seq string) *vrs.Allele {
	t.Helper()
	loc := vrs.NewSequenceLocation(refget, vrs.IntCoordinate(start), vrs.IntCoordinate(end))
	a := vrs.NewAllele(loc, vrs.LiteralSequenceExpression{Type: vrs.TypeLiteralSequenceExpression, Sequence: seq})
	if err := vrs.RecursiveIdentify(a); err != nil {
		t.Fatalf("RecursiveIdentify: %v", err)
	}
	return a
}

func TestAddAndGetObject(t *testing.T) {
	ctx := context.Background()
	s := New()
	a := mustAllele(t, "ga4gh:SQ.abc", 10, 11, "T")
	if err := s.AddObjects(ctx, a); err != nil {
		t.Fatalf("AddObjects: %v", err)
	}
	got, err := s.GetObject(ctx, a.ID)
	if err != nil {
		t.Fatalf("GetObject: %v", err)
	}
	if got == nil {
		t.Fatal("expected object to be found")
	}
	if got.(*vrs.Allele).ID != a.ID {
		t.Fatalf("got wrong allele back: %+v", got)
	}
}

func TestAddObjectsIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := New()
	a := mustAllele(t, "ga4gh:SQ.abc", 10, 11, "T")
	if err := s.AddObjects(ctx, a); err != nil {
		t.Fatal(err)
	}
	if err := s.AddObjects(ctx, a); err != nil {
		t.Fatal(err)
	}
	n, err := s.GetObjectCount(ctx, store.ObjectTypeAllele)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("expected 1 allele after duplicate add, got %d", n)
	}
}

func TestDeleteObjects(t *testing.T) {
	ctx := context.Background()
	s := New()
	a := mustAllele(t, "ga4gh:SQ.abc", 10, 11, "T")
	if err := s.AddObjects(ctx, a); err != nil {
		t.Fatal(err)
	}
	if err := s.DeleteObjects(ctx, a.ID); err != nil {
		t.Fatal(err)
	}
	got, err := s.GetObject(ctx, a.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Fatalf("expected object to be deleted, got %+v", got)
	}
	// Deleting an unknown ID is not an error.
	if err := s.DeleteObjects(ctx, "ga4gh:VA.doesnotexist"); err != nil {
		t.Fatalf("delete of unknown id should not error: %v", err)
	}
}

func TestMappings(t *testing.T) {
	ctx := context.Background()
	s := New()
	src := mustAllele(t, "ga4gh:SQ.abc", 10, 11, "T")
	dst := mustAllele(t, "ga4gh:SQ.abc", 20, 21, "G")
	if err := s.AddObjects(ctx, src, dst); err != nil {
		t.Fatal(err)
	}

	m := store.Mapping{SourceID: src.ID, DestID: dst.ID, Type: store.MappingTypeLiftover}
	if err := s.AddMapping(ctx, m); err != nil {
		t.Fatal(err)
	}
	// Adding the identical mapping twice should not duplicate it.
	if err := s.AddMapping(ctx, m); err != nil {
		t.Fatal(err)
	}
	got, err := s.GetMappings(ctx, src.ID, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("expected exactly 1 mapping, got %d", len(got))
	}
	// The mapping is one-way: the destination is not itself a source.
	got, err = s.GetMappings(ctx, dst.ID, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no mappings keyed on the destination, got %+v", got)
	}
	// An unrelated type filter excludes the mapping.
	got, err = s.GetMappings(ctx, src.ID, store.MappingTypeTranslation)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no mappings for an unrelated type, got %+v", got)
	}

	if err := s.DeleteMapping(ctx, m.SourceID, m.DestID, m.Type); err != nil {
		t.Fatal(err)
	}
	got, err = s.GetMappings(ctx, src.ID, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Fatalf("expected mapping to be deleted, got %+v", got)
	}
}

func TestAddMapping_RejectsSelfMapping(t *testing.T) {
	ctx := context.Background()
	s := New()
	a := mustAllele(t, "ga4gh:SQ.abc", 10, 11, "T")
	if err := s.AddObjects(ctx, a); err != nil {
		t.Fatal(err)
	}
	err := s.AddMapping(ctx, store.Mapping{SourceID: a.ID, DestID: a.ID, Type: store.MappingTypeLiftover})
	if !errors.Is(err, store.ErrSelfMapping) {
		t.Fatalf("got %v, want ErrSelfMapping", err)
	}
}

func TestAddMapping_RejectsMissingReference(t *testing.T) {
	ctx := context.Background()
	s := New()
	a := mustAllele(t, "ga4gh:SQ.abc", 10, 11, "T")
	if err := s.AddObjects(ctx, a); err != nil {
		t.Fatal(err)
	}
	err := s.AddMapping(ctx, store.Mapping{SourceID: a.ID, DestID: "ga4gh:VA.doesnotexist", Type: store.MappingTypeLiftover})
	if !errors.Is(err, store.ErrMissingReference) {
		t.Fatalf("got %v, want ErrMissingReference for missing dest", err)
	}
	err = s.AddMapping(ctx, store.Mapping{SourceID: "ga4gh:VA.doesnotexist", DestID: a.ID, Type: store.MappingTypeLiftover})
	if !errors.Is(err, store.ErrMissingReference) {
		t.Fatalf("got %v, want ErrMissingReference for missing source", err)
	}
}

func TestAnnotations(t *testing.T) {
	ctx := context.Background()
	s := New()
	id, err := s.AddAnnotation(ctx, store.Annotation{VariationID: "ga4gh:VA.abc", Type: "vcf-source", Value: []byte(`{"chrom":"1"}`)})
	if err != nil {
		t.Fatal(err)
	}
	if id == 0 {
		t.Fatal("expected a non-zero assigned annotation ID")
	}
	got, err := s.GetAnnotations(ctx, "ga4gh:VA.abc", "vcf-source")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 annotation, got %d", len(got))
	}
	if err := s.DeleteAnnotation(ctx, id); err != nil {
		t.Fatal(err)
	}
	got, err = s.GetAnnotations(ctx, "ga4gh:VA.abc", "")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Fatalf("expected annotation to be deleted, got %+v", got)
	}
}

func TestSearchAlleles(t *testing.T) {
	ctx := context.Background()
	s := New()
	inRange := mustAllele(t, "ga4gh:SQ.chr1", 100, 110, "A")
	outOfRange := mustAllele(t, "ga4gh:SQ.chr1", 500, 510, "G")
	otherRef := mustAllele(t, "ga4gh:SQ.chr2", 100, 110, "C")
	if err := s.AddObjects(ctx, inRange, outOfRange, otherRef); err != nil {
		t.Fatal(err)
	}

	got, err := s.SearchAlleles(ctx, store.RangeQuery{RefgetAccession: "ga4gh:SQ.chr1", Start: 95, End: 120, Limit: 10})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ID != inRange.ID {
		t.Fatalf("unexpected search result: %+v", got)
	}
}

func TestSearchAlleles_RejectsInvalidParams(t *testing.T) {
	ctx := context.Background()
	s := New()
	if _, err := s.SearchAlleles(ctx, store.RangeQuery{RefgetAccession: "x", Start: 10, End: 5, Limit: 10}); err == nil {
		t.Fatal("expected error for Start > End")
	}
	if _, err := s.SearchAlleles(ctx, store.RangeQuery{RefgetAccession: "x", Start: 1, End: 5, Limit: -1}); err == nil {
		t.Fatal("expected error for negative Limit")
	}
	if _, err := s.SearchAlleles(ctx, store.RangeQuery{RefgetAccession: "", Start: 1, End: 5, Limit: 10}); err == nil {
		t.Fatal("expected error for empty refget accession")
	}
}

func TestRunBatch(t *testing.T) {
	ctx := context.Background()
	s := New()
	a := mustAllele(t, "ga4gh:SQ.abc", 10, 11, "T")
	err := store.RunBatch(ctx, s, true, func(ctx context.Context, bh store.BatchHandle) error {
		return bh.AddObjects(ctx, a)
	})
	if err != nil {
		t.Fatalf("RunBatch: %v", err)
	}
	got, err := s.GetObject(ctx, a.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got == nil {
		t.Fatal("expected object written via batch handle to be visible")
	}
}
