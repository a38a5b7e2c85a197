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

package vcfpipeline

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/biocommons/anyvar-go/memstore"
	"github.com/biocommons/anyvar-go/store"
)

func TestAnnotateVCF_WritesAlleleIDs(t *testing.T) {
	st := memstore.New()
	r := &Registrar{Storage: st, Translator: &fakeTranslator{refAccession: "ga4gh:SQ.test"}}

	var out bytes.Buffer
	err := AnnotateVCF(context.Background(), r, strings.NewReader(sampleVCF), &out, AnnotateOptions{Assembly: "GRCh38"})
	if err != nil {
		t.Fatalf("AnnotateVCF: %v", err)
	}

	reader := NewReader(&out)
	rec, err := reader.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	ids, ok := rec.InfoValue(VRSAlleleIDsInfoKey)
	if !ok {
		t.Fatal("expected VRS_Allele_IDs to be set")
	}
	idList := strings.Split(ids, ",")
	if len(idList) != 2 {
		t.Fatalf("expected 2 allele IDs (one per ALT), got %v", idList)
	}
	for _, id := range idList {
		if !strings.HasPrefix(id, "ga4gh:VA.") {
			t.Fatalf("unexpected allele ID %q", id)
		}
	}

	count, err := st.GetObjectCount(context.Background(), store.ObjectTypeAllele)
	if err != nil {
		t.Fatalf("GetObjectCount: %v", err)
	}
	if count != 2 {
		t.Fatalf("GetObjectCount = %d, want 2", count)
	}
}

// A translation failure on one ALT must not abort annotation of the rest
// of the file: the failing slot gets an empty ID and a VRS_Error message
// while its sibling ALT still registers normally.
func TestAnnotateVCF_RecordsPerSiteTranslationFailure(t *testing.T) {
	st := memstore.New()
	r := &Registrar{Storage: st, Translator: &fakeTranslator{refAccession: "ga4gh:SQ.test", failOn: "1-100-A-G"}}

	var out bytes.Buffer
	err := AnnotateVCF(context.Background(), r, strings.NewReader(sampleVCF), &out, AnnotateOptions{Assembly: "GRCh38"})
	if err != nil {
		t.Fatalf("expected AnnotateVCF to succeed despite one failing site, got %v", err)
	}

	reader := NewReader(&out)
	rec, err := reader.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	ids, ok := rec.InfoValue(VRSAlleleIDsInfoKey)
	if !ok {
		t.Fatal("expected VRS_Allele_IDs to be set")
	}
	idList := strings.Split(ids, ",")
	if len(idList) != 2 {
		t.Fatalf("expected 2 allele ID slots (one per ALT), got %v", idList)
	}
	if idList[0] != "" {
		t.Fatalf("expected the failed G slot's ID to be empty, got %q", idList[0])
	}
	if !strings.HasPrefix(idList[1], "ga4gh:VA.") {
		t.Fatalf("expected the T slot to still register, got %q", idList[1])
	}

	msg, ok := rec.InfoValue(VRSErrorInfoKey)
	if !ok || msg == "" {
		t.Fatal("expected VRS_Error to be set for the failing slot")
	}

	count, err := st.GetObjectCount(context.Background(), store.ObjectTypeAllele)
	if err != nil {
		t.Fatalf("GetObjectCount: %v", err)
	}
	if count != 1 {
		t.Fatalf("GetObjectCount = %d, want 1 (only the successful ALT)", count)
	}
}

func TestIngestAnnotatedVCF_SkipsUnannotatedByDefault(t *testing.T) {
	st := memstore.New()
	r := &Registrar{Storage: st, Translator: &fakeTranslator{refAccession: "ga4gh:SQ.test"}}

	conflicts, err := IngestAnnotatedVCF(context.Background(), r, strings.NewReader(sampleVCF), IngestOptions{Assembly: "GRCh38"})
	if err != nil {
		t.Fatalf("IngestAnnotatedVCF: %v", err)
	}
	if len(conflicts) != 0 {
		t.Fatalf("expected no conflicts, got %v", conflicts)
	}
	count, err := st.GetObjectCount(context.Background(), store.ObjectTypeAllele)
	if err != nil {
		t.Fatalf("GetObjectCount: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected unannotated record to be skipped, got %d objects", count)
	}
}

func TestIngestAnnotatedVCF_RequireValidationRejectsMissingAnnotation(t *testing.T) {
	st := memstore.New()
	r := &Registrar{Storage: st, Translator: &fakeTranslator{refAccession: "ga4gh:SQ.test"}}

	_, err := IngestAnnotatedVCF(context.Background(), r, strings.NewReader(sampleVCF), IngestOptions{Assembly: "GRCh38", RequireValidation: true})
	if !errors.Is(err, ErrRequiredAnnotationsMissing) {
		t.Fatalf("expected ErrRequiredAnnotationsMissing, got %v", err)
	}
}

func TestIngestAnnotatedVCF_DetectsConflict(t *testing.T) {
	st := memstore.New()
	r := &Registrar{Storage: st, Translator: &fakeTranslator{refAccession: "ga4gh:SQ.test"}}

	annotated := "##fileformat=VCFv4.2\n#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\n1\t100\t.\tA\tG,T\t.\tPASS\tVRS_Allele_IDs=ga4gh:VA.bogus1,ga4gh:VA.bogus2\n"

	conflicts, err := IngestAnnotatedVCF(context.Background(), r, strings.NewReader(annotated), IngestOptions{Assembly: "GRCh38", RequireValidation: true})
	if err != nil {
		t.Fatalf("IngestAnnotatedVCF: %v", err)
	}
	if len(conflicts) != 2 {
		t.Fatalf("expected 2 conflicts (recomputed IDs differ from bogus annotations), got %d: %v", len(conflicts), conflicts)
	}
}
