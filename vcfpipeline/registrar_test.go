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
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/biocommons/anyvar-go/liftover"
	"github.com/biocommons/anyvar-go/memstore"
	"github.com/biocommons/anyvar-go/translate"
	"github.com/biocommons/anyvar-go/vrs"
)

// failingAliasResolver always fails alias resolution, simulating a
// liftover collaborator outage without a real sequence data proxy.
type failingAliasResolver struct{}

func (failingAliasResolver) AliasesInAssembly(ctx context.Context, refgetAccession, assembly string) ([]string, error) {
	return nil, errors.New("simulated alias resolver failure")
}

func (failingAliasResolver) AccessionForAlias(ctx context.Context, alias string) (string, error) {
	return "", errors.New("simulated alias resolver failure")
}

// fakeTranslator builds a deterministic Allele for any VCF coordinate
// without needing a reference sequence data proxy.
type fakeTranslator struct {
	refAccession string
	failOn       string
	emptyOn      string
}

func (f *fakeTranslator) TranslateVCF(ctx context.Context, coords translate.VCFCoordinates, computeForRef bool) (*vrs.Allele, error) {
	key := fmt.Sprintf("%s-%d-%s-%s", coords.Chrom, coords.Pos, coords.Ref, coords.Alt)
	if f.failOn == key {
		return nil, errors.New("simulated translation failure")
	}
	if f.emptyOn == key {
		return nil, nil
	}
	loc := vrs.NewSequenceLocation(f.refAccession, vrs.IntCoordinate(coords.Pos-1), vrs.IntCoordinate(coords.Pos-1+int64(len(coords.Ref))))
	allele := vrs.NewAllele(loc, vrs.LiteralSequenceExpression{Type: vrs.TypeLiteralSequenceExpression, Sequence: coords.Alt})
	if err := vrs.RecursiveIdentify(allele); err != nil {
		return nil, err
	}
	return allele, nil
}

func (f *fakeTranslator) TranslateHGVS(ctx context.Context, hgvs string) (vrs.Variation, error) {
	return nil, translate.ErrNotImplemented
}

func TestRegistrar_Register(t *testing.T) {
	st := memstore.New()
	r := &Registrar{Storage: st, Translator: &fakeTranslator{refAccession: "ga4gh:SQ.test"}}

	result, err := r.Register(context.Background(), translate.VCFCoordinates{Chrom: "1", Pos: 100, Ref: "A", Alt: "G", Assembly: "GRCh38"}, false)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if result.ID == "" {
		t.Fatal("expected non-empty allele ID")
	}
	if len(result.Messages) != 0 {
		t.Fatalf("expected no messages, got %v", result.Messages)
	}
	got, err := st.GetObject(context.Background(), result.ID)
	if err != nil {
		t.Fatalf("GetObject: %v", err)
	}
	if got == nil {
		t.Fatal("expected registered allele to be retrievable")
	}
}

// A translation failure is recorded as a message, not a returned error, so
// the caller can keep processing the remaining sites in a run.
func TestRegistrar_TranslationFailureIsRecordedAsMessage(t *testing.T) {
	st := memstore.New()
	r := &Registrar{Storage: st, Translator: &fakeTranslator{refAccession: "ga4gh:SQ.test", failOn: "1-100-A-G"}}

	result, err := r.Register(context.Background(), translate.VCFCoordinates{Chrom: "1", Pos: 100, Ref: "A", Alt: "G"}, false)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.ID != "" {
		t.Fatalf("expected empty ID for a failed translation, got %q", result.ID)
	}
	if len(result.Messages) != 1 {
		t.Fatalf("expected exactly 1 message, got %v", result.Messages)
	}
}

func TestRegistrar_EmptyTranslationIsErrTranslationFailed(t *testing.T) {
	st := memstore.New()
	r := &Registrar{Storage: st, Translator: &fakeTranslator{refAccession: "ga4gh:SQ.test", emptyOn: "1-100-A-G"}}

	result, err := r.Register(context.Background(), translate.VCFCoordinates{Chrom: "1", Pos: 100, Ref: "A", Alt: "G"}, false)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.ID != "" {
		t.Fatalf("expected empty ID for a failed translation, got %q", result.ID)
	}
	if len(result.Messages) != 1 || !strings.Contains(result.Messages[0], ErrTranslationFailed.Error()) {
		t.Fatalf("expected a message mentioning %v, got %v", ErrTranslationFailed, result.Messages)
	}
}

// A liftover failure must not abort registration of the already-stored
// source allele; it is surfaced as a message instead.
func TestRegistrar_LiftoverFailureDoesNotAbortRegistration(t *testing.T) {
	st := memstore.New()
	r := &Registrar{
		Storage:    st,
		Translator: &fakeTranslator{refAccession: "ga4gh:SQ.test"},
		Liftover:   &liftover.Client{Aliases: failingAliasResolver{}},
	}

	result, err := r.Register(context.Background(), translate.VCFCoordinates{Chrom: "1", Pos: 100, Ref: "A", Alt: "G"}, false)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.ID == "" {
		t.Fatal("expected the source allele to still be registered")
	}
	if len(result.Messages) != 1 {
		t.Fatalf("expected exactly 1 liftover-failure message, got %v", result.Messages)
	}
	got, err := st.GetObject(context.Background(), result.ID)
	if err != nil {
		t.Fatalf("GetObject: %v", err)
	}
	if got == nil {
		t.Fatal("expected the source allele to be retrievable despite the liftover failure")
	}
}
