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
	"fmt"

	"github.com/biocommons/anyvar-go/liftover"
	"github.com/biocommons/anyvar-go/store"
	"github.com/biocommons/anyvar-go/translate"
	"github.com/biocommons/anyvar-go/vrs"
)

// Registrar translates and stores VRS objects for a single VCF record's
// allele, the Go counterpart of VcfRegistrar._get_vrs_object.
type Registrar struct {
	Storage    store.Storage
	Translator translate.Translator

	// Liftover, if non-nil, additionally lifts each registered allele's
	// location to the other reference assembly and records the two
	// alleles' IDs as a liftover Mapping.
	Liftover *liftover.Client
}

// RegisterResult is the outcome of registering a single VCF allele slot.
// Messages accumulates non-fatal problems (a failed translation, a failed
// liftover) the way the PUT /variation response's messages[] field does;
// ID is empty when translation failed for this slot.
type RegisterResult struct {
	ID       string
	Messages []string
}

// Register translates a single ALT allele's VCF coordinates and stores the
// resulting Allele, returning its ID. If computeForRef is true and
// coords.Alt equals coords.Ref, the returned Allele represents the
// reference (non-variant) call.
//
// A translation failure for this slot is not returned as an error: per
// spec §4.5 step 2 it is recorded as a message on the result (ID left
// empty) so the caller can continue annotating the remaining sites. Only
// a failure to persist an already-translated allele (a storage-layer
// problem, not a per-site data problem) is returned as an error.
func (r *Registrar) Register(ctx context.Context, coords translate.VCFCoordinates, computeForRef bool) (RegisterResult, error) {
	allele, err := r.Translator.TranslateVCF(ctx, coords, computeForRef)
	if err != nil {
		msg := fmt.Sprintf("translate %s-%d-%s-%s: %v", coords.Chrom, coords.Pos, coords.Ref, coords.Alt, err)
		return RegisterResult{Messages: []string{msg}}, nil
	}
	if allele == nil {
		msg := fmt.Sprintf("%v: %s-%d-%s-%s", ErrTranslationFailed, coords.Chrom, coords.Pos, coords.Ref, coords.Alt)
		return RegisterResult{Messages: []string{msg}}, nil
	}
	if err := r.Storage.AddObjects(ctx, allele); err != nil {
		return RegisterResult{}, fmt.Errorf("vcfpipeline: store allele %s: %w", allele.ID, err)
	}

	result := RegisterResult{ID: allele.ID}
	if r.Liftover != nil {
		if msg := r.registerLiftover(ctx, allele); msg != "" {
			result.Messages = append(result.Messages, msg)
		}
	}
	return result, nil
}

// registerLiftover lifts allele to the other reference assembly and
// records it plus a liftover Mapping. Per spec §4.5, failure of any step
// here is surfaced as a returned message; it never aborts registration of
// the source allele, so this never returns an error.
func (r *Registrar) registerLiftover(ctx context.Context, allele *vrs.Allele) string {
	lifted, err := r.Liftover.Liftover(ctx, allele.Location)
	if err != nil {
		return fmt.Sprintf("liftover %s: %v", allele.ID, err)
	}
	liftedAllele := vrs.NewAllele(lifted, allele.State)
	if err := vrs.RecursiveIdentify(liftedAllele); err != nil {
		return fmt.Sprintf("liftover %s: identify lifted allele: %v", allele.ID, err)
	}
	if err := r.Storage.AddObjects(ctx, liftedAllele); err != nil {
		return fmt.Sprintf("liftover %s: store lifted allele %s: %v", allele.ID, liftedAllele.ID, err)
	}
	if err := r.Storage.AddMapping(ctx, store.Mapping{
		SourceID: allele.ID,
		DestID:   liftedAllele.ID,
		Type:     store.MappingTypeLiftover,
	}); err != nil {
		return fmt.Sprintf("liftover %s: record mapping to %s: %v", allele.ID, liftedAllele.ID, err)
	}
	return ""
}
