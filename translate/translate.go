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

// Package translate defines the contract a variation translator must
// satisfy to be used by the VCF annotation pipeline and the HTTP-facing
// registration paths. The translator itself -- VCF coordinates or HGVS
// text to a vrs.Variation, backed by a reference sequence data proxy --
// is explicitly out of scope; this package exists so the rest of the
// module can depend on its shape without depending on an implementation.
package translate

import (
	"context"
	"errors"

	"github.com/biocommons/anyvar-go/vrs"
)

// VCFCoordinates is the minimal representation of a VCF data line's
// variant coordinates needed to translate it into a Variation.
type VCFCoordinates struct {
	Chrom string
	Pos   int64
	Ref   string
	Alt   string
	// Assembly names the reference assembly Chrom/Pos are expressed in,
	// e.g. "GRCh38".
	Assembly string
}

// Translator converts external variant representations into identified
// VRS Variations.
type Translator interface {
	// TranslateVCF converts a single VCF data line's coordinates into an
	// Allele for coords.Alt located on the appropriate SequenceReference.
	// It returns one Allele per call, never a second one for the reference
	// allele; computeForRef is passed through from the caller.
	TranslateVCF(ctx context.Context, coords VCFCoordinates, computeForRef bool) (*vrs.Allele, error)

	// TranslateHGVS converts an HGVS expression into a Variation.
	TranslateHGVS(ctx context.Context, hgvs string) (vrs.Variation, error)
}

// Error classifications a Translator implementation should return,
// wrapped with additional context, so callers can distinguish a bad
// request from a transient backend failure.
var (
	// ErrHGVSParse indicates the HGVS text itself could not be parsed.
	ErrHGVSParse = errors.New("could not parse HGVS expression")

	// ErrDataProxyValidation indicates a reference sequence or accession
	// referenced by the input could not be validated against the
	// translator's data proxy.
	ErrDataProxyValidation = errors.New("reference data validation failed")

	// ErrNotImplemented indicates the requested translation is
	// recognized but not supported by this Translator.
	ErrNotImplemented = errors.New("translation not implemented")

	// ErrConnection indicates the translator's upstream dependency (a
	// data proxy, a transcript database) could not be reached.
	ErrConnection = errors.New("translator backend unreachable")
)
