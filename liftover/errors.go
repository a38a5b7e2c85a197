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

package liftover

import "errors"

// The seven failure classifications a Liftover call can return, mirroring
// the LiftoverError hierarchy in
// original_source/src/anyvar/utils/liftover_utils.py.
var (
	ErrMalformedInput                 = errors.New("malformed variant input")
	ErrUnsupportedVariantLocationType = errors.New("liftover unsupported for variants without refget accession, start and end positions")
	ErrUnsupportedReferenceAssembly   = errors.New("could not resolve reference assembly: accession not found in any supported assembly")
	ErrAmbiguousReferenceAssembly     = errors.New("could not resolve reference assembly: accession found in multiple supported assemblies")
	ErrChromosomeResolution           = errors.New("unable to resolve variant's chromosome")
	ErrCoordinateConversion           = errors.New("could not convert start and/or end position")
	ErrAccessionConversion            = errors.New("could not convert refget accession")
)
