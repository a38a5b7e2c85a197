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

import "errors"

// ErrRequiredAnnotationsMissing is returned by IngestAnnotatedVCF when a
// record lacks a VRS_Allele_IDs INFO entry and the caller asked for
// strict ingestion, mirroring the source's RequiredAnnotationsError.
var ErrRequiredAnnotationsMissing = errors.New("vcfpipeline: record missing VRS_Allele_IDs annotation")

// ErrTranslationFailed wraps a translator returning no variation for a
// record's coordinates, mirroring the source's TranslationException raised
// by VcfRegistrar._get_vrs_object.
var ErrTranslationFailed = errors.New("vcfpipeline: translator returned no variation")
