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

package store

import "encoding/json"

// Annotation is a free-form, typed fact attached to a variation ID -- e.g.
// the VCF source coordinates a registered Allele was derived from, or a
// liftover result. ID is assigned by the backend on AddAnnotation.
type Annotation struct {
	ID          int64
	VariationID string
	Type        string
	Value       json.RawMessage
}
