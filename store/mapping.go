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

// MappingType identifies why two IDs are linked.
type MappingType string

const (
	MappingTypeLiftover      MappingType = "liftover"
	MappingTypeTranscription MappingType = "transcription"
	MappingTypeTranslation   MappingType = "translation"
)

// Mapping links a SourceID to a DestID under Type; its identity is the
// (SourceID, DestID, Type) tuple, not a synthetic row ID, matching the
// source's mapping table semantics.
type Mapping struct {
	SourceID string
	DestID   string
	Type     MappingType
}
