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

package vrs

import (
	"encoding/json"
	"fmt"
)

type typeTag struct {
	Type Type `json:"type"`
}

// unmarshalState dispatches on the `type` discriminator to the concrete
// State implementation. This, and ParseVariation below, are the
// polymorphic-by-exhaustive-match mapper layer called for by the §9
// redesign note replacing the source's class-keyed dispatch map.
func unmarshalState(data []byte) (State, error) {
	var tag typeTag
	if err := json.Unmarshal(data, &tag); err != nil {
		return nil, fmt.Errorf("sniff state type: %w", err)
	}
	switch tag.Type {
	case TypeLiteralSequenceExpression:
		var s LiteralSequenceExpression
		if err := json.Unmarshal(data, &s); err != nil {
			return nil, err
		}
		return s, nil
	case TypeReferenceLengthExpression:
		var s ReferenceLengthExpression
		if err := json.Unmarshal(data, &s); err != nil {
			return nil, err
		}
		return s, nil
	case TypeLengthExpression:
		var s LengthExpression
		if err := json.Unmarshal(data, &s); err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unsupported state type %q", tag.Type)
	}
}

// UnmarshalJSON reconstructs an Allele, dispatching the polymorphic State
// field on its `type` tag.
func (a *Allele) UnmarshalJSON(data []byte) error {
	type alias Allele
	var raw struct {
		alias
		State json.RawMessage `json:"state"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*a = Allele(raw.alias)
	if len(raw.State) > 0 && string(raw.State) != "null" {
		st, err := unmarshalState(raw.State)
		if err != nil {
			return fmt.Errorf("allele state: %w", err)
		}
		a.State = st
	}
	return nil
}

// ParseVariation reconstructs a Variation from its JSON representation,
// dispatching on the `type` discriminator. This is the reconstitution
// half of the object model used whenever a Variation is read back out of
// storage.
func ParseVariation(data []byte) (Variation, error) {
	var tag typeTag
	if err := json.Unmarshal(data, &tag); err != nil {
		return nil, fmt.Errorf("sniff variation type: %w", err)
	}
	switch tag.Type {
	case TypeAllele:
		var a Allele
		if err := json.Unmarshal(data, &a); err != nil {
			return nil, err
		}
		return &a, nil
	case TypeCopyNumberCount:
		var c CopyNumberCount
		if err := json.Unmarshal(data, &c); err != nil {
			return nil, err
		}
		return &c, nil
	case TypeCopyNumberChange:
		var c CopyNumberChange
		if err := json.Unmarshal(data, &c); err != nil {
			return nil, err
		}
		return &c, nil
	default:
		return nil, fmt.Errorf("unsupported variation type %q", tag.Type)
	}
}
