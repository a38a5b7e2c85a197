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

import "fmt"

// Decomposed is the ordered tuple (SequenceReference, SequenceLocation,
// Variation) that the storage layer inserts in dependency order, per
// spec §4.1 and §4.3.
type Decomposed struct {
	SequenceReference SequenceReference
	Location          SequenceLocation
	Variation         Variation
}

// Decompose splits a fully identified Variation into its relational parts.
// It requires that v has already been through RecursiveIdentify: a
// Variation whose location or sequence reference is not fully
// materialized is rejected with ErrIncompleteObject, matching the
// `add_objects` contract in spec §4.2.
func Decompose(v Variation) (Decomposed, error) {
	loc := v.VariationLocation()
	if loc == nil {
		return Decomposed{}, fmt.Errorf("%w: variation has no location", ErrIncompleteObject)
	}
	if loc.ID == "" || loc.Digest == "" {
		return Decomposed{}, fmt.Errorf("%w: location is not identified", ErrIncompleteObject)
	}
	if loc.SequenceReference.RefgetAccession == "" {
		return Decomposed{}, fmt.Errorf("%w: location has no sequence reference", ErrIncompleteObject)
	}
	if v.getID() == "" {
		return Decomposed{}, fmt.Errorf("%w: variation is not identified", ErrIncompleteObject)
	}
	return Decomposed{
		SequenceReference: loc.SequenceReference,
		Location:          *loc,
		Variation:         v,
	}, nil
}

// Compose rebuilds a Variation from its decomposed relational parts,
// re-attaching the location (with its sequence reference already
// embedded) to the variation row.
func Compose(d Decomposed) (Variation, error) {
	loc := d.Location
	loc.SequenceReference = d.SequenceReference
	switch o := d.Variation.(type) {
	case *Allele:
		a := *o
		a.Location = &loc
		return &a, nil
	case *CopyNumberCount:
		c := *o
		c.Location = &loc
		return &c, nil
	case *CopyNumberChange:
		c := *o
		c.Location = &loc
		return &c, nil
	default:
		return nil, fmt.Errorf("%w: unsupported variation type %T", ErrIncompleteObject, d.Variation)
	}
}
