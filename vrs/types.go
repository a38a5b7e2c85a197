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

// Package vrs implements the GA4GH Variation Representation Specification
// object model: the typed entities, their digest-based identity, and the
// decomposition of a Variation into its constituent SequenceReference,
// SequenceLocation and Variation rows.
package vrs

import "fmt"

// Type is the discriminator carried in the `type` field of every VRS
// object on the wire. It replaces the source's class-keyed dispatch map
// with an exhaustive switch over a small closed set of string constants.
type Type string

const (
	TypeSequenceReference Type = "SequenceReference"
	TypeSequenceLocation  Type = "SequenceLocation"
	TypeAllele            Type = "Allele"
	TypeCopyNumberCount   Type = "CopyNumberCount"
	TypeCopyNumberChange  Type = "CopyNumberChange"

	TypeLiteralSequenceExpression Type = "LiteralSequenceExpression"
	TypeReferenceLengthExpression Type = "ReferenceLengthExpression"
	TypeLengthExpression          Type = "LengthExpression"
)

// idPrefix maps a Type to the prefix used in its digest identifier, e.g.
// "ga4gh:VA" for Allele and "ga4gh:SL" for SequenceLocation (Identifier
// adds the "." separator). SequenceReference has no digest prefix since its
// identity is the refget accession itself, not a computed digest.
func idPrefix(t Type) (string, error) {
	switch t {
	case TypeSequenceLocation:
		return "ga4gh:SL", nil
	case TypeAllele:
		return "ga4gh:VA", nil
	case TypeCopyNumberCount:
		return "ga4gh:CN", nil
	case TypeCopyNumberChange:
		return "ga4gh:CX", nil
	default:
		return "", fmt.Errorf("type %q has no digest identifier prefix", t)
	}
}

// Identifiable is any object that carries a (possibly empty) digest ID.
type Identifiable interface {
	identType() Type
	getID() string
	setID(string)
}

// Variation is the sealed sum type over {Allele, CopyNumberCount,
// CopyNumberChange}, per the §9 "Dynamic dispatch on model class" redesign.
// Only types in this package may implement it.
type Variation interface {
	Identifiable
	isVariation()
	// VariationLocation returns the SequenceLocation carried by this
	// Variation, or nil if it has not yet been resolved/attached.
	VariationLocation() *SequenceLocation
}

// SequenceReference identifies a reference sequence by its refget
// accession. It is immutable once stored and carries no computed digest;
// its identity *is* the accession.
type SequenceReference struct {
	RefgetAccession string `json:"refgetAccession"`
	MoleculeType    string `json:"moleculeType,omitempty"`
}

func (s *SequenceReference) identType() Type  { return TypeSequenceReference }
func (s *SequenceReference) getID() string    { return s.RefgetAccession }
func (s *SequenceReference) setID(id string)  { s.RefgetAccession = id }

// Coordinate is either a definite interresidue position, or a half-bounded
// range `[Lower, Upper]` where either side may be nil.
type Coordinate struct {
	// Value holds a definite coordinate. Nil if this is a Range.
	Value *int64
	// Lower and Upper hold a ranged coordinate's bounds; either may be nil.
	// Both nil alongside a nil Value is not a valid Coordinate.
	Lower *int64
	Upper *int64
}

// IsRange reports whether this Coordinate is a half-bounded range rather
// than a definite value.
func (c Coordinate) IsRange() bool { return c.Value == nil }

// Outer returns the loosest bound usable for an overlap comparison: the
// definite value if this is not a range, otherwise the outer (looser)
// bound requested by side. ok is false if that bound is undefined.
func (c Coordinate) Outer(wantLower bool) (v int64, ok bool) {
	if !c.IsRange() {
		return *c.Value, true
	}
	if wantLower {
		if c.Lower == nil {
			return 0, false
		}
		return *c.Lower, true
	}
	if c.Upper == nil {
		return 0, false
	}
	return *c.Upper, true
}

// SequenceLocation is a digest-identified interval on a SequenceReference.
type SequenceLocation struct {
	ID                string            `json:"id,omitempty"`
	Digest            string            `json:"digest,omitempty"`
	Type              Type              `json:"type"`
	SequenceReference SequenceReference `json:"sequenceReference"`
	Start             Coordinate        `json:"start"`
	End               Coordinate        `json:"end"`
}

func (l *SequenceLocation) identType() Type { return TypeSequenceLocation }
func (l *SequenceLocation) getID() string   { return l.ID }
func (l *SequenceLocation) setID(id string) { l.ID = id }

// Validate checks the invariant from §3: if both Start and End are
// definite, Start <= End.
func (l *SequenceLocation) Validate() error {
	if !l.Start.IsRange() && !l.End.IsRange() && *l.Start.Value > *l.End.Value {
		return fmt.Errorf("%w: start %d > end %d", ErrIncompleteObject, *l.Start.Value, *l.End.Value)
	}
	return nil
}

// State is the sealed sum type describing an Allele's sequence change.
type State interface {
	isState()
	stateType() Type
}

// LiteralSequenceExpression states the Allele's sequence literally.
type LiteralSequenceExpression struct {
	Type     Type   `json:"type"`
	Sequence string `json:"sequence"`
}

func (LiteralSequenceExpression) isState()         {}
func (LiteralSequenceExpression) stateType() Type { return TypeLiteralSequenceExpression }

// ReferenceLengthExpression states the Allele's sequence by length and an
// optional repeat subunit, relative to the reference.
type ReferenceLengthExpression struct {
	Type                Type    `json:"type"`
	Length              int64   `json:"length"`
	Sequence            *string `json:"sequence,omitempty"`
	RepeatSubunitLength *int64  `json:"repeatSubunitLength,omitempty"`
}

func (ReferenceLengthExpression) isState()         {}
func (ReferenceLengthExpression) stateType() Type { return TypeReferenceLengthExpression }

// LengthExpression states the Allele's sequence purely by length.
type LengthExpression struct {
	Type   Type  `json:"type"`
	Length int64 `json:"length"`
}

func (LengthExpression) isState()         {}
func (LengthExpression) stateType() Type { return TypeLengthExpression }

// Allele is a Variation defined by a SequenceLocation and a State.
type Allele struct {
	ID       string            `json:"id,omitempty"`
	Digest   string            `json:"digest,omitempty"`
	Type     Type              `json:"type"`
	Location *SequenceLocation `json:"location"`
	State    State             `json:"state"`
}

func (a *Allele) identType() Type                      { return TypeAllele }
func (a *Allele) getID() string                         { return a.ID }
func (a *Allele) setID(id string)                       { a.ID = id }
func (a *Allele) isVariation()                          {}
func (a *Allele) VariationLocation() *SequenceLocation { return a.Location }

// CopyChange is one of the VRS-defined relative copy-change terms.
type CopyChange string

const (
	CopyChangeEFO0030069 CopyChange = "efo:0030069" // complete genomic loss
	CopyChangeEFO0020073 CopyChange = "efo:0020073" // loss
	CopyChangeEFO0030068 CopyChange = "efo:0030068" // low-level loss
	CopyChangeEFO0030070 CopyChange = "efo:0030070" // high-level loss
	CopyChangeEFO0030067 CopyChange = "efo:0030067" // regional base ploidy
	CopyChangeEFO0030071 CopyChange = "efo:0030071" // gain
	CopyChangeEFO0030072 CopyChange = "efo:0030072" // low-level gain
	CopyChangeEFO0030074 CopyChange = "efo:0030074" // high-level gain
)

// CopyNumberCount is a Variation expressing an absolute copy count at a
// location.
type CopyNumberCount struct {
	ID       string            `json:"id,omitempty"`
	Digest   string            `json:"digest,omitempty"`
	Type     Type              `json:"type"`
	Location *SequenceLocation `json:"location"`
	Copies   int64             `json:"copies"`
}

func (c *CopyNumberCount) identType() Type                      { return TypeCopyNumberCount }
func (c *CopyNumberCount) getID() string                         { return c.ID }
func (c *CopyNumberCount) setID(id string)                       { c.ID = id }
func (c *CopyNumberCount) isVariation()                          {}
func (c *CopyNumberCount) VariationLocation() *SequenceLocation { return c.Location }

// CopyNumberChange is a Variation expressing a relative copy-change term at
// a location.
type CopyNumberChange struct {
	ID         string            `json:"id,omitempty"`
	Digest     string            `json:"digest,omitempty"`
	Type       Type              `json:"type"`
	Location   *SequenceLocation `json:"location"`
	CopyChange CopyChange        `json:"copyChange"`
}

func (c *CopyNumberChange) identType() Type                      { return TypeCopyNumberChange }
func (c *CopyNumberChange) getID() string                         { return c.ID }
func (c *CopyNumberChange) setID(id string)                       { c.ID = id }
func (c *CopyNumberChange) isVariation()                          {}
func (c *CopyNumberChange) VariationLocation() *SequenceLocation { return c.Location }

var (
	_ Variation = (*Allele)(nil)
	_ Variation = (*CopyNumberCount)(nil)
	_ Variation = (*CopyNumberChange)(nil)
	_ State     = LiteralSequenceExpression{}
	_ State     = ReferenceLengthExpression{}
	_ State     = LengthExpression{}
)
