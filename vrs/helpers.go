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

// IntCoordinate builds a definite Coordinate.
func IntCoordinate(v int64) Coordinate {
	return Coordinate{Value: &v}
}

// RangeCoordinate builds a ranged Coordinate. Either bound may be nil.
func RangeCoordinate(lower, upper *int64) Coordinate {
	return Coordinate{Lower: lower, Upper: upper}
}

// NewSequenceLocation builds an unidentified SequenceLocation; call
// RecursiveIdentify on a Variation that carries it to fill in ID/Digest.
func NewSequenceLocation(refgetAccession string, start, end Coordinate) *SequenceLocation {
	return &SequenceLocation{
		Type:              TypeSequenceLocation,
		SequenceReference: SequenceReference{RefgetAccession: refgetAccession},
		Start:             start,
		End:               end,
	}
}

// NewAllele builds an unidentified Allele over loc with the given state;
// call RecursiveIdentify to fill in ID/Digest.
func NewAllele(loc *SequenceLocation, state State) *Allele {
	return &Allele{Type: TypeAllele, Location: loc, State: state}
}

// NewCopyNumberCount builds an unidentified CopyNumberCount.
func NewCopyNumberCount(loc *SequenceLocation, copies int64) *CopyNumberCount {
	return &CopyNumberCount{Type: TypeCopyNumberCount, Location: loc, Copies: copies}
}

// NewCopyNumberChange builds an unidentified CopyNumberChange.
func NewCopyNumberChange(loc *SequenceLocation, change CopyChange) *CopyNumberChange {
	return &CopyNumberChange{Type: TypeCopyNumberChange, Location: loc, CopyChange: change}
}
