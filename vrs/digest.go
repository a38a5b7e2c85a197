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
	"bytes"
	"crypto/sha512"
	"encoding/base64"
	"encoding/json"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// digestCache memoizes Digest by the canonical JSON bytes of its input,
// avoiding repeated SHA-512 + canonicalization work for objects that are
// hashed more than once in a batch (e.g. a SequenceLocation shared by
// many Alleles in a VCF ingest run). Bounded the way the teacher bounds
// its antispam/dedupe caches.
var digestCache, _ = lru.New[string, string](4096)

// canonicalJSON re-serializes v with sorted object keys and stable numeric
// forms, mirroring the `canonicaljson.encode_canonical_json` behaviour in
// original_source/src/anyvar/utils/digest.py.
//
// encoding/json already serializes map[string]any with keys in sorted
// order; decoding through a json.Decoder configured with UseNumber and
// re-encoding therefore yields a canonical form without a bespoke
// canonicalizer, as long as numbers survive the round trip unchanged --
// which json.Number (a string under the hood) guarantees.
func canonicalJSON(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var generic any
	if err := dec.Decode(&generic); err != nil {
		return nil, fmt.Errorf("decode for canonicalization: %w", err)
	}
	out, err := json.Marshal(generic)
	if err != nil {
		return nil, fmt.Errorf("canonical marshal: %w", err)
	}
	return out, nil
}

// sha512t24B computes the truncated-SHA-512 digest used throughout this
// package: SHA-512, truncated to the first 24 bytes, urlsafe-base64
// encoded without padding.
func sha512t24B(blob []byte) string {
	sum := sha512.Sum512(blob)
	return base64.RawURLEncoding.EncodeToString(sum[:24])
}

// digestSource returns the JSON-able value whose canonical form is hashed
// to produce obj's digest. Nested Identifiable fields (a Variation's
// Location) are replaced by a reference to their own ID, so that a
// Variation's digest only changes if its location's *identity* changes,
// not if the location's own JSON framing does.
func digestSource(obj Identifiable) (any, error) {
	switch o := obj.(type) {
	case *SequenceLocation:
		return struct {
			Type              Type              `json:"type"`
			SequenceReference SequenceReference `json:"sequenceReference"`
			Start             Coordinate        `json:"start"`
			End               Coordinate        `json:"end"`
		}{Type: o.Type, SequenceReference: o.SequenceReference, Start: o.Start, End: o.End}, nil

	case *Allele:
		if o.Location == nil || o.Location.ID == "" {
			return nil, fmt.Errorf("%w: Allele location is not identified", ErrIncompleteObject)
		}
		return struct {
			Type     Type   `json:"type"`
			Location string `json:"location"`
			State    State  `json:"state"`
		}{Type: o.Type, Location: o.Location.ID, State: o.State}, nil

	case *CopyNumberCount:
		if o.Location == nil || o.Location.ID == "" {
			return nil, fmt.Errorf("%w: CopyNumberCount location is not identified", ErrIncompleteObject)
		}
		return struct {
			Type     Type   `json:"type"`
			Location string `json:"location"`
			Copies   int64  `json:"copies"`
		}{Type: o.Type, Location: o.Location.ID, Copies: o.Copies}, nil

	case *CopyNumberChange:
		if o.Location == nil || o.Location.ID == "" {
			return nil, fmt.Errorf("%w: CopyNumberChange location is not identified", ErrIncompleteObject)
		}
		return struct {
			Type       Type       `json:"type"`
			Location   string     `json:"location"`
			CopyChange CopyChange `json:"copyChange"`
		}{Type: o.Type, Location: o.Location.ID, CopyChange: o.CopyChange}, nil

	default:
		return nil, fmt.Errorf("%w: unsupported type %T", ErrIncompleteObject, obj)
	}
}

// Digest returns the canonical digest of obj: the urlsafe-base64,
// truncated-SHA-512 hash of obj's canonical JSON form, per spec §4.1.
func Digest(obj Identifiable) (string, error) {
	src, err := digestSource(obj)
	if err != nil {
		return "", err
	}
	blob, err := canonicalJSON(src)
	if err != nil {
		return "", fmt.Errorf("canonicalize for digest: %w", err)
	}
	key := string(blob)
	if d, ok := digestCache.Get(key); ok {
		return d, nil
	}
	d := sha512t24B(blob)
	digestCache.Add(key, d)
	return d, nil
}

// Identifier returns the prefixed ID (`<prefix>.<digest>`) for obj.
func Identifier(obj Identifiable) (string, error) {
	prefix, err := idPrefix(obj.identType())
	if err != nil {
		return "", err
	}
	d, err := Digest(obj)
	if err != nil {
		return "", err
	}
	return prefix + "." + d, nil
}

// RecursiveIdentify fills in missing ID/Digest fields on v and any
// identifiable sub-objects it carries (currently: a Variation's
// SequenceLocation). It is idempotent: calling it twice on the same
// logical content produces the same IDs both times (spec §8 property 1).
func RecursiveIdentify(v Variation) error {
	loc := v.VariationLocation()
	if loc == nil {
		return fmt.Errorf("%w: variation has no location", ErrIncompleteObject)
	}
	if loc.SequenceReference.RefgetAccession == "" {
		return fmt.Errorf("%w: location has no sequence reference", ErrIncompleteObject)
	}
	if err := loc.Validate(); err != nil {
		return err
	}
	locID, err := Identifier(loc)
	if err != nil {
		return fmt.Errorf("identify location: %w", err)
	}
	loc.ID = locID
	d, err := Digest(loc)
	if err != nil {
		return err
	}
	loc.Digest = d

	id, err := Identifier(v)
	if err != nil {
		return fmt.Errorf("identify variation: %w", err)
	}
	v.setID(id)
	vd, err := Digest(v)
	if err != nil {
		return err
	}
	switch o := v.(type) {
	case *Allele:
		o.Digest = vd
	case *CopyNumberCount:
		o.Digest = vd
	case *CopyNumberChange:
		o.Digest = vd
	}
	return nil
}
