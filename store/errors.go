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

import "errors"

var (
	// ErrIncompleteObject is returned when AddObjects is given a Variation
	// that has not been through vrs.RecursiveIdentify.
	ErrIncompleteObject = errors.New("object is not fully identified")

	// ErrMissingReference is returned when an operation references a
	// variation, location or sequence reference ID that does not exist.
	ErrMissingReference = errors.New("referenced object does not exist")

	// ErrDataIntegrity is returned when a backend detects that persisted
	// data could not be reconstituted into a valid Variation.
	ErrDataIntegrity = errors.New("stored data failed integrity check")

	// ErrInvalidSearchParams is returned by SearchAlleles when q is
	// malformed, e.g. Start > End or a negative Limit.
	ErrInvalidSearchParams = errors.New("invalid search parameters")

	// ErrSelfMapping is returned by AddMapping when SourceID equals DestID.
	ErrSelfMapping = errors.New("mapping source and destination are the same object")
)
