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

// Package store defines the narrow storage interface that every backend
// (in-memory, no-op, SQL) implements, replacing the source's mutable-mapping
// protocol over the store with an explicit set of methods.
package store

import (
	"context"

	"github.com/biocommons/anyvar-go/vrs"
)

// ObjectType enumerates the rows a Storage persists, mirroring
// original_source/src/anyvar/storage/base_storage.py's StoredObjectType.
type ObjectType string

const (
	ObjectTypeAllele            ObjectType = "Allele"
	ObjectTypeCopyNumberCount   ObjectType = "CopyNumberCount"
	ObjectTypeCopyNumberChange  ObjectType = "CopyNumberChange"
	ObjectTypeSequenceLocation  ObjectType = "SequenceLocation"
	ObjectTypeSequenceReference ObjectType = "SequenceReference"
)

// RangeQuery is the parameters of a containment/overlap search over a
// SequenceReference, per spec §4.4.
type RangeQuery struct {
	RefgetAccession string
	Start           int64
	End             int64
	// Limit bounds the number of rows returned. Zero selects the backend's
	// default cap; callers should treat a result truncated at the cap as
	// a signal to narrow their query rather than as an exhaustive answer.
	Limit int
}

// Storage is the full backend contract: registration, retrieval, deletion,
// mapping and annotation management, and range search. A concrete backend
// may also implement Batcher to support batch-mode writes.
type Storage interface {
	// Close releases any resources (connections, background goroutines)
	// held by this Storage. It does not imply WaitForWrites.
	Close(ctx context.Context) error

	// WaitForWrites blocks until every write accepted so far through this
	// Storage value is durable. It is the storage layer's sole read/write
	// synchronization primitive; a caller that needs read-after-write
	// consistency must call this before reading. Writes queued through a
	// BatchHandle are covered by that handle's WaitForWrites (or by
	// EndBatch with flushOnExit), not by the Batcher's own WaitForWrites.
	WaitForWrites(ctx context.Context) error

	// WipeDB destroys and recreates the backend's schema. Intended for
	// test setup, never for production use.
	WipeDB(ctx context.Context) error

	// AddObjects registers one or more fully-identified Variations,
	// decomposing and persisting their SequenceLocation and Variation rows
	// (the SequenceReference is kept inside the location). It is idempotent: registering the same content
	// twice is a no-op the second time, per spec §8 property 1.
	AddObjects(ctx context.Context, variations ...vrs.Variation) error

	// GetObject retrieves a previously registered Variation by its ID. It
	// returns (nil, nil) if no such object exists.
	GetObject(ctx context.Context, id string) (vrs.Variation, error)

	// GetAllObjectIDs lists every registered ID of the given type. An
	// empty typ lists every variation type.
	GetAllObjectIDs(ctx context.Context, typ ObjectType) ([]string, error)

	// GetObjectCount reports how many objects of the given type are
	// registered.
	GetObjectCount(ctx context.Context, typ ObjectType) (int64, error)

	// DeleteObjects removes the named objects. Deleting an unknown ID is
	// not an error.
	DeleteObjects(ctx context.Context, ids ...string) error

	// AddMapping records that m.SourceID maps to m.DestID under m.Type
	// (e.g. a liftover from one assembly's location to another's). It
	// rejects a self-mapping (m.SourceID == m.DestID) with ErrSelfMapping,
	// and rejects either endpoint not resolving to a registered object
	// with ErrMissingReference.
	AddMapping(ctx context.Context, m Mapping) error

	// DeleteMapping removes a previously recorded mapping.
	DeleteMapping(ctx context.Context, sourceID, destID string, typ MappingType) error

	// GetMappings returns every mapping recorded with id as its source,
	// optionally narrowed to a single MappingType. An empty typ returns
	// mappings of every type.
	GetMappings(ctx context.Context, id string, typ MappingType) ([]Mapping, error)

	// AddAnnotation attaches a free-form annotation to a variation ID,
	// returning the annotation's assigned ID.
	AddAnnotation(ctx context.Context, a Annotation) (int64, error)

	// DeleteAnnotation removes a single annotation by its assigned ID.
	DeleteAnnotation(ctx context.Context, annotationID int64) error

	// GetAnnotations returns every annotation of typ recorded against id.
	// An empty typ returns every annotation regardless of type.
	GetAnnotations(ctx context.Context, id string, typ string) ([]Annotation, error)

	// SearchAlleles finds every allele whose location overlaps or is
	// contained by q, per spec §4.4's outer-bound semantics for ranged
	// coordinates.
	SearchAlleles(ctx context.Context, q RangeQuery) ([]*vrs.Allele, error)
}
