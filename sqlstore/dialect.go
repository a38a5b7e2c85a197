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

// Package sqlstore is a store.Storage backed by database/sql, generalizing
// original_source/src/anyvar/storage/postgres.py's single `vrs_objects`
// JSONB table (and its MySQL-dialect analogue) behind the narrow Dialect
// interface so the same engine drives either backend, the way
// storage/mysql and storage/gcp share one queue/appender shape behind
// different concrete clients.
package sqlstore

// Dialect supplies the SQL text that differs between the two backends
// this package supports: the idempotent-insert shape (ON CONFLICT DO
// NOTHING for Postgres's lib/pq, INSERT IGNORE for MySQL's
// go-sql-driver/mysql) and how an inserted row's assigned ID is recovered.
type Dialect interface {
	// Name identifies the dialect for logging, e.g. "postgres" or "mysql".
	Name() string

	// DriverName is the database/sql driver name registered by this
	// dialect's import.
	DriverName() string

	// Placeholder returns the n-th (1-indexed) bound-parameter
	// placeholder for ad hoc queries built outside the dialect's own
	// canned statements, e.g. "$1" for Postgres or "?" for MySQL.
	Placeholder(n int) string

	// SchemaDDL returns the statements that create this backend's schema
	// from scratch, in order.
	SchemaDDL() []string

	// DropSchemaDDL returns the statements that drop this backend's
	// schema, in order, for WipeDB.
	DropSchemaDDL() []string

	// UpsertObjectSQL is a parameterized statement taking
	// (id, type, data, refget_accession, start_pos, end_pos) that inserts
	// a row, doing nothing if id already exists.
	UpsertObjectSQL() string

	// UpsertMappingSQL is a parameterized statement taking
	// (source_id, dest_id, type) that inserts a mapping row, doing
	// nothing if the tuple already exists.
	UpsertMappingSQL() string

	// InsertAnnotationSQL is a parameterized statement taking
	// (variation_id, type, value) that inserts an annotation row.
	// InsertAnnotation uses LastInsertIDSupported to decide how to
	// recover the assigned ID.
	InsertAnnotationSQL() string

	// LastInsertIDSupported reports whether the driver supports
	// sql.Result.LastInsertId (MySQL) as opposed to requiring a
	// RETURNING clause (Postgres), in which case InsertAnnotationSQL
	// itself must carry the RETURNING id clause and InsertAnnotation
	// uses QueryRowContext instead of ExecContext.
	LastInsertIDSupported() bool

	// SearchAllelesSQL is a parameterized statement taking
	// (refget_accession, start_bound, end_bound, limit) that selects the
	// `data` column of every Allele row whose indexed outer bounds
	// overlap the query, ordered by id.
	SearchAllelesSQL() string
}
