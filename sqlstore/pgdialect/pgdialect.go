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

// Package pgdialect is the Postgres sqlstore.Dialect, grounded on
// original_source/src/anyvar/storage/postgres.py's `ON CONFLICT DO
// NOTHING` idempotent insert and its `vrs_objects` JSONB table, using
// github.com/lib/pq as the driver.
package pgdialect

import (
	"fmt"

	_ "github.com/lib/pq"
)

// Dialect is the Postgres sqlstore.Dialect.
type Dialect struct{}

// New returns a Postgres Dialect.
func New() Dialect { return Dialect{} }

func (Dialect) Name() string       { return "postgres" }
func (Dialect) DriverName() string { return "postgres" }

func (Dialect) Placeholder(n int) string { return fmt.Sprintf("$%d", n) }

func (Dialect) SchemaDDL() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS vrs_objects (
			id TEXT PRIMARY KEY,
			type TEXT NOT NULL,
			data JSONB NOT NULL,
			refget_accession TEXT,
			start_pos BIGINT,
			end_pos BIGINT
		)`,
		`CREATE INDEX IF NOT EXISTS vrs_objects_range_idx ON vrs_objects (refget_accession, start_pos, end_pos) WHERE type = 'Allele'`,
		`CREATE TABLE IF NOT EXISTS vrs_mappings (
			source_id TEXT NOT NULL,
			dest_id TEXT NOT NULL,
			type TEXT NOT NULL,
			PRIMARY KEY (source_id, dest_id, type)
		)`,
		`CREATE TABLE IF NOT EXISTS vrs_annotations (
			id BIGSERIAL PRIMARY KEY,
			variation_id TEXT NOT NULL,
			type TEXT NOT NULL,
			value JSONB NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS vrs_annotations_variation_idx ON vrs_annotations (variation_id, type)`,
	}
}

func (Dialect) DropSchemaDDL() []string {
	return []string{
		`DROP TABLE IF EXISTS vrs_annotations`,
		`DROP TABLE IF EXISTS vrs_mappings`,
		`DROP TABLE IF EXISTS vrs_objects`,
	}
}

func (Dialect) UpsertObjectSQL() string {
	return `INSERT INTO vrs_objects (id, type, data, refget_accession, start_pos, end_pos)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO NOTHING`
}

func (Dialect) UpsertMappingSQL() string {
	return `INSERT INTO vrs_mappings (source_id, dest_id, type)
		VALUES ($1, $2, $3)
		ON CONFLICT (source_id, dest_id, type) DO NOTHING`
}

func (Dialect) InsertAnnotationSQL() string {
	return `INSERT INTO vrs_annotations (variation_id, type, value) VALUES ($1, $2, $3) RETURNING id`
}

func (Dialect) LastInsertIDSupported() bool { return false }

func (Dialect) SearchAllelesSQL() string {
	return `SELECT data FROM vrs_objects
		WHERE type = 'Allele'
		AND refget_accession = $1
		AND start_pos <= $3
		AND end_pos >= $2
		ORDER BY id
		LIMIT $4`
}
