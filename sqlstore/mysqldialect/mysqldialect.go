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

// Package mysqldialect is the MySQL sqlstore.Dialect, using `INSERT
// IGNORE` for idempotent writes the way
// storage/mysql/mysql.go's `REPLACE INTO` statements give tessera's MySQL
// backend the same merge-on-conflict behaviour Postgres gets from `ON
// CONFLICT`, via github.com/go-sql-driver/mysql.
package mysqldialect

import (
	_ "github.com/go-sql-driver/mysql"
)

// Dialect is the MySQL sqlstore.Dialect.
type Dialect struct{}

// New returns a MySQL Dialect.
func New() Dialect { return Dialect{} }

func (Dialect) Name() string           { return "mysql" }
func (Dialect) DriverName() string     { return "mysql" }
func (Dialect) Placeholder(int) string { return "?" }

func (Dialect) SchemaDDL() []string {
	return []string{
		"CREATE TABLE IF NOT EXISTS vrs_objects (" +
			"id VARCHAR(255) PRIMARY KEY, " +
			"type VARCHAR(64) NOT NULL, " +
			"data JSON NOT NULL, " +
			"refget_accession VARCHAR(255), " +
			"start_pos BIGINT, " +
			"end_pos BIGINT, " +
			"INDEX vrs_objects_range_idx (type, refget_accession, start_pos, end_pos)" +
			")",
		"CREATE TABLE IF NOT EXISTS vrs_mappings (" +
			"source_id VARCHAR(255) NOT NULL, " +
			"dest_id VARCHAR(255) NOT NULL, " +
			"type VARCHAR(64) NOT NULL, " +
			"PRIMARY KEY (source_id, dest_id, type)" +
			")",
		"CREATE TABLE IF NOT EXISTS vrs_annotations (" +
			"id BIGINT AUTO_INCREMENT PRIMARY KEY, " +
			"variation_id VARCHAR(255) NOT NULL, " +
			"type VARCHAR(64) NOT NULL, " +
			"value JSON NOT NULL, " +
			"INDEX vrs_annotations_variation_idx (variation_id, type)" +
			")",
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
	return `INSERT IGNORE INTO vrs_objects (id, type, data, refget_accession, start_pos, end_pos)
		VALUES (?, ?, ?, ?, ?, ?)`
}

func (Dialect) UpsertMappingSQL() string {
	return `INSERT IGNORE INTO vrs_mappings (source_id, dest_id, type) VALUES (?, ?, ?)`
}

func (Dialect) InsertAnnotationSQL() string {
	return `INSERT INTO vrs_annotations (variation_id, type, value) VALUES (?, ?, ?)`
}

func (Dialect) LastInsertIDSupported() bool { return true }

// SearchAllelesSQL's placeholders are bound positionally to
// (refget_accession, query_start, query_end, limit); the WHERE clause
// order below matches that so the second placeholder compares against
// end_pos and the third against start_pos, per the overlap test
// rowStart <= queryEnd && rowEnd >= queryStart.
func (Dialect) SearchAllelesSQL() string {
	return `SELECT data FROM vrs_objects
		WHERE type = 'Allele'
		AND refget_accession = ?
		AND end_pos >= ?
		AND start_pos <= ?
		ORDER BY id
		LIMIT ?`
}
