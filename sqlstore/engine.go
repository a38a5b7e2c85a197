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

package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"k8s.io/klog/v2"

	"github.com/biocommons/anyvar-go/batch"
	"github.com/biocommons/anyvar-go/rangeindex"
	"github.com/biocommons/anyvar-go/store"
	"github.com/biocommons/anyvar-go/vrs"
)

// MaxPendingBatches bounds how many queued batch-mode writes may be
// outstanding before BatchHandle.AddObjects blocks, mirroring the
// source's default max_pending_batches.
const MaxPendingBatches = 50

// Storage is a database/sql-backed store.Storage. It is safe for
// concurrent use.
type Storage struct {
	db      *sql.DB
	dialect Dialect
}

// New opens a Storage against db, verifying connectivity and ensuring the
// schema exists.
func New(ctx context.Context, db *sql.DB, dialect Dialect) (*Storage, error) {
	s := &Storage{db: db, dialect: dialect}
	if err := s.db.PingContext(ctx); err != nil {
		klog.Errorf("sqlstore: failed to ping %s database: %v", dialect.Name(), err)
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := s.ensureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return s, nil
}

func (s *Storage) ensureSchema(ctx context.Context) error {
	for _, stmt := range s.dialect.SchemaDDL() {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("exec schema statement %q: %w", stmt, err)
		}
	}
	return nil
}

func (s *Storage) Close(ctx context.Context) error {
	return s.db.Close()
}

// WaitForWrites is a no-op in direct mode: every AddObjects call made
// directly on Storage is already synchronous by the time it returns.
func (s *Storage) WaitForWrites(ctx context.Context) error { return nil }

func (s *Storage) WipeDB(ctx context.Context) error {
	for _, stmt := range s.dialect.DropSchemaDDL() {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("exec drop statement %q: %w", stmt, err)
		}
	}
	return s.ensureSchema(ctx)
}

type objectRow struct {
	id              string
	typ             store.ObjectType
	data            []byte
	refgetAccession sql.NullString
	start           sql.NullInt64
	end             sql.NullInt64
}

func rowsForVariation(v vrs.Variation) ([]objectRow, error) {
	d, err := vrs.Decompose(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrIncompleteObject, err)
	}
	locData, err := json.Marshal(d.Location)
	if err != nil {
		return nil, err
	}
	varData, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}

	locRow := objectRow{id: d.Location.ID, typ: store.ObjectTypeSequenceLocation, data: locData}
	if start, ok := d.Location.Start.Outer(true); ok {
		locRow.refgetAccession = sql.NullString{String: d.Location.SequenceReference.RefgetAccession, Valid: true}
		locRow.start = sql.NullInt64{Int64: start, Valid: true}
	}
	if end, ok := d.Location.End.Outer(false); ok {
		locRow.end = sql.NullInt64{Int64: end, Valid: true}
	}

	varRow := objectRow{typ: objectType(v), data: varData}
	switch o := v.(type) {
	case *vrs.Allele:
		varRow.id = o.ID
		varRow.refgetAccession = locRow.refgetAccession
		varRow.start = locRow.start
		varRow.end = locRow.end
	case *vrs.CopyNumberCount:
		varRow.id = o.ID
	case *vrs.CopyNumberChange:
		varRow.id = o.ID
	}
	return []objectRow{locRow, varRow}, nil
}

func objectType(v vrs.Variation) store.ObjectType {
	switch v.(type) {
	case *vrs.Allele:
		return store.ObjectTypeAllele
	case *vrs.CopyNumberCount:
		return store.ObjectTypeCopyNumberCount
	case *vrs.CopyNumberChange:
		return store.ObjectTypeCopyNumberChange
	default:
		return ""
	}
}

// AddObjects writes synchronously within a single transaction, in
// dependency order (locations before the variations that reference them).
func (s *Storage) AddObjects(ctx context.Context, variations ...vrs.Variation) error {
	var rows []objectRow
	for _, v := range variations {
		rs, err := rowsForVariation(v)
		if err != nil {
			return err
		}
		rows = append(rows, rs...)
	}
	return s.writeRows(ctx, rows)
}

func (s *Storage) writeRows(ctx context.Context, rows []objectRow) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, s.dialect.UpsertObjectSQL())
	if err != nil {
		return fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, r := range rows {
		if _, err := stmt.ExecContext(ctx, r.id, string(r.typ), string(r.data), r.refgetAccession, r.start, r.end); err != nil {
			return fmt.Errorf("upsert object %s: %w", r.id, err)
		}
	}
	return tx.Commit()
}

func (s *Storage) GetObject(ctx context.Context, id string) (vrs.Variation, error) {
	row := s.db.QueryRowContext(ctx, `SELECT type, data FROM vrs_objects WHERE id = `+s.dialect.Placeholder(1), id)
	var typ, data string
	if err := row.Scan(&typ, &data); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get object %s: %w", id, err)
	}
	switch store.ObjectType(typ) {
	case store.ObjectTypeAllele, store.ObjectTypeCopyNumberCount, store.ObjectTypeCopyNumberChange:
		v, err := vrs.ParseVariation([]byte(data))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", store.ErrDataIntegrity, err)
		}
		return v, nil
	default:
		return nil, nil
	}
}

func (s *Storage) GetAllObjectIDs(ctx context.Context, typ store.ObjectType) ([]string, error) {
	var rows *sql.Rows
	var err error
	if typ == "" {
		rows, err = s.db.QueryContext(ctx, `SELECT id FROM vrs_objects WHERE type <> 'SequenceLocation' ORDER BY id`)
	} else {
		rows, err = s.db.QueryContext(ctx, `SELECT id FROM vrs_objects WHERE type = `+s.dialect.Placeholder(1)+` ORDER BY id`, string(typ))
	}
	if err != nil {
		return nil, fmt.Errorf("get all object ids: %w", err)
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *Storage) GetObjectCount(ctx context.Context, typ store.ObjectType) (int64, error) {
	var count int64
	var err error
	if typ == "" {
		err = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM vrs_objects`).Scan(&count)
	} else {
		err = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM vrs_objects WHERE type = `+s.dialect.Placeholder(1), string(typ)).Scan(&count)
	}
	if err != nil {
		return 0, fmt.Errorf("get object count: %w", err)
	}
	return count, nil
}

func (s *Storage) DeleteObjects(ctx context.Context, ids ...string) error {
	stmt, err := s.db.PrepareContext(ctx, `DELETE FROM vrs_objects WHERE id = `+s.dialect.Placeholder(1))
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, id := range ids {
		if _, err := stmt.ExecContext(ctx, id); err != nil {
			return fmt.Errorf("delete object %s: %w", id, err)
		}
	}
	return nil
}

func (s *Storage) objectExists(ctx context.Context, id string) (bool, error) {
	q := `SELECT EXISTS(SELECT 1 FROM vrs_objects WHERE id = ` + s.dialect.Placeholder(1) + `)`
	var exists bool
	if err := s.db.QueryRowContext(ctx, q, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("check object exists %s: %w", id, err)
	}
	return exists, nil
}

func (s *Storage) AddMapping(ctx context.Context, m store.Mapping) error {
	if m.SourceID == m.DestID {
		return fmt.Errorf("add mapping: %w: %s", store.ErrSelfMapping, m.SourceID)
	}
	srcOK, err := s.objectExists(ctx, m.SourceID)
	if err != nil {
		return err
	}
	if !srcOK {
		return fmt.Errorf("add mapping: %w: source %s", store.ErrMissingReference, m.SourceID)
	}
	dstOK, err := s.objectExists(ctx, m.DestID)
	if err != nil {
		return err
	}
	if !dstOK {
		return fmt.Errorf("add mapping: %w: dest %s", store.ErrMissingReference, m.DestID)
	}
	_, err = s.db.ExecContext(ctx, s.dialect.UpsertMappingSQL(), m.SourceID, m.DestID, string(m.Type))
	if err != nil {
		return fmt.Errorf("add mapping: %w", err)
	}
	return nil
}

func (s *Storage) DeleteMapping(ctx context.Context, sourceID, destID string, typ store.MappingType) error {
	q := fmt.Sprintf(`DELETE FROM vrs_mappings WHERE source_id = %s AND dest_id = %s AND type = %s`,
		s.dialect.Placeholder(1), s.dialect.Placeholder(2), s.dialect.Placeholder(3))
	if _, err := s.db.ExecContext(ctx, q, sourceID, destID, string(typ)); err != nil {
		return fmt.Errorf("delete mapping: %w", err)
	}
	return nil
}

func (s *Storage) GetMappings(ctx context.Context, id string, typ store.MappingType) ([]store.Mapping, error) {
	var q string
	var args []any
	if typ == "" {
		q = fmt.Sprintf(`SELECT source_id, dest_id, type FROM vrs_mappings WHERE source_id = %s`, s.dialect.Placeholder(1))
		args = []any{id}
	} else {
		q = fmt.Sprintf(`SELECT source_id, dest_id, type FROM vrs_mappings WHERE source_id = %s AND type = %s`,
			s.dialect.Placeholder(1), s.dialect.Placeholder(2))
		args = []any{id, string(typ)}
	}
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("get mappings: %w", err)
	}
	defer rows.Close()
	var out []store.Mapping
	for rows.Next() {
		var m store.Mapping
		var typ string
		if err := rows.Scan(&m.SourceID, &m.DestID, &typ); err != nil {
			return nil, err
		}
		m.Type = store.MappingType(typ)
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *Storage) AddAnnotation(ctx context.Context, a store.Annotation) (int64, error) {
	if s.dialect.LastInsertIDSupported() {
		res, err := s.db.ExecContext(ctx, s.dialect.InsertAnnotationSQL(), a.VariationID, a.Type, string(a.Value))
		if err != nil {
			return 0, fmt.Errorf("add annotation: %w", err)
		}
		return res.LastInsertId()
	}
	var id int64
	if err := s.db.QueryRowContext(ctx, s.dialect.InsertAnnotationSQL(), a.VariationID, a.Type, string(a.Value)).Scan(&id); err != nil {
		return 0, fmt.Errorf("add annotation: %w", err)
	}
	return id, nil
}

func (s *Storage) DeleteAnnotation(ctx context.Context, annotationID int64) error {
	q := `DELETE FROM vrs_annotations WHERE id = ` + s.dialect.Placeholder(1)
	if _, err := s.db.ExecContext(ctx, q, annotationID); err != nil {
		return fmt.Errorf("delete annotation: %w", err)
	}
	return nil
}

func (s *Storage) GetAnnotations(ctx context.Context, id string, typ string) ([]store.Annotation, error) {
	var rows *sql.Rows
	var err error
	if typ == "" {
		rows, err = s.db.QueryContext(ctx, `SELECT id, variation_id, type, value FROM vrs_annotations WHERE variation_id = `+s.dialect.Placeholder(1)+` ORDER BY id`, id)
	} else {
		rows, err = s.db.QueryContext(ctx, `SELECT id, variation_id, type, value FROM vrs_annotations WHERE variation_id = `+s.dialect.Placeholder(1)+` AND type = `+s.dialect.Placeholder(2)+` ORDER BY id`, id, typ)
	}
	if err != nil {
		return nil, fmt.Errorf("get annotations: %w", err)
	}
	defer rows.Close()
	var out []store.Annotation
	for rows.Next() {
		var a store.Annotation
		var value string
		if err := rows.Scan(&a.ID, &a.VariationID, &a.Type, &value); err != nil {
			return nil, err
		}
		a.Value = json.RawMessage(value)
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *Storage) SearchAlleles(ctx context.Context, q store.RangeQuery) ([]*vrs.Allele, error) {
	bounds := rangeindex.Bounds{RefgetAccession: q.RefgetAccession, Start: q.Start, End: q.End}
	if err := bounds.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", store.ErrInvalidSearchParams, err)
	}
	if q.Limit < 0 {
		return nil, store.ErrInvalidSearchParams
	}
	limit := rangeindex.ClampLimit(q.Limit)

	rows, err := s.db.QueryContext(ctx, s.dialect.SearchAllelesSQL(), q.RefgetAccession, q.Start, q.End, limit)
	if err != nil {
		return nil, fmt.Errorf("search alleles: %w", err)
	}
	defer rows.Close()
	var out []*vrs.Allele
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		v, err := vrs.ParseVariation([]byte(data))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", store.ErrDataIntegrity, err)
		}
		a, ok := v.(*vrs.Allele)
		if !ok {
			return nil, fmt.Errorf("%w: expected Allele, got %T", store.ErrDataIntegrity, v)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

var _ store.Batcher = (*Storage)(nil)

// BeginBatch returns a handle whose AddObjects calls are diverted through a
// background batch.Queue, per the §9 "Scoped batch context" redesign.
func (s *Storage) BeginBatch(ctx context.Context) (store.BatchHandle, error) {
	h := &batchHandle{Storage: s}
	h.queue = batch.NewQueue(MaxPendingBatches, func(ctx context.Context, rows []objectRow) error {
		return h.Storage.writeRows(ctx, rows)
	})
	return h, nil
}

type batchHandle struct {
	*Storage
	queue *batch.Queue[objectRow]
}

func (h *batchHandle) AddObjects(ctx context.Context, variations ...vrs.Variation) error {
	var rows []objectRow
	for _, v := range variations {
		rs, err := rowsForVariation(v)
		if err != nil {
			return err
		}
		rows = append(rows, rs...)
	}
	return h.queue.Enqueue(ctx, rows)
}

func (h *batchHandle) WaitForWrites(ctx context.Context) error {
	return h.queue.WaitForWrites(ctx)
}

// AddMapping flushes any objects still sitting in the batch queue before
// delegating to Storage.AddMapping's existence checks, otherwise an object
// enqueued earlier in the same batch scope would look missing to a direct
// query against vrs_objects.
func (h *batchHandle) AddMapping(ctx context.Context, m store.Mapping) error {
	if err := h.queue.WaitForWrites(ctx); err != nil {
		return err
	}
	return h.Storage.AddMapping(ctx, m)
}

func (h *batchHandle) EndBatch(ctx context.Context, flushOnExit bool) error {
	if flushOnExit {
		if err := h.queue.WaitForWrites(ctx); err != nil {
			return err
		}
	}
	return h.queue.Close(ctx)
}
