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

package vcfpipeline

import (
	"context"
	"fmt"
	"io"
	"strings"

	"golang.org/x/sync/errgroup"
	"k8s.io/klog/v2"

	"github.com/biocommons/anyvar-go/store"
	"github.com/biocommons/anyvar-go/translate"
)

// DefaultConcurrency bounds how many VCF records are translated
// concurrently when an AnnotateOptions/IngestOptions leaves Concurrency
// unset, the Go analogue of the source's worker pool size.
const DefaultConcurrency = 4

func concurrencyOrDefault(n int) int {
	if n <= 0 {
		return DefaultConcurrency
	}
	return n
}

// AnnotateOptions configures AnnotateVCF.
type AnnotateOptions struct {
	Assembly      string
	ComputeForRef bool
	// AddVRSAttributes is accepted for parity with the source's
	// vrs_attributes flag but has no effect: AnnotateVCF writes only the
	// VRS_Allele_IDs and VRS_Error INFO fields, never per-allele
	// start/end/state fields.
	AddVRSAttributes bool
	// Concurrency bounds how many records are translated at once. Zero
	// selects DefaultConcurrency.
	Concurrency int
}

// AnnotateVCF reads a VCF from in, registers a VRS Allele for every ALT on
// every record, and writes an annotated copy (with a VRS_Allele_IDs INFO
// field per record) to out. If r.Storage is a store.Batcher, the whole run
// is wrapped in a single batch scope, the Go equivalent of the source's
// `with storage.batch_manager(storage):` around VcfRegistrar.annotate.
func AnnotateVCF(ctx context.Context, r *Registrar, in io.Reader, out io.Writer, opts AnnotateOptions) error {
	if b, ok := r.Storage.(store.Batcher); ok {
		return store.RunBatch(ctx, b, true, func(ctx context.Context, h store.BatchHandle) error {
			scoped := *r
			scoped.Storage = h
			return annotateVCF(ctx, &scoped, in, out, opts)
		})
	}
	return annotateVCF(ctx, r, in, out, opts)
}

// annotateRecordResult holds one record's per-allele IDs and messages,
// computed independently of every other record's so the caller can fan
// out over records with a bounded worker pool and still write the output
// in original row order once every worker has finished.
type annotateRecordResult struct {
	ids  []string
	msgs []string
}

func annotateVCF(ctx context.Context, r *Registrar, in io.Reader, out io.Writer, opts AnnotateOptions) error {
	reader := NewReader(in)
	writer := NewWriter(out)

	var records []*Record
	for {
		rec, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		records = append(records, rec)
	}
	if err := writer.WriteHeader(reader.Header); err != nil {
		return err
	}

	results := make([]annotateRecordResult, len(records))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrencyOrDefault(opts.Concurrency))
	for i, rec := range records {
		i, rec := i, rec
		g.Go(func() error {
			ids := make([]string, 0, len(rec.Alt))
			msgs := make([]string, 0, len(rec.Alt))
			for altIdx, alt := range rec.Alt {
				coords := translate.VCFCoordinates{Chrom: rec.Chrom, Pos: rec.Pos, Ref: rec.Ref, Alt: alt, Assembly: opts.Assembly}
				result, err := r.Register(gctx, coords, opts.ComputeForRef)
				if err != nil {
					return fmt.Errorf("vcfpipeline: annotate %s: %w", rec.Coords(altIdx), err)
				}
				ids = append(ids, result.ID)
				msgs = append(msgs, strings.Join(result.Messages, "; "))
			}
			results[i] = annotateRecordResult{ids: ids, msgs: msgs}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i, rec := range records {
		res := results[i]
		rec.SetInfo(VRSAlleleIDsInfoKey, strings.Join(res.ids, ","))
		if anyNonEmpty(res.msgs) {
			rec.SetInfo(VRSErrorInfoKey, strings.Join(res.msgs, ","))
		}
		if err := writer.WriteRecord(rec); err != nil {
			return err
		}
	}
	return writer.Flush()
}

func anyNonEmpty(msgs []string) bool {
	for _, m := range msgs {
		if m != "" {
			return true
		}
	}
	return false
}

// IngestOptions configures IngestAnnotatedVCF.
type IngestOptions struct {
	Assembly string
	// RequireValidation causes a record lacking VRS_Allele_IDs to abort
	// ingestion with ErrRequiredAnnotationsMissing instead of being
	// skipped.
	RequireValidation bool
	// Concurrency bounds how many records are re-translated at once. Zero
	// selects DefaultConcurrency.
	Concurrency int
}

// Conflict records a record whose already-present VRS_Allele_IDs
// annotation didn't match the ID this implementation would compute,
// mirroring the conflicts file register_existing_annotations writes when
// require_validation is set.
type Conflict struct {
	Coords       string
	AnnotatedID  string
	RecomputedID string
}

// IngestAnnotatedVCF reads a VCF already carrying VRS_Allele_IDs
// annotations and registers each referenced allele by re-translating its
// coordinates, without rewriting the file. When opts.RequireValidation is
// true, a recomputed ID that disagrees with the file's annotation is
// reported as a Conflict rather than failing the whole ingest.
func IngestAnnotatedVCF(ctx context.Context, r *Registrar, in io.Reader, opts IngestOptions) ([]Conflict, error) {
	if b, ok := r.Storage.(store.Batcher); ok {
		var conflicts []Conflict
		err := store.RunBatch(ctx, b, true, func(ctx context.Context, h store.BatchHandle) error {
			scoped := *r
			scoped.Storage = h
			var err error
			conflicts, err = ingestAnnotatedVCF(ctx, &scoped, in, opts)
			return err
		})
		return conflicts, err
	}
	return ingestAnnotatedVCF(ctx, r, in, opts)
}

func ingestAnnotatedVCF(ctx context.Context, r *Registrar, in io.Reader, opts IngestOptions) ([]Conflict, error) {
	reader := NewReader(in)

	var records []*Record
	for {
		rec, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	perRecord := make([][]Conflict, len(records))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrencyOrDefault(opts.Concurrency))
	for i, rec := range records {
		i, rec := i, rec
		g.Go(func() error {
			annotated, ok := rec.InfoValue(VRSAlleleIDsInfoKey)
			if !ok {
				if opts.RequireValidation {
					return fmt.Errorf("%w: %s:%d", ErrRequiredAnnotationsMissing, rec.Chrom, rec.Pos)
				}
				klog.Warningf("vcfpipeline: record %s:%d missing %s, skipping", rec.Chrom, rec.Pos, VRSAlleleIDsInfoKey)
				return nil
			}
			annotatedIDs := strings.Split(annotated, ",")

			var conflicts []Conflict
			for altIdx, alt := range rec.Alt {
				coords := translate.VCFCoordinates{Chrom: rec.Chrom, Pos: rec.Pos, Ref: rec.Ref, Alt: alt, Assembly: opts.Assembly}
				result, err := r.Register(gctx, coords, false)
				if err != nil {
					return fmt.Errorf("vcfpipeline: ingest %s: %w", rec.Coords(altIdx), err)
				}
				if opts.RequireValidation && altIdx < len(annotatedIDs) && annotatedIDs[altIdx] != result.ID {
					conflicts = append(conflicts, Conflict{
						Coords:       rec.Coords(altIdx),
						AnnotatedID:  annotatedIDs[altIdx],
						RecomputedID: result.ID,
					})
				}
			}
			perRecord[i] = conflicts
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var conflicts []Conflict
	for _, c := range perRecord {
		conflicts = append(conflicts, c...)
	}
	return conflicts, nil
}
