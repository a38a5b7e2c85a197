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
	"bytes"
	"io"
	"strings"
	"testing"
)

const sampleVCF = `##fileformat=VCFv4.2
##contig=<ID=1,length=249250621>
#CHROM	POS	ID	REF	ALT	QUAL	FILTER	INFO
1	100	.	A	G,T	.	PASS	DP=10
`

func TestReader_ParsesHeaderAndRecords(t *testing.T) {
	r := NewReader(strings.NewReader(sampleVCF))
	rec, err := r.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if rec.Chrom != "1" || rec.Pos != 100 || rec.Ref != "A" {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if len(rec.Alt) != 2 || rec.Alt[0] != "G" || rec.Alt[1] != "T" {
		t.Fatalf("unexpected alt alleles: %v", rec.Alt)
	}
	if v, ok := rec.InfoValue("DP"); !ok || v != "10" {
		t.Fatalf("InfoValue(DP) = %q, %v", v, ok)
	}
	if _, err := r.Next(); err != io.EOF {
		t.Fatalf("expected io.EOF, got %v", err)
	}
	if len(r.Header) != 3 {
		t.Fatalf("expected 3 header lines, got %d: %v", len(r.Header), r.Header)
	}
}

func TestRecord_SetInfoAndRoundTrip(t *testing.T) {
	r := NewReader(strings.NewReader(sampleVCF))
	rec, err := r.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	rec.SetInfo(VRSAlleleIDsInfoKey, "ga4gh:VA.1,ga4gh:VA.2")

	var buf bytes.Buffer
	w := NewWriter(&buf)
	if err := w.WriteHeader(r.Header); err != nil {
		t.Fatalf("WriteHeader: %v", err)
	}
	if err := w.WriteRecord(rec); err != nil {
		t.Fatalf("WriteRecord: %v", err)
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	r2 := NewReader(&buf)
	rec2, err := r2.Next()
	if err != nil {
		t.Fatalf("re-read: %v", err)
	}
	v, ok := rec2.InfoValue(VRSAlleleIDsInfoKey)
	if !ok || v != "ga4gh:VA.1,ga4gh:VA.2" {
		t.Fatalf("round-tripped VRS_Allele_IDs = %q, %v", v, ok)
	}
	if dp, ok := rec2.InfoValue("DP"); !ok || dp != "10" {
		t.Fatalf("expected original DP field to survive round trip, got %q, %v", dp, ok)
	}
}

func TestRecord_Coords(t *testing.T) {
	rec := &Record{Chrom: "1", Pos: 100, Ref: "A", Alt: []string{"G", "T"}}
	if got := rec.Coords(1); got != "1-100-A-T" {
		t.Fatalf("Coords(1) = %q", got)
	}
}
