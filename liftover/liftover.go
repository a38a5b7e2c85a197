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

// Package liftover converts a SequenceLocation between GRCh37 and GRCh38,
// grounded on original_source/src/anyvar/utils/liftover_utils.py. It is a
// pure function of its two collaborator interfaces (AliasResolver and
// CoordinateConverter) so the classification logic can be tested without a
// real sequence data proxy or coordinate-mapping chain file.
package liftover

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/avast/retry-go/v4"

	"github.com/biocommons/anyvar-go/vrs"
)

const (
	AssemblyGRCh37 = "GRCh37"
	AssemblyGRCh38 = "GRCh38"
)

// AliasResolver looks up the known aliases of a refget accession within a
// named reference assembly, the role seqrepo's data proxy plays in the
// source.
type AliasResolver interface {
	AliasesInAssembly(ctx context.Context, refgetAccession, assembly string) ([]string, error)
	// AccessionForAlias resolves an assembly:chromosome alias (e.g.
	// "GRCh37:chr10") back to its ga4gh refget accession.
	AccessionForAlias(ctx context.Context, alias string) (string, error)
}

// CoordinateConverter converts a single interresidue coordinate on a named
// chromosome from one assembly to another, the role an AGCT-style chain
// converter plays in the source.
type CoordinateConverter interface {
	ConvertCoordinate(ctx context.Context, fromAssembly, toAssembly, chromosome string, position int64) (int64, error)
}

// Client performs liftover using an AliasResolver and a CoordinateConverter.
type Client struct {
	Aliases    AliasResolver
	Converters CoordinateConverter
	// RetryAttempts bounds retries of the (network-backed) collaborator
	// calls; zero disables retrying.
	RetryAttempts uint
}

// Liftover converts loc to its counterpart location in the opposite
// assembly from the one its accession is found in. See spec §6 and the
// error classification in errors.go.
func (c *Client) Liftover(ctx context.Context, loc *vrs.SequenceLocation) (*vrs.SequenceLocation, error) {
	if loc == nil {
		return nil, fmt.Errorf("%w: nil location", ErrMalformedInput)
	}
	refgetAccession := loc.SequenceReference.RefgetAccession
	if refgetAccession == "" {
		return nil, fmt.Errorf("%w: missing sequence reference", ErrUnsupportedVariantLocationType)
	}
	start, startOK := loc.Start.Outer(true)
	end, endOK := loc.End.Outer(false)
	if !startOK || !endOK {
		return nil, fmt.Errorf("%w: missing start or end position", ErrUnsupportedVariantLocationType)
	}

	aliases37, err := c.aliasesWithRetry(ctx, refgetAccession, AssemblyGRCh37)
	if err != nil {
		return nil, err
	}
	aliases38, err := c.aliasesWithRetry(ctx, refgetAccession, AssemblyGRCh38)
	if err != nil {
		return nil, err
	}

	fromAssembly, toAssembly, err := resolveAssemblies(aliases37, aliases38)
	if err != nil {
		return nil, err
	}
	fromAliases := aliases37
	if fromAssembly == AssemblyGRCh38 {
		fromAliases = aliases38
	}

	chromosome := chromosomeFromAliases(fromAliases)
	if chromosome == "" {
		return nil, ErrChromosomeResolution
	}

	convertedStart, err := c.convertWithRetry(ctx, fromAssembly, toAssembly, chromosome, start)
	if err != nil {
		return nil, err
	}
	convertedEnd, err := c.convertWithRetry(ctx, fromAssembly, toAssembly, chromosome, end)
	if err != nil {
		return nil, err
	}

	newAlias := fmt.Sprintf("%s:%s", toAssembly, chromosome)
	convertedAccession, err := c.Aliases.AccessionForAlias(ctx, newAlias)
	if err != nil || convertedAccession == "" {
		return nil, fmt.Errorf("%w: %v", ErrAccessionConversion, err)
	}

	return vrs.NewSequenceLocation(convertedAccession, vrs.IntCoordinate(convertedStart), vrs.IntCoordinate(convertedEnd)), nil
}

func (c *Client) aliasesWithRetry(ctx context.Context, accession, assembly string) ([]string, error) {
	var aliases []string
	err := retry.Do(func() error {
		var err error
		aliases, err = c.Aliases.AliasesInAssembly(ctx, accession, assembly)
		return err
	}, retry.Attempts(c.attempts()), retry.Context(ctx))
	return aliases, err
}

func (c *Client) convertWithRetry(ctx context.Context, from, to, chromosome string, pos int64) (int64, error) {
	var converted int64
	err := retry.Do(func() error {
		var err error
		converted, err = c.Converters.ConvertCoordinate(ctx, from, to, chromosome, pos)
		return err
	}, retry.Attempts(c.attempts()), retry.Context(ctx))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrCoordinateConversion, err)
	}
	return converted, nil
}

func (c *Client) attempts() uint {
	if c.RetryAttempts == 0 {
		return 1
	}
	return c.RetryAttempts
}

// resolveAssemblies decides which assembly a variant belongs to, and which
// it should be lifted to, from its alias lists in both supported
// assemblies, per get_from_and_to_assemblies.
func resolveAssemblies(aliases37, aliases38 []string) (from, to string, err error) {
	has37 := len(aliases37) > 0
	has38 := len(aliases38) > 0
	switch {
	case has37 && !has38:
		return AssemblyGRCh37, AssemblyGRCh38, nil
	case has38 && !has37:
		return AssemblyGRCh38, AssemblyGRCh37, nil
	case !has37 && !has38:
		return "", "", ErrUnsupportedReferenceAssembly
	default:
		return "", "", ErrAmbiguousReferenceAssembly
	}
}

var chromosomePattern = regexp.MustCompile(`:(?:chr)?(\d+|[XY])$`)

// chromosomeFromAliases extracts a "chrN"-form chromosome name from the
// first GRCh-prefixed alias found, per get_chromosome_from_aliases.
func chromosomeFromAliases(aliases []string) string {
	var referenceAlias string
	for _, a := range aliases {
		if strings.Contains(a, "GRCh") {
			referenceAlias = a
			break
		}
	}
	if referenceAlias == "" {
		return ""
	}
	m := chromosomePattern.FindStringSubmatch(referenceAlias)
	if m == nil {
		return ""
	}
	return "chr" + m[1]
}
