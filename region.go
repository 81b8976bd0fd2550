/*
 *  region.go
 *  mamotif
 *
 *  Copyright © 2026 MAmotif authors. All rights reserved.
 */

package mamotif

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrMValueSet is returned when an M-value is assigned twice to a region
var ErrMValueSet = errors.New("m-value already set")

// MotifSet is the ordered list of motif names. Index k of every region's
// HasMotif vector refers to MotifSet[k].
type MotifSet []string

// Index returns the position of the named motif, -1 if absent
func (r MotifSet) Index(name string) int {
	for i, motif := range r {
		if motif == name {
			return i
		}
	}
	return -1
}

// Region is a genomic interval [Start, End), 0-based, with its M-value and
// the motif presence vector
type Region struct {
	Chrom    string
	Start    int
	End      int
	HasMotif []bool
	mValue   float64
	hasM     bool
}

// NewRegion builds a region from per-motif site counts, presence is count > 0
func NewRegion(chrom string, start, end int, nSites []int) (*Region, error) {
	if start >= end {
		return nil, fmt.Errorf("invalid region %s:%d-%d: start must be less than end",
			chrom, start, end)
	}
	hasMotif := make([]bool, len(nSites))
	for i, n := range nSites {
		hasMotif[i] = n > 0
	}
	return &Region{Chrom: chrom, Start: start, End: end, HasMotif: hasMotif}, nil
}

// SetMValue assigns the M-value, a region accepts it only once
func (r *Region) SetMValue(m float64) error {
	if r.hasM {
		return fmt.Errorf("%v: %w", r, ErrMValueSet)
	}
	r.mValue = m
	r.hasM = true
	return nil
}

// MValue returns the M-value and whether it has been set
func (r *Region) MValue() (float64, bool) {
	if !r.hasM {
		return math.NaN(), false
	}
	return r.mValue, true
}

// Key is the coordinate key used for exact matching
func (r *Region) Key() RegionKey {
	return RegionKey{Chrom: normChrom(r.Chrom), Start: r.Start, End: r.End}
}

// Len returns the length of the region in bp
func (r *Region) Len() int {
	return r.End - r.Start
}

// String outputs the string representation of Region
func (r *Region) String() string {
	return fmt.Sprintf("%s:%d-%d", r.Chrom, r.Start, r.End)
}

// RegionKey identifies a region by case-normalized chromosome and coordinates
type RegionKey struct {
	Chrom string
	Start int
	End   int
}

// normChrom lower-cases chromosome names so that chr1 and Chr1 match
func normChrom(chrom string) string {
	return strings.ToLower(chrom)
}
