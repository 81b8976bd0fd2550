/*
 *  match.go
 *  mamotif
 *
 *  Copyright © 2026 MAmotif authors. All rights reserved.
 */

package mamotif

import (
	"fmt"
)

// RegionMatchError is raised when a motif-scan region has no MAnorm region
// with identical coordinates
type RegionMatchError struct {
	File  string // MAnorm file, empty when matching in memory
	Chrom string
	Start int
	End   int
}

func (e *RegionMatchError) Error() string {
	msg := fmt.Sprintf("no matched MAnorm region found for %s:%d-%d", e.Chrom, e.Start, e.End)
	if e.File != "" {
		return msg + " in `" + e.File + "`"
	}
	return msg
}

// span is the (start, end) pair within a chromosome
type span [2]int

// MAnormIndex groups MAnorm regions by chromosome, then by exact coordinates.
// It is built once and only read afterwards.
type MAnormIndex struct {
	byChrom map[string]map[span]*MAnormRegion
	size    int
}

// NewMAnormIndex builds the chromosome-keyed index. When two MAnorm regions
// share the same coordinates, the first one is kept.
func NewMAnormIndex(regions []*MAnormRegion) *MAnormIndex {
	idx := &MAnormIndex{byChrom: map[string]map[span]*MAnormRegion{}}
	duplicates := 0
	for _, region := range regions {
		chrom := normChrom(region.Chrom)
		spans, ok := idx.byChrom[chrom]
		if !ok {
			spans = map[span]*MAnormRegion{}
			idx.byChrom[chrom] = spans
		}
		key := span{region.Start, region.End}
		if _, ok := spans[key]; ok {
			duplicates++
			continue
		}
		spans[key] = region
		idx.size++
	}
	if duplicates > 0 {
		log.Debugf("%d MAnorm regions with duplicated coordinates ignored", duplicates)
	}
	return idx
}

// Lookup finds the MAnorm region at exactly chrom:start-end
func (r *MAnormIndex) Lookup(chrom string, start, end int) (*MAnormRegion, bool) {
	spans, ok := r.byChrom[normChrom(chrom)]
	if !ok {
		return nil, false
	}
	region, ok := spans[span{start, end}]
	return region, ok
}

// Len returns the number of distinct regions in the index
func (r *MAnormIndex) Len() int {
	return r.size
}

// MatchRegions sets the M-value of every motif-scan region from the MAnorm
// region with identical coordinates. Every region must find a partner; the
// first one that does not stops the match with a *RegionMatchError.
func MatchRegions(manorm []*MAnormRegion, regions []*Region) error {
	log.Notice("Matching MAnorm and MotifScan results")
	if len(manorm) != len(regions) {
		log.Warningf("The number of genomic regions are unmatched: %d MAnorm vs %d MotifScan",
			len(manorm), len(regions))
	}
	idx := NewMAnormIndex(manorm)
	for _, region := range regions {
		partner, ok := idx.Lookup(region.Chrom, region.Start, region.End)
		if !ok {
			return &RegionMatchError{Chrom: region.Chrom, Start: region.Start, End: region.End}
		}
		if err := region.SetMValue(partner.MValue); err != nil {
			return err
		}
	}
	log.Noticef("Matched %d regions", len(regions))
	return nil
}
