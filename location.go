/*
 *  location.go
 *  mamotif
 *
 *  Copyright © 2026 MAmotif authors. All rights reserved.
 */

package mamotif

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/biogo/store/interval"
)

// zone is a half-open interval stored in the per-chromosome trees
type zone struct {
	start, end int
	uid        uintptr
}

// Overlap uses half-open interval indexing
func (i zone) Overlap(b interval.IntRange) bool {
	return i.end > b.Start && i.start < b.End
}

// ID returns the unique id within the tree
func (i zone) ID() uintptr {
	return i.uid
}

// Range returns the interval range
func (i zone) Range() interval.IntRange {
	return interval.IntRange{Start: i.start, End: i.end}
}

// IntervalIndex holds one interval tree per lower-cased chromosome. It is
// built once by its constructors and only queried afterwards.
type IntervalIndex struct {
	trees map[string]*interval.IntTree
	size  int
}

// newIntervalIndex starts an empty index, callers insert then call adjust
func newIntervalIndex() *IntervalIndex {
	return &IntervalIndex{trees: map[string]*interval.IntTree{}}
}

func (r *IntervalIndex) insert(chrom string, start, end int) error {
	if start >= end {
		return nil
	}
	chrom = normChrom(chrom)
	tree, ok := r.trees[chrom]
	if !ok {
		tree = &interval.IntTree{}
		r.trees[chrom] = tree
	}
	r.size++
	return tree.Insert(zone{start: start, end: end, uid: uintptr(r.size)}, true)
}

func (r *IntervalIndex) adjust() {
	for _, tree := range r.trees {
		tree.AdjustRanges()
	}
}

// Overlaps checks whether [start, end) on chrom overlaps any indexed interval
func (r *IntervalIndex) Overlaps(chrom string, start, end int) bool {
	tree, ok := r.trees[normChrom(chrom)]
	if !ok {
		return false
	}
	return len(tree.Get(zone{start: start, end: end})) > 0
}

// Len returns the number of indexed intervals
func (r *IntervalIndex) Len() int {
	return r.size
}

// NewPromoterIndex indexes the promoter zones of all genes. sizes may be nil,
// in which case zone ends are not clamped.
func NewPromoterIndex(genes []*Gene, upstream, downstream int, sizes ChromSizes) (*IntervalIndex, error) {
	if err := ValidateDistances(upstream, downstream); err != nil {
		return nil, err
	}
	idx := newIntervalIndex()
	for _, gene := range genes {
		start, end := gene.PromoterZone(upstream, downstream, sizes.Size(gene.Chrom))
		if err := idx.insert(gene.Chrom, start, end); err != nil {
			return nil, fmt.Errorf("%v: %w", gene, err)
		}
	}
	idx.adjust()
	log.Noticef("Indexed %d promoter zones (upstream = %d, downstream = %d) on %d chromosomes",
		idx.Len(), upstream, downstream, len(idx.trees))
	return idx, nil
}

// ReadBedRegions loads the intervals of a BED file (0-based starts). Track,
// browser and comment lines are skipped, extra columns are ignored.
func ReadBedRegions(filename string) ([]*Region, error) {
	log.Noticef("Parse bedfile `%s`", filename)
	r, err := openTSV(filename)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	var regions []*Region
	for {
		words, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &InputFormatError{File: filename, Line: r.Line(), Msg: err.Error()}
		}
		if len(words) == 0 || strings.HasPrefix(words[0], "#") ||
			strings.HasPrefix(words[0], "track") || strings.HasPrefix(words[0], "browser") {
			continue
		}
		if len(words) < 3 {
			return nil, &InputFormatError{File: filename, Line: r.Line(),
				Msg: fmt.Sprintf("expecting at least 3 columns, got %d", len(words))}
		}
		start, err1 := strconv.Atoi(words[1])
		end, err2 := strconv.Atoi(words[2])
		if err1 != nil || err2 != nil {
			return nil, &InputFormatError{File: filename, Line: r.Line(),
				Msg: fmt.Sprintf("invalid interval %s:%s-%s", words[0], words[1], words[2])}
		}
		region, err := NewRegion(words[0], start, end, nil)
		if err != nil {
			return nil, &InputFormatError{File: filename, Line: r.Line(), Msg: err.Error()}
		}
		regions = append(regions, region)
	}
	log.Noticef("Loaded %d intervals", len(regions))
	return regions, nil
}

// NewRegionIndex indexes a set of regions, e.g. peaks from another experiment
func NewRegionIndex(regions []*Region) (*IntervalIndex, error) {
	idx := newIntervalIndex()
	for _, region := range regions {
		if err := idx.insert(region.Chrom, region.Start, region.End); err != nil {
			return nil, fmt.Errorf("%v: %w", region, err)
		}
	}
	idx.adjust()
	return idx, nil
}

// ValidateDistances checks the promoter half-widths
func ValidateDistances(upstream, downstream int) error {
	if upstream <= 0 {
		return &ConfigError{Option: "upstream",
			Msg: fmt.Sprintf("invalid positive int value: %d", upstream)}
	}
	if downstream <= 0 {
		return &ConfigError{Option: "downstream",
			Msg: fmt.Sprintf("invalid positive int value: %d", downstream)}
	}
	return nil
}

// Predicate tells whether a region satisfies some property
type Predicate func(*Region) bool

// OverlapsAny is satisfied by regions overlapping an interval of idx
func OverlapsAny(idx *IntervalIndex) Predicate {
	return func(region *Region) bool {
		return idx.Overlaps(region.Chrom, region.Start, region.End)
	}
}

// InPromoter is satisfied by regions overlapping a promoter zone
func InPromoter(promoters *IntervalIndex) Predicate {
	return OverlapsAny(promoters)
}

// AbsMValueAbove is satisfied by regions with |M-value| > |threshold|
func AbsMValueAbove(threshold float64) Predicate {
	threshold = math.Abs(threshold)
	return func(region *Region) bool {
		m, ok := region.MValue()
		return ok && math.Abs(m) > threshold
	}
}

// Not negates a predicate
func Not(p Predicate) Predicate {
	return func(region *Region) bool {
		return !p(region)
	}
}

// Subset returns the regions satisfying p, in input order. The regions are
// shared with the input slice, not copied.
func Subset(regions []*Region, p Predicate) []*Region {
	subset := []*Region{}
	for _, region := range regions {
		if p(region) {
			subset = append(subset, region)
		}
	}
	return subset
}

// SplitByLocation separates regions into promoter and distal regions
func SplitByLocation(regions []*Region, promoters *IntervalIndex) (promoter, distal []*Region) {
	inPromoter := InPromoter(promoters)
	promoter = Subset(regions, inPromoter)
	distal = Subset(regions, Not(inPromoter))
	log.Noticef("Split into %s promoter regions and %s distal regions",
		Percentage(len(promoter), len(regions)), Percentage(len(distal), len(regions)))
	return promoter, distal
}
