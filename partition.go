/*
 *  partition.go
 *  mamotif
 *
 *  Copyright © 2026 MAmotif authors. All rights reserved.
 */

package mamotif

import (
	"errors"
	"fmt"
)

// ErrMissingMValue is returned when a region reaches testing without an M-value
var ErrMissingMValue = errors.New("region has no M-value")

// Partition splits the M-values of the regions into the target group (motif k
// present) and the non-target group (motif k absent). Every region lands in
// exactly one group. With negative set, every emitted value is negated to turn
// log2(A/B) into log2(B/A); the regions themselves are never modified.
func Partition(regions []*Region, k int, negative bool) (pos, neg []float64, err error) {
	pos = []float64{}
	neg = []float64{}
	for _, region := range regions {
		if k < 0 || k >= len(region.HasMotif) {
			return nil, nil, fmt.Errorf("%v: motif index %d out of range [0, %d)",
				region, k, len(region.HasMotif))
		}
		m, ok := region.MValue()
		if !ok {
			return nil, nil, fmt.Errorf("%v: %w", region, ErrMissingMValue)
		}
		if negative {
			m = -m
		}
		if region.HasMotif[k] {
			pos = append(pos, m)
		} else {
			neg = append(neg, m)
		}
	}
	return pos, neg, nil
}
