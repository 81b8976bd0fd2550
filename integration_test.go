/*
 *  integration_test.go
 *  mamotif
 *
 *  Copyright © 2026 MAmotif authors. All rights reserved.
 */

package mamotif_test

import (
	"math"
	"testing"

	"github.com/shao-lab/mamotif"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newRegions builds matched regions on chr1 from M-values and presence rows
func newRegions(t *testing.T, mvalues []float64, presence [][]int) []*mamotif.Region {
	regions := make([]*mamotif.Region, len(mvalues))
	for i, m := range mvalues {
		region, err := mamotif.NewRegion("chr1", i*1000, i*1000+200, presence[i])
		require.NoError(t, err)
		require.NoError(t, region.SetMValue(m))
		regions[i] = region
	}
	return regions
}

func TestCombine(t *testing.T) {
	assert.Equal(t, 0.02, mamotif.Combine(0.02, math.NaN()))
	assert.Equal(t, 0.02, mamotif.Combine(math.NaN(), 0.02))
	assert.Equal(t, 0.03, mamotif.Combine(0.01, 0.03))
	assert.True(t, math.IsNaN(mamotif.Combine(math.NaN(), math.NaN())))
}

func TestSortResults(t *testing.T) {
	results := []mamotif.TestResult{
		{Motif: "a", PAdj: math.NaN()},
		{Motif: "b", PAdj: 0.5},
		{Motif: "c", PAdj: 0.01},
		{Motif: "d", PAdj: 0.5},
		{Motif: "e", PAdj: math.NaN()},
	}
	mamotif.SortResults(results)
	var motifs []string
	for _, r := range results {
		motifs = append(motifs, r.Motif)
	}
	assert.Equal(t, []string{"c", "b", "d", "a", "e"}, motifs)
}

func TestTest(t *testing.T) {
	motifs := mamotif.MotifSet{"M1", "M2", "M3"}
	regions := newRegions(t,
		[]float64{2.0, 1.5, -1.0, 0.5, -0.5, 1.0},
		[][]int{{2, 0, 1}, {1, 0, 0}, {0, 1, 0}, {0, 1, 1}, {0, 0, 0}, {1, 0, 0}})

	results, err := mamotif.Test(motifs, regions, false, mamotif.Benjamini)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "M1", results[0].Motif)
	assert.Equal(t, "M3", results[1].Motif)
	assert.Equal(t, "M2", results[2].Motif)

	m1 := results[0]
	assert.Equal(t, 3, m1.NPos)
	assert.Equal(t, 3, m1.NNeg)
	assert.InDelta(t, 1.5, m1.MeanPos, 1e-12)
	assert.InDelta(t, -1.0/3, m1.MeanNeg, 1e-12)
	assert.Greater(t, m1.TStat, 0.0)
	assert.Greater(t, m1.RStat, 0.0)
	assert.GreaterOrEqual(t, m1.TPAdj, m1.TPValue)
	assert.Equal(t, math.Max(m1.TPAdj, m1.RPAdj), m1.PAdj)

	// Every region is in exactly one group of every motif
	for _, r := range results {
		assert.Equal(t, len(regions), r.NPos+r.NNeg, r.Motif)
	}
}

func TestTestNegative(t *testing.T) {
	motifs := mamotif.MotifSet{"M1", "M2", "M3"}
	regions := newRegions(t,
		[]float64{2.0, 1.5, -1.0, 0.5, -0.5, 1.0},
		[][]int{{2, 0, 1}, {1, 0, 0}, {0, 1, 0}, {0, 1, 1}, {0, 0, 0}, {1, 0, 0}})

	results, err := mamotif.Test(motifs, regions, true, mamotif.Bonferroni)
	require.NoError(t, err)
	assert.Equal(t, "M2", results[0].Motif)
	var m1 mamotif.TestResult
	for _, r := range results {
		if r.Motif == "M1" {
			m1 = r
		}
	}
	assert.InDelta(t, -1.5, m1.MeanPos, 1e-12)
	assert.Less(t, m1.TStat, 0.0)
	assert.Greater(t, m1.TPValue, 0.5)

	// The regions keep their unflipped M-values
	m, ok := regions[0].MValue()
	assert.True(t, ok)
	assert.Equal(t, 2.0, m)
}

func TestTestMotifPresentEverywhere(t *testing.T) {
	motifs := mamotif.MotifSet{"ALL", "SOME"}
	regions := newRegions(t,
		[]float64{1.0, 2.0, 3.0},
		[][]int{{1, 1}, {1, 0}, {1, 0}})

	results, err := mamotif.Test(motifs, regions, false, mamotif.Benjamini)
	require.NoError(t, err)
	all := results[1]
	assert.Equal(t, "ALL", all.Motif)
	assert.Equal(t, 0, all.NNeg)
	assert.True(t, math.IsNaN(all.MeanNeg))
	assert.True(t, math.IsNaN(all.TPValue))
	assert.True(t, math.IsNaN(all.RPValue))
	assert.True(t, math.IsNaN(all.PAdj))
}
