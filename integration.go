/*
 *  integration.go
 *  mamotif
 *
 *  Copyright © 2026 MAmotif authors. All rights reserved.
 */

package mamotif

import (
	"math"
	"sort"
)

// TestResult stores the statistics of one motif. M-value summaries are taken
// after the optional sign flip.
type TestResult struct {
	Motif   string
	NPos    int     // Target number
	MeanPos float64 // Average of target M-values
	StdPos  float64 // Population std. of target M-values
	NNeg    int
	MeanNeg float64
	StdNeg  float64
	TStat   float64 // Welch t statistic
	TPValue float64 // right-tailed
	TPAdj   float64 // after multiple testing correction
	RStat   float64 // rank-sum z statistic
	RPValue float64
	RPAdj   float64
	PAdj    float64 // maximal corrected p-value, used for ranking
}

// Combine merges the two corrected p-values into the conservative one: the
// larger of the two, or the defined one if only one is defined
func Combine(tAdj, rAdj float64) float64 {
	switch {
	case math.IsNaN(tAdj):
		return rAdj
	case math.IsNaN(rAdj):
		return tAdj
	}
	return math.Max(tAdj, rAdj)
}

// Test runs both tests for every motif over the regions, corrects the two
// p-value vectors separately across motifs and returns the results sorted
// ascending by the combined p-value (NaN last, ties in motif order)
func Test(motifs MotifSet, regions []*Region, negative bool, correction Correction) ([]TestResult, error) {
	log.Noticef("Testing %d motifs over %d regions (negative = %v, correction = %v)",
		len(motifs), len(regions), negative, correction)
	results := make([]TestResult, len(motifs))
	for k, motif := range motifs {
		pos, neg, err := Partition(regions, k, negative)
		if err != nil {
			return nil, err
		}
		r := &results[k]
		r.Motif = motif
		r.NPos, r.NNeg = len(pos), len(neg)
		r.MeanPos, r.StdPos = MeanStd(pos)
		r.MeanNeg, r.StdNeg = MeanStd(neg)
		r.TStat, r.TPValue = WelchTTest(pos, neg)
		r.RStat, r.RPValue = RankSumTest(pos, neg)
		if math.IsNaN(r.TPValue) || math.IsNaN(r.RPValue) {
			log.Debugf("Motif %s: undefined test (target = %d, non-target = %d)",
				motif, r.NPos, r.NNeg)
		}
	}

	tPValues := make([]float64, len(results))
	rPValues := make([]float64, len(results))
	for i, r := range results {
		tPValues[i] = r.TPValue
		rPValues[i] = r.RPValue
	}
	tAdj := correction.Adjust(tPValues)
	rAdj := correction.Adjust(rPValues)
	for i := range results {
		results[i].TPAdj = tAdj[i]
		results[i].RPAdj = rAdj[i]
		results[i].PAdj = Combine(tAdj[i], rAdj[i])
	}

	SortResults(results)
	return results, nil
}

// SortResults orders results ascending by the combined p-value, NaN last.
// The sort is stable so that ties keep their input order.
func SortResults(results []TestResult) {
	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i].PAdj, results[j].PAdj
		if math.IsNaN(a) {
			return false
		}
		if math.IsNaN(b) {
			return true
		}
		return a < b
	})
}
