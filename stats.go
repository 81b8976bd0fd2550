/*
 *  stats.go
 *  mamotif
 *
 *  Copyright © 2026 MAmotif authors. All rights reserved.
 */

package mamotif

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// WelchTTest compares the means of pos and neg with Welch's unequal-variance
// t-test and returns the t statistic with its right-tailed p-value, i.e. the
// probability under H0 of pos having a mean this much higher than neg.
// A single-value group contributes no sampling variance. Undefined tests (an
// empty group, zero standard error) return NaN, NaN.
func WelchTTest(pos, neg []float64) (float64, float64) {
	if len(pos) == 0 || len(neg) == 0 {
		return math.NaN(), math.NaN()
	}
	m1, vn1, df1 := welchTerm(pos)
	m2, vn2, df2 := welchTerm(neg)
	se := math.Sqrt(vn1 + vn2)
	if se == 0 || math.IsNaN(se) {
		return math.NaN(), math.NaN()
	}
	t := (m1 - m2) / se
	// Welch-Satterthwaite degrees of freedom, zero-variance terms drop out
	denom := 0.0
	if vn1 > 0 {
		denom += vn1 * vn1 / df1
	}
	if vn2 > 0 {
		denom += vn2 * vn2 / df2
	}
	df := (vn1 + vn2) * (vn1 + vn2) / denom
	if math.IsNaN(t) || math.IsInf(t, 0) || math.IsNaN(df) || math.IsInf(df, 0) || df <= 0 {
		return math.NaN(), math.NaN()
	}
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	pTwo := 2 * dist.Survival(math.Abs(t))
	return t, rightTailed(t, pTwo)
}

// welchTerm returns the mean, the squared standard error of the mean and the
// degrees of freedom of one group
func welchTerm(a []float64) (mean, vn, df float64) {
	if len(a) == 1 {
		return a[0], 0, 0
	}
	mean, variance := stat.MeanVariance(a, nil)
	n := float64(len(a))
	return mean, variance / n, n - 1
}

// RankSumTest runs the Wilcoxon rank-sum test of pos against neg using the
// normal approximation (no tie correction) and returns the z statistic with
// its right-tailed p-value. Ties get the average of their ranks. An empty
// group returns NaN, NaN.
func RankSumTest(pos, neg []float64) (float64, float64) {
	n1, n2 := float64(len(pos)), float64(len(neg))
	if len(pos) == 0 || len(neg) == 0 {
		return math.NaN(), math.NaN()
	}
	all := make([]float64, 0, len(pos)+len(neg))
	all = append(all, pos...)
	all = append(all, neg...)
	ranks := rankData(all)
	s := 0.0
	for _, rank := range ranks[:len(pos)] {
		s += rank
	}
	expected := n1 * (n1 + n2 + 1) / 2
	z := (s - expected) / math.Sqrt(n1*n2*(n1+n2+1)/12)
	if math.IsNaN(z) || math.IsInf(z, 0) {
		return math.NaN(), math.NaN()
	}
	pTwo := 2 * distuv.UnitNormal.Survival(math.Abs(z))
	return z, rightTailed(z, pTwo)
}

// rightTailed converts a two-tailed p-value into the right-tailed one given
// the sign of the statistic
func rightTailed(statistic, pTwo float64) float64 {
	if statistic < 0 {
		return 1 - pTwo/2
	}
	return pTwo / 2
}

// rankData assigns 1-based ranks to a, tied values share the average rank
func rankData(a []float64) []float64 {
	order := make([]int, len(a))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return a[order[i]] < a[order[j]]
	})
	ranks := make([]float64, len(a))
	for i := 0; i < len(order); {
		j := i + 1
		for j < len(order) && a[order[j]] == a[order[i]] {
			j++
		}
		// Positions i..j-1 are tied, ranks i+1..j
		avg := float64(i+1+j) / 2
		for k := i; k < j; k++ {
			ranks[order[k]] = avg
		}
		i = j
	}
	return ranks
}

// MeanStd returns the mean and the population standard deviation of a
// group, NaN, NaN for an empty group
func MeanStd(a []float64) (float64, float64) {
	if len(a) == 0 {
		return math.NaN(), math.NaN()
	}
	mean, variance := stat.PopMeanVariance(a, nil)
	return mean, math.Sqrt(variance)
}
