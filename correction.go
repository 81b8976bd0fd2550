/*
 *  correction.go
 *  mamotif
 *
 *  Copyright © 2026 MAmotif authors. All rights reserved.
 */

package mamotif

import (
	"math"
	"sort"
	"strings"
)

// Correction is a multiple testing correction method
type Correction int

const (
	// Benjamini is the Benjamini-Hochberg step-up procedure
	Benjamini Correction = iota
	// Bonferroni multiplies every p-value by the number of tests
	Bonferroni
)

// ParseCorrection maps a method name onto a Correction. `benjamin` is
// accepted for compatibility with older command lines.
func ParseCorrection(name string) (Correction, error) {
	switch strings.ToLower(name) {
	case "benjamini", "benjamin", "bh", "fdr":
		return Benjamini, nil
	case "bonferroni":
		return Bonferroni, nil
	}
	return 0, &ConfigError{Option: "correction",
		Msg: "unknown correction `" + name + "`, expecting benjamini or bonferroni"}
}

// String returns the method name as it appears in the report header
func (c Correction) String() string {
	switch c {
	case Benjamini:
		return "Benjamini"
	case Bonferroni:
		return "Bonferroni"
	}
	return "Unknown"
}

// Adjust corrects a vector of p-values for the number of tests n = len(p).
// NaN entries take no rank and stay NaN.
func (c Correction) Adjust(p []float64) []float64 {
	switch c {
	case Bonferroni:
		return bonferroni(p)
	default:
		return benjaminiHochberg(p)
	}
}

// bonferroni returns min(1, p * n)
func bonferroni(p []float64) []float64 {
	n := float64(len(p))
	adjusted := make([]float64, len(p))
	for i, pv := range p {
		if math.IsNaN(pv) {
			adjusted[i] = math.NaN()
			continue
		}
		adjusted[i] = math.Min(1, pv*n)
	}
	return adjusted
}

// benjaminiHochberg ranks the defined p-values ascending (ties keep input
// order) and returns min(1, p * n / rank), made monotone by carrying the
// running minimum down from the largest rank
func benjaminiHochberg(p []float64) []float64 {
	n := float64(len(p))
	adjusted := make([]float64, len(p))
	order := []int{}
	for i, pv := range p {
		if math.IsNaN(pv) {
			adjusted[i] = math.NaN()
			continue
		}
		order = append(order, i)
	}
	sort.SliceStable(order, func(i, j int) bool {
		return p[order[i]] < p[order[j]]
	})

	running := 1.0
	for k := len(order) - 1; k >= 0; k-- {
		i := order[k]
		rank := float64(k + 1)
		running = math.Min(running, p[i]*n/rank)
		adjusted[i] = running
	}
	return adjusted
}
