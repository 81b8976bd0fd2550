/*
 *  workflow.go
 *  mamotif
 *
 *  Copyright © 2026 MAmotif authors. All rights reserved.
 */

package mamotif

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"
)

// Integrator runs the integration step on one sample: match the MAnorm and
// MotifScan results, test every motif and write the report(s)
type Integrator struct {
	MAnormFile     string
	MotifScanFile  string
	Negative       bool   // Convert M=log2(A/B) to -M=log2(B/A)
	Correction     string // benjamini or bonferroni
	Split          bool   // Also run on promoter and distal regions
	GeneFile       string // refGene table or GFF, required by Split
	ChromSizesFile string // optional, clamps promoter zones
	Upstream       int
	Downstream     int
	OutputDir      string
	ExportNpy      bool
	// Region filters applied before testing
	RegionFile   string  // BED, keep regions overlapping its intervals
	MinAbsMValue float64 // keep regions with |M| above it, 0 keeps all
	// Output files
	OutFiles []string
	// Validated settings
	correction Correction
}

// Validate checks the options before any input is read
func (r *Integrator) Validate() error {
	if r.Correction == "" {
		r.Correction = DefaultCorrection
	}
	correction, err := ParseCorrection(r.Correction)
	if err != nil {
		return err
	}
	r.correction = correction
	if r.MAnormFile == "" {
		return &ConfigError{Option: "manorm", Msg: "MAnorm result file is required"}
	}
	if r.MotifScanFile == "" {
		return &ConfigError{Option: "motifscan", Msg: "MotifScan result file is required"}
	}
	if r.MinAbsMValue < 0 {
		return &ConfigError{Option: "min-abs-m",
			Msg: fmt.Sprintf("invalid non-negative value: %g", r.MinAbsMValue)}
	}
	if r.Split {
		if r.GeneFile == "" {
			return &ConfigError{Option: "genes", Msg: "gene annotation is required by --split"}
		}
		if err := ValidateDistances(r.Upstream, r.Downstream); err != nil {
			return err
		}
	}
	return nil
}

// Run kicks off the Integrator
func (r *Integrator) Run() error {
	if err := r.Validate(); err != nil {
		return err
	}
	if r.OutputDir == "" {
		r.OutputDir = "."
	}
	if err := os.MkdirAll(r.OutputDir, 0755); err != nil {
		return err
	}
	r.OutFiles = nil

	motifs, regions, err := r.loadRegions()
	if err != nil {
		return err
	}
	if regions, err = r.filterRegions(regions); err != nil {
		return err
	}

	// The promoter index is built before any testing so that a bad gene file
	// fails the run early
	var promoters *IntervalIndex
	if r.Split {
		if promoters, err = r.buildPromoterIndex(); err != nil {
			return err
		}
	}

	sample := SampleName(r.MAnormFile)
	prefix := filepath.Join(r.OutputDir, sample)
	if r.ExportNpy {
		if err := ExportMatrix(prefix, motifs, regions); err != nil {
			return err
		}
	}

	outfile := prefix + OutputSuffix
	if err := r.testAndWrite(motifs, regions, outfile); err != nil {
		return err
	}
	r.OutFiles = append(r.OutFiles, outfile)

	if r.Split {
		promoter, distal := SplitByLocation(regions, promoters)
		subsets := []struct {
			label   string
			regions []*Region
		}{
			{"promoter", promoter},
			{"distal", distal},
		}
		outfiles := make([]string, len(subsets))
		var g errgroup.Group
		for i, subset := range subsets {
			i, subset := i, subset
			outfiles[i] = fmt.Sprintf("%s_%s%s", prefix, subset.label, OutputSuffix)
			g.Go(func() error {
				log.Noticef("Performing MAmotif on %s regions", subset.label)
				return r.testAndWrite(motifs, subset.regions, outfiles[i])
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
		r.OutFiles = append(r.OutFiles, outfiles...)
	}
	log.Notice("Success")
	return nil
}

// loadRegions reads both inputs and matches them
func (r *Integrator) loadRegions() (MotifSet, []*Region, error) {
	manorm, err := ReadMAnormRegions(r.MAnormFile)
	if err != nil {
		return nil, nil, err
	}
	motifs, regions, err := ReadMotifScanRegions(r.MotifScanFile)
	if err != nil {
		return nil, nil, err
	}
	if err := MatchRegions(manorm, regions); err != nil {
		var merr *RegionMatchError
		if errors.As(err, &merr) {
			merr.File = r.MAnormFile
		}
		return nil, nil, fmt.Errorf("match `%s`: %w", r.MotifScanFile, err)
	}
	return motifs, regions, nil
}

// filterRegions keeps the regions passing the optional filters, in order
func (r *Integrator) filterRegions(regions []*Region) ([]*Region, error) {
	total := len(regions)
	if r.RegionFile != "" {
		intervals, err := ReadBedRegions(r.RegionFile)
		if err != nil {
			return nil, err
		}
		idx, err := NewRegionIndex(intervals)
		if err != nil {
			return nil, err
		}
		regions = Subset(regions, OverlapsAny(idx))
	}
	if r.MinAbsMValue > 0 {
		regions = Subset(regions, AbsMValueAbove(r.MinAbsMValue))
	}
	if len(regions) < total {
		log.Noticef("Kept %s regions after filtering", Percentage(len(regions), total))
	}
	if len(regions) == 0 {
		log.Warning("No region left after filtering, all tests are undefined")
	}
	return regions, nil
}

// buildPromoterIndex loads genes (and chromosome sizes when given)
func (r *Integrator) buildPromoterIndex() (*IntervalIndex, error) {
	var sizes ChromSizes
	if r.ChromSizesFile != "" {
		var err error
		if sizes, err = ReadChromSizes(r.ChromSizesFile); err != nil {
			return nil, err
		}
	}
	genes, err := ReadGenes(r.GeneFile)
	if err != nil {
		return nil, err
	}
	return NewPromoterIndex(genes, r.Upstream, r.Downstream, sizes)
}

// testAndWrite tests one set of regions, the report is only written once the
// full result set is available
func (r *Integrator) testAndWrite(motifs MotifSet, regions []*Region, outfile string) error {
	results, err := Test(motifs, regions, r.Negative, r.correction)
	if err != nil {
		return err
	}
	return WriteResults(outfile, results, r.correction)
}
