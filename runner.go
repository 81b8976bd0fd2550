/*
 *  runner.go
 *  mamotif
 *
 *  Copyright © 2026 MAmotif authors. All rights reserved.
 */

package mamotif

import (
	"fmt"
	"os"
	"os/exec"
	"path"
	"path/filepath"
	"strconv"
	"strings"
)

// Sample modes of the complete workflow
const (
	ModeA    = "A"
	ModeB    = "B"
	ModeBoth = "both"
)

// Runner runs the complete workflow: MAnorm on the two samples, then
// MotifScan and the integration on each selected sample
type Runner struct {
	// MAnorm options
	PeakFile1  string
	PeakFile2  string
	PeakFormat string
	ReadFile1  string
	ReadFile2  string
	ReadFormat string
	Name1      string
	Name2      string
	ShiftSize1 int
	ShiftSize2 int
	PairedEnd  bool
	// MotifScan options
	Motif   string
	Genome  string
	PValue  string
	Threads int
	// MAmotif options
	Mode           string
	Correction     string
	Split          bool
	GeneFile       string
	ChromSizesFile string
	Upstream       int
	Downstream     int
	OutputDir      string
	ExportNpy      bool
	RegionFile     string
	MinAbsMValue   float64
	// External programs, looked up in PATH
	MAnormBin    string
	MotifScanBin string
	// Output files
	OutFiles []string
}

// motifScanResult is the file MotifScan writes in its output directory
const motifScanResult = "motif_sites_number.xls"

// Validate checks the options before any external program is started
func (r *Runner) Validate() error {
	switch r.Mode {
	case "":
		r.Mode = ModeBoth
	case ModeA, ModeB, ModeBoth:
	default:
		return &ConfigError{Option: "mode",
			Msg: fmt.Sprintf("invalid choice `%s` (choose from both, A, B)", r.Mode)}
	}
	for _, opt := range []struct{ name, value string }{
		{"p1", r.PeakFile1}, {"p2", r.PeakFile2},
		{"r1", r.ReadFile1}, {"r2", r.ReadFile2},
		{"motif", r.Motif}, {"genome", r.Genome},
		{"output-dir", r.OutputDir},
	} {
		if opt.value == "" {
			return &ConfigError{Option: opt.name, Msg: "required"}
		}
	}
	if r.Threads <= 0 {
		return &ConfigError{Option: "threads",
			Msg: fmt.Sprintf("invalid positive int value: %d", r.Threads)}
	}
	// Check the integration options now, not after hours of MAnorm
	p := r.integrator("sample"+MAnormSuffix, motifScanResult, false)
	return p.Validate()
}

// Run kicks off the Runner
func (r *Runner) Run() error {
	if err := r.Validate(); err != nil {
		return err
	}
	r.setNames()
	r.OutFiles = nil

	manormDir, err := r.runMAnorm()
	if err != nil {
		return err
	}
	samples := []struct {
		label    string
		name     string
		negative bool
	}{
		{ModeA, r.Name1, false},
		{ModeB, r.Name2, true},
	}
	for _, sample := range samples {
		if r.Mode != ModeBoth && r.Mode != sample.label {
			continue
		}
		manormFile := filepath.Join(manormDir, sample.name+MAnormSuffix)
		log.Noticef("Scanning motifs for sample %s", sample.label)
		motifscanFile, err := r.runMotifScan(manormFile)
		if err != nil {
			return err
		}
		log.Noticef("Running MAmotif for sample %s", sample.label)
		p := r.integrator(manormFile, motifscanFile, sample.negative)
		if err := p.Run(); err != nil {
			return err
		}
		r.OutFiles = append(r.OutFiles, p.OutFiles...)
	}
	return nil
}

// setNames defaults the sample names to the peak file names
func (r *Runner) setNames() {
	if r.Name1 == "" {
		r.Name1 = RemoveExt(path.Base(r.PeakFile1))
	}
	if r.Name2 == "" {
		r.Name2 = RemoveExt(path.Base(r.PeakFile2))
	}
}

func (r *Runner) integrator(manormFile, motifscanFile string, negative bool) *Integrator {
	return &Integrator{
		MAnormFile:     manormFile,
		MotifScanFile:  motifscanFile,
		Negative:       negative,
		Correction:     r.Correction,
		Split:          r.Split,
		GeneFile:       r.GeneFile,
		ChromSizesFile: r.ChromSizesFile,
		Upstream:       r.Upstream,
		Downstream:     r.Downstream,
		OutputDir:      r.OutputDir,
		ExportNpy:      r.ExportNpy,
		RegionFile:     r.RegionFile,
		MinAbsMValue:   r.MinAbsMValue,
	}
}

// MAnormArgs builds the MAnorm command line, writing into manormDir
func (r *Runner) MAnormArgs(manormDir string) []string {
	args := []string{
		"--p1", r.PeakFile1, "--p2", r.PeakFile2, "--pf", orDefault(r.PeakFormat, "bed"),
		"--r1", r.ReadFile1, "--r2", r.ReadFile2, "--rf", orDefault(r.ReadFormat, "bed"),
		"--n1", r.Name1, "--n2", r.Name2,
		"--s1", strconv.Itoa(r.ShiftSize1), "--s2", strconv.Itoa(r.ShiftSize2),
		"--wa", "-o", manormDir,
	}
	if r.PairedEnd {
		args = append(args, "--pe")
	}
	return args
}

// MotifScanArgs builds the MotifScan command line for one MAnorm result
func (r *Runner) MotifScanArgs(manormFile, motifscanDir string) []string {
	return []string{
		"scan", "-i", manormFile, "-f", "manorm",
		"--motif", r.Motif, "--genome", r.Genome,
		"-p", orDefault(r.PValue, "1e-4"), "-t", strconv.Itoa(r.Threads),
		"--no-enrich", "-o", motifscanDir,
	}
}

func (r *Runner) runMAnorm() (string, error) {
	manormDir, err := filepath.Abs(filepath.Join(r.OutputDir,
		fmt.Sprintf("%s_vs_%s_manorm_output", r.Name1, r.Name2)))
	if err != nil {
		return "", err
	}
	log.Noticef("Running MAnorm: %s vs %s", r.Name1, r.Name2)
	if err := runExternal(orDefault(r.MAnormBin, "manorm"), r.MAnormArgs(manormDir)); err != nil {
		return "", err
	}
	return manormDir, nil
}

func (r *Runner) runMotifScan(manormFile string) (string, error) {
	sample := strings.TrimSuffix(path.Base(manormFile), MAnormSuffix)
	motifscanDir, err := filepath.Abs(filepath.Join(r.OutputDir, sample+"_motifscan_output"))
	if err != nil {
		return "", err
	}
	args := r.MotifScanArgs(manormFile, motifscanDir)
	if err := runExternal(orDefault(r.MotifScanBin, "motifscan"), args); err != nil {
		return "", err
	}
	return filepath.Join(motifscanDir, motifScanResult), nil
}

// runExternal runs a program to completion, sharing our stdout and stderr
func runExternal(name string, args []string) error {
	log.Debugf("%s %s", name, strings.Join(args, " "))
	cmd := exec.Command(name, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("run `%s`: %w", name, err)
	}
	return nil
}

func orDefault(value, def string) string {
	if value == "" {
		return def
	}
	return value
}
