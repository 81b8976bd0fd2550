/*
 *  workflow_test.go
 *  mamotif
 *
 *  Copyright © 2026 MAmotif authors. All rights reserved.
 */

package mamotif_test

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/shao-lab/mamotif"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	manormFile    = filepath.Join("testdata", "sample_MAvalues.xls")
	motifscanFile = filepath.Join("testdata", "sample_motif_sites_number.xls")
)

// readReport returns the motif names of a report in row order
func readReport(t *testing.T, outfile string) []string {
	data, err := os.ReadFile(outfile)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	require.NotEmpty(t, lines)
	assert.True(t, strings.HasPrefix(lines[0], "Motif Name\t"))
	var motifs []string
	for _, line := range lines[1:] {
		motifs = append(motifs, strings.SplitN(line, "\t", 2)[0])
	}
	return motifs
}

func TestIntegratorRun(t *testing.T) {
	dir := t.TempDir()
	p := mamotif.Integrator{
		MAnormFile:    manormFile,
		MotifScanFile: motifscanFile,
		OutputDir:     filepath.Join(dir, "out"),
		ExportNpy:     true,
	}
	require.NoError(t, p.Run())

	outfile := filepath.Join(dir, "out", "sample"+mamotif.OutputSuffix)
	assert.Equal(t, []string{outfile}, p.OutFiles)
	assert.Equal(t, []string{"M1", "M3", "M2"}, readReport(t, outfile))
	assert.FileExists(t, filepath.Join(dir, "out", "sample.motifs.npy"))
	assert.FileExists(t, filepath.Join(dir, "out", "sample.mvalues.npy"))
}

func TestIntegratorRunSplit(t *testing.T) {
	dir := t.TempDir()
	p := mamotif.Integrator{
		MAnormFile:     manormFile,
		MotifScanFile:  motifscanFile,
		Negative:       true,
		Correction:     "bonferroni",
		Split:          true,
		GeneFile:       filepath.Join("testdata", "refGene.txt"),
		ChromSizesFile: filepath.Join("testdata", "hg38.chrom.sizes"),
		Upstream:       mamotif.DefaultUpstream,
		Downstream:     mamotif.DefaultDownstream,
		OutputDir:      dir,
	}
	require.NoError(t, p.Run())
	require.Len(t, p.OutFiles, 3)
	for _, label := range []string{"", "_promoter", "_distal"} {
		outfile := filepath.Join(dir, "sample"+label+mamotif.OutputSuffix)
		assert.Contains(t, p.OutFiles, outfile)
		motifs := readReport(t, outfile)
		assert.ElementsMatch(t, []string{"M1", "M2", "M3"}, motifs, label)
	}
	data, err := os.ReadFile(p.OutFiles[0])
	require.NoError(t, err)
	assert.Contains(t, string(data), "By Bonferroni correction")
}

// readRegionCounts returns the number of regions tested per motif
func readRegionCounts(t *testing.T, outfile string) map[string]int {
	data, err := os.ReadFile(outfile)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	counts := map[string]int{}
	for _, line := range lines[1:] {
		fields := strings.Split(line, "\t")
		require.Len(t, fields, 14)
		nPos, err := strconv.Atoi(fields[1])
		require.NoError(t, err)
		nNeg, err := strconv.Atoi(fields[4])
		require.NoError(t, err)
		counts[fields[0]] = nPos + nNeg
	}
	return counts
}

func TestIntegratorRunFilters(t *testing.T) {
	for _, tc := range []struct {
		name    string
		regions string
		minAbsM float64
		want    int
	}{
		{"none", "", 0, 6},
		{"min abs m", "", 1.0, 2},
		{"regions", "track name=keep\nchr1\t0\t1000\n", 0, 2},
		{"both", "chr1\t0\t1000\nchr2\t9000\t9100\n", 1.0, 2},
		{"disjoint", "chr3\t0\t1000\n", 0, 0},
	} {
		t.Run(tc.name, func(t *testing.T) {
			p := mamotif.Integrator{
				MAnormFile:    manormFile,
				MotifScanFile: motifscanFile,
				MinAbsMValue:  tc.minAbsM,
				OutputDir:     t.TempDir(),
			}
			if tc.regions != "" {
				p.RegionFile = writeFile(t, "keep.bed", tc.regions)
			}
			require.NoError(t, p.Run())
			counts := readRegionCounts(t, p.OutFiles[0])
			require.Len(t, counts, 3)
			for motif, n := range counts {
				assert.Equal(t, tc.want, n, motif)
			}
		})
	}
}

func TestIntegratorRunBadRegionFile(t *testing.T) {
	p := mamotif.Integrator{
		MAnormFile:    manormFile,
		MotifScanFile: motifscanFile,
		RegionFile:    writeFile(t, "keep.bed", "chr1\t0\n"),
		OutputDir:     t.TempDir(),
	}
	var ierr *mamotif.InputFormatError
	require.True(t, errors.As(p.Run(), &ierr))
	assert.Equal(t, p.RegionFile, ierr.File)
	assert.NoFileExists(t, filepath.Join(p.OutputDir, "sample"+mamotif.OutputSuffix))
}

func TestIntegratorValidate(t *testing.T) {
	var cerr *mamotif.ConfigError

	p := mamotif.Integrator{MAnormFile: manormFile, MotifScanFile: motifscanFile, Correction: "holm"}
	require.True(t, errors.As(p.Validate(), &cerr))
	assert.Equal(t, "correction", cerr.Option)

	p = mamotif.Integrator{MAnormFile: manormFile, MotifScanFile: motifscanFile, Split: true,
		Upstream: mamotif.DefaultUpstream, Downstream: mamotif.DefaultDownstream}
	require.True(t, errors.As(p.Validate(), &cerr))
	assert.Equal(t, "genes", cerr.Option)

	p = mamotif.Integrator{MAnormFile: manormFile, MotifScanFile: motifscanFile, Split: true,
		GeneFile: "refGene.txt", Upstream: 0, Downstream: mamotif.DefaultDownstream}
	require.True(t, errors.As(p.Validate(), &cerr))
	assert.Equal(t, "upstream", cerr.Option)

	p = mamotif.Integrator{MAnormFile: manormFile, MotifScanFile: motifscanFile, MinAbsMValue: -1}
	require.True(t, errors.As(p.Validate(), &cerr))
	assert.Equal(t, "min-abs-m", cerr.Option)

	p = mamotif.Integrator{MAnormFile: manormFile, MotifScanFile: motifscanFile}
	assert.NoError(t, p.Validate())
}

func TestIntegratorRunUnmatched(t *testing.T) {
	manorm := writeFile(t, "B_MAvalues.xls", "chr1\t101\t200\t50\t2.0\n")
	p := mamotif.Integrator{
		MAnormFile:    manorm,
		MotifScanFile: motifscanFile,
		OutputDir:     t.TempDir(),
	}
	err := p.Run()
	var merr *mamotif.RegionMatchError
	require.True(t, errors.As(err, &merr))
	assert.Equal(t, manorm, merr.File)
	assert.Contains(t, err.Error(), "chr1:300-400")
	assert.NoFileExists(t, filepath.Join(p.OutputDir, "B"+mamotif.OutputSuffix))
}
