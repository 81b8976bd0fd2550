/*
 *  readers_test.go
 *  mamotif
 *
 *  Copyright © 2026 MAmotif authors. All rights reserved.
 */

package mamotif_test

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/shao-lab/mamotif"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeFile puts content into a fresh file under the test temp dir
func writeFile(t *testing.T, name, content string) string {
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestReadMAnormRegions(t *testing.T) {
	regions, err := mamotif.ReadMAnormRegions(filepath.Join("testdata", "sample_MAvalues.xls"))
	require.NoError(t, err)
	require.Len(t, regions, 6)

	first := regions[0]
	assert.Equal(t, "chr1", first.Chrom)
	assert.Equal(t, 100, first.Start)
	assert.Equal(t, 200, first.End)
	assert.Equal(t, 50, first.Summit)
	assert.Equal(t, 2.0, first.MValue)
	assert.Equal(t, 5.1, first.AValue)
	assert.Equal(t, 0.001, first.PValue)
	assert.Equal(t, "Chr2", regions[5].Chrom)
}

func TestReadMAnormRegionsMinimal(t *testing.T) {
	path := writeFile(t, "min_MAvalues.xls", "# comment\nchr1\t1\t10\t\t-0.25\n")
	regions, err := mamotif.ReadMAnormRegions(path)
	require.NoError(t, err)
	require.Len(t, regions, 1)
	assert.Equal(t, 0, regions[0].Start)
	assert.Equal(t, -1, regions[0].Summit)
	assert.True(t, math.IsNaN(regions[0].AValue))
	assert.True(t, math.IsNaN(regions[0].PValue))
}

func TestReadMAnormRegionsBadRecord(t *testing.T) {
	path := writeFile(t, "bad_MAvalues.xls", "chr1\t1\t10\t5\t0.5\nchr1\t20\t30\t5\tup\n")
	_, err := mamotif.ReadMAnormRegions(path)
	var ferr *mamotif.InputFormatError
	require.True(t, errors.As(err, &ferr))
	assert.Equal(t, 2, ferr.Line)
	assert.Equal(t, path, ferr.File)
}

func TestReadMAnormRegionsHeaderOnce(t *testing.T) {
	path := writeFile(t, "hdr_MAvalues.xls",
		"# comment\nchr\tstart\tend\tsummit\tM_value\nchr1\tstart\t10\t5\t0.5\n")
	_, err := mamotif.ReadMAnormRegions(path)
	var ferr *mamotif.InputFormatError
	require.True(t, errors.As(err, &ferr), "only the first row may be a header")
	assert.Equal(t, 3, ferr.Line)

	path = writeFile(t, "nohdr_MAvalues.xls", "chr1\t1\t10\t5\t0.5\nchr1\tstart\t30\t5\t1.5\n")
	_, err = mamotif.ReadMAnormRegions(path)
	require.True(t, errors.As(err, &ferr), "a numeric first row is data, not a header")
	assert.Equal(t, 2, ferr.Line)
}

func TestReadMAnormRegionsEmpty(t *testing.T) {
	path := writeFile(t, "empty_MAvalues.xls", "")
	_, err := mamotif.ReadMAnormRegions(path)
	var ferr *mamotif.InputFormatError
	require.True(t, errors.As(err, &ferr))
	assert.Equal(t, path, ferr.File)
	assert.Contains(t, err.Error(), path)
}

func TestReadMotifScanRegions(t *testing.T) {
	motifs, regions, err := mamotif.ReadMotifScanRegions(
		filepath.Join("testdata", "sample_motif_sites_number.xls"))
	require.NoError(t, err)
	assert.Equal(t, mamotif.MotifSet{"M1", "M2", "M3"}, motifs)
	assert.Equal(t, 2, motifs.Index("M3"))
	assert.Equal(t, -1, motifs.Index("M4"))
	require.Len(t, regions, 6)

	first := regions[0]
	assert.Equal(t, "chr1:100-200", first.String())
	assert.Equal(t, []bool{true, false, true}, first.HasMotif)
	_, ok := first.MValue()
	assert.False(t, ok)
	for _, region := range regions {
		assert.Len(t, region.HasMotif, len(motifs))
	}
}

func TestReadMotifScanRegionsBadHeader(t *testing.T) {
	for name, content := range map[string]string{
		"renamed": "chrom\tstart\tend\tM1\nchr1\t1\t10\t1\n",
		"short":   "chr\tstart\n",
		"empty":   "",
	} {
		path := writeFile(t, name+".xls", content)
		_, _, err := mamotif.ReadMotifScanRegions(path)
		var ferr *mamotif.InputFormatError
		if assert.True(t, errors.As(err, &ferr), name) {
			assert.Equal(t, path, ferr.File, name)
		}
	}
}

func TestReadMotifScanRegionsBadRecord(t *testing.T) {
	for name, content := range map[string]string{
		"columns":  "chr\tstart\tend\tM1\tM2\nchr1\t1\t10\t1\n",
		"count":    "chr\tstart\tend\tM1\nchr1\t1\t10\t-1\n",
		"interval": "chr\tstart\tend\tM1\nchr1\t11\t10\t1\n",
	} {
		path := writeFile(t, name+".xls", content)
		_, _, err := mamotif.ReadMotifScanRegions(path)
		var ferr *mamotif.InputFormatError
		require.True(t, errors.As(err, &ferr), name)
		assert.Equal(t, 2, ferr.Line, name)
	}
}

func TestSampleName(t *testing.T) {
	assert.Equal(t, "A", mamotif.SampleName("out/A_MAvalues.xls"))
	assert.Equal(t, "A", mamotif.SampleName("A_MAvalues.xls.gz"))
	assert.Equal(t, "peaks", mamotif.SampleName("/data/peaks.txt"))
}
