/*
 *  export_test.go
 *  mamotif
 *
 *  Copyright © 2026 MAmotif authors. All rights reserved.
 */

package mamotif_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kshedden/gonpy"
	"github.com/shao-lab/mamotif"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportMatrix(t *testing.T) {
	motifs := mamotif.MotifSet{"M1", "M2"}
	regions := newRegions(t, []float64{2.0, -0.5, 1.0}, [][]int{{3, 0}, {0, 1}, {1, 1}})
	prefix := filepath.Join(t.TempDir(), "A")
	require.NoError(t, mamotif.ExportMatrix(prefix, motifs, regions))

	npr, err := gonpy.NewFileReader(prefix + ".motifs.npy")
	require.NoError(t, err)
	assert.Equal(t, []int{3, 2}, npr.Shape)
	presence, err := npr.GetUint8()
	require.NoError(t, err)
	assert.Equal(t, []uint8{1, 0, 0, 1, 1, 1}, presence)

	npr, err = gonpy.NewFileReader(prefix + ".mvalues.npy")
	require.NoError(t, err)
	mvalues, err := npr.GetFloat64()
	require.NoError(t, err)
	assert.Equal(t, []float64{2.0, -0.5, 1.0}, mvalues)

	labels, err := os.ReadFile(prefix + ".regions.txt")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(labels)), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "#motifs\tM1\tM2", lines[0])
	assert.Equal(t, "chr1\t0\t200", lines[1])
}

func TestExportMatrixMismatch(t *testing.T) {
	regions := newRegions(t, []float64{1.0}, [][]int{{1}})
	prefix := filepath.Join(t.TempDir(), "A")
	assert.Error(t, mamotif.ExportMatrix(prefix, mamotif.MotifSet{"M1", "M2"}, regions))
}
