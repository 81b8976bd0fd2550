/*
 *  export.go
 *  mamotif
 *
 *  Copyright © 2026 MAmotif authors. All rights reserved.
 */

package mamotif

import (
	"bufio"
	"fmt"
	"os"

	"github.com/kshedden/gonpy"
)

// ExportMatrix serializes the matched regions for plotting with numpy:
//
//   <prefix>.motifs.npy   uint8 presence matrix, regions x motifs
//   <prefix>.mvalues.npy  float64 M-values, one per region
//   <prefix>.regions.txt  region coordinates and motif names, in matrix order
func ExportMatrix(prefix string, motifs MotifSet, regions []*Region) error {
	presence := make([]uint8, 0, len(regions)*len(motifs))
	mvalues := make([]float64, 0, len(regions))
	for _, region := range regions {
		if len(region.HasMotif) != len(motifs) {
			return fmt.Errorf("%v: %d motif indicators, expecting %d",
				region, len(region.HasMotif), len(motifs))
		}
		for _, has := range region.HasMotif {
			if has {
				presence = append(presence, 1)
			} else {
				presence = append(presence, 0)
			}
		}
		m, _ := region.MValue()
		mvalues = append(mvalues, m)
	}

	motiffile := prefix + ".motifs.npy"
	npw, err := gonpy.NewFileWriter(motiffile)
	if err != nil {
		return err
	}
	npw.Shape = []int{len(regions), len(motifs)}
	if err := npw.WriteUint8(presence); err != nil {
		return err
	}

	mfile := prefix + ".mvalues.npy"
	npw, err = gonpy.NewFileWriter(mfile)
	if err != nil {
		return err
	}
	npw.Shape = []int{len(regions)}
	if err := npw.WriteFloat64(mvalues); err != nil {
		return err
	}

	if err := writeRegionLabels(prefix+".regions.txt", motifs, regions); err != nil {
		return err
	}
	log.Noticef("Matrix of %d regions x %d motifs written to `%s` and `%s`",
		len(regions), len(motifs), motiffile, mfile)
	return nil
}

// writeRegionLabels writes the row and column labels of the exported matrix
func writeRegionLabels(outfile string, motifs MotifSet, regions []*Region) error {
	f, err := os.Create(outfile)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	fmt.Fprintf(w, "#motifs")
	for _, motif := range motifs {
		fmt.Fprintf(w, "\t%s", motif)
	}
	fmt.Fprintln(w)
	for _, region := range regions {
		fmt.Fprintf(w, "%s\t%d\t%d\n", region.Chrom, region.Start, region.End)
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
