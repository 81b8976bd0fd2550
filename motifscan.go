/*
 *  motifscan.go
 *  mamotif
 *
 *  Copyright © 2026 MAmotif authors. All rights reserved.
 */

package mamotif

import (
	"fmt"
	"io"
	"strconv"
)

// motifScanHeader are the leading columns of a motif_sites_number.xls file
var motifScanHeader = [...]string{"chr", "start", "end"}

// ReadMotifScanRegions parses the MotifScan `motif_sites_number.xls` file
// into the motif set and one region per row. The file has the following
// format (start is 1-based, each motif column is a site count):
//
// chr     start   end     MA0002.2_RUNX1  MA0003.3_TFAP2A
// chr1    9981    10480   2               0
//
// A bad header fails the whole file before any row is read.
func ReadMotifScanRegions(filename string) (MotifSet, []*Region, error) {
	log.Noticef("Parse MotifScan file `%s`", filename)
	r, err := openTSV(filename)
	if err != nil {
		return nil, nil, err
	}
	defer r.Close()

	header, err := r.Read()
	if err == io.EOF {
		return nil, nil, &InputFormatError{File: filename, Msg: "empty file, missing header"}
	}
	if err != nil {
		return nil, nil, &InputFormatError{File: filename, Line: 1, Msg: err.Error()}
	}
	motifs, err := parseMotifScanHeader(header)
	if err != nil {
		return nil, nil, &InputFormatError{File: filename, Line: r.Line(), Msg: err.Error()}
	}

	var regions []*Region
	nSites := make([]int, len(motifs))
	for {
		words, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, &InputFormatError{File: filename, Line: r.Line(), Msg: err.Error()}
		}
		region, err := parseMotifScanLine(words, nSites)
		if err != nil {
			return nil, nil, &InputFormatError{File: filename, Line: r.Line(), Msg: err.Error()}
		}
		regions = append(regions, region)
	}
	log.Noticef("Loaded %d genomic regions with %d motifs", len(regions), len(motifs))
	return motifs, regions, nil
}

// parseMotifScanHeader checks the leading columns and returns the motif names
func parseMotifScanHeader(header []string) (MotifSet, error) {
	if len(header) < len(motifScanHeader) {
		return nil, fmt.Errorf("not a valid MotifScan motif_sites_number.xls file: "+
			"expecting header `chr start end <motifs>`, got %d columns", len(header))
	}
	for i, col := range motifScanHeader {
		if header[i] != col {
			return nil, fmt.Errorf("not a valid MotifScan motif_sites_number.xls file: "+
				"column %d is `%s`, expecting `%s`", i+1, header[i], col)
		}
	}
	motifs := make(MotifSet, len(header)-len(motifScanHeader))
	copy(motifs, header[len(motifScanHeader):])
	return motifs, nil
}

// parseMotifScanLine reads one row; nSites is scratch space sized to the motif set
func parseMotifScanLine(words []string, nSites []int) (*Region, error) {
	if len(words) != len(motifScanHeader)+len(nSites) {
		return nil, fmt.Errorf("expecting %d columns, got %d",
			len(motifScanHeader)+len(nSites), len(words))
	}
	start, err := strconv.Atoi(words[1])
	if err != nil {
		return nil, fmt.Errorf("invalid start `%s`", words[1])
	}
	end, err := strconv.Atoi(words[2])
	if err != nil {
		return nil, fmt.Errorf("invalid end `%s`", words[2])
	}
	for i := range nSites {
		word := words[len(motifScanHeader)+i]
		n, err := strconv.Atoi(word)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid site count `%s`", word)
		}
		nSites[i] = n
	}
	start-- // 1-based => 0-based
	if start < 0 {
		return nil, fmt.Errorf("invalid start `%s`", words[1])
	}
	return NewRegion(words[0], start, end, nSites)
}
