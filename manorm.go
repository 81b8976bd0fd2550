/*
 *  manorm.go
 *  mamotif
 *
 *  Copyright © 2026 MAmotif authors. All rights reserved.
 */

package mamotif

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// MAnormRegion holds one line in the MAnorm `_MAvalues.xls` file
// The file has the following format (start is 1-based, summit is relative to start):
//
// #chr   start   end     summit  M_value A_value P_value
// chr1   9980    10480   250     1.2     5.3     0.01
type MAnormRegion struct {
	Chrom  string
	Start  int     // 0-based
	End    int     // exclusive
	Summit int     // offset from start, -1 when missing
	MValue float64 // log2(A/B)
	AValue float64 // NaN when missing
	PValue float64 // NaN when missing
}

// Key is the coordinate key used for exact matching
func (r *MAnormRegion) Key() RegionKey {
	return RegionKey{Chrom: normChrom(r.Chrom), Start: r.Start, End: r.End}
}

// String outputs the string representation of MAnormRegion
func (r *MAnormRegion) String() string {
	return fmt.Sprintf("%s:%d-%d", r.Chrom, r.Start, r.End)
}

// ReadMAnormRegions parses the MAnorm result file. Comment lines start with
// '#'; the first other row is skipped as a column header when its start is
// not numeric.
func ReadMAnormRegions(filename string) ([]*MAnormRegion, error) {
	log.Noticef("Parse MAnorm file `%s`", filename)
	r, err := openTSV(filename)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	var regions []*MAnormRegion
	first := true
	for {
		words, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &InputFormatError{File: filename, Line: r.Line(), Msg: err.Error()}
		}
		if len(words) == 0 || strings.HasPrefix(words[0], "#") {
			continue
		}
		if first {
			first = false
			if len(words) > 1 {
				if _, err := strconv.Atoi(words[1]); err != nil {
					continue // Column header
				}
			}
		}
		region, err := parseMAnormLine(words)
		if err != nil {
			return nil, &InputFormatError{File: filename, Line: r.Line(), Msg: err.Error()}
		}
		regions = append(regions, region)
	}
	log.Noticef("Loaded %d MAnorm regions", len(regions))
	return regions, nil
}

// parseMAnormLine converts the columns chrom, start, end, summit, M[, A, P]
func parseMAnormLine(words []string) (*MAnormRegion, error) {
	if len(words) < 5 {
		return nil, fmt.Errorf("expecting at least 5 columns, got %d", len(words))
	}
	start, err := strconv.Atoi(words[1])
	if err != nil {
		return nil, fmt.Errorf("invalid start `%s`", words[1])
	}
	end, err := strconv.Atoi(words[2])
	if err != nil {
		return nil, fmt.Errorf("invalid end `%s`", words[2])
	}
	start-- // 1-based => 0-based
	if start < 0 || start >= end {
		return nil, fmt.Errorf("invalid coordinates %s:%s-%s", words[0], words[1], words[2])
	}
	summit := -1
	if words[3] != "" {
		if summit, err = strconv.Atoi(words[3]); err != nil {
			return nil, fmt.Errorf("invalid summit `%s`", words[3])
		}
	}
	m, err := strconv.ParseFloat(words[4], 64)
	if err != nil {
		return nil, fmt.Errorf("invalid M value `%s`", words[4])
	}
	region := &MAnormRegion{
		Chrom:  words[0],
		Start:  start,
		End:    end,
		Summit: summit,
		MValue: m,
		AValue: math.NaN(),
		PValue: math.NaN(),
	}
	if len(words) > 5 {
		if a, err := strconv.ParseFloat(words[5], 64); err == nil {
			region.AValue = a
		}
	}
	if len(words) > 6 {
		if p, err := strconv.ParseFloat(words[6], 64); err == nil {
			region.PValue = p
		}
	}
	return region, nil
}
