/*
 *  report.go
 *  mamotif
 *
 *  Copyright © 2026 MAmotif authors. All rights reserved.
 */

package mamotif

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/shenwei356/xopen"
)

// resultColumns is the report header, %[1]s is the correction method
var resultColumns = []string{
	"Motif Name",
	"Target Number",
	"Average of Target M values",
	"Std. of Target M values",
	"Non-target Number",
	"Average of Non-target M values",
	"Std. of Non-target M values",
	"T-test Statistic",
	"T-test P value (right-tailed)",
	"T-test P value By %[1]s correction",
	"RankSum-test Statistic",
	"RankSum-test P value (right-tailed)",
	"RankSum-test P value By %[1]s correction",
	"Maximal corrected P value",
}

// ResultHeader returns the tab-separated header line (without newline)
func ResultHeader(correction Correction) string {
	return fmt.Sprintf(strings.Join(resultColumns, "\t"), correction)
}

// String outputs the tab-separated report row of TestResult
func (r TestResult) String() string {
	return strings.Join([]string{
		r.Motif,
		strconv.Itoa(r.NPos), formatFloat(r.MeanPos), formatFloat(r.StdPos),
		strconv.Itoa(r.NNeg), formatFloat(r.MeanNeg), formatFloat(r.StdNeg),
		formatFloat(r.TStat), formatFloat(r.TPValue), formatFloat(r.TPAdj),
		formatFloat(r.RStat), formatFloat(r.RPValue), formatFloat(r.RPAdj),
		formatFloat(r.PAdj),
	}, "\t")
}

// formatFloat prints the shortest representation, `nan` for the sentinel
// and a trailing `.0` on integral values
func formatFloat(v float64) string {
	switch {
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}
	s := strconv.FormatFloat(v, 'g', -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}

// WriteResultsTo writes the header and one row per result to w
func WriteResultsTo(w io.Writer, results []TestResult, correction Correction) error {
	if _, err := fmt.Fprintln(w, ResultHeader(correction)); err != nil {
		return err
	}
	for _, r := range results {
		if _, err := fmt.Fprintln(w, r); err != nil {
			return err
		}
	}
	return nil
}

// WriteResults saves the report to outfile. Rows go to a temporary file in
// the same directory which is renamed into place once complete, so a failed
// write never leaves a truncated report behind.
func WriteResults(outfile string, results []TestResult, correction Correction) (err error) {
	tmpfile := filepath.Join(filepath.Dir(outfile), ".tmp."+filepath.Base(outfile))
	w, err := xopen.Wopen(tmpfile)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			os.Remove(tmpfile)
		}
	}()

	if err = WriteResultsTo(w, results, correction); err != nil {
		w.Close()
		return err
	}
	if err = w.Close(); err != nil {
		return err
	}
	if err = os.Rename(tmpfile, outfile); err != nil {
		return err
	}
	log.Noticef("MAmotif results (%d motifs) written to `%s`", len(results), outfile)
	return nil
}
