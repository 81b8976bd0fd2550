/*
 *  base.go
 *  mamotif
 *
 *  Copyright © 2026 MAmotif authors. All rights reserved.
 */

package mamotif

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	logging "github.com/op/go-logging"
	"github.com/shenwei356/xopen"
)

const (
	// Version is the current version of MAmotif
	Version = "1.2.0"
	// DefaultUpstream is the TSS upstream distance for promoters
	DefaultUpstream = 4000
	// DefaultDownstream is the TSS downstream distance for promoters
	DefaultDownstream = 2000
	// DefaultCorrection is the multiple testing correction used when none is given
	DefaultCorrection = "benjamini"
	// MAnormSuffix is stripped from the MAnorm file name to get the sample name
	MAnormSuffix = "_MAvalues.xls"
	// OutputSuffix is appended to the sample name for the report
	OutputSuffix = "_MAmotif_output.xls"
)

var log = logging.MustGetLogger("mamotif")
var format = logging.MustStringFormatter(
	`%{color}%{time:15:04:05} %{shortfunc} | %{level:.6s} %{color:reset} %{message}`,
)

// Backend is the default stderr output
var Backend = logging.NewLogBackend(os.Stderr, "", 0)

// BackendFormatter contains the fancy debug formatter
var BackendFormatter = logging.NewBackendFormatter(Backend, format)

// SetVerbose switches the package logger between NOTICE and DEBUG
func SetVerbose(verbose bool) {
	leveled := logging.AddModuleLevel(BackendFormatter)
	if verbose {
		leveled.SetLevel(logging.DEBUG, "")
	} else {
		leveled.SetLevel(logging.NOTICE, "")
	}
	logging.SetBackend(leveled)
}

// InputFormatError reports a malformed input file. Line is 1-based, 0 when
// the problem is not tied to a single line.
type InputFormatError struct {
	File string
	Line int
	Msg  string
}

func (e *InputFormatError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Msg)
	}
	return fmt.Sprintf("%s: %s", e.File, e.Msg)
}

// ConfigError reports an invalid option value, raised before any input is read
type ConfigError struct {
	Option string
	Msg    string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid option --%s: %s", e.Option, e.Msg)
}

// RemoveExt returns the substring minus the extension
func RemoveExt(filename string) string {
	return strings.TrimSuffix(filename, path.Ext(filename))
}

// SampleName derives the sample name from a MAnorm result path,
// A_MAvalues.xls => A
func SampleName(manormFile string) string {
	base := path.Base(manormFile)
	base = strings.TrimSuffix(base, ".gz")
	if strings.HasSuffix(base, MAnormSuffix) {
		return strings.TrimSuffix(base, MAnormSuffix)
	}
	return RemoveExt(base)
}

// Percentage prints a human readable message of the percentage
func Percentage(a, b int) string {
	if b == 0 {
		return fmt.Sprintf("%d of %d", a, b)
	}
	return fmt.Sprintf("%d of %d (%.1f %%)", a, b, float64(a)*100./float64(b))
}

// tsvReader wraps an xopen reader with a tab-delimited csv.Reader. Rows may
// have a variable number of fields and quotes are taken literally.
type tsvReader struct {
	fh   *xopen.Reader
	r    *csv.Reader
	line int
}

// openTSV opens a plain or gzipped tab-delimited file. An empty file is an
// *InputFormatError, other failures name the file.
func openTSV(filename string) (*tsvReader, error) {
	fh, err := xopen.Ropen(filename)
	if errors.Is(err, xopen.ErrNoContent) {
		return nil, &InputFormatError{File: filename, Msg: "empty file"}
	}
	if err != nil {
		return nil, fmt.Errorf("open `%s`: %w", filename, err)
	}
	r := csv.NewReader(fh)
	r.Comma = '\t'
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.ReuseRecord = false
	return &tsvReader{fh: fh, r: r}, nil
}

// Read returns the next row, io.EOF at the end. Blank lines are skipped by
// csv.Reader, so line numbers come from the reader itself.
func (t *tsvReader) Read() ([]string, error) {
	rec, err := t.r.Read()
	if err != nil {
		return nil, err
	}
	t.line, _ = t.r.FieldPos(0)
	return rec, nil
}

// Line is the 1-based line number of the last row returned
func (t *tsvReader) Line() int {
	return t.line
}

func (t *tsvReader) Close() error {
	return t.fh.Close()
}

// ReadTSVLines parses all the tab-delimited lines into 2D array of tokens,
// lines starting with '#' are skipped
func ReadTSVLines(filename string) ([][]string, error) {
	log.Noticef("Parse tsvfile `%s`", filename)
	r, err := openTSV(filename)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	var data [][]string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(rec) > 0 && strings.HasPrefix(rec[0], "#") {
			continue
		}
		data = append(data, rec)
	}
	return data, nil
}
