/*
 *  chromsizes.go
 *  mamotif
 *
 *  Copyright © 2026 MAmotif authors. All rights reserved.
 */

package mamotif

import (
	"fmt"
	"os"
	"path"
	"strconv"
	"strings"

	"github.com/biogo/hts/bam"
	"github.com/biogo/hts/sam"
	"github.com/shenwei356/bio/seqio/fai"
)

// ChromSizes maps lower-cased chromosome names to their lengths
type ChromSizes map[string]int

// Size returns the chromosome length, 0 when unknown
func (r ChromSizes) Size(chrom string) int {
	return r[normChrom(chrom)]
}

// ReadChromSizes loads chromosome lengths from a FASTA index (.fai), a FASTA
// file (indexed on the fly), a BAM/SAM header or a two-column sizes file
func ReadChromSizes(filename string) (ChromSizes, error) {
	switch strings.ToLower(path.Ext(filename)) {
	case ".fai":
		return readFaiSizes(filename)
	case ".fa", ".fasta", ".fna":
		return readFastaSizes(filename)
	case ".bam":
		return readBamSizes(filename)
	case ".sam":
		return readSamSizes(filename)
	}
	return readSizesFile(filename)
}

// readFaiSizes parses an existing samtools faidx index
func readFaiSizes(faifile string) (ChromSizes, error) {
	log.Noticef("Parse FASTA index `%s`", faifile)
	idx, err := fai.Read(faifile)
	if err != nil {
		return nil, err
	}
	sizes := ChromSizes{}
	for name, rec := range idx {
		sizes[normChrom(name)] = rec.Length
	}
	return sizes, nil
}

// readFastaSizes indexes the FASTA file when no .fai is present
func readFastaSizes(fastafile string) (ChromSizes, error) {
	log.Noticef("Parse FASTA file `%s`", fastafile)
	faidx, err := fai.New(fastafile)
	if err != nil {
		return nil, err
	}
	defer faidx.Close()

	sizes := ChromSizes{}
	for name, rec := range faidx.Index {
		sizes[normChrom(name)] = rec.Length
	}
	return sizes, nil
}

// readBamSizes takes the reference lengths from the BAM header
func readBamSizes(bamfile string) (ChromSizes, error) {
	log.Noticef("Parse bamfile header `%s`", bamfile)
	fh, err := os.Open(bamfile)
	if err != nil {
		return nil, err
	}
	defer fh.Close()
	br, err := bam.NewReader(fh, 0)
	if err != nil {
		return nil, &InputFormatError{File: bamfile, Msg: err.Error()}
	}
	defer br.Close()
	return refSizes(br.Header()), nil
}

// readSamSizes takes the reference lengths from the @SQ lines
func readSamSizes(samfile string) (ChromSizes, error) {
	log.Noticef("Parse samfile header `%s`", samfile)
	fh, err := os.Open(samfile)
	if err != nil {
		return nil, err
	}
	defer fh.Close()
	sr, err := sam.NewReader(fh)
	if err != nil {
		return nil, &InputFormatError{File: samfile, Msg: err.Error()}
	}
	return refSizes(sr.Header()), nil
}

func refSizes(h *sam.Header) ChromSizes {
	sizes := ChromSizes{}
	for _, ref := range h.Refs() {
		sizes[normChrom(ref.Name())] = ref.Len()
	}
	return sizes
}

// readSizesFile parses `chrom<TAB>size` lines, e.g. UCSC chrom.sizes
func readSizesFile(filename string) (ChromSizes, error) {
	data, err := ReadTSVLines(filename)
	if err != nil {
		return nil, err
	}
	sizes := ChromSizes{}
	for i, words := range data {
		if len(words) < 2 {
			return nil, &InputFormatError{File: filename,
				Msg: fmt.Sprintf("record %d: expecting 2 columns, got %d", i+1, len(words))}
		}
		size, err := strconv.Atoi(words[1])
		if err != nil || size <= 0 {
			return nil, &InputFormatError{File: filename,
				Msg: fmt.Sprintf("record %d: invalid size `%s`", i+1, words[1])}
		}
		sizes[normChrom(words[0])] = size
	}
	return sizes, nil
}
