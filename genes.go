/*
 *  genes.go
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
	"net/url"
	"path"
	"strconv"
	"strings"

	"github.com/biogo/biogo/io/featio"
	"github.com/biogo/biogo/io/featio/gff"
	"github.com/biogo/biogo/seq"
	"github.com/shenwei356/xopen"
)

// Gene stores the transcript coordinates used to derive promoter zones
type Gene struct {
	Name   string
	Name2  string // official symbol, empty when unknown
	Chrom  string
	Start  int // 0-based
	End    int // exclusive
	Strand byte
}

// TSS returns the 0-based transcription start site
func (r *Gene) TSS() int {
	if r.Strand == '-' {
		return r.End - 1
	}
	return r.Start
}

// PromoterZone returns the half-open window [TSS - upstream, TSS + downstream]
// oriented by strand. The start is clamped at 0 and, when chromSize > 0, the
// end at the chromosome size.
func (r *Gene) PromoterZone(upstream, downstream, chromSize int) (int, int) {
	tss := r.TSS()
	var start, end int
	if r.Strand == '-' {
		start, end = tss-downstream, tss+upstream+1
	} else {
		start, end = tss-upstream, tss+downstream+1
	}
	if start < 0 {
		start = 0
	}
	if chromSize > 0 && end > chromSize {
		end = chromSize
	}
	return start, end
}

// String outputs the string representation of Gene
func (r *Gene) String() string {
	return fmt.Sprintf("%s(%s:%d-%d%c)", r.Name, r.Chrom, r.Start, r.End, r.Strand)
}

// gffGeneTypes are the GFF feature types imported as genes
var gffGeneTypes = map[string]bool{
	"gene":       true,
	"transcript": true,
	"mRNA":       true,
}

// ReadGenes parses a gene annotation file. GFF/GTF files are recognized by
// their extension, a `.gff` file is GFF3 when it declares `##gff-version 3`.
// Anything else is read as a UCSC refGene (or genePred) table.
func ReadGenes(filename string) ([]*Gene, error) {
	ext := path.Ext(strings.TrimSuffix(filename, ".gz"))
	switch strings.ToLower(ext) {
	case ".gff3":
		return readGFF3Genes(filename)
	case ".gff":
		gff3, err := isGFF3(filename)
		if err != nil {
			return nil, err
		}
		if gff3 {
			return readGFF3Genes(filename)
		}
		return readGFFGenes(filename)
	case ".gtf", ".gff2":
		return readGFFGenes(filename)
	}
	return readRefGenes(filename)
}

// readRefGenes imports a UCSC refGene table
// --------------------------------------------------------------------------
// field	example	description
// bin	637	Indexing field to speed chromosome range queries (optional)
// name	NM_021010	Name of gene (usually transcript_id from GTF)
// chrom	chr8	Reference sequence chromosome or scaffold
// strand	-	+ or - for strand
// txStart	6912828	Transcription start position (0-based)
// txEnd	6914259	Transcription end position
// ...
// name2	DEFA5	Alternate name (e.g. gene_id from GTF)
// --------------------------------------------------------------------------
func readRefGenes(filename string) ([]*Gene, error) {
	log.Noticef("Parse refGene file `%s`", filename)
	r, err := openTSV(filename)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	var genes []*Gene
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
		gene, err := parseRefGeneLine(words)
		if err != nil {
			return nil, &InputFormatError{File: filename, Line: r.Line(), Msg: err.Error()}
		}
		genes = append(genes, gene)
	}
	log.Noticef("Loaded %d genes", len(genes))
	return genes, nil
}

// parseRefGeneLine handles refGene rows with the leading bin column and
// genePred rows without it
func parseRefGeneLine(words []string) (*Gene, error) {
	offset := -1
	switch {
	case len(words) >= 6 && isStrand(words[3]):
		offset = 1
	case len(words) >= 5 && isStrand(words[2]):
		offset = 0
	default:
		return nil, fmt.Errorf("not a refGene record, cannot find strand column")
	}
	start, err := strconv.Atoi(words[offset+3])
	if err != nil {
		return nil, fmt.Errorf("invalid txStart `%s`", words[offset+3])
	}
	end, err := strconv.Atoi(words[offset+4])
	if err != nil {
		return nil, fmt.Errorf("invalid txEnd `%s`", words[offset+4])
	}
	if start >= end {
		return nil, fmt.Errorf("invalid transcript %s:%d-%d", words[offset+1], start, end)
	}
	gene := &Gene{
		Name:   words[offset],
		Chrom:  words[offset+1],
		Start:  start,
		End:    end,
		Strand: words[offset+2][0],
	}
	if len(words) > offset+11 {
		gene.Name2 = words[offset+11]
	}
	return gene, nil
}

func isStrand(s string) bool {
	return s == "+" || s == "-"
}

// readGFFGenes imports gene features from a GFF2/GTF file. Features without
// strand information have no defined TSS and are skipped.
func readGFFGenes(filename string) ([]*Gene, error) {
	log.Noticef("Parse GFF file `%s`", filename)
	fh, err := xopen.Ropen(filename)
	if err != nil {
		return nil, err
	}
	defer fh.Close()

	var genes []*Gene
	unstranded := 0
	sc := featio.NewScanner(gff.NewReader(fh))
	for sc.Next() {
		f, ok := sc.Feat().(*gff.Feature)
		if !ok || !gffGeneTypes[f.Feature] {
			continue
		}
		var strand byte
		switch f.FeatStrand {
		case seq.Plus:
			strand = '+'
		case seq.Minus:
			strand = '-'
		default:
			unstranded++
			continue
		}
		genes = append(genes, &Gene{
			Name:   gffName(f),
			Name2:  strings.Trim(f.FeatAttributes.Get("gene_name"), `"`),
			Chrom:  f.SeqName,
			Start:  f.FeatStart,
			End:    f.FeatEnd,
			Strand: strand,
		})
	}
	if err := sc.Error(); err != nil {
		ferr := &InputFormatError{File: filename, Msg: err.Error()}
		var perr *csv.ParseError
		if errors.As(err, &perr) {
			ferr.Line, ferr.Msg = perr.Line, perr.Err.Error()
		}
		return nil, ferr
	}
	if unstranded > 0 {
		log.Debugf("%d GFF features without strand skipped", unstranded)
	}
	log.Noticef("Loaded %d genes", len(genes))
	return genes, nil
}

// gffName picks the first identifying attribute of a GFF feature
func gffName(f *gff.Feature) string {
	for _, tag := range []string{"Name", "ID", "transcript_id", "gene_id"} {
		if v := f.FeatAttributes.Get(tag); v != "" {
			return strings.Trim(v, `"`)
		}
	}
	return fmt.Sprintf("%s:%d-%d", f.SeqName, f.FeatStart, f.FeatEnd)
}

// isGFF3 checks the `##gff-version` pragma on the first line
func isGFF3(filename string) (bool, error) {
	r, err := openTSV(filename)
	if err != nil {
		return false, err
	}
	defer r.Close()
	words, err := r.Read()
	if err == io.EOF {
		return false, nil
	}
	if err != nil {
		return false, &InputFormatError{File: filename, Line: 1, Msg: err.Error()}
	}
	return len(words) > 0 && strings.HasPrefix(words[0], "##gff-version 3"), nil
}

// readGFF3Genes imports gene features from a GFF3 file
// --------------------------------------------------------------------------
// seqid	source	type	start	end	score	strand	phase	attributes
// chr1	RefSeq	gene	11874	14409	.	+	.	ID=gene-DDX11L1;Name=DDX11L1
// --------------------------------------------------------------------------
// Start is 1-based, attributes are `tag=value` pairs separated by ';'.
func readGFF3Genes(filename string) ([]*Gene, error) {
	log.Noticef("Parse GFF3 file `%s`", filename)
	r, err := openTSV(filename)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	var genes []*Gene
	unstranded := 0
	for {
		words, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &InputFormatError{File: filename, Line: r.Line(), Msg: err.Error()}
		}
		if len(words) == 0 || words[0] == "" {
			continue
		}
		if strings.HasPrefix(words[0], "##FASTA") {
			break
		}
		if strings.HasPrefix(words[0], "#") {
			continue
		}
		gene, err := parseGFF3Line(words)
		if err != nil {
			return nil, &InputFormatError{File: filename, Line: r.Line(), Msg: err.Error()}
		}
		if gene == nil {
			continue
		}
		if gene.Strand == 0 {
			unstranded++
			continue
		}
		genes = append(genes, gene)
	}
	if unstranded > 0 {
		log.Debugf("%d GFF3 features without strand skipped", unstranded)
	}
	log.Noticef("Loaded %d genes", len(genes))
	return genes, nil
}

// parseGFF3Line returns nil for feature types other than genes and
// transcripts, and a zero Strand for unstranded features
func parseGFF3Line(words []string) (*Gene, error) {
	if len(words) != 9 {
		return nil, fmt.Errorf("expecting 9 columns, got %d", len(words))
	}
	if !gffGeneTypes[words[2]] {
		return nil, nil
	}
	start, err := strconv.Atoi(words[3])
	if err != nil {
		return nil, fmt.Errorf("invalid start `%s`", words[3])
	}
	end, err := strconv.Atoi(words[4])
	if err != nil {
		return nil, fmt.Errorf("invalid end `%s`", words[4])
	}
	start-- // 1-based => 0-based
	if start < 0 || start >= end {
		return nil, fmt.Errorf("invalid feature %s:%s-%s", words[0], words[3], words[4])
	}
	attrs := parseGFF3Attributes(words[8])
	gene := &Gene{
		Name:  firstAttribute(attrs, "Name", "ID", "gene_id"),
		Name2: firstAttribute(attrs, "gene_name", "gene"),
		Chrom: words[0],
		Start: start,
		End:   end,
	}
	if gene.Name == "" {
		gene.Name = fmt.Sprintf("%s:%d-%d", gene.Chrom, start, end)
	}
	if isStrand(words[6]) {
		gene.Strand = words[6][0]
	}
	return gene, nil
}

// parseGFF3Attributes splits `ID=g1;Name=ABC` into a map, values are
// percent-decoded
func parseGFF3Attributes(field string) map[string]string {
	attrs := map[string]string{}
	for _, pair := range strings.Split(field, ";") {
		pair = strings.TrimSpace(pair)
		eq := strings.IndexByte(pair, '=')
		if eq <= 0 {
			continue
		}
		value := pair[eq+1:]
		if v, err := url.PathUnescape(value); err == nil {
			value = v
		}
		attrs[pair[:eq]] = value
	}
	return attrs
}

func firstAttribute(attrs map[string]string, tags ...string) string {
	for _, tag := range tags {
		if v := attrs[tag]; v != "" {
			return v
		}
	}
	return ""
}
