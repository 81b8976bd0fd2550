/*
 *  commands.go
 *  mamotif
 *
 *  Copyright © 2026 MAmotif authors. All rights reserved.
 */

package mamotif

import (
	"strings"

	"github.com/spf13/cobra"
)

// Logo banner (Varsity style)
const logo = `
 ____    ____       _                         _     _    ___
|_   \  /   _|     / \                       / |_  (_) .' ..]
  |   \/   |      / _ \    _ .--..--.   .--.` + "`" + `| |-' __ _| |_
  | |\  /| |     / ___ \  [ ` + "`" + `.-. .-. |/ .'` + "`" + `\ \| | [  |'-| |-'
 _| |_\/_| |_  _/ /   \ \_ | | | | | || \__. || |, | |  | |
|_____||_____||____| |____|[___||__||__]'.__.' \__/[___][___]
`

// banner prints the separate steps
func banner(message string) {
	message = "* " + message + " *"
	log.Noticef(strings.Repeat("*", len(message)))
	log.Noticef(message)
	log.Noticef(strings.Repeat("*", len(message)))
}

// integrationFlags are shared by `integrate` and `run`
type integrationFlags struct {
	correction     string
	split          bool
	geneFile       string
	chromSizesFile string
	upstream       int
	downstream     int
	outputDir      string
	exportNpy      bool
	regionFile     string
	minAbsMValue   float64
}

func (f *integrationFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&f.correction, "correction", DefaultCorrection,
		"Method for multiple testing correction (benjamini or bonferroni)")
	flags.BoolVar(&f.split, "split", false,
		"Split genomic regions into promoter/distal regions and run separately")
	flags.StringVarP(&f.geneFile, "genes", "g", "",
		"Gene annotation (refGene table or GFF/GTF), required by --split")
	flags.StringVar(&f.chromSizesFile, "chrom-sizes", "",
		"Chromosome sizes (.fai, FASTA, BAM/SAM or chrom.sizes) to clamp promoters")
	flags.IntVar(&f.upstream, "upstream", DefaultUpstream,
		"TSS upstream distance for promoters")
	flags.IntVar(&f.downstream, "downstream", DefaultDownstream,
		"TSS downstream distance for promoters")
	flags.StringVarP(&f.outputDir, "output-dir", "o", "",
		"Directory to write output files")
	flags.BoolVar(&f.exportNpy, "npy", false,
		"Also export the motif presence matrix and M-values as .npy")
	flags.StringVar(&f.regionFile, "regions", "",
		"BED file, only test regions overlapping its intervals")
	flags.Float64Var(&f.minAbsMValue, "min-abs-m", 0,
		"Only test regions with |M value| above this cutoff")
	_ = cmd.MarkFlagRequired("output-dir")
}

// newIntegrateCmd runs the integration on existing MAnorm/MotifScan results
func newIntegrateCmd() *cobra.Command {
	var (
		manormFile    string
		motifscanFile string
		negative      bool
		f             integrationFlags
	)
	cmd := &cobra.Command{
		Use:   "integrate",
		Short: "Run the integration module with MAnorm and MotifScan results",
		Long: `
Integrate function:
Given the MAnorm result of sample A vs sample B and the MotifScan result of
the same regions, test for every motif whether regions with the motif have
higher M-values than regions without it.

1) Find cell type-specific co-factors for sample A:

	mamotif integrate -i A_MAvalues.xls -m A_motif_sites_number.xls -o out

2) Find cell type-specific co-factors for sample B:

	mamotif integrate -i B_MAvalues.xls -m B_motif_sites_number.xls -n -o out
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := Integrator{
				MAnormFile:     manormFile,
				MotifScanFile:  motifscanFile,
				Negative:       negative,
				Correction:     f.correction,
				Split:          f.split,
				GeneFile:       f.geneFile,
				ChromSizesFile: f.chromSizesFile,
				Upstream:       f.upstream,
				Downstream:     f.downstream,
				OutputDir:      f.outputDir,
				ExportNpy:      f.exportNpy,
				RegionFile:     f.regionFile,
				MinAbsMValue:   f.minAbsMValue,
			}
			if err := p.Validate(); err != nil {
				return err
			}
			banner("Integrate started")
			return p.Run()
		},
	}
	flags := cmd.Flags()
	flags.StringVarP(&manormFile, "manorm", "i", "", "MAnorm result of sample A vs sample B")
	flags.StringVarP(&motifscanFile, "motifscan", "m", "", "MotifScan result (motif sites number)")
	flags.BoolVarP(&negative, "negative", "n", false,
		"Convert M=log2(A/B) to -M=log2(B/A), used for sample B")
	_ = cmd.MarkFlagRequired("manorm")
	_ = cmd.MarkFlagRequired("motifscan")
	f.register(cmd)
	return cmd
}

// newRunCmd runs MAnorm, MotifScan and the integration
func newRunCmd() *cobra.Command {
	var (
		r Runner
		f integrationFlags
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run complete workflow (MAnorm + MotifScan + Integration)",
		Long: `
Run function:
Run the complete MAmotif workflow with basic MAnorm/MotifScan options. For
the advanced options, run MAnorm and MotifScan independently and call
"mamotif integrate" on their results.

The MotifScan genome and motif data files should be configured in advance.
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r.Correction = f.correction
			r.Split = f.split
			r.GeneFile = f.geneFile
			r.ChromSizesFile = f.chromSizesFile
			r.Upstream = f.upstream
			r.Downstream = f.downstream
			r.OutputDir = f.outputDir
			r.ExportNpy = f.exportNpy
			r.RegionFile = f.regionFile
			r.MinAbsMValue = f.minAbsMValue
			if err := r.Validate(); err != nil {
				return err
			}
			banner("Run started")
			return r.Run()
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&r.PeakFile1, "p1", "", "Peak file of sample A")
	flags.StringVar(&r.PeakFile2, "p2", "", "Peak file of sample B")
	flags.StringVar(&r.PeakFormat, "pf", "bed", "Format of the peak files")
	flags.StringVar(&r.ReadFile1, "r1", "", "Read file of sample A")
	flags.StringVar(&r.ReadFile2, "r2", "", "Read file of sample B")
	flags.StringVar(&r.ReadFormat, "rf", "bed", "Format of the read files")
	flags.StringVar(&r.Name1, "n1", "", "Name of sample A (default: peak file name)")
	flags.StringVar(&r.Name2, "n2", "", "Name of sample B (default: peak file name)")
	flags.IntVar(&r.ShiftSize1, "s1", 100, "Single-end reads shift size for sample A")
	flags.IntVar(&r.ShiftSize2, "s2", 100, "Single-end reads shift size for sample B")
	flags.BoolVar(&r.PairedEnd, "pe", false, "Paired-end mode, --s1 and --s2 are ignored")
	flags.StringVarP(&r.Motif, "motif", "m", "", "Motif set name to scan for")
	flags.StringVar(&r.Genome, "genome", "", "Genome assembly name")
	flags.StringVarP(&r.PValue, "p-value", "p", "1e-4", "P value cutoff for motif scores")
	flags.IntVarP(&r.Threads, "threads", "t", 1, "Number of processes used by MotifScan")
	flags.StringVar(&r.Mode, "mode", ModeBoth, "Which sample to perform MAmotif on (both, A or B)")
	for _, name := range []string{"p1", "p2", "r1", "r2", "motif", "genome"} {
		_ = cmd.MarkFlagRequired(name)
	}
	f.register(cmd)
	return cmd
}

// NewRootCmd assembles the command tree
func NewRootCmd() *cobra.Command {
	var verbose bool
	root := &cobra.Command{
		Use:     "mamotif",
		Short:   "Find cell type-specific co-factors from ChIP-seq comparisons",
		Long:    logo,
		Version: Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			SetVerbose(verbose)
		},
		SilenceUsage: true,
	}
	root.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable verbose log messages")
	root.AddCommand(newIntegrateCmd(), newRunCmd())
	return root
}

// Execute runs the mamotif command line
func Execute() error {
	return NewRootCmd().Execute()
}
