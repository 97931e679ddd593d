package main

import (
	"os"

	"github.com/nvnieuwk/dumpstr/dumpstr_api"
	cli "github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:            "dumpstr",
		Usage:           "A tool for filtering and quality control of STR genotypes in VCF files",
		HideHelpCommand: true,
		Version:         "0.1.0dev",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "vcf",
				Aliases:  []string{"i"},
				Usage:    "The input STR VCF file",
				Category: "Input/output",
			},
			&cli.StringFlag{
				Name:     "out",
				Aliases:  []string{"o"},
				Usage:    "Prefix for the output files",
				Category: "Input/output",
			},
			&cli.StringFlag{
				Name:     "config",
				Aliases:  []string{"c"},
				Usage:    "Configuration file (YAML or TOML) with any of the options below, flags take precedence",
				Category: "Input/output",
			},
			&cli.BoolFlag{
				Name:     "bgzip",
				Usage:    "Write a BGZF compressed output VCF (<out>.vcf.gz)",
				Category: "Input/output",
			},
			&cli.BoolFlag{
				Name:     "nodate",
				Aliases:  []string{"nd"},
				Usage:    "Don't add the current date to the output VCF header",
				Category: "Input/output",
			},

			&cli.IntFlag{
				Name:     "min-call-DP",
				Usage:    "Minimum call coverage",
				Category: "Call-level filters",
			},
			&cli.IntFlag{
				Name:     "max-call-DP",
				Usage:    "Maximum call coverage",
				Category: "Call-level filters",
			},
			&cli.Float64Flag{
				Name:     "min-call-Q",
				Usage:    "Minimum call quality score",
				Category: "Call-level filters",
			},
			&cli.Float64Flag{
				Name:     "max-call-flank-indel",
				Usage:    "Maximum call flank indel rate",
				Category: "Call-level filters",
			},
			&cli.Float64Flag{
				Name:     "max-call-stutter",
				Usage:    "Maximum call stutter rate",
				Category: "Call-level filters",
			},

			&cli.Float64Flag{
				Name:     "min-locus-callrate",
				Usage:    "Minimum locus call rate",
				Category: "Locus-level filters",
			},
			&cli.Float64Flag{
				Name:     "min-locus-hwep",
				Usage:    "Filter loci failing HWE at this p-value threshold",
				Category: "Locus-level filters",
			},
			&cli.Float64Flag{
				Name:     "min-locus-het",
				Usage:    "Minimum locus heterozygosity",
				Category: "Locus-level filters",
			},
			&cli.Float64Flag{
				Name:     "max-locus-het",
				Usage:    "Maximum locus heterozygosity",
				Category: "Locus-level filters",
			},
			&cli.BoolFlag{
				Name:     "use-length",
				Usage:    "Calculate per-locus stats (het, HWE) collapsing alleles by length",
				Category: "Locus-level filters",
			},
			&cli.StringFlag{
				Name:     "filter-regions",
				Usage:    "Comma-separated list of BED files of regions to filter",
				Category: "Locus-level filters",
			},
			&cli.StringFlag{
				Name:     "filter-regions-names",
				Usage:    "Comma-separated list of filter names for each BED filter file",
				Category: "Locus-level filters",
			},
			&cli.BoolFlag{
				Name:     "filter-hrun",
				Usage:    "Filter STRs with long homopolymer runs",
				Category: "Locus-level filters",
			},
			&cli.BoolFlag{
				Name:     "drop-filtered",
				Usage:    "Drop filtered records from the output",
				Category: "Locus-level filters",
			},

			&cli.IntFlag{
				Name:     "num-records",
				Usage:    "Only process this many records",
				Category: "Debugging",
			},
			&cli.BoolFlag{
				Name:     "mute-warnings",
				Aliases:  []string{"mw"},
				Usage:    "Don't warn about INFO and FORMAT fields missing from the header",
				Category: "Debugging",
			},
			&cli.BoolFlag{
				Name:     "verbose",
				Usage:    "Log every dropped locus",
				Category: "Debugging",
			},
		},
		Action: func(Cctx *cli.Context) error {
			config, err := dumpstr_api.ReadConfig(Cctx)
			if err != nil {
				return err
			}
			return dumpstr_api.Execute(config)
		},
	}

	if err := app.Run(os.Args); err != nil {
		dumpstr_api.Logger().Fatal(err)
	}
}
