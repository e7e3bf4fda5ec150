// internal/cli/options.go
package cli

import (
	"errors"
	"flag"
	"fmt"
	"strings"

	"racon/internal/config"
	"racon/internal/version"
)

// Options holds every CLI flag, including the three input file paths.
type Options struct {
	TargetsFile  string
	QueriesFile  string
	OverlapsFile string

	Cfg config.Config

	Quiet   bool
	Version bool
}

// NewFlagSet returns a configured FlagSet with custom usage/help.
func NewFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(),
			`%s: long-read consensus and polishing engine

Version: %s

Usage of %s:
`, name, version.Version, name)
		fs.PrintDefaults()
	}
	return fs
}

// Parse is the top-level call for CLI parsing.
func Parse() (Options, error) { return ParseArgs(flag.CommandLine, nil) }

// ParseArgs registers and parses all flags, returning Options.
func ParseArgs(fs *flag.FlagSet, argv []string) (Options, error) {
	var opt Options
	var help bool
	cfg := config.Default()

	fs.StringVar(&opt.TargetsFile, "targets", "", "target sequences [*]")
	fs.StringVar(&opt.QueriesFile, "queries", "", "query (read) sequences [*]")
	fs.StringVar(&opt.OverlapsFile, "overlaps", "", "pairwise overlaps [*]")

	var mode string
	fs.StringVar(&mode, "mode", "C", "polish mode: C (contig) | F (fragment) [C]")
	fs.IntVar(&cfg.WindowLength, "window-length", cfg.WindowLength, "window length in bases")
	fs.Float64Var(&cfg.QualityThreshold, "quality-threshold", cfg.QualityThreshold, "drop layers below this mean PHRED quality")
	fs.Float64Var(&cfg.ErrorThreshold, "error-threshold", cfg.ErrorThreshold, "drop overlaps above this error rate [0,1]")
	fs.IntVar(&cfg.Match, "match", cfg.Match, "match score")
	fs.IntVar(&cfg.Mismatch, "mismatch", cfg.Mismatch, "mismatch score")
	fs.IntVar(&cfg.Gap, "gap", cfg.Gap, "gap score")
	fs.IntVar(&cfg.NumThreads, "threads", cfg.NumThreads, "worker threads")
	fs.BoolVar(&cfg.DropUnpolishedSequences, "drop-unpolished", false, "omit targets with XC == 0")
	fs.Float64Var(&cfg.MinCoverage, "min-coverage", cfg.MinCoverage, "minimum edge-weight coverage to retain a consensus position")
	fs.IntVar(&cfg.AllowedGapPercent, "allowed-gap-percent", cfg.AllowedGapPercent, "gap-column percent above which a window is unpolished")

	fs.BoolVar(&opt.Quiet, "quiet", false, "suppress progress and warnings")
	fs.BoolVar(&opt.Version, "v", false, "print version and exit (shorthand)")
	fs.BoolVar(&opt.Version, "version", false, "print version and exit")
	fs.BoolVar(&help, "h", false, "show this help message (shorthand)")

	if err := fs.Parse(argv); err != nil {
		return opt, err
	}
	if help {
		fs.Usage()
		return opt, flag.ErrHelp
	}
	if opt.Version {
		return opt, nil
	}

	cfg.Mode = config.Mode(strings.ToUpper(mode)[0])
	opt.Cfg = cfg

	if opt.TargetsFile == "" {
		return opt, errors.New("--targets is required")
	}
	if opt.QueriesFile == "" {
		return opt, errors.New("--queries is required")
	}
	if opt.OverlapsFile == "" {
		return opt, errors.New("--overlaps is required")
	}
	if err := opt.Cfg.Validate(); err != nil {
		return opt, err
	}
	return opt, nil
}
