// internal/app/app.go
package app

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"racon/internal/cli"
	"racon/internal/cmdutil"
	"racon/internal/intake"
	"racon/internal/polisher"
	"racon/internal/progress"
	"racon/internal/seqio"
	"racon/internal/version"
	"racon/internal/workerpool"
	"racon/internal/writers"

	"racon-core/align"
)

const batchSize = 4096

// RunContext parses argv, runs a full polish, and writes the resulting
// FASTA to stdout, returning a process exit code: 0 success, 2
// configuration/input error, 3 output error.
func RunContext(parent context.Context, argv []string, stdout, stderr io.Writer) int {
	outw := bufio.NewWriter(stdout)
	defer func() { _ = outw.Flush() }()

	fs := cli.NewFlagSet("racon")
	fs.SetOutput(io.Discard)

	if len(argv) == 0 {
		fs.SetOutput(outw)
		fs.Usage()
		_ = outw.Flush()
		return 0
	}

	opts, err := cli.ParseArgs(fs, argv)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			fs.SetOutput(outw)
			fs.Usage()
			_ = outw.Flush()
			return 0
		}
		_, _ = fmt.Fprintln(stderr, err)
		return 2
	}
	if opts.Version {
		_, _ = fmt.Fprintf(outw, "racon version %s\n", version.Version)
		_ = outw.Flush()
		return 0
	}

	log := cmdutil.NewLogger(opts.Quiet).WithField("component", "app")

	targets, err := seqio.ReadSequences(opts.TargetsFile)
	if err != nil {
		cmdutil.Fatalf(log, "intake", "loading targets: %v", err)
		return 2
	}
	queries, err := seqio.ReadSequences(opts.QueriesFile)
	if err != nil {
		cmdutil.Fatalf(log, "intake", "loading queries: %v", err)
		return 2
	}
	overlaps, err := seqio.ReadOverlaps(opts.OverlapsFile)
	if err != nil {
		cmdutil.Fatalf(log, "intake", "loading overlaps: %v", err)
		return 2
	}

	p := polisher.New(opts.Cfg)
	pool := workerpool.New(opts.Cfg.NumThreads, align.Config{
		Match: opts.Cfg.Match, Mismatch: opts.Cfg.Mismatch, Gap: opts.Cfg.Gap,
	}, opts.Cfg.WindowLength, 64)
	defer pool.Close()
	p.SetPool(pool)

	bar := progress.New(len(targets)+len(queries)+len(overlaps), opts.Quiet)
	defer bar.Finish()

	targetProducer := countingSeqProducer{intake.NewSliceProducer(targets, batchSize), bar}
	queryProducer := countingSeqProducer{intake.NewSliceProducer(queries, batchSize), bar}
	overlapProducer := countingOverlapProducer{intake.NewSliceProducer(overlaps, batchSize), bar}

	if err := p.Initialize(parent, targetProducer, queryProducer, overlapProducer); err != nil {
		cmdutil.Fatalf(log, "polisher", "%v", err)
		return 2
	}

	out, err := p.Polish(opts.Cfg.DropUnpolishedSequences)
	if err != nil {
		cmdutil.Fatalf(log, "polisher", "%v", err)
		return 2
	}

	if err := writers.WriteFASTA(outw, opts.Cfg.Mode, out); err != nil {
		if writers.IsBrokenPipe(err) {
			return 0
		}
		_, _ = fmt.Fprintln(stderr, err)
		return 3
	}
	if err := outw.Flush(); err != nil {
		if writers.IsBrokenPipe(err) {
			return 0
		}
		_, _ = fmt.Fprintln(stderr, err)
		return 3
	}
	return 0
}

// Run is a convenience entrypoint that calls RunContext with a background
// context; cmd/racon calls RunContext through appshell.Main instead.
func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}

// countingSeqProducer advances the progress bar by one tick per record
// handed to the polisher, the way the teacher ticks its own bar per
// matched product.
type countingSeqProducer struct {
	*intake.SliceProducer[intake.SequenceRecord]
	bar *progress.Bar
}

func (c countingSeqProducer) NextBatch(ctx context.Context) ([]intake.SequenceRecord, bool, error) {
	batch, ok, err := c.SliceProducer.NextBatch(ctx)
	c.bar.Add(len(batch))
	return batch, ok, err
}

type countingOverlapProducer struct {
	*intake.SliceProducer[intake.OverlapRecord]
	bar *progress.Bar
}

func (c countingOverlapProducer) NextBatch(ctx context.Context) ([]intake.OverlapRecord, bool, error) {
	batch, ok, err := c.SliceProducer.NextBatch(ctx)
	c.bar.Add(len(batch))
	return batch, ok, err
}
