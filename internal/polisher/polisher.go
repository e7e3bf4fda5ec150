// Package polisher orchestrates intake, distributes work to a worker pool,
// and assembles polished outputs, following the seven-step initialize
// sequence and polish/emit sequence of the spec's Polisher component. It
// exclusively owns the sequence table, the (transient) overlap table, and
// the window table, the way the teacher's internal/appcore.Run owns the
// engine/pipeline/writer wiring for a single pass over its inputs.
package polisher

import (
	"context"
	"fmt"

	ovl "racon-core/overlap"
	"racon-core/sequence"
	"racon-core/window"

	"racon/internal/config"
	"racon/internal/intake"
	"racon/internal/workerpool"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// PolishedTarget is one emitted, tagged polished sequence.
type PolishedTarget struct {
	Name             string
	Data             []byte
	TargetCoverage   int     // RC: number of overlaps against this target
	PolishedFraction float64 // XC: polished windows / total windows
}

// Polisher holds the sequence/overlap/window tables for a single run.
type Polisher struct {
	cfg config.Config
	log *logrus.Entry

	sequences []*sequence.Sequence
	nameToID  map[string]int32 // external name ("<name>t" or "<name>q") -> internal id
	idToID    map[[2]int32]int32

	numTargets int

	overlaps []*ovl.Overlap
	coverage []int // per sequence id, overlap count against it as a target

	windows    []*window.Window
	windowByID [][]*window.Window // per target, its windows in rank order

	pool *workerpool.Pool
}

// New creates a Polisher for a single run, stamping a run-correlation id
// onto the Polisher's log entry. The Polisher itself writes no log lines
// through that entry; the app's own logger does not carry the id.
func New(cfg config.Config) *Polisher {
	runID := uuid.New().String()
	return &Polisher{
		cfg:      cfg,
		log:      logrus.WithField("run", runID),
		nameToID: make(map[string]int32),
		idToID:   make(map[[2]int32]int32),
	}
}

// Initialize runs the seven-step intake sequence: load targets, fold in
// queries (by shared name) or append them, stream and filter overlaps,
// transmute sequences, compute break-points in parallel, build windows,
// and enqueue layers.
func (p *Polisher) Initialize(ctx context.Context, targets intake.SequenceProducer, queries intake.SequenceProducer, overlaps intake.OverlapProducer) error {
	if err := p.loadTargets(ctx, targets); err != nil {
		return err
	}
	if p.numTargets == 0 {
		return fmt.Errorf("polisher: no targets loaded")
	}
	if err := p.loadQueries(ctx, queries); err != nil {
		return err
	}
	if len(p.sequences) == p.numTargets {
		return fmt.Errorf("polisher: no query sequences loaded")
	}
	if err := p.loadOverlaps(ctx, overlaps); err != nil {
		return err
	}
	if len(p.overlaps) == 0 {
		return fmt.Errorf("polisher: no overlaps loaded")
	}

	p.markOrientations()
	p.transmuteSequences()

	if err := p.computeBreakpoints(ctx); err != nil {
		return err
	}

	p.buildWindows()
	p.enqueueLayers()
	return nil
}

// loadTargets loads every target from the producer, keying each name
// internally with suffix "t" as the spec requires.
func (p *Polisher) loadTargets(ctx context.Context, producer intake.SequenceProducer) error {
	for {
		batch, ok, err := producer.NextBatch(ctx)
		if err != nil {
			return fmt.Errorf("polisher: loading targets: %w", err)
		}
		if !ok {
			break
		}
		for _, rec := range batch {
			seq := sequence.New(rec.Name, rec.Data, rec.Quality)
			id := int32(len(p.sequences))
			p.sequences = append(p.sequences, seq)
			p.nameToID[rec.Name+"t"] = id
			p.numTargets++
		}
	}
	return nil
}

// loadQueries streams queries in chunks; a query sharing its name with a
// target is folded into the target's record (after verifying equal data
// and quality lengths), else appended as a new sequence.
func (p *Polisher) loadQueries(ctx context.Context, producer intake.SequenceProducer) error {
	for {
		batch, ok, err := producer.NextBatch(ctx)
		if err != nil {
			return fmt.Errorf("polisher: loading queries: %w", err)
		}
		if !ok {
			break
		}
		for _, rec := range batch {
			if tid, isTarget := p.nameToID[rec.Name+"t"]; isTarget {
				existing := p.sequences[tid]
				if len(existing.Data) != len(rec.Data) || len(existing.Quality) != len(rec.Quality) {
					return fmt.Errorf("polisher: duplicate sequence %q unequal data", rec.Name)
				}
				p.nameToID[rec.Name+"q"] = tid
				continue
			}
			seq := sequence.New(rec.Name, rec.Data, rec.Quality)
			id := int32(len(p.sequences))
			p.sequences = append(p.sequences, seq)
			p.nameToID[rec.Name+"q"] = id
		}
	}
	return nil
}

// loadOverlaps streams overlaps in chunks. Each is transmuted to internal
// ids and dropped if invalid; when the query id changes, the mode's
// filtering policy is applied to the prior group.
func (p *Polisher) loadOverlaps(ctx context.Context, producer intake.OverlapProducer) error {
	var group []*ovl.Overlap
	var groupQuery int32 = -1

	flush := func() {
		if len(group) == 0 {
			return
		}
		kept := ovl.FilterGroup(filterModeFor(p.cfg.Mode), group)
		p.overlaps = append(p.overlaps, kept...)
		group = group[:0]
	}

	for {
		batch, ok, err := producer.NextBatch(ctx)
		if err != nil {
			return fmt.Errorf("polisher: loading overlaps: %w", err)
		}
		if !ok {
			break
		}
		for _, rec := range batch {
			o := &ovl.Overlap{
				QueryName:  rec.QueryName + "q",
				TargetName: rec.TargetName + "t",
				Strand:     rec.Strand,
				QuerySpan:  ovl.Span{Start: rec.QueryStart, End: rec.QueryEnd},
				TargetSpan: ovl.Span{Start: rec.TargetStart, End: rec.TargetEnd},
				Error:      rec.Error,
				Length:     rec.Length,
			}
			o.Transmute(p.nameToID)
			if !o.IsValid(p.cfg.ErrorThreshold) {
				continue
			}
			if o.QueryID != groupQuery {
				flush()
				groupQuery = o.QueryID
			}
			group = append(group, o)
		}
	}
	flush()

	p.coverage = make([]int, len(p.sequences))
	for _, o := range p.overlaps {
		p.coverage[o.TargetID]++
	}
	return nil
}

func filterModeFor(m config.Mode) ovl.Mode {
	if m == config.ModeFragment {
		return ovl.ModeFragment
	}
	return ovl.ModeContig
}

// markOrientations records, for every sequence, whether some overlap needs
// it in reverse-complement orientation, ahead of Transmute.
func (p *Polisher) markOrientations() {
	for _, o := range p.overlaps {
		p.sequences[o.QueryID].MarkUsage(true, true)
		p.sequences[o.TargetID].MarkUsage(true, true)
		if o.Strand {
			p.sequences[o.QueryID].MarkReverseNeeded()
		}
	}
}

func (p *Polisher) transmuteSequences() {
	tasks := make([]func(slot int) struct{}, len(p.sequences))
	for i, seq := range p.sequences {
		seq := seq
		tasks[i] = func(slot int) struct{} { seq.Transmute(); return struct{}{} }
	}
	p.runFutures(tasks)
}

// computeBreakpoints runs find_breaking_points for every overlap, one
// task per overlap, reading sequence data read-only.
func (p *Polisher) computeBreakpoints(ctx context.Context) error {
	tasks := make([]func(slot int) error, len(p.overlaps))
	for i, o := range p.overlaps {
		o := o
		tasks[i] = func(slot int) error {
			o.FindBreakingPoints(p.sequences, p.cfg.WindowLength)
			return nil
		}
	}
	errs := p.runFuturesErr(tasks)
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// buildWindows constructs one window per window_length slice of each
// target.
func (p *Polisher) buildWindows() {
	p.windowByID = make([][]*window.Window, p.numTargets)
	wl := p.cfg.WindowLength
	for tid := 0; tid < p.numTargets; tid++ {
		seq := p.sequences[tid]
		n := len(seq.Data)
		numWindows := (n + wl - 1) / wl
		wins := make([]*window.Window, 0, numWindows)
		for rank := 0; rank*wl < n; rank++ {
			start := rank * wl
			end := start + wl
			if end > n {
				end = n
			}
			var q []byte
			if len(seq.Quality) > 0 {
				q = seq.Quality[start:end]
			}
			w := window.New(rank, seq.Data[start:end], q, window.KindLong)
			wins = append(wins, w)
			p.windows = append(p.windows, w)
		}
		p.windowByID[tid] = wins
	}
}

// enqueueLayers appends, for every overlap and every break-point segment
// spanning >= 2% of the window length with acceptable mean quality, a
// layer to the window it belongs to, then drops the overlap.
func (p *Polisher) enqueueLayers() {
	wl := p.cfg.WindowLength
	minSpan := wl * 2 / 100
	if minSpan < 1 {
		minSpan = 1
	}
	for _, o := range p.overlaps {
		query := p.sequences[o.QueryID]
		qData, qQuality := query.Data, query.Quality
		if o.Strand {
			qData, qQuality = query.ReverseComplement(), query.ReverseQuality()
		}
		for _, seg := range o.Segments() {
			start, end := seg[0], seg[1]
			span := end.TargetPos - start.TargetPos
			if span < minSpan {
				continue
			}
			qs, qe := start.QueryPos, end.QueryPos
			if qs > qe {
				qs, qe = qe, qs
			}
			if qe > len(qData) {
				qe = len(qData)
			}
			if qs >= qe {
				continue
			}
			frag := qData[qs:qe]
			var fragQ []byte
			if len(qQuality) > 0 {
				fragQ = qQuality[qs:qe]
			}
			if p.cfg.QualityThreshold > 0 && len(fragQ) > 0 && meanQuality(fragQ) < p.cfg.QualityThreshold {
				continue
			}
			winIdx := start.TargetPos / wl
			wins := p.windowByID[o.TargetID]
			if winIdx < 0 || winIdx >= len(wins) {
				continue
			}
			w := wins[winIdx]
			begin := start.TargetPos - winIdx*wl
			winEnd := end.TargetPos - winIdx*wl - 1 // inclusive
			w.AddLayer(frag, fragQ, begin, winEnd)
		}
	}
	p.overlaps = nil
}

func meanQuality(q []byte) float64 {
	var sum int
	for _, b := range q {
		sum += int(b)
	}
	return float64(sum) / float64(len(q))
}

// runFutures submits one task per item to the pool and awaits the results
// in submission order.
func (p *Polisher) runFutures(tasks []func(slot int) struct{}) {
	if p.pool == nil {
		for _, t := range tasks {
			t(0)
		}
		return
	}
	futures := workerpool.Futures(p.pool, tasks)
	for _, f := range futures {
		<-f
	}
}

func (p *Polisher) runFuturesErr(tasks []func(slot int) error) []error {
	if p.pool == nil {
		out := make([]error, len(tasks))
		for i, t := range tasks {
			out[i] = t(0)
		}
		return out
	}
	futures := workerpool.Futures(p.pool, tasks)
	out := make([]error, len(futures))
	for i, f := range futures {
		out[i] = <-f
	}
	return out
}

// SetPool installs the worker pool used for the parallel stages. Optional:
// a Polisher with no pool runs every stage inline on the caller's
// goroutine, which keeps small tests pool-free.
func (p *Polisher) SetPool(pool *workerpool.Pool) { p.pool = pool }
