package polisher

import (
	"fmt"

	"racon-core/align"
	"racon-core/window"

	"racon/internal/shrink"
	"racon/internal/workerpool"
)

// windowResult is the future payload for one window's consensus task.
type windowResult struct {
	polished bool
	err      error
}

// Polish dispatches generate_consensus per window to the worker pool, then
// walks windows in target/rank order concatenating consensuses; whenever
// the rank resets (the next target begins) it finalizes the prior target's
// polished output. If dropUnpolished and a target's XC is zero, that
// target's output is skipped. Sequence and window storage is released once
// every target has been visited.
func (p *Polisher) Polish(dropUnpolished bool) ([]PolishedTarget, error) {
	tasks := make([]func(slot int) windowResult, len(p.windows))
	for i, w := range p.windows {
		w := w
		tasks[i] = func(slot int) windowResult {
			eng := p.engineFor(slot)
			polished, err := w.GenerateConsensus(eng, p.cfg.MinCoverage, p.cfg.AllowedGapPercent)
			if err != nil {
				return windowResult{err: fmt.Errorf("polisher: window rank %d: %w", w.Rank, err)}
			}
			return windowResult{polished: polished}
		}
	}
	results := p.runFuturesWindow(tasks)

	slots := make([]*PolishedTarget, p.numTargets)
	idx := 0
	for tid := 0; tid < p.numTargets; tid++ {
		wins := p.windowByID[tid]
		data, polishedCount := p.assembleTarget(wins, results[idx:idx+len(wins)])
		idx += len(wins)

		target := p.sequences[tid]
		xc := 0.0
		if len(wins) > 0 {
			xc = float64(polishedCount) / float64(len(wins))
		}
		if dropUnpolished && xc == 0 {
			continue
		}
		slots[tid] = &PolishedTarget{
			Name:             target.Name,
			Data:             data,
			TargetCoverage:   p.coverageFor(tid),
			PolishedFraction: xc,
		}
	}
	survivors := shrink.Compact(slots)
	out := make([]PolishedTarget, len(survivors))
	for i, t := range survivors {
		out[i] = *t
	}

	p.windows = nil
	p.windowByID = nil
	p.sequences = nil
	return out, nil
}

// assembleTarget concatenates the consensus (or backbone fallback) of each
// window belonging to a target, in rank order, and counts how many
// produced a real consensus.
func (p *Polisher) assembleTarget(wins []*window.Window, results []windowResult) ([]byte, int) {
	var data []byte
	polishedCount := 0
	for i, w := range wins {
		res := results[i]
		if res.err != nil {
			data = append(data, w.Backbone...)
			continue
		}
		if res.polished {
			data = append(data, w.Consensus...)
			polishedCount++
		} else {
			data = append(data, w.Backbone...)
		}
	}
	return data, polishedCount
}

func (p *Polisher) coverageFor(tid int) int {
	if tid < len(p.coverage) {
		return p.coverage[tid]
	}
	return 0
}

// engineFor returns the alignment engine dedicated to slot, or a fresh
// inline engine when the polisher has no pool (small/test runs).
func (p *Polisher) engineFor(slot int) *align.Engine {
	if p.pool != nil {
		return p.pool.Engine(slot)
	}
	return align.New(align.Config{Match: p.cfg.Match, Mismatch: p.cfg.Mismatch, Gap: p.cfg.Gap}, 256, 256)
}

func (p *Polisher) runFuturesWindow(tasks []func(slot int) windowResult) []windowResult {
	if p.pool == nil {
		out := make([]windowResult, len(tasks))
		for i, t := range tasks {
			out[i] = t(0)
		}
		return out
	}
	futures := workerpool.Futures(p.pool, tasks)
	out := make([]windowResult, len(futures))
	for i, f := range futures {
		out[i] = <-f
	}
	return out
}
