// Package window implements the unit of local consensus construction: a
// fixed-length backbone slice of a target sequence plus the fragments of
// overlapping reads that were routed into it.
package window

import (
	"racon-core/align"
	"racon-core/poa"
)

// Kind labels a window as holding short-read or long-read data.
// GenerateConsensus does not read it: every window is aligned with the
// engine it is handed, under that engine's own BandWidth.
type Kind byte

const (
	KindLong  Kind = 'L'
	KindShort Kind = 'S'
)

// Layer is one fragment of an overlapping query read, tagged with the
// intra-window offsets it spans.
type Layer struct {
	Data    []byte
	Quality []byte
	Begin   int // inclusive
	End     int // inclusive
}

// Window owns a slice of target backbone plus its layers. Rank is the
// window's position among the windows of its target.
type Window struct {
	Rank            int
	Backbone        []byte
	BackboneQuality []byte
	Kind            Kind

	Layers []Layer

	Consensus   []byte
	AlleleRatio []float64
	Polished    bool
}

// New creates a window over a slice of target backbone.
func New(rank int, backbone, backboneQuality []byte, kind Kind) *Window {
	return &Window{Rank: rank, Backbone: backbone, BackboneQuality: backboneQuality, Kind: kind}
}

// AddLayer appends a fragment with inclusive begin/end offsets into the
// window's backbone coordinate space.
func (w *Window) AddLayer(data, quality []byte, begin, end int) {
	w.Layers = append(w.Layers, Layer{Data: data, Quality: quality, Begin: begin, End: end})
}

// backboneWeights derives per-base seed weights from BackboneQuality when
// present, else a uniform weight of 1.0.
func (w *Window) backboneWeights() []float64 {
	if len(w.BackboneQuality) == 0 {
		out := make([]float64, len(w.Backbone))
		for i := range out {
			out[i] = 1.0
		}
		return out
	}
	out := make([]float64, len(w.BackboneQuality))
	for i, q := range w.BackboneQuality {
		out[i] = float64(q)
	}
	return out
}

func layerWeights(quality []byte, n int) []float64 {
	if len(quality) == 0 {
		out := make([]float64, n)
		for i := range out {
			out[i] = 1.0
		}
		return out
	}
	out := make([]float64, len(quality))
	for i, q := range quality {
		out[i] = float64(q)
	}
	return out
}

// GenerateConsensus builds a POA graph seeded with the backbone, aligns
// every layer against it via eng, generates the heaviest-bundle consensus
// with coverages, and trims positions below minCoverage. It then checks
// the percentage of indel pairs across all layer alignments (truncated to
// an integer) against allowedGapPct; the consensus path itself is not
// inspected for gaps. It returns false (an "unpolished" soft failure,
// never an error) when that percentage is exceeded; the caller decides
// whether to drop the window or fall back to its backbone.
func (w *Window) GenerateConsensus(eng *align.Engine, minCoverage float64, allowedGapPct int) (bool, error) {
	g := poa.NewSeeded(w.Backbone, w.backboneWeights())

	gapColumns := 0
	totalColumns := 0
	for _, layer := range w.Layers {
		al, err := eng.Align(layer.Data, g)
		if err != nil {
			return false, err
		}
		if err := g.AddAlignment(al, layer.Data, layerWeights(layer.Quality, len(layer.Data))); err != nil {
			return false, err
		}
		for _, p := range al {
			totalColumns++
			if p.NodeID == -1 || p.SeqPos == -1 {
				gapColumns++
			}
		}
	}

	path := g.ConsensusPath()
	cons, cov := g.GenerateConsensusWithCoverages()
	path, cons, cov = trimPathByCoverage(path, cons, cov, minCoverage)

	w.Consensus = cons
	w.AlleleRatio = alleleRatios(g, path)

	if totalColumns > 0 {
		gapPct := 100 * gapColumns / totalColumns
		if gapPct > allowedGapPct {
			w.Polished = false
			return false, nil
		}
	}
	w.Polished = true
	return true, nil
}

// trimPathByCoverage drops consensus positions whose coverage (edge-weight
// sum) is below minCoverage, preserving relative order across all three
// parallel slices.
func trimPathByCoverage(path []int32, cons []byte, cov []float64, minCoverage float64) ([]int32, []byte, []float64) {
	outPath := path[:0:0]
	outCons := cons[:0:0]
	outCov := cov[:0:0]
	for i, c := range cov {
		if c >= minCoverage {
			outPath = append(outPath, path[i])
			outCons = append(outCons, cons[i])
			outCov = append(outCov, c)
		}
	}
	return outPath, outCons, outCov
}

// alleleRatios records, per consensus column, the fraction of incident
// edge weight carried by the chosen node versus all nodes competing at
// that column (its aligned-set) — used downstream for variant-aware
// reporting.
func alleleRatios(g *poa.Graph, path []int32) []float64 {
	ratios := make([]float64, len(path))
	for i, id := range path {
		chosen := g.IncidentWeight(id)
		total := chosen
		for _, alt := range g.AlignedNodeIDs(id) {
			total += g.IncidentWeight(alt)
		}
		if total == 0 {
			ratios[i] = 1.0
			continue
		}
		ratios[i] = chosen / total
	}
	return ratios
}
