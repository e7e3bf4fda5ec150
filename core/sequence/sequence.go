// Package sequence holds the read/target representation shared by the
// overlap intake pipeline and the windowed polisher.
package sequence

import "github.com/TimothyStiles/poly/transform"

// Sequence is created by the intake parser with a name and forward data
// (and optional per-letter PHRED quality), mutated once during Transmute
// to drop representations that were never used, then treated as read-only.
type Sequence struct {
	Name    string
	Data    []byte
	Quality []byte

	hasName        bool
	hasData        bool
	hasReverseData bool

	rcData    []byte
	rcQuality []byte
}

// New creates a Sequence with both name and data present.
func New(name string, data, quality []byte) *Sequence {
	return &Sequence{Name: name, Data: data, Quality: quality, hasName: true, hasData: true}
}

// MarkReverseNeeded records that some overlap needs this sequence's
// reverse-complement orientation. Called during intake as overlaps are
// scanned, before Transmute runs.
func (s *Sequence) MarkReverseNeeded() { s.hasReverseData = true }

// MarkUsage records which of name/forward-data this sequence still needs,
// independent of orientation (e.g. once its layers are all enqueued, the
// forward data may no longer be needed by anything downstream).
func (s *Sequence) MarkUsage(name, data bool) {
	s.hasName = s.hasName && name
	s.hasData = s.hasData && data
}

// Transmute drops unused representations based on the usage flags observed
// so far: a sequence the intake never needed in reverse orientation never
// pays for a materialized reverse-complement buffer.
func (s *Sequence) Transmute() {
	if !s.hasName {
		s.Name = ""
	}
	if !s.hasData {
		s.Data = nil
		s.Quality = nil
	}
	if !s.hasReverseData {
		s.rcData = nil
		s.rcQuality = nil
	}
}

// ReverseComplement lazily computes and caches the reverse complement of
// Data. Computation is delegated to transform.ReverseComplement rather
// than hand-rolled, since that is exactly the operation it exists to do.
func (s *Sequence) ReverseComplement() []byte {
	if s.rcData == nil && len(s.Data) > 0 {
		s.rcData = []byte(transform.ReverseComplement(string(s.Data)))
	}
	return s.rcData
}

// ReverseQuality lazily computes and caches the reverse (not complemented)
// quality string, aligned position-for-position with ReverseComplement.
func (s *Sequence) ReverseQuality() []byte {
	if s.rcQuality == nil && len(s.Quality) > 0 {
		rq := make([]byte, len(s.Quality))
		for i, q := range s.Quality {
			rq[len(s.Quality)-1-i] = q
		}
		s.rcQuality = rq
	}
	return s.rcQuality
}

// Len returns the forward sequence length.
func (s *Sequence) Len() int { return len(s.Data) }

// Weights derives per-letter POA seed weights from quality when present
// (PHRED score as-is, used as a relative weight), else a uniform weight of
// 1.0 per base.
func (s *Sequence) Weights() []float64 {
	if len(s.Quality) == 0 {
		w := make([]float64, len(s.Data))
		for i := range w {
			w[i] = 1.0
		}
		return w
	}
	w := make([]float64, len(s.Quality))
	for i, q := range s.Quality {
		w[i] = float64(q)
	}
	return w
}
