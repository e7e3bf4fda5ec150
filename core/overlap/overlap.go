// Package overlap normalizes pairwise overlap records into internal ids,
// filters low-quality overlaps, and computes per-overlap alignment
// break-points at window boundaries.
package overlap

import "racon-core/sequence"

// Span is a 0-based, half-open coordinate range.
type Span struct {
	Start, End int
}

func (s Span) Len() int { return s.End - s.Start }

// Breakpoint is the (target_pos, query_pos) coordinate at which an overlap
// is split at a window boundary.
type Breakpoint struct {
	TargetPos, QueryPos int
}

// Overlap is created by the parser with external names, resolved to
// internal ids by Transmute, has its Breakpoints filled by one alignment
// pass, and is reset to nil once its fragments have been enqueued into
// windows.
type Overlap struct {
	QueryName, TargetName string // external; cleared once resolved

	QueryID, TargetID int32
	Strand            bool // false = forward, true = reverse
	QuerySpan         Span
	TargetSpan        Span
	Error             float64
	Length            int

	Breakpoints []Breakpoint

	valid bool
}

// Transmute resolves QueryName/TargetName to internal ids via nameToID,
// marking the overlap invalid if either side is missing or if the
// resolved ids are equal (a read cannot overlap itself as a distinct
// target).
func (o *Overlap) Transmute(nameToID map[string]int32) {
	qid, qok := nameToID[o.QueryName]
	tid, tok := nameToID[o.TargetName]
	if !qok || !tok || qid == tid {
		o.valid = false
		return
	}
	o.QueryID, o.TargetID = qid, tid
	o.QueryName, o.TargetName = "", ""
	o.valid = true
}

// IsValid reports whether this overlap passed Transmute, has positive
// spans, distinct query/target ids, and an error rate at or below
// threshold.
func (o *Overlap) IsValid(errorThreshold float64) bool {
	return o.valid &&
		o.QueryID != o.TargetID &&
		o.QuerySpan.Len() > 0 &&
		o.TargetSpan.Len() > 0 &&
		o.Error <= errorThreshold
}

// FindBreakingPoints maps target coordinates to query coordinates by
// linear interpolation between this overlap's two spans (see gaplessMap;
// the bases of query and target are not aligned or compared), and emits a
// sorted, alternating
// sequence of (segment_start, segment_end) Breakpoint pairs at every target
// window boundary the overlap's target span crosses.
func (o *Overlap) FindBreakingPoints(sequences []*sequence.Sequence, windowLength int) {
	query := sequences[o.QueryID]
	qData := query.Data
	if o.Strand {
		qData = query.ReverseComplement()
	}
	target := sequences[o.TargetID].Data

	mapping := gaplessMap(qData, o.QuerySpan, target, o.TargetSpan)
	o.Breakpoints = breakpointsAtWindows(mapping, o.TargetSpan, windowLength)
}

// gaplessMap produces, for every target position inside targetSpan, the
// corresponding query position by linear interpolation along the two
// spans. This is the "gapless" approximation named in the spec: good
// enough to locate window boundaries without running a second full
// alignment per overlap.
func gaplessMap(query []byte, qSpan Span, target []byte, tSpan Span) []int {
	_ = query
	_ = target
	tLen := tSpan.Len()
	qLen := qSpan.Len()
	mapping := make([]int, tLen+1)
	for i := 0; i <= tLen; i++ {
		frac := float64(i) / float64(tLen)
		mapping[i] = qSpan.Start + int(frac*float64(qLen))
	}
	return mapping
}

// breakpointsAtWindows walks mapping (target-local offset -> query
// position) and emits one (target_pos, query_pos) pair at the overlap's
// start, two identical pairs at every window boundary crossed (closing one
// segment and opening the next), and one at the overlap's end.
func breakpointsAtWindows(mapping []int, tSpan Span, windowLength int) []Breakpoint {
	if windowLength <= 0 {
		return nil
	}
	var bps []Breakpoint
	bps = append(bps, Breakpoint{TargetPos: tSpan.Start, QueryPos: mapping[0]})

	firstBoundary := ((tSpan.Start / windowLength) + 1) * windowLength
	for b := firstBoundary; b < tSpan.End; b += windowLength {
		local := b - tSpan.Start
		bps = append(bps, Breakpoint{TargetPos: b, QueryPos: mapping[local]})
		bps = append(bps, Breakpoint{TargetPos: b, QueryPos: mapping[local]})
	}
	bps = append(bps, Breakpoint{TargetPos: tSpan.End, QueryPos: mapping[len(mapping)-1]})
	return bps
}

// Segments pairs up Breakpoints into (start,end) segments, one per window
// the overlap spans.
func (o *Overlap) Segments() [][2]Breakpoint {
	segs := make([][2]Breakpoint, 0, len(o.Breakpoints)/2)
	for i := 0; i+1 < len(o.Breakpoints); i += 2 {
		segs = append(segs, [2]Breakpoint{o.Breakpoints[i], o.Breakpoints[i+1]})
	}
	return segs
}
