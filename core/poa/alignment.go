package poa

// Pair is one column of an Alignment: either side may be -1, denoting an
// insertion (NodeID == -1, only in the sequence) or a deletion (SeqPos ==
// -1, only in the graph).
type Pair struct {
	NodeID int32
	SeqPos int32
}

// Alignment is an ordered sequence vs. graph alignment, as produced by
// core/align.Engine. Ends may be soft-clipped by omission.
type Alignment []Pair

const gapID = int32(-1)
