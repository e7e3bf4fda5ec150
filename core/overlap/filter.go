package overlap

// Mode selects the overlap filtering policy applied per query-id group.
type Mode byte

const (
	// ModeContig ("C"): contig/assembly polish. Within overlaps sharing
	// the same query id, retain only the longest overlap to each target.
	ModeContig Mode = 'C'
	// ModeFragment ("F"): fragment polish. Retain all valid overlaps.
	ModeFragment Mode = 'F'
)

// FilterGroup applies the mode's policy to a group of overlaps that all
// share the same QueryID, returning the surviving subset. group is not
// mutated; order of survivors matches input order.
func FilterGroup(mode Mode, group []*Overlap) []*Overlap {
	if mode == ModeFragment {
		return group
	}
	// ModeContig: longest overlap per target id wins.
	bestByTarget := make(map[int32]*Overlap, len(group))
	for _, o := range group {
		cur, ok := bestByTarget[o.TargetID]
		if !ok || o.Length > cur.Length {
			bestByTarget[o.TargetID] = o
		}
	}
	out := make([]*Overlap, 0, len(bestByTarget))
	for _, o := range group {
		if bestByTarget[o.TargetID] == o {
			out = append(out, o)
			delete(bestByTarget, o.TargetID) // keep first occurrence only, in case of exact length ties
		}
	}
	return out
}
