package poa

const gapChar = '-'

// GenerateMSA requires a valid topological sort. It assigns every node a
// column equal to one plus the maximum column among its predecessors, with
// all nodes in the same aligned-set forced to share the column that is the
// max across the whole set (computed to a fixed point, since a node's
// column can be raised by a sibling in its aligned-set after its own
// predecessor pass already ran).
//
// It then emits one row per inserted sequence: walking from that sequence's
// start node along edges whose label set contains the sequence, emitting
// the letter at each visited node's column and gap characters everywhere
// else in the row.
func (g *Graph) GenerateMSA(includeConsensus bool) ([]string, error) {
	if err := g.TopologicalSort(false); err != nil {
		return nil, err
	}
	columns := g.assignColumns()
	numCols := 0
	for _, c := range columns {
		if int(c)+1 > numCols {
			numCols = int(c) + 1
		}
	}

	rows := make([]string, 0, len(g.sequenceStart)+1)
	for label, start := range g.sequenceStart {
		rows = append(rows, g.emitRow(int32(label), start, columns, numCols))
	}
	if includeConsensus {
		cons, _ := g.GenerateConsensusWithCoverages()
		rows = append(rows, g.emitConsensusRow(cons, columns, numCols))
	}
	return rows, nil
}

// assignColumns computes, for each node (by rank order), its MSA column.
// Aligned-set members are reconciled to a shared column by iterating to a
// fixed point: cheap in practice since a column index only ever increases.
func (g *Graph) assignColumns() []int32 {
	byRank := g.Order()
	columns := make([]int32, len(g.nodes))
	for i := range columns {
		columns[i] = -1
	}
	changed := true
	for changed {
		changed = false
		for _, id := range byRank {
			col := int32(0)
			for _, idx := range g.nodes[id].In {
				from := g.edges[idx].FromID
				if columns[from]+1 > col {
					col = columns[from] + 1
				}
			}
			root := g.find(g.nodes[id].alignGroup)
			// pull in any column already assigned to a column-mate
			for _, other := range g.nodes {
				if g.find(other.alignGroup) == root && columns[other.ID] > col {
					col = columns[other.ID]
				}
			}
			if col != columns[id] {
				columns[id] = col
				changed = true
			}
		}
	}
	return columns
}

func (g *Graph) emitRow(label int32, start int32, columns []int32, numCols int) string {
	row := make([]byte, numCols)
	for i := range row {
		row[i] = gapChar
	}
	id := start
	for {
		row[columns[id]] = g.nodes[id].Letter
		next, ok := g.nextOnLabel(id, label)
		if !ok {
			break
		}
		id = next
	}
	return string(row)
}

func (g *Graph) nextOnLabel(id, label int32) (int32, bool) {
	for _, idx := range g.nodes[id].Out {
		e := g.edges[idx]
		if _, ok := e.Labels[label]; ok {
			return e.ToID, true
		}
	}
	return 0, false
}

func (g *Graph) emitConsensusRow(cons []byte, columns []int32, numCols int) string {
	// The consensus path's columns are derived by re-walking the heaviest
	// bundle and looking up each visited node's column; reconstructing the
	// path is done in consensus.go so here we just need the node sequence.
	path := g.heaviestBundlePath()
	row := make([]byte, numCols)
	for i := range row {
		row[i] = gapChar
	}
	for _, id := range path {
		row[columns[id]] = g.nodes[id].Letter
	}
	_ = cons
	return string(row)
}
