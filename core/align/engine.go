// Package align implements the pairwise alignment engine used to graft a
// new sequence onto a POA graph: Needleman-Wunsch global alignment between
// a linear sequence and a partial order graph, with configurable integer
// match/mismatch/gap scores.
package align

import "racon-core/poa"

// Config carries the integer scoring scheme used by Needleman-Wunsch
// global alignment, plus a band width that narrows the search for
// short-read (approximate) windows.
type Config struct {
	Match    int
	Mismatch int
	Gap      int
	// BandWidth caps how many graph columns around the sequence's expected
	// diagonal are evaluated. Zero means unrestricted (the full POA case).
	// window.Kind does not select a band: callers that want one set it here.
	BandWidth int
}

// Engine is preallocated to the expected sequence length and graph size so
// that repeated Align calls (one per layer, one per window) do not churn
// the allocator; it is the only hot allocation site in the core.
type Engine struct {
	cfg Config

	// scratch buffers, grown (never shrunk) across calls
	score [][]int32
	move  [][]byte // 'M','D','I' backtrack tag
	from  [][]int32
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

const (
	moveMatch = 'M'
	moveDel   = 'D' // graph advances, sequence does not (deletion from seq's view)
	moveIns   = 'I' // sequence advances, graph does not (insertion)
	moveNone  = 0
)

// New preallocates an Engine sized to expectedSeqLen x expectedFanOut.
func New(cfg Config, expectedSeqLen, expectedFanOut int) *Engine {
	e := &Engine{cfg: cfg}
	e.grow(expectedSeqLen+1, expectedFanOut+1)
	return e
}

func (e *Engine) grow(rows, cols int) {
	if len(e.score) >= rows && (len(e.score) == 0 || len(e.score[0]) >= cols) {
		return
	}
	rows = maxInt(rows, len(e.score))
	if len(e.score) > 0 {
		cols = maxInt(cols, len(e.score[0]))
	}
	e.score = make([][]int32, rows)
	e.move = make([][]byte, rows)
	e.from = make([][]int32, rows)
	for i := range e.score {
		e.score[i] = make([]int32, cols)
		e.move[i] = make([]byte, cols)
		e.from[i] = make([]int32, cols)
	}
}

// Align computes the global alignment of seq against g under this engine's
// scoring configuration. Column 0 of the DP represents "before any graph
// node"; column c (1-indexed) represents the node at topological rank c-1.
func (e *Engine) Align(seq []byte, g *poa.Graph) (poa.Alignment, error) {
	if err := g.TopologicalSort(false); err != nil {
		return nil, err
	}
	byRank := g.Order()
	n := len(seq)
	numCols := len(byRank) + 1
	e.grow(n+1, numCols)

	predCols := e.predecessorColumns(g, byRank)

	// column 0: all insertions before any node.
	for i := 0; i <= n; i++ {
		e.score[i][0] = int32(i * e.cfg.Gap)
		e.move[i][0] = moveIns
		e.from[i][0] = 0
	}
	// row 0: for each column, best of predecessor deletions.
	for c := 1; c < numCols; c++ {
		best := int32(0)
		bestFrom := int32(0)
		first := true
		for _, pc := range predCols[c] {
			cand := e.score[0][pc] + int32(e.cfg.Gap)
			if first || cand > best {
				best, bestFrom, first = cand, int32(pc), false
			}
		}
		e.score[0][c] = best
		e.move[0][c] = moveDel
		e.from[0][c] = bestFrom
	}

	band := e.cfg.BandWidth
	for c := 1; c < numCols; c++ {
		node := byRank[c-1]
		letter := g.Node(node).Letter
		lo, hi := 1, n
		if band > 0 {
			// Short-read windows restrict the search to rows near this
			// column's expected diagonal, scaled to the sequence/graph
			// length ratio, to keep the DP narrow.
			center := c
			if numCols > 1 {
				center = c * n / (numCols - 1)
			}
			lo, hi = maxInt(1, center-band), minInt(n, center+band)
		}
		for i := 1; i <= n; i++ {
			if i < lo || i > hi {
				e.score[i][c] = -1 << 30
				e.move[i][c] = moveNone
				e.from[i][c] = 0
				continue
			}
			bestVal := e.score[i-1][c] + int32(e.cfg.Gap) // insertion
			var bestMove byte = moveIns
			bestFrom := int32(c)

			sub := int32(e.cfg.Mismatch)
			if seq[i-1] == letter {
				sub = int32(e.cfg.Match)
			}
			for _, pc := range predCols[c] {
				if cand := e.score[i-1][pc] + sub; cand > bestVal {
					bestVal, bestMove, bestFrom = cand, moveMatch, int32(pc)
				}
				if cand := e.score[i][pc] + int32(e.cfg.Gap); cand > bestVal {
					bestVal, bestMove, bestFrom = cand, moveDel, int32(pc)
				}
			}
			e.score[i][c] = bestVal
			e.move[i][c] = bestMove
			e.from[i][c] = bestFrom
		}
	}

	endCol := e.bestEndColumn(g, byRank, n)
	return e.backtrace(g, byRank, n, endCol), nil
}

// predecessorColumns maps each DP column (1-indexed, column c = node at
// rank c-1) to the columns of its graph-predecessors, or {0} (the virtual
// start) if the node has none.
func (e *Engine) predecessorColumns(g *poa.Graph, byRank []int32) [][]int {
	rankOf := make(map[int32]int32, len(byRank))
	for r, id := range byRank {
		rankOf[id] = int32(r)
	}
	out := make([][]int, len(byRank)+1)
	for c := 1; c <= len(byRank); c++ {
		node := byRank[c-1]
		ins := g.InEdges(node)
		if len(ins) == 0 {
			out[c] = []int{0}
			continue
		}
		for _, idx := range ins {
			from := g.Edge(idx).FromID
			out[c] = append(out[c], int(rankOf[from])+1)
		}
	}
	return out
}

// bestEndColumn picks the DP column a global alignment should terminate
// at: the best score among graph sink nodes (nodes with no outgoing
// edges), or column 0 when the graph is empty.
func (e *Engine) bestEndColumn(g *poa.Graph, byRank []int32, n int) int {
	if len(byRank) == 0 {
		return 0
	}
	best := -1
	var bestVal int32
	for c := 1; c <= len(byRank); c++ {
		node := byRank[c-1]
		if len(g.OutEdges(node)) != 0 {
			continue
		}
		if best == -1 || e.score[n][c] > bestVal {
			best, bestVal = c, e.score[n][c]
		}
	}
	if best == -1 {
		best = len(byRank)
	}
	return best
}

func (e *Engine) backtrace(g *poa.Graph, byRank []int32, n, endCol int) poa.Alignment {
	var rev poa.Alignment
	i, c := n, endCol
	for i > 0 || c > 0 {
		switch e.move[i][c] {
		case moveMatch:
			node := byRank[c-1]
			rev = append(rev, poa.Pair{NodeID: node, SeqPos: int32(i - 1)})
			i, c = i-1, int(e.from[i][c])
		case moveDel:
			node := byRank[c-1]
			rev = append(rev, poa.Pair{NodeID: node, SeqPos: -1})
			c = int(e.from[i][c])
		case moveIns:
			rev = append(rev, poa.Pair{NodeID: -1, SeqPos: int32(i - 1)})
			i = i - 1
		default:
			// moveNone at (0,0): done.
			i, c = 0, 0
		}
	}
	al := make(poa.Alignment, len(rev))
	for i, p := range rev {
		al[len(rev)-1-i] = p
	}
	return al
}
