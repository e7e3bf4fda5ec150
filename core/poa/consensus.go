package poa

// GenerateConsensus runs the heaviest-bundle traversal and returns the
// consensus letters only.
func (g *Graph) GenerateConsensus() []byte {
	cons, _ := g.GenerateConsensusWithCoverages()
	return cons
}

// GenerateConsensusWithCoverages additionally returns, for each output
// position, the sum of edge weights incident to the chosen node on the
// chosen path (used downstream for coverage reporting).
func (g *Graph) GenerateConsensusWithCoverages() ([]byte, []float64) {
	path := g.heaviestBundlePath()
	cons := make([]byte, len(path))
	cov := make([]float64, len(path))
	for i, id := range path {
		cons[i] = g.nodes[id].Letter
		cov[i] = g.incidentWeight(id)
	}
	return cons, cov
}

// ConsensusPath returns the node ids of the heaviest-bundle path, in
// emission order.
func (g *Graph) ConsensusPath() []int32 { return g.heaviestBundlePath() }

// IncidentWeight returns the sum of edge weights incident to node id,
// exposed for downstream coverage/allele-ratio reporting.
func (g *Graph) IncidentWeight(id int32) float64 { return g.incidentWeight(id) }

func (g *Graph) incidentWeight(id int32) float64 {
	var w float64
	for _, idx := range g.nodes[id].In {
		w += g.edges[idx].Weight
	}
	for _, idx := range g.nodes[id].Out {
		w += g.edges[idx].Weight
	}
	return w
}

// heaviestBundlePath topologically sorts the graph, scores every node by
// the best path to a sink (score[n] = max over out-edges of weight+score[to],
// 0 for sinks), then walks forward from the highest-scoring start node along
// recorded successors. branchCompletion resolves ties at forks by comparing
// the completion score of each sibling branch, with node id as the final
// tie-break (lower wins), applied iteratively as the path is refined.
func (g *Graph) heaviestBundlePath() []int32 {
	if len(g.nodes) == 0 {
		return nil
	}
	if err := g.TopologicalSort(false); err != nil {
		return nil
	}
	byRank := g.Order()
	score := make([]float64, len(g.nodes))
	next := make([]int32, len(g.nodes))
	for i := range next {
		next[i] = -1
	}
	for i := len(byRank) - 1; i >= 0; i-- {
		id := byRank[i]
		best := float64(0)
		bestTo := int32(-1)
		for _, idx := range g.nodes[id].Out {
			e := g.edges[idx]
			cand := e.Weight + score[e.ToID]
			if bestTo == -1 || cand > best || (cand == best && e.ToID < bestTo) {
				best = cand
				bestTo = e.ToID
			}
		}
		score[id] = best
		next[id] = bestTo
	}

	start := g.bestStart(score)
	if start < 0 {
		return nil
	}

	path := []int32{start}
	cur := start
	for next[cur] != -1 {
		cur = g.branchCompletion(cur, next, score)
		path = append(path, cur)
	}
	return path
}

// bestStart picks the sequence-start node with the highest total score,
// lower node id breaking ties.
func (g *Graph) bestStart(score []float64) int32 {
	best := int32(-1)
	var bestScore float64
	candidates := g.sequenceStart
	if len(candidates) == 0 {
		for i := range g.nodes {
			candidates = append(candidates, int32(i))
		}
	}
	for _, id := range candidates {
		if best == -1 || score[id] > bestScore || (score[id] == bestScore && id < best) {
			best = id
			bestScore = score[id]
		}
	}
	return best
}

// branchCompletion returns the successor of cur to continue the bundle
// through. When multiple out-edges have comparably heavy weight, it
// compares each sibling's completion score (edge weight + score at the
// destination) and continues along the highest, with lower node id as the
// tie-break. This mirrors the scoring already computed in next[], but is
// kept as its own step so that future refinements (e.g. an actual
// similarity threshold between siblings) have a single seam to extend.
func (g *Graph) branchCompletion(cur int32, next []int32, score []float64) int32 {
	out := g.nodes[cur].Out
	if len(out) == 0 {
		return next[cur]
	}
	best := int32(-1)
	var bestVal float64
	for _, idx := range out {
		e := g.edges[idx]
		val := e.Weight + score[e.ToID]
		if best == -1 || val > bestVal || (val == bestVal && e.ToID < best) {
			best = e.ToID
			bestVal = val
		}
	}
	return best
}
