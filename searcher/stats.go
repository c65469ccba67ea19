package searcher

// actionStats holds the statistics of one edge out of a node, indexed by
// the position of the action in the node's legal-action order.
//
// W accumulates rewards from the perspective of the side to move at the
// node, in float64 for numerical stability; P stays float32 as delivered
// by the oracle. inflight counts workers currently descending through the
// edge (the virtual loss).
type actionStats struct {
	P        float32
	W        float64
	N        int32
	inflight uint16
}

// boardInfo is the per-node record of the tree store. stats is ordered by
// the game's legal-action order at first sight of the board; vest is the
// oracle's value estimate from the side to move, recorded at creation and
// used as the bootstrapped return when the node is first expanded.
type boardInfo struct {
	stats []actionStats
	vest  float32
}

func newBoardInfo(prior []float32, vest float32) *boardInfo {
	stats := make([]actionStats, len(prior))
	for i, p := range prior {
		stats[i].P = p
	}
	return &boardInfo{stats: stats, vest: vest}
}

// totalVisits is Ntot: the number of descents that traversed this node,
// counting those still in flight (N is incremented on the way down).
func (b *boardInfo) totalVisits() int64 {
	var total int64
	for i := range b.stats {
		total += int64(b.stats[i].N)
	}
	return total
}
