package searcher

import (
	"math"

	"github.com/rs/zerolog/log"

	"alphatree/game"
)

// Policy returns the root's legal actions and a stochastic policy over
// them, derived from visit counts with temperature tau. tau = 0 plays the
// argmax deterministically (lowest index on ties); otherwise
// pi(i) is proportional to N(i)^(1/tau). The state must have been explored
// before, else ErrExploreFirst.
func (e *Env) Policy(state game.State, tau float64) ([]game.Move, []float64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	info, ok := e.tree.lookup(state.CanonicalBoard())
	if !ok {
		return nil, nil, ErrExploreFirst
	}
	actions := state.AvailableActions()
	if len(actions) != len(info.stats) {
		panic("action count differs from the node's recorded stats")
	}

	pi := make([]float64, len(info.stats))
	if tau == 0 {
		best := 0
		for i := range info.stats {
			if info.stats[i].N > info.stats[best].N {
				best = i
			}
		}
		pi[best] = 1
		return actions, pi, nil
	}

	sum := 0.0
	for i := range info.stats {
		if n := info.stats[i].N; n > 0 {
			pi[i] = math.Pow(float64(n), 1/tau)
			sum += pi[i]
		}
	}
	if sum == 0 {
		log.Warn().Msg("policy requested on a root with no visited edges")
		return actions, pi, nil
	}
	for i := range pi {
		pi[i] /= sum
	}
	return actions, pi, nil
}
