package searcher

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// selectAction scores every edge with PUCT and returns the argmax, breaking
// ties toward the lowest index.
//
//	U(i) = Q(i) + cpuct * P~(i) * sqrt(Ntot) / (N(i) + 1)
//	Q(i) = (W(i) - inflight(i)) / max(N(i), 1)
//
// Subtracting the in-flight worker count from W steers concurrent workers
// away from edges that already have a descent pending on them, without
// blocking anyone. noise is non-nil only on the root step of a descent;
// there the prior is mixed as P~ = (1-eps)*P + eps*noise.
func selectAction(info *boardInfo, cpuct, eps float64, noise []float64) int {
	sqrtTotal := math.Sqrt(float64(info.totalVisits()))

	best := 0
	bestScore := math.Inf(-1)
	for i := range info.stats {
		st := &info.stats[i]

		p := float64(st.P)
		if noise != nil {
			p = (1-eps)*p + eps*noise[i]
		}

		q := (st.W - float64(st.inflight)) / math.Max(float64(st.N), 1)
		u := q + cpuct*p*sqrtTotal/float64(st.N+1)
		if u > bestScore {
			best = i
			bestScore = u
		}
	}
	return best
}

// sampleNoise draws one Dirichlet(alpha, n) vector for the root's legal
// actions. Drawn once per Explore and read-only afterwards.
func (e *Env) sampleNoise(n int) []float64 {
	alpha := make([]float64, n)
	for i := range alpha {
		alpha[i] = e.noiseAlpha
	}
	return distuv.NewDirichlet(alpha, e.rng).Rand(nil)
}
