package oracle

import (
	"math/rand"

	"alphatree/game"
)

// RolloutOracle returns a uniform prior and estimates the value by playing
// uniformly random moves until the game ends. Slow but unbiased; useful as
// a network-free baseline and in tests.
type RolloutOracle struct {
	rng *rand.Rand
}

func NewRolloutOracle(seed int64) *RolloutOracle {
	return &RolloutOracle{rng: rand.New(rand.NewSource(seed))}
}

func (o *RolloutOracle) Evaluate(state game.State, actions []game.Move) (Evaluation, error) {
	wp := state.WhitePlaying()
	rollout := state.Clone()

	wr, over := rollout.WhiteReward()
	for !over {
		moves := rollout.AvailableActions()
		rollout.Play(moves[o.rng.Intn(len(moves))])
		wr, over = rollout.WhiteReward()
	}

	value := wr
	if !wp {
		value = -wr
	}
	return Evaluation{Prior: uniformPrior(len(actions)), Value: float32(value)}, nil
}

func (o *RolloutOracle) EvaluateBatch(batch []Request) ([]Evaluation, error) {
	return EvaluateSequential(o, batch)
}

// RandomOracle returns a uniform prior and a zero value estimate. The
// cheapest admissible oracle: search guided by it degenerates to visit
// counts shaped purely by exploration.
type RandomOracle struct{}

func (RandomOracle) Evaluate(state game.State, actions []game.Move) (Evaluation, error) {
	return Evaluation{Prior: uniformPrior(len(actions)), Value: 0}, nil
}

func (o RandomOracle) EvaluateBatch(batch []Request) ([]Evaluation, error) {
	return EvaluateSequential(o, batch)
}
