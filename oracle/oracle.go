package oracle

import (
	"fmt"

	"alphatree/game"
)

// Request is one position to evaluate: the state itself plus its legal
// actions in canonical order. The state is a private copy; oracles may
// mutate it (the rollout oracle still plays out a clone of its own).
type Request struct {
	State   game.State
	Actions []game.Move
}

// Evaluation is an oracle's answer for one position. Prior is a probability
// vector over the request's actions, in the same order. Value is a scalar
// outcome prediction from the perspective of the side to move at the
// evaluated state; the usual convention is [-1, 1] for loss/win.
type Evaluation struct {
	Prior []float32
	Value float32
}

// Oracle maps positions to action priors and value estimates. Typically a
// neural network, but any evaluator with this signature works.
type Oracle interface {
	Evaluate(state game.State, actions []game.Move) (Evaluation, error)
	EvaluateBatch(batch []Request) ([]Evaluation, error)
}

// EvaluateSequential is the default EvaluateBatch: one Evaluate call per
// request. Oracles without native batching embed this as their batch path.
func EvaluateSequential(o Oracle, batch []Request) ([]Evaluation, error) {
	evals := make([]Evaluation, len(batch))
	for i, req := range batch {
		eval, err := o.Evaluate(req.State, req.Actions)
		if err != nil {
			return nil, fmt.Errorf("evaluating batch item %d: %w", i, err)
		}
		evals[i] = eval
	}
	return evals, nil
}

func uniformPrior(n int) []float32 {
	prior := make([]float32, n)
	p := 1 / float32(n)
	for i := range prior {
		prior[i] = p
	}
	return prior
}
