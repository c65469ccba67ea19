package searcher

import (
	"fmt"
	"time"

	"alphatree/oracle"
)

// serve is the inference server loop. Each round it takes exactly one
// message from every live worker, drops the ones that sent the termination
// sentinel, submits the collected requests to the oracle as one batch, and
// routes result i back to requester i. It runs lock-free against the tree.
func (s *search) serve(workers []*worker) error {
	e := s.env
	live := workers
	for {
		owners := make([]*worker, 0, len(live))
		batch := make([]oracle.Request, 0, len(live))
		for _, w := range live {
			req := <-w.send
			if req == nil {
				continue
			}
			owners = append(owners, w)
			batch = append(batch, oracle.Request{State: req.state, Actions: req.actions})
		}
		live = owners
		if len(owners) == 0 {
			return nil
		}

		// Some oracles want constant-size batches (compiled kernels cached
		// per shape); pad with copies of the first request and discard the
		// padded slots' results.
		if e.fillBatches {
			for len(batch) < e.workers {
				batch = append(batch, batch[0])
			}
		}

		start := time.Now()
		evals, err := e.oracle.EvaluateBatch(batch)
		elapsed := time.Since(start)
		e.inferenceNanos.Add(elapsed.Nanoseconds())
		e.collector.AddBatch(len(batch), elapsed)

		if err == nil && len(evals) < len(owners) {
			err = fmt.Errorf("oracle returned %d evaluations for a batch of %d", len(evals), len(batch))
		}
		if err != nil {
			// Fail every waiting worker so Explore terminates with the
			// error instead of deadlocking on recv.
			for _, w := range owners {
				w.recv <- result{err: err}
			}
			return err
		}
		for i, w := range owners {
			w.recv <- result{eval: evals[i]}
		}
	}
}
