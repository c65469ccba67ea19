package searcher

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"
	"unsafe"

	"golang.org/x/exp/rand"
	"golang.org/x/sync/errgroup"

	"alphatree/game"
	"alphatree/metrics"
	"alphatree/oracle"
)

type Option func(env *Env)

// Env is the search engine: a tree of position statistics grown by
// simulations and queried for a visit-count policy. One Env owns one tree;
// the tree persists across Explore calls until Reset.
type Env struct {
	oracle      oracle.Oracle
	workers     int
	fillBatches bool
	cpuct       float64
	noiseEps    float64
	noiseAlpha  float64
	rng         *rand.Rand
	desc        game.Descriptor
	collector   metrics.Collector

	// mu is the global search lock: the tree is never read or written
	// without it, and it is never held across oracle I/O.
	mu   sync.Mutex
	tree tree

	iterations     int64
	nodesTraversed int64
	inferenceNanos atomic.Int64
	totalTime      time.Duration
	lastSearch     metrics.SearchMetric
}

// WithWorkers sets the number of concurrent descents. 1 selects synchronous
// mode: simulations run back-to-back with the oracle called inline.
func WithWorkers(workers int) Option {
	return func(e *Env) {
		if workers > 0 {
			e.workers = workers
		}
	}
}

// WithFillBatches pads every inference batch to the worker count by
// duplicating the first request.
func WithFillBatches() Option {
	return func(e *Env) {
		e.fillBatches = true
	}
}

// WithCpuct sets the PUCT exploration coefficient.
func WithCpuct(cpuct float64) Option {
	return func(e *Env) {
		if cpuct > 0 {
			e.cpuct = cpuct
		}
	}
}

// WithNoise mixes Dirichlet(alpha) noise into the root priors with weight
// eps. The noise vector is resampled once per Explore call.
func WithNoise(eps, alpha float64) Option {
	return func(e *Env) {
		e.noiseEps = eps
		if alpha > 0 {
			e.noiseAlpha = alpha
		}
	}
}

// WithSeed seeds the engine's random source, making noise sampling
// reproducible.
func WithSeed(seed uint64) Option {
	return func(e *Env) {
		e.rng = rand.New(rand.NewSource(seed))
	}
}

// WithDescriptor attaches the game's static properties, enabling the
// per-node memory estimate.
func WithDescriptor(desc game.Descriptor) Option {
	return func(e *Env) {
		e.desc = desc
	}
}

// WithCollector attaches a metrics collector; LastSearch exposes what it
// gathered for the most recent Explore.
func WithCollector(collector metrics.Collector) Option {
	return func(e *Env) {
		if collector != nil {
			e.collector = collector
		}
	}
}

func New(o oracle.Oracle, options ...Option) *Env {
	if o == nil {
		panic("Must supply an oracle")
	}
	e := &Env{ // Default values
		oracle:     o,
		workers:    1,
		cpuct:      1.0,
		noiseAlpha: 1.0,
		rng:        rand.New(rand.NewSource(uint64(time.Now().UnixNano()))),
		collector:  metrics.NewDummyCollector(),
		tree:       newTree(),
	}
	for _, option := range options {
		option(e)
	}
	return e
}

// Explore grows the tree below state by nsims simulations. The caller's
// state is not modified. On oracle or game failure the search stops and the
// error is returned; nodes already inserted remain valid.
func (e *Env) Explore(state game.State, nsims int) error {
	start := time.Now()

	s := &search{env: e, state: state, remaining: nsims}
	if e.noiseEps > 0 {
		if _, over := state.WhiteReward(); !over {
			s.noise = e.sampleNoise(len(state.AvailableActions()))
		}
	}

	e.collector.Start(e.workers)
	var err error
	if e.workers == 1 {
		err = s.run(newWorker(0, false))
	} else {
		workers := make([]*worker, e.workers)
		for i := range workers {
			workers[i] = newWorker(i, true)
		}
		g := new(errgroup.Group)
		for _, w := range workers {
			w := w
			g.Go(func() error { return s.run(w) })
		}
		g.Go(func() error { return s.serve(workers) })
		err = g.Wait()
	}

	e.totalTime += time.Since(start)
	e.lastSearch = e.collector.Complete()
	if err != nil {
		return fmt.Errorf("explore: %w", err)
	}
	return nil
}

// Reset empties the tree. Counters and timings carry on accumulating.
func (e *Env) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tree = newTree()
}

// TreeSize is the number of nodes currently stored.
func (e *Env) TreeSize() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tree.size()
}

// MemoryFootprintPerNode is an analytical per-node estimate: board key,
// map and pointer overhead, and the stats vector at the game's maximum
// action count. Planning only; the tree has no eviction. Returns 0 without
// a game descriptor.
func (e *Env) MemoryFootprintPerNode() int {
	if e.desc == nil {
		return 0
	}
	const ptrSize = int(unsafe.Sizeof(uintptr(0)))
	return e.desc.BoardMemSize() +
		2*ptrSize + // map key header + value pointer
		int(unsafe.Sizeof(boardInfo{})) +
		e.desc.NumActions()*int(unsafe.Sizeof(actionStats{}))
}

// InferenceTimeRatio is the share of total search time spent waiting on
// the oracle, 0 before the first Explore.
func (e *Env) InferenceTimeRatio() float64 {
	if e.totalTime == 0 {
		return 0
	}
	return float64(e.inferenceNanos.Load()) / float64(e.totalTime.Nanoseconds())
}

// AverageExplorationDepth is the mean number of expanded nodes traversed
// per simulation.
func (e *Env) AverageExplorationDepth() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.iterations == 0 {
		return 0
	}
	return float64(e.nodesTraversed) / float64(e.iterations)
}

// LastSearch returns what the attached collector gathered for the most
// recent Explore call.
func (e *Env) LastSearch() metrics.SearchMetric {
	return e.lastSearch
}
