package metrics

import (
	"sync/atomic"
	"time"
)

// SearchMetric summarizes one Explore call.
type SearchMetric struct {
	Workers        int
	Simulations    int
	NodesTraversed int
	Batches        int
	BatchPositions int
	InferenceTime  time.Duration
	Duration       time.Duration
}

type Collector interface {
	Start(workers int)
	AddSimulation()
	AddNodesTraversed(n int)
	AddBatch(positions int, elapsed time.Duration)
	Complete() SearchMetric
}

type collector struct {
	workers        int
	startTime      time.Time
	simulations    atomic.Int64
	nodesTraversed atomic.Int64
	batches        atomic.Int64
	batchPositions atomic.Int64
	inferenceNanos atomic.Int64
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Start(workers int) {
	m.workers = workers
	m.startTime = time.Now()
	m.simulations.Store(0)
	m.nodesTraversed.Store(0)
	m.batches.Store(0)
	m.batchPositions.Store(0)
	m.inferenceNanos.Store(0)
}

func (m *collector) AddSimulation() {
	m.simulations.Add(1)
}

func (m *collector) AddNodesTraversed(n int) {
	m.nodesTraversed.Add(int64(n))
}

func (m *collector) AddBatch(positions int, elapsed time.Duration) {
	m.batches.Add(1)
	m.batchPositions.Add(int64(positions))
	m.inferenceNanos.Add(elapsed.Nanoseconds())
}

func (m *collector) Complete() SearchMetric {
	return SearchMetric{
		Workers:        m.workers,
		Duration:       time.Since(m.startTime),
		Simulations:    int(m.simulations.Load()),
		NodesTraversed: int(m.nodesTraversed.Load()),
		Batches:        int(m.batches.Load()),
		BatchPositions: int(m.batchPositions.Load()),
		InferenceTime:  time.Duration(m.inferenceNanos.Load()),
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start(workers int)                             {}
func (m *dummyCollector) AddSimulation()                                {}
func (m *dummyCollector) AddNodesTraversed(n int)                       {}
func (m *dummyCollector) AddBatch(positions int, elapsed time.Duration) {}
func (m *dummyCollector) Complete() SearchMetric                        { return SearchMetric{} }
