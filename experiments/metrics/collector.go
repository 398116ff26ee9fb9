package metrics

import (
	"sync/atomic"
	"time"
)

// RunMetric summarizes how one call to Runner.Run behaved on the wall clock.
type RunMetric struct {
	Workers    int
	StartTime  time.Time
	Duration   time.Duration
	Replicates int
	Failures   int
}

// Collector gathers replicate-level progress from a run. Safe for concurrent
// use: replicates report from independent goroutines.
type Collector interface {
	Start(workers int)
	AddReplicate()
	AddFailure()
	Complete() RunMetric
}

type collector struct {
	workers    int
	startTime  time.Time
	replicates atomic.Int32
	failures   atomic.Int32
}

func NewCollector() Collector {
	return &collector{}
}

func (c *collector) Start(workers int) {
	c.startTime = time.Now()
	c.workers = workers
}

func (c *collector) AddReplicate() {
	c.replicates.Add(1)
}

func (c *collector) AddFailure() {
	c.failures.Add(1)
}

func (c *collector) Complete() RunMetric {
	return RunMetric{
		Workers:    c.workers,
		StartTime:  c.startTime,
		Duration:   time.Since(c.startTime),
		Replicates: int(c.replicates.Load()),
		Failures:   int(c.failures.Load()),
	}
}
