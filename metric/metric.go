// Package metric measures the work done by pool workers.
package metric

import (
	"sync"
	"sync/atomic"
	"time"
)

// Metric contains workers' Meters.
type Metric struct {
	m      sync.Mutex
	meters map[string]map[string]*atomic.Value
}

// Measure is a snapshot of full metric with all counters.
type Measure map[string]map[string]interface{}

// addCounters to the metric. Metric used to generate measures for all counters.
//
// If id matches with existing counters, those will be replaced with the new one.
// If no match found, new counters is added and returned.
func (m *Metric) addCounters(id string, counters ...string) map[string]*atomic.Value {
	m.m.Lock()
	defer m.m.Unlock()

	// remove current meter.
	if m.meters == nil {
		m.meters = make(map[string]map[string]*atomic.Value)
	} else {
		delete(m.meters, id)
	}

	// create new meter with provided counters
	meter := make(map[string]*atomic.Value)

	for _, counter := range counters {
		meter[counter] = &atomic.Value{}
	}

	m.meters[id] = meter
	return meter
}

// Measure returns Metric's measures.
func (m *Metric) Measure() Measure {
	if m == nil {
		return nil
	}
	r := make(map[string]map[string]interface{})
	m.m.Lock()
	defer m.m.Unlock()

	for meterName, meter := range m.meters {
		meterValues := make(map[string]interface{})
		for counterName, counter := range meter {
			if v := counter.Load(); v != nil {
				meterValues[counterName] = v
			}
		}
		r[meterName] = meterValues
	}

	return r
}

// Meter creates new meter with worker counters. Nil Metric returns nil
// Meter, all Meter methods are no-op on nil.
func (m *Metric) Meter(workerID string) *Meter {
	if m == nil {
		return nil
	}
	now := time.Now()
	meter := Meter{
		startedAt:   now,
		processedAt: now,
	}

	meter.counters = m.addCounters(workerID, workerCounters...)
	store(meter.counters, StartCounter, meter.startedAt)

	return &meter
}

// Meter contains all worker's counters. Meter is not safe for concurrent
// use, every worker owns its meter.
type Meter struct {
	counters    map[string]*atomic.Value
	startedAt   time.Time     // StartCounter
	frames      int64         // FrameCounter
	bands       int64         // BandCounter
	rows        int64         // RowCounter
	latency     time.Duration // LatencyCounter
	processedAt time.Time
	elapsed     time.Duration // ElapsedCounter
}

// Frame captures metrics after owned frame is presented.
func (m *Meter) Frame() *Meter {
	if m == nil {
		return nil
	}
	m.frames++
	m.elapsed = time.Since(m.startedAt)

	store(m.counters, FrameCounter, m.frames)
	store(m.counters, ElapsedCounter, m.elapsed)

	return m
}

// Band captures metrics after a row band is processed.
func (m *Meter) Band(rows int64) *Meter {
	if m == nil {
		return nil
	}
	m.bands++
	m.rows = m.rows + rows
	m.latency = time.Since(m.processedAt)
	m.processedAt = time.Now()
	m.elapsed = time.Since(m.startedAt)

	store(m.counters, BandCounter, m.bands)
	store(m.counters, RowCounter, m.rows)
	store(m.counters, LatencyCounter, m.latency)
	store(m.counters, ElapsedCounter, m.elapsed)

	return m
}

const (
	// FrameCounter measures number of frames owned by worker.
	FrameCounter = "Frames"
	// BandCounter measures number of processed row bands.
	BandCounter = "Bands"
	// RowCounter measures number of processed rows.
	RowCounter = "Rows"
	// StartCounter fixes when worker started.
	StartCounter = "Start"
	// LatencyCounter measures latency between processed bands.
	LatencyCounter = "Latency"
	// ElapsedCounter measures time since worker started.
	ElapsedCounter = "Elapsed"
)

// workerCounters is a structure for metrics initialization.
var workerCounters = []string{FrameCounter, BandCounter, RowCounter, StartCounter, LatencyCounter, ElapsedCounter}

// Store new counter value.
func store(m map[string]*atomic.Value, c string, v interface{}) {
	if counter, ok := m[c]; ok {
		counter.Store(v)
	}
}
