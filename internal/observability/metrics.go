package observability

import (
	"sync"
	"time"
)

// Metrics provides basic in-memory counters for mock service calls.
type Metrics struct {
	mu        sync.Mutex
	callCount map[string]int64
	errCount  map[string]int64
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		callCount: make(map[string]int64),
		errCount:  make(map[string]int64),
	}
}

// RecordCall increments the counter for a completed service call.
func (m *Metrics) RecordCall(entity, op string, duration time.Duration) {
	if m == nil {
		return
	}
	key := entity + "|" + op
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount[key]++
}

// RecordError increments the counter for a failed service call.
func (m *Metrics) RecordError(entity, op, code string) {
	if m == nil {
		return
	}
	key := entity + "|" + op + "|" + code
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errCount[key]++
}

// Calls returns the recorded call count for an entity/operation pair.
func (m *Metrics) Calls(entity, op string) int64 {
	if m == nil {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount[entity+"|"+op]
}

// Errors returns the recorded error count for an entity/operation/code triple.
func (m *Metrics) Errors(entity, op, code string) int64 {
	if m == nil {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.errCount[entity+"|"+op+"|"+code]
}
