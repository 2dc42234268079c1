package eon

import "time"

// Metrics is the simulator's in-run accumulator. It is updated exclusively
// by the Scheduler's single goroutine (spec §5) and exposes point-in-time
// Snapshots for the observability layer to export as gauges/counters.
type Metrics struct {
	Accepted          int
	AcceptedMigration int
	Blocked           map[BlockReason]int
	Rerouted          int
	Disrupted         int
	Completed         int
	ActiveAllocations int
}

// NewMetrics returns a zeroed accumulator.
func NewMetrics() *Metrics {
	return &Metrics{Blocked: make(map[BlockReason]int)}
}

// RecordArrivalOutcome records the result of routing a fresh arrival.
func (m *Metrics) RecordArrivalOutcome(req *Request, out Outcome) {
	if out.Accepted {
		m.Accepted++
		if req.IsMigration() {
			m.AcceptedMigration++
		}
		m.ActiveAllocations++
		return
	}
	m.Blocked[out.Reason]++
}

// RecordDeparture records a request's allocation being released at the end
// of its holding time.
func (m *Metrics) RecordDeparture() {
	m.Completed++
	m.ActiveAllocations--
}

// RecordDisruptionOutcome records the result of attempting to reroute a
// request whose allocation was cut by the disaster.
func (m *Metrics) RecordDisruptionOutcome(out Outcome) {
	if out.Accepted {
		m.Rerouted++
		return
	}
	m.Disrupted++
	m.ActiveAllocations--
}

// BlockingProbability returns the fraction of all routing attempts
// (accepted + blocked, across every reason) that were blocked. Returns 0
// if no attempts have been made yet.
func (m *Metrics) BlockingProbability() float64 {
	blocked := 0
	for _, n := range m.Blocked {
		blocked += n
	}
	total := m.Accepted + blocked
	if total == 0 {
		return 0
	}
	return float64(blocked) / float64(total)
}

// Snapshot is an immutable point-in-time copy of the accumulator, safe to
// hand to the observability layer or serialize.
type Snapshot struct {
	At                time.Time
	Accepted          int
	AcceptedMigration int
	Blocked           map[BlockReason]int
	Rerouted          int
	Disrupted         int
	Completed         int
	ActiveAllocations int
	BlockingProb      float64
}

// Snapshot copies the accumulator's current state, tagged with at.
func (m *Metrics) Snapshot(at time.Time) Snapshot {
	blocked := make(map[BlockReason]int, len(m.Blocked))
	for k, v := range m.Blocked {
		blocked[k] = v
	}
	return Snapshot{
		At:                at,
		Accepted:          m.Accepted,
		AcceptedMigration: m.AcceptedMigration,
		Blocked:           blocked,
		Rerouted:          m.Rerouted,
		Disrupted:         m.Disrupted,
		Completed:         m.Completed,
		ActiveAllocations: m.ActiveAllocations,
		BlockingProb:      m.BlockingProbability(),
	}
}
