package observability

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Prometheus collectors, registered lazily by registerMetrics (called from
// Setup only when Config.Metrics is true) — mirroring the teacher's
// register-on-enable pattern so a disabled run never pays collector
// overhead or risks double-registration panics across repeated Setup
// calls in tests.
var (
	registerOnce sync.Once

	requestsTotal   *prometheus.CounterVec
	blockedTotal    *prometheus.CounterVec
	reroutedTotal   prometheus.Counter
	disruptedTotal  prometheus.Counter
	activeAllocs    prometheus.Gauge
	migrationBytes  prometheus.Counter
	disruptionBatch prometheus.Histogram
	routeLatency    *prometheus.HistogramVec
	activeRuns      prometheus.Gauge
)

func registerMetrics() {
	registerOnce.Do(func() {
		requestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "eon",
			Name:      "requests_accepted_total",
			Help:      "Accepted requests, partitioned by ISP and class.",
		}, []string{"isp", "class"})

		blockedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "eon",
			Name:      "requests_blocked_total",
			Help:      "Blocked requests, partitioned by ISP and reason.",
		}, []string{"isp", "reason"})

		reroutedTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "eon",
			Name:      "requests_rerouted_total",
			Help:      "Requests successfully rerouted after a disaster disruption.",
		})

		disruptedTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "eon",
			Name:      "requests_disrupted_total",
			Help:      "Requests that could not be rerouted after a disaster disruption.",
		})

		activeAllocs = prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "eon",
			Name:      "active_allocations",
			Help:      "Currently held spectrum allocations.",
		})

		migrationBytes = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "eon",
			Name:      "migration_bytes_total",
			Help:      "Total data volume migrated across all ISP datacenter migrations.",
		})

		disruptionBatch = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "eon",
			Name:      "disruption_batch_size",
			Help:      "Number of requests disrupted by a single disaster_step event.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
		})

		routeLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "eon",
			Name:      "route_decision_seconds",
			Help:      "Wall-clock time spent inside a routing policy decision.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op"})

		activeRuns = prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "eon",
			Name:      "active_runs",
			Help:      "Number of simulation runs currently executing in this process.",
		})

		prometheus.MustRegister(requestsTotal, blockedTotal, reroutedTotal, disruptedTotal,
			activeAllocs, migrationBytes, disruptionBatch, routeLatency, activeRuns)
	})
}

// IncRuns/DecRuns track the process-wide count of concurrently executing
// simulation runs, mirroring the teacher's global IncTracks/DecTracks
// gauge pair.
func IncRuns() {
	if !MetricsEnabled() {
		return
	}
	activeRuns.Inc()
}

func DecRuns() {
	if !MetricsEnabled() {
		return
	}
	activeRuns.Dec()
}

// Recorder is a per-ISP metrics facade, mirroring the teacher's
// per-track Recorder shape (observability.NewRecorder("track")) but keyed
// to an ISP identifier instead of a MoQ track name.
type Recorder struct {
	isp string
}

// NewRecorder returns a Recorder scoped to the given ISP identifier.
func NewRecorder(isp string) *Recorder {
	return &Recorder{isp: isp}
}

// RequestAccepted records an accepted request of the given class
// ("datapath" or "migration").
func (r *Recorder) RequestAccepted(class string) {
	if !MetricsEnabled() {
		return
	}
	requestsTotal.WithLabelValues(r.isp, class).Inc()
}

// RequestBlocked records a blocked request tagged with its reason code.
func (r *Recorder) RequestBlocked(reason string) {
	if !MetricsEnabled() {
		return
	}
	blockedTotal.WithLabelValues(r.isp, reason).Inc()
}

// RequestRerouted records a successful post-disruption reroute.
func (r *Recorder) RequestRerouted() {
	if !MetricsEnabled() {
		return
	}
	reroutedTotal.Inc()
}

// RequestDisrupted records a disruption that could not be rerouted.
func (r *Recorder) RequestDisrupted() {
	if !MetricsEnabled() {
		return
	}
	disruptedTotal.Inc()
}

// SetActiveAllocations sets the current count of held spectrum
// allocations.
func (r *Recorder) SetActiveAllocations(n int) {
	if !MetricsEnabled() {
		return
	}
	activeAllocs.Set(float64(n))
}

// Migration records one completed datacenter migration's data volume.
func (r *Recorder) Migration(bytes float64) {
	if !MetricsEnabled() {
		return
	}
	migrationBytes.Add(bytes)
}

// DisruptionBatch records the number of requests disrupted by a single
// disaster_step event.
func (r *Recorder) DisruptionBatch(n int) {
	if !MetricsEnabled() {
		return
	}
	disruptionBatch.Observe(float64(n))
}

// LatencyObs returns an Observer for timing a routing decision tagged with
// op, or nil if metrics are disabled — callers should skip calling Observe
// entirely in that case, matching the teacher's LatencyObs contract.
func (r *Recorder) LatencyObs(op string) prometheus.Observer {
	if !MetricsEnabled() {
		return nil
	}
	return routeLatency.WithLabelValues(op)
}

// TimeSince is a small helper for the common "defer" timing pattern:
//
//	obs := rec.LatencyObs("route")
//	if obs != nil { defer func(start time.Time) { obs.Observe(time.Since(start).Seconds()) }(time.Now()) }
func TimeSince(obs prometheus.Observer, start time.Time) {
	if obs == nil {
		return
	}
	obs.Observe(time.Since(start).Seconds())
}
