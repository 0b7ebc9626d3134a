package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Per-node gauges, labelled by node name.
	CoreUtilization = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "malcolmsim_core_utilization",
			Help: "Fraction of core capacity in use at the end of the most recent tick",
		},
		[]string{"node"},
	)

	IOUtilization = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "malcolmsim_io_utilization",
			Help: "Fraction of IO capacity in use at the end of the most recent tick",
		},
		[]string{"node"},
	)

	CPUQueueDepth = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "malcolmsim_cpu_queue_depth",
			Help: "Number of tasks waiting in the CPU queue at the end of the most recent tick",
		},
		[]string{"node"},
	)

	IOQueueDepth = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "malcolmsim_io_queue_depth",
			Help: "Number of tasks waiting in the IO queue at the end of the most recent tick",
		},
		[]string{"node"},
	)

	AverageLatency = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "malcolmsim_average_latency_ms",
			Help: "Running mean end-to-end task latency in simulated milliseconds",
		},
		[]string{"node"},
	)

	NetworkUtilization = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "malcolmsim_network_utilization_bits",
			Help: "Egress bits attempted during the most recently shaped tick",
		},
		[]string{"node"},
	)

	CompletionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "malcolmsim_completions_total",
			Help: "Total number of tasks completed",
		},
		[]string{"node"},
	)

	TaskLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "malcolmsim_task_latency_ms",
			Help:    "End-to-end task latency in simulated milliseconds",
			Buckets: prometheus.ExponentialBuckets(1, 2, 16),
		},
		[]string{"node"},
	)

	DroppedPacketsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "malcolmsim_dropped_packets_total",
			Help: "Total number of packets dropped, by reason",
		},
		[]string{"node", "reason"},
	)

	TickDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "malcolmsim_tick_duration_seconds",
			Help:    "Wall-clock time taken by a whole simulation run",
			Buckets: prometheus.DefBuckets,
		},
	)
)

const (
	DropReasonRouteUnknown               = "RouteUnknown"
	DropReasonHeartbeatFromUnknownSource = "HeartbeatFromUnknownSource"
	DropReasonUnknownPacketType          = "UnknownPacketType"
)

func init() {
	prometheus.MustRegister(CoreUtilization)
	prometheus.MustRegister(IOUtilization)
	prometheus.MustRegister(CPUQueueDepth)
	prometheus.MustRegister(IOQueueDepth)
	prometheus.MustRegister(AverageLatency)
	prometheus.MustRegister(NetworkUtilization)
	prometheus.MustRegister(CompletionsTotal)
	prometheus.MustRegister(TaskLatency)
	prometheus.MustRegister(DroppedPacketsTotal)
	prometheus.MustRegister(TickDuration)
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Timer is a helper for timing operations.
type Timer struct {
	start time.Time
}

// NewTimer creates a new timer.
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// ObserveDuration records the duration to a histogram.
func (t *Timer) ObserveDuration(histogram prometheus.Histogram) {
	histogram.Observe(time.Since(t.start).Seconds())
}

// ObserveDurationVec records the duration to a histogram vec with labels.
func (t *Timer) ObserveDurationVec(histogram prometheus.ObserverVec, labels ...string) {
	histogram.WithLabelValues(labels...).Observe(time.Since(t.start).Seconds())
}

// Duration returns the elapsed time since the timer started.
func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}
