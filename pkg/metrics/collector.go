package metrics

import (
	"github.com/gerberprototyping/malcolm-sim/pkg/cluster"
)

// Collector is a cluster.Recorder that pushes every tick's node snapshots
// into the package's Prometheus vectors. Counters need a running total
// rather than the cumulative figures a NodeSnapshot carries, so Collector
// keeps the last value seen per node and per reason and only adds the
// delta.
type Collector struct {
	lastCompleted map[string]int64
	lastDropped   map[string]map[string]int64
}

// NewCollector returns a Collector ready to record snapshots.
func NewCollector() *Collector {
	return &Collector{
		lastCompleted: make(map[string]int64),
		lastDropped:   make(map[string]map[string]int64),
	}
}

// Record implements cluster.Recorder.
func (c *Collector) Record(tick int, currTime float64, snapshots []cluster.NodeSnapshot) {
	for _, s := range snapshots {
		c.collectUtilizationMetrics(s)
		c.collectQueueAndLatencyMetrics(s)
		c.collectCompletionMetrics(s)
		c.collectDroppedPacketMetrics(s)
	}
}

func (c *Collector) collectUtilizationMetrics(s cluster.NodeSnapshot) {
	CoreUtilization.WithLabelValues(s.Name).Set(s.CoreUtilization)
	IOUtilization.WithLabelValues(s.Name).Set(s.IOUtilization)
	NetworkUtilization.WithLabelValues(s.Name).Set(float64(s.NetworkUtilization))
}

func (c *Collector) collectQueueAndLatencyMetrics(s cluster.NodeSnapshot) {
	CPUQueueDepth.WithLabelValues(s.Name).Set(float64(s.CPUQueueLen))
	IOQueueDepth.WithLabelValues(s.Name).Set(float64(s.IOQueueLen))
	AverageLatency.WithLabelValues(s.Name).Set(s.AverageLatency)
	for _, latency := range s.Latencies {
		TaskLatency.WithLabelValues(s.Name).Observe(latency)
	}
}

func (c *Collector) collectCompletionMetrics(s cluster.NodeSnapshot) {
	delta := s.Completed - c.lastCompleted[s.Name]
	if delta > 0 {
		CompletionsTotal.WithLabelValues(s.Name).Add(float64(delta))
	}
	c.lastCompleted[s.Name] = s.Completed
}

func (c *Collector) collectDroppedPacketMetrics(s cluster.NodeSnapshot) {
	byReason := c.lastDropped[s.Name]
	if byReason == nil {
		byReason = make(map[string]int64)
		c.lastDropped[s.Name] = byReason
	}

	if delta := s.DroppedUnknownSrc - byReason[DropReasonHeartbeatFromUnknownSource]; delta > 0 {
		DroppedPacketsTotal.WithLabelValues(s.Name, DropReasonHeartbeatFromUnknownSource).Add(float64(delta))
	}
	byReason[DropReasonHeartbeatFromUnknownSource] = s.DroppedUnknownSrc

	if delta := s.DroppedUnknownType - byReason[DropReasonUnknownPacketType]; delta > 0 {
		DroppedPacketsTotal.WithLabelValues(s.Name, DropReasonUnknownPacketType).Add(float64(delta))
	}
	byReason[DropReasonUnknownPacketType] = s.DroppedUnknownType

	if delta := s.DroppedRouteUnknown - byReason[DropReasonRouteUnknown]; delta > 0 {
		DroppedPacketsTotal.WithLabelValues(s.Name, DropReasonRouteUnknown).Add(float64(delta))
	}
	byReason[DropReasonRouteUnknown] = s.DroppedRouteUnknown
}
