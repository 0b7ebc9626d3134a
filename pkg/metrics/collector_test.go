package metrics

import (
	"testing"

	"github.com/gerberprototyping/malcolm-sim/pkg/cluster"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
)

func TestCollectorRecordSetsGauges(t *testing.T) {
	c := NewCollector()
	c.Record(0, 0, []cluster.NodeSnapshot{
		{Name: "collector-a", CoreUtilization: 0.5, IOUtilization: 0.25, CPUQueueLen: 2, IOQueueLen: 1, AverageLatency: 12.5, NetworkUtilization: 4096},
	})

	assertGaugeEquals(t, CoreUtilization.WithLabelValues("collector-a"), 0.5)
	assertGaugeEquals(t, IOUtilization.WithLabelValues("collector-a"), 0.25)
	assertGaugeEquals(t, CPUQueueDepth.WithLabelValues("collector-a"), 2)
	assertGaugeEquals(t, IOQueueDepth.WithLabelValues("collector-a"), 1)
	assertGaugeEquals(t, AverageLatency.WithLabelValues("collector-a"), 12.5)
	assertGaugeEquals(t, NetworkUtilization.WithLabelValues("collector-a"), 4096)
}

func TestCollectorRecordObservesTaskLatencyPerCompletion(t *testing.T) {
	c := NewCollector()
	before := testutil.CollectAndCount(TaskLatency)
	c.Record(0, 0, []cluster.NodeSnapshot{
		{Name: "collector-latency", Latencies: []float64{3, 7.5}},
	})
	after := testutil.CollectAndCount(TaskLatency)
	if after != before+1 {
		t.Fatalf("TaskLatency series count = %d, want %d (one new series for the new node label)", after, before+1)
	}

	h := &dto.Metric{}
	if err := TaskLatency.WithLabelValues("collector-latency").(prometheus.Histogram).Write(h); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if got := h.GetHistogram().GetSampleCount(); got != 2 {
		t.Fatalf("TaskLatency sample count = %d, want 2", got)
	}
}

func TestCollectorRecordAddsCompletionDeltaOnly(t *testing.T) {
	c := NewCollector()
	c.Record(0, 0, []cluster.NodeSnapshot{{Name: "collector-b", Completed: 4}})
	c.Record(1, 1, []cluster.NodeSnapshot{{Name: "collector-b", Completed: 9}})

	got := testutil.ToFloat64(CompletionsTotal.WithLabelValues("collector-b"))
	if got != 9 {
		t.Fatalf("CompletionsTotal = %v, want 9 (cumulative across both ticks)", got)
	}
}

func TestCollectorRecordAddsDroppedPacketDeltaByReason(t *testing.T) {
	c := NewCollector()
	c.Record(0, 0, []cluster.NodeSnapshot{{Name: "collector-c", DroppedUnknownSrc: 1, DroppedUnknownType: 0}})
	c.Record(1, 1, []cluster.NodeSnapshot{{Name: "collector-c", DroppedUnknownSrc: 1, DroppedUnknownType: 2}})

	gotSrc := testutil.ToFloat64(DroppedPacketsTotal.WithLabelValues("collector-c", DropReasonHeartbeatFromUnknownSource))
	if gotSrc != 1 {
		t.Fatalf("DroppedPacketsTotal[HeartbeatFromUnknownSource] = %v, want 1 (no growth on tick 1)", gotSrc)
	}
	gotType := testutil.ToFloat64(DroppedPacketsTotal.WithLabelValues("collector-c", DropReasonUnknownPacketType))
	if gotType != 2 {
		t.Fatalf("DroppedPacketsTotal[UnknownPacketType] = %v, want 2", gotType)
	}
}

func TestCollectorRecordAddsRouteUnknownDropDeltaOnly(t *testing.T) {
	c := NewCollector()
	c.Record(0, 0, []cluster.NodeSnapshot{{Name: "collector-d", DroppedRouteUnknown: 2}})
	c.Record(1, 1, []cluster.NodeSnapshot{{Name: "collector-d", DroppedRouteUnknown: 5}})

	got := testutil.ToFloat64(DroppedPacketsTotal.WithLabelValues("collector-d", DropReasonRouteUnknown))
	if got != 5 {
		t.Fatalf("DroppedPacketsTotal[RouteUnknown] = %v, want 5 (cumulative across both ticks)", got)
	}
}

func assertGaugeEquals(t *testing.T, g prometheus.Gauge, want float64) {
	t.Helper()
	if got := testutil.ToFloat64(g); got != want {
		t.Fatalf("gauge = %v, want %v", got, want)
	}
}
