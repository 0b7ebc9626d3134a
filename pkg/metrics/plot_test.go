package metrics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gerberprototyping/malcolm-sim/pkg/cluster"
)

func TestSeriesRecorderFlushWritesOnePNGPerMetric(t *testing.T) {
	dir := t.TempDir()
	r := NewSeriesRecorder(dir)

	for tick := 0; tick < 3; tick++ {
		r.Record(tick, float64(tick), []cluster.NodeSnapshot{
			{Name: "a", CoreUtilization: float64(tick) / 3, Completed: int64(tick) * 2},
			{Name: "b", CoreUtilization: 1 - float64(tick)/3, Completed: int64(tick)},
		})
	}

	if err := r.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	for _, metric := range []string{"core_utilization", "completed_this_tick", "cpu_queue_depth", "io_queue_depth"} {
		path := filepath.Join(dir, metric+".png")
		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("expected %s to exist: %v", path, err)
		}
		if info.Size() == 0 {
			t.Fatalf("expected %s to be non-empty", path)
		}
	}
}

func TestSeriesRecorderCompletedThisTickIsPerTickDelta(t *testing.T) {
	dir := t.TempDir()
	r := NewSeriesRecorder(dir)

	r.Record(0, 0, []cluster.NodeSnapshot{{Name: "a", Completed: 4}})
	r.Record(1, 1, []cluster.NodeSnapshot{{Name: "a", Completed: 9}})

	key := seriesKey{metric: "completed_this_tick", node: "a"}
	pts := *r.series[key]
	if len(pts) != 2 {
		t.Fatalf("expected 2 points, got %d", len(pts))
	}
	if pts[0].Y != 4 {
		t.Fatalf("tick 0 delta = %v, want 4", pts[0].Y)
	}
	if pts[1].Y != 5 {
		t.Fatalf("tick 1 delta = %v, want 5 (9-4)", pts[1].Y)
	}
}
