package metrics

import (
	"fmt"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/gerberprototyping/malcolm-sim/pkg/cluster"
)

// seriesKey names one plotted line: a metric name crossed with a node.
type seriesKey struct {
	metric string
	node   string
}

// SeriesRecorder is a cluster.Recorder that buffers every tick's
// NodeSnapshot fields in memory, keyed by metric and node, and renders
// one PNG per metric at the end of a run via Flush. It is meant to be
// combined with Collector (e.g. both handed a snapshot by a small
// fan-out Recorder in the caller) rather than used in place of it:
// SeriesRecorder never touches Prometheus.
type SeriesRecorder struct {
	dir    string
	times  []float64
	series map[seriesKey]*plotter.XYs

	// lastCompleted tracks each node's cumulative completion count from
	// the previous tick, since NodeSnapshot.Completed is a running total
	// rather than a per-tick delta.
	lastCompleted map[string]int64
}

// NewSeriesRecorder returns a SeriesRecorder that writes its PNGs under
// dir when Flush is called.
func NewSeriesRecorder(dir string) *SeriesRecorder {
	return &SeriesRecorder{
		dir:           dir,
		series:        make(map[seriesKey]*plotter.XYs),
		lastCompleted: make(map[string]int64),
	}
}

// Record implements cluster.Recorder.
func (r *SeriesRecorder) Record(tick int, currTime float64, snapshots []cluster.NodeSnapshot) {
	r.times = append(r.times, currTime)
	for _, s := range snapshots {
		r.point("core_utilization", s.Name, currTime, s.CoreUtilization)
		r.point("io_utilization", s.Name, currTime, s.IOUtilization)
		r.point("cpu_queue_depth", s.Name, currTime, float64(s.CPUQueueLen))
		r.point("io_queue_depth", s.Name, currTime, float64(s.IOQueueLen))
		r.point("average_latency_ms", s.Name, currTime, s.AverageLatency)
		r.point("network_utilization_bits", s.Name, currTime, float64(s.NetworkUtilization))

		delta := s.Completed - r.lastCompleted[s.Name]
		r.point("completed_this_tick", s.Name, currTime, float64(delta))
		r.lastCompleted[s.Name] = s.Completed
	}
}

func (r *SeriesRecorder) point(metric, node string, x, y float64) {
	key := seriesKey{metric: metric, node: node}
	pts := r.series[key]
	if pts == nil {
		xys := make(plotter.XYs, 0, 64)
		pts = &xys
		r.series[key] = pts
	}
	*pts = append(*pts, plotter.XY{X: x, Y: y})
}

// Flush renders one <metric>.png per recorded metric, one line per node,
// into the recorder's output directory.
func (r *SeriesRecorder) Flush() error {
	byMetric := make(map[string][]seriesKey)
	for key := range r.series {
		byMetric[key.metric] = append(byMetric[key.metric], key)
	}

	for metric, keys := range byMetric {
		p := plot.New()
		p.Title.Text = metric
		p.X.Label.Text = "simulated time"
		p.Y.Label.Text = metric

		for _, key := range keys {
			line, err := plotter.NewLine(*r.series[key])
			if err != nil {
				return fmt.Errorf("metrics: failed to build line for %s/%s: %w", metric, key.node, err)
			}
			p.Add(line)
			p.Legend.Add(key.node, line)
		}

		path := filepath.Join(r.dir, metric+".png")
		if err := p.Save(8*vg.Inch, 4*vg.Inch, path); err != nil {
			return fmt.Errorf("metrics: failed to save %s: %w", path, err)
		}
	}
	return nil
}
