/*
Package metrics defines and exposes the Prometheus metrics produced by a
simulation run.

A Collector implements cluster.Recorder and is handed to cluster.Config as
the optional Recorder; on every tick it receives one cluster.NodeSnapshot
per node and folds it into the package-level gauge, counter, and histogram
vectors declared below. All metrics are registered against the Prometheus
DefaultRegisterer at package init and served over HTTP by Handler().

# Metrics Catalog

Per-node gauges (label: node):

	malcolmsim_core_utilization          fraction of core capacity in use
	malcolmsim_io_utilization            fraction of IO capacity in use
	malcolmsim_cpu_queue_depth           tasks waiting in the CPU queue
	malcolmsim_io_queue_depth            tasks waiting in the IO queue
	malcolmsim_average_latency_ms        running mean end-to-end task latency
	malcolmsim_network_utilization_bits  egress bits attempted this tick

Counters:

	malcolmsim_completions_total{node}             tasks completed
	malcolmsim_dropped_packets_total{node,reason}  packets dropped, reason
	                                                one of RouteUnknown,
	                                                HeartbeatFromUnknownSource,
	                                                UnknownPacketType

Histograms:

	malcolmsim_task_latency_ms{node}     end-to-end task latency, one
	                                      Observe per task completed that
	                                      tick (NodeSnapshot.Latencies)
	malcolmsim_tick_duration_seconds     wall-clock time of a whole run

Collector only ever Adds the delta between consecutive snapshots for the
completion and dropped-packet counters, since a NodeSnapshot reports
lifetime totals rather than per-tick increments. RouteUnknown drops are
attributed to the sending node (the node whose egress produced a packet
the cluster router could not deliver), not the intended destination.

SeriesRecorder is the plotting counterpart: it buffers every snapshot in
memory and, on Flush, renders one <metric>.png per metric (one line per
node) with gonum.org/v1/plot, including a completed_this_tick series it
derives itself by diffing consecutive Completed totals per node. Combine
it with Collector through cluster.MultiRecorder so a single run feeds
both outputs.

# Usage

	collector := metrics.NewCollector()
	series := metrics.NewSeriesRecorder(outDir)
	c := cluster.New(cluster.Config{
		Recorder: cluster.MultiRecorder{Recorders: []cluster.Recorder{collector, series}},
		...
	})
	c.Run()
	series.Flush()
	http.Handle("/metrics", metrics.Handler())
	http.ListenAndServe(":9090", nil)

Timing a run:

	timer := metrics.NewTimer()
	c.Run()
	timer.ObserveDuration(metrics.TickDuration)
*/
package metrics
