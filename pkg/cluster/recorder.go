package cluster

// MultiRecorder fans one tick's snapshots out to every recorder in Recorders,
// so a run can push the same data to Prometheus and an in-memory plot
// series without Cluster knowing either exists.
type MultiRecorder struct {
	Recorders []Recorder
}

// Record implements Recorder.
func (m MultiRecorder) Record(tick int, currTime float64, snapshots []NodeSnapshot) {
	for _, r := range m.Recorders {
		if r != nil {
			r.Record(tick, currTime, snapshots)
		}
	}
}
