package cluster

import "testing"

type countingRecorder struct{ calls int }

func (c *countingRecorder) Record(tick int, currTime float64, snapshots []NodeSnapshot) {
	c.calls++
}

func TestMultiRecorderFansOutToEveryRecorder(t *testing.T) {
	a, b := &countingRecorder{}, &countingRecorder{}
	m := MultiRecorder{Recorders: []Recorder{a, b, nil}}

	m.Record(0, 0, []NodeSnapshot{{Name: "x"}})

	if a.calls != 1 || b.calls != 1 {
		t.Fatalf("expected both recorders called once, got a=%d b=%d", a.calls, b.calls)
	}
}
