package node

import (
	"testing"

	"github.com/gerberprototyping/malcolm-sim/pkg/network"
	"github.com/gerberprototyping/malcolm-sim/pkg/task"
	"github.com/stretchr/testify/assert"
)

func newTestNode(name string, bandwidth int64) *Node {
	return New(Config{
		Name:                name,
		CoreCount:           2,
		CorePerf:            1,
		IOCount:             2,
		IOPerf:              1,
		Overhead:            0,
		BandwidthBitsPerSec: bandwidth,
	})
}

func TestSimTimeSliceStampsLatencyOnCompletion(t *testing.T) {
	n := newTestNode("a", 1_000_000)
	n.SetPeers(nil)

	n.SimTimeSlice(5, 5, []*task.Task{task.New("#0", 5, 0, 0)})

	assert.Greater(t, n.Completed(), int64(0))
	assert.InDelta(t, 5, n.AverageLatency(), 1e-9)
}

func TestTickLatenciesReportsOneEntryPerCompletedTask(t *testing.T) {
	n := newTestNode("a", 1_000_000)
	n.SetPeers(nil)

	n.SimTimeSlice(5, 5, []*task.Task{
		task.New("#0", 5, 0, 0),
		task.New("#1", 5, 0, 0),
	})

	latencies := n.TickLatencies()
	assert.Len(t, latencies, 2)
	for _, l := range latencies {
		assert.InDelta(t, 5, l, 1e-9)
	}
}

func TestTickLatenciesResetsOnTicksWithNoCompletions(t *testing.T) {
	n := newTestNode("a", 1_000_000)
	n.SetPeers(nil)

	n.SimTimeSlice(5, 0, []*task.Task{task.New("#0", 5, 0, 0)})
	assert.Len(t, n.TickLatencies(), 1)

	n.SimTimeSlice(5, 5, nil)
	assert.Empty(t, n.TickLatencies())
}

func TestSimTimeSliceSendsHeartbeatToEveryPeer(t *testing.T) {
	n := newTestNode("a", bandwidthForBytesPerMilli(512, 1))
	n.SetPeers([]string{"MalcolmNode:b", "MalcolmNode:c"})

	sent := n.SimTimeSlice(1, 0, nil)

	var heartbeats int
	for _, p := range sent {
		if p.Type == network.PacketHeartbeat {
			heartbeats++
		}
	}
	assert.Equal(t, 2, heartbeats)
}

func TestRecvPacketsDropsHeartbeatFromUnknownSource(t *testing.T) {
	n := newTestNode("a", 1_000_000)
	n.SetPeers([]string{"MalcolmNode:b"})

	n.RecvPackets([]network.Packet{
		{Type: network.PacketHeartbeat, Src: "MalcolmNode:stranger"},
	})

	unknownSrc, _ := n.DroppedPackets()
	assert.EqualValues(t, 1, unknownSrc)
}

func TestRecvPacketsDropsUnknownType(t *testing.T) {
	n := newTestNode("a", 1_000_000)
	n.RecvPackets([]network.Packet{{Type: "Bogus"}})
	_, unknownType := n.DroppedPackets()
	assert.EqualValues(t, 1, unknownType)
}

func TestRecvPacketsQueuesTasksForNextTick(t *testing.T) {
	n := newTestNode("a", 1_000_000)
	n.SetPeers(nil)
	n.RecvPackets([]network.Packet{
		{Type: network.PacketTask, Data: task.New("#0", 3, 0, 0), Src: "MalcolmNode:b"},
	})

	completed := n.SimTimeSlice(5, 0, nil)
	_ = completed

	assert.EqualValues(t, 1, n.Completed())
}

func TestThrottledOutboxCarriesOverToNextTick(t *testing.T) {
	// Bandwidth low enough that only one heartbeat fits per 1ms tick: two
	// peers means two 256-byte heartbeats are offered each tick, but the
	// budget only admits one and a half of them.
	n := newTestNode("a", bandwidthForBytesPerMilli(384, 1))
	n.SetPeers([]string{"MalcolmNode:b", "MalcolmNode:c"})

	first := n.SimTimeSlice(1, 0, nil)
	second := n.SimTimeSlice(1, 1, nil)

	assert.Len(t, first, 1)
	assert.NotEmpty(t, second)
}

// bandwidthForBytesPerMilli returns the bits/sec bandwidth whose Shaper
// byte budget, for a tick of deltaSliceMillis, equals bytesPerTick.
func bandwidthForBytesPerMilli(bytesPerTick, deltaSliceMillis float64) int64 {
	return int64(bytesPerTick * 8 * 1000 / deltaSliceMillis)
}
