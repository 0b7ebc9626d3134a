package heartbeat

import "github.com/gerberprototyping/malcolm-sim/pkg/network"

// Size is the fixed wire size, in bytes, of every Heartbeat packet.
const Size = 256

// Heartbeat is a node's status snapshot: its remaining capacity and the
// length of its pending work.
type Heartbeat struct {
	ExpectedPerformance float64
	QueueSize           int
}

// MakePacket wraps a Heartbeat in a network.Packet addressed from src to
// dest (both "MalcolmNode:<name>").
func MakePacket(src, dest string, expectedPerformance float64, queueSize int) network.Packet {
	return network.Packet{
		Data: &Heartbeat{
			ExpectedPerformance: expectedPerformance,
			QueueSize:           queueSize,
		},
		Size: Size,
		Src:  src,
		Dest: dest,
		Type: network.PacketHeartbeat,
	}
}
