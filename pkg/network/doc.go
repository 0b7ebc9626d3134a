/*
Package network models the in-process packet envelope exchanged between
Malcolm nodes and the bandwidth-throttled egress shaper each node runs its
outbox through before handing packets to the cluster router.

There is no wire serialization: Packet.Data holds a Go value (a *task.Task
or *heartbeat.Heartbeat) directly, and Size is the number of bytes that
value would occupy on a real link. The shaper only ever looks at Size.

# Egress shaping

Shape partitions an ordered slice of packets into what fits inside one
time slice's byte budget and what doesn't:

	shaper := network.NewShaper(bandwidthBitsPerSec)
	sent, throttled := shaper.Shape(tickMillis, outbox)

Throttled packets are not dropped — callers prepend them to the next
tick's outbox (see pkg/node).
*/
package network
