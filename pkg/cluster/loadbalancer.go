package cluster

import (
	"github.com/gerberprototyping/malcolm-sim/pkg/network"
	"github.com/gerberprototyping/malcolm-sim/pkg/task"
)

// centralLoadBalancer distributes freshly generated tasks across a fixed
// list of node addresses by round robin. Its only state is the cursor,
// which persists across calls the way the source's class-level
// round_robin counter does.
type centralLoadBalancer struct {
	cursor int
}

// distribute assigns each task to the next node address in round-robin
// order, wrapping the cursor back to 0 when it reaches the end of the list
// or when the node list has shrunk below it.
func (lb *centralLoadBalancer) distribute(tasks []*task.Task, nodeAddrs []string) []network.Packet {
	n := len(nodeAddrs)
	if n == 0 || len(tasks) == 0 {
		return nil
	}
	if lb.cursor >= n {
		lb.cursor = 0
	}

	packets := make([]network.Packet, 0, len(tasks))
	for _, t := range tasks {
		packets = append(packets, network.Packet{
			Data: t,
			Size: t.Payload,
			Src:  network.CentralLoadBalancerSrc,
			Dest: nodeAddrs[lb.cursor],
			Type: network.PacketTask,
		})
		lb.cursor++
		if lb.cursor >= n {
			lb.cursor = 0
		}
	}
	return packets
}
