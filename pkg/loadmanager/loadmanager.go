package loadmanager

import (
	"math/rand/v2"

	"github.com/gerberprototyping/malcolm-sim/pkg/network"
	"github.com/gerberprototyping/malcolm-sim/pkg/task"
)

// LoadManager holds a node's current accept/forward split and the pool of
// peers it may forward overflow work to.
type LoadManager struct {
	// Src is the owning node's address, used as the Src of every packet
	// this LoadManager constructs ("MalcolmNode:<name>").
	Src string

	// Accept and Forward always sum to 1 and are each in [0,1].
	Accept  float64
	Forward float64

	// PossibleDestinations is the set of peer node addresses a forwarded
	// task may be routed to; the Policy Optimizer keeps it current.
	PossibleDestinations []string
}

// New returns a LoadManager that accepts every task until the Policy
// Optimizer has observed enough heartbeats to adjust the split.
func New(src string) *LoadManager {
	return &LoadManager{Src: src, Accept: 1, Forward: 0}
}

// Step splits incoming into the tasks this node keeps and the tasks it
// forwards, wrapped as Task packets addressed to a peer chosen uniformly
// at random (independently per task) from PossibleDestinations.
func (lm *LoadManager) Step(incoming []*task.Task) (accepted []*task.Task, forwarded []network.Packet) {
	n := len(incoming)
	if n == 0 {
		return nil, nil
	}

	k := int(float64(n) * lm.Accept)
	if k > n {
		k = n
	}
	accepted = incoming[:k]
	overflow := incoming[k:]
	if len(overflow) == 0 || len(lm.PossibleDestinations) == 0 {
		// nowhere to forward to: keep everything rather than drop work
		return incoming, nil
	}

	forwarded = make([]network.Packet, 0, len(overflow))
	for _, t := range overflow {
		dest := lm.PossibleDestinations[rand.IntN(len(lm.PossibleDestinations))]
		forwarded = append(forwarded, network.Packet{
			Data: t,
			Size: t.Payload,
			Src:  lm.Src,
			Dest: dest,
			Type: network.PacketTask,
		})
	}
	return accepted, forwarded
}
