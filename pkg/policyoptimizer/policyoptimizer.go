package policyoptimizer

import (
	"math"

	"github.com/gerberprototyping/malcolm-sim/pkg/heartbeat"
	"github.com/gerberprototyping/malcolm-sim/pkg/loadmanager"
)

// PolicyOptimizer has no state of its own: every quantity it needs comes
// from the node's own queue/performance figures and its peers' most
// recently received heartbeats.
type PolicyOptimizer struct{}

// New returns a ready-to-use PolicyOptimizer.
func New() *PolicyOptimizer {
	return &PolicyOptimizer{}
}

// Step adjusts lm's Accept/Forward split for one tick. ownQueueLen and
// ownExpectedPerformance describe this node's own scheduler; peers maps
// peer node address to that peer's most recent heartbeat. Step is a no-op
// if peers is empty.
func (PolicyOptimizer) Step(ownQueueLen int, ownExpectedPerformance float64, peers map[string]*heartbeat.Heartbeat, lm *loadmanager.LoadManager) {
	if len(peers) == 0 {
		return
	}

	ownLoad := float64(ownQueueLen) / ownExpectedPerformance

	dests := make([]string, 0, len(peers))
	loads := []float64{ownLoad}
	for name, hb := range peers {
		dests = append(dests, name)
		loads = append(loads, float64(hb.QueueSize)/hb.ExpectedPerformance)
	}
	lm.PossibleDestinations = dests

	reward := utility(ownLoad, loads)
	step := math.Round(1/math.Pow(1+float64(len(peers)), 2)*100) / 100

	switch {
	case reward < 0:
		lm.Accept = math.Max(0, lm.Accept-step)
	case reward > 0:
		lm.Accept = math.Min(1, lm.Accept+step)
	}
	lm.Forward = 1 - lm.Accept
}

// utility is the negative of currentLoad's deviation from the mean load
// across the full load sample (this node plus every peer): positive when
// this node is underloaded, negative when it is overloaded.
func utility(currentLoad float64, loads []float64) float64 {
	var sum float64
	for _, l := range loads {
		sum += l
	}
	avg := sum / float64(len(loads))
	return -(currentLoad - avg)
}
