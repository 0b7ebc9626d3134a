package policyoptimizer

import (
	"testing"

	"github.com/gerberprototyping/malcolm-sim/pkg/heartbeat"
	"github.com/gerberprototyping/malcolm-sim/pkg/loadmanager"
	"github.com/stretchr/testify/assert"
)

func TestStepIsNoopWithoutHeartbeats(t *testing.T) {
	lm := loadmanager.New("MalcolmNode:a")
	New().Step(10, 1, nil, lm)
	assert.Equal(t, 1.0, lm.Accept)
	assert.Equal(t, 0.0, lm.Forward)
}

func TestStepIncreasesAcceptWhenUnderloaded(t *testing.T) {
	lm := loadmanager.New("MalcolmNode:a")
	lm.Accept = 0.5
	lm.Forward = 0.5
	peers := map[string]*heartbeat.Heartbeat{
		"MalcolmNode:b": {ExpectedPerformance: 1, QueueSize: 20},
	}

	New().Step(0, 1, peers, lm)

	assert.Greater(t, lm.Accept, 0.5)
	assert.InDelta(t, 1, lm.Accept+lm.Forward, 1e-9)
}

func TestStepDecreasesAcceptWhenOverloaded(t *testing.T) {
	lm := loadmanager.New("MalcolmNode:a")
	lm.Accept = 0.5
	lm.Forward = 0.5
	peers := map[string]*heartbeat.Heartbeat{
		"MalcolmNode:b": {ExpectedPerformance: 1, QueueSize: 0},
	}

	New().Step(20, 1, peers, lm)

	assert.Less(t, lm.Accept, 0.5)
	assert.InDelta(t, 1, lm.Accept+lm.Forward, 1e-9)
}

func TestStepClampsAcceptToUnitInterval(t *testing.T) {
	lm := loadmanager.New("MalcolmNode:a")
	lm.Accept = 1
	lm.Forward = 0
	peers := map[string]*heartbeat.Heartbeat{
		"MalcolmNode:b": {ExpectedPerformance: 1, QueueSize: 100},
	}

	New().Step(0, 1, peers, lm)

	assert.Equal(t, 1.0, lm.Accept)
	assert.Equal(t, 0.0, lm.Forward)
}

func TestStepRefreshesPossibleDestinations(t *testing.T) {
	lm := loadmanager.New("MalcolmNode:a")
	peers := map[string]*heartbeat.Heartbeat{
		"MalcolmNode:b": {ExpectedPerformance: 1, QueueSize: 5},
		"MalcolmNode:c": {ExpectedPerformance: 1, QueueSize: 5},
	}

	New().Step(5, 1, peers, lm)

	assert.ElementsMatch(t, []string{"MalcolmNode:b", "MalcolmNode:c"}, lm.PossibleDestinations)
}
