package taskgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateProducesRateTimesDeltaTimes1000Tasks(t *testing.T) {
	g := New(Config{
		Rate:    ConstantSampler{Value: 0.002},
		Runtime: ConstantSampler{Value: 5},
		IOTime:  ConstantSampler{Value: 1},
		Payload: ConstantSampler{Value: 128},
	})

	tasks := g.Generate(1, 0)

	assert.Len(t, tasks, 2)
	assert.Equal(t, "#0", tasks[0].Name)
	assert.Equal(t, "#1", tasks[1].Name)
	assert.Equal(t, 5.0, tasks[0].Runtime)
	assert.Equal(t, int64(128), tasks[0].Payload)
}

func TestGenerateStampsGenTimeFromCurrTime(t *testing.T) {
	g := New(Config{
		Rate:    ConstantSampler{Value: 0.001},
		Runtime: ConstantSampler{Value: 1},
		IOTime:  ConstantSampler{Value: 0},
		Payload: ConstantSampler{Value: 1},
	})

	tasks := g.Generate(1, 42)

	assert.Len(t, tasks, 1)
	assert.Equal(t, 42.0, tasks[0].GenTime)
}

func TestGenerateNamesAreMonotonicAcrossTicks(t *testing.T) {
	g := New(Config{
		Rate:    ConstantSampler{Value: 0.001},
		Runtime: ConstantSampler{Value: 1},
		IOTime:  ConstantSampler{Value: 0},
		Payload: ConstantSampler{Value: 1},
	})

	first := g.Generate(1, 0)
	second := g.Generate(1, 1)

	assert.Equal(t, "#0", first[0].Name)
	assert.Equal(t, "#1", second[0].Name)
}

func TestGenerateWithZeroRateProducesNoTasks(t *testing.T) {
	g := New(Config{
		Rate:    ConstantSampler{Value: 0},
		Runtime: ConstantSampler{Value: 1},
		IOTime:  ConstantSampler{Value: 0},
		Payload: ConstantSampler{Value: 1},
	})

	assert.Empty(t, g.Generate(1, 0))
}
