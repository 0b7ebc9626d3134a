package task

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimCPUPartialAndComplete(t *testing.T) {
	tk := New("#0", 3, 2, 128)

	assert.False(t, tk.SimCPU(1))
	assert.Equal(t, 1.0, tk.Progress)
	assert.False(t, tk.IsCPUDone())

	assert.False(t, tk.SimCPU(1))
	assert.Equal(t, 2.0, tk.Progress)

	assert.True(t, tk.SimCPU(5)) // overshoot clamps to Runtime
	assert.Equal(t, 3.0, tk.Progress)
	assert.True(t, tk.IsCPUDone())
	assert.Equal(t, 0.0, tk.CPURemaining())
}

func TestSimIOPartialAndComplete(t *testing.T) {
	tk := New("#1", 0, 2, 128)

	assert.False(t, tk.SimIO(1))
	assert.True(t, tk.SimIO(1))
	assert.True(t, tk.IsIODone())
}

func TestIsDoneRequiresBothPhases(t *testing.T) {
	tk := New("#2", 1, 1, 0)
	assert.False(t, tk.IsDone())

	tk.SimCPU(1)
	assert.False(t, tk.IsDone(), "CPU-only completion is not full completion when IOTime > 0")

	tk.SimIO(1)
	assert.True(t, tk.IsDone())
}

func TestOverheadWrapper(t *testing.T) {
	main := New("#3", 5, 0, 256)
	wrapped := NewOverhead(main, 2)

	assert.True(t, wrapped.IsOverhead())
	assert.Equal(t, main, wrapped.Main())
	assert.Equal(t, 2.0, wrapped.Runtime)
	assert.Equal(t, 0.0, wrapped.IOTime)
	assert.EqualValues(t, -1, wrapped.Payload)
	assert.False(t, main.IsOverhead())
	assert.Nil(t, main.Main())
}

func TestNewOverheadZeroIsNoop(t *testing.T) {
	main := New("#4", 5, 0, 256)
	assert.Same(t, main, NewOverhead(main, 0))
	assert.Same(t, main, NewOverhead(main, -1))
}

func TestRemainingNeverNegative(t *testing.T) {
	tk := New("#5", 1, 1, 0)
	tk.SimCPU(10)
	tk.SimIO(10)
	assert.Equal(t, 0.0, tk.CPURemaining())
	assert.Equal(t, 0.0, tk.IORemaining())
}
