package network

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShapeAdmitsUntilBudgetExhausted(t *testing.T) {
	// bandwidth=8000 bits/s, Δslice=1ms -> limit = 1 byte
	s := NewShaper(8000)
	packets := []Packet{
		{Size: 1, Dest: "MalcolmNode:a"},
		{Size: 1, Dest: "MalcolmNode:b"},
		{Size: 1, Dest: "MalcolmNode:c"},
	}

	sent, throttled := s.Shape(1, packets)

	assert.Len(t, sent, 1)
	assert.Equal(t, packets[0], sent[0])
	assert.Len(t, throttled, 2)
	assert.Equal(t, []Packet{packets[1], packets[2]}, throttled)
}

func TestShapePreservesOrderWithinEachBucket(t *testing.T) {
	s := NewShaper(8 * 100) // 100 bytes/s
	packets := []Packet{
		{Size: 40, Dest: "MalcolmNode:a"}, {Size: 40, Dest: "MalcolmNode:b"},
		{Size: 40, Dest: "MalcolmNode:c"}, {Size: 40, Dest: "MalcolmNode:d"},
	}
	// Δslice = 1000ms -> limit = 100 bytes -> first two admitted (80<=100), third would be 120>100
	sent, throttled := s.Shape(1000, packets)
	assert.Len(t, sent, 2)
	assert.Len(t, throttled, 2)
	assert.Equal(t, packets[:2], sent)
	assert.Equal(t, packets[2:], throttled)
}

func TestUtilizationCountsAllAttemptedBits(t *testing.T) {
	s := NewShaper(8000)
	_, _ = s.Shape(1, []Packet{{Size: 1}, {Size: 1}, {Size: 1}})
	assert.EqualValues(t, 24, s.Utilization())
}

func TestEmptyPacketsNeverThrottle(t *testing.T) {
	s := NewShaper(0)
	sent, throttled := s.Shape(1, nil)
	assert.Empty(t, sent)
	assert.Empty(t, throttled)
}
