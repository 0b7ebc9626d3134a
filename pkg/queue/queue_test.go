package queue

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPushAndPop(t *testing.T) {
	q := New[int]()
	q.Push(1)
	q.Push(2)

	v, err := q.Pop(time.Second)
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	v, err = q.Pop(time.Second)
	require.NoError(t, err)
	assert.Equal(t, 2, v)
}

func TestExtendPreservesOrder(t *testing.T) {
	q := New[int]()
	q.Extend([]int{1, 2, 3})
	assert.Equal(t, 3, q.Len())

	drained := q.Drain()
	assert.Equal(t, []int{1, 2, 3}, drained)
	assert.Equal(t, 0, q.Len())
}

func TestPopBlocksUntilPush(t *testing.T) {
	q := New[string]()
	var wg sync.WaitGroup
	wg.Add(1)
	var got string
	var err error
	go func() {
		defer wg.Done()
		got, err = q.Pop(time.Second)
	}()

	time.Sleep(20 * time.Millisecond)
	q.Push("hello")
	wg.Wait()

	require.NoError(t, err)
	assert.Equal(t, "hello", got)
}

func TestPopTimesOutOnEmptyQueue(t *testing.T) {
	q := New[int]()
	_, err := q.Pop(20 * time.Millisecond)
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestTryPopDoesNotBlock(t *testing.T) {
	q := New[int]()
	_, ok := q.TryPop()
	assert.False(t, ok)

	q.Push(42)
	v, ok := q.TryPop()
	assert.True(t, ok)
	assert.Equal(t, 42, v)
}
