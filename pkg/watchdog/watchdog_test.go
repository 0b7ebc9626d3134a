package watchdog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAwaitReturnsHealthyWhenWaitCompletes(t *testing.T) {
	w := New("test-wait")
	result, err := w.Await(func(ctx context.Context) error {
		return nil
	})
	assert.NoError(t, err)
	assert.True(t, result.Healthy)
}

func TestAwaitWrapsContextDeadlineAsDeadlockError(t *testing.T) {
	w := NewWithCeiling("stuck-wait", 10*time.Millisecond)
	_, err := w.Await(func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})

	var deadlock *DeadlockError
	assert.True(t, errors.As(err, &deadlock))
	assert.Equal(t, "stuck-wait", deadlock.Wait)
}

func TestAwaitPropagatesOtherErrorsUnwrapped(t *testing.T) {
	w := New("failing-wait")
	sentinel := errors.New("boom")
	_, err := w.Await(func(ctx context.Context) error {
		return sentinel
	})
	assert.Equal(t, sentinel, err)
}

func TestAwaitRecordsDuration(t *testing.T) {
	w := New("slow-wait")
	result, err := w.Await(func(ctx context.Context) error {
		time.Sleep(5 * time.Millisecond)
		return nil
	})
	assert.NoError(t, err)
	assert.GreaterOrEqual(t, result.Duration, 5*time.Millisecond)
}
