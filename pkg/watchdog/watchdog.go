package watchdog

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Ceiling is the maximum time any monitored wait may block before it is
// treated as a deadlock.
const Ceiling = 20 * time.Second

// DeadlockError is returned when a monitored wait exceeds Ceiling. It is
// always fatal: the caller has no recovery path, only the choice of how
// loudly to report it.
type DeadlockError struct {
	Wait    string
	Ceiling time.Duration
}

func (e *DeadlockError) Error() string {
	return fmt.Sprintf("deadlock watchdog: %q did not return within %s", e.Wait, e.Ceiling)
}

// Result records the outcome of one watched wait.
type Result struct {
	Healthy   bool
	Message   string
	CheckedAt time.Time
	Duration  time.Duration
}

// Watchdog monitors one named blocking wait.
type Watchdog struct {
	name    string
	ceiling time.Duration
}

// New returns a Watchdog identifying the wait it monitors by name (used
// only in DeadlockError.Error), enforcing the standard
// Ceiling.
func New(name string) *Watchdog {
	return &Watchdog{name: name, ceiling: Ceiling}
}

// NewWithCeiling is New with an explicit ceiling, for tests that cannot
// afford to wait out the real 20-second ceiling.
func NewWithCeiling(name string, ceiling time.Duration) *Watchdog {
	return &Watchdog{name: name, ceiling: ceiling}
}

// Await runs wait under a ceiling-bound context and reports the outcome.
// wait must itself select on ctx.Done() to actually honor the deadline;
// Await cannot abandon a goroutine that ignores its context.
func (w *Watchdog) Await(wait func(ctx context.Context) error) (Result, error) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), w.ceiling)
	defer cancel()

	err := wait(ctx)
	result := Result{CheckedAt: start, Duration: time.Since(start)}

	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			result.Message = "wait exceeded the deadlock ceiling"
			return result, &DeadlockError{Wait: w.name, Ceiling: w.ceiling}
		}
		result.Message = err.Error()
		return result, err
	}

	result.Healthy = true
	return result, nil
}
