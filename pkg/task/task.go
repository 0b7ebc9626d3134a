package task

import "fmt"

// Task models a unit of work executed on a Malcolm node: a CPU phase
// followed by an IO phase, simulated in-place by the scheduler that
// currently owns it.
type Task struct {
	Name string

	// Runtime and IOTime are the total phase durations in simulated
	// milliseconds. Progress and IOProgress track completion of each.
	Runtime    float64
	IOTime     float64
	Progress   float64
	IOProgress float64

	// Payload is the size of the task in bytes; it becomes a Packet's
	// Size when the task is forwarded. -1 marks an overhead wrapper,
	// which never leaves its node.
	Payload int64

	// GenTime is the simulated time at which the Task Generator created
	// this task; Latency is stamped once the task completes.
	GenTime float64
	Latency float64

	// wrapped is non-nil only for overhead wrappers: the real task that
	// will occupy the same core once the wrapper's CPU phase completes.
	wrapped *Task
}

// New creates a Task ready for scheduling.
func New(name string, runtime, ioTime float64, payload int64) *Task {
	return &Task{
		Name:    name,
		Runtime: runtime,
		IOTime:  ioTime,
		Payload: payload,
	}
}

// NewOverhead wraps main in a synthetic CPU-only task of duration overhead.
// If overhead <= 0 the wrapper is pointless and main is returned unchanged.
func NewOverhead(main *Task, overhead float64) *Task {
	if overhead <= 0 {
		return main
	}
	return &Task{
		Name:    "overhead." + main.Name,
		Runtime: overhead,
		IOTime:  0,
		Payload: -1,
		wrapped: main,
	}
}

// IsOverhead reports whether this task is a synthetic overhead wrapper.
func (t *Task) IsOverhead() bool {
	return t.wrapped != nil
}

// Main returns the wrapped task, or nil if this is not an overhead wrapper.
func (t *Task) Main() *Task {
	return t.wrapped
}

// CPURemaining returns the remaining CPU runtime in ms.
func (t *Task) CPURemaining() float64 {
	r := t.Runtime - t.Progress
	if r < 0 {
		return 0
	}
	return r
}

// IORemaining returns the remaining IO time in ms.
func (t *Task) IORemaining() float64 {
	r := t.IOTime - t.IOProgress
	if r < 0 {
		return 0
	}
	return r
}

// IsCPUDone reports whether the CPU phase has completed.
func (t *Task) IsCPUDone() bool {
	return t.Progress >= t.Runtime
}

// IsIODone reports whether the IO phase has completed.
func (t *Task) IsIODone() bool {
	return t.IOProgress >= t.IOTime
}

// IsDone reports whether both phases have completed.
func (t *Task) IsDone() bool {
	return t.IsCPUDone() && t.IsIODone()
}

// SimCPU advances the CPU phase by delta ms and returns true iff this call
// completed it. Progress is clamped to Runtime.
func (t *Task) SimCPU(delta float64) bool {
	if delta < t.CPURemaining() {
		t.Progress += delta
		return false
	}
	t.Progress = t.Runtime
	return true
}

// SimIO advances the IO phase by delta ms and returns true iff this call
// completed it. IOProgress is clamped to IOTime.
func (t *Task) SimIO(delta float64) bool {
	if delta < t.IORemaining() {
		t.IOProgress += delta
		return false
	}
	t.IOProgress = t.IOTime
	return true
}

func (t *Task) String() string {
	s := fmt.Sprintf("Task %q: CPU=%g/%g IO=%g/%g Payload=%d", t.Name, t.Progress, t.Runtime, t.IOProgress, t.IOTime, t.Payload)
	if t.IsOverhead() {
		s += fmt.Sprintf(" main=%q", t.wrapped.Name)
	}
	return s
}
