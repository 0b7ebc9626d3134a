package scheduler

import (
	"fmt"
	"sync"

	"github.com/gerberprototyping/malcolm-sim/pkg/log"
	"github.com/gerberprototyping/malcolm-sim/pkg/queue"
	"github.com/gerberprototyping/malcolm-sim/pkg/task"
	"github.com/rs/zerolog"
)

// DeadlockError is the panic value raised when two consecutive iterations
// both advance time by zero without dispatching any task: a sign that the
// scheduler has stopped making forward progress within a single tick.
type DeadlockError struct {
	Node  string
	State string
}

func (e *DeadlockError) Error() string {
	return fmt.Sprintf("scheduler: node %q made no forward progress for two consecutive events\n%s", e.Node, e.State)
}

// execUnit is either a CPU core or an IO slot; a nil task means idle.
type execUnit struct {
	task *task.Task
}

// Scheduler simulates a fixed pool of CPU cores and IO slots draining two
// queues: an externally-fed CPU queue and an internal IO queue populated
// by tasks that finished their CPU phase.
type Scheduler struct {
	name string

	corePerf float64
	ioPerf   float64
	overhead float64

	cpuQueue *queue.Queue[*task.Task]
	ioQueue  []*task.Task

	cores []execUnit
	ios   []execUnit

	logger zerolog.Logger

	mu               sync.RWMutex
	coreUtilization  float64
	ioUtilization    float64
	completed        int64
}

// New returns a Scheduler for a node with coreCount CPU cores and ioCount
// IO slots. corePerf and ioPerf scale only ExpectedPerformance; tasks
// advance by the same simulated time on every unit regardless of them.
// overhead is the CPU-only cost, in milliseconds, applied to every task
// dispatched to a core.
func New(nodeName string, coreCount int, corePerf float64, ioCount int, ioPerf float64, overhead float64) *Scheduler {
	return &Scheduler{
		name:     nodeName,
		corePerf: corePerf,
		ioPerf:   ioPerf,
		overhead: overhead,
		cpuQueue: queue.New[*task.Task](),
		cores:    make([]execUnit, coreCount),
		ios:      make([]execUnit, ioCount),
		logger:   log.WithComponent("scheduler").With().Str("node", nodeName).Logger(),
		// an idle scheduler reports full headroom until the first tick publishes real figures
		coreUtilization: 0,
		ioUtilization:   0,
	}
}

// AddTasks enqueues newly arrived tasks onto the CPU queue.
func (s *Scheduler) AddTasks(tasks []*task.Task) {
	if len(tasks) == 0 {
		return
	}
	s.cpuQueue.Extend(tasks)
}

// SimTimeSlice advances the scheduler by one tick of deltaSlice
// milliseconds and returns every task that completed both phases during
// the tick, in completion order.
func (s *Scheduler) SimTimeSlice(deltaSlice float64) []*task.Task {
	var completed []*task.Task

	coreBusy := make([]float64, len(s.cores))
	ioBusy := make([]float64, len(s.ios))

	currTime := 0.0
	prevDelta := -1.0

	for currTime < deltaSlice {
		delta := -1.0
		dispatched := false

		for i := range s.cores {
			core := &s.cores[i]
			if core.task == nil {
				if t, ok := s.cpuQueue.TryPop(); ok {
					core.task = task.NewOverhead(t, s.overhead)
					dispatched = true
				}
			}
			if core.task != nil {
				if rem := core.task.CPURemaining(); delta < 0 || rem < delta {
					delta = rem
				}
			}
		}

		for i := range s.ios {
			io := &s.ios[i]
			if io.task == nil && len(s.ioQueue) > 0 {
				io.task = s.ioQueue[0]
				s.ioQueue = s.ioQueue[1:]
				dispatched = true
			}
			if io.task != nil {
				if rem := io.task.IORemaining(); delta < 0 || rem < delta {
					delta = rem
				}
			}
		}

		if delta < 0 {
			break
		}
		if prevDelta == 0 && delta == 0 && !dispatched {
			panic(&DeadlockError{Node: s.name, State: s.dumpState()})
		}
		if remaining := deltaSlice - currTime; delta > remaining {
			delta = remaining
		}

		for i := range s.cores {
			core := &s.cores[i]
			if core.task == nil {
				continue
			}
			coreBusy[i] += delta
			if !core.task.SimCPU(delta) {
				continue
			}
			switch {
			case core.task.IsOverhead():
				core.task = core.task.Main()
			case core.task.IOTime > 0:
				s.ioQueue = append(s.ioQueue, core.task)
				core.task = nil
			default:
				completed = append(completed, core.task)
				core.task = nil
			}
		}

		for i := range s.ios {
			io := &s.ios[i]
			if io.task == nil {
				continue
			}
			ioBusy[i] += delta
			if io.task.SimIO(delta) {
				completed = append(completed, io.task)
				io.task = nil
			}
		}

		currTime += delta
		prevDelta = delta
	}

	s.publishUtilization(coreBusy, ioBusy, deltaSlice)

	s.mu.Lock()
	s.completed += int64(len(completed))
	s.mu.Unlock()

	return completed
}

func (s *Scheduler) publishUtilization(coreBusy, ioBusy []float64, deltaSlice float64) {
	var coreUtil, ioUtil float64
	if len(coreBusy) > 0 && deltaSlice > 0 {
		var sum float64
		for _, b := range coreBusy {
			sum += b
		}
		coreUtil = sum / (float64(len(coreBusy)) * deltaSlice)
	}
	if len(ioBusy) > 0 && deltaSlice > 0 {
		var sum float64
		for _, b := range ioBusy {
			sum += b
		}
		ioUtil = sum / (float64(len(ioBusy)) * deltaSlice)
	}

	s.mu.Lock()
	s.coreUtilization = coreUtil
	s.ioUtilization = ioUtil
	s.mu.Unlock()
}

// CoreUtilization returns the fraction, in [0,1], of total core capacity
// busy during the most recently completed tick.
func (s *Scheduler) CoreUtilization() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.coreUtilization
}

// IOUtilization returns the fraction, in [0,1], of total IO capacity busy
// during the most recently completed tick.
func (s *Scheduler) IOUtilization() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ioUtilization
}

// ExpectedPerformance is the minimum of the scheduler's remaining CPU and
// remaining IO capacity fractions, each scaled by that pool's performance
// multiplier. A fully idle scheduler reports min(corePerf, ioPerf).
func (s *Scheduler) ExpectedPerformance() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cpu := (1 - s.coreUtilization) * s.corePerf
	io := (1 - s.ioUtilization) * s.ioPerf
	if cpu < io {
		return cpu
	}
	return io
}

// QueueLen returns the number of tasks waiting in the CPU queue plus the
// IO queue (tasks currently occupying a core or IO slot are not counted).
func (s *Scheduler) QueueLen() int {
	return s.CPUQueueLen() + s.IOQueueLen()
}

// CPUQueueLen returns the number of tasks waiting in the CPU queue (tasks
// currently occupying a core are not counted).
func (s *Scheduler) CPUQueueLen() int {
	return s.cpuQueue.Len()
}

// IOQueueLen returns the number of tasks waiting in the IO queue (tasks
// currently occupying an IO slot are not counted).
func (s *Scheduler) IOQueueLen() int {
	return len(s.ioQueue)
}

// Completed returns the total number of tasks this scheduler has finished
// across its lifetime.
func (s *Scheduler) Completed() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.completed
}

func (s *Scheduler) dumpState() string {
	busyCores, busyIOs := 0, 0
	for i := range s.cores {
		if s.cores[i].task != nil {
			busyCores++
		}
	}
	for i := range s.ios {
		if s.ios[i].task != nil {
			busyIOs++
		}
	}
	return fmt.Sprintf(
		"cores busy=%d/%d io busy=%d/%d cpu_queue=%d io_queue=%d",
		busyCores, len(s.cores), busyIOs, len(s.ios), s.cpuQueue.Len(), len(s.ioQueue),
	)
}
