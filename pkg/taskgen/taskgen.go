package taskgen

import (
	"fmt"

	"github.com/gerberprototyping/malcolm-sim/pkg/task"
)

// Config names the four samplers a Generator draws from.
type Config struct {
	Rate    Sampler
	Runtime Sampler
	IOTime  Sampler
	Payload Sampler
}

// Generator produces a batch of tasks every tick, with monotonically
// increasing names and GenTime stamped to the tick's start.
type Generator struct {
	cfg     Config
	idCount int64
}

// New returns a Generator configured by cfg.
func New(cfg Config) *Generator {
	return &Generator{cfg: cfg}
}

// Generate draws a task count from the rate sampler (⌊rate · Δslice ·
// 1000⌋) and returns that many tasks, each with runtime/io_time/payload
// drawn independently from their respective samplers.
func (g *Generator) Generate(deltaSlice, currTime float64) []*task.Task {
	rate := g.cfg.Rate.Sample()
	n := int(rate * deltaSlice * 1000)
	if n <= 0 {
		return nil
	}

	runtimes := g.cfg.Runtime.SampleN(n)
	ioTimes := g.cfg.IOTime.SampleN(n)
	payloads := g.cfg.Payload.SampleN(n)

	tasks := make([]*task.Task, n)
	for i := 0; i < n; i++ {
		t := task.New(fmt.Sprintf("#%d", g.idCount), runtimes[i], ioTimes[i], int64(payloads[i]))
		t.GenTime = currTime
		tasks[i] = t
		g.idCount++
	}
	return tasks
}
