package cluster

import (
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/gerberprototyping/malcolm-sim/pkg/log"
	"github.com/gerberprototyping/malcolm-sim/pkg/network"
	"github.com/gerberprototyping/malcolm-sim/pkg/node"
	"github.com/gerberprototyping/malcolm-sim/pkg/task"
	"github.com/gerberprototyping/malcolm-sim/pkg/watchdog"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// TaskGenerator produces the tasks newly arriving at the cluster's edge
// during one tick, to be distributed by the Central Load Balancer.
type TaskGenerator interface {
	Generate(deltaSlice, currTime float64) []*task.Task
}

// NodeSnapshot is one node's observable state at the end of a tick.
type NodeSnapshot struct {
	Name                string
	CoreUtilization     float64
	IOUtilization       float64
	QueueLen            int
	CPUQueueLen         int
	IOQueueLen          int
	Completed           int64
	AverageLatency      float64
	Latencies           []float64
	NetworkUtilization  int64
	DroppedUnknownSrc   int64
	DroppedUnknownType  int64
	DroppedRouteUnknown int64
}

// Recorder receives one NodeSnapshot per node at the end of every tick.
// Implementations typically forward these into Prometheus gauges and an
// in-memory series for post-run plotting.
type Recorder interface {
	Record(tick int, currTime float64, snapshots []NodeSnapshot)
}

// Config configures a simulation run.
type Config struct {
	DeltaSlice float64
	SimTime    float64
	TaskGen    TaskGenerator
	Recorder   Recorder // optional
}

// Cluster owns the node registry, the Central Load Balancer's cursor,
// and the packet router, replacing the source's module-level globals
// with one explicit value (see the design notes this spec carried
// forward from the source's known trouble spots).
type Cluster struct {
	mu    sync.RWMutex
	nodes map[string]*node.Node
	order []string // registration order, by node.Address()

	lb  centralLoadBalancer
	cfg Config

	// droppedRouteUnknown counts, per sending node's address, packets that
	// RoutePackets could not deliver because their Dest was malformed or
	// named no registered node. Attributed to Src since the failure
	// reflects something that node's egress produced, not the receiver.
	droppedRouteUnknown map[string]int64

	runID  string
	logger zerolog.Logger
}

// New returns an empty Cluster ready for node registration. Every
// Cluster is tagged with a random RunID so log lines and metrics from
// concurrent or repeated runs can be told apart.
func New(cfg Config) *Cluster {
	runID := uuid.NewString()
	return &Cluster{
		nodes:               make(map[string]*node.Node),
		cfg:                 cfg,
		droppedRouteUnknown: make(map[string]int64),
		runID:               runID,
		logger:              log.WithComponent("cluster").With().Str("run_id", runID).Logger(),
	}
}

// RunID returns the random identifier assigned to this Cluster at
// construction, used to correlate logs and metrics across a run.
func (c *Cluster) RunID() string { return c.runID }

// Register adds n to the cluster and refreshes every node's peer list.
// Not safe to call concurrently with Run/RunAsync; register all nodes
// up front, the way the source requires all-nodes-before-any-thread.
func (c *Cluster) Register(n *node.Node) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	addr := n.Address()
	if _, exists := c.nodes[addr]; exists {
		return fmt.Errorf("cluster: node %q already registered", n.Name())
	}
	c.nodes[addr] = n
	c.order = append(c.order, addr)
	c.refreshPeersLocked()
	return nil
}

func (c *Cluster) refreshPeersLocked() {
	for _, addr := range c.order {
		peers := make([]string, 0, len(c.order)-1)
		for _, other := range c.order {
			if other != addr {
				peers = append(peers, other)
			}
		}
		c.nodes[addr].SetPeers(peers)
	}
}

// NodeCount returns the number of registered nodes.
func (c *Cluster) NodeCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.order)
}

// Node returns the registered node at address addr (e.g. "MalcolmNode:a").
func (c *Cluster) Node(addr string) (*node.Node, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	n, ok := c.nodes[addr]
	return n, ok
}

// RoutePackets buckets packets by destination and delivers each bucket
// to the owning node. Malformed or unknown destinations are logged and
// dropped.
func (c *Cluster) RoutePackets(packets []network.Packet) {
	buckets := make(map[string][]network.Packet)
	for _, p := range packets {
		if !strings.HasPrefix(p.Dest, "MalcolmNode:") {
			c.logger.Error().Str("dest", p.Dest).Msg("invalid packet destination: missing MalcolmNode: prefix")
			c.droppedRouteUnknown[p.Src]++
			continue
		}
		if _, ok := c.nodes[p.Dest]; !ok {
			c.logger.Error().Str("dest", p.Dest).Msg("invalid packet destination: node does not exist")
			c.droppedRouteUnknown[p.Src]++
			continue
		}
		buckets[p.Dest] = append(buckets[p.Dest], p)
	}
	for addr, pkts := range buckets {
		c.nodes[addr].RecvPackets(pkts)
	}
}

func (c *Cluster) totalTicks() int {
	return int(math.Floor(c.cfg.SimTime/c.cfg.DeltaSlice)) + 1
}

// Run drives a single-goroutine synchronous simulation: generate tasks,
// route, step every node in registration order, route the result.
func (c *Cluster) Run() {
	c.logger.Info().Int("nodes", len(c.order)).Msg("running simulation in synchronous mode")
	for tick := 0; tick < c.totalTicks(); tick++ {
		currTime := float64(tick) * c.cfg.DeltaSlice

		newTasks := c.cfg.TaskGen.Generate(c.cfg.DeltaSlice, currTime)
		c.RoutePackets(c.lb.distribute(newTasks, c.order))

		var outgoing []network.Packet
		for _, addr := range c.order {
			outgoing = append(outgoing, c.nodes[addr].SimTimeSlice(c.cfg.DeltaSlice, currTime, nil)...)
		}
		c.RoutePackets(outgoing)

		c.record(tick, currTime)
	}
	c.logger.Info().Msg("simulation completed")
}

type nodeOutput struct {
	packets []network.Packet
}

// RunAsync drives one worker goroutine per node plus the caller as the
// sole router. Per tick: the driver opens the start-tick gate, waits on
// the barrier for every worker to finish SimTimeSlice, closes the gate,
// routes the combined output while workers are parked between the two
// barrier phases, then releases them with the second barrier wait. This
// keeps every write to a node's inbox and peer-heartbeat map confined to
// the driver goroutine, avoiding the concurrent cross-writes the
// source's per-worker routing allowed.
func (c *Cluster) RunAsync() error {
	n := len(c.order)
	if n == 0 {
		return nil
	}
	c.logger.Info().Int("nodes", n).Msg("running simulation in asynchronous mode")

	totalTicks := c.totalTicks()
	br := newBarrier(n + 1)
	tickGate := newGate()
	outCh := make(chan nodeOutput, n)
	errCh := make(chan error, n)

	var wg sync.WaitGroup
	for _, addr := range c.order {
		wg.Add(1)
		go func(addr string) {
			defer wg.Done()
			c.nodeWorker(addr, totalTicks, tickGate, br, outCh, errCh)
		}(addr)
	}

	startWd := watchdog.New("driver: worker-output barrier")
	releaseWd := watchdog.New("driver: tick-release barrier")

	var runErr error
	for tick := 0; tick < totalTicks && runErr == nil; tick++ {
		currTime := float64(tick) * c.cfg.DeltaSlice

		newTasks := c.cfg.TaskGen.Generate(c.cfg.DeltaSlice, currTime)
		c.RoutePackets(c.lb.distribute(newTasks, c.order))

		tickGate.Set()
		if _, err := startWd.Await(br.Wait); err != nil {
			runErr = err
			break
		}
		tickGate.Clear()

		outgoing := make([]network.Packet, 0, n)
		for i := 0; i < n; i++ {
			select {
			case out := <-outCh:
				outgoing = append(outgoing, out.packets...)
			case err := <-errCh:
				runErr = err
			}
		}
		if runErr != nil {
			break
		}
		c.RoutePackets(outgoing)
		c.record(tick, currTime)

		if _, err := releaseWd.Await(br.Wait); err != nil {
			runErr = err
			break
		}
	}

	wg.Wait()
	if runErr == nil {
		c.logger.Info().Msg("simulation completed")
	} else {
		c.logger.Error().Err(runErr).Msg("simulation aborted")
	}
	return runErr
}

func (c *Cluster) nodeWorker(addr string, totalTicks int, tickGate *gate, br *barrier, outCh chan<- nodeOutput, errCh chan<- error) {
	n := c.nodes[addr]
	startWd := watchdog.New("node " + addr + ": start-tick wait")
	produceWd := watchdog.New("node " + addr + ": produce barrier")
	releaseWd := watchdog.New("node " + addr + ": release barrier")

	for tick := 0; tick < totalTicks; tick++ {
		currTime := float64(tick) * c.cfg.DeltaSlice

		if _, err := startWd.Await(tickGate.Wait); err != nil {
			errCh <- err
			return
		}

		packets := n.SimTimeSlice(c.cfg.DeltaSlice, currTime, nil)
		outCh <- nodeOutput{packets: packets}

		if _, err := produceWd.Await(br.Wait); err != nil {
			errCh <- err
			return
		}
		if _, err := releaseWd.Await(br.Wait); err != nil {
			errCh <- err
			return
		}
	}
}

func (c *Cluster) record(tick int, currTime float64) {
	if c.cfg.Recorder == nil {
		return
	}
	snapshots := make([]NodeSnapshot, 0, len(c.order))
	for _, addr := range c.order {
		n := c.nodes[addr]
		unknownSrc, unknownType := n.DroppedPackets()
		snapshots = append(snapshots, NodeSnapshot{
			Name:                n.Name(),
			CoreUtilization:     n.CoreUtilization(),
			IOUtilization:       n.IOUtilization(),
			QueueLen:            n.QueueLen(),
			CPUQueueLen:         n.CPUQueueLen(),
			IOQueueLen:          n.IOQueueLen(),
			Completed:           n.Completed(),
			AverageLatency:      n.AverageLatency(),
			Latencies:           n.TickLatencies(),
			NetworkUtilization:  n.NetworkUtilization(),
			DroppedUnknownSrc:   unknownSrc,
			DroppedUnknownType:  unknownType,
			DroppedRouteUnknown: c.droppedRouteUnknown[addr],
		})
	}
	c.cfg.Recorder.Record(tick, currTime, snapshots)
}
