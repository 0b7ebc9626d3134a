package node

import (
	"fmt"
	"sync"

	"github.com/gerberprototyping/malcolm-sim/pkg/heartbeat"
	"github.com/gerberprototyping/malcolm-sim/pkg/loadmanager"
	"github.com/gerberprototyping/malcolm-sim/pkg/log"
	"github.com/gerberprototyping/malcolm-sim/pkg/network"
	"github.com/gerberprototyping/malcolm-sim/pkg/policyoptimizer"
	"github.com/gerberprototyping/malcolm-sim/pkg/queue"
	"github.com/gerberprototyping/malcolm-sim/pkg/scheduler"
	"github.com/gerberprototyping/malcolm-sim/pkg/task"
	"github.com/rs/zerolog"
)

// Config describes one Malcolm Node's hardware profile.
type Config struct {
	Name                string
	CoreCount           int
	CorePerf            float64
	IOCount             int
	IOPerf              float64
	Overhead            float64
	BandwidthBitsPerSec int64
}

// Node is a single Malcolm Node: an intra-node Scheduler plus the Load
// Manager / Policy Optimizer pair that decides how much of its incoming
// work it keeps versus forwards to peers.
type Node struct {
	name    string
	address string

	scheduler       *scheduler.Scheduler
	loadManager     *loadmanager.LoadManager
	policyOptimizer *policyoptimizer.PolicyOptimizer
	shaper          *network.Shaper

	inbox   *queue.Queue[*task.Task]
	txQueue []network.Packet
	peers   []string

	mu                 sync.RWMutex
	otherHeartbeats    map[string]*heartbeat.Heartbeat
	avgLatency         float64
	latencyCount       int64
	tickLatencies      []float64
	droppedUnknownSrc  int64
	droppedUnknownType int64

	logger zerolog.Logger
}

// New returns a Node with an empty inbox, full accept ratio, and no peers.
// Call SetPeers once every node in the cluster has been constructed.
func New(cfg Config) *Node {
	address := "MalcolmNode:" + cfg.Name
	return &Node{
		name:            cfg.Name,
		address:         address,
		scheduler:       scheduler.New(cfg.Name, cfg.CoreCount, cfg.CorePerf, cfg.IOCount, cfg.IOPerf, cfg.Overhead),
		loadManager:     loadmanager.New(address),
		policyOptimizer: policyoptimizer.New(),
		shaper:          network.NewShaper(cfg.BandwidthBitsPerSec),
		inbox:           queue.New[*task.Task](),
		otherHeartbeats: make(map[string]*heartbeat.Heartbeat),
		logger:          log.WithComponent("node").With().Str("node", cfg.Name).Logger(),
	}
}

// Name returns the node's bare name (without the "MalcolmNode:" prefix).
func (n *Node) Name() string { return n.name }

// Address returns the node's fully qualified "MalcolmNode:<name>" form,
// as used for Packet Src/Dest.
func (n *Node) Address() string { return n.address }

// SetPeers replaces the set of peer addresses this node heartbeats and
// may forward tasks to. It is not safe to call concurrently with
// SimTimeSlice.
func (n *Node) SetPeers(peers []string) {
	n.peers = peers
}

// RecvPackets delivers packets into this node; safe for concurrent use
// with SimTimeSlice and with itself.
func (n *Node) RecvPackets(packets []network.Packet) {
	var tasks []*task.Task
	for _, p := range packets {
		switch p.Type {
		case network.PacketHeartbeat:
			if !n.knowsPeer(p.Src) {
				n.mu.Lock()
				n.droppedUnknownSrc++
				n.mu.Unlock()
				n.logger.Error().Str("src", p.Src).Msg("received heartbeat from unknown source")
				continue
			}
			hb, ok := p.Data.(*heartbeat.Heartbeat)
			if !ok {
				n.logger.Error().Str("src", p.Src).Msg("heartbeat packet carried unexpected payload type")
				continue
			}
			n.mu.Lock()
			n.otherHeartbeats[p.Src] = hb
			n.mu.Unlock()
		case network.PacketTask:
			t, ok := p.Data.(*task.Task)
			if !ok {
				n.logger.Error().Str("src", p.Src).Msg("task packet carried unexpected payload type")
				continue
			}
			tasks = append(tasks, t)
		default:
			n.mu.Lock()
			n.droppedUnknownType++
			n.mu.Unlock()
			n.logger.Error().Str("src", p.Src).Str("type", string(p.Type)).Msg("unknown packet type")
		}
	}
	if len(tasks) > 0 {
		n.inbox.Extend(tasks)
	}
}

func (n *Node) knowsPeer(addr string) bool {
	if addr == network.CentralLoadBalancerSrc {
		return true
	}
	for _, p := range n.peers {
		if p == addr {
			return true
		}
	}
	return false
}

// SimTimeSlice advances the node by one tick of deltaSlice milliseconds.
// newTasks are tasks freshly assigned to this node this tick (e.g. by the
// Central Load Balancer); currTime is the simulation clock at the start
// of the tick, used to stamp completed tasks' Latency. It returns the
// packets this node actually sent after egress shaping.
func (n *Node) SimTimeSlice(deltaSlice, currTime float64, newTasks []*task.Task) []network.Packet {
	incoming := append(n.inbox.Drain(), newTasks...)

	ownQueueLen := n.scheduler.QueueLen()
	ownPerf := n.scheduler.ExpectedPerformance()

	n.mu.RLock()
	peersSnapshot := make(map[string]*heartbeat.Heartbeat, len(n.otherHeartbeats))
	for k, v := range n.otherHeartbeats {
		peersSnapshot[k] = v
	}
	n.mu.RUnlock()

	n.policyOptimizer.Step(n.scheduler.CPUQueueLen(), ownPerf, peersSnapshot, n.loadManager)

	accepted, forwarded := n.loadManager.Step(incoming)
	n.scheduler.AddTasks(accepted)

	completed := n.scheduler.SimTimeSlice(deltaSlice)
	latencies := make([]float64, 0, len(completed))
	for _, t := range completed {
		t.Latency = currTime - t.GenTime
		n.recordLatency(t.Latency)
		latencies = append(latencies, t.Latency)
	}
	n.mu.Lock()
	n.tickLatencies = latencies
	n.mu.Unlock()

	for _, peer := range n.peers {
		n.txQueue = append(n.txQueue, heartbeat.MakePacket(n.address, peer, ownPerf, ownQueueLen))
	}
	n.txQueue = append(n.txQueue, forwarded...)

	sent, throttled := n.shaper.Shape(deltaSlice, n.txQueue)
	n.txQueue = throttled
	return sent
}

func (n *Node) recordLatency(latency float64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.latencyCount++
	n.avgLatency += (latency - n.avgLatency) / float64(n.latencyCount)
}

// AverageLatency returns the running mean completion latency across every
// task this node has finished.
func (n *Node) AverageLatency() float64 {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.avgLatency
}

// CoreUtilization returns the scheduler's most recent core utilization.
func (n *Node) CoreUtilization() float64 { return n.scheduler.CoreUtilization() }

// IOUtilization returns the scheduler's most recent IO utilization.
func (n *Node) IOUtilization() float64 { return n.scheduler.IOUtilization() }

// QueueLen returns the scheduler's combined CPU+IO queue depth.
func (n *Node) QueueLen() int { return n.scheduler.QueueLen() }

// CPUQueueLen returns the scheduler's CPU queue depth.
func (n *Node) CPUQueueLen() int { return n.scheduler.CPUQueueLen() }

// IOQueueLen returns the scheduler's IO queue depth.
func (n *Node) IOQueueLen() int { return n.scheduler.IOQueueLen() }

// TickLatencies returns the completion latencies recorded during the most
// recently simulated tick, one entry per task that finished this tick.
func (n *Node) TickLatencies() []float64 {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.tickLatencies
}

// Completed returns the total number of tasks this node's scheduler has
// finished across its lifetime.
func (n *Node) Completed() int64 { return n.scheduler.Completed() }

// NetworkUtilization returns the egress bits attempted during the most
// recently shaped tick.
func (n *Node) NetworkUtilization() int64 { return n.shaper.Utilization() }

// DroppedPackets returns the counts of packets this node has discarded,
// keyed by the reason they were dropped.
func (n *Node) DroppedPackets() (unknownSrc, unknownType int64) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.droppedUnknownSrc, n.droppedUnknownType
}

func (n *Node) String() string {
	return fmt.Sprintf("Node(%s)", n.address)
}
