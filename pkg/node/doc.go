/*
Package node implements the Malcolm Node: the unit of simulation that
owns one intra-node Scheduler, Load Manager, Policy Optimizer, and
egress Shaper, and ties them together into one tick of work.

# Architecture

	┌────────────────────────── Malcolm Node ──────────────────────────┐
	│                                                                    │
	│   inbox (thread-safe)         otherHeartbeats (by peer name)      │
	│        │                              │                           │
	│        ▼                              ▼                           │
	│  ┌───────────────┐           ┌──────────────────┐                 │
	│  │ Load Manager  │◀──────────│ Policy Optimizer  │                 │
	│  │ accept/forward│           │ adjusts the split │                 │
	│  └──────┬────────┘           └──────────────────┘                 │
	│         │ accepted                                                │
	│         ▼                                                         │
	│  ┌───────────────┐                                                │
	│  │  Scheduler    │── completed tasks ─▶ latency/average tracking  │
	│  └───────────────┘                                                │
	│         │ forwarded + heartbeats                                  │
	│         ▼                                                         │
	│  ┌───────────────┐                                                │
	│  │ Network Shaper│── sent ─▶ (returned to caller for routing)     │
	│  └───────────────┘                                                │
	└────────────────────────────────────────────────────────────────────┘

SimTimeSlice is not safe for concurrent use with itself: exactly one
goroutine drives a Node's tick. RecvPackets is safe to call concurrently
with SimTimeSlice — it appends tasks to the thread-safe inbox and updates
the peer-heartbeat map and drop counters under the node's mutex.
*/
package node
