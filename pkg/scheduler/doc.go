/*
Package scheduler implements the event-driven, multi-server intra-node
scheduler: the engine that advances every task queued on a Malcolm node
through its CPU phase and, if it has one, its IO phase.

# Architecture

A Scheduler owns a fixed pool of CPU cores and IO slots plus two queues.
Within one call to SimTimeSlice it steps through the tick event by event
rather than millisecond by millisecond:

	┌──────────────────────────────────────────────────────────┐
	│              SimTimeSlice(Δslice) event loop               │
	└────────────────┬─────────────────────────────────────────┘
	                 │
	                 ▼
	┌──────────────────────────────────────────────────────────┐
	│ 1. Dispatch: assign queued tasks to idle cores/IO slots    │
	│    (cores wrap the task in an overhead task first)        │
	│ 2. Find δ = time until the nearest busy unit's completion  │
	│ 3. Clamp δ to what remains of the slice                   │
	│ 4. Advance every busy unit by δ; move/complete tasks       │
	│ 5. currTime += δ; repeat until the slice is exhausted or   │
	│    every unit goes idle                                    │
	└──────────────────────────────────────────────────────────┘

Two consecutive zero-δ iterations in which nothing was dispatched mean the
scheduler made no forward progress. A zero-δ iteration on its own is
normal: an overhead-free, IO-only task completes its CPU phase at δ=0 and
moves to the IO queue in the same advance, and a run of such tasks keeps
dispatching while the queue lasts. If a zero-δ iteration repeats with no
dispatch, SimTimeSlice panics with a *DeadlockError carrying a state dump
rather than spin forever.

# Core vs IO queue

The CPU queue is a pkg/queue.Queue: thread-safe, because tasks are handed
to it by the node's Load Manager from outside the scheduler's own tick.
The IO queue is a plain slice: only the Scheduler itself, invoked exactly
once per tick by its owning node, ever touches it.
*/
package scheduler
