/*
Package cluster owns everything the source kept as module-level global
state: the node registry, the Central Load Balancer's round-robin
cursor, and the packet router between nodes. A Cluster is the one value
that ties a set of already-constructed Malcolm Nodes into a runnable
simulation, in either of two modes:

  - Run drives a single-goroutine synchronous tick loop: generate tasks,
    route them, step every node in registration order, route whatever
    they produced.

  - RunAsync drives one long-lived worker goroutine per node plus the
    calling goroutine as the sole router, synchronized by a start-tick
    gate and a two-phase barrier per tick so that packet routing never
    races with a node's own SimTimeSlice.

Every blocking wait in RunAsync — the start-tick gate, both barrier
phases — is wrapped in a watchdog.Watchdog so a stuck node turns into a
reported deadlock instead of a silent hang.
*/
package cluster
