/*
Package policyoptimizer adjusts a node's Load Manager split each tick in
response to the load imbalance observed across the cluster's heartbeats.

The policy is a simple gradient-free hill climb: compute a reward that is
positive when this node is underloaded relative to its peers and negative
when it is overloaded, then nudge Accept/Forward by a step size that
shrinks as the peer set grows. There is no learned state between ticks
beyond the Load Manager's own Accept/Forward values.
*/
package policyoptimizer
