/*
Package loadmanager implements a node's half of the distributed load
balancing game: given a batch of tasks that arrived this tick, decide how
many to keep and how many to forward elsewhere.

The split itself is a single deterministic cut over the Accept/Forward
ratio; pkg/policyoptimizer is the component that moves that ratio tick by
tick in response to the cluster's observed load imbalance.
*/
package loadmanager
