/*
Package heartbeat defines the per-tick status snapshot a Malcolm node sends
to every peer so the Policy Optimizer can compute queue-time-normalized
load imbalance.

A Heartbeat is always carried as the Data of a Heartbeat-type
network.Packet with a fixed wire Size, regardless of the cluster's actual
queue depths or performance figures.
*/
package heartbeat
