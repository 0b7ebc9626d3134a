/*
Package queue provides a bounded-surface, thread-safe FIFO used by the
scheduler's CPU queue and a node's inbox.

The source this simulator is adapted from exposed a list-emulating
interface (insert, remove-by-value, index access, ...). Only a narrow
slice of that surface is ever used by the core: Push, Extend, Pop, TryPop,
Drain, and Len. This package narrows the surface accordingly.

Pop blocks until an item is available or the caller-supplied timeout
elapses, in which case it returns ErrTimeout. TryPop, Drain, Push and
Extend never block.
*/
package queue
