/*
Package task defines the two-phase work unit simulated by a Malcolm node.

A Task carries a CPU phase followed by an IO phase. The scheduler advances
each phase independently via SimCPU/SimIO and never inspects progress except
through the accessors below; all other packages treat a Task as an opaque
unit identified by Name.

# Overhead wrapper

The intra-node scheduler models per-dispatch scheduling cost by wrapping a
Task in a synthetic CPU-only Task before it occupies a core:

	real := task.New("#7", 10, 4, 512)
	wrapped := task.NewOverhead(real, 1.5) // 1.5ms CPU, no IO

Once the wrapper's CPU phase completes, the scheduler replaces it with
the wrapped task, obtained through Main(), on the same core (see
pkg/scheduler). Main() returns nil for a task
that is not an overhead wrapper.
*/
package task
