/*
Package taskgen generates the tasks that arrive at a simulated cluster's
edge each tick. A Generator draws from four independently configured
Samplers — rate, runtime, IO time, and payload size — the way the
source's TaskGen drew from a rate callable plus three gaussian
parameter sets.

Two Sampler implementations are provided: ConstantSampler always
returns the same value, and GaussianSampler draws from a normal
distribution via gonum's stat/distuv, clamping negative draws to zero
since a task cannot have negative runtime, IO time, or payload size.

Task count scales with rate × Δslice × 1000, preserved verbatim from
the source even though the unit reasoning behind the ×1000 is not
fully documented there.
*/
package taskgen
