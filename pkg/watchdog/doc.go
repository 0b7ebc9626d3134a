/*
Package watchdog turns a blocking wait that should always return quickly
into a fatal error when it doesn't. It exists because the async cluster
driver has two places a goroutine can block forever if another
goroutine deadlocks first: the start-tick gate and the per-tick barrier
rendezvous. Rather than let either hang the process, each of those
waits is run through a Watchdog with a fixed
ceiling; a wait that does not return in time becomes a *DeadlockError,
which callers treat as fatal rather than retryable.

This mirrors the shape of a container health checker (Check returns a
Result, a run of failures flips Healthy to false) but collapses it to a
single check: did the wait return before the ceiling, yes or no.
*/
package watchdog
