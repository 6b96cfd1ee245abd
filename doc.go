// Package threads provides shared-memory concurrency primitives with
// FIFO-fair wait queues: re-entrant monitor locks, counting semaphores,
// barriers, reader/writer locks, bounded channels, worker pools,
// single-assignment futures, cooperative cancellation, and clock-driven
// rate shaping.
//
// Every blocking primitive serves its waiters in strict arrival order.
// Fairness is enforced with explicit per-waiter ticket queues rather
// than the runtime's unspecified wakeup order, so acquisition order is
// a contract, not an accident of scheduling.
//
// # Monitors
//
// [Enter], [Exit], [Wait], [WaitFor], [Pause], and [PauseAll] attach a
// re-entrant lock and condition queue to any comparable object, with no
// constructor:
//
//	threads.Enter(account)
//	defer threads.Exit(account)
//	for account.balance < amount {
//	    threads.Wait(account) // released by threads.Pause(account)
//	}
//	account.balance -= amount
//
// [SafeI64] is an integer cell serialized through its own monitor;
// bracketing several of its operations with Enter/Exit on the cell
// makes the group atomic.
//
// # Coordination
//
// [Gate] is a counting semaphore whose permits are granted in arrival
// order. [Barrier] is a reusable N-party rendezvous that hands each
// arrival its 0-based index. [RwLock] is a writer-preference
// reader/writer lock: a waiting writer blocks new readers, so readers
// cannot starve writers; the write side is re-entrant.
//
// # Channels and Pools
//
// [Channel] is a bounded FIFO of values with blocking, try, and timeout
// send/receive and an explicit close protocol; capacity 0 gives
// rendezvous semantics. [Pool] is a fixed-size worker pool with two
// shutdown modes: [Pool.Shutdown] drains the queue, [Pool.ShutdownNow]
// discards it. Task panics are captured as [*PanicError].
//
// # Futures
//
// [Promise] and [Future] form a single-assignment result cell settled
// exactly once with a value or an error; any number of goroutines can
// wait on the same future. [Async] runs a function on the shared
// [DefaultPool] and returns its future. [ForEach], [Map], [For],
// [Invoke], [Reduce], [WaitAll], and [WaitAny] are convenience
// combinators over the same pieces.
//
// # Cancellation
//
// [CancelToken] is an advisory, one-way cancellation flag with
// parent-to-child propagation via [CancelToken.Linked]. No primitive
// observes a token on its own: blocking loops poll
// [CancelToken.Check] or [CancelToken.ThrowIfCancelled] themselves.
//
// # Time
//
// [Debouncer], [Throttler], and [Scheduler] are poll-driven helpers
// layered on the [Clock] interface; none of them starts a background
// goroutine. Tests substitute a deterministic clock with [WithClock].
//
// # Errors
//
// Contract violations (exiting a monitor the caller does not own,
// closing a channel twice, settling a promise twice, invalid
// construction arguments) panic with a message naming the primitive and
// the broken invariant. Transient conditions (full, empty, contended,
// timed out) are reported as boolean returns. A future settled with an
// error exposes it via [Future.IsError] and [Future.Error]; [Future.Get]
// panics with the stored message.
package threads
