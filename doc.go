// Package sco provides a minimal, deterministic scheduler for stackful
// coroutines, intended to be embedded inside a larger concurrent
// framework or any application that needs predictable cooperative
// multitasking.
//
// A coroutine is started with Start, which runs it either as the
// currently running coroutine (when called from the host goroutine) or
// appended to the end of the run queue (when called from within another
// coroutine). Inside a coroutine, Yield relinquishes the CPU to the next
// scheduled coroutine, Pause suspends until explicitly resumed by id via
// Resume, and Exit terminates the current coroutine immediately and hands
// control back to the caller.
//
// Every goroutine that calls Start owns its own independent scheduler;
// none of its state is shared with, or visible to, any other goroutine's
// scheduler. The only process-wide state is the detached registry used by
// Detach and Attach to move a paused coroutine from one goroutine's
// scheduler to another's.
//
// The package does not perform its own stack allocation or low-level
// context switching; those are delegated to the internal coroctx package,
// which wraps the Go runtime's own coroutine primitive.
package sco
