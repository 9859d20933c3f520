package sco

import (
	"bytes"
	"log/slog"
	"runtime"
	"strconv"
	"sync"
)

// scheduler is the per-goroutine state described in spec section 3.
// Every goroutine that calls Start (directly, or transitively via
// Attach on a goroutine with no scheduler yet) gets its own instance;
// instances are never shared or accessed from any other goroutine.
type scheduler struct {
	runQueue runQueue
	pauseSet map[int64]*coroutine

	current *coroutine

	scheduledCount int
	pausedCount    int

	// exitToCaller is the one-shot flag from spec section 4.7: when set,
	// drive returns to its own caller instead of picking the next
	// scheduled coroutine.
	exitToCaller bool

	// pendingCleanup is the "off-stack cleanup" hand-off slot from spec
	// section 4.8: a coroutine that has just terminated stashes itself
	// here before switching away, and drive invokes its Cleanup the
	// moment it regains control, before doing anything else.
	pendingCleanup *coroutine
}

func newScheduler() *scheduler {
	return &scheduler{
		pauseSet: make(map[int64]*coroutine),
	}
}

func (s *scheduler) runningCount() int {
	if s.current != nil {
		return 1
	}
	return 0
}

// goroutineSchedulers maps a goroutine id to the scheduler it owns or is
// currently executing a coroutine for. This is the ambient lookup that
// lets Yield, Pause, ID, and friends find "my" scheduler with no handle
// passed in, matching the receiver-less API spec section 4 and 6
// describe. See DESIGN.md for why this, rather than an explicit
// *Scheduler argument, is the idiomatic-enough answer here: Go has no
// public goroutine-local storage, so an ambient API needs some way to
// key off "the goroutine calling right now," and this is that key.
var goroutineSchedulers sync.Map // int64 -> *scheduler

// goroutineID parses the calling goroutine's id out of a runtime stack
// trace header. It is not fast, and is not meant to be used on a hot
// path; every call site here is a cooperative suspension point or an
// introspection call, never a tight loop.
func goroutineID() int64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	b := buf[:n]
	b = bytes.TrimPrefix(b, []byte("goroutine "))
	if i := bytes.IndexByte(b, ' '); i >= 0 {
		b = b[:i]
	}
	id, _ := strconv.ParseInt(string(b), 10, 64)
	return id
}

// currentScheduler returns the scheduler owning the calling goroutine, or
// nil if this goroutine has never called Start, Attach, or been entered
// as a coroutine body.
func currentScheduler() *scheduler {
	v, ok := goroutineSchedulers.Load(goroutineID())
	if !ok {
		return nil
	}
	return v.(*scheduler)
}

// syncOwner re-publishes the mapping from the calling goroutine to co's
// current owner. It must be called once when a coroutine body first
// starts running, and again every time it wakes up from a Switch, because
// Detach/Attach may have moved co to a different goroutine's scheduler
// while it was parked.
func syncOwner(co *coroutine) {
	if co.owner != nil {
		goroutineSchedulers.Store(goroutineID(), co.owner)
	}
}

var logger = slog.Default()

// SetLogger replaces the logger used for scheduler lifecycle events
// (coroutine start/exit/panic, detach/attach, invalid-call no-ops at
// debug level). Passing nil restores slog.Default().
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.Default()
	}
	logger = l
}

// drive is the scheduling loop / runloop hand-off from spec section 4.3
// and 4.6: it repeatedly pops the head of the run queue and switches into
// it, running any pending cleanup first, until either the run queue is
// empty or an exiting coroutine has requested an immediate hand-off back
// to the caller.
func (s *scheduler) drive() {
	for {
		if s.pendingCleanup != nil {
			pc := s.pendingCleanup
			s.pendingCleanup = nil
			if pc.cleanup != nil {
				pc.cleanup(pc.stack, pc.udata)
			}
			logger.Debug("sco: coroutine cleaned up", "id", pc.id)
			if pc.panicErr != nil {
				err := pc.panicErr
				pc.panicErr = nil
				panic(err)
			}
		}
		if s.exitToCaller {
			s.exitToCaller = false
			return
		}
		co := s.runQueue.popHead()
		if co == nil {
			return
		}
		s.scheduledCount--
		co.state = stateRunning
		s.current = co
		co.ctx.Switch()
		s.current = nil
	}
}
