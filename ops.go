package sco

import "github.com/tidwall/sco/internal/coroctx"

// newCoroutine builds a coroutine record for d, owned by s, together with
// the low-level context that runs its trampoline. The trampoline is where
// Entry actually executes; it recovers panics (including the Exit
// sentinel), stashes the finished record on the scheduler's pending
// cleanup slot, and switches back to whichever goroutine is driving s.
func newCoroutine(s *scheduler, d Descriptor) *coroutine {
	co := &coroutine{
		id:      allocID(),
		stack:   d.Stack,
		entry:   d.Entry,
		cleanup: d.Cleanup,
		udata:   d.UData,
		owner:   s,
		state:   stateScheduled,
	}

	co.ctx = coroctx.New(func() {
		syncOwner(co)

		defer func() {
			if r := recover(); r != nil {
				if _, isExit := r.(*exitSignal); !isExit {
					co.panicErr = newPanicError(co.id, r)
					logger.Warn("sco: coroutine panicked", "id", co.id, "value", r)
				}
			}
			co.state = stateTerminated
			if co.owner != nil {
				co.owner.pendingCleanup = co
			}
			co.ctx.Switch()
			// Unreachable: this goroutine is never resumed again.
		}()

		co.entry(co.udata)
	})

	return co
}

// Start starts a new coroutine described by d.
//
// Called from outside any coroutine (a "host" goroutine), it lazily
// creates that goroutine's scheduler if needed, makes the new coroutine
// the running coroutine, and does not return until that goroutine's
// scheduler has no scheduled, running, or paused coroutines left, or an
// Exit requested an early hand-off back to the caller.
//
// Called from within a coroutine, the new coroutine is appended to the
// tail of the run queue and the calling coroutine is parked right behind
// it, as if it had called Yield itself; whichever coroutine is then at
// the head of the run queue — the new child, or some other coroutine
// already waiting there — runs next. From the caller's own source, this
// still reads as an ordinary function call with no explicit yield point;
// see DESIGN.md for why this, and not a literal "caller keeps running,"
// is what's needed to reproduce the deterministic ordering spec section
// 8 requires.
func Start(d Descriptor) {
	if err := d.validate(); err != nil {
		panic(err)
	}

	gid := goroutineID()
	v, ok := goroutineSchedulers.Load(gid)
	var s *scheduler
	if ok {
		s = v.(*scheduler)
	} else {
		s = newScheduler()
		goroutineSchedulers.Store(gid, s)
	}

	co := newCoroutine(s, d)
	s.runQueue.pushTail(co)
	s.scheduledCount++

	parent := s.current
	if parent == nil {
		// Called from the host: drive until the scheduler drains or an
		// Exit hands control back early.
		logger.Debug("sco: coroutine started from host", "id", co.id)
		s.drive()
		return
	}

	logger.Debug("sco: coroutine started from coroutine", "id", co.id, "parent", parent.id)
	parent.state = stateScheduled
	s.runQueue.pushTail(parent)
	s.scheduledCount++
	parent.ctx.Switch()
	syncOwner(parent)
}

// Yield causes the calling coroutine to relinquish the CPU. It is a
// no-op when called from outside a coroutine.
func Yield() {
	s := currentScheduler()
	if s == nil || s.current == nil {
		return
	}
	co := s.current
	co.state = stateScheduled
	s.runQueue.pushTail(co)
	s.scheduledCount++
	co.ctx.Switch()
	syncOwner(co)
}

// Pause suspends the calling coroutine. It can only be resumed via a
// successful Resume(id) call on its owning goroutine, or by being
// Detached and later Attached and Resumed elsewhere. It is a no-op when
// called from outside a coroutine.
func Pause() {
	s := currentScheduler()
	if s == nil || s.current == nil {
		return
	}
	co := s.current
	co.state = statePaused
	s.pauseSet[co.id] = co
	s.pausedCount++
	co.ctx.Switch()
	syncOwner(co)
}

// Resume has two modes.
//
// Resume(0), called from outside a coroutine, continues driving the
// calling goroutine's scheduler: if it has any scheduled coroutines it
// runs them until the run queue drains or an Exit hands control back;
// otherwise it returns immediately. Resume(0) called from within a
// coroutine is a no-op, matching the systems-language original's
// silent-no-op treatment of a lookup that can never succeed.
//
// Resume(id) with a non-zero id looks the coroutine up in the calling
// goroutine's pause set; if found there, it moves it to the tail of the
// run queue. Any other case — unknown id, not paused, or paused on a
// different goroutine's scheduler — is a silent no-op. Resume never
// itself performs a context switch; the resumed coroutine runs on the
// next scheduling event.
func Resume(id int64) {
	if id == 0 {
		s := currentScheduler()
		if s == nil || s.current != nil {
			return
		}
		s.drive()
		return
	}

	s := currentScheduler()
	if s == nil {
		return
	}
	co, found := s.pauseSet[id]
	if !found {
		logger.Debug("sco: resume of unknown or foreign id", "id", id)
		return
	}
	delete(s.pauseSet, id)
	s.pausedCount--
	co.state = stateScheduled
	s.runQueue.pushTail(co)
	s.scheduledCount++
}

// Exit terminates the calling coroutine immediately and hands control
// back to the caller without picking the next scheduled coroutine. It is
// a no-op when called from outside a coroutine.
func Exit() {
	s := currentScheduler()
	if s == nil || s.current == nil {
		return
	}
	s.exitToCaller = true
	panic(errExitSignal)
}

// Detach removes a paused coroutine from the calling goroutine's
// scheduler and publishes it to the process-wide detached registry,
// where it can later be picked up by Attach on any goroutine. id must
// name a coroutine paused on the current goroutine's scheduler and must
// not be the id of the calling coroutine itself; any other case is a
// silent no-op.
func Detach(id int64) {
	s := currentScheduler()
	if s == nil {
		return
	}
	if s.current != nil && s.current.id == id {
		logger.Debug("sco: detach of the calling coroutine ignored", "id", id)
		return
	}
	co, found := s.pauseSet[id]
	if !found {
		return
	}
	delete(s.pauseSet, id)
	s.pausedCount--
	co.owner = nil
	co.state = stateDetached
	detachedRegistry.put(co)
	logger.Debug("sco: coroutine detached", "id", id)
}

// Attach removes a detached coroutine from the process-wide registry and
// adds it to the calling goroutine's scheduler's pause set. The
// coroutine does not run until a subsequent Resume(id) call on this
// goroutine. Unknown or non-detached ids are a silent no-op.
func Attach(id int64) {
	co, found := detachedRegistry.take(id)
	if !found {
		return
	}

	gid := goroutineID()
	v, ok := goroutineSchedulers.Load(gid)
	var s *scheduler
	if ok {
		s = v.(*scheduler)
	} else {
		s = newScheduler()
		goroutineSchedulers.Store(gid, s)
	}

	co.owner = s
	co.state = statePaused
	s.pauseSet[co.id] = co
	s.pausedCount++
	logger.Debug("sco: coroutine attached", "id", id)
}

// ID returns the id of the currently running coroutine, or 0 when the
// caller is not inside a coroutine.
func ID() int64 {
	s := currentScheduler()
	if s == nil || s.current == nil {
		return 0
	}
	return s.current.id
}

// UserData returns the user data of the currently running coroutine, or
// nil when the caller is not inside a coroutine.
func UserData() any {
	s := currentScheduler()
	if s == nil || s.current == nil {
		return nil
	}
	return s.current.udata
}

// Active reports whether the calling goroutine's scheduler has any
// coroutines that are running, scheduled, or paused. Detached coroutines
// are not counted.
func Active() bool {
	s := currentScheduler()
	if s == nil {
		return false
	}
	return s.scheduledCount+s.runningCount()+s.pausedCount > 0
}

// InfoScheduled returns the number of coroutines currently scheduled
// (queued to run) on the calling goroutine's scheduler.
func InfoScheduled() int {
	s := currentScheduler()
	if s == nil {
		return 0
	}
	return s.scheduledCount
}

// InfoRunning returns 1 if the calling goroutine's scheduler currently
// has a running coroutine, 0 otherwise.
func InfoRunning() int {
	s := currentScheduler()
	if s == nil {
		return 0
	}
	return s.runningCount()
}

// InfoPaused returns the number of coroutines paused on the calling
// goroutine's scheduler.
func InfoPaused() int {
	s := currentScheduler()
	if s == nil {
		return 0
	}
	return s.pausedCount
}

// InfoDetached returns the process-wide count of detached coroutines.
func InfoDetached() int {
	return detachedRegistry.count()
}

// InfoMethod names the underlying context-switching primitive.
func InfoMethod() string {
	return coroctx.Method()
}
