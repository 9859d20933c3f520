package sco

import (
	"fmt"
	"sync/atomic"

	"github.com/tidwall/sco/internal/coroctx"
)

// MinStackSize is the minimum stack size a Descriptor may declare. It
// mirrors coroctx.MinStackSize; see that package for why it bounds
// nothing at runtime in this Go port.
const MinStackSize = coroctx.MinStackSize

// Descriptor describes a coroutine to be started with Start. Stack,
// Entry, Cleanup and UData are copied into the new coroutine record;
// StackSize is only validated and is not kept on the record.
type Descriptor struct {
	// Stack and StackSize describe the memory the caller is dedicating
	// to this coroutine. They are validated (Stack non-nil, StackSize
	// at least MinStackSize) and Stack is retained on the record, but the
	// coroutine's actual execution stack is the runtime-managed
	// goroutine stack created by the context primitive; see DESIGN.md.
	Stack     []byte
	StackSize int

	// Entry is invoked exactly once, when the coroutine first runs.
	Entry func(udata any)

	// Cleanup is invoked exactly once, after Entry has returned or Exit
	// was called, from a goroutine that is guaranteed not to be the
	// coroutine's own. It must not call any sco operation.
	Cleanup func(stack []byte, udata any)

	// UData is opaque data passed through to Entry and Cleanup.
	UData any
}

func (d Descriptor) validate() error {
	if d.Stack == nil {
		return fmt.Errorf("sco: descriptor stack is nil")
	}
	if d.StackSize < MinStackSize {
		return fmt.Errorf("sco: descriptor stack size %d below minimum %d", d.StackSize, MinStackSize)
	}
	if d.Entry == nil {
		return fmt.Errorf("sco: descriptor entry is nil")
	}
	return nil
}

// coroState is a debugging/assertion aid; it is not consulted by any
// scheduling decision, which is instead driven directly by which of the
// scheduler's structures (run queue, pause set, current slot, detached
// registry) holds the record.
type coroState int

const (
	stateScheduled coroState = iota
	stateRunning
	statePaused
	stateDetached
	stateTerminated
)

// coroutine is the per-coroutine record described in spec section 3. It
// is a plain heap-allocated Go value rather than being carved out of the
// caller-supplied stack; see DESIGN.md's Open Questions for why that
// no-allocation discipline does not port to Go.
type coroutine struct {
	id      int64
	stack   []byte
	entry   func(any)
	cleanup func([]byte, any)
	udata   any

	ctx *coroctx.Context

	// qnext links this record into whichever intrusive run queue node
	// currently holds it. See queue.go.
	qnext *coroutine

	owner *scheduler
	state coroState

	panicErr error
}

var nextID atomic.Int64

// allocID returns the next process-wide unique, non-zero coroutine id.
func allocID() int64 {
	return nextID.Add(1)
}
