package sco

import (
	"errors"
	"fmt"
	"runtime/debug"
	"strings"
)

// exitSignal is the sentinel panicked with by Exit to unwind a
// coroutine's call stack back to its trampoline. It is never wrapped or
// reported as an error; the trampoline distinguishes it from a genuine
// panic by its type before deciding whether to record a panicError.
type exitSignal struct{}

var errExitSignal = &exitSignal{}

// panicError wraps a value recovered from a coroutine's Entry function,
// pairing it with the stack captured at the moment of the panic so the
// goroutine that eventually re-panics with it (see scheduler.go's drive)
// does not lose the original failure site.
type panicError struct {
	coroID int64
	value  any
	stack  []byte
}

func newPanicError(id int64, v any) error {
	return &panicError{
		coroID: id,
		value:  v,
		stack:  debug.Stack(),
	}
}

func (p *panicError) Error() string {
	return fmt.Sprintf("sco: coroutine %d panicked: %v", p.coroID, p.value)
}

func (p *panicError) ErrorWithStack() string {
	return fmt.Sprintf("%s\n\n%s", p.Error(), p.stack)
}

func (p *panicError) Unwrap() error {
	err, ok := p.value.(error)
	if !ok {
		return nil
	}
	return err
}

// DebugString renders the full causal chain of a panicError, including
// nested panicErrors reached through Unwrap, with their captured stacks.
func (p *panicError) DebugString() string {
	var sb strings.Builder
	seen := make(map[error]bool)

	var unwrap func(error)
	unwrap = func(e error) {
		if e == nil || seen[e] {
			return
		}
		seen[e] = true

		if pe, ok := e.(*panicError); ok {
			sb.WriteString(pe.ErrorWithStack())
		} else {
			sb.WriteString(e.Error())
		}
		sb.WriteByte('\n')

		if unwrapper, ok := e.(interface{ Unwrap() []error }); ok {
			for _, ue := range unwrapper.Unwrap() {
				unwrap(ue)
			}
		} else if ue := errors.Unwrap(e); ue != nil {
			unwrap(ue)
		}
	}

	unwrap(p)
	return sb.String()
}
