package input

import "github.com/spaghettifunk/daw/engine/core"

const stackChunk = 8

// Stack holds the active input contexts. The most recently pushed context is
// searched first; Global is searched last and survives Reset.
type Stack struct {
	contexts []*Context
	Global   *Context
}

// NewStack creates an empty stack with global as its fallback context.
func NewStack(global *Context) *Stack {
	return &Stack{
		contexts: make([]*Context, 0, stackChunk),
		Global:   global,
	}
}

// Push makes ctx the top-most context.
func (s *Stack) Push(ctx *Context) {
	if ctx == nil {
		return
	}
	if len(s.contexts) == cap(s.contexts) {
		grown := make([]*Context, len(s.contexts), cap(s.contexts)+stackChunk)
		copy(grown, s.contexts)
		s.contexts = grown
	}
	core.LogDebug("pushing input context '%s' with %d bindings", ctx.Name, ctx.Len())
	s.contexts = append(s.contexts, ctx)
}

// Pop removes the top context and releases its bindings. It reports false on
// an empty stack.
func (s *Stack) Pop() bool {
	n := len(s.contexts)
	if n == 0 {
		return false
	}
	top := s.contexts[n-1]
	s.contexts[n-1] = nil
	s.contexts = s.contexts[:n-1]
	top.release()
	return true
}

// Reset pops every context. Global is kept.
func (s *Stack) Reset() {
	for s.Pop() {
	}
}

// Top returns the top-most context, or nil.
func (s *Stack) Top() *Context {
	if len(s.contexts) == 0 {
		return nil
	}
	return s.contexts[len(s.contexts)-1]
}

func (s *Stack) Len() int {
	return len(s.contexts)
}

// Cap returns the current backing capacity.
func (s *Stack) Cap() int {
	return cap(s.contexts)
}

// Contexts returns the pushed contexts, bottom first. Global is not included.
func (s *Stack) Contexts() []*Context {
	out := make([]*Context, len(s.contexts))
	copy(out, s.contexts)
	return out
}

// GetAction looks s up in every context from the top down, then in Global.
func (s *Stack) GetAction(time uint64, sc Scancode) Action {
	for i := len(s.contexts) - 1; i >= 0; i-- {
		if a := s.contexts[i].GetAction(time, sc); a.Kind() != KindError {
			return a
		}
	}
	return s.Global.GetAction(time, sc)
}
