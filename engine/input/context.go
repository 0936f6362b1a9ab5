package input

import (
	"github.com/spaghettifunk/daw/engine/core"
)

// Context is an ordered set of bindings. Lookups walk the bindings in order and
// the first match wins.
type Context struct {
	Name     string
	Bindings []Binding
}

// NewContext copies bindings into a fresh context.
func NewContext(name string, bindings ...Binding) *Context {
	ctx := &Context{Name: name, Bindings: make([]Binding, len(bindings))}
	copy(ctx.Bindings, bindings)
	return ctx
}

// Len returns the number of bindings.
func (c *Context) Len() int {
	return len(c.Bindings)
}

// GetAction returns the action of the first binding whose primary or alternate
// scancode equals s and stamps that binding with time. A miss returns NoAction
// and leaves every binding untouched. A binding without an action reads as
// NoAction.
func (c *Context) GetAction(time uint64, s Scancode) Action {
	if c == nil {
		return NoAction{}
	}
	for i := range c.Bindings {
		b := &c.Bindings[i]
		if b.matches(s) {
			b.SinceLastActivation = time
			if b.Action == nil {
				return NoAction{}
			}
			return b.Action
		}
	}
	return NoAction{}
}

// Find returns the first binding whose action has the same identity as a.
func (c *Context) Find(a Action) *Binding {
	if c == nil {
		return nil
	}
	for i := range c.Bindings {
		if SameAction(c.Bindings[i].Action, a) {
			return &c.Bindings[i]
		}
	}
	return nil
}

// BindCtx sets the primary scancode of the binding that carries a.
func (c *Context) BindCtx(s Scancode, a Action) bool {
	return Bind(c.Find(a), s)
}

// BindCtxAlt sets the alternate scancode of the binding that carries a.
func (c *Context) BindCtxAlt(s Scancode, a Action) bool {
	return BindAlt(c.Find(a), s)
}

// UpdateBinding copies the scancodes of b onto the binding with the same action.
// It reports false when no such binding exists.
func (c *Context) UpdateBinding(b Binding) bool {
	dst := c.Find(b.Action)
	if dst == nil {
		return false
	}
	dst.Scancode = b.Scancode
	dst.ScancodeAlt = b.ScancodeAlt
	return true
}

// UpdateUniqueBinding replaces the action of the binding that already uses one
// of b's keys. It reports false when no binding shares a key with b.
func (c *Context) UpdateUniqueBinding(b Binding) bool {
	for i := range c.Bindings {
		dst := &c.Bindings[i]
		if dst.sharesKey(&b) {
			dst.Action = b.Action
			return true
		}
	}
	return false
}

// Dup returns a lazy copy of c: the same keys and names with no functions. The
// copy must be refreshed before use.
func (c *Context) Dup() *Context {
	dup := &Context{Name: c.Name, Bindings: make([]Binding, len(c.Bindings))}
	for i, b := range c.Bindings {
		dup.Bindings[i] = Binding{
			Action:      lazy(b.Action),
			Scancode:    b.Scancode,
			ScancodeAlt: b.ScancodeAlt,
		}
	}
	return dup
}

// release drops the bindings of a popped context.
func (c *Context) release() {
	c.Bindings = nil
}

func warnRebind() {
	core.LogWarn("cannot rebind: no binding carries that action")
}
