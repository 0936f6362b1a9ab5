package state

import (
	"fmt"
	"go/token"
	"strings"

	"github.com/spaghettifunk/daw/engine/core"
	"github.com/spaghettifunk/daw/engine/dl"
	"github.com/spaghettifunk/daw/engine/platform"
)

// Table maps every declared state to its bound functions and, in hot-reload
// builds, the module they were resolved from.
type Table struct {
	decls   []Declaration
	entries []Entry
	libs    []dl.Library
	loader  dl.Loader
	dir     string
}

// NewTable validates decls and returns an empty table. Declarations must be
// numbered contiguously from First with unique, non-empty names. Modules are
// opened through loader from dir.
func NewTable(decls []Declaration, loader dl.Loader, dir string) (*Table, error) {
	seen := make(map[string]bool, len(decls))
	idents := make(map[string]string, len(decls))
	for i, d := range decls {
		want := First + Type(i)
		if d.Type != want {
			return nil, fmt.Errorf("%w: %q has type %d, expected %d", ErrDeclaration, d.Name, d.Type, want)
		}
		if d.Type == Quit {
			return nil, fmt.Errorf("%w: too many states", ErrDeclaration)
		}
		name := strings.TrimSpace(d.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: state %d has no name", ErrDeclaration, d.Type)
		}
		if seen[name] {
			return nil, fmt.Errorf("%w: %q declared twice", ErrDeclaration, name)
		}
		seen[name] = true

		ident := SymbolName(name, "")
		if !token.IsIdentifier(ident) || !token.IsExported(ident) {
			return nil, fmt.Errorf("%w: %q does not give an exported symbol prefix (got %q)", ErrDeclaration, name, ident)
		}
		if other, ok := idents[ident]; ok {
			return nil, fmt.Errorf("%w: %q and %q share the symbol prefix %q", ErrDeclaration, other, name, ident)
		}
		idents[ident] = name
	}

	t := &Table{
		decls:   make([]Declaration, len(decls)),
		entries: make([]Entry, len(decls)),
		libs:    make([]dl.Library, len(decls)),
		loader:  loader,
		dir:     dir,
	}
	copy(t.decls, decls)
	return t, nil
}

// MustNewTable is NewTable for declarations fixed at build time; invalid
// declarations are fatal.
func MustNewTable(decls []Declaration, loader dl.Loader, dir string) *Table {
	t, err := NewTable(decls, loader, dir)
	if err != nil {
		core.LogFatal("state table: %v", err)
	}
	return t
}

// Declarations returns the declared states in order.
func (t *Table) Declarations() []Declaration {
	out := make([]Declaration, len(t.decls))
	copy(out, t.decls)
	return out
}

// Name returns the declared name of s, for logging.
func (t *Table) Name(s Type) string {
	switch s {
	case Null:
		return "null"
	case Quit:
		return "quit"
	}
	if i, ok := t.index(s); ok {
		return t.decls[i].Name
	}
	return fmt.Sprintf("unknown(%d)", uint16(s))
}

// Lookup finds a declared state by name.
func (t *Table) Lookup(name string) (Type, bool) {
	for _, d := range t.decls {
		if d.Name == name {
			return d.Type, true
		}
	}
	return Null, false
}

// Declared reports whether s is one of the declared states.
func (t *Table) Declared(s Type) bool {
	_, ok := t.index(s)
	return ok
}

func (t *Table) index(s Type) (int, bool) {
	if s < First || int(s-First) >= len(t.decls) {
		return 0, false
	}
	return int(s - First), true
}

// entry returns the slot of s. Null, Quit and undeclared states are fatal.
func (t *Table) entry(s Type) *Entry {
	i, ok := t.index(s)
	if !ok {
		core.LogFatal("%v: %d (%s) has no lifecycle functions", ErrUnknownState, uint16(s), t.Name(s))
	}
	return &t.entries[i]
}

// Bind registers functions for s directly, replacing what was bound.
func (t *Table) Bind(s Type, e Entry) error {
	i, ok := t.index(s)
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownState, uint16(s))
	}
	if err := e.validate(); err != nil {
		return fmt.Errorf("state %q: %w", t.decls[i].Name, err)
	}
	t.entries[i] = e
	return nil
}

// Bound reports whether s has all three functions bound.
func (t *Table) Bound(s Type) bool {
	i, ok := t.index(s)
	return ok && t.entries[i].bound()
}

// Size returns the private memory size of s.
func (t *Table) Size(s Type) uintptr {
	return t.entry(s).Size
}

// UpdateFunc returns the update function bound to s. An undeclared state is
// fatal.
func (t *Table) UpdateFunc(s Type) UpdateFunc {
	return t.entry(s).Update
}

// Init carves the state's private memory from the platform arena and calls its
// init function with arg. It returns the memory handed to the state.
func (t *Table) Init(s Type, p *platform.Platform, arg any) []byte {
	e := t.entry(s)
	if e.Init == nil {
		core.LogFatal("%v: init of state %q", ErrUnbound, t.Name(s))
	}
	mem := p.Memory.Allocate(uint64(e.Size))
	e.Init(p, mem, arg)
	return mem
}

// Free calls the free function of s and returns its handoff value. The caller
// clears the arena afterwards.
func (t *Table) Free(s Type, p *platform.Platform, mem []byte) any {
	e := t.entry(s)
	if e.Free == nil {
		core.LogFatal("%v: free of state %q", ErrUnbound, t.Name(s))
	}
	return e.Free(p, mem)
}

// Update looks up and calls the update function of s.
func (t *Table) Update(s Type, p *platform.Platform, dt float64, mem []byte) Type {
	fn := t.UpdateFunc(s)
	if fn == nil {
		core.LogFatal("%v: update of state %q", ErrUnbound, t.Name(s))
	}
	return fn(p, dt, mem)
}
