package state

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/spaghettifunk/daw/engine/core"
	"github.com/spaghettifunk/daw/engine/dl"
	"github.com/spaghettifunk/daw/engine/input"
)

// Exported symbol suffixes of a state module.
const (
	SymbolInit   = "Init"
	SymbolUpdate = "Update"
	SymbolFree   = "Free"
	SymbolSize   = "Size"
)

// SymbolName returns the exported symbol of a state function: "main_menu" and
// "Init" give "MainMenuInit".
func SymbolName(state, suffix string) string {
	var b strings.Builder
	for _, part := range strings.FieldsFunc(state, func(r rune) bool {
		return r == '_' || r == '-' || r == ' '
	}) {
		rs := []rune(part)
		rs[0] = unicode.ToUpper(rs[0])
		b.WriteString(string(rs))
	}
	b.WriteString(suffix)
	return b.String()
}

// LibraryName returns the module file name of a state.
func LibraryName(state string) string {
	return "lib" + state + ".so"
}

// LibraryPath returns where the module of state lives inside dir.
func LibraryPath(dir, state string) string {
	return filepath.Join(dir, LibraryName(state))
}

// Reload loads the module of s and rebinds its functions and the bindings of
// ctxs. It logs and returns false on failure; see ReloadErr.
func (t *Table) Reload(s Type, ctxs []*input.Context) bool {
	if err := t.ReloadErr(s, ctxs); err != nil {
		core.LogError("reload of state '%s' failed: %s", t.Name(s), err)
		return false
	}
	core.LogInfo("reloaded state '%s' (%d input contexts)", t.Name(s), len(ctxs))
	return true
}

// ReloadErr opens the module of s the first time and reloads it afterwards.
// The state's three functions and every binding of ctxs are resolved against
// the module before anything is committed. On any failure the functions and
// bindings in use stay as they were.
func (t *Table) ReloadErr(s Type, ctxs []*input.Context) error {
	i, ok := t.index(s)
	if !ok {
		return fmt.Errorf("%w: %w: %d", core.ErrReloadFailed, ErrUnknownState, uint16(s))
	}
	if t.loader == nil {
		return fmt.Errorf("%w: %w", core.ErrReloadFailed, dl.ErrUnsupported)
	}
	name := t.decls[i].Name
	path := LibraryPath(t.dir, name)

	var (
		lib dl.Library
		err error
	)
	if t.libs[i] == nil {
		lib, err = t.loader.Open(path)
	} else {
		lib, err = t.loader.Reload(t.libs[i], path)
		if err != nil {
			// the previous handle was closed by the reload attempt
			t.libs[i] = nil
		}
	}
	if err != nil {
		return fmt.Errorf("%w: state %q: %w", core.ErrReloadFailed, name, err)
	}
	t.libs[i] = lib

	entry, err := resolveEntry(lib, name)
	staged, bindErr := input.Resolve(lib, ctxs)
	if err := errors.Join(err, bindErr); err != nil {
		return fmt.Errorf("%w: state %q: %w", core.ErrReloadFailed, name, err)
	}

	t.entries[i] = entry
	input.Commit(ctxs, staged)
	return nil
}

// LoadAll loads the module of every declared state that is not bound yet.
func (t *Table) LoadAll() error {
	var errs []error
	for _, d := range t.decls {
		if t.Bound(d.Type) {
			continue
		}
		if err := t.ReloadErr(d.Type, nil); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close releases every loaded module.
func (t *Table) Close() error {
	var errs []error
	for i, lib := range t.libs {
		if lib == nil {
			continue
		}
		errs = append(errs, lib.Close())
		t.libs[i] = nil
	}
	return errors.Join(errs...)
}

func resolveEntry(lib dl.Library, name string) (Entry, error) {
	var errs []error
	initFn, err := dl.Resolve[InitFunc](lib, SymbolName(name, SymbolInit))
	errs = append(errs, err)
	update, err := dl.Resolve[UpdateFunc](lib, SymbolName(name, SymbolUpdate))
	errs = append(errs, err)
	free, err := dl.Resolve[FreeFunc](lib, SymbolName(name, SymbolFree))
	errs = append(errs, err)
	if err := errors.Join(errs...); err != nil {
		return Entry{}, err
	}

	e := Entry{Init: initFn, Update: update, Free: free}
	// the size variable is optional; stateless modules omit it
	size, err := dl.Resolve[*uintptr](lib, SymbolName(name, SymbolSize))
	switch {
	case err == nil:
		e.Size = *size
	case !errors.Is(err, dl.ErrSymbolNotFound):
		return Entry{}, err
	}
	if err := e.validate(); err != nil {
		return Entry{}, err
	}
	return e, nil
}
