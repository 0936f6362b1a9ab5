package dl

import (
	"fmt"
	"path/filepath"
	"sync"
)

// Symbols is a compiled-in symbol table, keyed by exported name. Function
// symbols are stored as function values and variables as pointers, matching
// what plugin.Lookup returns.
type Symbols map[string]any

// StaticLoader serves libraries from symbol tables registered in-process.
// Reloading re-reads the table currently registered for the path, so tests can
// swap or remove a module between reloads.
type StaticLoader struct {
	mu   sync.RWMutex
	libs map[string]Symbols
}

func NewStaticLoader() *StaticLoader {
	return &StaticLoader{libs: make(map[string]Symbols)}
}

// Register makes syms available under path, replacing what was there.
func (l *StaticLoader) Register(path string, syms Symbols) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.libs[filepath.Clean(path)] = syms
}

func (l *StaticLoader) Remove(path string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.libs, filepath.Clean(path))
}

func (l *StaticLoader) Open(path string) (Library, error) {
	l.mu.RLock()
	syms, ok := l.libs[filepath.Clean(path)]
	l.mu.RUnlock()
	if !ok {
		return nil, setLastError(fmt.Errorf("%s: %w", path, ErrNotFound))
	}
	// copy so later Register calls do not leak into an opened library
	table := make(Symbols, len(syms))
	for k, v := range syms {
		table[k] = v
	}
	return &staticLibrary{path: path, syms: table}, nil
}

func (l *StaticLoader) Reload(lib Library, path string) (Library, error) {
	if lib != nil {
		if err := lib.Close(); err != nil {
			return nil, setLastError(fmt.Errorf("closing %s: %w", lib.Path(), err))
		}
	}
	return l.Open(path)
}

type staticLibrary struct {
	path   string
	syms   Symbols
	closed bool
}

func (s *staticLibrary) Lookup(symbol string) (any, error) {
	if s.closed {
		return nil, setLastError(&SymbolError{Path: s.path, Symbol: symbol, Err: ErrClosed})
	}
	sym, ok := s.syms[symbol]
	if !ok {
		return nil, setLastError(&SymbolError{Path: s.path, Symbol: symbol, Err: ErrSymbolNotFound})
	}
	return sym, nil
}

func (s *staticLibrary) Path() string {
	return s.path
}

func (s *staticLibrary) Close() error {
	s.closed = true
	return nil
}
