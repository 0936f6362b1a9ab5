// Package dl opens, reloads and resolves symbols from the shared modules that
// hold game-state code.
//
// Two loaders exist: PluginLoader resolves against Go plugins built with
// -buildmode=plugin (hot-reload builds), StaticLoader resolves against symbol
// tables compiled into the binary (regular builds and tests). Both hand out the
// same Library interface, so the state table never knows which one it uses.
package dl

import (
	"errors"
	"sync"
)

var (
	ErrUnsupported    = errors.New("dynamic loading unsupported on this platform")
	ErrNotFound       = errors.New("library not found")
	ErrClosed         = errors.New("library already closed")
	ErrSymbolNotFound = errors.New("symbol not found")
	ErrSymbolType     = errors.New("symbol has unexpected type")
)

// Library is an opened module.
type Library interface {
	// Lookup returns the exported symbol. Functions are returned as values,
	// variables as pointers to them.
	Lookup(symbol string) (any, error)
	// Path is the path the library was opened from.
	Path() string
	Close() error
}

// Loader opens libraries by path.
type Loader interface {
	Open(path string) (Library, error)
	// Reload closes lib and opens path again. On failure the returned library
	// is nil and lib must be considered closed.
	Reload(lib Library, path string) (Library, error)
}

var (
	lastErrMu sync.Mutex
	lastErr   error
)

func setLastError(err error) error {
	lastErrMu.Lock()
	lastErr = err
	lastErrMu.Unlock()
	return err
}

// LastError describes the most recent failure of any loader, or "" if none.
func LastError() string {
	lastErrMu.Lock()
	defer lastErrMu.Unlock()
	if lastErr == nil {
		return ""
	}
	return lastErr.Error()
}

// Resolve looks symbol up in lib and asserts it to T.
func Resolve[T any](lib Library, symbol string) (T, error) {
	var zero T
	sym, err := lib.Lookup(symbol)
	if err != nil {
		return zero, err
	}
	v, ok := sym.(T)
	if !ok {
		return zero, setLastError(&SymbolError{Path: lib.Path(), Symbol: symbol, Got: sym, Err: ErrSymbolType})
	}
	return v, nil
}
