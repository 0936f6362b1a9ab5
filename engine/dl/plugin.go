//go:build (linux || darwin || freebsd) && cgo

package dl

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"plugin"

	"github.com/google/uuid"

	"github.com/spaghettifunk/daw/engine/core"
)

// PluginLoader opens Go plugins. The runtime caches plugins by file path and
// cannot unload them, so every Open works on a fresh shadow copy of the file.
// Code from older copies stays mapped and valid. A rebuilt module must also
// have a package path of its own, or the runtime rejects it as already
// loaded; hotreload.Build stages every build under a unique one.
type PluginLoader struct {
	shadowDir string
}

// NewPluginLoader keeps shadow copies in shadowDir, or in a fresh temporary
// directory when shadowDir is empty.
func NewPluginLoader(shadowDir string) (*PluginLoader, error) {
	if shadowDir == "" {
		dir, err := os.MkdirTemp("", "daw-modules-")
		if err != nil {
			return nil, fmt.Errorf("creating shadow directory: %w", err)
		}
		shadowDir = dir
	} else if err := os.MkdirAll(shadowDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating shadow directory: %w", err)
	}
	return &PluginLoader{shadowDir: shadowDir}, nil
}

func (l *PluginLoader) Open(path string) (Library, error) {
	shadow, err := l.shadowCopy(path)
	if err != nil {
		return nil, setLastError(err)
	}
	p, err := plugin.Open(shadow)
	if err != nil {
		os.Remove(shadow)
		return nil, setLastError(fmt.Errorf("opening %s: %w", path, err))
	}
	core.LogDebug("dl: opened %s (shadow %s)", path, filepath.Base(shadow))
	return &pluginLibrary{path: path, shadow: shadow, p: p}, nil
}

func (l *PluginLoader) Reload(lib Library, path string) (Library, error) {
	if lib != nil {
		if err := lib.Close(); err != nil {
			return nil, setLastError(fmt.Errorf("closing %s: %w", lib.Path(), err))
		}
	}
	return l.Open(path)
}

// Cleanup removes the shadow directory.
func (l *PluginLoader) Cleanup() error {
	return os.RemoveAll(l.shadowDir)
}

func (l *PluginLoader) shadowCopy(path string) (string, error) {
	src, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%s: %w", path, ErrNotFound)
		}
		return "", fmt.Errorf("opening %s: %w", path, err)
	}
	defer src.Close()

	shadow := filepath.Join(l.shadowDir, fmt.Sprintf("%s-%s", uuid.NewString(), filepath.Base(path)))
	dst, err := os.OpenFile(shadow, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o755)
	if err != nil {
		return "", fmt.Errorf("creating shadow copy of %s: %w", path, err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(shadow)
		return "", fmt.Errorf("copying %s: %w", path, err)
	}
	if err := dst.Close(); err != nil {
		os.Remove(shadow)
		return "", fmt.Errorf("copying %s: %w", path, err)
	}
	return shadow, nil
}

type pluginLibrary struct {
	path   string
	shadow string
	p      *plugin.Plugin
	closed bool
}

func (l *pluginLibrary) Lookup(symbol string) (any, error) {
	if l.closed {
		return nil, setLastError(&SymbolError{Path: l.path, Symbol: symbol, Err: ErrClosed})
	}
	sym, err := l.p.Lookup(symbol)
	if err != nil {
		return nil, setLastError(&SymbolError{Path: l.path, Symbol: symbol, Err: ErrSymbolNotFound})
	}
	return any(sym), nil
}

func (l *pluginLibrary) Path() string {
	return l.path
}

// Close forgets the library. The code stays mapped for the process lifetime;
// only the shadow file is removed.
func (l *pluginLibrary) Close() error {
	if l.closed {
		return nil
	}
	l.closed = true
	if err := os.Remove(l.shadow); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
