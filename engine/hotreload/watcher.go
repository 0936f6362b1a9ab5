// Package hotreload watches the state module directory and reports which
// state modules were rebuilt.
package hotreload

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/spaghettifunk/daw/engine/core"
)

// DefaultDebounce is how long a module file must stay quiet before its reload
// is requested. Linkers write a shared object in several chunks.
const DefaultDebounce = 250 * time.Millisecond

const requestBuffer = 16

var ErrClosed = errors.New("watcher already closed")

// ModuleInfo describes a module file seen in the watched directory.
type ModuleInfo struct {
	Path        string
	State       string
	LastChanged time.Time
}

// Watcher emits the name of a state on Requests every time its module file
// settles after being created or written.
type Watcher struct {
	dir      string
	debounce time.Duration

	mutex    sync.Mutex
	modules  map[string]ModuleInfo
	pending  map[string]*time.Timer
	isClosed bool

	fsnotify *fsnotify.Watcher
	requests chan string
	done     chan struct{}
	wg       sync.WaitGroup
}

// New starts watching dir. A debounce of zero uses DefaultDebounce.
func New(dir string, debounce time.Duration) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsWatch.Add(dir); err != nil {
		fsWatch.Close()
		return nil, err
	}

	w := &Watcher{
		dir:      dir,
		debounce: debounce,
		modules:  make(map[string]ModuleInfo),
		pending:  make(map[string]*time.Timer),
		fsnotify: fsWatch,
		requests: make(chan string, requestBuffer),
		done:     make(chan struct{}),
	}
	w.scan()

	w.wg.Add(1)
	go w.start()
	core.LogInfo("watching state modules in '%s' (debounce %s)", dir, debounce)
	return w, nil
}

// Requests delivers state names whose module changed. It is closed by Close.
func (w *Watcher) Requests() <-chan string {
	return w.requests
}

// Modules returns the module files currently present, keyed by state name.
func (w *Watcher) Modules() map[string]ModuleInfo {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	out := make(map[string]ModuleInfo, len(w.modules))
	for k, v := range w.modules {
		out[k] = v
	}
	return out
}

// Close stops watching. Pending requests are dropped.
func (w *Watcher) Close() error {
	w.mutex.Lock()
	if w.isClosed {
		w.mutex.Unlock()
		return ErrClosed
	}
	w.isClosed = true
	for name, t := range w.pending {
		t.Stop()
		delete(w.pending, name)
	}
	w.mutex.Unlock()

	close(w.done)
	w.wg.Wait()
	close(w.requests)
	return nil
}

func (w *Watcher) start() {
	defer w.wg.Done()
	for {
		select {
		case e, ok := <-w.fsnotify.Events:
			if !ok {
				return
			}
			w.handleEvent(e)

		case err, ok := <-w.fsnotify.Errors:
			if !ok {
				return
			}
			core.LogError("module watcher: %s", err)

		case <-w.done:
			w.fsnotify.Close()
			return
		}
	}
}

func (w *Watcher) handleEvent(e fsnotify.Event) {
	name, ok := StateName(e.Name)
	if !ok {
		return
	}
	switch {
	case e.Op&(fsnotify.Create|fsnotify.Write) != 0:
		w.mutex.Lock()
		w.modules[name] = ModuleInfo{Path: e.Name, State: name, LastChanged: time.Now()}
		w.schedule(name)
		w.mutex.Unlock()
	case e.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
		w.mutex.Lock()
		delete(w.modules, name)
		w.mutex.Unlock()
	}
}

// schedule (re)arms the debounce timer of name. Callers hold the mutex.
func (w *Watcher) schedule(name string) {
	if w.isClosed {
		return
	}
	if t, ok := w.pending[name]; ok {
		t.Reset(w.debounce)
		return
	}
	w.pending[name] = time.AfterFunc(w.debounce, func() { w.emit(name) })
}

func (w *Watcher) emit(name string) {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	delete(w.pending, name)
	if w.isClosed {
		return
	}
	select {
	case w.requests <- name:
		core.LogDebug("module of state '%s' changed", name)
	default:
		core.LogWarn("reload request for '%s' dropped, queue full", name)
	}
}

// scan indexes the modules already present without requesting reloads.
func (w *Watcher) scan() {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		core.LogWarn("cannot scan module dir '%s': %s", w.dir, err)
		return
	}
	w.mutex.Lock()
	defer w.mutex.Unlock()
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name, ok := StateName(entry.Name())
		if !ok {
			continue
		}
		info := ModuleInfo{Path: filepath.Join(w.dir, entry.Name()), State: name}
		if fi, err := entry.Info(); err == nil {
			info.LastChanged = fi.ModTime()
		}
		w.modules[name] = info
	}
}

// StateName extracts the state name from a module path: "build/libtitle.so"
// gives "title".
func StateName(path string) (string, bool) {
	base := filepath.Base(path)
	if !strings.HasPrefix(base, "lib") || filepath.Ext(base) != ".so" {
		return "", false
	}
	name := strings.TrimSuffix(strings.TrimPrefix(base, "lib"), ".so")
	return name, name != ""
}
