//go:build !((linux || darwin || freebsd) && cgo)

package dl

// PluginLoader is unavailable on this platform; every call fails with
// ErrUnsupported. Use a StaticLoader instead.
type PluginLoader struct{}

func NewPluginLoader(string) (*PluginLoader, error) {
	return &PluginLoader{}, nil
}

func (l *PluginLoader) Open(string) (Library, error) {
	return nil, setLastError(ErrUnsupported)
}

func (l *PluginLoader) Reload(lib Library, _ string) (Library, error) {
	if lib != nil {
		lib.Close()
	}
	return nil, setLastError(ErrUnsupported)
}

func (l *PluginLoader) Cleanup() error {
	return nil
}
