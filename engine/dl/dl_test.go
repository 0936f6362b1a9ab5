package dl

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticLoaderResolve(t *testing.T) {
	size := uintptr(16)
	l := NewStaticLoader()
	l.Register("mods/libtitle.so", Symbols{
		"TitleJump": func(dt float64, mem []byte) {},
		"TitleSize": &size,
	})

	lib, err := l.Open("mods/libtitle.so")
	require.NoError(t, err)
	assert.Equal(t, "mods/libtitle.so", lib.Path())

	fn, err := Resolve[func(float64, []byte)](lib, "TitleJump")
	require.NoError(t, err)
	assert.NotNil(t, fn)

	sz, err := Resolve[*uintptr](lib, "TitleSize")
	require.NoError(t, err)
	assert.Equal(t, uintptr(16), *sz)
}

func TestStaticLoaderErrors(t *testing.T) {
	l := NewStaticLoader()
	_, err := l.Open("missing.so")
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Contains(t, LastError(), "missing.so")

	l.Register(filepath.Join("a", "lib.so"), Symbols{"N": 1})
	lib, err := l.Open("a/lib.so")
	require.NoError(t, err)

	_, err = lib.Lookup("Nope")
	assert.True(t, errors.Is(err, ErrSymbolNotFound))

	_, err = Resolve[string](lib, "N")
	var symErr *SymbolError
	require.True(t, errors.As(err, &symErr))
	assert.Equal(t, "N", symErr.Symbol)
	assert.True(t, errors.Is(err, ErrSymbolType))
}

func TestStaticReloadSeesNewTable(t *testing.T) {
	l := NewStaticLoader()
	l.Register("lib.so", Symbols{"V": 1})
	lib, err := l.Open("lib.so")
	require.NoError(t, err)

	l.Register("lib.so", Symbols{"V": 2})
	old, _ := lib.Lookup("V")
	assert.Equal(t, 1, old, "an opened library keeps its own table")

	lib2, err := l.Reload(lib, "lib.so")
	require.NoError(t, err)
	v, _ := lib2.Lookup("V")
	assert.Equal(t, 2, v)

	_, err = lib.Lookup("V")
	assert.True(t, errors.Is(err, ErrClosed))

	l.Remove("lib.so")
	_, err = l.Reload(lib2, "lib.so")
	assert.True(t, errors.Is(err, ErrNotFound))
}
