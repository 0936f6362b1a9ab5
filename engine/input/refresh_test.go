package input

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/daw/engine/dl"
)

func openLib(t *testing.T, syms dl.Symbols) dl.Library {
	t.Helper()
	l := dl.NewStaticLoader()
	l.Register("libtest.so", syms)
	lib, err := l.Open("libtest.so")
	require.NoError(t, err)
	return lib
}

func TestRefreshResolvesByName(t *testing.T) {
	var calls []string
	lib := openLib(t, dl.Symbols{
		"jump":      func(float64, []byte) { calls = append(calls, "jump") },
		"left":      func(float64, []byte) { calls = append(calls, "left") },
		"stop_left": func(float64, []byte) { calls = append(calls, "stop_left") },
	})

	ctx := NewContext("lazy",
		BindActionLazy(KeyA, NoKey, "jump"),
		BindStateLazy(KeyD, NoKey, "left", "stop_left"),
	)
	require.NoError(t, RefreshErr(lib, []*Context{ctx}))

	trig := ctx.Bindings[0].Action.(Trigger)
	tog := ctx.Bindings[1].Action.(Toggle)
	require.True(t, trig.Resolved())
	require.True(t, tog.Resolved())

	trig.Fn(0, nil)
	tog.Activate(0, nil)
	tog.Deactivate(0, nil)
	assert.Equal(t, []string{"jump", "left", "stop_left"}, calls)
}

func TestRefreshSkipsNullName(t *testing.T) {
	lib := openLib(t, dl.Symbols{
		"left": func(float64, []byte) {},
	})
	ctx := NewContext("null",
		BindStateLazy(KeyD, NoKey, "left", NullName),
		BindActionLazy(KeyA, NoKey, NullName),
	)
	assert.True(t, Refresh(lib, []*Context{ctx}))

	tog := ctx.Bindings[0].Action.(Toggle)
	assert.NotNil(t, tog.Activate)
	assert.Nil(t, tog.Deactivate)
	assert.Nil(t, ctx.Bindings[1].Action.(Trigger).Fn)
}

func TestRefreshIsAtomic(t *testing.T) {
	lib := openLib(t, dl.Symbols{
		"jump": func(float64, []byte) {},
	})

	first := NewContext("first", BindActionLazy(KeyA, NoKey, "jump"))
	second := NewContext("second",
		BindActionLazy(KeyA, NoKey, "jump"),
		BindActionLazy(KeyB, NoKey, "missing"),
	)

	err := RefreshErr(lib, []*Context{first, second})
	require.Error(t, err)
	assert.True(t, errors.Is(err, dl.ErrSymbolNotFound))
	assert.Contains(t, err.Error(), "missing")

	// nothing was committed, including the context that resolved cleanly
	assert.False(t, first.Bindings[0].Action.(Trigger).Resolved())
	assert.False(t, second.Bindings[0].Action.(Trigger).Resolved())
	assert.False(t, Refresh(lib, []*Context{first, second}))
}

func TestRefreshRejectsWrongSignature(t *testing.T) {
	lib := openLib(t, dl.Symbols{
		"jump": func() {},
	})
	ctx := NewContext("sig", BindActionLazy(KeyA, NoKey, "jump"))
	err := RefreshErr(lib, []*Context{ctx})
	assert.True(t, errors.Is(err, dl.ErrSymbolType))
}

func TestRefreshClosedLibrary(t *testing.T) {
	lib := openLib(t, dl.Symbols{"jump": func(float64, []byte) {}})
	require.NoError(t, lib.Close())

	ctx := NewContext("closed", BindActionLazy(KeyA, NoKey, "jump"))
	assert.True(t, errors.Is(RefreshErr(lib, []*Context{ctx}), dl.ErrClosed))
	assert.True(t, errors.Is(RefreshErr(nil, []*Context{ctx}), dl.ErrClosed))
}

func TestRefreshBindingWithoutAction(t *testing.T) {
	lib := openLib(t, dl.Symbols{
		"jump": func(float64, []byte) {},
	})
	ctx := NewContext("mixed",
		Binding{Scancode: KeyA},
		BindActionLazy(KeyB, NoKey, "jump"),
	)
	require.NoError(t, RefreshErr(lib, []*Context{ctx}))

	assert.Equal(t, NoAction{}, ctx.Bindings[0].Action)
	assert.True(t, ctx.Bindings[1].Action.(Trigger).Resolved())
}
