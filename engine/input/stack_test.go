package input

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStackTopMostFirst(t *testing.T) {
	global := NewContext("global", BindActionLazy(KeyF5, NoKey, "reload"))
	s := NewStack(global)

	s.Push(NewContext("bottom",
		BindActionLazy(KeyA, NoKey, "bottom_a"),
		BindActionLazy(KeyB, NoKey, "bottom_b"),
	))
	s.Push(NewContext("top", BindActionLazy(KeyA, NoKey, "top_a")))

	assert.Equal(t, "top_a", s.GetAction(1, KeyA).(Trigger).Name)
	assert.Equal(t, "bottom_b", s.GetAction(2, KeyB).(Trigger).Name)
	assert.Equal(t, "reload", s.GetAction(3, KeyF5).(Trigger).Name)
	assert.IsType(t, NoAction{}, s.GetAction(4, KeyZ))
}

func TestStackGrowsInChunks(t *testing.T) {
	s := NewStack(nil)
	assert.Equal(t, stackChunk, s.Cap())

	for i := 0; i < stackChunk+1; i++ {
		s.Push(NewContext(fmt.Sprintf("ctx%d", i)))
	}
	assert.Equal(t, stackChunk+1, s.Len())
	assert.Equal(t, 2*stackChunk, s.Cap())
	assert.Equal(t, fmt.Sprintf("ctx%d", stackChunk), s.Top().Name)

	contexts := s.Contexts()
	require.Len(t, contexts, stackChunk+1)
	assert.Equal(t, "ctx0", contexts[0].Name)
}

func TestStackPopAndReset(t *testing.T) {
	global := NewContext("global", BindActionLazy(KeyF5, NoKey, "reload"))
	s := NewStack(global)
	assert.False(t, s.Pop())
	assert.Nil(t, s.Top())

	popped := NewContext("a", BindActionLazy(KeyA, NoKey, "a"))
	s.Push(popped)
	s.Push(NewContext("b"))
	require.True(t, s.Pop())
	assert.Equal(t, "a", s.Top().Name)

	s.Reset()
	assert.Zero(t, s.Len())
	assert.Nil(t, popped.Bindings)
	// Global survives a reset
	assert.Equal(t, "reload", s.GetAction(1, KeyF5).(Trigger).Name)
}

func TestStackBindingWithoutAction(t *testing.T) {
	s := NewStack(nil)
	s.Push(NewContext("bare", Binding{Scancode: KeyA}))
	s.Push(NewContext("top", BindAction(KeyB, NoKey, "b", nil)))

	assert.Equal(t, NoAction{}, s.GetAction(1, KeyA))
	assert.Equal(t, uint64(1), s.Contexts()[0].Bindings[0].SinceLastActivation)
	assert.Equal(t, KindAction, s.GetAction(2, KeyB).Kind())
}
