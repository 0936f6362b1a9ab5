package memory

import (
	"errors"
	"os"
	"os/exec"
	"reflect"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func blockRange(b []byte) (uintptr, uintptr) {
	start := uintptr(unsafe.Pointer(unsafe.SliceData(b)))
	return start, start + uintptr(len(b))
}

func TestAllocateAdvancesByRequestedSizes(t *testing.T) {
	m := New(1024)
	sizes := []uint64{1, 7, 64, 3, 200, 5}

	var sum uint64
	var blocks [][]byte
	for _, s := range sizes {
		b := m.Allocate(s)
		require.Len(t, b, int(s))
		sum += s
		assert.Equal(t, sum, m.Pos())
		assert.Equal(t, m.Size(), m.Pos()+m.Free())
		blocks = append(blocks, b)
	}

	for i := range blocks {
		for j := i + 1; j < len(blocks); j++ {
			as, ae := blockRange(blocks[i])
			bs, be := blockRange(blocks[j])
			assert.True(t, ae <= bs || be <= as, "blocks %d and %d overlap", i, j)
		}
	}
}

func TestAllocateExactlyExhausted(t *testing.T) {
	m := New(64)
	m.Allocate(60)
	b := m.Allocate(4)
	assert.Len(t, b, 4)
	assert.Zero(t, m.Free())
	assert.Equal(t, uint64(64), m.Pos())

	// zero-sized requests still succeed on a full arena
	_, err := m.TryAllocate(0)
	assert.NoError(t, err)
}

func TestTryAllocateExceededByOne(t *testing.T) {
	m := New(64)
	m.Allocate(60)

	_, err := m.TryAllocate(5)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrOutOfMemory))
	assert.Equal(t, uint64(60), m.Pos(), "a failed allocation must not move the cursor")
}

func TestAllocateExceededIsFatal(t *testing.T) {
	if os.Getenv("DAW_MEMORY_CRASH") == "1" {
		m := New(64)
		m.Allocate(65)
		return
	}
	cmd := exec.Command(os.Args[0], "-test.run=^TestAllocateExceededIsFatal$")
	cmd.Env = append(os.Environ(), "DAW_MEMORY_CRASH=1")
	err := cmd.Run()

	var exitErr *exec.ExitError
	require.True(t, errors.As(err, &exitErr), "expected the process to exit, got %v", err)
	assert.False(t, exitErr.Success())
}

func TestClearThenReuse(t *testing.T) {
	m := New(128)
	first := m.Allocate(128)
	for i := range first {
		first[i] = 0xAB
	}

	m.Clear()
	assert.Zero(t, m.Pos())
	assert.Equal(t, uint64(1), m.Generation())

	again := m.Allocate(128)
	assert.Len(t, again, 128)
	for i, v := range again {
		if v != 0 {
			t.Fatalf("byte %d not reset after clear: %#x", i, v)
		}
	}

	m.Clear()
	m.Clear()
	_, err := m.TryAllocate(128)
	assert.NoError(t, err, "clearing twice is the same as clearing once")
}

type position struct {
	X, Y  float64
	Score uint32
	Tiles [4]int16
}

func TestAsViewsBlock(t *testing.T) {
	m := New(256)
	block := m.Allocate(SizeOf[position]())

	p := As[position](block)
	p.X, p.Score = 3.5, 42

	q := As[position](block)
	assert.Equal(t, 3.5, q.X)
	assert.Equal(t, uint32(42), q.Score)
}

type withPointer struct {
	Name string
}

func TestAsRejectsPointerTypes(t *testing.T) {
	if os.Getenv("DAW_MEMORY_CRASH") == "1" {
		m := New(256)
		As[withPointer](m.Allocate(SizeOf[withPointer]()))
		return
	}
	cmd := exec.Command(os.Args[0], "-test.run=^TestAsRejectsPointerTypes$")
	cmd.Env = append(os.Environ(), "DAW_MEMORY_CRASH=1")
	err := cmd.Run()

	var exitErr *exec.ExitError
	require.True(t, errors.As(err, &exitErr), "expected the process to exit, got %v", err)
}

func TestHasPointers(t *testing.T) {
	assert.False(t, hasPointers(typeOf[position]()))
	assert.False(t, hasPointers(typeOf[[8]float32]()))
	assert.True(t, hasPointers(typeOf[withPointer]()))
	assert.True(t, hasPointers(typeOf[[]int]()))
	assert.True(t, hasPointers(typeOf[map[int]int]()))
}

func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}
