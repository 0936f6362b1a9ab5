// Package memory implements the fixed-capacity bump allocator that backs the
// private data of the active game state.
//
// Everything handed out by Allocate lives until the next Clear. The engine
// clears the arena exactly once per state transition, so a state must never
// keep a block (or a view into one) across a transition.
package memory

import (
	"errors"
	"fmt"
	"reflect"
	"unsafe"

	"github.com/spaghettifunk/daw/engine/core"
	"github.com/spaghettifunk/daw/engine/math"
)

var ErrOutOfMemory = errors.New("bump allocator exhausted")

// Memory is a linear allocator over a single buffer. Pos()+Free() == Size()
// holds at all times.
type Memory struct {
	data       []byte
	pos        uint64
	generation uint64
}

// New allocates a buffer of maxSize bytes. A zero size is fatal.
func New(maxSize uint64) *Memory {
	if maxSize == 0 {
		core.LogFatal("memory: cannot create an arena of 0 bytes")
	}
	core.LogDebug("memory: reserving %d bytes for state memory", maxSize)
	return &Memory{
		data: make([]byte, maxSize),
	}
}

func (m *Memory) Size() uint64 {
	return uint64(len(m.data))
}

func (m *Memory) Pos() uint64 {
	return m.pos
}

func (m *Memory) Free() uint64 {
	return uint64(len(m.data)) - m.pos
}

// Generation is incremented by every Clear.
func (m *Memory) Generation() uint64 {
	return m.generation
}

// TryAllocate carves size zeroed bytes from the remaining capacity.
func (m *Memory) TryAllocate(size uint64) ([]byte, error) {
	if size > m.Free() {
		return nil, fmt.Errorf("%w: requested %d bytes, %d of %d free", ErrOutOfMemory, size, m.Free(), m.Size())
	}
	start := m.pos
	m.pos += size
	// full slice expression so appends cannot spill into the next block
	block := m.data[start:m.pos:m.pos]
	clear(block)
	return block, nil
}

// Allocate is TryAllocate with exhaustion treated as fatal: the arena never
// grows, so a state whose working set does not fit is a build defect.
func (m *Memory) Allocate(size uint64) []byte {
	block, err := m.TryAllocate(size)
	if err != nil {
		core.LogFatal("memory: %s", err)
	}
	return block
}

// Clear releases every block at once.
func (m *Memory) Clear() {
	m.pos = 0
	m.generation++
}

// SizeOf reports the number of bytes a T occupies in the arena.
func SizeOf[T any]() uint64 {
	var zero T
	return uint64(unsafe.Sizeof(zero))
}

// As reinterprets the start of block as a *T. T must not contain Go pointers
// (slices, maps, strings, interfaces...) because the garbage collector does not
// scan byte buffers; fixed-size arrays and plain values are fine.
func As[T any](block []byte) *T {
	var zero T
	typ := reflect.TypeOf(zero)
	size := uint64(unsafe.Sizeof(zero))
	if size == 0 {
		return new(T)
	}
	if uint64(len(block)) < size {
		core.LogFatal("memory: block of %d bytes cannot hold %s (%d bytes)", len(block), typ, size)
	}
	if hasPointers(typ) {
		core.LogFatal("memory: %s holds Go pointers and cannot live in the state arena", typ)
	}
	addr := uintptr(unsafe.Pointer(unsafe.SliceData(block)))
	if align := uintptr(unsafe.Alignof(zero)); math.AlignUp(addr, align) != addr {
		core.LogFatal("memory: block at %#x is not %d-byte aligned for %s", addr, align, typ)
	}
	return (*T)(unsafe.Pointer(unsafe.SliceData(block)))
}

func hasPointers(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return false
	case reflect.Array:
		return t.Len() > 0 && hasPointers(t.Elem())
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			if hasPointers(t.Field(i).Type) {
				return true
			}
		}
		return false
	default:
		return true
	}
}
