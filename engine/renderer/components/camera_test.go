package components

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spaghettifunk/daw/engine/math"
)

func TestCameraResetReturnsHome(t *testing.T) {
	c := NewCamera(math.NewVec3(3, 0, 0))
	c.Move(math.NewVec3(1, 2, 0))
	assert.Equal(t, math.NewVec3(4, 2, 0), c.GetPosition())

	c.Reset()
	assert.Equal(t, math.NewVec3(3, 0, 0), c.GetPosition())
}

func TestCameraViewIsInverseTranslation(t *testing.T) {
	c := NewCamera(math.NewVec3Zero())
	c.SetPosition(math.NewVec3(2, -1, 5))
	view := c.GetView()
	assert.Equal(t, float32(-2), view.Data[12])
	assert.Equal(t, float32(1), view.Data[13])
	assert.Equal(t, float32(-5), view.Data[14])
	assert.False(t, c.IsDirty)
}
