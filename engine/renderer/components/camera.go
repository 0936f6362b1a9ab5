package components

import (
	"github.com/spaghettifunk/daw/engine/math"
)

/**
 * @brief Represents a camera that states use to look at their world.
 * The platform owns a default camera; a state may point the platform at its
 * own camera, and the engine switches back to the default one on every state
 * transition.
 */
type Camera struct {
	/**
	 * @brief The position of this camera.
	 * NOTE: Do not set this directly, use SetPosition() instead
	 * so the view matrix is recalculated when needed.
	 */
	Position math.Vec3
	/** @brief The projection matrix, orthographic by default. */
	Projection math.Mat4
	/** @brief Internal flag used to determine when the view matrix needs to be rebuilt. */
	IsDirty bool
	/**
	 * @brief The view matrix of this camera.
	 * NOTE: IMPORTANT: Do not get this directly, use GetView() instead
	 * so the view matrix is recalculated when needed.
	 */
	ViewMatrix math.Mat4

	home math.Vec3
}

/** @brief The name of the default camera. */
const DEFAULT_CAMERA_NAME string = "default"

// NewCamera creates a camera that returns to position on Reset.
func NewCamera(position math.Vec3) *Camera {
	camera := &Camera{home: position}
	camera.Reset()
	return camera
}

func (c *Camera) Reset() {
	c.Position = c.home
	c.Projection = math.NewMat4OrthographicAspect(1)
	c.IsDirty = true
	c.ViewMatrix = math.NewMat4Identity()
}

func (c *Camera) GetPosition() math.Vec3 {
	return c.Position
}

func (c *Camera) SetPosition(position math.Vec3) {
	c.Position = position
	c.IsDirty = true
}

// Move translates the camera by delta.
func (c *Camera) Move(delta math.Vec3) {
	c.Position = c.Position.Add(delta)
	c.IsDirty = true
}

func (c *Camera) SetAspect(aspect float32) {
	c.Projection = math.NewMat4OrthographicAspect(aspect)
}

func (c *Camera) GetView() math.Mat4 {
	if c.IsDirty {
		c.ViewMatrix = math.NewMat4Translation(c.Position.Negate())
		c.IsDirty = false
	}
	return c.ViewMatrix
}
