package renderer

import (
	"errors"
	"fmt"
	"math"

	"github.com/df07/go-weekend-raytracer/pkg/core"
)

// ErrInvalidCamera is returned by CameraConfig.Validate for unusable camera setups
var ErrInvalidCamera = errors.New("invalid camera configuration")

// CameraConfig describes a camera's placement and lens
type CameraConfig struct {
	Center        core.Point3 // Eye position (lookfrom)
	LookAt        core.Point3 // Point the camera aims at
	Up            core.Vec3   // Up hint, need not be unit or orthogonal to the view
	Width         int         // Image width in pixels
	AspectRatio   float64     // Width / height
	VFov          float64     // Vertical field of view in degrees
	Aperture      float64     // Lens diameter, 0 = pinhole
	FocusDistance float64     // Distance to the plane in focus, 0 = auto (distance to LookAt)
}

// Height returns the image height implied by Width and AspectRatio
func (c CameraConfig) Height() int {
	return max(1, int(float64(c.Width)/c.AspectRatio))
}

// Validate checks that the configuration describes a non-degenerate camera
func (c CameraConfig) Validate() error {
	front := c.LookAt.Subtract(c.Center)
	switch {
	case front.IsNearZero():
		return fmt.Errorf("%w: center and look-at coincide at %v", ErrInvalidCamera, c.Center)
	case front.Cross(c.Up).IsNearZero():
		return fmt.Errorf("%w: up vector %v is parallel to the view direction", ErrInvalidCamera, c.Up)
	case !(c.VFov > 0 && c.VFov < 180):
		return fmt.Errorf("%w: vertical field of view %v must be in (0, 180)", ErrInvalidCamera, c.VFov)
	case !(c.AspectRatio > 0):
		return fmt.Errorf("%w: aspect ratio %v must be positive", ErrInvalidCamera, c.AspectRatio)
	case c.Aperture < 0:
		return fmt.Errorf("%w: aperture %v must not be negative", ErrInvalidCamera, c.Aperture)
	case c.FocusDistance < 0:
		return fmt.Errorf("%w: focus distance %v must not be negative", ErrInvalidCamera, c.FocusDistance)
	}
	return nil
}

// MergeCameraConfig overlays the non-zero fields of override onto base
func MergeCameraConfig(base, override CameraConfig) CameraConfig {
	result := base
	zero := core.Vec3{}

	if override.Center != zero {
		result.Center = override.Center
	}
	if override.LookAt != zero {
		result.LookAt = override.LookAt
	}
	if override.Up != zero {
		result.Up = override.Up
	}
	if override.Width != 0 {
		result.Width = override.Width
	}
	if override.AspectRatio != 0 {
		result.AspectRatio = override.AspectRatio
	}
	if override.VFov != 0 {
		result.VFov = override.VFov
	}
	if override.Aperture != 0 {
		result.Aperture = override.Aperture
	}
	if override.FocusDistance != 0 {
		result.FocusDistance = override.FocusDistance
	}

	return result
}

// Camera generates rays for rendering using a thin-lens model
type Camera struct {
	origin          core.Point3
	lowerLeftCorner core.Point3
	horizontal      core.Vec3
	vertical        core.Vec3
	front           core.Vec3
	right           core.Vec3
	up              core.Vec3
	lensRadius      float64
	config          CameraConfig
}

// NewCamera creates a camera from the configuration.
// The configuration is assumed valid; see CameraConfig.Validate.
func NewCamera(config CameraConfig) *Camera {
	theta := config.VFov * math.Pi / 180.0
	h := math.Tan(theta / 2) // unit focal length before focus scaling
	viewportHeight := 2.0 * h
	viewportWidth := config.AspectRatio * viewportHeight

	front := config.LookAt.Subtract(config.Center).Normalize()
	right := front.Cross(config.Up).Normalize()
	up := right.Cross(front)

	focusDist := config.FocusDistance
	if focusDist == 0 {
		focusDist = config.LookAt.Subtract(config.Center).Length()
		config.FocusDistance = focusDist
	}

	origin := config.Center

	// The image plane sits on the focus plane so objects there are sharp
	horizontal := right.Multiply(focusDist * viewportWidth)
	vertical := up.Multiply(focusDist * viewportHeight)
	lowerLeftCorner := origin.
		Subtract(horizontal.Multiply(0.5)).
		Subtract(vertical.Multiply(0.5)).
		Add(front.Multiply(focusDist))

	return &Camera{
		origin:          origin,
		lowerLeftCorner: lowerLeftCorner,
		horizontal:      horizontal,
		vertical:        vertical,
		front:           front,
		right:           right,
		up:              up,
		lensRadius:      config.Aperture / 2,
		config:          config,
	}
}

// GetRay generates a ray for image-plane coordinates (u, v), 0 <= u,v <= 1,
// with (0, 0) at the lower-left corner
func (c *Camera) GetRay(u, v float64, sampler core.Sampler) core.Ray {
	origin := c.origin
	if c.lensRadius > 0 {
		rd := core.RandomInUnitDisk(sampler).Multiply(c.lensRadius)
		origin = origin.Add(c.right.Multiply(rd.X)).Add(c.up.Multiply(rd.Y))
	}

	target := c.lowerLeftCorner.
		Add(c.horizontal.Multiply(u)).
		Add(c.vertical.Multiply(v))

	return core.NewRay(origin, target.Subtract(origin))
}

// GetCameraForward returns the unit viewing direction
func (c *Camera) GetCameraForward() core.Vec3 {
	return c.front
}

// LensRadius returns half the aperture
func (c *Camera) LensRadius() float64 {
	return c.lensRadius
}

// Config returns the configuration with auto-focus resolved
func (c *Camera) Config() CameraConfig {
	return c.config
}
