package renderer

import (
	"errors"
	"math"
	"testing"

	"github.com/df07/go-weekend-raytracer/pkg/core"
)

func baseCameraConfig() CameraConfig {
	return CameraConfig{
		Center:      core.NewVec3(0, 0, 0),
		LookAt:      core.NewVec3(0, 0, -1),
		Up:          core.NewVec3(0, 1, 0),
		Width:       400,
		AspectRatio: 1.0,
		VFov:        90.0,
	}
}

func TestCameraGetCameraForward(t *testing.T) {
	camera := NewCamera(baseCameraConfig())

	forward := camera.GetCameraForward()
	expected := core.NewVec3(0, 0, -1)

	if !vecApproxEqual(forward, expected, 1e-9) {
		t.Errorf("Expected forward direction %v, got %v", expected, forward)
	}
}

func TestCameraBasisIsOrthonormal(t *testing.T) {
	config := baseCameraConfig()
	config.Center = core.NewVec3(13, 2, 3)
	config.LookAt = core.NewVec3(0, 0, 0)
	camera := NewCamera(config)

	basis := []core.Vec3{camera.front, camera.right, camera.up}
	for i, v := range basis {
		if math.Abs(v.Length()-1) > 1e-9 {
			t.Errorf("Basis vector %d has length %f", i, v.Length())
		}
		for j := i + 1; j < len(basis); j++ {
			if d := v.Dot(basis[j]); math.Abs(d) > 1e-9 {
				t.Errorf("Basis vectors %d and %d not orthogonal: dot = %f", i, j, d)
			}
		}
	}

	// Camera up should lean the same way as the up hint
	if camera.up.Dot(config.Up) <= 0 {
		t.Errorf("Camera up %v points away from hint %v", camera.up, config.Up)
	}
}

func TestCameraViewportCorners(t *testing.T) {
	camera := NewCamera(baseCameraConfig())

	tests := []struct {
		name     string
		u, v     float64
		expected core.Vec3
	}{
		{"lower left", 0, 0, core.NewVec3(-1, -1, -1)},
		{"upper right", 1, 1, core.NewVec3(1, 1, -1)},
		{"center", 0.5, 0.5, core.NewVec3(0, 0, -1)},
		{"upper left", 0, 1, core.NewVec3(-1, 1, -1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ray := camera.GetRay(tt.u, tt.v, noRandomSampler{t: t})
			if !vecApproxEqual(ray.Direction, tt.expected, 1e-9) {
				t.Errorf("Expected direction %v, got %v", tt.expected, ray.Direction)
			}
		})
	}
}

func TestCameraPinholeUsesNoRandomness(t *testing.T) {
	config := baseCameraConfig()
	config.Center = core.NewVec3(1, 2, 3)
	camera := NewCamera(config)

	// noRandomSampler fails the test on any draw
	for _, uv := range [][2]float64{{0, 0}, {0.3, 0.7}, {1, 1}} {
		ray := camera.GetRay(uv[0], uv[1], noRandomSampler{t: t})
		if ray.Origin != config.Center {
			t.Errorf("Pinhole ray origin %v, expected %v", ray.Origin, config.Center)
		}
	}
}

func TestCameraAutoFocusDistance(t *testing.T) {
	config := baseCameraConfig()
	config.Center = core.NewVec3(3, 3, 2)
	config.LookAt = core.NewVec3(0, 0, -1)
	camera := NewCamera(config)

	expected := config.LookAt.Subtract(config.Center).Length()
	if got := camera.Config().FocusDistance; math.Abs(got-expected) > 1e-12 {
		t.Errorf("Expected auto focus distance %f, got %f", expected, got)
	}

	config.FocusDistance = 10
	if got := NewCamera(config).Config().FocusDistance; got != 10 {
		t.Errorf("Explicit focus distance overwritten: got %f", got)
	}
}

func TestCameraDepthOfField(t *testing.T) {
	config := baseCameraConfig()
	config.Center = core.NewVec3(13, 2, 3)
	config.LookAt = core.NewVec3(0, 0, 0)
	config.VFov = 20
	config.AspectRatio = 16.0 / 9.0
	config.Aperture = 0.5
	config.FocusDistance = 10
	camera := NewCamera(config)
	sampler := core.NewSeededSampler(7)

	if camera.LensRadius() != 0.25 {
		t.Fatalf("Expected lens radius 0.25, got %f", camera.LensRadius())
	}

	for _, uv := range [][2]float64{{0.5, 0.5}, {0.1, 0.9}, {0.8, 0.2}} {
		reference := camera.GetRay(uv[0], uv[1], sampler)
		for i := 0; i < 200; i++ {
			ray := camera.GetRay(uv[0], uv[1], sampler)

			// Origin stays on the lens disk
			offset := ray.Origin.Subtract(config.Center)
			if offset.Length() > camera.LensRadius()+1e-12 {
				t.Fatalf("Ray origin %v outside lens radius %f", ray.Origin, camera.LensRadius())
			}
			if math.Abs(offset.Dot(camera.GetCameraForward())) > 1e-9 {
				t.Fatalf("Lens offset %v not perpendicular to view direction", offset)
			}

			// Every lens sample converges on the same point of the focus plane
			if !vecApproxEqual(ray.At(1), reference.At(1), 1e-9) {
				t.Fatalf("Focus point %v differs from %v", ray.At(1), reference.At(1))
			}
		}
	}
}

func TestCameraConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*CameraConfig)
		valid  bool
	}{
		{"valid", func(c *CameraConfig) {}, true},
		{"coincident eye and target", func(c *CameraConfig) { c.LookAt = c.Center }, false},
		{"up parallel to view", func(c *CameraConfig) { c.Up = core.NewVec3(0, 0, 2) }, false},
		{"zero fov", func(c *CameraConfig) { c.VFov = 0 }, false},
		{"fov too wide", func(c *CameraConfig) { c.VFov = 180 }, false},
		{"zero aspect", func(c *CameraConfig) { c.AspectRatio = 0 }, false},
		{"negative aperture", func(c *CameraConfig) { c.Aperture = -0.1 }, false},
		{"negative focus", func(c *CameraConfig) { c.FocusDistance = -1 }, false},
		{"lens", func(c *CameraConfig) { c.Aperture = 0.1; c.FocusDistance = 10 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := baseCameraConfig()
			tt.modify(&config)
			err := config.Validate()
			if tt.valid && err != nil {
				t.Errorf("Expected valid config, got %v", err)
			}
			if !tt.valid && !errors.Is(err, ErrInvalidCamera) {
				t.Errorf("Expected ErrInvalidCamera, got %v", err)
			}
		})
	}
}

func TestMergeCameraConfig(t *testing.T) {
	base := baseCameraConfig()
	merged := MergeCameraConfig(base, CameraConfig{Width: 800, Aperture: 0.2})

	if merged.Width != 800 || merged.Aperture != 0.2 {
		t.Errorf("Overrides not applied: %+v", merged)
	}
	if merged.Center != base.Center || merged.LookAt != base.LookAt || merged.VFov != base.VFov {
		t.Errorf("Zero override fields replaced base values: %+v", merged)
	}
}

func TestCameraConfigHeight(t *testing.T) {
	config := baseCameraConfig()
	config.AspectRatio = 2.0
	if got := config.Height(); got != 200 {
		t.Errorf("Expected height 200, got %d", got)
	}

	config.Width = 1
	if got := config.Height(); got != 1 {
		t.Errorf("Expected height clamped to 1, got %d", got)
	}
}
