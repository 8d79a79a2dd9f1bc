package scene

import (
	"fmt"

	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/geometry"
	"github.com/df07/go-weekend-raytracer/pkg/integrator"
	"github.com/df07/go-weekend-raytracer/pkg/material"
	"github.com/df07/go-weekend-raytracer/pkg/renderer"
)

// Scene contains all the elements needed for rendering
type Scene struct {
	Name           string
	Camera         *renderer.Camera
	CameraConfig   renderer.CameraConfig
	World          *geometry.HittableList // Objects in the scene
	Background     integrator.Background
	SamplingConfig renderer.SamplingConfig
}

// newScene builds a scene shell whose sampling size follows the camera
func newScene(name string, cameraConfig renderer.CameraConfig, samplingConfig renderer.SamplingConfig) *Scene {
	camera := renderer.NewCamera(cameraConfig)

	samplingConfig.Width = cameraConfig.Width
	samplingConfig.Height = cameraConfig.Height()

	return &Scene{
		Name:           name,
		Camera:         camera,
		CameraConfig:   camera.Config(),
		World:          geometry.NewHittableList(),
		Background:     integrator.DefaultBackground(),
		SamplingConfig: samplingConfig,
	}
}

// applyCameraOverrides merges the first override, if any, onto defaults
func applyCameraOverrides(defaults renderer.CameraConfig, overrides []renderer.CameraConfig) renderer.CameraConfig {
	if len(overrides) > 0 {
		return renderer.MergeCameraConfig(defaults, overrides[0])
	}
	return defaults
}

// GetCamera returns the scene camera
func (s *Scene) GetCamera() *renderer.Camera {
	return s.Camera
}

// GetWorld returns the top-level shape rays are traced against
func (s *Scene) GetWorld() geometry.Shape {
	return s.World
}

// GetBackground returns the sky gradient
func (s *Scene) GetBackground() integrator.Background {
	return s.Background
}

// GetSamplingConfig returns the scene's sampling defaults
func (s *Scene) GetSamplingConfig() renderer.SamplingConfig {
	return s.SamplingConfig
}

// Add appends shapes to the world
func (s *Scene) Add(shapes ...geometry.Shape) {
	s.World.Add(shapes...)
}

// GetPrimitiveCount returns the number of shapes in the scene
func (s *Scene) GetPrimitiveCount() int {
	return s.World.Len()
}

// Validate checks that the scene can be rendered
func (s *Scene) Validate() error {
	if err := s.CameraConfig.Validate(); err != nil {
		return fmt.Errorf("scene %q: %w", s.Name, err)
	}
	if s.SamplingConfig.Width <= 0 || s.SamplingConfig.Height <= 0 {
		return fmt.Errorf("scene %q: image size %dx%d must be positive", s.Name, s.SamplingConfig.Width, s.SamplingConfig.Height)
	}
	return nil
}

// NewGroundSphere creates a huge sphere whose top touches y = groundY, standing in for a ground plane
func NewGroundSphere(groundY, radius float64, mat material.Material) *geometry.Sphere {
	return geometry.MustSphere(core.NewVec3(0, groundY-radius, 0), radius, mat)
}
