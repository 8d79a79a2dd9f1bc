package scene

import (
	"golang.org/x/image/colornames"

	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/geometry"
	"github.com/df07/go-weekend-raytracer/pkg/material"
	"github.com/df07/go-weekend-raytracer/pkg/renderer"
)

// NewMaterialsScene lines up one sphere per material variant with a shallow depth of field
func NewMaterialsScene(cameraOverrides ...renderer.CameraConfig) *Scene {
	defaultCameraConfig := renderer.CameraConfig{
		Center:      core.NewVec3(0, 1.5, 4),
		LookAt:      core.NewVec3(0, 0, -1),
		Up:          core.NewVec3(0, 1, 0),
		Width:       600,
		AspectRatio: 16.0 / 9.0,
		VFov:        35.0,
		Aperture:    0.1,
	}

	samplingConfig := renderer.SamplingConfig{
		SamplesPerPixel:    200,
		MaxDepth:           50,
		AdaptiveMinSamples: 0.1,
		AdaptiveThreshold:  0.02,
	}

	s := newScene("materials", applyCameraOverrides(defaultCameraConfig, cameraOverrides), samplingConfig)

	ground := material.NewLambertian(core.ColorFromRGBA(colornames.Darkolivegreen))
	s.Add(NewGroundSphere(-0.5, 1000, ground))

	materials := []material.Material{
		material.NewLambertian(core.ColorFromRGBA(colornames.Tomato)),
		material.NewMetal(core.ColorFromRGBA(colornames.Silver), 0.0),
		material.NewMetal(core.ColorFromRGBA(colornames.Goldenrod), 0.4),
		material.NewDielectric(1.5),
		material.NewDielectric(2.4), // diamond
	}

	for i, mat := range materials {
		x := float64(i-len(materials)/2) * 1.1
		s.Add(geometry.MustSphere(core.NewVec3(x, 0, -1), 0.5, mat))
	}

	// Hollow glass: a thin shell made of a glass sphere around an air pocket
	shellCenter := core.NewVec3(0, 0.3, 0.4)
	s.Add(
		geometry.MustSphere(shellCenter, 0.3, material.NewDielectric(1.5)),
		geometry.MustSphere(shellCenter, 0.27, material.NewDielectric(1.0/1.5)),
	)

	return s
}
