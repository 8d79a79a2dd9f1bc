package scene

import (
	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/geometry"
	"github.com/df07/go-weekend-raytracer/pkg/material"
	"github.com/df07/go-weekend-raytracer/pkg/renderer"
)

// NewDefaultScene creates the classic three-sphere scene on a green ground
func NewDefaultScene(cameraOverrides ...renderer.CameraConfig) *Scene {
	defaultCameraConfig := renderer.CameraConfig{
		Center:      core.NewVec3(0, 0, 0),
		LookAt:      core.NewVec3(0, 0, -1),
		Up:          core.NewVec3(0, 1, 0),
		Width:       400,
		AspectRatio: 16.0 / 9.0,
		VFov:        90.0,
	}

	samplingConfig := renderer.SamplingConfig{
		SamplesPerPixel:    100,
		MaxDepth:           50,
		AdaptiveMinSamples: 0.15, // 15% of max samples minimum for adaptive sampling
		AdaptiveThreshold:  0.01, // 1% relative error threshold
	}

	s := newScene("default", applyCameraOverrides(defaultCameraConfig, cameraOverrides), samplingConfig)

	groundMat := material.NewLambertian(core.NewColor(0.8, 0.8, 0.0))
	centerMat := material.NewLambertian(core.NewColor(0.1, 0.2, 0.5))
	glass := material.NewDielectric(1.5)
	bubble := material.NewDielectric(1.0 / 1.5) // air pocket inside glass
	gold := material.NewMetal(core.NewColor(0.8, 0.6, 0.2), 0.3)

	s.Add(
		geometry.MustSphere(core.NewVec3(0, -100.5, -1), 100, groundMat),
		geometry.MustSphere(core.NewVec3(0, 0, -1.2), 0.5, centerMat),
		geometry.MustSphere(core.NewVec3(-1, 0, -1), 0.5, glass),
		geometry.MustSphere(core.NewVec3(-1, 0, -1), 0.4, bubble),
		geometry.MustSphere(core.NewVec3(1, 0, -1), 0.5, gold),
	)

	return s
}
