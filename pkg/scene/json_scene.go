package scene

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/geometry"
	"github.com/df07/go-weekend-raytracer/pkg/integrator"
	"github.com/df07/go-weekend-raytracer/pkg/loaders"
	"github.com/df07/go-weekend-raytracer/pkg/material"
	"github.com/df07/go-weekend-raytracer/pkg/renderer"
)

// DefaultCameraConfig is the camera used for fields a scene file leaves out
func DefaultCameraConfig() renderer.CameraConfig {
	return renderer.CameraConfig{
		Center:      core.NewVec3(0, 0, 0),
		LookAt:      core.NewVec3(0, 0, -1),
		Up:          core.NewVec3(0, 1, 0),
		Width:       400,
		AspectRatio: 16.0 / 9.0,
		VFov:        90.0,
	}
}

// NewJSONScene creates a scene from a JSON scene file
func NewJSONScene(path string, cameraOverrides ...renderer.CameraConfig) (*Scene, error) {
	sceneFile, err := loaders.LoadSceneFile(path)
	if err != nil {
		return nil, err
	}

	name := sceneFile.Name
	if name == "" {
		name = sceneNameFromPath(path)
	}

	s, err := buildJSONScene(name, sceneFile, cameraOverrides...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// buildJSONScene converts a parsed scene file into a renderable scene
func buildJSONScene(name string, sceneFile *loaders.SceneFile, cameraOverrides ...renderer.CameraConfig) (*Scene, error) {
	cameraConfig := convertCamera(sceneFile.Camera)
	cameraConfig = applyCameraOverrides(cameraConfig, cameraOverrides)

	samplingConfig := renderer.MergeSamplingConfig(renderer.DefaultSamplingConfig(), renderer.SamplingConfig{
		SamplesPerPixel:    sceneFile.Sampling.SamplesPerPixel,
		MaxDepth:           sceneFile.Sampling.MaxDepth,
		AdaptiveMinSamples: sceneFile.Sampling.AdaptiveMinSamples,
		AdaptiveThreshold:  sceneFile.Sampling.AdaptiveThreshold,
	})

	s := newScene(name, cameraConfig, samplingConfig)
	if sceneFile.Background != nil {
		s.Background = integrator.Background{
			Top:    sceneFile.Background.Top.Color,
			Bottom: sceneFile.Background.Bottom.Color,
		}
	}

	materials := make(map[string]material.Material, len(sceneFile.Materials))
	for matName, spec := range sceneFile.Materials {
		materials[matName] = convertMaterial(spec)
	}

	for i, spec := range sceneFile.Spheres {
		sphere, err := geometry.NewSphere(spec.Center.Vec3(), spec.Radius, materials[spec.Material])
		if err != nil {
			return nil, fmt.Errorf("sphere %d: %w", i, err)
		}
		s.Add(sphere)
	}

	return s, nil
}

// convertCamera overlays the fields present in the file onto DefaultCameraConfig
func convertCamera(spec loaders.CameraSpec) renderer.CameraConfig {
	config := DefaultCameraConfig()

	// Explicit [0,0,0] is meaningful for positions, so presence is tracked with pointers
	if spec.LookFrom != nil {
		config.Center = spec.LookFrom.Vec3()
	}
	if spec.LookAt != nil {
		config.LookAt = spec.LookAt.Vec3()
	}
	if spec.Up != nil {
		config.Up = spec.Up.Vec3()
	}

	return renderer.MergeCameraConfig(config, renderer.CameraConfig{
		Width:         spec.Width,
		AspectRatio:   spec.AspectRatio,
		VFov:          spec.VFov,
		Aperture:      spec.Aperture,
		FocusDistance: spec.FocusDistance,
	})
}

// convertMaterial builds a material from a validated spec
func convertMaterial(spec loaders.MaterialSpec) material.Material {
	switch spec.Type {
	case loaders.MaterialMetal:
		return material.NewMetal(spec.Albedo.Color, spec.Fuzz)
	case loaders.MaterialDielectric:
		return material.NewDielectric(spec.RefractiveIndex)
	default:
		return material.NewLambertian(spec.Albedo.Color)
	}
}

// sceneNameFromPath returns the file name without directory or extension
func sceneNameFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
