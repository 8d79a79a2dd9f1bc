package scene

import (
	"math/rand"

	"golang.org/x/image/colornames"

	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/geometry"
	"github.com/df07/go-weekend-raytracer/pkg/material"
	"github.com/df07/go-weekend-raytracer/pkg/renderer"
)

// DefaultRandomSceneSeed is the layout seed used by Create("random")
const DefaultRandomSceneSeed = 1

// NewRandomScene creates the cover scene: a field of small random spheres around three large ones.
// The layout is fully determined by seed.
func NewRandomScene(seed int64, cameraOverrides ...renderer.CameraConfig) *Scene {
	defaultCameraConfig := renderer.CameraConfig{
		Center:        core.NewVec3(13, 2, 3),
		LookAt:        core.NewVec3(0, 0, 0),
		Up:            core.NewVec3(0, 1, 0),
		Width:         600,
		AspectRatio:   3.0 / 2.0,
		VFov:          20.0,
		Aperture:      0.1,
		FocusDistance: 10.0,
	}

	samplingConfig := renderer.SamplingConfig{
		SamplesPerPixel:    100,
		MaxDepth:           50,
		AdaptiveMinSamples: 0.1,
		AdaptiveThreshold:  0.02,
	}

	s := newScene("random", applyCameraOverrides(defaultCameraConfig, cameraOverrides), samplingConfig)
	random := rand.New(rand.NewSource(seed))

	s.Add(NewGroundSphere(0, 1000, material.NewLambertian(core.ColorFromRGBA(colornames.Gray))))

	randomColor := func(lo, hi float64) core.Color {
		return core.NewColor(
			lo+(hi-lo)*random.Float64(),
			lo+(hi-lo)*random.Float64(),
			lo+(hi-lo)*random.Float64(),
		)
	}

	clearing := core.NewVec3(4, 0.2, 0)
	glass := material.NewDielectric(1.5)

	for a := -11; a < 11; a++ {
		for b := -11; b < 11; b++ {
			chooseMat := random.Float64()
			center := core.NewVec3(float64(a)+0.9*random.Float64(), 0.2, float64(b)+0.9*random.Float64())

			// Keep clear of the large metal sphere
			if center.Subtract(clearing).Length() <= 0.9 {
				continue
			}

			var mat material.Material
			switch {
			case chooseMat < 0.8:
				albedo := randomColor(0, 1).MultiplyVec(randomColor(0, 1))
				mat = material.NewLambertian(albedo)
			case chooseMat < 0.95:
				mat = material.NewMetal(randomColor(0.5, 1), 0.5*random.Float64())
			default:
				mat = glass
			}
			s.Add(geometry.MustSphere(center, 0.2, mat))
		}
	}

	s.Add(
		geometry.MustSphere(core.NewVec3(0, 1, 0), 1.0, glass),
		geometry.MustSphere(core.NewVec3(-4, 1, 0), 1.0, material.NewLambertian(core.ColorFromRGBA(colornames.Saddlebrown))),
		geometry.MustSphere(core.NewVec3(4, 1, 0), 1.0, material.NewMetal(core.NewColor(0.7, 0.6, 0.5), 0.0)),
	)

	return s
}
