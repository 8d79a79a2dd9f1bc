package renderer

import (
	"image"
	"image/color"
	"math"

	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/geometry"
	"github.com/df07/go-weekend-raytracer/pkg/integrator"
)

// SamplingConfig contains rendering configuration
type SamplingConfig struct {
	Width              int     // Image width
	Height             int     // Image height
	SamplesPerPixel    int     // Number of rays per pixel
	MaxDepth           int     // Maximum ray bounce depth
	AdaptiveMinSamples float64 // Minimum samples as a fraction of max samples (0.0-1.0)
	AdaptiveThreshold  float64 // Relative error threshold for adaptive convergence (0 disables)
}

// DefaultSamplingConfig returns sensible default values
func DefaultSamplingConfig() SamplingConfig {
	return SamplingConfig{
		Width:              400,
		Height:             225,
		SamplesPerPixel:    100,
		MaxDepth:           50,
		AdaptiveMinSamples: 0.15,
		AdaptiveThreshold:  0.01,
	}
}

// Scene interface to avoid circular imports
type Scene interface {
	GetCamera() *Camera
	GetWorld() geometry.Shape
	GetBackground() integrator.Background
	GetSamplingConfig() SamplingConfig
}

// Raytracer renders a whole image on the calling goroutine
type Raytracer struct {
	scene      Scene
	integrator integrator.Integrator
	width      int
	height     int
	config     SamplingConfig
	sampler    core.Sampler
}

// NewRaytracer creates a new raytracer using the scene's sampling configuration
func NewRaytracer(scene Scene, width, height int) *Raytracer {
	return &Raytracer{
		scene:      scene,
		integrator: integrator.NewPathTracingIntegrator(scene.GetBackground()),
		width:      width,
		height:     height,
		config:     scene.GetSamplingConfig(),
		sampler:    core.NewSeededSampler(42), // Deterministic for testing
	}
}

// SetSamplingConfig updates the sampling configuration
func (rt *Raytracer) SetSamplingConfig(config SamplingConfig) {
	rt.config = config
}

// MergeSamplingConfig overlays the non-zero fields of updates onto the current configuration
func (rt *Raytracer) MergeSamplingConfig(updates SamplingConfig) {
	rt.config = MergeSamplingConfig(rt.config, updates)
}

// MergeSamplingConfig overlays the non-zero fields of override onto base
func MergeSamplingConfig(base, override SamplingConfig) SamplingConfig {
	result := base
	if override.Width != 0 {
		result.Width = override.Width
	}
	if override.Height != 0 {
		result.Height = override.Height
	}
	if override.SamplesPerPixel != 0 {
		result.SamplesPerPixel = override.SamplesPerPixel
	}
	if override.MaxDepth != 0 {
		result.MaxDepth = override.MaxDepth
	}
	if override.AdaptiveMinSamples != 0 {
		result.AdaptiveMinSamples = override.AdaptiveMinSamples
	}
	if override.AdaptiveThreshold != 0 {
		result.AdaptiveThreshold = override.AdaptiveThreshold
	}
	return result
}

// ToRGBA converts a linear color to 8-bit RGBA with gamma 2 and clamping
func ToRGBA(colorVec core.Color) color.RGBA {
	// NaN samples render black
	colorVec = core.NewColor(zeroIfNaN(colorVec.X), zeroIfNaN(colorVec.Y), zeroIfNaN(colorVec.Z))
	colorVec = colorVec.Clamp(0.0, 1.0)
	colorVec = colorVec.GammaCorrect(2.0)
	colorVec = colorVec.Clamp(0.0, 0.999)

	return color.RGBA{
		R: uint8(256 * colorVec.X),
		G: uint8(256 * colorVec.Y),
		B: uint8(256 * colorVec.Z),
		A: 255,
	}
}

func zeroIfNaN(x float64) float64 {
	if math.IsNaN(x) {
		return 0
	}
	return x
}

// pixelRay returns a jittered camera ray through pixel (i, j), j counted from the top row
func pixelRay(camera *Camera, i, j, width, height int, sampler core.Sampler) core.Ray {
	jitter := sampler.Get2D()
	u := (float64(i) + jitter.X) / float64(width)
	v := (float64(height-1-j) + jitter.Y) / float64(height)
	return camera.GetRay(u, v, sampler)
}

// RenderPass renders the image with a fixed number of samples per pixel
func (rt *Raytracer) RenderPass() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, rt.width, rt.height))
	camera := rt.scene.GetCamera()
	world := rt.scene.GetWorld()
	samples := max(1, rt.config.SamplesPerPixel)

	// Bottom row first, so the random sequence matches the classic scanline order
	for j := rt.height - 1; j >= 0; j-- {
		for i := 0; i < rt.width; i++ {
			colorAccum := core.Color{}

			for sample := 0; sample < samples; sample++ {
				ray := pixelRay(camera, i, j, rt.width, rt.height, rt.sampler)
				colorAccum = colorAccum.Add(rt.integrator.RayColor(ray, world, rt.config.MaxDepth, rt.sampler))
			}

			img.SetRGBA(i, j, ToRGBA(colorAccum.Divide(float64(samples))))
		}
	}

	return img
}
