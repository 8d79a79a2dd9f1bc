package integrator

import (
	"math"

	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/geometry"
)

// TMin is the smallest ray parameter accepted for a hit; it avoids shadow acne
// from re-hitting the surface a ray just left
const TMin = 0.001

// Background is the sky gradient returned for rays that escape the scene
type Background struct {
	Top    core.Color // Color looking straight up
	Bottom core.Color // Color looking straight down
}

// DefaultBackground returns the white-to-sky-blue gradient
func DefaultBackground() Background {
	return Background{
		Top:    core.NewColor(0.5, 0.7, 1.0),
		Bottom: core.NewColor(1.0, 1.0, 1.0),
	}
}

// Color returns the gradient color for a ray direction
func (b Background) Color(r core.Ray) core.Color {
	unitDirection := r.Direction.Normalize()

	// Map y from [-1,1] to [0,1]
	t := 0.5 * (unitDirection.Y + 1.0)

	// Linear interpolation: (1-t)*bottom + t*top
	return b.Bottom.Multiply(1.0 - t).Add(b.Top.Multiply(t))
}

// PathTracingIntegrator implements recursive unidirectional path tracing
// with material scattering only (no light sampling)
type PathTracingIntegrator struct {
	background Background
}

// NewPathTracingIntegrator creates a new path tracing integrator
func NewPathTracingIntegrator(background Background) *PathTracingIntegrator {
	return &PathTracingIntegrator{background: background}
}

// RayColor computes the color for a single ray
func (pt *PathTracingIntegrator) RayColor(ray core.Ray, world geometry.Shape, depth int, sampler core.Sampler) core.Color {
	// If we've exceeded the ray bounce limit, no more light is gathered
	if depth <= 0 {
		return core.Color{}
	}

	hit, isHit := world.Hit(ray, TMin, math.Inf(1))
	if !isHit {
		return pt.background.Color(ray)
	}

	scatter, didScatter := hit.Material.Scatter(ray, *hit, sampler)
	if !didScatter {
		return core.Color{} // Material absorbed the ray
	}

	return scatter.Attenuation.MultiplyVec(
		pt.RayColor(scatter.Scattered, world, depth-1, sampler))
}

// RayColor traces a ray against the world using the default sky background
func RayColor(ray core.Ray, world geometry.Shape, maxDepth int, sampler core.Sampler) core.Color {
	return NewPathTracingIntegrator(DefaultBackground()).RayColor(ray, world, maxDepth, sampler)
}
