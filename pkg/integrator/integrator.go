package integrator

import (
	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/geometry"
)

// Integrator defines the interface for light transport algorithms
type Integrator interface {
	// RayColor computes the color carried back along a ray, bouncing at most depth times
	RayColor(ray core.Ray, world geometry.Shape, depth int, sampler core.Sampler) core.Color
}
