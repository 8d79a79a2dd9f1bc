package material

import (
	"testing"

	"github.com/df07/go-weekend-raytracer/pkg/core"
)

func TestLambertian_AlwaysScattersWithAlbedo(t *testing.T) {
	albedo := core.NewColor(0.5, 0.7, 0.9)
	lambertian := NewLambertian(albedo)
	sampler := core.NewSeededSampler(42)

	hit := upHit(lambertian)
	ray := core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(0, -1, 0))

	for i := 0; i < 1000; i++ {
		scatter, didScatter := lambertian.Scatter(ray, hit, sampler)
		if !didScatter {
			t.Fatal("Lambertian should always scatter")
		}

		if scatter.Attenuation != albedo {
			t.Fatalf("Expected attenuation %v, got %v", albedo, scatter.Attenuation)
		}
		if !componentsAtMost(scatter.Attenuation, albedo) {
			t.Fatalf("Attenuation %v exceeds albedo %v (energy violation)", scatter.Attenuation, albedo)
		}

		if scatter.Scattered.Origin != hit.Point {
			t.Fatalf("Scattered ray should start at hit point, got %v", scatter.Scattered.Origin)
		}

		// normal + unit vector never points below the surface
		if scatter.Scattered.Direction.Dot(hit.Normal) < 0 {
			t.Fatalf("Scattered direction %v points into the surface", scatter.Scattered.Direction)
		}
		if scatter.Scattered.Direction.IsNearZero() {
			t.Fatalf("Scattered direction is degenerate")
		}
	}
}

func TestLambertian_DegenerateDirectionFallsBackToNormal(t *testing.T) {
	lambertian := NewLambertian(core.NewColor(0.8, 0.8, 0.8))

	// (0.5, 0.25, 0.5) maps to (0, -0.5, 0), which normalizes to exactly -normal
	sampler := newSequenceSampler(0.5, 0.25, 0.5)
	hit := upHit(lambertian)
	ray := core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(0, -1, 0))

	scatter, didScatter := lambertian.Scatter(ray, hit, sampler)
	if !didScatter {
		t.Fatal("Lambertian should always scatter")
	}
	if scatter.Scattered.Direction != hit.Normal {
		t.Errorf("Expected fallback to normal %v, got %v", hit.Normal, scatter.Scattered.Direction)
	}
}

func TestLambertian_CosineWeightedDistribution(t *testing.T) {
	lambertian := NewLambertian(core.NewColor(1, 1, 1))
	sampler := core.NewSeededSampler(7)
	hit := upHit(lambertian)
	ray := core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(0, -1, 0))

	// For a cosine-weighted lobe E[cos(theta)] = 2/3
	const n = 20000
	sum := 0.0
	for i := 0; i < n; i++ {
		scatter, _ := lambertian.Scatter(ray, hit, sampler)
		sum += scatter.Scattered.Direction.Normalize().Dot(hit.Normal)
	}
	mean := sum / n
	if mean < 0.64 || mean > 0.69 {
		t.Errorf("Expected mean cosine near 2/3, got %f", mean)
	}
}
