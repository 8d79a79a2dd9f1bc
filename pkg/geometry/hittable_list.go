package geometry

import (
	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/material"
)

// HittableList is the world: an ordered collection of shapes searched for the nearest hit
type HittableList struct {
	shapes []Shape
}

// NewHittableList creates a list containing the given shapes
func NewHittableList(shapes ...Shape) *HittableList {
	return &HittableList{shapes: append([]Shape(nil), shapes...)}
}

// Add appends shapes to the list
func (l *HittableList) Add(shapes ...Shape) {
	l.shapes = append(l.shapes, shapes...)
}

// Len returns the number of shapes in the list
func (l *HittableList) Len() int {
	return len(l.shapes)
}

// Shapes returns the shapes in insertion order
func (l *HittableList) Shapes() []Shape {
	return l.shapes
}

// Hit returns the closest intersection among all shapes within (tMin, tMax)
func (l *HittableList) Hit(ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool) {
	hit, index := l.HitIndex(ray, tMin, tMax)
	return hit, index >= 0
}

// HitIndex returns the closest intersection and the index of the shape that produced it,
// or -1 on a miss. On equal t the earlier shape wins.
func (l *HittableList) HitIndex(ray core.Ray, tMin, tMax float64) (*material.HitRecord, int) {
	var closestHit *material.HitRecord
	closestIndex := -1
	closestSoFar := tMax

	for i, shape := range l.shapes {
		// Shrinking tMax keeps later shapes from accepting farther hits
		if hit, isHit := shape.Hit(ray, tMin, closestSoFar); isHit {
			closestSoFar = hit.T
			closestHit = hit
			closestIndex = i
		}
	}

	return closestHit, closestIndex
}
