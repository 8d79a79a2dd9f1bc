package material

import (
	"github.com/df07/go-weekend-raytracer/pkg/core"
)

// sequenceSampler replays a fixed list of values, cycling when exhausted
type sequenceSampler struct {
	values []float64
	next   int
}

func newSequenceSampler(values ...float64) *sequenceSampler {
	return &sequenceSampler{values: values}
}

func (s *sequenceSampler) Get1D() float64 {
	v := s.values[s.next%len(s.values)]
	s.next++
	return v
}

func (s *sequenceSampler) Get2D() core.Vec2 {
	return core.NewVec2(s.Get1D(), s.Get1D())
}

func (s *sequenceSampler) Get3D() core.Vec3 {
	return core.NewVec3(s.Get1D(), s.Get1D(), s.Get1D())
}

// upHit returns a front-face hit at the origin on a surface facing +Y
func upHit(m Material) HitRecord {
	return HitRecord{
		Point:     core.NewVec3(0, 0, 0),
		Normal:    core.NewVec3(0, 1, 0),
		T:         1.0,
		FrontFace: true,
		Material:  m,
	}
}

// componentsAtMost reports whether every component of a is <= the matching component of b
func componentsAtMost(a, b core.Vec3) bool {
	return a.X <= b.X && a.Y <= b.Y && a.Z <= b.Z
}
