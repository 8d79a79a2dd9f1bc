package renderer

import (
	"testing"

	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/geometry"
	"github.com/df07/go-weekend-raytracer/pkg/integrator"
	"github.com/df07/go-weekend-raytracer/pkg/material"
)

// MockScene for renderer testing
type MockScene struct {
	camera     *Camera
	world      geometry.Shape
	background integrator.Background
	config     SamplingConfig
}

func (m *MockScene) GetCamera() *Camera                   { return m.camera }
func (m *MockScene) GetWorld() geometry.Shape             { return m.world }
func (m *MockScene) GetBackground() integrator.Background { return m.background }
func (m *MockScene) GetSamplingConfig() SamplingConfig    { return m.config }

// createMockScene creates a small scene with one diffuse sphere under the default sky
func createMockScene(width, height int) *MockScene {
	camera := NewCamera(CameraConfig{
		Center:      core.NewVec3(0, 0, 0),
		LookAt:      core.NewVec3(0, 0, -1),
		Up:          core.NewVec3(0, 1, 0),
		Width:       width,
		AspectRatio: float64(width) / float64(height),
		VFov:        90.0,
	})

	sphere := geometry.MustSphere(core.NewVec3(0, 0, -1), 0.5, material.NewLambertian(core.NewColor(0.5, 0.5, 0.5)))

	return &MockScene{
		camera:     camera,
		world:      geometry.NewHittableList(sphere),
		background: integrator.DefaultBackground(),
		config: SamplingConfig{
			Width:           width,
			Height:          height,
			SamplesPerPixel: 4,
			MaxDepth:        10,
		},
	}
}

// createSkyScene creates a scene with nothing but background
func createSkyScene(width, height int) *MockScene {
	scene := createMockScene(width, height)
	scene.world = geometry.NewHittableList()
	return scene
}

// noRandomSampler fails the test if any randomness is requested
type noRandomSampler struct {
	t *testing.T
}

func (s noRandomSampler) Get1D() float64 {
	s.t.Fatal("unexpected Get1D call")
	return 0
}

func (s noRandomSampler) Get2D() core.Vec2 {
	s.t.Fatal("unexpected Get2D call")
	return core.Vec2{}
}

func (s noRandomSampler) Get3D() core.Vec3 {
	s.t.Fatal("unexpected Get3D call")
	return core.Vec3{}
}

// recordingLogger captures log lines for assertions
type recordingLogger struct {
	lines []string
}

func (l *recordingLogger) Printf(format string, args ...interface{}) {
	l.lines = append(l.lines, format)
}

func vecApproxEqual(a, b core.Vec3, tolerance float64) bool {
	return a.Subtract(b).Length() <= tolerance
}
