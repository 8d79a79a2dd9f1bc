package loaders

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/image/colornames"

	"github.com/df07/go-weekend-raytracer/pkg/core"
)

// ErrInvalidSceneFile is returned when a scene file parses but cannot describe a scene
var ErrInvalidSceneFile = errors.New("invalid scene file")

// Material types accepted in scene files
const (
	MaterialLambertian = "lambertian"
	MaterialMetal      = "metal"
	MaterialDielectric = "dielectric"
)

// Triple is a JSON [x, y, z] array
type Triple [3]float64

// Vec3 converts the triple to a vector
func (t Triple) Vec3() core.Vec3 {
	return core.NewVec3(t[0], t[1], t[2])
}

// ColorSpec is a color written either as [r, g, b] in [0, 1] or as an SVG color name
type ColorSpec struct {
	core.Color
}

// UnmarshalJSON accepts "steelblue" or [0.27, 0.51, 0.71]
func (c *ColorSpec) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return err
		}
		rgba, ok := colornames.Map[strings.ToLower(name)]
		if !ok {
			return fmt.Errorf("unknown color name %q", name)
		}
		c.Color = core.ColorFromRGBA(rgba)
		return nil
	}

	var rgb Triple
	if err := json.Unmarshal(data, &rgb); err != nil {
		return fmt.Errorf("color must be a name or [r, g, b]: %w", err)
	}
	c.Color = rgb.Vec3()
	return nil
}

// CameraSpec mirrors renderer.CameraConfig; zero fields take scene defaults
type CameraSpec struct {
	LookFrom      *Triple `json:"lookFrom,omitempty"`
	LookAt        *Triple `json:"lookAt,omitempty"`
	Up            *Triple `json:"up,omitempty"`
	Width         int     `json:"width,omitempty"`
	AspectRatio   float64 `json:"aspectRatio,omitempty"`
	VFov          float64 `json:"vfov,omitempty"`
	Aperture      float64 `json:"aperture,omitempty"`
	FocusDistance float64 `json:"focusDistance,omitempty"`
}

// SamplingSpec mirrors renderer.SamplingConfig
type SamplingSpec struct {
	SamplesPerPixel    int     `json:"samplesPerPixel,omitempty"`
	MaxDepth           int     `json:"maxDepth,omitempty"`
	AdaptiveMinSamples float64 `json:"adaptiveMinSamples,omitempty"`
	AdaptiveThreshold  float64 `json:"adaptiveThreshold,omitempty"`
}

// BackgroundSpec is the sky gradient
type BackgroundSpec struct {
	Top    ColorSpec `json:"top"`
	Bottom ColorSpec `json:"bottom"`
}

// MaterialSpec describes one named material
type MaterialSpec struct {
	Type            string    `json:"type"`
	Albedo          ColorSpec `json:"albedo"`
	Fuzz            float64   `json:"fuzz,omitempty"`
	RefractiveIndex float64   `json:"ior,omitempty"`
}

// SphereSpec places a sphere using a named material
type SphereSpec struct {
	Center   Triple  `json:"center"`
	Radius   float64 `json:"radius"`
	Material string  `json:"material"`
}

// SceneFile is the parsed form of a JSON scene description
type SceneFile struct {
	Name        string                  `json:"name,omitempty"`
	Description string                  `json:"description,omitempty"`
	Camera      CameraSpec              `json:"camera"`
	Sampling    SamplingSpec            `json:"sampling"`
	Background  *BackgroundSpec         `json:"background,omitempty"`
	Materials   map[string]MaterialSpec `json:"materials"`
	Spheres     []SphereSpec            `json:"spheres"`
}

// LoadSceneFile reads and validates a JSON scene file
func LoadSceneFile(path string) (*SceneFile, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open scene file: %w", err)
	}
	defer file.Close()

	sceneFile, err := ParseSceneFile(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sceneFile, nil
}

// ParseSceneFile decodes and validates a JSON scene description
func ParseSceneFile(r io.Reader) (*SceneFile, error) {
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()

	var sceneFile SceneFile
	if err := decoder.Decode(&sceneFile); err != nil {
		return nil, fmt.Errorf("failed to parse scene file: %w", err)
	}

	if err := sceneFile.Validate(); err != nil {
		return nil, err
	}
	return &sceneFile, nil
}

// Validate checks material definitions and references
func (f *SceneFile) Validate() error {
	for name, mat := range f.Materials {
		switch mat.Type {
		case MaterialLambertian:
		case MaterialMetal:
			if mat.Fuzz < 0 {
				return fmt.Errorf("%w: material %q has negative fuzz %v", ErrInvalidSceneFile, name, mat.Fuzz)
			}
		case MaterialDielectric:
			if !(mat.RefractiveIndex > 0) {
				return fmt.Errorf("%w: material %q needs a positive ior, got %v", ErrInvalidSceneFile, name, mat.RefractiveIndex)
			}
		default:
			return fmt.Errorf("%w: material %q has unknown type %q", ErrInvalidSceneFile, name, mat.Type)
		}
	}

	for i, sphere := range f.Spheres {
		if _, ok := f.Materials[sphere.Material]; !ok {
			return fmt.Errorf("%w: sphere %d references undefined material %q", ErrInvalidSceneFile, i, sphere.Material)
		}
	}

	return nil
}
