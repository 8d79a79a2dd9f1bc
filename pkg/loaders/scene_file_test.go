package loaders

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/df07/go-weekend-raytracer/pkg/core"
)

const testSceneJSON = `{
	"name": "two spheres",
	"camera": {"lookFrom": [0, 1, 3], "lookAt": [0, 0, -1], "vfov": 40, "aperture": 0.1},
	"sampling": {"samplesPerPixel": 16, "maxDepth": 8},
	"background": {"top": "skyblue", "bottom": [1, 1, 1]},
	"materials": {
		"ground": {"type": "lambertian", "albedo": [0.8, 0.8, 0]},
		"gold":   {"type": "metal", "albedo": "gold", "fuzz": 0.3},
		"glass":  {"type": "dielectric", "ior": 1.5}
	},
	"spheres": [
		{"center": [0, -100.5, -1], "radius": 100, "material": "ground"},
		{"center": [1, 0, -1], "radius": 0.5, "material": "gold"},
		{"center": [-1, 0, -1], "radius": 0.5, "material": "glass"}
	]
}`

func TestParseSceneFile(t *testing.T) {
	sceneFile, err := ParseSceneFile(strings.NewReader(testSceneJSON))
	if err != nil {
		t.Fatalf("ParseSceneFile failed: %v", err)
	}

	if sceneFile.Name != "two spheres" || len(sceneFile.Spheres) != 3 || len(sceneFile.Materials) != 3 {
		t.Fatalf("Unexpected scene file contents: %+v", sceneFile)
	}

	if sceneFile.Camera.LookFrom == nil || sceneFile.Camera.LookFrom.Vec3() != core.NewVec3(0, 1, 3) {
		t.Errorf("Unexpected lookFrom %v", sceneFile.Camera.LookFrom)
	}
	if sceneFile.Camera.Up != nil {
		t.Errorf("Omitted up should stay nil, got %v", sceneFile.Camera.Up)
	}
	if sceneFile.Sampling.SamplesPerPixel != 16 || sceneFile.Sampling.MaxDepth != 8 {
		t.Errorf("Unexpected sampling %+v", sceneFile.Sampling)
	}

	// colornames.Gold is (255, 215, 0)
	gold := sceneFile.Materials["gold"].Albedo.Color
	if !colorsClose(gold, core.NewColor(1, 215.0/255.0, 0), 1e-9) {
		t.Errorf("Expected gold albedo, got %v", gold)
	}
	if sceneFile.Background == nil || sceneFile.Background.Bottom.Color != core.NewColor(1, 1, 1) {
		t.Errorf("Unexpected background %+v", sceneFile.Background)
	}
}

func TestParseSceneFileErrors(t *testing.T) {
	tests := []struct {
		name    string
		json    string
		invalid bool // wraps ErrInvalidSceneFile
	}{
		{"malformed", `{"spheres": [`, false},
		{"unknown field", `{"lights": []}`, false},
		{"unknown color", `{"materials": {"m": {"type": "lambertian", "albedo": "notacolor"}}}`, false},
		{"unknown material type", `{"materials": {"m": {"type": "plastic"}}}`, true},
		{"dielectric without ior", `{"materials": {"m": {"type": "dielectric"}}}`, true},
		{"negative fuzz", `{"materials": {"m": {"type": "metal", "fuzz": -1}}}`, true},
		{"undefined material", `{"spheres": [{"center": [0,0,0], "radius": 1, "material": "missing"}]}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSceneFile(strings.NewReader(tt.json))
			if err == nil {
				t.Fatal("Expected error")
			}
			if got := errors.Is(err, ErrInvalidSceneFile); got != tt.invalid {
				t.Errorf("errors.Is(err, ErrInvalidSceneFile) = %v for %v", got, err)
			}
		})
	}
}

func TestLoadSceneFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.json")
	if err := os.WriteFile(path, []byte(testSceneJSON), 0o644); err != nil {
		t.Fatalf("Failed to write scene file: %v", err)
	}

	if _, err := LoadSceneFile(path); err != nil {
		t.Errorf("LoadSceneFile failed: %v", err)
	}

	if _, err := LoadSceneFile(filepath.Join(t.TempDir(), "missing.json")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Expected os.ErrNotExist, got %v", err)
	}
}
