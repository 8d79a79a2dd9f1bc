package scene

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/df07/go-weekend-raytracer/pkg/loaders"
	"github.com/df07/go-weekend-raytracer/pkg/renderer"
)

// ErrUnknownScene is returned by Create for names that are neither built in nor a scene file
var ErrUnknownScene = errors.New("unknown scene")

// SceneInfo represents a discovered scene with its metadata
type SceneInfo struct {
	ID          string `json:"id"`          // Name accepted by Create
	Name        string `json:"name"`        // Display name
	Description string `json:"description"` // Optional description
	Type        string `json:"type"`        // "builtin" or "json"
	FilePath    string `json:"filePath"`    // Path to the scene file (json type only)
}

type builtinScene struct {
	info SceneInfo
	new  func(cameraOverrides ...renderer.CameraConfig) *Scene
}

var builtinScenes = map[string]builtinScene{
	"default": {
		info: SceneInfo{
			ID:          "default",
			Name:        "Default Scene",
			Description: "Diffuse, glass and metal spheres on a ground sphere",
			Type:        "builtin",
		},
		new: NewDefaultScene,
	},
	"materials": {
		info: SceneInfo{
			ID:          "materials",
			Name:        "Materials",
			Description: "One sphere per material with a hollow glass shell and depth of field",
			Type:        "builtin",
		},
		new: NewMaterialsScene,
	},
	"random": {
		info: SceneInfo{
			ID:          "random",
			Name:        "Random Spheres",
			Description: "Field of random small spheres around three large ones",
			Type:        "builtin",
		},
		new: func(cameraOverrides ...renderer.CameraConfig) *Scene {
			return NewRandomScene(DefaultRandomSceneSeed, cameraOverrides...)
		},
	},
}

// Create builds a scene by built-in name, or loads it from a path ending in .json
func Create(name string, cameraOverrides ...renderer.CameraConfig) (*Scene, error) {
	var s *Scene

	if isSceneFile(name) {
		var err error
		s, err = NewJSONScene(name, cameraOverrides...)
		if err != nil {
			return nil, err
		}
	} else {
		builtin, ok := builtinScenes[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownScene, name)
		}
		s = builtin.new(cameraOverrides...)
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// BuiltinScenes returns the built-in scenes sorted by ID
func BuiltinScenes() []SceneInfo {
	scenes := make([]SceneInfo, 0, len(builtinScenes))
	for _, builtin := range builtinScenes {
		scenes = append(scenes, builtin.info)
	}
	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].ID < scenes[j].ID
	})
	return scenes
}

// ListSceneFiles scans dir for JSON scene files. A missing directory yields no scenes.
func ListSceneFiles(dir string) ([]SceneInfo, error) {
	if _, err := os.Stat(dir); errors.Is(err, os.ErrNotExist) {
		return []SceneInfo{}, nil
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan scenes directory: %w", err)
	}

	scenes := make([]SceneInfo, 0, len(files))
	for _, filePath := range files {
		scenes = append(scenes, sceneFileInfo(filePath))
	}

	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].Name < scenes[j].Name
	})
	return scenes, nil
}

// ListAllScenes returns built-in scenes followed by scene files found in dir
func ListAllScenes(dir string) ([]SceneInfo, error) {
	files, err := ListSceneFiles(dir)
	if err != nil {
		return nil, err
	}
	return append(BuiltinScenes(), files...), nil
}

// sceneFileInfo reads name and description from a scene file, falling back to the file name
func sceneFileInfo(filePath string) SceneInfo {
	info := SceneInfo{
		ID:       filePath,
		Name:     titleCase(sceneNameFromPath(filePath)),
		Type:     "json",
		FilePath: filePath,
	}

	sceneFile, err := loaders.LoadSceneFile(filePath)
	if err != nil {
		info.Description = fmt.Sprintf("unreadable: %v", err)
		return info
	}
	if sceneFile.Name != "" {
		info.Name = sceneFile.Name
	}
	info.Description = sceneFile.Description
	return info
}

func isSceneFile(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".json")
}

// titleCase converts a filename-style string to title case
// e.g., "two-spheres" -> "Two Spheres"
func titleCase(s string) string {
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	words := strings.Fields(s)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
	}

	return strings.Join(words, " ")
}
