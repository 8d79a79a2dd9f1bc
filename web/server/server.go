package server

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"log"
	"math"
	"net/http"
	"net/url"
	"strconv"

	"github.com/df07/go-weekend-raytracer/pkg/renderer"
	"github.com/df07/go-weekend-raytracer/pkg/scene"
)

const (
	DefaultTileSize = 64
	DefaultScene    = "default"
)

// Server handles web requests for the progressive raytracer
type Server struct {
	port      int
	scenesDir string
	static    fs.FS
}

// NewServer creates a new web server. Scene files are discovered in scenesDir and
// static assets are served from static when it is non-nil.
func NewServer(port int, scenesDir string, static fs.FS) *Server {
	return &Server{port: port, scenesDir: scenesDir, static: static}
}

// RenderRequest represents a render request from the client
type RenderRequest struct {
	Scene              string  `json:"scene"`              // Built-in scene name or scene file ID
	Width              int     `json:"width"`              // Image width
	Height             int     `json:"height"`             // Image height, derived from the scene aspect ratio
	MaxSamples         int     `json:"maxSamples"`         // Maximum samples per pixel
	MaxPasses          int     `json:"maxPasses"`          // Maximum number of passes
	MaxDepth           int     `json:"maxDepth"`           // Maximum bounce depth
	AdaptiveMinSamples float64 `json:"adaptiveMinSamples"` // Fraction of max samples taken before adaptive stopping
	AdaptiveThreshold  float64 `json:"adaptiveThreshold"`  // Adaptive sampling relative error threshold
	Seed               int64   `json:"seed"`
}

// Handler returns the HTTP routes served by the server
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	if s.static != nil {
		mux.Handle("/", http.FileServer(http.FS(s.static)))
	}

	mux.HandleFunc("/api/render", s.handleRender)
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/scenes", s.handleScenes)
	mux.HandleFunc("/api/scene-config", s.handleSceneConfig)
	mux.HandleFunc("/api/inspect", s.handleInspect)
	return mux
}

// Start starts the web server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	log.Printf("Starting web server on http://localhost%s", addr)
	return http.ListenAndServe(addr, s.Handler())
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleScenes lists built-in scenes and scene files
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	scenes, err := scene.ListAllScenes(s.scenesDir)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, scenes)
}

// handleSceneConfig returns the default configuration for a scene
func (s *Server) handleSceneConfig(w http.ResponseWriter, r *http.Request) {
	sceneName := r.URL.Query().Get("scene")
	if sceneName == "" {
		sceneName = DefaultScene
	}

	sceneObj, err := s.createScene(sceneName, 0)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	config := sceneObj.GetSamplingConfig()
	response := map[string]interface{}{
		"scene": sceneName,
		"defaults": map[string]interface{}{
			"width":              config.Width,
			"height":             config.Height,
			"samplesPerPixel":    config.SamplesPerPixel,
			"maxDepth":           config.MaxDepth,
			"adaptiveMinSamples": config.AdaptiveMinSamples,
			"adaptiveThreshold":  config.AdaptiveThreshold,
		},
		"limits": map[string]interface{}{
			"width":              map[string]int{"min": 16, "max": 2000},
			"maxSamples":         map[string]int{"min": 1, "max": 10000},
			"maxPasses":          map[string]int{"min": 1, "max": 10000},
			"maxDepth":           map[string]int{"min": 1, "max": 500},
			"adaptiveMinSamples": map[string]float64{"min": 0.01, "max": 1.0},
			"adaptiveThreshold":  map[string]float64{"min": 0, "max": 0.5},
		},
	}

	writeJSON(w, http.StatusOK, response)
}

// createScene resolves a scene by built-in name or by a scene file listed in scenesDir.
// Arbitrary paths are rejected so requests cannot read files outside the scenes directory.
func (s *Server) createScene(sceneName string, width int) (*scene.Scene, error) {
	var overrides []renderer.CameraConfig
	if width > 0 {
		overrides = append(overrides, renderer.CameraConfig{Width: width})
	}

	files, err := scene.ListSceneFiles(s.scenesDir)
	if err != nil {
		return nil, err
	}
	for _, info := range files {
		if info.ID == sceneName {
			return scene.Create(info.FilePath, overrides...)
		}
	}

	for _, info := range scene.BuiltinScenes() {
		if info.ID == sceneName {
			return scene.Create(sceneName, overrides...)
		}
	}
	return nil, fmt.Errorf("%w: %q", scene.ErrUnknownScene, sceneName)
}

// parseRenderRequest parses request parameters
func (s *Server) parseRenderRequest(r *http.Request) (*RenderRequest, error) {
	query := r.URL.Query()
	req := &RenderRequest{Scene: query.Get("scene")}
	if req.Scene == "" {
		req.Scene = DefaultScene
	}

	var err error
	if req.Width, err = parseIntParam(query, "width", 400, 16, 2000); err != nil {
		return nil, err
	}
	if req.MaxSamples, err = parseIntParam(query, "maxSamples", 50, 1, 10000); err != nil {
		return nil, err
	}
	if req.MaxPasses, err = parseIntParam(query, "maxPasses", 7, 1, 10000); err != nil {
		return nil, err
	}
	if req.MaxDepth, err = parseIntParam(query, "maxDepth", 50, 1, 500); err != nil {
		return nil, err
	}
	if req.AdaptiveMinSamples, err = parseFloatParam(query, "adaptiveMinSamples", 0.15, 0.01, 1.0); err != nil {
		return nil, err
	}
	if req.AdaptiveThreshold, err = parseFloatParam(query, "adaptiveThreshold", 0.01, 0, 0.5); err != nil {
		return nil, err
	}
	seed, err := parseIntParam(query, "seed", 42, 0, 1<<31-1)
	if err != nil {
		return nil, err
	}
	req.Seed = int64(seed)

	if req.Width > 800 && req.MaxSamples > 100 {
		log.Printf("Render warning: Large image with high samples may render slowly")
	}

	return req, nil
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// parseFloatParam parses a float parameter from URL query with validation
func parseFloatParam(values url.Values, key string, defaultValue, min, max float64) (float64, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil || math.IsNaN(parsed) {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %f and %f, got: %f", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}
