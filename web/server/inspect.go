package server

import (
	"fmt"
	"math"
	"net/http"
	"strconv"

	"golang.org/x/image/colornames"

	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/geometry"
	"github.com/df07/go-weekend-raytracer/pkg/integrator"
	"github.com/df07/go-weekend-raytracer/pkg/material"
	"github.com/df07/go-weekend-raytracer/pkg/scene"
)

// InspectResponse represents the JSON response for object inspection
type InspectResponse struct {
	Hit          bool                   `json:"hit"`
	MaterialType string                 `json:"materialType"`
	GeometryType string                 `json:"geometryType"`
	Point        [3]float64             `json:"point"`
	Normal       [3]float64             `json:"normal"`
	Distance     float64                `json:"distance"`
	FrontFace    bool                   `json:"frontFace"`
	Properties   map[string]interface{} `json:"properties"`
}

// InspectResult contains information about the object hit by an inspection ray
type InspectResult struct {
	Hit       bool
	HitRecord *material.HitRecord
	Shape     geometry.Shape // The shape that was hit
}

// extractMaterialInfo extracts material information with type assertions
func extractMaterialInfo(mat material.Material) (string, map[string]interface{}) {
	properties := make(map[string]interface{})

	switch m := mat.(type) {
	case *material.Lambertian:
		addColorProperties(properties, m.Albedo)
		return "lambertian", properties

	case *material.Metal:
		addColorProperties(properties, m.Albedo)
		properties["fuzz"] = m.Fuzz
		return "metal", properties

	case *material.Dielectric:
		properties["refractiveIndex"] = m.RefractiveIndex
		properties["color"] = "#ffffff" // Clear glass
		return "dielectric", properties

	default:
		return "unknown", properties
	}
}

func addColorProperties(properties map[string]interface{}, c core.Color) {
	properties["albedo"] = [3]float64{c.X, c.Y, c.Z}
	properties["color"] = fmt.Sprintf("#%02x%02x%02x", channelByte(c.X), channelByte(c.Y), channelByte(c.Z))
	properties["colorName"] = nearestColorName(c)
}

func channelByte(v float64) int {
	return int(math.Max(0, math.Min(1, v)) * 255)
}

// nearestColorName returns the SVG color name closest to c in RGB space
func nearestColorName(c core.Color) string {
	best, bestDist := "", math.Inf(1)
	for _, name := range colornames.Names {
		named := colornames.Map[name]
		dr := float64(named.R)/255 - c.X
		dg := float64(named.G)/255 - c.Y
		db := float64(named.B)/255 - c.Z
		if d := dr*dr + dg*dg + db*db; d < bestDist {
			best, bestDist = name, d
		}
	}
	return best
}

// extractGeometryInfo extracts geometry information
func extractGeometryInfo(shape geometry.Shape) (string, map[string]interface{}) {
	properties := make(map[string]interface{})

	switch geom := shape.(type) {
	case *geometry.Sphere:
		properties["center"] = [3]float64{geom.Center.X, geom.Center.Y, geom.Center.Z}
		properties["radius"] = geom.Radius
		return "sphere", properties

	default:
		return "unknown", properties
	}
}

// inspectPixel casts a ray through the center of a pixel and reports the first object hit
func inspectPixel(sceneObj *scene.Scene, width, height, pixelX, pixelY int) InspectResult {
	u := (float64(pixelX) + 0.5) / float64(width)
	v := (float64(height-1-pixelY) + 0.5) / float64(height)

	// Fixed seed so the lens sample is repeatable when depth of field is on
	ray := sceneObj.Camera.GetRay(u, v, core.NewSeededSampler(0))

	hit, index := sceneObj.World.HitIndex(ray, integrator.TMin, math.Inf(1))
	if index < 0 {
		return InspectResult{Hit: false}
	}
	return InspectResult{Hit: true, HitRecord: hit, Shape: sceneObj.World.Shapes()[index]}
}

// handleInspect handles ray casting inspection requests
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	sceneName := query.Get("scene")
	if sceneName == "" {
		sceneName = DefaultScene
	}

	width, err := parseIntParam(query, "width", 400, 16, 2000)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid scene parameters: " + err.Error()})
		return
	}

	pixelX, err := strconv.Atoi(query.Get("x"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid x coordinate"})
		return
	}
	pixelY, err := strconv.Atoi(query.Get("y"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid y coordinate"})
		return
	}

	sceneObj, err := s.createScene(sceneName, width)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	height := sceneObj.SamplingConfig.Height
	if pixelX < 0 || pixelX >= width || pixelY < 0 || pixelY >= height {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Pixel coordinates out of bounds"})
		return
	}

	result := inspectPixel(sceneObj, width, height, pixelX, pixelY)
	if !result.Hit {
		writeJSON(w, http.StatusOK, InspectResponse{Hit: false})
		return
	}

	materialType, materialProps := extractMaterialInfo(result.HitRecord.Material)
	geometryType, geometryProps := extractGeometryInfo(result.Shape)

	response := InspectResponse{
		Hit:          true,
		MaterialType: materialType,
		GeometryType: geometryType,
		Point:        [3]float64{result.HitRecord.Point.X, result.HitRecord.Point.Y, result.HitRecord.Point.Z},
		Normal:       [3]float64{result.HitRecord.Normal.X, result.HitRecord.Normal.Y, result.HitRecord.Normal.Z},
		Distance:     result.HitRecord.T,
		FrontFace:    result.HitRecord.FrontFace,
		Properties: map[string]interface{}{
			"material": materialProps,
			"geometry": geometryProps,
		},
	}

	writeJSON(w, http.StatusOK, response)
}
