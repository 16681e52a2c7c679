package server

import (
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/df07/go-tile-raytracer/pkg/core"
	"github.com/df07/go-tile-raytracer/pkg/geometry"
	"github.com/df07/go-tile-raytracer/pkg/material"
)

// InspectResponse represents the JSON response for object inspection
type InspectResponse struct {
	Hit          bool                   `json:"hit"`
	MaterialType string                 `json:"materialType,omitempty"`
	GeometryType string                 `json:"geometryType,omitempty"`
	Point        [3]float64             `json:"point"`
	Normal       [3]float64             `json:"normal"`
	Distance     float64                `json:"distance"`
	FrontFace    bool                   `json:"frontFace"`
	Pixel        [3]float64             `json:"pixel"`      // Current film color
	Generation   uint64                 `json:"generation"` // Generation of the film pixel
	Properties   map[string]interface{} `json:"properties"`
}

func vec(v core.Vec3) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

func hexColor(v core.Vec3) string {
	c := v.Clamp(0, 1)
	return fmt.Sprintf("#%02x%02x%02x", int(c.X*255), int(c.Y*255), int(c.Z*255))
}

// extractMaterialInfo describes mat as seen at point
func extractMaterialInfo(mat geometry.Material, point core.Vec3) (string, map[string]interface{}) {
	properties := make(map[string]interface{})

	switch m := mat.(type) {
	case *material.Lambertian:
		albedo := m.Albedo.Evaluate(point)
		properties["albedo"] = vec(albedo)
		properties["color"] = hexColor(albedo)
		return "lambertian", properties

	case *material.Metal:
		properties["albedo"] = vec(m.Albedo)
		properties["color"] = hexColor(m.Albedo)
		properties["fuzzness"] = m.Fuzzness
		return "metal", properties

	case *material.Dielectric:
		properties["refractiveIndex"] = m.RefractiveIndex
		properties["color"] = "#ffffff" // Clear glass
		return "dielectric", properties

	case *material.Emissive:
		properties["emission"] = vec(m.Emission)
		properties["color"] = hexColor(m.Emission)
		properties["twoSided"] = m.TwoSided
		return "emissive", properties

	case *material.Mix:
		material1Type, material1Props := extractMaterialInfo(m.Material1, point)
		material2Type, material2Props := extractMaterialInfo(m.Material2, point)
		properties["material1"] = map[string]interface{}{
			"type":       material1Type,
			"properties": material1Props,
		}
		properties["material2"] = map[string]interface{}{
			"type":       material2Type,
			"properties": material2Props,
		}
		properties["ratio"] = m.Ratio
		properties["description"] = fmt.Sprintf("%.0f%% %s, %.0f%% %s",
			(1-m.Ratio)*100, material1Type, m.Ratio*100, material2Type)
		return "mixed", properties

	case nil:
		return "none", properties

	default:
		return "unknown", properties
	}
}

// extractGeometryInfo describes a top-level scene shape
func extractGeometryInfo(shape geometry.Shape) (string, map[string]interface{}) {
	properties := make(map[string]interface{})

	switch geom := shape.(type) {
	case *geometry.Sphere:
		properties["center"] = vec(geom.Center)
		properties["radius"] = geom.Radius
		return "sphere", properties

	case *geometry.Triangle:
		properties["vertices"] = [3][3]float64{vec(geom.V0), vec(geom.V1), vec(geom.V2)}
		properties["normal"] = vec(geom.Normal())
		return "triangle", properties

	case *geometry.Rect:
		properties["plane"] = geom.Plane.String()
		properties["a"] = [2]float64{geom.A0, geom.A1}
		properties["b"] = [2]float64{geom.B0, geom.B1}
		properties["k"] = geom.K
		properties["normal"] = vec(geom.Normal())
		return "rect", properties

	case *geometry.BVH:
		stats := geom.Stats()
		properties["nodes"] = stats.TotalNodes
		properties["leaves"] = stats.LeafNodes
		properties["maxDepth"] = stats.MaxDepth
		return "bvh", properties

	case *geometry.ShapeList:
		properties["shapes"] = len(geom.Shapes)
		return "list", properties

	default:
		return "unknown", properties
	}
}

// inspectPixel casts a ray through the center of pixel (x, y) with the
// current camera and returns the closest hit and the top-level shape owning it
func (s *Server) inspectPixel(x, y int) (*geometry.HitRecord, geometry.Shape, bool) {
	settings := s.scheduler.Settings()
	center := core.NewVec2(0.5, 0.5)
	ray, _ := settings.Camera.RayForSample(x, y, center, center)

	hit, ok := settings.Scene.Hit(ray, 0.001, math.Inf(1))
	if !ok {
		return nil, nil, false
	}

	// The BVH does not report which shape was hit
	for _, shape := range s.scene.Shapes {
		if shapeHit, shapeIsHit := shape.Hit(ray, 0.001, math.Inf(1)); shapeIsHit && shapeHit.T == hit.T {
			return hit, shape, true
		}
	}
	return hit, nil, true
}

// handleInspect handles ray casting inspection requests
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	film := s.scheduler.Film()

	pixelX, err := strconv.Atoi(r.URL.Query().Get("x"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid x coordinate")
		return
	}
	pixelY, err := strconv.Atoi(r.URL.Query().Get("y"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid y coordinate")
		return
	}
	if pixelX < 0 || pixelX >= film.Width() || pixelY < 0 || pixelY >= film.Height() {
		writeError(w, http.StatusBadRequest, "pixel coordinates out of bounds")
		return
	}

	pixel := film.Pixel(pixelX, pixelY)
	response := InspectResponse{
		Pixel:      vec(pixel.Value()),
		Generation: pixel.Generation,
	}

	hit, shape, ok := s.inspectPixel(pixelX, pixelY)
	if !ok {
		writeJSON(w, http.StatusOK, response)
		return
	}

	materialType, materialProps := extractMaterialInfo(hit.Material, hit.Point)
	geometryType, geometryProps := extractGeometryInfo(shape)

	response.Hit = true
	response.MaterialType = materialType
	response.GeometryType = geometryType
	response.Point = vec(hit.Point)
	response.Normal = vec(hit.Normal)
	response.Distance = hit.T
	response.FrontFace = hit.FrontFace
	response.Properties = map[string]interface{}{
		"material": materialProps,
		"geometry": geometryProps,
	}
	writeJSON(w, http.StatusOK, response)
}
