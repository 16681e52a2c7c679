package scene

import (
	"errors"
	"fmt"
	"sort"

	"github.com/df07/go-tile-raytracer/pkg/renderer"
)

// ErrUnknownScene is returned by New for an unregistered scene id
var ErrUnknownScene = errors.New("scene: unknown scene")

// SceneInfo describes a built-in scene
type SceneInfo struct {
	ID          string `json:"id"`          // Unique identifier
	DisplayName string `json:"displayName"` // UI display name
	Description string `json:"description"` // Short description
}

// builder creates a scene with optional camera overrides
type builder func(cameraOverrides ...renderer.CameraConfig) (*Scene, error)

type entry struct {
	info  SceneInfo
	build builder
}

// infallible adapts a builder that cannot fail
func infallible(fn func(...renderer.CameraConfig) *Scene) builder {
	return func(cameraOverrides ...renderer.CameraConfig) (*Scene, error) {
		return fn(cameraOverrides...), nil
	}
}

var registry = map[string]entry{
	"default": {
		info:  SceneInfo{ID: "default", DisplayName: "Default", Description: "Spheres of mixed materials on a large ground"},
		build: infallible(NewDefaultScene),
	},
	"cornell": {
		info:  SceneInfo{ID: "cornell", DisplayName: "Cornell Box", Description: "Rectangle-walled Cornell box with a ceiling light"},
		build: infallible(NewCornellScene),
	},
	"spheregrid": {
		info:  SceneInfo{ID: "spheregrid", DisplayName: "Sphere Grid", Description: fmt.Sprintf("%dx%d grid of metal spheres", SphereGridSize, SphereGridSize)},
		build: infallible(NewSphereGridScene),
	},
	"trianglemesh": {
		info:  SceneInfo{ID: "trianglemesh", DisplayName: "Triangle Meshes", Description: "Flat and smooth-shaded triangle meshes"},
		build: NewTriangleMeshScene,
	},
}

// List returns every built-in scene sorted by id
func List() []SceneInfo {
	scenes := make([]SceneInfo, 0, len(registry))
	for _, e := range registry {
		scenes = append(scenes, e.info)
	}
	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].ID < scenes[j].ID
	})
	return scenes
}

// New builds the scene registered under id
func New(id string, cameraOverrides ...renderer.CameraConfig) (*Scene, error) {
	e, ok := registry[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownScene, id)
	}
	return e.build(cameraOverrides...)
}
