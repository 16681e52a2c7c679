package cmd

import (
	"fmt"

	"github.com/df07/go-tile-raytracer/pkg/integrator"
	"github.com/df07/go-tile-raytracer/pkg/renderer"
	"github.com/df07/go-tile-raytracer/pkg/scene"
	"github.com/urfave/cli"
)

// RenderFlags are shared by every command that starts a render
var RenderFlags = []cli.Flag{
	cli.StringFlag{
		Name:  "scene, s",
		Value: "default",
		Usage: "built-in scene id (see list-scenes)",
	},
	cli.IntFlag{
		Name:  "width",
		Value: 400,
		Usage: "frame width",
	},
	cli.IntFlag{
		Name:  "height",
		Usage: "frame height (0 keeps the scene's aspect ratio)",
	},
	cli.IntFlag{
		Name:  "spp",
		Usage: "samples per pixel (0 uses the scene's budget)",
	},
	cli.IntFlag{
		Name:  "depth",
		Usage: "maximum ray depth (0 uses the scene's value)",
	},
	cli.StringFlag{
		Name:  "integrator, i",
		Value: "path-tracing",
		Usage: "shading integrator: path-tracing or normal",
	},
	cli.IntFlag{
		Name:  "workers, w",
		Usage: "number of render workers (0 uses every CPU)",
	},
	cli.IntFlag{
		Name:  "tile-size",
		Value: 32,
		Usage: "approximate tile edge in pixels",
	},
	cli.IntFlag{
		Name:  "samples-per-visit",
		Value: 1,
		Usage: "passes a worker renders each time it takes a tile",
	},
}

// renderOptions is the parsed form of RenderFlags
type renderOptions struct {
	Scene           string
	Width           int
	Height          int
	SamplesPerPixel int
	MaxDepth        int
	Integrator      string
	Workers         int
	TileSize        int
	SamplesPerVisit int
}

func renderOptionsFromContext(ctx *cli.Context) renderOptions {
	return renderOptions{
		Scene:           ctx.String("scene"),
		Width:           ctx.Int("width"),
		Height:          ctx.Int("height"),
		SamplesPerPixel: ctx.Int("spp"),
		MaxDepth:        ctx.Int("depth"),
		Integrator:      ctx.String("integrator"),
		Workers:         ctx.Int("workers"),
		TileSize:        ctx.Int("tile-size"),
		SamplesPerVisit: ctx.Int("samples-per-visit"),
	}
}

// build creates the scene and a scheduler for it. The scheduler is not started.
func (o renderOptions) build() (*scene.Scene, *renderer.Scheduler, error) {
	if o.Width < 1 || o.Height < 0 {
		return nil, nil, fmt.Errorf("invalid frame size %dx%d", o.Width, o.Height)
	}

	override := renderer.CameraConfig{Width: o.Width}
	if o.Height > 0 {
		override.AspectRatio = float64(o.Width) / float64(o.Height)
	}

	sceneObj, err := scene.New(o.Scene, override)
	if err != nil {
		return nil, nil, err
	}
	if o.SamplesPerPixel > 0 {
		sceneObj.SamplesPerPixel = o.SamplesPerPixel
	}
	if o.MaxDepth > 0 {
		sceneObj.MaxDepth = o.MaxDepth
	}

	shader, err := integrator.New(o.Integrator, sceneObj.Background)
	if err != nil {
		return nil, nil, err
	}

	settings, err := sceneObj.Settings(shader)
	if err != nil {
		return nil, nil, err
	}

	config := renderer.DefaultConfig()
	config.Width = sceneObj.CameraConfig.Width
	config.Height = sceneObj.CameraConfig.Height()
	config.TileSize = o.TileSize
	config.NumWorkers = o.Workers
	config.SamplesPerVisit = o.SamplesPerVisit

	scheduler, err := renderer.NewScheduler(config, settings)
	if err != nil {
		return nil, nil, err
	}

	logger.Infof("scene %q: %d primitives, %d spp, depth %d, %s integrator",
		sceneObj.Name, sceneObj.PrimitiveCount(), settings.SamplesPerPixel, settings.MaxDepth, o.Integrator)
	return sceneObj, scheduler, nil
}
