package main

import (
	"os"

	"github.com/df07/go-tile-raytracer/cmd"
	"github.com/df07/go-tile-raytracer/pkg/log"
	"github.com/urfave/cli"
)

func newApp() *cli.App {
	// The default version flag also claims -v
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "go-tile-raytracer"
	app.Usage = "render scenes progressively with a tiled path tracer"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "render",
			Usage: "render a scene to a PNG file",
			Description: `
Cut the frame into tiles and render them in parallel until every tile reaches
the sample budget, or until the time limit expires. The frame is written to
--out, or to output/<scene>/render_<timestamp>.png when no file is given.`,
			Flags: append([]cli.Flag{
				cli.StringFlag{
					Name:  "out, o",
					Usage: "image filename for the rendered frame",
				},
				cli.DurationFlag{
					Name:  "time-limit, t",
					Usage: "stop early and save the partial frame after this long",
				},
			}, cmd.RenderFlags...),
			Action: cmd.Render,
		},
		{
			Name:  "serve",
			Usage: "render a scene interactively behind an HTTP API",
			Description: `
Start rendering and serve the current frame, progress and render controls.
Settings posted to /api/settings restart the render under a new generation.`,
			Flags: append([]cli.Flag{
				cli.IntFlag{
					Name:  "port, p",
					Value: 8080,
					Usage: "port to listen on",
				},
				cli.IntFlag{
					Name:  "console-limit",
					Value: 1000,
					Usage: "log lines kept for /api/console",
				},
			}, cmd.RenderFlags...),
			Action: cmd.Serve,
		},
		{
			Name:   "list-scenes",
			Usage:  "list the built-in scenes",
			Action: cmd.ListScenes,
		},
	}
	return app
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.New("raytracer").Error(err)
		os.Exit(1)
	}
}
