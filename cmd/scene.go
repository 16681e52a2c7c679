package cmd

import (
	"bytes"

	"github.com/df07/go-tile-raytracer/pkg/scene"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// ListScenes prints the built-in scenes.
func ListScenes(ctx *cli.Context) error {
	setupLogging(ctx)

	var buf bytes.Buffer
	sceneTable(&buf, scene.List())
	_, err := ctx.App.Writer.Write(buf.Bytes())
	return err
}

func sceneTable(buf *bytes.Buffer, scenes []scene.SceneInfo) {
	table := tablewriter.NewWriter(buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"ID", "Name", "Description"})
	for _, info := range scenes {
		table.Append([]string{info.ID, info.DisplayName, info.Description})
	}
	table.Render()
}
