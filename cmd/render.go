package cmd

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"github.com/df07/go-tile-raytracer/pkg/renderer"
	"github.com/df07/go-tile-raytracer/pkg/scene"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// Render a still frame and save it as PNG.
func Render(ctx *cli.Context) error {
	setupLogging(ctx)

	sceneObj, scheduler, err := renderOptionsFromContext(ctx).build()
	if err != nil {
		return err
	}

	runCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	start := time.Now()
	if err := scheduler.Start(runCtx); err != nil {
		return err
	}

	var timeout <-chan time.Time
	if limit := ctx.Duration("time-limit"); limit > 0 {
		timer := time.NewTimer(limit)
		defer timer.Stop()
		timeout = timer.C
	}

	select {
	case <-scheduler.Done():
		logger.Noticef("render completed in %v", time.Since(start))
	case <-scheduler.Failed():
		scheduler.Terminate()
		return fmt.Errorf("render failed: %w", scheduler.Err())
	case <-timeout:
		logger.Warningf("time limit reached at %d/%d spp, saving partial frame",
			scheduler.Progress(), scheduler.Settings().SamplesPerPixel)
	}
	elapsed := time.Since(start)

	stats := scheduler.Stats()
	if err := scheduler.Terminate(); err != nil {
		return err
	}

	filename := outputPath(ctx.String("out"), sceneObj.Name, time.Now())
	if err := writePNG(filename, scheduler.Film()); err != nil {
		return err
	}
	logger.Noticef("wrote frame to %s", filename)

	displayRenderStats(sceneObj, stats, elapsed)
	return nil
}

// outputPath returns out, or output/<scene>/render_<timestamp>.png when out is empty
func outputPath(out, sceneName string, now time.Time) string {
	if out != "" {
		return out
	}
	return filepath.Join("output", sceneName, fmt.Sprintf("render_%s.png", now.Format("20060102_150405")))
}

func writePNG(filename string, film *renderer.Film) error {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}

	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := png.Encode(f, film.Image()); err != nil {
		return fmt.Errorf("encoding png file: %w", err)
	}
	return f.Close()
}

func displayRenderStats(sceneObj *scene.Scene, stats renderer.RenderStats, elapsed time.Duration) {
	var buf bytes.Buffer
	renderStatsTable(&buf, stats, elapsed)
	logger.Noticef("render statistics\n%s", buf.String())

	buf.Reset()
	sceneStatsTable(&buf, sceneObj)
	logger.Noticef("scene statistics\n%s", buf.String())
}

func renderStatsTable(buf *bytes.Buffer, stats renderer.RenderStats, elapsed time.Duration) {
	table := tablewriter.NewWriter(buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Worker", "Tile visits", "Passes", "Pixel samples", "Busy", "% of samples"})

	total := stats.TotalPixels()
	for _, w := range stats.Workers {
		share := 0.0
		if total > 0 {
			share = 100 * float64(w.Pixels) / float64(total)
		}
		table.Append([]string{
			fmt.Sprintf("%d", w.ID),
			fmt.Sprintf("%d", w.Tiles),
			fmt.Sprintf("%d", w.Passes),
			fmt.Sprintf("%d", w.Pixels),
			w.Busy.Round(time.Millisecond).String(),
			fmt.Sprintf("%02.1f %%", share),
		})
	}
	table.SetFooter([]string{
		"TOTAL",
		fmt.Sprintf("%d/%d tiles", stats.FinishedTiles, stats.TotalTiles),
		fmt.Sprintf("%d spp", stats.Progress),
		fmt.Sprintf("%d", total),
		stats.TotalBusy().Round(time.Millisecond).String(),
		fmt.Sprintf("in %s", elapsed.Round(time.Millisecond)),
	})
	table.Render()
}

func sceneStatsTable(buf *bytes.Buffer, sceneObj *scene.Scene) {
	table := tablewriter.NewWriter(buf)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Scene", "Primitives", "BVH nodes", "Leaves", "Max depth", "Avg depth"})

	row := []string{sceneObj.Name, fmt.Sprintf("%d", sceneObj.PrimitiveCount()), "-", "-", "-", "-"}
	if sceneObj.BVH != nil {
		bvhStats := sceneObj.BVH.Stats()
		row[2] = fmt.Sprintf("%d", bvhStats.TotalNodes)
		row[3] = fmt.Sprintf("%d", bvhStats.LeafNodes)
		row[4] = fmt.Sprintf("%d", bvhStats.MaxDepth)
		row[5] = fmt.Sprintf("%.1f", bvhStats.AvgDepth)
	}
	table.Append(row)
	table.Render()
}
