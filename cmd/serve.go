package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/df07/go-tile-raytracer/pkg/log"
	"github.com/df07/go-tile-raytracer/web/server"
	"github.com/urfave/cli"
)

// Serve renders a scene and exposes it over HTTP until interrupted.
func Serve(ctx *cli.Context) error {
	// Mirror log output into the console served at /api/console
	console := server.NewConsole(ctx.Int("console-limit"))
	log.SetSink(io.MultiWriter(os.Stderr, console))
	log.SetLevel(log.Notice)
	setupLogging(ctx)

	sceneObj, scheduler, err := renderOptionsFromContext(ctx).build()
	if err != nil {
		return err
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := scheduler.Start(runCtx); err != nil {
		return err
	}

	srv := server.NewServer(scheduler, sceneObj, console)
	serveErr := srv.ListenAndServe(runCtx, fmt.Sprintf(":%d", ctx.Int("port")))

	stop()
	if err := scheduler.Terminate(); err != nil {
		logger.Errorf("render stopped with error: %v", err)
		if serveErr == nil {
			serveErr = err
		}
	}
	return serveErr
}
