package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"github.com/gopxl/mainthread/v2"
	"github.com/pkg/profile"
	"github.com/richinsley/gobloom/app"
	"github.com/richinsley/gobloom/gldevice"
	"github.com/richinsley/gobloom/glfwcontext"
	"github.com/richinsley/gobloom/options"
	"github.com/richinsley/gobloom/scene"
)

func init() {
	runtime.LockOSThread()
}

func runBloom(opts *options.Options) error {
	config, err := opts.RendererConfig()
	if err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}

	if _, err := opts.Size(); err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}

	var loop *app.Loop
	var ctx *glfwcontext.Context

	err = mainthread.CallErr(func() error {
		if initErr := glfwcontext.InitGraphics(); initErr != nil {
			return fmt.Errorf("failed to initialize glfw: %w", initErr)
		}

		window, windowErr := glfwcontext.New(opts)
		if windowErr != nil {
			return fmt.Errorf("failed to create window: %w", windowErr)
		}
		ctx = window

		dev, devErr := gldevice.New(ctx)
		if devErr != nil {
			return devErr
		}

		mesh := scene.SphereCluster(scene.DefaultClusterOptions())

		l, loopErr := app.New(ctx, dev, config, mesh, app.WithExecutor(mainthread.Call))
		if loopErr != nil {
			return loopErr
		}
		loop = l

		return nil
	})

	defer mainthread.Call(func() {
		if loop != nil {
			loop.Release()
		}
		if ctx != nil {
			ctx.Shutdown()
		}
		glfwcontext.TerminateGraphics()
	})

	if err != nil {
		return err
	}

	slog.Info("Starting render loop")
	return loop.Run()
}

func main() {
	fs := flag.CommandLine
	opts := options.New(fs)
	flag.Parse()

	if *opts.Help {
		fmt.Println("Bloom post-processing demo")
		flag.PrintDefaults()
		return
	}

	level := slog.LevelInfo
	if *opts.Verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		AddSource: *opts.Verbose,
		Level:     level,
	})))

	var prof interface{ Stop() }
	if *opts.CPUProfile != "" {
		prof = profile.Start(profile.CPUProfile, profile.ProfilePath(*opts.CPUProfile), profile.Quiet)
	}

	var err error
	mainthread.Run(func() {
		err = runBloom(opts)
	})

	if prof != nil {
		prof.Stop()
	}

	if err != nil {
		slog.Error("Bloom failed", slog.Any("error", err))
		os.Exit(1)
	}

	slog.Info("Shutdown complete")
}
