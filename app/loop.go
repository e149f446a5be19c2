// Package app runs the interactive frame loop: window events, camera input,
// resize handling and one rendered frame per iteration.
package app

import (
	"fmt"
	"log/slog"

	"github.com/richinsley/gobloom/graphics"
	"github.com/richinsley/gobloom/renderer"
	"github.com/richinsley/gobloom/scene"
)

type Loop struct {
	ctx      graphics.Context
	dev      graphics.Device
	pipeline *renderer.Pipeline
	scene    *scene.Scene
	camera   *scene.Camera

	exec func(f func())
}

type Option func(l *Loop)

// WithExecutor runs every frame through exec, for example on the main thread.
func WithExecutor(exec func(f func())) Option {
	return func(l *Loop) { l.exec = exec }
}

func New(ctx graphics.Context, dev graphics.Device, config renderer.Config, mesh scene.Mesh, opts ...Option) (*Loop, error) {
	l := &Loop{
		ctx:    ctx,
		dev:    dev,
		camera: scene.NewCamera(),
		exec:   func(f func()) { f() },
	}

	for _, opt := range opts {
		opt(l)
	}

	width, height := ctx.GetFramebufferSize()
	size := graphics.Size{Width: uint32(max(width, 0)), Height: uint32(max(height, 0))}

	var err error
	l.pipeline, err = renderer.New(dev, size, config)
	if err != nil {
		return nil, fmt.Errorf("create pipeline: %w", err)
	}

	l.scene, err = scene.New(dev, mesh)
	if err != nil {
		l.pipeline.Release()
		return nil, fmt.Errorf("create scene: %w", err)
	}

	return l, nil
}

func (l *Loop) Camera() *scene.Camera {
	return l.camera
}

func (l *Loop) Pipeline() *renderer.Pipeline {
	return l.pipeline
}

// handleEvents applies input to the camera and returns the last non empty
// resize of the batch.
func (l *Loop) handleEvents(events []graphics.Event) (resize *graphics.Size, quit bool) {
	for _, event := range events {
		switch ev := event.(type) {
		case graphics.CloseEvent:
			quit = true

		case graphics.KeyEvent:
			if ev.Key == graphics.KeyEscape && ev.Action == graphics.Release {
				quit = true
				continue
			}
			l.camera.HandleKey(ev)

		case graphics.CursorEvent:
			l.camera.HandleCursor(ev)

		case graphics.ResizeEvent:
			size := graphics.Size{Width: ev.Width, Height: ev.Height}
			if size.Empty() {
				// minimized
				slog.Debug("Ignoring empty resize", slog.String("size", size.String()))
				continue
			}
			resize = &size
		}
	}

	return resize, quit
}

// Frame processes the pending events and renders one frame. It reports
// whether the user asked to quit, in which case nothing is rendered.
func (l *Loop) Frame() (bool, error) {
	resize, quit := l.handleEvents(l.ctx.PollEvents())
	if quit {
		return true, nil
	}

	l.camera.Update()

	if resize != nil {
		if err := l.pipeline.Resize(*resize); err != nil {
			return false, err
		}
	}

	aspect := scene.Aspect(l.pipeline.Size())
	l.scene.SetTransform(l.camera.Transform(aspect, l.scene.Frame()))

	l.pipeline.RenderFrame(l.scene)

	if err := l.scene.Advance(); err != nil {
		return false, err
	}

	l.ctx.EndFrame()

	return false, nil
}

// Run renders frames until the window closes or the user quits.
func (l *Loop) Run() error {
	for !l.ctx.ShouldClose() {
		var quit bool
		var err error

		l.exec(func() {
			quit, err = l.Frame()
		})

		if err != nil {
			return err
		}

		if quit {
			slog.Info("Quit requested")
			return nil
		}
	}

	return nil
}

func (l *Loop) Release() {
	if l.scene != nil {
		l.scene.Release()
		l.scene = nil
	}

	if l.pipeline != nil {
		l.pipeline.Release()
		l.pipeline = nil
	}
}
