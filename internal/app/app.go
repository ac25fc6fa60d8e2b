// Package app wires the window, renderer and frame loop together and runs
// the event loop.
package app

import (
	"log/slog"
	"os"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/vkngwrapper/hello-triangle/internal/config"
	"github.com/vkngwrapper/hello-triangle/internal/frame"
	"github.com/vkngwrapper/hello-triangle/internal/gpu"
	"github.com/vkngwrapper/hello-triangle/internal/shader"
	"github.com/vkngwrapper/hello-triangle/internal/window"
)

const (
	fpsInterval = 5 * time.Second
	idleBackoff = 10 * time.Millisecond
)

type App struct {
	cfg    config.Config
	logger *slog.Logger
	sleep  func(time.Duration)
}

func New(cfg config.Config, logger *slog.Logger) *App {
	return &App{cfg: cfg, logger: logger, sleep: time.Sleep}
}

// Run opens the window, renders until it is closed, and releases everything
// on the way out.
func (a *App) Run() (err error) {
	shaders, err := shader.LoadStages(os.DirFS(a.cfg.Renderer.ShaderDir))
	if err != nil {
		return err
	}

	win, err := window.Open(a.cfg.Window)
	if err != nil {
		return err
	}
	defer win.Close()

	renderer, err := gpu.New(win, gpu.Options{
		Config:  a.cfg.Renderer,
		Shaders: shaders,
		Logger:  a.logger,
	})
	if err != nil {
		return err
	}
	defer func() {
		err = errors.CombineErrors(err, renderer.Close())
	}()

	loop, err := frame.NewLoop(renderer, renderer.Slots())
	if err != nil {
		return err
	}

	return a.mainLoop(win, loop)
}

type eventSource interface {
	Poll() []window.Event
	Minimized() bool
}

type drawer interface {
	Invalidate()
	Stale() bool
	Draw() (bool, error)
}

func (a *App) mainLoop(events eventSource, loop drawer) error {
	meter := frame.NewMeter(fpsInterval)
	rendering := true

	for {
		for _, event := range events.Poll() {
			switch event {
			case window.Quit:
				a.logger.Info("window closed")
				return nil
			case window.Minimized:
				rendering = false
			case window.Restored, window.Resized:
				// A resize can arrive while the window is still iconified.
				rendering = !events.Minimized()
				loop.Invalidate()
			}
		}

		if !rendering {
			a.sleep(idleBackoff)
			continue
		}

		drawn, err := loop.Draw()
		if err != nil {
			return err
		}
		if !drawn {
			if loop.Stale() {
				// The surface has no area yet; don't spin on Rebuild.
				a.sleep(idleBackoff)
			}
			continue
		}

		if fps, ok := meter.Tick(); ok {
			a.logger.Debug("frame rate", "fps", fps)
		}
	}
}
