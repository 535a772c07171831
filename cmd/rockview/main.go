// Package main is the rockview preview tool: it generates a cluster and
// renders it flat-shaded in a live window with an orbiting camera.
//
// Controls: drag to orbit, wheel to zoom, R to regenerate with a fresh
// seed, Escape to quit.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/stonefell/petrogen/internal/cluster"
	"github.com/stonefell/petrogen/internal/config"
	"github.com/stonefell/petrogen/internal/logger"
	"github.com/stonefell/petrogen/internal/render"
	"github.com/stonefell/petrogen/internal/rock"
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== rockview ===")

	if err := run(cfg); err != nil {
		logger.Error("viewer error", zap.Error(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	category, err := rock.ParseCategory(cfg.Generation.Category)
	if err != nil {
		return err
	}

	window, err := render.NewWindow(render.WindowConfig{
		Title:      "rockview",
		Width:      cfg.Viewer.Width,
		Height:     cfg.Viewer.Height,
		Fullscreen: cfg.Viewer.Fullscreen,
		VSync:      cfg.Viewer.VSync,
	})
	if err != nil {
		return err
	}
	defer window.Close()

	if err := gl.Init(); err != nil {
		return fmt.Errorf("initializing OpenGL: %w", err)
	}

	viewer, err := NewViewer()
	if err != nil {
		return err
	}
	defer viewer.Destroy()

	factory := rock.NewFactory(rock.DefaultCatalog(), rock.NewMeshCache())
	assembler := cluster.NewAssembler(factory)

	seed := cfg.Generation.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	generate := func(seed int64) error {
		c, err := assembler.Generate(cluster.Request{
			Category:  category,
			CountMin:  cfg.Generation.CountMin,
			CountMax:  cfg.Generation.CountMax,
			Seed:      seed,
			Tightness: cfg.Generation.Tightness,
		})
		if err != nil {
			return err
		}
		viewer.LoadCluster(c)
		window.SetTitle(fmt.Sprintf("rockview - %s, %d rocks, seed %d",
			c.Category, c.Stats.Rocks, seed))
		return nil
	}
	if err := generate(seed); err != nil {
		return err
	}

	dragging := false
	running := true
	for running {
		for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
			switch e := event.(type) {
			case *sdl.QuitEvent:
				running = false
			case *sdl.KeyboardEvent:
				if e.Type != sdl.KEYDOWN {
					break
				}
				switch e.Keysym.Sym {
				case sdl.K_ESCAPE:
					running = false
				case sdl.K_r:
					seed++
					if err := generate(seed); err != nil {
						return err
					}
				}
			case *sdl.MouseButtonEvent:
				if e.Button == sdl.BUTTON_LEFT {
					dragging = e.Type == sdl.MOUSEBUTTONDOWN
				}
			case *sdl.MouseMotionEvent:
				if dragging {
					viewer.Orbit(float32(e.XRel)*0.01, float32(e.YRel)*0.01)
				}
			case *sdl.MouseWheelEvent:
				viewer.Zoom(float32(e.Y))
			}
		}

		width, height := window.GetSize()
		viewer.Render(width, height)
		window.SwapBuffers()
	}

	return nil
}
