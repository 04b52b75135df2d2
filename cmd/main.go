package main

import (
	"context"
	"flag"
	"fmt"
	"image/png"
	"log"
	"os"
	"runtime"
	"time"

	glfw "github.com/go-gl/glfw/v3.3/glfw"
	"go.uber.org/zap"

	"github.com/richinsley/goscene/config"
	"github.com/richinsley/goscene/glfwcontext"
	"github.com/richinsley/goscene/gpu"
	"github.com/richinsley/goscene/graphics"
	"github.com/richinsley/goscene/headless"
	"github.com/richinsley/goscene/level"
	"github.com/richinsley/goscene/logging"
	"github.com/richinsley/goscene/options"
	"github.com/richinsley/goscene/recorder"
	"github.com/richinsley/goscene/renderer"
	"github.com/richinsley/goscene/scenefile"
	"github.com/richinsley/goscene/scheduler"
	"github.com/richinsley/goscene/shader"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	opts := options.Register(flag.CommandLine)
	flag.Parse()

	if *opts.Help {
		fmt.Println("Scene Viewer/Recorder")
		flag.PrintDefaults()
		return
	}

	cfg, err := config.Load(*opts.ConfigFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	opts.Apply(cfg)
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Error("exiting", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	desc, err := scenefile.Load(cfg.Render.Scene)
	if err != nil {
		return err
	}
	if desc.Title != "" {
		cfg.Window.Title = desc.Title
	}
	logger.Info("scene loaded", zap.String("path", cfg.Render.Scene), zap.String("title", desc.Title))

	ctx, closeContext, err := openContext(cfg, logger)
	if err != nil {
		return err
	}
	defer closeContext()
	ctx.MakeCurrent()

	if err := gpu.Init(); err != nil {
		return err
	}

	translator, err := shader.NewTranslator(context.Background())
	if err != nil {
		return err
	}

	lvl := level.New(logger)
	defer lvl.Destroy()

	factory := gpu.NewFactory(translator, cfg.Render.BitDepth, logger)
	err = scenefile.Build(desc, lvl, factory, scenefile.Options{
		Width:  cfg.Window.Width,
		Height: cfg.Window.Height,
		Log:    logger,
	})
	if err != nil {
		return err
	}

	surface, err := gpu.NewSurface(logger)
	if err != nil {
		return err
	}
	defer surface.Destroy()

	r := renderer.NewRenderer(lvl, surface, ctx, logger,
		scheduler.WithStrictProducers(cfg.Render.StrictProducers))
	if err := r.Configure(); err != nil {
		return err
	}

	if !cfg.Record.Enabled {
		if win, ok := ctx.(*glfwcontext.Context); ok {
			win.RegisterKeyCallback(glfw.KeyF12, func() { saveSnapshot(r, logger) })
		}
		logger.Info("starting interactive render loop")
		return r.Run()
	}

	out, err := lvl.DefaultOutputTexture()
	if err != nil {
		return err
	}
	res := out.Resolution()
	width, height := int(res[0]), int(res[1])
	rec, err := recorder.Start(recorder.Options{
		Output:     cfg.Record.Output,
		Width:      width,
		Height:     height,
		FPS:        cfg.Record.FPS,
		Codec:      cfg.Record.Codec,
		FFmpegPath: cfg.Record.FFmpegPath,
	}, logger)
	if err != nil {
		return err
	}
	logger.Info("starting offscreen render loop", zap.Int("frames", cfg.Record.Frames()))
	if err := r.Record(rec, cfg.Record.Frames(), cfg.Record.FPS); err != nil {
		rec.Close()
		return err
	}
	return rec.Close()
}

// openContext creates the GL context frames are rendered in: an EGL
// pbuffer for headless recording, otherwise a GLFW window that is hidden
// while recording.
func openContext(cfg *config.Config, logger *zap.Logger) (graphics.Context, func(), error) {
	if cfg.Record.Enabled && cfg.Record.Headless {
		ctx, err := headless.New(cfg.Window.Width, cfg.Window.Height, cfg.Render.BitDepth, logger)
		if err != nil {
			return nil, nil, err
		}
		return ctx, ctx.Shutdown, nil
	}

	if err := glfwcontext.InitGraphics(logger); err != nil {
		return nil, nil, err
	}
	ctx, err := glfwcontext.New(cfg.Window, cfg.Render.BitDepth, !cfg.Record.Enabled, logger)
	if err != nil {
		glfwcontext.TerminateGraphics(logger)
		return nil, nil, err
	}
	return ctx, func() {
		ctx.Shutdown()
		glfwcontext.TerminateGraphics(logger)
	}, nil
}

// saveSnapshot writes the current default output to a timestamped PNG.
func saveSnapshot(r *renderer.Renderer, logger *zap.Logger) {
	img, err := r.Snapshot()
	if err != nil {
		logger.Error("snapshot failed", zap.Error(err))
		return
	}
	name := fmt.Sprintf("snapshot-%s.png", time.Now().Format("20060102-150405"))
	f, err := os.Create(name)
	if err != nil {
		logger.Error("snapshot failed", zap.Error(err))
		return
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		logger.Error("snapshot failed", zap.String("file", name), zap.Error(err))
		return
	}
	logger.Info("snapshot saved", zap.String("file", name))
}
