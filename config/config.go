package config

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Window  WindowConfig  `toml:"window"`
	Render  RenderConfig  `toml:"render"`
	Record  RecordConfig  `toml:"record"`
	Logging LoggingConfig `toml:"logging"`
}

type WindowConfig struct {
	Title     string `toml:"title"`
	Width     int    `toml:"width"`
	Height    int    `toml:"height"`
	Resizable bool   `toml:"resizable"`
}

type RenderConfig struct {
	Scene           string `toml:"scene"`            // path to the YAML scene description
	StrictProducers bool   `toml:"strict_producers"` // reject textures written by more than one pass
	BitDepth        int    `toml:"bit_depth"`        // 8 or 16 bits per channel for render textures
}

type RecordConfig struct {
	Enabled    bool    `toml:"enabled"`
	Output     string  `toml:"output"`
	Duration   float64 `toml:"duration"` // seconds
	FPS        int     `toml:"fps"`
	Codec      string  `toml:"codec"`
	FFmpegPath string  `toml:"ffmpeg_path"`
	Headless   bool    `toml:"headless"` // render through an EGL pbuffer instead of a hidden window
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

// Frames is the number of frames a recording of Duration seconds holds.
func (r RecordConfig) Frames() int {
	return int(math.Round(r.Duration * float64(r.FPS)))
}

// Load reads a TOML file over the defaults. An empty path yields the defaults.
func Load(path string) (*Config, error) {
	cfg := defaults()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height))
	}
	if c.Render.BitDepth != 8 && c.Render.BitDepth != 16 {
		errs = append(errs, fmt.Errorf("bit_depth %d must be 8 or 16", c.Render.BitDepth))
	}
	if c.Record.Enabled {
		if c.Record.FPS <= 0 {
			errs = append(errs, fmt.Errorf("record fps %d must be positive", c.Record.FPS))
		}
		if c.Record.Duration <= 0 {
			errs = append(errs, fmt.Errorf("record duration %g must be positive", c.Record.Duration))
		}
		if c.Record.Output == "" {
			errs = append(errs, errors.New("record output is empty"))
		}
	}
	return errors.Join(errs...)
}

func defaults() *Config {
	return &Config{
		Window: WindowConfig{
			Title:     "goscene",
			Width:     1280,
			Height:    720,
			Resizable: true,
		},
		Render: RenderConfig{
			Scene:           "scene.yaml",
			StrictProducers: true,
			BitDepth:        8,
		},
		Record: RecordConfig{
			Output:   "output.mp4",
			Duration: 10,
			FPS:      60,
			Codec:    "libx264",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
