package options

import (
	"flag"

	"github.com/richinsley/goscene/config"
)

// Options holds command-line overrides. A nil or zero value leaves the
// corresponding config field untouched.
type Options struct {
	ConfigFile *string
	Scene      *string
	Help       *bool
	Mode       *string
	Duration   *float64
	FPS        *int
	Width      *int
	Height     *int
	BitDepth   *int
	OutputFile *string
	Codec      *string
	FFmpegPath *string
	LogLevel   *string
	Headless   *bool
}

// Register declares every flag on fs.
func Register(fs *flag.FlagSet) *Options {
	return &Options{
		ConfigFile: fs.String("config", "", "Path to a TOML configuration file"),
		Scene:      fs.String("scene", "", "Path to the YAML scene description"),
		Help:       fs.Bool("help", false, "Show help message"),
		Mode:       fs.String("mode", "", "Run mode: 'live' or 'record'"),
		Duration:   fs.Float64("duration", 0, "Duration to record in seconds"),
		FPS:        fs.Int("fps", 0, "Frames per second for recording"),
		Width:      fs.Int("width", 0, "Width of the output"),
		Height:     fs.Int("height", 0, "Height of the output"),
		BitDepth:   fs.Int("bitdepth", 0, "Bits per channel of render textures (8 or 16)"),
		OutputFile: fs.String("output", "", "Output file name for recording"),
		Codec:      fs.String("codec", "", "Video codec for recording"),
		FFmpegPath: fs.String("ffmpeg", "", "Path to ffmpeg executable"),
		LogLevel:   fs.String("loglevel", "", "Log level (debug, info, warn, error)"),
		Headless:   fs.Bool("headless", false, "Record through EGL without a window (Linux only)"),
	}
}

// Apply copies every set option over cfg.
func (o *Options) Apply(cfg *config.Config) {
	setString(&cfg.Render.Scene, o.Scene)
	setString(&cfg.Record.Output, o.OutputFile)
	setString(&cfg.Record.Codec, o.Codec)
	setString(&cfg.Record.FFmpegPath, o.FFmpegPath)
	setString(&cfg.Logging.Level, o.LogLevel)
	setInt(&cfg.Window.Width, o.Width)
	setInt(&cfg.Window.Height, o.Height)
	setInt(&cfg.Render.BitDepth, o.BitDepth)
	setInt(&cfg.Record.FPS, o.FPS)
	if o.Duration != nil && *o.Duration > 0 {
		cfg.Record.Duration = *o.Duration
	}
	if o.Headless != nil && *o.Headless {
		cfg.Record.Headless = true
	}
	if o.Mode != nil {
		switch *o.Mode {
		case "record":
			cfg.Record.Enabled = true
		case "live":
			cfg.Record.Enabled = false
		}
	}
}

func setString(dst *string, v *string) {
	if v != nil && *v != "" {
		*dst = *v
	}
}

func setInt(dst *int, v *int) {
	if v != nil && *v > 0 {
		*dst = *v
	}
}
