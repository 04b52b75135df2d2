package recorder

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	ffmpeg "github.com/u2takey/ffmpeg-go"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Options describe the video a Recorder writes.
type Options struct {
	Output     string
	Width      int
	Height     int
	FPS        int
	Codec      string // "h264", "hevc" or any ffmpeg encoder name
	FFmpegPath string
}

func (o Options) validate() error {
	var errs []error
	if o.Output == "" {
		errs = append(errs, errors.New("output file is empty"))
	}
	if o.Width <= 0 || o.Height <= 0 {
		errs = append(errs, fmt.Errorf("frame size %dx%d must be positive", o.Width, o.Height))
	}
	if o.FPS <= 0 {
		errs = append(errs, fmt.Errorf("frame rate %d must be positive", o.FPS))
	}
	return errors.Join(errs...)
}

// FrameSize is the byte length of one RGBA8 frame.
func (o Options) FrameSize() int { return o.Width * o.Height * 4 }

func encoder(codec string) string {
	switch codec {
	case "", "h264":
		return "libx264"
	case "hevc", "h265":
		return "libx265"
	}
	return codec
}

// getArgs returns the ffmpeg input and output arguments. Frames arrive as
// raw RGBA with the bottom row first, as read back from GL.
func getArgs(o Options) (inputArgs ffmpeg.KwArgs, outputArgs ffmpeg.KwArgs) {
	inputArgs = ffmpeg.KwArgs{
		"f":         "rawvideo",
		"pix_fmt":   "rgba",
		"s":         fmt.Sprintf("%dx%d", o.Width, o.Height),
		"framerate": o.FPS,
	}
	outputArgs = ffmpeg.KwArgs{
		"c:v":     encoder(o.Codec),
		"pix_fmt": "yuv420p",
		"vf":      "vflip",
	}
	if encoder(o.Codec) == "libx265" && strings.EqualFold(filepath.Ext(o.Output), ".mp4") {
		outputArgs["tag:v"] = "hvc1"
	}
	return inputArgs, outputArgs
}

func stream(o Options, in io.Reader) *ffmpeg.Stream {
	inputArgs, outputArgs := getArgs(o)
	s := ffmpeg.Input("pipe:", inputArgs).
		Output(o.Output, outputArgs).
		OverWriteOutput().WithInput(in).ErrorToStdOut()
	if o.FFmpegPath != "" {
		s = s.SetFfmpegPath(o.FFmpegPath)
	}
	return s
}

// Recorder pipes captured frames into an ffmpeg process.
type Recorder struct {
	opts   Options
	pw     *io.PipeWriter
	group  errgroup.Group
	frames int
	closed bool
	log    *zap.Logger
}

// Start launches ffmpeg. Frames must be written in presentation order and
// the recorder closed to finish the file.
func Start(o Options, log *zap.Logger) (*Recorder, error) {
	if err := o.validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	pr, pw := io.Pipe()
	cmd := stream(o, pr)
	r := &Recorder{opts: o, pw: pw, log: log}
	r.group.Go(func() error {
		err := cmd.Run()
		if err != nil {
			err = fmt.Errorf("ffmpeg: %w", err)
			pr.CloseWithError(err)
			return err
		}
		pr.Close()
		return nil
	})
	log.Info("recording started",
		zap.String("output", o.Output),
		zap.String("codec", encoder(o.Codec)),
		zap.Int("width", o.Width),
		zap.Int("height", o.Height),
		zap.Int("fps", o.FPS))
	return r, nil
}

// WriteFrame sends one RGBA8 frame to the encoder.
func (r *Recorder) WriteFrame(pixels []byte) error {
	if r.closed {
		return errors.New("recorder is closed")
	}
	if len(pixels) != r.opts.FrameSize() {
		return fmt.Errorf("frame of %d bytes, want %d", len(pixels), r.opts.FrameSize())
	}
	if _, err := r.pw.Write(pixels); err != nil {
		return fmt.Errorf("frame %d: %w", r.frames, err)
	}
	r.frames++
	return nil
}

// Frames is the number of frames written so far.
func (r *Recorder) Frames() int { return r.frames }

// Close ends the input stream and waits for ffmpeg to finish the file.
func (r *Recorder) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	r.pw.Close()
	err := r.group.Wait()
	if err != nil {
		r.log.Error("recording failed", zap.Error(err))
		return err
	}
	r.log.Info("recording finished", zap.String("output", r.opts.Output), zap.Int("frames", r.frames))
	return nil
}
