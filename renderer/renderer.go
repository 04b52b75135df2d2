package renderer

import (
	"errors"
	"fmt"
	"image"

	"github.com/richinsley/goscene/camera"
	"github.com/richinsley/goscene/entity"
	"github.com/richinsley/goscene/graphics"
	"github.com/richinsley/goscene/level"
	"github.com/richinsley/goscene/scheduler"
	"go.uber.org/zap"
)

// FrameSink receives captured frames in presentation order.
type FrameSink interface {
	WriteFrame(pixels []byte) error
}

type Renderer struct {
	context  graphics.Context
	level    *level.Level
	sched    *scheduler.Scheduler
	executor *Executor
	surface  Surface
	log      *zap.Logger

	output     entity.ID
	order      []entity.ID
	lastTime   float64
	configured bool
}

// NewRenderer builds a renderer for lvl. ctx may be nil when only
// RenderFrame and Record are used.
func NewRenderer(lvl *level.Level, surface Surface, ctx graphics.Context, log *zap.Logger, opts ...scheduler.Option) *Renderer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Renderer{
		context:  ctx,
		level:    lvl,
		sched:    scheduler.New(lvl, log, opts...),
		executor: NewExecutor(lvl, surface, log),
		surface:  surface,
		log:      log,
	}
}

// Configure validates the assembled level and caches the pass order that
// produces the default output texture. It must be called again whenever
// the level changes.
func (r *Renderer) Configure() error {
	r.configured = false
	if err := r.level.Validate(); err != nil {
		return fmt.Errorf("invalid level: %w", err)
	}
	if err := r.sched.Validate(); err != nil {
		return fmt.Errorf("invalid pass graph: %w", err)
	}
	out, err := r.level.Default(level.DefaultOutput)
	if err != nil {
		return err
	}
	order, err := r.sched.ResolveOutput(out)
	if err != nil {
		return fmt.Errorf("resolving output %s: %w", out, err)
	}
	r.output = out
	r.order = order
	r.configured = true
	r.log.Info("renderer configured", zap.Int("passes", len(order)), zap.Int64("output", int64(out)))
	return nil
}

// Order returns a copy of the cached pass order.
func (r *Renderer) Order() []entity.ID {
	return append([]entity.ID(nil), r.order...)
}

// RenderFrame executes every pass of the cached order at time t.
func (r *Renderer) RenderFrame(t float64, frame int32) error {
	if !r.configured {
		return ErrNotConfigured
	}
	u, err := r.uniforms(t, frame)
	if err != nil {
		return err
	}
	r.lastTime = t
	return r.executor.Execute(r.order, t, u)
}

func (r *Renderer) uniforms(t float64, frame int32) (*camera.Uniforms, error) {
	out, err := r.level.Texture(r.output)
	if err != nil {
		return nil, err
	}
	res := out.Resolution()
	width, height := int(res[0]), int(res[1])
	delta := t - r.lastTime
	if frame == 0 {
		delta = 0
	}

	node, err := r.level.DefaultCameraNode()
	if errors.Is(err, level.ErrDefaultUnset) {
		return camera.NewUniforms(nil, width, height, t, delta, frame), nil
	}
	if err != nil {
		return nil, err
	}
	cam, _ := node.Camera()
	world, err := r.level.Graph().LocalModel(node.Name, t)
	if err != nil {
		return nil, fmt.Errorf("camera %q: %w", node.Name, err)
	}
	placed := cam.InWorld(world)
	placed.SetAspect(width, height)
	return camera.NewUniforms(placed, width, height, t, delta, frame), nil
}

// Run renders into the window until it is asked to close.
func (r *Renderer) Run() error {
	if r.context == nil {
		return errors.New("renderer has no window context")
	}
	out, err := r.level.DefaultOutputTexture()
	if err != nil {
		return err
	}
	startTime := r.context.Time()
	var frameCount int32
	for !r.context.ShouldClose() {
		currentTime := r.context.Time() - startTime
		if err := r.RenderFrame(currentTime, frameCount); err != nil {
			return fmt.Errorf("frame %d: %w", frameCount, err)
		}
		fbWidth, fbHeight := r.context.GetFramebufferSize()
		r.surface.Present(out, fbWidth, fbHeight)
		r.context.EndFrame()
		frameCount++
	}
	r.log.Info("render loop finished", zap.Int32("frames", frameCount))
	return nil
}

// Record renders frames at a fixed rate and hands each captured frame to sink.
func (r *Renderer) Record(sink FrameSink, frames, fps int) error {
	if fps <= 0 {
		return fmt.Errorf("invalid frame rate %d", fps)
	}
	out, err := r.level.DefaultOutputTexture()
	if err != nil {
		return err
	}
	for i := 0; i < frames; i++ {
		t := float64(i) / float64(fps)
		if err := r.RenderFrame(t, int32(i)); err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}
		pixels, err := r.surface.Capture(out)
		if err != nil {
			return fmt.Errorf("capturing frame %d: %w", i, err)
		}
		if err := sink.WriteFrame(pixels); err != nil {
			return fmt.Errorf("writing frame %d: %w", i, err)
		}
	}
	r.log.Info("recording finished", zap.Int("frames", frames), zap.Int("fps", fps))
	return nil
}

// Snapshot captures the default output texture as an image, top row first.
func (r *Renderer) Snapshot() (*image.RGBA, error) {
	out, err := r.level.DefaultOutputTexture()
	if err != nil {
		return nil, err
	}
	res := out.Resolution()
	width, height := int(res[0]), int(res[1])
	pixels, err := r.surface.Capture(out)
	if err != nil {
		return nil, fmt.Errorf("capturing snapshot: %w", err)
	}
	stride := width * 4
	if len(pixels) != stride*height {
		return nil, fmt.Errorf("snapshot of %d bytes, want %d", len(pixels), stride*height)
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	// GL rows arrive bottom first.
	for y := 0; y < height; y++ {
		src := pixels[(height-1-y)*stride : (height-y)*stride]
		copy(img.Pix[y*img.Stride:y*img.Stride+stride], src)
	}
	return img, nil
}
