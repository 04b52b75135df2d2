package recorder

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestGetArgs(t *testing.T) {
	in, out := getArgs(Options{Output: "clip.mp4", Width: 320, Height: 200, FPS: 30})
	assert.Equal(t, "rawvideo", in["f"])
	assert.Equal(t, "rgba", in["pix_fmt"])
	assert.Equal(t, "320x200", in["s"])
	assert.Equal(t, 30, in["framerate"])
	assert.Equal(t, "libx264", out["c:v"])
	assert.Equal(t, "vflip", out["vf"])
	assert.NotContains(t, out, "tag:v")

	_, out = getArgs(Options{Output: "clip.MP4", Width: 2, Height: 2, FPS: 1, Codec: "hevc"})
	assert.Equal(t, "libx265", out["c:v"])
	assert.Equal(t, "hvc1", out["tag:v"])

	_, out = getArgs(Options{Output: "clip.mkv", Width: 2, Height: 2, FPS: 1, Codec: "libvpx-vp9"})
	assert.Equal(t, "libvpx-vp9", out["c:v"])
}

func TestStreamArgs(t *testing.T) {
	o := Options{Output: "clip.mp4", Width: 320, Height: 200, FPS: 30}
	args := stream(o, nil).GetArgs()

	assert.Equal(t, "pipe:", after(args, "-i"))
	assert.Equal(t, "320x200", after(args, "-s"))
	assert.Equal(t, "libx264", after(args, "-c:v"))
	assert.Contains(t, args, "clip.mp4")
	assert.Contains(t, args, "-y")
}

func after(args []string, flag string) string {
	for i := 0; i+1 < len(args); i++ {
		if args[i] == flag {
			return args[i+1]
		}
	}
	return ""
}

func TestStartRejectsBadOptions(t *testing.T) {
	_, err := Start(Options{Width: 0, Height: 10}, zaptest.NewLogger(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "output file is empty")
	assert.Contains(t, err.Error(), "frame size")
	assert.Contains(t, err.Error(), "frame rate")
}

func TestWriteFrameFailsWhenFFmpegIsMissing(t *testing.T) {
	o := Options{
		Output:     filepath.Join(t.TempDir(), "clip.mp4"),
		Width:      2,
		Height:     2,
		FPS:        1,
		FFmpegPath: filepath.Join(t.TempDir(), "no-such-ffmpeg"),
	}
	r, err := Start(o, zaptest.NewLogger(t))
	require.NoError(t, err)

	assert.Error(t, r.WriteFrame(make([]byte, 3)), "short frame")
	writeErr := r.WriteFrame(make([]byte, o.FrameSize()))
	closeErr := r.Close()
	assert.Error(t, closeErr)
	if writeErr != nil {
		assert.Contains(t, writeErr.Error(), "ffmpeg")
	}
	assert.Error(t, r.WriteFrame(make([]byte, o.FrameSize())), "closed")
	assert.NoError(t, r.Close())
}
