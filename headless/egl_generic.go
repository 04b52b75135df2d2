//go:build !linux

package headless

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/richinsley/goscene/graphics"
)

// New reports that EGL rendering is unavailable off Linux.
func New(width, height, bitDepth int, log *zap.Logger) (graphics.Context, error) {
	return nil, fmt.Errorf("egl headless rendering is not supported on this platform")
}
