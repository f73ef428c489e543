//go:build !linux

package headless

import (
	"errors"

	"github.com/richinsley/gobackdrop/gldevice"
)

// ErrUnsupported is returned by NewContext on platforms without EGL.
var ErrUnsupported = errors.New("egl headless rendering is not supported on this platform")

// Context is never constructed on this platform.
type Context struct{}

func NewContext(width, height, samples int) (*Context, error) {
	return nil, ErrUnsupported
}

func (h *Context) GLDevice() (*gldevice.Device, error) { return nil, ErrUnsupported }

func (h *Context) Shutdown() {}
