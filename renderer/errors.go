package renderer

import (
	"errors"

	"github.com/richinsley/gobackdrop/graphics"
)

var (
	// ErrSurfaceUnavailable means the host has no surface with the requested
	// id. It is an expected condition and is never logged.
	ErrSurfaceUnavailable = errors.New("rendering surface not found")

	// ErrContextUnavailable means the host cannot provide an accelerated
	// context for the surface.
	ErrContextUnavailable = errors.New("accelerated context unavailable")
)

// StageCompileError reports a vertex or fragment stage rejected by the host
// compiler or the translator.
type StageCompileError = graphics.CompileError

// LinkError reports stages that compiled but could not be linked.
type LinkError = graphics.LinkError
