package pipeline

import (
	"fmt"

	"github.com/Faultbox/cubeforge/pkg/cubemap"
)

// RenderFailure means a face draw or read-back failed. No faces from the
// failed generation are published.
type RenderFailure struct {
	Face cubemap.Face
	Err  error
}

func (e *RenderFailure) Error() string {
	return fmt.Sprintf("rendering face %s: %v", e.Face, e.Err)
}

func (e *RenderFailure) Unwrap() error { return e.Err }

// AssemblyFailure means the cube texture could not be built. The previous
// texture stays active.
type AssemblyFailure struct {
	Seq uint64
	Err error
}

func (e *AssemblyFailure) Error() string {
	return fmt.Sprintf("assembling cube texture %d: %v", e.Seq, e.Err)
}

func (e *AssemblyFailure) Unwrap() error { return e.Err }

// ExportFailure means an archive could not be produced.
type ExportFailure struct {
	Err error
}

func (e *ExportFailure) Error() string {
	return fmt.Sprintf("exporting faces: %v", e.Err)
}

func (e *ExportFailure) Unwrap() error { return e.Err }
