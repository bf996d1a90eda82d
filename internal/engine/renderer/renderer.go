// Package renderer provides the OpenGL generator and preview targets.
package renderer

import (
	"fmt"
	"sync"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/cubeforge/internal/logger"
)

var (
	initOnce sync.Once
	initErr  error
)

// Init loads OpenGL function pointers for the current context and logs the
// driver. Must be called after the context is created; later calls are
// no-ops.
func Init() error {
	initOnce.Do(func() {
		if err := gl.Init(); err != nil {
			initErr = fmt.Errorf("failed to initialize OpenGL: %w", err)
			return
		}
		logger.Info("OpenGL initialized",
			zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
			zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
		)
	})
	return initErr
}

// quad is a full-surface triangle pair, position only.
var quadVertices = []float32{
	-1.0, 1.0, -1.0, -1.0, 1.0, -1.0,
	-1.0, 1.0, 1.0, -1.0, 1.0, 1.0,
}

type quad struct {
	vao, vbo uint32
}

func newQuad() *quad {
	q := &quad{}
	gl.GenVertexArrays(1, &q.vao)
	gl.GenBuffers(1, &q.vbo)
	gl.BindVertexArray(q.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, q.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(quadVertices)*4, gl.Ptr(quadVertices), gl.STATIC_DRAW)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, 2*4, gl.PtrOffset(0))
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)
	return q
}

func (q *quad) draw() {
	gl.BindVertexArray(q.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, 6)
	gl.BindVertexArray(0)
}

func (q *quad) delete() {
	if q.vbo != 0 {
		gl.DeleteBuffers(1, &q.vbo)
		q.vbo = 0
	}
	if q.vao != 0 {
		gl.DeleteVertexArrays(1, &q.vao)
		q.vao = 0
	}
}

func glError(op string) error {
	if e := gl.GetError(); e != gl.NO_ERROR {
		return fmt.Errorf("%s: GL error 0x%x", op, e)
	}
	return nil
}
