// Package shader compiles GLSL programs and translates WebGL2 fragment
// shaders to desktop GLSL.
package shader

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/go-gl/gl/v4.1-core/gl"
	gst "github.com/richinsley/goshadertranslator"
)

// Program is a linked program together with the uniform name mapping
// produced by translation.
type Program struct {
	ID      uint32
	mapping map[string]string
}

// CompileProgram compiles vertex and fragment shaders and links them into a program.
// Returns the program ID or an error if compilation/linking fails.
func CompileProgram(vertexSrc, fragmentSrc string) (uint32, error) {
	vertShader, err := compileShader(vertexSrc, gl.VERTEX_SHADER, "vertex")
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(vertShader)

	fragShader, err := compileShader(fragmentSrc, gl.FRAGMENT_SHADER, "fragment")
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(fragShader)

	program := gl.CreateProgram()
	gl.AttachShader(program, vertShader)
	gl.AttachShader(program, fragShader)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("link: %s", programLog(program))
	}

	return program, nil
}

func compileShader(source string, shaderType uint32, name string) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csource, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csource, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		log := make([]byte, max(logLen, 1))
		gl.GetShaderInfoLog(shader, logLen, nil, &log[0])
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("%s shader: %s", name, strings.TrimRight(string(log), "\x00"))
	}

	return shader, nil
}

func programLog(program uint32) string {
	var logLen int32
	gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLen)
	log := make([]byte, max(logLen, 1))
	gl.GetProgramInfoLog(program, logLen, nil, &log[0])
	return strings.TrimRight(string(log), "\x00")
}

var (
	translatorOnce sync.Once
	translator     *gst.ShaderTranslator
	translatorErr  error
)

func sharedTranslator() (*gst.ShaderTranslator, error) {
	translatorOnce.Do(func() {
		translator, translatorErr = gst.NewShaderTranslator(context.Background())
	})
	return translator, translatorErr
}

// Translate converts a WebGL2 fragment shader to GLSL 4.10. The returned map
// gives the translated name of every uniform.
func Translate(fragmentSrc string) (string, map[string]string, error) {
	t, err := sharedTranslator()
	if err != nil {
		return "", nil, fmt.Errorf("starting shader translator: %w", err)
	}
	out, err := t.TranslateShader(fragmentSrc, "fragment", gst.ShaderSpecWebGL2, gst.OutputFormatGLSL410)
	if err != nil {
		return "", nil, fmt.Errorf("translating fragment shader: %w", err)
	}
	mapping := make(map[string]string, len(out.Variables))
	for name, v := range out.Variables {
		mapping[name] = v.MappedName
	}
	return out.Code, mapping, nil
}

// Build translates fragmentSrc and links it with the desktop vertexSrc.
func Build(vertexSrc, fragmentSrc string) (*Program, error) {
	code, mapping, err := Translate(fragmentSrc)
	if err != nil {
		return nil, err
	}
	id, err := CompileProgram(vertexSrc, code)
	if err != nil {
		return nil, err
	}
	return &Program{ID: id, mapping: mapping}, nil
}

// Uniform returns the location of a uniform by its source name, or -1 if it
// was optimized out. Arrays may be looked up by their plain name.
func (p *Program) Uniform(name string) int32 {
	for _, key := range []string{name, name + "[0]"} {
		if mapped, ok := p.mapping[key]; ok {
			return GetUniform(p.ID, mapped)
		}
	}
	return GetUniform(p.ID, name)
}

// Use makes the program current.
func (p *Program) Use() {
	gl.UseProgram(p.ID)
}

// Delete releases the program.
func (p *Program) Delete() {
	if p.ID != 0 {
		gl.DeleteProgram(p.ID)
		p.ID = 0
	}
}

// GetUniform returns the uniform location for the given name, or -1.
func GetUniform(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}
