package gpu

import (
	gl "github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

// ShaderProgram is a linked program plus the translated names of its
// uniforms.
type ShaderProgram struct {
	program   uint32
	names     map[string]string
	locations map[string]int32
}

func NewShaderProgram(vertexSource, fragmentSource string, names map[string]string) (*ShaderProgram, error) {
	program, err := newProgram(vertexSource, fragmentSource)
	if err != nil {
		return nil, err
	}
	return &ShaderProgram{
		program:   program,
		names:     names,
		locations: make(map[string]int32),
	}, nil
}

func (p *ShaderProgram) Handle() uint32 { return p.program }

func (p *ShaderProgram) Destroy() { gl.DeleteProgram(p.program) }

// Location returns the location of a source uniform, or -1 when the program
// does not use it.
func (p *ShaderProgram) Location(name string) int32 {
	if loc, ok := p.locations[name]; ok {
		return loc
	}
	loc := int32(-1)
	mapped, ok := p.names[name]
	if ok {
		loc = gl.GetUniformLocation(p.program, gl.Str(mapped+"\x00"))
	}
	p.locations[name] = loc
	return loc
}

func (p *ShaderProgram) setMat4(name string, m mgl32.Mat4) {
	if loc := p.Location(name); loc != -1 {
		gl.UniformMatrix4fv(loc, 1, false, &m[0])
	}
}

func (p *ShaderProgram) setVec3(name string, v mgl32.Vec3) {
	if loc := p.Location(name); loc != -1 {
		gl.Uniform3f(loc, v[0], v[1], v[2])
	}
}

func (p *ShaderProgram) setFloat(name string, f float32) {
	if loc := p.Location(name); loc != -1 {
		gl.Uniform1f(loc, f)
	}
}

func (p *ShaderProgram) setInt(name string, i int32) {
	if loc := p.Location(name); loc != -1 {
		gl.Uniform1i(loc, i)
	}
}
