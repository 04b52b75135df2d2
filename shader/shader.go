package shader

import (
	"fmt"
	"sort"
	"strings"
)

// Pass and material shaders are written in GLSL ES 3.00 and translated to
// desktop GLSL 4.10 before compilation.

const vertexShaderSource = `#version 300 es
precision highp float;

layout (location = 0) in vec3 in_position;
layout (location = 1) in vec3 in_normal;
layout (location = 2) in vec2 in_uv;

uniform mat4 uProjection;
uniform mat4 uView;
uniform mat4 uModel;

out vec3 frag_position;
out vec3 frag_normal;
out vec2 frag_uv;

void main() {
    vec4 world = uModel * vec4(in_position, 1.0);
    frag_position = world.xyz;
    frag_normal = mat3(transpose(inverse(uModel))) * in_normal;
    frag_uv = in_uv;
    gl_Position = uProjection * uView * world;
}
`

// The blit program is compiled directly and never translated.

const blitVertexShaderSourceGL = `#version 410 core
layout (location = 0) in vec3 in_position;
out vec2 frag_uv;
void main() {
    frag_uv = in_position.xy * 0.5 + 0.5;
    gl_Position = vec4(in_position.xy, 0.0, 1.0);
}
`

const blitFragmentShaderSourceFlipGL = `#version 410 core
in vec2 frag_uv;
out vec4 fragColor;
uniform sampler2D u_texture;
void main() { fragColor = texture(u_texture, vec2(frag_uv.x, 1.0 - frag_uv.y)); }
`

const blitFragmentShaderSourceGL = `#version 410 core
in vec2 frag_uv;
out vec4 fragColor;
uniform sampler2D u_texture;
void main() { fragColor = texture(u_texture, frag_uv); }
`

// Uniform names every pass program may declare.
const (
	Projection     = "uProjection"
	View           = "uView"
	Model          = "uModel"
	CameraPosition = "uCameraPosition"
	CameraFront    = "uCameraFront"
	Resolution     = "iResolution"
	Time           = "iTime"
	TimeDelta      = "iTimeDelta"
	Frame          = "iFrame"
	Ambient        = "uAmbient"
	Diffuse        = "uDiffuse"
	Specular       = "uSpecular"
	Shininess      = "uShininess"
)

// ChannelSampler names the sampler uniform for the i-th program input.
func ChannelSampler(i int) string { return fmt.Sprintf("iChannel%d", i) }

func GenerateVertexShader() string { return vertexShaderSource }

func GetBlitVertexShader() string { return blitVertexShaderSourceGL }

func GetBlitFragmentShader(flip bool) string {
	if flip {
		return blitFragmentShaderSourceFlipGL
	}
	return blitFragmentShaderSourceGL
}

// GeneratePreamble declares the standard uniforms, one iChannelN sampler per
// pass input and every extra material sampler.
func GeneratePreamble(inputs int, samplers []string) string {
	var b strings.Builder
	b.WriteString(`#version 300 es
precision highp float;
precision highp int;

uniform mat4  uProjection;
uniform mat4  uView;
uniform mat4  uModel;
uniform vec3  uCameraPosition;
uniform vec3  uCameraFront;
uniform vec3  iResolution;
uniform float iTime;
uniform float iTimeDelta;
uniform int   iFrame;
uniform vec3  uAmbient;
uniform vec3  uDiffuse;
uniform vec3  uSpecular;
uniform float uShininess;
`)
	for i := 0; i < inputs; i++ {
		fmt.Fprintf(&b, "uniform sampler2D %s;\n", ChannelSampler(i))
	}
	extra := append([]string(nil), samplers...)
	sort.Strings(extra)
	for i, s := range extra {
		if i > 0 && extra[i-1] == s {
			continue
		}
		fmt.Fprintf(&b, "uniform sampler2D %s;\n", s)
	}
	b.WriteString(`
in vec3 frag_position;
in vec3 frag_normal;
in vec2 frag_uv;
layout(location = 0) out vec4 fragColor;
`)
	return b.String()
}

// GetMain calls the user's mainImage with the pixel coordinate.
func GetMain() string {
	return `
void main(void)
{
    mainImage(fragColor, gl_FragCoord.xy);
}
`
}

// GetFragmentShader combines preamble, shared code, the user's pass code and
// the main wrapper. Code that defines its own main is not wrapped.
func GetFragmentShader(inputs int, samplers []string, common, user string) string {
	src := GeneratePreamble(inputs, samplers) + common + "\n" + user
	if !definesMain(user) {
		src += GetMain()
	}
	return src
}

func definesMain(code string) bool {
	for _, line := range strings.Split(code, "\n") {
		f := strings.Fields(strings.ReplaceAll(line, "(", " ( "))
		if len(f) >= 3 && f[0] == "void" && f[1] == "main" && f[2] == "(" {
			return true
		}
	}
	return false
}
