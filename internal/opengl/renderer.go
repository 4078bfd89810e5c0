package opengl

import (
	"fmt"
	"strings"
	"unsafe"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	"mesh-generator/core"
	"mesh-generator/math"
)

const vertSrc = `
#version 410 core
layout(location = 0) in vec3 inPosition;
layout(location = 1) in vec3 inNormal;
layout(location = 2) in vec2 inUV;

uniform mat4 mvp;
uniform mat4 model;

out vec3 fragNormal;
out vec2 fragUV;

void main() {
    gl_Position = mvp * vec4(inPosition, 1.0);
    fragNormal  = mat3(model) * inNormal;
    fragUV      = inUV;
}
` + "\x00"

// mode 0 shades with one directional light, 1 shows normals as colour,
// 2 shows the UV parameterisation.
const fragSrc = `
#version 410 core
in vec3 fragNormal;
in vec2 fragUV;

uniform vec3 lightDir;
uniform vec3 albedo;
uniform int  mode;

out vec4 outColor;

void main() {
    vec3 n = normalize(fragNormal);
    if (mode == 1) {
        outColor = vec4(n * 0.5 + 0.5, 1.0);
        return;
    }
    if (mode == 2) {
        vec2 checker = floor(fragUV * 8.0);
        float c = mod(checker.x + checker.y, 2.0);
        outColor = vec4(mix(vec3(fragUV, 0.2), vec3(1.0), c * 0.3), 1.0);
        return;
    }
    float diffuse = max(dot(n, -normalize(lightDir)), 0.0);
    outColor = vec4(albedo * (0.15 + 0.85 * diffuse), 1.0);
}
` + "\x00"

// ShadeMode selects the fragment output.
type ShadeMode int32

const (
	ShadeLit ShadeMode = iota
	ShadeNormals
	ShadeUVs
)

// Renderer draws uploaded meshes with a single lit program.
// Must be created after the window's context is made current.
type Renderer struct {
	program uint32

	mvpLoc      int32
	modelLoc    int32
	lightDirLoc int32
	albedoLoc   int32
	modeLoc     int32

	wireframe bool
}

// NewRenderer initialises OpenGL and compiles the shading program.
func NewRenderer() (*Renderer, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	prog, err := newProgram(vertSrc, fragSrc)
	if err != nil {
		return nil, fmt.Errorf("shader compile: %w", err)
	}

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.CULL_FACE)
	gl.FrontFace(gl.CCW)
	gl.CullFace(gl.BACK)

	return &Renderer{
		program:     prog,
		mvpLoc:      gl.GetUniformLocation(prog, gl.Str("mvp\x00")),
		modelLoc:    gl.GetUniformLocation(prog, gl.Str("model\x00")),
		lightDirLoc: gl.GetUniformLocation(prog, gl.Str("lightDir\x00")),
		albedoLoc:   gl.GetUniformLocation(prog, gl.Str("albedo\x00")),
		modeLoc:     gl.GetUniformLocation(prog, gl.Str("mode\x00")),
	}, nil
}

// Version reports the driver's OpenGL version string.
func (r *Renderer) Version() string {
	return gl.GoStr(gl.GetString(gl.VERSION))
}

// SetViewport resizes the OpenGL viewport.
func (r *Renderer) SetViewport(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
}

// BeginFrame clears the colour and depth buffers and sets per-frame
// uniforms.
func (r *Renderer) BeginFrame(sky core.Color, lightDir math.Vec3, mode ShadeMode) {
	gl.ClearColor(sky.R, sky.G, sky.B, sky.A)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	gl.UseProgram(r.program)
	gl.Uniform3f(r.lightDirLoc, lightDir.X, lightDir.Y, lightDir.Z)
	gl.Uniform1i(r.modeLoc, int32(mode))
}

// SetWireframe toggles polygon line mode.
func (r *Renderer) SetWireframe(enabled bool) {
	r.wireframe = enabled
	if enabled {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
	} else {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
	}
}

// IsWireframe reports whether line mode is on.
func (r *Renderer) IsWireframe() bool {
	return r.wireframe
}

// DrawMesh draws m with the given MVP and model matrices.
func (r *Renderer) DrawMesh(m *GPUMesh, mvp, model math.Mat4, albedo core.Color) {
	gl.UseProgram(r.program)
	gl.UniformMatrix4fv(r.mvpLoc, 1, false, (*float32)(unsafe.Pointer(&mvp[0][0])))
	gl.UniformMatrix4fv(r.modelLoc, 1, false, (*float32)(unsafe.Pointer(&model[0][0])))
	rgb := albedo.RGB()
	gl.Uniform3fv(r.albedoLoc, 1, &rgb[0])
	m.Draw()
}

// Destroy releases the program.
func (r *Renderer) Destroy() {
	if r.program != 0 {
		gl.DeleteProgram(r.program)
		r.program = 0
	}
}

func newProgram(vertSrc, fragSrc string) (uint32, error) {
	vert, err := compileShader(vertSrc, gl.VERTEX_SHADER)
	if err != nil {
		return 0, fmt.Errorf("vertex: %w", err)
	}
	frag, err := compileShader(fragSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		return 0, fmt.Errorf("fragment: %w", err)
	}

	prog := gl.CreateProgram()
	gl.AttachShader(prog, vert)
	gl.AttachShader(prog, frag)
	gl.LinkProgram(prog)

	var status int32
	gl.GetProgramiv(prog, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(prog, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetProgramInfoLog(prog, logLen, nil, gl.Str(log))
		return 0, fmt.Errorf("link failed: %v", log)
	}

	gl.DeleteShader(vert)
	gl.DeleteShader(frag)
	return prog, nil
}

func compileShader(src string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csrc, free := gl.Strs(src)
	gl.ShaderSource(shader, 1, csrc, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetShaderInfoLog(shader, logLen, nil, gl.Str(log))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("compile failed: %v", log)
	}
	return shader, nil
}
