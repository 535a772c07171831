package main

import (
	gomath "math"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/stonefell/petrogen/internal/cluster"
	"github.com/stonefell/petrogen/internal/geometry"
	"github.com/stonefell/petrogen/internal/render"
)

const vertexShaderSource = `#version 410 core
layout (location = 0) in vec3 aPosition;
layout (location = 1) in vec3 aNormal;

uniform mat4 uModel;
uniform mat4 uView;
uniform mat4 uProjection;

out vec3 vNormal;

void main() {
    vNormal = mat3(uModel) * aNormal;
    gl_Position = uProjection * uView * uModel * vec4(aPosition, 1.0);
}
`

const fragmentShaderSource = `#version 410 core
in vec3 vNormal;

uniform vec3 uLightDir;
uniform vec3 uColor;

out vec4 FragColor;

void main() {
    vec3 normal = normalize(vNormal);
    vec3 lightDir = normalize(uLightDir);
    float diff = max(dot(normal, lightDir), 0.0);
    vec3 result = (vec3(0.35) + diff * vec3(0.65)) * uColor;
    FragColor = vec4(result, 1.0);
}
`

// tierColors tints rocks by structural role so stacking is readable at
// a glance.
var tierColors = map[cluster.Tier][3]float32{
	cluster.TierFoundation: {0.45, 0.42, 0.38},
	cluster.TierSupport:    {0.55, 0.50, 0.42},
	cluster.TierAccent:     {0.62, 0.58, 0.52},
}

// rockDraw is one uploaded rock mesh.
type rockDraw struct {
	vao        uint32
	vbo        uint32
	ebo        uint32
	indexCount int32
	model      mgl32.Mat4
	color      [3]float32
}

// Viewer renders a cluster with an orbiting camera.
type Viewer struct {
	program       uint32
	locModel      int32
	locView       int32
	locProjection int32
	locLightDir   int32
	locColor      int32

	rocks []rockDraw

	rotationX float32
	rotationY float32
	distance  float32
	center    mgl32.Vec3
}

// NewViewer compiles the shader program. An OpenGL context must be
// current.
func NewViewer() (*Viewer, error) {
	program, err := render.CompileProgram(vertexShaderSource, fragmentShaderSource)
	if err != nil {
		return nil, err
	}

	return &Viewer{
		program:       program,
		locModel:      render.GetUniform(program, "uModel"),
		locView:       render.GetUniform(program, "uView"),
		locProjection: render.GetUniform(program, "uProjection"),
		locLightDir:   render.GetUniform(program, "uLightDir"),
		locColor:      render.GetUniform(program, "uColor"),
		rotationX:     0.35,
		rotationY:     0.6,
		distance:      20,
	}, nil
}

// LoadCluster uploads every rock mesh and fits the camera to the
// formation.
func (v *Viewer) LoadCluster(c *cluster.Cluster) {
	v.clear()

	var maxRadius float32
	for _, p := range c.Rocks {
		draw := uploadMesh(p.Instance.Mesh)
		draw.model = mgl32.Translate3D(p.Position[0], p.Position[1], p.Position[2])
		draw.color = tierColors[p.Tier]
		v.rocks = append(v.rocks, draw)

		reach := horizontalReach(c.Center, p.Position) + p.Instance.BoundingRadius
		if reach > maxRadius {
			maxRadius = reach
		}
	}

	v.center = mgl32.Vec3{c.Center[0], c.Center[1] + maxRadius*0.3, c.Center[2]}
	v.distance = maxRadius * 3.2
	if v.distance < 5 {
		v.distance = 5
	}
}

func uploadMesh(m *geometry.Mesh) rockDraw {
	var draw rockDraw

	gl.GenVertexArrays(1, &draw.vao)
	gl.BindVertexArray(draw.vao)

	gl.GenBuffers(1, &draw.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, draw.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(m.Vertices)*int(unsafe.Sizeof(geometry.Vertex{})), unsafe.Pointer(&m.Vertices[0]), gl.STATIC_DRAW)

	gl.GenBuffers(1, &draw.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, draw.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(m.Indices)*4, unsafe.Pointer(&m.Indices[0]), gl.STATIC_DRAW)

	stride := int32(unsafe.Sizeof(geometry.Vertex{}))
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, stride, 12)
	gl.EnableVertexAttribArray(1)

	gl.BindVertexArray(0)

	draw.indexCount = int32(len(m.Indices))
	return draw
}

// Orbit rotates the camera around the cluster.
func (v *Viewer) Orbit(deltaYaw, deltaPitch float32) {
	v.rotationY += deltaYaw
	v.rotationX += deltaPitch
	const maxPitch = 1.5
	if v.rotationX > maxPitch {
		v.rotationX = maxPitch
	}
	if v.rotationX < -0.1 {
		v.rotationX = -0.1
	}
}

// Zoom moves the camera toward or away from the cluster.
func (v *Viewer) Zoom(delta float32) {
	v.distance -= delta * v.distance * 0.1
	if v.distance < 2 {
		v.distance = 2
	}
}

// Render draws the cluster for the current window size.
func (v *Viewer) Render(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
	gl.ClearColor(0.12, 0.14, 0.18, 1.0)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)

	gl.UseProgram(v.program)

	aspect := float32(width) / float32(height)
	projection := mgl32.Perspective(mgl32.DegToRad(45), aspect, 0.1, 1000)
	eye := v.cameraPosition()
	view := mgl32.LookAtV(eye, v.center, mgl32.Vec3{0, 1, 0})

	gl.UniformMatrix4fv(v.locProjection, 1, false, &projection[0])
	gl.UniformMatrix4fv(v.locView, 1, false, &view[0])
	gl.Uniform3f(v.locLightDir, 0.5, 1.0, 0.5)

	for i := range v.rocks {
		draw := &v.rocks[i]
		gl.UniformMatrix4fv(v.locModel, 1, false, &draw.model[0])
		gl.Uniform3f(v.locColor, draw.color[0], draw.color[1], draw.color[2])
		gl.BindVertexArray(draw.vao)
		gl.DrawElements(gl.TRIANGLES, draw.indexCount, gl.UNSIGNED_INT, nil)
	}
	gl.BindVertexArray(0)
}

func (v *Viewer) cameraPosition() mgl32.Vec3 {
	cosX := float32(gomath.Cos(float64(v.rotationX)))
	sinX := float32(gomath.Sin(float64(v.rotationX)))
	cosY := float32(gomath.Cos(float64(v.rotationY)))
	sinY := float32(gomath.Sin(float64(v.rotationY)))

	return mgl32.Vec3{
		v.center.X() + v.distance*cosX*sinY,
		v.center.Y() + v.distance*sinX,
		v.center.Z() + v.distance*cosX*cosY,
	}
}

func (v *Viewer) clear() {
	for i := range v.rocks {
		gl.DeleteVertexArrays(1, &v.rocks[i].vao)
		gl.DeleteBuffers(1, &v.rocks[i].vbo)
		gl.DeleteBuffers(1, &v.rocks[i].ebo)
	}
	v.rocks = nil
}

// Destroy releases GPU resources.
func (v *Viewer) Destroy() {
	v.clear()
	if v.program != 0 {
		gl.DeleteProgram(v.program)
	}
}

func horizontalReach(center, p [3]float32) float32 {
	dx := float64(p[0] - center[0])
	dz := float64(p[2] - center[2])
	return float32(gomath.Sqrt(dx*dx + dz*dz))
}
