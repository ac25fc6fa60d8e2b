// Package geometry holds the fixed triangle, its vertex layout, and the
// per-frame transform that animates it.
package geometry

import (
	"math"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/vkngwrapper/core/core1_0"
)

type Vertex struct {
	Position mgl32.Vec2
	Color    mgl32.Vec3
}

// UniformBufferObject matches the std140 block bound at set 0, binding 0 of
// the vertex shader.
type UniformBufferObject struct {
	Model mgl32.Mat4
	View  mgl32.Mat4
	Proj  mgl32.Mat4
}

var Vertices = []Vertex{
	{Position: mgl32.Vec2{0, 0.5}, Color: mgl32.Vec3{1, 0, 0}},
	{Position: mgl32.Vec2{-0.5, -0.5}, Color: mgl32.Vec3{0, 1, 0}},
	{Position: mgl32.Vec2{0.5, -0.5}, Color: mgl32.Vec3{0, 0, 1}},
}

var Indices = []uint16{0, 1, 2}

func VertexBindingDescriptions() []core1_0.VertexInputBindingDescription {
	v := Vertex{}
	return []core1_0.VertexInputBindingDescription{
		{
			Binding:   0,
			Stride:    int(unsafe.Sizeof(v)),
			InputRate: core1_0.VertexInputRateVertex,
		},
	}
}

func VertexAttributeDescriptions() []core1_0.VertexInputAttributeDescription {
	v := Vertex{}
	return []core1_0.VertexInputAttributeDescription{
		{
			Binding:  0,
			Location: 0,
			Format:   core1_0.FormatR32G32SignedFloat,
			Offset:   int(unsafe.Offsetof(v.Position)),
		},
		{
			Binding:  0,
			Location: 1,
			Format:   core1_0.FormatR32G32B32SignedFloat,
			Offset:   int(unsafe.Offsetof(v.Color)),
		},
	}
}

// Period is how long, in seconds, the triangle takes for one full turn.
const Period = 4.0

const (
	fovyDegrees = 45
	near        = 0.1
	far         = 10.0
)

// Uniform returns the transforms for the given time in seconds. The
// triangle spins about Z and is viewed from (0, 0, 2).
func Uniform(seconds float64, aspect float32) UniformBufferObject {
	turn := float32(math.Mod(seconds, Period) / Period)

	ubo := UniformBufferObject{}
	ubo.Model = mgl32.HomogRotate3D(turn*2*math.Pi, mgl32.Vec3{0, 0, 1})
	ubo.View = mgl32.LookAt(0, 0, 2, 0, 0, 0, 0, 1, 0)
	ubo.Proj = Perspective(mgl32.DegToRad(fovyDegrees), aspect, near, far)
	return ubo
}

// Perspective is a right-handed projection into Vulkan clip space: depth
// runs 0..1 and Y points down.
func Perspective(fovy, aspect, near, far float32) mgl32.Mat4 {
	f := float32(1. / math.Tan(float64(fovy)/2.0))
	fmn := far - near
	return mgl32.Mat4{
		f / aspect, 0, 0, 0,
		0, -f, 0, 0,
		0, 0, -far / fmn, -1,
		0, 0, -(far * near) / fmn, 0,
	}
}

// Aspect guards against a zero-height extent.
func Aspect(width, height int) float32 {
	if height == 0 {
		return 1
	}
	return float32(width) / float32(height)
}
