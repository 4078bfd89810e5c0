package main

import (
	"github.com/chewxy/math32"

	"mesh-generator/math"
	"mesh-generator/mesh"
)

const fovY = 45 * math32.Pi / 180

// orbit is a camera circling the model's bounds at a fixed elevation.
type orbit struct {
	target   math.Vec3
	distance float32
	pitch    float32 // radians above the horizon
}

// frame places an orbit camera so the bounding sphere of b fills the view.
func frame(b mesh.AABB) orbit {
	radius := b.Size().Length() * 0.5
	if radius < 1e-3 {
		radius = 1
	}
	return orbit{
		target:   b.Center(),
		distance: radius / math32.Sin(fovY/2) * 1.1,
		pitch:    0.35,
	}
}

// zoom scales the distance by 0.9 per scroll step, clamped to a sane range.
func (o *orbit) zoom(steps float64) {
	o.distance *= math32.Pow(0.9, float32(steps))
	o.distance = math32.Max(0.05, math32.Min(o.distance, 1e4))
}

// eye tilts the +Z offset up by pitch about the target's X axis.
func (o orbit) eye() math.Vec3 {
	offset := math.Mat4RotationX(-o.pitch).MulVec3(math.Vec3Front.Mul(o.distance))
	return o.target.Add(offset)
}

// tilt changes the elevation, clamped short of the poles so LookAt keeps a
// valid up vector.
func (o *orbit) tilt(delta float32) {
	const limit = 1.5
	o.pitch = math32.Max(-limit, math32.Min(o.pitch+delta, limit))
}

// matrices returns the model, view and projection matrices for a model
// spun by angle radians about its own vertical axis.
func (o orbit) matrices(angle, aspect float32) (model, view, proj math.Mat4) {
	centre := math.Mat4Translation(o.target.Negate())
	back := math.Mat4Translation(o.target)
	model = centre.Mul(math.Mat4RotationY(angle)).Mul(back)
	view = math.Mat4LookAt(o.eye(), o.target, math.Vec3Up)
	proj = math.Mat4Perspective(fovY, aspect, o.distance*0.01, o.distance*10)
	return model, view, proj
}
