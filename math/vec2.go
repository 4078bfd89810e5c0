package math

import "github.com/chewxy/math32"

type Vec2 struct {
	X, Y float32
}

var Vec2Zero = Vec2{0, 0}

func NewVec2(x, y float32) Vec2 {
	return Vec2{X: x, Y: y}
}

func (v Vec2) Sub(other Vec2) Vec2 {
	return Vec2{X: v.X - other.X, Y: v.Y - other.Y}
}

// Cross returns the z component of the 3D cross product of v and other
// lifted onto the XY plane. Positive when other lies counter-clockwise of v.
func (v Vec2) Cross(other Vec2) float32 {
	return v.X*other.Y - v.Y*other.X
}

func (v Vec2) Length() float32 {
	return math32.Sqrt(v.X*v.X + v.Y*v.Y)
}

func (v Vec2) Distance(other Vec2) float32 {
	return v.Sub(other).Length()
}
