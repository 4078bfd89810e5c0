package math

import "github.com/chewxy/math32"

// Mat4 is a row-major 4x4 matrix applied to row vectors (v * M), so the
// translation lives in the last row. Its memory layout matches what
// OpenGL expects for a column-major uniform without transposition.
type Mat4 [4][4]float32

func Mat4Identity() Mat4 {
	return Mat4{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}
}

func Mat4Zero() Mat4 {
	return Mat4{}
}

func (m Mat4) Mul(other Mat4) Mat4 {
	result := Mat4Zero()
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			for k := 0; k < 4; k++ {
				result[i][j] += m[i][k] * other[k][j]
			}
		}
	}
	return result
}

func (m Mat4) MulVec(v Vec4) Vec4 {
	return v.MulMat(m)
}

func (m Mat4) MulVec3(v Vec3) Vec3 {
	v4 := v.ToVec4(1.0)
	result := m.MulVec(v4)
	return result.ToVec3DivW()
}

func Mat4Translation(translation Vec3) Mat4 {
	m := Mat4Identity()
	m[3][0] = translation.X
	m[3][1] = translation.Y
	m[3][2] = translation.Z
	return m
}

func Mat4RotationX(angle float32) Mat4 {
	c := math32.Cos(angle)
	s := math32.Sin(angle)
	return Mat4{
		{1, 0, 0, 0},
		{0, c, s, 0},
		{0, -s, c, 0},
		{0, 0, 0, 1},
	}
}

func Mat4RotationY(angle float32) Mat4 {
	c := math32.Cos(angle)
	s := math32.Sin(angle)
	return Mat4{
		{c, 0, -s, 0},
		{0, 1, 0, 0},
		{s, 0, c, 0},
		{0, 0, 0, 1},
	}
}

func Mat4Perspective(fovY, aspect, near, far float32) Mat4 {
	tanHalfFovy := math32.Tan(fovY / 2)

	m := Mat4Zero()
	m[0][0] = 1 / (aspect * tanHalfFovy)
	m[1][1] = 1 / tanHalfFovy
	m[2][2] = -(far + near) / (far - near)
	m[2][3] = -1
	m[3][2] = -(2 * far * near) / (far - near)
	return m
}

func Mat4LookAt(eye, target, up Vec3) Mat4 {
	zAxis := eye.Sub(target).Normalize()
	xAxis := up.Cross(zAxis).Normalize()
	yAxis := zAxis.Cross(xAxis)

	return Mat4{
		{xAxis.X, yAxis.X, zAxis.X, 0},
		{xAxis.Y, yAxis.Y, zAxis.Y, 0},
		{xAxis.Z, yAxis.Z, zAxis.Z, 0},
		{-xAxis.Dot(eye), -yAxis.Dot(eye), -zAxis.Dot(eye), 1},
	}
}
