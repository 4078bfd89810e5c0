package core

type Color struct {
	R, G, B, A float32
}

var (
	ColorSlate = Color{0.12, 0.13, 0.16, 1}
	ColorClay  = Color{0.85, 0.62, 0.45, 1}
)

// RGB returns the color without alpha, as a shader vec3 expects it.
func (c Color) RGB() [3]float32 {
	return [3]float32{c.R, c.G, c.B}
}
