package mesh

import (
	"fmt"

	"github.com/chewxy/math32"

	"mesh-generator/math"
)

// boxFaces lists, per face, the outward normal's corner signs in CCW order
// seen from outside. Each entry is the sign of (x, y, z) for one corner.
var boxFaces = [6][4][3]float32{
	{{-1, -1, 1}, {1, -1, 1}, {1, 1, 1}, {-1, 1, 1}},     // front +Z
	{{1, -1, -1}, {-1, -1, -1}, {-1, 1, -1}, {1, 1, -1}}, // back -Z
	{{-1, -1, -1}, {-1, -1, 1}, {-1, 1, 1}, {-1, 1, -1}}, // left -X
	{{1, -1, 1}, {1, -1, -1}, {1, 1, -1}, {1, 1, 1}},     // right +X
	{{-1, -1, -1}, {1, -1, -1}, {1, -1, 1}, {-1, -1, 1}}, // bottom -Y
	{{-1, 1, 1}, {1, 1, 1}, {1, 1, -1}, {-1, 1, -1}},     // top +Y
}

var boxFaceUVs = [4]math.Vec2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}

// Box generates an axis-aligned box of the given size centred on the
// origin. Each face owns its four vertices, so the smoothed normals come
// out flat per face. A zero or negative size is not rejected and produces a
// degenerate or inside-out box.
func Box(size math.Vec3) Mesh {
	half := size.Mul(0.5)

	positions := make([]math.Vec3, 0, 24)
	uvs := make([]math.Vec2, 0, 24)
	indices := make([]uint32, 0, 36)

	for _, face := range boxFaces {
		base := uint32(len(positions))
		for c, corner := range face {
			positions = append(positions, math.Vec3{
				X: corner[0] * half.X,
				Y: corner[1] * half.Y,
				Z: corner[2] * half.Z,
			})
			uvs = append(uvs, boxFaceUVs[c])
		}
		indices = append(indices,
			base, base+1, base+2,
			base, base+2, base+3,
		)
	}

	return finish(Mesh{Name: "Box", Positions: positions, UVs: uvs, Indices: indices})
}

// Sphere generates a UV sphere of the given radius centred on the origin.
// The (latSegments+1)×(lonSegments+1) vertex grid duplicates the seam column
// and turns each pole into a ring of coincident vertices so UVs stay
// continuous. Normals are analytic.
func Sphere(radius float32, latSegments, lonSegments int) (Mesh, error) {
	if latSegments < 3 {
		return Mesh{}, fmt.Errorf("sphere: latSegments must be >= 3, got %d: %w", latSegments, ErrInvalidParameter)
	}
	if lonSegments < 3 {
		return Mesh{}, fmt.Errorf("sphere: lonSegments must be >= 3, got %d: %w", lonSegments, ErrInvalidParameter)
	}

	count := (latSegments + 1) * (lonSegments + 1)
	positions := make([]math.Vec3, 0, count)
	normals := make([]math.Vec3, 0, count)
	uvs := make([]math.Vec2, 0, count)

	// Rings run from the south pole (theta = pi) up to the north pole so
	// rows advance along +Y, as in the cylinder and lathe grids.
	for y := 0; y <= latSegments; y++ {
		v := float32(y) / float32(latSegments)
		theta := (1 - v) * math32.Pi
		sinTheta, cosTheta := math32.Sincos(theta)
		if y == 0 || y == latSegments {
			// float32 sin(pi) is not zero; pole vertices must coincide.
			sinTheta = 0
		}

		for x := 0; x <= lonSegments; x++ {
			u := float32(x) / float32(lonSegments)
			phi := u * 2 * math32.Pi
			sinPhi, cosPhi := math32.Sincos(phi)

			n := math.Vec3{X: cosPhi * sinTheta, Y: cosTheta, Z: sinPhi * sinTheta}
			positions = append(positions, n.Mul(radius))
			normals = append(normals, n)
			uvs = append(uvs, math.Vec2{X: u, Y: 1 - theta/math32.Pi})
		}
	}

	indices := gridIndices(make([]uint32, 0, latSegments*lonSegments*6), 0, latSegments, lonSegments, lonSegments+1)

	return finish(Mesh{Name: "Sphere", Positions: positions, Normals: normals, UVs: uvs, Indices: indices}), nil
}

// Cylinder generates a Y-axis cylinder centred on the origin. The side wall
// is a (heightSegments+1)×(radialSegments+1) grid with radial normals. When
// capped, each end gets its own centre vertex and ring so the rim stays
// sharp.
func Cylinder(radius, height float32, radialSegments, heightSegments int, capped bool) (Mesh, error) {
	if radialSegments < 3 {
		return Mesh{}, fmt.Errorf("cylinder: radialSegments must be >= 3, got %d: %w", radialSegments, ErrInvalidParameter)
	}
	if heightSegments < 1 {
		return Mesh{}, fmt.Errorf("cylinder: heightSegments must be >= 1, got %d: %w", heightSegments, ErrInvalidParameter)
	}

	var positions []math.Vec3
	var normals []math.Vec3
	var uvs []math.Vec2
	halfHeight := height * 0.5
	row := radialSegments + 1

	for y := 0; y <= heightSegments; y++ {
		v := float32(y) / float32(heightSegments)
		py := -halfHeight + height*v
		for i := 0; i <= radialSegments; i++ {
			u := float32(i) / float32(radialSegments)
			s, c := math32.Sincos(u * 2 * math32.Pi)
			n := math.Vec3{X: c, Y: 0, Z: s}

			positions = append(positions, math.Vec3{X: c * radius, Y: py, Z: s * radius})
			normals = append(normals, n)
			uvs = append(uvs, math.Vec2{X: u, Y: v})
		}
	}
	indices := gridIndices(nil, 0, heightSegments, radialSegments, row)

	if capped {
		for _, top := range []bool{true, false} {
			y, normal := halfHeight, math.Vec3Up
			if !top {
				y, normal = -halfHeight, math.Vec3Down
			}

			center := uint32(len(positions))
			positions = append(positions, math.Vec3{X: 0, Y: y, Z: 0})
			normals = append(normals, normal)
			uvs = append(uvs, math.Vec2{X: 0.5, Y: 0.5})

			for i := 0; i <= radialSegments; i++ {
				u := float32(i) / float32(radialSegments)
				s, c := math32.Sincos(u * 2 * math32.Pi)
				positions = append(positions, math.Vec3{X: c * radius, Y: y, Z: s * radius})
				normals = append(normals, normal)
				uvs = append(uvs, math.Vec2{X: (c + 1) * 0.5, Y: (s + 1) * 0.5})
			}

			// The ring runs clockwise seen from above, so the top fan keeps
			// the default winding and the bottom one is flipped.
			indices = appendFan(indices, center, center+1, row, !top)
		}
	}

	return finish(Mesh{Name: "Cylinder", Positions: positions, Normals: normals, UVs: uvs, Indices: indices}), nil
}
