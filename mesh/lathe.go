package mesh

import (
	"fmt"

	"github.com/chewxy/math32"

	"mesh-generator/math"
)

// Lathe sweeps a profile around the Y axis. Each profile point is a
// (radius, height) pair with radius >= 0; segments+1 angular steps are
// generated so the seam column is duplicated for UV wrapping.
//
// Vertices are stored profile-major: row i holds profile point i at every
// angle, so vertex (i, s) is at index i*(segments+1)+s. This differs from
// an angle-major layout (row stride len(profile)); the vertex and triangle
// counts are the same. A profile listed bottom to top yields
// outward-facing triangles.
// No caps are added; the surface closes only where the profile touches the
// axis.
func Lathe(profile []math.Vec2, segments int) (Mesh, error) {
	if len(profile) < 2 {
		return Mesh{}, fmt.Errorf("lathe: profile needs at least 2 points, got %d: %w", len(profile), ErrInvalidParameter)
	}
	if segments < 3 {
		return Mesh{}, fmt.Errorf("lathe: segments must be >= 3, got %d: %w", segments, ErrInvalidParameter)
	}

	n := len(profile)
	row := segments + 1
	positions := make([]math.Vec3, 0, n*row)
	uvs := make([]math.Vec2, 0, n*row)

	for i, p := range profile {
		v := float32(i) / float32(n-1)
		for s := 0; s <= segments; s++ {
			u := float32(s) / float32(segments)
			sin, cos := math32.Sincos(u * 2 * math32.Pi)
			positions = append(positions, math.Vec3{X: p.X * cos, Y: p.Y, Z: p.X * sin})
			uvs = append(uvs, math.Vec2{X: u, Y: v})
		}
	}

	indices := gridIndices(make([]uint32, 0, (n-1)*segments*6), 0, n-1, segments, row)

	return finish(Mesh{Name: "Lathe", Positions: positions, UVs: uvs, Indices: indices}), nil
}
