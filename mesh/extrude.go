package mesh

import (
	"fmt"

	"mesh-generator/math"
)

// Extrude lifts a convex polygon, given counter-clockwise in its own XY
// plane, into a prism of the given height. The polygon is laid on the
// world XZ plane as (x, 0, y) and copied to y = height; the side band joins
// the two rings edge by edge.
//
// When capped, both ends are fan-triangulated from the first polygon vertex
// and share their vertices with the side band. Convexity is not checked: a
// concave polygon produces a structurally valid mesh whose caps overlap.
func Extrude(polygon []math.Vec2, height float32, capped bool) (Mesh, error) {
	if len(polygon) < 3 {
		return Mesh{}, fmt.Errorf("extrude: polygon needs at least 3 points, got %d: %w", len(polygon), ErrInvalidParameter)
	}

	n := len(polygon)
	positions := make([]math.Vec3, 0, 2*n)
	uvs := make([]math.Vec2, 0, 2*n)
	u := perimeterFractions(polygon)

	for ring := 0; ring < 2; ring++ {
		y := float32(ring) * height
		for i, p := range polygon {
			positions = append(positions, math.Vec3{X: p.X, Y: y, Z: p.Y})
			uvs = append(uvs, math.Vec2{X: u[i], Y: float32(ring)})
		}
	}

	indices := make([]uint32, 0, 6*n+6*(n-2))
	for i := 0; i < n; i++ {
		i0 := uint32(i)
		i1 := uint32((i + 1) % n)
		indices = appendQuad(indices, i0, i1, i0+uint32(n), i1+uint32(n))
	}

	if capped {
		// Seen from above the polygon runs clockwise, so the top keeps the
		// default fan winding and the bottom is flipped.
		top := uint32(n)
		indices = appendFan(indices, top, top+1, n-1, false)
		indices = appendFan(indices, 0, 1, n-1, true)
	}

	return finish(Mesh{Name: "Extrude", Positions: positions, UVs: uvs, Indices: indices}), nil
}

// perimeterFractions returns, per polygon vertex, the arc length from the
// first vertex divided by the full perimeter. A zero perimeter yields zeros.
func perimeterFractions(polygon []math.Vec2) []float32 {
	out := make([]float32, len(polygon))
	var total float32
	for i := 1; i < len(polygon); i++ {
		total += polygon[i].Distance(polygon[i-1])
		out[i] = total
	}
	total += polygon[0].Distance(polygon[len(polygon)-1])
	if total == 0 {
		return make([]float32, len(polygon))
	}
	for i := range out {
		out[i] /= total
	}
	return out
}
