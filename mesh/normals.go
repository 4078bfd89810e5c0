package mesh

import "mesh-generator/math"

// SmoothNormals computes one unit normal per vertex by summing the unit
// face normals of every triangle that references the vertex. Each triangle
// contributes with equal weight regardless of its area. Vertices with a
// zero sum (unreferenced, or only touched by degenerate triangles whose
// contributions cancel) get math.Vec3Up.
//
// Triangles naming a vertex outside positions are skipped.
func SmoothNormals(positions []math.Vec3, indices []uint32) []math.Vec3 {
	acc := make([]math.Vec3, len(positions))
	n := uint32(len(positions))

	for t := 0; t+2 < len(indices); t += 3 {
		i0, i1, i2 := indices[t], indices[t+1], indices[t+2]
		if i0 >= n || i1 >= n || i2 >= n {
			continue
		}
		p0 := positions[i0]
		e1 := positions[i1].Sub(p0)
		e2 := positions[i2].Sub(p0)

		// Normalize handles the zero-area case by returning the zero vector.
		face := e1.Cross(e2).Normalize()

		acc[i0] = acc[i0].Add(face)
		acc[i1] = acc[i1].Add(face)
		acc[i2] = acc[i2].Add(face)
	}

	for i, v := range acc {
		if v.Length() > 0 {
			acc[i] = v.Normalize()
		} else {
			acc[i] = math.Vec3Up
		}
	}
	return acc
}
