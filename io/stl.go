package io

import (
	"fmt"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"mesh-generator/math"
	"mesh-generator/mesh"
)

// ExportSTL writes meshes to path as a single binary STL solid. STL keeps
// only triangle geometry, so normals and UVs are dropped and face normals
// are recomputed from the winding.
func ExportSTL(path string, meshes ...mesh.Mesh) error {
	tris, err := Triangles(meshes...)
	if err != nil {
		return err
	}
	if err := render.SaveSTL(path, tris); err != nil {
		return fmt.Errorf("stl save %q: %w", path, err)
	}
	return nil
}

// Triangles expands indexed meshes into a flat sdfx triangle soup.
func Triangles(meshes ...mesh.Mesh) ([]*sdf.Triangle3, error) {
	if err := checkMeshes(meshes); err != nil {
		return nil, err
	}

	var n int
	for _, m := range meshes {
		if err := m.Validate(); err != nil {
			return nil, fmt.Errorf("stl %q: %w", m.Name, err)
		}
		n += m.TriangleCount()
	}

	tris := make([]*sdf.Triangle3, 0, n)
	for _, m := range meshes {
		for i := 0; i+2 < len(m.Indices); i += 3 {
			tris = append(tris, &sdf.Triangle3{
				toV3(m.Positions[m.Indices[i]]),
				toV3(m.Positions[m.Indices[i+1]]),
				toV3(m.Positions[m.Indices[i+2]]),
			})
		}
	}
	return tris, nil
}

func toV3(p math.Vec3) v3.Vec {
	return v3.Vec{X: float64(p.X), Y: float64(p.Y), Z: float64(p.Z)}
}
