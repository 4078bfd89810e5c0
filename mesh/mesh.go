// Package mesh holds the triangle-mesh data model and the procedural
// generators that produce it: box, UV sphere, cylinder, lathe (surface of
// revolution) and convex-polygon extrusion.
//
// Every generator returns a fresh Mesh whose normals and UVs are already
// populated. Triangles are wound counter-clockwise when viewed from the
// outside of the solid.
package mesh

import (
	"errors"
	"fmt"

	"mesh-generator/math"
)

var (
	// ErrInvalidParameter is returned by generators whose parameters cannot
	// describe a valid topology (too few segments, points or profile
	// samples).
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrInvalidMesh is returned by Validate when a mesh breaks one of the
	// index or attribute-length invariants.
	ErrInvalidMesh = errors.New("invalid mesh")
)

// Mesh is a triangulated surface stored as four index-aligned arrays.
// Normals and UVs are either empty or exactly len(Positions) long.
type Mesh struct {
	Name      string
	Positions []math.Vec3
	Normals   []math.Vec3
	UVs       []math.Vec2
	Indices   []uint32 // triangle list, CCW from the outward side
}

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min, Max math.Vec3
}

// Size returns the extent of the box along each axis.
func (b AABB) Size() math.Vec3 {
	return b.Max.Sub(b.Min)
}

// Center returns the midpoint of the box.
func (b AABB) Center() math.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Positions)
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// IsEmpty reports whether the mesh has no drawable geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Positions) == 0 || len(m.Indices) == 0
}

// EnsureNormals recomputes smooth normals unless the mesh already carries
// one normal per vertex, in which case the existing normals are kept as
// authoritative.
func (m *Mesh) EnsureNormals() {
	if len(m.Normals) == len(m.Positions) {
		return
	}
	m.Normals = SmoothNormals(m.Positions, m.Indices)
}

// EnsureUVs fills every vertex with def unless the mesh already carries one
// UV per vertex. The constant fill is a placeholder, not a parameterization.
func (m *Mesh) EnsureUVs(def math.Vec2) {
	if len(m.UVs) == len(m.Positions) {
		return
	}
	uvs := make([]math.Vec2, len(m.Positions))
	for i := range uvs {
		uvs[i] = def
	}
	m.UVs = uvs
}

// Bounds returns the tight local-space AABB of the positions. An empty mesh
// yields the zero box.
func (m *Mesh) Bounds() AABB {
	if len(m.Positions) == 0 {
		return AABB{}
	}
	b := AABB{Min: m.Positions[0], Max: m.Positions[0]}
	for _, p := range m.Positions[1:] {
		b.Min = b.Min.Min(p)
		b.Max = b.Max.Max(p)
	}
	return b
}

// Clone returns a deep copy of m.
func (m Mesh) Clone() Mesh {
	return Mesh{
		Name:      m.Name,
		Positions: append([]math.Vec3(nil), m.Positions...),
		Normals:   append([]math.Vec3(nil), m.Normals...),
		UVs:       append([]math.Vec2(nil), m.UVs...),
		Indices:   append([]uint32(nil), m.Indices...),
	}
}

// Validate checks the structural invariants and returns the first
// violation wrapped in ErrInvalidMesh.
func (m *Mesh) Validate() error {
	n := len(m.Positions)
	if len(m.Indices)%3 != 0 {
		return fmt.Errorf("%d indices is not a whole number of triangles: %w", len(m.Indices), ErrInvalidMesh)
	}
	if len(m.Normals) != 0 && len(m.Normals) != n {
		return fmt.Errorf("%d normals for %d positions: %w", len(m.Normals), n, ErrInvalidMesh)
	}
	if len(m.UVs) != 0 && len(m.UVs) != n {
		return fmt.Errorf("%d uvs for %d positions: %w", len(m.UVs), n, ErrInvalidMesh)
	}
	for i, idx := range m.Indices {
		if int(idx) >= n {
			return fmt.Errorf("index %d at %d out of range for %d positions: %w", idx, i, n, ErrInvalidMesh)
		}
	}
	return nil
}

// finish restores the attribute invariants on a freshly generated mesh.
func finish(m Mesh) Mesh {
	m.EnsureNormals()
	m.EnsureUVs(math.Vec2Zero)
	return m
}
