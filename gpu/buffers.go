// Package gpu flattens a mesh.Mesh into the tightly packed arrays a
// graphics API uploads as vertex and index buffers.
package gpu

import (
	"errors"
	"fmt"

	"mesh-generator/math"
	"mesh-generator/mesh"
)

// ErrEmptyMesh is returned when a mesh has no positions or no indices.
var ErrEmptyMesh = errors.New("mesh has no geometry")

// IndexFormat is the element width of the index buffer.
type IndexFormat int

const (
	IndexUint16 IndexFormat = iota
	IndexUint32
)

// maxUint16Index is the largest index a 16-bit buffer may hold. 0xFFFF is
// reserved as the primitive-restart value.
const maxUint16Index = 0xFFFE

func (f IndexFormat) String() string {
	switch f {
	case IndexUint16:
		return "uint16"
	case IndexUint32:
		return "uint32"
	default:
		return fmt.Sprintf("IndexFormat(%d)", int(f))
	}
}

// Size returns the byte width of one index.
func (f IndexFormat) Size() int {
	if f == IndexUint16 {
		return 2
	}
	return 4
}

// Buffers holds upload-ready vertex streams and one index stream. Exactly
// one of Indices16 and Indices32 is populated, matching Format.
type Buffers struct {
	Name      string
	Positions []float32 // xyz
	Normals   []float32 // xyz
	UVs       []float32 // uv
	Indices16 []uint16
	Indices32 []uint32
	Format    IndexFormat
	Bounds    mesh.AABB
}

// VertexCount returns the number of vertices in the streams.
func (b *Buffers) VertexCount() int {
	return len(b.Positions) / 3
}

// IndexCount returns the number of indices in whichever index stream is
// populated.
func (b *Buffers) IndexCount() int {
	if b.Format == IndexUint16 {
		return len(b.Indices16)
	}
	return len(b.Indices32)
}

// Pack converts m into GPU buffers. Missing normals and UVs are restored on
// a private copy, so the caller's mesh is never modified.
func Pack(m mesh.Mesh) (*Buffers, error) {
	if m.IsEmpty() {
		return nil, fmt.Errorf("pack %q: %w", m.Name, ErrEmptyMesh)
	}

	c := m.Clone()
	c.EnsureNormals()
	c.EnsureUVs(math.Vec2Zero)
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("pack %q: %w", m.Name, err)
	}

	b := &Buffers{
		Name:      c.Name,
		Positions: make([]float32, 0, len(c.Positions)*3),
		Normals:   make([]float32, 0, len(c.Normals)*3),
		UVs:       make([]float32, 0, len(c.UVs)*2),
		Bounds:    c.Bounds(),
	}
	for i, p := range c.Positions {
		n := c.Normals[i]
		uv := c.UVs[i]
		b.Positions = append(b.Positions, p.X, p.Y, p.Z)
		b.Normals = append(b.Normals, n.X, n.Y, n.Z)
		b.UVs = append(b.UVs, uv.X, uv.Y)
	}

	var maxIndex uint32
	for _, idx := range c.Indices {
		if idx > maxIndex {
			maxIndex = idx
		}
	}

	if maxIndex <= maxUint16Index {
		b.Format = IndexUint16
		b.Indices16 = make([]uint16, len(c.Indices))
		for i, idx := range c.Indices {
			b.Indices16[i] = uint16(idx)
		}
	} else {
		b.Format = IndexUint32
		b.Indices32 = c.Indices
	}

	return b, nil
}
