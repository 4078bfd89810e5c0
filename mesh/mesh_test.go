package mesh

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mesh-generator/math"
)

const eps = 1e-4

// requireWellFormed checks the invariants every generator must uphold.
func requireWellFormed(t *testing.T, m Mesh) {
	t.Helper()

	require.NoError(t, m.Validate())
	require.Zero(t, len(m.Indices)%3, "index count must be a multiple of 3")
	require.Len(t, m.Normals, len(m.Positions))
	require.Len(t, m.UVs, len(m.Positions))

	for i, n := range m.Normals {
		if n == math.Vec3Up {
			continue
		}
		assert.InDelta(t, 1, n.Length(), eps, "normal %d is not unit length: %v", i, n)
	}
}

// requireOutward checks that every non-degenerate triangle faces away from
// the reference point returned by ref for its centroid.
func requireOutward(t *testing.T, m Mesh, ref func(c math.Vec3) math.Vec3) {
	t.Helper()

	for tri := 0; tri < m.TriangleCount(); tri++ {
		p0 := m.Positions[m.Indices[tri*3]]
		p1 := m.Positions[m.Indices[tri*3+1]]
		p2 := m.Positions[m.Indices[tri*3+2]]

		face := p1.Sub(p0).Cross(p2.Sub(p0))
		if face.Length() < 1e-6 {
			continue
		}
		centroid := p0.Add(p1).Add(p2).Mul(1.0 / 3)
		out := centroid.Sub(ref(centroid))
		require.Greater(t, face.Dot(out), float32(0),
			"triangle %d (%v %v %v) faces inward", tri, p0, p1, p2)
	}
}

func origin(math.Vec3) math.Vec3 { return math.Vec3Zero }

func yAxis(c math.Vec3) math.Vec3 { return math.Vec3{Y: c.Y} }

func TestSmoothNormalsFallbackForIsolatedVertex(t *testing.T) {
	positions := []math.Vec3{
		{X: 0, Y: 0, Z: 0},
		{X: 1, Y: 0, Z: 0},
		{X: 0, Y: 1, Z: 0},
		{X: 5, Y: 5, Z: 5}, // referenced by no triangle
	}
	normals := SmoothNormals(positions, []uint32{0, 1, 2})

	require.Len(t, normals, 4)
	assert.Equal(t, math.Vec3Up, normals[3])
	for i := 0; i < 3; i++ {
		assert.True(t, normals[i].ApproxEqual(math.Vec3Front, eps), "normal %d = %v", i, normals[i])
	}
}

func TestSmoothNormalsDegenerateTriangle(t *testing.T) {
	p := math.Vec3{X: 1, Y: 2, Z: 3}
	normals := SmoothNormals([]math.Vec3{p, p, p}, []uint32{0, 1, 2})

	for _, n := range normals {
		assert.Equal(t, math.Vec3Up, n)
	}
}

func TestSmoothNormalsEqualWeightPerTriangle(t *testing.T) {
	// Two triangles share vertex 0: a large one in the XY plane and a tiny
	// one in the YZ plane. Equal weighting puts the shared normal halfway
	// between +Z and +X regardless of area.
	positions := []math.Vec3{
		{X: 0, Y: 0, Z: 0},
		{X: 100, Y: 0, Z: 0},
		{X: 0, Y: 100, Z: 0},
		{X: 0, Y: 0.01, Z: 0},
		{X: 0, Y: 0, Z: 0.01},
	}
	normals := SmoothNormals(positions, []uint32{0, 1, 2, 0, 3, 4})

	want := math.Vec3{X: 1, Z: 1}.Normalize()
	assert.True(t, normals[0].ApproxEqual(want, eps), "got %v, want %v", normals[0], want)
}

func TestSmoothNormalsSkipsOutOfRangeTriangles(t *testing.T) {
	positions := []math.Vec3{{}, {X: 1}, {Y: 1}}
	normals := SmoothNormals(positions, []uint32{0, 1, 2, 0, 1, 9})

	require.Len(t, normals, 3)
	assert.True(t, normals[0].ApproxEqual(math.Vec3Front, eps))
}

func TestEnsureNormalsKeepsSuppliedNormals(t *testing.T) {
	m := Mesh{
		Positions: []math.Vec3{{}, {X: 1}, {Y: 1}},
		Normals:   []math.Vec3{math.Vec3Right, math.Vec3Right, math.Vec3Right},
		Indices:   []uint32{0, 1, 2},
	}
	m.EnsureNormals()

	assert.Equal(t, []math.Vec3{math.Vec3Right, math.Vec3Right, math.Vec3Right}, m.Normals)
}

func TestEnsureNormalsReplacesMismatchedNormals(t *testing.T) {
	m := Mesh{
		Positions: []math.Vec3{{}, {X: 1}, {Y: 1}},
		Normals:   []math.Vec3{math.Vec3Right},
		Indices:   []uint32{0, 1, 2},
	}
	m.EnsureNormals()

	require.Len(t, m.Normals, 3)
	for _, n := range m.Normals {
		assert.True(t, n.ApproxEqual(math.Vec3Front, eps))
	}
}

func TestEnsureUVs(t *testing.T) {
	m := Mesh{Positions: make([]math.Vec3, 4)}
	def := math.Vec2{X: 0.25, Y: 0.75}
	m.EnsureUVs(def)

	require.Len(t, m.UVs, 4)
	for _, uv := range m.UVs {
		assert.Equal(t, def, uv)
	}

	// Matching length is authoritative.
	m.UVs[0] = math.Vec2{X: 9, Y: 9}
	m.EnsureUVs(math.Vec2Zero)
	assert.Equal(t, math.Vec2{X: 9, Y: 9}, m.UVs[0])
}

func TestEnsureIsIdempotent(t *testing.T) {
	m := Box(math.Vec3One)
	m.Normals = nil
	m.UVs = nil

	m.EnsureNormals()
	m.EnsureUVs(math.Vec2Zero)
	normals := append([]math.Vec3(nil), m.Normals...)
	uvs := append([]math.Vec2(nil), m.UVs...)

	m.EnsureNormals()
	m.EnsureUVs(math.Vec2{X: 1, Y: 1})
	assert.Equal(t, normals, m.Normals)
	assert.Equal(t, uvs, m.UVs)
}

func TestValidate(t *testing.T) {
	tri := []math.Vec3{{}, {X: 1}, {Y: 1}}

	tests := []struct {
		name string
		mesh Mesh
		ok   bool
	}{
		{"valid", Mesh{Positions: tri, Indices: []uint32{0, 1, 2}}, true},
		{"empty", Mesh{}, true},
		{"partial triangle", Mesh{Positions: tri, Indices: []uint32{0, 1}}, false},
		{"index out of range", Mesh{Positions: tri, Indices: []uint32{0, 1, 3}}, false},
		{"short normals", Mesh{Positions: tri, Normals: tri[:1], Indices: []uint32{0, 1, 2}}, false},
		{"short uvs", Mesh{Positions: tri, UVs: make([]math.Vec2, 2), Indices: []uint32{0, 1, 2}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.mesh.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidMesh)
			}
		})
	}
}

func TestBoundsAndClone(t *testing.T) {
	m := Box(math.Vec3{X: 2, Y: 4, Z: 6})

	b := m.Bounds()
	assert.Equal(t, math.Vec3{X: -1, Y: -2, Z: -3}, b.Min)
	assert.Equal(t, math.Vec3{X: 1, Y: 2, Z: 3}, b.Max)
	assert.Equal(t, math.Vec3{X: 2, Y: 4, Z: 6}, b.Size())
	assert.Equal(t, math.Vec3Zero, b.Center())

	c := m.Clone()
	c.Positions[0] = math.Vec3{X: 42}
	c.Indices[0] = 7
	assert.NotEqual(t, c.Positions[0], m.Positions[0])
	assert.NotEqual(t, c.Indices[0], m.Indices[0])

	var empty Mesh
	assert.Equal(t, AABB{}, empty.Bounds())
	assert.True(t, empty.IsEmpty())
}

func TestGridIndices(t *testing.T) {
	// A single cell: vertices 0 1 on the first row, 2 3 on the second.
	got := gridIndices(nil, 0, 1, 1, 2)
	assert.Equal(t, []uint32{0, 2, 1, 1, 2, 3}, got)

	got = gridIndices(nil, 10, 2, 1, 2)
	assert.Equal(t, []uint32{10, 12, 11, 11, 12, 13, 12, 14, 13, 13, 14, 15}, got)
}

func TestAppendFan(t *testing.T) {
	assert.Equal(t, []uint32{0, 2, 1, 0, 3, 2}, appendFan(nil, 0, 1, 3, false))
	assert.Equal(t, []uint32{0, 1, 2, 0, 2, 3}, appendFan(nil, 0, 1, 3, true))
	assert.Empty(t, appendFan(nil, 0, 1, 1, false))
}

func TestPerimeterFractions(t *testing.T) {
	square := []math.Vec2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}
	got := perimeterFractions(square)
	want := []float32{0, 0.25, 0.5, 0.75}
	for i := range want {
		assert.InDelta(t, want[i], got[i], eps)
	}

	same := []math.Vec2{{}, {}, {}}
	assert.Equal(t, []float32{0, 0, 0}, perimeterFractions(same))
}

func unitLength(t *testing.T, positions []math.Vec3, radius float32) {
	t.Helper()
	for i, p := range positions {
		assert.InDelta(t, radius, p.Length(), eps, "position %d = %v", i, p)
	}
}

func approxZero(f float32) bool {
	return math32.Abs(f) < eps
}
