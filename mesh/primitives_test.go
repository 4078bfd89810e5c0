package mesh

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mesh-generator/math"
)

func TestBox(t *testing.T) {
	m := Box(math.Vec3{X: 2, Y: 2, Z: 2})

	requireWellFormed(t, m)
	assert.Equal(t, "Box", m.Name)
	assert.Equal(t, 24, m.VertexCount())
	assert.Equal(t, 12, m.TriangleCount())
	assert.Len(t, m.Indices, 36)

	for i, p := range m.Positions {
		for _, c := range []float32{p.X, p.Y, p.Z} {
			assert.True(t, c == 1 || c == -1, "position %d = %v has a coordinate outside {-1,1}", i, p)
		}
	}
	requireOutward(t, m, origin)
}

func TestBoxFacesAreFlat(t *testing.T) {
	m := Box(math.Vec3{X: 1, Y: 2, Z: 3})
	want := []math.Vec3{
		math.Vec3Front, math.Vec3Back, math.Vec3Left,
		math.Vec3Right, math.Vec3Down, math.Vec3Up,
	}

	for face, n := range want {
		for c := 0; c < 4; c++ {
			got := m.Normals[face*4+c]
			assert.True(t, got.ApproxEqual(n, eps), "face %d corner %d: got %v, want %v", face, c, got, n)
		}
	}
	assert.Equal(t, math.Vec2{X: 1, Y: 1}, m.UVs[2])
}

func TestBoxDegenerateSizeIsAccepted(t *testing.T) {
	m := Box(math.Vec3{X: 0, Y: 1, Z: 1})

	require.NoError(t, m.Validate())
	assert.Equal(t, 24, m.VertexCount())
	assert.Len(t, m.Normals, 24)
}

func TestSphere(t *testing.T) {
	m, err := Sphere(1, 3, 3)
	require.NoError(t, err)

	requireWellFormed(t, m)
	assert.Equal(t, 16, m.VertexCount())
	assert.Equal(t, 18, m.TriangleCount())
	assert.Len(t, m.Indices, 54)
	unitLength(t, m.Positions, 1)
	requireOutward(t, m, origin)
}

func TestSphereAttributes(t *testing.T) {
	const lat, lon = 8, 12
	m, err := Sphere(2.5, lat, lon)
	require.NoError(t, err)

	requireWellFormed(t, m)
	unitLength(t, m.Positions, 2.5)
	requireOutward(t, m, origin)

	for i, p := range m.Positions {
		// Analytic normals point straight out of the centre.
		assert.True(t, m.Normals[i].ApproxEqual(p.Normalize(), eps), "vertex %d", i)
	}

	row := lon + 1
	// First ring is the south pole, last ring the north pole.
	for x := 0; x <= lon; x++ {
		assert.InDelta(t, -2.5, m.Positions[x].Y, eps)
		assert.InDelta(t, 2.5, m.Positions[lat*row+x].Y, eps)
		assert.InDelta(t, 0, m.UVs[x].Y, eps)
		assert.InDelta(t, 1, m.UVs[lat*row+x].Y, eps)
	}

	// The seam column repeats the first column's position with u = 1.
	for y := 0; y <= lat; y++ {
		first, last := m.Positions[y*row], m.Positions[y*row+lon]
		assert.True(t, first.ApproxEqual(last, eps), "ring %d seam %v != %v", y, first, last)
		assert.InDelta(t, 0, m.UVs[y*row].X, eps)
		assert.InDelta(t, 1, m.UVs[y*row+lon].X, eps)
	}
}

func TestCylinderUncapped(t *testing.T) {
	m, err := Cylinder(1, 2, 4, 1, false)
	require.NoError(t, err)

	requireWellFormed(t, m)
	assert.Equal(t, 10, m.VertexCount())
	assert.Equal(t, 8, m.TriangleCount())
	requireOutward(t, m, yAxis)

	b := m.Bounds()
	assert.InDelta(t, -1, b.Min.Y, eps)
	assert.InDelta(t, 1, b.Max.Y, eps)
	for i, n := range m.Normals {
		assert.True(t, approxZero(n.Y), "side normal %d should be radial, got %v", i, n)
	}
}

func TestCylinderCapped(t *testing.T) {
	const radial, rows = 6, 3
	m, err := Cylinder(0.5, 3, radial, rows, true)
	require.NoError(t, err)

	requireWellFormed(t, m)
	lateral := (rows + 1) * (radial + 1)
	capVerts := 1 + radial + 1
	assert.Equal(t, lateral+2*capVerts, m.VertexCount())
	assert.Equal(t, 2*rows*radial+2*radial, m.TriangleCount())
	requireOutward(t, m, origin)

	top := lateral
	bottom := lateral + capVerts
	assert.Equal(t, math.Vec3{Y: 1.5}, m.Positions[top])
	assert.Equal(t, math.Vec3{Y: -1.5}, m.Positions[bottom])
	for i := 0; i < capVerts; i++ {
		assert.Equal(t, math.Vec3Up, m.Normals[top+i])
		assert.Equal(t, math.Vec3Down, m.Normals[bottom+i])
	}
	assert.Equal(t, math.Vec2{X: 0.5, Y: 0.5}, m.UVs[top])
}

func TestInvalidParameters(t *testing.T) {
	line := []math.Vec2{{X: 0, Y: 0}, {X: 1, Y: 0}}

	tests := []struct {
		name  string
		build func() (Mesh, error)
	}{
		{"sphere lat", func() (Mesh, error) { return Sphere(1, 2, 8) }},
		{"sphere lon", func() (Mesh, error) { return Sphere(1, 8, 2) }},
		{"cylinder radial", func() (Mesh, error) { return Cylinder(1, 1, 2, 1, true) }},
		{"cylinder height", func() (Mesh, error) { return Cylinder(1, 1, 8, 0, true) }},
		{"lathe profile", func() (Mesh, error) { return Lathe(line[:1], 8) }},
		{"lathe segments", func() (Mesh, error) { return Lathe(line, 2) }},
		{"extrude polygon", func() (Mesh, error) { return Extrude(line, 1, true) }},
		{"extrude nil", func() (Mesh, error) { return Extrude(nil, 1, false) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := tt.build()
			require.ErrorIs(t, err, ErrInvalidParameter)
			assert.Nil(t, m.Positions)
			assert.Nil(t, m.Indices)
		})
	}
}

func TestNegativeRadiusIsAccepted(t *testing.T) {
	m, err := Sphere(-1, 4, 4)
	require.NoError(t, err)
	require.NoError(t, m.Validate())

	m, err = Cylinder(0, 1, 4, 1, true)
	require.NoError(t, err)
	require.NoError(t, m.Validate())
	assert.Len(t, m.Normals, m.VertexCount())
}

func TestGeneratorsAreSafeForConcurrentUse(t *testing.T) {
	build := func() []Mesh {
		s, _ := Sphere(1, 6, 8)
		c, _ := Cylinder(1, 2, 8, 2, true)
		l, _ := Lathe([]math.Vec2{{X: 0, Y: 0}, {X: 1, Y: 0.5}, {X: 0, Y: 1}}, 8)
		e, _ := Extrude([]math.Vec2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}}, 1, true)
		return []Mesh{Box(math.Vec3One), s, c, l, e}
	}
	want := build()

	const workers = 8
	results := make([][]Mesh, workers)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			results[w] = build()
		}(w)
	}
	wg.Wait()

	for w := range results {
		assert.Equal(t, want, results[w], "worker %d", w)
	}
}

func BenchmarkSphere(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = Sphere(1, 32, 64)
	}
}
