package io

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/qmuntal/gltf/modeler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mesh-generator/math"
	"mesh-generator/mesh"
)

func testMeshes(t *testing.T) []mesh.Mesh {
	t.Helper()
	sphere, err := mesh.Sphere(1, 4, 6)
	require.NoError(t, err)
	return []mesh.Mesh{mesh.Box(math.Vec3One), sphere}
}

func TestOBJRoundTrip(t *testing.T) {
	meshes := testMeshes(t)

	var buf bytes.Buffer
	require.NoError(t, WriteOBJ(&buf, meshes...))

	got, err := ReadOBJ(&buf)
	require.NoError(t, err)
	require.Len(t, got, len(meshes))

	for i, m := range meshes {
		assert.Equal(t, m.Name, got[i].Name)
		assert.Equal(t, m.VertexCount(), got[i].VertexCount())
		assert.Equal(t, m.TriangleCount(), got[i].TriangleCount())
		require.NoError(t, got[i].Validate())

		// The reader numbers vertices in first-use order, so compare each
		// triangle corner through the index buffers.
		for k, idx := range m.Indices {
			gotIdx := got[i].Indices[k]
			assert.Equal(t, m.Positions[idx], got[i].Positions[gotIdx], "mesh %d corner %d", i, k)
			assert.Equal(t, m.Normals[idx], got[i].Normals[gotIdx], "mesh %d corner %d", i, k)
			assert.Equal(t, m.UVs[idx], got[i].UVs[gotIdx], "mesh %d corner %d", i, k)
		}
	}
}

func TestOBJKeepsSmallValuesAndNames(t *testing.T) {
	m := mesh.Mesh{
		Name:      "my shape",
		Positions: []math.Vec3{{X: 1e-7}, {X: 1, Y: 2.5e-8}, {Y: 1, Z: -3.25e-9}},
		Indices:   []uint32{0, 1, 2},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteOBJ(&buf, m))

	got, err := ReadOBJ(&buf)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "my shape", got[0].Name)
	assert.Equal(t, m.Positions, got[0].Positions)
}

func TestWriteOBJRejectsBrokenMesh(t *testing.T) {
	m := mesh.Mesh{Positions: []math.Vec3{{}, {X: 1}, {Y: 1}}, Indices: []uint32{0, 1, 7}}
	var buf bytes.Buffer
	err := WriteOBJ(&buf, m)
	assert.ErrorIs(t, err, mesh.ErrInvalidMesh)
}

func TestReadOBJRelativeIndicesAcrossFaces(t *testing.T) {
	src := `v 0 0 0
v 1 0 0
v 0 1 0
f -3 -2 -1
v 0 0 5
v 1 0 5
v 0 1 5
f -3 -2 -1
`
	meshes, err := ReadOBJ(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, meshes, 1)

	m := meshes[0]
	require.Equal(t, 6, m.VertexCount())
	assert.Equal(t, []uint32{0, 1, 2, 3, 4, 5}, m.Indices)
	for k := 3; k < 6; k++ {
		assert.Equal(t, float32(5), m.Positions[m.Indices[k]].Z, "corner %d", k)
	}
}

func TestReadOBJSharesRepeatedCorners(t *testing.T) {
	src := `v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
f 1 2 3
f 1 3 -1
`
	meshes, err := ReadOBJ(strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, 4, meshes[0].VertexCount())
	assert.Equal(t, []uint32{0, 1, 2, 0, 2, 3}, meshes[0].Indices)
}

func TestOBJGlobalIndices(t *testing.T) {
	a := mesh.Mesh{Name: "a", Positions: []math.Vec3{{}, {X: 1}, {Y: 1}}, Indices: []uint32{0, 1, 2}}
	b := a.Clone()
	b.Name = "b"

	var buf bytes.Buffer
	require.NoError(t, WriteOBJ(&buf, a, b))

	assert.Contains(t, buf.String(), "f 1/1/1 2/2/2 3/3/3\n")
	assert.Contains(t, buf.String(), "f 4/4/4 5/5/5 6/6/6\n")
}

func TestReadOBJFaces(t *testing.T) {
	src := `# quad without normals
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
vt 0 0
vt 1 0
vt 1 1
vt 0 1
o quad
f 1/1 2/2 3/3 -1/-1
`
	meshes, err := ReadOBJ(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, meshes, 1)

	m := meshes[0]
	assert.Equal(t, "quad", m.Name)
	assert.Equal(t, 4, m.VertexCount())
	assert.Equal(t, []uint32{0, 1, 2, 0, 2, 3}, m.Indices)
	assert.Equal(t, math.Vec2{X: 1, Y: 1}, m.UVs[2])
	for _, n := range m.Normals {
		assert.True(t, n.ApproxEqual(math.Vec3Front, 1e-6))
	}
}

func TestReadOBJErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"empty", "# nothing\n"},
		{"bad float", "v 0 x 0\n"},
		{"index out of range", "v 0 0 0\nf 1 2 3\n"},
		{"short face", "v 0 0 0\nv 1 0 0\nf 1 2\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadOBJ(strings.NewReader(tt.src))
			assert.Error(t, err)
		})
	}

	_, err := ReadOBJ(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrEmptyMesh)
}

func TestExportOBJFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shapes.obj")
	require.NoError(t, ExportOBJ(path, testMeshes(t)...))

	got, err := LoadOBJ(path)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestBuildGLTF(t *testing.T) {
	box := mesh.Box(math.Vec3One)
	unnamed := box.Clone()
	unnamed.Name = ""

	doc, err := BuildGLTF(box, unnamed)
	require.NoError(t, err)

	require.Len(t, doc.Meshes, 2)
	require.Len(t, doc.Nodes, 2)
	assert.Equal(t, "Box", doc.Meshes[0].Name)
	assert.Equal(t, "g3d-1", doc.Meshes[1].Name)
	assert.Equal(t, "g3d-1", doc.Nodes[1].Name)
	assert.Equal(t, []int{0, 1}, doc.Scenes[0].Nodes)

	prim := doc.Meshes[0].Primitives[0]
	positions, err := modeler.ReadPosition(doc, doc.Accessors[prim.Attributes["POSITION"]], nil)
	require.NoError(t, err)
	assert.Len(t, positions, 24)

	indices, err := modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
	require.NoError(t, err)
	assert.Equal(t, box.Indices, indices)
}

func TestBuildGLTFRestoresAttributes(t *testing.T) {
	m := mesh.Mesh{Positions: []math.Vec3{{}, {X: 1}, {Y: 1}}, Indices: []uint32{0, 1, 2}}

	doc, err := BuildGLTF(m)
	require.NoError(t, err)
	assert.Nil(t, m.Normals)

	prim := doc.Meshes[0].Primitives[0]
	normals, err := modeler.ReadNormal(doc, doc.Accessors[prim.Attributes["NORMAL"]], nil)
	require.NoError(t, err)
	assert.Equal(t, [][3]float32{{0, 0, 1}, {0, 0, 1}, {0, 0, 1}}, normals)

	uvs, err := modeler.ReadTextureCoord(doc, doc.Accessors[prim.Attributes["TEXCOORD_0"]], nil)
	require.NoError(t, err)
	assert.Equal(t, [][2]float32{{0, 0}, {0, 0}, {0, 0}}, uvs)
}

func TestBuildGLTFEmpty(t *testing.T) {
	_, err := BuildGLTF()
	assert.ErrorIs(t, err, ErrEmptyMesh)

	_, err = BuildGLTF(mesh.Box(math.Vec3One), mesh.Mesh{Name: "hollow"})
	assert.ErrorIs(t, err, ErrEmptyMesh)
}

func TestExportGLTF(t *testing.T) {
	meshes := testMeshes(t)

	for _, binary := range []bool{false, true} {
		name := "shapes.gltf"
		if binary {
			name = "shapes.glb"
		}
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			require.NoError(t, ExportGLTF(path, binary, meshes...))

			got, err := LoadGLTF(path)
			require.NoError(t, err)
			require.Len(t, got, len(meshes))
			for i, m := range meshes {
				assert.Equal(t, m.Name, got[i].Name)
				assert.Equal(t, m.Positions, got[i].Positions)
				assert.Equal(t, m.Indices, got[i].Indices)
			}
		})
	}
}

func TestExportSTL(t *testing.T) {
	meshes := testMeshes(t)
	path := filepath.Join(t.TempDir(), "shapes.stl")
	require.NoError(t, ExportSTL(path, meshes...))

	tris, err := Triangles(meshes...)
	require.NoError(t, err)
	assert.Len(t, tris, meshes[0].TriangleCount()+meshes[1].TriangleCount())

	info, err := os.Stat(path)
	require.NoError(t, err)
	// 80-byte header, triangle count, 50 bytes per triangle.
	assert.Equal(t, int64(84+50*len(tris)), info.Size())
}

func TestExportSTLRejectsBrokenMesh(t *testing.T) {
	m := mesh.Mesh{Positions: []math.Vec3{{}}, Indices: []uint32{0, 0, 3}}
	err := ExportSTL(filepath.Join(t.TempDir(), "bad.stl"), m)
	assert.ErrorIs(t, err, mesh.ErrInvalidMesh)
}

func TestManifest(t *testing.T) {
	mf := NewManifest("batch")
	for _, m := range testMeshes(t) {
		mf.AddMesh(m.Name, m)
	}
	mf.Files = append(mf.Files, "shapes.glb")

	path := filepath.Join(t.TempDir(), "manifest.json")
	require.NoError(t, SaveManifest(path, mf))

	got, err := LoadManifest(path)
	require.NoError(t, err)
	assert.Equal(t, mf, got)
	assert.Equal(t, 24, got.Meshes[0].Vertices)
	assert.Equal(t, [3]float32{-0.5, -0.5, -0.5}, got.Meshes[0].BoundsMin)
	assert.Equal(t, math.Vec3{X: 0.5, Y: 0.5, Z: 0.5}, ArrayToVec3(got.Meshes[0].BoundsMax))
}
