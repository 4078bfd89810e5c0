package io

import (
	"fmt"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"mesh-generator/gpu"
	"mesh-generator/math"
	"mesh-generator/mesh"
)

// BuildGLTF assembles an in-memory glTF document with one mesh and one node
// per input, all attached to the default scene. Unnamed meshes are called
// "g3d-<k>". Missing normals and UVs are restored on a copy.
func BuildGLTF(meshes ...mesh.Mesh) (*gltf.Document, error) {
	if err := checkMeshes(meshes); err != nil {
		return nil, err
	}

	doc := gltf.NewDocument()
	for k, m := range meshes {
		b, err := gpu.Pack(m)
		if err != nil {
			return nil, fmt.Errorf("gltf mesh %d: %w", k, err)
		}
		name := meshName(m, k)

		positions := make([][3]float32, b.VertexCount())
		normals := make([][3]float32, b.VertexCount())
		uvs := make([][2]float32, b.VertexCount())
		for i := range positions {
			copy(positions[i][:], b.Positions[i*3:i*3+3])
			copy(normals[i][:], b.Normals[i*3:i*3+3])
			copy(uvs[i][:], b.UVs[i*2:i*2+2])
		}

		var indices int
		if b.Format == gpu.IndexUint16 {
			indices = modeler.WriteIndices(doc, b.Indices16)
		} else {
			indices = modeler.WriteIndices(doc, b.Indices32)
		}

		prim := &gltf.Primitive{
			Indices: gltf.Index(indices),
			Attributes: map[string]int{
				"POSITION":   modeler.WritePosition(doc, positions),
				"NORMAL":     modeler.WriteNormal(doc, normals),
				"TEXCOORD_0": modeler.WriteTextureCoord(doc, uvs),
			},
		}
		doc.Meshes = append(doc.Meshes, &gltf.Mesh{Name: name, Primitives: []*gltf.Primitive{prim}})
		doc.Nodes = append(doc.Nodes, &gltf.Node{Name: name, Mesh: gltf.Index(len(doc.Meshes) - 1)})
		doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, len(doc.Nodes)-1)
	}

	return doc, nil
}

// ExportGLTF writes meshes to path as a .glb container when binary is set,
// and as a .gltf JSON file with an embedded buffer otherwise.
func ExportGLTF(path string, binary bool, meshes ...mesh.Mesh) error {
	doc, err := BuildGLTF(meshes...)
	if err != nil {
		return err
	}

	if binary {
		err = gltf.SaveBinary(doc, path)
	} else {
		for _, buf := range doc.Buffers {
			buf.EmbeddedResource()
		}
		err = gltf.Save(doc, path)
	}
	if err != nil {
		return fmt.Errorf("gltf save %q: %w", path, err)
	}
	return nil
}

// LoadGLTF opens a .glb or .gltf file and returns one mesh per triangle
// primitive. Node transforms are not applied.
func LoadGLTF(path string) ([]mesh.Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("gltf open %q: %w", path, err)
	}

	var meshes []mesh.Mesh
	for mi, gm := range doc.Meshes {
		for pi, prim := range gm.Primitives {
			if prim.Mode != gltf.PrimitiveTriangles {
				continue
			}
			m, err := readGLTFPrimitive(doc, prim)
			if err != nil {
				return nil, fmt.Errorf("gltf mesh %d prim %d: %w", mi, pi, err)
			}
			m.Name = gm.Name
			if len(gm.Primitives) > 1 {
				m.Name = fmt.Sprintf("%s_p%d", gm.Name, pi)
			}
			meshes = append(meshes, m)
		}
	}

	if len(meshes) == 0 {
		return nil, fmt.Errorf("gltf %q has no triangle meshes: %w", path, ErrEmptyMesh)
	}
	return meshes, nil
}

// readGLTFPrimitive converts one indexed triangle primitive into a mesh.
func readGLTFPrimitive(doc *gltf.Document, prim *gltf.Primitive) (mesh.Mesh, error) {
	var m mesh.Mesh

	posIdx, ok := prim.Attributes["POSITION"]
	if !ok {
		return m, fmt.Errorf("no POSITION attribute")
	}
	positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return m, fmt.Errorf("positions: %w", err)
	}
	m.Positions = make([]math.Vec3, len(positions))
	for i, p := range positions {
		m.Positions[i] = ArrayToVec3(p)
	}

	if idx, ok := prim.Attributes["NORMAL"]; ok {
		normals, err := modeler.ReadNormal(doc, doc.Accessors[idx], nil)
		if err != nil {
			return m, fmt.Errorf("normals: %w", err)
		}
		m.Normals = make([]math.Vec3, len(normals))
		for i, n := range normals {
			m.Normals[i] = ArrayToVec3(n)
		}
	}

	if idx, ok := prim.Attributes["TEXCOORD_0"]; ok {
		uvs, err := modeler.ReadTextureCoord(doc, doc.Accessors[idx], nil)
		if err != nil {
			return m, fmt.Errorf("uvs: %w", err)
		}
		m.UVs = make([]math.Vec2, len(uvs))
		for i, uv := range uvs {
			m.UVs[i] = math.Vec2{X: uv[0], Y: uv[1]}
		}
	}

	if prim.Indices == nil {
		return m, fmt.Errorf("primitive is not indexed: %w", ErrEmptyMesh)
	}
	m.Indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
	if err != nil {
		return m, fmt.Errorf("indices: %w", err)
	}

	m.EnsureNormals()
	m.EnsureUVs(math.Vec2Zero)
	if err := m.Validate(); err != nil {
		return mesh.Mesh{}, err
	}
	return m, nil
}
