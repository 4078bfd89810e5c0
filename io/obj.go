package io

import (
	"bufio"
	"fmt"
	stdio "io"
	"os"
	"strconv"
	"strings"

	"mesh-generator/math"
	"mesh-generator/mesh"
)

// objVertex is a resolved "v/vt/vn" face corner.
type objVertex struct {
	position  math.Vec3
	uv        math.Vec2
	normal    math.Vec3
	hasUV     bool
	hasNormal bool
}

// objCorner is a face corner resolved to 0-based attribute indices, -1
// where the corner omits that attribute.
type objCorner struct {
	position, uv, normal int
}

// objBuilder accumulates one o/g group.
type objBuilder struct {
	name      string
	vertices  []objVertex
	indices   []uint32
	vertexMap map[objCorner]uint32
}

func newOBJBuilder(name string) *objBuilder {
	return &objBuilder{name: name, vertexMap: make(map[objCorner]uint32)}
}

// mesh converts the group into a mesh. Normals and UVs are kept only when
// every vertex referenced one; otherwise they are restored.
func (b *objBuilder) mesh() mesh.Mesh {
	m := mesh.Mesh{
		Name:      b.name,
		Positions: make([]math.Vec3, len(b.vertices)),
		Indices:   b.indices,
	}

	allNormals, allUVs := true, true
	for i, v := range b.vertices {
		m.Positions[i] = v.position
		allNormals = allNormals && v.hasNormal
		allUVs = allUVs && v.hasUV
	}
	if allNormals {
		m.Normals = make([]math.Vec3, len(b.vertices))
		for i, v := range b.vertices {
			m.Normals[i] = v.normal
		}
	}
	if allUVs {
		m.UVs = make([]math.Vec2, len(b.vertices))
		for i, v := range b.vertices {
			m.UVs[i] = v.uv
		}
	}

	m.EnsureNormals()
	m.EnsureUVs(math.Vec2Zero)
	return m
}

// LoadOBJ parses a Wavefront .obj file into one mesh per o/g group.
func LoadOBJ(path string) ([]mesh.Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open OBJ file: %w", err)
	}
	defer f.Close()

	meshes, err := ReadOBJ(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return meshes, nil
}

// ReadOBJ parses Wavefront OBJ text. N-gon faces are fan triangulated and
// negative (relative) indices are resolved. Materials are ignored.
func ReadOBJ(r stdio.Reader) ([]mesh.Mesh, error) {
	var (
		positions []math.Vec3
		normals   []math.Vec3
		uvs       []math.Vec2
		meshes    []mesh.Mesh
	)

	current := newOBJBuilder("default")
	flush := func() {
		if len(current.indices) > 0 {
			meshes = append(meshes, current.mesh())
		}
	}

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.Fields(line)
		switch parts[0] {
		case "v", "vn":
			xyz, err := parseFloats(parts[1:], 3)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			v := math.Vec3{X: xyz[0], Y: xyz[1], Z: xyz[2]}
			if parts[0] == "v" {
				positions = append(positions, v)
			} else {
				normals = append(normals, v)
			}

		case "vt":
			uv, err := parseFloats(parts[1:], 2)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			uvs = append(uvs, math.Vec2{X: uv[0], Y: uv[1]})

		case "f":
			if len(parts) < 4 {
				return nil, fmt.Errorf("line %d: face needs at least 3 vertices", lineNo)
			}
			faceVerts := make([]uint32, 0, len(parts)-1)
			for _, spec := range parts[1:] {
				c, err := parseFaceVertex(spec, len(positions), len(uvs), len(normals))
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", lineNo, err)
				}
				if idx, ok := current.vertexMap[c]; ok {
					faceVerts = append(faceVerts, idx)
					continue
				}

				v := objVertex{position: positions[c.position]}
				if c.uv >= 0 {
					v.uv, v.hasUV = uvs[c.uv], true
				}
				if c.normal >= 0 {
					v.normal, v.hasNormal = normals[c.normal], true
				}
				idx := uint32(len(current.vertices))
				current.vertices = append(current.vertices, v)
				current.vertexMap[c] = idx
				faceVerts = append(faceVerts, idx)
			}

			for i := 2; i < len(faceVerts); i++ {
				current.indices = append(current.indices, faceVerts[0], faceVerts[i-1], faceVerts[i])
			}

		case "o", "g":
			flush()
			name := "unnamed"
			if len(parts) > 1 {
				name = strings.TrimSpace(line[len(parts[0]):])
			}
			current = newOBJBuilder(name)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	flush()

	if len(meshes) == 0 {
		return nil, fmt.Errorf("no mesh data found in OBJ: %w", ErrEmptyMesh)
	}
	return meshes, nil
}

// ExportOBJ writes meshes to a .obj file.
func ExportOBJ(path string, meshes ...mesh.Mesh) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create OBJ file: %w", err)
	}
	if err := WriteOBJ(f, meshes...); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WriteOBJ writes meshes as Wavefront OBJ, one object per mesh, with
// v/vt/vn face corners. OBJ indices are 1-based and global across objects.
func WriteOBJ(w stdio.Writer, meshes ...mesh.Mesh) error {
	if err := checkMeshes(meshes); err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "# Exported by meshgen")
	fmt.Fprintln(bw)

	offset := uint32(1)
	for k, m := range meshes {
		m = m.Clone()
		m.EnsureNormals()
		m.EnsureUVs(math.Vec2Zero)
		if err := m.Validate(); err != nil {
			return fmt.Errorf("obj mesh %d: %w", k, err)
		}

		fmt.Fprintf(bw, "o %s\n", meshName(m, k))
		for _, p := range m.Positions {
			fmt.Fprintf(bw, "v %s %s %s\n", formatFloat(p.X), formatFloat(p.Y), formatFloat(p.Z))
		}
		for _, uv := range m.UVs {
			fmt.Fprintf(bw, "vt %s %s\n", formatFloat(uv.X), formatFloat(uv.Y))
		}
		for _, n := range m.Normals {
			fmt.Fprintf(bw, "vn %s %s %s\n", formatFloat(n.X), formatFloat(n.Y), formatFloat(n.Z))
		}

		for i := 0; i+2 < len(m.Indices); i += 3 {
			a := m.Indices[i] + offset
			b := m.Indices[i+1] + offset
			c := m.Indices[i+2] + offset
			fmt.Fprintf(bw, "f %d/%d/%d %d/%d/%d %d/%d/%d\n", a, a, a, b, b, b, c, c, c)
		}

		offset += uint32(len(m.Positions))
		fmt.Fprintln(bw)
	}

	return bw.Flush()
}

// parseFaceVertex resolves an OBJ face vertex spec like "v", "v/vt",
// "v//vn" or "v/vt/vn" against the attribute counts seen so far. Relative
// indices become absolute here, so equal corners compare equal.
func parseFaceVertex(spec string, numPositions, numUVs, numNormals int) (objCorner, error) {
	c := objCorner{uv: -1, normal: -1}
	parts := strings.Split(spec, "/")

	var err error
	if c.position, err = resolveIndex(parts[0], numPositions); err != nil {
		return c, fmt.Errorf("face vertex %q position: %w", spec, err)
	}
	if len(parts) >= 2 && parts[1] != "" {
		if c.uv, err = resolveIndex(parts[1], numUVs); err != nil {
			return c, fmt.Errorf("face vertex %q uv: %w", spec, err)
		}
	}
	if len(parts) >= 3 && parts[2] != "" {
		if c.normal, err = resolveIndex(parts[2], numNormals); err != nil {
			return c, fmt.Errorf("face vertex %q normal: %w", spec, err)
		}
	}
	return c, nil
}

// resolveIndex converts a 1-based (or negative, relative) OBJ index into a
// 0-based slice index.
func resolveIndex(s string, n int) (int, error) {
	idx, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if idx < 0 {
		idx = n + idx + 1
	}
	if idx < 1 || idx > n {
		return 0, fmt.Errorf("index %s out of range (%d defined)", s, n)
	}
	return idx - 1, nil
}

// formatFloat writes the shortest text that parses back to the same float32.
func formatFloat(f float32) string {
	return strconv.FormatFloat(float64(f), 'g', -1, 32)
}

func parseFloats(fields []string, n int) ([]float32, error) {
	if len(fields) < n {
		return nil, fmt.Errorf("expected %d components, got %d", n, len(fields))
	}
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		f, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return nil, err
		}
		out[i] = float32(f)
	}
	return out, nil
}
