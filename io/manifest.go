package io

import (
	"encoding/json"
	"fmt"
	"os"

	"mesh-generator/math"
	"mesh-generator/mesh"
)

// ManifestVersion is written into every manifest.
const ManifestVersion = "1.0"

// Manifest lists the meshes a batch run produced and where they went.
type Manifest struct {
	Version string       `json:"version"`
	Name    string       `json:"name"`
	Meshes  []MeshRecord `json:"meshes"`
	Files   []string     `json:"files"`
}

// MeshRecord stores the summary of one generated mesh
type MeshRecord struct {
	Name      string     `json:"name"`
	Kind      string     `json:"kind,omitempty"`
	Vertices  int        `json:"vertices"`
	Triangles int        `json:"triangles"`
	BoundsMin [3]float32 `json:"bounds_min"`
	BoundsMax [3]float32 `json:"bounds_max"`
}

// NewManifest creates an empty manifest
func NewManifest(name string) *Manifest {
	return &Manifest{Version: ManifestVersion, Name: name}
}

// AddMesh records m under the given shape kind.
func (mf *Manifest) AddMesh(kind string, m mesh.Mesh) {
	b := m.Bounds()
	mf.Meshes = append(mf.Meshes, MeshRecord{
		Name:      meshName(m, len(mf.Meshes)),
		Kind:      kind,
		Vertices:  m.VertexCount(),
		Triangles: m.TriangleCount(),
		BoundsMin: Vec3ToArray(b.Min),
		BoundsMax: Vec3ToArray(b.Max),
	})
}

// SaveManifest serializes the manifest to a JSON file
func SaveManifest(path string, mf *Manifest) error {
	data, err := json.MarshalIndent(mf, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// LoadManifest deserializes a manifest JSON file
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	mf := &Manifest{}
	if err := json.Unmarshal(data, mf); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	return mf, nil
}

// Vec3ToArray converts a Vec3 to a [3]float32
func Vec3ToArray(v math.Vec3) [3]float32 {
	return [3]float32{v.X, v.Y, v.Z}
}

// ArrayToVec3 converts a [3]float32 to Vec3
func ArrayToVec3(a [3]float32) math.Vec3 {
	return math.Vec3{X: a[0], Y: a[1], Z: a[2]}
}
