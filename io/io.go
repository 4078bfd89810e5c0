// Package io reads and writes generated meshes in interchange formats:
// Wavefront OBJ, glTF 2.0 (.gltf and .glb) and binary STL. It also records
// what a batch run produced in a JSON manifest.
package io

import (
	"errors"
	"fmt"

	"mesh-generator/mesh"
)

// ErrEmptyMesh is returned when an exporter is handed a mesh without
// positions or indices.
var ErrEmptyMesh = errors.New("mesh has no geometry")

// checkMeshes rejects an empty batch and any mesh with nothing to draw.
func checkMeshes(meshes []mesh.Mesh) error {
	if len(meshes) == 0 {
		return fmt.Errorf("no meshes: %w", ErrEmptyMesh)
	}
	for k, m := range meshes {
		if m.IsEmpty() {
			return fmt.Errorf("mesh %d (%q): %w", k, m.Name, ErrEmptyMesh)
		}
	}
	return nil
}

// meshName returns the mesh's name, or "g3d-<k>" for the k-th mesh of a
// batch when it has none.
func meshName(m mesh.Mesh, k int) string {
	if m.Name != "" {
		return m.Name
	}
	return fmt.Sprintf("g3d-%d", k)
}
