package opengl

import (
	"errors"
	"fmt"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	"mesh-generator/gpu"
)

// ErrBufferAllocation is returned when the driver refuses to allocate
// buffer storage for a mesh.
var ErrBufferAllocation = errors.New("gpu buffer allocation failed")

// Attribute locations shared by Upload and the shaders.
const (
	attribPosition = 0
	attribNormal   = 1
	attribUV       = 2
)

// GPUMesh holds the OpenGL objects for an uploaded mesh.
type GPUMesh struct {
	Name       string
	VAO        uint32
	VBOs       [3]uint32 // position, normal, uv
	EBO        uint32
	IndexCount int32
	IndexType  uint32 // gl.UNSIGNED_SHORT or gl.UNSIGNED_INT
}

// Upload copies packed buffers into a new VAO with one VBO per attribute
// and an element buffer. The OpenGL context must be current.
func Upload(b *gpu.Buffers) (*GPUMesh, error) {
	if b == nil || b.VertexCount() == 0 || b.IndexCount() == 0 {
		return nil, fmt.Errorf("upload: %w", gpu.ErrEmptyMesh)
	}

	// Discard errors left over from earlier calls.
	for gl.GetError() != gl.NO_ERROR {
	}

	m := &GPUMesh{
		Name:       b.Name,
		IndexCount: int32(b.IndexCount()),
	}

	gl.GenVertexArrays(1, &m.VAO)
	gl.GenBuffers(int32(len(m.VBOs)), &m.VBOs[0])
	gl.BindVertexArray(m.VAO)

	streams := []struct {
		loc  uint32
		size int32
		data []float32
	}{
		{attribPosition, 3, b.Positions},
		{attribNormal, 3, b.Normals},
		{attribUV, 2, b.UVs},
	}
	for i, s := range streams {
		gl.BindBuffer(gl.ARRAY_BUFFER, m.VBOs[i])
		gl.BufferData(gl.ARRAY_BUFFER, len(s.data)*4, gl.Ptr(s.data), gl.STATIC_DRAW)
		gl.EnableVertexAttribArray(s.loc)
		gl.VertexAttribPointer(s.loc, s.size, gl.FLOAT, false, s.size*4, gl.PtrOffset(0))
	}

	gl.GenBuffers(1, &m.EBO)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.EBO)
	if b.Format == gpu.IndexUint16 {
		m.IndexType = gl.UNSIGNED_SHORT
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(b.Indices16)*2, gl.Ptr(b.Indices16), gl.STATIC_DRAW)
	} else {
		m.IndexType = gl.UNSIGNED_INT
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(b.Indices32)*4, gl.Ptr(b.Indices32), gl.STATIC_DRAW)
	}

	gl.BindVertexArray(0)

	if code := gl.GetError(); code != gl.NO_ERROR {
		m.Delete()
		if code == gl.OUT_OF_MEMORY {
			return nil, fmt.Errorf("upload %q: %w", b.Name, ErrBufferAllocation)
		}
		return nil, fmt.Errorf("upload %q: gl error 0x%x", b.Name, code)
	}
	return m, nil
}

// Draw issues one indexed draw call for the mesh.
func (m *GPUMesh) Draw() {
	gl.BindVertexArray(m.VAO)
	gl.DrawElements(gl.TRIANGLES, m.IndexCount, m.IndexType, nil)
	gl.BindVertexArray(0)
}

// Delete frees the mesh's GPU objects. It is safe to call more than once.
func (m *GPUMesh) Delete() {
	if m.VAO != 0 {
		gl.DeleteVertexArrays(1, &m.VAO)
		m.VAO = 0
	}
	if m.VBOs[0] != 0 {
		gl.DeleteBuffers(int32(len(m.VBOs)), &m.VBOs[0])
		m.VBOs = [3]uint32{}
	}
	if m.EBO != 0 {
		gl.DeleteBuffers(1, &m.EBO)
		m.EBO = 0
	}
}
