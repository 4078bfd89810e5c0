package mesh

// appendQuad splits the quad (i0, i1, i2, i3) into (i0, i2, i1) and
// (i1, i2, i3). With i0→i1 running along a row and i0→i2 stepping to the
// next row, both triangles face along (row step) × (column step).
func appendQuad(dst []uint32, i0, i1, i2, i3 uint32) []uint32 {
	return append(dst, i0, i2, i1, i1, i2, i3)
}

// gridIndices triangulates a grid of rows×cols cells whose vertices start at
// base and are laid out with the given row stride.
func gridIndices(dst []uint32, base uint32, rows, cols, stride int) []uint32 {
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			i0 := base + uint32(r*stride+c)
			i1 := i0 + 1
			i2 := i0 + uint32(stride)
			i3 := i2 + 1
			dst = appendQuad(dst, i0, i1, i2, i3)
		}
	}
	return dst
}

// appendFan fan-triangulates count consecutive boundary vertices starting at
// first around the anchor center, producing count-1 triangles of the form
// (center, k+1, k). Those face a viewer who sees the boundary run clockwise;
// flip emits (center, k, k+1) for the opposite side.
func appendFan(dst []uint32, center, first uint32, count int, flip bool) []uint32 {
	for k := 0; k+1 < count; k++ {
		a := first + uint32(k)
		b := a + 1
		if flip {
			dst = append(dst, center, a, b)
		} else {
			dst = append(dst, center, b, a)
		}
	}
	return dst
}
