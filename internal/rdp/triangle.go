package rdp

// Triangle holds one decoded edge/shade/texture/depth command, in the
// real hardware's edge-coefficient layout: a header word with YH/YM/YL
// (sign-extended 12.2 fixed point) plus three edge words (low/high/mid),
// each packing an X start (16.16) and a per-scanline dx/dy slope (16.16)
// into one 64-bit word's two halves (spec.md §4.2.4).
type Triangle struct {
	Lft   bool
	Tile  int
	Level int

	YH, YM, YL int32 // integer scanlines

	XL, DxLDy int64
	XH, DxHDy int64
	XM, DxMDy int64

	HasShade, HasTexture, HasDepth bool

	// Shade channels: R,G,B,A. Each array is {base, Dx, De, Dy}.
	ShadeBase, ShadeDx, ShadeDe, ShadeDy [4]int32

	// Texture channels: S,T,W (4th slot unused, kept for symmetry with
	// the real 4-wide coefficient block).
	TexBase, TexDx, TexDe, TexDy [4]int32

	ZBase, DzDx, DzDe, DzDy int32
}

func signExtend14(v uint32) int32 {
	v &= 0x3FFF
	if v&0x2000 != 0 {
		return int32(v) - 0x4000
	}
	return int32(v)
}

func signExtend32(v uint32) int32 { return int32(v) }

// decodeTriangleHeader reads YH/YM/YL and the lft/tile/level bits from
// the command's first word.
func decodeTriangleHeader(w0 uint64) (lft bool, level, tile int, yh, ym, yl int32) {
	lft = (w0>>55)&1 != 0
	level = int((w0 >> 51) & 0xF)
	tile = int((w0 >> 48) & 0x7)
	yl = signExtend14(uint32(w0>>32)) / 4
	ym = signExtend14(uint32(w0>>16)) / 4
	yh = signExtend14(uint32(w0)) / 4
	return
}

// decodeEdgeWord splits one edge word into its X start and its dx/dy
// slope, both s16.16 fixed point.
func decodeEdgeWord(w uint64) (x, slope int64) {
	x = int64(signExtend32(uint32(w >> 32)))
	slope = int64(signExtend32(uint32(w)))
	return
}

// decodeCoeffBlock reconstructs the four signed 16.16 channel values
// packed into one {hi, lo} word pair, per spec.md §4.2.4's "two 16-bit
// halves packed into high and low 64-bit words" layout.
func decodeCoeffBlock(hiWord, loWord uint64) [4]int32 {
	var out [4]int32
	for i := 0; i < 4; i++ {
		shift := uint(48 - 16*i)
		hi := int16(hiWord >> shift)
		lo := uint16(loWord >> shift)
		out[i] = int32(hi)<<16 | int32(lo)
	}
	return out
}

// ParseTriangle decodes a triangle command's word slice (already fetched
// big-endian, spec.md §4.2.2) into a Triangle, given which optional
// sections are present per the opcode (spec.md §4.2.3).
func ParseTriangle(words []uint64, hasShade, hasTexture, hasDepth bool) Triangle {
	var t Triangle
	t.HasShade, t.HasTexture, t.HasDepth = hasShade, hasTexture, hasDepth

	t.Lft, t.Level, t.Tile, t.YH, t.YM, t.YL = decodeTriangleHeader(words[0])
	t.XL, t.DxLDy = decodeEdgeWord(words[1])
	t.XH, t.DxHDy = decodeEdgeWord(words[2])
	t.XM, t.DxMDy = decodeEdgeWord(words[3])

	idx := 4
	if hasShade {
		t.ShadeBase = decodeCoeffBlock(words[idx], words[idx+4])
		t.ShadeDx = decodeCoeffBlock(words[idx+1], words[idx+5])
		t.ShadeDe = decodeCoeffBlock(words[idx+2], words[idx+6])
		t.ShadeDy = decodeCoeffBlock(words[idx+3], words[idx+7])
		idx += 8
	}
	if hasTexture {
		t.TexBase = decodeCoeffBlock(words[idx], words[idx+4])
		t.TexDx = decodeCoeffBlock(words[idx+1], words[idx+5])
		t.TexDe = decodeCoeffBlock(words[idx+2], words[idx+6])
		t.TexDy = decodeCoeffBlock(words[idx+3], words[idx+7])
		idx += 8
	}
	if hasDepth {
		t.ZBase = int32(words[idx] >> 32)
		t.DzDx = int32(words[idx])
		t.DzDe = int32(words[idx+1] >> 32)
		t.DzDy = int32(words[idx+1])
		idx += 2
	}
	return t
}
