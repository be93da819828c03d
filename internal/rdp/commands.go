package rdp

// cmdInfo is one opcode table entry: its name (for tracing) and its
// fixed length in 8-byte words (spec.md §4.2.3).
type cmdInfo struct {
	name string
	len  int
}

var commandTable = map[uint8]cmdInfo{
	0x08: {"Triangle", 4},
	0x09: {"TriangleDepth", 6},
	0x0A: {"TriangleTexture", 12},
	0x0B: {"TriangleTextureDepth", 14},
	0x0C: {"TriangleShade", 12},
	0x0D: {"TriangleShadeDepth", 14},
	0x0E: {"TriangleShadeTexture", 20},
	0x0F: {"TriangleShadeTextureDepth", 22},
	0x24: {"TextureRectangle", 2},
	0x25: {"TextureRectangleFlip", 2},
	0x26: {"SyncLoad", 1},
	0x27: {"SyncPipe", 1},
	0x28: {"SyncTile", 1},
	0x29: {"SyncFull", 1},
	0x2A: {"SetKeyGB", 1},
	0x2B: {"SetKeyR", 1},
	0x2C: {"SetConvert", 1},
	0x2D: {"SetScissor", 1},
	0x2E: {"SetPrimDepth", 1},
	0x2F: {"SetOtherModes", 1},
	0x30: {"LoadTLUT", 1},
	0x32: {"SetTileSize", 1},
	0x33: {"LoadBlock", 1},
	0x34: {"LoadTile", 1},
	0x35: {"SetTile", 1},
	0x36: {"Rectangle", 1},
	0x37: {"SetFillColor", 1},
	0x38: {"SetFogColor", 1},
	0x39: {"SetBlendColor", 1},
	0x3A: {"SetPrimitiveColor", 1},
	0x3B: {"SetEnvironmentColor", 1},
	0x3C: {"SetCombineMode", 1},
	0x3D: {"SetTextureImage", 1},
	0x3E: {"SetZImage", 1},
	0x3F: {"SetColorImage", 1},
}

// readWordBE reads one 8-byte big-endian word from src at byte offset.
func readWordBE(src []byte, offset uint32) uint64 {
	if int(offset)+8 > len(src) {
		return 0
	}
	var w uint64
	for i := 0; i < 8; i++ {
		w = w<<8 | uint64(src[offset+uint32(i)])
	}
	return w
}

// ExecuteCommandWindow fetches and dispatches commands from current_address
// to end_address, per spec.md §4.2.2: big-endian 8-byte words, 6-bit
// opcode at bits 61-56, opcodes below 8 are NOPs.
func (r *RDP) ExecuteCommandWindow() {
	var src []byte
	if r.Status&StatusDMASourceDMEM != 0 && r.SPDMEM != nil {
		src = r.SPDMEM.Bytes()
	} else if r.RDRAM != nil {
		src = r.RDRAM.Bytes()
	}
	if src == nil {
		return
	}

	r.Status |= StatusCmdBusy
	for r.CurrentAddress < r.EndAddress {
		w0 := readWordBE(src, r.CurrentAddress)
		opcode := uint8(w0>>56) & 0x3F
		info, known := commandTable[opcode]
		if opcode < 8 || !known {
			if opcode >= 8 {
				r.logf("unknown command 0x%02X at 0x%06X, skipped", opcode, r.CurrentAddress)
			}
			r.CurrentAddress += 8
			continue
		}

		words := make([]uint64, info.len)
		words[0] = w0
		for i := 1; i < info.len; i++ {
			words[i] = readWordBE(src, r.CurrentAddress+uint32(i)*8)
		}
		if r.Trace != nil {
			r.Trace.LogCommand(opcode, info.name, info.len, r.CurrentAddress)
		}
		r.dispatch(opcode, words)
		r.CurrentAddress += uint32(info.len) * 8
	}
	r.CurrentAddress = r.EndAddress
	r.Status &^= StatusCmdBusy
}

func (r *RDP) dispatch(opcode uint8, w []uint64) {
	switch opcode {
	case 0x08:
		r.Rasterize(ParseTriangle(w, false, false, false))
	case 0x09:
		r.Rasterize(ParseTriangle(w, false, false, true))
	case 0x0A:
		r.Rasterize(ParseTriangle(w, false, true, false))
	case 0x0B:
		r.Rasterize(ParseTriangle(w, false, true, true))
	case 0x0C:
		r.Rasterize(ParseTriangle(w, true, false, false))
	case 0x0D:
		r.Rasterize(ParseTriangle(w, true, false, true))
	case 0x0E:
		r.Rasterize(ParseTriangle(w, true, true, false))
	case 0x0F:
		r.Rasterize(ParseTriangle(w, true, true, true))
	case 0x24, 0x25:
		r.cmdTextureRectangle(w)
	case 0x26, 0x27, 0x28:
		// SyncLoad/SyncPipe/SyncTile: pipeline synchronization is a
		// no-op in this single-threaded, non-pipelined engine.
	case 0x29:
		r.cmdSyncFull()
	case 0x2A, 0x2B, 0x2C:
		// SetKeyGB/SetKeyR/SetConvert: accepted and ignored; no register
		// is stored and no component in this core exercises color-keyed
		// or YUV textures.
	case 0x2D:
		r.cmdSetScissor(w[0])
	case 0x2E:
		r.PrimDepthZ = uint16(w[0] >> 16)
		r.PrimDepthDZ = uint16(w[0])
	case 0x2F:
		r.cmdSetOtherModes(w[0])
	case 0x30:
		r.cmdLoadTLUT(w[0])
	case 0x32:
		r.cmdSetTileSize(w[0])
	case 0x33:
		r.cmdLoadBlock(w[0])
	case 0x34:
		r.cmdLoadTile(w[0])
	case 0x35:
		r.cmdSetTile(w[0])
	case 0x36:
		r.cmdRectangle(w[0])
	case 0x37:
		r.FillColor32 = uint32(w[0])
		r.FillColor16[0] = uint16(w[0] >> 16)
		r.FillColor16[1] = uint16(w[0])
	case 0x38:
		r.FogColor = uint32(w[0])
	case 0x39:
		r.BlendColor = uint32(w[0])
	case 0x3A:
		r.PrimitiveColor = uint32(w[0])
	case 0x3B:
		r.EnvironmentColor = uint32(w[0])
	case 0x3C:
		r.cmdSetCombineMode(w[0])
	case 0x3D:
		r.cmdSetTextureImage(w[0])
	case 0x3E:
		r.ZBufferDRAMAddress = uint32(w[0]) & 0xFFFFFF
	case 0x3F:
		r.cmdSetColorImage(w[0])
	}
}

func (r *RDP) cmdSetScissor(w uint64) {
	r.Scissor.XH = int32((w >> 46) & 0xFFF) >> 2
	r.Scissor.YH = int32((w >> 32) & 0x3FFF) >> 2
	r.Scissor.XL = int32((w >> 14) & 0xFFF) >> 2
	r.Scissor.YL = int32(w & 0x3FFF) >> 2
}

func (r *RDP) cmdSetOtherModes(w uint64) {
	r.CycleMode = CycleMode((w >> 52) & 0x3)
	r.ZSourceSel = (w>>2)&1 != 0
	modeBits := uint8((w >> 16) & 0xF)
	r.DepthMode = DepthMode((modeBits >> 2) & 0x3)
	r.ZUpdateEn = w&(1<<5) != 0
	r.ZCompareEn = w&(1<<4) != 0
	r.ImageReadEn = w&(1<<6) != 0
}

func (r *RDP) cmdSetCombineMode(w uint64) {
	r.Combiner1 = CombinerSelectors{
		SubA: uint8((w >> 52) & 0xF),
		Mul:  uint8((w >> 47) & 0x1F),
		SubB: uint8((w >> 28) & 0xF) >> 0,
		Add:  uint8((w >> 15) & 0x7),

		SubAAlpha: uint8((w >> 44) & 0x7),
		MulAlpha:  uint8((w >> 41) & 0x7),
		SubBAlpha: uint8((w >> 9) & 0x7),
		AddAlpha:  uint8((w >> 6) & 0x7),
	}
	r.Combiner2 = r.Combiner1
}

func (r *RDP) cmdSetTextureImage(w uint64) {
	dramAddr := uint32(w) & 0xFFFFFF
	format := uint8((w >> 53) & 0x7)
	size := uint8((w >> 51) & 0x3)
	width := uint32((w>>32)&0xFFF) + 1
	r.SetTextureImage(dramAddr, format, size, width)
}

func (r *RDP) cmdSetColorImage(w uint64) {
	r.FramebufferDRAMAddress = uint32(w) & 0xFFFFFF
	r.Format = uint8((w >> 53) & 0x7)
	r.PixelSize = sizeCodeToBits(uint8((w >> 51) & 0x3))
	r.Width = uint32((w>>32)&0xFFF) + 1
}

func sizeCodeToBits(code uint8) uint8 {
	switch code {
	case 0:
		return 4
	case 1:
		return 8
	case 2:
		return 16
	default:
		return 32
	}
}

func (r *RDP) cmdSetTile(w uint64) {
	t := int((w >> 24) & 0x7)
	format := uint8((w >> 53) & 0x7)
	size := uint8((w >> 51) & 0x3)
	line := uint16((w >> 41) & 0x1FF)
	tmemAddr := uint16((w >> 32) & 0x1FF)
	palette := uint8((w >> 20) & 0xF)
	r.SetTile(t, tmemAddr, format, size, palette, line)
}

func (r *RDP) cmdSetTileSize(w uint64) {
	t := int((w >> 24) & 0x7)
	sl := int32((w >> 44) & 0xFFF)
	tl := int32((w >> 32) & 0xFFF)
	sh := int32((w >> 12) & 0xFFF)
	th := int32(w & 0xFFF)
	r.SetTileSize(t, sl, tl, sh, th)
}

func (r *RDP) cmdLoadTile(w uint64) {
	t := int((w >> 24) & 0x7)
	sl := int32((w >> 44) & 0xFFF)
	tl := int32((w >> 32) & 0xFFF)
	sh := int32((w >> 12) & 0xFFF)
	th := int32(w & 0xFFF)
	r.LoadTile(t, sl, tl, sh, th)
}

func (r *RDP) cmdLoadTLUT(w uint64) {
	t := int((w >> 24) & 0x7)
	sl := int32((w >> 44) & 0xFFF)
	tl := int32((w >> 32) & 0xFFF)
	sh := int32((w >> 12) & 0xFFF)
	th := int32(w & 0xFFF)
	r.LoadTLUT(t, sl, tl, sh, th)
}

func (r *RDP) cmdLoadBlock(w uint64) {
	t := int((w >> 24) & 0x7)
	sStart := uint32((w >> 44) & 0xFFF)
	sEnd := uint32((w >> 12) & 0xFFF)
	dxt := uint32(w & 0xFFF)
	r.LoadBlock(t, sStart, sEnd, dxt)
}

// cmdRectangle fills a rectangle with fill_color, spec.md §4.2.5's Fill
// pixel path, scissor-clipped.
func (r *RDP) cmdRectangle(w uint64) {
	xh := int32((w >> 44) & 0xFFF) >> 2
	yh := int32((w >> 32) & 0xFFF) >> 2
	xl := int32((w >> 12) & 0xFFF) >> 2
	yl := int32(w & 0xFFF) >> 2

	for y := yh; y < yl; y++ {
		if y < r.Scissor.YH || y >= r.Scissor.YL {
			continue
		}
		for x := xh; x < xl; x++ {
			if x < r.Scissor.XH || x >= r.Scissor.XL {
				continue
			}
			r.drawPixel(x, y)
		}
	}
}

// cmdTextureRectangle draws a textured rectangle by sampling fetch_texels
// across the span and running it through the combiner/blender pipeline,
// reusing drawPixel's Cycle1/Cycle2 path.
func (r *RDP) cmdTextureRectangle(w []uint64) {
	xh := int32((w[0]>>44)&0xFFF) >> 2
	yh := int32((w[0]>>32)&0xFFF) >> 2
	tile := int((w[0] >> 24) & 0x7)
	xl := int32((w[0]>>12)&0xFFF) >> 2
	yl := int32(w[0]&0xFFF) >> 2

	s0 := int32((w[1]>>48)&0xFFFF) >> 5
	t0 := int32((w[1]>>32)&0xFFFF) >> 5
	dsdx := int32((w[1]>>16)&0xFFFF) >> 5
	dtdy := int32(w[1]&0xFFFF) >> 5

	for y := yh; y < yl; y++ {
		if y < r.Scissor.YH || y >= r.Scissor.YL {
			continue
		}
		tcoord := t0 + dtdy*(y-yh)
		for x := xh; x < xl; x++ {
			if x < r.Scissor.XH || x >= r.Scissor.XL {
				continue
			}
			scoord := s0 + dsdx*(x-xh)
			r.TexelColor[0] = r.fetchTexels(tile, scoord, tcoord)
			r.drawPixel(x, y)
		}
	}
}

func (r *RDP) cmdSyncFull() {
	r.Status &^= StatusDMABusy | StatusPipeBusy | StatusStartGclk
	if r.InterruptCB != nil {
		r.InterruptCB(true)
	}
}
