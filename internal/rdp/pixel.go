package rdp

// fbOffset returns the byte offset of pixel (x,y) in the framebuffer for
// the current PixelSize (4/8/16/32 bits), spec.md §3.3.
func (r *RDP) fbOffset(x, y int32) uint32 {
	switch r.PixelSize {
	case 32:
		return r.FramebufferDRAMAddress + uint32(y*int32(r.Width)+x)*4
	case 16:
		return r.FramebufferDRAMAddress + uint32(y*int32(r.Width)+x)*2
	case 8:
		return r.FramebufferDRAMAddress + uint32(y*int32(r.Width)+x)
	default: // 4
		return r.FramebufferDRAMAddress + uint32(y*int32(r.Width)+x)/2
	}
}

// readFramebufferColor loads the target pixel and normalizes it to
// RGBA8888 (16bpp via rgba5551to8888, 32bpp direct), spec.md §4.2.5.
func (r *RDP) readFramebufferColor(x, y int32) uint32 {
	if r.RDRAM == nil {
		return 0
	}
	rdram := r.RDRAM.Bytes()
	off := r.fbOffset(x, y)

	switch r.PixelSize {
	case 32:
		if int(off)+3 >= len(rdram) {
			return 0
		}
		return uint32(rdram[off])<<24 | uint32(rdram[off+1])<<16 | uint32(rdram[off+2])<<8 | uint32(rdram[off+3])
	case 16:
		if int(off)+1 >= len(rdram) {
			return 0
		}
		c16 := uint16(rdram[off])<<8 | uint16(rdram[off+1])
		return rgba5551to8888(c16)
	default:
		return 0
	}
}

// writeFramebufferPixel stores an RGBA8888 color back to the framebuffer,
// compressing to RGBA5551 for 16bpp targets.
func (r *RDP) writeFramebufferPixel(x, y int32, color uint32) {
	if r.RDRAM == nil {
		return
	}
	rdram := r.RDRAM.Bytes()
	off := r.fbOffset(x, y)

	switch r.PixelSize {
	case 32:
		if int(off)+3 >= len(rdram) {
			return
		}
		rdram[off] = byte(color >> 24)
		rdram[off+1] = byte(color >> 16)
		rdram[off+2] = byte(color >> 8)
		rdram[off+3] = byte(color)
	case 16:
		if int(off)+1 >= len(rdram) {
			return
		}
		c16 := rgba8888to5551(color)
		rdram[off] = byte(c16 >> 8)
		rdram[off+1] = byte(c16)
	default:
	}
}

// drawPixel implements spec.md §4.2.5's per-cycle-mode pixel write.
func (r *RDP) drawPixel(x, y int32) {
	switch r.CycleMode {
	case CycleFill:
		if r.PixelSize == 32 {
			r.writeRawFramebuffer32(x, y, r.FillColor32)
		} else {
			idx := x & 1
			r.writeFramebufferPixel16Raw(x, y, r.FillColor16[idx])
		}
	case CycleCopy:
		if !r.warnedCopy {
			r.logf("draw_pixel: Copy cycle mode is reserved, skipping")
			r.warnedCopy = true
		}
	case Cycle1, Cycle2:
		if r.CycleMode == Cycle2 && !r.warnedCycle2 {
			r.logf("draw_pixel: Cycle2 treated as Cycle1")
			r.warnedCycle2 = true
		}
		r.colorCombiner(x, y)
		fb := r.readFramebufferColor(x, y)
		out := r.blender(fb)
		r.writeFramebufferPixel(x, y, out)
	}
}

func (r *RDP) writeRawFramebuffer32(x, y int32, color32 uint32) {
	if r.RDRAM == nil {
		return
	}
	rdram := r.RDRAM.Bytes()
	off := r.fbOffset(x, y)
	if int(off)+3 >= len(rdram) {
		return
	}
	rdram[off] = byte(color32 >> 24)
	rdram[off+1] = byte(color32 >> 16)
	rdram[off+2] = byte(color32 >> 8)
	rdram[off+3] = byte(color32)
}

func (r *RDP) writeFramebufferPixel16Raw(x, y int32, color16 uint16) {
	if r.RDRAM == nil {
		return
	}
	rdram := r.RDRAM.Bytes()
	off := r.fbOffset(x, y)
	if int(off)+1 >= len(rdram) {
		return
	}
	rdram[off] = byte(color16 >> 8)
	rdram[off+1] = byte(color16)
}
