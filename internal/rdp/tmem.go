package rdp

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// texelKey identifies one decoded RGBA8888 texel within TMEM, keyed on
// the tile and the TMEM byte address the texel was read from.
type texelKey struct {
	tile int
	addr uint16
}

// texelCache memoizes fetch_texels decodes, grounded on the domain-stack
// wiring decision in SPEC_FULL.md to exercise hashicorp/golang-lru/v2 for
// the RDP's texture-decode hot path. TMEM writes purge affected entries
// by invalidating the whole cache, which is correct (if conservative)
// since LoadTile/LoadBlock run far less often than per-pixel fetches.
type texelCache struct {
	lru *lru.Cache[texelKey, uint32]
}

func newTexelCache(size int) *texelCache {
	c, _ := lru.New[texelKey, uint32](size)
	return &texelCache{lru: c}
}

func (c *texelCache) Purge() {
	if c.lru != nil {
		c.lru.Purge()
	}
}

// SetTextureImage latches the source descriptor for the next LoadTile/
// LoadBlock/LoadTLUT (spec.md §4.2.9).
func (r *RDP) SetTextureImage(dramAddr uint32, format, size uint8, width uint32) {
	r.texImage = TextureImage{DRAMAddress: dramAddr, Width: width, Format: format, Size: size}
}

// SetTile stores a tile descriptor, spec.md §4.2.9: tmem_address, format,
// size, palette<<4, line_width = Line<<3.
func (r *RDP) SetTile(t int, tmemAddr uint16, format, size, palette uint8, line uint16) {
	if t < 0 || t >= len(r.Tiles) {
		return
	}
	r.Tiles[t].TMEMAddress = tmemAddr
	r.Tiles[t].Format = format
	r.Tiles[t].Size = size
	r.Tiles[t].Palette = palette << 4
	r.Tiles[t].LineWidth = line << 3
}

// SetTileSize stores the SL/SH/TL/TH rectangle (10.2 fixed point).
func (r *RDP) SetTileSize(t int, sl, tl, sh, th int32) {
	if t < 0 || t >= len(r.Tiles) {
		return
	}
	r.Tiles[t].SL, r.Tiles[t].TL, r.Tiles[t].SH, r.Tiles[t].TH = sl, tl, sh, th
}

// LoadTile copies a rectangular region of 16-bit texels from the latched
// DRAM image into TMEM (spec.md §4.2.9). sl/tl/sh/th are in 10.2 fixed
// point pixel coordinates, as the command word stores them.
func (r *RDP) LoadTile(t int, sl, tl, sh, th int32) {
	if t < 0 || t >= len(r.Tiles) || r.RDRAM == nil {
		return
	}
	tile := &r.Tiles[t]
	rdram := r.RDRAM.Bytes()

	srcStride := int(r.texImage.Width) * 2
	s0, t0 := int(sl>>2), int(tl>>2)
	s1, t1 := int(sh>>2), int(th>>2)

	for ty := t0; ty <= t1; ty++ {
		for tx := s0; tx <= s1; tx++ {
			srcOff := int(r.texImage.DRAMAddress) + ty*srcStride + tx*2
			dstOff := int(tile.TMEMAddress) + (ty-t0)*int(tile.LineWidth) + (tx-s0)*2
			if srcOff+1 < len(rdram) && dstOff+1 < len(r.TMEM) {
				r.TMEM[dstOff] = rdram[srcOff]
				r.TMEM[dstOff+1] = rdram[srcOff+1]
			}
		}
	}
	r.texelCache.Purge()
}

// LoadBlock copies a linear run from DRAM into TMEM, toggling the DRAM
// 32-bit word halves on every DxT carry across bit 11 of the accumulated
// t value and storing big-endian — the documented quirk of spec.md
// §4.2.9, carried over unmodified from the hardware behavior it
// describes rather than "fixed" (unlike the three gbcpu bugs).
func (r *RDP) LoadBlock(t int, sStart, sEnd uint32, dxt uint32) {
	if t < 0 || t >= len(r.Tiles) || r.RDRAM == nil {
		return
	}
	tile := &r.Tiles[t]
	rdram := r.RDRAM.Bytes()

	srcBase := int(r.texImage.DRAMAddress)
	tAccum := uint32(0)
	dstOff := int(tile.TMEMAddress)

	count := int(sEnd) - int(sStart)
	if count < 0 {
		count = 0
	}

	flip := false
	for i := 0; i <= count && dstOff+1 < len(r.TMEM); i++ {
		srcOff := srcBase + (int(sStart)+i)*2
		if flip {
			srcOff ^= 4
		}
		if srcOff+1 < len(rdram) {
			r.TMEM[dstOff] = rdram[srcOff]
			r.TMEM[dstOff+1] = rdram[srcOff+1]
		}
		dstOff += 2

		prevAccum := tAccum
		tAccum += dxt
		if prevAccum>>11 != tAccum>>11 {
			flip = !flip
		}
	}
	r.texelCache.Purge()
}

// LoadTLUT copies a palette into TMEM's upper half, reusing the same
// rectangular-copy path as LoadTile (both move 16-bit words).
func (r *RDP) LoadTLUT(t int, sl, tl, sh, th int32) {
	r.LoadTile(t, sl, tl, sh, th)
}

// fetchTexels reads two bytes at tmem_addr + t*line_width + s*2 (mod
// 0x1FFF), forms an RGBA5551 word, and expands it to RGBA8888 (spec.md
// §4.2.9). Decoded texels are memoized in texelCache.
func (r *RDP) fetchTexels(tileIdx int, s, tcoord int32) uint32 {
	if tileIdx < 0 || tileIdx >= len(r.Tiles) {
		return 0
	}
	tile := &r.Tiles[tileIdx]

	addr := (uint32(tile.TMEMAddress) + uint32(tcoord)*uint32(tile.LineWidth) + uint32(s)*2) & 0x1FFF
	key := texelKey{tile: tileIdx, addr: uint16(addr)}
	if v, ok := r.texelCache.lru.Get(key); ok {
		return v
	}

	hi := r.TMEM[addr&0x0FFF]
	lo := r.TMEM[(addr+1)&0x0FFF]
	c16 := uint16(hi)<<8 | uint16(lo)
	c32 := rgba5551to8888(c16)

	r.texelCache.lru.Add(key, c32)
	return c32
}
