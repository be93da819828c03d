package rdp

// Blender source-color selectors for 1a/2a (spec.md §4.2.7).
const (
	BlendSrcCombined uint8 = iota
	BlendSrcFramebuffer
	BlendSrcBlend
	BlendSrcFog
)

// Blender multiplier-alpha selectors for 1b (spec.md §4.2.7).
const (
	BlendAlphaCombined uint8 = iota
	BlendAlphaFog
	BlendAlphaShade
	BlendAlphaZero
)

func (r *RDP) blendSourceColor(sel uint8, framebuffer uint32) (cr, cg, cb uint8) {
	switch sel {
	case BlendSrcCombined:
		cr, cg, cb, _ = extractRGBA(r.CombinedColor)
	case BlendSrcFramebuffer:
		cr, cg, cb, _ = extractRGBA(framebuffer)
	case BlendSrcBlend:
		cr, cg, cb, _ = extractRGBA(r.BlendColor)
	case BlendSrcFog:
		cr, cg, cb, _ = extractRGBA(r.FogColor)
	}
	return
}

func (r *RDP) blendAlpha1b(sel uint8) uint8 {
	switch sel {
	case BlendAlphaCombined:
		_, _, _, a := extractRGBA(r.CombinedColor)
		return a
	case BlendAlphaFog:
		_, _, _, a := extractRGBA(r.FogColor)
		return a
	case BlendAlphaShade:
		_, _, _, a := extractRGBA(r.ShadeColor)
		return a
	default:
		return 0
	}
}

// blendAlpha2b resolves the "2b" mux: ~1b, coverage (approximated as
// 0xFF — full coverage, since this core doesn't track sub-pixel
// coverage per spec.md's explicit non-goal), 0xFF, or 0.
func (r *RDP) blendAlpha2b(sel uint8, m1 uint8) uint8 {
	switch sel {
	case 0:
		return 0xFF - m1
	case 1:
		return 0xFF // coverage ~= full, sub-pixel coverage is out of scope
	case 2:
		return 0xFF
	default:
		return 0
	}
}

// blender implements spec.md §4.2.7: out = (c1*m1 + c2*m2) / (m1+m2),
// falling back to m1=0xFF with a one-shot log if m1+m2==0. Output alpha
// is always 0xFF. Cycle2 blending is not modeled beyond cycle 1, mirroring
// the draw_pixel simplification in spec.md §4.2.5.
func (r *RDP) blender(framebuffer uint32) uint32 {
	c1r, c1g, c1b := r.blendSourceColor(r.Blend1.Mux1A, framebuffer)
	c2r, c2g, c2b := r.blendSourceColor(r.Blend1.Mux2A, framebuffer)

	m1 := r.blendAlpha1b(r.Blend1.Mux1B)
	m2 := r.blendAlpha2b(r.Blend1.Mux2B, m1)

	if uint16(m1)+uint16(m2) == 0 {
		if !r.warnedBlendZero {
			r.logf("blender: m1+m2 == 0, forcing m1=0xFF")
			r.warnedBlendZero = true
		}
		m1 = 0xFF
	}

	denom := uint32(m1) + uint32(m2)
	outR := uint8((uint32(c1r)*uint32(m1) + uint32(c2r)*uint32(m2)) / denom)
	outG := uint8((uint32(c1g)*uint32(m1) + uint32(c2g)*uint32(m2)) / denom)
	outB := uint8((uint32(c1b)*uint32(m1) + uint32(c2b)*uint32(m2)) / denom)

	return packRGBA(outR, outG, outB, 0xFF)
}
