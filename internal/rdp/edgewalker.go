package rdp

// Rasterize walks a decoded Triangle and calls drawPixel for every
// covered, scissor-clipped, depth-passing pixel, per spec.md §4.2.4.
func (r *RDP) Rasterize(t Triangle) {
	if t.YL <= t.YH {
		return
	}

	shadeAccum := t.ShadeBase
	texAccum := t.TexBase
	zAccum := t.ZBase

	xMajor := t.XH
	xMinor := t.XM

	for y := t.YH; y < t.YL; y++ {
		if y == t.YM {
			xMinor = t.XL
		}

		if y >= t.YH+1 {
			// per-scanline De deltas (spec.md §4.2.4 step 4).
			for i := 0; i < 4; i++ {
				shadeAccum[i] += t.ShadeDe[i]
				texAccum[i] += t.TexDe[i]
			}
			zAccum += t.DzDe
		}

		if y < r.Scissor.YH || y >= r.Scissor.YL {
			xMajor += t.DxHDy
			if y+1 < t.YM {
				xMinor += t.DxMDy
			} else {
				xMinor += t.DxLDy
			}
			continue
		}

		xStartFixed, xEndFixed := xMajor, xMinor
		leftIsMajor := t.Lft
		if !leftIsMajor {
			xStartFixed, xEndFixed = xMinor, xMajor
		}

		xStart := int32(xStartFixed >> 16)
		xEnd := int32(xEndFixed >> 16)

		step := int32(1)
		if xStart > xEnd {
			step = -1
		}

		lineShade := shadeAccum
		lineTex := texAccum
		lineZ := zAccum

		pixelIndex := int32(0)
		for x := xStart; x != xEnd+step; x += step {
			if x < r.Scissor.XH || x >= r.Scissor.XL {
				pixelIndex++
				continue
			}

			var shade [4]int32
			var tex [4]int32
			var z int32
			for i := 0; i < 4; i++ {
				shade[i] = lineShade[i] + t.ShadeDx[i]*pixelIndex
				tex[i] = lineTex[i] + t.TexDx[i]*pixelIndex
			}
			z = lineZ + t.DzDx*pixelIndex
			pixelIndex++

			if t.HasShade {
				r.ShadeColor = packRGBA(
					clamp8(shade[0]>>16),
					clamp8(shade[1]>>16),
					clamp8(shade[2]>>16),
					clamp8(shade[3]>>16),
				)
			}

			if t.HasTexture {
				w := tex[2]
				s, tt := tex[0], tex[1]
				if w>>15 != 0 {
					s = int32((int64(s) << 16) / int64(w))
					tt = int32((int64(tt) << 16) / int64(w))
				}
				texel := r.fetchTexels(t.Tile, s>>16, tt>>16)
				r.TexelColor[0] = texel
			}

			z1583 := uint32(z) >> 14
			if t.HasDepth {
				dzPixel := approxDzPixel(t.DzDx, t.DzDy)
				if r.depthTest(x, y, z1583, dzPixel) {
					r.drawPixel(x, y)
					if r.ZUpdateEn {
						r.zSet(x, y, z1583, dzPixel)
					}
				}
			} else {
				r.drawPixel(x, y)
			}
		}

		xMajor += t.DxHDy
		if y+1 < t.YM {
			xMinor += t.DxMDy
		} else {
			xMinor += t.DxLDy
		}
	}
}

// approxDzPixel folds a triangle's depth slopes into the small 3-bit
// delta-z hint depthTest's decal tolerance compares against, approximating
// real hardware's precomputed dzpix table (n64_rdp.cxx) without the full
// per-span coverage accumulation this engine's rasterizer doesn't track.
func approxDzPixel(dzDx, dzDy int32) uint32 {
	mag := dzDx >> 14
	if mag < 0 {
		mag = -mag
	}
	magY := dzDy >> 14
	if magY < 0 {
		magY = -magY
	}
	if magY > mag {
		mag = magY
	}
	switch {
	case mag == 0:
		return 0
	case mag < 2:
		return 1
	case mag < 4:
		return 2
	case mag < 8:
		return 3
	case mag < 16:
		return 4
	case mag < 32:
		return 5
	case mag < 64:
		return 6
	default:
		return 7
	}
}
