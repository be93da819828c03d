package rdp

import (
	"dualcore-exec/internal/debug"
)

// TextureImage is the SetTextureImage-latched source descriptor for the
// next LoadTile/LoadBlock/LoadTLUT (spec.md §4.2.9).
type TextureImage struct {
	DRAMAddress uint32
	Width       uint32
	Format      uint8
	Size        uint8
}

// CombinerSelectors holds the four per-channel mux indices for one
// combiner stage (spec.md §4.2.6), indexing into the fixed tables in
// combiner.go.
type CombinerSelectors struct {
	SubA, SubB, Mul, Add                     uint8
	SubAAlpha, SubBAlpha, MulAlpha, AddAlpha uint8
}

// BlenderMux holds the four 2-bit mux selectors per cycle (spec.md §4.2.7).
type BlenderMux struct {
	Mux1A, Mux1B, Mux2A, Mux2B uint8
}

// RDP is the command-queue-driven rasterizer and pixel pipeline. It owns
// no goroutines: ExecuteCommandWindow runs synchronously on the caller's
// thread, per spec.md §5's single-threaded cooperative model.
type RDP struct {
	RDRAM  Memory
	SPDMEM Memory

	Status         uint32
	StartAddress   uint32
	EndAddress     uint32
	CurrentAddress uint32

	FramebufferDRAMAddress uint32
	Width                  uint32
	Format                 uint8
	PixelSize              uint8

	ZBufferDRAMAddress uint32

	zCompress   [0x40000]uint16
	zDecompress [0x4000]uint32

	FillColor32   uint32
	FillColor16   [2]uint16

	BlendColor       uint32
	FogColor         uint32
	PrimitiveColor   uint32
	EnvironmentColor uint32
	ShadeColor       uint32
	CombinedColor    uint32
	TexelColor       [2]uint32

	Tiles [8]TileDescriptor
	TMEM  [4096]byte

	NineBitShadow []byte

	Scissor Scissor

	CycleMode CycleMode

	Combiner1, Combiner2 CombinerSelectors
	Blend1, Blend2       BlenderMux

	DepthMode    DepthMode
	ZUpdateEn    bool
	ZCompareEn   bool
	ZSourceSel   bool
	ImageReadEn  bool
	PrimDepthZ   uint16
	PrimDepthDZ  uint16

	texImage TextureImage

	InterruptCB InterruptCallback
	Logger      *debug.Logger
	Trace       *debug.CommandTraceLogger

	texelCache *texelCache

	warnedCopy      bool
	warnedCycle2    bool
	warnedBlendZero bool
}

// New constructs an RDP bound to the host-owned RDRAM/SP-DMEM backing
// stores, precomputing the z-compress/decompress LUTs (spec.md §3.3).
func New(rdram, spdmem Memory) *RDP {
	r := &RDP{RDRAM: rdram, SPDMEM: spdmem}
	r.buildDepthLUTs()
	r.texelCache = newTexelCache(256)
	r.Reset()
	return r
}

// Reset reinitializes per-ROM-load state, per spec.md §3.3's lifecycle note.
func (r *RDP) Reset() {
	r.Status = StatusReady
	r.StartAddress = 0
	r.EndAddress = 0
	r.CurrentAddress = 0
	r.CycleMode = CycleFill
	r.TMEM = [4096]byte{}
	if r.RDRAM != nil {
		n := (len(r.RDRAM.Bytes()) + 7) / 8
		r.NineBitShadow = make([]byte, n)
	}
	if r.texelCache != nil {
		r.texelCache.Purge()
	}
	r.warnedCopy = false
	r.warnedCycle2 = false
	r.warnedBlendZero = false
}

func (r *RDP) logf(format string, args ...interface{}) {
	if r.Logger != nil {
		r.Logger.LogRDPf(debug.LogLevelWarning, format, args...)
	}
}

// ReadReg implements the four-word MMIO register interface (spec.md
// §4.2.1): DP_START, DP_END, DP_STATUS, DP_CLOCK/DP_BUSY.
func (r *RDP) ReadReg(index int) uint32 {
	switch index {
	case 0:
		return r.StartAddress
	case 1:
		return r.EndAddress
	case 2:
		return r.Status
	default:
		return 0
	}
}

// WriteReg implements DP_START/DP_END/DP_STATUS write semantics exactly
// as specified in spec.md §4.2.1.
func (r *RDP) WriteReg(index int, data uint32) {
	switch index {
	case 0: // DP_START
		if r.Status&StatusStartPending == 0 {
			r.StartAddress = data & 0xFFFFF8
			r.Status |= StatusStartPending
		}
	case 1: // DP_END
		if r.Status&StatusStartPending != 0 {
			r.Status &^= StatusStartPending
			r.CurrentAddress = r.StartAddress
		}
		r.EndAddress = data & 0xFFFFF8
		r.Status |= StatusPipeBusy | StatusStartGclk
		r.ExecuteCommandWindow()
		r.Status |= StatusReady
	case 2: // DP_STATUS
		r.writeStatus(data)
	}
}

// writeStatus applies the paired clear/set bits and single-shot clears
// documented in spec.md §4.2.1.
func (r *RDP) writeStatus(data uint32) {
	if data&(1<<0) != 0 {
		r.Status &^= StatusDMASourceDMEM
	}
	if data&(1<<1) != 0 {
		r.Status |= StatusDMASourceDMEM
	}
	if data&(1<<2) != 0 {
		r.Status &^= StatusFreeze
	}
	if data&(1<<3) != 0 {
		r.Status |= StatusFreeze
	}
	if data&(1<<4) != 0 {
		r.Status &^= StatusFlush
	}
	if data&(1<<5) != 0 {
		r.Status |= StatusFlush
	}
	if data&(1<<6) != 0 {
		r.Status &^= StatusTMEMBusy
	}
	if data&(1<<7) != 0 {
		r.Status &^= StatusPipeBusy
	}
	if data&(1<<8) != 0 {
		r.Status &^= StatusCmdBusy
	}
}
