// Package rdp implements the Reality Display Processor command engine: a
// command-queue-driven triangle rasterizer and pixel pipeline (color
// combiner, blender, z-buffer), grounded on the teacher's PPU in shape
// (register-driven device with a Read8/Write8 MMIO surface, internal
// scanline state machine) but built to the RDP's own command/coefficient
// format instead of an SNES-style tile PPU.
package rdp

// CycleMode selects the pixel pipeline mode (spec.md §4.2.5).
type CycleMode uint8

const (
	CycleFill CycleMode = iota
	CycleCopy
	Cycle1
	Cycle2
)

// DepthMode selects the z-buffer comparison rule (spec.md §4.2.8).
type DepthMode uint8

const (
	DepthOpaque DepthMode = iota
	DepthInterpenetrating
	DepthTransparent
	DepthDecal
)

// Status bits, packed into DP_STATUS (spec.md §3.3, §4.2.1).
const (
	StatusDMASourceDMEM uint32 = 1 << iota
	StatusFreeze
	StatusFlush
	StatusStartGclk
	StatusTMEMBusy
	StatusPipeBusy
	StatusCmdBusy
	StatusReady
	StatusDMABusy
	StatusEndPending
	StatusStartPending
)

// TileDescriptor mirrors one of the eight hardware tile descriptors
// (spec.md §3.3, §4.2.9).
type TileDescriptor struct {
	TMEMAddress uint16
	Format      uint8
	Size        uint8
	Palette     uint8
	LineWidth   uint16

	MaskS, MaskT     uint8
	ClampS, ClampT   bool
	MirrorS, MirrorT bool
	SL, SH, TL, TH   int32 // 10.2 fixed point
}

// Scissor is the clip rectangle in integer pixels (spec.md §3.3).
type Scissor struct {
	XH, YH, XL, YL int32
}

// RDRAM and SPDMEM are host-owned byte arrays the RDP reads/writes
// directly, per spec.md §3.3's lifecycle note ("hold external pointers
// to the host-owned RDRAM/SP-DMEM byte arrays").
type Memory interface {
	Bytes() []byte
}

// ByteSlice adapts a plain []byte to Memory.
type ByteSlice []byte

func (b ByteSlice) Bytes() []byte { return b }

// InterruptCallback is invoked on SyncFull, the host's DP interrupt line.
// The bool argument carries the new pending state (true: SyncFull just
// raised it; the host is expected to service and clear it).
type InterruptCallback func(pending bool)
