// Package video implements the Video Scan-out Engine (§4.4): a
// horizontal/vertical timing generator and a framebuffer expander that
// turns a 1-bit compact bitvector into a scaled pixel stream,
// synchronized to the timing generator's data-enable window.
//
// There is no video output stage in the teacher corpus; this package is
// grounded directly on §4.4's description, following the same
// Builder-plus-Comp-plus-Step shape as memctrl and hart, with the
// "continuously present ... synchronized to fixed timing" requirement
// expressed as a pure Step(cycle) -> Signals function rather than a
// clocked always-block, per Design Notes §9.
package video

// Config fixes one scan-out timing generator's horizontal and vertical
// intervals, per §4.4: "parameterised by h_active, h_front_porch,
// h_sync, h_back_porch, and vertical analogs."
type Config struct {
	HActive     int
	HFrontPorch int
	HSync       int
	HBackPorch  int

	VActive     int
	VFrontPorch int
	VSync       int
	VBackPorch  int
}

func (c Config) hTotal() int {
	return c.HActive + c.HFrontPorch + c.HSync + c.HBackPorch
}

func (c Config) vTotal() int {
	return c.VActive + c.VFrontPorch + c.VSync + c.VBackPorch
}

// Signals is one pixel clock's worth of timing generator output.
type Signals struct {
	HSync      bool
	VSync      bool
	DataEnable bool

	// X, Y are the current output pixel coordinates, valid only while
	// DataEnable is asserted.
	X, Y int

	// XAdvanced marks a line's x counter moving forward this cycle,
	// i.e. every cycle (the generator has exactly one pixel-clock tick
	// per Step call); kept as an explicit signal per §4.4's wording.
	XAdvanced bool

	// StartOfFrame marks the first cycle of a vsync pulse, the
	// expander's row-cache/position reset trigger.
	StartOfFrame bool
}

// Timing is the horizontal/vertical counter state machine.
type Timing struct {
	cfg Config

	hCount int
	vCount int

	prevVSync bool
}

// NewTiming constructs a Timing generator at the start of a frame.
func NewTiming(cfg Config) *Timing {
	return &Timing{cfg: cfg}
}

// Step advances the generator by one pixel clock and returns this
// cycle's signals.
func (t *Timing) Step() Signals {
	hActiveEnd := t.cfg.HActive
	hSyncStart := hActiveEnd + t.cfg.HFrontPorch
	hSyncEnd := hSyncStart + t.cfg.HSync

	vActiveEnd := t.cfg.VActive
	vSyncStart := vActiveEnd + t.cfg.VFrontPorch
	vSyncEnd := vSyncStart + t.cfg.VSync

	hde := t.hCount < hActiveEnd
	vde := t.vCount < vActiveEnd

	sig := Signals{
		HSync:      t.hCount >= hSyncStart && t.hCount < hSyncEnd,
		VSync:      t.vCount >= vSyncStart && t.vCount < vSyncEnd,
		DataEnable: hde && vde,
		X:          t.hCount,
		Y:          t.vCount,
		XAdvanced:  true,
	}

	sig.StartOfFrame = sig.VSync && !t.prevVSync
	t.prevVSync = sig.VSync

	t.hCount++
	if t.hCount >= t.cfg.hTotal() {
		t.hCount = 0
		t.vCount++
		if t.vCount >= t.cfg.vTotal() {
			t.vCount = 0
		}
	}

	return sig
}
