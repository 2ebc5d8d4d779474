package video

import (
	"github.com/jawline/Pulse/membus"
	"github.com/jawline/Pulse/stream"
)

// FramebufferConfig fixes the compact bitvector's dimensions, its
// scaled output size, and its base address, per §3's Framebuffer
// glossary entry and §6's memory layout.
type FramebufferConfig struct {
	InputWidth, InputHeight   int
	OutputWidth, OutputHeight int
	BaseAddress               uint32
}

func (c FramebufferConfig) wordsPerRow() int {
	return (c.InputWidth + 31) / 32
}

type fetchState int

const (
	fetchIdle fetchState = iota
	fetchIssue
	fetchWait
)

// Expander implements the framebuffer expander (§4.4): it maps an output
// coordinate down to the input bitvector and keeps a one-input-row
// cache. Comp fills the cache for the next output line during
// horizontal blanking, so with a blanking interval at least as long as
// one row fetch every data-enable cycle is answered from the cache. When
// a line's input row is not cached at its first data-enable cycle (no
// horizontal blanking, or too short a one), the row is fetched on demand
// and the pixels emitted while that fetch is in flight are 0.
type Expander struct {
	cfg FramebufferConfig

	rowWords int
	rowBuf   []uint32

	cachedRow int // -1 until the first row is fetched
	state     fetchState
	pendingRow int
	wordIdx    int
}

// NewExpander constructs an Expander with an empty row cache.
func NewExpander(cfg FramebufferConfig) *Expander {
	return &Expander{
		cfg:       cfg,
		rowWords:  cfg.wordsPerRow(),
		rowBuf:    make([]uint32, cfg.wordsPerRow()),
		cachedRow: -1,
	}
}

// InputCoord maps an output pixel coordinate down to the input
// bitvector's coordinate, per §4.4: "x·input_width/output_width,
// y·input_height/output_height."
func (e *Expander) InputCoord(outX, outY int) (int, int) {
	inX := outX * e.cfg.InputWidth / e.cfg.OutputWidth
	inY := outY * e.cfg.InputHeight / e.cfg.OutputHeight
	return inX, inY
}

// ResetFrame clears the row cache and fetch state; called on vsync
// (§4.4: "the expander resets its row cache and (x,y) tracking on
// vsync").
func (e *Expander) ResetFrame() {
	e.cachedRow = -1
	e.state = fetchIdle
}

// NeedRow reports whether inputRow is not yet cached and no fetch is in
// flight, i.e. a prefetch should be started now.
func (e *Expander) NeedRow(inputRow int) bool {
	return e.cachedRow != inputRow && e.state == fetchIdle
}

// BeginFetch starts prefetching inputRow's words. Must only be called
// when NeedRow(inputRow) is true.
func (e *Expander) BeginFetch(inputRow int) {
	e.pendingRow = inputRow
	e.wordIdx = 0
	e.state = fetchIssue
}

// RowReady reports whether inputRow is available in the cache.
func (e *Expander) RowReady(inputRow int) bool {
	return e.cachedRow == inputRow
}

// Request produces this cycle's memory read request, if a row fetch is
// in flight and awaiting its next word.
func (e *Expander) Request() stream.Handshake[membus.ReadRequest] {
	if e.state != fetchIssue {
		return stream.None[membus.ReadRequest]()
	}

	addr := e.cfg.BaseAddress + uint32(e.pendingRow*e.rowWords+e.wordIdx)*membus.DataBytes
	return stream.Of(membus.ReadRequest{Address: addr})
}

// Update consumes this cycle's read ack/response and advances the
// fetch state machine.
func (e *Expander) Update(readAck bool, resp stream.Handshake[membus.ReadResponse]) {
	switch e.state {
	case fetchIssue:
		if readAck {
			e.state = fetchWait
		}

	case fetchWait:
		if resp.Valid {
			e.rowBuf[e.wordIdx] = resp.Data.ReadData
			e.wordIdx++

			if e.wordIdx >= e.rowWords {
				e.cachedRow = e.pendingRow
				e.state = fetchIdle
			} else {
				e.state = fetchIssue
			}
		}
	}
}

// Bit returns the cached row's bit at input column inX. It must only be
// called when RowReady for the row currently being sampled.
func (e *Expander) Bit(inX int) bool {
	word := e.rowBuf[inX/32]
	return (word>>(uint(inX)%32))&1 == 1
}
