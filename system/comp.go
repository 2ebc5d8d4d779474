// Package system implements the System Integration Fabric (§4.5): it
// instantiates the Memory Controller with the channel counts required
// by the configured harts, DMA engine, and video engine, wires every
// client's Request/Update pair to the controller's Step, and routes
// hart 0's ECALL port to the DMA transmit engine.
//
// There is no top-level integration component in the teacher corpus in
// the sense of wiring heterogeneous component types together (akita's
// own top-level simulations are built ad hoc per example, not as a
// reusable package), so this package follows the channel-layout
// bookkeeping of §4.5 directly, written in the same
// Builder-plus-Comp-plus-Step shape as every other component, with a
// single Step function playing the role of the "top-level loop calls
// each component's step once per cycle" described by Design Notes §9.
package system

import (
	"github.com/jawline/Pulse/dma"
	"github.com/jawline/Pulse/hart"
	"github.com/jawline/Pulse/hookable"
	"github.com/jawline/Pulse/membus"
	"github.com/jawline/Pulse/memctrl"
	"github.com/jawline/Pulse/stream"
	"github.com/jawline/Pulse/video"
)

// HookPosCycle marks the completion of one full system Step.
var HookPosCycle = &hookable.Pos{Name: "System Cycle"}

// channelLayout records where in the Memory Controller's read/write
// channel arrays each client's ports land, per §4.5: "Read channels
// (order): [video?], [dma_read?], then per hart: [fetch, load]. Write
// channels (order): [dma_write?], then per hart: [store]."
type channelLayout struct {
	videoRead   int // -1 if no video engine
	dmaRead     int // -1 if no DMA engine
	dmaWrite    int // -1 if no DMA engine
	hartFetch   []int
	hartLoad    []int
	hartStore   []int
}

// Comp is the System Integration Fabric: the Memory Controller plus
// every wired client.
type Comp struct {
	*hookable.Base

	name string

	mem      *memctrl.Comp
	harts    []*hart.Comp
	dmaEng   *dma.Comp
	videoEng *video.Comp

	layout channelLayout

	rxLine bool // external UART RX line level, driven by host tooling

	cycle uint64
}

// NumHarts reports the number of harts wired into the fabric.
func (c *Comp) NumHarts() int {
	return len(c.harts)
}

// Hart returns hart i (0-indexed); only hart 0 is wired to DMA per §4.5.
func (c *Comp) Hart(i int) *hart.Comp {
	return c.harts[i]
}

// Mem returns the shared Memory Controller, for host tooling that needs
// to seed or inspect the backing store directly (PeekWord/PokeWord).
func (c *Comp) Mem() *memctrl.Comp {
	return c.mem
}

// DMA returns the DMA engine, or nil if none was configured.
func (c *Comp) DMA() *dma.Comp {
	return c.dmaEng
}

// Video returns the video engine, or nil if none was configured.
func (c *Comp) Video() *video.Comp {
	return c.videoEng
}

// Name returns the component's name.
func (c *Comp) Name() string {
	return c.name
}

// Cycle reports the number of cycles Step has advanced so far.
func (c *Comp) Cycle() uint64 {
	return c.cycle
}

// SetRXLine drives the external UART RX line this cycle (host tooling's
// bit-banged input to the DMA receive path). Ignored if no DMA engine
// is configured.
func (c *Comp) SetRXLine(line bool) {
	c.rxLine = line
}

// Outputs is the set of external-facing signals Step produces each
// cycle.
type Outputs struct {
	// TXLine is the DMA engine's bit-banged UART transmit line level;
	// zero value (idle-high convention applies to the signal the host
	// reads, not this struct) when no DMA engine is configured.
	TXLine bool
	// Video is the scan-out engine's pixel-clock output; zero value
	// when no video engine is configured.
	Video video.Output
}

// Step advances every wired component by exactly one cycle: it collects
// each client's pure memory-side request, steps the shared Memory
// Controller once, and fans the controller's acks/responses back out to
// each client's Update, per §5's synchronous cycle-stepped model. Only
// hart 0's ECALL is wired to the DMA engine (§4.5); other harts use
// hart.DefaultECALLPort.
func (c *Comp) Step() Outputs {
	c.cycle++

	readReqs, writeReqs := c.collectRequests()
	ctrlOut := c.mem.Step(memctrl.Inputs{ReadReqs: readReqs, WriteReqs: writeReqs})

	out := c.applyResponses(ctrlOut)

	if c.NumHooks() > 0 {
		c.Invoke(hookable.Ctx{Domain: c, Pos: HookPosCycle, Cycle: c.cycle})
	}

	return out
}

func (c *Comp) collectRequests() ([]stream.Handshake[membus.ReadRequest], []stream.Handshake[membus.WriteRequest]) {
	numReads := len(c.layout.hartFetch) + len(c.layout.hartLoad)
	if c.layout.videoRead >= 0 {
		numReads++
	}
	if c.layout.dmaRead >= 0 {
		numReads++
	}

	numWrites := len(c.layout.hartStore)
	if c.layout.dmaWrite >= 0 {
		numWrites++
	}

	readReqs := make([]stream.Handshake[membus.ReadRequest], numReads)
	writeReqs := make([]stream.Handshake[membus.WriteRequest], numWrites)

	if c.videoEng != nil {
		readReqs[c.layout.videoRead] = c.videoEng.Request()
	}

	var dmaOut dma.MemOut
	if c.dmaEng != nil {
		dmaOut = c.dmaEng.Request()
		readReqs[c.layout.dmaRead] = dmaOut.ReadReq
		writeReqs[c.layout.dmaWrite] = dmaOut.WriteReq
	}

	for i, h := range c.harts {
		memOut := h.Request()
		readReqs[c.layout.hartFetch[i]] = memOut.FetchReq
		readReqs[c.layout.hartLoad[i]] = memOut.DataReadReq
		writeReqs[c.layout.hartStore[i]] = memOut.DataWriteReq
	}

	return readReqs, writeReqs
}

func (c *Comp) applyResponses(ctrlOut memctrl.Outputs) Outputs {
	var out Outputs

	if c.videoEng != nil {
		r := c.layout.videoRead
		out.Video = c.videoEng.Update(ctrlOut.ReadAcks[r], ctrlOut.ReadResps[r])
	}

	if c.dmaEng != nil {
		var in dma.MemIn
		in.ReadAck = ctrlOut.ReadAcks[c.layout.dmaRead]
		in.ReadResp = ctrlOut.ReadResps[c.layout.dmaRead]
		in.WriteAck = ctrlOut.WriteAcks[c.layout.dmaWrite]
		in.WriteResp = ctrlOut.WriteResps[c.layout.dmaWrite]

		out.TXLine = c.dmaEng.Update(in, c.rxLine)
	}

	for i, h := range c.harts {
		fetch := c.layout.hartFetch[i]
		load := c.layout.hartLoad[i]
		store := c.layout.hartStore[i]

		h.Update(hart.MemIn{
			FetchAck:      ctrlOut.ReadAcks[fetch],
			FetchResp:     ctrlOut.ReadResps[fetch],
			DataReadAck:   ctrlOut.ReadAcks[load],
			DataReadResp:  ctrlOut.ReadResps[load],
			DataWriteAck:  ctrlOut.WriteAcks[store],
			DataWriteResp: ctrlOut.WriteResps[store],
		})
	}

	return out
}

// Reset implements the system-level clear from §4.5: "zeros the hart
// registers (including pc=0) and resets all internal state machines;
// memory is NOT cleared." Every wired component's own Reset is
// responsible for its slice of that contract.
func (c *Comp) Reset() {
	c.mem.Reset()

	for _, h := range c.harts {
		h.Reset()
	}

	if c.dmaEng != nil {
		c.dmaEng.Reset()
	}

	if c.videoEng != nil {
		c.videoEng.Reset()
	}
}
