// Package memctrl implements the Memory Controller (§4.1): a single-port
// backing store shared by K_r read channels and K_w write channels,
// arbitrated per cycle, with configurable request delay and read
// latency.
//
// Adapted from sarchlab/akita's mem/idealmemcontroller (builder.go,
// comp.go, compFSM.go): the Builder idiom, the Comp/backing-storage
// split, and the read/write responder split are kept; the
// event-scheduled responders (readRespondEvent/writeRespondEvent fired
// through sim.Engine.Schedule at a VTimeInSec) are replaced with the
// stream.DelayLine pipeline, since Pulse steps synchronously rather
// than through discrete-event time.
package memctrl

import (
	"github.com/jawline/Pulse/arbiter"
	"github.com/jawline/Pulse/hookable"
	"github.com/jawline/Pulse/membus"
	"github.com/jawline/Pulse/stream"
)

// HookPosRead marks a read request accepted by the arbiter.
var HookPosRead = &hookable.Pos{Name: "MemCtrl Read Accepted"}

// HookPosWrite marks a write request accepted by the arbiter.
var HookPosWrite = &hookable.Pos{Name: "MemCtrl Write Accepted"}

// HookPosReadResponse marks a read response becoming valid.
var HookPosReadResponse = &hookable.Pos{Name: "MemCtrl Read Response"}

// HookPosWriteResponse marks a write response becoming valid.
var HookPosWriteResponse = &hookable.Pos{Name: "MemCtrl Write Response"}

type readInFlight struct {
	channel int
	addr    uint32
}

type writeInFlight struct {
	channel int
	addr    uint32
	data    uint32
}

// Comp is the Memory Controller component.
type Comp struct {
	*hookable.Base

	name string
	pipelineLatency int

	words []uint32 // the backing store, one entry per 4-byte word

	readArb  *arbiter.Arbiter
	writeArb *arbiter.Arbiter

	readPipeline  *stream.DelayLine[readInFlight]
	writePipeline *stream.DelayLine[writeInFlight]

	cycle uint64
}

func newComp(name string, b Builder) *Comp {
	c := &Comp{
		Base:            hookable.NewBase(),
		name:            name,
		pipelineLatency: b.requestDelay,
		words:           make([]uint32, (b.capacity+uint64(membus.DataBytes)-1)/uint64(membus.DataBytes)),
		readArb:         arbiter.New(b.numReadChans, b.readPolicy),
		writeArb:        arbiter.New(b.numWriteChans, b.writePolicy),
		readPipeline:    stream.NewDelayLine[readInFlight](b.requestDelay + b.readLatency),
		writePipeline:   stream.NewDelayLine[writeInFlight](b.requestDelay),
	}

	return c
}

// Name returns the component's name.
func (c *Comp) Name() string {
	return c.name
}

// Inputs is one cycle's worth of input to every read and write channel.
type Inputs struct {
	ReadReqs  []stream.Handshake[membus.ReadRequest]
	WriteReqs []stream.Handshake[membus.WriteRequest]
}

// Outputs is one cycle's worth of output from every read and write
// channel.
type Outputs struct {
	ReadAcks   []bool
	ReadResps  []stream.Handshake[membus.ReadResponse]
	WriteAcks  []bool
	WriteResps []stream.Handshake[membus.WriteResponse]
}

// Step advances the controller by one cycle. It collects requests that
// have finished their pipeline delay before admitting this cycle's newly
// arbitrated request, so outstanding reads resolve before any
// same-cycle write mutates the word they are reading — the read-before-
// write ordering Design Notes §9's Open Question adopts.
func (c *Comp) Step(in Inputs) Outputs {
	c.cycle++

	out := Outputs{
		ReadAcks:   make([]bool, len(in.ReadReqs)),
		ReadResps:  make([]stream.Handshake[membus.ReadResponse], len(in.ReadReqs)),
		WriteAcks:  make([]bool, len(in.WriteReqs)),
		WriteResps: make([]stream.Handshake[membus.WriteResponse], len(in.WriteReqs)),
	}

	c.resolveReads(out)
	c.resolveWrites(out)

	c.admitRead(in, out)
	c.admitWrite(in, out)

	return out
}

func (c *Comp) resolveReads(out Outputs) {
	for _, rd := range c.readPipeline.Advance() {
		resp := membus.ReadResponse{}
		if !membus.Aligned(rd.addr) {
			resp.Error = true
		} else {
			resp.ReadData = c.words[c.wordIndex(rd.addr)]
		}

		out.ReadResps[rd.channel] = stream.Of(resp)

		if c.NumHooks() > 0 {
			c.Invoke(hookable.Ctx{Domain: c, Pos: HookPosReadResponse, Cycle: c.cycle, Item: resp})
		}
	}
}

func (c *Comp) resolveWrites(out Outputs) {
	for _, wr := range c.writePipeline.Advance() {
		resp := membus.WriteResponse{}

		if !membus.Aligned(wr.addr) {
			resp.Error = true
		} else {
			c.words[c.wordIndex(wr.addr)] = wr.data
		}

		out.WriteResps[wr.channel] = stream.Of(resp)

		if c.NumHooks() > 0 {
			c.Invoke(hookable.Ctx{Domain: c, Pos: HookPosWriteResponse, Cycle: c.cycle, Item: resp})
		}
	}
}

func (c *Comp) admitRead(in Inputs, out Outputs) {
	valid := make([]bool, len(in.ReadReqs))
	for i, r := range in.ReadReqs {
		valid[i] = r.Valid
	}

	sel := c.readArb.Select(valid)
	if sel < 0 {
		return
	}

	out.ReadAcks[sel] = true
	c.readPipeline.Push(readInFlight{channel: sel, addr: in.ReadReqs[sel].Data.Address})

	if c.NumHooks() > 0 {
		c.Invoke(hookable.Ctx{Domain: c, Pos: HookPosRead, Cycle: c.cycle, Item: in.ReadReqs[sel].Data})
	}
}

func (c *Comp) admitWrite(in Inputs, out Outputs) {
	valid := make([]bool, len(in.WriteReqs))
	for i, r := range in.WriteReqs {
		valid[i] = r.Valid
	}

	sel := c.writeArb.Select(valid)
	if sel < 0 {
		return
	}

	out.WriteAcks[sel] = true
	req := in.WriteReqs[sel].Data
	c.writePipeline.Push(writeInFlight{channel: sel, addr: req.Address, data: req.WriteData})

	if c.NumHooks() > 0 {
		c.Invoke(hookable.Ctx{Domain: c, Pos: HookPosWrite, Cycle: c.cycle, Item: req})
	}
}

// wordIndex maps a byte address to a backing-store word index, aliasing
// (wrapping modulo the backing store's word count) any address at or
// past num_bytes rather than treating it as an error, per §7: "writing
// past num_bytes: wrap the address modulo the backing-store size
// (aliased). No error reported." Register width is fixed at 32 bits
// independent of capacity, so any hart load/store, DMA access, or video
// fetch can reach an address here with ordinary arithmetic.
func (c *Comp) wordIndex(addr uint32) int {
	return int(membus.AlignDown(addr)/membus.DataBytes) % len(c.words)
}

// Reset clears in-flight requests (dropped with no response, per the
// cancellation semantics of §5) and the arbiters' round-robin pointers.
// The backing store itself is NOT cleared — memory survives reset, per
// §4.5: "memory is NOT cleared (host is responsible for seeding via
// DMA)."
func (c *Comp) Reset() {
	c.readPipeline.Clear()
	c.writePipeline.Clear()
	c.readArb.Reset()
	c.writeArb.Reset()
}

// PeekWord reads the backing store directly, bypassing arbitration —
// used by host tooling (cmd/pulse inspect, tests) to seed or observe
// memory without modeling a channel.
func (c *Comp) PeekWord(addr uint32) uint32 {
	return c.words[c.wordIndex(addr)]
}

// PokeWord writes the backing store directly, bypassing arbitration —
// used by host tooling to seed memory before the first cycle (e.g.
// loading a guest program image).
func (c *Comp) PokeWord(addr uint32, data uint32) {
	c.words[c.wordIndex(addr)] = data
}

// NumWords reports the backing store's capacity in words.
func (c *Comp) NumWords() int {
	return len(c.words)
}
