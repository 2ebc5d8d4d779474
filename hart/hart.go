// Package hart implements the RV32I Hart described by §4.2: a
// fetch/decode/execute/writeback state machine, load/store
// micro-sequencers that perform read-modify-write for sub-word stores,
// and an ECALL port that traps to host-provided logic.
//
// There is no RV32I core in the teacher corpus; this package is
// grounded on §4.2's state-machine description directly, written in
// the teacher's Builder-plus-Comp-plus-Step idiom (idealmemcontroller),
// with the "first-class signal combinators / state-machine DSL" Design
// Notes §9 warns about replaced by an explicit Go state enum and a pure
// per-cycle Request/Update pair — Request produces this cycle's memory
// stream outputs from the current state, Update consumes this cycle's
// acks/responses and advances the state for the next cycle, mirroring
// a register stage's combinational-output/clocked-update split.
package hart

import (
	"github.com/jawline/Pulse/hart/isa"
	"github.com/jawline/Pulse/hookable"
	"github.com/jawline/Pulse/membus"
	"github.com/jawline/Pulse/stream"
)

// HookPosRetire marks an instruction committing at writeback.
var HookPosRetire = &hookable.Pos{Name: "Hart Retire"}

// HookPosError marks the hart's error latch being set.
var HookPosError = &hookable.Pos{Name: "Hart Error"}

type state int

const (
	stFetchIssue state = iota
	stFetchWait
	stLoadIssue
	stLoadWait
	stStoreReadIssue
	stStoreReadWait
	stStoreWriteIssue
	stStoreWriteWait
	stHalted
)

// Comp is the RV32I Hart component.
type Comp struct {
	*hookable.Base

	name string

	regs [32]uint32
	pc   uint32

	state state
	error bool

	inst isa.Instruction

	// load/store working state
	memAddr    uint32
	memFunct3  uint32
	storeData  uint32
	storeWord  uint32
	rd         uint32

	ecall ECALLPort

	cycle uint64
}

func newComp(name string, ecall ECALLPort) *Comp {
	return &Comp{
		Base:  hookable.NewBase(),
		name:  name,
		state: stFetchIssue,
		ecall: ecall,
	}
}

// Name returns the component's name.
func (c *Comp) Name() string {
	return c.name
}

// PC returns the current program counter.
func (c *Comp) PC() uint32 {
	return c.pc
}

// Reg returns register i (0..31); reg 0 always reads zero.
func (c *Comp) Reg(i uint32) uint32 {
	if i == 0 {
		return 0
	}

	return c.regs[i&0x1F]
}

// Halted reports whether the hart's error latch has stopped forward
// progress, per §7: "Fatal conditions ... leave the system in a
// deterministic stopped state."
func (c *Comp) Halted() bool {
	return c.state == stHalted
}

// Error reports whether the error latch is set.
func (c *Comp) Error() bool {
	return c.error
}

// Reset zeros every register (including pc) and returns the hart to its
// fetch state, per §4.5: "a system-level clear zeros the hart registers
// (including pc=0) and resets all internal state machines." The backing
// store this hart reads/writes through is untouched — memctrl.Comp.Reset
// governs that separately.
func (c *Comp) Reset() {
	c.regs = [32]uint32{}
	c.pc = 0
	c.state = stFetchIssue
	c.error = false
	c.inst = isa.Instruction{}
	c.memAddr = 0
	c.memFunct3 = 0
	c.storeData = 0
	c.storeWord = 0
	c.rd = 0
}

// MemOut is one cycle's worth of the hart's memory-side outputs: at
// most one of FetchReq/DataReadReq/DataWriteReq is ever Valid, since
// the hart is single-issue and in-order.
type MemOut struct {
	FetchReq     stream.Handshake[membus.ReadRequest]
	DataReadReq  stream.Handshake[membus.ReadRequest]
	DataWriteReq stream.Handshake[membus.WriteRequest]
}

// MemIn is one cycle's worth of acks/responses routed back to the hart
// from its fetch channel and its data read/write channels.
type MemIn struct {
	FetchAck      bool
	FetchResp     stream.Handshake[membus.ReadResponse]
	DataReadAck   bool
	DataReadResp  stream.Handshake[membus.ReadResponse]
	DataWriteAck  bool
	DataWriteResp stream.Handshake[membus.WriteResponse]
}

// Request produces this cycle's memory-side outputs from the hart's
// current state. It is pure: it does not mutate Comp.
func (c *Comp) Request() MemOut {
	switch c.state {
	case stFetchIssue:
		return MemOut{FetchReq: stream.Of(membus.ReadRequest{Address: c.pc})}
	case stLoadIssue:
		return MemOut{DataReadReq: stream.Of(membus.ReadRequest{Address: membus.AlignDown(c.memAddr)})}
	case stStoreReadIssue:
		return MemOut{DataReadReq: stream.Of(membus.ReadRequest{Address: membus.AlignDown(c.memAddr)})}
	case stStoreWriteIssue:
		return MemOut{DataWriteReq: stream.Of(membus.WriteRequest{
			Address:   membus.AlignDown(c.memAddr),
			WriteData: c.storeWord,
		})}
	default:
		return MemOut{}
	}
}

// Update consumes this cycle's acks/responses and advances state for
// the next cycle.
func (c *Comp) Update(in MemIn) {
	c.cycle++

	switch c.state {
	case stFetchIssue:
		if in.FetchAck {
			c.state = stFetchWait
		}
	case stFetchWait:
		if in.FetchResp.Valid {
			c.executeFetched(in.FetchResp.Data.ReadData)
		}
	case stLoadIssue:
		if in.DataReadAck {
			c.state = stLoadWait
		}
	case stLoadWait:
		if in.DataReadResp.Valid {
			c.completeLoad(in.DataReadResp.Data)
		}
	case stStoreReadIssue:
		if in.DataReadAck {
			c.state = stStoreReadWait
		}
	case stStoreReadWait:
		if in.DataReadResp.Valid {
			c.completeStoreRead(in.DataReadResp.Data)
		}
	case stStoreWriteIssue:
		if in.DataWriteAck {
			c.state = stStoreWriteWait
		}
	case stStoreWriteWait:
		if in.DataWriteResp.Valid {
			c.completeStoreWrite(in.DataWriteResp.Data)
		}
	case stHalted:
		// Deterministic stopped state: no further state change.
	}
}

func (c *Comp) writeReg(rd, val uint32) {
	if rd == 0 {
		return
	}

	c.regs[rd&0x1F] = val
}

func (c *Comp) retire(t Transaction) {
	if t.SetRd {
		c.writeReg(c.rd, t.NewRd)
	}

	if t.Error {
		c.setError()
		return
	}

	c.pc = t.NewPC
	c.state = stFetchIssue

	if c.NumHooks() > 0 {
		c.Invoke(hookable.Ctx{Domain: c, Pos: HookPosRetire, Cycle: c.cycle, Item: t})
	}
}

func (c *Comp) setError() {
	c.error = true
	c.state = stHalted

	if c.NumHooks() > 0 {
		c.Invoke(hookable.Ctx{Domain: c, Pos: HookPosError, Cycle: c.cycle})
	}
}

// alignedTaken validates a branch/jump target is 4-byte aligned, per
// §3's invariant and §7's "Unaligned PC" error kind.
func alignedTaken(pc uint32) bool {
	return pc&0x3 == 0
}
