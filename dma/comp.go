package dma

import (
	"github.com/jawline/Pulse/hookable"
	"github.com/jawline/Pulse/membus"
	"github.com/jawline/Pulse/stream"
)

// HookPosPacketWritten marks a full packet delivered to memory by the
// write engine.
var HookPosPacketWritten = &hookable.Pos{Name: "DMA Packet Written"}

// Comp is the DMA Packet Pipeline component (§4.3): a receive path
// (UART RX -> Framer -> Writer -> one memory write channel) and a
// transmit path (one memory read channel -> Reader -> UART TX), plus
// the ECALL port (ecall.go) that arms the transmit path from guest code.
type Comp struct {
	*hookable.Base

	name string

	rx     *UARTReceiver
	framer *Framer
	writer *Writer

	tx     *UARTTransmitter
	reader *Reader

	cycle uint64
}

func newComp(name string, b Builder) *Comp {
	return &Comp{
		Base:   hookable.NewBase(),
		name:   name,
		rx:     NewUARTReceiver(b.uart),
		framer: NewFramer(b.header),
		writer: NewWriter(),
		tx:     NewUARTTransmitter(b.uart),
		reader: NewReader(b.header, b.includeHdr),
	}
}

// Name returns the component's name.
func (c *Comp) Name() string {
	return c.name
}

// MemOut is this cycle's memory-side outputs: at most one of WriteReq
// (receive path) and ReadReq (transmit path) is ever valid at a time
// for a given channel, but the two paths run independently so both can
// be valid simultaneously on their respective channels.
type MemOut struct {
	WriteReq stream.Handshake[membus.WriteRequest]
	ReadReq  stream.Handshake[membus.ReadRequest]
}

// MemIn is this cycle's acks/responses routed back from the write and
// read channels.
type MemIn struct {
	WriteAck  bool
	WriteResp stream.Handshake[membus.WriteResponse]
	ReadAck   bool
	ReadResp  stream.Handshake[membus.ReadResponse]
}

// Request produces this cycle's memory-side outputs from the write and
// read engines' current state. Pure: does not mutate Comp.
func (c *Comp) Request() MemOut {
	return MemOut{
		WriteReq: c.writer.Request(),
		ReadReq:  c.reader.Request(),
	}
}

// Update advances the write engine (consuming the write ack) and the
// read engine (consuming the read ack/response), and runs one cycle of
// the UART wire: RXLine is this cycle's bit-banged receive line level;
// it returns this cycle's transmit line level.
func (c *Comp) Update(in MemIn, rxLine bool) (txLine bool) {
	c.cycle++

	if rb, ok := c.rx.Sample(rxLine); ok {
		if item, ok := c.framer.Step(rb, true); ok {
			c.writer.Push(item)
		}
	}

	c.writer.Update(in.WriteAck)
	if c.writer.Done() && c.NumHooks() > 0 {
		c.Invoke(hookable.Ctx{Domain: c, Pos: HookPosPacketWritten, Cycle: c.cycle})
	}

	c.reader.Update(in.ReadAck, in.ReadResp)

	if !c.tx.Busy() {
		if item, ok := c.reader.PopByte(); ok {
			c.tx.Send(item.Data)
		}
	}

	return c.tx.Line()
}

// TransferBusy reports whether an outbound (transmit) transfer is in
// progress, for host tooling and the ECALL handler.
func (c *Comp) TransferBusy() bool {
	return c.reader.Busy()
}

// Reset drops every in-flight receive/transmit state machine back to
// idle, per §4.5's system-level clear. In-flight UART bit framing and any
// partially-accumulated packet are dropped with no completion, matching
// §5's cancellation semantics for a global clear.
func (c *Comp) Reset() {
	c.rx = NewUARTReceiver(c.rx.cfg)
	c.framer = NewFramer(c.framer.header)
	c.writer = NewWriter()
	c.tx = NewUARTTransmitter(c.tx.cfg)
	c.reader = NewReader(c.reader.header, c.reader.includeHdr)
}
