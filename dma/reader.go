package dma

import (
	"github.com/jawline/Pulse/membus"
	"github.com/jawline/Pulse/stream"
)

type readerState int

const (
	readerIdle readerState = iota
	readerEmitHeader
	readerEmitLenHigh
	readerEmitLenLow
	readerEmitAddr
	readerReadIssue
	readerReadWait
	readerEmitBytes
)

// ReadRequest is the enable pulse that starts an outbound transfer:
// §4.3.3's "enable pulse carrying {address, length}."
type ReadRequest struct {
	Address uint32
	Length  uint32
}

// Reader implements the Memory-to-Packet engine (§4.3.3): given an
// enable pulse, it frames a packet (optional header, big-endian length)
// and streams out the requested memory range byte by byte, honoring the
// first word's byte offset and emitting the final byte with Last set.
//
// Output bytes are queued into an internal FIFO that the UART
// transmitter drains at wire pace, since a byte becomes available to
// this engine far faster than a UART bit period allows it onto the
// wire.
type Reader struct {
	header     byte
	includeHdr bool

	out *stream.FIFO[ByteItem]

	state     readerState
	address   uint32
	origAddr  uint32
	addrIdx   uint32
	remaining uint32
	skip      uint32

	word    uint32
	byteIdx uint32
}

// NewReader constructs an idle Reader. includeHeader controls whether
// the header byte is emitted (§6 shows it present on the wire; Design
// Notes leave header presence independently configurable for symmetry
// with the framer's header byte).
func NewReader(header byte, includeHeader bool) *Reader {
	return &Reader{header: header, includeHdr: includeHeader, out: stream.NewFIFO[ByteItem](0), state: readerIdle}
}

// Busy reports whether the reader is mid-transfer and cannot accept a
// new enable pulse.
func (r *Reader) Busy() bool {
	return r.state != readerIdle
}

// Enable starts a transfer. Must only be called when Busy is false.
func (r *Reader) Enable(req ReadRequest) {
	if r.Busy() {
		panic("dma: Reader.Enable while busy")
	}

	r.address = membus.AlignDown(req.Address)
	r.origAddr = req.Address
	r.addrIdx = 0
	r.skip = membus.ByteOffset(req.Address)
	r.remaining = req.Length

	if r.includeHdr {
		r.state = readerEmitHeader
	} else {
		r.state = readerEmitLenHigh
	}
}

// PopByte drains the next emitted byte, for the UART transmitter to
// consume at wire pace.
func (r *Reader) PopByte() (ByteItem, bool) {
	return r.out.Pop()
}

// Request produces this cycle's memory read request, if the reader
// needs another word.
func (r *Reader) Request() stream.Handshake[membus.ReadRequest] {
	if r.state != readerReadIssue {
		return stream.None[membus.ReadRequest]()
	}

	return stream.Of(membus.ReadRequest{Address: r.address})
}

// Update runs the reader's non-memory framing steps and, when a read
// response arrives, extracts bytes into the output queue.
func (r *Reader) Update(readAck bool, resp stream.Handshake[membus.ReadResponse]) {
	switch r.state {
	case readerEmitHeader:
		r.out.Push(ByteItem{Data: r.header})
		r.state = readerEmitLenHigh

	case readerEmitLenHigh:
		wireLength := r.remaining + 4
		r.out.Push(ByteItem{Data: byte(wireLength >> 8)})
		r.state = readerEmitLenLow

	case readerEmitLenLow:
		wireLength := r.remaining + 4
		r.out.Push(ByteItem{Data: byte(wireLength)})
		r.state = readerEmitAddr

	case readerEmitAddr:
		shift := 24 - 8*r.addrIdx
		r.addrIdx++

		lastAddrByte := r.addrIdx == 4
		noPayload := lastAddrByte && r.remaining == 0

		r.out.Push(ByteItem{Data: byte(r.origAddr >> shift), Last: noPayload})

		if !lastAddrByte {
			return
		}
		if noPayload {
			r.state = readerIdle
			return
		}
		r.state = readerReadIssue

	case readerReadIssue:
		if readAck {
			r.state = readerReadWait
		}

	case readerReadWait:
		if resp.Valid {
			r.word = resp.Data.ReadData
			r.byteIdx = r.skip
			r.skip = 0
			r.state = readerEmitBytes
			r.emitAvailableBytes()
		}
	}
}

// emitAvailableBytes pushes bytes from the currently-held word, LSB
// first, skipping the initial unaligned offset, until the word is
// exhausted or the requested length is met.
func (r *Reader) emitAvailableBytes() {
	for r.byteIdx < membus.DataBytes && r.remaining > 0 {
		b := byte(r.word >> (8 * r.byteIdx))
		r.byteIdx++
		r.remaining--

		last := r.remaining == 0
		r.out.Push(ByteItem{Data: b, Last: last})

		if last {
			r.state = readerIdle
			return
		}
	}

	r.address += membus.DataBytes
	r.state = readerReadIssue
}
