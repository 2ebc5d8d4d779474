package dma

import (
	"github.com/jawline/Pulse/membus"
	"github.com/jawline/Pulse/stream"
)

type writerState int

const (
	writerCollectAddr writerState = iota
	writerCollectData
	writerIssue
)

// Writer implements the Packet-to-Memory engine (§4.3.2): it consumes
// the framer's content byte stream, the first 4 bytes filling an address
// register and the rest accumulating into D-bit words that are written
// to memory through a single write channel.
//
// Incoming bytes are queued in an unbounded FIFO rather than applying
// back-pressure to the framer, since §4.3.1 gives the serial side no
// flow-control signal of its own; the model-level effect is identical
// as long as the queue drains faster than the wire produces bytes,
// which the UART's own bit-period pacing guarantees.
type Writer struct {
	in *stream.FIFO[ByteItem]

	state   writerState
	address uint32
	addrN   int

	word    [membus.DataBytes]byte
	wordN   int

	finishPending bool // the queued word is the packet's final, possibly-padded word
	done          bool
}

// NewWriter constructs an idle Writer.
func NewWriter() *Writer {
	return &Writer{in: stream.NewFIFO[ByteItem](0), state: writerCollectAddr}
}

// Push enqueues one byte from the framer's output stream.
func (w *Writer) Push(item ByteItem) {
	w.in.Push(item)
}

// Request produces this cycle's write request, if the writer has a full
// (or final, zero-padded) word ready.
func (w *Writer) Request() stream.Handshake[membus.WriteRequest] {
	if w.state != writerIssue {
		return stream.None[membus.WriteRequest]()
	}

	data := uint32(w.word[0]) | uint32(w.word[1])<<8 | uint32(w.word[2])<<16 | uint32(w.word[3])<<24
	return stream.Of(membus.WriteRequest{Address: w.address, WriteData: data})
}

// Done reports whether the write issued last cycle completed the
// packet (the byte that filled or padded the final word had Last set).
func (w *Writer) Done() bool {
	return w.done
}

// Update consumes this cycle's write ack and advances the writer's
// state, pulling more bytes from the queue as needed.
func (w *Writer) Update(writeAck bool) {
	w.done = false

	if w.state == writerIssue {
		if !writeAck {
			return
		}

		w.address += membus.DataBytes
		w.wordN = 0
		w.word = [membus.DataBytes]byte{}

		if w.finishPending {
			w.done = true
			w.finishPending = false
			w.state = writerCollectAddr
			w.address = 0
			w.addrN = 0
			return
		}

		w.state = writerCollectData
	}

	w.drain()
}

func (w *Writer) drain() {
	for {
		switch w.state {
		case writerCollectAddr:
			item, ok := w.in.Pop()
			if !ok {
				return
			}

			w.address = w.address<<8 | uint32(item.Data)
			w.addrN++
			if w.addrN == 4 {
				w.state = writerCollectData
			}
			if item.Last {
				// A packet with only the 4 address bytes: nothing to
				// write, restart immediately.
				w.state = writerCollectAddr
				w.address = 0
				w.addrN = 0
				w.done = true
				return
			}

		case writerCollectData:
			item, ok := w.in.Pop()
			if !ok {
				return
			}

			w.word[w.wordN] = item.Data
			w.wordN++

			if item.Last {
				w.finishPending = true
				w.state = writerIssue
				return
			}

			if w.wordN == membus.DataBytes {
				w.state = writerIssue
				return
			}

		default:
			return
		}
	}
}
