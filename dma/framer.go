package dma

type framerState int

const (
	framerWaitHeader framerState = iota
	framerLenHigh
	framerLenLow
	framerContent
)

// Framer implements the Serial-to-Packet state machine (§4.3.1): it
// consumes decoded UART bytes one per cycle and emits the packet's
// content bytes (address followed by payload) as a ByteItem stream, the
// final byte marked Last.
//
// A mid-packet desync (the serial stream goes silent) simply blocks the
// framer in its current state forever — §4.3.1 specifies no timeout,
// and Design Notes §9's Open Question leaves emitting a framing-error
// indicator undefined, so none is emitted here.
type Framer struct {
	header byte
	state  framerState

	length    uint16
	remaining uint16
}

// NewFramer constructs a Framer that looks for the given header byte.
func NewFramer(header byte) *Framer {
	return &Framer{header: header, state: framerWaitHeader}
}

// Step consumes this cycle's input byte, if any, and returns the content
// byte produced, if any. in.ParityError/StopBitUnstable are intentionally
// not consulted: §7 specifies framing errors surface but do not block
// forwarding.
func (f *Framer) Step(in ReceivedByte, valid bool) (ByteItem, bool) {
	if !valid {
		return ByteItem{}, false
	}

	switch f.state {
	case framerWaitHeader:
		if in.Data == f.header {
			f.state = framerLenHigh
		}
		return ByteItem{}, false

	case framerLenHigh:
		f.length = uint16(in.Data) << 8
		f.state = framerLenLow
		return ByteItem{}, false

	case framerLenLow:
		f.length |= uint16(in.Data)
		f.remaining = f.length
		if f.remaining == 0 {
			f.state = framerWaitHeader
			return ByteItem{}, false
		}
		f.state = framerContent
		return ByteItem{}, false

	case framerContent:
		return f.emitContent(in.Data)
	}

	return ByteItem{}, false
}

func (f *Framer) emitContent(b byte) (ByteItem, bool) {
	f.remaining--
	last := f.remaining == 0
	if last {
		f.state = framerWaitHeader
	}

	return ByteItem{Data: b, Last: last}, true
}
