// Package dma implements the DMA Packet Pipeline (§4.3): a UART bit-level
// wire layer, a Serial-to-Packet framer, a Packet-to-Memory write engine,
// a Memory-to-Packet read engine, and the ECALL wiring (§4.3.4) that lets
// guest code drive an outbound transfer.
//
// There is no UART or packet framer in the teacher corpus; this package
// is grounded directly on §4.3 and §6's wire-format tables, written in
// the cycle-stepped Request/Update shape hart and memctrl use, with the
// byte-stream "last flag marks packet end" abstraction modeled the way
// sarchlab/akita's datamoving.StreamingDataMover models a sub-request
// collection finishing (datamoving/datamover.go) — rewritten here as a
// single-threaded per-byte state machine instead of a Msg/Port exchange,
// since Pulse has no discrete-event router.
package dma

import "github.com/jawline/Pulse/hwclock"

// Parity selects the UART's parity mode.
type Parity int

const (
	ParityNone Parity = iota
	ParityEven
)

// UARTConfig fixes the wire parameters from §6: baud rate, the system
// clock it is derived from, optional parity, and stop-bit count.
type UARTConfig struct {
	ClockFreq hwclock.Freq
	BaudRate  float64
	Parity    Parity
	StopBits  int
}

// BitPeriodCycles returns the number of system-clock cycles one UART bit
// period spans, per §6: "Bit period = clock_frequency / baud_rate
// cycles."
func (c UARTConfig) BitPeriodCycles() int {
	return hwclock.Freq(c.BaudRate).CyclesPerPeriod(c.ClockFreq)
}

type rxState int

const (
	rxIdle rxState = iota
	rxStart
	rxData
	rxParity
	rxStop
)

// UARTReceiver decodes the bit-banged wire signal into bytes, sampling
// mid-bit per §6. Line idle is logic 1; a falling edge starts a frame.
type UARTReceiver struct {
	cfg UARTConfig

	state       rxState
	cyclesInBit int
	bitIndex    int
	shiftReg    byte
	parityAccum bool
	stopsSeen   int

	parityErrLatched bool
	stopBadLatched   bool
}

// NewUARTReceiver constructs a receiver for the given wire configuration.
func NewUARTReceiver(cfg UARTConfig) *UARTReceiver {
	return &UARTReceiver{cfg: cfg, state: rxIdle}
}

// ReceivedByte is one fully-framed byte plus the line's framing flags at
// the time it was decoded, per §7's "UART framing errors" handling:
// flags surface but the byte is still forwarded.
type ReceivedByte struct {
	Data            byte
	ParityError     bool
	StopBitUnstable bool
}

// Sample advances the receiver by one system-clock cycle given the
// current line level (true = logic 1). It returns a decoded byte on the
// cycle the final stop bit's period ends.
func (r *UARTReceiver) Sample(line bool) (ReceivedByte, bool) {
	period := r.cfg.BitPeriodCycles()
	half := period / 2

	switch r.state {
	case rxIdle:
		if !line {
			r.state = rxStart
			r.cyclesInBit = 0
		}
		return ReceivedByte{}, false

	case rxStart:
		r.cyclesInBit++
		if r.cyclesInBit == half {
			if line {
				// False start (glitch): bail back to idle.
				r.state = rxIdle
			}
		}
		if r.cyclesInBit >= period {
			r.state = rxData
			r.cyclesInBit = 0
			r.bitIndex = 0
			r.shiftReg = 0
			r.parityAccum = false
		}
		return ReceivedByte{}, false

	case rxData:
		r.cyclesInBit++
		if r.cyclesInBit == half {
			if line {
				r.shiftReg |= 1 << r.bitIndex
				r.parityAccum = !r.parityAccum
			}
		}
		if r.cyclesInBit >= period {
			r.cyclesInBit = 0
			r.bitIndex++
			if r.bitIndex >= 8 {
				if r.cfg.Parity == ParityEven {
					r.state = rxParity
				} else {
					r.state = rxStop
					r.stopsSeen = 0
				}
			}
		}
		return ReceivedByte{}, false

	case rxParity:
		r.cyclesInBit++
		parityErr := false
		if r.cyclesInBit == half {
			parityErr = line != r.parityAccum
			r.parityErrLatched = parityErr
		}
		if r.cyclesInBit >= period {
			r.cyclesInBit = 0
			r.state = rxStop
			r.stopsSeen = 0
		}
		return ReceivedByte{}, false

	case rxStop:
		r.cyclesInBit++
		stopBad := false
		if r.cyclesInBit == half {
			if !line {
				stopBad = true
			}
			if stopBad {
				r.stopBadLatched = true
			}
		}
		if r.cyclesInBit >= period {
			r.cyclesInBit = 0
			r.stopsSeen++
			if r.stopsSeen >= r.cfg.StopBits {
				out := ReceivedByte{
					Data:            r.shiftReg,
					ParityError:     r.parityErrLatched,
					StopBitUnstable: r.stopBadLatched,
				}
				r.state = rxIdle
				r.parityErrLatched = false
				r.stopBadLatched = false
				return out, true
			}
		}
		return ReceivedByte{}, false
	}

	return ReceivedByte{}, false
}

type txState int

const (
	txIdle txState = iota
	txStart
	txData
	txParity
	txStop
)

// UARTTransmitter encodes bytes onto the bit-banged wire, LSB first, with
// the configured parity and stop-bit framing.
type UARTTransmitter struct {
	cfg UARTConfig

	state       txState
	cyclesInBit int
	bitIndex    int
	shiftReg    byte
	parityBit   bool
	stopsSeen   int

	pending   byte
	hasPending bool
}

// NewUARTTransmitter constructs a transmitter for the given wire
// configuration.
func NewUARTTransmitter(cfg UARTConfig) *UARTTransmitter {
	return &UARTTransmitter{cfg: cfg, state: txIdle}
}

// Busy reports whether the transmitter is mid-frame and cannot accept a
// new byte.
func (t *UARTTransmitter) Busy() bool {
	return t.state != txIdle
}

// Send starts framing a byte. It must only be called when Busy is false.
func (t *UARTTransmitter) Send(b byte) {
	if t.Busy() {
		panic("dma: UARTTransmitter.Send while busy")
	}

	t.pending = b
	t.hasPending = true
}

// Line returns this cycle's wire level and advances the transmitter by
// one system-clock cycle.
func (t *UARTTransmitter) Line() bool {
	period := t.cfg.BitPeriodCycles()

	switch t.state {
	case txIdle:
		if t.hasPending {
			t.hasPending = false
			t.shiftReg = t.pending
			t.bitIndex = 0
			t.parityBit = false
			t.state = txStart
			t.cyclesInBit = 0
			return false // start bit is logic 0
		}
		return true // idle line is logic 1

	case txStart:
		t.cyclesInBit++
		if t.cyclesInBit >= period {
			t.cyclesInBit = 0
			t.state = txData
		}
		return false

	case txData:
		bit := (t.shiftReg>>t.bitIndex)&1 == 1
		if bit && t.cyclesInBit == 0 {
			t.parityBit = !t.parityBit
		}
		t.cyclesInBit++
		if t.cyclesInBit >= period {
			t.cyclesInBit = 0
			t.bitIndex++
			if t.bitIndex >= 8 {
				if t.cfg.Parity == ParityEven {
					t.state = txParity
				} else {
					t.state = txStop
					t.stopsSeen = 0
				}
			}
		}
		return bit

	case txParity:
		t.cyclesInBit++
		if t.cyclesInBit >= period {
			t.cyclesInBit = 0
			t.state = txStop
			t.stopsSeen = 0
		}
		return t.parityBit

	case txStop:
		t.cyclesInBit++
		if t.cyclesInBit >= period {
			t.cyclesInBit = 0
			t.stopsSeen++
			if t.stopsSeen >= t.cfg.StopBits {
				t.state = txIdle
			}
		}
		return true
	}

	return true
}
