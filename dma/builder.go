package dma

import "github.com/jawline/Pulse/hwclock"

// Builder constructs a Comp, following the teacher's fluent With* idiom.
type Builder struct {
	uart       UARTConfig
	header     byte
	includeHdr bool
}

// MakeBuilder returns a Builder defaulted to the wire format §6
// describes: header 'Q', no parity, one stop bit.
func MakeBuilder() Builder {
	return Builder{
		uart: UARTConfig{
			ClockFreq: 16 * hwclock.MHz,
			BaudRate:  9600,
			Parity:    ParityNone,
			StopBits:  1,
		},
		header:     HeaderByte,
		includeHdr: true,
	}
}

// WithUART sets the full UART wire configuration (§6's
// include_io_controller: uart{baud, clock_freq, parity?, stop_bits}).
func (b Builder) WithUART(cfg UARTConfig) Builder {
	b.uart = cfg
	return b
}

// WithHeaderByte overrides the packet header byte.
func (b Builder) WithHeaderByte(header byte) Builder {
	b.header = header
	return b
}

// Build constructs the Comp.
func (b Builder) Build(name string) *Comp {
	return newComp(name, b)
}
