package dma

// HeaderByte is the default packet header byte, per §6: `'Q'` (0x51).
const HeaderByte = 'Q'

// ByteItem is one element of the internal payload byte stream that
// connects the framer, writer, and reader engines: a byte plus the
// out-of-band last flag §3's Packet glossary entry describes.
type ByteItem struct {
	Data byte
	Last bool
}

// Packet is a fully-framed packet's fields, used by the reader engine's
// enable pulse and by tests; the wire encoding is header, length
// (big-endian uint16 covering address+payload), address (big-endian
// uint32), payload.
type Packet struct {
	Address uint32
	Payload []byte
}
