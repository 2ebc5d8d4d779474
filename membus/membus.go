// Package membus defines the memory bus protocol: the request/response
// payloads carried on the Read Bus and Write Bus Stream<T>s described by
// §3 of the specification, plus requester-side ReadChannel/WriteChannel
// interfaces.
//
// Adapted from sarchlab/akita's mem/mem protocol.go, trimmed from a
// message-passing protocol with source/destination routing to the
// plain request/response pair a point-to-point Stream<T> channel needs,
// since Pulse has no discrete-event message router.
package membus

// ReadRequest is the payload of the Read Bus's request stream: a single
// word-aligned address.
type ReadRequest struct {
	Address uint32
}

// ReadResponse is the payload of the Read Bus's response stream.
type ReadResponse struct {
	ReadData uint32
	Error    bool
}

// WriteRequest is the payload of the Write Bus's request stream: an
// address and the word to store there.
type WriteRequest struct {
	Address   uint32
	WriteData uint32
}

// WriteResponse is the payload of the Write Bus's response stream.
type WriteResponse struct {
	Error bool
}

// AddressWidth and DataWidth fix W and D from §3 at 32 bits, the only
// configuration this module implements (64-bit registers are reserved
// by §6 but out of scope).
const (
	AddressWidth = 32
	DataWidth    = 32
	DataBytes    = DataWidth / 8
)

// Aligned reports whether addr satisfies the word-alignment invariant:
// "the low log2(D/8) bits of any address must be zero."
func Aligned(addr uint32) bool {
	return addr&(DataBytes-1) == 0
}

// AlignDown rounds addr down to the containing word address.
func AlignDown(addr uint32) uint32 {
	return addr &^ (DataBytes - 1)
}

// ByteOffset returns the byte offset of addr within its containing
// word, used by sub-word load/store extraction (§4.2) and DMA's initial
// unaligned read offset (§4.3.3).
func ByteOffset(addr uint32) uint32 {
	return addr & (DataBytes - 1)
}

// ReadChannel is the requester-side interface to one read channel of a
// Memory Controller: issue a request this cycle, observe whether it was
// accepted, and poll for the response.
//
// No type in this module implements it: hart, dma, and video are wired
// to memctrl through their own Request/Update pairs instead.
type ReadChannel interface {
	// IssueRead asserts a read request this cycle. It returns true if
	// the controller's arbiter accepted (acked) the request.
	IssueRead(req ReadRequest) bool
	// Response returns the response that became valid this cycle, if
	// any, and clears it (it is only visible for the one cycle it is
	// asserted).
	Response() (ReadResponse, bool)
}

// WriteChannel is the requester-side interface to one write channel.
type WriteChannel interface {
	IssueWrite(req WriteRequest) bool
	Response() (WriteResponse, bool)
}
