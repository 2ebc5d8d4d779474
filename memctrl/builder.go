package memctrl

import "github.com/jawline/Pulse/arbiter"

// Builder constructs a Comp. Adapted from
// idealmemcontroller.Builder/MakeBuilder's fluent With* idiom, enumerating
// exactly the construction parameters named by §4.1: capacity,
// K_r/K_w, address/data width (fixed at 32 per §6), priority_mode,
// request_delay, and read_latency.
type Builder struct {
	capacity       uint64
	numReadChans   int
	numWriteChans  int
	readPolicy     arbiter.Policy
	writePolicy    arbiter.Policy
	requestDelay   int
	readLatency    int
}

// MakeBuilder returns a Builder with the defaults §4.1 implies: one
// read channel, one write channel, round-robin arbitration (per Design
// Notes' Open Question guidance to default to round-robin so no slot is
// starved), zero request delay, one cycle of read latency.
func MakeBuilder() Builder {
	return Builder{
		numReadChans:  1,
		numWriteChans: 1,
		readPolicy:    arbiter.RoundRobin,
		writePolicy:   arbiter.RoundRobin,
		requestDelay:  0,
		readLatency:   1,
	}
}

// WithCapacity sets the backing store size in bytes.
func (b Builder) WithCapacity(capacity uint64) Builder {
	b.capacity = capacity
	return b
}

// WithReadChannels sets K_r.
func (b Builder) WithReadChannels(k int) Builder {
	b.numReadChans = k
	return b
}

// WithWriteChannels sets K_w.
func (b Builder) WithWriteChannels(k int) Builder {
	b.numWriteChans = k
	return b
}

// WithReadPolicy sets the read-port arbitration policy.
func (b Builder) WithReadPolicy(p arbiter.Policy) Builder {
	b.readPolicy = p
	return b
}

// WithWritePolicy sets the write-port arbitration policy.
func (b Builder) WithWritePolicy(p arbiter.Policy) Builder {
	b.writePolicy = p
	return b
}

// WithRequestDelay sets the cycles between accepting a request and
// presenting it to the backing store.
func (b Builder) WithRequestDelay(cycles int) Builder {
	b.requestDelay = cycles
	return b
}

// WithReadLatency sets the cycles between reading the backing store and
// asserting the response, added on top of WithRequestDelay for reads.
func (b Builder) WithReadLatency(cycles int) Builder {
	b.readLatency = cycles
	return b
}

// Build constructs the Comp.
func (b Builder) Build(name string) *Comp {
	if b.capacity == 0 {
		panic("memctrl: capacity must be set")
	}

	if b.numReadChans <= 0 || b.numWriteChans <= 0 {
		panic("memctrl: must have at least one read and one write channel")
	}

	return newComp(name, b)
}
