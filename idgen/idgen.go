// Package idgen provides the ID generators used to stamp trace rows with
// unique identifiers.
//
// Adapted from sarchlab/akita's sim.IDGenerator: a deterministic
// sequential generator (so golden traces reproduce across runs) and a
// globally-unique xid-backed generator for when trace output from
// independent Pulse processes must never collide.
package idgen

import (
	"strconv"
	"sync/atomic"

	"github.com/rs/xid"
)

// Generator produces unique string identifiers.
type Generator interface {
	Generate() string
}

// Sequential generates "1", "2", "3", ... deterministically, so output
// stamped with it is reproducible byte for byte across runs of the same
// program.
type Sequential struct {
	next uint64
}

// NewSequential creates a Sequential generator starting at 1.
func NewSequential() *Sequential {
	return &Sequential{}
}

// Generate returns the next sequential ID.
func (g *Sequential) Generate() string {
	n := atomic.AddUint64(&g.next, 1)
	return strconv.FormatUint(n, 10)
}

// XID generates globally-unique, sortable IDs using rs/xid. Useful when
// trace rows from multiple Pulse instances are merged into one SQLite
// database (tracing.SQLiteSink) and must not collide.
type XID struct{}

// NewXID creates an XID generator.
func NewXID() *XID {
	return &XID{}
}

// Generate returns a new globally-unique ID.
func (*XID) Generate() string {
	return xid.New().String()
}
