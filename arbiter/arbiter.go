// Package arbiter implements the Channel Arbiter described by §2 and
// §4.1: selecting at most one requester among K candidates each cycle,
// under either round-robin or fixed-priority policy.
//
// There is no direct analog in the teacher (akita's NoC package solves
// a related but distinct problem, routing between independent
// discrete-event components), so this package is grounded on §4.1's
// tie-break rules directly, written in the teacher's builder-and-struct
// idiom.
package arbiter

// Policy selects the tie-break rule used when more than one channel is
// valid in the same cycle.
type Policy int

const (
	// RoundRobin advances a pointer by one every cycle regardless of
	// whether a transfer occurred, and grants the channel at the
	// pointer if valid, else the next one, wrapping around.
	RoundRobin Policy = iota
	// Priority grants strictly by channel index, 0 highest, independent
	// of past activity.
	Priority
)

// Arbiter selects at most one of K requester channels per cycle.
type Arbiter struct {
	policy  Policy
	k       int
	pointer int
}

// New creates an Arbiter over k channels using the given policy.
func New(k int, policy Policy) *Arbiter {
	if k <= 0 {
		panic("arbiter: k must be positive")
	}

	return &Arbiter{policy: policy, k: k}
}

// Select picks at most one index from valid (true = that channel has a
// pending request this cycle). It returns -1 if no channel is valid.
// The internal round-robin pointer advances exactly once per call,
// regardless of the outcome, per §4.1: "advances by one modulo K after
// each cycle regardless of whether a transfer occurred."
func (a *Arbiter) Select(valid []bool) int {
	if len(valid) != a.k {
		panic("arbiter: valid slice length mismatch")
	}

	switch a.policy {
	case Priority:
		return a.selectPriority(valid)
	default:
		return a.selectRoundRobin(valid)
	}
}

func (a *Arbiter) selectPriority(valid []bool) int {
	for i := 0; i < a.k; i++ {
		if valid[i] {
			return i
		}
	}

	return -1
}

func (a *Arbiter) selectRoundRobin(valid []bool) int {
	grant := -1

	for i := 0; i < a.k; i++ {
		idx := (a.pointer + i) % a.k
		if valid[idx] {
			grant = idx
			break
		}
	}

	a.pointer = (a.pointer + 1) % a.k

	return grant
}

// Reset restores the round-robin pointer to channel 0; priority
// arbiters are stateless and unaffected.
func (a *Arbiter) Reset() {
	a.pointer = 0
}
