package arbiter_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jawline/Pulse/arbiter"
)

func TestPriorityAlwaysGrantsLowestIndex(t *testing.T) {
	a := arbiter.New(3, arbiter.Priority)

	assert.Equal(t, 1, a.Select([]bool{false, true, true}))
	assert.Equal(t, 0, a.Select([]bool{true, true, true}))
	assert.Equal(t, -1, a.Select([]bool{false, false, false}))
}

func TestRoundRobinAdvancesRegardlessOfGrant(t *testing.T) {
	a := arbiter.New(2, arbiter.RoundRobin)

	assert.Equal(t, 0, a.Select([]bool{true, true}))
	assert.Equal(t, 1, a.Select([]bool{true, true}))
	assert.Equal(t, 0, a.Select([]bool{true, true}))

	// Pointer keeps moving even when the pointed-to channel isn't valid.
	assert.Equal(t, -1, a.Select([]bool{false, false}))
	assert.Equal(t, 0, a.Select([]bool{true, false}))
}

// Scenario 5: two clients continuously valid with distinct writes, 1000
// cycles, round-robin — per-client committed count differs by at most 1.
func TestRoundRobinFairnessOverManyCycles(t *testing.T) {
	a := arbiter.New(2, arbiter.RoundRobin)

	counts := make([]int, 2)
	for i := 0; i < 1000; i++ {
		grant := a.Select([]bool{true, true})
		counts[grant]++
	}

	diff := counts[0] - counts[1]
	if diff < 0 {
		diff = -diff
	}

	assert.LessOrEqual(t, diff, 1)
}
