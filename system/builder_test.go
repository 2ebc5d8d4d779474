package system_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jawline/Pulse/arbiter"
	"github.com/jawline/Pulse/dma"
	"github.com/jawline/Pulse/hwclock"
	"github.com/jawline/Pulse/memctrl"
	"github.com/jawline/Pulse/system"
	"github.com/jawline/Pulse/video"
)

func TestChannelLayoutWithDMAAndVideo(t *testing.T) {
	sys := system.MakeBuilder().
		WithMemoryCapacity(64 * 1024).
		WithHarts(1).
		WithDMA(dma.MakeBuilder().WithUART(dma.UARTConfig{
			ClockFreq: 16 * hwclock.Hz, BaudRate: 1, Parity: dma.ParityNone, StopBits: 1,
		})).
		WithVideo(video.MakeBuilder()).
		Build("sys")

	// video read, dma read, hart0 fetch, hart0 load => 4 read channels;
	// dma write, hart0 store => 2 write channels, per §4.5's ordering.
	assert.Equal(t, 1, sys.NumHarts())
	assert.NotNil(t, sys.DMA())
	assert.NotNil(t, sys.Video())
}

func TestResetZeroesHartButNotMemory(t *testing.T) {
	sys := system.MakeBuilder().
		WithMemoryCapacity(1024).
		WithHarts(1).
		Build("sys")

	sys.Mem().PokeWord(0, 0x12300093) // addi x1,x0,0x123

	for i := 0; i < 5 && sys.Hart(0).PC() == 0; i++ {
		sys.Step()
	}

	assert.EqualValues(t, 0x123, sys.Hart(0).Reg(1))

	sys.Reset()

	assert.EqualValues(t, 0, sys.Hart(0).Reg(1))
	assert.EqualValues(t, 0, sys.Hart(0).PC())
	assert.EqualValues(t, 0x12300093, sys.Mem().PeekWord(0))
}

func TestOnlyHartZeroWiredToDMA(t *testing.T) {
	sys := system.MakeBuilder().
		WithMemoryCapacity(1024).
		WithHarts(2).
		WithDMA(dma.MakeBuilder()).
		WithMemoryPolicy(memctrl.MakeBuilder().WithReadPolicy(arbiter.RoundRobin)).
		Build("sys")

	// hart 0 has ecall-errors disabled (dma wired); hart 1's ECALL must
	// use the default no-op port and simply advance pc+4.
	sys.Mem().PokeWord(0, 0x00000073) // ecall
	sys.Mem().PokeWord(4, 0x00000073) // ecall, hart1 fetches from 0 too in this test

	for i := 0; i < 10; i++ {
		sys.Step()
	}

	assert.False(t, sys.Hart(1).Error())
}
