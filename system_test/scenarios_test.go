package system_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/jawline/Pulse/arbiter"
	"github.com/jawline/Pulse/dma"
	"github.com/jawline/Pulse/hwclock"
	"github.com/jawline/Pulse/memctrl"
	"github.com/jawline/Pulse/system"
	"github.com/jawline/Pulse/video"
)

// pokeProgram loads a sequence of pre-encoded RV32I words starting at
// address 0.
func pokeProgram(mem interface{ PokeWord(uint32, uint32) }, words []uint32) {
	for i, w := range words {
		mem.PokeWord(uint32(i*4), w)
	}
}

var _ = Describe("Boot empty", func() {
	// Scenario 1 (§8): pc=0 over a cleared memory fetches the all-zero
	// word, which decodes as an illegal instruction (opcode 0 matches
	// none of §4.2's table); the hart's error latch must be set within
	// a bounded number of cycles and no memory mutation must occur.
	It("halts on the all-zero instruction with no memory mutation", func() {
		sys := system.MakeBuilder().WithMemoryCapacity(1024).WithHarts(1).Build("sys")

		for i := 0; i < 20 && !sys.Hart(0).Halted(); i++ {
			sys.Step()
		}

		Expect(sys.Hart(0).Halted()).To(BeTrue())
		Expect(sys.Hart(0).Error()).To(BeTrue())
		Expect(sys.Mem().PeekWord(0)).To(BeEquivalentTo(0))
		Expect(sys.Mem().PeekWord(4)).To(BeEquivalentTo(0))
	})
})

var _ = Describe("ECHO via DMA", func() {
	// Scenario 2 (§8): guest code sets x5=0 (transmit mode), x6=0x78
	// (message address), x7=5 (message length), then issues ECALL. The
	// host ECALL handler arms the Memory-to-Packet engine, which drains
	// memory through its read channel and streams a framed packet out
	// over the bit-banged UART TX line. Register values are assembled
	// directly here (addi x5,x0,0 / addi x6,x0,0x78 / addi x7,x0,5 /
	// ecall) rather than reproduced from the spec's literal byte
	// string, to sidestep that string's own address/length arithmetic
	// (see DESIGN.md); the guest-visible contract under test — x5/x6/x7
	// ECALL convention, framed wire output — is identical either way.
	It("streams the guest's message out over UART TX", func() {
		sys := system.MakeBuilder().
			WithMemoryCapacity(64*1024).
			WithHarts(1).
			WithDMA(dma.MakeBuilder().WithUART(dma.UARTConfig{
				ClockFreq: 16 * hwclock.Hz, BaudRate: 1, Parity: dma.ParityNone, StopBits: 1,
			})).
			Build("sys")

		pokeProgram(sys.Mem(), []uint32{
			0x00000293, // addi x5, x0, 0
			0x07800313, // addi x6, x0, 0x78
			0x00500393, // addi x7, x0, 5
			0x00000073, // ecall
		})

		sys.Mem().PokeWord(0x78, 0x4C4C4548) // "HELL" (LE)
		sys.Mem().PokeWord(0x7C, 0x0000004F) // "O"

		rx := dma.NewUARTReceiver(dma.UARTConfig{
			ClockFreq: 16 * hwclock.Hz, BaudRate: 1, Parity: dma.ParityNone, StopBits: 1,
		})

		var received []byte

		armed := false

		for i := 0; i < 400000; i++ {
			out := sys.Step()

			if sys.DMA().TransferBusy() {
				armed = true
			}

			if b, ok := rx.Sample(out.TXLine); ok {
				received = append(received, b.Data)
			}

			if armed && !sys.DMA().TransferBusy() && len(received) >= 12 {
				break
			}
		}

		Expect(received).To(HaveLen(12))
		Expect(received[0]).To(BeEquivalentTo('Q'))

		length := uint16(received[1])<<8 | uint16(received[2])
		Expect(length).To(BeEquivalentTo(9)) // 4 address bytes + 5 payload bytes

		address := uint32(received[3])<<24 | uint32(received[4])<<16 | uint32(received[5])<<8 | uint32(received[6])
		Expect(address).To(BeEquivalentTo(0x78))

		Expect(string(received[7:12])).To(Equal("HELLO"))
	})
})

var _ = Describe("Load/store round-trip", func() {
	// Scenario 3 (§8): addi x1,x0,0x123; sw x1,0(x0); lw x2,0(x0).
	It("writes and reads back through the shared memory controller", func() {
		sys := system.MakeBuilder().WithMemoryCapacity(1024).WithHarts(1).Build("sys")

		pokeProgram(sys.Mem(), []uint32{
			0x12300093, // addi x1, x0, 0x123
			0x00102023, // sw x1, 0(x0)
			0x00002103, // lw x2, 0(x0)
		})

		for i := 0; i < 60 && sys.Hart(0).PC() < 12; i++ {
			sys.Step()
		}

		Expect(sys.Hart(0).Reg(1)).To(BeEquivalentTo(0x123))
		Expect(sys.Hart(0).Reg(2)).To(BeEquivalentTo(0x123))
		Expect(sys.Mem().PeekWord(0)).To(BeEquivalentTo(0x123))
		Expect(sys.Hart(0).Error()).To(BeFalse())
	})
})

var _ = Describe("Branch taken", func() {
	// Scenario 4 (§8): addi x1,x0,1; addi x2,x0,1; beq x1,x2,+8;
	// addi x3,x0,42; addi x4,x0,99. x3 must remain 0 (skipped), x4=99.
	It("skips the instruction at the branch target", func() {
		sys := system.MakeBuilder().WithMemoryCapacity(1024).WithHarts(1).Build("sys")

		pokeProgram(sys.Mem(), []uint32{
			0x00100093, // addi x1, x0, 1
			0x00100113, // addi x2, x0, 1
			0x00208463, // beq x1, x2, +8
			0x02A00193, // addi x3, x0, 42
			0x06300213, // addi x4, x0, 99
		})

		for i := 0; i < 80 && sys.Hart(0).PC() < 20; i++ {
			sys.Step()
		}

		Expect(sys.Hart(0).Reg(3)).To(BeEquivalentTo(0))
		Expect(sys.Hart(0).Reg(4)).To(BeEquivalentTo(99))
		Expect(sys.Hart(0).Error()).To(BeFalse())
	})
})

var _ = Describe("Arbiter fairness", func() {
	// Scenario 5 (§8): two continuously-valid write clients to distinct
	// addresses, 1000 cycles, round-robin — committed counts differ by
	// at most 1. Exercised directly against arbiter.Arbiter (memctrl's
	// own fairness is a thin wrapper over this), matching the scenario
	// as a property of the arbitration policy rather than a specific
	// client shape.
	It("keeps per-client grant counts within one of each other", func() {
		a := arbiter.New(2, arbiter.RoundRobin)

		counts := make([]int, 2)
		for i := 0; i < 1000; i++ {
			counts[a.Select([]bool{true, true})]++
		}

		Expect(counts[0] - counts[1]).To(BeNumerically("~", 0, 1))
	})
})

var _ = Describe("Framebuffer render", func() {
	// Scenario 6 (§8): a 32x32 framebuffer at 0x8000 with a single bit
	// set at (3,3); scanning one full frame at 2x scaling must light a
	// 2x2 block of output pixels at (6,6)..(7,7).
	It("scales a single set bit into a 2x2 output block", func() {
		sys := system.MakeBuilder().
			WithMemoryCapacity(64*1024).
			WithHarts(1).
			WithVideo(video.MakeBuilder().
				WithTiming(video.Config{HActive: 64, VActive: 64}).
				WithInputSize(32, 32).
				WithOutputSize(64, 64).
				WithFramebufferAddress(0x8000)).
			WithMemoryPolicy(memctrl.MakeBuilder().WithReadPolicy(arbiter.RoundRobin)).
			Build("sys")

		// Bit (row=3, col=3) of a row-major 32x32 bitvector packed into
		// 32-bit words: row 3 occupies one word (32 cols/row), bit 3.
		sys.Mem().PokeWord(0x8000+3*4, 1<<3)

		lit := map[[2]int]bool{}

		for cycle := 0; cycle < 64*64*4; cycle++ {
			out := sys.Step()
			if out.Video.DataEnable && out.Video.Pixel {
				lit[[2]int{out.Video.X, out.Video.Y}] = true
			}
		}

		for _, p := range [][2]int{{6, 6}, {7, 6}, {6, 7}, {7, 7}} {
			Expect(lit[p]).To(BeTrue(), "expected pixel %v lit", p)
		}

		Expect(lit).To(HaveLen(4))
	})
})
