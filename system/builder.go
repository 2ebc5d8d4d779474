package system

import (
	"strconv"

	"github.com/jawline/Pulse/dma"
	"github.com/jawline/Pulse/hart"
	"github.com/jawline/Pulse/hookable"
	"github.com/jawline/Pulse/memctrl"
	"github.com/jawline/Pulse/video"
)

// Builder constructs a Comp, following the teacher's fluent With* idiom.
// It enumerates exactly §6's configuration surface: register_width and
// num_registers are fixed by membus/hart (RV32I, 32-bit), num_bytes is
// WithMemoryCapacity, num_harts is WithHarts, include_io_controller is
// WithDMA, and include_video_out is WithVideo.
type Builder struct {
	capacity uint64
	numHarts int

	memPolicy memctrl.Builder

	dma   *dma.Builder
	video *video.Builder
}

// MakeBuilder returns a Builder defaulted to one hart and a default
// Memory Controller policy (round-robin, zero request delay, one cycle
// read latency — see memctrl.MakeBuilder); DMA and video are absent
// until WithDMA/WithVideo are called.
func MakeBuilder() Builder {
	return Builder{
		numHarts:  1,
		memPolicy: memctrl.MakeBuilder(),
	}
}

// WithMemoryCapacity sets the backing store's size in bytes
// (num_bytes).
func (b Builder) WithMemoryCapacity(capacity uint64) Builder {
	b.capacity = capacity
	return b
}

// WithHarts sets the number of harts (num_harts); only hart 0 is ever
// wired to ECALL/DMA per §4.5.
func (b Builder) WithHarts(n int) Builder {
	b.numHarts = n
	return b
}

// WithMemoryPolicy overrides the Memory Controller's arbitration
// policy/timing parameters (everything but channel counts and capacity,
// which this Builder derives from the rest of the configuration).
func (b Builder) WithMemoryPolicy(p memctrl.Builder) Builder {
	b.memPolicy = p
	return b
}

// WithDMA enables the DMA pipeline (include_io_controller: uart{...}),
// reserving one read and one write channel slot.
func (b Builder) WithDMA(d dma.Builder) Builder {
	b.dma = &d
	return b
}

// WithVideo enables the video scan-out engine (include_video_out:
// video{...}), reserving one read channel slot. Design Notes §9's Open
// Question directs the video slot to round-robin by default, to bound
// hart starvation; pass WithMemoryPolicy with an explicit read policy to
// override.
func (b Builder) WithVideo(v video.Builder) Builder {
	b.video = &v
	return b
}

// Build constructs the Comp: the channel layout of §4.5, the Memory
// Controller sized to match, every hart, and the optional DMA/video
// engines, with hart 0's ECALL port wired to the DMA engine when one is
// configured.
func (b Builder) Build(name string) *Comp {
	if b.capacity == 0 {
		panic("system: memory capacity must be set")
	}

	if b.numHarts <= 0 {
		panic("system: at least one hart is required")
	}

	layout, numReads, numWrites := b.layout()

	mem := b.memPolicy.
		WithCapacity(b.capacity).
		WithReadChannels(numReads).
		WithWriteChannels(numWrites).
		Build(name + ".mem")

	c := &Comp{
		Base:   hookable.NewBase(),
		name:   name,
		mem:    mem,
		layout: layout,
	}

	var dmaEng *dma.Comp
	if b.dma != nil {
		dmaEng = b.dma.Build(name + ".dma")
		c.dmaEng = dmaEng
	}

	for i := 0; i < b.numHarts; i++ {
		hb := hart.MakeBuilder()
		if i == 0 && dmaEng != nil {
			hb = hb.WithECALLPort(dmaEng)
		}

		c.harts = append(c.harts, hb.Build(hartName(name, i)))
	}

	if b.video != nil {
		c.videoEng = b.video.Build(name + ".video")
	}

	c.rxLine = true // UART idle line level

	return c
}

func hartName(prefix string, i int) string {
	return prefix + ".hart" + strconv.Itoa(i)
}

// layout assigns channel indices per §4.5's fixed ordering: read
// channels [video?, dma_read?, then per hart fetch,load]; write
// channels [dma_write?, then per hart store].
func (b Builder) layout() (channelLayout, int, int) {
	l := channelLayout{videoRead: -1, dmaRead: -1, dmaWrite: -1}

	nextRead := 0

	if b.video != nil {
		l.videoRead = nextRead
		nextRead++
	}

	if b.dma != nil {
		l.dmaRead = nextRead
		nextRead++
	}

	for i := 0; i < b.numHarts; i++ {
		l.hartFetch = append(l.hartFetch, nextRead)
		nextRead++
		l.hartLoad = append(l.hartLoad, nextRead)
		nextRead++
	}

	nextWrite := 0

	if b.dma != nil {
		l.dmaWrite = nextWrite
		nextWrite++
	}

	for i := 0; i < b.numHarts; i++ {
		l.hartStore = append(l.hartStore, nextWrite)
		nextWrite++
	}

	return l, nextRead, nextWrite
}
