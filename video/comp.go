package video

import (
	"github.com/jawline/Pulse/hookable"
	"github.com/jawline/Pulse/membus"
	"github.com/jawline/Pulse/stream"
)

// HookPosStartOfFrame marks the expander's row-cache reset on vsync.
var HookPosStartOfFrame = &hookable.Pos{Name: "Video Start Of Frame"}

// Comp is the Video Out component (§4.4): a Timing generator and a
// Expander sharing a single memory read channel.
type Comp struct {
	*hookable.Base

	name string

	timing   *Timing
	cfg      Config
	expander *Expander

	cycle uint64
}

func newComp(name string, cfg Config, fbCfg FramebufferConfig) *Comp {
	return &Comp{
		Base:     hookable.NewBase(),
		name:     name,
		timing:   NewTiming(cfg),
		cfg:      cfg,
		expander: NewExpander(fbCfg),
	}
}

// Name returns the component's name.
func (c *Comp) Name() string {
	return c.name
}

// Request produces this cycle's memory read request, if the expander's
// row prefetch needs one.
func (c *Comp) Request() stream.Handshake[membus.ReadRequest] {
	return c.expander.Request()
}

// Output is one cycle's worth of the scan-out engine's external-facing
// signals.
type Output struct {
	Signals
	Pixel bool
}

// Update advances the timing generator and the row-prefetch state
// machine by one pixel clock, and produces this cycle's output.
func (c *Comp) Update(readAck bool, resp stream.Handshake[membus.ReadResponse]) Output {
	c.cycle++

	sig := c.timing.Step()

	if sig.StartOfFrame {
		c.expander.ResetFrame()

		if c.NumHooks() > 0 {
			c.Invoke(hookable.Ctx{Domain: c, Pos: HookPosStartOfFrame, Cycle: c.cycle})
		}
	}

	c.expander.Update(readAck, resp)

	pixel := false

	if sig.DataEnable {
		inX, inY := c.expander.InputCoord(sig.X, sig.Y)
		if c.expander.NeedRow(inY) {
			c.expander.BeginFetch(inY)
		} else if c.expander.RowReady(inY) {
			pixel = c.expander.Bit(inX)
		}
	}

	// Prefetch the next active line's row during this line's horizontal
	// blanking, so it is cached before its first data-enable cycle
	// without evicting the row this line is still displaying, per
	// §4.4's "memory fetches issued during blanking intervals."
	if !sig.DataEnable && sig.Y+1 < c.cfg.VActive {
		_, aheadY := c.expander.InputCoord(0, sig.Y+1)
		if c.expander.NeedRow(aheadY) {
			c.expander.BeginFetch(aheadY)
		}
	}

	return Output{Signals: sig, Pixel: pixel}
}

// Reset restarts the timing generator at the top-left of a frame and
// clears the expander's row cache, per §4.5's system-level clear.
func (c *Comp) Reset() {
	c.timing = NewTiming(c.cfg)
	c.expander.ResetFrame()
}
