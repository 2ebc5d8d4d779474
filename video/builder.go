package video

// DefaultFramebufferAddress matches the reference guest programs'
// FRAMEBUFFER_START (§12): 0x8000.
const DefaultFramebufferAddress = 0x8000

// Builder constructs a Comp, following the teacher's fluent With* idiom
// (idealmemcontroller.Builder). It enumerates the fields §6's
// include_video_out surface names: input/output WxH, the framebuffer
// base address, and the h/v timing intervals.
type Builder struct {
	cfg   Config
	fbCfg FramebufferConfig
}

// MakeBuilder returns a Builder defaulted to a 32x32 input scaled 2x to
// a 64x64 output over a timing generator with no blanking (active-only),
// and the reference framebuffer base address.
func MakeBuilder() Builder {
	return Builder{
		cfg: Config{
			HActive: 64,
			VActive: 64,
		},
		fbCfg: FramebufferConfig{
			InputWidth:   32,
			InputHeight:  32,
			OutputWidth:  64,
			OutputHeight: 64,
			BaseAddress:  DefaultFramebufferAddress,
		},
	}
}

// WithTiming sets the horizontal/vertical timing generator intervals.
func (b Builder) WithTiming(cfg Config) Builder {
	b.cfg = cfg
	return b
}

// WithInputSize sets the compact framebuffer's dimensions.
func (b Builder) WithInputSize(width, height int) Builder {
	b.fbCfg.InputWidth = width
	b.fbCfg.InputHeight = height
	return b
}

// WithOutputSize sets the scaled output's dimensions. It must match the
// timing generator's HActive/VActive for every active pixel to map to a
// valid input coordinate.
func (b Builder) WithOutputSize(width, height int) Builder {
	b.fbCfg.OutputWidth = width
	b.fbCfg.OutputHeight = height
	return b
}

// WithFramebufferAddress sets the compact framebuffer's base address.
func (b Builder) WithFramebufferAddress(addr uint32) Builder {
	b.fbCfg.BaseAddress = addr
	return b
}

// Build constructs the Comp.
func (b Builder) Build(name string) *Comp {
	if b.fbCfg.OutputWidth != b.cfg.HActive || b.fbCfg.OutputHeight != b.cfg.VActive {
		panic("video: output size must match timing generator's active region")
	}

	return newComp(name, b.cfg, b.fbCfg)
}
