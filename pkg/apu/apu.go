// Package apu implements a cycle-accurate emulation of the NES Audio
// Processing Unit: five channel state machines, a shared frame sequencer,
// a non-linear mixer, an optional fade-out ramp, and a choice of
// resamplers down to a host sample rate.
//
// An APU is not safe for concurrent use by multiple goroutines; callers
// driving separate APU instances from separate goroutines are fine, since
// no package-level mutable state is shared between instances.
package apu

// APU owns the five channel states, the frame sequencer, mixer, fade and
// resampler state, the channel mute mask, and a RAM cache borrowing a
// byte-reader collaborator for DMC sample fetch.
type APU struct {
	region     Region
	clockRate  uint32
	sampleRate uint32

	pulse1, pulse2 pulseChannel
	triangle       triangleChannel
	noise          noiseChannel
	dmc            dmcChannel

	frame frameSequencer
	fade  fadeUnit
	ram   ramCache

	maskPulse1   bool
	maskPulse2   bool
	maskTriangle bool
	maskNoise    bool
	maskDMC      bool

	resampler Resampler
}

// Option configures an APU at construction time.
type Option func(*APU)

// WithResampler selects the resampling strategy used by GetSamples.
func WithResampler(kind ResamplerKind) Option {
	return func(a *APU) {
		switch kind {
		case ResamplerBandLimited:
			a.resampler = newBandLimitedResampler(a.clockRate, a.sampleRate)
		default:
			a.resampler = newNaiveResampler(a.clockRate, a.sampleRate)
		}
	}
}

// New constructs an APU clocked at clockRate CPU cycles/second, producing
// audio at sampleRate. reader backs the DMC RAM cache; its lifetime must
// outlive the APU.
func New(reader ByteReader, region Region, clockRate uint32, sampleRate uint32, opts ...Option) *APU {
	a := &APU{
		region:     region,
		clockRate:  clockRate,
		sampleRate: sampleRate,
		ram:        newRAMCache(reader),
	}
	a.Reset()
	a.resampler = newNaiveResampler(clockRate, sampleRate)
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Reset restores every channel, the frame sequencer, fade unit, and mute
// mask to power-on state. The RAM cache and its registered blocks are left
// alone (that state belongs to the VGM front-end, not to channel state).
// Calling Reset twice in a row yields identical state both times.
func (a *APU) Reset() {
	a.pulse1 = newPulseChannel(0)
	a.pulse1.reset()
	a.pulse2 = newPulseChannel(1)
	a.pulse2.reset()
	a.triangle.reset()
	a.noise.reset()
	a.dmc.reset()
	a.frame.reset(a.clockRate)
	a.fade = fadeUnit{}
	a.maskPulse1 = false
	a.maskPulse2 = false
	a.maskTriangle = false
	a.maskNoise = false
	a.maskDMC = false
}

// runAndSample advances every channel and the frame sequencer by cycles
// CPU ticks, mixes, applies fade, and returns one Q3.29-derived int16
// sample.
func (a *APU) runAndSample(cycles uint32) int16 {
	a.frame.advance(cycles)
	quarter, half := a.frame.quarter, a.frame.half

	p1 := a.pulse1.step(cycles, quarter, half)
	p2 := a.pulse2.step(cycles, quarter, half)
	tr := a.triangle.step(cycles, quarter, half)
	ns := a.noise.step(cycles, quarter, half)
	dm := a.dmc.step(cycles, a.ram.read)

	if a.maskPulse1 {
		p1 = 0
	}
	if a.maskPulse2 {
		p2 = 0
	}
	if a.maskTriangle {
		tr = 0
	}
	if a.maskNoise {
		ns = 0
	}
	if a.maskDMC {
		dm = 0
	}

	s := mix(p1, p2, tr, ns, dm)
	s = a.fade.apply(s)
	return s.ToSample()
}

// GetSamples fills buf with PCM samples at the host rate the APU was
// constructed with, and returns the count written (always len(buf); the
// resampler always makes forward progress since the CPU clock always
// advances) and a nil error. The error return exists so callers compose
// with vgm.VGM.GetSamples, whose own errors come from the command stream
// rather than the APU itself.
func (a *APU) GetSamples(buf []int16) (int, error) {
	return a.resampler.GetSamples(a, buf), nil
}

// AddRAM registers a RAM block for DMC sample fetch: addr..addr+length maps
// to length bytes at offset in the backing reader.
func (a *APU) AddRAM(offset int64, addr uint16, length uint16) {
	a.ram.add(offset, addr, length)
}

// EnableChannel sets or clears the mute flag for each channel named in
// mask. A muted channel's contribution is zeroed before mixing, not before
// its state machine runs — a muted pulse channel's envelope and sweep keep
// ticking.
func (a *APU) EnableChannel(mask ChannelMask, enable bool) {
	if mask&ChannelPulse1 != 0 {
		a.maskPulse1 = !enable
	}
	if mask&ChannelPulse2 != 0 {
		a.maskPulse2 = !enable
	}
	if mask&ChannelTriangle != 0 {
		a.maskTriangle = !enable
	}
	if mask&ChannelNoise != 0 {
		a.maskNoise = !enable
	}
	if mask&ChannelDMC != 0 {
		a.maskDMC = !enable
	}
}

// EnableFade arms the fade-out ramp to reach full attenuation after
// samples output samples. A no-op if fade is already enabled.
func (a *APU) EnableFade(samples uint32) {
	a.fade.enable(samples)
}

// WriteRegister dispatches a single register write ($00..$17, i.e.
// $4000..$4017 with the high byte stripped). Unknown register indices are
// silently ignored; the register interface never fails.
func (a *APU) WriteRegister(reg uint8, value uint8) {
	a.writeRegister(reg, value)
}
