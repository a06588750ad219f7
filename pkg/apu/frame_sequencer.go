package apu

import "vgmnes/pkg/fixedpoint"

// frameSequencer is the 240 Hz quarter-/half-frame event generator shared
// by every channel's envelope, sweep, length, and linear-counter subunits.
type frameSequencer struct {
	step       int
	fiveStep   bool
	forceClock bool

	quarter bool
	half    bool

	accumulator fixedpoint.Q16
	period      fixedpoint.Q16
}

func newFrameSequencer(clockRate uint32) frameSequencer {
	return frameSequencer{period: fixedpoint.FloatToQ16(float64(clockRate) / 240.0)}
}

func (f *frameSequencer) reset(clockRate uint32) {
	*f = newFrameSequencer(clockRate)
}

// advance moves the sequencer forward by cycles CPU ticks, setting quarter
// and half for this invocation. A register write to $4017 with the 5-step
// bit set arms forceClock, which clocks every controlled unit once on the
// very next invocation regardless of the accumulator.
func (f *frameSequencer) advance(cycles uint32) {
	if f.forceClock {
		f.quarter = true
		f.half = true
		f.forceClock = false
	} else {
		f.quarter = false
		f.half = false
	}
	f.accumulator += fixedpoint.IntToQ16(int(cycles))
	if f.accumulator < f.period {
		return
	}
	f.accumulator -= f.period
	f.step++
	if f.fiveStep {
		switch f.step {
		case 1:
			f.quarter = true
		case 2:
			f.quarter, f.half = true, true
		case 3:
			f.quarter = true
		case 4:
			f.quarter = false
		case 5:
			f.quarter, f.half = true, true
			f.step = 0
		}
	} else {
		switch f.step {
		case 1:
			f.quarter = true
		case 2:
			f.quarter, f.half = true, true
		case 3:
			f.quarter = true
		case 4:
			f.quarter, f.half = true, true
			f.step = 0
		}
	}
}

// writeMode applies the $4017 register write: selects 4-step or 5-step
// mode and always resets step/accumulator. Known inaccuracy: real hardware
// delays the force-clock by 3-4 CPU cycles when the write lands on an odd
// cycle; this implementation force-clocks on the very next advance call.
func (f *frameSequencer) writeMode(val uint8) {
	f.fiveStep = val&0x80 != 0
	f.step = 0
	f.accumulator = 0
	f.forceClock = f.fiveStep
}
