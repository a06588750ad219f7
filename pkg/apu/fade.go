package apu

import "vgmnes/pkg/fixedpoint"

const fadeSteps = 256

// fadeTable is the linear 256-step Q3.29 attenuation ramp: 0 at index 0
// (fully muted), 1.0 (as Q3.29) at index 255 (unattenuated).
var fadeTable [fadeSteps]fixedpoint.Q29

func init() {
	for i := range fadeTable {
		fadeTable[i] = fixedpoint.FloatToQ29(float64(i) / float64(fadeSteps-1))
	}
}

// fadeUnit applies a linear fade-out ramp to the mixer output over a
// caller-specified number of samples.
type fadeUnit struct {
	enabled     bool
	period      fixedpoint.Q16
	accumulator fixedpoint.Q16
	seq         uint8 // counts down; 0 == fully muted
}

// enable arms the fade-out: it is a one-shot, later calls while already
// enabled are ignored.
func (f *fadeUnit) enable(samples uint32) {
	if f.enabled {
		return
	}
	f.seq = fadeSteps - 1
	if samples == 0 {
		samples = 1
	}
	f.period = fixedpoint.FloatToQ16(float64(samples) / float64(fadeSteps))
	f.accumulator = 0
	f.enabled = true
}

// apply advances the fade sequencer by one output sample and multiplies s
// by the current ramp value.
func (f *fadeUnit) apply(s fixedpoint.Q29) fixedpoint.Q29 {
	if !f.enabled {
		return s
	}
	if f.seq > 0 {
		f.accumulator += fixedpoint.IntToQ16(1)
		for f.seq > 0 && f.accumulator >= f.period {
			f.accumulator -= f.period
			f.seq--
		}
	}
	return s.Mul(fadeTable[f.seq])
}
