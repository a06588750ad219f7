package apu

import "vgmnes/pkg/fixedpoint"

// pulseMix and tndMix are the two non-linear NESDev mixer lookup tables, in
// Q3.29. Computed once at package init from the closed-form formulas rather
// than hand-transcribed as 31/203-entry literal arrays, the way flga-vnes's
// nes-apu.go builds its own mixer tables in an init() function — this keeps
// the values auditable against the formula instead of against a wall of
// magic numbers.
// https://www.nesdev.org/wiki/APU_Mixer
var pulseMix [31]fixedpoint.Q29
var tndMix [203]fixedpoint.Q29

func init() {
	pulseMix[0] = 0
	for n := 1; n < len(pulseMix); n++ {
		var v float32 = 95.52 / (8128.0/float32(n) + 100.0)
		pulseMix[n] = fixedpoint.FloatToQ29(float64(v))
	}
	tndMix[0] = 0
	for n := 1; n < len(tndMix); n++ {
		var v float32 = 163.67 / (24329.0/float32(n) + 100.0)
		tndMix[n] = fixedpoint.FloatToQ29(float64(v))
	}
}

// mix combines the five channel outputs (already per-channel mute-masked by
// the caller) into a single Q3.29 amplitude nominally in [0, 1).
func mix(p1, p2, tr, ns, dm uint8) fixedpoint.Q29 {
	return pulseMix[p1+p2] + tndMix[3*uint32(tr)+2*uint32(ns)+uint32(dm)]
}
