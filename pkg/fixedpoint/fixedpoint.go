// Package fixedpoint implements the Q16.16 and Q3.29 fixed-point integer
// formats used by the frame sequencer accumulator, the mixer lookup tables,
// and the fade-out ramp.
package fixedpoint

// Q16 is a signed Q16.16 fixed-point value: 16 integer bits, 16 fractional
// bits, stored in an int32.
type Q16 int32

// IntToQ16 converts an integer to Q16.16.
func IntToQ16(v int) Q16 {
	return Q16(v << 16)
}

// FloatToQ16 converts a float64 to Q16.16.
func FloatToQ16(v float64) Q16 {
	return Q16(v * 65536.0)
}

// ToFloat converts a Q16.16 value back to float64.
func (q Q16) ToFloat() float64 {
	return float64(q) / 65536.0
}

// Round rounds a Q16.16 value to the nearest integer, still in Q16.16 form
// (fractional bits zeroed).
func (q Q16) Round() Q16 {
	return (q + (1 << 15)) &^ 0xFFFF
}

// ToInt truncates a Q16.16 value to an integer.
func (q Q16) ToInt() int {
	return int(q >> 16)
}

// Q29 is a signed Q3.29 fixed-point value: 3 integer bits, 29 fractional
// bits, stored in an int32. Used for mixer and fade-out sample amplitudes
// in the range roughly [-4.0, 4.0).
type Q29 int32

// FloatToQ29 converts a float64 to Q3.29.
func FloatToQ29(v float64) Q29 {
	return Q29(v * 536870912.0) // 2^29
}

// ToFloat converts a Q3.29 value back to float64.
func (q Q29) ToFloat() float64 {
	return float64(q) / 536870912.0
}

// Mul multiplies two Q3.29 values. Matches the original's shift-then-multiply
// technique (shift each operand down before multiplying) rather than a
// 64-bit widen-then-shift, to stay bit-exact with the reference fixed-point
// behavior: (x>>15)*(y>>14).
func (q Q29) Mul(o Q29) Q29 {
	return Q29((q >> 15) * (o >> 14))
}

// ToSample converts a Q3.29 value to a signed 16-bit PCM sample: subtract
// the Q3.29 representation of 0.5 (2^28; the mixer/fade output is nominally
// in [0, 1), centered at +0.5, not zero) then arithmetic-shift down to 16
// bits of range.
func (q Q29) ToSample() int16 {
	return int16((q - 268435456) >> 13)
}
