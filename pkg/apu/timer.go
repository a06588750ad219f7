package apu

// timerCountDown advances a down-counter by cycles CPU ticks against the
// given period, reporting how many times it reloaded. Cycles may exceed a
// single period (GetSamples advances by an arbitrary batch, not one tick
// at a time), so this counts multiple wraps per call rather than looping
// one cycle at a time.
func timerCountDown(counter *uint32, period uint32, cycles uint32) uint32 {
	var clocks uint32
	for cycles >= period {
		cycles -= period
		clocks++
	}
	extra := cycles
	if extra > *counter {
		*counter = *counter + period - extra
		clocks++
	} else {
		*counter = *counter - extra
	}
	return clocks
}

// timerCountUp advances an up-counter by cycles CPU ticks against the given
// period, reporting how many times it reloaded back to zero.
func timerCountUp(counter *uint32, period uint32, cycles uint32) uint32 {
	clocks := cycles / period
	extra := cycles % period
	if *counter+extra >= period {
		*counter = *counter + extra - period
		clocks++
	} else {
		*counter = *counter + extra
	}
	return clocks
}
