package apu

// lengthTable maps the 5-bit length-load field of $03/$07/$0B/$0F to the
// initial length-counter value.
// https://www.nesdev.org/wiki/APU_Length_Counter
var lengthTable = [32]uint8{
	10, 254, 20, 2, 40, 4, 80, 6, 160, 8, 60, 10, 14, 12, 26, 14,
	12, 16, 24, 18, 48, 20, 96, 22, 192, 24, 72, 26, 16, 28, 32, 30,
}

// dutyTable holds the four pulse duty-cycle waveforms, indexed [duty][seqIndex].
var dutyTable = [4][8]uint8{
	{0, 0, 0, 0, 0, 0, 0, 1}, // 12.5%
	{0, 0, 0, 0, 0, 0, 1, 1}, // 25%
	{0, 0, 0, 0, 1, 1, 1, 1}, // 50%
	{1, 1, 1, 1, 1, 1, 0, 0}, // 25% negated
}

// triangleWaveform is the 32-step triangle output ramp.
var triangleWaveform = [32]uint8{
	15, 14, 13, 12, 11, 10, 9, 8, 7, 6, 5, 4, 3, 2, 1, 0,
	0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15,
}

// noisePeriodNTSC / noisePeriodPAL map the 4-bit period index of $0E to a
// CPU-cycle timer period.
var noisePeriodNTSC = [16]uint16{
	4, 8, 16, 32, 64, 96, 128, 160, 202, 254, 380, 508, 762, 1016, 2034, 4068,
}

var noisePeriodPAL = [16]uint16{
	4, 8, 14, 30, 60, 88, 118, 148, 188, 236, 354, 472, 708, 944, 1890, 3778,
}

// dmcPeriodNTSC / dmcPeriodPAL map the 4-bit rate index of $10 to a
// CPU-cycle timer period.
var dmcPeriodNTSC = [16]uint16{
	428, 380, 340, 320, 286, 254, 226, 214, 190, 160, 142, 128, 106, 84, 72, 54,
}

var dmcPeriodPAL = [16]uint16{
	398, 354, 316, 298, 276, 236, 210, 198, 176, 148, 132, 118, 98, 78, 66, 50,
}

// Region selects which of the NTSC/PAL noise and DMC period tables a
// channel draws from.
type Region int

const (
	RegionNTSC Region = iota
	RegionPAL
)

// ChannelMask identifies one or more of the five sound channels, used by
// EnableChannel to mute/unmute a channel's contribution to the mix.
type ChannelMask uint8

const (
	ChannelPulse1 ChannelMask = 1 << iota
	ChannelPulse2
	ChannelTriangle
	ChannelNoise
	ChannelDMC
)
