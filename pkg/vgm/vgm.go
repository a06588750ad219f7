// Package vgm implements a VGM 1.x command-stream player driving a single
// NES APU instance: header and GD3 metadata parsing, the byte-code command
// dispatcher, and the loop/fade-out playback policy layered on top of
// pkg/apu.
package vgm

import (
	"fmt"

	"vgmnes/pkg/apu"
	"vgmnes/pkg/logger"
)

// fadeoutSeconds bounds the fade-out length applied at the loop boundary
// (or at end of stream, for non-looping files), matching the reference
// player's fixed fade window.
const fadeoutSeconds = 2

// VGM ties a parsed header, optional GD3 tags, and a live apu.APU to a
// cursor into the command stream. Like apu.APU, a VGM value is not safe
// for concurrent use.
type VGM struct {
	reader ByteReader
	header header
	gd3    GD3Tags
	apu    *apu.APU

	pos             int64
	dpcmWriteCursor uint16
	pendingWait     uint32

	completeSamples uint32
	fadeoutSamples  uint32
	playedSamples   uint32
	fadeTriggered   bool
	fadeEnabled     bool
	looped          bool

	pendingResampler apu.ResamplerKind
	resamplerSet     bool
}

// apuReader adapts a vgm.ByteReader to apu.ByteReader. The two interfaces
// are structurally identical, so this wrapper exists only to give the
// value a named type distinct from vgm.ByteReader — Go would accept the
// reader directly, but naming the adaptation documents the intent.
type apuReader struct {
	ByteReader
}

// Create parses reader's header and GD3 trailer and constructs the
// backing APU. Region is inferred from the header's playback rate field
// (50 -> PAL, anything else -> NTSC), following the same file field the
// original player reads to pick its timing tables.
func Create(reader ByteReader) (*VGM, error) {
	h, err := parseHeader(reader)
	if err != nil {
		return nil, fmt.Errorf("vgm: %w", err)
	}

	v := &VGM{
		reader: reader,
		header: h,
		gd3:    parseGD3(reader, h.gd3Start()),
	}
	v.apu = apu.New(apuReader{reader}, v.regionFromHeader(), h.nesAPUClk, 44100)
	logger.LogVGM("created VGM: version=%#x rate=%d clock=%d samples=%d", h.version, h.rate, h.nesAPUClk, h.totalSamples)
	return v, nil
}

func (v *VGM) regionFromHeader() apu.Region {
	if v.header.rate == 50 {
		return apu.RegionPAL
	}
	return apu.RegionNTSC
}

// SetResampler selects the APU's resampling strategy. Must be called
// before PreparePlayback.
func (v *VGM) SetResampler(kind apu.ResamplerKind) {
	v.pendingResampler = kind
	v.resamplerSet = true
}

// PreparePlayback commits the target host sample rate and fade-out
// policy, and resets playback position to the start of the command
// stream. This player assumes a 44100 Hz host rate end to end (see exec's
// wait handling, which passes wait units through as sample counts with no
// clock_rate/44100 rescaling); sampleRate values other than 44100 are
// accepted but not specially compensated for.
func (v *VGM) PreparePlayback(sampleRate uint32, fadeout bool) error {
	v.pos = v.header.dataStart()
	v.dpcmWriteCursor = 0
	v.pendingWait = 0
	v.playedSamples = 0
	v.fadeTriggered = false
	v.looped = false
	v.fadeEnabled = fadeout

	v.completeSamples = v.header.totalSamples
	if v.header.loopSamples > 0 {
		v.completeSamples += v.header.loopSamples
	}

	fadeoutCap := uint32(fadeoutSeconds) * sampleRate
	v.fadeoutSamples = v.completeSamples / 20
	if v.fadeoutSamples > fadeoutCap {
		v.fadeoutSamples = fadeoutCap
	}

	opts := []apu.Option{}
	if v.resamplerSet {
		opts = append(opts, apu.WithResampler(v.pendingResampler))
	}
	v.apu = apu.New(apuReader{v.reader}, v.regionFromHeader(), v.header.nesAPUClk, sampleRate, opts...)
	return nil
}

// GetSamples fills buf with decoded PCM, running the command stream
// forward (looping at the header's declared loop point, if any) until buf
// is full or the stream ends with no loop point declared. It returns the
// number of samples written, which is less than len(buf) only at true end
// of stream, and a non-nil err on a fatal stream error (ErrUnknownOpcode,
// ErrShortRead) — the same way a backing-reader IOError or a malformed
// command is fatal to the dispatcher in original_source/vgm.c: vgm_exec.
func (v *VGM) GetSamples(buf []int16) (int, error) {
	filled := 0
	for filled < len(buf) {
		if v.pendingWait == 0 {
			wait, done, err := v.exec()
			if err != nil {
				return filled, err
			}
			if done {
				if v.loopAndContinue() {
					continue
				}
				// Stay on the end command so later calls also report end
				// of stream (0 samples, nil error) instead of reading past it.
				v.pos--
				return filled, nil
			}
			v.pendingWait = wait
			continue
		}

		room := uint32(len(buf) - filled)
		take := v.pendingWait
		if take > room {
			take = room
		}
		if take == 0 {
			break
		}
		n, err := v.apu.GetSamples(buf[filled : filled+int(take)])
		filled += n
		v.pendingWait -= uint32(n)
		v.playedSamples += uint32(n)
		if err != nil {
			return filled, err
		}
		if n == 0 {
			break
		}

		if v.fadeEnabled && !v.fadeTriggered && v.fadeoutSamples > 0 &&
			v.playedSamples+v.fadeoutSamples >= v.completeSamples {
			v.apu.EnableFade(v.fadeoutSamples)
			v.fadeTriggered = true
		}
	}
	return filled, nil
}

// loopAndContinue rewinds the command stream to the loop point when one is
// declared, and reports whether playback should continue.
func (v *VGM) loopAndContinue() bool {
	loopStart := v.header.loopStart()
	if loopStart == 0 {
		return false
	}
	v.pos = loopStart
	v.looped = true
	return true
}

// EnableChannel forwards a channel mute/unmute request to the backing APU.
func (v *VGM) EnableChannel(mask apu.ChannelMask, enable bool) {
	v.apu.EnableChannel(mask, enable)
}

// GD3 returns the parsed GD3 metadata tags (zero value if the file had
// none).
func (v *VGM) GD3() GD3Tags {
	return v.gd3
}
