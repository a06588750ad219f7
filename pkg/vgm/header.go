package vgm

import (
	"encoding/binary"
	"fmt"
)

const (
	identVGM = 0x206D6756 // "Vgm " little-endian
	identGD3 = 0x20336447 // "Gd3 " little-endian
	gd3Version = 0x00000100
)

// header mirrors the fields of the VGM 1.x binary header this module
// cares about. Fields for chips other than the NES APU are not decoded —
// this is a VGM-for-NES-APU player, not a general multi-chip VGM reader.
type header struct {
	eofOffset   uint32
	version     uint32
	gd3Offset   uint32
	totalSamples uint32
	loopOffset  uint32
	loopSamples uint32
	rate        uint32
	nesAPUClk   uint32
	dataOffset  uint32
}

// parseHeader decodes the fixed-offset fields of a VGM 1.x header from
// reader, validating ident and size. The header layout is decoded
// field-by-field via encoding/binary rather than a single packed struct
// read, since Go structs carry no binary layout guarantee the way a C
// PACK'd struct does.
func parseHeader(reader ByteReader) (header, error) {
	var buf [0x100]byte
	n, err := reader.ReadAt(buf[:], 0)
	if err != nil {
		return header{}, fmt.Errorf("vgm: reading header: %w", err)
	}
	if n < 0x40 {
		return header{}, fmt.Errorf("%w: header shorter than 0x40 bytes", ErrTruncated)
	}

	ident := binary.LittleEndian.Uint32(buf[0x00:])
	if ident != identVGM {
		return header{}, ErrBadIdent
	}

	h := header{
		eofOffset:    binary.LittleEndian.Uint32(buf[0x04:]),
		version:      binary.LittleEndian.Uint32(buf[0x08:]),
		gd3Offset:    binary.LittleEndian.Uint32(buf[0x14:]),
		totalSamples: binary.LittleEndian.Uint32(buf[0x18:]),
		loopOffset:   binary.LittleEndian.Uint32(buf[0x1C:]),
		loopSamples:  binary.LittleEndian.Uint32(buf[0x20:]),
		rate:         binary.LittleEndian.Uint32(buf[0x24:]),
		nesAPUClk:    binary.LittleEndian.Uint32(buf[0x84:]),
		dataOffset:   binary.LittleEndian.Uint32(buf[0x34:]),
	}

	if int64(h.eofOffset)+4 != reader.Size() {
		return header{}, ErrTruncated
	}
	if h.nesAPUClk == 0 {
		return header{}, ErrNoAPUClock
	}
	if h.rate == 0 {
		h.rate = 60
	}
	return h, nil
}

// dataStart computes the byte offset of the first command in the VGM
// command stream.
func (h header) dataStart() int64 {
	if h.version >= 0x00000150 && h.dataOffset != 0 {
		return int64(h.dataOffset) + 0x34
	}
	return 0x40
}

// gd3Start computes the byte offset of the GD3 trailer, or 0 if absent.
func (h header) gd3Start() int64 {
	if h.gd3Offset == 0 {
		return 0
	}
	return int64(h.gd3Offset) + 0x14
}

// loopStart computes the byte offset the command stream resumes at on a
// loop, or 0 if the file declares no loop point.
func (h header) loopStart() int64 {
	if h.loopOffset == 0 || h.loopSamples == 0 {
		return 0
	}
	return int64(h.loopOffset) + 0x1C
}
