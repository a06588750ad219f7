package vgm

import (
	"encoding/binary"
	"fmt"
)

// Data block types this player interprets. All other block types are
// skipped (their bytes are still consumed so the stream stays in sync).
const (
	dataBlockNESDPCM     = 0x07 // bulk DPCM sample dump, appended to the end of RAM
	dataBlockNESRAMWrite = 0xC2 // explicit {addr, data} RAM write
)

// opLen returns the number of operand bytes following opcode op, for the
// commands this player does not interpret itself — it only needs to skip
// them correctly to stay in sync with the stream. Commands the player does
// interpret (wait, end, data block, NES APU write) are dispatched before
// this table is consulted. A return of -1 means op is not a recognized
// command at all — the caller must treat that as fatal rather than guess
// at a length to skip.
func opLen(op uint8, version uint32) int {
	switch {
	case op == 0x4F || op == 0x50:
		return 1
	case op >= 0x51 && op <= 0x5F:
		return 2
	case op >= 0x30 && op <= 0x3F:
		return 1
	case op >= 0x40 && op <= 0x4E:
		if version > 0x00000161 {
			return 2
		}
		return 1
	case op == 0x68:
		return 11
	case op == 0x90:
		return 4
	case op == 0x91:
		return 4
	case op == 0x92:
		return 5
	case op == 0x93:
		return 10
	case op == 0x94:
		return 1
	case op == 0x95:
		return 4
	case op >= 0xA0 && op <= 0xBF:
		return 2
	case op >= 0xC0 && op <= 0xDF:
		return 3
	case op >= 0xE0 && op <= 0xFF:
		return 4
	default:
		return -1
	}
}

// exec runs a single command at v.pos, mutating v.pos past it and
// returning the number of host-output samples the command should produce
// before the next command is read (0 for every command except a wait). A
// non-nil err is always fatal: a short/failed read from the backing
// reader, or an opcode byte this player does not recognize at all.
//
// Wait units are passed straight through as a count of output samples to
// pull from the APU, matching the original player's simplification: it
// treats the wait value as a host sample count with no clock_rate/44100
// rescaling. That is exact when the host plays back at the VGM standard
// rate of 44100 Hz, which is what PreparePlayback assumes.
func (v *VGM) exec() (wait uint32, done bool, err error) {
	var op [1]byte
	n, rerr := v.reader.ReadAt(op[:], v.pos)
	if rerr != nil || n != 1 {
		return 0, true, fmt.Errorf("vgm: %w: reading opcode at %d", ErrShortRead, v.pos)
	}
	v.pos++

	switch op[0] {
	case 0x66:
		return 0, true, nil

	case 0x61:
		var b [2]byte
		if !v.readOperand(b[:]) {
			return 0, true, fmt.Errorf("vgm: %w: reading 0x61 wait operand", ErrShortRead)
		}
		return uint32(binary.LittleEndian.Uint16(b[:])), false, nil

	case 0x62:
		return 735, false, nil

	case 0x63:
		return 882, false, nil

	case 0xB4:
		var b [2]byte
		if !v.readOperand(b[:]) {
			return 0, true, fmt.Errorf("vgm: %w: reading 0xB4 register write operand", ErrShortRead)
		}
		v.apu.WriteRegister(b[0], b[1])
		return 0, false, nil

	case 0x67:
		if err := v.execDataBlock(); err != nil {
			return 0, true, err
		}
		return 0, false, nil
	}

	if op[0] >= 0x70 && op[0] <= 0x7F {
		return uint32(op[0]-0x70) + 1, false, nil
	}
	if op[0] >= 0x80 && op[0] <= 0x8F {
		// YM2612 PCM-bank write + wait n samples: this player ignores the
		// PCM write (no YM2612) but still honors the embedded wait.
		return uint32(op[0] & 0x0F), false, nil
	}

	length := opLen(op[0], v.header.version)
	if length < 0 {
		return 0, true, fmt.Errorf("vgm: %w: %#02x", ErrUnknownOpcode, op[0])
	}
	skip := make([]byte, length)
	if !v.readOperand(skip) {
		return 0, true, fmt.Errorf("vgm: %w: skipping operand for %#02x", ErrShortRead, op[0])
	}
	return 0, false, nil
}

// readOperand reads len(dest) bytes at v.pos, advancing v.pos regardless
// of whether the read was short, and reports whether it fully succeeded.
func (v *VGM) readOperand(dest []byte) bool {
	n, err := v.reader.ReadAt(dest, v.pos)
	v.pos += int64(len(dest))
	return err == nil && n == len(dest)
}

// execDataBlock handles the 0x67 0x66 tt ssssssss <data> command: data
// blocks feeding chip PCM/RAM the player doesn't own are skipped, and the
// two NES-APU-relevant block types are forwarded to the APU's RAM cache.
func (v *VGM) execDataBlock() error {
	var hdr [6]byte // 0x66, type, 4-byte size
	if !v.readOperand(hdr[:]) {
		return fmt.Errorf("vgm: %w: reading data block header", ErrShortRead)
	}
	if hdr[0] != 0x66 {
		return fmt.Errorf("vgm: %w: data block sub-header %#02x", ErrUnknownOpcode, hdr[0])
	}
	blockType := hdr[1]
	size := binary.LittleEndian.Uint32(hdr[2:])
	blockStart := v.pos

	switch blockType {
	case dataBlockNESDPCM:
		v.apu.AddRAM(blockStart, v.dpcmWriteCursor, uint16(size))
		v.dpcmWriteCursor += uint16(size)

	case dataBlockNESRAMWrite:
		if size < 2 {
			break
		}
		var addrBuf [2]byte
		n, err := v.reader.ReadAt(addrBuf[:], blockStart)
		if err == nil && n == 2 {
			addr := binary.LittleEndian.Uint16(addrBuf[:])
			v.apu.AddRAM(blockStart+2, addr, uint16(size-2))
		}
	}

	v.pos = blockStart + int64(size)
	return nil
}
