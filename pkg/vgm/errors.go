package vgm

import "errors"

// Sentinel errors for VGM construction failures (wrap with fmt.Errorf and
// %w so callers can errors.Is against them).
var (
	ErrBadIdent     = errors.New("vgm: bad file identifier")
	ErrTruncated    = errors.New("vgm: eof offset does not match file size")
	ErrNoAPUClock   = errors.New("vgm: no NES APU clock in header")
	ErrUnknownOpcode = errors.New("vgm: unknown command stream opcode")
	ErrShortRead    = errors.New("vgm: short read from command stream")
)
