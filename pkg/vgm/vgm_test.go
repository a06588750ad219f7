package vgm

import (
	"encoding/binary"
	"errors"
	"testing"
)

const headerSize = 0x100

// buildVGM assembles a minimal synthetic VGM 1.51 byte stream: a fixed
// 0x100-byte header (so every field up to nesAPUClk at 0x84 is always
// in-range), followed by cmds, followed optionally by a GD3 trailer.
func buildVGM(t *testing.T, totalSamples, loopOffsetFromStart uint32, loopSamples uint32, cmds []byte, gd3 []byte) []byte {
	t.Helper()
	buf := make([]byte, headerSize)
	binary.LittleEndian.PutUint32(buf[0x00:], identVGM)
	binary.LittleEndian.PutUint32(buf[0x08:], 0x00000151)
	binary.LittleEndian.PutUint32(buf[0x18:], totalSamples)
	if loopSamples > 0 {
		binary.LittleEndian.PutUint32(buf[0x1C:], loopOffsetFromStart+headerSize-0x1C)
	}
	binary.LittleEndian.PutUint32(buf[0x20:], loopSamples)
	binary.LittleEndian.PutUint32(buf[0x24:], 60)
	binary.LittleEndian.PutUint32(buf[0x34:], headerSize-0x34) // dataOffset -> dataStart == headerSize
	binary.LittleEndian.PutUint32(buf[0x84:], 1789772)

	buf = append(buf, cmds...)

	if len(gd3) > 0 {
		binary.LittleEndian.PutUint32(buf[0x14:], uint32(len(buf))-0x14)
		buf = append(buf, gd3...)
	}

	eof := uint32(len(buf)) - 4
	binary.LittleEndian.PutUint32(buf[0x04:], eof)
	return buf
}

func waitCmd(n uint16) []byte {
	b := make([]byte, 3)
	b[0] = 0x61
	binary.LittleEndian.PutUint16(b[1:], n)
	return b
}

func regCmd(reg, val uint8) []byte {
	return []byte{0xB4, reg, val}
}

func TestCreateRejectsBadIdent(t *testing.T) {
	data := make([]byte, 0x80)
	if _, err := Create(NewMemoryReader(data)); !errors.Is(err, ErrBadIdent) {
		t.Fatalf("expected ErrBadIdent, got %v", err)
	}
}

func TestCreateParsesHeaderAndClock(t *testing.T) {
	cmds := append(regCmd(0x00, 0xBF), append(waitCmd(100), 0x66)...)
	data := buildVGM(t, 100, 0, 0, cmds, nil)
	v, err := Create(NewMemoryReader(data))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if v.header.nesAPUClk != 1789772 {
		t.Fatalf("nesAPUClk = %d, want 1789772", v.header.nesAPUClk)
	}
	if v.header.rate != 60 {
		t.Fatalf("rate = %d, want 60", v.header.rate)
	}
}

func TestGD3TagsRoundTrip(t *testing.T) {
	str := func(s string) []byte {
		out := make([]byte, 0, len(s)*2+2)
		for _, r := range s {
			out = append(out, byte(r), 0x00)
		}
		out = append(out, 0x00, 0x00)
		return out
	}
	var gd3 []byte
	gd3 = append(gd3, 0x47, 0x64, 0x33, 0x20) // "Gd3 "
	ver := make([]byte, 4)
	binary.LittleEndian.PutUint32(ver, gd3Version)
	gd3 = append(gd3, ver...)

	var body []byte
	body = append(body, str("Test Track")...)
	body = append(body, str("")...) // JP track
	body = append(body, str("Test Game")...)
	body = append(body, str("")...) // JP game
	body = append(body, str("NES")...)
	body = append(body, str("")...) // JP system
	body = append(body, str("Test Author")...)
	body = append(body, str("")...) // JP author
	body = append(body, str("2026-07-30")...)
	body = append(body, str("vgmnes test suite")...)
	body = append(body, str("generated for testing")...)

	length := make([]byte, 4)
	binary.LittleEndian.PutUint32(length, uint32(len(body)))
	gd3 = append(gd3, length...)
	gd3 = append(gd3, body...)

	cmds := append(regCmd(0x00, 0xBF), 0x66)
	data := buildVGM(t, 1, 0, 0, cmds, gd3)

	v, err := Create(NewMemoryReader(data))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	tags := v.GD3()
	if tags.TrackName != "Test Track" {
		t.Errorf("TrackName = %q, want %q", tags.TrackName, "Test Track")
	}
	if tags.GameName != "Test Game" {
		t.Errorf("GameName = %q, want %q", tags.GameName, "Test Game")
	}
	if tags.SystemName != "NES" {
		t.Errorf("SystemName = %q, want %q", tags.SystemName, "NES")
	}
	if tags.AuthorName != "Test Author" {
		t.Errorf("AuthorName = %q, want %q", tags.AuthorName, "Test Author")
	}
	if tags.ReleaseDate != "2026-07-30" {
		t.Errorf("ReleaseDate = %q, want %q", tags.ReleaseDate, "2026-07-30")
	}
	if tags.Creator != "vgmnes test suite" {
		t.Errorf("Creator = %q, want %q", tags.Creator, "vgmnes test suite")
	}
	if tags.Notes != "generated for testing" {
		t.Errorf("Notes = %q, want %q", tags.Notes, "generated for testing")
	}
}

// Scenario S5 — a file with a declared loop point plays past end of
// stream indefinitely rather than stopping, rewinding to the loop offset
// each time it hits the end command.
func TestLoopReplaysPastEndOfStream(t *testing.T) {
	loopBody := append(regCmd(0x00, 0xBF), waitCmd(50)...)
	cmds := append([]byte{}, loopBody...)
	cmds = append(cmds, 0x66)
	// loop point is the start of loopBody, i.e. offset 0 within cmds.
	data := buildVGM(t, 50, 0, 50, cmds, nil)

	v, err := Create(NewMemoryReader(data))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := v.PreparePlayback(44100, false); err != nil {
		t.Fatalf("PreparePlayback: %v", err)
	}

	// Ask for more samples than one pass through the stream produces; a
	// non-looping player would stop short.
	buf := make([]int16, 200)
	n, err := v.GetSamples(buf)
	if err != nil {
		t.Fatalf("GetSamples: %v", err)
	}
	if n != len(buf) {
		t.Fatalf("expected loop to keep producing samples, got n=%d want %d", n, len(buf))
	}
	if !v.looped {
		t.Fatal("expected looped flag to be set after wrapping past end of stream")
	}
}

// A file without a loop point stops producing samples at end of stream.
func TestNoLoopStopsAtEndOfStream(t *testing.T) {
	cmds := append(regCmd(0x00, 0xBF), append(waitCmd(50), 0x66)...)
	data := buildVGM(t, 50, 0, 0, cmds, nil)

	v, err := Create(NewMemoryReader(data))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := v.PreparePlayback(44100, false); err != nil {
		t.Fatalf("PreparePlayback: %v", err)
	}

	buf := make([]int16, 200)
	n, err := v.GetSamples(buf)
	if err != nil {
		t.Fatalf("GetSamples: %v", err)
	}
	if n != 50 {
		t.Fatalf("expected exactly 50 samples before end of stream, got %d", n)
	}
	n2, err := v.GetSamples(buf)
	if err != nil {
		t.Fatalf("GetSamples: %v", err)
	}
	if n2 != 0 {
		t.Fatalf("expected 0 samples after end of stream with no loop, got %d", n2)
	}
}

// Scenario S6 — enabling fade-out near the end of a non-looping stream
// should not error and should not change the sample count delivered.
func TestFadeoutDoesNotAlterSampleCount(t *testing.T) {
	cmds := append(regCmd(0x00, 0xBF), append(waitCmd(1000), 0x66)...)
	data := buildVGM(t, 1000, 0, 0, cmds, nil)

	v, err := Create(NewMemoryReader(data))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := v.PreparePlayback(44100, true); err != nil {
		t.Fatalf("PreparePlayback: %v", err)
	}

	buf := make([]int16, 1000)
	n, err := v.GetSamples(buf)
	if err != nil {
		t.Fatalf("GetSamples: %v", err)
	}
	if n != 1000 {
		t.Fatalf("expected 1000 samples regardless of fade-out, got %d", n)
	}
}

// An unrecognized-but-skippable opcode (here, GG stereo 0x4F, a 1-byte
// operand command) must not desynchronize the stream: the register write
// and wait that follow it still execute in order.
func TestUnknownSkippableOpcodeDoesNotDesync(t *testing.T) {
	cmds := append([]byte{0x4F, 0x00}, regCmd(0x00, 0xBF)...)
	cmds = append(cmds, waitCmd(10)...)
	cmds = append(cmds, 0x66)
	data := buildVGM(t, 10, 0, 0, cmds, nil)

	v, err := Create(NewMemoryReader(data))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := v.PreparePlayback(44100, false); err != nil {
		t.Fatalf("PreparePlayback: %v", err)
	}

	buf := make([]int16, 10)
	n, err := v.GetSamples(buf)
	if err != nil {
		t.Fatalf("GetSamples: %v", err)
	}
	if n != 10 {
		t.Fatalf("expected 10 samples, got %d", n)
	}
}

func TestEnableChannelDoesNotPanic(t *testing.T) {
	cmds := append(regCmd(0x00, 0xBF), 0x66)
	data := buildVGM(t, 1, 0, 0, cmds, nil)
	v, err := Create(NewMemoryReader(data))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	v.EnableChannel(1, false)
}
