package vgm

import "encoding/binary"

const gd3MaxStringLen = 64

// GD3Tags holds the English-language and untranslated GD3 metadata fields
// this module retains. The Japanese-language variants are skipped on read.
type GD3Tags struct {
	TrackName   string
	GameName    string
	SystemName  string
	AuthorName  string
	ReleaseDate string
	Creator     string
	Notes       string
}

// readGD3String reads one null-terminated UTF-16LE string starting at
// *offset, advancing *offset past the terminator (or past eof). Only the
// low byte of each UTF-16 code unit is kept — a best-effort ASCII
// narrowing, matching the reference narrowing behavior rather than a full
// UTF-16 decode.
func readGD3String(reader ByteReader, offset *int64, eof int64) string {
	var out []byte
	var tmp [2]byte
	for *offset < eof {
		n, err := reader.ReadAt(tmp[:], *offset)
		if err != nil || n != 2 {
			break
		}
		*offset += 2
		ch := binary.LittleEndian.Uint16(tmp[:])
		if ch == 0 {
			break
		}
		if len(out) < gd3MaxStringLen {
			out = append(out, byte(ch&0xFF))
		}
	}
	return string(out)
}

// parseGD3 reads the GD3 metadata trailer at offset, if present. A missing
// or malformed trailer leaves tags at its zero value; GD3 absence is not
// an error — the trailer is optional.
func parseGD3(reader ByteReader, offset int64) GD3Tags {
	var tags GD3Tags
	if offset <= 0 {
		return tags
	}
	var word [4]byte

	n, err := reader.ReadAt(word[:], offset)
	if err != nil || n != 4 || binary.LittleEndian.Uint32(word[:]) != identGD3 {
		return tags
	}
	offset += 4

	n, err = reader.ReadAt(word[:], offset)
	if err != nil || n != 4 || binary.LittleEndian.Uint32(word[:]) != gd3Version {
		return tags
	}
	offset += 4

	n, err = reader.ReadAt(word[:], offset)
	if err != nil || n != 4 {
		return tags
	}
	length := binary.LittleEndian.Uint32(word[:])
	if length == 0 {
		return tags
	}
	offset += 4
	eof := offset + int64(length)

	tags.TrackName = readGD3String(reader, &offset, eof)
	readGD3String(reader, &offset, eof) // skip Japanese track name
	tags.GameName = readGD3String(reader, &offset, eof)
	readGD3String(reader, &offset, eof) // skip Japanese game name
	tags.SystemName = readGD3String(reader, &offset, eof)
	readGD3String(reader, &offset, eof) // skip Japanese system name
	tags.AuthorName = readGD3String(reader, &offset, eof)
	readGD3String(reader, &offset, eof) // skip Japanese author name
	tags.ReleaseDate = readGD3String(reader, &offset, eof)
	tags.Creator = readGD3String(reader, &offset, eof)
	tags.Notes = readGD3String(reader, &offset, eof)
	return tags
}
