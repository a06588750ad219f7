package vgm

import "os"

// ByteReader is the blocking, random-access byte source a VGM file is read
// through: the header, command stream, GD3 trailer, and DMC RAM blocks are
// all pulled through the same interface. Structurally identical to
// apu.ByteReader — a value satisfying this interface satisfies that one
// too, with no import needed in either direction.
type ByteReader interface {
	ReadAt(dest []byte, offset int64) (int, error)
	Size() int64
}

// FileReader is a ByteReader backed by an *os.File, the concrete
// implementation cmd/vgmplay and most callers reach for.
type FileReader struct {
	file *os.File
	size int64
}

// NewFileReader opens path for reading and wraps it as a ByteReader.
func NewFileReader(path string) (*FileReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	return &FileReader{file: f, size: info.Size()}, nil
}

// ReadAt reads len(dest) bytes starting at offset.
func (r *FileReader) ReadAt(dest []byte, offset int64) (int, error) {
	n, err := r.file.ReadAt(dest, offset)
	if err != nil && n > 0 {
		// A short read that still delivered some bytes (e.g. io.EOF at the
		// tail of the file) is reported as a partial read, not an error —
		// callers decide whether a short read matters for their purpose.
		return n, nil
	}
	return n, err
}

// Size returns the total file size in bytes.
func (r *FileReader) Size() int64 { return r.size }

// Close releases the underlying file handle.
func (r *FileReader) Close() error { return r.file.Close() }

// MemoryReader is a ByteReader backed by an in-memory byte slice, used by
// tests in place of a real file.
type MemoryReader struct {
	data []byte
}

// NewMemoryReader wraps data as a ByteReader.
func NewMemoryReader(data []byte) *MemoryReader {
	return &MemoryReader{data: data}
}

func (r *MemoryReader) ReadAt(dest []byte, offset int64) (int, error) {
	if offset < 0 || offset >= int64(len(r.data)) {
		return 0, nil
	}
	n := copy(dest, r.data[offset:])
	return n, nil
}

func (r *MemoryReader) Size() int64 { return int64(len(r.data)) }
