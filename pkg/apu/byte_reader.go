package apu

// ByteReader is the blocking, random-access byte-reader collaborator the
// DMC RAM cache fetches sample bytes through. Treated as an external
// collaborator: the APU never opens or closes one, only borrows it.
type ByteReader interface {
	ReadAt(dest []byte, offset int64) (int, error)
	Size() int64
}
