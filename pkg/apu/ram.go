package apu

// ramCacheSize is the size of the single shared cache buffer backing at
// most one RAM block's active window at a time.
const ramCacheSize = 4096

// ramBlock maps an APU address range [addr, addr+len) to a byte region at
// offset in the backing reader. At most one block has a live cache window
// into the shared buffer at any time.
type ramBlock struct {
	offset   int64
	addr     uint16
	length   uint16
	cacheAddr uint16
	cacheLen  uint16
	hasCache  bool
}

func (b *ramBlock) contains(addr uint16) bool {
	return addr >= b.addr && uint32(addr) < uint32(b.addr)+uint32(b.length)
}

func (b *ramBlock) inCache(addr uint16) bool {
	return b.hasCache && addr >= b.cacheAddr && uint32(addr) < uint32(b.cacheAddr)+uint32(b.cacheLen)
}

// ramCache is the DMC sample-fetch RAM cache: any number of registered
// blocks, a single shared byte buffer, and at most one "active" block with
// a live window into that buffer.
type ramCache struct {
	reader ByteReader
	blocks []ramBlock
	active int // index into blocks, -1 if none
	buf    [ramCacheSize]byte
}

func newRAMCache(reader ByteReader) ramCache {
	return ramCache{reader: reader, active: -1}
}

// add registers a new RAM block (VGM data-block type 0xC2). An allocation
// failure is not possible here (the buffer is a fixed-size array field);
// only the read call can fail, and a failed initial fill
// just leaves the block with no cache window; playback continues and a
// lookup that lands on it degrades to silent DMC reads, per the resource
// discipline the whole RAM-cache path follows.
func (c *ramCache) add(offset int64, addr uint16, length uint16) {
	if length == 0 {
		return
	}
	if c.active >= 0 {
		c.blocks[c.active].hasCache = false
	}
	block := ramBlock{offset: offset, addr: addr, length: length}
	toRead := length
	if toRead > ramCacheSize {
		toRead = ramCacheSize
	}
	n, err := c.reader.ReadAt(c.buf[:toRead], offset)
	if err == nil && n == int(toRead) {
		block.hasCache = true
		block.cacheAddr = addr
		block.cacheLen = toRead
	}
	c.blocks = append(c.blocks, block)
	c.active = len(c.blocks) - 1
}

// read returns the byte at addr, or 0 if no registered block covers it or
// the backing read failed (silent DMC, per the external error-handling
// policy for local I/O failures).
func (c *ramCache) read(addr uint16) uint8 {
	idx := -1
	if c.active >= 0 && c.blocks[c.active].contains(addr) {
		idx = c.active
	} else {
		for i := range c.blocks {
			if c.blocks[i].contains(addr) {
				idx = i
				break
			}
		}
	}
	if idx < 0 {
		return 0
	}
	if idx != c.active {
		if c.active >= 0 {
			c.blocks[c.active].hasCache = false
		}
		c.active = idx
	}
	block := &c.blocks[idx]
	if !block.inCache(addr) {
		offset := block.offset + int64(addr-block.addr)
		avail := uint16(block.addr) + block.length - addr
		toRead := avail
		if toRead > ramCacheSize {
			toRead = ramCacheSize
		}
		n, err := c.reader.ReadAt(c.buf[:toRead], offset)
		if err == nil && n == int(toRead) {
			block.hasCache = true
			block.cacheAddr = addr
			block.cacheLen = toRead
		} else {
			block.hasCache = false
		}
	}
	if !block.hasCache {
		return 0
	}
	return c.buf[addr-block.cacheAddr]
}
