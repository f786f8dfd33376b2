package codec

import "sync"

// scratchPool holds buffers for nested messages while a report is encoded
var scratchPool = sync.Pool{
	New: func() any {
		b := make([]byte, 0, 64)
		return &b
	},
}

// getScratch retrieves an empty buffer from the pool
func getScratch() *[]byte {
	b := scratchPool.Get().(*[]byte)
	*b = (*b)[:0]
	return b
}

// putScratch returns a buffer to the pool; the capacity is kept
func putScratch(b *[]byte) {
	if b == nil {
		return
	}
	scratchPool.Put(b)
}
