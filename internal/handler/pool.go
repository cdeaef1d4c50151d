package handler

import (
	"bytes"
	"sync"
)

// Job documents hold up to twenty rows; the jobs list is a few KiB.
const (
	initialBufferSize = 4 << 10
	maxPooledBuffer   = 256 << 10
)

var bufferPool = sync.Pool{
	New: func() any {
		return bytes.NewBuffer(make([]byte, 0, initialBufferSize))
	},
}

func getBuffer() *bytes.Buffer {
	return bufferPool.Get().(*bytes.Buffer)
}

// putBuffer returns buf to the pool unless an unusually large document grew
// it past maxPooledBuffer.
func putBuffer(buf *bytes.Buffer) {
	if buf.Cap() > maxPooledBuffer {
		return
	}
	buf.Reset()
	bufferPool.Put(buf)
}
