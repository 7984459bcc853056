package mqtt

import "sync"

// defaultBufferSize is the per-buffer capacity handed out by a bufferPool: large enough to
// hold a typical PUBLISH without chaining, small enough that a modest MaxBuffers bound keeps
// total memory use predictable on a constrained client.
const defaultBufferSize = 4096

// bufferPool is the Buffer Manager from spec section 4.3: a bounded pool of reusable byte
// slices. The Client does not use it: the event loop and handshake read into their own
// scratch buffers and stage outbound packets in bytes.Buffer values.
// Adapted from axmq-ax/network/pool.go's connection Pool (MaxConnections/atomic counters
// bounding how many live resources exist at once) to bound buffers instead of connections;
// backed by sync.Pool the way the teacher's stack generally prefers pool-of-reusable-object
// patterns, with an explicit semaphore layered on top so PoolExhausted is actually reachable
// (a bare sync.Pool never refuses a Get, it just allocates more).
type bufferPool struct {
	pool   sync.Pool
	tokens chan struct{} // bounds concurrently-outstanding buffers; buffered channel as a semaphore
}

// newBufferPool creates a bufferPool that will hand out at most maxBuffers buffers of
// defaultBufferSize at any one time. maxBuffers of 0 means unbounded.
func newBufferPool(maxBuffers int) *bufferPool {
	b := &bufferPool{
		pool: sync.Pool{New: func() interface{} {
			buf := make([]byte, defaultBufferSize)
			return &buf
		}},
	}
	if maxBuffers > 0 {
		b.tokens = make(chan struct{}, maxBuffers)
		for i := 0; i < maxBuffers; i++ {
			b.tokens <- struct{}{}
		}
	}
	return b
}

// Acquire returns a buffer of defaultBufferSize, or ErrPoolExhausted if maxBuffers is set and
// already fully checked out.
func (b *bufferPool) Acquire() (*[]byte, error) {
	if b.tokens != nil {
		select {
		case <-b.tokens:
		default:
			return nil, ErrPoolExhausted
		}
	}
	return b.pool.Get().(*[]byte), nil
}

// Release returns a buffer to the pool for reuse.
func (b *bufferPool) Release(buf *[]byte) {
	b.pool.Put(buf)
	if b.tokens != nil {
		b.tokens <- struct{}{}
	}
}

// bufferChain accumulates bytes across multiple Transport.Recv calls until TryParsePacket
// reports a complete packet, handling the case where a packet's bytes straddle more than one
// read (or more than one WebSocket frame's worth of TCP segments). Grounded on the event
// loop's TRANSPORT_READABLE handling in spec section 4.7: "bytes accumulate in a
// reassembly buffer across reads until TryParsePacket succeeds."
type bufferChain struct {
	buf []byte
}

// Append adds newly read bytes to the chain.
func (c *bufferChain) Append(data []byte) {
	c.buf = append(c.buf, data...)
}

// TryNext attempts to extract one complete packet from the head of the chain. On success the
// consumed bytes are discarded. Returns Partial if more bytes are needed.
func (c *bufferChain) TryNext() (ParseResult, ParsedPacket, error) {
	result, parsed, err := TryParsePacket(c.buf)
	if result != Complete {
		return result, parsed, err
	}
	// Copy Body out, since the compaction below overwrites the backing array it aliases.
	body := append([]byte(nil), parsed.Body...)
	consumed := parsed.Consumed
	c.buf = append(c.buf[:0], c.buf[consumed:]...)
	return result, ParsedPacket{Type: parsed.Type, Flags: parsed.Flags, Body: body, Consumed: consumed}, nil
}

// Len reports how many unconsumed bytes the chain is holding.
func (c *bufferChain) Len() int {
	return len(c.buf)
}
