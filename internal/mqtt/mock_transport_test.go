package mqtt

import (
	"context"
	"io"
	"sync"
	"time"
)

// mockTransport is an in-memory Transport standing in for a broker connection in tests.
// Adapted from the teacher's mock_connection.go (a net.Conn with RemoteWrite/RemoteRead
// exposing the "other side" of the pipe) to the new Transport interface: Send appends to a
// buffer the test reads via RemoteRead, and RemoteWrite appends to a buffer Recv drains.
type mockTransport struct {
	mu            sync.Mutex
	cond          *sync.Cond
	toRemote      []byte // bytes written by the client via Send, read by the test via RemoteRead
	toLocal       []byte // bytes written by the test via RemoteWrite, read by the client via Recv
	closed        bool
	readDeadline  time.Time
	writeDeadline time.Time

	ready     chan struct{}
	readyOnce sync.Once
}

func newMockTransport() *mockTransport {
	m := &mockTransport{ready: make(chan struct{})}
	m.cond = sync.NewCond(&m.mu)
	return m
}

// StartConnect resolves immediately: there is no real dial to background here, but it still
// reports ConnectResultPending and closes ready exactly once, matching the contract the real
// transports use.
func (m *mockTransport) StartConnect(ctx context.Context) (ConnectResult, error) {
	m.readyOnce.Do(func() { close(m.ready) })
	return ConnectResultPending, nil
}

func (m *mockTransport) Ready() <-chan struct{} {
	return m.ready
}

func (m *mockTransport) DriveHandshake() (HandshakeResult, error) {
	select {
	case <-m.ready:
		return HandshakeResultReady, nil
	default:
		return HandshakeResultPending, nil
	}
}

func (m *mockTransport) Send(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return io.ErrClosedPipe
	}
	m.toRemote = append(m.toRemote, data...)
	m.cond.Broadcast()
	return nil
}

func (m *mockTransport) Recv(buf []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for len(m.toLocal) == 0 && !m.closed {
		if !m.readDeadline.IsZero() && time.Now().After(m.readDeadline) {
			return 0, &mockTimeoutError{}
		}
		if !m.readDeadline.IsZero() {
			waitCh := make(chan struct{})
			go func() {
				time.Sleep(time.Until(m.readDeadline))
				close(waitCh)
			}()
			m.mu.Unlock()
			<-waitCh
			m.mu.Lock()
			continue
		}
		m.cond.Wait()
	}
	if len(m.toLocal) == 0 && m.closed {
		return 0, io.EOF
	}
	n := copy(buf, m.toLocal)
	m.toLocal = m.toLocal[n:]
	return n, nil
}

func (m *mockTransport) SetReadDeadline(t time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.readDeadline = t
	m.cond.Broadcast()
	return nil
}

// SetWriteDeadline is recorded but never enforced: Send on a mockTransport never blocks, so
// there is nothing for a write deadline to interrupt.
func (m *mockTransport) SetWriteDeadline(t time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writeDeadline = t
	return nil
}

func (m *mockTransport) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.cond.Broadcast()
	return nil
}

// RemoteWrite injects bytes as if the broker sent them; the client will see them via Recv.
func (m *mockTransport) RemoteWrite(data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.toLocal = append(m.toLocal, data...)
	m.cond.Broadcast()
}

// RemoteRead blocks until at least one byte the client sent via Send is available, then
// returns everything currently buffered.
func (m *mockTransport) RemoteRead() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	for len(m.toRemote) == 0 {
		m.cond.Wait()
	}
	data := m.toRemote
	m.toRemote = nil
	return data
}

type mockTimeoutError struct{}

func (e *mockTimeoutError) Error() string   { return "mock transport read deadline exceeded" }
func (e *mockTimeoutError) Timeout() bool   { return true }
func (e *mockTimeoutError) Temporary() bool { return true }
