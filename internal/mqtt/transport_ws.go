package mqtt

import (
	"context"
	"crypto/tls"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

// wsTransport is the Framed transport kind: MQTT packets carried one-per-binary-frame over
// a WebSocket connection, as spec section 4.2 requires. Grounded on
// chenquan-lighthouse's go.mod/server.go (which pulls in gorilla/websocket for its broker
// side) and gonzalop-mq/examples/websocket/main.go's dial-then-treat-as-a-stream pattern,
// adapted here to gorilla's Conn/ReadMessage/WriteMessage API instead of nhooyr.io/websocket.
type wsTransport struct {
	url       string
	tlsConfig *tls.Config // nil for Framed, non-nil for SecureFramed (NewWSSTransport)

	conn    *websocket.Conn
	pending []byte // unread tail of the most recently read message

	ready chan struct{}
	err   error
}

// NewWSTransport builds a Framed (ws://) transport dialing the given URL.
func NewWSTransport(url string) Transport {
	return &wsTransport{url: url, ready: make(chan struct{})}
}

// NewWSSTransport builds a SecureFramed (wss://) transport dialing the given URL with the
// given TLS config.
func NewWSSTransport(url string, tlsConfig *tls.Config) Transport {
	return &wsTransport{url: url, tlsConfig: tlsConfig, ready: make(chan struct{})}
}

// StartConnect runs websocket.Dialer.DialContext (which blocks until the TCP connect and
// WebSocket upgrade both complete) on a background goroutine, so the caller gets the same
// non-blocking start_connect/drive_handshake contract as tcpTransport and tlsTransport.
func (t *wsTransport) StartConnect(ctx context.Context) (ConnectResult, error) {
	go func() {
		dialer := &websocket.Dialer{
			Subprotocols:     []string{WebSocketSubProtocol},
			HandshakeTimeout: 10 * time.Second,
			TLSClientConfig:  t.tlsConfig,
		}
		conn, _, err := dialer.DialContext(ctx, t.url, http.Header{})
		if err != nil {
			t.err = wrapError(ConnectFailure, err)
		} else {
			t.conn = conn
		}
		close(t.ready)
	}()
	return ConnectResultPending, nil
}

func (t *wsTransport) Ready() <-chan struct{} {
	return t.ready
}

func (t *wsTransport) DriveHandshake() (HandshakeResult, error) {
	select {
	case <-t.ready:
		if t.err != nil {
			return HandshakeResultPending, t.err
		}
		return HandshakeResultReady, nil
	default:
		return HandshakeResultPending, nil
	}
}

// Send writes data as a single binary WebSocket frame - MQTT over WebSocket requires one
// control packet per frame, never fragmented and never coalesced (MQTT-6.0.0-3).
func (t *wsTransport) Send(data []byte) error {
	if err := t.conn.WriteMessage(websocket.BinaryMessage, data); err != nil {
		return wrapError(CommunicationFailure, err)
	}
	return nil
}

// Recv returns bytes from the most recently read binary frame, reading a new one only once
// the previous one has been fully drained by the caller. A non-binary frame is a protocol
// violation and returns ErrInvalidFrame.
func (t *wsTransport) Recv(buf []byte) (int, error) {
	if len(t.pending) == 0 {
		msgType, data, err := t.conn.ReadMessage()
		if err != nil {
			return 0, wrapError(CommunicationFailure, err)
		}
		if msgType != websocket.BinaryMessage {
			return 0, wrapError(InvalidPacket, ErrInvalidFrame)
		}
		t.pending = data
	}
	n := copy(buf, t.pending)
	t.pending = t.pending[n:]
	return n, nil
}

func (t *wsTransport) SetReadDeadline(deadline time.Time) error {
	return t.conn.SetReadDeadline(deadline)
}

func (t *wsTransport) SetWriteDeadline(deadline time.Time) error {
	return t.conn.SetWriteDeadline(deadline)
}

func (t *wsTransport) Close() error {
	if t.conn == nil {
		return nil
	}
	return t.conn.Close()
}
