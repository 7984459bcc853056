package mqtt

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
)

// ConnectResult is returned by Transport.StartConnect, per spec section 4.2's
// {Ok | Pending | Err} capability. Every adapter here runs the underlying net.Dial/tls.Dial/
// websocket.Dial on a background goroutine, since all three block, so ConnectResultOk (the
// connection was already usable when StartConnect returned) never actually occurs in this
// package; it exists so the interface also accommodates a transport that can connect
// synchronously.
type ConnectResult int

const (
	// ConnectResultOk means the connection is already usable; DriveHandshake may be called
	// immediately without waiting on Ready().
	ConnectResultOk ConnectResult = iota
	// ConnectResultPending means the connect attempt was started in the background; the
	// caller awaits Ready() and then calls DriveHandshake.
	ConnectResultPending
)

// HandshakeResult is returned by Transport.DriveHandshake, per spec section 4.2's
// {Ready | Pending | Err} capability.
type HandshakeResult int

const (
	// HandshakeResultReady means the transport is fully connected and Send/Recv may be used.
	HandshakeResultReady HandshakeResult = iota
	// HandshakeResultPending means the connect attempt has not finished yet; call
	// DriveHandshake again once Ready() fires.
	HandshakeResultPending
)

// Transport is the boundary between the protocol engine and the network. The event loop
// never touches a net.Conn or *tls.Conn directly; it only ever sees a Transport, so the
// same state machine drives plain TCP, TLS and (via transport_ws.go) WebSocket framed
// variants identically. Grounded on the dial/io.Writer+io.Reader split already present in
// the teacher's cmd/pub.go and Session.options.Conn, generalized into an explicit interface
// the way axmq-ax/network separates Pool/KeepAlive/TLS from the connection itself.
type Transport interface {
	// StartConnect begins establishing the underlying connection (and, for Secure/Framed
	// kinds, the TLS or WebSocket handshake) without blocking the caller. It returns
	// ConnectResultPending for every adapter in this package; Ready() is closed once the
	// background attempt finishes, successfully or not.
	StartConnect(ctx context.Context) (ConnectResult, error)
	// Ready returns a channel the Event Loop selects on to deliver TRANSPORT_READY: it is
	// closed once the connect attempt started by StartConnect has completed.
	Ready() <-chan struct{}
	// DriveHandshake reports whether the connection from StartConnect is usable yet. Call it
	// only after StartConnect; every adapter here resolves fully on the first Ready() signal,
	// so HandshakeResultPending before Ready() fires is the only case callers need to retry.
	DriveHandshake() (HandshakeResult, error)
	// Send writes data to the peer. Implementations write the whole slice or return an error.
	Send(data []byte) error
	// Recv reads at least one byte into buf and returns how many were read. Framed
	// transports (WebSocket) read one whole message at a time and hand it out over as many
	// calls as buf's size requires, never mixing bytes of two messages in one call;
	// byte-stream transports (TCP/TLS) read whatever is currently available.
	Recv(buf []byte) (int, error)
	// SetReadDeadline bounds the next Recv call, used by the event loop's TRANSPORT_READABLE
	// wait.
	SetReadDeadline(t time.Time) error
	// SetWriteDeadline bounds the next Send call, used to honor a caller's wait option on
	// Publish/Subscribe/Unsubscribe.
	SetWriteDeadline(t time.Time) error
	// Close tears down the connection. Safe to call more than once.
	Close() error
}

// tcpTransport is the Plain transport kind from spec section 4.2: a direct TCP stream, no
// framing, no encryption. Grounded on the teacher's cmd/pub.go net.Dial("tcp", ...) call.
//
// net.Dialer.DialContext blocks, so StartConnect runs it on a background goroutine and
// signals completion on ready; this is how the blocking stdlib dialer is made to satisfy the
// spec's non-blocking start_connect/drive_handshake contract without busy-polling.
type tcpTransport struct {
	addr  string
	conn  net.Conn
	ready chan struct{}
	err   error
}

// NewTCPTransport builds a Plain transport dialing addr (host:port).
func NewTCPTransport(addr string) Transport {
	return &tcpTransport{addr: addr, ready: make(chan struct{})}
}

func (t *tcpTransport) StartConnect(ctx context.Context) (ConnectResult, error) {
	go func() {
		dialer := net.Dialer{}
		conn, err := dialer.DialContext(ctx, "tcp", t.addr)
		if err != nil {
			t.err = wrapError(ConnectFailure, err)
		} else {
			t.conn = conn
		}
		close(t.ready)
	}()
	return ConnectResultPending, nil
}

func (t *tcpTransport) Ready() <-chan struct{} {
	return t.ready
}

func (t *tcpTransport) DriveHandshake() (HandshakeResult, error) {
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

func (t *tcpTransport) Send(data []byte) error {
	_, err := t.conn.Write(data)
	if err != nil {
		return wrapError(CommunicationFailure, err)
	}
	return nil
}

func (t *tcpTransport) Recv(buf []byte) (int, error) {
	n, err := t.conn.Read(buf)
	if err != nil {
		return n, wrapError(CommunicationFailure, err)
	}
	return n, nil
}

func (t *tcpTransport) SetReadDeadline(deadline time.Time) error {
	return t.conn.SetReadDeadline(deadline)
}

func (t *tcpTransport) SetWriteDeadline(deadline time.Time) error {
	return t.conn.SetWriteDeadline(deadline)
}

func (t *tcpTransport) Close() error {
	if t.conn == nil {
		return nil
	}
	return t.conn.Close()
}

// tlsTransport is the Secure transport kind: a TCP connection dialed with tls.Dialer, so the
// TLS handshake completes as part of the dial. Grounded on axmq-ax/network/tls.go's TLSConfig.Build(), which assembles a
// *tls.Config from certificate/key/CA file paths; that assembly is exposed here as
// TLSOptions so callers build the *tls.Config the same way before handing it to the client.
type tlsTransport struct {
	addr   string
	config *tls.Config
	conn   *tls.Conn
	ready  chan struct{}
	err    error
}

// NewTLSTransport builds a Secure transport dialing addr with the given *tls.Config.
func NewTLSTransport(addr string, config *tls.Config) Transport {
	return &tlsTransport{addr: addr, config: config, ready: make(chan struct{})}
}

func (t *tlsTransport) StartConnect(ctx context.Context) (ConnectResult, error) {
	go func() {
		dialer := tls.Dialer{Config: t.config}
		conn, err := dialer.DialContext(ctx, "tcp", t.addr)
		if err != nil {
			t.err = wrapError(ConnectFailure, err)
			close(t.ready)
			return
		}
		tlsConn, ok := conn.(*tls.Conn)
		if !ok {
			conn.Close()
			t.err = wrapError(ConnectFailure, fmt.Errorf("tls.Dialer returned unexpected connection type"))
			close(t.ready)
			return
		}
		t.conn = tlsConn
		log.Debugf("tlsTransport: handshake complete with %s", addr(t.conn))
		close(t.ready)
	}()
	return ConnectResultPending, nil
}

func (t *tlsTransport) Ready() <-chan struct{} {
	return t.ready
}

func (t *tlsTransport) DriveHandshake() (HandshakeResult, error) {
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

func addr(c *tls.Conn) string {
	if c == nil {
		return "<nil>"
	}
	return c.RemoteAddr().String()
}

func (t *tlsTransport) Send(data []byte) error {
	_, err := t.conn.Write(data)
	if err != nil {
		return wrapError(CommunicationFailure, err)
	}
	return nil
}

func (t *tlsTransport) Recv(buf []byte) (int, error) {
	n, err := t.conn.Read(buf)
	if err != nil {
		return n, wrapError(CommunicationFailure, err)
	}
	return n, nil
}

func (t *tlsTransport) SetReadDeadline(deadline time.Time) error {
	return t.conn.SetReadDeadline(deadline)
}

func (t *tlsTransport) SetWriteDeadline(deadline time.Time) error {
	return t.conn.SetWriteDeadline(deadline)
}

func (t *tlsTransport) Close() error {
	if t.conn == nil {
		return nil
	}
	return t.conn.Close()
}

// TLSOptions mirrors axmq-ax/network/tls.go's TLSConfig: file paths in, a ready *tls.Config
// out, kept as a thin helper rather than a full reimplementation since Go's crypto/tls
// already does the heavy lifting.
type TLSOptions struct {
	CertFile           string
	KeyFile            string
	CAFile             string
	InsecureSkipVerify bool
	ServerName         string
}

// Build assembles a *tls.Config from the given options, loading the client certificate (if
// CertFile/KeyFile are both set) and the CA pool (if CAFile is set).
func (o TLSOptions) Build() (*tls.Config, error) {
	cfg := &tls.Config{InsecureSkipVerify: o.InsecureSkipVerify, ServerName: o.ServerName}
	if o.CertFile != "" && o.KeyFile != "" {
		cert, err := tls.LoadX509KeyPair(o.CertFile, o.KeyFile)
		if err != nil {
			return nil, wrapError(ConnectFailure, err)
		}
		cfg.Certificates = []tls.Certificate{cert}
	}
	if o.CAFile != "" {
		pool, err := loadCAPool(o.CAFile)
		if err != nil {
			return nil, wrapError(ConnectFailure, err)
		}
		cfg.RootCAs = pool
	}
	return cfg, nil
}

// loadCAPool reads a PEM encoded CA certificate bundle from path into a fresh cert pool.
func loadCAPool(path string) (*x509.CertPool, error) {
	pem, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(pem) {
		return nil, fmt.Errorf("no certificates parsed from %s", path)
	}
	return pool, nil
}
