package mqtt

import (
	"context"
	"io"
	"net"
	"testing"
	"time"
)

// tcpTransport, tlsTransport and wsTransport are thin adapters over net.Dial/tls.Dial/
// websocket.Dial; exercising them for real requires a listening TCP/TLS/WebSocket server,
// which these package tests don't stand up. Their behavior is covered indirectly: every
// Client test in client_test.go runs against mockTransport, which implements the same Transport
// contract these three adapters do.

func Test_mockTransport_satisfies_Transport(t *testing.T) {
	var _ Transport = newMockTransport()
}

func Test_mockTransport_Send_is_visible_to_RemoteRead(t *testing.T) {
	transport := newMockTransport()
	err := transport.Send([]byte("hello"))
	checkNotError(t, err)
	checkEqual(t, "hello", string(transport.RemoteRead()))
}

func Test_mockTransport_RemoteWrite_is_visible_to_Recv(t *testing.T) {
	transport := newMockTransport()
	transport.RemoteWrite([]byte("world"))
	buf := make([]byte, 5)
	n, err := transport.Recv(buf)
	checkNotError(t, err)
	checkEqual(t, "world", string(buf[:n]))
}

func Test_mockTransport_Recv_returns_a_net_Error_timeout_past_the_deadline(t *testing.T) {
	transport := newMockTransport()
	transport.SetReadDeadline(time.Now().Add(10 * time.Millisecond))
	buf := make([]byte, 5)
	_, err := transport.Recv(buf)
	if err == nil {
		t.Fatalf("expected a timeout error")
	}
	netErr, ok := err.(net.Error)
	if !ok || !netErr.Timeout() {
		t.Fatalf("expected a net.Error reporting Timeout(), got %v", err)
	}
}

func Test_mockTransport_Recv_reports_EOF_after_Close_with_nothing_buffered(t *testing.T) {
	transport := newMockTransport()
	transport.Close()
	buf := make([]byte, 5)
	_, err := transport.Recv(buf)
	if err != io.EOF {
		t.Fatalf("expected io.EOF after Close with nothing buffered, got %v", err)
	}
}

func Test_mockTransport_Send_after_Close_fails(t *testing.T) {
	transport := newMockTransport()
	transport.Close()
	err := transport.Send([]byte("x"))
	if err == nil {
		t.Fatalf("expected an error sending on a closed transport")
	}
}

func Test_mockTransport_StartConnect_resolves_immediately(t *testing.T) {
	transport := newMockTransport()
	result, err := transport.StartConnect(context.Background())
	checkNotError(t, err)
	checkEqual(t, ConnectResultPending, result)
	select {
	case <-transport.Ready():
	default:
		t.Fatalf("expected Ready() to already be closed after StartConnect")
	}
}

func Test_mockTransport_DriveHandshake_is_Ready_once_StartConnect_has_run(t *testing.T) {
	transport := newMockTransport()
	if _, err := transport.StartConnect(context.Background()); err != nil {
		t.Fatalf("StartConnect: %v", err)
	}
	result, err := transport.DriveHandshake()
	checkNotError(t, err)
	checkEqual(t, HandshakeResultReady, result)
}

func Test_mockTransport_DriveHandshake_is_Pending_before_StartConnect(t *testing.T) {
	transport := newMockTransport()
	result, err := transport.DriveHandshake()
	checkNotError(t, err)
	checkEqual(t, HandshakeResultPending, result)
}
