package mqtt

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// readBufferSize is the size of the scratch buffer the event loop reads into on each
// Transport.Recv call before appending it to the reassembly chain.
const readBufferSize = 4096

// pollInterval bounds how long a single Transport.Recv blocks before the event loop checks
// its other event sources (keepalive ticks, stop requests). It is the Go-channel-free
// stand-in for a select() across transport fd and timers that the embedded original would
// use; here the event loop cooperatively polls instead, the way a single goroutine driving
// one connection naturally would in this stack.
const pollInterval = 200 * time.Millisecond

// ClientOptions configures a Client for its whole lifetime, spanning possibly many
// Connect/Disconnect cycles. Grounded on the teacher's SessionOptions, expanded with the
// bounds and callback slots SPEC_FULL.md's Client entity requires.
type ClientOptions struct {
	ClientName    string
	MaxInFlight   int // 0 means unbounded; bounds outboundStore depth, see ErrQueueFull
	MaxBuffers    int // stored only: the Client does not allocate from a bufferPool, so no bound is applied
	ConnectTimeout time.Duration

	onReceive        func(count int)
	onConnectResult  func(err error)
	onDisconnect     func(err error)
	onAck            func(ackType AckType, packetID int)
	onRawPacket      func(packetType byte, body []byte)
}

// ClientOption is an options-modifying function for NewClient.
type ClientOption func(*ClientOptions) error

// DefaultClientOptions returns the defaults for a new Client: a random client name, no
// in-flight or buffer bound, and a 10 second connect timeout.
func DefaultClientOptions() ClientOptions {
	return ClientOptions{ClientName: RandomClientID(), ConnectTimeout: 10 * time.Second}
}

// WithClientName sets the client identifier sent in CONNECT.
func WithClientName(name string) ClientOption {
	return func(o *ClientOptions) error {
		o.ClientName = name
		return nil
	}
}

// WithMaxInFlight bounds how many unacknowledged QoS>=1 publishes/sub/unsub requests may be
// outstanding at once before Publish/Subscribe/Unsubscribe return ErrQueueFull.
func WithMaxInFlight(n int) ClientOption {
	return func(o *ClientOptions) error {
		if n < 0 {
			return fmt.Errorf("MaxInFlight cannot be negative, got %d", n)
		}
		o.MaxInFlight = n
		return nil
	}
}

// WithMaxBuffers records ClientOptions.MaxBuffers. The Client reads and writes through its
// own scratch buffers and never draws from a bufferPool, so this setting bounds nothing and
// no Client operation returns ErrPoolExhausted.
func WithMaxBuffers(n int) ClientOption {
	return func(o *ClientOptions) error {
		if n < 0 {
			return fmt.Errorf("MaxBuffers cannot be negative, got %d", n)
		}
		o.MaxBuffers = n
		return nil
	}
}

// WithConnectTimeout bounds how long Connect waits for a CONNACK before giving up.
func WithConnectTimeout(d time.Duration) ClientOption {
	return func(o *ClientOptions) error {
		o.ConnectTimeout = d
		return nil
	}
}

// WithOnReceive registers the callback invoked for every inbound PUBLISH, once it has been
// enqueued for MessageGet. cb receives the inbound queue's depth counter (never the message
// itself), per spec's on_receive(count) contract; callers retrieve the message with MessageGet.
func WithOnReceive(cb func(count int)) ClientOption {
	return func(o *ClientOptions) error {
		o.onReceive = cb
		return nil
	}
}

// WithOnConnectResult registers the callback invoked once Connect's CONNACK wait resolves,
// nil error on ConnectionAccepted.
func WithOnConnectResult(cb func(err error)) ClientOption {
	return func(o *ClientOptions) error {
		o.onConnectResult = cb
		return nil
	}
}

// WithOnDisconnect registers the callback invoked when the event loop tears the connection
// down, whether by peer close, ping timeout, protocol violation, or a caller-requested
// Disconnect (in which case err is nil).
func WithOnDisconnect(cb func(err error)) ClientOption {
	return func(o *ClientOptions) error {
		o.onDisconnect = cb
		return nil
	}
}

// WithOnAck registers the callback invoked whenever a PUBACK/SUBACK/UNSUBACK is matched
// against an outstanding request.
func WithOnAck(cb func(ackType AckType, packetID int)) ClientOption {
	return func(o *ClientOptions) error {
		o.onAck = cb
		return nil
	}
}

// WithOnRawPacket registers a callback invoked for every packet the event loop parses,
// before any type-specific handling - an escape hatch for diagnostics and tests.
func WithOnRawPacket(cb func(packetType byte, body []byte)) ClientOption {
	return func(o *ClientOptions) error {
		o.onRawPacket = cb
		return nil
	}
}

// Client is the protocol engine from spec section 4.7: one Transport, one outboundStore,
// one inboundStore, one keepaliveEngine, and a single event-loop goroutine tying them
// together. Renamed and substantially reworked from the teacher's Session: Session wrote
// directly to a blocking net.Conn via per-kind goroutines (startSendToBroker,
// handleMessages) fanning out over channels; Client instead drives everything from one
// loop over a Transport, the way spec's event loop requires, and adds the inbound QoS 0/1
// PUBLISH handling the teacher's Session never implemented at all.
type Client struct {
	options ClientOptions

	mu        sync.RWMutex
	state     ClientState
	transport Transport
	sendMu    sync.Mutex

	outbound  *outboundStore
	inbound   *inboundStore
	keepalive *keepaliveEngine

	stopCh    chan struct{}
	loopDone  chan struct{}
}

// NewClient constructs a Client ready to Connect. It does not dial anything yet.
func NewClient(options ...ClientOption) (*Client, error) {
	opts := DefaultClientOptions()
	for _, fOpt := range options {
		if err := fOpt(&opts); err != nil {
			return nil, wrapError(InvalidParameter, err)
		}
	}
	return &Client{
		options: opts,
		state:   Idle,
		outbound: newOutboundStore(opts.MaxInFlight),
		inbound:  newInboundStore(),
	}, nil
}

// State reports the Client's current lifecycle state.
func (c *Client) State() ClientState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Connect dials the given Transport, performs the CONNECT/CONNACK handshake, and on success
// starts the event loop. It blocks until a CONNACK arrives, the ConnectTimeout elapses, or
// the transport fails. Queued SUBSCRIBE/UNSUBSCRIBE entries are dropped on every successful
// connect. When CleanSession is false, every queued publish entry is resent with DUP=1 once
// CONNACK accepts the connection, whatever its session_present bit says.
func (c *Client) Connect(ctx context.Context, transport Transport, options ...ConnectOption) error {
	c.mu.Lock()
	if err := checkConnectAllowed(c.state); err != nil {
		c.mu.Unlock()
		return err
	}
	c.state = Connecting
	c.mu.Unlock()

	connectOpts := append(append([]ConnectOption{}, options...), ClientName(c.options.ClientName))
	request, err := NewConnectRequest(connectOpts...)
	if err != nil {
		c.setState(Idle)
		return err
	}

	dialCtx, cancel := context.WithTimeout(ctx, c.options.ConnectTimeout)
	defer cancel()
	if _, err := transport.StartConnect(dialCtx); err != nil {
		c.setState(Idle)
		c.fireConnectResult(err)
		return err
	}
	if err := c.awaitTransportReady(dialCtx, transport); err != nil {
		c.setState(Idle)
		c.fireConnectResult(err)
		return err
	}

	if request.IsCleanSession() {
		c.outbound.purgeAll()
		c.inbound.purgeAll()
	}

	connAck, err := c.handshake(transport, request)
	if err != nil {
		transport.Close()
		c.setState(Idle)
		c.fireConnectResult(err)
		return err
	}

	c.mu.Lock()
	c.transport = transport
	c.state = Connected
	c.stopCh = make(chan struct{})
	c.loopDone = make(chan struct{})
	c.keepalive = newKeepaliveEngine(request.options.KeepAliveSeconds)
	c.mu.Unlock()

	c.keepalive.Start()
	go c.runEventLoop()

	if dropped := c.outbound.purgeSubAndUnsub(); dropped > 0 {
		log.Infof("Client: dropped %d queued sub/unsub entries on connect", dropped)
	}
	if !request.IsCleanSession() {
		log.Debugf("Client: resending in-flight publishes after reconnect (session_present=%v)", connAck.SessionPresent)
		c.outbound.eachWaitingPublish(func(packetID int, msg MessageWriter) {
			var buf bytes.Buffer
			if _, err := msg.WriteDupTo(&buf); err == nil {
				c.transportSend(context.Background(), buf.Bytes())
			}
		})
	}

	c.fireConnectResult(nil)
	return nil
}

// handshake sends CONNECT and waits for CONNACK, enforcing spec's "first packet after
// CONNECT must be CONNACK" and ConnectTimeout.
func (c *Client) handshake(transport Transport, request *ConnectRequest) (ParsedConnAck, error) {
	if err := transport.SetReadDeadline(time.Now().Add(c.options.ConnectTimeout)); err != nil {
		return ParsedConnAck{}, wrapError(ConnectFailure, err)
	}

	var out bytes.Buffer
	if _, err := request.WriteTo(&out); err != nil {
		return ParsedConnAck{}, wrapError(ConnectFailure, err)
	}
	log.Debugf("Broker <- CONNECT(%s)", request.options.ClientName)
	if err := transport.Send(out.Bytes()); err != nil {
		return ParsedConnAck{}, wrapError(ConnectFailure, err)
	}

	var chain bufferChain
	readBuf := make([]byte, readBufferSize)
	for {
		result, parsed, err := chain.TryNext()
		if err != nil {
			return ParsedConnAck{}, wrapError(ServerMessageFailure, err)
		}
		if result == Complete {
			if parsed.Type != ConnAckType {
				return ParsedConnAck{}, wrapError(ServerMessageFailure, fmt.Errorf("expected CONNACK, got packet type %d", parsed.Type))
			}
			connAck, err := ParseConnAck(parsed.Body)
			if err != nil {
				return ParsedConnAck{}, wrapError(ServerMessageFailure, err)
			}
			log.Debugf("Broker -> CONNACK(sp=%v, rc=%d)", connAck.SessionPresent, connAck.ReturnCode)
			if connAck.ReturnCode != ConnectionAccepted {
				return ParsedConnAck{}, connAckRefusalError(connAck.ReturnCode)
			}
			if request.IsCleanSession() && connAck.SessionPresent {
				return ParsedConnAck{}, wrapError(ServerMessageFailure, fmt.Errorf("broker returned session_present=true for a clean session connect"))
			}
			return connAck, nil
		}
		n, err := transport.Recv(readBuf)
		if err != nil {
			return ParsedConnAck{}, wrapError(ConnectFailure, err)
		}
		chain.Append(readBuf[:n])
	}
}

// awaitTransportReady drives the asynchronous connect path from spec section 4.2/4.5:
// StartConnect has already been called and returned Pending; this blocks (synchronously,
// from Connect's point of view) until the transport's Ready() channel fires and
// DriveHandshake reports the connection usable, the given context expires, or the transport
// reports a connect failure.
func (c *Client) awaitTransportReady(ctx context.Context, transport Transport) error {
	select {
	case <-transport.Ready():
	case <-ctx.Done():
		return wrapError(ConnectFailure, ctx.Err())
	}
	for {
		result, err := transport.DriveHandshake()
		if err != nil {
			return err
		}
		if result == HandshakeResultReady {
			return nil
		}
		select {
		case <-ctx.Done():
			return wrapError(ConnectFailure, ctx.Err())
		case <-time.After(time.Millisecond):
		}
	}
}

func (c *Client) setState(s ClientState) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

func (c *Client) fireConnectResult(err error) {
	if c.options.onConnectResult != nil {
		c.options.onConnectResult(err)
	}
}

// transportSend serializes writes to the Transport, since Publish/Subscribe/Unsubscribe and
// the event loop's own keepalive/ack traffic may all want to write concurrently. ctx's
// deadline (spec's wait option: a deadline is a tick-count wait, context.Background() is
// WaitForever) bounds the write; a deadline exceeded while writing surfaces as ErrTimeout.
func (c *Client) transportSend(ctx context.Context, data []byte) error {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	c.mu.RLock()
	transport := c.transport
	c.mu.RUnlock()
	if transport == nil {
		return ErrNotConnected
	}
	if deadline, ok := ctx.Deadline(); ok {
		if err := transport.SetWriteDeadline(deadline); err != nil {
			return wrapError(CommunicationFailure, err)
		}
		defer transport.SetWriteDeadline(time.Time{})
	}
	if err := transport.Send(data); err != nil {
		if isTimeout(err) {
			return ErrTimeout
		}
		return err
	}
	if c.keepalive != nil {
		c.keepalive.RefreshDeadline()
	}
	return nil
}

// Publish sends a PUBLISH built from the given options. QoS >= 1 publishes are assigned a
// packet id and registered in the outbound store before being written; ErrQueueFull is
// returned if MaxInFlight is already reached. ctx carries the caller's wait option for the
// underlying transport write, per spec section 5.
func (c *Client) Publish(ctx context.Context, options ...PublishOption) error {
	if err := checkConnectedRequired(c.State()); err != nil {
		return err
	}
	request, err := NewPublishRequest(options...)
	if err != nil {
		return err
	}
	if request.options.QoS > 0 && request.options.PacketID == 0 {
		request.options.PacketID = c.outbound.nextPacketID()
	}
	msg := request.makeMessage()
	if request.options.QoS > 0 {
		if err := c.outbound.registerWaiting(request.options.PacketID, msg, publishEntry); err != nil {
			return err
		}
	}
	var buf bytes.Buffer
	if _, err := msg.WriteTo(&buf); err != nil {
		return wrapError(Internal, err)
	}
	if err := c.transportSend(ctx, buf.Bytes()); err != nil {
		return wrapError(CommunicationFailure, err)
	}
	return nil
}

// Subscribe sends a SUBSCRIBE for a single topic filter and registers it in the outbound
// store awaiting SUBACK. ctx carries the caller's wait option for the underlying transport
// write, per spec section 5.
func (c *Client) Subscribe(ctx context.Context, topic string, qos int) error {
	if err := checkConnectedRequired(c.State()); err != nil {
		return err
	}
	packetID := c.outbound.nextPacketID()
	request, err := NewSubscribeRequest(packetID, topic, qos)
	if err != nil {
		c.outbound.releaseWaiting(packetID)
		return err
	}
	msg := request.makeMessage()
	if err := c.outbound.registerWaiting(packetID, msg, subscribeEntry); err != nil {
		return err
	}
	var buf bytes.Buffer
	if _, err := msg.WriteTo(&buf); err != nil {
		return wrapError(Internal, err)
	}
	return c.transportSend(ctx, buf.Bytes())
}

// Unsubscribe sends an UNSUBSCRIBE for a single topic filter and registers it in the
// outbound store awaiting UNSUBACK. ctx carries the caller's wait option for the underlying
// transport write, per spec section 5.
func (c *Client) Unsubscribe(ctx context.Context, topic string) error {
	if err := checkConnectedRequired(c.State()); err != nil {
		return err
	}
	packetID := c.outbound.nextPacketID()
	request := NewUnsubscribeRequest(packetID, topic)
	msg := request.makeMessage()
	if err := c.outbound.registerWaiting(packetID, msg, unsubscribeEntry); err != nil {
		return err
	}
	var buf bytes.Buffer
	if _, err := msg.WriteTo(&buf); err != nil {
		return wrapError(Internal, err)
	}
	return c.transportSend(ctx, buf.Bytes())
}

// MessageGet pops the oldest received PUBLISH into the caller-supplied buffers. See
// inboundStore.messageGet for the exact semantics.
func (c *Client) MessageGet(topicBuf, payloadBuf []byte) (int, int, error) {
	return c.inbound.messageGet(topicBuf, payloadBuf)
}

// Disconnect sends DISCONNECT, stops the event loop and closes the transport. It waits at
// most timeout plus one second for the event loop to exit; nothing outstanding is drained,
// since transportSend is synchronous. When the Client is not Connected it returns nil
// without sending anything.
func (c *Client) Disconnect(timeout time.Duration) error {
	c.mu.Lock()
	if c.state != Connected {
		c.mu.Unlock()
		return nil
	}
	transport := c.transport
	stopCh := c.stopCh
	loopDone := c.loopDone
	c.mu.Unlock()

	var buf bytes.Buffer
	NewDisconnectMessage().WriteTo(&buf)
	c.transportSend(context.Background(), buf.Bytes())

	close(stopCh)
	select {
	case <-loopDone:
	case <-time.After(timeout + time.Second):
	}
	if c.keepalive != nil {
		c.keepalive.Stop()
	}
	transport.Close()
	c.setState(Idle)
	return nil
}

// Close tears the connection down without sending DISCONNECT, for abrupt shutdown paths
// (process exit, fatal errors). Safe to call even if never connected.
func (c *Client) Close() error {
	c.mu.RLock()
	state := c.state
	transport := c.transport
	c.mu.RUnlock()
	if state != Connected {
		return nil
	}
	close(c.stopCh)
	<-c.loopDone
	if c.keepalive != nil {
		c.keepalive.Stop()
	}
	c.setState(Idle)
	return transport.Close()
}

// runEventLoop is the single cooperative worker from spec section 4.7: it polls the
// transport for inbound bytes, reassembles packets, dispatches acks and inbound publishes,
// and reacts to keepalive events, until told to stop or the peer goes away.
func (c *Client) runEventLoop() {
	defer close(c.loopDone)

	c.mu.RLock()
	transport := c.transport
	keepalive := c.keepalive
	c.mu.RUnlock()

	var chain bufferChain
	readBuf := make([]byte, readBufferSize)
	var teardownErr error

	// transportReady delivers TRANSPORT_READY per spec section 4.7's dispatch order: Connect's
	// own awaitTransportReady call already waited on this channel synchronously before starting
	// the loop, so it is always ready to fire on the loop's first iteration. Nil-ing it out
	// after it fires once turns the case dormant for the rest of the loop's lifetime instead of
	// letting a closed channel spin the select.
	transportReady := transport.Ready()

loop:
	for {
		select {
		case <-c.stopCh:
			break loop
		case <-transportReady:
			log.Debugf("Client event loop: TRANSPORT_READY")
			transportReady = nil
			continue
		case ev := <-keepalive.Events():
			if err := c.handleKeepaliveEvent(ev); err != nil {
				teardownErr = err
				break loop
			}
			continue
		default:
		}

		if err := transport.SetReadDeadline(time.Now().Add(pollInterval)); err != nil {
			teardownErr = err
			break loop
		}
		n, err := transport.Recv(readBuf)
		if err != nil {
			if isTimeout(err) {
				continue
			}
			log.Debugf("Client event loop: transport closed: %s", err)
			teardownErr = err
			break loop
		}
		chain.Append(readBuf[:n])

		for {
			result, parsed, perr := chain.TryNext()
			if perr != nil {
				teardownErr = wrapError(ServerMessageFailure, perr)
				break loop
			}
			if result != Complete {
				break
			}
			if dispatchErr := c.dispatchPacket(parsed); dispatchErr != nil {
				teardownErr = dispatchErr
				break loop
			}
		}
	}

	c.mu.Lock()
	c.state = Idle
	c.mu.Unlock()

	if c.options.onDisconnect != nil {
		c.options.onDisconnect(teardownErr)
	}
}

func (c *Client) handleKeepaliveEvent(ev keepaliveEvent) error {
	switch ev {
	case keepaliveDue:
		if err := c.transportSend(context.Background(), mustBytes(NewPingReqMessage())); err != nil {
			return wrapError(CommunicationFailure, err)
		}
		c.keepalive.MarkPingSent()
		log.Debugf("Broker <- PINGREQ")
		return nil
	case keepalivePingTimeout:
		return wrapError(Timeout, fmt.Errorf("PINGREQ not answered within timeout"))
	default:
		return nil
	}
}

// dispatchPacket fans a fully reassembled packet out to the right handler, per spec's packet
// type table in section 4.1/4.7.
func (c *Client) dispatchPacket(p ParsedPacket) error {
	if c.options.onRawPacket != nil {
		c.options.onRawPacket(p.Type, p.Body)
	}
	switch p.Type {
	case PublishType:
		return c.handleInboundPublish(p)
	case PublishAckType:
		return c.handleSimpleAck(p.Body, publishEntry, AckPuback)
	case PublishReceivedType:
		// Legacy stub: a broker would only send this for a QoS 2 publish, which this
		// client never sends, see SPEC_FULL.md section 9. Silently ignored rather than
		// torn down, since some brokers may still speak it for reasons outside this
		// client's control.
		log.Debugf("Broker -> PUBREC (unexpected, QoS 2 publish never sent) - ignored")
		return nil
	case PublishCompleteType:
		return c.handleSimpleAck(p.Body, pubrecStubEntry, AckPuback)
	case SubAckType:
		return c.handleSubAck(p.Body)
	case UnsubAckType:
		return c.handleUnsubAck(p.Body)
	case PingRespType:
		c.keepalive.MarkPingResponseReceived()
		log.Debugf("Broker -> PINGRESP")
		return nil
	case DisconnectType:
		return wrapError(ServerMessageFailure, fmt.Errorf("broker sent DISCONNECT, which is client-to-server only"))
	default:
		return wrapError(ServerMessageFailure, fmt.Errorf("unexpected packet type %d from broker", p.Type))
	}
}

// handleInboundPublish implements the inbound PUBLISH path the teacher's Session never had:
// QoS 0 is enqueued and delivered as-is; QoS 1 is enqueued, delivered, and PUBACK'd; QoS 2 is
// rejected outright per SPEC_FULL.md section 9's open-question decision rather than
// implementing the legacy PUBREC/PUBREL/PUBCOMP receive sequence.
func (c *Client) handleInboundPublish(p ParsedPacket) error {
	qos := 0
	if p.Flags&QoSOne != 0 {
		qos = 1
	} else if p.Flags&QoSTwo != 0 {
		return wrapError(ServerMessageFailure, fmt.Errorf("inbound QoS 2 PUBLISH is not supported"))
	}

	publish, err := ParsePublish(p.Body, qos)
	if err != nil {
		return wrapError(ServerMessageFailure, err)
	}

	depth := c.inbound.enqueue(publish.Topic, publish.Payload)
	log.Debugf("Broker -> PUBLISH(topic=%s, qos=%d) queued, depth=%d", publish.Topic, qos, depth)

	if c.options.onReceive != nil {
		c.options.onReceive(depth)
	}

	if qos == 1 {
		ack := NewPubAckMessage(publish.PacketID)
		if err := c.transportSend(context.Background(), mustBytes(ack)); err != nil {
			return wrapError(CommunicationFailure, err)
		}
	}
	return nil
}

func (c *Client) handleSimpleAck(body []byte, kind entryKind, ackType AckType) error {
	packetID, err := ParsePacketIDBody(body)
	if err != nil {
		return wrapError(ServerMessageFailure, err)
	}
	entry := c.outbound.matchAndRelease(packetID, kind)
	if entry == nil {
		log.Debugf("ack for packetID %d did not match any waiting %v entry - ignored", packetID, kind)
		return nil
	}
	if c.options.onAck != nil {
		c.options.onAck(ackType, packetID)
	}
	return nil
}

func (c *Client) handleSubAck(body []byte) error {
	parsed, err := ParseSubAck(body)
	if err != nil {
		return wrapError(ServerMessageFailure, err)
	}
	entry := c.outbound.matchAndRelease(parsed.PacketID, subscribeEntry)
	if entry == nil {
		log.Debugf("SUBACK for packetID %d did not match any waiting subscribe - ignored", parsed.PacketID)
		return nil
	}
	if parsed.ReturnCode == subAckFailure {
		log.Debugf("Broker -> SUBACK(%d) refused", parsed.PacketID)
	}
	if c.options.onAck != nil {
		c.options.onAck(AckSuback, parsed.PacketID)
	}
	return nil
}

func (c *Client) handleUnsubAck(body []byte) error {
	packetID, err := ParseUnsubAck(body)
	if err != nil {
		return wrapError(ServerMessageFailure, err)
	}
	entry := c.outbound.matchAndRelease(packetID, unsubscribeEntry)
	if entry == nil {
		log.Debugf("UNSUBACK for packetID %d did not match any waiting unsubscribe - ignored", packetID)
		return nil
	}
	if c.options.onAck != nil {
		c.options.onAck(AckUnsuback, packetID)
	}
	return nil
}

// isTimeout reports whether err (possibly a wrapped *Error) was caused by a net.Error
// deadline expiry, as opposed to a real transport failure.
func isTimeout(err error) bool {
	var mqErr *Error
	if e, ok := err.(*Error); ok {
		mqErr = e
	}
	var cause error = err
	if mqErr != nil {
		cause = mqErr.Cause
	}
	netErr, ok := cause.(net.Error)
	return ok && netErr.Timeout()
}

func mustBytes(w MessageWriter) []byte {
	var buf bytes.Buffer
	w.WriteTo(&buf)
	return buf.Bytes()
}
