package mqtt

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// keepaliveEvent is posted to the Client's event loop by the keepalive engine. The engine
// itself never touches the transport or session state directly - spec section 4.6/4.7 make
// the event loop the sole actor, the engine only a tick source.
type keepaliveEvent int

const (
	// keepaliveDue means the client should send a PINGREQ now and mark one outstanding.
	keepaliveDue keepaliveEvent = iota
	// keepalivePingTimeout means an outstanding PINGREQ was not answered within pingTimeout.
	keepalivePingTimeout
)

// keepaliveEngine is the Keepalive & Timeout Engine from spec section 4.6: one ticker per
// Client, ticking at timerTick resolution, emitting keepaliveDue/keepalivePingTimeout events.
// Adapted from axmq-ax/network/keepalive.go's KeepAlive (ticker + context + WaitGroup
// lifecycle, lastPing/lastPong bookkeeping) with the ping/pong action itself moved out to
// the event loop.
type keepaliveEngine struct {
	interval    time.Duration // keepalive interval, 0 disables the engine
	pingTimeout time.Duration
	timerTick   time.Duration

	mu              sync.Mutex
	sessionDeadline time.Time
	pingSentTime    time.Time
	pingOutstanding bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	events chan keepaliveEvent
}

// newKeepaliveEngine constructs an engine for the given keepalive interval (seconds, 0
// disables it). pingTimeout and timerTick default to 1 second each per spec.
func newKeepaliveEngine(keepaliveSeconds int) *keepaliveEngine {
	return &keepaliveEngine{
		interval:    time.Duration(keepaliveSeconds) * time.Second,
		pingTimeout: 1 * time.Second,
		timerTick:   1 * time.Second,
		events:      make(chan keepaliveEvent, 1),
	}
}

// Events returns the channel the event loop should select on for keepalive events.
func (k *keepaliveEngine) Events() <-chan keepaliveEvent {
	return k.events
}

// Start begins ticking. No-op if the keepalive interval is 0 (disabled).
func (k *keepaliveEngine) Start() {
	if k.interval <= 0 {
		return
	}
	k.ctx, k.cancel = context.WithCancel(context.Background())
	k.mu.Lock()
	k.sessionDeadline = time.Now().Add(k.interval)
	k.mu.Unlock()

	k.wg.Add(1)
	go k.tickLoop()
}

// Stop halts the ticker and waits for its goroutine to exit. Safe to call even if Start was
// never called (e.g. keepalive disabled).
func (k *keepaliveEngine) Stop() {
	if k.cancel == nil {
		return
	}
	k.cancel()
	k.wg.Wait()
}

func (k *keepaliveEngine) tickLoop() {
	defer k.wg.Done()
	ticker := time.NewTicker(k.timerTick)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			k.tick()
		case <-k.ctx.Done():
			return
		}
	}
}

// tick implements spec section 4.6's per-tick decision: a timed-out PINGREQ wins over a
// newly-due one.
func (k *keepaliveEngine) tick() {
	k.mu.Lock()
	now := time.Now()

	if k.pingOutstanding && now.Sub(k.pingSentTime) >= k.pingTimeout {
		k.mu.Unlock()
		log.Debugf("keepalive: PINGREQ not answered within %s - timing out", k.pingTimeout)
		k.events <- keepalivePingTimeout
		return
	}

	if k.sessionDeadline.Sub(now) <= k.timerTick {
		k.mu.Unlock()
		log.Debugf("keepalive: within one tick of the deadline - sending PINGREQ")
		k.events <- keepaliveDue
		return
	}
	k.mu.Unlock()
}

// MarkPingSent records that a PINGREQ was just sent. Re-sending while one is already
// outstanding does not reset pingSentTime, per spec.
func (k *keepaliveEngine) MarkPingSent() {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.pingOutstanding {
		return
	}
	k.pingOutstanding = true
	k.pingSentTime = time.Now()
}

// MarkPingResponseReceived clears the ping-outstanding flag on a PINGRESP.
func (k *keepaliveEngine) MarkPingResponseReceived() {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.pingOutstanding = false
}

// RefreshDeadline is called after every successful outbound packet to push the keepalive
// deadline out, per spec's "every successful outbound packet refreshes session_deadline".
func (k *keepaliveEngine) RefreshDeadline() {
	if k.interval <= 0 {
		return
	}
	k.mu.Lock()
	defer k.mu.Unlock()
	k.sessionDeadline = time.Now().Add(k.interval)
}
