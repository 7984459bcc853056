package mqtt

// ClientState is the Client lifecycle state from spec section 4.5. Renamed and narrowed
// from the teacher's Session state constants (INITIAL/CONNECTED/DISCONNECTING/DISCONNECTED):
// DISCONNECTING has no counterpart here; Disconnect moves a Client from Connected to Idle.
type ClientState int

const (
	// Initialized is the state immediately after construction, before any connect attempt.
	Initialized ClientState = iota
	// Idle is the state a Client settles into after construction, or after any disconnect.
	Idle
	// Connecting is the state between a connect() call being accepted and CONNACK arriving.
	Connecting
	// Connected is the state after a successful CONNACK (return code 0).
	Connected
)

func (s ClientState) String() string {
	switch s {
	case Initialized:
		return "Initialized"
	case Idle:
		return "Idle"
	case Connecting:
		return "Connecting"
	case Connected:
		return "Connected"
	default:
		return "Unknown"
	}
}

// checkConnectAllowed enforces spec's "connect in any state != Idle" precondition. Initialized
// is treated as equivalent to Idle for this check (construction always transitions straight
// to Idle, but defensive callers may race a Connect against the constructor returning).
func checkConnectAllowed(s ClientState) error {
	switch s {
	case Idle, Initialized:
		return nil
	case Connecting:
		return ErrConnecting
	case Connected:
		return ErrAlreadyConnected
	default:
		return ErrInvalidState
	}
}

// checkConnectedRequired enforces spec's "publish/subscribe/unsubscribe/ping while != Connected"
// precondition.
func checkConnectedRequired(s ClientState) error {
	if s != Connected {
		return ErrNotConnected
	}
	return nil
}
