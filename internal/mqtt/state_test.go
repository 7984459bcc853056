package mqtt

import "testing"

func Test_checkConnectAllowed_permits_Idle_and_Initialized(t *testing.T) {
	checkNotError(t, checkConnectAllowed(Idle))
	checkNotError(t, checkConnectAllowed(Initialized))
}

func Test_checkConnectAllowed_rejects_Connecting_with_ErrConnecting(t *testing.T) {
	err := checkConnectAllowed(Connecting)
	if err != ErrConnecting {
		t.Errorf("expected ErrConnecting, got %v", err)
	}
}

func Test_checkConnectAllowed_rejects_Connected_with_ErrAlreadyConnected(t *testing.T) {
	err := checkConnectAllowed(Connected)
	if err != ErrAlreadyConnected {
		t.Errorf("expected ErrAlreadyConnected, got %v", err)
	}
}

func Test_checkConnectedRequired_passes_only_when_Connected(t *testing.T) {
	checkNotError(t, checkConnectedRequired(Connected))
	for _, s := range []ClientState{Idle, Initialized, Connecting} {
		if err := checkConnectedRequired(s); err != ErrNotConnected {
			t.Errorf("expected ErrNotConnected for state %s, got %v", s, err)
		}
	}
}

func Test_ClientState_String_is_defined_for_every_known_state(t *testing.T) {
	for _, s := range []ClientState{Initialized, Idle, Connecting, Connected} {
		if s.String() == "Unknown" {
			t.Errorf("expected a named String() for state %d", s)
		}
	}
}
