package mqtt

import "testing"

// Small check helpers in the teacher's own testing idiom (CheckEqual/CheckNotError/
// CheckTrue/CheckNil/ShouldPanic), kept in-package rather than as a separate testutils
// module: the teacher's own tests imported one from github.com/hlindberg/mezquit/testutils
// (and, in one file, a copy-paste artifact importing github.com/puppetlabs/scarp/testutils
// instead), but that module was never part of the retrieved source. Reconstructed here from
// the call sites in session_test.go/in_flight_test.go/connect_request_test.go/
// mock_connection_test.go.

func checkEqual(t *testing.T, want, got interface{}) {
	t.Helper()
	if want != got {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func checkNotError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Errorf("expected no error, got %s", err)
	}
}

func checkTrue(t *testing.T, value bool) {
	t.Helper()
	if !value {
		t.Errorf("expected true, got false")
	}
}

func checkNil(t *testing.T, value interface{}) {
	t.Helper()
	if value != nil {
		t.Errorf("expected nil, got %v", value)
	}
}

func shouldPanic(t *testing.T) {
	t.Helper()
	if r := recover(); r == nil {
		t.Errorf("expected a panic, did not get one")
	}
}
