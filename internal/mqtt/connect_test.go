package mqtt

import (
	"bytes"
	"testing"
)

// Adapted from the teacher's connect_request_test.go, updated for NewConnectRequest's new
// (request, error) signature and Packet's renamed makeMessage output.
func Test_ConnectRequest_makeMessage_and_WriteTo(t *testing.T) {
	request, err := NewConnectRequest(ClientName("MqttUnitTest"))
	checkNotError(t, err)
	msg, err := request.makeMessage()
	checkNotError(t, err)
	var buf bytes.Buffer
	msg.WriteTo(&buf)
	checkEqual(t, 26, buf.Len())
}

func Test_NewConnectRequest_rejects_WillQoS_2(t *testing.T) {
	_, err := NewConnectRequest(WillTopic("t"), WillQoS(2))
	if err == nil {
		t.Fatalf("expected an error for WillQoS(2)")
	}
}

func Test_NewConnectRequest_rejects_negative_KeepAliveSeconds(t *testing.T) {
	_, err := NewConnectRequest(KeepAliveSeconds(-1))
	if err == nil {
		t.Fatalf("expected an error for a negative keep alive")
	}
}

func Test_ConnectRequest_CleanSession_flag_round_trips(t *testing.T) {
	request, err := NewConnectRequest(CleanSession(false))
	checkNotError(t, err)
	checkTrue(t, !request.IsCleanSession())
}

func Test_ConnectRequest_connectBits_sets_Will_bits_when_WillTopic_given(t *testing.T) {
	request, err := NewConnectRequest(WillTopic("lwt"), WillMessage([]byte("bye")), WillQoS(1), WillRetain(true))
	checkNotError(t, err)
	bits := request.connectBits()
	checkTrue(t, bits&WillFlag != 0)
	checkTrue(t, bits&WillQoSOne != 0)
	checkTrue(t, bits&WillRetainFlag != 0)
}

func Test_ConnectRequest_connectBits_sets_UserName_and_Password_bits(t *testing.T) {
	request, err := NewConnectRequest(UserName("bob"), Password([]byte("secret")))
	checkNotError(t, err)
	bits := request.connectBits()
	checkTrue(t, bits&UserNameFlag != 0)
	checkTrue(t, bits&PasswordFlag != 0)
}
