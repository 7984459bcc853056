package mqtt

import "testing"

func Test_NewPubAckMessage_has_reserved_flags_and_packet_id_body(t *testing.T) {
	msg := NewPubAckMessage(7)
	checkEqual(t, byte(PublishAckType), msg.Type())
	checkEqual(t, byte(Reserved), msg.Flags())
	id, err := ParsePacketIDBody(msg.Body())
	checkNotError(t, err)
	checkEqual(t, 7, id)
}

func Test_NewPubRecMessage_has_reserved_flags(t *testing.T) {
	msg := NewPubRecMessage(3)
	checkEqual(t, byte(PublishReceivedType), msg.Type())
	checkEqual(t, byte(Reserved), msg.Flags())
}

func Test_NewPubRelMessage_sets_the_PublishReleaseReserved_flags(t *testing.T) {
	msg := NewPubRelMessage(9)
	checkEqual(t, byte(PublishReleaseType), msg.Type())
	checkEqual(t, byte(PublishReleaseReserved), msg.Flags())
}

func Test_NewPubCompMessage_has_reserved_flags_and_packet_id_body(t *testing.T) {
	msg := NewPubCompMessage(5)
	checkEqual(t, byte(PublishCompleteType), msg.Type())
	checkEqual(t, byte(Reserved), msg.Flags())
	id, err := ParsePacketIDBody(msg.Body())
	checkNotError(t, err)
	checkEqual(t, 5, id)
}

func Test_ParsePacketIDBody_rejects_wrong_length(t *testing.T) {
	_, err := ParsePacketIDBody([]byte{0})
	if err == nil {
		t.Fatalf("expected an error for a 1 byte body")
	}
	_, err = ParsePacketIDBody([]byte{0, 1, 2})
	if err == nil {
		t.Fatalf("expected an error for a 3 byte body")
	}
}

func Test_NewPingReqMessage_is_a_zero_length_packet(t *testing.T) {
	msg := NewPingReqMessage()
	checkEqual(t, byte(PingReqType), msg.Type())
	checkEqual(t, 0, len(msg.Body()))
}

func Test_NewPingRespMessage_is_a_zero_length_packet(t *testing.T) {
	msg := NewPingRespMessage()
	checkEqual(t, byte(PingRespType), msg.Type())
	checkEqual(t, 0, len(msg.Body()))
}

func Test_NewDisconnectMessage_is_a_zero_length_packet(t *testing.T) {
	msg := NewDisconnectMessage()
	checkEqual(t, byte(DisconnectType), msg.Type())
	checkEqual(t, 0, len(msg.Body()))
}
