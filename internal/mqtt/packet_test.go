package mqtt

import (
	"bytes"
	"testing"
)

func Test_Packet_WriteTo_emits_fixed_header_and_body(t *testing.T) {
	p := &Packet{fixedHeader: PublishType << 4, body: []byte{1, 2, 3}}
	var buf bytes.Buffer
	n, err := p.WriteTo(&buf)
	checkNotError(t, err)
	checkEqual(t, int64(5), n)
	checkEqual(t, byte(PublishType<<4), buf.Bytes()[0])
	checkEqual(t, byte(3), buf.Bytes()[1]) // remaining length
}

func Test_Packet_WriteDupTo_sets_DUP_bit_only_for_PUBLISH(t *testing.T) {
	p := &Packet{fixedHeader: PublishType << 4, body: []byte{1}}
	var buf bytes.Buffer
	p.WriteDupTo(&buf)
	checkEqual(t, byte(PublishType<<4|DupBit), buf.Bytes()[0])

	p2 := &Packet{fixedHeader: PublishAckType << 4, body: []byte{0, 1}}
	var buf2 bytes.Buffer
	p2.WriteDupTo(&buf2)
	checkEqual(t, byte(PublishAckType<<4), buf2.Bytes()[0])
}

func Test_TryParsePacket_reports_Partial_on_empty_buffer(t *testing.T) {
	result, _, err := TryParsePacket(nil)
	checkNotError(t, err)
	checkEqual(t, Partial, result)
}

func Test_TryParsePacket_reports_Partial_when_body_not_fully_buffered(t *testing.T) {
	// fixed header + remaining length of 3, but only 1 body byte present
	result, _, err := TryParsePacket([]byte{PublishType << 4, 3, 0x11})
	checkNotError(t, err)
	checkEqual(t, Partial, result)
}

func Test_TryParsePacket_parses_a_complete_packet_and_reports_Consumed(t *testing.T) {
	buf := []byte{PublishAckType << 4, 2, 0x00, 0x07, 0xFF /* trailing byte of next packet */}
	result, parsed, err := TryParsePacket(buf)
	checkNotError(t, err)
	checkEqual(t, Complete, result)
	checkEqual(t, byte(PublishAckType), parsed.Type)
	checkEqual(t, 4, parsed.Consumed)
	checkEqual(t, 2, len(parsed.Body))
}

func Test_TryParsePacket_reports_Invalid_on_bad_remaining_length(t *testing.T) {
	result, _, err := TryParsePacket([]byte{PublishType << 4, 0x80, 0x80, 0x80, 0x80})
	checkEqual(t, Invalid, result)
	if err == nil {
		t.Errorf("expected an error for an over-long remaining length")
	}
}

func Test_ParsePublish_QoS0_has_no_packet_id(t *testing.T) {
	var body bytes.Buffer
	EncodeStringTo("a/b", &body)
	body.WriteString("payload")
	parsed, err := ParsePublish(body.Bytes(), 0)
	checkNotError(t, err)
	checkEqual(t, "a/b", string(parsed.Topic))
	checkEqual(t, 0, parsed.PacketID)
	checkEqual(t, "payload", string(parsed.Payload))
}

func Test_ParsePublish_QoS1_extracts_packet_id(t *testing.T) {
	var body bytes.Buffer
	EncodeStringTo("a/b", &body)
	Encode16BitIntTo(42, &body)
	body.WriteString("payload")
	parsed, err := ParsePublish(body.Bytes(), 1)
	checkNotError(t, err)
	checkEqual(t, 42, parsed.PacketID)
	checkEqual(t, "payload", string(parsed.Payload))
}

func Test_ParseConnAck_rejects_wrong_length(t *testing.T) {
	_, err := ParseConnAck([]byte{0})
	if err == nil {
		t.Errorf("expected ErrInvalidPacket for a 1 byte CONNACK body")
	}
}

func Test_ParseConnAck_rejects_return_code_above_five(t *testing.T) {
	_, err := ParseConnAck([]byte{0, 6})
	if err == nil {
		t.Errorf("expected ErrInvalidPacket for an out-of-range return code")
	}
}

func Test_ParseConnAck_reads_SessionPresent_and_ReturnCode(t *testing.T) {
	parsed, err := ParseConnAck([]byte{1, ConnectionAccepted})
	checkNotError(t, err)
	checkTrue(t, parsed.SessionPresent)
	checkEqual(t, byte(ConnectionAccepted), parsed.ReturnCode)
}
