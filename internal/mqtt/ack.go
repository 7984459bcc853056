package mqtt

import "bytes"

// AckType identifies which acknowledgment control packet triggered an OnAck callback.
type AckType int

const (
	// AckPuback marks a PUBACK.
	AckPuback AckType = iota
	// AckSuback marks a SUBACK.
	AckSuback
	// AckUnsuback marks an UNSUBACK.
	AckUnsuback
)

// newAckMessage builds the 4 byte packet shared by PUBACK/PUBREC/PUBREL/PUBCOMP: fixed
// header + 2 byte packet id body. PUBREL is the only one of these with non-zero reserved
// flags (0010), per MQTT 3.1.1 section 3.6.1.
func newAckMessage(controlType byte, flags byte, packetID int) *Packet {
	var body bytes.Buffer
	Encode16BitIntTo(packetID, &body)
	return &Packet{fixedHeader: controlType<<4 | flags, body: body.Bytes()}
}

// NewPubAckMessage builds a PUBACK(packetID).
func NewPubAckMessage(packetID int) *Packet {
	return newAckMessage(PublishAckType, Reserved, packetID)
}

// NewPubRecMessage builds a PUBREC(packetID). The client never sends it: an inbound QoS 2
// PUBLISH is rejected (see SPEC_FULL.md's open-question decision) rather than answered
// with PUBREC. Kept alongside the other packet-id-only ack builders.
func NewPubRecMessage(packetID int) *Packet {
	return newAckMessage(PublishReceivedType, Reserved, packetID)
}

// NewPubRelMessage builds a PUBREL(packetID).
func NewPubRelMessage(packetID int) *Packet {
	return newAckMessage(PublishReleaseType, PublishReleaseReserved, packetID)
}

// NewPubCompMessage builds a PUBCOMP(packetID).
func NewPubCompMessage(packetID int) *Packet {
	return newAckMessage(PublishCompleteType, Reserved, packetID)
}

// ParsePacketIDBody parses the 2 byte packet-id-only body shared by PUBACK/PUBREC/PUBREL/PUBCOMP.
func ParsePacketIDBody(body []byte) (int, error) {
	if len(body) != 2 {
		return 0, ErrInvalidPacket
	}
	return decode16BitInt(body), nil
}

// NewPingReqMessage builds a zero-length PINGREQ.
func NewPingReqMessage() *Packet {
	return &Packet{fixedHeader: PingReqType << 4, body: []byte{}}
}

// NewPingRespMessage builds a zero-length PINGRESP. Never sent by this client (PINGRESP is
// a server-to-client packet) but kept for tests that need to fabricate broker behavior.
func NewPingRespMessage() *Packet {
	return &Packet{fixedHeader: PingRespType << 4, body: []byte{}}
}

// NewDisconnectMessage builds a zero-length DISCONNECT.
func NewDisconnectMessage() *Packet {
	return &Packet{fixedHeader: DisconnectType << 4, body: []byte{}}
}
