package mqtt

import (
	"bytes"
	"fmt"
)

// SubscribeRequest describes a MQTT SUBSCRIBE carrying a single topic filter. (3.1.1 allows
// a list of filters per SUBSCRIBE; this client only ever builds one at a time, one topic per
// Client.Subscribe call, keeping packet-id bookkeeping one-to-one with topics.)
type SubscribeRequest struct {
	packetID int
	topic    string
	qos      int
}

// NewSubscribeRequest builds a SubscribeRequest for the given packet id, topic and
// requested QoS (0 or 1).
func NewSubscribeRequest(packetID int, topic string, qos int) (*SubscribeRequest, error) {
	if qos != 0 && qos != 1 {
		return nil, wrapError(InvalidParameter, fmt.Errorf("QoS must be 0 or 1, got %d: %w", qos, ErrQoS2NotSupported))
	}
	return &SubscribeRequest{packetID: packetID, topic: topic, qos: qos}, nil
}

// PacketID returns the packet id assigned to this request.
func (r *SubscribeRequest) PacketID() int {
	return r.packetID
}

// makeMessage builds the Packet to send for this SubscribeRequest.
func (r *SubscribeRequest) makeMessage() *Packet {
	var data bytes.Buffer
	Encode16BitIntTo(r.packetID, &data)
	EncodeStringTo(r.topic, &data)
	data.WriteByte(byte(r.qos))
	return &Packet{fixedHeader: SubscribeType<<4 | SubscribeReserved, body: data.Bytes()}
}

// UnsubscribeRequest describes a MQTT UNSUBSCRIBE carrying a single topic filter.
type UnsubscribeRequest struct {
	packetID int
	topic    string
}

// NewUnsubscribeRequest builds an UnsubscribeRequest for the given packet id and topic.
func NewUnsubscribeRequest(packetID int, topic string) *UnsubscribeRequest {
	return &UnsubscribeRequest{packetID: packetID, topic: topic}
}

// PacketID returns the packet id assigned to this request.
func (r *UnsubscribeRequest) PacketID() int {
	return r.packetID
}

// makeMessage builds the Packet to send for this UnsubscribeRequest.
func (r *UnsubscribeRequest) makeMessage() *Packet {
	var data bytes.Buffer
	Encode16BitIntTo(r.packetID, &data)
	EncodeStringTo(r.topic, &data)
	return &Packet{fixedHeader: UnsubscribeType<<4 | UnsubscribeReserved, body: data.Bytes()}
}

// ParsedSubAck is the decoded form of a SUBACK packet body (a single topic filter's granted
// QoS, or a failure marker).
type ParsedSubAck struct {
	PacketID   int
	ReturnCode byte
}

// subAckFailure is the SUBACK payload byte a broker sends when it refuses a subscription.
const subAckFailure = 0x80

// ParseSubAck parses a SUBACK packet body. Remaining length must be 3 (2 byte packet id + 1
// return code byte), since this client only ever subscribes to one topic filter per request.
func ParseSubAck(body []byte) (ParsedSubAck, error) {
	if len(body) != 3 {
		return ParsedSubAck{}, ErrInvalidPacket
	}
	return ParsedSubAck{PacketID: decode16BitInt(body), ReturnCode: body[2]}, nil
}

// ParseUnsubAck parses an UNSUBACK packet body. Remaining length must be 2 (just the packet id).
func ParseUnsubAck(body []byte) (packetID int, err error) {
	if len(body) != 2 {
		return 0, ErrInvalidPacket
	}
	return decode16BitInt(body), nil
}
