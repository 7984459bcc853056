package mqtt

import (
	"bytes"
	"io"
)

// Packet is a framed MQTT control packet: a fixed header byte (control type in the top
// nibble, flags in the bottom nibble) plus the already-encoded variable header and payload.
//
// It is the renamed, decode-capable successor of an earlier GenericMessage: the wire shape
// is unchanged, but Packet also exposes Type/Flags/Body so the receive path can dispatch on
// it without re-parsing the fixed header.
type Packet struct {
	fixedHeader byte
	body        []byte
}

// Type returns the control packet type (the top nibble of the fixed header byte).
func (m *Packet) Type() byte {
	return m.fixedHeader >> 4
}

// Flags returns the fixed header flags (the bottom nibble of the fixed header byte).
func (m *Packet) Flags() byte {
	return m.fixedHeader & 0x0F
}

// Body returns the packet's variable header + payload bytes.
func (m *Packet) Body() []byte {
	return m.body
}

// WriteTo implements io.WriterTo for Packet.
func (m *Packet) WriteTo(writer io.Writer) (int64, error) {
	var data bytes.Buffer
	bodyLength := len(m.body)
	data.WriteByte(m.fixedHeader)
	lengthBytes, err := EncodeVariableInt(bodyLength)
	if err != nil {
		return 0, err
	}
	data.Write(lengthBytes)
	if bodyLength > 0 {
		data.Write(m.body)
	}
	n, err := data.WriteTo(writer)
	return n, err
}

// WriteDupTo sets the DUP bit for PUBLISH packets and then writes to the given writer.
// The original packet is unchanged; non-PUBLISH packets are written as-is.
func (m *Packet) WriteDupTo(writer io.Writer) (int64, error) {
	out := m
	if m.Type() == PublishType {
		out = &Packet{fixedHeader: m.fixedHeader | DupBit, body: m.body}
	}
	return out.WriteTo(writer)
}

// ParseResult classifies the outcome of TryParsePacket.
type ParseResult int

const (
	// Partial means the buffer does not yet hold a complete packet; retain it and wait for more bytes.
	Partial ParseResult = iota
	// Complete means a full packet was found; Type/Flags/Body/Consumed describe it.
	Complete
	// Invalid means the buffer can never yield a valid packet (bad remaining length, etc).
	Invalid
)

// ParsedPacket is the result of a successful TryParsePacket call.
type ParsedPacket struct {
	Type     byte
	Flags    byte
	Body     []byte // shares the backing array of the input buffer; do not retain past the next call
	Consumed int    // total bytes consumed from the input buffer, including the fixed header
}

// TryParsePacket reads a fixed header (control byte + Remaining Length) from buf and, if a
// complete packet is present, returns its type/flags/body slice. It never allocates: Body
// aliases into buf. Returns Partial if buf does not yet hold a complete packet, or Invalid
// for a malformed Remaining Length (more than 4 continuation bytes).
func TryParsePacket(buf []byte) (ParseResult, ParsedPacket, error) {
	if len(buf) < 1 {
		return Partial, ParsedPacket{}, nil
	}
	fixedHeader := buf[0]
	length, lenConsumed, ok, err := decodeVariableIntBuf(buf[1:])
	if err != nil {
		return Invalid, ParsedPacket{}, err
	}
	if !ok {
		return Partial, ParsedPacket{}, nil
	}
	total := 1 + lenConsumed + length
	if len(buf) < total {
		return Partial, ParsedPacket{}, nil
	}
	return Complete, ParsedPacket{
		Type:     fixedHeader >> 4,
		Flags:    fixedHeader & 0x0F,
		Body:     buf[1+lenConsumed : total],
		Consumed: total,
	}, nil
}

// ParsedPublish is the decoded form of a PUBLISH packet body.
type ParsedPublish struct {
	Topic    []byte
	PacketID int // 0 when QoS == 0 (no packet id present on the wire)
	Payload  []byte
}

// ParsePublish parses a PUBLISH packet body (the part after the fixed header) given the QoS
// extracted from the fixed header flags by the caller.
func ParsePublish(body []byte, qos int) (ParsedPublish, error) {
	topic, consumed, err := decodeLengthPrefixedSlice(body)
	if err != nil {
		return ParsedPublish{}, ErrInvalidPacket
	}
	rest := body[consumed:]
	packetID := 0
	if qos >= 1 {
		if len(rest) < 2 {
			return ParsedPublish{}, ErrInvalidPacket
		}
		packetID = decode16BitInt(rest)
		rest = rest[2:]
	}
	return ParsedPublish{Topic: topic, PacketID: packetID, Payload: rest}, nil
}

// ParsedConnAck is the decoded form of a CONNACK packet body.
type ParsedConnAck struct {
	SessionPresent bool
	ReturnCode     byte
}

// ParseConnAck parses a CONNACK packet body. Returns ErrInvalidPacket if the body length is
// not 2 or the return code is out of the 0..5 range defined by MQTT 3.1.1.
func ParseConnAck(body []byte) (ParsedConnAck, error) {
	if len(body) != 2 {
		return ParsedConnAck{}, ErrInvalidPacket
	}
	if body[1] > maxConnAckReturnCode {
		return ParsedConnAck{}, ErrInvalidPacket
	}
	return ParsedConnAck{SessionPresent: body[0]&0x01 != 0, ReturnCode: body[1]}, nil
}
