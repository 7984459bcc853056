package mqtt

import (
	"bytes"
	"fmt"
	"io"

	log "github.com/sirupsen/logrus"
)

// ErrInvalidRemainingLength is returned when a Remaining Length field uses more than the
// four continuation bytes MQTT 3.1.1 allows.
var ErrInvalidRemainingLength = fmt.Errorf("invalid MQTT remaining length encoding")

// ErrPayloadTooLarge is returned when a value to encode as a Remaining Length exceeds
// MaxRemainingLength (the largest value 4 continuation bytes can carry).
var ErrPayloadTooLarge = fmt.Errorf("payload exceeds maximum MQTT remaining length of %d", MaxRemainingLength)

// EncodeVariableInt produces a []byte with the integer encoded as an MQTT variable length
// integer (used for the fixed header's Remaining Length field).
func EncodeVariableInt(value int) ([]byte, error) {
	if value < 0 || value > MaxRemainingLength {
		return nil, ErrPayloadTooLarge
	}
	var data bytes.Buffer
	for {
		encodedByte := byte(value % 128)
		value = value / 128
		if value > 0 {
			encodedByte |= 128
		}
		data.WriteByte(encodedByte)
		if value == 0 {
			break
		}
	}
	return data.Bytes(), nil
}

// EncodeVariableIntTo encodes a given int into the given Buffer using the MQTT variable
// length integer encoding, and returns the written length.
func EncodeVariableIntTo(value int, to *bytes.Buffer) (int, error) {
	encoded, err := EncodeVariableInt(value)
	if err != nil {
		return 0, err
	}
	to.Write(encoded)

	if log.IsLevelEnabled(log.DebugLevel) {
		var hexBytes string
		for _, b := range encoded {
			if len(hexBytes) != 0 {
				hexBytes += ", "
			}
			hexBytes += fmt.Sprintf("0x%x", b)
		}
		log.Debugf("Encoded Length %d into %d byte(s): [%s]", value, len(encoded), hexBytes)
	}
	return len(encoded), nil
}

// DecodeVariableInt decodes a variable length integer from the Reader, consuming it, and
// returns the value. Used when a complete buffer (not a live connection) is being parsed.
func DecodeVariableInt(reader io.Reader) (int, error) {
	multiplier := 1
	value := 0
	for i := 0; ; i++ {
		if i >= 4 {
			return 0, ErrInvalidRemainingLength
		}
		buf := make([]byte, 1)
		if _, err := io.ReadFull(reader, buf); err != nil {
			return 0, err
		}
		encodedByte := buf[0]
		value += int(encodedByte&127) * multiplier
		multiplier *= 128
		if encodedByte&128 == 0 {
			break
		}
	}
	return value, nil
}

// decodeVariableIntBuf decodes a Remaining Length field directly from a byte slice without
// allocating or wrapping it in an io.Reader. Returns the decoded value, the number of bytes
// consumed, and whether more bytes are needed (ok==false, err==nil means "Partial").
func decodeVariableIntBuf(buf []byte) (value int, consumed int, ok bool, err error) {
	multiplier := 1
	for i := 0; i < len(buf); i++ {
		if i >= 4 {
			return 0, 0, false, ErrInvalidRemainingLength
		}
		encodedByte := buf[i]
		value += int(encodedByte&127) * multiplier
		multiplier *= 128
		if encodedByte&128 == 0 {
			return value, i + 1, true, nil
		}
	}
	// Ran out of buffer before seeing a terminating byte: need more data, unless we've
	// already consumed the maximum of 4 bytes without termination.
	if len(buf) >= 4 {
		return 0, 0, false, ErrInvalidRemainingLength
	}
	return 0, 0, false, nil
}
