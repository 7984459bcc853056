package mqtt

import (
	"bytes"
	"fmt"
	"io"

	"github.com/lithammer/shortuuid"
)

// ConnectRequest describes a MQTT CONNECT.
type ConnectRequest struct {
	options ConnectOptions
}

// remainingLength computes the Remaining Length value to use in the Fixed Header.
func (r *ConnectRequest) remainingLength() int {
	// the client id is always written, even when empty
	result := len(r.options.ClientName)
	count := 1
	if r.options.WillTopic != "" {
		result += len(r.options.WillTopic)
		count++

		// there is always a message if there is a will topic - even if length is 0
		result += len(r.options.WillMessage)
		count++
	}
	if r.options.UserName != "" {
		result += len(r.options.UserName)
		count++
		if r.options.Password != nil {
			result += len(*r.options.Password)
			count++
		}
	}
	// lengths + 2 bytes per included item for its 16 bits length, + 10 for the fixed
	// variable header (protocol name 6, level 1, connect bits 1, keep alive 2)
	return 10 + result + count*2
}

func (r *ConnectRequest) connectBits() byte {
	connectBits := byte(0)

	if r.options.CleanSession {
		connectBits |= CleanSessionFlag
	}

	if r.options.WillTopic != "" {
		connectBits |= WillFlag

		switch r.options.WillQoS {
		case 1:
			connectBits |= WillQoSOne
		case 2:
			connectBits |= WillQoSTwo
		}

		if r.options.WillRetain {
			connectBits |= WillRetainFlag
		}
	}

	if r.options.UserName != "" {
		connectBits |= UserNameFlag
		if r.options.Password != nil {
			connectBits |= PasswordFlag
		}
	}
	return connectBits
}

// makeMessage builds the Packet to send for this ConnectRequest.
func (r *ConnectRequest) makeMessage() (*Packet, error) {
	var data bytes.Buffer

	connectBits := r.connectBits()
	keepAlive := r.options.KeepAliveSeconds

	EncodeStringTo(ProtocolName, &data)
	data.WriteByte(r.options.Level)
	data.WriteByte(connectBits)
	data.WriteByte(byte(keepAlive >> 8))
	data.WriteByte(byte(keepAlive & 0xFF))

	// PAYLOAD, in the fixed order required by MQTT 3.1.1 section 3.1.3
	EncodeStringTo(r.options.ClientName, &data)

	if connectBits&WillFlag != 0 {
		EncodeStringTo(r.options.WillTopic, &data)
		EncodeBytesTo(r.options.WillMessage, &data)
	}

	if connectBits&UserNameFlag != 0 {
		EncodeStringTo(r.options.UserName, &data)
	}

	if connectBits&PasswordFlag != 0 {
		EncodeBytesTo(*r.options.Password, &data)
	}

	return &Packet{fixedHeader: ConnectType<<4 | Reserved, body: data.Bytes()}, nil
}

// WriteTo writes the ConnectRequest to the given io.Writer.
func (r *ConnectRequest) WriteTo(writer io.Writer) (n int64, err error) {
	msg, err := r.makeMessage()
	if err != nil {
		return 0, err
	}
	return msg.WriteTo(writer)
}

// IsCleanSession reports whether this request asked for a clean session.
func (r *ConnectRequest) IsCleanSession() bool {
	return r.options.CleanSession
}

// NewConnectRequest constructs a new ConnectRequest based on a default set of options
// overridden by the given options.
//
// For example:
//
//	request, err := NewConnectRequest(WillTopic("InTheEventOfMyDeath"), WillMessage([]byte("Give it all to science")))
func NewConnectRequest(options ...ConnectOption) (*ConnectRequest, error) {
	opts := DefaultConnectOptions()
	for _, fOpt := range options {
		if err := fOpt(&opts); err != nil {
			return nil, wrapError(InvalidParameter, err)
		}
	}
	return &ConnectRequest{options: opts}, nil
}

// DefaultConnectOptions returns the default options for making an MQTT 3.1.1 CONNECT using
// a clean session and 10 seconds keep alive. ClientName is empty, which may not be honored
// by all brokers; use RandomClientID() to produce a suitable string.
func DefaultConnectOptions() ConnectOptions {
	return ConnectOptions{Level: ProtocolLevel, CleanSession: true, KeepAliveSeconds: 10}
}

// ConnectOptions contains options for a ConnectRequest.
type ConnectOptions struct {
	Level            byte
	CleanSession     bool
	KeepAliveSeconds int
	ClientName       string
	WillTopic        string
	WillMessage      []byte // only included in the request if WillTopic is non-empty
	WillQoS          int
	WillRetain       bool
	UserName         string
	Password         *[]byte
}

// ConnectOption is an options-modifying function.
type ConnectOption func(*ConnectOptions) error

// CleanSession returns a ConnectOption for CleanSession.
func CleanSession(flag bool) ConnectOption {
	return func(o *ConnectOptions) error {
		o.CleanSession = flag
		return nil
	}
}

// KeepAliveSeconds returns a ConnectOption for KeepAliveSeconds.
func KeepAliveSeconds(value int) ConnectOption {
	return func(o *ConnectOptions) error {
		if value < 0 {
			return fmt.Errorf("KeepAliveSeconds cannot be negative, got %d", value)
		}
		if value > 0xFFFF {
			return fmt.Errorf("KeepAliveSeconds cannot be larger than 0xFFFF, got %x", value)
		}
		o.KeepAliveSeconds = value
		return nil
	}
}

// ClientName returns a ConnectOption for ClientName.
func ClientName(value string) ConnectOption {
	return func(o *ConnectOptions) error {
		o.ClientName = value
		return nil
	}
}

// WillTopic returns a ConnectOption for WillTopic.
func WillTopic(value string) ConnectOption {
	return func(o *ConnectOptions) error {
		o.WillTopic = value
		return nil
	}
}

// WillMessage returns a ConnectOption for WillMessage.
func WillMessage(value []byte) ConnectOption {
	return func(o *ConnectOptions) error {
		o.WillMessage = value
		return nil
	}
}

// WillRetain returns a ConnectOption for WillRetain.
func WillRetain(value bool) ConnectOption {
	return func(o *ConnectOptions) error {
		o.WillRetain = value
		return nil
	}
}

// WillQoS returns a ConnectOption for WillQoS. Only 0 and 1 are accepted; QoS 2 is out of
// scope, see ErrQoS2NotSupported.
func WillQoS(value int) ConnectOption {
	return func(o *ConnectOptions) error {
		if value != 0 && value != 1 {
			return fmt.Errorf("WillQoS must be 0 or 1, got %d: %w", value, ErrQoS2NotSupported)
		}
		o.WillQoS = value
		return nil
	}
}

// UserName returns a ConnectOption for UserName.
func UserName(value string) ConnectOption {
	return func(o *ConnectOptions) error {
		o.UserName = value
		return nil
	}
}

// Password returns a ConnectOption for Password. Only honored if UserName is also set.
func Password(value []byte) ConnectOption {
	return func(o *ConnectOptions) error {
		o.Password = &value
		return nil
	}
}

// RandomClientID returns a random client identifier suitable for use as a ClientName -
// a short, base-57 encoded UUID.
func RandomClientID() string {
	return shortuuid.New()
}
