package mqtt

import (
	"bytes"
	"fmt"
)

// PublishRequest describes a MQTT PUBLISH.
type PublishRequest struct {
	options PublishOptions
}

// NewPublishRequest creates an instance from the default publish options plus any given
// options.
func NewPublishRequest(options ...PublishOption) (*PublishRequest, error) {
	opts := DefaultPublishOptions()
	for _, fOpt := range options {
		if err := fOpt(&opts); err != nil {
			return nil, wrapError(InvalidParameter, err)
		}
	}
	return &PublishRequest{options: opts}, nil
}

// remainingLength computes the Remaining Length value to use in the Fixed Header.
func (r *PublishRequest) remainingLength() int {
	result := len(r.options.Topic) + 2 // topic is always length-prefixed

	if r.options.QoS > 0 {
		result += 2 // packet id
	}

	result += len(r.options.Message) // no length prefix on the payload itself
	return result
}

func (r *PublishRequest) fixedHeaderBits() byte {
	result := byte(PublishType << 4)
	if r.options.QoS == 1 {
		result |= QoSOne
	}
	if r.options.Retain {
		result |= RetainBit
	}
	if r.options.IsDuplicate {
		result |= DupBit
	}
	return result
}

// makeMessage builds the Packet to send for this PublishRequest.
func (r *PublishRequest) makeMessage() *Packet {
	var data bytes.Buffer
	data.Grow(r.remainingLength())

	EncodeStringTo(r.options.Topic, &data)

	if r.options.QoS > 0 {
		Encode16BitIntTo(r.options.PacketID, &data)
	}

	data.Write(r.options.Message)
	return &Packet{fixedHeader: r.fixedHeaderBits(), body: data.Bytes()}
}

// PublishOptions contains options for a PublishRequest.
type PublishOptions struct {
	Topic       string
	Message     []byte
	QoS         int
	Retain      bool
	IsDuplicate bool
	PacketID    int // 16 bit id, assigned by the caller for QoS >= 1
}

// PublishOption is an options-modifying function.
type PublishOption func(*PublishOptions) error

// DefaultPublishOptions returns the default options for a QoS 0 publish.
func DefaultPublishOptions() PublishOptions {
	return PublishOptions{QoS: 0, PacketID: 0, IsDuplicate: false}
}

// Message returns a PublishOption for the payload.
func Message(msg []byte) PublishOption {
	return func(o *PublishOptions) error {
		o.Message = msg
		return nil
	}
}

// Topic returns a PublishOption for the topic.
func Topic(topic string) PublishOption {
	return func(o *PublishOptions) error {
		o.Topic = topic
		return nil
	}
}

// QoS returns a PublishOption for the quality of service. Only 0 and 1 are accepted; QoS 2
// fails synchronously with ErrQoS2NotSupported, matching spec's "attempts to use it at the
// API surface fail with a distinct error".
func QoS(value int) PublishOption {
	return func(o *PublishOptions) error {
		if value != 0 && value != 1 {
			return fmt.Errorf("QoS must be 0 or 1, got %d: %w", value, ErrQoS2NotSupported)
		}
		o.QoS = value
		return nil
	}
}

// Retain returns a PublishOption for the retain flag.
func Retain(flag bool) PublishOption {
	return func(o *PublishOptions) error {
		o.Retain = flag
		return nil
	}
}

// IsDuplicate returns a PublishOption marking this as a retransmission.
func IsDuplicate(flag bool) PublishOption {
	return func(o *PublishOptions) error {
		o.IsDuplicate = flag
		return nil
	}
}

// PacketID returns a PublishOption for a caller-assigned packet id. The Client normally
// assigns this itself; exposed for tests and advanced callers.
func PacketID(id int) PublishOption {
	return func(o *PublishOptions) error {
		if id < 0 || id > 0xFFFF {
			return fmt.Errorf("PacketID must be in range 0-0xFFFF, got %x", id)
		}
		o.PacketID = id
		return nil
	}
}
