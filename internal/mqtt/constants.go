package mqtt

// ProtocolName and ProtocolLevel are placed in the CONNECT variable header.
// Level 4 is MQTT 3.1.1; this client never negotiates Level 5.
const (
	ProtocolName  = "MQTT"
	ProtocolLevel = 4
)

const (
	// Reserved is all zero bits
	Reserved = 0

	// CONTROL MESSAGE TYPES
	// ---------------------

	// ConnectType control message type
	ConnectType = 1

	// ConnAckType control message type
	ConnAckType = 2

	// PublishType control message type
	PublishType = 3

	// PublishAckType control message type (PUBACK)
	PublishAckType = 4

	// PublishReceivedType control message type (PUBREC)
	PublishReceivedType = 5

	// PublishReleaseType control message type (PUBREL)
	PublishReleaseType = 6

	// PublishReleaseReserved is the required low nibble flags value for PUBREL, MQTT 3.1.1 section 3.6.1
	PublishReleaseReserved = 2

	// PublishCompleteType control message type (PUBCOMP)
	PublishCompleteType = 7

	// SubscribeType control message type
	SubscribeType = 8

	// SubscribeReserved is the required low nibble flags value for SUBSCRIBE, MQTT 3.1.1 section 3.8.1
	SubscribeReserved = 2

	// SubAckType control message type
	SubAckType = 9

	// UnsubscribeType control message type
	UnsubscribeType = 10

	// UnsubscribeReserved is the required low nibble flags value for UNSUBSCRIBE, MQTT 3.1.1 section 3.10.1
	UnsubscribeReserved = 2

	// UnsubAckType control message type
	UnsubAckType = 11

	// PingReqType control message type
	PingReqType = 12

	// PingRespType control message type
	PingRespType = 13

	// DisconnectType control message type
	DisconnectType = 14

	// CONNECTION PORTS
	// ----------------

	// UnencryptedPortTCP is the standard MQTT port over TCP for unencrypted content
	UnencryptedPortTCP = "1883"

	// EncryptedPortTCP is the standard MQTT port over TLS
	EncryptedPortTCP = "8883"

	// EncryptedWebSocketPort is the standard port for MQTT over TLS+WebSocket
	EncryptedWebSocketPort = "443"

	// WebSocketSubProtocol is the WebSocket sub-protocol name MQTT brokers expect
	WebSocketSubProtocol = "mqtt"

	// Connect bits

	// UserNameFlag is a bit that signals that UserName is in the payload
	UserNameFlag = 1 << 7

	// PasswordFlag is a bit that signals that Password is in the payload
	PasswordFlag = 1 << 6

	// WillRetainFlag is a bit that signals that Will Retention is in the payload
	WillRetainFlag = 1 << 5

	// WillQoSZero sets the Will QoS to 0 (since this is 0 it isn't really needed)
	WillQoSZero = 0

	// WillQoSOne sets the Will QoS to 1 (Will QoS occupies bits 3-4; this sets bit 3)
	WillQoSOne = 1 << 3

	// WillQoSTwo sets the Will QoS to 2 (Will QoS occupies bits 3-4; this sets bit 4)
	WillQoSTwo = 2 << 3

	// WillFlag is a bit that signals that Will is in the payload
	WillFlag = 1 << 2

	// CleanSessionFlag is a bit that signals that a clean session is wanted
	CleanSessionFlag = 1 << 1

	// Connack results

	// ConnectionAccepted means it is ok to use connection
	ConnectionAccepted = 0

	// ConnectionRefusedRejectedVersion Protocol version is not accepted
	ConnectionRefusedRejectedVersion = 1

	// ConnectionRefusedRejectedIdentifier Client Identifier is not accepted
	ConnectionRefusedRejectedIdentifier = 2

	// ConnectionRefusedServerUnavailable server is not available
	ConnectionRefusedServerUnavailable = 3

	// ConnectionRefusedBadUserPassword User name or Password is bad
	ConnectionRefusedBadUserPassword = 4

	// ConnectionRefusedNotAuthorized the presented credentials resulted in not being authorized
	ConnectionRefusedNotAuthorized = 5

	// maxConnAckReturnCode is the highest CONNACK return code defined by 3.1.1; anything above is a protocol violation
	maxConnAckReturnCode = 5

	// Publish Bits
	// ------

	// QoSZero sets the QoS to 0 (since this is 0 it isn't really needed)
	QoSZero = 0

	// QoSOne sets the QoS to 1 (bit 1 is set)
	QoSOne = 1 << 1

	// QoSTwo sets the QoS to 2 (bit 2 is set) - rejected at the public API (see ErrQoS2NotSupported), and an inbound QoS 2 PUBLISH tears the connection down
	QoSTwo = 2 << 1

	// NoDupBit sets the DUP bit to 0 (since it is 0 it isn't really needed)
	NoDupBit = 0

	// DupBit sets the DUP bit to 1
	DupBit = 1 << 3

	// NoRetainBit sets the RETAIN bit to 0 (since it is 0 it isn't really needed)
	NoRetainBit = 0

	// RetainBit sets the RETAIN bit to 1
	RetainBit = 1

	// MaxRemainingLength is the largest Remaining Length value encodable in 4 continuation bytes
	MaxRemainingLength = 268435455
)
