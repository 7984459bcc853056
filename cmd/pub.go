package cmd

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"

	"github.com/aeldberg/mezquit/internal/mqtt"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var publishCmd = &cobra.Command{
	Use:   "pub",
	Short: "Publish MQTT message",
	Long:  `Publishes a message via MQTT`,
	Run: func(cmd *cobra.Command, args []string) {
		p := &publisher{}
		if TestQoS1Resend {
			p.qos1ResendPublish()
		} else {
			p.standardPublish()
		}
	},

	Args: func(cmd *cobra.Command, args []string) error {
		if QoS < 0 || QoS > 1 {
			return fmt.Errorf("--qos must be 0 or 1, got %d (QoS 2 is not supported)", QoS)
		}
		if KeepAliveSeconds < 0 {
			return fmt.Errorf("--keep_alive cannot be negative")
		}
		return nil
	},
}

type publisher struct {
}

func (p *publisher) brokerAddr() string {
	return fmt.Sprintf("%s:%s", MQTTBroker, mqtt.UnencryptedPortTCP)
}

func (p *publisher) clientName() string {
	if MQTTClientName == "" {
		MQTTClientName = mqtt.RandomClientID()
		log.Infof("Using generated client ID %s", MQTTClientName)
	}
	return MQTTClientName
}

func (p *publisher) newClient() *mqtt.Client {
	client, err := mqtt.NewClient(mqtt.WithClientName(p.clientName()))
	if err != nil {
		panic(err)
	}
	return client
}

func (p *publisher) connect(client *mqtt.Client, cleanSession bool) {
	opts := []mqtt.ConnectOption{
		mqtt.CleanSession(cleanSession),
		mqtt.KeepAliveSeconds(KeepAliveSeconds),
	}
	if WillTopic != "" {
		opts = append(opts,
			mqtt.WillTopic(WillTopic),
			mqtt.WillMessage([]byte(WillMessage)),
			mqtt.WillQoS(WillQoS),
			mqtt.WillRetain(WillRetain),
		)
	}
	err := client.Connect(context.Background(), mqtt.NewTCPTransport(p.brokerAddr()), opts...)
	if err != nil {
		panic(err)
	}
}

func (p *publisher) publishMessage(client *mqtt.Client) {
	if err := client.Publish(
		context.Background(),
		mqtt.Message([]byte(Message)),
		mqtt.Topic(Topic),
		mqtt.QoS(QoS),
		mqtt.Retain(Retain),
	); err != nil {
		log.Errorf("Publish failed: %s", err)
	}
}

func (p *publisher) publishFromFile(client *mqtt.Client) {
	f, err := os.Open(FileName)
	if err != nil {
		panic(fmt.Sprintf("Cannot open file %s", FileName))
	}
	defer f.Close()
	all, err := csv.NewReader(f).ReadAll()
	if err != nil {
		panic(err)
	}
	for _, r := range all {
		if err := client.Publish(
			context.Background(),
			mqtt.Message([]byte(r[1])),
			mqtt.Topic(r[0]),
			mqtt.QoS(QoS),
			mqtt.Retain(false),
		); err != nil {
			log.Errorf("Publish of %s failed: %s", r[0], err)
		}
	}
}

func (p *publisher) publishGivenMessage(client *mqtt.Client) {
	if FileName == "" {
		p.publishMessage(client)
	} else {
		p.publishFromFile(client)
	}
}

func (p *publisher) standardPublish() {
	client := p.newClient()
	p.connect(client, true)
	p.publishGivenMessage(client)

	if TestNoDisconnect {
		client.Close()
	} else {
		client.Disconnect(1)
	}
}

// qos1ResendPublish demonstrates the reconnect-with-DUP path: publish at QoS 1 then abandon
// the connection before the broker's PUBACK can arrive, reconnect with CleanSession(false),
// and let Connect's post-handshake resend logic retransmit the still-unacknowledged publish.
func (p *publisher) qos1ResendPublish() {
	QoS = 1
	client := p.newClient()
	p.connect(client, true)
	p.publishGivenMessage(client)
	client.Close() // abrupt close, no DISCONNECT - simulates a PUBACK never arriving

	p.connect(client, false)
	client.Disconnect(1)
}

// MQTTBroker is the MQTT host to dial; the standard unencrypted port 1883 is appended
var MQTTBroker string

// MQTTClientName is the MQTT client name - a short UUID by default
var MQTTClientName string

// Topic is the MQTT topic to publish to
var Topic string

// Message is the MQTT message text to publish
var Message string

// KeepAliveSeconds is the MQTT number of seconds to keep a connection alive
var KeepAliveSeconds int

// QoS is the MQTT quality of service to publish at (0 or 1; 2 is rejected)
var QoS int

// FileName the name of a file to read instead of using --topic and --message
var FileName string

// Retain indicates if the published message should be retained
var Retain bool

// WillMessage is the MQTT message text to send on a dirty disconnect
var WillMessage string

// WillTopic is the MQTT topic the will message is published to on a dirty disconnect
var WillTopic string

// WillQoS is the QoS for the delivery of the WILL message
var WillQoS int

// WillRetain is the retain flag for the WILL message publishing
var WillRetain bool

// TestNoDisconnect if true no DISCONNECT is sent thereby allowing WILL features to be tested
var TestNoDisconnect bool

// TestQoS1Resend if true 2 phases are run, first abandoning the connection before PUBACK,
// then reconnecting with CleanSession(false) to observe the DUP resend
var TestQoS1Resend bool

func init() {
	RootCmd.AddCommand(publishCmd)
	flags := publishCmd.PersistentFlags()

	flags.StringVarP(&MQTTBroker,
		"broker", "b", "localhost", "the MQTT Broker host to connect to (default 'localhost')")
	flags.StringVarP(&MQTTClientName,
		"client", "c", "", "the MQTT client name to use - default is a short UUID")
	flags.StringVarP(&FileName,
		"file", "f", "", "File with CSV <topic, message> lines to publish")
	flags.IntVarP(&KeepAliveSeconds,
		"keep_alive", "", 10, "sets the number of seconds to keep a connection alive")
	flags.StringVarP(&Message,
		"message", "m", "", "the message to send")
	flags.StringVarP(&Topic,
		"topic", "t", "test", "the MQTT topic to send message to (default 'test')")
	flags.IntVarP(&QoS,
		"qos", "q", 0, "Quality of service 0 or 1 (default 0)")
	flags.BoolVarP(&Retain,
		"retain", "r", false, "If message should be retained")
	flags.StringVarP(&WillMessage,
		"wmessage", "", "", "the will message to send when disconnect is not clean")
	flags.IntVarP(&WillQoS,
		"wqos", "", 0, "Quality of service 0 or 1 for publishing of WILL message")
	flags.BoolVarP(&WillRetain,
		"wretain", "", false, "If WILL message should be retained")
	flags.StringVarP(&WillTopic,
		"wtopic", "", "", "the topic for a will message to send when disconnect is not clean")

	flags.BoolVarP(&TestNoDisconnect,
		"test_no_disconnect", "", false, "do not send DISCONNECT to test WILL features")
	flags.BoolVarP(&TestQoS1Resend,
		"test_qos1_resend", "", false, "Performs: CONNECT, publish at QoS 1, abandon before PUBACK, reconnect with clean=false, observe resend")
}
