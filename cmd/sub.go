package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/aeldberg/mezquit/internal/mqtt"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var subscribeCmd = &cobra.Command{
	Use:   "sub",
	Short: "Subscribe to an MQTT topic and print received messages",
	Long:  `Subscribes to a topic and prints every received PUBLISH until interrupted`,
	Run: func(cmd *cobra.Command, args []string) {
		runSubscribe()
	},
	Args: func(cmd *cobra.Command, args []string) error {
		if SubQoS < 0 || SubQoS > 1 {
			return fmt.Errorf("--qos must be 0 or 1, got %d (QoS 2 is not supported)", SubQoS)
		}
		return nil
	},
}

func runSubscribe() {
	clientName := SubClientName
	if clientName == "" {
		clientName = mqtt.RandomClientID()
		log.Infof("Using generated client ID %s", clientName)
	}

	topicBuf := make([]byte, 4096)
	payloadBuf := make([]byte, 4096)

	// client is declared up front (rather than via :=) so the WithOnReceive closure below
	// can call back into it; its scope must already include the NewClient call that builds it.
	var client *mqtt.Client
	var err error
	client, err = mqtt.NewClient(
		mqtt.WithClientName(clientName),
		mqtt.WithOnReceive(func(count int) {
			topicN, payloadN, err := client.MessageGet(topicBuf, payloadBuf)
			if err != nil {
				log.Warnf("on_receive(%d) but MessageGet failed: %s", count, err)
				return
			}
			fmt.Printf("%s: %s\n", topicBuf[:topicN], payloadBuf[:payloadN])
		}),
		mqtt.WithOnDisconnect(func(err error) {
			if err != nil {
				log.Warnf("disconnected: %s", err)
			}
		}),
	)
	if err != nil {
		panic(err)
	}

	addr := fmt.Sprintf("%s:%s", SubBroker, mqtt.UnencryptedPortTCP)
	if err := client.Connect(context.Background(), mqtt.NewTCPTransport(addr), mqtt.CleanSession(true)); err != nil {
		panic(err)
	}

	if err := client.Subscribe(context.Background(), SubTopic, SubQoS); err != nil {
		panic(err)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	client.Disconnect(1)
}

// SubBroker is the MQTT host to dial for the sub command
var SubBroker string

// SubClientName is the client id used for the sub command - a short UUID by default
var SubClientName string

// SubTopic is the topic filter to subscribe to
var SubTopic string

// SubQoS is the requested subscription QoS (0 or 1)
var SubQoS int

func init() {
	RootCmd.AddCommand(subscribeCmd)
	flags := subscribeCmd.PersistentFlags()

	flags.StringVarP(&SubBroker,
		"broker", "b", "localhost", "the MQTT Broker host to connect to (default 'localhost')")
	flags.StringVarP(&SubClientName,
		"client", "c", "", "the MQTT client name to use - default is a short UUID")
	flags.StringVarP(&SubTopic,
		"topic", "t", "test", "the MQTT topic filter to subscribe to (default 'test')")
	flags.IntVarP(&SubQoS,
		"qos", "q", 0, "Quality of service 0 or 1 (default 0)")
}
