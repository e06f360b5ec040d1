package mqttlink

import (
	"encoding/json"
	"fmt"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"
)

// RefreshMessage is the payload the console preview publishes to force a
// live refresh of a screen.
const RefreshMessage = "refresh-player"

// controlMessage is the JSON shape the console publishes on the device's
// command topic. Bare-string payloads are accepted too.
type controlMessage struct {
	Type string `json:"type"`
}

// Link is the player's subscription to its device command topic. It exists
// alongside, not instead of, HTTP command polling: the topic carries only
// the low-latency refresh-player push the console preview uses.
type Link struct {
	client mqtt.Client
	topic  string
}

// Connect subscribes to tv/<deviceID>/commands and invokes onRefresh for
// every refresh-player message. paho handles reconnects; a lost broker only
// costs push latency since polling still runs.
func Connect(brokerURL, deviceID string, onRefresh func(reason string)) (*Link, error) {
	topic := fmt.Sprintf("tv/%s/commands", deviceID)

	opts := mqtt.NewClientOptions()
	opts.AddBroker(brokerURL)
	opts.SetClientID(fmt.Sprintf("tv-%s", deviceID))
	opts.SetAutoReconnect(true)
	opts.OnConnect = func(c mqtt.Client) {
		log.Info().Str("broker", brokerURL).Msg("connected to MQTT broker")
		if token := c.Subscribe(topic, 1, handler(onRefresh)); token.Wait() && token.Error() != nil {
			log.Error().Err(token.Error()).Str("topic", topic).Msg("MQTT subscribe failed")
		}
	}
	opts.OnConnectionLost = func(c mqtt.Client, err error) {
		log.Warn().Err(err).Msg("MQTT connection lost")
	}

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}
	return &Link{client: client, topic: topic}, nil
}

func handler(onRefresh func(reason string)) mqtt.MessageHandler {
	return func(_ mqtt.Client, msg mqtt.Message) {
		payload := msg.Payload()
		log.Info().Str("topic", msg.Topic()).Str("payload", string(payload)).Msg("MQTT message received")

		var cm controlMessage
		if err := json.Unmarshal(payload, &cm); err != nil {
			cm.Type = string(payload)
		}
		if cm.Type == RefreshMessage {
			onRefresh("mqtt refresh-player")
		}
	}
}

// Close disconnects from the broker.
func (l *Link) Close() {
	if l.client != nil && l.client.IsConnected() {
		l.client.Disconnect(250)
	}
}
