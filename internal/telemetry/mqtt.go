package telemetry

import (
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"
)

// publishClient is the slice of the paho client the publisher needs.
type publishClient interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
	Disconnect(quiesce uint)
}

// Publisher mirrors step and fault events onto an MQTT topic.
type Publisher struct {
	c     publishClient
	topic string
}

// NewPublisher connects to the broker and returns a publisher for
// topic. Frames are never published, only steps and faults.
func NewPublisher(broker, clientID, topic string) (*Publisher, error) {
	opts := mqtt.NewClientOptions().AddBroker(broker).SetClientID(clientID)
	opts.SetAutoReconnect(true)
	opts.SetConnectTimeout(5 * time.Second)
	c := mqtt.NewClient(opts)
	if token := c.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("telemetry: connecting to %s: %w", broker, token.Error())
	}
	log.Info().Str("broker", broker).Str("topic", topic).Msg("mqtt publisher connected")
	return &Publisher{c: c, topic: topic}, nil
}

type mqttMessage struct {
	Type    string  `json:"type"`
	At      float64 `json:"at,omitempty"`
	Message string  `json:"message,omitempty"`
	Time    string  `json:"time"`
}

// OnStep publishes the step at QoS 0, fire and forget.
func (p *Publisher) OnStep(at float64) {
	p.publish(mqttMessage{Type: "step", At: at})
}

// OnFrame keeps frames off the broker.
func (p *Publisher) OnFrame(at, remaining float64, rgb []byte) {}

// OnFault publishes the fault message.
func (p *Publisher) OnFault(msg string) {
	p.publish(mqttMessage{Type: "fault", Message: msg})
}

func (p *Publisher) publish(m mqttMessage) {
	m.Time = time.Now().UTC().Format(time.RFC3339Nano)
	b, err := json.Marshal(m)
	if err != nil {
		return
	}
	p.c.Publish(p.topic, 0, false, b)
}

// Close disconnects from the broker.
func (p *Publisher) Close() {
	p.c.Disconnect(250)
}
