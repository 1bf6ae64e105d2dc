package telemetry

import (
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// RealPublisher publishes to an actual MQTT broker.
type RealPublisher struct {
	client      mqtt.Client
	topicStatus string
	topicEvents string
}

// NewRealPublisher connects to the broker. Auto-reconnect is on so a
// flapping WiFi link does not take the operator channel down for good.
func NewRealPublisher(broker, clientID, topicStatus, topicEvents string) (*RealPublisher, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second)

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		return nil, fmt.Errorf("telemetry: connect timeout to %s", broker)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("telemetry: connect to %s: %w", broker, err)
	}

	return &RealPublisher{
		client:      client,
		topicStatus: topicStatus,
		topicEvents: topicEvents,
	}, nil
}

// PublishStatus pushes a snapshot, retained so late subscribers see the
// latest state immediately. QoS 0: the next snapshot supersedes a lost one.
func (p *RealPublisher) PublishStatus(s Status) error {
	payload, err := FormatStatus(s)
	if err != nil {
		return fmt.Errorf("telemetry: format status: %w", err)
	}
	token := p.client.Publish(p.topicStatus, 0, true, payload)
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("telemetry: status publish timeout")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("telemetry: status publish: %w", err)
	}
	return nil
}

// PublishEvent pushes a lifecycle/alert event at QoS 1; these are rare and
// worth a delivery attempt confirmation.
func (p *RealPublisher) PublishEvent(e Event) error {
	payload, err := FormatEvent(e)
	if err != nil {
		return fmt.Errorf("telemetry: format event: %w", err)
	}
	token := p.client.Publish(p.topicEvents, 1, false, payload)
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("telemetry: event publish timeout")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("telemetry: event publish: %w", err)
	}
	return nil
}

// Close disconnects from the broker.
func (p *RealPublisher) Close() error {
	p.client.Disconnect(250)
	return nil
}
