package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"hostel-sentinel/internal/analytics"
	"hostel-sentinel/internal/config"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// MQTTPublisher pushes spike alerts to an MQTT topic so external channels
// (ops dashboards, pagers) can pick them up.
type MQTTPublisher struct {
	client mqtt.Client
	topic  string
	qos    byte
}

type alertPayload struct {
	Alert      bool      `json:"alert"`
	Message    string    `json:"message"`
	DetectedAt time.Time `json:"detected_at"`
}

func NewMQTTPublisher(cfg *config.Config) (*MQTTPublisher, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.MQTT.Broker)
	opts.SetClientID(cfg.MQTT.ClientID)
	if cfg.MQTT.Username != "" {
		opts.SetUsername(cfg.MQTT.Username)
	}
	if cfg.MQTT.Password != "" {
		opts.SetPassword(cfg.MQTT.Password)
	}
	opts.SetAutoReconnect(true)
	opts.SetCleanSession(true)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}

	return &MQTTPublisher{client: client, topic: cfg.MQTT.Topic, qos: cfg.MQTT.QoS}, nil
}

func (p *MQTTPublisher) PublishAlert(_ context.Context, a analytics.Anomaly) error {
	payload, err := json.Marshal(alertPayload{Alert: a.Alert, Message: a.Message, DetectedAt: time.Now()})
	if err != nil {
		return err
	}
	token := p.client.Publish(p.topic, p.qos, false, payload)
	token.Wait()
	if token.Error() != nil {
		return fmt.Errorf("failed to publish to topic %s: %w", p.topic, token.Error())
	}
	return nil
}

func (p *MQTTPublisher) Close() {
	p.client.Disconnect(250)
}
