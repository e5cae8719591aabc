// Package broker publishes stats snapshots to an MQTT broker for live
// dashboards.
package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/minaret/internal/model"
)

const (
	DefaultTopic    = "minaret/stats"
	publishTimeout  = 5 * time.Second
	disconnectQuiet = 250
)

// Publisher sends snapshots on a single topic.
type Publisher struct {
	client  mqtt.Client
	topic   string
	timeout time.Duration
}

var connectHandler mqtt.OnConnectHandler = func(client mqtt.Client) {
	log.Info().Msg("connected to MQTT broker")
}

var connectLostHandler mqtt.ConnectionLostHandler = func(client mqtt.Client, err error) {
	log.Warn().Err(err).Msg("MQTT connection lost")
}

// Connect dials the broker and returns a publisher for topic.
func Connect(brokerURL, clientID, topic string) (*Publisher, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(brokerURL)
	opts.SetClientID(clientID)
	opts.SetAutoReconnect(true)
	opts.SetConnectTimeout(10 * time.Second)
	opts.OnConnect = connectHandler
	opts.OnConnectionLost = connectLostHandler

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}
	return NewPublisher(client, topic), nil
}

// NewPublisher wraps an already connected client.
func NewPublisher(client mqtt.Client, topic string) *Publisher {
	if topic == "" {
		topic = DefaultTopic
	}
	return &Publisher{client: client, topic: topic, timeout: publishTimeout}
}

type snapshotMessage struct {
	Total       int                               `json:"total"`
	Prayers     map[model.Prayer]model.PrayerStat `json:"prayers"`
	GeneratedAt time.Time                         `json:"generated_at"`
}

func (p *Publisher) PublishSnapshot(ctx context.Context, snap model.StatsSnapshot) error {
	payload, err := json.Marshal(snapshotMessage{
		Total:       snap.Total,
		Prayers:     snap.Prayers,
		GeneratedAt: snap.GeneratedAt,
	})
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	token := p.client.Publish(p.topic, 0, false, payload)
	if err := p.wait(ctx, token); err != nil {
		return err
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", p.topic, err)
	}

	log.Debug().Str("topic", p.topic).Int("bytes", len(payload)).Msg("published stats snapshot")
	return nil
}

// wait blocks until token completes, ctx is done or the publish timeout
// passes. A token that has already completed wins over a done ctx.
func (p *Publisher) wait(ctx context.Context, token mqtt.Token) error {
	timer := time.NewTimer(p.timeout)
	defer timer.Stop()

	select {
	case <-token.Done():
		return nil
	case <-ctx.Done():
		select {
		case <-token.Done():
			return nil
		default:
			return fmt.Errorf("publish to %s: %w", p.topic, ctx.Err())
		}
	case <-timer.C:
		return fmt.Errorf("publish to %s timed out after %s", p.topic, p.timeout)
	}
}

func (p *Publisher) Close() {
	if p.client != nil && p.client.IsConnected() {
		p.client.Disconnect(disconnectQuiet)
		log.Info().Msg("MQTT client disconnected")
	}
}
