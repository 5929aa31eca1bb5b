// Package feed subscribes to position and heading sample topics on an MQTT
// broker and forwards decoded samples to the bearing engine.
//
// The feed is the validation boundary: payloads that fail to decode are
// logged and dropped here, because the engine itself propagates whatever
// numbers it is given.
package feed

import (
	"encoding/json"
	"fmt"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog"
)

// Default topics the daemon subscribes to.
const (
	DefaultPositionTopic = "sensors/position"
	DefaultHeadingTopic  = "sensors/heading"
)

// Sink receives decoded sensor samples. *qibla.Engine satisfies it.
type Sink interface {
	OnPosition(lat, lon float64)
	OnHeading(degrees float64)
}

type positionSample struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type headingSample struct {
	Degrees float64 `json:"degrees"`
}

// Feed owns the broker connection and the two sample subscriptions.
type Feed struct {
	client        mqtt.Client
	sink          Sink
	log           zerolog.Logger
	positionTopic string
	headingTopic  string
}

// Config holds the broker connection settings for a Feed.
type Config struct {
	BrokerURL     string // e.g. "tcp://localhost:1883"
	ClientID      string
	PositionTopic string // defaults to DefaultPositionTopic
	HeadingTopic  string // defaults to DefaultHeadingTopic
}

// New builds a Feed for the given broker. Connection happens in Start.
func New(cfg Config, sink Sink, log zerolog.Logger) *Feed {
	f := &Feed{
		sink:          sink,
		log:           log,
		positionTopic: cfg.PositionTopic,
		headingTopic:  cfg.HeadingTopic,
	}
	if f.positionTopic == "" {
		f.positionTopic = DefaultPositionTopic
	}
	if f.headingTopic == "" {
		f.headingTopic = DefaultHeadingTopic
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.BrokerURL)
	opts.SetClientID(cfg.ClientID)
	opts.OnConnect = func(mqtt.Client) {
		log.Info().Str("broker", cfg.BrokerURL).Msg("connected to MQTT broker")
	}
	opts.OnConnectionLost = func(_ mqtt.Client, err error) {
		log.Warn().Err(err).Msg("MQTT connection lost")
	}

	f.client = mqtt.NewClient(opts)
	return f
}

// Start connects to the broker and subscribes to both sample topics.
func (f *Feed) Start() error {
	if token := f.client.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}

	if token := f.client.Subscribe(f.positionTopic, 0, f.handlePosition); token.Wait() && token.Error() != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", f.positionTopic, token.Error())
	}
	if token := f.client.Subscribe(f.headingTopic, 0, f.handleHeading); token.Wait() && token.Error() != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", f.headingTopic, token.Error())
	}

	f.log.Info().
		Str("position_topic", f.positionTopic).
		Str("heading_topic", f.headingTopic).
		Msg("sensor feed started")
	return nil
}

// Stop disconnects from the broker.
func (f *Feed) Stop() {
	f.client.Disconnect(250)
	f.log.Info().Msg("sensor feed stopped")
}

// Client exposes the underlying MQTT client so other components (the
// trigger deliverer) can share the connection.
func (f *Feed) Client() mqtt.Client {
	return f.client
}

func (f *Feed) handlePosition(_ mqtt.Client, msg mqtt.Message) {
	var s positionSample
	if err := json.Unmarshal(msg.Payload(), &s); err != nil {
		f.log.Warn().Err(err).Str("topic", msg.Topic()).Msg("dropping malformed position sample")
		return
	}
	f.sink.OnPosition(s.Latitude, s.Longitude)
}

func (f *Feed) handleHeading(_ mqtt.Client, msg mqtt.Message) {
	var s headingSample
	if err := json.Unmarshal(msg.Payload(), &s); err != nil {
		f.log.Warn().Err(err).Str("topic", msg.Topic()).Msg("dropping malformed heading sample")
		return
	}
	f.sink.OnHeading(s.Degrees)
}
