package notify

import (
	"encoding/json"
	"fmt"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog"
)

// LogDeliverer writes triggers to the log instead of an OS facility.
// Useful for the CLI and as the default when no broker is configured.
type LogDeliverer struct {
	Log zerolog.Logger
}

func (d LogDeliverer) Clear() error {
	d.Log.Debug().Msg("cleared pending triggers")
	return nil
}

func (d LogDeliverer) Install(triggers []Trigger) error {
	for _, tr := range triggers {
		d.Log.Info().
			Str("id", tr.ID).
			Time("fire_at", tr.FireAt).
			Str("prayer", tr.Prayer).
			Msg("trigger installed")
	}
	return nil
}

const defaultTriggerTopic = "prayers/triggers"

// MQTTDeliverer publishes the trigger set to an MQTT topic for a device to
// consume. Clear publishes a reset message; Install publishes one message
// per trigger. The stable trigger IDs let the consumer treat a re-publish
// as a supersede.
type MQTTDeliverer struct {
	Client mqtt.Client
	Topic  string
	Log    zerolog.Logger
}

type triggerMessage struct {
	Action  string   `json:"action"` // "clear" or "install"
	Trigger *Trigger `json:"trigger,omitempty"`
}

func (d MQTTDeliverer) topic() string {
	if d.Topic == "" {
		return defaultTriggerTopic
	}
	return d.Topic
}

func (d MQTTDeliverer) Clear() error {
	return d.publish(triggerMessage{Action: "clear"})
}

func (d MQTTDeliverer) Install(triggers []Trigger) error {
	for i := range triggers {
		if err := d.publish(triggerMessage{Action: "install", Trigger: &triggers[i]}); err != nil {
			return err
		}
		d.Log.Info().Str("id", triggers[i].ID).Time("fire_at", triggers[i].FireAt).Msg("trigger published")
	}
	return nil
}

func (d MQTTDeliverer) publish(msg triggerMessage) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal trigger message: %w", err)
	}

	token := d.Client.Publish(d.topic(), 1, false, payload)
	token.Wait()
	if err := token.Error(); err != nil {
		return fmt.Errorf("failed to publish trigger message: %w", err)
	}
	return nil
}
