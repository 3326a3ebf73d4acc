package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/biowe-backend/pkg/logger"
	"github.com/google/uuid"
)

// EnvelopeVersion is bumped when the envelope layout changes.
const EnvelopeVersion = 1

// Envelope is the stable message body published for every event.
type Envelope struct {
	Version    int             `json:"version"`
	EventID    string          `json:"eventId"`
	OccurredAt time.Time       `json:"occurredAt"`
	Type       string          `json:"type"`
	Data       json.RawMessage `json:"data"`
}

// Noop drops events. Used when no topic is configured.
type Noop struct{}

func (Noop) Publish(context.Context, string, any) error { return nil }

type topicPublisher interface {
	Publish(ctx context.Context, topic string, data []byte, attrs map[string]string) (string, error)
}

// PubSubPublisher wraps events in an Envelope and publishes them to one topic.
type PubSubPublisher struct {
	client topicPublisher
	topic  string
	logg   *logger.Logger
	now    func() time.Time
}

func NewPubSubPublisher(client topicPublisher, topic string, logg *logger.Logger) (*PubSubPublisher, error) {
	if client == nil {
		return nil, errors.New("pubsub client required")
	}
	if strings.TrimSpace(topic) == "" {
		return nil, errors.New("topic required")
	}
	return &PubSubPublisher{client: client, topic: topic, logg: logg, now: time.Now}, nil
}

func (p *PubSubPublisher) Publish(ctx context.Context, eventType string, data any) error {
	envelope, err := NewEnvelope(eventType, data, p.now())
	if err != nil {
		return err
	}
	body, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}

	serverID, err := p.client.Publish(ctx, p.topic, body, map[string]string{
		"event_type": eventType,
		"event_id":   envelope.EventID,
	})
	if err != nil {
		return fmt.Errorf("publish %s: %w", eventType, err)
	}
	if p.logg != nil {
		p.logg.Info(p.logg.WithFields(ctx, map[string]any{
			"event_id":   envelope.EventID,
			"event_type": eventType,
			"message_id": serverID,
		}), "event published")
	}
	return nil
}

// NewEnvelope marshals data and stamps a fresh event id.
func NewEnvelope(eventType string, data any, at time.Time) (Envelope, error) {
	if strings.TrimSpace(eventType) == "" {
		return Envelope{}, errors.New("event type required")
	}
	payload, err := json.Marshal(data)
	if err != nil {
		return Envelope{}, fmt.Errorf("marshal %s payload: %w", eventType, err)
	}
	return Envelope{
		Version:    EnvelopeVersion,
		EventID:    uuid.NewString(),
		OccurredAt: at.UTC(),
		Type:       eventType,
		Data:       payload,
	}, nil
}
