package events

import (
	"context"
	"time"
)

const (
	UserRegistered       = "USER_REGISTERED"
	UserVerified         = "USER_VERIFIED"
	UserLogin            = "USER_LOGIN"
	UserDeleted          = "USER_DELETED"
	AirdropCreated       = "AIRDROP_CREATED"
	AirdropStatusChanged = "AIRDROP_STATUS_CHANGED"
	AirdropDeleted       = "AIRDROP_DELETED"
	ChatMessageSent      = "CHAT_MESSAGE_SENT"
)

// Event defines the contract for all system events.
type Event interface {
	EventType() string
	Payload() map[string]interface{}
	Timestamp() time.Time
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func New(eventType string, data map[string]interface{}) BaseEvent {
	return BaseEvent{Type: eventType, Data: data, OccurredAt: time.Now().UTC()}
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// Envelope is the wire form of an event on the bus.
type Envelope struct {
	Type       string                 `json:"type"`
	OccurredAt time.Time              `json:"occurred_at"`
	Data       map[string]interface{} `json:"data"`
}

func ToEnvelope(e Event) Envelope {
	return Envelope{Type: e.EventType(), OccurredAt: e.Timestamp(), Data: e.Payload()}
}

func (env Envelope) Event() BaseEvent {
	return BaseEvent{Type: env.Type, Data: env.Data, OccurredAt: env.OccurredAt}
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// NopPublisher drops every event. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
