// Package events publishes ledger changes to other systems.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Event types, also used as AMQP routing keys.
const (
	TypeTransactionCreated = "transaction.created"
	TypeTransactionDeleted = "transaction.deleted"
	TypeSettlementRecorded = "settlement.recorded"
)

// Event is the envelope published for every ledger change.
type Event struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	GroupID    string    `json:"group_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
	Data       any       `json:"data"`
}

// New builds an event with a fresh ID and the current time.
func New(eventType, groupID string, data any) Event {
	return Event{
		ID:         uuid.New().String(),
		Type:       eventType,
		GroupID:    groupID,
		OccurredAt: time.Now().UTC(),
		Data:       data,
	}
}

// ToJSON encodes the event.
func (e Event) ToJSON() ([]byte, error) {
	body, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal event %s: %w", e.Type, err)
	}
	return body, nil
}

// TransactionData is the payload of transaction events.
type TransactionData struct {
	TransactionID int64    `json:"transaction_id"`
	Payer         string   `json:"payer,omitempty"`
	Amount        float64  `json:"amount,omitempty"`
	Participants  []string `json:"participants,omitempty"`
	SplitType     string   `json:"split_type,omitempty"`
}

// SettlementData is the payload of settlement events.
type SettlementData struct {
	SettlementID string  `json:"settlement_id"`
	From         string  `json:"from"`
	To           string  `json:"to"`
	Amount       float64 `json:"amount"`
	// Overridden is set when the caller confirmed past a blocking advisory.
	Overridden   bool    `json:"overridden,omitempty"`
}

// Publisher sends events somewhere. Implementations must be safe for concurrent use.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
func (NopPublisher) Close() error                         { return nil }
