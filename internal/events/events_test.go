package events

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/rabbitmq/amqp091-go"
)

type published struct {
	exchange, key string
	msg           amqp091.Publishing
}

type fakeChannel struct {
	mu         sync.Mutex
	declared   []string
	published  []published
	publishErr error
	closed     bool
}

func (f *fakeChannel) ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp091.Table) error {
	f.declared = append(f.declared, name+":"+kind)
	if !durable {
		return errors.New("exchange must be durable")
	}
	return nil
}

func (f *fakeChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.publishErr != nil {
		return f.publishErr
	}
	if _, ok := ctx.Deadline(); !ok {
		return errors.New("publish without deadline")
	}
	f.published = append(f.published, published{exchange: exchange, key: key, msg: msg})
	return nil
}

func (f *fakeChannel) Close() error {
	f.closed = true
	return nil
}

func TestAMQPPublisher(t *testing.T) {
	ch := &fakeChannel{}
	p, err := newAMQPPublisher(ch, "splitledger")
	if err != nil {
		t.Fatalf("newAMQPPublisher failed: %v", err)
	}
	if len(ch.declared) != 1 || ch.declared[0] != "splitledger:topic" {
		t.Errorf("declared exchanges = %v, want [splitledger:topic]", ch.declared)
	}

	event := New(TypeSettlementRecorded, "g1", SettlementData{SettlementID: "s1", From: "B", To: "A", Amount: 25})
	if err := p.Publish(context.Background(), event); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	if len(ch.published) != 1 {
		t.Fatalf("got %d published messages, want 1", len(ch.published))
	}
	got := ch.published[0]
	if got.exchange != "splitledger" || got.key != TypeSettlementRecorded {
		t.Errorf("published to %s/%s, want splitledger/%s", got.exchange, got.key, TypeSettlementRecorded)
	}
	if got.msg.DeliveryMode != amqp091.Persistent {
		t.Errorf("DeliveryMode = %d, want persistent", got.msg.DeliveryMode)
	}
	if got.msg.ContentType != "application/json" || got.msg.MessageId != event.ID {
		t.Errorf("unexpected message properties: %+v", got.msg)
	}

	var body struct {
		Type    string         `json:"type"`
		GroupID string         `json:"group_id"`
		Data    SettlementData `json:"data"`
	}
	if err := json.Unmarshal(got.msg.Body, &body); err != nil {
		t.Fatalf("body is not JSON: %v", err)
	}
	if body.Type != TypeSettlementRecorded || body.GroupID != "g1" || body.Data.Amount != 25 {
		t.Errorf("unexpected body: %+v", body)
	}

	if err := p.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if !ch.closed {
		t.Error("channel not closed")
	}
}

func TestAMQPPublisherError(t *testing.T) {
	ch := &fakeChannel{publishErr: errors.New("channel closed")}
	p, err := newAMQPPublisher(ch, "splitledger")
	if err != nil {
		t.Fatalf("newAMQPPublisher failed: %v", err)
	}

	err = p.Publish(context.Background(), New(TypeTransactionCreated, "", TransactionData{TransactionID: 1}))
	if err == nil {
		t.Fatal("expected publish error")
	}
	if !errors.Is(err, ch.publishErr) {
		t.Errorf("error %v does not wrap the channel error", err)
	}
}

func TestNopPublisher(t *testing.T) {
	var p Publisher = NopPublisher{}
	if err := p.Publish(context.Background(), New(TypeTransactionCreated, "", nil)); err != nil {
		t.Errorf("NopPublisher.Publish returned %v", err)
	}
	if err := p.Close(); err != nil {
		t.Errorf("NopPublisher.Close returned %v", err)
	}
}
