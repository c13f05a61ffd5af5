package mqtt

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nerrad567/todo-api/internal/todo"
)

// Publisher is the subset of Client used by EventPublisher.
type Publisher interface {
	Publish(topic string, payload []byte, qos byte, retained bool) error
}

// EventPublisher publishes todo change events, one message per event on
// the todo's event topic. It implements todo.Notifier.
type EventPublisher struct {
	pub Publisher
	qos byte
}

// NewEventPublisher creates an EventPublisher that sends with the given QoS.
func NewEventPublisher(pub Publisher, qos byte) *EventPublisher {
	return &EventPublisher{pub: pub, qos: qos}
}

// Notify publishes ev. Events are not retained.
func (p *EventPublisher) Notify(_ context.Context, ev todo.Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encoding %s event: %w", ev.Type, err)
	}
	if err := p.pub.Publish(Topics{}.TodoEvent(ev.Todo.ID), payload, p.qos, false); err != nil {
		return fmt.Errorf("publishing %s event: %w", ev.Type, err)
	}
	return nil
}
