package shared

import (
	"time"

	"github.com/google/uuid"
)

// DomainEvent represents an event that has occurred in the domain
type DomainEvent interface {
	EventName() string
	OccurredAt() time.Time
	AggregateID() uuid.UUID
}

// BaseEvent carries the fields every event shares
type BaseEvent struct {
	Name      string    `json:"event"`
	Aggregate uuid.UUID `json:"aggregate_id"`
	UserID    uuid.UUID `json:"user_id"`
	At        time.Time `json:"occurred_at"`
}

// NewBaseEvent stamps an event with the current time
func NewBaseEvent(name string, aggregateID, userID uuid.UUID) BaseEvent {
	return BaseEvent{Name: name, Aggregate: aggregateID, UserID: userID, At: time.Now().UTC()}
}

func (e BaseEvent) EventName() string      { return e.Name }
func (e BaseEvent) OccurredAt() time.Time  { return e.At }
func (e BaseEvent) AggregateID() uuid.UUID { return e.Aggregate }

// AggregateRoot is the base type for aggregate roots
type AggregateRoot struct {
	events []DomainEvent
}

// AddEvent adds a domain event to be dispatched
func (a *AggregateRoot) AddEvent(event DomainEvent) {
	a.events = append(a.events, event)
}

// Events returns and clears pending domain events
func (a *AggregateRoot) Events() []DomainEvent {
	events := a.events
	a.events = nil
	return events
}
