// Package events delivers domain events after a change is committed.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sousa/mealplan/internal/domain/shared"
	"github.com/sousa/mealplan/internal/ports/outbound"
	"go.uber.org/zap"
)

var _ outbound.EventPublisher = (*Publisher)(nil)

// Counter records one published event per call
type Counter interface {
	EventPublished(name string)
}

// Broadcaster is the part of a Redis client used to fan events out
type Broadcaster interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// Envelope is the wire form of an event on the broadcast channel
type Envelope struct {
	Event       string             `json:"event"`
	AggregateID uuid.UUID          `json:"aggregate_id"`
	OccurredAt  time.Time          `json:"occurred_at"`
	Payload     shared.DomainEvent `json:"payload"`
}

// Publisher logs and counts every event and, when a broadcaster is set,
// publishes it on "<prefix>events:<name>" for other instances.
type Publisher struct {
	logger      *zap.Logger
	counter     Counter
	broadcaster Broadcaster
	prefix      string
}

// NewPublisher creates a publisher. counter and broadcaster may be nil.
func NewPublisher(logger *zap.Logger, counter Counter, broadcaster Broadcaster, prefix string) *Publisher {
	return &Publisher{
		logger:      logger.Named("events"),
		counter:     counter,
		broadcaster: broadcaster,
		prefix:      prefix,
	}
}

// Publish never fails the caller; delivery problems are logged
func (p *Publisher) Publish(ctx context.Context, events ...shared.DomainEvent) {
	for _, e := range events {
		if e == nil {
			continue
		}
		p.logger.Info("Domain event",
			zap.String("event", e.EventName()),
			zap.String("aggregate_id", e.AggregateID().String()),
			zap.Time("occurred_at", e.OccurredAt()),
		)
		if p.counter != nil {
			p.counter.EventPublished(e.EventName())
		}
		if p.broadcaster != nil {
			p.broadcast(ctx, e)
		}
	}
}

func (p *Publisher) broadcast(ctx context.Context, e shared.DomainEvent) {
	body, err := json.Marshal(Envelope{
		Event:       e.EventName(),
		AggregateID: e.AggregateID(),
		OccurredAt:  e.OccurredAt(),
		Payload:     e,
	})
	if err != nil {
		p.logger.Warn("Failed to encode event", zap.String("event", e.EventName()), zap.Error(err))
		return
	}
	// the request may already be finishing; delivery gets its own deadline
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()
	if err := p.broadcaster.Publish(ctx, p.Channel(e.EventName()), body).Err(); err != nil {
		p.logger.Warn("Failed to broadcast event", zap.String("event", e.EventName()), zap.Error(err))
	}
}

// Channel returns the broadcast channel for an event name
func (p *Publisher) Channel(name string) string {
	return p.prefix + "events:" + name
}
