package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/adconnect/backend/internal/apperr"
	"github.com/adconnect/backend/internal/events"
	"github.com/adconnect/backend/internal/models"
	"github.com/adconnect/backend/internal/repositories"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// dashboardLimit caps every list shown on a dashboard.
const dashboardLimit = 100

func audit(ctx context.Context, r Repos, actor models.Actor, action, entityType string, entityID uuid.UUID, meta map[string]any) error {
	actorID := actor.UserID
	entry := models.AuditLog{
		ActorUserID: &actorID,
		ActorRole:   string(actor.Role),
		Action:      action,
		EntityType:  entityType,
		EntityID:    &entityID,
	}
	if meta != nil {
		entry.Meta = meta
	}
	if err := r.Audit.Log(ctx, entry); err != nil {
		return fmt.Errorf("audit %s: %w", action, err)
	}
	return nil
}

// notFound converts a repository miss into the public not-found error and
// wraps anything else.
func notFound(err error, entity string) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return apperr.NotFound(entity)
	}
	return fmt.Errorf("load %s: %w", entity, err)
}

// outbox collects events during a transaction; they are published only
// after commit.
type outbox struct {
	events []outboxEvent
}

type outboxEvent struct {
	channel string
	event   events.Event
}

func (o *outbox) add(channel string, ev events.Event) {
	o.events = append(o.events, outboxEvent{channel: channel, event: ev})
}

func (o *outbox) flush(ctx context.Context, pub events.Publisher, log *zap.Logger) {
	for _, e := range o.events {
		if err := pub.Publish(ctx, e.channel, e.event); err != nil {
			log.Warn("failed to publish event",
				zap.String("channel", e.channel),
				zap.String("type", e.event.Type),
				zap.Error(err),
			)
		}
	}
	o.events = nil
}

func recipients(ids ...uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if id == uuid.Nil || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
