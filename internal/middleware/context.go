package middleware

import (
	"context"

	"github.com/google/uuid"

	"github.com/ismayilasim8-dot/Football-empire-bot/internal/chat"
	"github.com/ismayilasim8-dot/Football-empire-bot/internal/models"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// EventIDKey is the context key for the correlation id of an event.
	EventIDKey contextKey = "event_id"
	// ActorIDKey is the context key for the actor who sent the event.
	ActorIDKey contextKey = "actor_id"
)

// GetEventID extracts the event correlation id from the context.
// Returns empty string if not found.
func GetEventID(ctx context.Context) string {
	id, _ := ctx.Value(EventIDKey).(string)
	return id
}

// GetActorID extracts the acting identity from the context.
func GetActorID(ctx context.Context) (models.ActorID, bool) {
	id, ok := ctx.Value(ActorIDKey).(models.ActorID)
	return id, ok
}

// Identify tags the context with a fresh correlation id and the actor.
// It should run before the other interceptors so their logs carry both.
func Identify() chat.Interceptor {
	return func(next chat.HandlerFunc) chat.HandlerFunc {
		return func(ctx context.Context, ev *chat.Event) error {
			ctx = context.WithValue(ctx, EventIDKey, uuid.NewString())
			ctx = context.WithValue(ctx, ActorIDKey, ev.Actor)
			return next(ctx, ev)
		}
	}
}
