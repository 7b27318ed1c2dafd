package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/ismayilasim8-dot/Football-empire-bot/internal/chat"
)

// Logging returns an interceptor that logs every handled event.
// Errors that known reports as expected domain outcomes are logged at Warn,
// anything else at Error.
func Logging(logger *slog.Logger, known func(error) bool) chat.Interceptor {
	return func(next chat.HandlerFunc) chat.HandlerFunc {
		return func(ctx context.Context, ev *chat.Event) error {
			start := time.Now()

			err := next(ctx, ev)

			attrs := []any{
				"event_id", GetEventID(ctx),
				"update_id", ev.UpdateID,
				"actor_id", ev.Actor,
				"kind", ev.Kind(),
				"duration_ms", time.Since(start).Milliseconds(),
			}
			if ev.Action != "" {
				attrs = append(attrs, "action", ev.Action)
			}
			if ev.Command != "" {
				attrs = append(attrs, "command", ev.Command)
			}

			switch {
			case err == nil:
				logger.Info("event ok", attrs...)
			case known != nil && known(err):
				logger.Warn("event rejected", append(attrs, "error", err)...)
			default:
				logger.Error("event failed", append(attrs, "error", err)...)
			}
			return err
		}
	}
}
