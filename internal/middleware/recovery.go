package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/ismayilasim8-dot/Football-empire-bot/internal/chat"
)

// ErrPanic wraps a recovered handler panic.
var ErrPanic = errors.New("handler panicked")

// Recovery turns a panicking handler into an ErrPanic and tells the actor to
// retry. The reply is best effort.
func Recovery(logger *slog.Logger, responder chat.Responder, text string) chat.Interceptor {
	return func(next chat.HandlerFunc) chat.HandlerFunc {
		return func(ctx context.Context, ev *chat.Event) (err error) {
			defer func() {
				r := recover()
				if r == nil {
					return
				}
				logger.Error("handler panic",
					"event_id", GetEventID(ctx),
					"actor_id", ev.Actor,
					"panic", r,
					"stack", string(debug.Stack()),
				)
				if rerr := responder.Reply(ctx, ev, chat.Text(text)); rerr != nil {
					logger.Warn("failed to send panic reply", "actor_id", ev.Actor, "error", rerr)
				}
				err = fmt.Errorf("%w: %v", ErrPanic, r)
			}()
			return next(ctx, ev)
		}
	}
}
