package middleware

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/ismayilasim8-dot/Football-empire-bot/internal/chat"
)

const tracerName = "github.com/ismayilasim8-dot/Football-empire-bot/internal/middleware"

// Tracing opens one server span per event on the global tracer provider.
func Tracing() chat.Interceptor {
	tracer := otel.Tracer(tracerName)
	return func(next chat.HandlerFunc) chat.HandlerFunc {
		return func(ctx context.Context, ev *chat.Event) error {
			ctx, span := tracer.Start(ctx, "chat."+string(ev.Kind()),
				trace.WithSpanKind(trace.SpanKindServer),
				trace.WithAttributes(
					attribute.Int64("chat.actor_id", int64(ev.Actor)),
					attribute.Int("chat.update_id", ev.UpdateID),
					attribute.String("chat.event_id", GetEventID(ctx)),
				),
			)
			defer span.End()

			if ev.Action != "" {
				span.SetAttributes(attribute.String("chat.action", ev.Action))
			}

			err := next(ctx, ev)
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
			}
			return err
		}
	}
}
