package middleware

import (
	"context"
	"time"

	"github.com/ismayilasim8-dot/Football-empire-bot/internal/chat"
	"github.com/ismayilasim8-dot/Football-empire-bot/internal/metrics"
)

// Metrics counts events by kind and outcome and observes their latency.
// Outcomes are "ok", "rejected" for errors known reports, and "error".
func Metrics(m *metrics.Metrics, known func(error) bool) chat.Interceptor {
	return func(next chat.HandlerFunc) chat.HandlerFunc {
		return func(ctx context.Context, ev *chat.Event) error {
			start := time.Now()
			err := next(ctx, ev)

			outcome := "ok"
			if err != nil {
				outcome = "error"
				if known != nil && known(err) {
					outcome = "rejected"
				}
			}
			m.ObserveEvent(string(ev.Kind()), outcome, time.Since(start))
			return err
		}
	}
}
