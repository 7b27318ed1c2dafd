package middleware

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ismayilasim8-dot/Football-empire-bot/internal/chat"
	"github.com/ismayilasim8-dot/Football-empire-bot/internal/metrics"
	"github.com/ismayilasim8-dot/Football-empire-bot/internal/models"
)

var errKnown = errors.New("insufficient funds")

func isKnown(err error) bool { return errors.Is(err, errKnown) }

type recordingResponder struct {
	replies []chat.Reply
}

func (r *recordingResponder) Reply(_ context.Context, _ *chat.Event, reply chat.Reply) error {
	r.replies = append(r.replies, reply)
	return nil
}

func (r *recordingResponder) Notify(context.Context, models.ActorID, string) error {
	return nil
}

func TestIdentify(t *testing.T) {
	var gotEvent string
	var gotActor models.ActorID
	h := chat.Chain(func(ctx context.Context, ev *chat.Event) error {
		gotEvent = GetEventID(ctx)
		gotActor, _ = GetActorID(ctx)
		return nil
	}, Identify())

	if err := h(context.Background(), &chat.Event{Actor: 77}); err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	if len(gotEvent) != 36 {
		t.Errorf("event id = %q, want a uuid", gotEvent)
	}
	if gotActor != 77 {
		t.Errorf("actor = %d, want 77", gotActor)
	}
	if _, ok := GetActorID(context.Background()); ok {
		t.Error("empty context reported an actor")
	}
}

func TestLoggingLevels(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantLevel string
		wantMsg   string
	}{
		{"ok", nil, "level=INFO", "event ok"},
		{"known", errKnown, "level=WARN", "event rejected"},
		{"unknown", errors.New("connection reset"), "level=ERROR", "event failed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := slog.New(slog.NewTextHandler(&buf, nil))
			h := chat.Chain(func(context.Context, *chat.Event) error { return tt.err },
				Identify(), Logging(logger, isKnown))

			err := h(context.Background(), &chat.Event{Actor: 5, Action: "upgrade_do:1"})
			if !errors.Is(err, tt.err) {
				t.Errorf("error not passed through: %v", err)
			}
			out := buf.String()
			for _, want := range []string{tt.wantLevel, tt.wantMsg, "actor_id=5", "action=upgrade_do:1", "event_id="} {
				if !strings.Contains(out, want) {
					t.Errorf("log %q missing %q", out, want)
				}
			}
		})
	}
}

func TestRecovery(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	responder := &recordingResponder{}

	h := chat.Chain(func(context.Context, *chat.Event) error {
		panic("nil club")
	}, Recovery(logger, responder, "try again later"))

	err := h(context.Background(), &chat.Event{Actor: 9})
	if !errors.Is(err, ErrPanic) {
		t.Fatalf("expected ErrPanic, got %v", err)
	}
	if len(responder.replies) != 1 || responder.replies[0].Text != "try again later" {
		t.Errorf("replies = %+v", responder.replies)
	}
	if !strings.Contains(buf.String(), "handler panic") {
		t.Errorf("panic not logged: %q", buf.String())
	}
}

func TestMetricsOutcome(t *testing.T) {
	m := metrics.New()
	for _, e := range []error{nil, errKnown, errors.New("boom")} {
		h := chat.Chain(func(context.Context, *chat.Event) error { return e }, Metrics(m, isKnown))
		h(context.Background(), &chat.Event{Text: "hi"})
	}

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	out := rec.Body.String()
	for _, outcome := range []string{"ok", "rejected", "error"} {
		want := `clubbot_events_total{kind="message",outcome="` + outcome + `"} 1`
		if !strings.Contains(out, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

func TestTracingPassesErrorThrough(t *testing.T) {
	boom := errors.New("boom")
	h := chat.Chain(func(context.Context, *chat.Event) error { return boom }, Tracing())
	if err := h(context.Background(), &chat.Event{Command: "start"}); !errors.Is(err, boom) {
		t.Errorf("expected boom, got %v", err)
	}
}
