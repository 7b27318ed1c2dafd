// Package telegram adapts the Telegram Bot API to the chat package:
// long-polled updates become chat.Events and chat.Replies become messages
// with inline keyboards.
package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/ismayilasim8-dot/Football-empire-bot/internal/chat"
	"github.com/ismayilasim8-dot/Football-empire-bot/internal/models"
)

var _ chat.Responder = (*Transport)(nil)

// API is the subset of *tgbotapi.BotAPI the transport uses.
type API interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

const (
	defaultWorkers = 8
	queueSize      = 64
)

// Transport receives updates and sends replies.
type Transport struct {
	api         API
	logger      *slog.Logger
	pollTimeout time.Duration
	workers     int
}

// Connect authenticates token against the Bot API.
func Connect(token string) (*tgbotapi.BotAPI, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("connect telegram: %w", err)
	}
	return api, nil
}

// New creates a transport over api.
func New(api API, logger *slog.Logger, pollTimeout time.Duration) *Transport {
	if logger == nil {
		logger = slog.Default()
	}
	return &Transport{api: api, logger: logger, pollTimeout: pollTimeout, workers: defaultWorkers}
}

// EventFromUpdate converts an update. ok is false for updates the bot does
// not react to, such as edits or channel posts.
func EventFromUpdate(u tgbotapi.Update) (ev *chat.Event, ok bool) {
	switch {
	case u.CallbackQuery != nil && u.CallbackQuery.From != nil:
		q := u.CallbackQuery
		ev = &chat.Event{
			UpdateID:   u.UpdateID,
			Actor:      models.ActorID(q.From.ID),
			ChatID:     q.From.ID,
			Action:     q.Data,
			CallbackID: q.ID,
		}
		if q.Message != nil && q.Message.Chat != nil {
			ev.ChatID = q.Message.Chat.ID
		}
		return ev, q.Data != ""

	case u.Message != nil && u.Message.From != nil && u.Message.Chat != nil:
		m := u.Message
		ev = &chat.Event{
			UpdateID: u.UpdateID,
			Actor:    models.ActorID(m.From.ID),
			ChatID:   m.Chat.ID,
			Text:     m.Text,
		}
		if m.IsCommand() {
			ev.Command = m.Command()
			ev.Text = m.CommandArguments()
		}
		return ev, ev.Command != "" || ev.Text != ""
	}
	return nil, false
}

func keyboard(rows [][]chat.Button) tgbotapi.InlineKeyboardMarkup {
	out := make([][]tgbotapi.InlineKeyboardButton, 0, len(rows))
	for _, row := range rows {
		buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, b := range row {
			buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(b.Label, b.Action))
		}
		out = append(out, tgbotapi.NewInlineKeyboardRow(buttons...))
	}
	return tgbotapi.NewInlineKeyboardMarkup(out...)
}

// Reply sends r to the chat the event came from.
func (t *Transport) Reply(_ context.Context, ev *chat.Event, r chat.Reply) error {
	msg := tgbotapi.NewMessage(ev.ChatID, r.Text)
	if len(r.Buttons) > 0 {
		msg.ReplyMarkup = keyboard(r.Buttons)
	}
	if _, err := t.api.Send(msg); err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}

// Notify sends text to the private chat of actor. It fails when the actor
// never started the bot.
func (t *Transport) Notify(_ context.Context, actor models.ActorID, text string) error {
	if _, err := t.api.Send(tgbotapi.NewMessage(int64(actor), text)); err != nil {
		return fmt.Errorf("notify %d: %w", actor, err)
	}
	return nil
}

func (t *Transport) ack(ev *chat.Event) {
	if ev.CallbackID == "" {
		return
	}
	if _, err := t.api.Request(tgbotapi.NewCallback(ev.CallbackID, "")); err != nil {
		t.logger.Warn("failed to answer callback", "actor_id", ev.Actor, "error", err)
	}
}

// Run polls for updates and feeds them to handle until ctx is done.
//
// Events of one actor are handled in arrival order by the same worker;
// different actors are handled concurrently. Handlers run on a context
// that is not cancelled at shutdown, so in-flight store transactions
// finish.
func (t *Transport) Run(ctx context.Context, handle chat.HandlerFunc) error {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = int(t.pollTimeout / time.Second)
	cfg.AllowedUpdates = []string{"message", "callback_query"}
	updates := t.api.GetUpdatesChan(cfg)

	handlerCtx := context.WithoutCancel(ctx)
	queues := make([]chan *chat.Event, t.workers)
	var wg sync.WaitGroup
	for i := range queues {
		queues[i] = make(chan *chat.Event, queueSize)
		wg.Add(1)
		go func(q <-chan *chat.Event) {
			defer wg.Done()
			for ev := range q {
				t.ack(ev)
				// Errors were already reported and logged by the chain.
				_ = handle(handlerCtx, ev)
			}
		}(queues[i])
	}
	stop := func() {
		for _, q := range queues {
			close(q)
		}
		wg.Wait()
	}

	t.logger.Info("telegram polling started", "timeout", t.pollTimeout, "workers", t.workers)
	for {
		select {
		case <-ctx.Done():
			t.api.StopReceivingUpdates()
			stop()
			t.logger.Info("telegram polling stopped")
			return nil
		case u, ok := <-updates:
			if !ok {
				stop()
				return nil
			}
			ev, ok := EventFromUpdate(u)
			if !ok {
				continue
			}
			queues[uint64(ev.Actor)%uint64(len(queues))] <- ev
		}
	}
}
