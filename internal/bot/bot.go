// Package bot implements the conversation: menus, club actions, stadium
// upgrades, reports and the multi-step administrative flows.
//
// Every event passes the access gate first. Text messages go to the
// actor's active workflow, if any; commands and button taps are routed
// through the action table.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ismayilasim8-dot/Football-empire-bot/internal/access"
	"github.com/ismayilasim8-dot/Football-empire-bot/internal/chat"
	"github.com/ismayilasim8-dot/Football-empire-bot/internal/metrics"
	"github.com/ismayilasim8-dot/Football-empire-bot/internal/models"
	"github.com/ismayilasim8-dot/Football-empire-bot/internal/session"
	"github.com/ismayilasim8-dot/Football-empire-bot/internal/storage"
	"github.com/ismayilasim8-dot/Football-empire-bot/internal/upgrade"
	"github.com/ismayilasim8-dot/Football-empire-bot/internal/workflow"
)

// Deps are the collaborators of a Bot.
type Deps struct {
	Store     storage.Store
	Policy    *upgrade.Policy
	Gate      *access.Gate
	Sessions  session.Store
	Responder chat.Responder
	Metrics   *metrics.Metrics
	Logger    *slog.Logger
}

// Bot handles chat events.
type Bot struct {
	store     storage.Store
	policy    *upgrade.Policy
	gate      *access.Gate
	engine    *workflow.Engine
	responder chat.Responder
	metrics   *metrics.Metrics
	logger    *slog.Logger

	actions map[string]action
}

type action struct {
	level  access.Level
	handle func(ctx context.Context, ev *chat.Event, arg int64) error
	// needsArg rejects taps whose data lacks the numeric argument.
	needsArg bool
}

// New wires a Bot and registers its workflows.
func New(d Deps) (*Bot, error) {
	if d.Store == nil || d.Policy == nil || d.Gate == nil || d.Sessions == nil || d.Responder == nil {
		return nil, errors.New("bot: store, policy, gate, sessions and responder are required")
	}
	if d.Logger == nil {
		d.Logger = slog.Default()
	}

	b := &Bot{
		store:     d.Store,
		policy:    d.Policy,
		gate:      d.Gate,
		engine:    workflow.NewEngine(d.Sessions, d.Logger),
		responder: d.Responder,
		metrics:   d.Metrics,
		logger:    d.Logger,
	}
	b.engine.OnCommit = b.metrics.ObserveCommit

	for _, f := range b.flows() {
		if err := b.engine.Register(f); err != nil {
			return nil, fmt.Errorf("bot: %w", err)
		}
	}
	b.actions = b.actionTable()
	return b, nil
}

// Engine exposes the workflow engine, mainly for tests and the sweeper.
func (b *Bot) Engine() *workflow.Engine {
	return b.engine
}

// Handle is the chat.HandlerFunc of the bot.
func (b *Bot) Handle(ctx context.Context, ev *chat.Event) error {
	if _, err := b.gate.Check(ctx, ev.Actor, access.LevelPublic); err != nil {
		return b.fail(ctx, ev, err)
	}

	switch ev.Kind() {
	case chat.KindCommand:
		return b.handleCommand(ctx, ev)
	case chat.KindAction:
		return b.handleAction(ctx, ev)
	default:
		return b.handleText(ctx, ev)
	}
}

func (b *Bot) handleCommand(ctx context.Context, ev *chat.Event) error {
	switch ev.Command {
	case "start":
		if _, err := b.engine.Cancel(ctx, ev.Actor); err != nil {
			return b.fail(ctx, ev, err)
		}
		return b.start(ctx, ev)
	case "cancel":
		return b.cancel(ctx, ev)
	default:
		return b.reply(ctx, ev, chat.Text(textUnknownCommand))
	}
}

func (b *Bot) handleAction(ctx context.Context, ev *chat.Event) error {
	if ev.Action == actCancel {
		return b.cancel(ctx, ev)
	}

	name, arg, hasArg := chat.SplitAction(ev.Action)
	act, ok := b.actions[name]
	if !ok || act.needsArg != hasArg {
		return b.fail(ctx, ev, errUnknownAction)
	}
	if _, err := b.gate.Check(ctx, ev.Actor, act.level); err != nil {
		return b.fail(ctx, ev, err)
	}

	// A menu tap abandons whatever the actor was typing.
	if _, err := b.engine.Cancel(ctx, ev.Actor); err != nil {
		return b.fail(ctx, ev, err)
	}
	return act.handle(ctx, ev, arg)
}

func (b *Bot) handleText(ctx context.Context, ev *chat.Event) error {
	flow, active, err := b.engine.Active(ctx, ev.Actor)
	if err != nil {
		return b.fail(ctx, ev, err)
	}
	if !active {
		return b.reply(ctx, ev, chat.Text(textUseStart))
	}

	// Privilege is re-checked on every step: it may have been revoked
	// since the flow started.
	if _, err := b.gate.Check(ctx, ev.Actor, flowLevel(flow)); err != nil {
		if _, cerr := b.engine.Cancel(ctx, ev.Actor); cerr != nil {
			b.logger.Error("failed to cancel flow", "flow", flow, "actor_id", ev.Actor, "error", cerr)
		}
		return b.fail(ctx, ev, err)
	}

	out, err := b.engine.Handle(ctx, ev.Actor, ev.Text)
	if errors.Is(err, workflow.ErrNoSession) {
		return b.reply(ctx, ev, chat.Text(textUseStart))
	}
	if err != nil {
		return b.fail(ctx, ev, err)
	}

	switch out.Status {
	case workflow.StatusRejected:
		var verr *workflow.ValidationError
		reason := out.Err.Error()
		if errors.As(out.Err, &verr) {
			reason = verr.Reason
		}
		return b.reply(ctx, ev, prompt("⚠️ "+reason+"\n\n"+out.Prompt))
	case workflow.StatusAdvanced:
		return b.reply(ctx, ev, prompt(out.Prompt))
	case workflow.StatusCommitted:
		return b.reply(ctx, ev, b.afterFlow(ctx, ev.Actor, out.Summary))
	default:
		return b.fail(ctx, ev, out.Err)
	}
}

func (b *Bot) cancel(ctx context.Context, ev *chat.Event) error {
	cancelled, err := b.engine.Cancel(ctx, ev.Actor)
	if err != nil {
		return b.fail(ctx, ev, err)
	}
	text := textNothingToCancel
	if cancelled {
		text = textCancelled
	}
	return b.reply(ctx, ev, b.afterFlow(ctx, ev.Actor, text))
}

// afterFlow appends the actor's main menu to text.
func (b *Bot) afterFlow(ctx context.Context, actor models.ActorID, text string) chat.Reply {
	role, err := b.gate.RoleOf(ctx, actor)
	if err != nil || !role.Privileged() {
		return userMenu(text)
	}
	on, err := b.gate.MaintenanceActive(ctx)
	if err != nil {
		b.logger.Warn("failed to read maintenance flag", "error", err)
	}
	return adminMenu(text, role, on)
}

func (b *Bot) reply(ctx context.Context, ev *chat.Event, r chat.Reply) error {
	if err := b.responder.Reply(ctx, ev, r); err != nil {
		return fmt.Errorf("send reply: %w", err)
	}
	return nil
}

// notify sends a best-effort direct message. Failures are logged only.
func (b *Bot) notify(ctx context.Context, actor models.ActorID, text string) {
	err := b.responder.Notify(ctx, actor, text)
	b.metrics.ObserveNotification(err)
	if err != nil {
		b.logger.Warn("notification failed", "actor_id", actor, "error", err)
	}
}
