package bot

import (
	"context"
	"errors"
	"fmt"

	"github.com/ismayilasim8-dot/Football-empire-bot/internal/access"
	"github.com/ismayilasim8-dot/Football-empire-bot/internal/chat"
	"github.com/ismayilasim8-dot/Football-empire-bot/internal/storage"
	"github.com/ismayilasim8-dot/Football-empire-bot/internal/upgrade"
)

var (
	errNoClub        = errors.New("actor manages no club")
	errUnknownAction = errors.New("unknown action")
)

var userMessages = []struct {
	err  error
	text string
}{
	{access.ErrUnavailable, "⚠️ The bot is under maintenance. Please try again later."},
	{access.ErrUnauthorized, "⛔ You do not have access to this action."},
	{access.ErrOwnerPermanent, "⛔ The owner cannot be removed."},
	{storage.ErrConflict, "❌ This manager already runs another club."},
	{storage.ErrNotFound, "❌ Not found. It may have been deleted."},
	{storage.ErrAlreadyExists, "ℹ️ This user is already an administrator."},
	{storage.ErrInsufficientFunds, "❌ Not enough funds for this upgrade."},
	{storage.ErrAmountOutOfRange, "❌ The amount is too large for the ledger."},
	{storage.ErrStaleTier, "❌ The stadium changed in the meantime. Open your club card and try again."},
	{upgrade.ErrTerminalTier, "🏟 The stadium is already at the maximum tier."},
	{errNoClub, "⛔ You do not manage a club."},
	{errUnknownAction, "This button is no longer valid. Use /start."},
}

// TextRetryLater is shown for failures the actor cannot fix.
const TextRetryLater = "Something went wrong. Please try again later."

// Known reports whether err is an expected outcome the actor was told
// about, as opposed to an infrastructure failure.
func Known(err error) bool {
	for _, m := range userMessages {
		if errors.Is(err, m.err) {
			return true
		}
	}
	return false
}

// UserMessage returns the text shown to the actor for err.
func UserMessage(err error) string {
	for _, m := range userMessages {
		if errors.Is(err, m.err) {
			return m.text
		}
	}
	return TextRetryLater
}

// fail tells the actor what went wrong and returns err for the
// interceptors to log.
func (b *Bot) fail(ctx context.Context, ev *chat.Event, err error) error {
	text := UserMessage(err)
	if errors.Is(err, errNoClub) {
		text = fmt.Sprintf("%s\nYour id: %d\nSend this id to an administrator.", text, ev.Actor)
	}
	if rerr := b.responder.Reply(ctx, ev, chat.Text(text)); rerr != nil {
		b.logger.Warn("failed to send error reply", "actor_id", ev.Actor, "error", rerr)
	}
	return err
}
