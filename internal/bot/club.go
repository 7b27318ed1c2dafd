package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ismayilasim8-dot/Football-empire-bot/internal/calculator"
	"github.com/ismayilasim8-dot/Football-empire-bot/internal/chat"
	"github.com/ismayilasim8-dot/Football-empire-bot/internal/models"
	"github.com/ismayilasim8-dot/Football-empire-bot/internal/money"
	"github.com/ismayilasim8-dot/Football-empire-bot/internal/storage"
	"github.com/ismayilasim8-dot/Football-empire-bot/internal/upgrade"
)

const entryTimeLayout = "2006-01-02 15:04"

// clubOf loads the club the actor manages.
func (b *Bot) clubOf(ctx context.Context, ev *chat.Event) (*models.Club, error) {
	club, err := b.store.GetClubByOwner(ctx, ev.Actor)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, errNoClub
	}
	return club, err
}

func (b *Bot) showUserMenu(ctx context.Context, ev *chat.Event, _ int64) error {
	club, err := b.clubOf(ctx, ev)
	if err != nil {
		return b.fail(ctx, ev, err)
	}
	return b.reply(ctx, ev, userMenu(club.Name))
}

func (b *Bot) showClubInfo(ctx context.Context, ev *chat.Event, _ int64) error {
	club, err := b.clubOf(ctx, ev)
	if err != nil {
		return b.fail(ctx, ev, err)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "🏟 %s\n", club.Name)
	if club.Description != "" {
		fmt.Fprintf(&sb, "%s\n", club.Description)
	}
	fmt.Fprintf(&sb, "\n💰 Balance: %s\n", money.Format(club.Balance))

	tier, err := b.policy.Lookup(club.Tier)
	if err != nil {
		return b.fail(ctx, ev, err)
	}
	fmt.Fprintf(&sb, "🏟 Stadium: %s (tier %d), capacity %d\n", tier.Name, tier.Level, tier.Capacity)

	next, err := b.policy.NextTier(club.Tier)
	if errors.Is(err, upgrade.ErrTerminalTier) {
		sb.WriteString("⬆️ Maximum tier reached")
	} else if err == nil {
		nt, _ := b.policy.Lookup(next)
		fmt.Fprintf(&sb, "⬆️ Next: %s, capacity %d, cost %s", nt.Name, nt.Capacity, money.Format(nt.Cost))
	}
	return b.reply(ctx, ev, chat.Text(sb.String()).Row(btn("🔙 Menu", actUserMenu)))
}

// offerUpgrade shows the next tier and asks for confirmation.
func (b *Bot) offerUpgrade(ctx context.Context, ev *chat.Event, _ int64) error {
	club, err := b.clubOf(ctx, ev)
	if err != nil {
		return b.fail(ctx, ev, err)
	}

	next, err := b.policy.NextTier(club.Tier)
	if err != nil {
		if errors.Is(err, upgrade.ErrTerminalTier) {
			b.metrics.ObserveUpgrade("terminal")
		}
		return b.fail(ctx, ev, err)
	}
	tier, _ := b.policy.Lookup(next)

	text := fmt.Sprintf("🛠 Upgrade to %s?\nCapacity: %d\nCost: %s\nYour balance: %s",
		tier.Name, tier.Capacity, money.Format(tier.Cost), money.Format(club.Balance))
	if !b.policy.CanAfford(club.Balance, next) {
		text += "\n\n❌ Not enough funds yet."
		return b.reply(ctx, ev, chat.Text(text).Row(btn("🔙 Menu", actUserMenu)))
	}
	return b.reply(ctx, ev, chat.Text(text).
		Row(btn("✅ Upgrade", chat.Action(actUpgradeDo, int64(next))), btn("🔙 Menu", actUserMenu)))
}

// upgradeStadium commits an upgrade to tier. The affordability check here
// fails fast; the store repeats it under the club lock.
func (b *Bot) upgradeStadium(ctx context.Context, ev *chat.Event, tier int64) error {
	club, err := b.clubOf(ctx, ev)
	if err != nil {
		return b.fail(ctx, ev, err)
	}

	updated, err := b.upgrade(ctx, club, int(tier))
	if err != nil {
		return b.fail(ctx, ev, err)
	}

	name := b.policy.NameOf(updated.Tier)
	capacity, _ := b.policy.CapacityOf(updated.Tier)
	text := fmt.Sprintf("🎉 Stadium upgraded to %s!\nCapacity: %d\nBalance: %s",
		name, capacity, money.Format(updated.Balance))
	return b.reply(ctx, ev, userMenu(text))
}

func (b *Bot) upgrade(ctx context.Context, club *models.Club, tier int) (*models.Club, error) {
	next, err := b.policy.NextTier(club.Tier)
	if errors.Is(err, upgrade.ErrTerminalTier) {
		b.metrics.ObserveUpgrade("terminal")
		return nil, err
	}
	if err != nil {
		b.metrics.ObserveUpgrade("error")
		return nil, err
	}
	// Affordability of the requested tier is checked before staleness: a
	// tap that lost the race for the funds reports ErrInsufficientFunds.
	cost, err := b.policy.CostOf(tier)
	if err != nil {
		b.metrics.ObserveUpgrade("stale")
		return nil, storage.ErrStaleTier
	}
	if !b.policy.CanAfford(club.Balance, tier) {
		b.metrics.ObserveUpgrade("insufficient_funds")
		return nil, storage.ErrInsufficientFunds
	}
	if tier != next {
		b.metrics.ObserveUpgrade("stale")
		return nil, storage.ErrStaleTier
	}

	reason := fmt.Sprintf("Stadium upgrade to %s (tier %d)", b.policy.NameOf(next), next)
	updated, err := b.store.UpgradeTier(ctx, club.ID, next, cost, reason)
	switch {
	case err == nil:
		b.metrics.ObserveUpgrade("ok")
		b.logger.Info("stadium upgraded", "club_id", club.ID, "tier", next, "cost", cost.String())
		return updated, nil
	case errors.Is(err, storage.ErrInsufficientFunds):
		b.metrics.ObserveUpgrade("insufficient_funds")
	case errors.Is(err, storage.ErrStaleTier):
		b.metrics.ObserveUpgrade("stale")
	default:
		b.metrics.ObserveUpgrade("error")
	}
	return nil, err
}

func (b *Bot) showExpenses(ctx context.Context, ev *chat.Event, _ int64) error {
	return b.showLedger(ctx, ev, models.FilterExpense, "📉 Expenses")
}

func (b *Bot) showIncomes(ctx context.Context, ev *chat.Event, _ int64) error {
	return b.showLedger(ctx, ev, models.FilterIncome, "📈 Income")
}

func (b *Bot) showHistory(ctx context.Context, ev *chat.Event, _ int64) error {
	return b.showLedger(ctx, ev, models.FilterAll, "🔄 History")
}

func (b *Bot) showLedger(ctx context.Context, ev *chat.Event, filter models.EntryFilter, title string) error {
	club, err := b.clubOf(ctx, ev)
	if err != nil {
		return b.fail(ctx, ev, err)
	}
	entries, err := b.store.ListTransactions(ctx, club.ID, filter)
	if err != nil {
		return b.fail(ctx, ev, err)
	}
	return b.reply(ctx, ev, chat.Text(renderLedger(title, filter, entries)).Row(btn("🔙 Menu", actUserMenu)))
}

func renderLedger(title string, filter models.EntryFilter, entries []*models.LedgerEntry) string {
	if len(entries) == 0 {
		return title + "\n\nNo entries yet."
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s (last %d)\n", title, len(entries))
	for _, e := range entries {
		fmt.Fprintf(&sb, "\n%s  %s  %s", e.OccurredAt.Format(entryTimeLayout), money.FormatSigned(e.Amount), e.Reason)
	}

	sum := calculator.Summarize(entries)
	sb.WriteString("\n\n")
	switch filter {
	case models.FilterIncome:
		fmt.Fprintf(&sb, "Total: %s", money.FormatSigned(sum.Income))
	case models.FilterExpense:
		fmt.Fprintf(&sb, "Total: %s", money.Format(sum.Expense))
	default:
		fmt.Fprintf(&sb, "Income: %s\nExpense: %s\nNet: %s",
			money.FormatSigned(sum.Income), money.Format(sum.Expense), money.FormatSigned(sum.Net))
	}
	return sb.String()
}
