package bot

import (
	"context"
	"fmt"

	"github.com/ismayilasim8-dot/Football-empire-bot/internal/access"
	"github.com/ismayilasim8-dot/Football-empire-bot/internal/chat"
	"github.com/ismayilasim8-dot/Football-empire-bot/internal/models"
	"github.com/ismayilasim8-dot/Football-empire-bot/internal/money"
	"github.com/ismayilasim8-dot/Football-empire-bot/internal/session"
	"github.com/ismayilasim8-dot/Football-empire-bot/internal/workflow"
)

// Workflow names.
const (
	FlowCreateClub      = "create_club"
	FlowReassignManager = "reassign_manager"
	FlowAdjustBudget    = "adjust_budget"
	FlowAddAdmin        = "add_admin"
)

// Session fields.
const (
	fieldClub        = "club_id"
	fieldName        = "name"
	fieldDescription = "description"
	fieldManager     = "manager"
	fieldBudget      = "budget"
	fieldAmount      = "amount"
	fieldReason      = "reason"
	fieldAdmin       = "admin"
)

const (
	maxNameLen        = 64
	maxDescriptionLen = 500
	maxReasonLen      = 200
)

func flowLevel(flow string) access.Level {
	if flow == FlowAddAdmin {
		return access.LevelOwner
	}
	return access.LevelAdmin
}

func (b *Bot) flows() []*workflow.Flow {
	return []*workflow.Flow{
		{
			Name: FlowCreateClub,
			Steps: []workflow.Step{
				{Field: fieldName, Prompt: "Enter the club name:", Validate: workflow.Text(maxNameLen)},
				{Field: fieldDescription, Prompt: "Enter a short description of the club:", Validate: workflow.Text(maxDescriptionLen)},
				{Field: fieldManager, Prompt: "Enter the manager's user id (digits only):", Validate: workflow.ActorID},
				{Field: fieldBudget, Prompt: "Enter the starting budget (0 or more):", Validate: workflow.NonNegativeAmount},
			},
			Commit: b.commitCreateClub,
		},
		{
			Name: FlowReassignManager,
			Steps: []workflow.Step{
				{Field: fieldManager, Prompt: "Enter the new manager's user id (digits only):", Validate: workflow.ActorID},
			},
			Commit: b.commitReassignManager,
		},
		{
			Name: FlowAdjustBudget,
			Steps: []workflow.Step{
				{Field: fieldAmount, Prompt: "Enter the amount. Use a minus sign for an expense, e.g. -250000:", Validate: workflow.NonZeroAmount},
				{Field: fieldReason, Prompt: "Enter the reason for this posting:", Validate: workflow.Text(maxReasonLen)},
			},
			Commit: b.commitAdjustBudget,
		},
		{
			Name: FlowAddAdmin,
			Steps: []workflow.Step{
				{Field: fieldAdmin, Prompt: "Enter the user id of the new administrator:", Validate: workflow.ActorID},
			},
			Commit: b.commitAddAdmin,
		},
	}
}

func (b *Bot) startFlow(ctx context.Context, ev *chat.Event, flow, intro string, seed map[string]string) error {
	p, err := b.engine.Start(ctx, ev.Actor, flow, seed)
	if err != nil {
		return b.fail(ctx, ev, err)
	}
	if intro != "" {
		p = intro + "\n\n" + p
	}
	return b.reply(ctx, ev, prompt(p))
}

func clubSeed(clubID int64) map[string]string {
	return map[string]string{fieldClub: fmt.Sprint(clubID)}
}

func (b *Bot) startCreateClub(ctx context.Context, ev *chat.Event, _ int64) error {
	return b.startFlow(ctx, ev, FlowCreateClub, "➕ New club", nil)
}

func (b *Bot) startAdjustBudget(ctx context.Context, ev *chat.Event, clubID int64) error {
	club, err := b.store.GetClub(ctx, clubID)
	if err != nil {
		return b.fail(ctx, ev, err)
	}
	intro := fmt.Sprintf("💰 %s\nBalance: %s", club.Name, money.Format(club.Balance))
	return b.startFlow(ctx, ev, FlowAdjustBudget, intro, clubSeed(club.ID))
}

func (b *Bot) startReassignManager(ctx context.Context, ev *chat.Event, clubID int64) error {
	club, err := b.store.GetClub(ctx, clubID)
	if err != nil {
		return b.fail(ctx, ev, err)
	}
	intro := fmt.Sprintf("👤 %s\nCurrent manager: %d", club.Name, club.OwnerID)
	return b.startFlow(ctx, ev, FlowReassignManager, intro, clubSeed(club.ID))
}

func (b *Bot) startAddAdmin(ctx context.Context, ev *chat.Event, _ int64) error {
	return b.startFlow(ctx, ev, FlowAddAdmin, "", nil)
}

func (b *Bot) commitCreateClub(ctx context.Context, s *session.Session) (string, error) {
	manager, err := s.ActorID(fieldManager)
	if err != nil {
		return "", err
	}
	budget, err := s.Decimal(fieldBudget)
	if err != nil {
		return "", err
	}

	club := &models.Club{
		Name:        s.String(fieldName),
		Description: s.String(fieldDescription),
		OwnerID:     manager,
		Balance:     budget,
	}
	if err := b.store.CreateClub(ctx, club); err != nil {
		return "", err
	}
	b.logger.Info("club created", "club_id", club.ID, "owner_id", club.OwnerID, "actor_id", s.Actor)

	b.notify(ctx, manager, fmt.Sprintf("⚽ You are now the manager of %s. Use /start to open your club.", club.Name))
	return fmt.Sprintf("✅ Club %s created.\nManager: %d\nBudget: %s", club.Name, club.OwnerID, money.Format(club.Balance)), nil
}

func (b *Bot) commitReassignManager(ctx context.Context, s *session.Session) (string, error) {
	clubID, err := s.Int64(fieldClub)
	if err != nil {
		return "", err
	}
	manager, err := s.ActorID(fieldManager)
	if err != nil {
		return "", err
	}

	club, err := b.store.GetClub(ctx, clubID)
	if err != nil {
		return "", err
	}
	if err := b.store.ReassignOwner(ctx, clubID, manager); err != nil {
		return "", err
	}
	b.logger.Info("manager reassigned", "club_id", clubID, "from", club.OwnerID, "to", manager, "actor_id", s.Actor)

	if manager != club.OwnerID {
		b.notify(ctx, manager, fmt.Sprintf("⚽ You are now the manager of %s. Use /start to open your club.", club.Name))
	}
	return fmt.Sprintf("✅ %s is now managed by %d.", club.Name, manager), nil
}

func (b *Bot) commitAdjustBudget(ctx context.Context, s *session.Session) (string, error) {
	clubID, err := s.Int64(fieldClub)
	if err != nil {
		return "", err
	}
	amount, err := s.Decimal(fieldAmount)
	if err != nil {
		return "", err
	}
	reason := s.String(fieldReason)

	club, err := b.store.GetClub(ctx, clubID)
	if err != nil {
		return "", err
	}
	balance, err := b.store.AppendTransaction(ctx, clubID, amount, reason)
	if err != nil {
		return "", err
	}
	b.logger.Info("budget adjusted", "club_id", clubID, "amount", amount.String(), "actor_id", s.Actor)

	if club.OwnerID != 0 {
		b.notify(ctx, club.OwnerID, fmt.Sprintf("💰 Your club balance changed by %s\nReason: %s\nBalance: %s",
			money.FormatSigned(amount), reason, money.Format(balance)))
	}
	return fmt.Sprintf("✅ Posted %s to %s.\nNew balance: %s", money.FormatSigned(amount), club.Name, money.Format(balance)), nil
}

func (b *Bot) commitAddAdmin(ctx context.Context, s *session.Session) (string, error) {
	target, err := s.ActorID(fieldAdmin)
	if err != nil {
		return "", err
	}
	if err := b.gate.AddAdmin(ctx, s.Actor, target); err != nil {
		return "", err
	}
	b.logger.Info("administrator added", "admin_id", target, "actor_id", s.Actor)

	b.notify(ctx, target, "👮 You are now an administrator. Use /start to open the admin menu.")
	return fmt.Sprintf("✅ %d is now an administrator.", target), nil
}
