package bot

import (
	"context"
	"fmt"
	"strings"

	"github.com/ismayilasim8-dot/Football-empire-bot/internal/access"
	"github.com/ismayilasim8-dot/Football-empire-bot/internal/chat"
	"github.com/ismayilasim8-dot/Football-empire-bot/internal/models"
	"github.com/ismayilasim8-dot/Football-empire-bot/internal/money"
)

func (b *Bot) actionTable() map[string]action {
	admin := func(h func(context.Context, *chat.Event, int64) error) action {
		return action{level: access.LevelAdmin, handle: h}
	}
	adminArg := func(h func(context.Context, *chat.Event, int64) error) action {
		return action{level: access.LevelAdmin, handle: h, needsArg: true}
	}
	owner := func(h func(context.Context, *chat.Event, int64) error) action {
		return action{level: access.LevelOwner, handle: h}
	}
	public := func(h func(context.Context, *chat.Event, int64) error) action {
		return action{level: access.LevelPublic, handle: h}
	}

	return map[string]action{
		actAdminMenu:    admin(b.showAdminMenu),
		actCreateClub:   admin(b.startCreateClub),
		actManageClubs:  admin(b.showClubPicker),
		actListClubs:    admin(b.showClubList),
		actSelectClub:   adminArg(b.showClubCard),
		actClubBudget:   adminArg(b.startAdjustBudget),
		actClubManager:  adminArg(b.startReassignManager),
		actClubDelete:   adminArg(b.confirmDelete),
		actClubDeleteOK: adminArg(b.deleteClub),

		actAdmins:      owner(b.showAdmins),
		actAddAdmin:    owner(b.startAddAdmin),
		actRemoveAdmin: {level: access.LevelOwner, handle: b.removeAdmin, needsArg: true},
		actMaintenance: owner(b.toggleMaintenance),

		actUserMenu:  public(b.showUserMenu),
		actInfo:      public(b.showClubInfo),
		actUpgrade:   public(b.offerUpgrade),
		actUpgradeDo: {level: access.LevelPublic, handle: b.upgradeStadium, needsArg: true},
		actExpenses:  public(b.showExpenses),
		actIncomes:   public(b.showIncomes),
		actHistory:   public(b.showHistory),
	}
}

// start greets the actor according to role.
func (b *Bot) start(ctx context.Context, ev *chat.Event) error {
	role, err := b.gate.RoleOf(ctx, ev.Actor)
	if err != nil {
		return b.fail(ctx, ev, err)
	}

	if role.Privileged() {
		title := "Administrator"
		if role == access.RoleOwner {
			title = "Owner"
		}
		on, err := b.gate.MaintenanceActive(ctx)
		if err != nil {
			return b.fail(ctx, ev, err)
		}
		text := fmt.Sprintf("⚽ Hello, %s!\nThe club finance desk is ready.", title)
		return b.reply(ctx, ev, adminMenu(text, role, on))
	}

	club, err := b.clubOf(ctx, ev)
	if err != nil {
		return b.fail(ctx, ev, err)
	}
	return b.reply(ctx, ev, userMenu(fmt.Sprintf("👋 Welcome, manager of %s!", club.Name)))
}

func (b *Bot) showAdminMenu(ctx context.Context, ev *chat.Event, _ int64) error {
	return b.reply(ctx, ev, b.afterFlow(ctx, ev.Actor, "Admin menu"))
}

func (b *Bot) showClubPicker(ctx context.Context, ev *chat.Event, _ int64) error {
	clubs, err := b.store.ListClubs(ctx)
	if err != nil {
		return b.fail(ctx, ev, err)
	}
	if len(clubs) == 0 {
		return b.reply(ctx, ev, chat.Text("No clubs yet.").Row(btn("🔙 Back", actAdminMenu)))
	}

	r := chat.Text("Select a club:")
	for _, c := range clubs {
		r = r.Row(btn(c.Name, chat.Action(actSelectClub, c.ID)))
	}
	return b.reply(ctx, ev, r.Row(btn("🔙 Back", actAdminMenu)))
}

func (b *Bot) showClubList(ctx context.Context, ev *chat.Event, _ int64) error {
	clubs, err := b.store.ListClubs(ctx)
	if err != nil {
		return b.fail(ctx, ev, err)
	}
	if len(clubs) == 0 {
		return b.reply(ctx, ev, chat.Text("No clubs yet.").Row(btn("🔙 Back", actAdminMenu)))
	}

	var sb strings.Builder
	sb.WriteString("📋 Clubs:\n")
	for i, c := range clubs {
		fmt.Fprintf(&sb, "\n%d. %s | %s | manager %d", i+1, c.Name, money.Format(c.Balance), c.OwnerID)
	}
	return b.reply(ctx, ev, chat.Text(sb.String()).Row(btn("🔙 Back", actAdminMenu)))
}

func (b *Bot) showClubCard(ctx context.Context, ev *chat.Event, clubID int64) error {
	club, err := b.store.GetClub(ctx, clubID)
	if err != nil {
		return b.fail(ctx, ev, err)
	}
	text := fmt.Sprintf("⚽ %s\nBalance: %s\nManager: %d\nStadium: %s (tier %d)",
		club.Name, money.Format(club.Balance), club.OwnerID, b.policy.NameOf(club.Tier), club.Tier)
	return b.reply(ctx, ev, clubActions(text, club.ID))
}

func (b *Bot) confirmDelete(ctx context.Context, ev *chat.Event, clubID int64) error {
	club, err := b.store.GetClub(ctx, clubID)
	if err != nil {
		return b.fail(ctx, ev, err)
	}
	r := chat.Text(fmt.Sprintf("Delete %s and its whole ledger? This cannot be undone.", club.Name)).
		Row(btn("✅ Yes, delete", chat.Action(actClubDeleteOK, club.ID)), btn("🔙 No", chat.Action(actSelectClub, club.ID)))
	return b.reply(ctx, ev, r)
}

func (b *Bot) deleteClub(ctx context.Context, ev *chat.Event, clubID int64) error {
	club, err := b.store.GetClub(ctx, clubID)
	if err != nil {
		return b.fail(ctx, ev, err)
	}
	if err := b.store.DeleteClub(ctx, clubID); err != nil {
		return b.fail(ctx, ev, err)
	}
	b.logger.Info("club deleted", "club_id", clubID, "actor_id", ev.Actor)
	return b.reply(ctx, ev, chat.Text(fmt.Sprintf("🗑 %s deleted.", club.Name)).Row(btn("🔙 Back to clubs", actManageClubs)))
}

func (b *Bot) showAdmins(ctx context.Context, ev *chat.Event, _ int64) error {
	admins, err := b.gate.ListAdmins(ctx, ev.Actor)
	if err != nil {
		return b.fail(ctx, ev, err)
	}

	text := "👮 Administrators:"
	if len(admins) == 0 {
		text += "\nnone yet"
	}
	r := chat.Text(text)
	for _, id := range admins {
		r = r.Row(btn(fmt.Sprintf("❌ Remove %d", id), chat.Action(actRemoveAdmin, int64(id))))
	}
	return b.reply(ctx, ev, r.Row(btn("➕ Add administrator", actAddAdmin)).Row(btn("🔙 Back", actAdminMenu)))
}

func (b *Bot) removeAdmin(ctx context.Context, ev *chat.Event, target int64) error {
	if err := b.gate.RemoveAdmin(ctx, ev.Actor, models.ActorID(target)); err != nil {
		return b.fail(ctx, ev, err)
	}
	b.logger.Info("administrator removed", "admin_id", target, "actor_id", ev.Actor)
	return b.showAdmins(ctx, ev, 0)
}

func (b *Bot) toggleMaintenance(ctx context.Context, ev *chat.Event, _ int64) error {
	on, err := b.gate.ToggleMaintenance(ctx, ev.Actor)
	if err != nil {
		return b.fail(ctx, ev, err)
	}
	b.logger.Info("maintenance toggled", "on", on, "actor_id", ev.Actor)

	text := "✅ Maintenance is off. Everyone can use the bot."
	if on {
		text = "🔧 Maintenance is on. Only administrators can use the bot."
	}
	return b.reply(ctx, ev, adminMenu(text, access.RoleOwner, on))
}
