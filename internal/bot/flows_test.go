package bot

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/ismayilasim8-dot/Football-empire-bot/internal/access"
	"github.com/ismayilasim8-dot/Football-empire-bot/internal/chat"
	"github.com/ismayilasim8-dot/Football-empire-bot/internal/models"
	"github.com/ismayilasim8-dot/Football-empire-bot/internal/storage"
	"github.com/ismayilasim8-dot/Football-empire-bot/internal/upgrade"
)

func TestCreateClubFlow(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	if err := h.tap(adminID, actCreateClub); err != nil {
		t.Fatalf("start flow failed: %v", err)
	}
	if r := h.responder.last(t); !strings.Contains(r.Text, "club name") || !hasButton(r, actCancel) {
		t.Errorf("unexpected prompt: %+v", r)
	}

	steps := []struct {
		input      string
		wantPrompt string
	}{
		{"Rovers", "description"},
		{"Harbour side club", "manager's user id"},
		{"forty-two", "manager's user id"},
		{"42", "starting budget"},
		{"-5", "starting budget"},
	}
	for _, st := range steps {
		if err := h.say(adminID, st.input); err != nil {
			t.Fatalf("say %q failed: %v", st.input, err)
		}
		if text := h.responder.last(t).Text; !strings.Contains(text, st.wantPrompt) {
			t.Errorf("after %q reply = %q, want prompt about %q", st.input, text, st.wantPrompt)
		}
	}

	if err := h.say(adminID, "1 000 000"); err != nil {
		t.Fatalf("final step failed: %v", err)
	}
	if text := h.responder.last(t).Text; !strings.Contains(text, "Club Rovers created") {
		t.Errorf("summary = %q", text)
	}

	club, err := h.store.GetClubByOwner(ctx, managerID)
	if err != nil {
		t.Fatalf("club not created: %v", err)
	}
	if club.Description != "Harbour side club" || !club.Balance.Equal(decimal.NewFromInt(1000000)) || club.Tier != 0 {
		t.Errorf("unexpected club: %+v", club)
	}
	entries, _ := h.store.ListTransactions(ctx, club.ID, models.FilterAll)
	if len(entries) != 1 || !entries[0].Amount.Equal(club.Balance) {
		t.Errorf("opening entries = %+v", entries)
	}

	if len(h.responder.notes) != 1 || h.responder.notes[0].to != managerID {
		t.Errorf("notifications = %+v", h.responder.notes)
	}
	if _, active, _ := h.bot.Engine().Active(ctx, adminID); active {
		t.Error("session survived the commit")
	}
}

func TestCreateClubConflictEndsFlow(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	existing := h.createClub(t, "Rovers", managerID, 100)

	h.tap(adminID, actCreateClub)
	for _, in := range []string{"Copycats", "x", "42"} {
		h.say(adminID, in)
	}
	err := h.say(adminID, "0")
	if !errors.Is(err, storage.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	if text := h.responder.last(t).Text; !strings.Contains(text, "already runs another club") {
		t.Errorf("reply = %q", text)
	}
	if _, active, _ := h.bot.Engine().Active(ctx, adminID); active {
		t.Error("session survived a failed commit")
	}

	got, _ := h.store.GetClubByOwner(ctx, managerID)
	if got.ID != existing.ID || got.Name != "Rovers" {
		t.Errorf("existing club modified: %+v", got)
	}

	if err := h.say(adminID, "more text"); err != nil {
		t.Fatalf("text after failed flow: %v", err)
	}
	if h.responder.last(t).Text != textUseStart {
		t.Errorf("reply = %q", h.responder.last(t).Text)
	}
}

func TestAdjustBudgetNotifiesOwner(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	club := h.createClub(t, "Rovers", managerID, 1000)
	h.responder.notifyErr = errors.New("bot was blocked by the user")

	if err := h.tap(adminID, chat.Action(actClubBudget, club.ID)); err != nil {
		t.Fatalf("start flow failed: %v", err)
	}
	if text := h.responder.last(t).Text; !strings.Contains(text, "Rovers") || !strings.Contains(text, "Enter the amount") {
		t.Errorf("prompt = %q", text)
	}

	h.say(adminID, "0")
	if !strings.Contains(h.responder.last(t).Text, "must not be zero") {
		t.Errorf("zero accepted: %q", h.responder.last(t).Text)
	}
	h.say(adminID, "100000000000000000")
	if !strings.Contains(h.responder.last(t).Text, "must be below") {
		t.Errorf("oversized amount accepted: %q", h.responder.last(t).Text)
	}
	h.say(adminID, "-400")
	if err := h.say(adminID, "Transfer fee"); err != nil {
		t.Fatalf("commit failed despite notification error: %v", err)
	}
	if text := h.responder.last(t).Text; !strings.Contains(text, "New balance: 600") {
		t.Errorf("summary = %q", text)
	}

	if len(h.responder.notes) != 1 {
		t.Fatalf("notifications = %+v", h.responder.notes)
	}
	note := h.responder.notes[0]
	if note.to != managerID || !strings.Contains(note.text, "-400") || !strings.Contains(note.text, "Transfer fee") {
		t.Errorf("notification = %+v", note)
	}

	entries, _ := h.store.ListTransactions(ctx, club.ID, models.FilterAll)
	if len(entries) != 2 || entries[0].Reason != "Transfer fee" {
		t.Errorf("entries = %+v", entries)
	}
}

func TestAdjustBudgetMissingClub(t *testing.T) {
	h := newHarness(t)
	if err := h.tap(adminID, chat.Action(actClubBudget, 404)); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, active, _ := h.bot.Engine().Active(context.Background(), adminID); active {
		t.Error("flow started for a missing club")
	}
}

func TestReassignManager(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	rovers := h.createClub(t, "Rovers", managerID, 0)
	h.createClub(t, "City", otherID, 0)

	t.Run("conflict", func(t *testing.T) {
		h.tap(adminID, chat.Action(actClubManager, rovers.ID))
		if err := h.say(adminID, "43"); !errors.Is(err, storage.ErrConflict) {
			t.Fatalf("expected ErrConflict, got %v", err)
		}
		a, _ := h.store.GetClub(ctx, rovers.ID)
		b, _ := h.store.GetClubByOwner(ctx, otherID)
		if a.OwnerID != managerID || b.Name != "City" {
			t.Errorf("owners changed: %d, %q", a.OwnerID, b.Name)
		}
	})

	t.Run("invalid id stays at step", func(t *testing.T) {
		h.tap(adminID, chat.Action(actClubManager, rovers.ID))
		if err := h.say(adminID, "12ab"); err != nil {
			t.Fatalf("invalid id failed: %v", err)
		}
		flow, active, _ := h.bot.Engine().Active(ctx, adminID)
		if !active || flow != FlowReassignManager {
			t.Fatalf("flow lost after invalid id: %q %v", flow, active)
		}
		if err := h.say(adminID, "77"); err != nil {
			t.Fatalf("reassign failed: %v", err)
		}
		got, _ := h.store.GetClub(ctx, rovers.ID)
		if got.OwnerID != 77 {
			t.Errorf("owner = %d, want 77", got.OwnerID)
		}
		last := h.responder.notes[len(h.responder.notes)-1]
		if last.to != 77 {
			t.Errorf("new manager not notified: %+v", last)
		}
	})
}

func TestAddAdminFlow(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	if err := h.tap(adminID, actAddAdmin); !errors.Is(err, access.ErrUnauthorized) {
		t.Errorf("admin starting add-admin: expected ErrUnauthorized, got %v", err)
	}

	h.tap(ownerID, actAddAdmin)
	if err := h.say(ownerID, "55"); err != nil {
		t.Fatalf("add admin failed: %v", err)
	}
	if ok, _ := h.store.IsAdmin(ctx, 55); !ok {
		t.Error("55 is not an admin")
	}

	h.tap(ownerID, actAddAdmin)
	if err := h.say(ownerID, "55"); !errors.Is(err, storage.ErrAlreadyExists) {
		t.Errorf("expected ErrAlreadyExists, got %v", err)
	}
	if text := h.responder.last(t).Text; !strings.Contains(text, "already an administrator") {
		t.Errorf("reply = %q", text)
	}
}

func TestRevokedAdminLosesFlow(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	h.tap(adminID, actCreateClub)
	h.say(adminID, "Rovers")
	if err := h.tap(ownerID, chat.Action(actRemoveAdmin, int64(adminID))); err != nil {
		t.Fatalf("remove failed: %v", err)
	}

	if err := h.say(adminID, "desc"); !errors.Is(err, access.ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}
	if _, active, _ := h.bot.Engine().Active(ctx, adminID); active {
		t.Error("revoked admin kept the flow")
	}
}

func TestUpgradeStadium(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	club := h.createClub(t, "Rovers", managerID, 5000000)

	if err := h.tap(managerID, actUpgrade); err != nil {
		t.Fatalf("offer failed: %v", err)
	}
	offer := h.responder.last(t)
	if !strings.Contains(offer.Text, "Upgrade to Small") || !hasButton(offer, chat.Action(actUpgradeDo, 1)) {
		t.Fatalf("unexpected offer: %+v", offer)
	}

	if err := h.tap(managerID, chat.Action(actUpgradeDo, 1)); err != nil {
		t.Fatalf("upgrade failed: %v", err)
	}
	got, _ := h.store.GetClub(ctx, club.ID)
	if got.Tier != 1 || !got.Balance.IsZero() {
		t.Errorf("after upgrade tier=%d balance=%s", got.Tier, got.Balance)
	}
	entries, _ := h.store.ListTransactions(ctx, club.ID, models.FilterExpense)
	if len(entries) != 1 || entries[0].Reason != "Stadium upgrade to Small (tier 1)" {
		t.Errorf("expense entries = %+v", entries)
	}

	t.Run("repeated tap after the funds are spent", func(t *testing.T) {
		if err := h.tap(managerID, chat.Action(actUpgradeDo, 1)); !errors.Is(err, storage.ErrInsufficientFunds) {
			t.Errorf("expected ErrInsufficientFunds, got %v", err)
		}
		if text := h.responder.last(t).Text; !strings.Contains(text, "Not enough funds") {
			t.Errorf("reply = %q", text)
		}
	})

	t.Run("stale button", func(t *testing.T) {
		if _, err := h.store.AppendTransaction(ctx, club.ID, decimal.NewFromInt(5000000), "Sponsor"); err != nil {
			t.Fatalf("AppendTransaction failed: %v", err)
		}
		if err := h.tap(managerID, chat.Action(actUpgradeDo, 1)); !errors.Is(err, storage.ErrStaleTier) {
			t.Errorf("expected ErrStaleTier, got %v", err)
		}
		got, _ := h.store.GetClub(ctx, club.ID)
		if got.Tier != 1 || !got.Balance.Equal(decimal.NewFromInt(5000000)) {
			t.Errorf("stale tap changed club: tier=%d balance=%s", got.Tier, got.Balance)
		}
	})

	t.Run("insufficient funds", func(t *testing.T) {
		if err := h.tap(managerID, chat.Action(actUpgradeDo, 2)); !errors.Is(err, storage.ErrInsufficientFunds) {
			t.Errorf("expected ErrInsufficientFunds, got %v", err)
		}
		h.tap(managerID, actUpgrade)
		offer := h.responder.last(t)
		if hasButton(offer, chat.Action(actUpgradeDo, 2)) || !strings.Contains(offer.Text, "Not enough funds") {
			t.Errorf("unaffordable offer: %+v", offer)
		}
	})

	t.Run("terminal tier", func(t *testing.T) {
		if err := h.store.SetTier(ctx, club.ID, upgrade.Default().MaxTier()); err != nil {
			t.Fatalf("SetTier failed: %v", err)
		}
		h.store.AppendTransaction(ctx, club.ID, decimal.NewFromInt(100000000), "Sponsor")
		before, _ := h.store.GetClub(ctx, club.ID)

		if err := h.tap(managerID, actUpgrade); !errors.Is(err, upgrade.ErrTerminalTier) {
			t.Errorf("offer: expected ErrTerminalTier, got %v", err)
		}
		if err := h.tap(managerID, chat.Action(actUpgradeDo, 4)); !errors.Is(err, upgrade.ErrTerminalTier) {
			t.Errorf("upgrade: expected ErrTerminalTier, got %v", err)
		}
		after, _ := h.store.GetClub(ctx, club.ID)
		if after.Tier != before.Tier || !after.Balance.Equal(before.Balance) {
			t.Errorf("terminal upgrade changed club: %+v -> %+v", before, after)
		}
	})
}

func TestConcurrentUpgradeTaps(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	club := h.createClub(t, "Rovers", managerID, 5000000)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = h.tap(managerID, chat.Action(actUpgradeDo, 1))
		}(i)
	}
	wg.Wait()

	var ok, insufficient int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, storage.ErrInsufficientFunds):
			insufficient++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	if ok != 1 || insufficient != 1 {
		t.Fatalf("want one success and one ErrInsufficientFunds, got %d and %d", ok, insufficient)
	}
	got, _ := h.store.GetClub(ctx, club.ID)
	if got.Tier != 1 || !got.Balance.IsZero() {
		t.Errorf("tier=%d balance=%s", got.Tier, got.Balance)
	}
}

func TestReports(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	club := h.createClub(t, "Rovers", managerID, 1000)
	h.store.AppendTransaction(ctx, club.ID, decimal.NewFromInt(-400), "Wages")
	h.store.AppendTransaction(ctx, club.ID, decimal.RequireFromString("250.50"), "Tickets")

	tests := []struct {
		action string
		want   []string
		absent string
	}{
		{actHistory, []string{"History (last 3)", "Income: +1,250.50", "Expense: -400", "Net: +850.50"}, ""},
		{actIncomes, []string{"Income (last 2)", "+250.50  Tickets", "Total: +1,250.50"}, "Wages"},
		{actExpenses, []string{"Expenses (last 1)", "-400  Wages", "Total: -400"}, "Tickets"},
	}
	for _, tt := range tests {
		t.Run(tt.action, func(t *testing.T) {
			if err := h.tap(managerID, tt.action); err != nil {
				t.Fatalf("%s failed: %v", tt.action, err)
			}
			text := h.responder.last(t).Text
			for _, w := range tt.want {
				if !strings.Contains(text, w) {
					t.Errorf("report missing %q:\n%s", w, text)
				}
			}
			if tt.absent != "" && strings.Contains(text, tt.absent) {
				t.Errorf("report contains %q:\n%s", tt.absent, text)
			}
		})
	}

	t.Run("info", func(t *testing.T) {
		h.tap(managerID, actInfo)
		text := h.responder.last(t).Text
		for _, w := range []string{"Rovers", "Balance: 850.50", "Basic stadium (tier 0), capacity 10000", "Next: Small"} {
			if !strings.Contains(text, w) {
				t.Errorf("info missing %q:\n%s", w, text)
			}
		}
	})

	t.Run("empty", func(t *testing.T) {
		if got := renderLedger("History", models.FilterAll, nil); !strings.Contains(got, "No entries yet") {
			t.Errorf("empty ledger = %q", got)
		}
	})
}

func TestSessionsAreIsolatedPerActor(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.store.EnsureAdmin(ctx, 3)

	h.tap(adminID, actCreateClub)
	h.tap(3, actCreateClub)
	h.say(adminID, "Rovers")
	h.say(3, "City")

	for _, in := range []string{"a", "42", "0"} {
		h.say(adminID, in)
	}
	for _, in := range []string{"b", "43", "0"} {
		h.say(3, in)
	}
	a, err := h.store.GetClubByOwner(ctx, 42)
	if err != nil || a.Name != "Rovers" {
		t.Errorf("club of 42 = %+v, %v", a, err)
	}
	b, err := h.store.GetClubByOwner(ctx, 43)
	if err != nil || b.Name != "City" {
		t.Errorf("club of 43 = %+v, %v", b, err)
	}
}
