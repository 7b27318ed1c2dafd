package main

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/ismayilasim8-dot/Football-empire-bot/internal/access"
	"github.com/ismayilasim8-dot/Football-empire-bot/internal/models"
	"github.com/ismayilasim8-dot/Football-empire-bot/internal/storage"
	"github.com/ismayilasim8-dot/Football-empire-bot/internal/storage/sqlite"
)

func runCtl(t *testing.T, db string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("OWNER_ID", "1")
	var out bytes.Buffer
	cmd, a := newRootCmd()
	defer a.close()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--database", "sqlite://" + db}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func seed(t *testing.T, db string) int64 {
	t.Helper()
	store, err := sqlite.New(db)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	defer store.Close()
	club := &models.Club{Name: "Rovers", OwnerID: 42, Balance: decimal.NewFromInt(1000)}
	if err := store.CreateClub(context.Background(), club); err != nil {
		t.Fatalf("CreateClub failed: %v", err)
	}
	return club.ID
}

func TestClubsCommands(t *testing.T) {
	db := filepath.Join(t.TempDir(), "ctl.db")
	id := seed(t, db)
	idArg := strconv.FormatInt(id, 10)

	out, err := runCtl(t, db, "clubs", "list")
	if err != nil {
		t.Fatalf("clubs list failed: %v", err)
	}
	if !strings.Contains(out, "Rovers") || !strings.Contains(out, "1,000") || !strings.Contains(out, "Basic stadium") {
		t.Errorf("clubs list output:\n%s", out)
	}

	out, err = runCtl(t, db, "clubs", "post", idArg, "-250", "Kit", "order")
	if err != nil {
		t.Fatalf("clubs post failed: %v", err)
	}
	if !strings.Contains(out, "balance: 750") {
		t.Errorf("post output: %q", out)
	}

	out, err = runCtl(t, db, "clubs", "ledger", idArg, "--filter", "expense")
	if err != nil {
		t.Fatalf("clubs ledger failed: %v", err)
	}
	if !strings.Contains(out, "Kit order") || strings.Contains(out, "Opening balance") {
		t.Errorf("ledger output:\n%s", out)
	}

	if _, err := runCtl(t, db, "clubs", "ledger", idArg, "--filter", "weekly"); err == nil {
		t.Error("expected error for unknown filter")
	}
	if _, err := runCtl(t, db, "clubs", "post", "999", "10", "x"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestAdminAndMaintenanceCommands(t *testing.T) {
	db := filepath.Join(t.TempDir(), "ctl.db")

	if _, err := runCtl(t, db, "admins", "add", "55"); err != nil {
		t.Fatalf("admins add failed: %v", err)
	}
	if _, err := runCtl(t, db, "admins", "add", "55"); !errors.Is(err, storage.ErrAlreadyExists) {
		t.Errorf("expected ErrAlreadyExists, got %v", err)
	}
	out, err := runCtl(t, db, "admins", "list")
	if err != nil {
		t.Fatalf("admins list failed: %v", err)
	}
	if !strings.Contains(out, "1\towner") || !strings.Contains(out, "55\tadmin") {
		t.Errorf("admins list output:\n%s", out)
	}
	if _, err := runCtl(t, db, "admins", "remove", "1"); !errors.Is(err, access.ErrOwnerPermanent) {
		t.Errorf("expected ErrOwnerPermanent, got %v", err)
	}
	if _, err := runCtl(t, db, "admins", "remove", "55"); err != nil {
		t.Errorf("admins remove failed: %v", err)
	}

	out, _ = runCtl(t, db, "maintenance", "status")
	if !strings.Contains(out, "maintenance: OFF") {
		t.Errorf("status output: %q", out)
	}
	out, _ = runCtl(t, db, "maintenance", "on")
	if !strings.Contains(out, "maintenance: ON") {
		t.Errorf("on output: %q", out)
	}
	out, _ = runCtl(t, db, "maintenance", "status")
	if !strings.Contains(out, "maintenance: ON") {
		t.Errorf("flag not persisted: %q", out)
	}
}
