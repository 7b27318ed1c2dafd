package postgres

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/ismayilasim8-dot/Football-empire-bot/internal/models"
	"github.com/ismayilasim8-dot/Football-empire-bot/internal/storage"
)

// openTestStore connects to TEST_DATABASE_URL and empties every table.
func openTestStore(t *testing.T) *Store {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	store, err := Open(ctx, url)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	if _, err := store.pool.Exec(ctx, "TRUNCATE ledger_entries, clubs, administrators RESTART IDENTITY CASCADE"); err != nil {
		t.Fatalf("truncate failed: %v", err)
	}
	return store
}

func TestStoreLedger(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	club := &models.Club{Name: "Rovers", OwnerID: 10}
	if err := store.CreateClub(ctx, club); err != nil {
		t.Fatalf("CreateClub failed: %v", err)
	}
	if err := store.CreateClub(ctx, &models.Club{Name: "Copy", OwnerID: 10}); !errors.Is(err, storage.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	if _, err := store.AppendTransaction(ctx, club.ID, decimal.NewFromInt(1000), "x"); err != nil {
		t.Fatalf("AppendTransaction failed: %v", err)
	}
	balance, err := store.AppendTransaction(ctx, club.ID, decimal.NewFromInt(-400), "y")
	if err != nil {
		t.Fatalf("AppendTransaction failed: %v", err)
	}
	if !balance.Equal(decimal.NewFromInt(600)) {
		t.Errorf("balance = %s, want 600", balance)
	}

	entries, err := store.ListTransactions(ctx, club.ID, models.FilterAll)
	if err != nil {
		t.Fatalf("ListTransactions failed: %v", err)
	}
	if len(entries) != 2 || !entries[0].Amount.Equal(decimal.NewFromInt(-400)) {
		t.Errorf("unexpected entries: %+v", entries)
	}

	other := &models.Club{Name: "City", OwnerID: 11}
	if err := store.CreateClub(ctx, other); err != nil {
		t.Fatalf("CreateClub failed: %v", err)
	}
	if err := store.ReassignOwner(ctx, club.ID, 11); !errors.Is(err, storage.ErrConflict) {
		t.Errorf("expected ErrConflict, got %v", err)
	}

	if err := store.DeleteClub(ctx, club.ID); err != nil {
		t.Fatalf("DeleteClub failed: %v", err)
	}
	if _, err := store.GetClub(ctx, club.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	entries, _ = store.ListTransactions(ctx, club.ID, models.FilterAll)
	if len(entries) != 0 {
		t.Errorf("expected no entries after delete, got %d", len(entries))
	}
}

func TestStoreUpgradeConcurrent(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	cost := decimal.NewFromInt(5000000)

	club := &models.Club{Name: "Racers", OwnerID: 20, Balance: cost}
	if err := store.CreateClub(ctx, club); err != nil {
		t.Fatalf("CreateClub failed: %v", err)
	}

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = store.UpgradeTier(ctx, club.ID, 1, cost, "Stadium upgrade")
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
		t.Fatalf("want 1 success and 1 insufficient, got %d and %d", ok, insufficient)
	}

	got, err := store.GetClub(ctx, club.ID)
	if err != nil {
		t.Fatalf("GetClub failed: %v", err)
	}
	if got.Tier != 1 || !got.Balance.IsZero() {
		t.Errorf("got tier=%d balance=%s", got.Tier, got.Balance)
	}
}
