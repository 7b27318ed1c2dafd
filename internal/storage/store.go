// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/ismayilasim8-dot/Football-empire-bot/internal/models"
)

var (
	// ErrNotFound is returned when the requested club does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when an owner already manages another club.
	ErrConflict = errors.New("owner already manages a club")

	// ErrAlreadyExists is returned by explicit adds of an existing key.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInsufficientFunds is returned when a club cannot pay for an upgrade.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrStaleTier is returned when the club's tier changed between the
	// caller's read and the upgrade commit.
	ErrStaleTier = errors.New("tier changed concurrently")

	// ErrAmountOutOfRange is returned when an amount or the resulting
	// balance does not fit the stored representation.
	ErrAmountOutOfRange = errors.New("amount out of range")
)

const (
	// HistoryLimit caps the number of entries a history query returns.
	HistoryLimit = 20

	// MaintenanceKey is the settings key holding the maintenance flag.
	MaintenanceKey = "maintenance_mode"

	// MaintenanceOn and MaintenanceOff are the values of MaintenanceKey.
	MaintenanceOn  = "ON"
	MaintenanceOff = "OFF"
)

// ClubStore defines club and ledger persistence.
// Every balance change is paired with a ledger entry in one transaction.
type ClubStore interface {
	// CreateClub persists a new club at tier 0 and populates club.ID.
	// A non-zero club.Balance is posted as an opening ledger entry.
	// Returns ErrConflict if club.OwnerID already owns a club.
	CreateClub(ctx context.Context, club *models.Club) error

	// GetClub retrieves a club by its ID.
	GetClub(ctx context.Context, clubID int64) (*models.Club, error)

	// GetClubByOwner retrieves the club managed by ownerID.
	GetClubByOwner(ctx context.Context, ownerID models.ActorID) (*models.Club, error)

	// ListClubs returns all clubs in insertion order.
	ListClubs(ctx context.Context) ([]*models.Club, error)

	// DeleteClub removes a club and all of its ledger entries.
	DeleteClub(ctx context.Context, clubID int64) error

	// ReassignOwner moves a club to a new owner.
	// Returns ErrConflict if newOwnerID already owns a different club.
	ReassignOwner(ctx context.Context, clubID int64, newOwnerID models.ActorID) error

	// AppendTransaction posts an entry and moves the balance by amount.
	// Returns the new balance.
	AppendTransaction(ctx context.Context, clubID int64, amount decimal.Decimal, reason string) (decimal.Decimal, error)

	// ListTransactions returns the newest HistoryLimit entries of a club.
	ListTransactions(ctx context.Context, clubID int64, filter models.EntryFilter) ([]*models.LedgerEntry, error)

	// SetTier overwrites the stored tier without touching the balance.
	SetTier(ctx context.Context, clubID int64, tier int) error

	// UpgradeTier raises the club to toTier and posts -cost in a single
	// transaction serialized per club. Affordability is re-checked against
	// the committed balance: ErrInsufficientFunds if it no longer covers
	// cost, ErrStaleTier if the club is no longer at toTier-1.
	UpgradeTier(ctx context.Context, clubID int64, toTier int, cost decimal.Decimal, reason string) (*models.Club, error)
}

// AdminStore defines persistence of the administrator set.
type AdminStore interface {
	// AddAdmin inserts an administrator. Returns ErrAlreadyExists if present.
	AddAdmin(ctx context.Context, actorID models.ActorID) error

	// EnsureAdmin inserts an administrator, succeeding if already present.
	EnsureAdmin(ctx context.Context, actorID models.ActorID) error

	// RemoveAdmin deletes an administrator. Returns ErrNotFound if absent.
	RemoveAdmin(ctx context.Context, actorID models.ActorID) error

	// ListAdmins returns all administrators in ascending order.
	ListAdmins(ctx context.Context) ([]models.ActorID, error)

	// IsAdmin reports whether actorID is in the administrator set.
	IsAdmin(ctx context.Context, actorID models.ActorID) (bool, error)
}

// SettingsStore defines the global key/value settings.
type SettingsStore interface {
	// GetSetting returns the value of key or ErrNotFound.
	GetSetting(ctx context.Context, key string) (string, error)

	// SetSetting upserts key.
	SetSetting(ctx context.Context, key, value string) error

	// EnsureSetting inserts key only if it is absent.
	EnsureSetting(ctx context.Context, key, value string) error
}

// Store defines the interface for all persistent state of the bot.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL)
// without changing the bot layer.
type Store interface {
	ClubStore
	AdminStore
	SettingsStore

	// Close releases any resources held by the store.
	Close() error
}
