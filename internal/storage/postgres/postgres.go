// Package postgres provides a PostgreSQL-backed implementation of the
// storage.Store interface.
//
// Balance-mutating transactions lock the club row with SELECT ... FOR UPDATE,
// so operations on the same club are serialized while unrelated clubs
// proceed in parallel.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/ismayilasim8-dot/Football-empire-bot/internal/models"
	"github.com/ismayilasim8-dot/Football-empire-bot/internal/storage"
)

// Ensure Store implements storage.Store
var _ storage.Store = (*Store)(nil)

// OpeningReason is the ledger reason of the entry posted for an initial budget.
const OpeningReason = "Opening balance"

const clubColumns = "id, name, description, owner_id, balance::text, tier"

// Store implements storage.Store on a pgx connection pool.
type Store struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

// Open connects to databaseURL and applies the schema.
func Open(ctx context.Context, databaseURL string) (*Store, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return nil, fmt.Errorf("database url is required")
	}
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open postgres pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if err := runMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	store := &Store{pool: pool, now: time.Now}
	if err := store.EnsureSetting(ctx, storage.MaintenanceKey, storage.MaintenanceOff); err != nil {
		pool.Close()
		return nil, fmt.Errorf("seed settings: %w", err)
	}
	return store, nil
}

// Close releases the pool.
func (s *Store) Close() error {
	if s == nil || s.pool == nil {
		return nil
	}
	s.pool.Close()
	return nil
}

func (s *Store) withTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// isOutOfRange reports a numeric_value_out_of_range error, raised when a
// value overflows NUMERIC(18,2).
func isOutOfRange(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "22003"
}

func scanClub(row pgx.Row) (*models.Club, error) {
	club := &models.Club{}
	var owner *int64
	var balance string
	if err := row.Scan(&club.ID, &club.Name, &club.Description, &owner, &balance, &club.Tier); err != nil {
		return nil, err
	}
	if owner != nil {
		club.OwnerID = models.ActorID(*owner)
	}
	amount, err := decimal.NewFromString(balance)
	if err != nil {
		return nil, fmt.Errorf("parse balance %q: %w", balance, err)
	}
	club.Balance = amount
	return club, nil
}

// CreateClub inserts a club and its opening entry.
func (s *Store) CreateClub(ctx context.Context, club *models.Club) error {
	opening := club.Balance.Round(2)

	err := s.withTx(ctx, func(tx pgx.Tx) error {
		var id int64
		err := tx.QueryRow(ctx, `
			INSERT INTO clubs (name, description, owner_id, balance, tier)
			VALUES ($1, $2, $3, 0, 0)
			ON CONFLICT (owner_id) DO NOTHING
			RETURNING id
		`, club.Name, club.Description, int64(club.OwnerID)).Scan(&id)
		if errors.Is(err, pgx.ErrNoRows) {
			return storage.ErrConflict
		}
		if err != nil {
			if isUniqueViolation(err) {
				return storage.ErrConflict
			}
			return fmt.Errorf("insert club: %w", err)
		}
		club.ID = id

		if opening.IsZero() {
			return nil
		}
		_, err = s.appendTx(ctx, tx, id, opening, OpeningReason)
		return err
	})
	if err != nil {
		return err
	}
	club.Tier = 0
	club.Balance = opening
	return nil
}

// GetClub returns one club by ID.
func (s *Store) GetClub(ctx context.Context, clubID int64) (*models.Club, error) {
	club, err := scanClub(s.pool.QueryRow(ctx, "SELECT "+clubColumns+" FROM clubs WHERE id = $1", clubID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get club: %w", err)
	}
	return club, nil
}

// GetClubByOwner returns the club managed by ownerID.
func (s *Store) GetClubByOwner(ctx context.Context, ownerID models.ActorID) (*models.Club, error) {
	club, err := scanClub(s.pool.QueryRow(ctx, "SELECT "+clubColumns+" FROM clubs WHERE owner_id = $1", int64(ownerID)))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get club by owner: %w", err)
	}
	return club, nil
}

// ListClubs returns all clubs in insertion order.
func (s *Store) ListClubs(ctx context.Context) ([]*models.Club, error) {
	rows, err := s.pool.Query(ctx, "SELECT "+clubColumns+" FROM clubs ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("list clubs: %w", err)
	}
	defer rows.Close()

	var clubs []*models.Club
	for rows.Next() {
		club, err := scanClub(rows)
		if err != nil {
			return nil, fmt.Errorf("scan club: %w", err)
		}
		clubs = append(clubs, club)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate clubs: %w", err)
	}
	return clubs, nil
}

// DeleteClub removes the club's entries and the club.
func (s *Store) DeleteClub(ctx context.Context, clubID int64) error {
	return s.withTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, "DELETE FROM ledger_entries WHERE club_id = $1", clubID); err != nil {
			return fmt.Errorf("delete ledger entries: %w", err)
		}
		tag, err := tx.Exec(ctx, "DELETE FROM clubs WHERE id = $1", clubID)
		if err != nil {
			return fmt.Errorf("delete club: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return storage.ErrNotFound
		}
		return nil
	})
}

// ReassignOwner locks the club and any club already owned by newOwnerID
// before moving ownership.
func (s *Store) ReassignOwner(ctx context.Context, clubID int64, newOwnerID models.ActorID) error {
	return s.withTx(ctx, func(tx pgx.Tx) error {
		if _, err := lockClub(ctx, tx, clubID); err != nil {
			return err
		}

		var ownedID int64
		err := tx.QueryRow(ctx, "SELECT id FROM clubs WHERE owner_id = $1 FOR UPDATE", int64(newOwnerID)).Scan(&ownedID)
		switch {
		case errors.Is(err, pgx.ErrNoRows):
		case err != nil:
			return fmt.Errorf("check owner: %w", err)
		case ownedID != clubID:
			return storage.ErrConflict
		default:
			return nil
		}

		if _, err := tx.Exec(ctx, "UPDATE clubs SET owner_id = $1 WHERE id = $2", int64(newOwnerID), clubID); err != nil {
			if isUniqueViolation(err) {
				return storage.ErrConflict
			}
			return fmt.Errorf("update owner: %w", err)
		}
		return nil
	})
}

// SetTier overwrites the stored tier.
func (s *Store) SetTier(ctx context.Context, clubID int64, tier int) error {
	tag, err := s.pool.Exec(ctx, "UPDATE clubs SET tier = $1 WHERE id = $2", tier, clubID)
	if err != nil {
		return fmt.Errorf("set tier: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// UpgradeTier locks the club row, re-checks affordability against the
// committed balance, then raises the tier and posts the cost.
func (s *Store) UpgradeTier(ctx context.Context, clubID int64, toTier int, cost decimal.Decimal, reason string) (*models.Club, error) {
	var club *models.Club
	err := s.withTx(ctx, func(tx pgx.Tx) error {
		current, err := lockClub(ctx, tx, clubID)
		if err != nil {
			return err
		}
		if current.Balance.LessThan(cost) {
			return storage.ErrInsufficientFunds
		}
		if current.Tier != toTier-1 {
			return storage.ErrStaleTier
		}

		if _, err := tx.Exec(ctx, "UPDATE clubs SET tier = $1 WHERE id = $2", toTier, clubID); err != nil {
			return fmt.Errorf("set tier: %w", err)
		}
		balance, err := s.appendTx(ctx, tx, clubID, cost.Neg(), reason)
		if err != nil {
			return err
		}
		current.Tier = toTier
		current.Balance = balance
		club = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return club, nil
}

func lockClub(ctx context.Context, tx pgx.Tx, clubID int64) (*models.Club, error) {
	club, err := scanClub(tx.QueryRow(ctx, "SELECT "+clubColumns+" FROM clubs WHERE id = $1 FOR UPDATE", clubID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lock club: %w", err)
	}
	return club, nil
}
