package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ismayilasim8-dot/Football-empire-bot/internal/models"
	"github.com/ismayilasim8-dot/Football-empire-bot/internal/storage"
)

const clubColumns = "id, name, description, owner_id, balance, tier"

// OpeningReason is the ledger reason of the entry posted for an initial budget.
const OpeningReason = "Opening balance"

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanClub(row rowScanner) (*models.Club, error) {
	club := &models.Club{}
	var owner sql.NullInt64
	var balance int64
	if err := row.Scan(&club.ID, &club.Name, &club.Description, &owner, &balance, &club.Tier); err != nil {
		return nil, err
	}
	if owner.Valid {
		club.OwnerID = models.ActorID(owner.Int64)
	}
	club.Balance = fromMinor(balance)
	return club, nil
}

// CreateClub persists a new club. The opening balance is posted as a ledger
// entry in the same transaction.
func (s *SQLiteStore) CreateClub(ctx context.Context, club *models.Club) error {
	opening := club.Balance

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var id int64
		err := tx.QueryRowContext(ctx,
			`INSERT INTO clubs (name, description, owner_id, balance, tier)
			 VALUES (?, ?, ?, 0, 0)
			 ON CONFLICT(owner_id) DO NOTHING
			 RETURNING id`,
			club.Name, club.Description, int64(club.OwnerID),
		).Scan(&id)
		if errors.Is(err, sql.ErrNoRows) {
			return storage.ErrConflict
		}
		if err != nil {
			if isUniqueViolation(err) {
				return storage.ErrConflict
			}
			return fmt.Errorf("failed to insert club: %w", err)
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
	club.Balance = opening.Round(minorUnits)
	return nil
}

// GetClub retrieves a club by ID.
func (s *SQLiteStore) GetClub(ctx context.Context, clubID int64) (*models.Club, error) {
	return getClub(ctx, s.db, clubID)
}

// queryer is satisfied by *sql.DB and *sql.Tx.
type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func getClub(ctx context.Context, q queryer, clubID int64) (*models.Club, error) {
	club, err := scanClub(q.QueryRowContext(ctx,
		"SELECT "+clubColumns+" FROM clubs WHERE id = ?", clubID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get club: %w", err)
	}
	return club, nil
}

// GetClubByOwner retrieves the club managed by ownerID.
func (s *SQLiteStore) GetClubByOwner(ctx context.Context, ownerID models.ActorID) (*models.Club, error) {
	club, err := scanClub(s.db.QueryRowContext(ctx,
		"SELECT "+clubColumns+" FROM clubs WHERE owner_id = ?", int64(ownerID),
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get club by owner: %w", err)
	}
	return club, nil
}

// ListClubs retrieves all clubs in insertion order.
func (s *SQLiteStore) ListClubs(ctx context.Context) ([]*models.Club, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+clubColumns+" FROM clubs ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to list clubs: %w", err)
	}
	defer rows.Close()

	var clubs []*models.Club
	for rows.Next() {
		club, err := scanClub(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan club: %w", err)
		}
		clubs = append(clubs, club)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate clubs: %w", err)
	}

	return clubs, nil
}

// DeleteClub removes a club's ledger entries and then the club.
func (s *SQLiteStore) DeleteClub(ctx context.Context, clubID int64) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM ledger_entries WHERE club_id = ?", clubID); err != nil {
			return fmt.Errorf("failed to delete ledger entries: %w", err)
		}

		res, err := tx.ExecContext(ctx, "DELETE FROM clubs WHERE id = ?", clubID)
		if err != nil {
			return fmt.Errorf("failed to delete club: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to check deleted club: %w", err)
		}
		if n == 0 {
			return storage.ErrNotFound
		}
		return nil
	})
}

// ReassignOwner moves a club to newOwnerID. The ownership check and the
// update run in one transaction.
func (s *SQLiteStore) ReassignOwner(ctx context.Context, clubID int64, newOwnerID models.ActorID) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := getClub(ctx, tx, clubID); err != nil {
			return err
		}

		var ownedID int64
		err := tx.QueryRowContext(ctx, "SELECT id FROM clubs WHERE owner_id = ?", int64(newOwnerID)).Scan(&ownedID)
		switch {
		case errors.Is(err, sql.ErrNoRows):
		case err != nil:
			return fmt.Errorf("failed to check owner: %w", err)
		case ownedID != clubID:
			return storage.ErrConflict
		default:
			return nil
		}

		_, err = tx.ExecContext(ctx, "UPDATE clubs SET owner_id = ? WHERE id = ?", int64(newOwnerID), clubID)
		if err != nil {
			if isUniqueViolation(err) {
				return storage.ErrConflict
			}
			return fmt.Errorf("failed to update owner: %w", err)
		}
		return nil
	})
}

// SetTier overwrites the stored tier.
func (s *SQLiteStore) SetTier(ctx context.Context, clubID int64, tier int) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		return setTierTx(ctx, tx, clubID, tier)
	})
}

func setTierTx(ctx context.Context, tx *sql.Tx, clubID int64, tier int) error {
	res, err := tx.ExecContext(ctx, "UPDATE clubs SET tier = ? WHERE id = ?", tier, clubID)
	if err != nil {
		return fmt.Errorf("failed to set tier: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check tier update: %w", err)
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// UpgradeTier raises the tier and posts the cost in one transaction.
func (s *SQLiteStore) UpgradeTier(ctx context.Context, clubID int64, toTier int, cost decimal.Decimal, reason string) (*models.Club, error) {
	var club *models.Club
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		current, err := getClub(ctx, tx, clubID)
		if err != nil {
			return err
		}
		if current.Balance.LessThan(cost) {
			return storage.ErrInsufficientFunds
		}
		if current.Tier != toTier-1 {
			return storage.ErrStaleTier
		}

		if err := setTierTx(ctx, tx, clubID, toTier); err != nil {
			return err
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
