package sqlite

import (
	"context"
	"fmt"

	"github.com/ismayilasim8-dot/Football-empire-bot/internal/models"
	"github.com/ismayilasim8-dot/Football-empire-bot/internal/storage"
)

// AddAdmin inserts an administrator, reporting ErrAlreadyExists for duplicates.
func (s *SQLiteStore) AddAdmin(ctx context.Context, actorID models.ActorID) error {
	inserted, err := s.insertAdmin(ctx, actorID)
	if err != nil {
		return err
	}
	if !inserted {
		return storage.ErrAlreadyExists
	}
	return nil
}

// EnsureAdmin inserts an administrator if missing.
func (s *SQLiteStore) EnsureAdmin(ctx context.Context, actorID models.ActorID) error {
	_, err := s.insertAdmin(ctx, actorID)
	return err
}

func (s *SQLiteStore) insertAdmin(ctx context.Context, actorID models.ActorID) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO administrators (actor_id) VALUES (?) ON CONFLICT(actor_id) DO NOTHING",
		int64(actorID),
	)
	if err != nil {
		return false, fmt.Errorf("failed to insert admin: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check inserted admin: %w", err)
	}
	return n > 0, nil
}

// RemoveAdmin deletes an administrator.
func (s *SQLiteStore) RemoveAdmin(ctx context.Context, actorID models.ActorID) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM administrators WHERE actor_id = ?", int64(actorID))
	if err != nil {
		return fmt.Errorf("failed to delete admin: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deleted admin: %w", err)
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// ListAdmins retrieves all administrators.
func (s *SQLiteStore) ListAdmins(ctx context.Context) ([]models.ActorID, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT actor_id FROM administrators ORDER BY actor_id")
	if err != nil {
		return nil, fmt.Errorf("failed to list admins: %w", err)
	}
	defer rows.Close()

	var admins []models.ActorID
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan admin: %w", err)
		}
		admins = append(admins, models.ActorID(id))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating admins: %w", err)
	}

	return admins, nil
}

// IsAdmin reports whether actorID is an administrator.
func (s *SQLiteStore) IsAdmin(ctx context.Context, actorID models.ActorID) (bool, error) {
	var exists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM administrators WHERE actor_id = ?", int64(actorID),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check admin: %w", err)
	}
	return exists > 0, nil
}
