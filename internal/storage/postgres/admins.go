package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/ismayilasim8-dot/Football-empire-bot/internal/models"
	"github.com/ismayilasim8-dot/Football-empire-bot/internal/storage"
)

// AddAdmin inserts an administrator, reporting ErrAlreadyExists for duplicates.
func (s *Store) AddAdmin(ctx context.Context, actorID models.ActorID) error {
	tag, err := s.pool.Exec(ctx,
		"INSERT INTO administrators (actor_id) VALUES ($1) ON CONFLICT (actor_id) DO NOTHING",
		int64(actorID),
	)
	if err != nil {
		return fmt.Errorf("insert admin: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrAlreadyExists
	}
	return nil
}

// EnsureAdmin inserts an administrator if missing.
func (s *Store) EnsureAdmin(ctx context.Context, actorID models.ActorID) error {
	if err := s.AddAdmin(ctx, actorID); err != nil && !errors.Is(err, storage.ErrAlreadyExists) {
		return err
	}
	return nil
}

// RemoveAdmin deletes an administrator.
func (s *Store) RemoveAdmin(ctx context.Context, actorID models.ActorID) error {
	tag, err := s.pool.Exec(ctx, "DELETE FROM administrators WHERE actor_id = $1", int64(actorID))
	if err != nil {
		return fmt.Errorf("delete admin: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// ListAdmins returns administrators in ascending order.
func (s *Store) ListAdmins(ctx context.Context) ([]models.ActorID, error) {
	rows, err := s.pool.Query(ctx, "SELECT actor_id FROM administrators ORDER BY actor_id")
	if err != nil {
		return nil, fmt.Errorf("list admins: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, fmt.Errorf("collect admins: %w", err)
	}
	admins := make([]models.ActorID, len(ids))
	for i, id := range ids {
		admins[i] = models.ActorID(id)
	}
	return admins, nil
}

// IsAdmin reports whether actorID is an administrator.
func (s *Store) IsAdmin(ctx context.Context, actorID models.ActorID) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM administrators WHERE actor_id = $1)", int64(actorID),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check admin: %w", err)
	}
	return exists, nil
}
