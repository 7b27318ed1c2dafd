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

// AppendTransaction posts an entry and moves the club balance atomically.
func (s *SQLiteStore) AppendTransaction(ctx context.Context, clubID int64, amount decimal.Decimal, reason string) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		balance, err = s.appendTx(ctx, tx, clubID, amount, reason)
		return err
	})
	if err != nil {
		return decimal.Zero, err
	}
	return balance, nil
}

// appendTx moves the balance and inserts the matching entry inside tx.
func (s *SQLiteStore) appendTx(ctx context.Context, tx *sql.Tx, clubID int64, amount decimal.Decimal, reason string) (decimal.Decimal, error) {
	minor, err := toMinor(amount)
	if err != nil {
		return decimal.Zero, err
	}

	// The transaction already holds the write lock, so reading the balance
	// and writing the sum cannot interleave with another writer.
	var current int64
	err = tx.QueryRowContext(ctx, "SELECT balance FROM clubs WHERE id = ?", clubID).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return decimal.Zero, storage.ErrNotFound
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to read balance: %w", err)
	}
	balance, err := toMinor(fromMinor(current).Add(fromMinor(minor)))
	if err != nil {
		return decimal.Zero, err
	}

	if _, err := tx.ExecContext(ctx, "UPDATE clubs SET balance = ? WHERE id = ?", balance, clubID); err != nil {
		return decimal.Zero, fmt.Errorf("failed to update balance: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO ledger_entries (club_id, amount, reason, occurred_at) VALUES (?, ?, ?, ?)",
		clubID, minor, reason, toMillis(s.now()),
	)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to insert ledger entry: %w", err)
	}

	return fromMinor(balance), nil
}

// ListTransactions retrieves the newest entries of a club, newest first.
func (s *SQLiteStore) ListTransactions(ctx context.Context, clubID int64, filter models.EntryFilter) ([]*models.LedgerEntry, error) {
	query := "SELECT id, club_id, amount, reason, occurred_at FROM ledger_entries WHERE club_id = ?"
	switch filter {
	case models.FilterIncome:
		query += " AND amount > 0"
	case models.FilterExpense:
		query += " AND amount < 0"
	}
	query += " ORDER BY occurred_at DESC, id DESC LIMIT ?"

	rows, err := s.db.QueryContext(ctx, query, clubID, storage.HistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var entries []*models.LedgerEntry
	for rows.Next() {
		entry := &models.LedgerEntry{}
		var amount, occurredAt int64
		if err := rows.Scan(&entry.ID, &entry.ClubID, &amount, &entry.Reason, &occurredAt); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		entry.Amount = fromMinor(amount)
		entry.OccurredAt = fromMillis(occurredAt)
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}

	return entries, nil
}
