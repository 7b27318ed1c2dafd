package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/ismayilasim8-dot/Football-empire-bot/internal/models"
	"github.com/ismayilasim8-dot/Football-empire-bot/internal/storage"
)

// AppendTransaction posts an entry and moves the balance in one transaction.
func (s *Store) AppendTransaction(ctx context.Context, clubID int64, amount decimal.Decimal, reason string) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := s.withTx(ctx, func(tx pgx.Tx) error {
		var err error
		balance, err = s.appendTx(ctx, tx, clubID, amount, reason)
		return err
	})
	if err != nil {
		return decimal.Zero, err
	}
	return balance, nil
}

// appendTx updates the balance first so the row lock is held while the
// entry is inserted.
func (s *Store) appendTx(ctx context.Context, tx pgx.Tx, clubID int64, amount decimal.Decimal, reason string) (decimal.Decimal, error) {
	amount = amount.Round(2)

	var raw string
	err := tx.QueryRow(ctx,
		"UPDATE clubs SET balance = balance + $1::numeric WHERE id = $2 RETURNING balance::text",
		amount.String(), clubID,
	).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return decimal.Zero, storage.ErrNotFound
	}
	if isOutOfRange(err) {
		return decimal.Zero, fmt.Errorf("%w: %s", storage.ErrAmountOutOfRange, amount)
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("update balance: %w", err)
	}

	if _, err := tx.Exec(ctx,
		"INSERT INTO ledger_entries (club_id, amount, reason, occurred_at) VALUES ($1, $2::numeric, $3, $4)",
		clubID, amount.String(), reason, s.now().UTC(),
	); err != nil {
		if isOutOfRange(err) {
			return decimal.Zero, fmt.Errorf("%w: %s", storage.ErrAmountOutOfRange, amount)
		}
		return decimal.Zero, fmt.Errorf("insert ledger entry: %w", err)
	}

	balance, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse balance %q: %w", raw, err)
	}
	return balance, nil
}

// ListTransactions returns the newest entries of a club, newest first.
func (s *Store) ListTransactions(ctx context.Context, clubID int64, filter models.EntryFilter) ([]*models.LedgerEntry, error) {
	query := "SELECT id, club_id, amount::text, reason, occurred_at FROM ledger_entries WHERE club_id = $1"
	switch filter {
	case models.FilterIncome:
		query += " AND amount > 0"
	case models.FilterExpense:
		query += " AND amount < 0"
	}
	query += " ORDER BY occurred_at DESC, id DESC LIMIT $2"

	rows, err := s.pool.Query(ctx, query, clubID, storage.HistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var entries []*models.LedgerEntry
	for rows.Next() {
		entry := &models.LedgerEntry{}
		var amount string
		if err := rows.Scan(&entry.ID, &entry.ClubID, &amount, &entry.Reason, &entry.OccurredAt); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		if entry.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("parse amount %q: %w", amount, err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return entries, nil
}
