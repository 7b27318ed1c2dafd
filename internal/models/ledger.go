package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerEntry is one immutable posting against a club's balance.
// Positive amounts are income, negative amounts are expenses.
type LedgerEntry struct {
	ID         int64
	ClubID     int64
	Amount     decimal.Decimal
	Reason     string
	OccurredAt time.Time
}

// IsIncome reports whether the entry increased the balance.
func (e *LedgerEntry) IsIncome() bool {
	return e.Amount.IsPositive()
}

// EntryFilter selects which ledger entries a history query returns.
type EntryFilter int

const (
	// FilterAll returns every entry.
	FilterAll EntryFilter = iota
	// FilterIncome returns entries with amount > 0.
	FilterIncome
	// FilterExpense returns entries with amount < 0.
	FilterExpense
)

func (f EntryFilter) String() string {
	switch f {
	case FilterIncome:
		return "income"
	case FilterExpense:
		return "expense"
	default:
		return "all"
	}
}
