package calculator

import (
	"github.com/shopspring/decimal"

	"github.com/ismayilasim8-dot/Football-empire-bot/internal/models"
)

// Summary aggregates a slice of ledger entries for the owner report.
type Summary struct {
	Income  decimal.Decimal // Sum of positive entries
	Expense decimal.Decimal // Sum of negative entries, as a negative number
	Net     decimal.Decimal // Income + Expense
	Count   int
}

// Summarize totals the given entries. It only sees what it is given, so for
// a capped history it describes that window, not the club's lifetime.
func Summarize(entries []*models.LedgerEntry) Summary {
	s := Summary{Income: decimal.Zero, Expense: decimal.Zero, Net: decimal.Zero}
	for _, e := range entries {
		if e == nil {
			continue
		}
		if e.IsIncome() {
			s.Income = s.Income.Add(e.Amount)
		} else {
			s.Expense = s.Expense.Add(e.Amount)
		}
		s.Count++
	}
	s.Net = s.Income.Add(s.Expense)
	return s
}
