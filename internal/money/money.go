// Package money parses and formats the amounts entered and shown in chat.
package money

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Places is the number of fractional digits kept for amounts.
const Places = 2

var (
	// ErrInvalidAmount is returned for text that is not a number with at
	// most two fractional digits.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrTooLarge is returned, wrapped with ErrInvalidAmount, for amounts
	// whose magnitude reaches Limit.
	ErrTooLarge = errors.New("amount too large")
)

// Limit is the exclusive bound on the magnitude of an amount. It leaves
// 16 integer digits, the precision of a NUMERIC(18,2) column.
var Limit = decimal.New(1, 16)

var printer = message.NewPrinter(language.English)

// Parse reads an amount typed by a person. Spaces and underscores used as
// digit groups are ignored and a comma is accepted as decimal separator.
func Parse(text string) (decimal.Decimal, error) {
	cleaned := strings.NewReplacer(" ", "", "_", "", "\u00a0", "").Replace(strings.TrimSpace(text))
	cleaned = strings.Replace(cleaned, ",", ".", 1)
	if cleaned == "" || strings.ContainsAny(cleaned, "eE") {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, text)
	}

	amount, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, text)
	}
	if !amount.Equal(amount.Round(Places)) {
		return decimal.Zero, fmt.Errorf("%w: at most %d decimal places", ErrInvalidAmount, Places)
	}
	if amount.Abs().GreaterThanOrEqual(Limit) {
		return decimal.Zero, fmt.Errorf("%w: %w", ErrInvalidAmount, ErrTooLarge)
	}
	return amount, nil
}

// Format renders an amount with thousands separators, e.g. "-5,000,000.50".
func Format(amount decimal.Decimal) string {
	amount = amount.Round(Places)
	abs := amount.Abs()
	whole := abs.Truncate(0)
	cents := abs.Sub(whole).Shift(Places).IntPart()

	out := printer.Sprintf("%d", whole.IntPart())
	if cents != 0 {
		out += fmt.Sprintf(".%02d", cents)
	}
	if amount.IsNegative() {
		return "-" + out
	}
	return out
}

// FormatSigned is Format with an explicit "+" for positive amounts.
func FormatSigned(amount decimal.Decimal) string {
	if amount.IsPositive() {
		return "+" + Format(amount)
	}
	return Format(amount)
}
