package workflow

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/ismayilasim8-dot/Football-empire-bot/internal/money"
)

// ErrValidation marks input a step rejected. It never leaves the engine
// as a returned error, only inside an Outcome.
var ErrValidation = errors.New("invalid input")

// ValidationError says which field rejected the input and why.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// Validator checks one raw input and returns the normalized value to store.
// A non-nil error is shown to the actor as the reason of the re-prompt.
type Validator func(raw string) (string, error)

// ActorID accepts a positive decimal integer.
func ActorID(raw string) (string, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return "", errors.New("send a numeric user id, digits only")
	}
	return strconv.FormatInt(id, 10), nil
}

// Amount accepts any signed amount with at most two decimal places.
func Amount(raw string) (string, error) {
	amount, err := money.Parse(raw)
	if errors.Is(err, money.ErrTooLarge) {
		return "", fmt.Errorf("the amount must be below %s", money.Format(money.Limit))
	}
	if err != nil {
		return "", errors.New("send a number, for example 1500000 or -250.50")
	}
	return amount.String(), nil
}

// NonZeroAmount is Amount without zero.
func NonZeroAmount(raw string) (string, error) {
	v, err := Amount(raw)
	if err != nil {
		return "", err
	}
	if decimal.RequireFromString(v).IsZero() {
		return "", errors.New("the amount must not be zero")
	}
	return v, nil
}

// NonNegativeAmount is Amount without negatives.
func NonNegativeAmount(raw string) (string, error) {
	v, err := Amount(raw)
	if err != nil {
		return "", err
	}
	if decimal.RequireFromString(v).IsNegative() {
		return "", errors.New("the amount must not be negative")
	}
	return v, nil
}

// Text accepts any non-blank text of at most max runes.
func Text(max int) Validator {
	return func(raw string) (string, error) {
		v := strings.TrimSpace(raw)
		if v == "" {
			return "", errors.New("the text must not be empty")
		}
		if utf8.RuneCountInString(v) > max {
			return "", fmt.Errorf("keep it under %d characters", max)
		}
		return v, nil
	}
}
