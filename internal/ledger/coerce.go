package ledger

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrAmountRequired indicates an empty amount input.
	ErrAmountRequired = errors.New("ledger: amount is required")
	// ErrAmountInvalid indicates a non-numeric amount input.
	ErrAmountInvalid = errors.New("ledger: amount is not a number")
	// ErrAmountNotPositive indicates a zero or negative amount input.
	ErrAmountNotPositive = errors.New("ledger: amount must be greater than zero")
	// ErrAmountTooLarge indicates an amount at or above MaxAmount.
	ErrAmountTooLarge = errors.New("ledger: amount is too large")
)

// MaxAmount bounds every amount parsed from text.
var MaxAmount = decimal.New(1, 12)

// plainAmount accepts digits with an optional fraction. Exponent forms are
// rejected so a short input cannot expand into a huge number.
var plainAmount = regexp.MustCompile(`^-?[0-9]+(\.[0-9]+)?$`)

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05-07",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
	"02/01/2006",
}

// CoerceAmount parses a stored amount leniently. Anything unparseable is zero.
func CoerceAmount(raw string) decimal.Decimal {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero
	}
	d, ok := parsePlain(strings.ReplaceAll(raw, ",", ""))
	if !ok || d.Abs().GreaterThanOrEqual(MaxAmount) {
		return decimal.Zero
	}
	return d
}

// ParseAmount parses user input for a write. Unlike CoerceAmount it rejects
// empty, non-numeric, non-positive and oversized values.
func ParseAmount(raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, ErrAmountRequired
	}
	d, ok := parsePlain(raw)
	if !ok {
		return decimal.Zero, ErrAmountInvalid
	}
	if !d.IsPositive() {
		return decimal.Zero, ErrAmountNotPositive
	}
	if d.GreaterThanOrEqual(MaxAmount) {
		return decimal.Zero, ErrAmountTooLarge
	}
	return d, nil
}

func parsePlain(raw string) (decimal.Decimal, bool) {
	if !plainAmount.MatchString(raw) {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// ParseDate parses a stored date leniently, returning nil when it cannot.
func ParseDate(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t
		}
	}
	return nil
}

// DateOr returns *t or fallback when t is nil.
func DateOr(t *time.Time, fallback time.Time) time.Time {
	if t == nil {
		return fallback
	}
	return *t
}

func maxZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
