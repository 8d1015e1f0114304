package services

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const DateLayout = "2006-01-02"

var timeNow = time.Now

// today is the current calendar date at UTC midnight.
func today() time.Time {
	return truncateDay(timeNow())
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD value. Empty input yields nil.
func ParseDate(field, value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return nil, formError(field, "Enter a valid date (YYYY-MM-DD).")
	}
	t = truncateDay(t)
	return &t, nil
}

// ParseAmount parses a decimal money value. Empty input yields a zero, invalid NullDecimal.
func ParseAmount(field, value string) (decimal.NullDecimal, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.NullDecimal{}, formError(field, "Enter a valid amount.")
	}
	return decimal.NullDecimal{Decimal: d.Round(2), Valid: true}, nil
}
