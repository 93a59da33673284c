package models

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// StockCode is a validated stock identifier: the exchange prefix "sh"
// (Shanghai) or "sz" (Shenzhen) followed by exactly six digits,
// e.g. "sh600739" or "sz301011".
type StockCode string

var stockCodePattern = regexp.MustCompile(`^(sh|sz)\d{6}$`)

// ErrInvalidStockCode is returned when input does not match the
// sh/sz + 6 digits format.
var ErrInvalidStockCode = errors.New("invalid stock code")

// ParseStockCode trims and lower-cases raw input and validates it.
// No network activity happens before this check passes.
func ParseStockCode(raw string) (StockCode, error) {
	code := strings.ToLower(strings.TrimSpace(raw))
	if !stockCodePattern.MatchString(code) {
		return "", fmt.Errorf("%w: %q (expected format like sh600739 or sz301011)", ErrInvalidStockCode, raw)
	}
	return StockCode(code), nil
}

// Exchange returns the exchange prefix ("sh" or "sz")
func (c StockCode) Exchange() string {
	return string(c)[:2]
}

// Number returns the six-digit code without the exchange prefix.
// Guba listing URLs identify stocks by this form.
func (c StockCode) Number() string {
	return string(c)[2:]
}

func (c StockCode) String() string {
	return string(c)
}
