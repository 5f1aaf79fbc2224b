// Package sanitize coerces arbitrary persisted or user-entered values into
// finite numbers. It is the single source of truth for interpreting messy
// amount input: ledger repair, report totals, and chart series all go
// through Number rather than parsing on their own.
package sanitize

import (
	"math"
	"strconv"
	"strings"
	"unicode"
)

// Number coerces v into a finite float64.
//
// nil and unsupported types map to 0. Numeric values pass through unless they
// are NaN or infinite. Strings are parsed under locale-separator rules:
// when both "," and "." occur, whichever appears last is the decimal
// separator and the other is dropped as a thousands separator; a lone comma
// is decimal only when there is exactly one with at most two digits after
// it; a lone dot is a thousands separator when there are several dots or a
// single dot followed by more than two digits.
func Number(v any) float64 {
	switch n := v.(type) {
	case nil:
		return 0
	case float64:
		return finite(n)
	case float32:
		return finite(float64(n))
	case int:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case string:
		return parseString(n)
	default:
		return 0
	}
}

// NonNegative is Number with negative results clamped to 0. Category and
// pie-chart consumers require non-negative values.
func NonNegative(v any) float64 {
	n := Number(v)
	if n < 0 {
		return 0
	}
	return n
}

func parseString(v string) float64 {
	s := stripSpace(v)
	if isDegenerate(s) {
		return 0
	}

	s = keepRunes(s, "0123456789.,-")
	if s == "" || s == "-" {
		return 0
	}

	hasComma := strings.Contains(s, ",")
	hasDot := strings.Contains(s, ".")

	switch {
	case hasComma && hasDot:
		if strings.LastIndex(s, ",") > strings.LastIndex(s, ".") {
			// "1.234,56": dots are thousands separators, first comma is the
			// decimal point, any further commas are dropped below.
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			// "1,234.56"
			s = strings.ReplaceAll(s, ",", "")
		}
	case hasComma:
		after := s[strings.Index(s, ",")+1:]
		if strings.Count(s, ",") == 1 && len(after) <= 2 {
			// "1,5" reads as a decimal
			s = strings.Replace(s, ",", ".", 1)
		} else {
			// "1,234" or "1,234,567" read as thousands groups
			s = strings.ReplaceAll(s, ",", "")
		}
	case hasDot:
		dots := strings.Count(s, ".")
		frac := s[strings.LastIndex(s, ".")+1:]
		if dots > 1 || (dots == 1 && len(frac) > 2) {
			// "1.234" / "1.234.567" are thousands groups, not decimals
			s = strings.ReplaceAll(s, ".", "")
		}
	}

	s = keepRunes(s, "0123456789.-")
	if isDegenerate(s) {
		return 0
	}

	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return finite(n)
}

func finite(n float64) float64 {
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0
	}
	return n
}

func isDegenerate(s string) bool {
	switch s {
	case "", "-", ".", "-.":
		return true
	}
	return false
}

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, strings.TrimSpace(s))
}

func keepRunes(s, allowed string) string {
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(allowed, r) {
			return r
		}
		return -1
	}, s)
}
