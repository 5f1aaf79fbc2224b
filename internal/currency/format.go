package currency

import (
	"math"
	"strconv"
	"strings"

	xcurrency "golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"dompet/internal/sanitize"
)

var printer = message.NewPrinter(language.English)

// FormatDisplay renders an amount as a locale currency string. Invalid
// amounts render as 0; an unrecognized currency code falls back to a plain
// numeric string instead of failing.
func (c *Converter) FormatDisplay(amount float64, code string) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		amount = 0
	}

	unit, err := xcurrency.ParseISO(normalize(code))
	if err != nil {
		return strconv.FormatFloat(amount, 'f', -1, 64)
	}

	return printer.Sprintf("%v", xcurrency.Symbol(unit.Amount(amount)))
}

// FormatInput echoes raw numeric-entry text back as a currency string. The
// entry fields only accept whole amounts, so everything except digits is
// dropped before formatting.
func (c *Converter) FormatInput(raw, code string) string {
	return c.FormatDisplay(c.ParseAmount(raw), code)
}

// ParseAmount parses raw numeric-entry text as a whole amount.
func (c *Converter) ParseAmount(raw string) float64 {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, raw)
	if digits == "" {
		return 0
	}
	return sanitize.Number(digits)
}
