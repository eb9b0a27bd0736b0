package format

import (
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var symbols = map[string]string{
	"MXN": "$",
	"USD": "$",
	"CAD": "$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
}

// regional picks the number conventions the storefront's audience expects.
var regional = map[string]language.Tag{
	"es": language.MustParse("es-MX"),
	"en": language.AmericanEnglish,
	"fr": language.French,
}

func printer(lang string) *message.Printer {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if tag, ok := regional[lang]; ok {
		return message.NewPrinter(tag)
	}
	tag, err := language.Parse(lang)
	if err != nil {
		tag = language.AmericanEnglish
	}
	return message.NewPrinter(tag)
}

// Money formats an amount in minor units with the currency's standard scale.
// Example: Money(123450, "MXN", "en") => "$1,234.50"
func Money(minor int64, code, lang string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	unit, err := currency.ParseISO(code)
	if err != nil {
		return code + " " + strconv.FormatInt(minor, 10)
	}
	scale, _ := currency.Standard.Rounding(unit)

	neg := minor < 0
	if neg {
		minor = -minor
	}
	div := int64(1)
	for range scale {
		div *= 10
	}
	amount := float64(minor/div) + float64(minor%div)/float64(div)

	symbol, ok := symbols[code]
	if !ok {
		symbol = code + " "
	}
	out := symbol + printer(lang).Sprint(number.Decimal(amount, number.Scale(scale)))
	if neg {
		return "-" + out
	}
	return out
}

// Count formats an integer with locale grouping.
func Count(n int64, lang string) string {
	return printer(lang).Sprint(number.Decimal(n))
}

// CartBadge renders the header cart counter: empty at zero, capped at 99+.
func CartBadge(count int) string {
	switch {
	case count <= 0:
		return ""
	case count > 99:
		return "99+"
	default:
		return strconv.Itoa(count)
	}
}

// Year returns the four digit year of t.
func Year(t time.Time) string {
	return strconv.Itoa(t.Year())
}
