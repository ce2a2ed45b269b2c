package locale

import (
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Currencies billed per locale. The Czech site quotes in koruna, the
// English one in US dollars.
var currencies = map[string]currency.Unit{
	Czech:   currency.MustParseISO("CZK"),
	English: currency.USD,
}

// Formatter renders monetary amounts and plain numbers in one locale's
// conventions.
type Formatter struct {
	printer *message.Printer
	unit    currency.Unit
}

// NewFormatter builds a formatter for a locale code. Unknown codes get
// Czech conventions.
func NewFormatter(code string) *Formatter {
	tag, ok := tags[code]
	if !ok {
		tag = language.Czech
		code = Czech
	}
	return &Formatter{
		printer: message.NewPrinter(tag),
		unit:    currencies[code],
	}
}

// Amount renders a monetary value with its currency symbol, grouped and
// padded to two decimals per the locale's rules.
func (f *Formatter) Amount(v float64) string {
	return f.printer.Sprint(currency.Symbol(f.unit.Amount(v)))
}

// Number renders a plain numeric value with locale grouping and at most
// two decimal places.
func (f *Formatter) Number(v float64) string {
	return f.printer.Sprint(number.Decimal(v, number.MaxFractionDigits(2)))
}

// Currency returns the ISO 4217 code this formatter bills in.
func (f *Formatter) Currency() string {
	return f.unit.String()
}
