// Package format renders report values for people: currency amounts,
// usage quantities with their units and signed percentages.
package format

import (
	"math"
	"strings"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// DefaultFractionDigits is used when Options leaves FractionDigits unset.
const DefaultFractionDigits = 2

// Options controls how a value is rendered.
type Options struct {
	FractionDigits int
}

func (o Options) digits() int {
	if o.FractionDigits <= 0 {
		return DefaultFractionDigits
	}
	return o.FractionDigits
}

// ValueFormatter renders a value expressed in units.
type ValueFormatter func(value float64, units string, opts Options) string

var printer = message.NewPrinter(language.English)

// Number groups thousands and fixes the fraction digits: 1234.5 -> "1,234.50".
func Number(value float64, opts Options) string {
	s := printer.Sprint(number.Decimal(math.Abs(value), number.Scale(opts.digits())))
	if value < 0 && strings.Trim(s, "0.,") != "" {
		return "-" + s
	}
	return s
}

// Currency formats a USD amount: 1234.567 -> "$1,234.57".
func Currency(value float64) string {
	return money(currency.USD, value, Options{})
}

func money(unit currency.Unit, value float64, opts Options) string {
	prefix := unit.String() + " "
	if unit == currency.USD {
		prefix = "$"
	}
	s := Number(math.Abs(value), opts)
	if value < 0 && strings.Trim(s, "0.,") != "" {
		return "-" + prefix + s
	}
	return prefix + s
}

// Value formats value according to its units. ISO currency codes render as
// money; anything else is a grouped number followed by the units label.
func Value(value float64, units string, opts Options) string {
	if unit, err := currency.ParseISO(strings.ToUpper(strings.TrimSpace(units))); err == nil {
		return money(unit, value, opts)
	}
	s := Number(value, opts)
	if units == "" {
		return s
	}
	return s + " " + units
}

// Percent formats a delta percentage with an explicit sign; nil is "N/A".
func Percent(value *float64) string {
	if value == nil {
		return "N/A"
	}
	s := Number(math.Abs(*value), Options{})
	switch {
	case strings.Trim(s, "0.,") == "":
		return s + "%"
	case *value < 0:
		return "-" + s + "%"
	default:
		return "+" + s + "%"
	}
}
