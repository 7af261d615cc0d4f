// Package currency converts and formats trip amounts.
//
// Exchange rates are static: they are reference values for budget estimates,
// not market data.
package currency

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
	cldr "golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// ErrUnknownCurrency is returned for codes missing from the rate table.
var ErrUnknownCurrency = errors.New("unknown currency")

// perUSD holds units of each currency per 1 USD. Symbols and minor units
// come from CLDR.
var perUSD = map[string]decimal.Decimal{
	"USD": decimal.RequireFromString("1"),
	"EUR": decimal.RequireFromString("0.92"),
	"GBP": decimal.RequireFromString("0.79"),
	"JPY": decimal.RequireFromString("150"),
	"CAD": decimal.RequireFromString("1.36"),
	"AUD": decimal.RequireFromString("1.52"),
	"CHF": decimal.RequireFromString("0.88"),
	"INR": decimal.RequireFromString("83"),
	"MXN": decimal.RequireFromString("17"),
	"THB": decimal.RequireFromString("36"),
}

type info struct {
	unit   cldr.Unit
	perUSD decimal.Decimal
}

func lookup(code string) (info, error) {
	code = strings.ToUpper(code)
	rate, ok := perUSD[code]
	if !ok {
		return info{}, fmt.Errorf("%w: %q", ErrUnknownCurrency, code)
	}
	unit, err := cldr.ParseISO(code)
	if err != nil {
		return info{}, fmt.Errorf("%w: %q: %v", ErrUnknownCurrency, code, err)
	}
	return info{unit: unit, perUSD: rate}, nil
}

// digits is the number of minor-unit digits, 0 for JPY and 2 for most others.
func (i info) digits() int32 {
	scale, _ := cldr.Standard.Rounding(i.unit)
	return int32(scale)
}

// Supported reports whether code is in the rate table.
func Supported(code string) bool {
	_, err := lookup(code)
	return err == nil
}

// Codes returns the supported currency codes, sorted.
func Codes() []string {
	codes := make([]string, 0, len(perUSD))
	for c := range perUSD {
		codes = append(codes, c)
	}
	slices.Sort(codes)
	return codes
}

// Convert converts amount from one currency to another through USD.
// The result is not rounded.
func Convert(amount decimal.Decimal, from, to string) (decimal.Decimal, error) {
	src, err := lookup(from)
	if err != nil {
		return decimal.Zero, err
	}
	dst, err := lookup(to)
	if err != nil {
		return decimal.Zero, err
	}
	if strings.EqualFold(from, to) {
		return amount, nil
	}
	return amount.Div(src.perUSD).Mul(dst.perUSD), nil
}

// Round rounds amount to the currency's minor unit.
func Round(amount decimal.Decimal, code string) (decimal.Decimal, error) {
	i, err := lookup(code)
	if err != nil {
		return decimal.Zero, err
	}
	return amount.Round(i.digits()), nil
}

// Format renders amount for display, e.g. "$1,234.50" for en-US or
// "1.234,50 €" for de. Unknown language tags fall back to English.
func Format(amount decimal.Decimal, code, lang string) (string, error) {
	i, err := lookup(code)
	if err != nil {
		return "", err
	}

	tag, err := language.Parse(lang)
	if err != nil {
		tag = language.English
	}
	p := message.NewPrinter(tag)

	digits := i.digits()
	rounded := amount.Round(digits)
	f, _ := rounded.Abs().Float64()
	var number string
	if digits == 0 {
		number = p.Sprintf("%.0f", f)
	} else {
		number = p.Sprintf("%.2f", f)
	}
	symbol := p.Sprint(cldr.Symbol(i.unit))

	sign := ""
	if rounded.IsNegative() {
		sign = "-"
	}

	base, _ := tag.Base()
	switch base.String() {
	case "de", "fr", "es", "it", "pt", "nl":
		return sign + number + " " + i.symbol, nil
	default:
		return sign + symbol + number, nil
	}
}
