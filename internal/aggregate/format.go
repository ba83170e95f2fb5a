package aggregate

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Display suffixes used when a Formatter is built without explicit ones.
const (
	DefaultCurrencySuffix  = " Ft"
	DefaultHeadcountSuffix = " fő"
	// Undefined is shown in place of a percentage or ratio that has no value.
	Undefined = "n/a"
)

// Formatter turns numbers into display strings. It never changes the
// numbers it is given.
type Formatter struct {
	CurrencySuffix  string
	HeadcountSuffix string
	// Precision is the number of decimals shown for percentages.
	Precision int32

	printer *message.Printer
}

// NewFormatter returns a formatter with comma thousands grouping.
// Empty suffixes fall back to the defaults.
func NewFormatter(currencySuffix, headcountSuffix string) *Formatter {
	if currencySuffix == "" {
		currencySuffix = DefaultCurrencySuffix
	}
	if headcountSuffix == "" {
		headcountSuffix = DefaultHeadcountSuffix
	}
	return &Formatter{
		CurrencySuffix:  currencySuffix,
		HeadcountSuffix: headcountSuffix,
		Precision:       DefaultPrecision,
		printer:         message.NewPrinter(language.English),
	}
}

// WithPrecision sets the percentage decimals. Negative values are ignored.
func (f *Formatter) WithPrecision(p int32) *Formatter {
	if p >= 0 {
		f.Precision = p
	}
	return f
}

func (f *Formatter) p() *message.Printer {
	if f.printer == nil {
		f.printer = message.NewPrinter(language.English)
	}
	return f.printer
}

// Amount renders a whole currency amount, e.g. "1,234,567 Ft". The
// fractional part is truncated.
func (f *Formatter) Amount(d decimal.Decimal) string {
	return f.p().Sprintf("%d", d.IntPart()) + f.CurrencySuffix
}

// NullAmount renders an optional amount.
func (f *Formatter) NullAmount(d decimal.NullDecimal) string {
	if !d.Valid {
		return Undefined
	}
	return f.Amount(d.Decimal)
}

// Percent renders "85.71%", or Undefined.
func (f *Formatter) Percent(d decimal.NullDecimal) string {
	if !d.Valid {
		return Undefined
	}
	return d.Decimal.StringFixed(f.Precision) + "%"
}

// Headcount renders "12 fő" for whole counts and "12.5 fő" otherwise.
func (f *Formatter) Headcount(d decimal.NullDecimal) string {
	if !d.Valid {
		return Undefined
	}
	if d.Decimal.Equal(d.Decimal.Truncate(0)) {
		return d.Decimal.Truncate(0).String() + f.HeadcountSuffix
	}
	return d.Decimal.StringFixed(1) + f.HeadcountSuffix
}

// DisplayGroup is the display projection of a Group.
type DisplayGroup struct {
	Label   string
	Amount  string
	Percent string
	Count   int
}

// Project renders every group of r.
func (f *Formatter) Project(r *Result) []DisplayGroup {
	if r.Empty() {
		return nil
	}
	out := make([]DisplayGroup, 0, len(r.Groups))
	for _, g := range r.Groups {
		out = append(out, DisplayGroup{
			Label:   g.Label(),
			Amount:  f.Amount(g.Sum),
			Percent: f.Percent(g.Percent),
			Count:   g.Count,
		})
	}
	return out
}
