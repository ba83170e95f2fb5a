package aggregate

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/ledger-analyzer/internal/ledger"
)

// Granularity is the bucket size of a time series.
type Granularity string

const (
	Monthly   Granularity = "month"
	Quarterly Granularity = "quarter"
)

// ParseGranularity accepts "month"/"monthly" and "quarter"/"quarterly".
func ParseGranularity(s string) (Granularity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "month", "monthly", "m":
		return Monthly, nil
	case "quarter", "quarterly", "q":
		return Quarterly, nil
	}
	return "", fmt.Errorf("unknown granularity %q", s)
}

// Bucket returns the within-year index (month 1-12 or quarter 1-4) of r.
func (g Granularity) Bucket(r ledger.Record) int {
	if g == Quarterly {
		return r.Quarter
	}
	return r.Month
}

// Label formats a period: "2024-03" monthly, "2024 Q1" quarterly.
func (g Granularity) Label(year, index int) string {
	if g == Quarterly {
		return fmt.Sprintf("%d Q%d", year, index)
	}
	return fmt.Sprintf("%04d-%02d", year, index)
}

// Point is one period of a series.
type Point struct {
	Year  int
	Index int
	Label string
	Sum   decimal.Decimal
	Count int
}

// Series is a chronological list of periods that have records. Periods
// without records are absent rather than zero.
type Series struct {
	Granularity Granularity
	Points      []Point
	Total       decimal.Decimal
}

// Empty reports whether the series has no points.
func (s *Series) Empty() bool {
	return s == nil || len(s.Points) == 0
}

// At returns the point for a period.
func (s *Series) At(year, index int) (Point, bool) {
	for _, p := range s.Points {
		if p.Year == year && p.Index == index {
			return p, true
		}
	}
	return Point{}, false
}

// OverTime sums the ledger per month or per quarter.
func OverTime(l *ledger.Ledger, g Granularity) (*Series, error) {
	if g != Monthly && g != Quarterly {
		return nil, fmt.Errorf("unknown granularity %q", g)
	}

	type key struct{ year, index int }
	sums := make(map[key]*Point)

	s := &Series{Granularity: g, Total: decimal.Zero}
	l.Each(func(r ledger.Record) {
		k := key{r.Year, g.Bucket(r)}
		p, ok := sums[k]
		if !ok {
			p = &Point{Year: k.year, Index: k.index, Label: g.Label(k.year, k.index), Sum: decimal.Zero}
			sums[k] = p
		}
		p.Sum = p.Sum.Add(r.Net)
		p.Count++
		s.Total = s.Total.Add(r.Net)
	})

	for _, p := range sums {
		s.Points = append(s.Points, *p)
	}
	sort.Slice(s.Points, func(i, j int) bool {
		if s.Points[i].Year != s.Points[j].Year {
			return s.Points[i].Year < s.Points[j].Year
		}
		return s.Points[i].Index < s.Points[j].Index
	})

	return s, nil
}
