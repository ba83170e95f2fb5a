package compare

import (
	"errors"
	"sort"
	"strconv"

	"github.com/ginjaninja78/ledger-analyzer/internal/aggregate"
	"github.com/ginjaninja78/ledger-analyzer/internal/ledger"
	"github.com/ginjaninja78/ledger-analyzer/internal/types"
)

// SeriesKey identifies one series of a SeriesSet.
type SeriesKey struct {
	Kind  types.LedgerKind
	Year  int
	Group string
}

// String renders the key as "income 2024 Bér".
func (k SeriesKey) String() string {
	return string(k.Kind) + " " + strconv.Itoa(k.Year) + " " + k.Group
}

// SeriesRequest selects the ledgers, years and groups of a multi-series
// comparison. Empty Years or Groups select every value observed in the
// ledgers. A nil ledger is skipped.
type SeriesRequest struct {
	Income  *ledger.Ledger
	Expense *ledger.Ledger
	Years   []int
	Groups  []string
}

// SeriesSet holds every requested series, computed once.
type SeriesSet struct {
	Level       types.Field
	Granularity aggregate.Granularity
	// Keys lists the series in kind, year, group order.
	Keys []SeriesKey

	series map[SeriesKey]*aggregate.Series
}

// Get returns one series. Selected combinations without records are present
// with an empty series.
func (s *SeriesSet) Get(k SeriesKey) (*aggregate.Series, bool) {
	if s == nil {
		return nil, false
	}
	v, ok := s.series[k]
	return v, ok
}

// Len returns the number of series.
func (s *SeriesSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Keys)
}

// BuildSeries computes the over-time series of every (kind, year, group)
// combination of the request, grouping records on level.
func BuildSeries(req SeriesRequest, level types.Field, g aggregate.Granularity) (*SeriesSet, error) {
	if req.Income == nil && req.Expense == nil {
		return nil, errors.New("at least one ledger is required")
	}
	if _, err := types.ParseField(string(level)); err != nil {
		return nil, err
	}

	years := req.Years
	if len(years) == 0 {
		years = observedYears(req.Income, req.Expense)
	}
	groups := req.Groups
	if len(groups) == 0 {
		groups = observedGroups(level, req.Income, req.Expense)
	}

	set := &SeriesSet{Level: level, Granularity: g, series: make(map[SeriesKey]*aggregate.Series)}
	for _, l := range []*ledger.Ledger{req.Income, req.Expense} {
		if l == nil {
			continue
		}
		for _, y := range years {
			byYear := inYear(l, y)
			for _, grp := range groups {
				grp := grp
				sel := byYear.Select(func(r ledger.Record) bool { return r.Value(level) == grp })
				s, err := aggregate.OverTime(sel, g)
				if err != nil {
					return nil, err
				}
				k := SeriesKey{Kind: l.Kind(), Year: y, Group: grp}
				set.Keys = append(set.Keys, k)
				set.series[k] = s
			}
		}
	}
	return set, nil
}

func observedYears(ls ...*ledger.Ledger) []int {
	seen := make(map[int]bool)
	var out []int
	for _, l := range ls {
		l.Each(func(r ledger.Record) {
			if !seen[r.Year] {
				seen[r.Year] = true
				out = append(out, r.Year)
			}
		})
	}
	sort.Ints(out)
	return out
}

func observedGroups(level types.Field, ls ...*ledger.Ledger) []string {
	seen := make(map[string]bool)
	var out []string
	for _, l := range ls {
		for _, v := range l.Values(level) {
			if !seen[v] {
				seen[v] = true
				out = append(out, v)
			}
		}
	}
	ledger.SortValues(level, out)
	return out
}
