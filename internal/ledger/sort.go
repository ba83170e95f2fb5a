package ledger

import (
	"sort"
	"strconv"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/ginjaninja78/ledger-analyzer/internal/types"
)

// SortValues orders field values in place. Numeric fields sort by value;
// text fields use Hungarian collation so that accented letters sort next to
// their base letter ("Áram" before "Bér").
func SortValues(f types.Field, values []string) {
	if f.Numeric() {
		sort.SliceStable(values, func(i, j int) bool {
			a, errA := strconv.Atoi(values[i])
			b, errB := strconv.Atoi(values[j])
			if errA != nil || errB != nil {
				return values[i] < values[j]
			}
			return a < b
		})
		return
	}
	collate.New(language.Hungarian).SortStrings(values)
}
