package filter

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/ledger-analyzer/internal/ledger"
	"github.com/ginjaninja78/ledger-analyzer/internal/types"
)

func rec(year, month int, cat, sub, item, partner string, net int64) ledger.Record {
	return ledger.Record{
		Year: year, Month: month, Quarter: (month-1)/3 + 1,
		Category: cat, Subcategory: sub, Item: item, Partner: partner,
		CategoryCode: cat + "/" + sub, Net: decimal.NewFromInt(net),
	}
}

func sample() *ledger.Ledger {
	return ledger.New(types.Expense, []ledger.Record{
		rec(2023, 1, "Iroda", "Rezsi", "Áram", "ELMŰ", 100),
		rec(2023, 5, "Iroda", "Bérlet", "Iroda", "Ingatlan Kft", 200),
		rec(2024, 2, "Bér", "Alapbér", "Havi", "", 300),
		rec(2024, 7, "Iroda", "Rezsi", "Gáz", "MVM", 50),
		rec(2024, 11, "Utazás", "Repülő", "Jegy", "Wizz", 80),
	})
}

func TestApply_InclusiveNoConstraintsIsIdentity(t *testing.T) {
	l := sample()
	out, err := Apply(l, Spec{})
	require.NoError(t, err)
	require.Equal(t, l.Records(), out.Records())
}

func TestApply_ExclusiveNoConstraintsIsEmpty(t *testing.T) {
	out, err := Apply(sample(), Spec{}.Excluding())
	require.NoError(t, err)
	require.True(t, out.Empty())
}

func TestApply_EmptyValueListIsUnconstrained(t *testing.T) {
	spec := Spec{Constraints: []Constraint{{Field: types.FieldCategory}}}
	out, err := Apply(sample(), spec)
	require.NoError(t, err)
	require.Equal(t, 5, out.Len())
}

func TestApply_InclusiveIsAnd(t *testing.T) {
	spec := Spec{}.
		With(types.FieldCategory, "Iroda").
		With(types.FieldYear, "2024")

	out, err := Apply(sample(), spec)
	require.NoError(t, err)
	require.Equal(t, 1, out.Len())
	require.Equal(t, "Gáz", out.At(0).Item)
}

func TestApply_ExclusiveIsComplement(t *testing.T) {
	l := sample()
	spec := Spec{}.
		With(types.FieldCategory, "Iroda").
		With(types.FieldYear, "2024")

	in, err := Apply(l, spec)
	require.NoError(t, err)
	ex, err := Apply(l, spec.Excluding())
	require.NoError(t, err)

	require.Equal(t, l.Len(), in.Len()+ex.Len())
	for _, r := range ex.Records() {
		require.False(t, r.Category == "Iroda" && r.Year == 2024)
	}
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	l := sample()
	before := l.Records()
	_, err := Apply(l, Spec{}.With(types.FieldPartner, "Wizz"))
	require.NoError(t, err)
	require.Equal(t, before, l.Records())
}

func TestApply_UnknownField(t *testing.T) {
	_, err := Apply(sample(), Spec{}.With("colour", "red"))
	require.ErrorContains(t, err, "unknown filter field")
}

func TestSpec_WithMergesAndTrims(t *testing.T) {
	spec := Spec{}.With(types.FieldYear, " 2023 ", "").With(types.FieldYear, "2024")
	require.Len(t, spec.Constraints, 1)
	vals, ok := spec.Values(types.FieldYear)
	require.True(t, ok)
	require.Equal(t, []string{"2023", "2024"}, vals)
	require.NoError(t, spec.Validate())

	dup := Spec{Constraints: []Constraint{
		{Field: types.FieldYear, Values: []string{"2023"}},
		{Field: types.FieldYear, Values: []string{"2024"}},
	}}
	require.Error(t, dup.Validate())
}

func TestOptions(t *testing.T) {
	l := sample()

	cats, err := Options(l, types.FieldCategory, Spec{})
	require.NoError(t, err)
	require.Equal(t, []string{"Bér", "Iroda", "Utazás"}, cats)

	subs, err := Options(l, types.FieldSubcategory, Spec{}.With(types.FieldCategory, "Iroda"))
	require.NoError(t, err)
	require.Equal(t, []string{"Bérlet", "Rezsi"}, subs)

	// the mode of the parent spec is ignored
	subs, err = Options(l, types.FieldSubcategory, Spec{}.With(types.FieldCategory, "Iroda").Excluding())
	require.NoError(t, err)
	require.Equal(t, []string{"Bérlet", "Rezsi"}, subs)
}

func TestCascade(t *testing.T) {
	spec := Spec{}.
		With(types.FieldCategory, "Iroda").
		With(types.FieldSubcategory, "Rezsi").
		With(types.FieldQuarter, "1", "3")

	opts, err := Cascade(sample(), spec)
	require.NoError(t, err)

	byField := make(map[types.Field][]string)
	for _, o := range opts {
		byField[o.Field] = o.Values
	}

	require.Equal(t, []string{"Bér", "Iroda", "Utazás"}, byField[types.FieldCategory])
	require.Equal(t, []string{"Bérlet", "Rezsi"}, byField[types.FieldSubcategory])
	require.Equal(t, []string{"Áram", "Gáz"}, byField[types.FieldItem])
	require.Equal(t, []string{"1", "2", "7"}, byField[types.FieldMonth])
	require.Equal(t, []string{"2023", "2024"}, byField[types.FieldYear])
	require.Contains(t, byField, types.FieldMainCategory)
}

func TestSpec_Only(t *testing.T) {
	spec := Spec{}.
		With(types.FieldYear, "2024").
		With(types.FieldSource, "bank").
		Excluding()

	income := spec.Only(types.FilterFields(types.Income))
	require.True(t, income.Exclusive)
	require.Len(t, income.Constraints, 1)
	require.Equal(t, types.FieldYear, income.Constraints[0].Field)

	_, ok := spec.Values(types.FieldSource)
	require.True(t, ok)

	none := Spec{}.With(types.FieldMainCategory, "1").Only(types.FilterFields(types.Income))
	require.False(t, none.Constrained())
	require.True(t, Spec{}.With(types.FieldMainCategory, "1").Constrained())
	require.False(t, Spec{Constraints: []Constraint{{Field: types.FieldYear}}}.Constrained())
}
