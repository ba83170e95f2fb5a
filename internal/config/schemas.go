package config

import "github.com/ginjaninja78/ledger-analyzer/internal/types"

// DefaultSchemas returns the column layouts of the published upload
// templates. The income measure is teljes_forintban, the amount converted
// to forint; the expense measure is netto.
func DefaultSchemas() map[types.Kind]types.Columns {
	category := types.Columns{
		{Name: "kategoria", Type: types.TypeText, Role: types.RoleCategory},
		{Name: "alkategoria", Type: types.TypeText, Role: types.RoleSubcategory},
		{Name: "elem", Type: types.TypeText, Role: types.RoleItem},
		{Name: "kat_kod", Type: types.TypeText, Role: types.RoleCategoryCode},
	}

	return map[types.Kind]types.Columns{
		types.KindIncomeData: {
			{Name: "partner", Type: types.TypeText, Role: types.RolePartner},
			{Name: "datum", Type: types.TypeDate, Role: types.RoleDate},
			{Name: "egyseg_ar", Type: types.TypeDecimal, Role: types.RoleAttribute},
			{Name: "deviza", Type: types.TypeText, Role: types.RoleAttribute},
			{Name: "mennyiseg", Type: types.TypeDecimal, Role: types.RoleAttribute},
			{Name: "teljes_ar", Type: types.TypeDecimal, Role: types.RoleAttribute},
			{Name: "teljes_forintban", Type: types.TypeDecimal, Role: types.RoleAmount},
			{Name: "EUR_HUF", Type: types.TypeDecimal, Role: types.RoleAttribute},
			{Name: "kat_kod", Type: types.TypeText, Role: types.RoleCategoryCode},
		},
		types.KindIncomeCategory: append(types.Columns(nil), category...),
		types.KindExpenseData: {
			{Name: "ID", Type: types.TypeText, Role: types.RoleAttribute},
			{Name: "partner", Type: types.TypeText, Role: types.RolePartner},
			{Name: "bizonylat_szam", Type: types.TypeText, Role: types.RoleDocument},
			{Name: "megjegyzes", Type: types.TypeText, Role: types.RoleNote},
			{Name: "datum", Type: types.TypeDate, Role: types.RoleDate},
			{Name: "netto", Type: types.TypeDecimal, Role: types.RoleAmount},
			{Name: "kat_kod", Type: types.TypeText, Role: types.RoleCategoryCode},
			{Name: "fo_kat", Type: types.TypeInteger, Role: types.RoleMainCategory},
			{Name: "forras", Type: types.TypeText, Role: types.RoleSource},
		},
		types.KindExpenseCategory: append(types.Columns(nil), category...),
		types.KindHeadcount: {
			{Name: "datum", Type: types.TypeDate, Role: types.RoleDate},
			{Name: "vam", Type: types.TypeDecimal, Role: types.RoleHeadcountGroup},
			{Name: "penzugy", Type: types.TypeDecimal, Role: types.RoleHeadcountGroup},
			{Name: "egyeb", Type: types.TypeDecimal, Role: types.RoleHeadcountGroup},
			{Name: "osszes", Type: types.TypeDecimal, Role: types.RoleHeadcountGroup},
		},
	}
}
