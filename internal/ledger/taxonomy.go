package ledger

import (
	"strings"

	"github.com/ginjaninja78/ledger-analyzer/internal/types"
)

// CategoryNode is one leaf of the category tree: the code that ledger rows
// reference and the three hierarchy levels it resolves to.
type CategoryNode struct {
	Code        string
	Category    string
	Subcategory string
	Item        string
	LegacyCode  string
	Description string
}

// Taxonomy maps category codes to nodes. It is immutable once built.
type Taxonomy struct {
	nodes  []CategoryNode
	byCode map[string]int
}

// BuildTaxonomy reads a category table.
//
// Codes are whitespace-trimmed. Rows with a blank code are skipped since no
// ledger row can join to them; a code defined twice is a
// DuplicateCategoryCodeError.
func BuildTaxonomy(t *types.Table, columns types.Columns) (*Taxonomy, error) {
	codeIdx := columns.IndexOf(types.RoleCategoryCode)
	catIdx := columns.IndexOf(types.RoleCategory)
	subIdx := columns.IndexOf(types.RoleSubcategory)
	itemIdx := columns.IndexOf(types.RoleItem)
	legacyIdx := columns.IndexOf(types.RoleLegacyCode)
	descIdx := columns.IndexOf(types.RoleDescription)

	tax := &Taxonomy{byCode: make(map[string]int)}
	firstRow := make(map[string]int)

	for i, row := range t.Rows {
		code := strings.TrimSpace(cell(row, codeIdx))
		if code == "" {
			continue
		}

		if first, ok := firstRow[code]; ok {
			return nil, &DuplicateCategoryCodeError{Code: code, FirstRow: first, Row: t.Line(i)}
		}
		firstRow[code] = t.Line(i)

		tax.byCode[code] = len(tax.nodes)
		tax.nodes = append(tax.nodes, CategoryNode{
			Code:        code,
			Category:    strings.TrimSpace(cell(row, catIdx)),
			Subcategory: strings.TrimSpace(cell(row, subIdx)),
			Item:        strings.TrimSpace(cell(row, itemIdx)),
			LegacyCode:  strings.TrimSpace(cell(row, legacyIdx)),
			Description: strings.TrimSpace(cell(row, descIdx)),
		})
	}

	return tax, nil
}

// Len returns the number of category codes.
func (t *Taxonomy) Len() int {
	if t == nil {
		return 0
	}
	return len(t.nodes)
}

// Lookup resolves a trimmed category code.
func (t *Taxonomy) Lookup(code string) (CategoryNode, bool) {
	if t == nil {
		return CategoryNode{}, false
	}
	i, ok := t.byCode[code]
	if !ok {
		return CategoryNode{}, false
	}
	return t.nodes[i], true
}

// Nodes returns a copy of the nodes in table order.
func (t *Taxonomy) Nodes() []CategoryNode {
	if t == nil {
		return nil
	}
	return append([]CategoryNode(nil), t.nodes...)
}

// cell returns row[i], or "" when the column is absent from the schema.
func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}
