// =============================================================================
// Ledger Analyzer - Filter Engine
// =============================================================================
//
// This module restricts a ledger to the records matching a FilterSpec and
// computes the option lists a caller needs to build one.
//
// FILTER MODES:
//   Inclusive (default): keep a record when every constrained field holds
//                        one of its allowed values.
//   Exclusive:           keep a record when at least one constrained field
//                        holds a value outside its allowed set. This is the
//                        exact complement of the inclusive result.
//
// A constraint with no values is the same as no constraint: the field
// accepts everything. Consequently an exclusive spec without any constraint
// keeps nothing.
//
// =============================================================================

package filter

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ginjaninja78/ledger-analyzer/internal/ledger"
	"github.com/ginjaninja78/ledger-analyzer/internal/types"
)

// =============================================================================
// FILTER SPEC
// =============================================================================

// Constraint lists the allowed values of one field.
type Constraint struct {
	Field  types.Field
	Values []string
}

// Spec is an ordered list of field constraints and the filter mode.
// The zero value is an inclusive spec with no constraints.
type Spec struct {
	Constraints []Constraint
	Exclusive   bool
}

// With returns a copy of s with values added to the field's constraint.
// Values are trimmed; blank values are dropped.
func (s Spec) With(field types.Field, values ...string) Spec {
	out := s.clone()

	var clean []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			clean = append(clean, v)
		}
	}

	for i := range out.Constraints {
		if out.Constraints[i].Field == field {
			out.Constraints[i].Values = append(out.Constraints[i].Values, clean...)
			return out
		}
	}
	out.Constraints = append(out.Constraints, Constraint{Field: field, Values: clean})
	return out
}

// Excluding returns a copy of s in exclusive mode.
func (s Spec) Excluding() Spec {
	out := s.clone()
	out.Exclusive = true
	return out
}

// Values returns the allowed values of a field and whether the field is
// constrained at all.
func (s Spec) Values(field types.Field) ([]string, bool) {
	for _, c := range s.Constraints {
		if c.Field == field && len(c.Values) > 0 {
			return c.Values, true
		}
	}
	return nil, false
}

// Constrained reports whether any field has at least one allowed value.
func (s Spec) Constrained() bool {
	for _, c := range s.Constraints {
		if len(c.Values) > 0 {
			return true
		}
	}
	return false
}

// Only returns a copy of s keeping the constraints on the given fields.
// The mode is kept.
func (s Spec) Only(fields []types.Field) Spec {
	keep := make(map[types.Field]bool, len(fields))
	for _, f := range fields {
		keep[f] = true
	}
	out := Spec{Exclusive: s.Exclusive}
	for _, c := range s.clone().Constraints {
		if keep[c.Field] {
			out.Constraints = append(out.Constraints, c)
		}
	}
	return out
}

// Validate rejects unknown field names and fields constrained twice.
func (s Spec) Validate() error {
	known := make(map[types.Field]bool)
	for _, f := range types.Fields() {
		known[f] = true
	}

	var errs []error
	seen := make(map[types.Field]bool)
	for _, c := range s.Constraints {
		if !known[c.Field] {
			errs = append(errs, fmt.Errorf("unknown filter field %q", c.Field))
			continue
		}
		if seen[c.Field] {
			errs = append(errs, fmt.Errorf("field %q constrained more than once", c.Field))
		}
		seen[c.Field] = true
	}
	return errors.Join(errs...)
}

func (s Spec) clone() Spec {
	out := Spec{Exclusive: s.Exclusive, Constraints: make([]Constraint, len(s.Constraints))}
	for i, c := range s.Constraints {
		out.Constraints[i] = Constraint{Field: c.Field, Values: append([]string(nil), c.Values...)}
	}
	return out
}

// =============================================================================
// APPLY
// =============================================================================

// matcher is a compiled Spec.
type matcher struct {
	fields []types.Field
	sets   []map[string]bool
}

func compile(s Spec) matcher {
	var m matcher
	for _, c := range s.Constraints {
		if len(c.Values) == 0 {
			continue
		}
		set := make(map[string]bool, len(c.Values))
		for _, v := range c.Values {
			set[v] = true
		}
		m.fields = append(m.fields, c.Field)
		m.sets = append(m.sets, set)
	}
	return m
}

// all reports whether every constrained field of r is allowed.
func (m matcher) all(r ledger.Record) bool {
	for i, f := range m.fields {
		if !m.sets[i][r.Value(f)] {
			return false
		}
	}
	return true
}

// Apply returns the records of l selected by spec as a new ledger.
//
// RETURNS:
//   - The filtered ledger; l itself is never modified.
//   - An error if a constraint names an unknown field.
func Apply(l *ledger.Ledger, spec Spec) (*ledger.Ledger, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	m := compile(spec)
	if spec.Exclusive {
		return l.Select(func(r ledger.Record) bool { return !m.all(r) }), nil
	}
	return l.Select(m.all), nil
}

// =============================================================================
// OPTIONS
// =============================================================================

// Options returns the sorted distinct values of field among the records
// matching the parent constraints inclusively. The parents' mode is ignored.
func Options(l *ledger.Ledger, field types.Field, parents Spec) ([]string, error) {
	parents.Exclusive = false
	scoped, err := Apply(l, parents)
	if err != nil {
		return nil, err
	}
	return scoped.Values(field), nil
}

// FieldOptions is the option list of one field.
type FieldOptions struct {
	Field  types.Field
	Values []string
}

// parentOf lists the cascading dependencies between filter fields.
var parentOf = map[types.Field]types.Field{
	types.FieldSubcategory: types.FieldCategory,
	types.FieldItem:        types.FieldSubcategory,
	types.FieldMonth:       types.FieldQuarter,
}

// Cascade computes the option list of every filter field of the ledger's
// kind. Subcategory options follow the selected categories, item options
// follow the selected subcategories and month options follow the selected
// quarters; every other field lists all of its values.
func Cascade(l *ledger.Ledger, spec Spec) ([]FieldOptions, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	kind := l.Kind()
	if kind == "" {
		kind = types.Income
	}

	var out []FieldOptions
	for _, f := range types.FilterFields(kind) {
		var parents Spec
		if p, ok := parentOf[f]; ok {
			if vals, ok := spec.Values(p); ok {
				parents = parents.With(p, vals...)
			}
		}
		vals, err := Options(l, f, parents)
		if err != nil {
			return nil, err
		}
		out = append(out, FieldOptions{Field: f, Values: vals})
	}
	return out, nil
}
