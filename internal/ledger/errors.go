package ledger

import "fmt"

// DateParseError rejects a batch because one date cell could not be read.
type DateParseError struct {
	Row    int
	Column string
	Value  string
}

func (e *DateParseError) Error() string {
	return fmt.Sprintf("row %d: column %s: cannot parse date %q", e.Row, e.Column, e.Value)
}

// AmountParseError rejects a batch because one amount cell is not a number.
type AmountParseError struct {
	Row    int
	Column string
	Value  string
}

func (e *AmountParseError) Error() string {
	return fmt.Sprintf("row %d: column %s: cannot parse amount %q", e.Row, e.Column, e.Value)
}

// DuplicateCategoryCodeError rejects a taxonomy that defines a code twice.
type DuplicateCategoryCodeError struct {
	Code     string
	FirstRow int
	Row      int
}

func (e *DuplicateCategoryCodeError) Error() string {
	return fmt.Sprintf("category code %q defined on row %d and again on row %d", e.Code, e.FirstRow, e.Row)
}
