package validation

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// isoLayouts are always tried before the configured layouts.
var isoLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
}

// maxExcelSerial is 9999-12-31, the last day Excel can represent.
const maxExcelSerial = 2958465

// ParseDate reads a cell as a calendar date.
//
// Accepted forms, in order:
//   - ISO dates, with or without a time part
//   - Excel serial day numbers (1900 date system), as read from raw XLSX cells
//   - each of the extra layouts
//
// The result is truncated to midnight UTC.
func ParseDate(value string, layouts []string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, errors.New("empty date")
	}

	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return midnight(t), nil
		}
	}

	if serial, err := strconv.ParseFloat(value, 64); err == nil && serial >= 1 && serial <= maxExcelSerial {
		t, err := excelize.ExcelDateToTime(serial, false)
		if err == nil {
			return midnight(t), nil
		}
	}

	for _, layout := range layouts {
		if t, err := time.Parse(layout, value); err == nil {
			return midnight(t), nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognised date %q", value)
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDecimal reads a cell as a decimal number.
//
// Plain notation ("1234.5"), comma decimals ("1234,5"), and grouped thousands
// ("1 234 567,89", "1,234,567.89", "1.234.567,89") are accepted.
func ParseDecimal(value string) (decimal.Decimal, error) {
	s := strings.TrimSpace(value)
	if s == "" {
		return decimal.Zero, errors.New("empty number")
	}

	s = strings.NewReplacer(" ", "", "\u00a0", "", "\u202f", "").Replace(s)

	lastComma := strings.LastIndex(s, ",")
	lastDot := strings.LastIndex(s, ".")
	switch {
	case lastComma >= 0 && lastDot >= 0 && lastComma > lastDot:
		// 1.234.567,89
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	case lastComma >= 0 && lastDot >= 0:
		// 1,234,567.89
		s = strings.ReplaceAll(s, ",", "")
	case lastComma >= 0 && strings.Count(s, ",") == 1:
		s = strings.Replace(s, ",", ".", 1)
	case lastComma >= 0:
		// 1,234,567
		s = strings.ReplaceAll(s, ",", "")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("not a number: %q", value)
	}
	return d, nil
}

// ParseInteger reads a cell as a whole number. "3" and "3.0" are both 3.
func ParseInteger(value string) (int, error) {
	d, err := ParseDecimal(value)
	if err != nil {
		return 0, err
	}
	if !d.Equal(d.Truncate(0)) {
		return 0, fmt.Errorf("not an integer: %q", value)
	}
	return int(d.IntPart()), nil
}
