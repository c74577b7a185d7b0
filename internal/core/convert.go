package core

// convert.go cleans cell values from user-provided CSV exports:
//   - several date layouts (ISO, US, EU, spelled-out months)
//   - Excel formula prefixes (="value")
//   - stray surrounding quotes
//   - the \N null marker written by MySQL and Ergast dumps

import (
	"strings"
	"time"
)

// NullMarker is the literal some database dumps write for NULL.
const NullMarker = `\N`

// TwoDigitYearPivot is how many years past the reference year a two-digit
// year may land before it is moved to the previous century. Birth dates are
// never in the future, so the default is zero.
var TwoDigitYearPivot = 0

var (
	twoDigitYearLayouts = []string{
		"1/2/06", "01/02/06", "1-2-06", "1.2.06", "01.02.06",
	}
	fourDigitYearLayouts = []string{
		"2006-01-02", "2006/01/02", "2006.01.02",
		"1/2/2006", "01/02/2006", "1-2-2006", "01-02-2006", "1.2.2006", "01.02.2006",
		"Jan 2, 2006", "January 2, 2006", "2 Jan 2006", "2 January 2006",
		"20060102",
	}
)

// ParseDate parses s with the supported layouts. Four-digit layouts are tried
// first; two-digit years are resolved against ref. Slash and dash dates are
// read month first.
func ParseDate(s string, ref time.Time) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range fourDigitYearLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	pivotYear := ref.Year() + TwoDigitYearPivot
	for _, layout := range twoDigitYearLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			if t.Year() > pivotYear {
				t = t.AddDate(-100, 0, 0)
			}
			return t, true
		}
	}

	return time.Time{}, false
}

// HeaderIndex maps lowercased column names to their position in a row.
type HeaderIndex map[string]int

// MakeHeaderIndex creates a HeaderIndex from a CSV header row. The first
// occurrence of a duplicated column wins.
func MakeHeaderIndex(header []string) HeaderIndex {
	idx := make(HeaderIndex, len(header))
	for i, h := range header {
		key := strings.ToLower(CleanCell(h))
		if _, dup := idx[key]; dup || key == "" {
			continue
		}
		idx[key] = i
	}
	return idx
}

// Lookup returns the position of the first of names present in the index.
func (h HeaderIndex) Lookup(names ...string) (int, bool) {
	for _, name := range names {
		if pos, ok := h[strings.ToLower(name)]; ok {
			return pos, true
		}
	}
	return 0, false
}

// CleanCell trims whitespace, Excel formula wrappers and surrounding quotes.
// The null marker becomes the empty string.
func CleanCell(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, `="`) && strings.HasSuffix(s, `"`) && len(s) >= 3 {
		s = s[2 : len(s)-1]
	} else if strings.HasPrefix(s, "=") {
		s = s[1:]
	}

	s = strings.TrimSpace(strings.Trim(s, `"'`))
	if s == NullMarker {
		return ""
	}
	return s
}
