package core

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	ref := time.Date(2026, time.October, 19, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		input     string
		wantValid bool
		wantYear  int
		wantMonth time.Month
		wantDay   int
	}{
		{name: "ISO", input: "1985-01-07", wantValid: true, wantYear: 1985, wantMonth: time.January, wantDay: 7},
		{name: "ISO slashes", input: "1985/01/07", wantValid: true, wantYear: 1985, wantMonth: time.January, wantDay: 7},
		{name: "US four digit", input: "01/07/1985", wantValid: true, wantYear: 1985, wantMonth: time.January, wantDay: 7},
		{name: "US no padding", input: "1/7/1985", wantValid: true, wantYear: 1985, wantMonth: time.January, wantDay: 7},
		{name: "dotted", input: "07.01.1985", wantValid: true, wantYear: 1985, wantMonth: time.July, wantDay: 1},
		{name: "month name", input: "Jan 7, 1985", wantValid: true, wantYear: 1985, wantMonth: time.January, wantDay: 7},
		{name: "full month name", input: "January 7, 1985", wantValid: true, wantYear: 1985, wantMonth: time.January, wantDay: 7},
		{name: "day month year", input: "7 Jan 1985", wantValid: true, wantYear: 1985, wantMonth: time.January, wantDay: 7},
		{name: "compact", input: "19850107", wantValid: true, wantYear: 1985, wantMonth: time.January, wantDay: 7},
		{name: "surrounding whitespace", input: "  1985-01-07 ", wantValid: true, wantYear: 1985, wantMonth: time.January, wantDay: 7},
		{name: "leap day", input: "2000-02-29", wantValid: true, wantYear: 2000, wantMonth: time.February, wantDay: 29},

		{name: "empty", input: "", wantValid: false},
		{name: "whitespace", input: "   ", wantValid: false},
		{name: "garbage", input: "not-a-date", wantValid: false},
		{name: "month out of range", input: "1985-13-01", wantValid: false},
		{name: "non leap Feb 29", input: "1999-02-29", wantValid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseDate(tt.input, ref)
			if ok != tt.wantValid {
				t.Fatalf("ParseDate(%q) valid = %v, want %v", tt.input, ok, tt.wantValid)
			}
			if !ok {
				return
			}
			if got.Year() != tt.wantYear || got.Month() != tt.wantMonth || got.Day() != tt.wantDay {
				t.Errorf("ParseDate(%q) = %s, want %04d-%02d-%02d", tt.input, got.Format("2006-01-02"), tt.wantYear, tt.wantMonth, tt.wantDay)
			}
		})
	}
}

func TestParseDate_TwoDigitYear(t *testing.T) {
	originalPivot := TwoDigitYearPivot
	defer func() { TwoDigitYearPivot = originalPivot }()
	TwoDigitYearPivot = 0

	ref := time.Date(2026, time.October, 19, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		input    string
		wantYear int
	}{
		{"01/07/85", 1985},
		{"01/07/99", 1999},
		{"01/07/05", 2005},
		{"01/07/26", 2026},
		{"01/07/27", 1927},
	}

	for _, tt := range tests {
		got, ok := ParseDate(tt.input, ref)
		if !ok {
			t.Errorf("ParseDate(%q) not valid", tt.input)
			continue
		}
		if got.Year() != tt.wantYear {
			t.Errorf("ParseDate(%q) year = %d, want %d", tt.input, got.Year(), tt.wantYear)
		}
	}
}

func TestCleanCell(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "simple string unchanged", input: "hamilton", want: "hamilton"},
		{name: "empty string", input: "", want: ""},
		{name: "surrounded by whitespace", input: "  hamilton  ", want: "hamilton"},
		{name: "Excel formula with quotes", input: `="44"`, want: "44"},
		{name: "bare equals sign", input: "=44", want: "44"},
		{name: "double quotes", input: `"HAM"`, want: "HAM"},
		{name: "single quotes", input: `'HAM'`, want: "HAM"},
		{name: "null marker", input: `\N`, want: ""},
		{name: "quoted null marker", input: `"\N"`, want: ""},
		{name: "null marker with spaces", input: ` \N `, want: ""},
		{name: "backslash text kept", input: `a\Nb`, want: `a\Nb`},
		{name: "unicode kept", input: " Pérez ", want: "Pérez"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanCell(tt.input); got != tt.want {
				t.Errorf("CleanCell(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestMakeHeaderIndex(t *testing.T) {
	idx := MakeHeaderIndex([]string{" driverRef ", "Number", `"Code"`, "", "number"})

	tests := []struct {
		name    string
		wantPos int
		wantOK  bool
	}{
		{"driverref", 0, true},
		{"number", 1, true},
		{"code", 2, true},
		{"surname", 0, false},
	}
	for _, tt := range tests {
		pos, ok := idx[tt.name]
		if ok != tt.wantOK || (ok && pos != tt.wantPos) {
			t.Errorf("idx[%q] = %d, %v; want %d, %v", tt.name, pos, ok, tt.wantPos, tt.wantOK)
		}
	}
	if _, ok := idx[""]; ok {
		t.Error("empty header cell should not be indexed")
	}
}

func TestHeaderIndex_Lookup(t *testing.T) {
	idx := MakeHeaderIndex([]string{"driverRef", "date_of_birth"})

	if pos, ok := idx.Lookup("dob", "date_of_birth"); !ok || pos != 1 {
		t.Errorf("Lookup(dob, date_of_birth) = %d, %v; want 1, true", pos, ok)
	}
	if _, ok := idx.Lookup("nationality"); ok {
		t.Error("Lookup(nationality) found a missing column")
	}
	if pos, ok := idx.Lookup("DRIVERREF"); !ok || pos != 0 {
		t.Errorf("Lookup(DRIVERREF) = %d, %v; want 0, true", pos, ok)
	}
}
