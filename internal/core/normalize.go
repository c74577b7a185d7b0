package core

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"
)

// Driver CSV column names. Matching is case-insensitive.
const (
	ColumnRef         = "driverRef"
	ColumnNumber      = "number"
	ColumnCode        = "code"
	ColumnForename    = "forename"
	ColumnSurname     = "surname"
	ColumnDOB         = "dob"
	ColumnDateOfBirth = "date_of_birth"
	ColumnNationality = "nationality"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ParseDriverCSV reads a driver upload into ImportRows. The first non-blank
// record is the header and must contain a driverRef column; blank records
// are skipped. Cells that fail conversion mark the row Invalid instead of
// failing the parse, so one bad date never rejects the whole file.
//
// A header without data rows yields an empty slice and no error.
func ParseDriverCSV(r io.Reader) ([]ImportRow, error) {
	return parseDriverCSV(r, time.Now())
}

func parseDriverCSV(r io.Reader, ref time.Time) ([]ImportRow, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	data = sanitizeUTF8(stripBOM(data))

	records, err := parseCSV(data)
	if err != nil {
		return nil, fmt.Errorf("invalid csv: %w", err)
	}

	headerAt := -1
	for i, rec := range records {
		if !isEmptyRow(rec.fields) {
			headerAt = i
			break
		}
	}
	if headerAt < 0 {
		return nil, ErrEmptyFile
	}

	cols, err := resolveColumns(MakeHeaderIndex(records[headerAt].fields))
	if err != nil {
		return nil, err
	}

	var rows []ImportRow
	for _, rec := range records[headerAt+1:] {
		if isEmptyRow(rec.fields) {
			continue
		}
		rows = append(rows, cols.build(rec.fields, rec.line, ref))
	}
	return rows, nil
}

// driverColumns holds column positions; -1 marks an absent optional column.
type driverColumns struct {
	ref, number, code, forename, surname, dob, nationality int
}

func resolveColumns(idx HeaderIndex) (driverColumns, error) {
	pos := func(names ...string) int {
		if p, ok := idx.Lookup(names...); ok {
			return p
		}
		return -1
	}

	cols := driverColumns{
		ref:         pos(ColumnRef),
		number:      pos(ColumnNumber),
		code:        pos(ColumnCode),
		forename:    pos(ColumnForename),
		surname:     pos(ColumnSurname),
		dob:         pos(ColumnDOB, ColumnDateOfBirth),
		nationality: pos(ColumnNationality),
	}
	if cols.ref < 0 {
		return cols, fmt.Errorf("%w %q", ErrMissingColumn, ColumnRef)
	}
	return cols, nil
}

func (c driverColumns) build(rec []string, line int, ref time.Time) ImportRow {
	cell := func(p int) string {
		if p < 0 || p >= len(rec) {
			return ""
		}
		return CleanCell(rec[p])
	}

	row := ImportRow{
		Ref:         cell(c.ref),
		Number:      cell(c.number),
		Code:        cell(c.code),
		Forename:    cell(c.forename),
		Surname:     cell(c.surname),
		Nationality: cell(c.nationality),
		Line:        line,
	}

	if raw := cell(c.dob); raw != "" {
		if t, ok := ParseDate(raw, ref); ok {
			row.BirthDate = &t
		} else {
			row.Invalid = fmt.Errorf("invalid date for %q: %q", ColumnDOB, raw)
		}
	}
	return row
}

func stripBOM(data []byte) []byte {
	return bytes.TrimPrefix(data, utf8BOM)
}

// sanitizeUTF8 replaces every invalid byte with U+FFFD.
func sanitizeUTF8(data []byte) []byte {
	if utf8.Valid(data) {
		return data
	}

	var buf bytes.Buffer
	buf.Grow(len(data))
	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size == 1 {
			buf.WriteRune(utf8.RuneError)
		} else {
			buf.Write(data[:size])
		}
		data = data[size:]
	}
	return buf.Bytes()
}

// csvRecord is a parsed record with the file line it starts on.
type csvRecord struct {
	fields []string
	line   int
}

func parseCSV(data []byte) ([]csvRecord, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	var records []csvRecord
	for {
		fields, err := r.Read()
		if errors.Is(err, io.EOF) {
			return records, nil
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				return nil, fmt.Errorf("line %d: %w", perr.Line, perr.Err)
			}
			return nil, err
		}
		line, _ := r.FieldPos(0)
		records = append(records, csvRecord{fields: fields, line: line})
	}
}

func isEmptyRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
