package main

import (
	"encoding/json"
	"io"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/mattn/go-isatty"
	"github.com/olekukonko/tablewriter"
)

// Format is an output format.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// detectFormat prints tables to terminals and JSON to pipes and files.
func detectFormat(w io.Writer) Format {
	if f, ok := w.(*os.File); ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		return FormatTable
	}
	return FormatJSON
}

// tableData is the table rendering of a command result.
type tableData struct {
	headers []string
	rows    [][]string
}

// render writes data in format. Table output uses toTable.
func render(w io.Writer, format Format, data any, toTable func() tableData) error {
	switch format {
	case FormatYAML:
		out, err := yaml.MarshalWithOptions(data, yaml.Indent(2), yaml.IndentSequence(false))
		if err != nil {
			return err
		}
		_, err = w.Write(out)
		return err

	case FormatTable:
		return writeTable(w, toTable())

	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	}
}

func writeTable(w io.Writer, data tableData) error {
	table := tablewriter.NewTable(w)

	headers := make([]any, len(data.headers))
	for i, h := range data.headers {
		headers[i] = h
	}
	table.Header(headers...)

	for _, row := range data.rows {
		cells := make([]any, len(row))
		for i, c := range row {
			cells[i] = c
		}
		if err := table.Append(cells...); err != nil {
			return err
		}
	}
	return table.Render()
}
