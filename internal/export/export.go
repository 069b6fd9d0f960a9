// Package export writes the result log in shareable formats.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/verte-zerg/symdigit/internal/i18n"
	"github.com/verte-zerg/symdigit/internal/model"
)

// Format names an export layout.
type Format string

const (
	FormatCSV   Format = "csv"
	FormatCSVTR Format = "csv-tr"
	FormatYAML  Format = "yaml"
)

// Formats lists the supported formats.
func Formats() []Format {
	return []Format{FormatCSV, FormatCSVTR, FormatYAML}
}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	for _, f := range Formats() {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown export format %q (available: %v)", s, Formats())
}

type column struct {
	key   string
	value func(model.ResultRecord) string
}

var (
	colName     = column{"export.name", func(r model.ResultRecord) string { return r.Name }}
	colCompany  = column{"export.company", func(r model.ResultRecord) string { return r.Company }}
	colScore    = column{"export.score", func(r model.ResultRecord) string { return strconv.Itoa(r.Score) }}
	colAccuracy = column{"export.accuracy", func(r model.ResultRecord) string { return strconv.Itoa(r.Accuracy) }}
	colDuration = column{"export.duration", func(r model.ResultRecord) string { return strconv.Itoa(r.DurationSeconds) }}
	colTotal    = column{"export.total", func(r model.ResultRecord) string { return strconv.Itoa(r.Total) }}
	colCorrect  = column{"export.correct", func(r model.ResultRecord) string { return strconv.Itoa(r.Correct) }}
	colEndedAt  = column{"export.endedAt", func(r model.ResultRecord) string { return r.EndedAt.UTC().Format(time.RFC3339) }}
)

// The machine-readable layout and the human-readable Turkish layout order columns differently.
var (
	csvColumns   = []column{colName, colCompany, colScore, colAccuracy, colDuration, colTotal, colCorrect, colEndedAt}
	csvTRColumns = []column{colName, colCompany, colScore, colCorrect, colTotal, colAccuracy, colDuration, colEndedAt}
)

// Write renders records to w in the given format.
func Write(w io.Writer, format Format, records []model.ResultRecord, cat *i18n.Catalog) error {
	switch format {
	case FormatCSV:
		return writeCSV(w, csvColumns, cat.Printer("en"), records)
	case FormatCSVTR:
		return writeCSV(w, csvTRColumns, cat.Printer("tr"), records)
	case FormatYAML:
		return writeYAML(w, records)
	default:
		return fmt.Errorf("unknown export format %q", format)
	}
}

func writeCSV(w io.Writer, cols []column, p *i18n.Printer, records []model.ResultRecord) error {
	cw := csv.NewWriter(w)
	header := make([]string, len(cols))
	for i, c := range cols {
		header[i] = p.T(c.key)
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	row := make([]string, len(cols))
	for _, rec := range records {
		for i, c := range cols {
			row[i] = c.value(rec)
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeYAML(w io.Writer, records []model.ResultRecord) error {
	if records == nil {
		records = []model.ResultRecord{}
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("failed to encode yaml: %w", err)
	}
	return enc.Close()
}
