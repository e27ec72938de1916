// Package export writes forecasts and comparisons in machine-readable
// formats.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gopkg.in/yaml.v2"

	"github.com/theirongolddev/fcast/internal/model"
)

// Format is an output encoding.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
	FormatCSV   Format = "csv"
)

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "", FormatTable:
		return FormatTable, nil
	case FormatJSON, FormatYAML, FormatCSV:
		return f, nil
	case "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unknown format %q (want table, json, yaml, or csv)", s)
}

var csvHeader = []string{
	"period", "label", "revenue", "cost", "profit",
	"cumulative_revenue", "cumulative_cost", "cumulative_profit",
	"attendance", "marketing_cost",
}

// WriteRecords encodes a forecast in f. Table is not handled here.
func WriteRecords(w io.Writer, f Format, records []model.PeriodRecord) error {
	switch f {
	case FormatJSON:
		return WriteJSON(w, records)
	case FormatYAML:
		return WriteYAML(w, records)
	case FormatCSV:
		return writeCSV(w, records)
	}
	return fmt.Errorf("format %q cannot encode records", f)
}

// WriteJSON writes v as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteYAML writes v as YAML.
func WriteYAML(w io.Writer, v any) error {
	out, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding yaml: %w", err)
	}
	_, err = w.Write(out)
	return err
}

func writeCSV(w io.Writer, records []model.PeriodRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range records {
		attendance := ""
		if r.Attendance != nil {
			attendance = num(*r.Attendance)
		}
		row := []string{
			strconv.Itoa(r.Period), r.Label,
			num(r.Revenue), num(r.Cost), num(r.Profit),
			num(r.CumulativeRevenue), num(r.CumulativeCost), num(r.CumulativeProfit),
			attendance, num(r.MarketingCost),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
