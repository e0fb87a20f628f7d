// Package export writes the rows currently on screen to CSV or NDJSON in
// display column order.
package export

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"bizadmin/internal/model"
)

var ErrNoRows = errors.New("no rows")

// Format picks the writer from a file extension or name.
func Format(path string) string {
	if strings.HasSuffix(strings.ToLower(path), ".csv") {
		return "csv"
	}
	return "ndjson"
}

// ToFile writes rows to path in the format implied by its extension.
func ToFile(path string, cols []model.Column, rows []model.Row) error {
	if len(rows) == 0 {
		return ErrNoRows
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if Format(path) == "csv" {
		err = WriteCSV(f, cols, rows)
	} else {
		err = WriteNDJSON(f, cols, rows)
	}
	if err != nil {
		return err
	}
	return f.Close()
}

// WriteCSV writes a header of column labels then one line per row. The
// actions column is skipped.
func WriteCSV(w io.Writer, cols []model.Column, rows []model.Row) error {
	cols = dataColumns(cols)
	cw := csv.NewWriter(w)
	header := make([]string, len(cols))
	for i, c := range cols {
		header[i] = c.Label
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, r := range rows {
		line := make([]string, len(cols))
		for i, c := range cols {
			line[i] = cell(r[c.Key])
		}
		if err := cw.Write(line); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteNDJSON writes one JSON object per row holding the id and the visible
// columns.
func WriteNDJSON(w io.Writer, cols []model.Column, rows []model.Row) error {
	cols = dataColumns(cols)
	bw := bufio.NewWriter(w)
	for _, r := range rows {
		obj := make(map[string]any, len(cols)+1)
		if id, ok := r.ID(); ok {
			obj["id"] = id
		}
		for _, c := range cols {
			obj[c.Key] = r[c.Key]
		}
		b, err := json.Marshal(obj)
		if err != nil {
			return err
		}
		if _, err := bw.Write(append(b, '\n')); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func dataColumns(cols []model.Column) []model.Column {
	out := make([]model.Column, 0, len(cols))
	for _, c := range cols {
		if !c.IsActions() {
			out = append(out, c)
		}
	}
	return out
}

func cell(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool, float64, int, int64, json.Number:
		return fmt.Sprint(t)
	default:
		b, _ := json.Marshal(t)
		return string(b)
	}
}
