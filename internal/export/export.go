// Package export writes records as CSV.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/abelbrown/moderator/internal/catalog"
	"github.com/abelbrown/moderator/internal/model"
)

// Columns are the resource's table columns plus any extra fields, in order.
func Columns(res catalog.Resource, extra ...string) []catalog.Column {
	cols := make([]catalog.Column, 0, len(res.Columns)+len(extra))
	seen := make(map[string]bool)
	for _, c := range res.Columns {
		cols = append(cols, c)
		seen[c.Field] = true
	}
	for _, f := range extra {
		if !seen[f] {
			cols = append(cols, catalog.Column{Title: f, Field: f})
			seen[f] = true
		}
	}
	return cols
}

// CSV writes a header row of column titles then one row per record.
// Status values are written as their labels.
func CSV(w io.Writer, res catalog.Resource, records []model.Record, cols []catalog.Column) error {
	cw := csv.NewWriter(w)

	header := make([]string, len(cols))
	for i, c := range cols {
		header[i] = c.Title
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	row := make([]string, len(cols))
	for _, r := range records {
		for i, c := range cols {
			if c.Field == model.FieldStatus {
				row[i] = res.StatusLabel(r.Status)
				continue
			}
			row[i] = r.Text(c.Field)
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write %s: %w", r.ID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// Filename is "<resource>-<status>-<date>.csv".
func Filename(res catalog.Resource, status string, now time.Time) string {
	if status == "" {
		status = model.StatusAll
	}
	status = strings.ToLower(strings.ReplaceAll(status, " ", "-"))
	return fmt.Sprintf("%s-%s-%s.csv", res.Name, status, now.Format("2006-01-02"))
}

// WriteFile writes the CSV to path, creating parent directories.
func WriteFile(path string, res catalog.Resource, records []model.Record, cols []catalog.Column) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := CSV(f, res, records, cols); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
