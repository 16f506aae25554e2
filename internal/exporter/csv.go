package exporter

import (
	"encoding/csv"
	"fmt"
	"net/http"
)

// SnapshotRow is one zone's value in a per-zone snapshot export.
type SnapshotRow struct {
	Zone  string
	Value float64
}

// SeriesRow is one dated point in a time-series export.
type SeriesRow struct {
	Period string
	Value  float64
}

// WriteSnapshotCSV streams a zone,value CSV as a download attachment.
func WriteSnapshotCSV(w http.ResponseWriter, filename string, rows []SnapshotRow) error {
	cw, err := beginCSV(w, filename, []string{"zone", "value"})
	if err != nil {
		return err
	}
	for _, row := range rows {
		if err := cw.Write([]string{row.Zone, formatRaw(row.Value)}); err != nil {
			return fmt.Errorf("write snapshot row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteSeriesCSV streams a date,value CSV as a download attachment.
func WriteSeriesCSV(w http.ResponseWriter, filename string, rows []SeriesRow) error {
	cw, err := beginCSV(w, filename, []string{"date", "value"})
	if err != nil {
		return err
	}
	for _, row := range rows {
		if err := cw.Write([]string{row.Period, formatRaw(row.Value)}); err != nil {
			return fmt.Errorf("write series row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func beginCSV(w http.ResponseWriter, filename string, header []string) (*csv.Writer, error) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	return cw, nil
}
