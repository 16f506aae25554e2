// Package store defines the backing-store contract for real layer data and a
// PostgreSQL implementation of it. Absence of a table, or absence of rows, is
// an expected condition reported through the ok flag. Only transient faults
// (connectivity, timeouts, permissions) surface as errors.
package store

import (
	"context"
	"time"

	"pulse/internal/catalog"
)

// Point is one zone's most recent real value for a layer.
type Point struct {
	Zone  string
	Value float64
}

// HistoryPoint is one dated observation of a layer for a zone.
type HistoryPoint struct {
	Date  time.Time
	Value float64
}

// Store reads real layer data. ok=false means the data is structurally or
// factually absent and the caller should synthesize; it is never an error.
type Store interface {
	// LatestValues fetches the most recent value per requested zone.
	// Zones without rows are simply omitted from the result.
	LatestValues(ctx context.Context, layer catalog.LayerDefinition, zoneKeys []string) (points []Point, ok bool, err error)

	// History fetches all dated observations for one zone, oldest first.
	History(ctx context.Context, layer catalog.LayerDefinition, zoneKey string) (points []HistoryPoint, ok bool, err error)
}
