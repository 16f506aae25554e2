package http

import (
	"context"

	"pulse/internal/exporter"
	"pulse/internal/scoring"
	"pulse/internal/services"
)

// PulseServiceInterface defines the interface for pulse engine operations
type PulseServiceInterface interface {
	Catalog(ctx context.Context) []services.CategoryView
	LayerSnapshot(ctx context.Context, layerID, region string) (*services.LayerSnapshot, error)
	LayerSeries(ctx context.Context, layerID, zoneKey, period string) (*services.LayerSeries, error)
	ZoneScores(ctx context.Context, zoneKey string) (*scoring.CompositeScore, error)
	ZoneSummary(ctx context.Context, zoneKey string) (*services.ZoneSummary, error)
	SnapshotExportRows(ctx context.Context, layerID string) ([]exporter.SnapshotRow, string, error)
	SeriesExportRows(ctx context.Context, layerID, zoneKey string) ([]exporter.SeriesRow, string, error)
}
