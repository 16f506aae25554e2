// Package services orchestrates the engine components behind the HTTP
// surface: catalog views, layer snapshots, reconstructed series, zone
// summaries, composite scores, and CSV export rows.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"pulse/internal/catalog"
	"pulse/internal/exporter"
	"pulse/internal/resolver"
	"pulse/internal/scoring"
	"pulse/internal/synth"
	"pulse/internal/timeseries"
	"pulse/internal/zones"
)

// LayerView is the public shape of a layer definition. The store mapping
// never leaves the process.
type LayerView struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Description string `json:"description"`
	Source      string `json:"source"`
	Unit        string `json:"unit"`
}

// CategoryView groups layer views for the catalog endpoint.
type CategoryView struct {
	ID     string      `json:"id"`
	Label  string      `json:"label"`
	Layers []LayerView `json:"layers"`
}

// SnapshotMeta summarizes a layer snapshot for choropleth legends.
type SnapshotMeta struct {
	Min         float64 `json:"min"`
	Max         float64 `json:"max"`
	Median      float64 `json:"median"`
	Unit        string  `json:"unit"`
	Source      string  `json:"source"`
	Description string  `json:"description"`
	Count       int     `json:"count"`
}

// LayerSnapshot is one layer resolved across a zone set.
type LayerSnapshot struct {
	LayerID string                       `json:"layerId"`
	Data    []resolver.ResolvedDataPoint `json:"data"`
	Meta    SnapshotMeta                 `json:"meta"`
}

// SeriesMeta describes a reconstructed series.
type SeriesMeta struct {
	Unit        string `json:"unit"`
	Source      string `json:"source"`
	Description string `json:"description"`
	Count       int    `json:"count"`
}

// LayerSeries is a reconstructed history for one (layer, zone).
type LayerSeries struct {
	LayerID string             `json:"layerId"`
	Zone    string             `json:"zone"`
	Period  string             `json:"period"`
	Data    []timeseries.Point `json:"data"`
	Meta    SeriesMeta         `json:"meta"`
}

// SummaryLayer is one resolved layer inside a zone summary.
type SummaryLayer struct {
	ID    string  `json:"id"`
	Label string  `json:"label"`
	Unit  string  `json:"unit"`
	Value float64 `json:"value"`
	Text  string  `json:"formattedLabel"`
}

// SummaryCategory groups summary layers by catalog category.
type SummaryCategory struct {
	ID     string         `json:"id"`
	Label  string         `json:"label"`
	Layers []SummaryLayer `json:"layers"`
}

// ZoneSummary is the full per-zone report: every catalog layer, a directional
// forecast, seasonal buy/sell heuristics, and the composite scores.
type ZoneSummary struct {
	Zone          string                 `json:"zone"`
	City          string                 `json:"city"`
	County        string                 `json:"county"`
	Forecast      string                 `json:"forecast"`
	BestBuyMonth  string                 `json:"bestBuyMonth"`
	BestSellMonth string                 `json:"bestSellMonth"`
	Categories    []SummaryCategory      `json:"categories"`
	Scores        scoring.CompositeScore `json:"scores"`
}

// PulseService is the orchestration layer over the engine components.
type PulseService struct {
	resolver *resolver.Resolver
	series   *timeseries.Reconstructor
	scores   *scoring.Engine
	logger   *slog.Logger
}

// NewPulseService wires the service from its collaborators.
func NewPulseService(res *resolver.Resolver, rec *timeseries.Reconstructor, eng *scoring.Engine, logger *slog.Logger) *PulseService {
	return &PulseService{
		resolver: res,
		series:   rec,
		scores:   eng,
		logger:   logger.With(slog.String("component", "pulse_service")),
	}
}

// Catalog returns the public layer catalog.
func (s *PulseService) Catalog(_ context.Context) []CategoryView {
	cats := catalog.Categories()
	out := make([]CategoryView, len(cats))
	for i, c := range cats {
		layers := make([]LayerView, len(c.Layers))
		for j, l := range c.Layers {
			layers[j] = LayerView{
				ID:          l.ID,
				Label:       l.Label,
				Description: l.Description,
				Source:      string(l.Source),
				Unit:        string(l.Unit),
			}
		}
		out[i] = CategoryView{ID: c.ID, Label: c.Label, Layers: layers}
	}
	return out
}

// LayerSnapshot resolves one layer across the zones of a region (all zones
// when region is empty).
func (s *PulseService) LayerSnapshot(ctx context.Context, layerID, region string) (*LayerSnapshot, error) {
	layer, err := catalog.Layer(layerID)
	if err != nil {
		return nil, err
	}

	zs := zones.InRegion(region)
	if len(zs) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrEmptyRegion, region)
	}

	points, source, err := s.resolver.Resolve(ctx, layer, zs)
	if err != nil {
		return nil, err
	}

	values := make([]float64, len(points))
	for i, p := range points {
		values[i] = p.Value
	}
	stats := exporter.Summarize(values)

	return &LayerSnapshot{
		LayerID: layer.ID,
		Data:    points,
		Meta: SnapshotMeta{
			Min:         stats.Min,
			Max:         stats.Max,
			Median:      stats.Median,
			Unit:        string(layer.Unit),
			Source:      string(source),
			Description: layer.Description,
			Count:       len(points),
		},
	}, nil
}

// LayerSeries reconstructs the history of one layer for one zone.
func (s *PulseService) LayerSeries(ctx context.Context, layerID, zoneKey, period string) (*LayerSeries, error) {
	layer, err := catalog.Layer(layerID)
	if err != nil {
		return nil, err
	}
	zone, ok := zones.Get(zoneKey)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownZone, zoneKey)
	}
	granularity, err := parsePeriod(period)
	if err != nil {
		return nil, err
	}

	points, source, err := s.series.Series(ctx, layer, zone, granularity)
	if err != nil {
		return nil, err
	}

	return &LayerSeries{
		LayerID: layer.ID,
		Zone:    zone.Key,
		Period:  string(granularity),
		Data:    points,
		Meta: SeriesMeta{
			Unit:        string(layer.Unit),
			Source:      string(source),
			Description: layer.Description,
			Count:       len(points),
		},
	}, nil
}

// ZoneScores computes the composite scores for one zone.
func (s *PulseService) ZoneScores(ctx context.Context, zoneKey string) (*scoring.CompositeScore, error) {
	zone, ok := zones.Get(zoneKey)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownZone, zoneKey)
	}
	score := s.scores.ScoreZone(ctx, zone)
	return &score, nil
}

// ZoneSummary resolves every catalog layer for a zone, one goroutine per
// category, plus the forecast, seasonal heuristics, and composite scores.
func (s *PulseService) ZoneSummary(ctx context.Context, zoneKey string) (*ZoneSummary, error) {
	zone, ok := zones.Get(zoneKey)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownZone, zoneKey)
	}

	cats := catalog.Categories()
	resolved := make([]SummaryCategory, len(cats))

	g, gctx := errgroup.WithContext(ctx)
	for i, cat := range cats {
		g.Go(func() error {
			layers := make([]SummaryLayer, len(cat.Layers))
			for j, layer := range cat.Layers {
				point, _, err := s.resolver.ResolveOne(gctx, layer, zone)
				if err != nil {
					return err
				}
				layers[j] = SummaryLayer{
					ID:    layer.ID,
					Label: layer.Label,
					Unit:  string(layer.Unit),
					Value: point.Value,
					Text:  point.Label,
				}
			}
			resolved[i] = SummaryCategory{ID: cat.ID, Label: cat.Label, Layers: layers}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	forecast, err := s.forecastDirection(ctx, zone)
	if err != nil {
		return nil, err
	}
	buy, sell := seasonalMonths(zone)

	return &ZoneSummary{
		Zone:          zone.Key,
		City:          zone.City,
		County:        zone.County,
		Forecast:      forecast,
		BestBuyMonth:  buy,
		BestSellMonth: sell,
		Categories:    resolved,
		Scores:        s.scores.ScoreZone(ctx, zone),
	}, nil
}

// SnapshotExportRows prepares CSV rows for a per-zone snapshot export.
func (s *PulseService) SnapshotExportRows(ctx context.Context, layerID string) ([]exporter.SnapshotRow, string, error) {
	snapshot, err := s.LayerSnapshot(ctx, layerID, "")
	if err != nil {
		return nil, "", err
	}
	rows := make([]exporter.SnapshotRow, len(snapshot.Data))
	for i, p := range snapshot.Data {
		rows[i] = exporter.SnapshotRow{Zone: p.Zone, Value: p.Value}
	}
	return rows, fmt.Sprintf("%s.csv", layerID), nil
}

// SeriesExportRows prepares CSV rows for a monthly time-series export.
func (s *PulseService) SeriesExportRows(ctx context.Context, layerID, zoneKey string) ([]exporter.SeriesRow, string, error) {
	series, err := s.LayerSeries(ctx, layerID, zoneKey, string(timeseries.Monthly))
	if err != nil {
		return nil, "", err
	}
	rows := make([]exporter.SeriesRow, len(series.Data))
	for i, p := range series.Data {
		rows[i] = exporter.SeriesRow{Period: p.Period, Value: p.Value}
	}
	return rows, fmt.Sprintf("%s_%s.csv", zoneKey, layerID), nil
}

// forecastDirection folds the 12-month forecast layer into a direction word.
func (s *PulseService) forecastDirection(ctx context.Context, zone zones.Zone) (string, error) {
	layer, err := catalog.Layer("home_value_forecast")
	if err != nil {
		return "", err
	}
	point, _, err := s.resolver.ResolveOne(ctx, layer, zone)
	if err != nil {
		return "", err
	}
	switch {
	case point.Value >= 1.5:
		return "rising", nil
	case point.Value < 0:
		return "cooling", nil
	default:
		return "steady", nil
	}
}

// Seasonal windows the buy/sell heuristic draws from. The pick is a stable
// function of the zone key.
var (
	buyMonths  = []string{"October", "November", "December", "January", "February"}
	sellMonths = []string{"April", "May", "June", "July"}
)

func seasonalMonths(zone zones.Zone) (buy, sell string) {
	buy = buyMonths[int(synth.Uniform("best_buy_month", zone.Key)*float64(len(buyMonths)))]
	sell = sellMonths[int(synth.Uniform("best_sell_month", zone.Key)*float64(len(sellMonths)))]
	return buy, sell
}

func parsePeriod(period string) (timeseries.Granularity, error) {
	switch period {
	case "", string(timeseries.Monthly):
		return timeseries.Monthly, nil
	case string(timeseries.Yearly):
		return timeseries.Yearly, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidPeriod, period)
	}
}
