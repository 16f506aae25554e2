// Package resolver maps (layer, zones) requests onto real stored data when it
// exists and onto the synthetic generator when it does not. A resolution call
// never mixes sources: unless every requested zone has a real row, the whole
// call falls back to synthesis so callers see one consistent dataset.
package resolver

import (
	"context"
	"fmt"
	"log/slog"

	"pulse/internal/catalog"
	"pulse/internal/exporter"
	"pulse/internal/store"
	"pulse/internal/synth"
	"pulse/internal/zones"
)

// Source tells callers where a resolved dataset came from.
type Source string

const (
	SourceLive    Source = "live"
	SourceModeled Source = "modeled"
)

// ResolvedDataPoint is one zone's value for a layer, ready for presentation.
type ResolvedDataPoint struct {
	Zone  string  `json:"zone"`
	Value float64 `json:"value"`
	Label string  `json:"formattedLabel"`
}

// Resolver resolves layer values per zone. The store may be nil (fresh
// deployment with no database); every request then takes the synthetic path.
type Resolver struct {
	store  store.Store
	logger *slog.Logger
}

// New creates a resolver. st may be nil.
func New(st store.Store, logger *slog.Logger) *Resolver {
	return &Resolver{
		store:  st,
		logger: logger.With(slog.String("component", "resolver")),
	}
}

// Resolve produces one data point per zone, in the given zone order.
// Only transient store faults return an error; missing tables or rows
// silently resolve synthetically.
func (r *Resolver) Resolve(ctx context.Context, layer catalog.LayerDefinition, zs []zones.Zone) ([]ResolvedDataPoint, Source, error) {
	if real, ok, err := r.tryResolveReal(ctx, layer, zs); err != nil {
		return nil, "", fmt.Errorf("resolve %s: %w", layer.ID, err)
	} else if ok {
		return real, SourceLive, nil
	}

	points := make([]ResolvedDataPoint, len(zs))
	for i, z := range zs {
		v := synth.Value(layer, z)
		points[i] = ResolvedDataPoint{
			Zone:  z.Key,
			Value: v,
			Label: exporter.FormatValue(layer.Unit, v),
		}
	}
	return points, SourceModeled, nil
}

// ResolveOne resolves a single zone.
func (r *Resolver) ResolveOne(ctx context.Context, layer catalog.LayerDefinition, z zones.Zone) (ResolvedDataPoint, Source, error) {
	points, src, err := r.Resolve(ctx, layer, []zones.Zone{z})
	if err != nil {
		return ResolvedDataPoint{}, "", err
	}
	return points[0], src, nil
}

// tryResolveReal returns ok=true only when the store covered every requested
// zone. Partial coverage counts as absent: per-call source consistency
// matters more than per-zone freshness.
func (r *Resolver) tryResolveReal(ctx context.Context, layer catalog.LayerDefinition, zs []zones.Zone) ([]ResolvedDataPoint, bool, error) {
	if r.store == nil || !layer.HasBackingTable() {
		return nil, false, nil
	}

	raw, ok, err := r.store.LatestValues(ctx, layer, zones.Keys(zs))
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}

	byZone := make(map[string]float64, len(raw))
	for _, p := range raw {
		byZone[p.Zone] = p.Value
	}

	points := make([]ResolvedDataPoint, len(zs))
	for i, z := range zs {
		v, found := byZone[z.Key]
		if !found {
			r.logger.DebugContext(ctx, "store missing zone, falling back to synthesis for whole call",
				slog.String("layer", layer.ID),
				slog.String("zone", z.Key),
			)
			return nil, false, nil
		}
		points[i] = ResolvedDataPoint{
			Zone:  z.Key,
			Value: v,
			Label: exporter.FormatValue(layer.Unit, v),
		}
	}
	return points, true, nil
}
