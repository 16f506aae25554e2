// Package scoring combines resolved layer values into three weighted
// composite indexes per zone. Each input is normalized into [0,100] with a
// fixed affine clamp oriented so "better for the zone" always scores higher,
// then combined with fixed component weights.
package scoring

import (
	"context"
	"log/slog"
	"math"

	"pulse/internal/catalog"
	"pulse/internal/resolver"
	"pulse/internal/zones"
)

// neutralScore substitutes for components whose input could not be resolved.
const neutralScore = 50

// Component is one weighted input to a composite score. Lo maps to 0 and Hi
// to 100; an inverted metric (fewer days on market is better) simply has
// Lo > Hi.
type Component struct {
	LayerID string
	Weight  float64
	Lo      float64
	Hi      float64
}

// Normalize applies the component's affine clamp to a raw value.
func (c Component) Normalize(v float64) float64 {
	scaled := (v - c.Lo) / (c.Hi - c.Lo) * 100
	return math.Max(0, math.Min(100, scaled))
}

// The three score definitions. Weights within each score sum to 1.
var (
	investorComponents = []Component{
		{LayerID: "cap_rate", Weight: 0.40, Lo: 2, Hi: 10},
		{LayerID: "home_value_yoy", Weight: 0.30, Lo: -5, Hi: 15},
		{LayerID: "gross_rent_yield", Weight: 0.30, Lo: 2, Hi: 12},
	}
	growthComponents = []Component{
		{LayerID: "population_growth", Weight: 0.35, Lo: -2, Hi: 6},
		{LayerID: "income_growth", Weight: 0.35, Lo: 0, Hi: 8},
		{LayerID: "home_value_5y", Weight: 0.30, Lo: 0, Hi: 60},
	}
	marketHealthComponents = []Component{
		{LayerID: "days_on_market", Weight: 0.40, Lo: 90, Hi: 10},
		{LayerID: "inventory_level", Weight: 0.30, Lo: 800, Hi: 50},
		{LayerID: "sale_to_list_ratio", Weight: 0.30, Lo: 92, Hi: 102},
	}
)

// ComponentResult records one input's contribution, for auditability.
type ComponentResult struct {
	RawValue        float64 `json:"rawValue"`
	NormalizedScore float64 `json:"normalizedScore"`
	Weight          float64 `json:"weight"`
}

// CompositeScore carries all three indexes for a zone plus the per-component
// breakdown behind them.
type CompositeScore struct {
	Zone              string                     `json:"zone"`
	InvestorScore     float64                    `json:"investorScore"`
	GrowthScore       float64                    `json:"growthScore"`
	MarketHealthScore float64                    `json:"marketHealthScore"`
	Breakdown         map[string]ComponentResult `json:"breakdown"`
}

// Engine computes composite scores through the resolver, so scores reflect
// real data when it exists and the synthetic model when it does not.
type Engine struct {
	resolver *resolver.Resolver
	logger   *slog.Logger
}

// NewEngine creates a scoring engine.
func NewEngine(r *resolver.Resolver, logger *slog.Logger) *Engine {
	return &Engine{
		resolver: r,
		logger:   logger.With(slog.String("component", "scoring")),
	}
}

// ScoreZone computes the three composite scores for one zone. A component
// whose input fails to resolve contributes the neutral midpoint instead of
// aborting the whole score.
func (e *Engine) ScoreZone(ctx context.Context, zone zones.Zone) CompositeScore {
	breakdown := make(map[string]ComponentResult)

	score := CompositeScore{
		Zone:      zone.Key,
		Breakdown: breakdown,
	}
	score.InvestorScore = e.combine(ctx, zone, investorComponents, breakdown)
	score.GrowthScore = e.combine(ctx, zone, growthComponents, breakdown)
	score.MarketHealthScore = e.combine(ctx, zone, marketHealthComponents, breakdown)
	return score
}

func (e *Engine) combine(ctx context.Context, zone zones.Zone, components []Component, breakdown map[string]ComponentResult) float64 {
	var total float64
	for _, c := range components {
		raw, normalized := e.componentValue(ctx, zone, c)
		breakdown[c.LayerID] = ComponentResult{
			RawValue:        raw,
			NormalizedScore: round1(normalized),
			Weight:          c.Weight,
		}
		total += c.Weight * normalized
	}
	return round1(total)
}

// componentValue resolves one input, substituting the neutral midpoint when
// the layer cannot be resolved.
func (e *Engine) componentValue(ctx context.Context, zone zones.Zone, c Component) (raw, normalized float64) {
	layer, err := catalog.Layer(c.LayerID)
	if err != nil {
		e.logger.WarnContext(ctx, "score component not in catalog",
			slog.String("layer", c.LayerID),
		)
		return 0, neutralScore
	}

	point, _, err := e.resolver.ResolveOne(ctx, layer, zone)
	if err != nil {
		e.logger.WarnContext(ctx, "score component unresolved, using neutral midpoint",
			slog.String("layer", c.LayerID),
			slog.String("zone", zone.Key),
			slog.String("error", err.Error()),
		)
		return 0, neutralScore
	}
	return point.Value, c.Normalize(point.Value)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
