// Package timeseries reconstructs historical trajectories for a (layer, zone)
// pair. Real stored history wins when present; otherwise a modeled trajectory
// is built backward from the zone's current synthetic value using fixed trend
// anchors, so the same request always reproduces the same series.
package timeseries

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"
	"time"

	"pulse/internal/catalog"
	"pulse/internal/resolver"
	"pulse/internal/store"
	"pulse/internal/synth"
	"pulse/internal/zones"
)

// Granularity selects the period length of a reconstructed series.
type Granularity string

const (
	Monthly Granularity = "monthly"
	Yearly  Granularity = "yearly"
)

// Fixed historical windows.
const (
	YearlyWindow  = 11 // consecutive years ending at the current year
	MonthlyWindow = 36 // consecutive months ending at the current month
)

// Point is one period of a reconstructed series.
type Point struct {
	Period string  `json:"date"`
	Value  float64 `json:"value"`
}

// yearAnchors model a boom/bust cycle for home-value currency layers:
// steady appreciation into a peak four years back, a correction, then partial
// recovery to the present. Index 0 is the oldest year of the yearly window;
// the final anchor is 1.0 so the series lands on the current value.
var yearAnchors = [YearlyWindow]float64{
	0.54, 0.58, 0.64, 0.72, 0.83, 0.96, 1.10, 1.02, 0.95, 0.97, 1.00,
}

// Non-home-value currency layers back-project with flat annual growth.
const linearAnnualGrowth = 0.035

// Seasonal swing superimposed on monthly series, peaking in early summer.
const seasonalAmplitude = 0.015

// Reconstructor builds series from the store or the synthetic model.
type Reconstructor struct {
	store  store.Store
	logger *slog.Logger
	clock  func() time.Time
}

// New creates a reconstructor. st may be nil (synthetic-only deployment).
func New(st store.Store, logger *slog.Logger) *Reconstructor {
	return &Reconstructor{
		store:  st,
		logger: logger.With(slog.String("component", "timeseries")),
		clock:  time.Now,
	}
}

// Series reconstructs the history of (layer, zone) at the given granularity.
// Output is strictly chronological and produced fresh per call.
func (r *Reconstructor) Series(ctx context.Context, layer catalog.LayerDefinition, zone zones.Zone, g Granularity) ([]Point, resolver.Source, error) {
	if g != Monthly && g != Yearly {
		return nil, "", fmt.Errorf("unsupported granularity %q", g)
	}

	if r.store != nil && layer.HasBackingTable() {
		rows, ok, err := r.store.History(ctx, layer, zone.Key)
		if err != nil {
			return nil, "", fmt.Errorf("history %s/%s: %w", layer.ID, zone.Key, err)
		}
		if ok {
			return r.fromReal(rows, g), resolver.SourceLive, nil
		}
	}

	if g == Yearly {
		return r.syntheticYearly(layer, zone), resolver.SourceModeled, nil
	}
	return r.syntheticMonthly(layer, zone), resolver.SourceModeled, nil
}

// fromReal windows and re-keys stored history; monthly rows collapse into
// yearly means when yearly output is requested.
func (r *Reconstructor) fromReal(rows []store.HistoryPoint, g Granularity) []Point {
	now := r.clock()

	if g == Yearly {
		firstYear := now.Year() - YearlyWindow + 1
		sums := make(map[int]float64)
		counts := make(map[int]int)
		for _, row := range rows {
			y := row.Date.Year()
			if y < firstYear || y > now.Year() {
				continue
			}
			sums[y] += row.Value
			counts[y]++
		}

		years := make([]int, 0, len(sums))
		for y := range sums {
			years = append(years, y)
		}
		sort.Ints(years)

		points := make([]Point, 0, len(years))
		for _, y := range years {
			points = append(points, Point{
				Period: fmt.Sprintf("%d", y),
				Value:  round2(sums[y] / float64(counts[y])),
			})
		}
		return points
	}

	cutoff := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(MonthlyWindow - 1), 0)
	points := make([]Point, 0, len(rows))
	for _, row := range rows {
		if row.Date.Before(cutoff) {
			continue
		}
		points = append(points, Point{
			Period: row.Date.Format("2006-01"),
			Value:  round2(row.Value),
		})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Period < points[j].Period })
	return points
}

func (r *Reconstructor) syntheticYearly(layer catalog.LayerDefinition, zone zones.Zone) []Point {
	now := r.clock()
	current := synth.Value(layer, zone)

	points := make([]Point, YearlyWindow)
	for i := 0; i < YearlyWindow; i++ {
		year := now.Year() - YearlyWindow + 1 + i
		period := fmt.Sprintf("%d", year)

		v := current * r.trendMultiplier(layer, i)
		if i < YearlyWindow-1 {
			// Per-point noise keyed on the period; the current year stays
			// anchored exactly on the synthesized value.
			noise := (synth.Uniform(layer.ID, zone.Key, period) - 0.5) * 0.04
			v *= 1 + noise
		}
		points[i] = Point{Period: period, Value: roundForUnit(layer.Unit, v)}
	}
	return points
}

func (r *Reconstructor) syntheticMonthly(layer catalog.LayerDefinition, zone zones.Zone) []Point {
	now := r.clock()
	current := synth.Value(layer, zone)
	currentMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	points := make([]Point, MonthlyWindow)
	for i := 0; i < MonthlyWindow; i++ {
		month := currentMonth.AddDate(0, -(MonthlyWindow - 1 - i), 0)
		period := month.Format("2006-01")

		// Fractional position inside the yearly anchor scale.
		yearsBack := float64(now.Year()-month.Year()) + float64(now.Month()-month.Month())/12
		anchorPos := float64(YearlyWindow-1) - yearsBack

		v := current * r.interpolatedMultiplier(layer, anchorPos)
		v *= 1 + seasonalAmplitude*math.Sin(2*math.Pi*float64(int(month.Month())-3)/12)
		if i < MonthlyWindow-1 {
			noise := (synth.Uniform(layer.ID, zone.Key, period) - 0.5) * 0.02
			v *= 1 + noise
		}
		points[i] = Point{Period: period, Value: roundForUnit(layer.Unit, v)}
	}
	return points
}

// trendMultiplier returns the anchor multiplier for a yearly index
// (0 = oldest, YearlyWindow-1 = current year).
func (r *Reconstructor) trendMultiplier(layer catalog.LayerDefinition, idx int) float64 {
	yearsBack := YearlyWindow - 1 - idx
	switch {
	case isHomeValueFamily(layer):
		return yearAnchors[idx]
	case layer.Unit == catalog.UnitCurrency:
		return math.Pow(1+linearAnnualGrowth, -float64(yearsBack))
	default:
		// Small multiplicative drift away from the present.
		return 1 - 0.012*float64(yearsBack)
	}
}

// interpolatedMultiplier linearly interpolates between yearly anchors for a
// fractional position on the anchor scale.
func (r *Reconstructor) interpolatedMultiplier(layer catalog.LayerDefinition, pos float64) float64 {
	if pos <= 0 {
		return r.trendMultiplier(layer, 0)
	}
	if pos >= float64(YearlyWindow-1) {
		return r.trendMultiplier(layer, YearlyWindow-1)
	}
	lo := int(math.Floor(pos))
	hi := lo + 1
	frac := pos - float64(lo)
	return r.trendMultiplier(layer, lo)*(1-frac) + r.trendMultiplier(layer, hi)*frac
}

// isHomeValueFamily matches the layers whose history follows the boom/bust
// cycle rather than a flat trend.
func isHomeValueFamily(layer catalog.LayerDefinition) bool {
	if layer.Unit != catalog.UnitCurrency {
		return false
	}
	for _, marker := range []string{"home_value", "condo", "per_sqft"} {
		if strings.Contains(layer.ID, marker) {
			return true
		}
	}
	return false
}

func roundForUnit(unit catalog.Unit, v float64) float64 {
	switch unit {
	case catalog.UnitCurrency:
		return math.Round(v)
	case catalog.UnitCount, catalog.UnitDays:
		return math.Round(v)
	default:
		return round2(v)
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
