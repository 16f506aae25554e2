// Package synth fabricates plausible per-zone values for layers that have no
// real data behind them. Generation is a pure function of (layer id, zone):
// primitives (home value, income, population) are seeded from zone baselines,
// and dependent metrics are computed analytically from the primitives so a
// synthetic zone stays internally consistent. The salary needed to afford a
// home tracks that zone's home value, not an independent draw.
package synth

import (
	"math"
	"strings"

	"pulse/internal/catalog"
	"pulse/internal/zones"
)

// Mortgage assumptions behind the derived affordability metrics.
const (
	mortgageRate     = 0.065 // 30-year fixed nominal
	mortgageTermMo   = 360
	loanToValue      = 0.80
	frontEndRatio    = 0.28 // payment share of gross income lenders allow
	effectiveTaxRate = 0.022
	insuranceRate    = 0.005
)

// Generic bands for zones without baselines.
const (
	homeValueFloor = 280_000
	homeValueCeil  = 600_000
	incomeFloor    = 48_000
	incomeCeil     = 95_000
	popFloor       = 8_000
	popCeil        = 55_000
)

// Value synthesizes a deterministic, plausible value for (layer, zone).
func Value(layer catalog.LayerDefinition, zone zones.Zone) float64 {
	switch layer.Unit {
	case catalog.UnitCurrency:
		return currencyValue(layer.ID, zone)
	case catalog.UnitPercent:
		return percentValue(layer.ID, zone)
	case catalog.UnitDays:
		return math.Round(draw(layer.ID, zone).inRange(12, 75))
	case catalog.UnitCount:
		return countValue(layer.ID, zone)
	case catalog.UnitScore:
		// Mid-to-upper band: most areas rate average to good.
		return math.Round(draw(layer.ID, zone).inRange(55, 90))
	case catalog.UnitRatio:
		return ratioValue(layer.ID, zone)
	case catalog.UnitTemperature:
		return temperatureValue(layer.ID, zone)
	default:
		return round2(draw(layer.ID, zone).inRange(0, 100))
	}
}

// draw opens the seeded stream for a (layer, zone) pair.
func draw(layerID string, zone zones.Zone) *source {
	return newSource(layerID, zone.Key)
}

// HomeValue is the primitive every home-value-family metric derives from.
// Baseline zones jitter ±6% around their baseline so premium zones stay
// premium; zones without baselines draw from a generic band.
func HomeValue(zone zones.Zone) float64 {
	s := newSource("home_value", zone.Key)
	if zone.BaselineHomeValue > 0 {
		return roundTo(zone.BaselineHomeValue*s.inRange(0.94, 1.06), 100)
	}
	return roundTo(s.inRange(homeValueFloor, homeValueCeil), 100)
}

// Income is the household-income primitive.
func Income(zone zones.Zone) float64 {
	s := newSource("median_income", zone.Key)
	if zone.BaselineIncome > 0 {
		return roundTo(zone.BaselineIncome*s.inRange(0.95, 1.05), 100)
	}
	return roundTo(s.inRange(incomeFloor, incomeCeil), 100)
}

// Population is the population primitive.
func Population(zone zones.Zone) float64 {
	s := newSource("population", zone.Key)
	if zone.BaselinePopulation > 0 {
		return math.Round(zone.BaselinePopulation * s.inRange(0.97, 1.03))
	}
	return math.Round(s.inRange(popFloor, popCeil))
}

// MortgagePayment amortizes a loan on the zone's home value.
func MortgagePayment(zone zones.Zone) float64 {
	principal := HomeValue(zone) * loanToValue
	i := mortgageRate / 12
	payment := principal * i / (1 - math.Pow(1+i, -mortgageTermMo))
	return math.Round(payment)
}

// MonthlyRent estimates asking rent off the home-value primitive.
func MonthlyRent(zone zones.Zone) float64 {
	s := newSource("rent_price", zone.Key)
	return math.Round(HomeValue(zone) * s.inRange(0.0040, 0.0060))
}

func currencyValue(layerID string, zone zones.Zone) float64 {
	s := draw(layerID, zone)
	switch {
	case strings.Contains(layerID, "condo"):
		return roundTo(HomeValue(zone)*s.inRange(0.70, 0.85), 100)
	case strings.Contains(layerID, "per_sqft"):
		return math.Round(HomeValue(zone) / s.inRange(1600, 2800))
	case strings.Contains(layerID, "salary_to_afford"):
		return roundTo(MortgagePayment(zone)*12/frontEndRatio, 100)
	case strings.Contains(layerID, "mortgage"):
		return MortgagePayment(zone)
	case strings.Contains(layerID, "tax"):
		return math.Round(HomeValue(zone) * effectiveTaxRate)
	case strings.Contains(layerID, "insurance"):
		return math.Round(HomeValue(zone) * insuranceRate)
	case strings.Contains(layerID, "rent"):
		return MonthlyRent(zone)
	case strings.Contains(layerID, "income"):
		return Income(zone)
	case strings.Contains(layerID, "home_value"):
		return HomeValue(zone)
	default:
		return roundTo(s.inRange(homeValueFloor, homeValueCeil), 100)
	}
}

func percentValue(layerID string, zone zones.Zone) float64 {
	s := draw(layerID, zone)
	switch {
	case strings.Contains(layerID, "forecast"):
		return round1(s.inRange(-2, 6))
	case strings.Contains(layerID, "rent_yoy"):
		return round1(s.inRange(1, 7))
	case strings.Contains(layerID, "5y"):
		return round1(s.inRange(18, 55))
	case strings.Contains(layerID, "mom"):
		return round1(s.inRange(-0.8, 1.2))
	case strings.Contains(layerID, "yoy"):
		return round1(s.inRange(2, 9))
	case strings.Contains(layerID, "overvaluation"):
		return round1(s.inRange(-5, 25))
	case strings.Contains(layerID, "peak"):
		return round1(s.inRange(-12, 10))
	case strings.Contains(layerID, "crash"):
		return round1(s.inRange(25, 80))
	case strings.Contains(layerID, "gross_rent_yield"):
		return round1(MonthlyRent(zone) * 12 / HomeValue(zone) * 100)
	case strings.Contains(layerID, "cap_rate"):
		// Net yield trails gross after operating costs.
		gross := MonthlyRent(zone) * 12 / HomeValue(zone) * 100
		return round1(gross * s.inRange(0.55, 0.75))
	case strings.Contains(layerID, "tax_rate"):
		return round1(s.inRange(1.8, 2.6))
	case strings.Contains(layerID, "sale_to_list"):
		return round1(s.inRange(95, 101))
	case strings.Contains(layerID, "price_drop"):
		return round1(s.inRange(8, 30))
	case strings.Contains(layerID, "vacancy"):
		return round1(s.inRange(3, 10))
	case strings.Contains(layerID, "investor"):
		return round1(s.inRange(8, 25))
	case strings.Contains(layerID, "flip"):
		return round1(s.inRange(2, 9))
	case strings.Contains(layerID, "owners"):
		// Owner and renter shares must sum to 100 for the same zone.
		return round1(100 - percentValue("pct_renters", zone))
	case strings.Contains(layerID, "renters"):
		return round1(s.inRange(20, 55))
	case strings.Contains(layerID, "college"):
		return round1(s.inRange(20, 60))
	case strings.Contains(layerID, "unemployment"):
		return round1(s.inRange(2.5, 6.5))
	case strings.Contains(layerID, "population_growth"):
		return round1(s.inRange(0, 4))
	case strings.Contains(layerID, "income_growth"):
		return round1(s.inRange(1, 5))
	default:
		return round1(s.inRange(0, 10))
	}
}

func countValue(layerID string, zone zones.Zone) float64 {
	s := draw(layerID, zone)
	pop := Population(zone)
	switch {
	case strings.Contains(layerID, "population"):
		return pop
	case strings.Contains(layerID, "housing_units"):
		return math.Round(households(zone) * s.inRange(1.02, 1.10))
	case strings.Contains(layerID, "households"):
		return households(zone)
	case strings.Contains(layerID, "inventory"):
		return math.Round(pop * s.inRange(0.004, 0.012))
	case strings.Contains(layerID, "new_listings"):
		return math.Round(activeInventory(zone) * s.inRange(0.25, 0.50))
	case strings.Contains(layerID, "sold"):
		return math.Round(activeInventory(zone) * s.inRange(0.20, 0.45))
	case strings.Contains(layerID, "age"):
		return math.Round(s.inRange(28, 48))
	default:
		return math.Round(s.inRange(100, 2000))
	}
}

func households(zone zones.Zone) float64 {
	s := newSource("households", zone.Key)
	return math.Round(Population(zone) / s.inRange(2.4, 3.2))
}

func activeInventory(zone zones.Zone) float64 {
	s := newSource("inventory_level", zone.Key)
	return math.Round(Population(zone) * s.inRange(0.004, 0.012))
}

func ratioValue(layerID string, zone zones.Zone) float64 {
	s := draw(layerID, zone)
	switch {
	case strings.Contains(layerID, "value_to_income"):
		// Analytic, so affordability reconciles with the two primitives.
		return round1(HomeValue(zone) / Income(zone))
	case strings.Contains(layerID, "months_supply"):
		return round1(s.inRange(1.5, 5.5))
	default:
		return round1(s.inRange(0.5, 5))
	}
}

func temperatureValue(layerID string, zone zones.Zone) float64 {
	s := draw(layerID, zone)
	switch {
	case strings.Contains(layerID, "summer"):
		return math.Round(s.inRange(94, 99))
	case strings.Contains(layerID, "winter"):
		return math.Round(s.inRange(34, 40))
	default:
		return math.Round(s.inRange(64, 68))
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func roundTo(v, step float64) float64 {
	return math.Round(v/step) * step
}
