package catalog

import (
	"errors"
	"fmt"
)

// ErrUnknownLayer is returned when a layer id is not in the catalog.
// Handlers map it to a 404; it must never be silently substituted.
var ErrUnknownLayer = errors.New("unknown layer")

// SourceKind identifies the upstream family a layer's real data comes from.
// Each kind maps to exactly one backing table in the data store.
type SourceKind string

const (
	SourceExternalIndex SourceKind = "external-index"
	SourceExternalSurvey SourceKind = "external-survey"
	SourceSaleRecord    SourceKind = "external-sale-record"
	SourceDerived       SourceKind = "derived"
)

// Unit determines both value formatting and the shape of synthetic generation.
type Unit string

const (
	UnitCurrency    Unit = "currency"
	UnitPercent     Unit = "percent"
	UnitCount       Unit = "count"
	UnitDays        Unit = "days"
	UnitScore       Unit = "score"
	UnitRatio       Unit = "ratio"
	UnitTemperature Unit = "temperature"
)

// Backing table per source kind. Derived layers have no backing table and
// always resolve synthetically.
const (
	TableMarketIndex = "market_index_data"
	TableCensus      = "census_survey_data"
	TableSaleRecords = "sale_records"
)

// LayerDefinition describes one named statistical quantity trackable per zone.
// Definitions are immutable and built once at package init.
type LayerDefinition struct {
	ID          string
	Label       string
	Description string
	Source      SourceKind
	Unit        Unit

	// Store mapping. Never exposed through the API.
	Table      string
	Column     string
	DateColumn string
}

// HasBackingTable reports whether real data can exist for this layer.
func (d LayerDefinition) HasBackingTable() bool {
	return d.Table != ""
}

// Category groups layers for presentation. Grouping does not affect resolution.
type Category struct {
	ID     string
	Label  string
	Layers []LayerDefinition
}

// index builds store mapping for an external-index layer.
func index(id, label, desc string, unit Unit, column string) LayerDefinition {
	return LayerDefinition{
		ID: id, Label: label, Description: desc,
		Source: SourceExternalIndex, Unit: unit,
		Table: TableMarketIndex, Column: column, DateColumn: "recorded_at",
	}
}

// survey builds store mapping for an external-survey layer.
func survey(id, label, desc string, unit Unit, column string) LayerDefinition {
	return LayerDefinition{
		ID: id, Label: label, Description: desc,
		Source: SourceExternalSurvey, Unit: unit,
		Table: TableCensus, Column: column, DateColumn: "survey_year",
	}
}

// sale builds store mapping for an external-sale-record layer.
func sale(id, label, desc string, unit Unit, column string) LayerDefinition {
	return LayerDefinition{
		ID: id, Label: label, Description: desc,
		Source: SourceSaleRecord, Unit: unit,
		Table: TableSaleRecords, Column: column, DateColumn: "sale_month",
	}
}

// derived builds a layer with no backing table.
func derived(id, label, desc string, unit Unit) LayerDefinition {
	return LayerDefinition{
		ID: id, Label: label, Description: desc,
		Source: SourceDerived, Unit: unit,
	}
}

// categories is the full catalog, ordered for presentation.
var categories = []Category{
	{
		ID:    "market_value",
		Label: "Market Value",
		Layers: []LayerDefinition{
			index("home_value", "Median Home Value", "Median value of single-family homes in the zone", UnitCurrency, "median_home_value"),
			index("condo_value", "Median Condo Value", "Median value of condos and townhomes", UnitCurrency, "median_condo_value"),
			index("price_per_sqft", "Price per Sq Ft", "Median sale price per square foot", UnitCurrency, "price_per_sqft"),
			index("home_value_yoy", "1-Year Value Growth", "Year-over-year change in median home value", UnitPercent, "value_yoy_pct"),
			index("home_value_5y", "5-Year Value Growth", "Five-year change in median home value", UnitPercent, "value_5y_pct"),
			index("home_value_mom", "Monthly Value Change", "Month-over-month change in median home value", UnitPercent, "value_mom_pct"),
			index("home_value_forecast", "12-Month Forecast", "Projected value change over the next twelve months", UnitPercent, "value_forecast_pct"),
			derived("overvaluation_pct", "Overvaluation", "Estimated premium over fundamentals-implied value", UnitPercent),
			derived("peak_comparison", "vs. Prior Peak", "Current value relative to the prior market peak", UnitPercent),
			derived("crash_comparison", "vs. Prior Trough", "Current value relative to the prior market trough", UnitPercent),
		},
	},
	{
		ID:    "affordability",
		Label: "Affordability",
		Layers: []LayerDefinition{
			derived("salary_to_afford", "Salary to Afford", "Household income needed to buy the median home", UnitCurrency),
			derived("mortgage_payment", "Monthly Mortgage", "Estimated monthly payment on the median home", UnitCurrency),
			survey("property_tax", "Annual Property Tax", "Median annual property tax bill", UnitCurrency, "median_property_tax"),
			derived("home_insurance", "Annual Insurance", "Estimated annual homeowner insurance premium", UnitCurrency),
			survey("tax_rate", "Effective Tax Rate", "Effective property tax rate", UnitPercent, "effective_tax_rate"),
			derived("value_to_income_ratio", "Value-to-Income Ratio", "Median home value divided by median household income", UnitRatio),
		},
	},
	{
		ID:    "market_activity",
		Label: "Market Activity",
		Layers: []LayerDefinition{
			sale("days_on_market", "Days on Market", "Median days from listing to pending sale", UnitDays, "median_days_on_market"),
			sale("inventory_level", "Active Inventory", "Homes actively listed for sale", UnitCount, "active_listings"),
			sale("new_listings", "New Listings", "Homes newly listed in the latest month", UnitCount, "new_listings"),
			sale("homes_sold", "Homes Sold", "Closed sales in the latest month", UnitCount, "homes_sold"),
			sale("sale_to_list_ratio", "Sale-to-List Ratio", "Median sale price as a share of list price", UnitPercent, "sale_to_list_pct"),
			sale("price_drop_rate", "Listings with Price Drops", "Share of active listings with a price cut", UnitPercent, "price_drop_pct"),
			sale("months_supply", "Months of Supply", "Months needed to sell current inventory at the current pace", UnitRatio, "months_supply"),
		},
	},
	{
		ID:    "rental",
		Label: "Rental & Investment",
		Layers: []LayerDefinition{
			index("rent_price", "Median Rent", "Median asking rent for all home types", UnitCurrency, "median_rent"),
			index("rent_yoy", "Rent Growth", "Year-over-year change in median rent", UnitPercent, "rent_yoy_pct"),
			derived("gross_rent_yield", "Gross Rent Yield", "Annual rent as a share of home value", UnitPercent),
			derived("cap_rate", "Cap Rate", "Estimated capitalization rate on rental property", UnitPercent),
			survey("vacancy_rate", "Vacancy Rate", "Share of rental units vacant", UnitPercent, "rental_vacancy_pct"),
			sale("investor_share", "Investor Purchase Share", "Share of purchases made by investors", UnitPercent, "investor_share_pct"),
			sale("flip_rate", "Flip Rate", "Share of sales resold within twelve months", UnitPercent, "flip_rate_pct"),
		},
	},
	{
		ID:    "demographics",
		Label: "Demographics",
		Layers: []LayerDefinition{
			survey("population", "Population", "Resident population of the zone", UnitCount, "population"),
			survey("population_growth", "Population Growth", "Annual population growth rate", UnitPercent, "population_growth_pct"),
			survey("median_income", "Median Household Income", "Median annual household income", UnitCurrency, "median_household_income"),
			survey("income_growth", "Income Growth", "Annual growth in median household income", UnitPercent, "income_growth_pct"),
			survey("median_age", "Median Age", "Median age of residents", UnitCount, "median_age"),
			survey("households", "Households", "Occupied housing units", UnitCount, "households"),
			survey("housing_units", "Housing Units", "Total housing units, occupied or not", UnitCount, "housing_units"),
			survey("pct_renters", "Renter Share", "Share of households that rent", UnitPercent, "renter_pct"),
			survey("pct_owners", "Owner Share", "Share of households that own", UnitPercent, "owner_pct"),
			survey("pct_college", "College Educated", "Share of adults with a bachelor's degree or higher", UnitPercent, "college_pct"),
			survey("unemployment_rate", "Unemployment", "Unemployment rate among the labor force", UnitPercent, "unemployment_pct"),
		},
	},
	{
		ID:    "scores",
		Label: "Quality & Risk Scores",
		Layers: []LayerDefinition{
			derived("school_score", "School Score", "Composite public school quality, 0-100", UnitScore),
			derived("crime_score", "Safety Score", "Composite safety rating, 0-100, higher is safer", UnitScore),
			derived("walkability_score", "Walkability", "Walkability rating, 0-100", UnitScore),
			derived("climate_risk_score", "Climate Resilience", "Resilience to climate hazards, 0-100", UnitScore),
		},
	},
	{
		ID:    "climate",
		Label: "Climate",
		Layers: []LayerDefinition{
			derived("avg_temperature", "Average Temperature", "Annual average temperature", UnitTemperature),
			derived("summer_high", "Summer High", "Average July daily high", UnitTemperature),
			derived("winter_low", "Winter Low", "Average January daily low", UnitTemperature),
		},
	},
}

// byID is the addressing index used by every other component.
var byID = func() map[string]LayerDefinition {
	m := make(map[string]LayerDefinition)
	for _, c := range categories {
		for _, l := range c.Layers {
			if _, dup := m[l.ID]; dup {
				panic(fmt.Sprintf("catalog: duplicate layer id %q", l.ID))
			}
			m[l.ID] = l
		}
	}
	return m
}()

// Categories returns the ordered catalog. The returned slices are shared;
// callers must not mutate them.
func Categories() []Category {
	return categories
}

// Layer looks up a definition by id. Unknown ids return ErrUnknownLayer.
func Layer(id string) (LayerDefinition, error) {
	def, ok := byID[id]
	if !ok {
		return LayerDefinition{}, fmt.Errorf("%w: %q", ErrUnknownLayer, id)
	}
	return def, nil
}

// Count returns the number of layer definitions in the catalog.
func Count() int {
	return len(byID)
}
