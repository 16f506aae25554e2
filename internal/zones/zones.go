// Package zones holds the static reference data for the geographic zones the
// engine knows about. Baseline attributes seed realistic synthetic values;
// zones without baselines fall back to generic bands in the generator.
package zones

import "strings"

// Zone is a postal-code-keyed geographic unit with optional market baselines.
// A zero baseline means "unknown", not "zero".
type Zone struct {
	Key    string `json:"zone"`
	City   string `json:"city"`
	County string `json:"county"`

	BaselineHomeValue  float64 `json:"-"`
	BaselineIncome     float64 `json:"-"`
	BaselinePopulation float64 `json:"-"`
}

// HasBaselines reports whether the zone carries seeded market attributes.
func (z Zone) HasBaselines() bool {
	return z.BaselineHomeValue > 0 && z.BaselineIncome > 0 && z.BaselinePopulation > 0
}

// all is the reference table, loaded once and never mutated.
// Dallas-Fort Worth metro, ordered by key.
var all = []Zone{
	{Key: "75034", City: "Frisco", County: "Collin", BaselineHomeValue: 620000, BaselineIncome: 128000, BaselinePopulation: 72000},
	{Key: "75070", City: "McKinney", County: "Collin", BaselineHomeValue: 455000, BaselineIncome: 104000, BaselinePopulation: 81000},
	{Key: "75205", City: "University Park", County: "Dallas", BaselineHomeValue: 1580000, BaselineIncome: 212000, BaselinePopulation: 26000},
	{Key: "75217", City: "Dallas", County: "Dallas", BaselineHomeValue: 198000, BaselineIncome: 46000, BaselinePopulation: 86000},
	{Key: "75243", City: "Dallas", County: "Dallas", BaselineHomeValue: 325000, BaselineIncome: 62000, BaselinePopulation: 59000},
	{Key: "76010", City: "Arlington", County: "Tarrant", BaselineHomeValue: 238000, BaselineIncome: 52000, BaselinePopulation: 64000},
	{Key: "76028", City: "Burleson", County: "Johnson", BaselineHomeValue: 340000, BaselineIncome: 88000, BaselinePopulation: 47000},
	{Key: "76051", City: "Grapevine", County: "Tarrant", BaselineHomeValue: 520000, BaselineIncome: 118000, BaselinePopulation: 54000},
	{Key: "76052", City: "Haslet", County: "Tarrant"}, // fast-growing exurb, no survey baselines yet
	{Key: "76092", City: "Southlake", County: "Tarrant", BaselineHomeValue: 1150000, BaselineIncome: 240000, BaselinePopulation: 31000},
	{Key: "76102", City: "Fort Worth", County: "Tarrant", BaselineHomeValue: 385000, BaselineIncome: 78000, BaselinePopulation: 12000},
	{Key: "76106", City: "Fort Worth", County: "Tarrant", BaselineHomeValue: 215000, BaselineIncome: 48000, BaselinePopulation: 43000},
	{Key: "76107", City: "Fort Worth", County: "Tarrant", BaselineHomeValue: 430000, BaselineIncome: 82000, BaselinePopulation: 41000},
	{Key: "76137", City: "Fort Worth", County: "Tarrant", BaselineHomeValue: 295000, BaselineIncome: 74000, BaselinePopulation: 57000},
	{Key: "76226", City: "Argyle", County: "Denton"}, // no survey baselines yet
	{Key: "76248", City: "Keller", County: "Tarrant", BaselineHomeValue: 560000, BaselineIncome: 136000, BaselinePopulation: 48000},
}

// byKey is the lookup index.
var byKey = func() map[string]Zone {
	m := make(map[string]Zone, len(all))
	for _, z := range all {
		m[z.Key] = z
	}
	return m
}()

// All returns every known zone in key order. Callers must not mutate.
func All() []Zone {
	return all
}

// Get looks up a zone by its postal key.
func Get(key string) (Zone, bool) {
	z, ok := byKey[key]
	return z, ok
}

// InRegion returns the zones whose city or county matches region,
// case-insensitive. An empty region returns all zones.
func InRegion(region string) []Zone {
	if region == "" {
		return all
	}
	want := strings.ToLower(strings.TrimSpace(region))
	var out []Zone
	for _, z := range all {
		if strings.ToLower(z.City) == want || strings.ToLower(z.County) == want {
			out = append(out, z)
		}
	}
	return out
}

// Keys returns the postal keys for a zone slice.
func Keys(zs []Zone) []string {
	keys := make([]string, len(zs))
	for i, z := range zs {
		keys[i] = z.Key
	}
	return keys
}
