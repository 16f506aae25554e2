// Package exporter handles the presentation edge of the engine: unit-aware
// value formatting, choropleth summary statistics, and CSV serialization of
// snapshots and time series.
package exporter
