package services

import "errors"

// Sentinel errors surfaced to the transport layer, which maps them to
// problem-details responses.
var (
	// ErrUnknownZone is returned for zone keys outside the reference table.
	ErrUnknownZone = errors.New("unknown zone")

	// ErrInvalidPeriod is returned for a timeseries period other than
	// monthly or yearly.
	ErrInvalidPeriod = errors.New("invalid period")

	// ErrEmptyRegion is returned when a region filter matches no zones.
	ErrEmptyRegion = errors.New("region matches no zones")
)
