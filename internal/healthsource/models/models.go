package models

import (
	"sort"

	dErrors "companion/pkg/domain-errors"
)

// HealthSource is a health data provider the user can connect.
type HealthSource struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	DiagnosticsName string `json:"diagnostics_name"`
}

var catalog = map[string]HealthSource{
	"apple_health":   {ID: "apple_health", Name: "Apple Health", DiagnosticsName: "HealthKit"},
	"fitbit":         {ID: "fitbit", Name: "Fitbit", DiagnosticsName: "Fitbit"},
	"garmin":         {ID: "garmin", Name: "Garmin Connect", DiagnosticsName: "Garmin"},
	"google_fit":     {ID: "google_fit", Name: "Google Fit", DiagnosticsName: "GoogleFit"},
	"health_connect": {ID: "health_connect", Name: "Health Connect", DiagnosticsName: "HealthConnect"},
}

// Lookup returns the catalog entry for id.
func Lookup(id string) (HealthSource, error) {
	hs, ok := catalog[id]
	if !ok {
		return HealthSource{}, dErrors.New(dErrors.CodeValidation, "unknown health source: "+id)
	}
	return hs, nil
}

// Catalog lists every supported source ordered by ID.
func Catalog() []HealthSource {
	out := make([]HealthSource, 0, len(catalog))
	for _, hs := range catalog {
		out = append(out, hs)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
