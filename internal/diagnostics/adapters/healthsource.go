package adapters

import (
	"companion/internal/diagnostics/ports"
	healthmodels "companion/internal/healthsource/models"
)

var _ ports.HealthSourcesRepository = (*HealthSources)(nil)

// HealthSourceReader is the part of the health source service diagnostics
// reads.
type HealthSourceReader interface {
	Current() (healthmodels.HealthSource, bool)
}

// HealthSources implements ports.HealthSourcesRepository.
type HealthSources struct {
	reader HealthSourceReader
}

func NewHealthSources(reader HealthSourceReader) *HealthSources {
	return &HealthSources{reader: reader}
}

func (h *HealthSources) HealthSource() (*ports.HealthSource, bool) {
	hs, ok := h.reader.Current()
	if !ok {
		return nil, false
	}
	return &ports.HealthSource{DiagnosticsName: hs.DiagnosticsName}, true
}
