package system_healthcheck

import (
	"log/slog"

	"storefront/internal/datasource"
)

const (
	statusOK       = "ok"
	statusDegraded = "degraded"
)

type HealthReport struct {
	Status      string            `json:"status"`
	Datasources map[string]string `json:"datasources"`
	Cache       string            `json:"cache"`
}

type HealthcheckService struct {
	registry   *datasource.Registry
	cacheProbe func() error
	logger     *slog.Logger
}

func NewHealthcheckService(
	registry *datasource.Registry,
	cacheProbe func() error,
	logger *slog.Logger,
) *HealthcheckService {
	return &HealthcheckService{
		registry:   registry,
		cacheProbe: cacheProbe,
		logger:     logger,
	}
}

// RunHealthcheck probes every registered datasource and the cache.
// The second return value is false when any component is down.
func (s *HealthcheckService) RunHealthcheck() (*HealthReport, bool) {
	report := &HealthReport{
		Status:      statusOK,
		Datasources: map[string]string{},
		Cache:       statusOK,
	}
	healthy := true

	for _, name := range s.registry.Names() {
		if err := s.registry.Ping(name); err != nil {
			s.logger.Warn("healthcheck: datasource unreachable", "datasource", name, "error", err)
			report.Datasources[name] = err.Error()
			healthy = false
			continue
		}
		report.Datasources[name] = statusOK
	}

	if err := s.cacheProbe(); err != nil {
		s.logger.Warn("healthcheck: cache unreachable", "error", err)
		report.Cache = err.Error()
		healthy = false
	}

	if !healthy {
		report.Status = statusDegraded
	}

	return report, healthy
}
