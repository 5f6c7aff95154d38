package system_healthcheck

import (
	"storefront/internal/datasource"
	cache_utils "storefront/internal/util/cache"
	"storefront/internal/util/logger"
)

type Module struct {
	Service    *HealthcheckService
	Controller *HealthcheckController
}

func NewModule(registry *datasource.Registry) *Module {
	service := NewHealthcheckService(registry, cache_utils.TestCacheConnection, logger.GetLogger())

	return &Module{
		Service:    service,
		Controller: NewHealthcheckController(service),
	}
}
