package products

import (
	"storefront/internal/datasource"
	"storefront/internal/features/audit_logs"
	"storefront/internal/filter"
	"storefront/internal/repository"
	cache_utils "storefront/internal/util/cache"
	"storefront/internal/util/logger"

	"github.com/valkey-io/valkey-go"
)

type Module struct {
	Service    *ProductService
	Controller *ProductController
}

func NewModule(
	registry *datasource.Registry,
	cacheClient valkey.Client,
	auditLogs *audit_logs.AuditLogService,
	maxPageLimit int,
) (*Module, error) {
	productRepository, err := repository.New[Product](repository.EntityMeta{
		Table:      "products",
		PrimaryKey: []string{"id"},
	}, registry)
	if err != nil {
		return nil, err
	}

	service := NewProductService(
		productRepository,
		filter.NewParser(maxPageLimit),
		cache_utils.NewCacheUtil[Product](cacheClient, "products"),
		auditLogs,
		logger.GetLogger(),
	)

	return &Module{
		Service:    service,
		Controller: NewProductController(service),
	}, nil
}
