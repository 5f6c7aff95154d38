package categories

import (
	"storefront/internal/datasource"
	"storefront/internal/features/audit_logs"
	"storefront/internal/filter"
	"storefront/internal/repository"
)

type Module struct {
	Service    *CategoryService
	Controller *CategoryController
}

func NewModule(
	registry *datasource.Registry,
	auditLogs *audit_logs.AuditLogService,
	maxPageLimit int,
) (*Module, error) {
	categoryRepository, err := repository.New[Category](repository.EntityMeta{
		Table:      "categories",
		PrimaryKey: []string{"id"},
	}, registry)
	if err != nil {
		return nil, err
	}

	service := NewCategoryService(categoryRepository, filter.NewParser(maxPageLimit), auditLogs)

	return &Module{
		Service:    service,
		Controller: NewCategoryController(service),
	}, nil
}
