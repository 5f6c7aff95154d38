package suppliers

import (
	"storefront/internal/datasource"
	"storefront/internal/features/audit_logs"
	"storefront/internal/filter"
	"storefront/internal/repository"
)

type Module struct {
	Service    *SupplierService
	Controller *SupplierController
}

func NewModule(
	registry *datasource.Registry,
	auditLogs *audit_logs.AuditLogService,
	maxPageLimit int,
) (*Module, error) {
	supplierRepository, err := repository.New[Supplier](repository.EntityMeta{
		Table:      "suppliers",
		PrimaryKey: []string{"id"},
	}, registry)
	if err != nil {
		return nil, err
	}

	service := NewSupplierService(supplierRepository, filter.NewParser(maxPageLimit), auditLogs)

	return &Module{
		Service:    service,
		Controller: NewSupplierController(service),
	}, nil
}
