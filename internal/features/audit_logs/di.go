package audit_logs

import (
	"storefront/internal/datasource"
	"storefront/internal/filter"
	"storefront/internal/repository"
	"storefront/internal/util/logger"
)

type Module struct {
	Service    *AuditLogService
	Controller *AuditLogController
}

func NewModule(registry *datasource.Registry, maxPageLimit int) (*Module, error) {
	auditLogRepository, err := repository.New[AuditLog](repository.EntityMeta{
		Table:      "audit_logs",
		PrimaryKey: []string{"id"},
	}, registry)
	if err != nil {
		return nil, err
	}

	service := NewAuditLogService(auditLogRepository, filter.NewParser(maxPageLimit), logger.GetLogger())

	return &Module{
		Service:    service,
		Controller: NewAuditLogController(service),
	}, nil
}
