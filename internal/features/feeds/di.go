package feeds

import (
	"storefront/internal/datasource"
	"storefront/internal/features/audit_logs"
	"storefront/internal/filter"
	"storefront/internal/repository"
)

type Module struct {
	Service    *FeedService
	Controller *FeedController
}

// NewModule wires the feed feature against the named datasource; an
// empty name targets the default one.
func NewModule(
	registry *datasource.Registry,
	datasourceName string,
	auditLogs *audit_logs.AuditLogService,
	maxPageLimit int,
) (*Module, error) {
	feedRepository, err := repository.New[Feed](repository.EntityMeta{
		Datasource: datasourceName,
		Table:      "feeds",
		PrimaryKey: []string{"supplier_id", "code"},
	}, registry)
	if err != nil {
		return nil, err
	}

	service := NewFeedService(feedRepository, filter.NewParser(maxPageLimit), auditLogs)

	return &Module{
		Service:    service,
		Controller: NewFeedController(service),
	}, nil
}
