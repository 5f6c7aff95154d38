package audit_logs

import (
	"log/slog"
	"net/url"
	"time"

	"storefront/internal/filter"
	"storefront/internal/repository"

	"github.com/google/uuid"
)

type AuditLogService struct {
	auditLogs *repository.Repository[AuditLog]
	parser    *filter.Parser
	logger    *slog.Logger
}

func NewAuditLogService(
	auditLogs *repository.Repository[AuditLog],
	parser *filter.Parser,
	logger *slog.Logger,
) *AuditLogService {
	return &AuditLogService{
		auditLogs: auditLogs,
		parser:    parser,
		logger:    logger,
	}
}

// WriteEntityAudit records a mutation. Failures are logged and
// swallowed: the audit trail must never fail the operation it records.
func (s *AuditLogService) WriteEntityAudit(actorID *uuid.UUID, entity, entityKey, action string) {
	auditLog := &AuditLog{
		ID:        uuid.New(),
		ActorID:   actorID,
		Entity:    entity,
		EntityKey: entityKey,
		Action:    action,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.auditLogs.CreateOne(auditLog); err != nil {
		s.logger.Error("failed to create audit log",
			"entity", entity, "entityKey", entityKey, "action", action, "error", err)
	}
}

func (s *AuditLogService) ListAuditLogs(values url.Values) (*repository.PaginatedResult[AuditLog], error) {
	node, sorts, pagination := s.parser.Parse(values)
	return s.auditLogs.FindAll(node, sorts, pagination)
}
