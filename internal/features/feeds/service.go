package feeds

import (
	"fmt"
	"net/url"
	"time"

	"storefront/internal/features/audit_logs"
	"storefront/internal/filter"
	"storefront/internal/repository"

	"github.com/google/uuid"
)

type FeedService struct {
	feeds     *repository.Repository[Feed]
	parser    *filter.Parser
	auditLogs *audit_logs.AuditLogService
}

func NewFeedService(
	feeds *repository.Repository[Feed],
	parser *filter.Parser,
	auditLogs *audit_logs.AuditLogService,
) *FeedService {
	return &FeedService{
		feeds:     feeds,
		parser:    parser,
		auditLogs: auditLogs,
	}
}

func feedKey(supplierID uuid.UUID, code string) map[string]any {
	return map[string]any{
		"supplier_id": supplierID,
		"code":        code,
	}
}

func feedKeyString(supplierID uuid.UUID, code string) string {
	return fmt.Sprintf("%s/%s", supplierID, code)
}

func (s *FeedService) ListFeeds(values url.Values) (*repository.PaginatedResult[Feed], error) {
	node, sorts, pagination := s.parser.Parse(values)
	return s.feeds.FindAll(node, sorts, pagination)
}

func (s *FeedService) GetFeed(supplierID uuid.UUID, code string) (*Feed, error) {
	feed, err := s.feeds.FindByKey(feedKey(supplierID, code))
	if err != nil {
		return nil, err
	}
	if feed == nil {
		return nil, repository.NewNotFoundError("feed not found")
	}
	return feed, nil
}

func (s *FeedService) CreateFeed(request *CreateFeedRequestDTO, actorID *uuid.UUID) (*Feed, error) {
	active := true
	if request.Active != nil {
		active = *request.Active
	}

	feed := &Feed{
		SupplierID: request.SupplierID,
		Code:       request.Code,
		Title:      request.Title,
		URL:        request.URL,
		Format:     request.Format,
		Active:     active,
		CreatedAt:  time.Now().UTC(),
	}

	if err := s.feeds.CreateOne(feed); err != nil {
		return nil, err
	}

	s.auditLogs.WriteEntityAudit(actorID, "feeds", feedKeyString(feed.SupplierID, feed.Code), "create")

	return feed, nil
}

func (s *FeedService) UpdateFeed(
	supplierID uuid.UUID,
	code string,
	request *UpdateFeedRequestDTO,
	actorID *uuid.UUID,
) (*Feed, error) {
	patch := map[string]any{}

	if request.Title != nil {
		patch["title"] = *request.Title
	}
	if request.URL != nil {
		patch["url"] = *request.URL
	}
	if request.Format != nil {
		patch["format"] = *request.Format
	}
	if request.Active != nil {
		patch["active"] = *request.Active
	}

	if len(patch) == 0 {
		return nil, repository.NewValidationError("no fields to update")
	}

	feed, err := s.feeds.Update(feedKey(supplierID, code), patch)
	if err != nil {
		return nil, err
	}

	s.auditLogs.WriteEntityAudit(actorID, "feeds", feedKeyString(supplierID, code), "update")

	return feed, nil
}

func (s *FeedService) DeleteFeed(supplierID uuid.UUID, code string, actorID *uuid.UUID) error {
	deleted, err := s.feeds.Delete(feedKey(supplierID, code))
	if err != nil {
		return err
	}
	if !deleted {
		return repository.NewNotFoundError("feed not found")
	}

	s.auditLogs.WriteEntityAudit(actorID, "feeds", feedKeyString(supplierID, code), "delete")

	return nil
}
