package categories

import (
	"net/url"
	"time"

	"storefront/internal/features/audit_logs"
	"storefront/internal/filter"
	"storefront/internal/repository"

	"github.com/google/uuid"
)

type CategoryService struct {
	categories *repository.Repository[Category]
	parser     *filter.Parser
	auditLogs  *audit_logs.AuditLogService
}

func NewCategoryService(
	categories *repository.Repository[Category],
	parser *filter.Parser,
	auditLogs *audit_logs.AuditLogService,
) *CategoryService {
	return &CategoryService{
		categories: categories,
		parser:     parser,
		auditLogs:  auditLogs,
	}
}

func (s *CategoryService) ListCategories(values url.Values) (*repository.PaginatedResult[Category], error) {
	node, sorts, pagination := s.parser.Parse(values)
	return s.categories.FindAll(node, sorts, pagination)
}

func (s *CategoryService) GetCategory(id uuid.UUID) (*Category, error) {
	category, err := s.categories.FindByID(id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, repository.NewNotFoundError("category not found")
	}
	return category, nil
}

func (s *CategoryService) CreateCategory(request *CreateCategoryRequestDTO, actorID *uuid.UUID) (*Category, error) {
	category := &Category{
		ID:          uuid.New(),
		Name:        request.Name,
		Description: request.Description,
		ParentID:    request.ParentID,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.categories.CreateOne(category); err != nil {
		return nil, err
	}

	s.auditLogs.WriteEntityAudit(actorID, "categories", category.ID.String(), "create")

	return category, nil
}

func (s *CategoryService) UpdateCategory(
	id uuid.UUID,
	request *UpdateCategoryRequestDTO,
	actorID *uuid.UUID,
) (*Category, error) {
	patch := map[string]any{}

	if request.Name != nil {
		patch["name"] = *request.Name
	}
	if request.Description != nil {
		patch["description"] = *request.Description
	}
	if request.ParentID != nil {
		if *request.ParentID == id {
			return nil, repository.NewValidationError("category cannot be its own parent")
		}
		patch["parent_id"] = *request.ParentID
	}

	if len(patch) == 0 {
		return nil, repository.NewValidationError("no fields to update")
	}

	category, err := s.categories.UpdateByID(id, patch)
	if err != nil {
		return nil, err
	}

	s.auditLogs.WriteEntityAudit(actorID, "categories", id.String(), "update")

	return category, nil
}

func (s *CategoryService) DeleteCategory(id uuid.UUID, actorID *uuid.UUID) error {
	deleted, err := s.categories.DeleteByID(id)
	if err != nil {
		return err
	}
	if !deleted {
		return repository.NewNotFoundError("category not found")
	}

	s.auditLogs.WriteEntityAudit(actorID, "categories", id.String(), "delete")

	return nil
}
