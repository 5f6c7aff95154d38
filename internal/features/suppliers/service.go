package suppliers

import (
	"net/url"
	"time"

	"storefront/internal/features/audit_logs"
	"storefront/internal/filter"
	"storefront/internal/repository"

	"github.com/google/uuid"
)

type SupplierService struct {
	suppliers *repository.Repository[Supplier]
	parser    *filter.Parser
	auditLogs *audit_logs.AuditLogService
}

func NewSupplierService(
	suppliers *repository.Repository[Supplier],
	parser *filter.Parser,
	auditLogs *audit_logs.AuditLogService,
) *SupplierService {
	return &SupplierService{
		suppliers: suppliers,
		parser:    parser,
		auditLogs: auditLogs,
	}
}

func (s *SupplierService) ListSuppliers(values url.Values) (*repository.PaginatedResult[Supplier], error) {
	node, sorts, pagination := s.parser.Parse(values)
	return s.suppliers.FindAll(node, sorts, pagination)
}

func (s *SupplierService) GetSupplier(id uuid.UUID) (*Supplier, error) {
	supplier, err := s.suppliers.FindByID(id)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, repository.NewNotFoundError("supplier not found")
	}
	return supplier, nil
}

func (s *SupplierService) CreateSupplier(request *CreateSupplierRequestDTO, actorID *uuid.UUID) (*Supplier, error) {
	active := true
	if request.Active != nil {
		active = *request.Active
	}

	supplier := &Supplier{
		ID:        uuid.New(),
		Name:      request.Name,
		Email:     request.Email,
		Country:   request.Country,
		Active:    active,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.suppliers.CreateOne(supplier); err != nil {
		return nil, err
	}

	s.auditLogs.WriteEntityAudit(actorID, "suppliers", supplier.ID.String(), "create")

	return supplier, nil
}

func (s *SupplierService) UpdateSupplier(
	id uuid.UUID,
	request *UpdateSupplierRequestDTO,
	actorID *uuid.UUID,
) (*Supplier, error) {
	patch := map[string]any{}

	if request.Name != nil {
		patch["name"] = *request.Name
	}
	if request.Email != nil {
		patch["email"] = *request.Email
	}
	if request.Country != nil {
		patch["country"] = *request.Country
	}
	if request.Active != nil {
		patch["active"] = *request.Active
	}

	if len(patch) == 0 {
		return nil, repository.NewValidationError("no fields to update")
	}

	supplier, err := s.suppliers.UpdateByID(id, patch)
	if err != nil {
		return nil, err
	}

	s.auditLogs.WriteEntityAudit(actorID, "suppliers", id.String(), "update")

	return supplier, nil
}

func (s *SupplierService) DeleteSupplier(id uuid.UUID, actorID *uuid.UUID) error {
	deleted, err := s.suppliers.DeleteByID(id)
	if err != nil {
		return err
	}
	if !deleted {
		return repository.NewNotFoundError("supplier not found")
	}

	s.auditLogs.WriteEntityAudit(actorID, "suppliers", id.String(), "delete")

	return nil
}
