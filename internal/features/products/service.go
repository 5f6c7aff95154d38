package products

import (
	"log/slog"
	"net/url"
	"time"

	"storefront/internal/features/audit_logs"
	"storefront/internal/filter"
	"storefront/internal/repository"
	cache_utils "storefront/internal/util/cache"

	"github.com/google/uuid"
)

type ProductService struct {
	products  *repository.Repository[Product]
	parser    *filter.Parser
	cache     *cache_utils.CacheUtil[Product]
	auditLogs *audit_logs.AuditLogService
	logger    *slog.Logger
}

func NewProductService(
	products *repository.Repository[Product],
	parser *filter.Parser,
	cache *cache_utils.CacheUtil[Product],
	auditLogs *audit_logs.AuditLogService,
	logger *slog.Logger,
) *ProductService {
	return &ProductService{
		products:  products,
		parser:    parser,
		cache:     cache,
		auditLogs: auditLogs,
		logger:    logger,
	}
}

func (s *ProductService) ListProducts(values url.Values) (*repository.PaginatedResult[Product], error) {
	node, sorts, pagination := s.parser.Parse(values)
	return s.products.FindAll(node, sorts, pagination)
}

// GetProduct reads through the cache: a miss loads from the store and
// populates the cache for subsequent reads.
func (s *ProductService) GetProduct(id uuid.UUID) (*Product, error) {
	if cached := s.cache.Get(id.String()); cached != nil {
		return cached, nil
	}

	product, err := s.products.FindByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, repository.NewNotFoundError("product not found")
	}

	s.cache.Set(id.String(), product)

	return product, nil
}

func (s *ProductService) CreateProduct(request *CreateProductRequestDTO, actorID *uuid.UUID) (*Product, error) {
	now := time.Now().UTC()

	product := &Product{
		ID:          uuid.New(),
		Name:        request.Name,
		Description: request.Description,
		Price:       request.Price,
		Stock:       request.Stock,
		CategoryID:  request.CategoryID,
		SupplierID:  request.SupplierID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.products.CreateOne(product); err != nil {
		return nil, err
	}

	s.auditLogs.WriteEntityAudit(actorID, "products", product.ID.String(), "create")

	return product, nil
}

func (s *ProductService) UpdateProduct(
	id uuid.UUID,
	request *UpdateProductRequestDTO,
	actorID *uuid.UUID,
) (*Product, error) {
	patch := map[string]any{}

	if request.Name != nil {
		patch["name"] = *request.Name
	}
	if request.Description != nil {
		patch["description"] = *request.Description
	}
	if request.Price != nil {
		if *request.Price < 0 {
			return nil, repository.NewValidationError("price cannot be negative")
		}
		patch["price"] = *request.Price
	}
	if request.Stock != nil {
		if *request.Stock < 0 {
			return nil, repository.NewValidationError("stock cannot be negative")
		}
		patch["stock"] = *request.Stock
	}
	if request.CategoryID != nil {
		patch["category_id"] = *request.CategoryID
	}
	if request.SupplierID != nil {
		patch["supplier_id"] = *request.SupplierID
	}

	if len(patch) == 0 {
		return nil, repository.NewValidationError("no fields to update")
	}
	patch["updated_at"] = time.Now().UTC()

	product, err := s.products.UpdateByID(id, patch)
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(id.String())
	s.auditLogs.WriteEntityAudit(actorID, "products", id.String(), "update")

	return product, nil
}

func (s *ProductService) DeleteProduct(id uuid.UUID, actorID *uuid.UUID) error {
	deleted, err := s.products.DeleteByID(id)
	if err != nil {
		return err
	}
	if !deleted {
		return repository.NewNotFoundError("product not found")
	}

	s.cache.Invalidate(id.String())
	s.auditLogs.WriteEntityAudit(actorID, "products", id.String(), "delete")

	return nil
}
