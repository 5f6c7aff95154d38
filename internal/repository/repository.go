package repository

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"storefront/internal/datasource"
	"storefront/internal/filter"
	"storefront/internal/query"
	"storefront/internal/util/logger"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// EntityMeta declares, at registration time, everything the generic
// repository needs to know about an entity: where it lives, how it is
// keyed and how lists are ordered by default. No reflection-based
// metadata discovery happens anywhere.
type EntityMeta struct {
	// Datasource is the registry connection name; empty means default.
	Datasource string
	// Table is the table name, used for operation identifiers.
	Table string
	// PrimaryKey lists the key column(s); more than one makes the key
	// composite.
	PrimaryKey []string
	// DefaultSortField orders lists when no sort is requested;
	// defaults to created_at, descending.
	DefaultSortField string
}

// Repository provides filtered, sorted, paginated CRUD for one entity
// type. Every operation executes through the datasource resilience
// layer; storage failures come back as *StorageError, not panics.
type Repository[T any] struct {
	meta       EntityMeta
	registry   *datasource.Registry
	translator *query.Translator
	logger     *slog.Logger
}

func New[T any](meta EntityMeta, registry *datasource.Registry) (*Repository[T], error) {
	if meta.Table == "" {
		return nil, fmt.Errorf("entity meta has no table name")
	}
	if len(meta.PrimaryKey) == 0 {
		return nil, fmt.Errorf("entity %q has no primary key configured", meta.Table)
	}
	for _, field := range meta.PrimaryKey {
		if !filter.IsValidFieldName(field) {
			return nil, fmt.Errorf("entity %q has invalid primary key field %q", meta.Table, field)
		}
	}
	if meta.DefaultSortField == "" {
		meta.DefaultSortField = "created_at"
	}

	return &Repository[T]{
		meta:       meta,
		registry:   registry,
		translator: query.NewTranslator(),
		logger:     logger.GetLogger(),
	}, nil
}

// FindAll returns one page of rows plus the total count, both queried
// concurrently over the same filtered shape. The result carries the
// rendered page query (placeholders only) for audit purposes.
func (r *Repository[T]) FindAll(
	filterNode *filter.Node,
	sorts []filter.SortOption,
	pagination filter.Pagination,
) (*PaginatedResult[T], error) {
	if pagination.Page < 1 {
		pagination.Page = filter.DefaultPage
	}
	if pagination.Limit < 1 {
		pagination.Limit = filter.DefaultLimit
	}

	condition, params := r.translator.Translate(filterNode)

	var (
		data     []T
		total    int64
		rendered string
	)

	err := r.execute("findAll", func(db *gorm.DB) error {
		filtered := func(q *gorm.DB) *gorm.DB {
			q = q.Model(new(T))
			if condition != "" {
				q = q.Where(condition, params)
			}
			return q
		}
		paged := func(q *gorm.DB) *gorm.DB {
			q = query.ApplySort(q, sorts, r.meta.DefaultSortField)
			return q.Offset(pagination.Offset()).Limit(pagination.Limit)
		}

		dry := paged(filtered(db.Session(&gorm.Session{DryRun: true}))).Find(&[]T{})
		rendered = dry.Statement.SQL.String()

		var group errgroup.Group
		group.Go(func() error {
			rows := make([]T, 0)
			if findErr := paged(filtered(db)).Find(&rows).Error; findErr != nil {
				return findErr
			}
			data = rows
			return nil
		})
		group.Go(func() error {
			return filtered(db).Count(&total).Error
		})

		return group.Wait()
	})
	if err != nil {
		return nil, err
	}

	return &PaginatedResult[T]{
		Data:       data,
		Total:      total,
		Page:       pagination.Page,
		Limit:      pagination.Limit,
		TotalPages: TotalPages(total, pagination.Limit),
		Source:     &QuerySource{RenderedQuery: rendered},
	}, nil
}

// FindByKey loads one row by its full key. A missing row is (nil,
// nil), not an error. Composite keys missing any configured field fail
// validation before any query is issued.
func (r *Repository[T]) FindByKey(key map[string]any) (*T, error) {
	condition, err := r.keyCondition(key)
	if err != nil {
		return nil, err
	}

	var entity *T

	execErr := r.execute("findByKey", func(db *gorm.DB) error {
		var row T
		if findErr := db.Where(condition).First(&row).Error; findErr != nil {
			if errors.Is(findErr, gorm.ErrRecordNotFound) {
				return nil
			}
			return findErr
		}
		entity = &row
		return nil
	})
	if execErr != nil {
		return nil, execErr
	}

	return entity, nil
}

// FindByID is the single-field-key convenience over FindByKey.
func (r *Repository[T]) FindByID(value any) (*T, error) {
	key, err := r.scalarKey(value)
	if err != nil {
		return nil, err
	}
	return r.FindByKey(key)
}

func (r *Repository[T]) CreateOne(entity *T) error {
	return r.executeWrite("createOne", func(tx *gorm.DB) error {
		return tx.Create(entity).Error
	})
}

func (r *Repository[T]) CreateMany(entities []*T) error {
	if len(entities) == 0 {
		return nil
	}
	return r.executeWrite("createMany", func(tx *gorm.DB) error {
		return tx.Create(entities).Error
	})
}

// Update loads the row by key inside the write transaction, fails
// with a not-found error when absent, merges the patch and saves.
func (r *Repository[T]) Update(key map[string]any, patch map[string]any) (*T, error) {
	condition, err := r.keyCondition(key)
	if err != nil {
		return nil, err
	}
	if err := validatePatch(patch); err != nil {
		return nil, err
	}

	var updated *T

	execErr := r.executeWrite("update", func(tx *gorm.DB) error {
		var row T
		if findErr := tx.Where(condition).First(&row).Error; findErr != nil {
			if errors.Is(findErr, gorm.ErrRecordNotFound) {
				return NewNotFoundError(fmt.Sprintf("%s row not found", r.meta.Table))
			}
			return findErr
		}

		if len(patch) > 0 {
			if updateErr := tx.Model(&row).Where(condition).Updates(patch).Error; updateErr != nil {
				return updateErr
			}
		}

		updated = &row
		return nil
	})
	if execErr != nil {
		return nil, execErr
	}

	return updated, nil
}

func (r *Repository[T]) UpdateByID(value any, patch map[string]any) (*T, error) {
	key, err := r.scalarKey(value)
	if err != nil {
		return nil, err
	}
	return r.Update(key, patch)
}

// Delete removes the row addressed by key and reports whether any row
// was affected. Composite-key rows are loaded first so the store
// removes a concrete instance.
func (r *Repository[T]) Delete(key map[string]any) (bool, error) {
	condition, err := r.keyCondition(key)
	if err != nil {
		return false, err
	}

	affected := false

	execErr := r.executeWrite("delete", func(tx *gorm.DB) error {
		if len(r.meta.PrimaryKey) == 1 {
			result := tx.Where(condition).Delete(new(T))
			if result.Error != nil {
				return result.Error
			}
			affected = result.RowsAffected > 0
			return nil
		}

		var row T
		if findErr := tx.Where(condition).First(&row).Error; findErr != nil {
			if errors.Is(findErr, gorm.ErrRecordNotFound) {
				return nil
			}
			return findErr
		}

		result := tx.Delete(&row)
		if result.Error != nil {
			return result.Error
		}
		affected = result.RowsAffected > 0
		return nil
	})
	if execErr != nil {
		return false, execErr
	}

	return affected, nil
}

func (r *Repository[T]) DeleteByID(value any) (bool, error) {
	key, err := r.scalarKey(value)
	if err != nil {
		return false, err
	}
	return r.Delete(key)
}

// Meta exposes the entity declaration for callers that need the
// configured key fields (e.g. controllers building composite keys).
func (r *Repository[T]) Meta() EntityMeta {
	return r.meta
}

// execute runs one storage operation through the resilience layer:
// handle acquisition, error classification and success registration.
func (r *Repository[T]) execute(operation string, fn func(db *gorm.DB) error) error {
	operationID := r.meta.Table + "." + operation

	db, err := r.registry.Handle(r.meta.Datasource)
	if err != nil {
		status := r.registry.HandleDatabaseError(err, operationID, r.meta.Datasource)
		return &StorageError{
			Kind:      ErrorKindConnectivity,
			Message:   status.Message,
			Recovered: status.Recovered,
			Err:       err,
		}
	}

	if err := fn(db); err != nil {
		return r.convertError(operationID, err)
	}

	r.registry.RegisterSuccessfulOperation(operationID, r.meta.Datasource)
	return nil
}

// executeWrite wraps fn in a transaction when one can be opened,
// falling back to the plain handle otherwise. The transaction is
// released on every exit path.
func (r *Repository[T]) executeWrite(operation string, fn func(tx *gorm.DB) error) error {
	return r.execute(operation, func(db *gorm.DB) error {
		tx, err := r.registry.Begin(r.meta.Datasource)
		if err != nil {
			r.logger.Warn("Falling back to non-transactional write",
				"table", r.meta.Table, "operation", operation, "error", err)
			return fn(db)
		}

		committed := false
		defer func() {
			if !committed {
				tx.Rollback()
			}
		}()

		if err := fn(tx); err != nil {
			return err
		}

		if err := tx.Commit().Error; err != nil {
			return err
		}

		committed = true
		return nil
	})
}

func (r *Repository[T]) convertError(operationID string, err error) error {
	var storageErr *StorageError
	if errors.As(err, &storageErr) {
		return storageErr
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return &StorageError{
			Kind:    ErrorKindNotFound,
			Message: fmt.Sprintf("%s row not found", r.meta.Table),
			Err:     err,
		}

	case datasource.IsConstraintError(err):
		return &StorageError{
			Kind:    ErrorKindConstraint,
			Message: fmt.Sprintf("constraint violation on %s", r.meta.Table),
			Err:     err,
		}

	case datasource.IsConnectivityError(err):
		status := r.registry.HandleDatabaseError(err, operationID, r.meta.Datasource)
		return &StorageError{
			Kind:      ErrorKindConnectivity,
			Message:   status.Message,
			Recovered: status.Recovered,
			Err:       err,
		}

	default:
		return &StorageError{
			Kind:    ErrorKindInternal,
			Message: fmt.Sprintf("operation %s failed", operationID),
			Err:     err,
		}
	}
}

// keyCondition validates the supplied key against the configured
// primary key shape and returns the equality condition map. Every
// configured field must be present; unknown fields are rejected.
func (r *Repository[T]) keyCondition(key map[string]any) (map[string]any, error) {
	if len(key) == 0 {
		return nil, NewValidationError("primary key value is empty")
	}

	condition := make(map[string]any, len(r.meta.PrimaryKey))
	for _, field := range r.meta.PrimaryKey {
		value, ok := key[field]
		if !ok || value == nil {
			return nil, NewValidationError(
				fmt.Sprintf("missing primary key field %q for %s", field, r.meta.Table))
		}
		condition[field] = value
	}

	for field := range key {
		if !slices.Contains(r.meta.PrimaryKey, field) {
			return nil, NewValidationError(
				fmt.Sprintf("unexpected key field %q for %s", field, r.meta.Table))
		}
	}

	return condition, nil
}

func (r *Repository[T]) scalarKey(value any) (map[string]any, error) {
	if len(r.meta.PrimaryKey) != 1 {
		return nil, NewValidationError(
			fmt.Sprintf("%s uses a composite key; a scalar key is not enough", r.meta.Table))
	}
	return map[string]any{r.meta.PrimaryKey[0]: value}, nil
}

func validatePatch(patch map[string]any) error {
	for field := range patch {
		if !filter.IsValidFieldName(field) {
			return NewValidationError(fmt.Sprintf("invalid patch field %q", field))
		}
	}
	return nil
}
