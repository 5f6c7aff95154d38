package repository

import (
	"testing"
	"time"

	"storefront/internal/datasource"
	"storefront/internal/filter"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func filterDefaults() filter.Pagination {
	return filter.DefaultPagination()
}

type feedRow struct {
	SupplierID string `gorm:"column:supplier_id;primaryKey"`
	Code       string `gorm:"column:code;primaryKey"`
	Title      string `gorm:"column:title"`
}

func (feedRow) TableName() string { return "feeds" }

func newCompositeRepository(t *testing.T) *Repository[feedRow] {
	t.Helper()

	registry := datasource.NewRegistry(datasource.RegistryOptions{
		MaxRetries: 1,
		BaseDelay:  time.Millisecond,
	})

	repo, err := New[feedRow](EntityMeta{
		Table:      "feeds",
		PrimaryKey: []string{"supplier_id", "code"},
	}, registry)
	require.NoError(t, err)

	return repo
}

func Test_New_EmptyPrimaryKey_ReturnsError(t *testing.T) {
	registry := datasource.NewRegistry(datasource.RegistryOptions{})

	_, err := New[feedRow](EntityMeta{Table: "feeds"}, registry)

	assert.Error(t, err)
}

func Test_New_InvalidPrimaryKeyField_ReturnsError(t *testing.T) {
	registry := datasource.NewRegistry(datasource.RegistryOptions{})

	_, err := New[feedRow](EntityMeta{
		Table:      "feeds",
		PrimaryKey: []string{"supplier_id; DROP TABLE feeds"},
	}, registry)

	assert.Error(t, err)
}

func Test_FindByKey_CompositeKeyMissingField_FailsValidationBeforeQuery(t *testing.T) {
	repo := newCompositeRepository(t)

	// registry has no datasources at all: reaching the store would error
	// differently, so a validation kind proves the query was never issued
	_, err := repo.FindByKey(map[string]any{"supplier_id": "s-1"})

	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func Test_Update_CompositeKeyMissingField_FailsValidationBeforeQuery(t *testing.T) {
	repo := newCompositeRepository(t)

	_, err := repo.Update(map[string]any{"code": "c-1"}, map[string]any{"title": "x"})

	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func Test_Delete_CompositeKeyMissingField_FailsValidationBeforeQuery(t *testing.T) {
	repo := newCompositeRepository(t)

	_, err := repo.Delete(map[string]any{})

	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func Test_KeyCondition_UnexpectedExtraField_FailsValidation(t *testing.T) {
	repo := newCompositeRepository(t)

	_, err := repo.FindByKey(map[string]any{
		"supplier_id": "s-1",
		"code":        "c-1",
		"title":       "sneaky",
	})

	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func Test_FindByID_CompositeKeyEntity_FailsValidation(t *testing.T) {
	repo := newCompositeRepository(t)

	_, err := repo.FindByID("scalar-wont-do")

	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func Test_Update_InvalidPatchFieldName_FailsValidation(t *testing.T) {
	repo := newCompositeRepository(t)

	_, err := repo.Update(
		map[string]any{"supplier_id": "s-1", "code": "c-1"},
		map[string]any{"title = 'x' WHERE 1=1; --": "y"},
	)

	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func Test_FindAll_UnreachableDatasource_ReturnsConnectivityError(t *testing.T) {
	registry := datasource.NewRegistry(datasource.RegistryOptions{
		MaxRetries: 1,
		BaseDelay:  time.Millisecond,
	})
	require.NoError(t, registry.Register(datasource.Config{
		Name: "main",
		Dsn:  "host=127.0.0.1 port=1 user=nobody dbname=nowhere connect_timeout=1",
	}))

	repo, err := New[feedRow](EntityMeta{
		Table:      "feeds",
		PrimaryKey: []string{"supplier_id", "code"},
	}, registry)
	require.NoError(t, err)

	_, findErr := repo.FindAll(nil, nil, filterDefaults())

	require.Error(t, findErr)
	assert.True(t, IsConnectivity(findErr))

	var storageErr *StorageError
	require.ErrorAs(t, findErr, &storageErr)
	assert.False(t, storageErr.Recovered)
	assert.NotEmpty(t, storageErr.Message)
}

func Test_TotalPages_CeilsTotalOverLimit(t *testing.T) {
	cases := []struct {
		total    int64
		limit    int
		expected int
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{100, 7, 15},
		{5, 1, 5},
	}

	for _, c := range cases {
		assert.Equal(t, c.expected, TotalPages(c.total, c.limit),
			"total=%d limit=%d", c.total, c.limit)
	}
}

func Test_TotalPages_NonPositiveLimit_ReturnsZero(t *testing.T) {
	assert.Equal(t, 0, TotalPages(100, 0))
}

func Test_StorageError_KindHelpers_MatchWrappedErrors(t *testing.T) {
	validation := NewValidationError("bad key")
	notFound := NewNotFoundError("missing row")

	assert.True(t, IsValidation(validation))
	assert.True(t, IsNotFound(notFound))
	assert.False(t, IsConnectivity(validation))
	assert.Equal(t, ErrorKindInternal, KindOf(assert.AnError))
}
