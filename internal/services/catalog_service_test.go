package services

import (
	"context"
	"errors"
	"testing"

	"joyeria-backend/internal/domain"
	"joyeria-backend/internal/mocks"
	"joyeria-backend/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestCatalogParams_Sanitize(t *testing.T) {
	tests := []struct {
		name   string
		params CatalogParams
		want   func(t *testing.T, q repository.CatalogQuery)
	}{
		{
			name:   "all defaults",
			params: CatalogParams{},
			want: func(t *testing.T, q repository.CatalogQuery) {
				assert.Equal(t, defaultPage, q.Page)
				assert.Equal(t, defaultLimit, q.Limit)
				assert.Equal(t, "created_at", q.SortBy)
				assert.Equal(t, "DESC", q.SortOrder)
				assert.Nil(t, q.MinPrice)
				assert.Nil(t, q.MaxPrice)
			},
		},
		{
			name:   "garbage numbers fail closed to defaults",
			params: CatalogParams{Page: "banana", Limit: "-3", MinPrice: "abc"},
			want: func(t *testing.T, q repository.CatalogQuery) {
				assert.Equal(t, defaultPage, q.Page)
				assert.Equal(t, defaultLimit, q.Limit)
				assert.Nil(t, q.MinPrice)
			},
		},
		{
			name:   "limit is capped",
			params: CatalogParams{Limit: "5000"},
			want: func(t *testing.T, q repository.CatalogQuery) {
				assert.Equal(t, maxLimit, q.Limit)
			},
		},
		{
			name:   "unknown category is ignored",
			params: CatalogParams{Category: "relojes"},
			want: func(t *testing.T, q repository.CatalogQuery) {
				assert.Empty(t, q.Category)
			},
		},
		{
			name:   "valid filters pass through",
			params: CatalogParams{Page: "3", Limit: "20", Category: "aros", MinPrice: "1000", MaxPrice: "90000", SortBy: "price", SortOrder: "asc"},
			want: func(t *testing.T, q repository.CatalogQuery) {
				assert.Equal(t, 3, q.Page)
				assert.Equal(t, 20, q.Limit)
				assert.Equal(t, domain.CategoryAros, q.Category)
				assert.Equal(t, int64(1000), *q.MinPrice)
				assert.Equal(t, int64(90000), *q.MaxPrice)
				assert.Equal(t, "price", q.SortBy)
				assert.Equal(t, "ASC", q.SortOrder)
			},
		},
		{
			name:   "sort field not in whitelist falls back",
			params: CatalogParams{SortBy: "stock; DROP TABLE products"},
			want: func(t *testing.T, q repository.CatalogQuery) {
				assert.Equal(t, "created_at", q.SortBy)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.want(t, tt.params.sanitize())
		})
	}
}

func TestCatalogService_List_Pagination(t *testing.T) {
	tests := []struct {
		name        string
		page        string
		limit       string
		total       int64
		wantPages   int
		wantHasMore bool
	}{
		{name: "first of many", page: "1", limit: "10", total: 35, wantPages: 4, wantHasMore: true},
		{name: "middle page", page: "3", limit: "10", total: 35, wantPages: 4, wantHasMore: true},
		{name: "last full page", page: "4", limit: "10", total: 40, wantPages: 4, wantHasMore: false},
		{name: "last partial page", page: "4", limit: "10", total: 35, wantPages: 4, wantHasMore: false},
		{name: "exactly one page", page: "1", limit: "10", total: 10, wantPages: 1, wantHasMore: false},
		{name: "empty catalog", page: "1", limit: "10", total: 0, wantPages: 0, wantHasMore: false},
		{name: "page beyond the end", page: "9", limit: "10", total: 35, wantPages: 4, wantHasMore: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(mocks.MockProductRepository)
			mockRepo.On("List", mock.Anything, mock.AnythingOfType("repository.CatalogQuery")).
				Return([]domain.Product{}, tt.total, nil)

			service := NewCatalogService(mockRepo)
			page, err := service.List(context.Background(), CatalogParams{Page: tt.page, Limit: tt.limit})

			assert.NoError(t, err)
			assert.Equal(t, tt.total, page.Pagination.Total)
			assert.Equal(t, tt.wantPages, page.Pagination.TotalPages)
			assert.Equal(t, tt.wantHasMore, page.Pagination.HasMore)
			assert.NotNil(t, page.Products)
		})
	}
}

func TestCatalogService_List_RepositoryError(t *testing.T) {
	mockRepo := new(mocks.MockProductRepository)
	mockRepo.On("List", mock.Anything, mock.Anything).
		Return(nil, int64(0), errors.New("connection refused"))

	service := NewCatalogService(mockRepo)
	page, err := service.List(context.Background(), CatalogParams{})

	assert.Error(t, err)
	assert.Nil(t, page)
}

func TestCatalogService_GetProduct(t *testing.T) {
	mockRepo := new(mocks.MockProductRepository)
	p := testProduct(1, "Cadena de plata", 25000, 5)
	mockRepo.On("FindByID", mock.Anything, uint64(1)).Return(&p, nil)
	mockRepo.On("FindByID", mock.Anything, uint64(2)).Return(nil, nil)

	service := NewCatalogService(mockRepo)

	got, err := service.GetProduct(context.Background(), 1)
	assert.NoError(t, err)
	assert.Equal(t, "Cadena de plata", got.Name)

	_, err = service.GetProduct(context.Background(), 2)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestCatalogService_CreateProduct_Invariants(t *testing.T) {
	mockRepo := new(mocks.MockProductRepository)
	service := NewCatalogService(mockRepo)

	discount := int64(30000)
	bad := &domain.Product{
		Name:          "Pulsera",
		Price:         25000,
		DiscountPrice: &discount,
		Category:      domain.CategoryPulseras,
	}

	err := service.CreateProduct(context.Background(), bad)
	var pErr domain.ErrInvalidProduct
	assert.ErrorAs(t, err, &pErr)

	negative := &domain.Product{Name: "Aros", Price: 1000, Stock: -1, Category: domain.CategoryAros}
	err = service.CreateProduct(context.Background(), negative)
	assert.ErrorAs(t, err, &pErr)

	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}
