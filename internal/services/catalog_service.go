package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"joyeria-backend/internal/domain"
	"joyeria-backend/internal/repository"

	"github.com/go-redis/redis/v8"
	"golang.org/x/sync/singleflight"
)

var ErrProductNotFound = errors.New("product not found")

const (
	defaultPage  = 1
	defaultLimit = 12
	maxLimit     = 100

	catalogCacheTTL = time.Minute
	catalogGenKey   = "catalog:gen"
)

// CatalogParams are the raw query-string values. Anything unparseable fails
// closed to a default instead of erroring.
type CatalogParams struct {
	Page      string
	Limit     string
	Category  string
	MinPrice  string
	MaxPrice  string
	Search    string
	SortBy    string
	SortOrder string
}

type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
	HasMore    bool  `json:"hasMore"`
}

type CatalogPage struct {
	Products   []domain.Product `json:"products"`
	Pagination Pagination       `json:"pagination"`
}

var sortFields = map[string]string{
	"name":       "name",
	"price":      "price",
	"created_at": "created_at",
}

func (p CatalogParams) sanitize() repository.CatalogQuery {
	q := repository.CatalogQuery{
		Page:      defaultPage,
		Limit:     defaultLimit,
		Search:    p.Search,
		SortBy:    "created_at",
		SortOrder: "DESC",
	}

	if n, err := strconv.Atoi(p.Page); err == nil && n >= 1 {
		q.Page = n
	}
	if n, err := strconv.Atoi(p.Limit); err == nil && n >= 1 {
		if n > maxLimit {
			n = maxLimit
		}
		q.Limit = n
	}
	if c := domain.Category(p.Category); c.Valid() {
		q.Category = c
	}
	if n, err := strconv.ParseInt(p.MinPrice, 10, 64); err == nil && n >= 0 {
		q.MinPrice = &n
	}
	if n, err := strconv.ParseInt(p.MaxPrice, 10, 64); err == nil && n >= 0 {
		q.MaxPrice = &n
	}
	if col, ok := sortFields[p.SortBy]; ok {
		q.SortBy = col
	}
	if p.SortOrder == "asc" {
		q.SortOrder = "ASC"
	}
	return q
}

type CatalogService struct {
	repo        repository.ProductRepository
	redisClient *redis.Client
	group       singleflight.Group
}

func NewCatalogService(repo repository.ProductRepository) *CatalogService {
	return &CatalogService{repo: repo}
}

func (s *CatalogService) SetRedisClient(client *redis.Client) {
	s.redisClient = client
}

func (s *CatalogService) List(ctx context.Context, params CatalogParams) (*CatalogPage, error) {
	q := params.sanitize()

	key := s.cacheKey(ctx, q)
	if s.redisClient != nil {
		if cached, err := s.redisClient.Get(ctx, key).Result(); err == nil {
			var page CatalogPage
			if err := json.Unmarshal([]byte(cached), &page); err == nil {
				return &page, nil
			}
		}
	}

	// Collapse a stampede of identical queries into one repository hit.
	v, err, _ := s.group.Do(key, func() (interface{}, error) {
		products, total, err := s.repo.List(ctx, q)
		if err != nil {
			return nil, err
		}
		if products == nil {
			products = []domain.Product{}
		}

		totalPages := int((total + int64(q.Limit) - 1) / int64(q.Limit))
		page := &CatalogPage{
			Products: products,
			Pagination: Pagination{
				Page:       q.Page,
				Limit:      q.Limit,
				Total:      total,
				TotalPages: totalPages,
				HasMore:    q.Page < totalPages,
			},
		}

		if s.redisClient != nil {
			if data, err := json.Marshal(page); err == nil {
				s.redisClient.Set(ctx, key, data, catalogCacheTTL)
			}
		}
		return page, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*CatalogPage), nil
}

func (s *CatalogService) GetProduct(ctx context.Context, id uint64) (*domain.Product, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrProductNotFound
	}
	return p, nil
}

func (s *CatalogService) GetProductAny(ctx context.Context, id uint64) (*domain.Product, error) {
	p, err := s.repo.FindByIDAny(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrProductNotFound
	}
	return p, nil
}

func (s *CatalogService) CreateProduct(ctx context.Context, p *domain.Product) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return err
	}
	s.Invalidate(ctx)
	return nil
}

func (s *CatalogService) UpdateProduct(ctx context.Context, p *domain.Product) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return err
	}
	s.Invalidate(ctx)
	return nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id uint64) error {
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.Invalidate(ctx)
	return nil
}

// Invalidate bumps the cache generation so every cached page key goes stale
// at once. Cheaper than scanning for keys to delete.
func (s *CatalogService) Invalidate(ctx context.Context) {
	if s.redisClient == nil {
		return
	}
	if err := s.redisClient.Incr(ctx, catalogGenKey).Err(); err != nil {
		log.Printf("catalog cache invalidation failed: %v", err)
	}
}

func (s *CatalogService) cacheKey(ctx context.Context, q repository.CatalogQuery) string {
	gen := "0"
	if s.redisClient != nil {
		if v, err := s.redisClient.Get(ctx, catalogGenKey).Result(); err == nil {
			gen = v
		}
	}
	min, max := int64(-1), int64(-1)
	if q.MinPrice != nil {
		min = *q.MinPrice
	}
	if q.MaxPrice != nil {
		max = *q.MaxPrice
	}
	return fmt.Sprintf("catalog:g%s:p%d:l%d:c%s:min%d:max%d:q%s:s%s:%s",
		gen, q.Page, q.Limit, q.Category, min, max, q.Search, q.SortBy, q.SortOrder)
}
