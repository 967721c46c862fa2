package repository

import (
	"context"
	"errors"

	"joyeria-backend/internal/domain"
)

// ErrInsufficientStock marks the expected business failure: some line item
// asked for more units than the catalog holds. Callers reclassify it with
// errors.Is rather than string matching.
var ErrInsufficientStock = errors.New("insufficient stock")

// CatalogQuery carries the already-sanitized listing parameters. Services
// clamp page/limit and whitelist sort fields before building one.
type CatalogQuery struct {
	Page      int
	Limit     int
	Category  domain.Category
	MinPrice  *int64
	MaxPrice  *int64
	Search    string
	SortBy    string
	SortOrder string
}

func (q CatalogQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}

type ProductRepository interface {
	List(ctx context.Context, q CatalogQuery) ([]domain.Product, int64, error)
	FindByID(ctx context.Context, id uint64) (*domain.Product, error)
	// FindByIDAny also returns soft-deleted products; admin views need them.
	FindByIDAny(ctx context.Context, id uint64) (*domain.Product, error)
	FindByIDs(ctx context.Context, ids []uint64) ([]domain.Product, error)
	Create(ctx context.Context, p *domain.Product) error
	Update(ctx context.Context, p *domain.Product) error
	SoftDelete(ctx context.Context, id uint64) error
}

// PaymentResult reports what a payment callback actually did. Transitioned
// is false when the order was already paid and the callback was absorbed as
// an idempotent no-op.
type PaymentResult struct {
	Order        *domain.Order
	Transitioned bool
}

type OrderRepository interface {
	// CreateWithStock atomically checks stock for every line, decrements it,
	// and inserts the order. Insufficient stock for any line rolls the whole
	// thing back and returns ErrInsufficientStock.
	CreateWithStock(ctx context.Context, order *domain.Order) error

	// ApplyPaymentStatus locks the order row, applies the gateway-reported
	// status, and decrements stock exactly once on the transition into paid.
	ApplyPaymentStatus(ctx context.Context, orderID uint64, gatewayStatus, detail string) (*PaymentResult, error)

	FindByID(ctx context.Context, id uint64) (*domain.Order, error)
	List(ctx context.Context, status domain.OrderStatus) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id uint64, status domain.OrderStatus) error
}

type ConfigRepository interface {
	Get(ctx context.Context) (*domain.StoreConfig, error)
	Save(ctx context.Context, cfg *domain.StoreConfig) error
}
