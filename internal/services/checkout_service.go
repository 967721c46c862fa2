package services

import (
	"context"
	"errors"
	"fmt"

	"joyeria-backend/internal/domain"
	"joyeria-backend/internal/infra/payment"
	"joyeria-backend/internal/repository"

	"github.com/google/uuid"
)

var ErrEmptyCart = errors.New("cart is empty")

const currencyCLP = "CLP"

type CheckoutItem struct {
	ProductID uint64
	Quantity  int64
}

// CheckoutResult carries the redirect URL plus the reference the gateway
// will echo back in its callbacks.
type CheckoutResult struct {
	PreferenceID      string `json:"preferenceId"`
	InitPoint         string `json:"initPoint"`
	ExternalReference string `json:"externalReference"`
}

type CheckoutService struct {
	products  repository.ProductRepository
	config    *ConfigService
	gateway   payment.GatewayInterface
	publicURL string
}

func NewCheckoutService(products repository.ProductRepository, cfg *ConfigService, gateway payment.GatewayInterface, publicURL string) *CheckoutService {
	return &CheckoutService{
		products:  products,
		config:    cfg,
		gateway:   gateway,
		publicURL: publicURL,
	}
}

// CreatePreference turns the cart into a gateway preference and returns the
// hosted payment page. Unit prices are always taken from the catalog, never
// from the client.
func (s *CheckoutService) CreatePreference(ctx context.Context, items []CheckoutItem) (*CheckoutResult, error) {
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}
	ids := make([]uint64, 0, len(items))
	for _, it := range items {
		if it.Quantity < 1 {
			return nil, ValidationError("every item needs a quantity of at least 1")
		}
		ids = append(ids, it.ProductID)
	}

	products, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint64]*domain.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	cfg, err := s.config.Get(ctx)
	if err != nil {
		return nil, err
	}

	var subtotal int64
	prefItems := make([]payment.Item, 0, len(items)+1)
	for _, it := range items {
		p, ok := byID[it.ProductID]
		if !ok {
			return nil, fmt.Errorf("%w: id %d", ErrProductNotFound, it.ProductID)
		}
		unit := p.EffectivePrice()
		subtotal += unit * it.Quantity
		prefItems = append(prefItems, payment.Item{
			Title:     p.Name,
			Quantity:  it.Quantity,
			UnitPrice: unit,
			Currency:  currencyCLP,
		})
	}

	if cfg.ShippingCost > 0 && subtotal < cfg.FreeShippingThreshold {
		prefItems = append(prefItems, payment.Item{
			Title:     "Envío",
			Quantity:  1,
			UnitPrice: cfg.ShippingCost,
			Currency:  currencyCLP,
		})
	}

	ref := uuid.NewString()
	req := &payment.PreferenceRequest{
		Items: prefItems,
		BackURLs: payment.BackURLs{
			Success: s.publicURL + "/checkout/success",
			Failure: s.publicURL + "/checkout/failure",
			Pending: s.publicURL + "/checkout/pending",
		},
		AutoReturn:        "approved",
		ExternalReference: ref,
	}

	pref, err := s.gateway.CreatePreference(ctx, cfg.GatewayAccessToken, req)
	if err != nil {
		return nil, err
	}

	return &CheckoutResult{
		PreferenceID:      pref.ID,
		InitPoint:         pref.InitPoint,
		ExternalReference: ref,
	}, nil
}
