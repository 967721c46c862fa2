package services

import (
	"joyeria-backend/internal/domain"
	"joyeria-backend/internal/mocks"
	"time"
)

func newTestConfigService(cfg *domain.StoreConfig) (*ConfigService, *mocks.MockConfigRepository) {
	repo := new(mocks.MockConfigRepository)
	return NewConfigService(repo, cfg), repo
}

func testProduct(id uint64, name string, price, stock int64) domain.Product {
	return domain.Product{
		ID:       id,
		Name:     name,
		Price:    price,
		Category: domain.CategoryCadenas,
		Stock:    stock,
	}
}

func testOrder(id uint64, status domain.OrderStatus) *domain.Order {
	return &domain.Order{
		ID:              id,
		CustomerName:    "Test Customer",
		ShippingAddress: "Av. Siempre Viva 742",
		ContactEmail:    "test@example.com",
		Status:          status,
		CreatedAt:       time.Now(),
	}
}

func validOrderInput() CreateOrderInput {
	return CreateOrderInput{
		CustomerName:    "Test Customer",
		ShippingAddress: "Av. Siempre Viva 742",
		ContactEmail:    "test@example.com",
		Items:           []OrderLine{{ProductID: 1, Quantity: 2}},
	}
}
