package http

import "joyeria-backend/internal/domain"

type OrderedProduct struct {
	ProductID uint64 `json:"product_id" binding:"required"`
	Quantity  int64  `json:"quantity" binding:"required,min=1"`
}

type CreateOrderRequest struct {
	CustomerName    string           `json:"customer_name" binding:"required"`
	ShippingAddress string           `json:"shipping_address" binding:"required"`
	ContactEmail    string           `json:"contact_email" binding:"required,email"`
	OrderedProducts []OrderedProduct `json:"ordered_products" binding:"required,min=1,dive"`
}

type CreateOrderResponse struct {
	OrderID uint64 `json:"order_id"`
}

type CheckoutRequest struct {
	Items []OrderedProduct `json:"items" binding:"required,min=1,dive"`
}

type PaymentCallbackRequest struct {
	OrderID      uint64 `json:"order_id" binding:"required"`
	Status       string `json:"status" binding:"required"`
	StatusDetail string `json:"status_detail"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type ProductRequest struct {
	Name          string          `json:"name" binding:"required"`
	Description   string          `json:"description"`
	Price         int64           `json:"price" binding:"required,min=0"`
	DiscountPrice *int64          `json:"discountPrice"`
	Category      domain.Category `json:"category" binding:"required"`
	Stock         int64           `json:"stock" binding:"min=0"`
	Materials     string          `json:"materials"`
	Dimensions    string          `json:"dimensions"`
	Color         string          `json:"color"`
}

func (r ProductRequest) toDomain() *domain.Product {
	return &domain.Product{
		Name:          r.Name,
		Description:   r.Description,
		Price:         r.Price,
		DiscountPrice: r.DiscountPrice,
		Category:      r.Category,
		Stock:         r.Stock,
		Materials:     r.Materials,
		Dimensions:    r.Dimensions,
		Color:         r.Color,
	}
}
