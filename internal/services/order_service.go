package services

import (
	"context"
	"errors"
	"log"
	"time"

	"joyeria-backend/internal/domain"
	rabbit "joyeria-backend/internal/infra/rabbitmq"
	"joyeria-backend/internal/repository"
)

var ErrOrderNotFound = errors.New("order not found")

// ValidationError marks client-input failures. The message is safe to echo
// back to the caller.
type ValidationError string

func (e ValidationError) Error() string { return string(e) }

type OrderLine struct {
	ProductID uint64
	Quantity  int64
}

type CreateOrderInput struct {
	CustomerName    string
	ShippingAddress string
	ContactEmail    string
	Items           []OrderLine
}

func (in CreateOrderInput) validate() error {
	if in.CustomerName == "" {
		return ValidationError("customer_name is required")
	}
	if in.ShippingAddress == "" {
		return ValidationError("shipping_address is required")
	}
	if in.ContactEmail == "" {
		return ValidationError("contact_email is required")
	}
	if len(in.Items) == 0 {
		return ValidationError("ordered_products must not be empty")
	}
	for _, it := range in.Items {
		if it.ProductID == 0 {
			return ValidationError("every item needs a product_id")
		}
		if it.Quantity < 1 {
			return ValidationError("every item needs a quantity of at least 1")
		}
	}
	return nil
}

type OrderService struct {
	repo      repository.OrderRepository
	config    *ConfigService
	publisher rabbit.PublisherInterface
}

func NewOrderService(r repository.OrderRepository, cfg *ConfigService, pub rabbit.PublisherInterface) *OrderService {
	return &OrderService{
		repo:      r,
		config:    cfg,
		publisher: pub,
	}
}

// CreateOrder validates the request and commits it through one atomic
// stock-check-and-decrement transaction. Validation happens before any
// persistence work.
func (s *OrderService) CreateOrder(ctx context.Context, in CreateOrderInput) (*domain.Order, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	items := make([]domain.OrderItem, 0, len(in.Items))
	for _, l := range in.Items {
		items = append(items, domain.OrderItem{
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
		})
	}

	order := &domain.Order{
		CustomerName:    in.CustomerName,
		ShippingAddress: in.ShippingAddress,
		ContactEmail:    in.ContactEmail,
		Status:          domain.StatusPending,
		Items:           items,
	}

	if err := s.repo.CreateWithStock(ctx, order); err != nil {
		return nil, err
	}

	go s.publishOrderCreated(context.Background(), order)

	return order, nil
}

// ApplyPaymentStatus drives the payment state machine. A callback for an
// already-paid order is acknowledged without effect; the repository's row
// lock serializes concurrent callbacks for the same order.
func (s *OrderService) ApplyPaymentStatus(ctx context.Context, orderID uint64, gatewayStatus, detail string) (*repository.PaymentResult, error) {
	res, err := s.repo.ApplyPaymentStatus(ctx, orderID, gatewayStatus, detail)
	if err != nil {
		if errors.Is(err, repository.ErrInsufficientStock) {
			// Payment already went through but the stock is gone. This must
			// never be swallowed: it needs manual reconciliation.
			log.Printf("FATAL reconciliation failure for order %d: %v", orderID, err)
		}
		return nil, err
	}
	if res.Order == nil {
		return nil, ErrOrderNotFound
	}

	if res.Transitioned {
		go s.publishPaymentApproved(context.Background(), res.Order)
	}

	return res, nil
}

func (s *OrderService) GetOrder(ctx context.Context, id uint64) (*domain.Order, error) {
	o, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, ErrOrderNotFound
	}
	return o, nil
}

func (s *OrderService) ListOrders(ctx context.Context, status string) ([]domain.Order, error) {
	st := domain.OrderStatus(status)
	if status != "" && !st.Valid() {
		return nil, ValidationError("unknown order status")
	}
	orders, err := s.repo.List(ctx, st)
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	return orders, nil
}

func (s *OrderService) UpdateOrderStatus(ctx context.Context, id uint64, status string) error {
	st := domain.OrderStatus(status)
	if !st.Valid() {
		return ValidationError("unknown order status")
	}
	return s.repo.UpdateStatus(ctx, id, st)
}

func (s *OrderService) publishOrderCreated(ctx context.Context, order *domain.Order) {
	cfg, err := s.config.Get(ctx)
	if err != nil || !cfg.NotifyOrderCreated {
		return
	}
	evt := domain.OrderCreatedEvent{
		OrderID:      order.ID,
		CustomerName: order.CustomerName,
		ContactEmail: order.ContactEmail,
		Total:        order.Total(),
		CreatedAt:    order.CreatedAt,
	}
	if err := s.publisher.Publish(ctx, domain.EventOrderCreated, evt); err != nil {
		log.Printf("failed to publish %s for order %d: %v", domain.EventOrderCreated, order.ID, err)
	}
}

func (s *OrderService) publishPaymentApproved(ctx context.Context, order *domain.Order) {
	cfg, err := s.config.Get(ctx)
	if err != nil || !cfg.NotifyPaymentApproved {
		return
	}
	evt := domain.PaymentApprovedEvent{
		OrderID:       order.ID,
		PaymentStatus: order.PaymentStatus,
		PaymentDetail: order.PaymentDetail,
		ApprovedAt:    time.Now(),
	}
	if err := s.publisher.Publish(ctx, domain.EventPaymentApproved, evt); err != nil {
		log.Printf("failed to publish %s for order %d: %v", domain.EventPaymentApproved, order.ID, err)
	}
}
