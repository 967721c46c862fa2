package domain

import "time"

const (
	EventOrderCreated    = "order.created"
	EventPaymentApproved = "payment.approved"
)

type OrderCreatedEvent struct {
	OrderID      uint64    `json:"orderId"`
	CustomerName string    `json:"customerName"`
	ContactEmail string    `json:"contactEmail"`
	Total        int64     `json:"total"`
	CreatedAt    time.Time `json:"createdAt"`
}

type PaymentApprovedEvent struct {
	OrderID       uint64    `json:"orderId"`
	PaymentStatus string    `json:"paymentStatus"`
	PaymentDetail string    `json:"paymentDetail"`
	ApprovedAt    time.Time `json:"approvedAt"`
}
