package domain

import "time"

type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusPaid       OrderStatus = "paid"
	StatusProcessing OrderStatus = "processing"
	StatusShipped    OrderStatus = "shipped"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusPaid, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// PaymentStatusApproved is the gateway-reported status that flips an order
// to paid.
const PaymentStatusApproved = "approved"

type Order struct {
	ID              uint64      `json:"id" gorm:"primaryKey;autoIncrement"`
	CustomerName    string      `json:"customerName" gorm:"size:255;not null"`
	ShippingAddress string      `json:"shippingAddress" gorm:"size:512;not null"`
	ContactEmail    string      `json:"contactEmail" gorm:"size:255;not null"`
	Status          OrderStatus `json:"status" gorm:"type:enum('pending','paid','processing','shipped','delivered','cancelled');default:'pending';index"`
	PaymentStatus   string      `json:"paymentStatus" gorm:"size:64"`
	PaymentDetail   string      `json:"paymentDetail" gorm:"size:255"`
	StockApplied    bool        `json:"-" gorm:"not null;default:false"`
	Items           []OrderItem `json:"items" gorm:"foreignKey:OrderID"`
	CreatedAt       time.Time   `json:"createdAt" gorm:"autoCreateTime;index"`
	UpdatedAt       time.Time   `json:"updatedAt" gorm:"autoUpdateTime"`
}

// OrderItem is a snapshot of the product at order time. Name and unit price
// are copied so later catalog edits do not rewrite order history.
type OrderItem struct {
	ID        uint64 `json:"-" gorm:"primaryKey;autoIncrement"`
	OrderID   uint64 `json:"-" gorm:"not null;index"`
	ProductID uint64 `json:"productId" gorm:"not null;index"`
	Name      string `json:"name" gorm:"size:255;not null"`
	UnitPrice int64  `json:"unitPrice" gorm:"not null"`
	Quantity  int64  `json:"quantity" gorm:"not null"`
}

func (o *Order) Total() int64 {
	var total int64
	for _, it := range o.Items {
		total += it.UnitPrice * it.Quantity
	}
	return total
}
