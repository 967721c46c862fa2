package domain

import "time"

// ConfigID is the fixed primary key of the singleton configuration row.
const ConfigID = 1

type StoreConfig struct {
	ID                    uint      `json:"-" gorm:"primaryKey"`
	StoreName             string    `json:"storeName" gorm:"size:255"`
	ContactEmail          string    `json:"contactEmail" gorm:"size:255"`
	ShippingCost          int64     `json:"shippingCost"`
	FreeShippingThreshold int64     `json:"freeShippingThreshold"`
	NotifyOrderCreated    bool      `json:"notifyOrderCreated"`
	NotifyPaymentApproved bool      `json:"notifyPaymentApproved"`
	GatewayAccessToken    string    `json:"gatewayAccessToken"`
	GatewayPublicKey      string    `json:"gatewayPublicKey"`
	UpdatedAt             time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
}

// PublicConfig is the sanitized subset exposed without authentication.
// Gateway credentials never leave the admin surface; the public key is the
// one value the hosted checkout widget legitimately needs.
type PublicConfig struct {
	StoreName             string `json:"storeName"`
	ContactEmail          string `json:"contactEmail"`
	ShippingCost          int64  `json:"shippingCost"`
	FreeShippingThreshold int64  `json:"freeShippingThreshold"`
	GatewayPublicKey      string `json:"gatewayPublicKey"`
}

func (c *StoreConfig) Public() PublicConfig {
	return PublicConfig{
		StoreName:             c.StoreName,
		ContactEmail:          c.ContactEmail,
		ShippingCost:          c.ShippingCost,
		FreeShippingThreshold: c.FreeShippingThreshold,
		GatewayPublicKey:      c.GatewayPublicKey,
	}
}

// DefaultConfig is used when no configuration row exists yet.
func DefaultConfig() *StoreConfig {
	return &StoreConfig{
		ID:                    ConfigID,
		StoreName:             "Joyería",
		ShippingCost:          3500,
		FreeShippingThreshold: 50000,
		NotifyOrderCreated:    true,
		NotifyPaymentApproved: true,
	}
}
