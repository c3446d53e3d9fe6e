package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type FulfillmentType string

const (
	FulfillmentDelivery FulfillmentType = "delivery"
	FulfillmentPickup   FulfillmentType = "pickup"
)

// Cart is keyed by the caller's session id, one cart per session.
type Cart struct {
	ID              string `gorm:"primaryKey;size:64"`
	LocationID      uint   `gorm:"index;not null"`
	CustomerID      *uint
	FulfillmentType FulfillmentType `gorm:"size:16;not null"`
	Items           []CartItem      `gorm:"foreignKey:CartID"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type CartItem struct {
	ID        uint            `gorm:"primaryKey"`
	CartID    string          `gorm:"size:64;index;not null"`
	Name      string          `gorm:"size:128;not null"`
	Quantity  int             `gorm:"not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(12,2);not null"`
}

func (c *Cart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}
