package model

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	OrderStatusDraft    = "DRAFT"
	OrderStatusReceived = "RECEIVED"
)

type Order struct {
	ID         uint   `gorm:"primaryKey"`
	Hash       string `gorm:"size:64;uniqueIndex;not null"` // opaque token used in the success URL
	CartID     string `gorm:"size:64;index;not null"`
	CustomerID *uint  `gorm:"index"`

	FirstName string `gorm:"size:48"`
	LastName  string `gorm:"size:48"`
	Email     string `gorm:"size:96"`
	Telephone string `gorm:"size:32"`
	Comment   string `gorm:"size:500"`

	FulfillmentType FulfillmentType `gorm:"size:16;not null"` // fixed after creation
	LocationID      uint            `gorm:"index;not null"`
	AddressID       *uint
	PaymentCode     string          `gorm:"size:32"`
	OrderTotal      decimal.Decimal `gorm:"type:decimal(12,2)"`

	PaymentProcessed bool   `gorm:"index"`
	Status           string `gorm:"size:32"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (o *Order) IsPaymentProcessed() bool {
	return o.PaymentProcessed
}

func (o *Order) IsDeliveryType() bool {
	return o.FulfillmentType == FulfillmentDelivery
}

// URL builds the order-specific URL for a theme page, e.g. the success page.
func (o *Order) URL(page string) string {
	return "/" + page + "/" + o.Hash
}
