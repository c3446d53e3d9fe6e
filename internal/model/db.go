package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Customer struct {
	ID        uint   `gorm:"primaryKey"`
	FirstName string `gorm:"size:48"`
	LastName  string `gorm:"size:48"`
	Email     string `gorm:"size:96;uniqueIndex"`
	Telephone string `gorm:"size:32"`
	IsGuest   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Location struct {
	ID              uint   `gorm:"primaryKey"`
	Name            string `gorm:"size:128;not null"`
	IsOpen          bool
	OpensAt         string `gorm:"size:5"` // "11:00"
	ClosesAt        string `gorm:"size:5"` // "23:00"
	AcceptsDelivery bool
	AcceptsPickup   bool
	// Addresses beyond this distance from the location fail the
	// delivery serviceability check.
	DeliveryRadiusKm  float64
	MinimumOrderTotal decimal.Decimal `gorm:"type:decimal(12,2)"`
	DeliveryCharge    decimal.Decimal `gorm:"type:decimal(12,2)"`
}

type Address struct {
	ID         uint   `gorm:"primaryKey"`
	CustomerID *uint  `gorm:"index"`
	Address1   string `gorm:"size:128;not null"`
	Address2   string `gorm:"size:128"`
	City       string `gorm:"size:128"`
	State      string `gorm:"size:128"`
	Postcode   string `gorm:"size:16"`
	CountryID  *uint
	// Rough distance from the serving location, filled by the geocoder
	// when the address is saved. Zero means unknown.
	DistanceKm float64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// FormData flattens the address into the shape the checkout form submits,
// used to overlay a saved address onto the request payload.
func (a *Address) FormData() map[string]interface{} {
	data := map[string]interface{}{
		"address_id": a.ID,
		"address_1":  a.Address1,
		"address_2":  a.Address2,
		"city":       a.City,
		"state":      a.State,
		"postcode":   a.Postcode,
	}
	if a.CountryID != nil {
		data["country_id"] = *a.CountryID
	}
	return data
}

type PaymentMethod struct {
	ID               uint            `gorm:"primaryKey"`
	Code             string          `gorm:"size:32;uniqueIndex;not null"`
	Name             string          `gorm:"size:128;not null"`
	Description      string          `gorm:"size:255"`
	FeeAmount        decimal.Decimal `gorm:"type:decimal(12,2)"`
	FeePercent       decimal.Decimal `gorm:"type:decimal(5,2)"`
	SupportsProfiles bool
	Enabled          bool `gorm:"index"`
}

// Fee computes the surcharge this method adds on top of the cart subtotal.
func (m *PaymentMethod) Fee(subtotal decimal.Decimal) decimal.Decimal {
	fee := m.FeeAmount
	if !m.FeePercent.IsZero() {
		fee = fee.Add(subtotal.Mul(m.FeePercent).Div(decimal.NewFromInt(100)))
	}
	return fee.Round(2)
}

type PaymentProfile struct {
	ID         uint   `gorm:"primaryKey"`
	CustomerID uint   `gorm:"index:idx_customer_code,unique;not null"`
	Code       string `gorm:"size:32;index:idx_customer_code,unique;not null"`
	ProfileRef string `gorm:"size:128;not null"` // gateway-side vault token
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
