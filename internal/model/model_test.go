package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestPaymentMethodFee(t *testing.T) {
	flat := &PaymentMethod{FeeAmount: decimal.NewFromFloat(0.30)}
	assert.True(t, flat.Fee(decimal.NewFromInt(20)).Equal(decimal.NewFromFloat(0.30)))

	percent := &PaymentMethod{FeePercent: decimal.NewFromFloat(1.5)}
	assert.True(t, percent.Fee(decimal.NewFromInt(20)).Equal(decimal.NewFromFloat(0.30)))

	both := &PaymentMethod{FeeAmount: decimal.NewFromFloat(0.30), FeePercent: decimal.NewFromFloat(1.5)}
	assert.True(t, both.Fee(decimal.NewFromInt(20)).Equal(decimal.NewFromFloat(0.60)))

	// rounded to cents
	odd := &PaymentMethod{FeePercent: decimal.NewFromFloat(1.5)}
	assert.True(t, odd.Fee(decimal.NewFromFloat(19.99)).Equal(decimal.NewFromFloat(0.30)))
}

func TestCartSubtotal(t *testing.T) {
	cart := &Cart{
		Items: []CartItem{
			{Name: "Margherita", Quantity: 2, UnitPrice: decimal.NewFromInt(10)},
			{Name: "Garlic bread", Quantity: 1, UnitPrice: decimal.NewFromFloat(4.50)},
		},
	}

	assert.True(t, cart.Subtotal().Equal(decimal.NewFromFloat(24.50)))
	assert.False(t, cart.IsEmpty())
	assert.True(t, (&Cart{}).IsEmpty())
}

func TestAddressFormData(t *testing.T) {
	country := uint(1)
	address := &Address{
		ID:        5,
		Address1:  "12 Elm Street",
		City:      "Springfield",
		Postcode:  "62704",
		CountryID: &country,
	}

	data := address.FormData()
	assert.Equal(t, uint(5), data["address_id"])
	assert.Equal(t, "12 Elm Street", data["address_1"])
	assert.Equal(t, uint(1), data["country_id"])

	address.CountryID = nil
	_, ok := address.FormData()["country_id"]
	assert.False(t, ok)
}

func TestOrderURL(t *testing.T) {
	order := &Order{Hash: "abc-123"}
	assert.Equal(t, "/checkout/success/abc-123", order.URL("checkout/success"))
}
