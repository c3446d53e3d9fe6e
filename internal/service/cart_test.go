package service

import (
	"context"
	"testing"
	"time"

	"restaurant-checkout/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openLocation() *model.Location {
	return &model.Location{
		ID:                1,
		Name:              "Downtown kitchen",
		IsOpen:            true,
		OpensAt:           "11:00",
		ClosesAt:          "23:00",
		AcceptsDelivery:   true,
		AcceptsPickup:     true,
		DeliveryRadiusKm:  8,
		MinimumOrderTotal: decimal.NewFromInt(15),
		DeliveryCharge:    decimal.NewFromFloat(3.50),
	}
}

func validatorAt(location *model.Location, clock string) *cartValidatorImpl {
	at, _ := time.Parse("15:04", clock)
	return &cartValidatorImpl{
		locationRepo: &mockLocationRepo{location: location},
		now:          func() time.Time { return at },
	}
}

func filledCart(fulfillment model.FulfillmentType) *model.Cart {
	return &model.Cart{
		ID:              "cart-1",
		LocationID:      1,
		FulfillmentType: fulfillment,
		Items: []model.CartItem{
			{Name: "Margherita", Quantity: 2, UnitPrice: decimal.NewFromInt(10)},
		},
	}
}

func TestValidateContents(t *testing.T) {
	v := validatorAt(openLocation(), "12:00")

	assert.NoError(t, v.ValidateContents(filledCart(model.FulfillmentPickup)))

	var secErr *SecurityError
	require.ErrorAs(t, v.ValidateContents(nil), &secErr)
	require.ErrorAs(t, v.ValidateContents(&model.Cart{ID: "cart-1"}), &secErr)
	assert.Contains(t, secErr.Reason, "cart is empty")
}

func TestValidateLocation(t *testing.T) {
	ctx := context.Background()

	t.Run("open location accepting the fulfillment type passes", func(t *testing.T) {
		v := validatorAt(openLocation(), "12:00")
		assert.NoError(t, v.ValidateLocation(ctx, filledCart(model.FulfillmentDelivery)))
	})

	t.Run("missing location blocks", func(t *testing.T) {
		v := validatorAt(nil, "12:00")
		var secErr *SecurityError
		require.ErrorAs(t, v.ValidateLocation(ctx, filledCart(model.FulfillmentPickup)), &secErr)
		assert.Contains(t, secErr.Reason, "no longer available")
	})

	t.Run("closed location blocks", func(t *testing.T) {
		location := openLocation()
		location.IsOpen = false
		v := validatorAt(location, "12:00")
		var secErr *SecurityError
		require.ErrorAs(t, v.ValidateLocation(ctx, filledCart(model.FulfillmentPickup)), &secErr)
		assert.Contains(t, secErr.Reason, "currently closed")
	})

	t.Run("fulfillment type the location does not offer blocks", func(t *testing.T) {
		location := openLocation()
		location.AcceptsDelivery = false
		v := validatorAt(location, "12:00")
		var secErr *SecurityError
		require.ErrorAs(t, v.ValidateLocation(ctx, filledCart(model.FulfillmentDelivery)), &secErr)
		assert.Contains(t, secErr.Reason, "does not offer delivery")

		assert.NoError(t, v.ValidateLocation(ctx, filledCart(model.FulfillmentPickup)))
	})
}

func TestValidateOrderTime(t *testing.T) {
	ctx := context.Background()
	cart := filledCart(model.FulfillmentPickup)

	t.Run("inside the window passes", func(t *testing.T) {
		assert.NoError(t, validatorAt(openLocation(), "12:30").ValidateOrderTime(ctx, cart))
	})

	t.Run("outside the window blocks", func(t *testing.T) {
		var secErr *SecurityError
		require.ErrorAs(t, validatorAt(openLocation(), "09:00").ValidateOrderTime(ctx, cart), &secErr)
		assert.Contains(t, secErr.Reason, "between 11:00 and 23:00")
	})

	t.Run("overnight window wraps midnight", func(t *testing.T) {
		location := openLocation()
		location.OpensAt = "18:00"
		location.ClosesAt = "02:00"

		assert.NoError(t, validatorAt(location, "01:00").ValidateOrderTime(ctx, cart))
		assert.NoError(t, validatorAt(location, "19:00").ValidateOrderTime(ctx, cart))
		assert.Error(t, validatorAt(location, "12:00").ValidateOrderTime(ctx, cart))
	})

	t.Run("no configured window always passes", func(t *testing.T) {
		location := openLocation()
		location.OpensAt = ""
		location.ClosesAt = ""
		assert.NoError(t, validatorAt(location, "03:00").ValidateOrderTime(ctx, cart))
	})
}

func TestCartTotalIsBelowMinimumOrder(t *testing.T) {
	ctx := context.Background()
	v := validatorAt(openLocation(), "12:00")

	below, err := v.CartTotalIsBelowMinimumOrder(ctx, filledCart(model.FulfillmentPickup))
	require.NoError(t, err)
	assert.False(t, below)

	small := filledCart(model.FulfillmentPickup)
	small.Items = []model.CartItem{{Name: "Garlic bread", Quantity: 1, UnitPrice: decimal.NewFromInt(5)}}

	below, err = v.CartTotalIsBelowMinimumOrder(ctx, small)
	require.NoError(t, err)
	assert.True(t, below)
}

func TestDeliveryChargeIsUnavailable(t *testing.T) {
	ctx := context.Background()

	location := openLocation()
	location.DeliveryRadiusKm = 0
	v := validatorAt(location, "12:00")

	unavailable, err := v.DeliveryChargeIsUnavailable(ctx, filledCart(model.FulfillmentDelivery))
	require.NoError(t, err)
	assert.True(t, unavailable)

	// pickup carts never need a delivery charge
	unavailable, err = v.DeliveryChargeIsUnavailable(ctx, filledCart(model.FulfillmentPickup))
	require.NoError(t, err)
	assert.False(t, unavailable)
}
