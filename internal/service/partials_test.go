package service

import (
	"context"
	"testing"

	"restaurant-checkout/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartBox_RegionFollowsAlias(t *testing.T) {
	cart := &model.Cart{
		Items: []model.CartItem{
			{Name: "Margherita", Quantity: 1, UnitPrice: decimal.NewFromInt(12)},
		},
	}
	order := &model.Order{OrderTotal: decimal.NewFromInt(12)}

	partials, err := NewCartBox("sideCart").FetchPartials(context.Background(), cart, order)
	require.NoError(t, err)
	require.Contains(t, partials, `[data-partial="sideCart"]`)
	assert.Contains(t, partials[`[data-partial="sideCart"]`], "Margherita")

	partials, err = NewCartBox("cartBox").FetchPartials(context.Background(), cart, order)
	require.NoError(t, err)
	assert.Contains(t, partials, CartSummaryRegion)
}
