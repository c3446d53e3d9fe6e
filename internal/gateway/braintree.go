package gateway

import (
	"context"
	"fmt"
	"restaurant-checkout/internal/client"
	"restaurant-checkout/internal/model"
	"restaurant-checkout/internal/repository"
)

// braintreeGateway charges cards through Braintree. Returning customers
// can pay with a vaulted token; first-time card payments need a frontend
// nonce, and the card is vaulted when the customer asks to save it.
type braintreeGateway struct {
	bt          client.BraintreeClient
	paymentRepo repository.PaymentRepository
}

func NewBraintreeGateway(bt client.BraintreeClient, paymentRepo repository.PaymentRepository) Gateway {
	return &braintreeGateway{
		bt:          bt,
		paymentRepo: paymentRepo,
	}
}

func (g *braintreeGateway) Code() string {
	return "braintree"
}

func (g *braintreeGateway) BeforeRenderPaymentForm(ctx context.Context, order *model.Order, page map[string]interface{}) {
	page["braintreeTokenizationEnabled"] = true
	if order.CustomerID != nil {
		profile, err := g.paymentRepo.FindProfile(ctx, *order.CustomerID, g.Code())
		if err == nil && profile != nil {
			page["braintreeHasSavedCard"] = true
		}
	}
}

func (g *braintreeGateway) PaymentProfileExists(ctx context.Context, customer *model.Customer) (bool, error) {
	if customer == nil {
		return false, nil
	}
	profile, err := g.paymentRepo.FindProfile(ctx, customer.ID, g.Code())
	if err != nil {
		return false, err
	}
	return profile != nil, nil
}

func (g *braintreeGateway) DeletePaymentProfile(ctx context.Context, customer *model.Customer) error {
	profile, err := g.paymentRepo.FindProfile(ctx, customer.ID, g.Code())
	if err != nil {
		return err
	}
	if profile == nil {
		return fmt.Errorf("no stored payment profile for customer %d", customer.ID)
	}

	if err := g.bt.DeletePaymentToken(ctx, profile.ProfileRef); err != nil {
		return fmt.Errorf("delete vaulted payment method: %w", err)
	}

	return g.paymentRepo.DeleteProfile(ctx, customer.ID, g.Code())
}

func (g *braintreeGateway) Process(ctx context.Context, order *model.Order, data map[string]interface{}) (*ProcessResult, error) {
	// Vaulted token first: returning customers pay without a new nonce.
	if order.CustomerID != nil {
		profile, err := g.paymentRepo.FindProfile(ctx, *order.CustomerID, g.Code())
		if err != nil {
			return nil, fmt.Errorf("look up payment profile: %w", err)
		}
		if profile != nil {
			if _, err := g.bt.ChargeToken(ctx, profile.ProfileRef, order.OrderTotal); err != nil {
				return nil, fmt.Errorf("charge saved card: %w", err)
			}
			return nil, nil
		}
	}

	nonce, _ := data["payment_nonce"].(string)
	if nonce == "" {
		// The payment form has not produced a nonce yet; the frontend
		// tokenizes and resubmits.
		return &ProcessResult{Halted: true}, nil
	}

	saveCard := false
	if v, ok := data["save_card"].(bool); ok {
		saveCard = v && order.CustomerID != nil
	}

	_, token, err := g.bt.ChargeNonce(ctx, nonce, order.OrderTotal, saveCard)
	if err != nil {
		return nil, fmt.Errorf("charge card: %w", err)
	}

	if saveCard && token != "" {
		err = g.paymentRepo.UpsertProfile(ctx, &model.PaymentProfile{
			CustomerID: *order.CustomerID,
			Code:       g.Code(),
			ProfileRef: token,
		})
		if err != nil {
			return nil, fmt.Errorf("save payment profile: %w", err)
		}
	}

	return nil, nil
}
