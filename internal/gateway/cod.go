package gateway

import (
	"context"
	"restaurant-checkout/internal/model"
)

// codGateway takes no payment online; the order is finalized immediately
// and settled at the door or the counter.
type codGateway struct{}

func NewCODGateway() Gateway {
	return &codGateway{}
}

func (g *codGateway) Code() string {
	return "cod"
}

func (g *codGateway) BeforeRenderPaymentForm(ctx context.Context, order *model.Order, page map[string]interface{}) {
}

func (g *codGateway) PaymentProfileExists(ctx context.Context, customer *model.Customer) (bool, error) {
	return false, nil
}

func (g *codGateway) DeletePaymentProfile(ctx context.Context, customer *model.Customer) error {
	return nil
}

func (g *codGateway) Process(ctx context.Context, order *model.Order, data map[string]interface{}) (*ProcessResult, error) {
	return nil, nil
}
