package gateway

import (
	"context"
	"fmt"
	"restaurant-checkout/internal/client"
	"restaurant-checkout/internal/model"
)

// paylinkGateway hands the customer off to a hosted payment page; the
// order stays unprocessed until the provider confirms.
type paylinkGateway struct {
	paylink  client.PaylinkClient
	baseURL  string
	currency string
}

func NewPaylinkGateway(paylink client.PaylinkClient, baseURL string) Gateway {
	return &paylinkGateway{
		paylink:  paylink,
		baseURL:  baseURL,
		currency: "USD",
	}
}

func (g *paylinkGateway) Code() string {
	return "paylink"
}

func (g *paylinkGateway) BeforeRenderPaymentForm(ctx context.Context, order *model.Order, page map[string]interface{}) {
}

func (g *paylinkGateway) PaymentProfileExists(ctx context.Context, customer *model.Customer) (bool, error) {
	return false, nil
}

func (g *paylinkGateway) DeletePaymentProfile(ctx context.Context, customer *model.Customer) error {
	return nil
}

func (g *paylinkGateway) Process(ctx context.Context, order *model.Order, data map[string]interface{}) (*ProcessResult, error) {
	successPage, _ := data["successPage"].(string)
	cancelPage, _ := data["cancelPage"].(string)

	resp, err := g.paylink.CreatePaymentLink(ctx, &client.CreatePaymentLinkRequest{
		Reference: order.Hash,
		Amount:    order.OrderTotal,
		Currency:  g.currency,
		ReturnURL: g.baseURL + order.URL(successPage),
		CancelURL: g.baseURL + "/" + cancelPage,
	})
	if err != nil {
		return nil, fmt.Errorf("create payment link: %w", err)
	}

	return &ProcessResult{RedirectURL: resp.ApprovalURL}, nil
}
