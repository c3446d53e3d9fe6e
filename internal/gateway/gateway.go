package gateway

import (
	"context"
	"restaurant-checkout/internal/model"
)

// ProcessResult is what a gateway reports back from Process. A nil result
// means the payment completed synchronously and the order can be finalized.
type ProcessResult struct {
	// Halted means the gateway needs further client-side interaction
	// (e.g. card tokenization); the checkout stays on the page silently.
	Halted bool
	// RedirectURL sends the customer to an external payment page; the
	// provider confirms the payment out of band.
	RedirectURL string
}

type Gateway interface {
	Code() string

	// BeforeRenderPaymentForm lets the gateway add whatever its payment
	// form needs (client tokens, saved-card hints) to the page vars.
	BeforeRenderPaymentForm(ctx context.Context, order *model.Order, page map[string]interface{})

	PaymentProfileExists(ctx context.Context, customer *model.Customer) (bool, error)
	DeletePaymentProfile(ctx context.Context, customer *model.Customer) error

	Process(ctx context.Context, order *model.Order, data map[string]interface{}) (*ProcessResult, error)
}

// Descriptor pairs a configured payment method row with the gateway that
// processes it; this is what the checkout page enumerates.
type Descriptor struct {
	Method  *model.PaymentMethod
	Gateway Gateway
}

type Registry struct {
	gateways map[string]Gateway
}

func NewRegistry(gateways ...Gateway) *Registry {
	byCode := make(map[string]Gateway, len(gateways))
	for _, g := range gateways {
		byCode[g.Code()] = g
	}
	return &Registry{gateways: byCode}
}

func (r *Registry) Lookup(code string) (Gateway, bool) {
	g, ok := r.gateways[code]
	return g, ok
}

// Bind matches enabled payment method rows to registered gateways;
// methods without a processor are skipped.
func (r *Registry) Bind(methods []*model.PaymentMethod) []*Descriptor {
	descriptors := make([]*Descriptor, 0, len(methods))
	for _, m := range methods {
		g, ok := r.gateways[m.Code]
		if !ok {
			continue
		}
		descriptors = append(descriptors, &Descriptor{Method: m, Gateway: g})
	}
	return descriptors
}
