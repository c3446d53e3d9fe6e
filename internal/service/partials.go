package service

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"restaurant-checkout/internal/gateway"
	"restaurant-checkout/internal/model"
)

// PaymentsRegion is the page region selector the payments partial
// replaces on an AJAX refresh.
const PaymentsRegion = `[data-partial="checkoutPayments"]`

// CartSummaryRegion is the region the default cart summary collaborator
// refreshes (alias "cartBox").
const CartSummaryRegion = `[data-partial="cartBox"]`

// RenderState is the per-request view model for the checkout page. It is
// rebuilt on every request and never persisted.
type RenderState struct {
	ShowCountryField  bool   `json:"showCountryField"`
	ShowPostcodeField bool   `json:"showPostcodeField"`
	ShowAddress2Field bool   `json:"showAddress2Field"`
	ShowCityField     bool   `json:"showCityField"`
	ShowStateField    bool   `json:"showStateField"`
	AgreeTermsSlug    string `json:"agreeTermsSlug"`
	RedirectPage      string `json:"redirectPage"`
	MenusPage         string `json:"menusPage"`
	SuccessPage       string `json:"successPage"`

	ChoosePaymentHandler        string `json:"choosePaymentEventHandler"`
	DeletePaymentProfileHandler string `json:"deletePaymentEventHandler"`
	ConfirmHandler              string `json:"confirmCheckoutEventHandler"`

	Order           *model.Order          `json:"order"`
	PaymentGateways []*gateway.Descriptor `json:"paymentGateways"`

	// Page collects gateway pre-render vars (client tokens etc.).
	Page map[string]interface{} `json:"page"`
}

var paymentsTmpl = template.Must(template.New("payments").Parse(`<ul class="list-group payments">
{{- range .PaymentGateways}}
  <li class="list-group-item{{if eq .Method.Code $.Order.PaymentCode}} active{{end}}" data-payment-code="{{.Method.Code}}">
    <strong>{{.Method.Name}}</strong>
    <span class="help-block">{{.Method.Description}}</span>
  </li>
{{- end}}
</ul>
`))

func renderPaymentsPartial(state *RenderState) (string, error) {
	var buf bytes.Buffer
	if err := paymentsTmpl.Execute(&buf, state); err != nil {
		return "", fmt.Errorf("render payments partial: %w", err)
	}
	return buf.String(), nil
}

// CartSummaryRefresher is the optional sibling component whose partials
// are merged into payment-action responses, so the cart totals shown next
// to the form track fee changes.
type CartSummaryRefresher interface {
	FetchPartials(ctx context.Context, cart *model.Cart, order *model.Order) (map[string]string, error)
}

var cartSummaryTmpl = template.Must(template.New("cartBox").Parse(`<div class="cart-box">
  <ul>
{{- range .Cart.Items}}
    <li>{{.Quantity}} &times; {{.Name}}</li>
{{- end}}
  </ul>
  <p class="cart-total">Total: {{.Total}}</p>
</div>
`))

type cartBox struct {
	region string
}

// NewCartBox builds the cart summary collaborator; the alias names the
// page region its partial replaces.
func NewCartBox(alias string) CartSummaryRefresher {
	return &cartBox{region: fmt.Sprintf("[data-partial=%q]", alias)}
}

func (b *cartBox) FetchPartials(ctx context.Context, cart *model.Cart, order *model.Order) (map[string]string, error) {
	var buf bytes.Buffer
	err := cartSummaryTmpl.Execute(&buf, map[string]interface{}{
		"Cart":  cart,
		"Total": order.OrderTotal.StringFixed(2),
	})
	if err != nil {
		return nil, fmt.Errorf("render cart summary partial: %w", err)
	}

	return map[string]string{b.region: buf.String()}, nil
}
