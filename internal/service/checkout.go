package service

import (
	"context"
	"restaurant-checkout/internal/config"
	"restaurant-checkout/internal/logger"
	"restaurant-checkout/internal/model"
	"restaurant-checkout/internal/repository"
	"strings"
)

// Session is the request-scoped checkout context: cart, customer and
// order are resolved once at request entry and passed through the whole
// workflow.
type Session struct {
	CartID   string
	Page     string
	Customer *model.Customer
	Cart     *model.Cart
	Order    *model.Order
}

// Response is the tagged outcome of a checkout operation. Exactly one of
// the groups is meaningful: a redirect, a partials map, a render state,
// or a flash-and-stay carrying the submitted input back to the form. All
// fields empty means "stay silently" (a gateway asked to halt).
type Response struct {
	RedirectURL string
	Partials    map[string]string
	State       *RenderState
	Flash       string
	Input       map[string]interface{}
}

// Checkout orchestrates the checkout workflow: idempotency guard,
// security gate, render-state preparation and the three form actions.
type Checkout struct {
	cfg          *config.Checkout
	orders       OrderManager
	validator    CartValidator
	cartRepo     repository.CartRepository
	customerRepo repository.CustomerRepository
	cartBox      CartSummaryRefresher // optional, may be nil
}

func NewCheckout(
	cfg *config.Checkout,
	orders OrderManager,
	validator CartValidator,
	cartRepo repository.CartRepository,
	customerRepo repository.CustomerRepository,
	cartBox CartSummaryRefresher,
) *Checkout {
	return &Checkout{
		cfg:          cfg,
		orders:       orders,
		validator:    validator,
		cartRepo:     cartRepo,
		customerRepo: customerRepo,
		cartBox:      cartBox,
	}
}

// NewSession resolves the cart and its order once for the request. A
// missing cart leaves both nil; the security gate turns that into the
// appropriate block downstream.
func (c *Checkout) NewSession(ctx context.Context, cartID, page string, customer *model.Customer) (*Session, error) {
	sess := &Session{
		CartID:   cartID,
		Page:     page,
		Customer: customer,
	}

	if cartID == "" {
		return sess, nil
	}

	cart, err := c.cartRepo.FindBySession(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return sess, nil
	}
	sess.Cart = cart

	order, err := c.orders.LoadOrCreateOrder(ctx, cart, customer)
	if err != nil {
		return nil, err
	}
	if !order.IsPaymentProcessed() {
		if err := c.orders.ApplyRequiredAttributes(ctx, cart, customer, order); err != nil {
			return nil, err
		}
	}
	sess.Order = order

	return sess, nil
}

// Enter handles a plain page view of the checkout form.
func (c *Checkout) Enter(ctx context.Context, sess *Session) (*Response, error) {
	if resp := c.processedRedirect(sess); resp != nil {
		return resp, nil
	}

	if blocked, reason := c.checkCheckoutSecurity(ctx, sess); blocked {
		return &Response{RedirectURL: pageURL(c.cfg.MenusPage), Flash: reason}, nil
	}

	state, err := c.prepareVars(ctx, sess)
	if err != nil {
		return nil, err
	}

	return &Response{State: state}, nil
}

// Partials runs each gateway's pre-render hook and renders the payments
// region for an AJAX refresh.
func (c *Checkout) Partials(ctx context.Context, sess *Session) (map[string]string, error) {
	if err := requireActiveOrder(sess); err != nil {
		return nil, err
	}

	state, err := c.prepareVars(ctx, sess)
	if err != nil {
		return nil, err
	}

	for _, descriptor := range state.PaymentGateways {
		descriptor.Gateway.BeforeRenderPaymentForm(ctx, sess.Order, state.Page)
	}

	html, err := renderPaymentsPartial(state)
	if err != nil {
		return nil, err
	}

	return map[string]string{PaymentsRegion: html}, nil
}

// ChoosePayment selects a payment method for the order, applies its fee
// and refreshes the payment and cart-summary regions.
func (c *Checkout) ChoosePayment(ctx context.Context, sess *Session, code string) (*Response, error) {
	if err := requireActiveOrder(sess); err != nil {
		return nil, err
	}

	descriptor, err := c.orders.GetPayment(ctx, code)
	if err != nil {
		return nil, err
	}
	if descriptor == nil {
		return nil, ErrInvalidPayment
	}

	if err := c.orders.ApplyCurrentPaymentFee(ctx, sess.Cart, sess.Order, descriptor.Method.Code); err != nil {
		return nil, err
	}

	partials, err := c.Partials(ctx, sess)
	if err != nil {
		return nil, err
	}
	c.mergeCartSummary(ctx, sess, partials)

	return &Response{Partials: partials}, nil
}

// DeletePaymentProfile removes the customer's stored payment profile for
// a gateway. Unknown gateways and missing profiles both fail before the
// gateway's delete operation is reached.
func (c *Checkout) DeletePaymentProfile(ctx context.Context, sess *Session, code string) (*Response, error) {
	if err := requireActiveOrder(sess); err != nil {
		return nil, err
	}

	descriptor, err := c.orders.GetPayment(ctx, code)
	if err != nil {
		return nil, err
	}
	if descriptor == nil || sess.Customer == nil {
		return nil, ErrInvalidPayment
	}

	exists, err := descriptor.Gateway.PaymentProfileExists(ctx, sess.Customer)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrInvalidPayment
	}

	if err := descriptor.Gateway.DeletePaymentProfile(ctx, sess.Customer); err != nil {
		return nil, err
	}

	partials, err := c.Partials(ctx, sess)
	if err != nil {
		return nil, err
	}
	c.mergeCartSummary(ctx, sess, partials)

	return &Response{Partials: partials}, nil
}

// Confirm runs the full submission workflow. Failures of any step come
// back as a flash-warning response carrying the submitted input; they
// never leave the order in a non-retryable state.
func (c *Checkout) Confirm(ctx context.Context, sess *Session, data map[string]interface{}) (*Response, error) {
	if resp := c.processedRedirect(sess); resp != nil {
		return resp, nil
	}

	if data == nil {
		data = map[string]interface{}{}
	}
	data["cancelPage"] = c.cfg.RedirectPage
	data["successPage"] = c.cfg.SuccessPage

	resp, err := c.confirm(ctx, sess, data)
	if err != nil {
		logger.Warn("checkout confirm failed", "cart", sess.CartID, "err", err)
		return &Response{Flash: err.Error(), Input: data}, nil
	}

	return resp, nil
}

// OrderForSuccessPage resolves the order behind a success-page hash.
// Nil means no such order; the handler turns that into a 404.
func (c *Checkout) OrderForSuccessPage(ctx context.Context, hash string) (*model.Order, error) {
	if hash == "" {
		return nil, nil
	}
	return c.orders.FindOrderByHash(ctx, hash)
}

func (c *Checkout) confirm(ctx context.Context, sess *Session, data map[string]interface{}) (*Response, error) {
	data, err := c.resolveDeliveryAddress(ctx, data)
	if err != nil {
		return nil, err
	}

	if err := c.validateCheckoutSecurity(ctx, sess); err != nil {
		return nil, err
	}

	order := sess.Order
	if order == nil {
		return nil, &SecurityError{Reason: "there is no active order for this session"}
	}

	rules := CheckoutRules(order.FulfillmentType)
	if err := ValidateData(ctx, data, rules, c.emailIsTaken(sess)); err != nil {
		return nil, err
	}

	if order.IsDeliveryType() {
		fields, _ := data["address"].(map[string]interface{})
		if fields == nil {
			fields = map[string]interface{}{}
		}
		if _, ok := fields["address_id"]; !ok {
			if id, ok := data["address_id"]; ok {
				fields["address_id"] = id
			}
		}
		if err := c.orders.ValidateDeliveryAddress(ctx, order, fields); err != nil {
			return nil, err
		}
	}

	if err := c.orders.SaveOrder(ctx, order, data); err != nil {
		return nil, err
	}

	result, err := c.orders.ProcessPayment(ctx, order, data)
	if err != nil {
		return nil, err
	}

	if result != nil {
		if result.Halted {
			// The gateway wants another round-trip with the client;
			// stay on the page with no message.
			return &Response{}, nil
		}
		if result.RedirectURL != "" {
			return &Response{RedirectURL: result.RedirectURL}, nil
		}
	}

	// Payment may have finalized the order synchronously.
	if resp := c.processedRedirect(sess); resp != nil {
		return resp, nil
	}

	return &Response{}, nil
}

// requireActiveOrder guards the AJAX entry points: a session without a
// cart has no order to act on.
func requireActiveOrder(sess *Session) error {
	if sess.Cart == nil || sess.Order == nil {
		return &SecurityError{Reason: "there is no active order for this session"}
	}
	return nil
}

// processedRedirect is the idempotency guard: once an order is processed
// every entry point redirects away from the checkout form.
func (c *Checkout) processedRedirect(sess *Session) *Response {
	if sess.Order == nil || !sess.Order.IsPaymentProcessed() {
		return nil
	}

	redirectURL := sess.Order.URL(c.cfg.SuccessPage)
	if sess.Page == c.cfg.SuccessPage {
		redirectURL = pageURL(c.cfg.RedirectPage)
	}

	return &Response{RedirectURL: redirectURL}
}

// validateCheckoutSecurity is the strict gate run before confirmation;
// the first violation propagates. The check order is fixed.
func (c *Checkout) validateCheckoutSecurity(ctx context.Context, sess *Session) error {
	if err := c.validator.ValidateContents(sess.Cart); err != nil {
		return err
	}
	if err := c.orders.ValidateCustomer(sess.Customer); err != nil {
		return err
	}
	if err := c.validator.ValidateLocation(ctx, sess.Cart); err != nil {
		return err
	}
	return c.validator.ValidateOrderTime(ctx, sess.Cart)
}

// checkCheckoutSecurity is the tolerant pre-render gate: any failure
// becomes a blocking redirect reason instead of an error.
func (c *Checkout) checkCheckoutSecurity(ctx context.Context, sess *Session) (bool, string) {
	if err := c.validateCheckoutSecurity(ctx, sess); err != nil {
		return true, err.Error()
	}

	below, err := c.validator.CartTotalIsBelowMinimumOrder(ctx, sess.Cart)
	if err != nil {
		logger.Warn("minimum order check failed", "cart", sess.CartID, "err", err)
		return true, "we could not verify your order, please try again"
	}
	if below {
		return true, "your order does not meet the minimum order total"
	}

	unavailable, err := c.validator.DeliveryChargeIsUnavailable(ctx, sess.Cart)
	if err != nil {
		logger.Warn("delivery charge check failed", "cart", sess.CartID, "err", err)
		return true, "we could not verify your order, please try again"
	}
	if unavailable {
		return true, "delivery is currently unavailable for your address"
	}

	return false, ""
}

func (c *Checkout) prepareVars(ctx context.Context, sess *Session) (*RenderState, error) {
	gateways, err := c.orders.GetPaymentGateways(ctx, sess.Order)
	if err != nil {
		return nil, err
	}

	return &RenderState{
		ShowCountryField:  c.cfg.ShowCountryField,
		ShowPostcodeField: c.cfg.ShowPostcodeField,
		ShowAddress2Field: c.cfg.ShowAddress2Field,
		ShowCityField:     c.cfg.ShowCityField,
		ShowStateField:    c.cfg.ShowStateField,
		AgreeTermsSlug:    pageURL(c.cfg.AgreeTermsPage),
		RedirectPage:      c.cfg.RedirectPage,
		MenusPage:         c.cfg.MenusPage,
		SuccessPage:       c.cfg.SuccessPage,

		ChoosePaymentHandler:        "onChoosePayment",
		DeletePaymentProfileHandler: "onDeletePaymentProfile",
		ConfirmHandler:              "onConfirm",

		Order:           sess.Order,
		PaymentGateways: gateways,
		Page:            map[string]interface{}{},
	}, nil
}

// resolveDeliveryAddress overlays a saved address onto the submitted data
// and fills the configured default country when none was given.
func (c *Checkout) resolveDeliveryAddress(ctx context.Context, data map[string]interface{}) (map[string]interface{}, error) {
	if id, ok := toUint(data["address_id"]); ok && id > 0 {
		address, err := c.orders.FindDeliveryAddress(ctx, id)
		if err != nil {
			return nil, err
		}
		if address != nil {
			data["address"] = address.FormData()
		}
	}

	if fields, ok := data["address"].(map[string]interface{}); ok {
		if _, ok := fields["country_id"]; !ok {
			fields["country_id"] = c.cfg.DefaultCountryID
		}
	}

	return data, nil
}

// emailIsTaken builds the uniqueness check for the email rule; the
// signed-in customer's own address never counts as taken.
func (c *Checkout) emailIsTaken(sess *Session) UniqueCheck {
	return func(ctx context.Context, field, value string) (bool, error) {
		if sess.Customer != nil && strings.EqualFold(sess.Customer.Email, value) {
			return false, nil
		}
		return c.customerRepo.EmailExists(ctx, value)
	}
}

func (c *Checkout) mergeCartSummary(ctx context.Context, sess *Session, partials map[string]string) {
	if c.cartBox == nil {
		return
	}

	extra, err := c.cartBox.FetchPartials(ctx, sess.Cart, sess.Order)
	if err != nil {
		logger.Warn("cart summary refresh failed", "cart", sess.CartID, "err", err)
		return
	}
	for region, html := range extra {
		partials[region] = html
	}
}

func pageURL(page string) string {
	return "/" + page
}
