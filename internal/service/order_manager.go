package service

import (
	"context"
	"fmt"
	"restaurant-checkout/internal/config"
	"restaurant-checkout/internal/gateway"
	"restaurant-checkout/internal/model"
	"restaurant-checkout/internal/repository"
	"strconv"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderManager owns the order lifecycle consumed by the checkout
// workflow: load-or-create, attribute application, address handling,
// persistence and payment dispatch.
type OrderManager interface {
	LoadOrCreateOrder(ctx context.Context, cart *model.Cart, customer *model.Customer) (*model.Order, error)
	FindOrderByHash(ctx context.Context, hash string) (*model.Order, error)
	ApplyRequiredAttributes(ctx context.Context, cart *model.Cart, customer *model.Customer, order *model.Order) error
	ValidateCustomer(customer *model.Customer) error
	GetPaymentGateways(ctx context.Context, order *model.Order) ([]*gateway.Descriptor, error)
	GetPayment(ctx context.Context, code string) (*gateway.Descriptor, error)
	ApplyCurrentPaymentFee(ctx context.Context, cart *model.Cart, order *model.Order, code string) error
	FindDeliveryAddress(ctx context.Context, addressID uint) (*model.Address, error)
	ValidateDeliveryAddress(ctx context.Context, order *model.Order, fields map[string]interface{}) error
	SaveOrder(ctx context.Context, order *model.Order, data map[string]interface{}) error
	ProcessPayment(ctx context.Context, order *model.Order, data map[string]interface{}) (*gateway.ProcessResult, error)
}

type orderManagerImpl struct {
	db           *gorm.DB
	cfg          *config.Checkout
	orderRepo    repository.OrderRepository
	addressRepo  repository.AddressRepository
	locationRepo repository.LocationRepository
	paymentRepo  repository.PaymentRepository
	registry     *gateway.Registry
}

func NewOrderManager(
	db *gorm.DB,
	cfg *config.Checkout,
	orderRepo repository.OrderRepository,
	addressRepo repository.AddressRepository,
	locationRepo repository.LocationRepository,
	paymentRepo repository.PaymentRepository,
	registry *gateway.Registry,
) OrderManager {
	return &orderManagerImpl{
		db:           db,
		cfg:          cfg,
		orderRepo:    orderRepo,
		addressRepo:  addressRepo,
		locationRepo: locationRepo,
		paymentRepo:  paymentRepo,
		registry:     registry,
	}
}

// LoadOrCreateOrder returns the one order tied to the cart session,
// creating a draft when none exists yet. The draft is persisted right
// away so concurrent confirms race on a single row.
func (m *orderManagerImpl) LoadOrCreateOrder(ctx context.Context, cart *model.Cart, customer *model.Customer) (*model.Order, error) {
	order, err := m.orderRepo.FindByCartID(ctx, cart.ID)
	if err != nil {
		return nil, fmt.Errorf("load order for cart %s: %w", cart.ID, err)
	}
	if order != nil {
		return order, nil
	}

	order = &model.Order{
		Hash:            uuid.NewString(),
		CartID:          cart.ID,
		FulfillmentType: cart.FulfillmentType,
		LocationID:      cart.LocationID,
		Status:          model.OrderStatusDraft,
	}
	if customer != nil {
		order.CustomerID = &customer.ID
	}

	if err := m.orderRepo.Create(ctx, m.db, order); err != nil {
		return nil, fmt.Errorf("create draft order: %w", err)
	}

	return order, nil
}

func (m *orderManagerImpl) FindOrderByHash(ctx context.Context, hash string) (*model.Order, error) {
	return m.orderRepo.FindByHash(ctx, hash)
}

// ApplyRequiredAttributes refreshes the attributes the checkout derives
// from the cart and the signed-in customer. Fulfillment type is fixed at
// creation and never rewritten here.
func (m *orderManagerImpl) ApplyRequiredAttributes(ctx context.Context, cart *model.Cart, customer *model.Customer, order *model.Order) error {
	if order.IsPaymentProcessed() {
		return nil
	}

	order.LocationID = cart.LocationID

	total, err := m.computeTotal(ctx, cart, order.PaymentCode)
	if err != nil {
		return err
	}
	order.OrderTotal = total

	if customer != nil && order.Email == "" {
		order.FirstName = customer.FirstName
		order.LastName = customer.LastName
		order.Email = customer.Email
		order.Telephone = customer.Telephone
	}

	return m.orderRepo.Save(ctx, m.db, order)
}

func (m *orderManagerImpl) ValidateCustomer(customer *model.Customer) error {
	if customer == nil && !m.cfg.AllowGuest {
		return &CustomerInvalidError{Reason: "please sign in or register to place an order"}
	}
	return nil
}

// GetPaymentGateways enumerates the gateways available to the order.
// Zero-total orders take no payment, so the list is empty.
func (m *orderManagerImpl) GetPaymentGateways(ctx context.Context, order *model.Order) ([]*gateway.Descriptor, error) {
	if !order.OrderTotal.IsPositive() {
		return nil, nil
	}

	methods, err := m.paymentRepo.ListEnabled(ctx)
	if err != nil {
		return nil, fmt.Errorf("list payment methods: %w", err)
	}

	return m.registry.Bind(methods), nil
}

func (m *orderManagerImpl) GetPayment(ctx context.Context, code string) (*gateway.Descriptor, error) {
	method, err := m.paymentRepo.FindByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("find payment method %q: %w", code, err)
	}
	if method == nil {
		return nil, nil
	}

	g, ok := m.registry.Lookup(method.Code)
	if !ok {
		return nil, nil
	}

	return &gateway.Descriptor{Method: method, Gateway: g}, nil
}

// ApplyCurrentPaymentFee selects a payment method on the order and
// recomputes the total from the cart subtotal, so re-selecting never
// stacks fees.
func (m *orderManagerImpl) ApplyCurrentPaymentFee(ctx context.Context, cart *model.Cart, order *model.Order, code string) error {
	order.PaymentCode = code

	total, err := m.computeTotal(ctx, cart, code)
	if err != nil {
		return err
	}
	order.OrderTotal = total

	return m.orderRepo.Save(ctx, m.db, order)
}

func (m *orderManagerImpl) FindDeliveryAddress(ctx context.Context, addressID uint) (*model.Address, error) {
	return m.addressRepo.FindByID(ctx, addressID)
}

// ValidateDeliveryAddress checks serviceability, not format: the rule set
// has already validated field shapes by the time this runs.
func (m *orderManagerImpl) ValidateDeliveryAddress(ctx context.Context, order *model.Order, fields map[string]interface{}) error {
	location, err := m.locationRepo.FindByID(ctx, order.LocationID)
	if err != nil {
		return fmt.Errorf("load location %d: %w", order.LocationID, err)
	}
	if location == nil || !location.AcceptsDelivery {
		return &AddressInvalidError{Reason: "the selected location does not deliver"}
	}

	addressID, ok := toUint(fields["address_id"])
	if !ok || addressID == 0 {
		return nil
	}

	address, err := m.addressRepo.FindByID(ctx, addressID)
	if err != nil {
		return fmt.Errorf("load address %d: %w", addressID, err)
	}
	if address == nil {
		return &AddressInvalidError{Reason: "the selected address could not be found"}
	}

	if address.DistanceKm > 0 && address.DistanceKm > location.DeliveryRadiusKm {
		return &AddressInvalidError{Reason: "the selected address is outside our delivery area"}
	}

	return nil
}

// SaveOrder persists the submitted checkout fields and, for delivery
// orders, the resolved address, in one transaction.
func (m *orderManagerImpl) SaveOrder(ctx context.Context, order *model.Order, data map[string]interface{}) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if v, ok := data["first_name"].(string); ok {
			order.FirstName = v
		}
		if v, ok := data["last_name"].(string); ok {
			order.LastName = v
		}
		if v, ok := data["email"].(string); ok {
			order.Email = v
		}
		if v, ok := data["telephone"].(string); ok {
			order.Telephone = v
		}
		if v, ok := data["comment"].(string); ok {
			order.Comment = v
		}
		if v, ok := data["payment"].(string); ok && v != "" {
			order.PaymentCode = v
		}

		if order.IsDeliveryType() {
			if fields, ok := data["address"].(map[string]interface{}); ok {
				address := addressFromFields(fields)
				address.CustomerID = order.CustomerID
				if err := m.addressRepo.Save(ctx, tx, address); err != nil {
					return fmt.Errorf("save delivery address: %w", err)
				}
				order.AddressID = &address.ID
			}
		}

		if err := m.orderRepo.Save(ctx, tx, order); err != nil {
			return fmt.Errorf("save order: %w", err)
		}
		return nil
	})
}

// ProcessPayment dispatches to the selected gateway. A nil gateway result
// means the charge completed synchronously; the processed flag is then
// set through a compare-and-set so a racing confirm cannot finalize the
// same order twice.
func (m *orderManagerImpl) ProcessPayment(ctx context.Context, order *model.Order, data map[string]interface{}) (*gateway.ProcessResult, error) {
	descriptor, err := m.GetPayment(ctx, order.PaymentCode)
	if err != nil {
		return nil, err
	}
	if descriptor == nil {
		return nil, ErrInvalidPayment
	}

	result, err := descriptor.Gateway.Process(ctx, order, data)
	if err != nil {
		return nil, fmt.Errorf("process payment via %s: %w", order.PaymentCode, err)
	}
	if result != nil {
		return result, nil
	}

	if _, err := m.orderRepo.MarkPaymentProcessed(ctx, order.ID); err != nil {
		return nil, fmt.Errorf("finalize order %d: %w", order.ID, err)
	}
	// Either this confirm won the flag or another one already had; the
	// order is processed in both cases.
	order.PaymentProcessed = true
	order.Status = model.OrderStatusReceived

	return nil, nil
}

func (m *orderManagerImpl) computeTotal(ctx context.Context, cart *model.Cart, paymentCode string) (decimal.Decimal, error) {
	total := cart.Subtotal()

	if cart.FulfillmentType == model.FulfillmentDelivery {
		location, err := m.locationRepo.FindByID(ctx, cart.LocationID)
		if err != nil {
			return decimal.Zero, fmt.Errorf("load location %d: %w", cart.LocationID, err)
		}
		if location != nil {
			total = total.Add(location.DeliveryCharge)
		}
	}

	if paymentCode != "" {
		method, err := m.paymentRepo.FindByCode(ctx, paymentCode)
		if err != nil {
			return decimal.Zero, fmt.Errorf("find payment method %q: %w", paymentCode, err)
		}
		if method != nil {
			total = total.Add(method.Fee(cart.Subtotal()))
		}
	}

	return total, nil
}

func addressFromFields(fields map[string]interface{}) *model.Address {
	address := &model.Address{}
	if id, ok := toUint(fields["address_id"]); ok {
		address.ID = id
	}
	if v, ok := fields["address_1"].(string); ok {
		address.Address1 = v
	}
	if v, ok := fields["address_2"].(string); ok {
		address.Address2 = v
	}
	if v, ok := fields["city"].(string); ok {
		address.City = v
	}
	if v, ok := fields["state"].(string); ok {
		address.State = v
	}
	if v, ok := fields["postcode"].(string); ok {
		address.Postcode = v
	}
	if id, ok := toUint(fields["country_id"]); ok {
		address.CountryID = &id
	}
	return address
}

func toUint(v interface{}) (uint, bool) {
	switch n := v.(type) {
	case uint:
		return n, true
	case int:
		if n < 0 {
			return 0, false
		}
		return uint(n), true
	case int64:
		if n < 0 {
			return 0, false
		}
		return uint(n), true
	case float64:
		if n < 0 || n != float64(int64(n)) {
			return 0, false
		}
		return uint(n), true
	case string:
		parsed, err := strconv.ParseUint(n, 10, 64)
		if err != nil {
			return 0, false
		}
		return uint(parsed), true
	default:
		return 0, false
	}
}
