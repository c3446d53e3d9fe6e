package service

import (
	"context"
	"restaurant-checkout/internal/gateway"
	"restaurant-checkout/internal/model"
)

// mockOrderManager implements OrderManager for testing
type mockOrderManager struct {
	order    *model.Order
	loadErr  error
	applyErr error

	orderByHash    *model.Order
	orderByHashErr error

	customerErr error

	gateways    []*gateway.Descriptor
	gatewaysErr error

	payment    *gateway.Descriptor
	paymentErr error

	feeApplied []string
	feeErr     error

	address    *model.Address
	addressErr error

	validateAddressErr    error
	validateAddressCalled bool

	savedData  map[string]interface{}
	saveCalled int
	saveErr    error

	processResult *gateway.ProcessResult
	processErr    error
	processCalled int
	// marks the order processed when Process succeeds synchronously,
	// mirroring the real manager's CAS
	finalizeOnProcess bool
}

func (m *mockOrderManager) LoadOrCreateOrder(_ context.Context, _ *model.Cart, _ *model.Customer) (*model.Order, error) {
	return m.order, m.loadErr
}

func (m *mockOrderManager) FindOrderByHash(_ context.Context, hash string) (*model.Order, error) {
	if m.orderByHashErr != nil {
		return nil, m.orderByHashErr
	}
	if m.orderByHash != nil && m.orderByHash.Hash == hash {
		return m.orderByHash, nil
	}
	return nil, nil
}

func (m *mockOrderManager) ApplyRequiredAttributes(_ context.Context, _ *model.Cart, _ *model.Customer, _ *model.Order) error {
	return m.applyErr
}

func (m *mockOrderManager) ValidateCustomer(_ *model.Customer) error {
	return m.customerErr
}

func (m *mockOrderManager) GetPaymentGateways(_ context.Context, _ *model.Order) ([]*gateway.Descriptor, error) {
	return m.gateways, m.gatewaysErr
}

func (m *mockOrderManager) GetPayment(_ context.Context, code string) (*gateway.Descriptor, error) {
	if m.paymentErr != nil {
		return nil, m.paymentErr
	}
	if m.payment != nil && m.payment.Method.Code == code {
		return m.payment, nil
	}
	return nil, nil
}

func (m *mockOrderManager) ApplyCurrentPaymentFee(_ context.Context, _ *model.Cart, _ *model.Order, code string) error {
	if m.feeErr != nil {
		return m.feeErr
	}
	m.feeApplied = append(m.feeApplied, code)
	return nil
}

func (m *mockOrderManager) FindDeliveryAddress(_ context.Context, _ uint) (*model.Address, error) {
	return m.address, m.addressErr
}

func (m *mockOrderManager) ValidateDeliveryAddress(_ context.Context, _ *model.Order, _ map[string]interface{}) error {
	m.validateAddressCalled = true
	return m.validateAddressErr
}

func (m *mockOrderManager) SaveOrder(_ context.Context, _ *model.Order, data map[string]interface{}) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saveCalled++
	m.savedData = data
	return nil
}

func (m *mockOrderManager) ProcessPayment(_ context.Context, order *model.Order, _ map[string]interface{}) (*gateway.ProcessResult, error) {
	m.processCalled++
	if m.processErr != nil {
		return nil, m.processErr
	}
	if m.processResult != nil {
		return m.processResult, nil
	}
	if m.finalizeOnProcess {
		order.PaymentProcessed = true
	}
	return nil, nil
}

// mockCartValidator implements CartValidator for testing
type mockCartValidator struct {
	contentsErr  error
	locationErr  error
	orderTimeErr error

	belowMinimum      bool
	belowMinimumErr   error
	chargeUnavailable bool
	chargeErr         error
}

func (v *mockCartValidator) ValidateContents(_ *model.Cart) error {
	return v.contentsErr
}

func (v *mockCartValidator) ValidateLocation(_ context.Context, _ *model.Cart) error {
	return v.locationErr
}

func (v *mockCartValidator) ValidateOrderTime(_ context.Context, _ *model.Cart) error {
	return v.orderTimeErr
}

func (v *mockCartValidator) CartTotalIsBelowMinimumOrder(_ context.Context, _ *model.Cart) (bool, error) {
	return v.belowMinimum, v.belowMinimumErr
}

func (v *mockCartValidator) DeliveryChargeIsUnavailable(_ context.Context, _ *model.Cart) (bool, error) {
	return v.chargeUnavailable, v.chargeErr
}

// mockGateway implements gateway.Gateway for testing
type mockGateway struct {
	code          string
	profileExists bool
	profileErr    error
	deleteCalled  bool
	deleteErr     error
	processResult *gateway.ProcessResult
	processErr    error
}

func (g *mockGateway) Code() string {
	return g.code
}

func (g *mockGateway) BeforeRenderPaymentForm(_ context.Context, _ *model.Order, page map[string]interface{}) {
	page[g.code+"PreRendered"] = true
}

func (g *mockGateway) PaymentProfileExists(_ context.Context, _ *model.Customer) (bool, error) {
	return g.profileExists, g.profileErr
}

func (g *mockGateway) DeletePaymentProfile(_ context.Context, _ *model.Customer) error {
	g.deleteCalled = true
	return g.deleteErr
}

func (g *mockGateway) Process(_ context.Context, _ *model.Order, _ map[string]interface{}) (*gateway.ProcessResult, error) {
	return g.processResult, g.processErr
}

// mockCartRepo implements repository.CartRepository for testing
type mockCartRepo struct {
	cart *model.Cart
	err  error
}

func (r *mockCartRepo) FindBySession(_ context.Context, _ string) (*model.Cart, error) {
	return r.cart, r.err
}

// mockCustomerRepo implements repository.CustomerRepository for testing
type mockCustomerRepo struct {
	customer    *model.Customer
	emailExists bool
	err         error
}

func (r *mockCustomerRepo) FindByID(_ context.Context, _ uint) (*model.Customer, error) {
	return r.customer, r.err
}

func (r *mockCustomerRepo) EmailExists(_ context.Context, _ string) (bool, error) {
	return r.emailExists, r.err
}

// mockLocationRepo implements repository.LocationRepository for testing
type mockLocationRepo struct {
	location *model.Location
	err      error
}

func (r *mockLocationRepo) Seed(_ context.Context) error {
	return nil
}

func (r *mockLocationRepo) FindByID(_ context.Context, _ uint) (*model.Location, error) {
	return r.location, r.err
}
