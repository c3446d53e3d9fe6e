package gateway

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"restaurant-checkout/internal/client"
	"restaurant-checkout/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBraintreeClient implements client.BraintreeClient for testing
type fakeBraintreeClient struct {
	chargedTokens []string
	chargedNonces []string
	vaultedToken  string
	deletedTokens []string
	chargeErr     error
}

func (c *fakeBraintreeClient) ChargeToken(_ context.Context, token string, _ decimal.Decimal) (string, error) {
	if c.chargeErr != nil {
		return "", c.chargeErr
	}
	c.chargedTokens = append(c.chargedTokens, token)
	return "txn-1", nil
}

func (c *fakeBraintreeClient) ChargeNonce(_ context.Context, nonce string, _ decimal.Decimal, vault bool) (string, string, error) {
	if c.chargeErr != nil {
		return "", "", c.chargeErr
	}
	c.chargedNonces = append(c.chargedNonces, nonce)
	if vault {
		return "txn-1", c.vaultedToken, nil
	}
	return "txn-1", "", nil
}

func (c *fakeBraintreeClient) DeletePaymentToken(_ context.Context, token string) error {
	c.deletedTokens = append(c.deletedTokens, token)
	return nil
}

// fakePaymentRepo implements repository.PaymentRepository for testing
type fakePaymentRepo struct {
	profiles map[string]*model.PaymentProfile
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{profiles: map[string]*model.PaymentProfile{}}
}

func profileKey(customerID uint, code string) string {
	return fmt.Sprintf("%s/%d", code, customerID)
}

func (r *fakePaymentRepo) Seed(_ context.Context) error { return nil }

func (r *fakePaymentRepo) ListEnabled(_ context.Context) ([]*model.PaymentMethod, error) {
	return nil, nil
}

func (r *fakePaymentRepo) FindByCode(_ context.Context, _ string) (*model.PaymentMethod, error) {
	return nil, nil
}

func (r *fakePaymentRepo) FindProfile(_ context.Context, customerID uint, code string) (*model.PaymentProfile, error) {
	return r.profiles[profileKey(customerID, code)], nil
}

func (r *fakePaymentRepo) UpsertProfile(_ context.Context, profile *model.PaymentProfile) error {
	r.profiles[profileKey(profile.CustomerID, profile.Code)] = profile
	return nil
}

func (r *fakePaymentRepo) DeleteProfile(_ context.Context, customerID uint, code string) error {
	delete(r.profiles, profileKey(customerID, code))
	return nil
}

// fakePaylinkClient implements client.PaylinkClient for testing
type fakePaylinkClient struct {
	lastReq *client.CreatePaymentLinkRequest
	err     error
}

func (c *fakePaylinkClient) CreatePaymentLink(_ context.Context, req *client.CreatePaymentLinkRequest) (*client.CreatePaymentLinkResponse, error) {
	if c.err != nil {
		return nil, c.err
	}
	c.lastReq = req
	return &client.CreatePaymentLinkResponse{LinkID: "link-1", ApprovalURL: "https://pay.example/approve/link-1"}, nil
}

// --- Registry ---

func TestRegistry_BindSkipsMethodsWithoutProcessor(t *testing.T) {
	registry := NewRegistry(NewCODGateway())

	descriptors := registry.Bind([]*model.PaymentMethod{
		{Code: "cod", Name: "Cash on delivery"},
		{Code: "giftcard", Name: "Gift card"},
	})

	require.Len(t, descriptors, 1)
	assert.Equal(t, "cod", descriptors[0].Method.Code)
	assert.Equal(t, "cod", descriptors[0].Gateway.Code())
}

func TestRegistry_Lookup(t *testing.T) {
	registry := NewRegistry(NewCODGateway())

	g, ok := registry.Lookup("cod")
	require.True(t, ok)
	assert.Equal(t, "cod", g.Code())

	_, ok = registry.Lookup("giftcard")
	assert.False(t, ok)
}

// --- COD ---

func TestCODGateway_CompletesSynchronously(t *testing.T) {
	g := NewCODGateway()

	result, err := g.Process(context.Background(), &model.Order{}, map[string]interface{}{})

	require.NoError(t, err)
	assert.Nil(t, result)
}

// --- Braintree ---

func customerOrder(customerID uint) *model.Order {
	return &model.Order{
		ID:         1,
		Hash:       "h-1",
		CustomerID: &customerID,
		OrderTotal: decimal.NewFromFloat(23.50),
	}
}

func TestBraintreeGateway_HaltsWithoutNonce(t *testing.T) {
	bt := &fakeBraintreeClient{}
	g := NewBraintreeGateway(bt, newFakePaymentRepo())

	result, err := g.Process(context.Background(), &model.Order{OrderTotal: decimal.NewFromInt(20)}, map[string]interface{}{})

	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.Halted)
	assert.Empty(t, bt.chargedNonces)
}

func TestBraintreeGateway_ChargesVaultedTokenFirst(t *testing.T) {
	bt := &fakeBraintreeClient{}
	repo := newFakePaymentRepo()
	require.NoError(t, repo.UpsertProfile(context.Background(), &model.PaymentProfile{
		CustomerID: 3, Code: "braintree", ProfileRef: "tok-1",
	}))
	g := NewBraintreeGateway(bt, repo)

	result, err := g.Process(context.Background(), customerOrder(3), map[string]interface{}{
		"payment_nonce": "nonce-ignored",
	})

	require.NoError(t, err)
	assert.Nil(t, result)
	assert.Equal(t, []string{"tok-1"}, bt.chargedTokens)
	assert.Empty(t, bt.chargedNonces)
}

func TestBraintreeGateway_VaultsCardOnRequest(t *testing.T) {
	bt := &fakeBraintreeClient{vaultedToken: "tok-new"}
	repo := newFakePaymentRepo()
	g := NewBraintreeGateway(bt, repo)

	result, err := g.Process(context.Background(), customerOrder(3), map[string]interface{}{
		"payment_nonce": "nonce-1",
		"save_card":     true,
	})

	require.NoError(t, err)
	assert.Nil(t, result)
	assert.Equal(t, []string{"nonce-1"}, bt.chargedNonces)

	profile, err := repo.FindProfile(context.Background(), 3, "braintree")
	require.NoError(t, err)
	require.NotNil(t, profile)
	assert.Equal(t, "tok-new", profile.ProfileRef)
}

func TestBraintreeGateway_GuestCannotVault(t *testing.T) {
	bt := &fakeBraintreeClient{vaultedToken: "tok-new"}
	repo := newFakePaymentRepo()
	g := NewBraintreeGateway(bt, repo)

	result, err := g.Process(context.Background(), &model.Order{OrderTotal: decimal.NewFromInt(20)}, map[string]interface{}{
		"payment_nonce": "nonce-1",
		"save_card":     true,
	})

	require.NoError(t, err)
	assert.Nil(t, result)
	assert.Empty(t, repo.profiles)
}

func TestBraintreeGateway_DeletePaymentProfile(t *testing.T) {
	bt := &fakeBraintreeClient{}
	repo := newFakePaymentRepo()
	g := NewBraintreeGateway(bt, repo)
	customer := &model.Customer{ID: 3}

	err := g.DeletePaymentProfile(context.Background(), customer)
	assert.Error(t, err)
	assert.Empty(t, bt.deletedTokens)

	require.NoError(t, repo.UpsertProfile(context.Background(), &model.PaymentProfile{
		CustomerID: 3, Code: "braintree", ProfileRef: "tok-1",
	}))

	require.NoError(t, g.DeletePaymentProfile(context.Background(), customer))
	assert.Equal(t, []string{"tok-1"}, bt.deletedTokens)
	assert.Empty(t, repo.profiles)
}

func TestBraintreeGateway_ChargeFailurePropagates(t *testing.T) {
	boom := errors.New("gateway declined")
	bt := &fakeBraintreeClient{chargeErr: boom}
	g := NewBraintreeGateway(bt, newFakePaymentRepo())

	_, err := g.Process(context.Background(), customerOrder(3), map[string]interface{}{
		"payment_nonce": "nonce-1",
	})

	assert.ErrorIs(t, err, boom)
}

// --- Paylink ---

func TestPaylinkGateway_RedirectsToApprovalURL(t *testing.T) {
	pl := &fakePaylinkClient{}
	g := NewPaylinkGateway(pl, "https://orders.example")

	order := &model.Order{Hash: "h-1", OrderTotal: decimal.NewFromFloat(23.50)}
	result, err := g.Process(context.Background(), order, map[string]interface{}{
		"successPage": "checkout/success",
		"cancelPage":  "checkout/checkout",
	})

	require.NoError(t, err)
	require.NotNil(t, result)
	assert.False(t, result.Halted)
	assert.Equal(t, "https://pay.example/approve/link-1", result.RedirectURL)

	require.NotNil(t, pl.lastReq)
	assert.Equal(t, "h-1", pl.lastReq.Reference)
	assert.Equal(t, "https://orders.example/checkout/success/h-1", pl.lastReq.ReturnURL)
	assert.Equal(t, "https://orders.example/checkout/checkout", pl.lastReq.CancelURL)
}

func TestPaylinkGateway_ProviderFailurePropagates(t *testing.T) {
	boom := errors.New("provider unavailable")
	g := NewPaylinkGateway(&fakePaylinkClient{err: boom}, "https://orders.example")

	_, err := g.Process(context.Background(), &model.Order{Hash: "h-1"}, map[string]interface{}{})

	assert.ErrorIs(t, err, boom)
}
