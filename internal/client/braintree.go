package client

import (
	"context"
	"fmt"
	"restaurant-checkout/internal/config"

	"github.com/braintree-go/braintree-go"
	"github.com/shopspring/decimal"
)

type BraintreeClient interface {
	// ChargeToken charges a vaulted payment token for the given amount.
	ChargeToken(ctx context.Context, paymentToken string, amount decimal.Decimal) (string, error)

	// ChargeNonce charges a one-off frontend nonce, optionally vaulting it
	// and returning the new payment token alongside the transaction id.
	ChargeNonce(ctx context.Context, nonce string, amount decimal.Decimal, vault bool) (txID, token string, err error)

	// DeletePaymentToken removes a vaulted payment method.
	DeletePaymentToken(ctx context.Context, paymentToken string) error
}

type braintreeClientImpl struct {
	gateway *braintree.Braintree
}

func NewBraintreeClient(cfg *config.Braintree) BraintreeClient {
	env := braintree.Sandbox
	if cfg.Environment == "production" {
		env = braintree.Production
	}

	gateway := braintree.New(
		env,
		cfg.MerchantID,
		cfg.PublicKey,
		cfg.PrivateKey,
	)

	return &braintreeClientImpl{
		gateway: gateway,
	}
}

// Braintree expects NewDecimal(unscaled, scale); two decimal places for
// currency amounts.
func btAmount(amount decimal.Decimal) *braintree.Decimal {
	cents := amount.Mul(decimal.NewFromInt(100)).IntPart()
	return braintree.NewDecimal(cents, 2)
}

func (c *braintreeClientImpl) ChargeToken(ctx context.Context, paymentToken string, amount decimal.Decimal) (string, error) {
	req := &braintree.TransactionRequest{
		Type:               "sale",
		Amount:             btAmount(amount),
		PaymentMethodToken: paymentToken,
		Options: &braintree.TransactionOptions{
			SubmitForSettlement: true,
		},
	}

	tx, err := c.gateway.Transaction().Create(ctx, req)
	if err != nil {
		return "", fmt.Errorf("transaction creation failed: %w", err)
	}

	if tx.Status == braintree.TransactionStatusProcessorDeclined {
		return "", fmt.Errorf("transaction declined by processor: %s", tx.ProcessorResponseText)
	}

	return tx.Id, nil
}

func (c *braintreeClientImpl) ChargeNonce(ctx context.Context, nonce string, amount decimal.Decimal, vault bool) (string, string, error) {
	req := &braintree.TransactionRequest{
		Type:               "sale",
		Amount:             btAmount(amount),
		PaymentMethodNonce: nonce,
		Options: &braintree.TransactionOptions{
			SubmitForSettlement:   true,
			StoreInVaultOnSuccess: vault,
		},
	}

	tx, err := c.gateway.Transaction().Create(ctx, req)
	if err != nil {
		return "", "", fmt.Errorf("transaction creation failed: %w", err)
	}

	if tx.Status == braintree.TransactionStatusProcessorDeclined {
		return "", "", fmt.Errorf("transaction declined by processor: %s", tx.ProcessorResponseText)
	}

	token := ""
	if tx.CreditCard != nil {
		token = tx.CreditCard.Token
	}

	return tx.Id, token, nil
}

func (c *braintreeClientImpl) DeletePaymentToken(ctx context.Context, paymentToken string) error {
	if err := c.gateway.PaymentMethod().Delete(ctx, paymentToken); err != nil {
		return fmt.Errorf("failed to delete payment method: %w", err)
	}
	return nil
}
