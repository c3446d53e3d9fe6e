package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"restaurant-checkout/internal/config"
	"time"

	"github.com/shopspring/decimal"
)

// PaylinkClient talks to a hosted-payment-page provider: we create a
// payment link for the order amount and redirect the customer to it; the
// provider confirms out of band.
type PaylinkClient interface {
	CreatePaymentLink(ctx context.Context, req *CreatePaymentLinkRequest) (*CreatePaymentLinkResponse, error)
}

type paylinkClientImpl struct {
	httpClient *http.Client
	baseApiURL string
	apiKey     string
}

type CreatePaymentLinkRequest struct {
	Reference string
	Amount    decimal.Decimal
	Currency  string
	ReturnURL string
	CancelURL string
}

type CreatePaymentLinkResponse struct {
	LinkID      string
	ApprovalURL string
}

type paylinkCreateResult struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Links  []struct {
		Rel  string `json:"rel"`
		Href string `json:"href"`
	} `json:"links"`
}

func NewPaylinkClient(cfg *config.Paylink) PaylinkClient {
	return &paylinkClientImpl{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseApiURL: cfg.BaseApiURL,
		apiKey:     cfg.APIKey,
	}
}

func (c *paylinkClientImpl) CreatePaymentLink(ctx context.Context, linkReq *CreatePaymentLinkRequest) (*CreatePaymentLinkResponse, error) {
	payload := map[string]interface{}{
		"reference": linkReq.Reference,
		"amount": map[string]string{
			"currency_code": linkReq.Currency,
			"value":         linkReq.Amount.StringFixed(2),
		},
		"application_context": map[string]string{
			"return_url": linkReq.ReturnURL,
			"cancel_url": linkReq.CancelURL,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal req payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseApiURL+"/v1/payment-links",
		bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("http new request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http client do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("paylink error %d: %s", resp.StatusCode, string(b))
	}

	var result paylinkCreateResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode paylink response: %w", err)
	}

	approvalURL := ""
	for _, link := range result.Links {
		if link.Rel == "approve" {
			approvalURL = link.Href
		}
	}
	if approvalURL == "" {
		return nil, fmt.Errorf("paylink response missing approval url")
	}

	return &CreatePaymentLinkResponse{
		LinkID:      result.ID,
		ApprovalURL: approvalURL,
	}, nil
}
