package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/payment"
	"github.com/storefront/backend/internal/infrastructure/config"
)

const mpStatusApproved = "approved"

// MercadoPagoAdapter implements payment.Gateway against the Mercado Pago
// payments API
type MercadoPagoAdapter struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewMercadoPagoAdapter creates a new Mercado Pago adapter
func NewMercadoPagoAdapter(cfg *config.PaymentConfig) (*MercadoPagoAdapter, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("payment base URL is required")
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &MercadoPagoAdapter{
		baseURL:    cfg.BaseURL,
		token:      cfg.Token,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

type mpPaymentRequest struct {
	TransactionAmount decimal.Decimal `json:"transaction_amount"`
	Description       string          `json:"description"`
	ExternalReference string          `json:"external_reference"`
	Payer             mpPayer         `json:"payer"`
}

type mpPayer struct {
	Email string `json:"email"`
}

type mpPaymentResponse struct {
	ID     int64  `json:"id"`
	Status string `json:"status"`
}

// Charge creates a payment for an order. The idempotency key makes retries
// safe against double charging.
func (a *MercadoPagoAdapter) Charge(ctx context.Context, req payment.ChargeRequest) (payment.ChargeResult, error) {
	body, err := json.Marshal(mpPaymentRequest{
		TransactionAmount: req.Amount.Amount(),
		Description:       req.Description,
		ExternalReference: req.OrderNumber,
		Payer:             mpPayer{Email: req.PayerEmail},
	})
	if err != nil {
		return payment.ChargeResult{}, fmt.Errorf("failed to encode payment request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/v1/payments", bytes.NewReader(body))
	if err != nil {
		return payment.ChargeResult{}, fmt.Errorf("failed to build payment request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+a.token)
	if req.IdempotencyKey != "" {
		httpReq.Header.Set("X-Idempotency-Key", req.IdempotencyKey)
	}

	resp, err := a.httpClient.Do(httpReq)
	if err != nil {
		return payment.ChargeResult{}, fmt.Errorf("mercado pago request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return payment.ChargeResult{}, fmt.Errorf("mercado pago returned status %d: %s", resp.StatusCode, string(data))
	}

	var payResp mpPaymentResponse
	if err := json.NewDecoder(resp.Body).Decode(&payResp); err != nil {
		return payment.ChargeResult{}, fmt.Errorf("failed to decode payment response: %w", err)
	}

	return payment.ChargeResult{
		Reference: fmt.Sprintf("%d", payResp.ID),
		Approved:  payResp.Status == mpStatusApproved,
	}, nil
}

// Ensure MercadoPagoAdapter implements payment.Gateway
var _ payment.Gateway = (*MercadoPagoAdapter)(nil)
