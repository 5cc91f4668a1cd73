package shipping

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/shared/valueobject"
	"github.com/storefront/backend/internal/domain/shipping"
	"github.com/storefront/backend/internal/infrastructure/config"
)

const andreaniCarrierName = "andreani"

// AndreaniAdapter implements shipping.Quoter against the Andreani rates API
type AndreaniAdapter struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewAndreaniAdapter creates a new Andreani adapter
func NewAndreaniAdapter(cfg *config.ShippingConfig) (*AndreaniAdapter, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("shipping base URL is required")
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 5 * time.Second
	}
	return &AndreaniAdapter{
		baseURL:    cfg.BaseURL,
		token:      cfg.Token,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

type andreaniQuoteRequest struct {
	Provincia string `json:"provincia"`
	Localidad string `json:"localidad"`
	Calle     string `json:"calle"`
	Numero    string `json:"numero"`
}

type andreaniQuoteResponse struct {
	Cost decimal.Decimal `json:"cost"`
}

// QuoteShipping asks Andreani for the shipping cost to the given address
func (a *AndreaniAdapter) QuoteShipping(ctx context.Context, address valueobject.Address) (shipping.Quote, error) {
	body, err := json.Marshal(andreaniQuoteRequest{
		Provincia: address.Province(),
		Localidad: address.Locality(),
		Calle:     address.Street(),
		Numero:    address.Number(),
	})
	if err != nil {
		return shipping.Quote{}, fmt.Errorf("failed to encode quote request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/v1/tarifas", bytes.NewReader(body))
	if err != nil {
		return shipping.Quote{}, fmt.Errorf("failed to build quote request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return shipping.Quote{}, fmt.Errorf("andreani request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return shipping.Quote{}, fmt.Errorf("andreani returned status %d: %s", resp.StatusCode, string(data))
	}

	var quoteResp andreaniQuoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&quoteResp); err != nil {
		return shipping.Quote{}, fmt.Errorf("failed to decode quote response: %w", err)
	}
	if quoteResp.Cost.IsNegative() {
		return shipping.Quote{}, fmt.Errorf("andreani returned a negative cost")
	}

	return shipping.Quote{
		Cost:    valueobject.NewMoneyARS(quoteResp.Cost),
		Carrier: andreaniCarrierName,
	}, nil
}

// Ensure AndreaniAdapter implements shipping.Quoter
var _ shipping.Quoter = (*AndreaniAdapter)(nil)
