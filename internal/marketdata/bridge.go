package marketdata

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	apperrors "options-pricer/internal/errors"
	"options-pricer/internal/models"
)

// BridgeClient fetches quotes from a desktop market data bridge over
// HTTP. The bridge exposes /api/status, /api/spot/<ticker>,
// /api/multiplier/<ticker> and /api/option_quotes.
type BridgeClient struct {
	baseURL string
	client  *http.Client
}

// NewBridgeClient creates a client for a bridge at host:port.
func NewBridgeClient(host string, port int, timeout time.Duration) *BridgeClient {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &BridgeClient{
		baseURL: fmt.Sprintf("http://%s:%d", host, port),
		client:  &http.Client{Timeout: timeout},
	}
}

// Ping checks whether the bridge is reachable.
func (c *BridgeClient) Ping(ctx context.Context) error {
	var status struct {
		Status string `json:"status"`
	}
	return c.getJSON(ctx, "/api/status", &status)
}

// GetSpot fetches the last price for an underlying from the bridge.
func (c *BridgeClient) GetSpot(ctx context.Context, underlying string) (float64, error) {
	var resp struct {
		Spot float64 `json:"spot"`
	}
	path := "/api/spot/" + strings.ToUpper(underlying)
	if err := c.getJSON(ctx, path, &resp); err != nil {
		return 0, err
	}
	return resp.Spot, nil
}

// GetOptionQuote fetches the screen quote for a single option from the
// bridge.
func (c *BridgeClient) GetOptionQuote(ctx context.Context, underlying string, expiry time.Time, strike float64, optionType models.OptionType) (models.LegMarketData, error) {
	type legReq struct {
		Expiry     string  `json:"expiry"`
		Strike     float64 `json:"strike"`
		OptionType string  `json:"option_type"`
	}
	body := struct {
		Underlying string   `json:"underlying"`
		Legs       []legReq `json:"legs"`
	}{
		Underlying: strings.ToUpper(underlying),
		Legs: []legReq{{
			Expiry:     expiry.Format("2006-01-02"),
			Strike:     strike,
			OptionType: string(optionType),
		}},
	}

	var resp struct {
		Quotes []struct {
			Bid       float64 `json:"bid"`
			BidSize   int     `json:"bid_size"`
			Offer     float64 `json:"offer"`
			OfferSize int     `json:"offer_size"`
		} `json:"quotes"`
	}
	if err := c.postJSON(ctx, "/api/option_quotes", body, &resp); err != nil {
		return models.LegMarketData{}, err
	}
	if len(resp.Quotes) == 0 {
		return models.LegMarketData{}, nil
	}
	q := resp.Quotes[0]
	return models.LegMarketData{
		Bid:       q.Bid,
		BidSize:   q.BidSize,
		Offer:     q.Offer,
		OfferSize: q.OfferSize,
	}, nil
}

// GetContractMultiplier fetches the contract multiplier, 100 on any
// bridge-side unknown.
func (c *BridgeClient) GetContractMultiplier(ctx context.Context, underlying string) (int, error) {
	var resp struct {
		Multiplier int `json:"multiplier"`
	}
	path := "/api/multiplier/" + strings.ToUpper(underlying)
	if err := c.getJSON(ctx, path, &resp); err != nil {
		return 0, err
	}
	if resp.Multiplier == 0 {
		return 100, nil
	}
	return resp.Multiplier, nil
}

// Close is a no-op; the underlying http.Client needs no teardown.
func (c *BridgeClient) Close() error {
	return nil
}

func (c *BridgeClient) getJSON(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrDataUnavailable, err)
	}
	return c.doJSON(req, out)
}

func (c *BridgeClient) postJSON(ctx context.Context, path string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrDataUnavailable, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrDataUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.doJSON(req, out)
}

func (c *BridgeClient) doJSON(req *http.Request, out interface{}) error {
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrDataUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: bridge returned %s", apperrors.ErrDataUnavailable, resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrDataUnavailable, err)
	}
	return nil
}
