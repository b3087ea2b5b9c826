package marketdata

import (
	"context"
	"math"
	"math/rand"
	"strings"
	"time"

	"options-pricer/internal/models"
	"options-pricer/internal/pricer"
)

const mockRiskFreeRate = 0.05

// mockSpots are fixed reference spots for development without a data
// bridge.
var mockSpots = map[string]float64{
	"AAPL":  250.30,
	"MSFT":  415.20,
	"GOOGL": 175.80,
	"AMZN":  195.60,
	"TSLA":  245.30,
	"SPY":   520.40,
	"QQQ":   445.10,
	"META":  560.75,
	"NVDA":  880.50,
	"IWM":   262.60,
	"UBER":  69.90,
	"QCOM":  141.20,
	"VST":   171.10,
	"SPX":   5204.00,
	"NFLX":  950.00,
}

// mockVols are base implied vols per underlying.
var mockVols = map[string]float64{
	"AAPL":  0.22,
	"MSFT":  0.20,
	"GOOGL": 0.25,
	"AMZN":  0.28,
	"TSLA":  0.45,
	"SPY":   0.14,
	"QQQ":   0.18,
	"META":  0.32,
	"NVDA":  0.42,
	"IWM":   0.18,
	"UBER":  0.35,
	"QCOM":  0.30,
	"VST":   0.38,
	"SPX":   0.14,
	"NFLX":  0.34,
}

// MockProvider generates deterministic option quotes with Black-Scholes
// pricing over a vol-skew surface, for development and tests.
type MockProvider struct {
	now func() time.Time
}

// NewMockProvider creates a new mock market data provider.
func NewMockProvider() *MockProvider {
	return &MockProvider{now: time.Now}
}

// GetSpot returns the fixed mock spot for the underlying, 100 if the
// ticker is not in the table.
func (p *MockProvider) GetSpot(ctx context.Context, underlying string) (float64, error) {
	if spot, ok := mockSpots[strings.ToUpper(underlying)]; ok {
		return spot, nil
	}
	return 100.0, nil
}

// GetOptionQuote generates a realistic quote: Black-Scholes theoretical
// value with a bid-ask spread that widens for further OTM strikes, and
// seeded sizes so repeated calls agree.
func (p *MockProvider) GetOptionQuote(ctx context.Context, underlying string, expiry time.Time, strike float64, optionType models.OptionType) (models.LegMarketData, error) {
	spot, _ := p.GetSpot(ctx, underlying)
	vol := p.volForStrike(underlying, strike, spot)

	T := expiry.Sub(p.now()).Hours() / 24 / 365
	if T < 0.001 {
		T = 0.001
	}

	theo := pricer.BlackScholesPrice(spot, strike, T, mockRiskFreeRate, vol, optionType, 0)

	// Spread widens 2-5% with distance from the money.
	moneyness := math.Abs(spot-strike) / spot
	spreadPct := 0.02 + 0.03*moneyness
	halfSpread := math.Max(theo*spreadPct, 0.05)

	bid := math.Max(theo-halfSpread, 0.01)
	offer := theo + halfSpread

	rng := rand.New(rand.NewSource(int64(strike*100 + spot*10)))
	bidSize := 100 + rng.Intn(901)
	offerSize := 100 + rng.Intn(701)

	return models.LegMarketData{
		Bid:       round2(bid),
		BidSize:   bidSize,
		Offer:     round2(offer),
		OfferSize: offerSize,
	}, nil
}

// GetContractMultiplier returns 100, the US equity option multiplier.
func (p *MockProvider) GetContractMultiplier(ctx context.Context, underlying string) (int, error) {
	return 100, nil
}

// Close is a no-op for the mock provider.
func (p *MockProvider) Close() error {
	return nil
}

// volForStrike applies a simple skew: OTM puts pick up extra vol.
func (p *MockProvider) volForStrike(underlying string, strike, spot float64) float64 {
	baseVol, ok := mockVols[strings.ToUpper(underlying)]
	if !ok {
		baseVol = 0.25
	}
	moneyness := strike / spot
	if moneyness < 1.0 {
		return baseVol + 0.05*(1.0-moneyness)
	}
	return baseVol
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
