// Package marketdata provides market data provider interfaces and
// implementations.
package marketdata

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"options-pricer/internal/config"
	"options-pricer/internal/models"
)

// Provider defines the interface for market data access.
type Provider interface {
	// GetSpot returns the last price for an underlying, 0 if unknown.
	GetSpot(ctx context.Context, underlying string) (float64, error)

	// GetOptionQuote returns the screen bid/offer/sizes for a single
	// option. All zero when the contract is not quoted.
	GetOptionQuote(ctx context.Context, underlying string, expiry time.Time, strike float64, optionType models.OptionType) (models.LegMarketData, error)

	// GetContractMultiplier returns the option contract multiplier for
	// the underlying, 100 when unknown.
	GetContractMultiplier(ctx context.Context, underlying string) (int, error)

	Close() error
}

// NewProvider creates a market data provider from configuration: the
// bridge when it responds, otherwise the deterministic mock. Mirrors the
// bridge auto-detect behavior of the desktop data bridge.
func NewProvider(ctx context.Context, cfg config.DataSourceConfig, logger zerolog.Logger) Provider {
	if cfg.UseMock {
		logger.Debug().Msg("Using mock market data provider")
		return NewMockProvider()
	}

	bridge := NewBridgeClient(cfg.BridgeHost, cfg.BridgePort, time.Duration(cfg.TimeoutSec)*time.Second)
	if err := bridge.Ping(ctx); err != nil {
		logger.Warn().Err(err).
			Str("host", cfg.BridgeHost).
			Int("port", cfg.BridgePort).
			Msg("Data bridge unreachable, falling back to mock quotes")
		return NewMockProvider()
	}
	logger.Debug().Str("host", cfg.BridgeHost).Int("port", cfg.BridgePort).Msg("Data bridge connected")
	return bridge
}

// FetchLegMarketData fetches one quote per structure leg, in leg order,
// for the structure market pricer.
func FetchLegMarketData(ctx context.Context, provider Provider, structure models.OptionStructure) ([]models.LegMarketData, error) {
	quotes := make([]models.LegMarketData, 0, len(structure.Legs))
	for _, leg := range structure.Legs {
		quote, err := provider.GetOptionQuote(ctx, leg.Underlying, leg.Expiry, leg.Strike, leg.Type)
		if err != nil {
			return nil, err
		}
		quotes = append(quotes, quote)
	}
	return quotes, nil
}
