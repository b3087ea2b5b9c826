package parser

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "options-pricer/internal/errors"
	"options-pricer/internal/models"
)

// Fixed "today" so month-only expiries resolve deterministically.
var testToday = time.Date(2025, time.September, 10, 0, 0, 0, 0, time.UTC)

func mustParse(t *testing.T, text string) *models.ParsedOrder {
	t.Helper()
	order, err := parseAt(text, testToday)
	require.NoError(t, err)
	return order
}

func legsBySide(legs []models.OptionLeg, side models.Side) []models.OptionLeg {
	var out []models.OptionLeg
	for _, leg := range legs {
		if leg.Side == side {
			out = append(out, leg)
		}
	}
	return out
}

func legsByType(legs []models.OptionLeg, typ models.OptionType) []models.OptionLeg {
	var out []models.OptionLeg
	for _, leg := range legs {
		if leg.Type == typ {
			out = append(out, leg)
		}
	}
	return out
}

func TestParse_SingleCall(t *testing.T) {
	order := mustParse(t, "AAPL jun26 300 calls vs250.32 30d 20.50 bid 1058x")

	assert.Equal(t, "AAPL", order.Underlying)
	assert.Equal(t, 250.32, order.StockRef)
	assert.Equal(t, 30.0, order.Delta)
	assert.Equal(t, 20.50, order.Price)
	assert.Equal(t, models.QuoteBid, order.QuoteSide)
	assert.Equal(t, 1058, order.Quantity)

	require.Len(t, order.Structure.Legs, 1)
	leg := order.Structure.Legs[0]
	assert.Equal(t, 300.0, leg.Strike)
	assert.Equal(t, models.Call, leg.Type)
	assert.Equal(t, models.SideBuy, leg.Side)
	assert.Equal(t, time.Date(2026, time.June, 16, 0, 0, 0, 0, time.UTC), leg.Expiry)
}

func TestParse_SinglePutWithTT(t *testing.T) {
	order := mustParse(t, "UBER Jun26 45P tt69.86 3d 0.41 bid 1058x")

	assert.Equal(t, "UBER", order.Underlying)
	assert.Equal(t, 69.86, order.StockRef)
	assert.Equal(t, 3.0, order.Delta)
	assert.Equal(t, 0.41, order.Price)
	assert.Equal(t, models.QuoteBid, order.QuoteSide)

	require.Len(t, order.Structure.Legs, 1)
	leg := order.Structure.Legs[0]
	assert.Equal(t, 45.0, leg.Strike)
	assert.Equal(t, models.Put, leg.Type)
}

func TestParse_StrikeBeforeExpiry(t *testing.T) {
	order := mustParse(t, "QCOM 85P Jan27 tt141.17 7d 2.4b 600x")

	assert.Equal(t, "QCOM", order.Underlying)
	assert.Equal(t, 141.17, order.StockRef)
	assert.Equal(t, 7.0, order.Delta)
	assert.Equal(t, 2.4, order.Price)
	assert.Equal(t, models.QuoteBid, order.QuoteSide)
	assert.Equal(t, 600, order.Quantity)

	require.Len(t, order.Structure.Legs, 1)
	leg := order.Structure.Legs[0]
	assert.Equal(t, 85.0, leg.Strike)
	assert.Equal(t, models.Put, leg.Type)
	assert.Equal(t, time.Date(2027, time.January, 16, 0, 0, 0, 0, time.UTC), leg.Expiry)
}

func TestParse_AtPriceConvention(t *testing.T) {
	order := mustParse(t, "VST Apr 130p 500 @ 2.55 tt 171.10 on a 11d")

	assert.Equal(t, "VST", order.Underlying)
	assert.Equal(t, 171.10, order.StockRef)
	assert.Equal(t, 11.0, order.Delta)
	assert.Equal(t, 2.55, order.Price)
	assert.Equal(t, models.QuoteOffer, order.QuoteSide)

	require.Len(t, order.Structure.Legs, 1)
	leg := order.Structure.Legs[0]
	assert.Equal(t, 130.0, leg.Strike)
	assert.Equal(t, models.Put, leg.Type)
}

func TestParse_CalendarRiskReversal(t *testing.T) {
	order := mustParse(t, "IWM feb 257 apr 280 Risky vs 262.54 52d 2500x @ 1.60")

	assert.Equal(t, "IWM", order.Underlying)
	assert.Equal(t, 262.54, order.StockRef)
	assert.Equal(t, 52.0, order.Delta)
	assert.Equal(t, 1.60, order.Price)
	assert.Equal(t, 2500, order.Quantity)

	require.Len(t, order.Structure.Legs, 2)
	puts := legsByType(order.Structure.Legs, models.Put)
	calls := legsByType(order.Structure.Legs, models.Call)
	require.Len(t, puts, 1)
	require.Len(t, calls, 1)

	// Lower strike is the put, higher the call; each leg keeps its own
	// month.
	assert.Equal(t, 257.0, puts[0].Strike)
	assert.Equal(t, time.February, puts[0].Expiry.Month())
	assert.Equal(t, models.SideSell, puts[0].Side)
	assert.Equal(t, 280.0, calls[0].Strike)
	assert.Equal(t, time.April, calls[0].Expiry.Month())
	assert.Equal(t, models.SideBuy, calls[0].Side)
}

func TestParse_PutSpreadRatio(t *testing.T) {
	order := mustParse(t, "AAPL Jun26 240/220 PS 1X2 vs250 15d 500x @ 3.50 1X over")

	assert.Equal(t, "AAPL", order.Underlying)
	assert.Equal(t, 250.0, order.StockRef)
	assert.Equal(t, 15.0, order.Delta)
	assert.Equal(t, 3.50, order.Price)
	require.Len(t, order.Structure.Legs, 2)

	sells := legsBySide(order.Structure.Legs, models.SideSell)
	buys := legsBySide(order.Structure.Legs, models.SideBuy)
	require.Len(t, sells, 1)
	require.Len(t, buys, 1)

	assert.Equal(t, 240.0, sells[0].Strike)
	assert.Equal(t, models.Put, sells[0].Type)
	assert.Equal(t, 500, sells[0].Quantity)
	assert.Equal(t, 1, sells[0].Ratio)

	assert.Equal(t, 220.0, buys[0].Strike)
	assert.Equal(t, models.Put, buys[0].Type)
	assert.Equal(t, 1000, buys[0].Quantity)
	assert.Equal(t, 2, buys[0].Ratio)
}

func TestParse_CallSpreadDefaultRatio(t *testing.T) {
	order := mustParse(t, "SPY Dec25 450/470 CS 2000x 4.20 bid")

	require.Len(t, order.Structure.Legs, 2)
	buys := legsBySide(order.Structure.Legs, models.SideBuy)
	sells := legsBySide(order.Structure.Legs, models.SideSell)
	require.Len(t, buys, 1)
	require.Len(t, sells, 1)

	// Call spread buys the lower strike and sells the higher, 1:1.
	assert.Equal(t, 450.0, buys[0].Strike)
	assert.Equal(t, models.Call, buys[0].Type)
	assert.Equal(t, 2000, buys[0].Quantity)
	assert.Equal(t, 470.0, sells[0].Strike)
	assert.Equal(t, 2000, sells[0].Quantity)
}

func TestParse_SpreadInferredFromTypeWord(t *testing.T) {
	order := mustParse(t, "AAPL jun26 240/260 calls 500x")

	assert.Equal(t, "call spread", order.Structure.Name)
	buys := legsBySide(order.Structure.Legs, models.SideBuy)
	sells := legsBySide(order.Structure.Legs, models.SideSell)
	require.Len(t, buys, 1)
	require.Len(t, sells, 1)
	assert.Equal(t, 240.0, buys[0].Strike)
	assert.Equal(t, 260.0, sells[0].Strike)
}

func TestParse_RiskReversalInferredFromTypedStrikes(t *testing.T) {
	order := mustParse(t, "TSLA jun26 200P/300C 100x")

	assert.Equal(t, "risk reversal", order.Structure.Name)
	require.Len(t, order.Structure.Legs, 2)
	puts := legsByType(order.Structure.Legs, models.Put)
	calls := legsByType(order.Structure.Legs, models.Call)
	require.Len(t, puts, 1)
	require.Len(t, calls, 1)
	assert.Equal(t, models.SideSell, puts[0].Side)
	assert.Equal(t, models.SideBuy, calls[0].Side)
}

func TestParse_RiskReversalPutover(t *testing.T) {
	order := mustParse(t, "TSLA jun26 200/300 RR putover 100x")

	puts := legsByType(order.Structure.Legs, models.Put)
	calls := legsByType(order.Structure.Legs, models.Call)
	require.Len(t, puts, 1)
	require.Len(t, calls, 1)
	assert.Equal(t, models.SideBuy, puts[0].Side)
	assert.Equal(t, models.SideSell, calls[0].Side)
}

func TestParse_Straddle(t *testing.T) {
	order := mustParse(t, "SPY Dec25 450 straddle 1000x")

	assert.Equal(t, "straddle", order.Structure.Name)
	require.Len(t, order.Structure.Legs, 2)
	for _, leg := range order.Structure.Legs {
		assert.Equal(t, 450.0, leg.Strike)
		assert.Equal(t, models.SideBuy, leg.Side)
		assert.Equal(t, 1000, leg.Quantity)
	}
	assert.NotEqual(t, order.Structure.Legs[0].Type, order.Structure.Legs[1].Type)
}

func TestParse_Strangle(t *testing.T) {
	order := mustParse(t, "AAPL jun26 240/260 strangle 500x")

	require.Len(t, order.Structure.Legs, 2)
	assert.Equal(t, 240.0, order.Structure.Legs[0].Strike)
	assert.Equal(t, models.Put, order.Structure.Legs[0].Type)
	assert.Equal(t, 260.0, order.Structure.Legs[1].Strike)
	assert.Equal(t, models.Call, order.Structure.Legs[1].Type)
	for _, leg := range order.Structure.Legs {
		assert.Equal(t, models.SideBuy, leg.Side)
	}
}

func TestParse_Butterfly(t *testing.T) {
	order := mustParse(t, "AAPL jun26 240 250 260 fly 500x")

	require.Len(t, order.Structure.Legs, 3)
	legs := order.Structure.Legs
	assert.Equal(t, []float64{240, 250, 260}, []float64{legs[0].Strike, legs[1].Strike, legs[2].Strike})
	assert.Equal(t, models.SideBuy, legs[0].Side)
	assert.Equal(t, models.SideSell, legs[1].Side)
	assert.Equal(t, models.SideBuy, legs[2].Side)
	assert.Equal(t, 500, legs[0].Quantity)
	assert.Equal(t, 1000, legs[1].Quantity)
	assert.Equal(t, 500, legs[2].Quantity)
}

func TestParse_Collar(t *testing.T) {
	order := mustParse(t, "AAPL jun26 240/260 collar 500x")

	require.Len(t, order.Structure.Legs, 2)
	assert.Equal(t, models.Put, order.Structure.Legs[0].Type)
	assert.Equal(t, models.SideBuy, order.Structure.Legs[0].Side)
	assert.Equal(t, 240.0, order.Structure.Legs[0].Strike)
	assert.Equal(t, models.Call, order.Structure.Legs[1].Type)
	assert.Equal(t, models.SideSell, order.Structure.Legs[1].Side)
	assert.Equal(t, 260.0, order.Structure.Legs[1].Strike)
}

func TestParse_LiveClearsHedgeFields(t *testing.T) {
	order := mustParse(t, "AAPL jun26 300 calls vs250 30d LIVE 500x @ 5.00")

	assert.Zero(t, order.StockRef)
	assert.Zero(t, order.Delta)
	assert.Equal(t, 5.00, order.Price)
}

func TestParse_NoPriceDefaultsToBid(t *testing.T) {
	order := mustParse(t, "AAPL jun26 300 calls 500x")

	assert.Zero(t, order.Price)
	assert.Equal(t, models.QuoteBid, order.QuoteSide)
}

func TestParse_NoQuantityLegsDefaultToOne(t *testing.T) {
	order := mustParse(t, "AAPL jun26 300 calls vs250 30d")

	assert.Zero(t, order.Quantity)
	require.Len(t, order.Structure.Legs, 1)
	assert.Equal(t, 1, order.Structure.Legs[0].Quantity)
}

func TestParse_TickerUppercased(t *testing.T) {
	order := mustParse(t, "aapl Jun26 300 calls vs250 30d 5.00 bid 100x")
	assert.Equal(t, "AAPL", order.Underlying)
}

func TestParse_EmptyInput(t *testing.T) {
	_, err := parseAt("", testToday)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidOrder)

	_, err = parseAt("   ", testToday)
	assert.ErrorIs(t, err, apperrors.ErrInvalidOrder)
}

func TestParse_NoStrikes(t *testing.T) {
	_, err := parseAt("hello world", testToday)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidOrder)

	var parseErr *apperrors.ParseError
	assert.True(t, errors.As(err, &parseErr))
}

func TestParse_SingleWithoutTypeFails(t *testing.T) {
	_, err := parseAt("AAPL jun26 300 vs250", testToday)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidOrder)
}

func TestParse_DeltaDirectionFullOrder(t *testing.T) {
	order := mustParse(t, "AAPL Jun26 240/220 PS vs250 15d 500x delta to the 2x")
	assert.Equal(t, -15.0, order.Delta)

	order = mustParse(t, "AAPL Jun26 240/220 PS vs250 15d 500x delta to put")
	assert.Equal(t, -15.0, order.Delta)

	order = mustParse(t, "AAPL Jun26 240/260 CS vs250 15d 500x delta like call")
	assert.Equal(t, 15.0, order.Delta)
}

func TestInferStructureType(t *testing.T) {
	jun := time.Date(2026, time.June, 16, 0, 0, 0, 0, time.UTC)

	t.Run("one spec is single", func(t *testing.T) {
		specs := []legSpec{{expiry: jun, strike: 300}}
		assert.Equal(t, "single", inferStructureType(specs, ""))
	})

	t.Run("two differing types are a risk reversal", func(t *testing.T) {
		specs := []legSpec{
			{expiry: jun, strike: 240, typ: models.Put},
			{expiry: jun, strike: 300, typ: models.Call},
		}
		assert.Equal(t, "risk_reversal", inferStructureType(specs, ""))
	})

	t.Run("two specs with default put", func(t *testing.T) {
		specs := []legSpec{{strike: 240}, {strike: 220}}
		assert.Equal(t, "put_spread", inferStructureType(specs, models.Put))
	})

	t.Run("two specs with default call", func(t *testing.T) {
		specs := []legSpec{{strike: 240}, {strike: 260}}
		assert.Equal(t, "call_spread", inferStructureType(specs, models.Call))
	})

	t.Run("two untyped specs are a generic spread", func(t *testing.T) {
		specs := []legSpec{{strike: 240}, {strike: 220}}
		assert.Equal(t, "spread", inferStructureType(specs, ""))
	})
}

func TestApplyDeltaDirection(t *testing.T) {
	assert.Equal(t, -15.0, applyDeltaDirection(15, "put", "put_spread"))
	assert.Equal(t, -15.0, applyDeltaDirection(-15, "put", "call_spread"))
	assert.Equal(t, 15.0, applyDeltaDirection(-15, "call", "call_spread"))
	assert.Equal(t, 15.0, applyDeltaDirection(15, "1x", "call_spread"))
	assert.Equal(t, 15.0, applyDeltaDirection(15, "1x", "put_spread"))
	assert.Equal(t, 0.0, applyDeltaDirection(0, "put", "put_spread"))
	assert.Equal(t, 15.0, applyDeltaDirection(15, "", "put_spread"))
	// Non-spread structures pass through untouched.
	assert.Equal(t, 15.0, applyDeltaDirection(15, "1x", "straddle"))
	assert.Equal(t, 15.0, applyDeltaDirection(15, "2x", "straddle"))
}

// The 2x qualifier negates the delta on call spreads as well as put
// spreads. On a call spread the 2x leg is the short upper strike, so a
// positive reading might be expected; the parser treats both spread
// types identically and downstream tooling relies on that.
func TestApplyDeltaDirection_TwoTimes(t *testing.T) {
	assert.Equal(t, -15.0, applyDeltaDirection(15, "2x", "put_spread"))
	assert.Equal(t, -15.0, applyDeltaDirection(15, "2x", "call_spread"))
}
