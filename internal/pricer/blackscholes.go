package pricer

import (
	"fmt"
	"math"

	"github.com/chobie/go-gaussian"

	"options-pricer/internal/models"
)

var stdNormal = gaussian.NewGaussian(0, 1)

// OptionPrice is the pricing result for a single option leg.
type OptionPrice struct {
	Price float64
	Delta float64
	Gamma float64
	Theta float64
	Vega  float64
	Rho   float64
}

// StructurePrice is the aggregated pricing result for a structure.
type StructurePrice struct {
	TotalPrice float64
	TotalDelta float64
	TotalGamma float64
	TotalTheta float64
	TotalVega  float64
	TotalRho   float64
	LegPrices  []OptionPrice
}

// BlackScholesPrice calculates the Black-Scholes price of an option.
// S is spot, K strike, T time to expiry in years, r the annualized
// risk-free rate, sigma the annualized implied vol and q a continuous
// dividend yield. At or past expiry the intrinsic value is returned.
func BlackScholesPrice(S, K, T, r, sigma float64, optionType models.OptionType, q float64) float64 {
	if T <= 0 {
		if optionType == models.Call {
			return math.Max(S-K, 0)
		}
		return math.Max(K-S, 0)
	}

	d1, d2 := d1d2(S, K, T, r, sigma, q)

	if optionType == models.Call {
		return S*math.Exp(-q*T)*stdNormal.Cdf(d1) - K*math.Exp(-r*T)*stdNormal.Cdf(d2)
	}
	return K*math.Exp(-r*T)*stdNormal.Cdf(-d2) - S*math.Exp(-q*T)*stdNormal.Cdf(-d1)
}

// Greeks calculates the option price and all Greeks. Vega is per 1% vol
// move, theta per calendar day, rho per 1% rate move.
func Greeks(S, K, T, r, sigma float64, optionType models.OptionType, q float64) OptionPrice {
	price := BlackScholesPrice(S, K, T, r, sigma, optionType, q)

	if T <= 0 {
		inTheMoney := (optionType == models.Call && S > K) || (optionType == models.Put && S < K)
		var delta float64
		if inTheMoney {
			if optionType == models.Call {
				delta = 1
			} else {
				delta = -1
			}
		}
		return OptionPrice{Price: price, Delta: delta}
	}

	d1, d2 := d1d2(S, K, T, r, sigma, q)
	expQT := math.Exp(-q * T)
	expRT := math.Exp(-r * T)
	sqrtT := math.Sqrt(T)

	gamma := expQT * stdNormal.Pdf(d1) / (S * sigma * sqrtT)
	vega := S * expQT * stdNormal.Pdf(d1) * sqrtT / 100.0

	var delta, theta, rho float64
	if optionType == models.Call {
		delta = expQT * stdNormal.Cdf(d1)
		theta = (-S*expQT*stdNormal.Pdf(d1)*sigma/(2*sqrtT) +
			q*S*expQT*stdNormal.Cdf(d1) -
			r*K*expRT*stdNormal.Cdf(d2)) / 365.0
		rho = K * T * expRT * stdNormal.Cdf(d2) / 100.0
	} else {
		delta = expQT * (stdNormal.Cdf(d1) - 1)
		theta = (-S*expQT*stdNormal.Pdf(d1)*sigma/(2*sqrtT) -
			q*S*expQT*stdNormal.Cdf(-d1) +
			r*K*expRT*stdNormal.Cdf(-d2)) / 365.0
		rho = -K * T * expRT * stdNormal.Cdf(-d2) / 100.0
	}

	return OptionPrice{
		Price: price,
		Delta: delta,
		Gamma: gamma,
		Theta: theta,
		Vega:  vega,
		Rho:   rho,
	}
}

// VolSurface supplies an implied vol per strike.
type VolSurface interface {
	VolForStrike(strike float64) (float64, bool)
}

// FlatVol is a VolSurface with one vol for every strike.
type FlatVol float64

// VolForStrike returns the flat vol for any strike.
func (v FlatVol) VolForStrike(strike float64) (float64, bool) {
	return float64(v), true
}

// StrikeVols is a VolSurface backed by an explicit strike -> vol map.
type StrikeVols map[float64]float64

// VolForStrike returns the vol for the given strike, if present.
func (v StrikeVols) VolForStrike(strike float64) (float64, bool) {
	vol, ok := v[strike]
	return vol, ok
}

// PriceStructure prices an entire structure theoretically, scaling each
// leg by its direction and quantity. T overrides leg expiries, keeping
// every leg on one clock.
func PriceStructure(structure models.OptionStructure, spot, r float64, vols VolSurface, T, q float64) (*StructurePrice, error) {
	result := &StructurePrice{}

	for _, leg := range structure.Legs {
		vol, ok := vols.VolForStrike(leg.Strike)
		if !ok {
			return nil, fmt.Errorf("no vol provided for strike %g", leg.Strike)
		}

		raw := Greeks(spot, leg.Strike, T, r, vol, leg.Type, q)
		scale := float64(leg.Direction()) * float64(leg.Quantity)
		scaled := OptionPrice{
			Price: raw.Price * scale,
			Delta: raw.Delta * scale,
			Gamma: raw.Gamma * scale,
			Theta: raw.Theta * scale,
			Vega:  raw.Vega * scale,
			Rho:   raw.Rho * scale,
		}
		result.LegPrices = append(result.LegPrices, scaled)

		result.TotalPrice += scaled.Price
		result.TotalDelta += scaled.Delta
		result.TotalGamma += scaled.Gamma
		result.TotalTheta += scaled.Theta
		result.TotalVega += scaled.Vega
		result.TotalRho += scaled.Rho
	}

	return result, nil
}

func d1d2(S, K, T, r, sigma, q float64) (float64, float64) {
	d1 := (math.Log(S/K) + (r-q+0.5*sigma*sigma)*T) / (sigma * math.Sqrt(T))
	d2 := d1 - sigma*math.Sqrt(T)
	return d1, d2
}
