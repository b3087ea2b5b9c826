// Package models provides domain models for option orders and structures.
package models

import (
	"math"
	"time"
)

// OptionType represents the type of an option contract.
type OptionType string

const (
	Call OptionType = "call"
	Put  OptionType = "put"
)

// Side represents the side of a leg.
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// Direction returns +1 for buy, -1 for sell.
func (s Side) Direction() int {
	if s == SideBuy {
		return 1
	}
	return -1
}

// QuoteSide represents which side of the market a broker price refers to.
type QuoteSide string

const (
	QuoteBid   QuoteSide = "bid"
	QuoteOffer QuoteSide = "offer"
)

// OptionLeg is a single option leg within a structure.
type OptionLeg struct {
	Underlying string
	Expiry     time.Time
	Strike     float64
	Type       OptionType
	Side       Side
	Quantity   int // total contracts for this leg
	Ratio      int // weight relative to the structure's base unit
}

// Direction returns +1 for a buy leg, -1 for a sell leg.
func (l OptionLeg) Direction() int {
	return l.Side.Direction()
}

// Payoff returns the leg's payoff at expiration for a given spot price.
func (l OptionLeg) Payoff(spot float64) float64 {
	var intrinsic float64
	if l.Type == Call {
		intrinsic = math.Max(spot-l.Strike, 0)
	} else {
		intrinsic = math.Max(l.Strike-spot, 0)
	}
	return float64(l.Direction()) * float64(l.Quantity) * intrinsic
}

// OptionStructure is a multi-leg option structure (spread, straddle, etc.).
// Leg order is construction order; it matters for display, not pricing.
type OptionStructure struct {
	Name        string
	Legs        []OptionLeg
	Description string
}

// TotalPayoff returns the structure payoff at a given spot price.
func (s OptionStructure) TotalPayoff(spot float64) float64 {
	var total float64
	for _, leg := range s.Legs {
		total += leg.Payoff(spot)
	}
	return total
}

// PayoffPoint is one (spot, payoff) sample of a payoff curve.
type PayoffPoint struct {
	Spot   float64
	Payoff float64
}

// PayoffRange samples the structure payoff across a spot range.
func (s OptionStructure) PayoffRange(spotLow, spotHigh float64, steps int) []PayoffPoint {
	if steps <= 0 {
		steps = 200
	}
	stepSize := (spotHigh - spotLow) / float64(steps)
	points := make([]PayoffPoint, 0, steps+1)
	for i := 0; i <= steps; i++ {
		spot := spotLow + float64(i)*stepSize
		points = append(points, PayoffPoint{Spot: spot, Payoff: s.TotalPayoff(spot)})
	}
	return points
}

// NetQuantity returns the signed sum of direction*quantity across legs.
func (s OptionStructure) NetQuantity() int {
	var net int
	for _, leg := range s.Legs {
		net += leg.Direction() * leg.Quantity
	}
	return net
}

// Underlyings returns the distinct underlying tickers across legs.
func (s OptionStructure) Underlyings() []string {
	seen := make(map[string]bool)
	var out []string
	for _, leg := range s.Legs {
		if !seen[leg.Underlying] {
			seen[leg.Underlying] = true
			out = append(out, leg.Underlying)
		}
	}
	return out
}

// ParsedOrder is a fully parsed broker order with all metadata.
// StockRef, Delta and Price use 0.0 as the "not present" sentinel; callers
// deciding what to display must treat 0.0 as absent for those three fields.
type ParsedOrder struct {
	Underlying string
	Structure  OptionStructure
	StockRef   float64
	Delta      float64
	Price      float64
	QuoteSide  QuoteSide
	Quantity   int
	RawText    string
}
