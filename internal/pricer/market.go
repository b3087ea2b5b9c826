// Package pricer computes structure-level pricing: bid/offer/mid
// aggregation from per-leg screen quotes, and Black-Scholes theoretical
// values with Greeks.
package pricer

import (
	"math"

	apperrors "options-pricer/internal/errors"
	"options-pricer/internal/models"
)

// PriceStructureFromMarket calculates structure bid/offer/sizes from
// screen market data, one LegMarketData per leg in structure order.
//
// Per-leg sign convention:
//
//	BUY leg:  structure bid loses the leg bid (you would close out by
//	          selling at bid); structure offer pays the leg offer.
//	SELL leg: structure bid pays back the leg offer; structure offer
//	          receives the leg bid.
//
// The raw pair is normalized so bid <= offer; the economic sign (credit
// vs debit) stays in the possibly negative values, and callers take the
// absolute value only for display.
func PriceStructureFromMarket(order *models.ParsedOrder, legMarket []models.LegMarketData, stockPrice float64) (*models.StructureMarketData, error) {
	legs := order.Structure.Legs

	if len(legs) != len(legMarket) {
		return nil, apperrors.NewPricingError(len(legs), len(legMarket))
	}

	var rawBid, rawOffer float64
	for i, leg := range legs {
		mkt := legMarket[i]
		qty := float64(leg.Quantity)
		if leg.Side == models.SideBuy {
			rawBid -= mkt.Bid * qty
			rawOffer -= mkt.Offer * qty
		} else {
			rawBid += mkt.Offer * qty
			rawOffer += mkt.Bid * qty
		}
	}

	if rawBid > rawOffer {
		rawBid, rawOffer = rawOffer, rawBid
	}

	legData := make([]models.LegQuote, len(legs))
	for i, leg := range legs {
		legData[i] = models.LegQuote{Leg: leg, Market: legMarket[i]}
	}

	return &models.StructureMarketData{
		LegData:            legData,
		StockPrice:         stockPrice,
		StockRef:           order.StockRef,
		Delta:              order.Delta,
		StructureBid:       rawBid,
		StructureOffer:     rawOffer,
		StructureBidSize:   calcStructureSize(legs, legMarket, true),
		StructureOfferSize: calcStructureSize(legs, legMarket, false),
	}, nil
}

// calcStructureSize returns the max structure quantity the screen can
// fill on one side. Each leg's constraining size is divided by its
// weight relative to the structure's base unit (the minimum per-leg
// quantity); the bottleneck leg sets the structure size.
func calcStructureSize(legs []models.OptionLeg, legMarket []models.LegMarketData, forBid bool) int {
	if len(legs) == 0 {
		return 0
	}

	baseQty := legs[0].Quantity
	for _, leg := range legs[1:] {
		if leg.Quantity < baseQty {
			baseQty = leg.Quantity
		}
	}

	minStructures := math.Inf(1)
	for i, leg := range legs {
		mkt := legMarket[i]
		var available int
		if forBid {
			// Selling the structure: sell legs are bought back at
			// offer, buy legs are sold at bid.
			if leg.Side == models.SideSell {
				available = mkt.OfferSize
			} else {
				available = mkt.BidSize
			}
		} else {
			// Buying the structure: buy legs lift the offer, sell
			// legs hit the bid.
			if leg.Side == models.SideBuy {
				available = mkt.OfferSize
			} else {
				available = mkt.BidSize
			}
		}

		if leg.Quantity > 0 {
			possible := float64(available) / (float64(leg.Quantity) / float64(baseQty))
			if possible < minStructures {
				minStructures = possible
			}
		}
	}

	if math.IsInf(minStructures, 1) {
		return 0
	}
	return int(minStructures)
}
