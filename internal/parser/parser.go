// Package parser parses IDB broker shorthand for option structure orders.
//
// It handles flexible token ordering and the usual broker conventions:
//
//	"AAPL jun26 300 calls vs250.32 30d 20.50 bid 1058x"
//	"UBER Jun26 45P tt69.86 3d 0.41 bid 1058x"
//	"QCOM 85P Jan27 tt141.17 7d 2.4b 600x"
//	"VST Apr 130p 500 @ 2.55 tt 171.10 on a 11d"
//	"IWM feb 257 apr 280 Risky vs 262.54 52d 2500x @ 1.60"
//	"AAPL Jun26 240/220 PS 1X2 vs250 15d 500x @ 3.50 1X over"
package parser

import (
	"math"
	"strings"
	"time"

	apperrors "options-pricer/internal/errors"
	"options-pricer/internal/models"
)

// Parse parses a broker shorthand order string into a ParsedOrder.
// Any failure aborts the whole parse and returns an error wrapping
// errors.ErrInvalidOrder.
func Parse(text string) (*models.ParsedOrder, error) {
	return parseAt(text, time.Now())
}

// parseAt is Parse with an explicit "today" for deterministic expiry
// resolution in tests.
func parseAt(text string, today time.Time) (*models.ParsedOrder, error) {
	original := strings.TrimSpace(text)
	if original == "" {
		return nil, apperrors.NewParseError(original, "empty order string")
	}

	stockRef, _ := extractStockRef(original)
	delta, _ := extractDelta(original)
	quantity, _ := extractQuantity(original)
	price, quoteSide, havePrice := extractPriceAndSide(original)
	r1, r2, haveRatio := extractRatio(original)
	modifier, _ := extractModifier(original)
	structureType, _ := extractStructureType(original)
	isLive := extractIsLive(original)
	deltaDirection, _ := extractDeltaDirection(original)

	s := newScanner(original, structureType, today)
	if err := s.scan(); err != nil {
		return nil, err
	}

	if s.ticker == "" {
		return nil, apperrors.NewParseError(original, "cannot identify ticker")
	}

	if structureType == "" {
		structureType = inferStructureType(s.specs, s.defaultType)
	}

	if !haveRatio {
		r1, r2 = 1, 1
	}

	orderQty := quantity
	if orderQty == 0 {
		orderQty = 1
	}

	legs, err := buildLegs(s.ticker, s.specs, s.defaultType, structureType, r1, r2, modifier, orderQty)
	if err != nil {
		return nil, err
	}

	displayName := structureType
	if displayName == "" {
		displayName = "single"
	}
	structure := models.OptionStructure{
		Name:        strings.ReplaceAll(displayName, "_", " "),
		Legs:        legs,
		Description: original,
	}

	// LIVE = options only, no stock hedge.
	if isLive {
		stockRef = 0
		delta = 0
	}

	delta = applyDeltaDirection(delta, deltaDirection, structureType)

	if !havePrice {
		quoteSide = models.QuoteBid
	}

	return &models.ParsedOrder{
		Underlying: strings.ToUpper(s.ticker),
		Structure:  structure,
		StockRef:   stockRef,
		Delta:      delta,
		Price:      price,
		QuoteSide:  quoteSide,
		Quantity:   quantity,
		RawText:    original,
	}, nil
}

// inferStructureType infers the structure from leg count when no alias
// was given: one spec is a single; two specs are a risk reversal when
// their types differ, a put/call spread matching the default type, or a
// generic spread.
func inferStructureType(specs []legSpec, defaultType models.OptionType) string {
	switch len(specs) {
	case 1:
		return "single"
	case 2:
		t1, t2 := specs[0].typ, specs[1].typ
		if t1 != "" && t2 != "" && t1 != t2 {
			return "risk_reversal"
		}
		switch defaultType {
		case models.Put:
			return "put_spread"
		case models.Call:
			return "call_spread"
		default:
			return "spread"
		}
	default:
		return ""
	}
}

// applyDeltaDirection applies the sign implied by a delta-direction
// qualifier. "put" forces negative, "call" positive. "delta to the 1x"
// on a call spread points at the buy leg and on a put spread at the
// short put, both positive. "delta to the 2x" negates for both spread
// types.
func applyDeltaDirection(delta float64, direction, structureType string) float64 {
	if delta == 0 || direction == "" {
		return delta
	}
	switch direction {
	case "put":
		return -math.Abs(delta)
	case "call":
		return math.Abs(delta)
	case "1x":
		if structureType == "call_spread" || structureType == "put_spread" {
			return math.Abs(delta)
		}
	case "2x":
		if structureType == "call_spread" || structureType == "put_spread" {
			return -math.Abs(delta)
		}
	}
	return delta
}
