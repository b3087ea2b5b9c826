package parser

import (
	"sort"

	apperrors "options-pricer/internal/errors"
	"options-pricer/internal/models"
)

// buildLegs constructs the final ordered leg list from leg specs,
// following the construction conventions of the given structure type.
func buildLegs(
	ticker string,
	specs []legSpec,
	defaultType models.OptionType,
	structureType string,
	r1, r2 int,
	modifier string,
	quantity int,
) ([]models.OptionLeg, error) {
	if len(specs) == 0 {
		return nil, apperrors.NewParseError(ticker, "no strikes/expiries found in order")
	}

	// Legs without an explicit type inherit the default.
	for i := range specs {
		if specs[i].typ == "" {
			specs[i].typ = defaultType
		}
	}

	st := structureType
	if st == "" {
		st = "single"
	}

	switch st {
	case "single":
		return buildSingle(ticker, specs, quantity)
	case "put_spread", "call_spread", "spread":
		return buildSpread(ticker, specs, st, quantity, r1, r2)
	case "risk_reversal":
		return buildRiskReversal(ticker, specs, quantity, modifier)
	case "straddle":
		return buildStraddle(ticker, specs, quantity)
	case "strangle":
		return buildStrangle(ticker, specs, quantity)
	case "butterfly":
		return buildButterfly(ticker, specs, quantity, defaultType)
	case "collar":
		return buildCollar(ticker, specs, quantity)
	default:
		return nil, apperrors.NewParseError(ticker, "unknown structure type: %s", st)
	}
}

// resolveType returns the spec's option type, falling back when absent.
func resolveType(spec legSpec, fallback models.OptionType) (models.OptionType, error) {
	t := spec.typ
	if t == "" {
		t = fallback
	}
	if t == "" {
		return "", apperrors.NewParseError("", "cannot determine option type for strike %g", spec.strike)
	}
	return t, nil
}

func buildSingle(ticker string, specs []legSpec, quantity int) ([]models.OptionLeg, error) {
	spec := specs[0]
	optType, err := resolveType(spec, "")
	if err != nil {
		return nil, err
	}
	return []models.OptionLeg{{
		Underlying: ticker,
		Expiry:     spec.expiry,
		Strike:     spec.strike,
		Type:       optType,
		Side:       models.SideBuy,
		Quantity:   quantity,
		Ratio:      1,
	}}, nil
}

// buildSpread builds a vertical (or generic) spread. Put spread 1xN:
// sell the higher strike at r1, buy the lower at r2. Call spread 1xN:
// buy the lower strike at r1, sell the higher at r2.
func buildSpread(ticker string, specs []legSpec, spreadType string, quantity, r1, r2 int) ([]models.OptionLeg, error) {
	if len(specs) < 2 {
		return nil, apperrors.NewParseError(ticker, "spread requires at least 2 strikes")
	}

	s1, s2 := specs[0], specs[1]

	var optType models.OptionType
	switch spreadType {
	case "put_spread":
		optType = models.Put
	case "call_spread":
		optType = models.Call
	default:
		t, err := resolveType(s1, s2.typ)
		if err != nil {
			return nil, err
		}
		optType = t
	}

	highSpec, lowSpec := s1, s2
	if s1.strike < s2.strike {
		highSpec, lowSpec = s2, s1
	}

	if optType == models.Put {
		return []models.OptionLeg{
			{
				Underlying: ticker,
				Expiry:     highSpec.expiry,
				Strike:     highSpec.strike,
				Type:       models.Put,
				Side:       models.SideSell,
				Quantity:   quantity * r1,
				Ratio:      r1,
			},
			{
				Underlying: ticker,
				Expiry:     lowSpec.expiry,
				Strike:     lowSpec.strike,
				Type:       models.Put,
				Side:       models.SideBuy,
				Quantity:   quantity * r2,
				Ratio:      r2,
			},
		}, nil
	}

	return []models.OptionLeg{
		{
			Underlying: ticker,
			Expiry:     lowSpec.expiry,
			Strike:     lowSpec.strike,
			Type:       models.Call,
			Side:       models.SideBuy,
			Quantity:   quantity * r1,
			Ratio:      r1,
		},
		{
			Underlying: ticker,
			Expiry:     highSpec.expiry,
			Strike:     highSpec.strike,
			Type:       models.Call,
			Side:       models.SideSell,
			Quantity:   quantity * r2,
			Ratio:      r2,
		},
	}, nil
}

// buildRiskReversal assigns the put and call legs either by explicit
// per-leg types or by convention (lower strike = put). Default and
// "callover": sell the put, buy the call. "putover" flips both sides.
func buildRiskReversal(ticker string, specs []legSpec, quantity int, modifier string) ([]models.OptionLeg, error) {
	if len(specs) < 2 {
		return nil, apperrors.NewParseError(ticker, "risk reversal requires 2 strikes")
	}

	s1, s2 := specs[0], specs[1]

	var putSpec, callSpec legSpec
	if s1.typ != "" && s2.typ != "" {
		if s1.typ == models.Put {
			putSpec, callSpec = s1, s2
		} else {
			putSpec, callSpec = s2, s1
		}
	} else if s1.strike <= s2.strike {
		putSpec, callSpec = s1, s2
	} else {
		putSpec, callSpec = s2, s1
	}

	putSide, callSide := models.SideSell, models.SideBuy
	if modifier == "putover" {
		putSide, callSide = models.SideBuy, models.SideSell
	}

	return []models.OptionLeg{
		{
			Underlying: ticker,
			Expiry:     putSpec.expiry,
			Strike:     putSpec.strike,
			Type:       models.Put,
			Side:       putSide,
			Quantity:   quantity,
			Ratio:      1,
		},
		{
			Underlying: ticker,
			Expiry:     callSpec.expiry,
			Strike:     callSpec.strike,
			Type:       models.Call,
			Side:       callSide,
			Quantity:   quantity,
			Ratio:      1,
		},
	}, nil
}

func buildStraddle(ticker string, specs []legSpec, quantity int) ([]models.OptionLeg, error) {
	if len(specs) < 1 {
		return nil, apperrors.NewParseError(ticker, "straddle requires at least 1 strike")
	}
	spec := specs[0]
	legs := make([]models.OptionLeg, 0, 2)
	for _, optType := range []models.OptionType{models.Call, models.Put} {
		legs = append(legs, models.OptionLeg{
			Underlying: ticker,
			Expiry:     spec.expiry,
			Strike:     spec.strike,
			Type:       optType,
			Side:       models.SideBuy,
			Quantity:   quantity,
			Ratio:      1,
		})
	}
	return legs, nil
}

func buildStrangle(ticker string, specs []legSpec, quantity int) ([]models.OptionLeg, error) {
	if len(specs) < 2 {
		return nil, apperrors.NewParseError(ticker, "strangle requires 2 strikes")
	}
	sorted := sortByStrike(specs)
	return []models.OptionLeg{
		{
			Underlying: ticker,
			Expiry:     sorted[0].expiry,
			Strike:     sorted[0].strike,
			Type:       models.Put,
			Side:       models.SideBuy,
			Quantity:   quantity,
			Ratio:      1,
		},
		{
			Underlying: ticker,
			Expiry:     sorted[1].expiry,
			Strike:     sorted[1].strike,
			Type:       models.Call,
			Side:       models.SideBuy,
			Quantity:   quantity,
			Ratio:      1,
		},
	}, nil
}

// buildButterfly buys the wings and sells the body at twice the order
// quantity. All three legs share one option type: explicit on the lowest
// strike, else the default, else call.
func buildButterfly(ticker string, specs []legSpec, quantity int, defaultType models.OptionType) ([]models.OptionLeg, error) {
	if len(specs) < 3 {
		return nil, apperrors.NewParseError(ticker, "butterfly requires 3 strikes")
	}
	sorted := sortByStrike(specs)
	optType := sorted[0].typ
	if optType == "" {
		optType = defaultType
	}
	if optType == "" {
		optType = models.Call
	}
	sides := []models.Side{models.SideBuy, models.SideSell, models.SideBuy}
	ratios := []int{1, 2, 1}
	legs := make([]models.OptionLeg, 0, 3)
	for i := 0; i < 3; i++ {
		legs = append(legs, models.OptionLeg{
			Underlying: ticker,
			Expiry:     sorted[i].expiry,
			Strike:     sorted[i].strike,
			Type:       optType,
			Side:       sides[i],
			Quantity:   quantity * ratios[i],
			Ratio:      ratios[i],
		})
	}
	return legs, nil
}

func buildCollar(ticker string, specs []legSpec, quantity int) ([]models.OptionLeg, error) {
	if len(specs) < 2 {
		return nil, apperrors.NewParseError(ticker, "collar requires 2 strikes")
	}
	sorted := sortByStrike(specs)
	return []models.OptionLeg{
		{
			Underlying: ticker,
			Expiry:     sorted[0].expiry,
			Strike:     sorted[0].strike,
			Type:       models.Put,
			Side:       models.SideBuy,
			Quantity:   quantity,
			Ratio:      1,
		},
		{
			Underlying: ticker,
			Expiry:     sorted[1].expiry,
			Strike:     sorted[1].strike,
			Type:       models.Call,
			Side:       models.SideSell,
			Quantity:   quantity,
			Ratio:      1,
		},
	}, nil
}

func sortByStrike(specs []legSpec) []legSpec {
	sorted := make([]legSpec, len(specs))
	copy(sorted, specs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].strike < sorted[j].strike
	})
	return sorted
}
