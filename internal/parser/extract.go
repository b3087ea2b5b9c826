package parser

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"options-pricer/internal/models"
)

// structureAliases maps broker shorthand to canonical structure types.
var structureAliases = map[string]string{
	"ps":            "put_spread",
	"cs":            "call_spread",
	"put spread":    "put_spread",
	"call spread":   "call_spread",
	"risky":         "risk_reversal",
	"risk reversal": "risk_reversal",
	"rr":            "risk_reversal",
	"strad":         "straddle",
	"straddle":      "straddle",
	"strangle":      "strangle",
	"fly":           "butterfly",
	"butterfly":     "butterfly",
	"collar":        "collar",
}

// aliasesByLength holds structure aliases longest first so that
// multi-word aliases win over their substrings.
var aliasesByLength = func() []string {
	aliases := make([]string, 0, len(structureAliases))
	for alias := range structureAliases {
		aliases = append(aliases, alias)
	}
	sort.Slice(aliases, func(i, j int) bool {
		if len(aliases[i]) != len(aliases[j]) {
			return len(aliases[i]) > len(aliases[j])
		}
		return aliases[i] < aliases[j]
	})
	return aliases
}()

var aliasPatterns = func() map[string]*regexp.Regexp {
	patterns := make(map[string]*regexp.Regexp, len(structureAliases))
	for alias := range structureAliases {
		patterns[alias] = regexp.MustCompile(`\b` + regexp.QuoteMeta(alias) + `\b`)
	}
	return patterns
}()

var (
	stockRefPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\bvs\.?\s*(\d+\.?\d*)`),
		regexp.MustCompile(`(?i)\btt\s*(\d+\.?\d*)`),
		regexp.MustCompile(`(?i)\bt\s+(\d+\.?\d*)`),
	}

	deltaPattern = regexp.MustCompile(`(?i)(?:on\s+a\s+)?([+-]?\d+)\s*d\b`)

	quantityXPattern = regexp.MustCompile(`(?i)(\d+)\s*x\b`)
	quantityKPattern = regexp.MustCompile(`(?i)(\d+)\s*k\b`)

	priceBidWordPattern     = regexp.MustCompile(`(?i)(\d+\.?\d*)\s+bid\b`)
	priceOfferWordPattern   = regexp.MustCompile(`(?i)(\d+\.?\d*)\s+(?:offer|ask)\b`)
	priceBidSuffixPattern   = regexp.MustCompile(`(?i)(\d+\.?\d*)b\b`)
	priceOfferSuffixPattern = regexp.MustCompile(`(?i)(\d+\.?\d*)o\b`)
	priceAtSymbolPattern    = regexp.MustCompile(`@\s*(\d+\.?\d*)`)
	priceAtWordPattern      = regexp.MustCompile(`(?i)\bat\s+(\d+\.?\d*)\b`)

	ratioPattern = regexp.MustCompile(`\b(\d+)\s*[Xx]\s*(\d+)\b`)

	modifierNxOverPattern   = regexp.MustCompile(`(?i)\b(\d+)[Xx]\s+over\b`)
	modifierPutOverPattern  = regexp.MustCompile(`(?i)\bput\s*over\b`)
	modifierCallOverPattern = regexp.MustCompile(`(?i)\bcall\s*over\b`)

	livePattern = regexp.MustCompile(`(?i)\bLIVE\b`)

	deltaDirectionNxPattern   = regexp.MustCompile(`(?i)\bdelta\s+to\s+the\s+(\d+)x\b`)
	deltaDirectionWordPattern = regexp.MustCompile(`(?i)\bdelta\s+(?:to|like)\s+(put|call)\b`)
)

// extractStockRef extracts the reference stock price:
// vs250.32, vs. 250, tt69.86, t 171.10.
func extractStockRef(text string) (float64, bool) {
	for _, pattern := range stockRefPatterns {
		if m := pattern.FindStringSubmatch(text); m != nil {
			v, err := strconv.ParseFloat(m[1], 64)
			if err == nil {
				return v, true
			}
		}
	}
	return 0, false
}

// extractDelta extracts the delta: 30d, 3d, on a 11d, +20d, -15d.
func extractDelta(text string) (float64, bool) {
	if m := deltaPattern.FindStringSubmatch(text); m != nil {
		v, err := strconv.ParseFloat(m[1], 64)
		if err == nil {
			return v, true
		}
	}
	return 0, false
}

// extractQuantity extracts the contract quantity: 1058x, 600x, 2500x.
// A trailing k means thousands: 1k = 1000. Both forms must be told apart
// from the left half of a ratio token like 1X2.
func extractQuantity(text string) (int, bool) {
	if qty, ok := extractQuantityPattern(text, quantityXPattern, 1); ok {
		return qty, true
	}
	return extractQuantityPattern(text, quantityKPattern, 1000)
}

func extractQuantityPattern(text string, pattern *regexp.Regexp, multiplier int) (int, bool) {
	loc := pattern.FindStringSubmatchIndex(text)
	if loc == nil {
		return 0, false
	}
	val, err := strconv.Atoi(text[loc[2]:loc[3]])
	if err != nil {
		return 0, false
	}
	end := loc[1]
	if end < len(text) && isDigit(text[end]) {
		// The match is the left half of a ratio like 1X2; look for a
		// second, non-ratio occurrence in the remainder.
		rest := text[end:]
		loc2 := pattern.FindStringSubmatchIndex(rest)
		if loc2 != nil && !(loc2[1] < len(rest) && isDigit(rest[loc2[1]])) {
			val2, err := strconv.Atoi(rest[loc2[2]:loc2[3]])
			if err == nil {
				return val2 * multiplier, true
			}
		}
		return 0, false
	}
	return val * multiplier, true
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

// extractPriceAndSide extracts the broker price and its quote side.
// Formats, first match wins: "20.50 bid", "0.41 offer", "2.4b", "3.5o",
// "@ 1.60", "at 2.55". The @ and at forms follow the offer convention.
func extractPriceAndSide(text string) (float64, models.QuoteSide, bool) {
	type attempt struct {
		pattern *regexp.Regexp
		side    models.QuoteSide
	}
	attempts := []attempt{
		{priceBidWordPattern, models.QuoteBid},
		{priceOfferWordPattern, models.QuoteOffer},
		{priceBidSuffixPattern, models.QuoteBid},
		{priceOfferSuffixPattern, models.QuoteOffer},
		{priceAtSymbolPattern, models.QuoteOffer},
		{priceAtWordPattern, models.QuoteOffer},
	}
	for _, a := range attempts {
		if m := a.pattern.FindStringSubmatch(text); m != nil {
			v, err := strconv.ParseFloat(m[1], 64)
			if err == nil {
				return v, a.side, true
			}
		}
	}
	return 0, "", false
}

// extractRatio extracts a two-sided ratio like 1X2 or 1x3. A match only
// counts as a ratio when the second integer exceeds 1 and the first is
// smaller, which keeps quantity tokens like 500x from colliding.
func extractRatio(text string) (int, int, bool) {
	if m := ratioPattern.FindStringSubmatch(text); m != nil {
		a, err1 := strconv.Atoi(m[1])
		b, err2 := strconv.Atoi(m[2])
		if err1 == nil && err2 == nil && b > 1 && a < b {
			return a, b, true
		}
	}
	return 0, 0, false
}

// extractModifier extracts a structure modifier: "1X over" -> "1x_over",
// "put over"/"putover" -> "putover", "call over"/"callover" -> "callover".
func extractModifier(text string) (string, bool) {
	if m := modifierNxOverPattern.FindStringSubmatch(text); m != nil {
		return fmt.Sprintf("%sx_over", m[1]), true
	}
	if modifierPutOverPattern.MatchString(text) {
		return "putover", true
	}
	if modifierCallOverPattern.MatchString(text) {
		return "callover", true
	}
	return "", false
}

// extractIsLive reports whether the order is LIVE (options only, no
// stock hedge).
func extractIsLive(text string) bool {
	return livePattern.MatchString(text)
}

// extractDeltaDirection extracts the delta direction qualifier:
// "delta to the 1x" -> "1x", "delta to put" / "delta like call" ->
// "put"/"call".
func extractDeltaDirection(text string) (string, bool) {
	if m := deltaDirectionNxPattern.FindStringSubmatch(text); m != nil {
		return fmt.Sprintf("%sx", m[1]), true
	}
	if m := deltaDirectionWordPattern.FindStringSubmatch(text); m != nil {
		return strings.ToLower(m[1]), true
	}
	return "", false
}

// extractStructureType extracts an explicit structure type alias, longest
// alias first so "risk reversal" wins over "rr".
func extractStructureType(text string) (string, bool) {
	lower := strings.ToLower(text)
	for _, alias := range aliasesByLength {
		if aliasPatterns[alias].MatchString(lower) {
			return structureAliases[alias], true
		}
	}
	return "", false
}
