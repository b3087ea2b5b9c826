package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"options-pricer/internal/models"
)

// FormatMoney formats a dollar amount with 2 decimal places.
func FormatMoney(amount float64) string {
	if amount < 0 {
		return fmt.Sprintf("-$%.2f", -amount)
	}
	return fmt.Sprintf("$%.2f", amount)
}

// FormatStrike formats a strike without trailing zeros (240, 247.5).
func FormatStrike(strike float64) string {
	return strconv.FormatFloat(strike, 'f', -1, 64)
}

// FormatExpiry formats an expiry in broker shorthand, e.g. Jun26.
func FormatExpiry(expiry time.Time) string {
	return expiry.Format("Jan") + expiry.Format("06")
}

// FormatQuantity formats a contract count with thousands separators.
func FormatQuantity(qty int) string {
	s := strconv.Itoa(qty)
	negative := strings.HasPrefix(s, "-")
	if negative {
		s = s[1:]
	}
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	if negative {
		s = "-" + s
	}
	return s
}

// FormatOptionType renders an option type for display (Call, Put).
func FormatOptionType(t models.OptionType) string {
	switch t {
	case models.Call:
		return "Call"
	case models.Put:
		return "Put"
	}
	return string(t)
}

// FormatSide renders a leg side for display (BUY, SELL).
func FormatSide(side models.Side) string {
	return strings.ToUpper(string(side))
}

// FormatLeg renders one leg in broker-readable form, e.g.
// "SELL 1,000x AAPL Jun26 240 Put".
func FormatLeg(leg models.OptionLeg) string {
	return fmt.Sprintf("%s %sx %s %s %s %s",
		FormatSide(leg.Side),
		FormatQuantity(leg.Quantity),
		leg.Underlying,
		FormatExpiry(leg.Expiry),
		FormatStrike(leg.Strike),
		FormatOptionType(leg.Type))
}

// FormatStructureName renders a structure name for display,
// e.g. "put spread" or "put_spread" -> Put Spread.
func FormatStructureName(name string) string {
	parts := strings.Fields(strings.ReplaceAll(name, "_", " "))
	for i, p := range parts {
		if p == "" {
			continue
		}
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, " ")
}

// FormatDelta renders a hedge delta in broker shorthand, e.g. 15d or -25d.
func FormatDelta(delta float64) string {
	return strconv.FormatFloat(delta, 'f', -1, 64) + "d"
}

// FormatQuoteSide renders the quoted side of the market.
func FormatQuoteSide(side models.QuoteSide) string {
	if side == models.QuoteOffer {
		return "offer"
	}
	return "bid"
}
