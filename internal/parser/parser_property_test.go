package parser

import (
	"fmt"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"options-pricer/internal/models"
)

// Property: for any generated single-leg order, the ticker is uppercased,
// the strike and quantity survive the round trip, and the leg carries the
// requested option type.
func TestProperty_SingleLegRoundTrip(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	parameters.Rng.Seed(1758)

	properties := gopter.NewProperties(parameters)

	tickers := []string{"aapl", "MSFT", "spy", "Tsla", "uber"}
	monthNames := []string{"jan", "feb", "mar", "apr", "may", "jun", "jul", "aug", "sep", "oct", "nov", "dec"}

	properties.Property("single leg round trip", prop.ForAll(
		func(tickerIdx, monthIdx, strike, qty int, isPut bool) bool {
			ticker := tickers[tickerIdx%len(tickers)]
			month := monthNames[monthIdx%len(monthNames)]
			typeWord := "calls"
			wantType := models.Call
			if isPut {
				typeWord = "puts"
				wantType = models.Put
			}

			text := fmt.Sprintf("%s %s26 %d %s %dx", ticker, month, strike, typeWord, qty)
			order, err := parseAt(text, testToday)
			if err != nil {
				t.Logf("parse failed for %q: %v", text, err)
				return false
			}

			if order.Underlying != strings.ToUpper(ticker) {
				return false
			}
			if order.Quantity != qty {
				return false
			}
			if len(order.Structure.Legs) != 1 {
				return false
			}
			leg := order.Structure.Legs[0]
			return leg.Strike == float64(strike) &&
				leg.Type == wantType &&
				leg.Quantity == qty &&
				leg.Expiry.Year() == 2026 &&
				leg.Expiry.Day() == 16
		},
		gen.IntRange(0, 4),
		gen.IntRange(0, 11),
		gen.IntRange(5, 900),
		gen.IntRange(1, 5000),
		gen.Bool(),
	))

	properties.TestingRun(t)
}

// Property: a put spread always sells the higher strike and buys the
// lower, and with a 1xN ratio the buy leg quantity is N times the sell
// leg quantity.
func TestProperty_PutSpreadLegConventions(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	parameters.Rng.Seed(1758)

	properties := gopter.NewProperties(parameters)

	properties.Property("put spread sells high buys low", prop.ForAll(
		func(low, width, qty, ratio int) bool {
			high := low + width
			text := fmt.Sprintf("AAPL jun26 %d/%d PS 1X%d %dx", high, low, ratio, qty)
			order, err := parseAt(text, testToday)
			if err != nil {
				t.Logf("parse failed for %q: %v", text, err)
				return false
			}
			if len(order.Structure.Legs) != 2 {
				return false
			}

			var sell, buy *models.OptionLeg
			for i := range order.Structure.Legs {
				leg := &order.Structure.Legs[i]
				if leg.Side == models.SideSell {
					sell = leg
				} else {
					buy = leg
				}
			}
			if sell == nil || buy == nil {
				return false
			}
			return sell.Strike == float64(high) &&
				buy.Strike == float64(low) &&
				sell.Type == models.Put && buy.Type == models.Put &&
				sell.Quantity == qty &&
				buy.Quantity == qty*ratio
		},
		gen.IntRange(50, 400),
		gen.IntRange(5, 50),
		gen.IntRange(1, 2000),
		gen.IntRange(2, 5),
	))

	properties.TestingRun(t)
}

// Property: field extractors are order-independent; shuffling the
// metadata tail around never changes the extracted stock ref, delta or
// quantity.
func TestProperty_MetadataOrderIndependent(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(1758)

	properties := gopter.NewProperties(parameters)

	properties.Property("metadata order independent", prop.ForAll(
		func(ref, delta, qty int, swap bool) bool {
			meta := []string{
				fmt.Sprintf("vs%d", ref),
				fmt.Sprintf("%dd", delta),
				fmt.Sprintf("%dx", qty),
			}
			if swap {
				meta[0], meta[2] = meta[2], meta[0]
			}
			text := "AAPL jun26 300 calls " + strings.Join(meta, " ")
			order, err := parseAt(text, testToday)
			if err != nil {
				t.Logf("parse failed for %q: %v", text, err)
				return false
			}
			return order.StockRef == float64(ref) &&
				order.Delta == float64(delta) &&
				order.Quantity == qty
		},
		gen.IntRange(10, 900),
		gen.IntRange(1, 99),
		gen.IntRange(1, 5000),
		gen.Bool(),
	))

	properties.TestingRun(t)
}
