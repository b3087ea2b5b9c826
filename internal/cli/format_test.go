package cli

import (
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"

	"options-pricer/internal/models"
)

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "$3.50", FormatMoney(3.5))
	assert.Equal(t, "$250.32", FormatMoney(250.32))
	assert.Equal(t, "-$1.25", FormatMoney(-1.25))
	assert.Equal(t, "$0.00", FormatMoney(0))
}

func TestFormatStrike(t *testing.T) {
	assert.Equal(t, "240", FormatStrike(240))
	assert.Equal(t, "247.5", FormatStrike(247.5))
	assert.Equal(t, "0.5", FormatStrike(0.5))
}

func TestFormatExpiry(t *testing.T) {
	assert.Equal(t, "Jun26", FormatExpiry(time.Date(2026, time.June, 16, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "Jan27", FormatExpiry(time.Date(2027, time.January, 16, 0, 0, 0, 0, time.UTC)))
}

func TestFormatQuantity(t *testing.T) {
	assert.Equal(t, "500", FormatQuantity(500))
	assert.Equal(t, "1,058", FormatQuantity(1058))
	assert.Equal(t, "2,500", FormatQuantity(2500))
	assert.Equal(t, "1,000,000", FormatQuantity(1000000))
	assert.Equal(t, "-1,250", FormatQuantity(-1250))
	assert.Equal(t, "0", FormatQuantity(0))
}

func TestFormatStructureName(t *testing.T) {
	assert.Equal(t, "Put Spread", FormatStructureName("put spread"))
	assert.Equal(t, "Put Spread", FormatStructureName("put_spread"))
	assert.Equal(t, "Risk Reversal", FormatStructureName("risk reversal"))
	assert.Equal(t, "Single", FormatStructureName("single"))
}

func TestFormatLeg(t *testing.T) {
	leg := models.OptionLeg{
		Underlying: "AAPL",
		Expiry:     time.Date(2026, time.June, 16, 0, 0, 0, 0, time.UTC),
		Strike:     240,
		Type:       models.Put,
		Side:       models.SideSell,
		Quantity:   1000,
		Ratio:      2,
	}
	assert.Equal(t, "SELL 1,000x AAPL Jun26 240 Put", FormatLeg(leg))
}

func TestFormatDelta(t *testing.T) {
	assert.Equal(t, "15d", FormatDelta(15))
	assert.Equal(t, "-25d", FormatDelta(-25))
	assert.Equal(t, "2.5d", FormatDelta(2.5))
}

func TestFormatQuoteSide(t *testing.T) {
	assert.Equal(t, "bid", FormatQuoteSide(models.QuoteBid))
	assert.Equal(t, "offer", FormatQuoteSide(models.QuoteOffer))
	assert.Equal(t, "bid", FormatQuoteSide(""))
}

// Property: comma grouping never changes the digits, only inserts
// separators every three places.
func TestProperty_FormatQuantityRoundTrip(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	parameters.Rng.Seed(1758)

	properties := gopter.NewProperties(parameters)

	properties.Property("strip commas restores the number", prop.ForAll(
		func(n int) bool {
			formatted := FormatQuantity(n)
			parsed, err := strconv.Atoi(strings.ReplaceAll(formatted, ",", ""))
			if err != nil {
				return false
			}
			if parsed != n {
				return false
			}
			for _, group := range strings.Split(strings.TrimPrefix(formatted, "-"), ",")[1:] {
				if len(group) != 3 {
					return false
				}
			}
			return true
		},
		gen.IntRange(-10000000, 10000000),
	))

	properties.TestingRun(t)
}
