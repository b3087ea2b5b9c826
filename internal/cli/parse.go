package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"options-pricer/internal/logging"
	"options-pricer/internal/models"
	"options-pricer/internal/parser"
)

// legView is the JSON shape of a single parsed leg.
type legView struct {
	Side       string  `json:"side"`
	Underlying string  `json:"underlying"`
	Expiry     string  `json:"expiry"`
	Strike     float64 `json:"strike"`
	Type       string  `json:"type"`
	Quantity   int     `json:"quantity"`
	Ratio      int     `json:"ratio"`
}

// orderView is the JSON shape of a parsed order. StockRef, Delta and
// Price are omitted when the shorthand carried none.
type orderView struct {
	Underlying string    `json:"underlying"`
	Structure  string    `json:"structure"`
	Legs       []legView `json:"legs"`
	StockRef   float64   `json:"stock_ref,omitempty"`
	Delta      float64   `json:"delta,omitempty"`
	Price      float64   `json:"price,omitempty"`
	QuoteSide  string    `json:"quote_side"`
	Quantity   int       `json:"quantity,omitempty"`
	RawText    string    `json:"raw_text"`
}

func newOrderView(order *models.ParsedOrder) orderView {
	view := orderView{
		Underlying: order.Underlying,
		Structure:  order.Structure.Name,
		StockRef:   order.StockRef,
		Delta:      order.Delta,
		Price:      order.Price,
		QuoteSide:  string(order.QuoteSide),
		Quantity:   order.Quantity,
		RawText:    order.RawText,
	}
	for _, leg := range order.Structure.Legs {
		view.Legs = append(view.Legs, legView{
			Side:       string(leg.Side),
			Underlying: leg.Underlying,
			Expiry:     leg.Expiry.Format("2006-01-02"),
			Strike:     leg.Strike,
			Type:       string(leg.Type),
			Quantity:   leg.Quantity,
			Ratio:      leg.Ratio,
		})
	}
	return view
}

func newParseCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "parse <order text>",
		Short: "Parse broker shorthand into a structured order",
		Long: `Parse free-form broker shorthand into a structured multi-leg order.

The order text may be quoted as a single argument or passed as bare words.`,
		Example: `  pricer parse "AAPL Jun26 240/220 PS 1X2 vs250 15d 500x @ 3.50"
  pricer parse SPY Dec25 450 straddle 1000x
  pricer parse "TSLA Mar26 200/300 RR vs245 25d"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			text := strings.Join(args, " ")

			order, err := parser.Parse(text)
			if err != nil {
				output.Error("Parse failed: %v", err)
				return err
			}
			logging.LogParse(app.Logger, text, order.Underlying, order.Structure.Name, len(order.Structure.Legs))

			if output.IsJSON() {
				return output.JSON(newOrderView(order))
			}
			printOrder(output, order)
			return nil
		},
	}
}

func printOrder(output *Output, order *models.ParsedOrder) {
	output.Bold("%s %s", order.Underlying, FormatStructureName(order.Structure.Name))
	for _, leg := range order.Structure.Legs {
		output.Printf("  %s %sx %s %s %s\n",
			output.SideText(FormatSide(leg.Side)),
			FormatQuantity(leg.Quantity),
			FormatExpiry(leg.Expiry),
			FormatStrike(leg.Strike),
			FormatOptionType(leg.Type))
	}

	if order.StockRef != 0 {
		output.Printf("  Stock Ref:  %s\n", FormatMoney(order.StockRef))
	}
	if order.Delta != 0 {
		output.Printf("  Delta:      %s\n", FormatDelta(order.Delta))
	}
	if order.Price != 0 {
		output.Printf("  Price:      %s (%s)\n", FormatMoney(order.Price), FormatQuoteSide(order.QuoteSide))
	}
	if order.Quantity != 0 {
		output.Printf("  Quantity:   %sx\n", FormatQuantity(order.Quantity))
	}
}
