package cli

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"options-pricer/internal/logging"
	"options-pricer/internal/marketdata"
	"options-pricer/internal/models"
	"options-pricer/internal/parser"
	"options-pricer/internal/pricer"
)

// priceView is the JSON shape of a market pricing result.
type priceView struct {
	Order      orderView      `json:"order"`
	StockPrice float64        `json:"stock_price"`
	Bid        float64        `json:"bid"`
	Mid        float64        `json:"mid"`
	Offer      float64        `json:"offer"`
	BidSize    int            `json:"bid_size"`
	OfferSize  int            `json:"offer_size"`
	Legs       []legQuoteView `json:"legs"`
}

type legQuoteView struct {
	Leg       legView `json:"leg"`
	Bid       float64 `json:"bid"`
	BidSize   int     `json:"bid_size"`
	Offer     float64 `json:"offer"`
	OfferSize int     `json:"offer_size"`
	Mid       float64 `json:"mid"`
}

func newPriceCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "price <order text>",
		Short: "Price a structure from live per-leg quotes",
		Long: `Parse broker shorthand, fetch a screen quote for every leg and
aggregate them into a structure bid/mid/offer with tradable sizes.

Quotes come from the data bridge when one is running, otherwise from the
built-in mock data source.`,
		Example: `  pricer price "AAPL Jun26 240/220 PS 500x"
  pricer price "SPY Dec25 450 straddle" --json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			text := strings.Join(args, " ")
			order, err := parser.Parse(text)
			if err != nil {
				output.Error("Parse failed: %v", err)
				return err
			}

			provider := app.MarketData(ctx)
			legMarket, err := marketdata.FetchLegMarketData(ctx, provider, order.Structure)
			if err != nil {
				output.Error("Failed to fetch leg quotes: %v", err)
				return err
			}
			stockPrice, err := provider.GetSpot(ctx, order.Underlying)
			if err != nil {
				output.Error("Failed to fetch spot: %v", err)
				return err
			}

			market, err := pricer.PriceStructureFromMarket(order, legMarket, stockPrice)
			if err != nil {
				output.Error("Pricing failed: %v", err)
				return err
			}
			logging.LogPricing(app.Logger, order.Underlying,
				market.StructureBid, market.StructureOffer,
				market.StructureBidSize, market.StructureOfferSize)

			if output.IsJSON() {
				return output.JSON(newPriceView(order, market))
			}
			printMarket(output, order, market)
			return nil
		},
	}
}

func newPriceView(order *models.ParsedOrder, market *models.StructureMarketData) priceView {
	view := priceView{
		Order:      newOrderView(order),
		StockPrice: market.StockPrice,
		Bid:        market.StructureBid,
		Mid:        market.Mid(),
		Offer:      market.StructureOffer,
		BidSize:    market.StructureBidSize,
		OfferSize:  market.StructureOfferSize,
	}
	for i, lq := range market.LegData {
		view.Legs = append(view.Legs, legQuoteView{
			Leg:       view.Order.Legs[i],
			Bid:       lq.Market.Bid,
			BidSize:   lq.Market.BidSize,
			Offer:     lq.Market.Offer,
			OfferSize: lq.Market.OfferSize,
			Mid:       lq.Market.Mid(),
		})
	}
	return view
}

func printMarket(output *Output, order *models.ParsedOrder, market *models.StructureMarketData) {
	output.Bold("%s %s", order.Underlying, FormatStructureName(order.Structure.Name))
	output.Printf("  Spot: %s", FormatMoney(market.StockPrice))
	if market.StockRef != 0 {
		output.Printf("  Ref: %s", FormatMoney(market.StockRef))
	}
	if market.Delta != 0 {
		output.Printf("  Delta: %s", FormatDelta(market.Delta))
	}
	output.Println()
	output.Println()

	table := tablewriter.NewWriter(output.writer)
	table.SetHeader([]string{"Leg", "Bid", "Bid Size", "Offer", "Offer Size", "Mid"})
	for _, lq := range market.LegData {
		table.Append([]string{
			FormatLeg(lq.Leg),
			fmt.Sprintf("%.2f", lq.Market.Bid),
			FormatQuantity(lq.Market.BidSize),
			fmt.Sprintf("%.2f", lq.Market.Offer),
			FormatQuantity(lq.Market.OfferSize),
			fmt.Sprintf("%.2f", lq.Market.Mid()),
		})
	}
	table.Render()
	output.Println()

	// Negative structure prices are credits; show the magnitude.
	kind := "debit"
	if market.Mid() < 0 {
		kind = "credit"
	}
	output.Printf("  Structure (%s):\n", kind)
	output.Printf("    Bid:   %s x %s\n",
		output.Green(fmt.Sprintf("%.2f", math.Abs(market.StructureBid))),
		FormatQuantity(market.StructureBidSize))
	output.Printf("    Mid:   %.2f\n", math.Abs(market.Mid()))
	output.Printf("    Offer: %s x %s\n",
		output.Red(fmt.Sprintf("%.2f", math.Abs(market.StructureOffer))),
		FormatQuantity(market.StructureOfferSize))
}
