package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"options-pricer/internal/models"
	"options-pricer/internal/parser"
	"options-pricer/internal/pricer"
)

// theoView is the JSON shape of a theoretical pricing result.
type theoView struct {
	Order orderView  `json:"order"`
	Spot  float64    `json:"spot"`
	Vol   float64    `json:"vol"`
	Rate  float64    `json:"rate"`
	Years float64    `json:"years_to_expiry"`
	Price float64    `json:"price"`
	Delta float64    `json:"delta"`
	Gamma float64    `json:"gamma"`
	Theta float64    `json:"theta"`
	Vega  float64    `json:"vega"`
	Rho   float64    `json:"rho"`
	Legs  []greekRow `json:"legs"`
}

type greekRow struct {
	Leg   legView `json:"leg"`
	Price float64 `json:"price"`
	Delta float64 `json:"delta"`
	Gamma float64 `json:"gamma"`
	Theta float64 `json:"theta"`
	Vega  float64 `json:"vega"`
	Rho   float64 `json:"rho"`
}

func newTheoCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "theo <order text>",
		Short: "Black-Scholes theoretical value and Greeks",
		Long: `Parse broker shorthand and compute the Black-Scholes theoretical value
and Greeks for the structure.

Spot defaults to the data source's last price; vol, rate and dividend
yield default to the configured pricing defaults. Vega is per 1% vol
move, theta per calendar day, rho per 1% rate move.`,
		Example: `  pricer theo "AAPL Jun26 240/220 PS 500x"
  pricer theo "SPY Dec25 450 straddle" --vol 0.18 --rate 0.04
  pricer theo "TSLA Mar26 200 call" --spot 250`,
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

			vol, _ := cmd.Flags().GetFloat64("vol")
			rate, _ := cmd.Flags().GetFloat64("rate")
			div, _ := cmd.Flags().GetFloat64("div")
			spot, _ := cmd.Flags().GetFloat64("spot")
			if vol == 0 {
				vol = app.Config.Pricing.DefaultVol
			}
			if !cmd.Flags().Changed("rate") {
				rate = app.Config.Pricing.RiskFreeRate
			}
			if !cmd.Flags().Changed("div") {
				div = app.Config.Pricing.DividendYield
			}
			if spot == 0 {
				spot, err = app.MarketData(ctx).GetSpot(ctx, order.Underlying)
				if err != nil {
					output.Error("Failed to fetch spot: %v", err)
					return err
				}
			}

			// All legs are priced on the first leg's expiry clock.
			T := time.Until(order.Structure.Legs[0].Expiry).Hours() / 24 / 365
			if T < 0.001 {
				T = 0.001
			}

			result, err := pricer.PriceStructure(order.Structure, spot, rate, pricer.FlatVol(vol), T, div)
			if err != nil {
				output.Error("Pricing failed: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(newTheoView(order, result, spot, vol, rate, T))
			}
			printTheo(output, order, result, spot, vol, rate, T)
			return nil
		},
	}

	cmd.Flags().Float64("vol", 0, "implied volatility (default: configured default_vol)")
	cmd.Flags().Float64("rate", 0, "risk-free rate (default: configured risk_free_rate)")
	cmd.Flags().Float64("div", 0, "continuous dividend yield (default: configured dividend_yield)")
	cmd.Flags().Float64("spot", 0, "spot price override (default: data source last price)")
	return cmd
}

func newTheoView(order *models.ParsedOrder, result *pricer.StructurePrice, spot, vol, rate, T float64) theoView {
	view := theoView{
		Order: newOrderView(order),
		Spot:  spot,
		Vol:   vol,
		Rate:  rate,
		Years: T,
		Price: result.TotalPrice,
		Delta: result.TotalDelta,
		Gamma: result.TotalGamma,
		Theta: result.TotalTheta,
		Vega:  result.TotalVega,
		Rho:   result.TotalRho,
	}
	for i, lp := range result.LegPrices {
		view.Legs = append(view.Legs, greekRow{
			Leg:   view.Order.Legs[i],
			Price: lp.Price,
			Delta: lp.Delta,
			Gamma: lp.Gamma,
			Theta: lp.Theta,
			Vega:  lp.Vega,
			Rho:   lp.Rho,
		})
	}
	return view
}

func printTheo(output *Output, order *models.ParsedOrder, result *pricer.StructurePrice, spot, vol, rate, T float64) {
	output.Bold("%s %s", order.Underlying, FormatStructureName(order.Structure.Name))
	output.Printf("  Spot: %s  Vol: %.1f%%  Rate: %.2f%%  T: %.3fy\n\n",
		FormatMoney(spot), vol*100, rate*100, T)

	table := tablewriter.NewWriter(output.writer)
	table.SetHeader([]string{"Leg", "Price", "Delta", "Gamma", "Theta", "Vega", "Rho"})
	for i, lp := range result.LegPrices {
		table.Append([]string{
			FormatLeg(order.Structure.Legs[i]),
			fmt.Sprintf("%.2f", lp.Price),
			fmt.Sprintf("%.3f", lp.Delta),
			fmt.Sprintf("%.4f", lp.Gamma),
			fmt.Sprintf("%.3f", lp.Theta),
			fmt.Sprintf("%.3f", lp.Vega),
			fmt.Sprintf("%.3f", lp.Rho),
		})
	}
	table.Append([]string{
		"TOTAL",
		fmt.Sprintf("%.2f", result.TotalPrice),
		fmt.Sprintf("%.3f", result.TotalDelta),
		fmt.Sprintf("%.4f", result.TotalGamma),
		fmt.Sprintf("%.3f", result.TotalTheta),
		fmt.Sprintf("%.3f", result.TotalVega),
		fmt.Sprintf("%.3f", result.TotalRho),
	})
	table.Render()
}
