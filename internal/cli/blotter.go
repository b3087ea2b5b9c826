package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	apperrors "options-pricer/internal/errors"
	"options-pricer/internal/models"
	"options-pricer/internal/parser"
)

func newBlotterCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "blotter",
		Short: "Order blotter",
		Long:  "Record, list and export parsed orders in the local blotter.",
	}

	cmd.AddCommand(newBlotterListCmd(app))
	cmd.AddCommand(newBlotterAddCmd(app))
	cmd.AddCommand(newBlotterRmCmd(app))
	cmd.AddCommand(newBlotterExportCmd(app))

	return cmd
}

func newBlotterListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List blotter orders",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				output.Error("Blotter store unavailable")
				return apperrors.ErrStoreUnavailable
			}
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			records, err := app.Store.Load(ctx)
			if err != nil {
				output.Error("Failed to load blotter: %v", err)
				return err
			}

			if output.IsJSON() {
				if records == nil {
					records = []models.OrderRecord{}
				}
				return output.JSON(records)
			}
			if len(records) == 0 {
				output.Dim("Blotter is empty.")
				return nil
			}

			table := tablewriter.NewWriter(output.writer)
			table.SetHeader([]string{"ID", "Underlying", "Structure", "Price", "Side", "Qty", "Added"})
			for _, r := range records {
				table.Append([]string{
					shortID(r.ID),
					r.Underlying,
					FormatStructureName(r.StructureName),
					fmt.Sprintf("%.2f", r.Price),
					FormatQuoteSide(r.QuoteSide),
					FormatQuantity(r.Quantity),
					r.CreatedAt.Local().Format("2006-01-02 15:04"),
				})
			}
			table.Render()
			return nil
		},
	}
}

func newBlotterAddCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "add <order text>",
		Short: "Parse an order and add it to the blotter",
		Example: `  pricer blotter add "AAPL Jun26 240/220 PS 500x @ 3.50"
  pricer blotter add "SPY Dec25 450 straddle 1000x bid 12.40"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				output.Error("Blotter store unavailable")
				return apperrors.ErrStoreUnavailable
			}
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			text := strings.Join(args, " ")
			order, err := parser.Parse(text)
			if err != nil {
				output.Error("Parse failed: %v", err)
				return err
			}

			stored, err := app.Store.Add(ctx, models.OrderRecord{
				RawText:       order.RawText,
				Underlying:    order.Underlying,
				StructureName: order.Structure.Name,
				StockRef:      order.StockRef,
				Delta:         order.Delta,
				Price:         order.Price,
				QuoteSide:     order.QuoteSide,
				Quantity:      order.Quantity,
			})
			if err != nil {
				output.Error("Failed to add order: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(stored)
			}
			output.Success("Added %s %s (%s)", stored.Underlying,
				FormatStructureName(stored.StructureName), shortID(stored.ID))
			return nil
		},
	}
}

func newBlotterRmCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Remove an order from the blotter",
		Long:  "Remove an order by id. A unique id prefix is accepted.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				output.Error("Blotter store unavailable")
				return apperrors.ErrStoreUnavailable
			}
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			id, err := resolveID(ctx, app, args[0])
			if err != nil {
				output.Error("%v", err)
				return err
			}
			if err := app.Store.Remove(ctx, id); err != nil {
				output.Error("Failed to remove order: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(map[string]string{"removed": id})
			}
			output.Success("Removed %s", shortID(id))
			return nil
		},
	}
}

func newBlotterExportCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the blotter as CSV",
		Example: `  pricer blotter export
  pricer blotter export --out orders.csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				output.Error("Blotter store unavailable")
				return apperrors.ErrStoreUnavailable
			}
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			outPath, _ := cmd.Flags().GetString("out")
			if outPath == "" {
				return app.Store.ExportCSV(ctx, cmd.OutOrStdout())
			}

			f, err := os.Create(outPath)
			if err != nil {
				output.Error("Failed to create %s: %v", outPath, err)
				return err
			}
			defer f.Close()

			if err := app.Store.ExportCSV(ctx, f); err != nil {
				output.Error("Export failed: %v", err)
				return err
			}
			output.Success("Exported blotter to %s", outPath)
			return nil
		},
	}

	cmd.Flags().String("out", "", "write CSV to file instead of stdout")
	return cmd
}

// resolveID expands a unique id prefix to the full record id.
func resolveID(ctx context.Context, app *App, prefix string) (string, error) {
	records, err := app.Store.Load(ctx)
	if err != nil {
		return "", err
	}

	var matches []string
	for _, r := range records {
		if r.ID == prefix {
			return r.ID, nil
		}
		if strings.HasPrefix(r.ID, prefix) {
			matches = append(matches, r.ID)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return "", fmt.Errorf("%w: %s", apperrors.ErrOrderNotFound, prefix)
	default:
		return "", fmt.Errorf("ambiguous id prefix %s matches %d orders", prefix, len(matches))
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
