package cmd

import (
	"context"
	"errors"
	"strconv"

	"github.com/habedi/mscli/client"
	"github.com/habedi/mscli/pkg/clierr"
	"github.com/habedi/mscli/pkg/pool"
	"github.com/spf13/cobra"
)

// dashboardCmd loads the three service summaries concurrently. When the token
// has expired all three requests park on the same refresh.
func dashboardCmd(opts *rootOptions) *cobra.Command {
	var recent int

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show customer, inventory and billing summaries",
		RunE: func(cmd *cobra.Command, args []string) error {
			if recent < 0 {
				return clierr.New(clierr.Validation, "--recent cannot be negative", errRequiredArg)
			}
			a, err := opts.openAuthed(cmd)
			if err != nil {
				return err
			}

			var (
				stats    client.CustomerStats
				products []client.Product
				bills    []client.BillSummary
			)
			tasks := []func(context.Context) error{
				func(ctx context.Context) (err error) {
					stats, err = a.customers.Stats(ctx)
					return err
				},
				func(ctx context.Context) (err error) {
					products, err = a.products.List(ctx)
					return err
				},
				func(ctx context.Context) (err error) {
					bills, err = a.bills.List(ctx)
					return err
				},
			}
			errs := pool.Run(cmd.Context(), tasks, len(tasks), func(ctx context.Context, task func(context.Context) error) error {
				return task(ctx)
			})
			if len(errs) > 0 {
				return errors.Join(errs...)
			}

			printStats(cmd, stats)

			var stock int
			var value float64
			for _, p := range products {
				stock += p.Quantity
				value += p.Price * float64(p.Quantity)
			}
			inv := newTable(cmd.OutOrStdout(), "Inventory", "Value")
			inv.Append([]string{"Products", strconv.Itoa(len(products))})
			inv.Append([]string{"Units in stock", strconv.Itoa(stock)})
			inv.Append([]string{"Stock value", money(value)})
			inv.Render()

			var revenue float64
			for _, b := range bills {
				revenue += b.TotalAmount
			}
			cmd.Printf("%d bills, revenue %s.\n", len(bills), money(revenue))
			if len(bills) > recent {
				bills = bills[len(bills)-recent:]
			}
			if len(bills) > 0 {
				printBills(cmd, bills)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&recent, "recent", "r", 5, "Number of most recent bills to show")
	return cmd
}
