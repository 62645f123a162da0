package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/habedi/mscli/client"
	"github.com/habedi/mscli/pkg/clierr"
	"github.com/spf13/cobra"
)

func billsCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "bills",
		Aliases: []string{"bill", "b"},
		Short:   "Manage bills",
	}
	cmd.AddCommand(
		billsListCmd(opts),
		billsGetCmd(opts),
		billsCreateCmd(opts),
		billsDeleteCmd(opts),
	)
	return cmd
}

func billsListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all bills",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.openAuthed(cmd)
			if err != nil {
				return err
			}
			bills, err := a.bills.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(bills) == 0 {
				cmd.Println("No bills found.")
				return nil
			}
			printBills(cmd, bills)
			return nil
		},
	}
}

func billsGetCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get ID",
		Short: "Show a bill with its line items",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			a, err := opts.openAuthed(cmd)
			if err != nil {
				return err
			}
			bill, err := a.bills.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			printBill(cmd, bill)
			return nil
		},
	}
}

// parseItem reads a PRODUCT_ID:QUANTITY pair.
func parseItem(s string) (client.CreateProductItem, error) {
	pid, qty, ok := strings.Cut(s, ":")
	if !ok {
		return client.CreateProductItem{}, clierr.New(clierr.Validation,
			fmt.Sprintf("item %q must be PRODUCT_ID:QUANTITY", s), errRequiredArg)
	}
	id, err := parseID(pid)
	if err != nil {
		return client.CreateProductItem{}, err
	}
	n, err := strconv.Atoi(strings.TrimSpace(qty))
	if err != nil || n <= 0 {
		return client.CreateProductItem{}, clierr.New(clierr.Validation,
			fmt.Sprintf("quantity in %q must be a positive number", s), errRequiredArg)
	}
	return client.CreateProductItem{ProductID: id, Quantity: n}, nil
}

func billsCreateCmd(opts *rootOptions) *cobra.Command {
	var (
		customer string
		items    []string
	)
	cmd := &cobra.Command{
		Use:     "create",
		Short:   "Create a bill for a customer",
		Example: "  mscli bills create --customer 3 --item 1:2 --item 5:1",
		RunE: func(cmd *cobra.Command, args []string) error {
			customerID, err := parseID(customer)
			if err != nil {
				return err
			}
			if len(items) == 0 {
				return clierr.New(clierr.Validation, "at least one --item is required", errRequiredArg)
			}
			in := client.CreateBill{CustomerID: customerID}
			for _, s := range items {
				item, err := parseItem(s)
				if err != nil {
					return err
				}
				in.ProductItems = append(in.ProductItems, item)
			}

			a, err := opts.openAuthed(cmd)
			if err != nil {
				return err
			}
			bill, err := a.bills.Create(cmd.Context(), in)
			if err != nil {
				return err
			}
			cmd.Printf("Created bill %d, total %s.\n", bill.ID, money(bill.TotalAmount))
			return nil
		},
	}
	cmd.Flags().StringVarP(&customer, "customer", "c", "", "Customer ID")
	cmd.Flags().StringArrayVarP(&items, "item", "i", nil, "Line item as PRODUCT_ID:QUANTITY (repeatable)")
	return cmd
}

func billsDeleteCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID [ID...]",
		Short: "Delete one or more bills",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.openAuthed(cmd)
			if err != nil {
				return err
			}
			return deleteAll(cmd, args, "bill", a.bills.Delete)
		},
	}
}

func printBills(cmd *cobra.Command, bills []client.BillSummary) {
	table := newTable(cmd.OutOrStdout(), "ID", "Date", "Customer", "Items", "Total")
	for _, b := range bills {
		table.Append([]string{
			strconv.FormatInt(b.ID, 10),
			b.BillingDate.Format("2006-01-02"),
			b.CustomerName,
			strconv.Itoa(b.ItemCount),
			money(b.TotalAmount),
		})
	}
	table.Render()
}

func printBill(cmd *cobra.Command, b client.BillDetail) {
	customer := strconv.FormatInt(b.CustomerID, 10)
	if b.Customer != nil && b.Customer.FullName != "" {
		customer = b.Customer.FullName
	}
	cmd.Printf("Bill %d for %s on %s\n", b.ID, customer, b.BillingDate.Format("2006-01-02"))

	table := newTable(cmd.OutOrStdout(), "Product", "Quantity", "Price", "Total")
	for _, it := range b.ProductItems {
		name := strconv.FormatInt(it.ProductID, 10)
		if it.Product != nil && it.Product.Name != "" {
			name = it.Product.Name
		}
		table.Append([]string{name, strconv.Itoa(it.Quantity), money(it.Price), money(it.TotalPrice)})
	}
	table.SetFooter([]string{"", "", "Total", money(b.TotalAmount)})
	table.Render()
	cmd.Printf("Subtotal %s, tax %s.\n", money(b.Subtotal), money(b.Tax))
}
