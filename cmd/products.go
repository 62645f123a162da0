package cmd

import (
	"strconv"

	"github.com/habedi/mscli/client"
	"github.com/habedi/mscli/pkg/clierr"
	"github.com/habedi/mscli/pkg/validation"
	"github.com/spf13/cobra"
)

func productsCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "products",
		Aliases: []string{"product", "p"},
		Short:   "Manage the product inventory",
	}
	cmd.AddCommand(
		productsListCmd(opts),
		productsGetCmd(opts),
		productsCreateCmd(opts),
		productsUpdateCmd(opts),
		productsDeleteCmd(opts),
	)
	return cmd
}

func productsListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all products",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.openAuthed(cmd)
			if err != nil {
				return err
			}
			products, err := a.products.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(products) == 0 {
				cmd.Println("No products found.")
				return nil
			}
			printProducts(cmd, products)
			return nil
		},
	}
}

func productsGetCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get ID",
		Short: "Show one product",
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
			p, err := a.products.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			printProducts(cmd, []client.Product{p})
			if p.Description != "" {
				cmd.Println(p.Description)
			}
			return nil
		},
	}
}

func productFlags(cmd *cobra.Command, p *client.Product) {
	f := cmd.Flags()
	f.StringVarP(&p.Name, "name", "n", "", "Product name")
	f.StringVarP(&p.Description, "description", "d", "", "Description")
	f.Float64Var(&p.Price, "price", 0, "Unit price")
	f.IntVarP(&p.Quantity, "quantity", "q", 0, "Quantity in stock")
}

func validateProduct(p client.Product) error {
	if err := validation.ValidateNonEmptyString("name", p.Name); err != nil {
		return clierr.New(clierr.Validation, err.Error(), err)
	}
	if p.Price < 0 {
		return clierr.New(clierr.Validation, "price cannot be negative", nil)
	}
	if p.Quantity < 0 {
		return clierr.New(clierr.Validation, "quantity cannot be negative", nil)
	}
	return nil
}

func productsCreateCmd(opts *rootOptions) *cobra.Command {
	var in client.Product
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Add a product",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateProduct(in); err != nil {
				return err
			}
			a, err := opts.openAuthed(cmd)
			if err != nil {
				return err
			}
			created, err := a.products.Create(cmd.Context(), in)
			if err != nil {
				return err
			}
			cmd.Printf("Created product %d.\n", created.ID)
			return nil
		},
	}
	productFlags(cmd, &in)
	return cmd
}

func productsUpdateCmd(opts *rootOptions) *cobra.Command {
	var in client.Product
	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Update a product",
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
			current, err := a.products.Get(cmd.Context(), id)
			if err != nil {
				return err
			}

			f := cmd.Flags()
			if f.Changed("name") {
				current.Name = in.Name
			}
			if f.Changed("description") {
				current.Description = in.Description
			}
			if f.Changed("price") {
				current.Price = in.Price
			}
			if f.Changed("quantity") {
				current.Quantity = in.Quantity
			}
			if err := validateProduct(current); err != nil {
				return err
			}
			if _, err := a.products.Update(cmd.Context(), id, current); err != nil {
				return err
			}
			cmd.Printf("Updated product %d.\n", id)
			return nil
		},
	}
	productFlags(cmd, &in)
	return cmd
}

func productsDeleteCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID [ID...]",
		Short: "Delete one or more products",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.openAuthed(cmd)
			if err != nil {
				return err
			}
			return deleteAll(cmd, args, "product", a.products.Delete)
		},
	}
}

func printProducts(cmd *cobra.Command, products []client.Product) {
	table := newTable(cmd.OutOrStdout(), "ID", "Name", "Price", "Quantity")
	for _, p := range products {
		table.Append([]string{
			strconv.FormatInt(p.ID, 10),
			p.Name,
			money(p.Price),
			strconv.Itoa(p.Quantity),
		})
	}
	table.Render()
}
