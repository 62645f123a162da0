package cmd

import (
	"fmt"
	"strconv"

	"github.com/habedi/mscli/client"
	"github.com/habedi/mscli/pkg/clierr"
	"github.com/habedi/mscli/pkg/validation"
	"github.com/spf13/cobra"
)

func customersCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "customers",
		Aliases: []string{"customer", "c"},
		Short:   "Manage customers",
	}
	cmd.AddCommand(
		customersListCmd(opts),
		customersGetCmd(opts),
		customersCreateCmd(opts),
		customersUpdateCmd(opts),
		customersDeleteCmd(opts),
		customersSearchCmd(opts),
		customersStatsCmd(opts),
	)
	return cmd
}

func customersListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all customers",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.openAuthed(cmd)
			if err != nil {
				return err
			}
			customers, err := a.customers.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(customers) == 0 {
				cmd.Println("No customers found.")
				return nil
			}
			printCustomers(cmd, customers)
			return nil
		},
	}
}

func customersGetCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get ID",
		Short: "Show one customer",
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
			c, err := a.customers.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			printCustomer(cmd, c)
			return nil
		},
	}
}

// customerFlags binds the editable customer fields to a command.
func customerFlags(cmd *cobra.Command, c *client.Customer, active *bool) {
	f := cmd.Flags()
	f.StringVarP(&c.FullName, "name", "n", "", "Full name")
	f.StringVarP(&c.Email, "email", "e", "", "Email address")
	f.StringVarP(&c.Phone, "phone", "p", "", "Phone number")
	f.StringVar(&c.Street, "street", "", "Street")
	f.StringVar(&c.City, "city", "", "City")
	f.StringVar(&c.Country, "country", "", "Country")
	f.StringVar(&c.PostalCode, "postal-code", "", "Postal code")
	f.BoolVar(active, "active", true, "Whether the customer is active")
}

func validateCustomer(c client.Customer) error {
	if err := validation.ValidateNonEmptyString("name", c.FullName); err != nil {
		return clierr.New(clierr.Validation, err.Error(), err)
	}
	if err := validation.ValidateNonEmptyString("phone", c.Phone); err != nil {
		return clierr.New(clierr.Validation, err.Error(), err)
	}
	if c.Email != "" {
		if err := validation.ValidateEmail(c.Email); err != nil {
			return clierr.New(clierr.Validation, err.Error(), err)
		}
	}
	return nil
}

func customersCreateCmd(opts *rootOptions) *cobra.Command {
	var (
		in     client.Customer
		active bool
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a customer",
		RunE: func(cmd *cobra.Command, args []string) error {
			in.Active = &active
			if err := validateCustomer(in); err != nil {
				return err
			}
			a, err := opts.openAuthed(cmd)
			if err != nil {
				return err
			}
			created, err := a.customers.Create(cmd.Context(), in)
			if err != nil {
				return err
			}
			cmd.Printf("Created customer %d.\n", created.ID)
			return nil
		},
	}
	customerFlags(cmd, &in, &active)
	return cmd
}

// customersUpdateCmd fetches the customer and applies only the flags that were set.
func customersUpdateCmd(opts *rootOptions) *cobra.Command {
	var (
		in     client.Customer
		active bool
	)
	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Update a customer",
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
			current, err := a.customers.Get(cmd.Context(), id)
			if err != nil {
				return err
			}

			f := cmd.Flags()
			for name, pair := range map[string][2]*string{
				"name":        {&current.FullName, &in.FullName},
				"email":       {&current.Email, &in.Email},
				"phone":       {&current.Phone, &in.Phone},
				"street":      {&current.Street, &in.Street},
				"city":        {&current.City, &in.City},
				"country":     {&current.Country, &in.Country},
				"postal-code": {&current.PostalCode, &in.PostalCode},
			} {
				if f.Changed(name) {
					*pair[0] = *pair[1]
				}
			}
			if f.Changed("active") {
				current.Active = &active
			}
			if err := validateCustomer(current); err != nil {
				return err
			}

			current.CreatedAt, current.UpdatedAt = nil, nil
			if _, err := a.customers.Update(cmd.Context(), id, current); err != nil {
				return err
			}
			cmd.Printf("Updated customer %d.\n", id)
			return nil
		},
	}
	customerFlags(cmd, &in, &active)
	return cmd
}

func customersDeleteCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID [ID...]",
		Short: "Delete one or more customers",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.openAuthed(cmd)
			if err != nil {
				return err
			}
			return deleteAll(cmd, args, "customer", a.customers.Delete)
		},
	}
}

func customersSearchCmd(opts *rootOptions) *cobra.Command {
	var page, size int
	cmd := &cobra.Command{
		Use:   "search KEYWORD",
		Short: "Search customers by name, email or phone",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validation.ValidatePage(page, size); err != nil {
				return clierr.New(clierr.Validation, err.Error(), err)
			}
			a, err := opts.openAuthed(cmd)
			if err != nil {
				return err
			}
			res, err := a.customers.Search(cmd.Context(), args[0], page, size)
			if err != nil {
				return err
			}
			if len(res.Content) == 0 {
				cmd.Printf("No customers match %q.\n", args[0])
				return nil
			}
			printCustomers(cmd, res.Content)
			cmd.Printf("Page %d of %d (%d results).\n", res.Number+1, res.TotalPages, res.TotalElements)
			return nil
		},
	}
	cmd.Flags().IntVar(&page, "page", 0, "Zero-based page number")
	cmd.Flags().IntVar(&size, "size", 10, "Page size")
	return cmd
}

func customersStatsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show customer statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.openAuthed(cmd)
			if err != nil {
				return err
			}
			s, err := a.customers.Stats(cmd.Context())
			if err != nil {
				return err
			}
			printStats(cmd, s)
			return nil
		},
	}
}

func printCustomers(cmd *cobra.Command, customers []client.Customer) {
	table := newTable(cmd.OutOrStdout(), "ID", "Name", "Email", "Phone", "City", "Active")
	for _, c := range customers {
		table.Append([]string{
			strconv.FormatInt(c.ID, 10),
			c.FullName,
			c.Email,
			c.Phone,
			c.City,
			yesNo(c.Active),
		})
	}
	table.Render()
}

func printCustomer(cmd *cobra.Command, c client.Customer) {
	table := newTable(cmd.OutOrStdout(), "Field", "Value")
	table.Append([]string{"ID", strconv.FormatInt(c.ID, 10)})
	table.Append([]string{"Name", c.FullName})
	table.Append([]string{"Email", c.Email})
	table.Append([]string{"Phone", c.Phone})
	table.Append([]string{"Address", fmt.Sprintf("%s, %s %s, %s", c.Street, c.PostalCode, c.City, c.Country)})
	table.Append([]string{"Active", yesNo(c.Active)})
	if c.CreatedAt != nil {
		table.Append([]string{"Created", c.CreatedAt.Format("2006-01-02 15:04")})
	}
	table.Render()
}

func printStats(cmd *cobra.Command, s client.CustomerStats) {
	table := newTable(cmd.OutOrStdout(), "Customers", "Count")
	table.Append([]string{"Total", strconv.FormatInt(s.TotalCustomers, 10)})
	table.Append([]string{"Active", fmt.Sprintf("%d (%.1f%%)", s.ActiveCustomers, s.ActivePercentage)})
	table.Append([]string{"Inactive", strconv.FormatInt(s.InactiveCustomers, 10)})
	table.Append([]string{"New today", strconv.FormatInt(s.NewCustomersToday, 10)})
	table.Append([]string{"New this week", strconv.FormatInt(s.NewCustomersThisWeek, 10)})
	table.Append([]string{"New this month", strconv.FormatInt(s.NewCustomersThisMonth, 10)})
	table.Render()
}

func yesNo(b *bool) string {
	switch {
	case b == nil:
		return "-"
	case *b:
		return "yes"
	default:
		return "no"
	}
}
