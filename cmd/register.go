package cmd

import (
	"github.com/habedi/mscli/auth"
	"github.com/spf13/cobra"
)

// registerCmd creates a new account. It does not sign in.
func registerCmd(opts *rootOptions) *cobra.Command {
	var req auth.RegisterRequest

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a new account",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.open(cmd)
			if err != nil {
				return err
			}

			p := newPrompter(cmd)
			for _, f := range []struct {
				prompt string
				dst    *string
			}{
				{"First name: ", &req.FirstName},
				{"Last name: ", &req.LastName},
				{"Email: ", &req.Email},
			} {
				if *f.dst != "" {
					continue
				}
				if *f.dst, err = p.input(f.prompt); err != nil {
					return err
				}
			}
			if req.Password, err = p.password("Password: "); err != nil {
				return err
			}

			res, err := a.coord.Register(cmd.Context(), req)
			if err != nil {
				return err
			}
			msg := res.Message
			if msg == "" {
				msg = "Account created."
			}
			cmd.Println(msg)
			cmd.Println("Run `mscli login` to sign in.")
			return nil
		},
	}

	cmd.Flags().StringVar(&req.FirstName, "first-name", "", "First name (prompted when omitted)")
	cmd.Flags().StringVar(&req.LastName, "last-name", "", "Last name (prompted when omitted)")
	cmd.Flags().StringVarP(&req.Email, "email", "e", "", "Account email (prompted when omitted)")
	return cmd
}
