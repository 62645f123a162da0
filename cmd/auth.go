package cmd

import (
	"errors"
	"time"

	"github.com/habedi/mscli/auth"
	"github.com/spf13/cobra"
)

// logoutCmd ends the session. The local credentials are removed even when the
// Auth service cannot be reached.
func logoutCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and remove the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.open(cmd)
			if err != nil {
				return err
			}
			if !a.coord.IsAuthenticated() {
				cmd.Println("Not logged in.")
				return nil
			}
			a.coord.Logout(cmd.Context())
			cmd.Println("Logged out.")
			return nil
		},
	}
}

func whoamiCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user and access token details",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.openAuthed(cmd)
			if err != nil {
				return err
			}
			user, _ := a.coord.CurrentUser()

			table := newTable(cmd.OutOrStdout(), "Field", "Value")
			table.Append([]string{"Email", user.Email})
			table.Append([]string{"Role", user.Role})
			table.Append([]string{"User ID", user.UserID})

			info, err := a.coord.TokenInfo()
			switch {
			case errors.Is(err, auth.ErrNotAuthenticated):
				return err
			case err != nil:
				// Opaque tokens are valid; only the claims are unavailable.
				table.Append([]string{"Token", "opaque"})
			default:
				if !info.ExpiresAt.IsZero() {
					state := "valid"
					if time.Now().After(info.ExpiresAt) {
						state = "expired, renewed on next request"
					}
					table.Append([]string{"Token expires", info.ExpiresAt.Local().Format(time.RFC1123) + " (" + state + ")"})
				}
			}
			table.Render()
			return nil
		},
	}
}
