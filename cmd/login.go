package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/habedi/mscli/pkg/clierr"
	"github.com/habedi/mscli/pkg/validation"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// loginCmd signs in against the Auth service and stores the session.
func loginCmd(opts *rootOptions) *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with your email and password",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.open(cmd)
			if err != nil {
				return err
			}

			p := newPrompter(cmd)
			if email == "" {
				if email, err = p.input("Email: "); err != nil {
					return err
				}
			}
			password, err := p.password("Password: ")
			if err != nil {
				return err
			}
			if !validateCredentials(email, password) {
				return clierr.New(clierr.Validation, "Email and password cannot be empty.", nil)
			}
			if err := validation.ValidateEmail(email); err != nil {
				return clierr.New(clierr.Validation, err.Error(), err)
			}

			sess, err := a.coord.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			log.Info().Str("email", sess.Email).Msg("Login successful")
			cmd.Printf("Logged in as %s (%s).\n", sess.Email, sess.Role)
			return nil
		},
	}

	cmd.Flags().StringVarP(&email, "email", "e", "", "Account email (prompted when omitted)")
	return cmd
}

// prompter reads answers from the command's input. Passwords are read without
// echo when the input is a terminal.
type prompter struct {
	in     io.Reader
	reader *bufio.Reader
	out    io.Writer
}

func newPrompter(cmd *cobra.Command) *prompter {
	in := cmd.InOrStdin()
	return &prompter{in: in, reader: bufio.NewReader(in), out: cmd.OutOrStdout()}
}

// input prompts the user for input and returns the trimmed string.
func (p *prompter) input(prompt string) (string, error) {
	fmt.Fprint(p.out, prompt)
	line, err := p.reader.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", clierr.New(clierr.Validation, "Failed to read input.", err)
	}
	return strings.TrimSpace(line), nil
}

// password prompts for a secret. It falls back to a plain line read when the
// input is not a terminal.
func (p *prompter) password(prompt string) (string, error) {
	f, ok := p.in.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return p.input(prompt)
	}
	fmt.Fprint(p.out, prompt)
	secret, err := term.ReadPassword(int(f.Fd()))
	fmt.Fprintln(p.out)
	if err != nil {
		return "", clierr.New(clierr.Validation, "Failed to read password.", err)
	}
	return strings.TrimSpace(string(secret)), nil
}

// validateCredentials checks if the email and password are not empty.
func validateCredentials(email, password string) bool {
	return email != "" && password != ""
}
