package cmd

import (
	"errors"
	"os"

	"github.com/habedi/mscli/config"
	"github.com/habedi/mscli/pkg/clierr"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// rootOptions carries the persistent flags and the lazily built app.
type rootOptions struct {
	configPath  string
	gateway     string
	store       string
	showMetrics bool

	app *app
}

func Execute() {
	opts := &rootOptions{}
	rootCmd := createRootCmd(opts)

	rootCmd.PersistentFlags().BoolP("help", "h", false, "Show help for a command")

	if code := run(rootCmd, opts); code != 0 {
		os.Exit(code)
	}
}

// run executes the command tree and turns its error into an exit status.
func run(rootCmd *cobra.Command, opts *rootOptions) int {
	err := rootCmd.Execute()
	opts.close()
	if err == nil {
		return 0
	}
	ce := clierr.FromError(err)
	log.Error().Err(err).Str("type", string(ce.Type)).Msg("Command execution failed.")
	rootCmd.PrintErrln("Error:", ce.Message)
	return ce.ExitCode()
}

func createRootCmd(opts *rootOptions) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "mscli",
		Short:         "A command-line client for the customer, inventory and billing services",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.showMetrics && opts.app != nil {
				printMetrics(cmd.OutOrStdout(), opts.app.registry)
			}
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", config.DefaultPath(), "Path to the configuration file")
	pf.StringVar(&opts.gateway, "gateway", "", "Gateway base URL (overrides the configuration)")
	pf.StringVar(&opts.store, "store", "", "Credential store: sqlite, redis or memory (overrides the configuration)")
	pf.BoolVar(&opts.showMetrics, "metrics", false, "Print request and token refresh metrics after the command")

	rootCmd.AddCommand(
		loginCmd(opts),
		registerCmd(opts),
		logoutCmd(opts),
		whoamiCmd(opts),
		customersCmd(opts),
		productsCmd(opts),
		billsCmd(opts),
		dashboardCmd(opts),
		versionCmd(),
	)

	rootCmd.CompletionOptions.HiddenDefaultCmd = true
	rootCmd.SetHelpCommand(&cobra.Command{
		Use:    "no-help",
		Hidden: true,
	})

	return rootCmd
}

// open resolves the configuration and builds the app on first use.
func (o *rootOptions) open(cmd *cobra.Command) (*app, error) {
	if o.app != nil {
		return o.app, nil
	}
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, clierr.New(clierr.Validation, err.Error(), err)
	}
	if o.gateway != "" {
		cfg.GatewayURL = o.gateway
	}
	if o.store != "" {
		cfg.Store = o.store
	}
	if err := cfg.Validate(); err != nil {
		return nil, clierr.New(clierr.Validation, "Invalid configuration: "+err.Error(), err)
	}

	a, err := newApp(cmd.Context(), cfg, cmd.ErrOrStderr())
	if err != nil {
		return nil, clierr.New(clierr.Internal, err.Error(), err)
	}
	o.app = a
	return a, nil
}

// openAuthed is open followed by the signed-in guard.
func (o *rootOptions) openAuthed(cmd *cobra.Command) (*app, error) {
	a, err := o.open(cmd)
	if err != nil {
		return nil, err
	}
	if err := a.requireAuth(); err != nil {
		return nil, err
	}
	return a, nil
}

func (o *rootOptions) close() {
	if o.app != nil {
		o.app.close()
		o.app = nil
	}
}

// errRequiredArg is returned when a positional argument is missing or malformed.
var errRequiredArg = errors.New("missing or invalid argument")
