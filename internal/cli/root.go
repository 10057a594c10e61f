package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/five82/basket/internal/app"
	"github.com/five82/basket/internal/config"
	"github.com/five82/basket/internal/logging"
	"github.com/five82/basket/internal/prefs"
	"github.com/five82/basket/internal/ui"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	PrefsPath  string
	Verbose    bool
}

// NewRootCommand creates the basket command. Without a subcommand it runs
// the terminal UI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}
	var pollSeconds int

	cmd := &cobra.Command{
		Use:           "basket",
		Short:         "Shopping cart with live stock checks",
		Long:          "Browse the shop catalog and build a cart. Every add is confirmed against current stock before the cart changes.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.Run(cmd.Context(), app.Options{
				ConfigPath: opts.ConfigPath,
				PrefsPath:  opts.PrefsPath,
				PollEvery:  pollSeconds,
			})
		},
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "config path (default ~/.config/basket/config.toml)")
	cmd.PersistentFlags().StringVar(&opts.PrefsPath, "prefs", "", "prefs path (default ~/.config/basket/prefs.toml)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "debug logging on stderr")
	cmd.Flags().IntVar(&pollSeconds, "poll", 0, "catalog refresh interval in seconds (default from config)")

	cmd.AddCommand(NewProductsCommand(opts))
	cmd.AddCommand(NewAddCommand(opts))

	return cmd
}

// openSession builds a headless cart session that logs to stderr.
func openSession(ctx context.Context, opts *RootOptions) (*app.Session, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	level := "warn"
	if opts.Verbose {
		level = "debug"
	}
	logger, err := logging.New(logging.Options{Level: level})
	if err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}

	return app.NewSession(ctx, cfg, logger)
}

// outputTheme is the theme saved in prefs, used for table borders.
func outputTheme(opts *RootOptions) ui.Theme {
	return ui.GetTheme(prefs.Load(opts.PrefsPath).Theme)
}

const headlessTimeout = 30 * time.Second
