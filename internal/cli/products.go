package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/five82/basket/internal/ui"
)

// NewProductsCommand creates the products command.
func NewProductsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "products",
		Short:         "Print the shop catalog",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runProducts(cmd, rootOpts)
		},
	}
}

func runProducts(cmd *cobra.Command, opts *RootOptions) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), headlessTimeout)
	defer cancel()

	session, err := openSession(ctx, opts)
	if err != nil {
		return err
	}
	defer func() { _ = session.Logger.Sync() }()

	snap := session.RefreshCatalog(ctx)
	if snap.LastError != nil {
		return fmt.Errorf("list products: %w", snap.LastError)
	}

	out := cmd.OutOrStdout()
	if len(snap.Products) == 0 {
		fmt.Fprintln(out, "The catalog is empty.")
		return nil
	}
	fmt.Fprintln(out, ui.RenderCatalogTable(snap.Products, outputTheme(opts)))
	return nil
}
