package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/five82/basket/internal/cart"
	"github.com/five82/basket/internal/ui"
)

// AddOptions holds flags for the add command.
type AddOptions struct {
	Sequential bool
}

// NewAddCommand creates the add command.
func NewAddCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AddOptions{}

	cmd := &cobra.Command{
		Use:   "add <product-id>...",
		Short: "Request products in order and print the resulting cart",
		Long: `Request each product id in order, wait for every stock check and print
the resulting cart.

Requests are issued back to back, so repeating an id before its check has
resolved replaces the earlier request. Use --sequential to wait for each
check before issuing the next request.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdd(cmd, rootOpts, opts, args)
		},
	}

	cmd.Flags().BoolVar(&opts.Sequential, "sequential", false, "wait for each stock check before the next request")
	return cmd
}

func parseProductIDs(args []string) ([]cart.ProductID, error) {
	ids := make([]cart.ProductID, 0, len(args))
	for _, arg := range args {
		n, err := strconv.ParseInt(strings.TrimSpace(arg), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid product id %q", arg)
		}
		ids = append(ids, cart.ProductID(n))
	}
	return ids, nil
}

func runAdd(cmd *cobra.Command, rootOpts *RootOptions, opts *AddOptions, args []string) error {
	ids, err := parseProductIDs(args)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), headlessTimeout)
	defer cancel()

	session, err := openSession(ctx, rootOpts)
	if err != nil {
		return err
	}
	defer func() { _ = session.Logger.Sync() }()

	snap := session.RefreshCatalog(ctx)
	if snap.LastError != nil {
		return fmt.Errorf("list products: %w", snap.LastError)
	}

	products := make([]cart.Product, 0, len(ids))
	for _, id := range ids {
		p, ok := snap.Lookup(id)
		if !ok {
			return fmt.Errorf("product %d is not in the catalog", id)
		}
		products = append(products, p)
	}

	for _, p := range products {
		session.Store.Dispatch(cart.AddToCartRequested{Product: p})
		if opts.Sequential {
			session.Checks.Wait()
		}
	}
	session.Checks.Wait()

	st := session.Store.State()
	out := cmd.OutOrStdout()
	theme := outputTheme(rootOpts)

	if st.Len() == 0 {
		fmt.Fprintln(out, "Cart is empty.")
	} else {
		fmt.Fprintln(out, ui.RenderCartTable(st, theme))
		fmt.Fprintf(out, "Total %s (%d items)\n", st.Total().StringFixed(2), st.TotalQuantity())
	}
	if failed := ui.FailedLabels(st, snap); len(failed) > 0 {
		fmt.Fprintf(out, "Out of stock: %s\n", strings.Join(failed, ", "))
	}
	return nil
}
