package main

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/lukefryer1234/Oak-Structures-website-sub001/internal/basket"
	"github.com/lukefryer1234/Oak-Structures-website-sub001/internal/catalog"
	"github.com/lukefryer1234/Oak-Structures-website-sub001/internal/pricing"
	"github.com/lukefryer1234/Oak-Structures-website-sub001/pkg/auth"
	"github.com/lukefryer1234/Oak-Structures-website-sub001/pkg/config"
	"github.com/lukefryer1234/Oak-Structures-website-sub001/pkg/env"
	"github.com/lukefryer1234/Oak-Structures-website-sub001/pkg/enums"
)

type rootOptions struct {
	catalogPath string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "catalog",
		Short:         "Inspect and price the oak structures catalog",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.catalogPath, "catalog", env.Get(config.EnvCatalogPath, ""), "catalog YAML file (embedded catalog when empty)")

	root.AddCommand(
		newListCmd(opts),
		newValidateCmd(),
		newQuoteCmd(opts),
		newKeyCmd(),
		newTokenCmd(),
	)
	return root
}

func newListCmd(opts *rootOptions) *cobra.Command {
	var category string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List catalog products and their options",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := catalog.Load(opts.catalogPath)
			if err != nil {
				return err
			}
			var filter enums.ProductCategory
			if category != "" {
				if filter, err = enums.ParseProductCategory(category); err != nil {
					return err
				}
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tCATEGORY\tBASE\tOPTIONS")
			for _, p := range c.List() {
				if filter != "" && p.Category != filter {
					continue
				}
				ids := make([]string, 0, len(p.Options))
				for _, o := range p.Options {
					ids = append(ids, o.ID)
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p.ID, p.Category, p.BasePrice.StringFixed(2), strings.Join(ids, ","))
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "only list products in this category")
	return cmd
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Validate a catalog file without starting the API",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := catalog.Load(args[0])
			if err != nil {
				return fmt.Errorf("catalog %s is invalid: %w", args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "catalog ok: %d products\n", c.Len())
			return nil
		},
	}
}

func newQuoteCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "quote <product-id> [option=value ...]",
		Short: "Price a configuration and print its basket item key",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := catalog.Load(opts.catalogPath)
			if err != nil {
				return err
			}
			product, err := c.Get(args[0])
			if err != nil {
				return err
			}
			selections, err := parseSelections(args[1:])
			if err != nil {
				return err
			}

			quote, err := pricing.NewEngine().Quote(product, selections)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (%s)\n", quote.ProductName, quote.ProductID)
			for _, sel := range quote.Configuration {
				fmt.Fprintf(out, "  %s = %s (%s)\n", sel.OptionID, sel.Value, sel.PriceAdjustment.StringFixed(2))
			}
			fmt.Fprintf(out, "unit price: %s\n", quote.UnitPrice.StringFixed(2))
			fmt.Fprintf(out, "item key:   %s\n", basket.CanonicalKey(product, quote.Configuration))
			return nil
		},
	}
}

func newKeyCmd() *cobra.Command {
	key := &cobra.Command{
		Use:   "key",
		Short: "Work with basket item keys",
	}
	key.AddCommand(&cobra.Command{
		Use:   "decode <item-key>",
		Short: "Show the product and non-default options encoded in an item key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			productID, pairs, err := basket.DecodeKey(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "product: %s\n", productID)
			for _, p := range pairs {
				fmt.Fprintf(out, "  %s = %s\n", p.OptionID, p.Value)
			}
			return nil
		},
	})
	return key
}

func newTokenCmd() *cobra.Command {
	var (
		accountID string
		email     string
		secret    string
		issuer    string
		ttl       time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a signed access token for local testing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			id := uuid.New()
			if accountID != "" {
				parsed, err := uuid.Parse(accountID)
				if err != nil {
					return fmt.Errorf("invalid --account: %w", err)
				}
				id = parsed
			}
			minutes := int(ttl / time.Minute)
			token, err := auth.MintAccessToken(config.JWTConfig{
				Secret:            secret,
				Issuer:            issuer,
				ExpirationMinutes: minutes,
			}, time.Now(), auth.AccessTokenPayload{AccountID: id, Email: email})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&accountID, "account", "", "account id (random when empty)")
	cmd.Flags().StringVar(&email, "email", "", "email claim")
	cmd.Flags().StringVar(&secret, "secret", env.Get(config.EnvJWTSecret, ""), "HS256 signing secret")
	cmd.Flags().StringVar(&issuer, "issuer", env.Get(config.EnvJWTIssuer, ""), "token issuer")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "token lifetime")
	return cmd
}

func parseSelections(args []string) ([]pricing.Selection, error) {
	out := make([]pricing.Selection, 0, len(args))
	for _, arg := range args {
		id, value, ok := strings.Cut(arg, "=")
		if !ok || strings.TrimSpace(id) == "" {
			return nil, fmt.Errorf("selection %q must look like option=value", arg)
		}
		out = append(out, pricing.Selection{OptionID: strings.TrimSpace(id), Value: value})
	}
	return out, nil
}
