package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

const defaultServerURL = "http://localhost:8080"

type rootOptions struct {
	serverURL string
	installID string
	timeout   time.Duration
}

func (o *rootOptions) client() *client {
	return newClient(o.serverURL, o.installID, o.timeout)
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:          "diagctl",
		Short:        "Inspect and refresh companion diagnostics",
		SilenceUsage: true,
	}

	serverURL := os.Getenv("COMPANION_URL")
	if serverURL == "" {
		serverURL = defaultServerURL
	}
	root.PersistentFlags().StringVar(&opts.serverURL, "server", serverURL, "companion server base URL")
	root.PersistentFlags().StringVar(&opts.installID, "install-id", os.Getenv("COMPANION_INSTALL_ID"), "install ID sent with every request")
	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", 10*time.Second, "request timeout")

	root.AddCommand(
		newItemsCmd(opts),
		newReportCmd(opts),
		newRefreshCmd(opts),
		newSetCmd(opts),
		newSocialsCmd(opts),
		newForgetUserCmd(opts),
	)
	return root
}

func newItemsCmd(opts *rootOptions) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "items",
		Short: "List diagnostics items in display order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			items, err := opts.client().items(cmd.Context())
			if err != nil {
				return err
			}
			return printItems(cmd.OutOrStdout(), items, asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print items as JSON")
	return cmd
}

func newReportCmd(opts *rootOptions) *cobra.Command {
	var html bool
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the formatted diagnostics report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			report, err := opts.client().report(cmd.Context(), html)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), report)
			return err
		},
	}
	cmd.Flags().BoolVar(&html, "html", false, "print the HTML report used in support e-mails")
	return cmd
}

func newRefreshCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Regenerate device diagnostics and print the result",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			items, err := opts.client().refresh(cmd.Context())
			if err != nil {
				return err
			}
			return printItems(cmd.OutOrStdout(), items, false)
		},
	}
}

func newSetCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "set <type> <value>",
		Short: "Insert or update a single diagnostics item",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.client().setItem(cmd.Context(), args[0], args[1])
		},
	}
}

func newSocialsCmd(opts *rootOptions) *cobra.Command {
	var wait bool
	cmd := &cobra.Command{
		Use:   "refresh-socials",
		Short: "Refresh the connected socials item",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.client().refreshSocials(cmd.Context(), wait)
		},
	}
	cmd.Flags().BoolVar(&wait, "wait", false, "wait for the refresh and report its failure")
	return cmd
}

func newForgetUserCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "forget-user",
		Short: "Remove user-specific diagnostics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.client().removeUserSpecific(cmd.Context())
		},
	}
}

func printItems(w io.Writer, items []item, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(items)
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, it := range items {
		fmt.Fprintf(tw, "%s\t%s\n", it.Title, it.Value)
	}
	return tw.Flush()
}
