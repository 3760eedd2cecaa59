package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/hypo-search/internal/catalog"
	"github.com/pfrederiksen/hypo-search/internal/filter"
	"github.com/pfrederiksen/hypo-search/internal/session"
	"github.com/pfrederiksen/hypo-search/internal/storage"
)

func newParamsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "params",
		Short: "Show the resolved search parameters without fetching",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, cleanup, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			defer cleanup() // nolint:errcheck

			criteria, err := criteriaFromFlags()
			if err != nil {
				return err
			}

			s := session.New(nil, cfg.BaseURL)
			if err := s.Configure(criteria); err != nil {
				return err
			}

			out, err := s.Describe()
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), out)

			if flagVerbose {
				url, err := s.URL()
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "\nSearch URL:\n%s\n", url)
			}
			return nil
		},
	}
	addSearchFlags(cmd)
	return cmd
}

func newShowCmd() *cobra.Command {
	var format, order string
	var where []string

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Print a saved catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := catalog.ParseFormat(strings.ToLower(format))
			if err != nil {
				return err
			}
			o, err := ParseSortOrder(order)
			if err != nil {
				return err
			}
			rowFilter, err := filter.Parse(where)
			if err != nil {
				return err
			}

			store, err := openStorage(cmd)
			if err != nil {
				return err
			}

			snapshot, err := store.Load(args[0])
			if err != nil {
				return err
			}

			rows := sortRows(rowFilter.Apply(snapshot.Catalog), o)
			if f == catalog.FormatText {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\nSaved %s\n", snapshot.URL, snapshot.SavedAt)
				if !rowFilter.IsEmpty() {
					fmt.Fprintf(cmd.OutOrStdout(), "Filter: %s\n", rowFilter)
				}
				fmt.Fprintln(cmd.OutOrStdout())
			}
			return catalog.Write(cmd.OutOrStdout(), rows, f)
		},
	}
	cmd.Flags().StringVar(&format, "format", "text", "Output format: text, json or csv")
	cmd.Flags().StringArrayVar(&where, "where", nil, "Local row filter key=value; repeatable")
	cmd.Flags().StringVar(&order, "order", string(OrderListing), "Row order: listing, time, mag or agency")
	return cmd
}

func newListCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved catalogs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := parseFormat(format, catalog.FormatText, catalog.FormatJSON)
			if err != nil {
				return err
			}

			store, err := openStorage(cmd)
			if err != nil {
				return err
			}

			snapshots, err := store.List()
			if err != nil {
				return err
			}
			return writeSnapshots(cmd.OutOrStdout(), snapshots, f)
		},
	}
	cmd.Flags().StringVar(&format, "format", "text", "Output format: text or json")
	return cmd
}

func newDiffCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "diff [old-id] <new-id>",
		Short: "Show article rows added or removed between two saved catalogs",
		Long: `Show article rows added or removed between two saved catalogs.
With a single id, compares it with the previous save of the same search.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := parseFormat(format, catalog.FormatText, catalog.FormatJSON)
			if err != nil {
				return err
			}

			store, err := openStorage(cmd)
			if err != nil {
				return err
			}

			current, err := store.Load(args[len(args)-1])
			if err != nil {
				return err
			}

			var previous *storage.Snapshot
			if len(args) == 2 {
				previous, err = store.Load(args[0])
			} else {
				previous, err = store.Previous(current.ID)
			}
			if err != nil {
				return err
			}

			return writeDiff(cmd.OutOrStdout(), catalog.Diff(previous.Catalog, current.Catalog), f)
		},
	}
	cmd.Flags().StringVar(&format, "format", "text", "Output format: text or json")
	return cmd
}

// parseFormat validates a --format value against the formats a command supports
func parseFormat(s string, allowed ...catalog.OutputFormat) (catalog.OutputFormat, error) {
	f, err := catalog.ParseFormat(strings.ToLower(s))
	if err != nil {
		return "", err
	}
	for _, a := range allowed {
		if f == a {
			return f, nil
		}
	}
	return "", fmt.Errorf("format %s is not supported here", f)
}

func openStorage(cmd *cobra.Command) (*storage.Storage, error) {
	cfg, cleanup, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	defer cleanup() // nolint:errcheck

	store, err := storage.New(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("initializing storage: %w", err)
	}
	return store, nil
}
