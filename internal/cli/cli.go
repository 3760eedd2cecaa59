package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pfrederiksen/hypo-search/internal/catalog"
	"github.com/pfrederiksen/hypo-search/internal/config"
	"github.com/pfrederiksen/hypo-search/internal/fetch"
	"github.com/pfrederiksen/hypo-search/internal/filter"
	"github.com/pfrederiksen/hypo-search/internal/logger"
	"github.com/pfrederiksen/hypo-search/internal/parser"
	"github.com/pfrederiksen/hypo-search/internal/query"
	"github.com/pfrederiksen/hypo-search/internal/session"
	"github.com/pfrederiksen/hypo-search/internal/storage"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

var (
	flagConfig   string
	flagBaseURL  string
	flagDataDir  string
	flagLogLevel string
	flagLogFile  string
	flagVerbose  bool

	flagDate      string
	flagStartDate string
	flagEndDate   string
	flagReviewed  bool
	flagShape     string
	flagCoords    string
	flagSortBy    string

	flagPubMinYear string
	flagPubMaxYear string
	flagPubAuthor  string
	flagPublisher  string

	flagFilters query.Filters
	flagOutputs query.Outputs

	flagFormat string
	flagOrder  string
	flagWhere  []string
	flagSave   bool
	flagDryRun bool
)

var (
	warnColor = color.New(color.FgYellow)
	okColor   = color.New(color.FgGreen)
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hypo-search",
		Short: "Search the ISC event bibliography",
		Long: `A CLI tool to search the ISC event bibliography.
Builds a bulletin search for a day or a date range, fetches the listing and
prints one row per article referencing each matching earthquake.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runSearch,
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&flagConfig, "config", "", "Config file (default .hypo-search.yaml)")
	pf.StringVar(&flagBaseURL, "base-url", query.DefaultBaseURL, "Bulletin search endpoint")
	pf.StringVar(&flagDataDir, "data-dir", "~/.local/share/hypo-search", "Data directory for saved catalogs")
	pf.StringVar(&flagLogLevel, "log-level", "warn", "Log level: debug, info, warn, error")
	pf.StringVar(&flagLogFile, "log-file", "", "Write logs to a rotated file instead of stderr")
	pf.BoolVar(&flagVerbose, "verbose", false, "Enable verbose logging")

	addSearchFlags(cmd)
	cmd.Flags().StringVar(&flagFormat, "format", "text", "Output format: text, json or csv")
	cmd.Flags().StringVar(&flagOrder, "order", string(OrderListing), "Row order: listing, time, mag or agency")
	cmd.Flags().StringArrayVar(&flagWhere, "where", nil, "Local row filter key=value (from, to, agency, mag-type, article, has-mag); repeatable")
	cmd.Flags().BoolVar(&flagSave, "save", false, "Save the catalog to the data directory")
	cmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "Print the search URL without fetching")

	cmd.AddCommand(newParamsCmd(), newShowCmd(), newListCmd(), newDiffCmd())

	return cmd
}

// addSearchFlags registers the search criteria flags on cmd
func addSearchFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&flagDate, "date", "", "Search a single day (YYYY-MM-DD)")
	f.StringVar(&flagStartDate, "start-date", "", "Start of the search range (YYYY-MM-DD)")
	f.StringVar(&flagEndDate, "end-date", "", "End of the search range (YYYY-MM-DD)")
	f.BoolVar(&flagReviewed, "reviewed", false, "Search the reviewed bulletin only")
	f.StringVar(&flagShape, "shape", "", "Region shape: RECT, CIRC or POLY")
	f.StringVar(&flagCoords, "coords", "", "Region coordinates, comma separated")
	f.StringVar(&flagSortBy, "sort-by", query.DefaultSortBy, "Sort order")

	f.StringVar(&flagPubMinYear, "published-min-year", "", "Earliest publication year")
	f.StringVar(&flagPubMaxYear, "published-max-year", "", "Latest publication year")
	f.StringVar(&flagPubAuthor, "published-author", "", "Article author")
	f.StringVar(&flagPublisher, "publisher", "", "Article publisher")

	f.StringVar(&flagFilters.MinDepth, "min-dep", "", "Minimum depth (km)")
	f.StringVar(&flagFilters.MaxDepth, "max-dep", "", "Maximum depth (km)")
	f.StringVar(&flagFilters.MinMag, "min-mag", "", "Minimum magnitude")
	f.StringVar(&flagFilters.MaxMag, "max-mag", "", "Maximum magnitude")
	f.StringVar(&flagFilters.MagType, "mag-type", "", "Magnitude type")
	f.StringVar(&flagFilters.MagAgency, "mag-agency", "", "Magnitude agency")
	f.StringVar(&flagFilters.MinDefining, "min-def", "", "Minimum number of defining phases")
	f.StringVar(&flagFilters.MaxDefining, "max-def", "", "Maximum number of defining phases")

	f.BoolVar(&flagOutputs.IncludeNullMag, "include-null-mag", false, "Include events without magnitude")
	f.BoolVar(&flagOutputs.IncludeNullPhases, "include-null-phs", false, "Include events without phases")
	f.BoolVar(&flagOutputs.OnlyPrimeHypo, "only-prime-hypo", false, "Only prime hypocentres")
	f.BoolVar(&flagOutputs.IncludePhases, "include-phases", false, "Include phases")
	f.BoolVar(&flagOutputs.IncludeMagnitudes, "include-magnitudes", false, "Include magnitudes")
	f.BoolVar(&flagOutputs.IncludeWeblinks, "include-weblinks", false, "Include web links")
	f.BoolVar(&flagOutputs.IncludeHeaders, "include-headers", false, "Include headers")
	f.BoolVar(&flagOutputs.IncludeComments, "include-comments", false, "Include comments")
}

// criteriaFromFlags converts the search flags into query criteria
func criteriaFromFlags() (query.Criteria, error) {
	c := query.Criteria{
		Reviewed:         flagReviewed,
		Shape:            flagShape,
		Coords:           flagCoords,
		SortBy:           flagSortBy,
		PublishedMinYear: flagPubMinYear,
		PublishedMaxYear: flagPubMaxYear,
		PublishedAuthor:  flagPubAuthor,
		Publisher:        flagPublisher,
		Filters:          flagFilters,
		Outputs:          flagOutputs,
	}

	parse := func(s string) (*time.Time, error) {
		if strings.TrimSpace(s) == "" {
			return nil, nil
		}
		t, err := query.ParseDate(s)
		if err != nil {
			return nil, err
		}
		return &t, nil
	}

	var err error
	if c.Date, err = parse(flagDate); err != nil {
		return c, err
	}
	if c.StartDate, err = parse(flagStartDate); err != nil {
		return c, err
	}
	if c.EndDate, err = parse(flagEndDate); err != nil {
		return c, err
	}
	return c, nil
}

// loadConfig merges defaults, config file, .env, environment and flags,
// then installs the logger. The returned cleanup closes the log file.
func loadConfig(cmd *cobra.Command) (*config.Config, func() error, error) {
	if err := config.LoadDotEnv(); err != nil {
		return nil, nil, err
	}

	v := config.New(flagConfig)
	pf := cmd.Flags()
	bindings := map[string]string{
		"base_url":  "base-url",
		"data_dir":  "data-dir",
		"log.level": "log-level",
		"log.file":  "log-file",
	}
	for key, name := range bindings {
		if f := pf.Lookup(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, nil, fmt.Errorf("binding flag %s: %w", name, err)
			}
		}
	}

	cfg, err := config.Load(v)
	if err != nil {
		return nil, nil, err
	}

	lc := cfg.LoggerConfig()
	if flagVerbose {
		lc.Level = string(logger.LevelDebug)
	}
	cleanup, err := logger.Setup(lc)
	if err != nil {
		return nil, nil, fmt.Errorf("setting up logging: %w", err)
	}

	return cfg, cleanup, nil
}

// runSearch is the main command logic
func runSearch(cmd *cobra.Command, args []string) error {
	format, err := catalog.ParseFormat(strings.ToLower(flagFormat))
	if err != nil {
		return err
	}
	order, err := ParseSortOrder(flagOrder)
	if err != nil {
		return err
	}
	rowFilter, err := filter.Parse(flagWhere)
	if err != nil {
		return err
	}

	cfg, cleanup, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	defer cleanup() // nolint:errcheck

	criteria, err := criteriaFromFlags()
	if err != nil {
		return err
	}

	client, err := fetch.NewWithOptions(cfg.FetchOptions())
	if err != nil {
		return fmt.Errorf("initializing fetcher: %w", err)
	}

	s := session.New(client, cfg.BaseURL)
	if err := s.Configure(criteria); err != nil {
		return err
	}

	url, err := s.URL()
	if err != nil {
		return err
	}

	stdout := cmd.OutOrStdout()
	stderr := cmd.ErrOrStderr()

	if flagDryRun {
		fmt.Fprintln(stdout, url)
		return nil
	}
	if flagVerbose {
		fmt.Fprintf(stderr, "Search URL:\n%s\n", url)
	}

	err = s.Run(cmd.Context())
	var status *parser.StatusError
	switch {
	case errors.As(err, &status):
		warnColor.Fprintln(stderr, status.Status)
		return nil
	case err != nil:
		return err
	}

	// QuakeML responses carry elements instead of a catalog
	if s.Catalog() == nil {
		return writeElements(stdout, s.Elements(), format)
	}

	if flagSave {
		store, err := storage.New(cfg.DataDir)
		if err != nil {
			return fmt.Errorf("initializing storage: %w", err)
		}
		params, err := s.Params()
		if err != nil {
			return err
		}
		snapshot, err := store.Save(url, params, s.Catalog())
		if err != nil {
			return fmt.Errorf("saving catalog: %w", err)
		}
		okColor.Fprintf(stderr, "Saved catalog %s\n", snapshot.ID)
	}

	rows := rowFilter.Apply(s.Catalog())
	if !rowFilter.IsEmpty() {
		logger.Debug("filtered catalog", logger.Fields{
			"filter": rowFilter.String(),
			"before": s.Catalog().Len(),
			"after":  rows.Len(),
		})
	}

	rows = sortRows(rows, order)
	if err := catalog.Write(stdout, rows, format); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	if flagVerbose {
		logger.Debug("metrics", logger.Fields{"snapshot": logger.GetMetricsSnapshot()})
	}

	return nil
}

// Execute runs the CLI until it finishes or the process is interrupted
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
}
