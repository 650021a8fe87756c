package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/lokenilsson/snwk-stats/internal/competition"
	"github.com/lokenilsson/snwk-stats/internal/lister"
	"github.com/lokenilsson/snwk-stats/internal/logger"
	"github.com/lokenilsson/snwk-stats/internal/portal"
	"github.com/lokenilsson/snwk-stats/internal/results"
	"github.com/lokenilsson/snwk-stats/internal/storage"
	"github.com/lokenilsson/snwk-stats/internal/subpage"
	"github.com/lokenilsson/snwk-stats/internal/tracker"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

var (
	flagConfig       string
	flagDataDir      string
	flagYears        []int
	flagRequestDelay time.Duration
	flagSubpageDelay time.Duration
	flagDryRun       bool
	flagVerbose      bool
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snwk-scrape",
		Short: "Collect SNWK competition results into JSON snapshots",
		Long: `Incrementally collects competition results from the SNWK results portal.
Competitions already present in the data directory are skipped; new ones are
fetched, parsed and appended as timestamped JSON snapshot files.`,
		RunE: runScrape,
	}

	defaults := DefaultConfig()
	cmd.Flags().StringVar(&flagConfig, "config", "", "Optional YAML config file")
	cmd.Flags().StringVar(&flagDataDir, "data-dir", defaults.DataDir, "Data directory for snapshots")
	cmd.Flags().IntSliceVar(&flagYears, "years", defaults.Years, "Years to scrape, newest first")
	cmd.Flags().DurationVar(&flagRequestDelay, "delay", defaults.RequestDelay, "Delay between top-level requests")
	cmd.Flags().DurationVar(&flagSubpageDelay, "subpage-delay", defaults.SubpageDelay, "Delay between subpage requests")
	cmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "List new competitions without scraping them")
	cmd.Flags().BoolVar(&flagVerbose, "verbose", false, "Enable debug logging")

	return cmd
}

// resolveConfig layers the optional config file over the defaults and the
// changed flags over the file
func resolveConfig(cmd *cobra.Command) (Config, error) {
	cfg := DefaultConfig()

	if flagConfig != "" {
		loaded, err := LoadConfig(flagConfig)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("data-dir") {
		cfg.DataDir = flagDataDir
	}
	if cmd.Flags().Changed("years") {
		cfg.Years = flagYears
	}
	if cmd.Flags().Changed("delay") {
		cfg.RequestDelay = flagRequestDelay
	}
	if cmd.Flags().Changed("subpage-delay") {
		cfg.SubpageDelay = flagSubpageDelay
	}

	return cfg, nil
}

// runScrape is the whole pipeline: discover, select new, extract subpages,
// parse results, persist.
func runScrape(cmd *cobra.Command, args []string) error {
	if flagVerbose {
		logger.SetDefault(logger.New(logger.LevelDebug, os.Stdout))
	}

	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := storage.New(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}

	logger.Info("starting SNWK competition data collection", logger.Fields{
		"data_dir": store.DataDir(),
		"years":    cfg.Years,
	})

	known := tracker.KnownURLs(store.DataDir())

	all, err := lister.New(cfg.Years, cfg.Types, cfg.RequestDelay).ListAll(ctx)
	if err != nil {
		return cleanStop(err)
	}
	logger.Info("discovery finished", logger.Fields{"competitions": len(all)})

	fresh := tracker.SelectNew(all, known)
	if len(fresh) == 0 {
		logger.Info("no new competitions found, data collection is up to date", nil)
		return nil
	}

	if flagDryRun {
		for _, comp := range fresh {
			fmt.Printf("%s\t%s\n", comp.URL, comp.Text)
		}
		fmt.Printf("\n%d new competitions would be scraped\n", len(fresh))
		return nil
	}

	subpages, err := extractAll(ctx, fresh, cfg)
	if err != nil {
		return cleanStop(err)
	}

	subpagesPath, err := store.Save(subpages, "snwk_new_subpages")
	if err != nil {
		return fmt.Errorf("saving subpages snapshot: %w", err)
	}
	logger.Info("saved subpages snapshot", logger.Fields{
		"path":  subpagesPath,
		"count": len(subpages),
	})

	collected, err := parseAll(ctx, subpages, cfg)
	if err != nil {
		return cleanStop(err)
	}

	resultsPath, err := store.Save(collected, "snwk_competition_results")
	if err != nil {
		return fmt.Errorf("saving results snapshot: %w", err)
	}

	summarize(subpages, collected, subpagesPath, resultsPath)
	return nil
}

// extractAll extracts subpages for every new competition, carrying each
// competition's listing metadata along on the extracted record
func extractAll(ctx context.Context, fresh []competition.Competition, cfg Config) ([]competition.Subpages, error) {
	extractor := subpage.New()
	subpages := make([]competition.Subpages, 0, len(fresh))

	for i, comp := range fresh {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		logger.Info("extracting subpages", logger.Fields{
			"progress":    fmt.Sprintf("%d/%d", i+1, len(fresh)),
			"competition": truncate(comp.Text, 50),
		})

		sp := extractor.Extract(ctx, comp.URL)
		sp.OriginalText = comp.Text
		sp.Year = comp.Year
		sp.Type = comp.Type
		subpages = append(subpages, sp)

		if i < len(fresh)-1 {
			if err := portal.Sleep(ctx, cfg.RequestDelay); err != nil {
				return nil, err
			}
		}
	}

	return subpages, nil
}

// parseAll parses results per competition. A failed competition is logged
// and dropped; the run continues with the rest.
func parseAll(ctx context.Context, subpages []competition.Subpages, cfg Config) ([]*competition.Result, error) {
	parser := results.New(cfg.SubpageDelay)
	collected := make([]*competition.Result, 0, len(subpages))

	for i, sp := range subpages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		logger.Info("parsing results", logger.Fields{
			"progress":    fmt.Sprintf("%d/%d", i+1, len(subpages)),
			"competition": truncate(sp.OriginalText, 50),
		})

		res, err := parser.Parse(ctx, sp)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil, err
			}
			logger.Error("discarding competition after subpage failure", logger.Fields{
				"url": sp.MainURL,
			}, err)
			logger.IncrCounter("results.competitions_discarded")
			continue
		}
		if res != nil {
			collected = append(collected, res)
		}

		if i < len(subpages)-1 {
			if err := portal.Sleep(ctx, cfg.RequestDelay); err != nil {
				return nil, err
			}
		}
	}

	return collected, nil
}

// summarize logs the end-of-run statistics
func summarize(subpages []competition.Subpages, collected []*competition.Result, subpagesPath, resultsPath string) {
	totalSubpages := 0
	for _, sp := range subpages {
		totalSubpages += len(sp.Subpages)
	}

	fields := logger.Fields{
		"competitions_processed": len(subpages),
		"results_collected":      len(collected),
		"subpages_total":         totalSubpages,
		"subpages_file":          subpagesPath,
		"results_file":           resultsPath,
	}
	if len(subpages) > 0 {
		fields["subpages_per_competition"] = fmt.Sprintf("%.1f", float64(totalSubpages)/float64(len(subpages)))
	}
	logger.Info("data collection completed", fields)
	logger.Debug("run metrics", logger.Fields{"metrics": logger.GetMetricsSnapshot()})
}

// cleanStop turns an interrupt into a graceful exit; any other error is
// passed through
func cleanStop(err error) error {
	if errors.Is(err, context.Canceled) {
		logger.Info("data collection interrupted, stopping cleanly", nil)
		return nil
	}
	return err
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}

// Execute runs the CLI
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		logger.Error("data collection failed", nil, err)
		os.Exit(ExitError)
	}
}
