// Command telemerge inspects and patches station telemetry snapshots:
// freshness reports, humidity injection, gap diagnostics, merged-record
// export, and an interactive browser.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/luki/telemerge/internal/config"
	"github.com/luki/telemerge/internal/merge"
	"github.com/luki/telemerge/internal/snapshot"
)

var (
	cfg config.Config
	log *zap.SugaredLogger
)

func main() {
	root := &cobra.Command{
		Use:           "telemerge",
		Short:         "Inspect and patch sensor-telemetry snapshots",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := zap.NewDevelopment()
			if err != nil {
				return err
			}
			log = logger.Sugar()

			cfg, err = config.Load()
			return err
		},
	}

	root.AddCommand(
		newFreshnessCmd(),
		newInjectCmd(),
		newGapsCmd(),
		newExportCmd(),
		newViewCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "telemerge: %v\n", err)
		os.Exit(1)
	}
}

// loadMerged loads a station snapshot and runs a full merge pass.
func loadMerged(station string) (merge.Result, error) {
	st, ok := cfg.Station(station)
	if !ok {
		return merge.Result{}, fmt.Errorf("unknown station %q", station)
	}

	doc, err := snapshot.Load(cfg.SnapshotPath(st))
	if err != nil {
		return merge.Result{}, fmt.Errorf("load snapshot for %s: %w", st.Name, err)
	}

	tempFeed, humFeed := doc.FeedPair()
	res := merge.Merge(cfg.MergeConfig(), tempFeed, humFeed)
	if n := len(res.Skipped); n > 0 {
		log.Warnw("readings skipped during merge", "station", st.Name, "count", n)
	}
	return res, nil
}
