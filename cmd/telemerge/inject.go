package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/luki/telemerge/internal/feedcsv"
	"github.com/luki/telemerge/internal/inject"
	"github.com/luki/telemerge/internal/snapshot"
)

func newInjectCmd() *cobra.Command {
	var station, csvPath string

	cmd := &cobra.Command{
		Use:   "inject",
		Short: "Inject a humidity CSV into a station snapshot (dual-channel upgrade)",
		Long: `Converts a station's merged_data.js from the single-channel layout
{ channel, feeds } to the dual-channel layout { channel, tempFeeds,
humFeeds }, attaching the humidity readings from a ThingSpeak CSV export.
The original snapshot is backed up alongside as merged_data.js.bak.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, ok := cfg.Station(station)
			if !ok {
				return fmt.Errorf("unknown station %q", station)
			}
			path := cfg.SnapshotPath(st)

			humFeed, err := feedcsv.ReadFile(csvPath)
			if err != nil {
				return fmt.Errorf("read humidity csv: %w", err)
			}
			if len(humFeed) == 0 {
				return fmt.Errorf("humidity csv %s has no rows", csvPath)
			}
			log.Infow("loaded humidity csv",
				"path", csvPath,
				"entries", len(humFeed),
				"first", humFeed[0].CreatedAt,
				"last", humFeed[len(humFeed)-1].CreatedAt,
			)

			doc, err := snapshot.Load(path)
			if err != nil {
				return fmt.Errorf("load snapshot: %w", err)
			}

			if err := inject.Humidity(doc, humFeed); err != nil {
				return err
			}

			if err := snapshot.Write(path, doc); err != nil {
				return fmt.Errorf("write snapshot: %w", err)
			}

			log.Infow("snapshot rewritten",
				"station", st.Name,
				"path", path,
				"tempFeeds", len(doc.TempFeeds),
				"humFeeds", len(doc.HumFeeds),
				"backup", path+".bak",
			)
			return nil
		},
	}

	cmd.Flags().StringVar(&station, "station", "", "station name")
	cmd.Flags().StringVar(&csvPath, "csv", "", "path to the humidity CSV export")
	cmd.MarkFlagRequired("station")
	cmd.MarkFlagRequired("csv")
	return cmd
}
