package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/luki/telemerge/internal/gaps"
)

func newGapsCmd() *cobra.Command {
	var station string
	var window time.Duration

	cmd := &cobra.Command{
		Use:   "gaps",
		Short: "Find per-sensor coverage holes in a station's merged timeline",
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := loadMerged(station)
			if err != nil {
				return err
			}

			rep := gaps.Analyze(res.Records, window, cfg.SensorCount)
			fmt.Printf("records: %d total, %d in window", rep.Total, rep.Filtered)
			if rep.Filtered > 0 {
				fmt.Printf(" (%s to %s)",
					rep.From.Format(time.RFC3339), rep.To.Format(time.RFC3339))
			}
			fmt.Println()

			for _, sg := range rep.Sensors {
				if sg.Points == 0 {
					fmt.Printf("sensor %d: no data\n", sg.Sensor)
					continue
				}
				fmt.Printf("sensor %d: %d points, largest gap %s", sg.Sensor, sg.Points, sg.MaxGap)
				if sg.MaxGap > 0 {
					fmt.Printf(" (%s to %s)",
						sg.GapStart.Format(time.RFC3339), sg.GapEnd.Format(time.RFC3339))
				}
				fmt.Println()
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&station, "station", "", "station name")
	cmd.Flags().DurationVar(&window, "window", 7*24*time.Hour, "trailing window (0 for all data)")
	cmd.MarkFlagRequired("station")
	return cmd
}
