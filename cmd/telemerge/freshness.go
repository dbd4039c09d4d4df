package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/luki/telemerge/internal/freshness"
)

func newFreshnessCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "freshness",
		Short: "Report snapshot staleness for every station",
		RunE: func(cmd *cobra.Command, args []string) error {
			entries := freshness.Check(cfg, time.Now().UTC())
			for _, e := range entries {
				switch {
				case e.Missing:
					fmt.Printf("%-12s: NO merged_data.js\n", e.Station)
				case e.Err != nil:
					fmt.Printf("%-12s: ERROR: %v\n", e.Station, e.Err)
				case e.Count == 0:
					fmt.Printf("%-12s: 0 entries | Downloaded: %s\n", e.Station, orUnknown(e.Downloaded))
				default:
					fmt.Printf("%-12s: %d entries | Latest: %s | Age: %s | Downloaded: %s\n",
						e.Station, e.Count, e.LatestRaw,
						freshness.FormatAge(e.Age), orUnknown(e.Downloaded))
				}
			}
			return nil
		},
	}
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
