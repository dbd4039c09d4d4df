package main

import (
	"github.com/spf13/cobra"

	"github.com/luki/telemerge/internal/viewer"
)

func newViewCmd() *cobra.Command {
	var station string

	cmd := &cobra.Command{
		Use:   "view",
		Short: "Browse merged station data interactively",
		RunE: func(cmd *cobra.Command, args []string) error {
			return viewer.Run(cfg, station)
		},
	}

	cmd.Flags().StringVar(&station, "station", "", "initial station (default: first configured)")
	return cmd
}
