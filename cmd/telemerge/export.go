package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
)

func newExportCmd() *cobra.Command {
	var station string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Print a station's merged records as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := loadMerged(station)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(os.Stdout)
			return enc.Encode(res.Records)
		},
	}

	cmd.Flags().StringVar(&station, "station", "", "station name")
	cmd.MarkFlagRequired("station")
	return cmd
}
