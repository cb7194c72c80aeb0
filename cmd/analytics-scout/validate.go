// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/pdiddy/analytics-scout/internal/service"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check event names and properties against naming conventions",
	Long: `validate reads events from a YAML or JSON file and scores them. The file
holds either a list of {name, properties} objects or an object with an
"events" key. No GitHub access is needed.`,
	Args: cobra.NoArgs,
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().String("events", "", "events file (YAML or JSON)")
	validateCmd.MarkFlagRequired("events")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("events")
	events, err := readEvents(path)
	if err != nil {
		return err
	}

	svc := offlineService()
	res := svc.ValidateEvents(cmd.Context(), service.EventsInput{Events: events})
	return emit(cmd, res, func(w io.Writer, data any) {
		v, ok := data.(service.Validation)
		if !ok {
			return
		}
		fmt.Fprintf(w, "%-40s  %5s  %s\n", "Event", "Score", "Issues")
		for _, e := range v.Events {
			fmt.Fprintf(w, "%-40s  %5d  %d\n", truncate(e.Name, 40), e.Report.Score, len(e.Report.Issues))
		}
		fmt.Fprintf(w, "\n%d events", v.Total)
		writeQuality(w, v.Quality)
	})
}
