// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/analytics-scout/internal/service"
	"github.com/pdiddy/analytics-scout/pkg/types"
)

var planCmd = &cobra.Command{
	Use:   "plan <owner/repo>",
	Short: "Export a repository's tracking plan",
	Long: `plan scans a repository and prints one entry per event name with its
dominant classification, occurrence count, property keys and files.`,
	Args: cobra.ExactArgs(1),
	RunE: runPlan,
}

func init() {
	addScanFlags(planCmd)
	planCmd.Flags().String("format", service.FormatJSON, "output format: json or yaml")
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	scanIn, err := scanInput(cmd, args[0])
	if err != nil {
		return err
	}
	format, _ := cmd.Flags().GetString("format")

	a, err := newApp(cmd, nil)
	if err != nil {
		return err
	}
	defer a.close()

	res := a.svc.ExportTrackingPlan(cmd.Context(), service.ExportTrackingPlanInput{
		ScanRepositoryInput: scanIn,
		Format:              format,
	})
	// YAML comes back as text; JSON plans render as a table unless --json.
	return emit(cmd, res, writePlan)
}

func writePlan(w io.Writer, data any) {
	plan, ok := data.(types.TrackingPlan)
	if !ok {
		return
	}
	fmt.Fprintf(w, "%s@%s\n\n", plan.Repository, plan.Ref)
	fmt.Fprintf(w, "%-40s  %-12s  %5s  %s\n", "Event", "Class", "Count", "Properties")
	fmt.Fprintln(w, strings.Repeat("-", 100))
	for _, e := range plan.Events {
		fmt.Fprintf(w, "%-40s  %-12s  %5d  %s\n", truncate(e.Name, 40), e.Classification, e.Occurrences, strings.Join(e.Properties, ","))
	}
	writeQuality(w, plan.Quality)
}
