// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/analytics-scout/internal/service"
	"github.com/pdiddy/analytics-scout/pkg/types"
)

// emit prints a result. With --json the whole data value is encoded;
// otherwise text data is printed as is and structured data goes through
// table, when one is given.
func emit(cmd *cobra.Command, res service.Result, table func(io.Writer, any)) error {
	if !res.OK {
		return errors.New(res.Error)
	}
	w := cmd.OutOrStdout()
	if s, ok := res.Data.(string); ok {
		fmt.Fprint(w, s)
		if !strings.HasSuffix(s, "\n") {
			fmt.Fprintln(w)
		}
		return nil
	}
	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput || table == nil {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res.Data)
	}
	table(w, res.Data)
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

func writeEvents(w io.Writer, events []types.Candidate) {
	if len(events) == 0 {
		fmt.Fprintln(w, "No events found.")
		return
	}
	fmt.Fprintf(w, "%-40s  %-12s  %-30s  %s\n", "Event", "Class", "Properties", "Location")
	fmt.Fprintln(w, strings.Repeat("-", 110))
	for _, e := range events {
		fmt.Fprintf(w, "%-40s  %-12s  %-30s  %s:%d\n",
			truncate(e.Name, 40),
			e.Classification(),
			truncate(strings.Join(e.PropertyKeys(), ","), 30),
			e.Location.File, e.Location.Line)
	}
}

func writeQuality(w io.Writer, q types.QualityReport) {
	fmt.Fprintf(w, "\nQuality score: %d/100\n", q.Score)
	for _, i := range q.Issues {
		fmt.Fprintf(w, "  issue:      %s\n", i)
	}
	for _, s := range q.Suggestions {
		fmt.Fprintf(w, "  suggestion: %s\n", s)
	}
}

// readEvents loads an event list from a YAML or JSON file. The file holds
// either a list of {name, properties} objects or an object with an
// "events" key.
func readEvents(path string) ([]types.EventInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading events file: %w", err)
	}
	return parseEvents(data)
}
