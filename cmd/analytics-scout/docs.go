// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/analytics-scout/internal/service"
)

var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "Generate Markdown documentation for a list of events",
	Args:  cobra.NoArgs,
	RunE:  runDocs,
}

func init() {
	docsCmd.Flags().String("events", "", "events file (YAML or JSON)")
	docsCmd.Flags().String("title", "", "document title")
	docsCmd.Flags().StringP("output", "o", "", "write to file instead of stdout")
	docsCmd.MarkFlagRequired("events")
	rootCmd.AddCommand(docsCmd)
}

func runDocs(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("events")
	title, _ := cmd.Flags().GetString("title")
	output, _ := cmd.Flags().GetString("output")

	events, err := readEvents(path)
	if err != nil {
		return err
	}

	svc := offlineService()
	res := svc.GenerateDocumentation(cmd.Context(), service.EventsInput{Events: events, Title: title})
	if output == "" {
		return emit(cmd, res, nil)
	}
	if !res.OK {
		return errors.New(res.Error)
	}
	md, _ := res.Data.(string)
	if err := os.WriteFile(output, []byte(md), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", output, err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s (%d events)\n", output, len(events))
	return nil
}
