// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pdiddy/analytics-scout/internal/scan"
	"github.com/pdiddy/analytics-scout/internal/service"
)

var prCmd = &cobra.Command{
	Use:   "pr <owner/repo> <number>",
	Short: "Extract the analytics events a pull request adds",
	Long: `pr reads the changed files of a pull request and reports the event
candidates that appear on added lines. Files without a patch (binary or too
large) are listed as skipped.`,
	Args: cobra.ExactArgs(2),
	RunE: runPR,
}

func init() {
	rootCmd.AddCommand(prCmd)
}

func runPR(cmd *cobra.Command, args []string) error {
	owner, repo, err := parseRepo(args[0])
	if err != nil {
		return err
	}
	number, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid pull request number %q", args[1])
	}

	a, err := newApp(cmd, nil)
	if err != nil {
		return err
	}
	defer a.close()

	res := a.svc.AnalyzePullRequest(cmd.Context(), service.AnalyzePullRequestInput{
		Owner: owner, Repo: repo, PullNumber: number,
	})
	return emit(cmd, res, func(w io.Writer, data any) {
		pr, ok := data.(scan.PullRequestResult)
		if !ok {
			return
		}
		fmt.Fprintf(w, "%s#%d: %d files changed\n\n", pr.Repository, pr.Number, len(pr.Files))
		writeEvents(w, pr.Events)
		for _, s := range pr.Skipped {
			fmt.Fprintf(w, "  skipped: %s: %s\n", s.Path, s.Error)
		}
		writeQuality(w, pr.Quality)
	})
}
