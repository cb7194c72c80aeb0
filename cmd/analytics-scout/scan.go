// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/pdiddy/analytics-scout/internal/scan"
	"github.com/pdiddy/analytics-scout/internal/service"
)

var scanCmd = &cobra.Command{
	Use:   "scan <owner/repo>",
	Short: "Scan a repository for analytics events",
	Long: `Scan lists the repository tree, filters it by the include and exclude
patterns, fetches matching files in batches and extracts event candidates.
Files that fail to fetch are reported and do not stop the scan.`,
	Args: cobra.ExactArgs(1),
	RunE: runScan,
}

func init() {
	addScanFlags(scanCmd)
	rootCmd.AddCommand(scanCmd)
}

func addScanFlags(cmd *cobra.Command) {
	cmd.Flags().String("ref", "", "branch, tag or commit (default HEAD)")
	cmd.Flags().StringSlice("include", nil, "include globs (default: configured scan.include)")
	cmd.Flags().StringSlice("exclude", nil, "exclude substrings (default: configured scan.exclude)")
}

func scanInput(cmd *cobra.Command, arg string) (service.ScanRepositoryInput, error) {
	owner, repo, err := parseRepo(arg)
	if err != nil {
		return service.ScanRepositoryInput{}, err
	}
	ref, _ := cmd.Flags().GetString("ref")
	include, _ := cmd.Flags().GetStringSlice("include")
	exclude, _ := cmd.Flags().GetStringSlice("exclude")
	return service.ScanRepositoryInput{
		Owner:           owner,
		Repo:            repo,
		Ref:             ref,
		IncludePatterns: include,
		ExcludePatterns: exclude,
	}, nil
}

func runScan(cmd *cobra.Command, args []string) error {
	in, err := scanInput(cmd, args[0])
	if err != nil {
		return err
	}
	a, err := newApp(cmd, nil)
	if err != nil {
		return err
	}
	defer a.close()

	return emit(cmd, a.svc.ScanRepository(cmd.Context(), in), writeScan)
}

func writeScan(w io.Writer, data any) {
	res, ok := data.(scan.Result)
	if !ok {
		return
	}
	fmt.Fprintf(w, "%s@%s: %d files, %d processed, %d failed\n\n",
		res.Repository, res.Ref, res.TotalFiles, len(res.ProcessedFiles), len(res.ErrorFiles))
	writeEvents(w, res.Events)
	for _, fe := range res.ErrorFiles {
		fmt.Fprintf(w, "  failed: %s: %s\n", fe.Path, fe.Error)
	}
	writeQuality(w, res.Quality)
}
