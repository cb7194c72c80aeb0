// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/pdiddy/analytics-scout/internal/scan"
	"github.com/pdiddy/analytics-scout/internal/service"
)

var fileCmd = &cobra.Command{
	Use:   "file <owner/repo> <path>",
	Short: "Extract analytics events from one file",
	Args:  cobra.ExactArgs(2),
	RunE:  runFile,
}

func init() {
	fileCmd.Flags().String("ref", "", "branch, tag or commit (default HEAD)")
	rootCmd.AddCommand(fileCmd)
}

func runFile(cmd *cobra.Command, args []string) error {
	owner, repo, err := parseRepo(args[0])
	if err != nil {
		return err
	}
	ref, _ := cmd.Flags().GetString("ref")

	a, err := newApp(cmd, nil)
	if err != nil {
		return err
	}
	defer a.close()

	res := a.svc.AnalyzeFile(cmd.Context(), service.AnalyzeFileInput{
		Owner: owner, Repo: repo, Path: args[1], Ref: ref,
	})
	return emit(cmd, res, func(w io.Writer, data any) {
		fr, ok := data.(scan.FileResult)
		if !ok {
			return
		}
		fmt.Fprintf(w, "%s %s@%s\n\n", fr.Repository, fr.Path, fr.Ref)
		writeEvents(w, fr.Events)
		writeQuality(w, fr.Quality)
	})
}
