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

var orgSearchCmd = &cobra.Command{
	Use:   "org-search",
	Short: "Find an analytics event across an organization",
	Long: `org-search looks for one event name across every repository of an
organization. It first asks GitHub code search for the exact quoted name
and confirms the hits by scanning the most likely files of each repository.
When nothing is confirmed it returns guidance: name tokens, suggested
queries and the repositories most worth scanning by hand.`,
	Args: cobra.NoArgs,
	RunE: runOrgSearch,
}

func init() {
	orgSearchCmd.Flags().String("org", "", "organization login")
	orgSearchCmd.Flags().String("event", "", "event name to search for")
	orgSearchCmd.Flags().String("ref", "", "preferred branch")
	orgSearchCmd.Flags().Int("max-repos", 0, "repositories to scan (default: configured org_search.max_repos)")
	orgSearchCmd.Flags().StringSlice("include", nil, "include globs")
	orgSearchCmd.Flags().StringSlice("exclude", nil, "exclude substrings")
	orgSearchCmd.MarkFlagRequired("org")
	orgSearchCmd.MarkFlagRequired("event")
	rootCmd.AddCommand(orgSearchCmd)
}

func runOrgSearch(cmd *cobra.Command, args []string) error {
	org, _ := cmd.Flags().GetString("org")
	event, _ := cmd.Flags().GetString("event")
	ref, _ := cmd.Flags().GetString("ref")
	maxRepos, _ := cmd.Flags().GetInt("max-repos")
	include, _ := cmd.Flags().GetStringSlice("include")
	exclude, _ := cmd.Flags().GetStringSlice("exclude")

	a, err := newApp(cmd, nil)
	if err != nil {
		return err
	}
	defer a.close()

	res := a.svc.SearchOrgEvent(cmd.Context(), service.SearchOrgEventInput{
		Org:             org,
		EventName:       event,
		Ref:             ref,
		IncludePatterns: include,
		ExcludePatterns: exclude,
		MaxRepos:        maxRepos,
	})
	return emit(cmd, res, writeSearch)
}

func writeSearch(w io.Writer, data any) {
	res, ok := data.(types.SearchResult)
	if !ok {
		return
	}
	fmt.Fprintf(w, "%q in %s: %s, %d matches\n\n", res.EventName, res.Org, res.Phase, res.TotalMatches)

	for _, r := range res.Repositories {
		fmt.Fprintf(w, "%s (%s, %d files scanned, %d matches)\n", r.Repository, r.Branch, r.FilesScanned, len(r.Matches))
		for _, m := range r.Matches {
			fmt.Fprintf(w, "  %s:%d  %s\n", m.Location.File, m.Location.Line, strings.Join(m.PropertyKeys(), ","))
		}
		for _, f := range r.FailedFiles {
			fmt.Fprintf(w, "  failed: %s: %s\n", f.Path, f.Error)
		}
	}
	for _, e := range res.Errors {
		fmt.Fprintf(w, "  error: %s: %s\n", e.Repository, e.Message)
	}

	if a := res.Analysis; a != nil && a.TotalOccurrences > 0 {
		fmt.Fprintf(w, "\nSignatures:\n")
		for _, s := range a.Signatures {
			fmt.Fprintf(w, "  %3d  [%s]  %s\n", s.Count, strings.Join(s.Keys, ","), strings.Join(s.Repositories, ","))
		}
		for _, inc := range a.Inconsistencies {
			fmt.Fprintf(w, "  inconsistent keys: %s\n", strings.Join(inc.Variants, ", "))
		}
		for _, r := range a.Recommendations {
			fmt.Fprintf(w, "  recommendation: %s\n", r)
		}
	}

	if g := res.Guidance; g != nil {
		fmt.Fprintf(w, "%s\n\nTokens: %s\n", g.Message, strings.Join(g.Tokens, ", "))
		fmt.Fprintln(w, "Suggested queries:")
		for _, q := range g.SuggestedQueries {
			fmt.Fprintf(w, "  %s\n", q)
		}
		writeRepoList(w, "Repositories matching tokens", g.TokenSearchRepos)
		writeRepoList(w, "Full scan candidates", g.FullScanRepos)
		writeRepoList(w, "Recently updated", g.RecentRepos)
	}
}

func writeRepoList(w io.Writer, heading string, repos []types.Repository) {
	if len(repos) == 0 {
		return
	}
	fmt.Fprintf(w, "%s:\n", heading)
	for _, r := range repos {
		fmt.Fprintf(w, "  %s\n", r.Name)
	}
}
