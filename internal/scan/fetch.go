// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scan

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/analytics-scout/internal/codehost"
)

// File is the outcome of fetching one path.
type File struct {
	Path    string
	Content []byte
	Err     error
}

// FetchBatch fetches every path concurrently and returns once all fetches
// have settled. Outcomes are returned in input order; a failed fetch is
// reported in its File and never cancels its siblings.
func FetchBatch(ctx context.Context, host codehost.Host, owner, repo, ref string, paths []string) []File {
	out := make([]File, len(paths))
	var g errgroup.Group
	for i, p := range paths {
		g.Go(func() error {
			content, err := host.Content(ctx, owner, repo, p, ref)
			out[i] = File{Path: p, Content: content, Err: err}
			return nil
		})
	}
	_ = g.Wait()
	return out
}

// Batches splits paths into consecutive chunks of at most size.
func Batches(paths []string, size int) [][]string {
	if size <= 0 {
		size = 1
	}
	var out [][]string
	for start := 0; start < len(paths); start += size {
		end := min(start+size, len(paths))
		out = append(out, paths[start:end])
	}
	return out
}
