// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package codehost defines the code-hosting capability the scanner and the
// organization search consume. internal/github implements it against the
// GitHub REST API; internal/cache decorates any implementation.
package codehost

import (
	"context"
	"errors"

	"github.com/pdiddy/analytics-scout/pkg/types"
)

// ErrNotFound is returned when a repository, ref, path or pull request does
// not exist or is not visible with the configured credentials.
var ErrNotFound = errors.New("not found")

// Host lists, fetches and searches repository content.
type Host interface {
	// Tree lists the file paths of owner/repo at ref.
	Tree(ctx context.Context, owner, repo, ref string) ([]string, error)

	// Content returns the raw bytes of one file at ref.
	Content(ctx context.Context, owner, repo, path, ref string) ([]byte, error)

	// SearchCode runs a code search query.
	SearchCode(ctx context.Context, query string) ([]types.CodeSearchHit, error)

	// OrgRepos lists the repositories of an organization.
	OrgRepos(ctx context.Context, org string) ([]types.Repository, error)

	// PullRequestFiles lists the files changed by a pull request.
	PullRequestFiles(ctx context.Context, owner, repo string, number int) ([]types.ChangedFile, error)
}
