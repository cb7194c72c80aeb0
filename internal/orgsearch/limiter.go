// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package orgsearch

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Limiter paces the targeted scan. Wait is called before every fetch batch
// and blocks until the batch may start.
type Limiter interface {
	Wait(ctx context.Context) error
}

// NewLimiter allows one batch per interval. A non-positive interval never
// blocks.
func NewLimiter(interval time.Duration) *rate.Limiter {
	if interval <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(interval), 1)
}
