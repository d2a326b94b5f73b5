package imagehost

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"sportsync/internal/middleware"

	"github.com/cenkalti/backoff/v5"
)

// Cleaner removes hosted images ahead of record deletes. Attempts bounds the
// Destroy calls; a strict cleaner reports the final failure to the caller.
type Cleaner struct {
	Host     ImageHost
	Attempts int
	Strict   bool

	newBackOff func() backoff.BackOff
}

// NewCleaner builds a cleaner with exponential backoff between attempts.
func NewCleaner(host ImageHost, attempts int, strict bool) *Cleaner {
	if attempts < 1 {
		attempts = 1
	}
	return &Cleaner{
		Host:     host,
		Attempts: attempts,
		Strict:   strict,
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 200 * time.Millisecond
			b.MaxInterval = 2 * time.Second
			return b
		},
	}
}

// Cleanup destroys the image at url. An empty url is a no-op.
func (c *Cleaner) Cleanup(ctx context.Context, url string) error {
	if url == "" {
		return nil
	}

	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		return struct{}{}, c.Host.Destroy(ctx, url)
	},
		backoff.WithBackOff(c.newBackOff()),
		backoff.WithMaxTries(uint(c.Attempts)),
	)
	if err == nil {
		return nil
	}
	if c.Strict {
		return fmt.Errorf("image cleanup failed after %d attempt(s): %w", c.Attempts, err)
	}
	middleware.Logger.WarnContext(ctx, "Image cleanup failed, continuing with record delete",
		slog.String("url", url),
		slog.Int("attempts", c.Attempts),
		slog.String("error", err.Error()),
	)
	return nil
}
