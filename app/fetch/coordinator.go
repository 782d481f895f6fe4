package fetch

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

// Coordinator drains a queue of feed URLs with a bounded pool of workers.
// Each feed fails or succeeds on its own; the batch carries on either way.
type Coordinator struct {
	fetcher     *Fetcher
	concurrency int
}

// NewCoordinator creates a coordinator running at most concurrency parallel
// fetches.
func NewCoordinator(fetcher *Fetcher, concurrency int) *Coordinator {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Coordinator{
		fetcher:     fetcher,
		concurrency: concurrency,
	}
}

// Run fetches every URL and returns once all workers have drained the queue.
// Per-feed failures are logged and swallowed; only a storage failure aborts
// the run, cancelling the workers and surfacing the error.
func (c *Coordinator) Run(ctx context.Context, feedURLs []string) error {
	if len(feedURLs) == 0 {
		return nil
	}

	queue := make(chan string, len(feedURLs))
	for _, url := range feedURLs {
		queue <- url
	}
	close(queue)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg    sync.WaitGroup
		once  sync.Once
		fatal error
	)

	workers := min(c.concurrency, len(feedURLs))
	slog.Debug("Starting fetch workers", "workers", workers, "feeds", len(feedURLs))

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()

			for {
				select {
				case <-ctx.Done():
					return
				case url, ok := <-queue:
					if !ok {
						return
					}

					err := c.fetcher.Run(ctx, url)
					switch {
					case err == nil:
					case errors.Is(err, ErrNotModified):
						slog.Info("Feed not modified", "worker_id", workerID, "url", url)
					case isFeedError(err):
						slog.Warn("Failed to fetch feed", "worker_id", workerID, "error", err)
					default:
						once.Do(func() {
							fatal = err
							cancel()
						})
						return
					}
				}
			}
		}(i)
	}

	wg.Wait()
	return fatal
}

func isFeedError(err error) bool {
	var feedErr *FeedError
	return errors.As(err, &feedErr)
}
