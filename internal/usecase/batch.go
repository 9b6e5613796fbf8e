package usecase

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/earlybirddelivery/EARLYAPP-sub001/internal/domain"
)

const defaultBatchConcurrency = 4

// MatchAll matches every item against the shared catalog, running up to
// concurrency matches at once. Results keep the order of items. The only
// error is the context's.
func MatchAll(
	ctx context.Context,
	matcher domain.CatalogMatchingService,
	items []domain.ExtractedItem,
	catalog []domain.CatalogEntry,
	threshold float64,
	concurrency int,
) ([]domain.MatchResult, error) {
	if concurrency <= 0 {
		concurrency = defaultBatchConcurrency
	}

	results := make([]domain.MatchResult, len(items))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(concurrency)

	for i := range items {
		if err := egCtx.Err(); err != nil {
			break
		}
		eg.Go(func() error {
			select {
			case <-egCtx.Done():
				return egCtx.Err()
			default:
			}
			results[i] = matcher.Match(items[i], catalog, threshold)
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	// A cancellation seen by the loop but by no worker still aborts the batch
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
