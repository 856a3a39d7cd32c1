package processor

import (
	"context"
	"errors"
	"time"

	"github.com/jonesrussell/kidscout/internal/domain"
	"github.com/jonesrussell/kidscout/internal/logger"
)

// processBatch fetches and classifies one batch of identifiers, returning
// the number analyzed and the channels that met the persistence threshold.
// A failed fetch for one identifier never blocks the rest of the batch.
func (r *Runner) processBatch(ctx context.Context, ids []string, cfg *domain.RunConfig) (int, []domain.AnalyzedChannel) {
	analyzed := 0
	var kept []domain.AnalyzedChannel

	for _, id := range ids {
		if ctx.Err() != nil {
			break
		}
		if err := r.fetches.Wait(ctx); err != nil {
			break
		}

		candidate, err := r.fetcher.ChannelDetails(ctx, id)
		if err != nil {
			analyzed++
			if errors.Is(err, domain.ErrChannelNotFound) {
				r.logger.Debug("channel not found, skipping", logger.String("channel_id", id))
			} else {
				r.logger.Warn("channel fetch failed, skipping",
					logger.String("channel_id", id),
					logger.Error(err),
				)
			}
			continue
		}

		analyzed++
		result := r.classifier.Classify(candidate.Text())

		r.logger.Debug("channel classified",
			logger.String("channel_id", id),
			logger.Int("score", result.Score),
			logger.Bool("likely_kids", result.IsKidsContent),
		)

		if result.Score < cfg.MinKidsScore {
			continue
		}

		kept = append(kept, domain.AnalyzedChannel{
			ID:              id,
			Title:           candidate.Title,
			URL:             domain.ChannelURL(id),
			SubscriberCount: candidate.SubscriberCount,
			VideoCount:      candidate.VideoCount,
			Score:           result.Score,
			MatchedKeywords: result.MatchedKeywords,
			IsKidsContent:   result.IsKidsContent,
			AnalyzedAt:      time.Now(),
		})
	}

	return analyzed, kept
}

// subtract removes identifiers already present in the existing set,
// preserving order.
func subtract(ids []string, existing map[string]struct{}) []string {
	fresh := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := existing[id]; ok {
			continue
		}
		fresh = append(fresh, id)
	}
	return fresh
}

// partition splits identifiers into fixed-size batches, preserving order.
func partition(ids []string, size int) [][]string {
	if len(ids) == 0 {
		return nil
	}

	batches := make([][]string, 0, (len(ids)+size-1)/size)
	for start := 0; start < len(ids); start += size {
		end := start + size
		if end > len(ids) {
			end = len(ids)
		}
		batches = append(batches, ids[start:end])
	}
	return batches
}
