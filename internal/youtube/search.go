package youtube

import (
	"context"
	"errors"
	"net/url"
	"strconv"

	"github.com/jonesrussell/kidscout/internal/domain"
	"github.com/jonesrussell/kidscout/internal/logger"
)

// maxPageSize is the API's cap on results per search call.
const maxPageSize = 50

// searchResponse is the subset of the search payload the pipeline reads.
type searchResponse struct {
	Items []struct {
		Snippet struct {
			ChannelID string `json:"channelId"`
		} `json:"snippet"`
	} `json:"items"`
	NextPageToken string `json:"nextPageToken"`
}

// SearchChannels returns up to maxResults channel identifiers for the query,
// paginating until the cap is reached or the result set is exhausted.
//
// Transport errors and non-success statuses end pagination and return the
// identifiers collected so far with a nil error. Quota exhaustion also
// returns partial results, but with an error wrapping
// domain.ErrQuotaExceeded so the caller can stop issuing further searches.
func (c *Client) SearchChannels(ctx context.Context, query string, maxResults int) ([]string, error) {
	ids := make([]string, 0, maxResults)
	pageToken := ""

	for len(ids) < maxResults {
		pageSize := maxPageSize
		if remaining := maxResults - len(ids); remaining < pageSize {
			pageSize = remaining
		}

		params := url.Values{}
		params.Set("part", "snippet")
		params.Set("type", "channel")
		params.Set("q", query)
		params.Set("maxResults", strconv.Itoa(pageSize))
		if pageToken != "" {
			params.Set("pageToken", pageToken)
		}

		var page searchResponse
		if err := c.get(ctx, "/search", params, &page); err != nil {
			if errors.Is(err, domain.ErrQuotaExceeded) {
				c.logger.Warn("search quota exhausted",
					logger.String("query", query),
					logger.Int("collected", len(ids)),
				)
				return ids, err
			}
			if ctx.Err() != nil {
				return ids, ctx.Err()
			}
			c.logger.Warn("search page failed, keeping partial results",
				logger.String("query", query),
				logger.Int("collected", len(ids)),
				logger.Error(err),
			)
			return ids, nil
		}

		for _, item := range page.Items {
			if item.Snippet.ChannelID == "" {
				continue
			}
			if len(ids) >= maxResults {
				break
			}
			ids = append(ids, item.Snippet.ChannelID)
		}

		if page.NextPageToken == "" {
			break
		}
		pageToken = page.NextPageToken
	}

	c.logger.Debug("channel search complete",
		logger.String("query", query),
		logger.Int("found", len(ids)),
	)

	return ids, nil
}
