package youtube

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/jonesrussell/kidscout/internal/domain"
)

// channelsResponse is the subset of the channels payload the pipeline reads.
// Statistics counts arrive as decimal strings.
type channelsResponse struct {
	Items []struct {
		ID      string `json:"id"`
		Snippet struct {
			Title       string `json:"title"`
			Description string `json:"description"`
		} `json:"snippet"`
		BrandingSettings struct {
			Channel struct {
				Description string `json:"description"`
			} `json:"channel"`
		} `json:"brandingSettings"`
		Statistics struct {
			SubscriberCount string `json:"subscriberCount"`
			VideoCount      string `json:"videoCount"`
		} `json:"statistics"`
	} `json:"items"`
}

// ChannelDetails fetches the metadata needed to classify one channel.
// An empty upstream result set yields domain.ErrChannelNotFound; callers
// skip, not retry.
func (c *Client) ChannelDetails(ctx context.Context, channelID string) (*domain.ChannelCandidate, error) {
	params := url.Values{}
	params.Set("part", "snippet,brandingSettings,statistics")
	params.Set("id", channelID)

	var resp channelsResponse
	if err := c.get(ctx, "/channels", params, &resp); err != nil {
		return nil, fmt.Errorf("fetch channel %s: %w", channelID, err)
	}

	if len(resp.Items) == 0 {
		return nil, fmt.Errorf("channel %s: %w", channelID, domain.ErrChannelNotFound)
	}

	item := resp.Items[0]
	return &domain.ChannelCandidate{
		ID:                  channelID,
		Title:               item.Snippet.Title,
		Description:         item.Snippet.Description,
		BrandingDescription: item.BrandingSettings.Channel.Description,
		SubscriberCount:     parseCount(item.Statistics.SubscriberCount),
		VideoCount:          parseCount(item.Statistics.VideoCount),
	}, nil
}

// parseCount parses an API count string leniently; hidden or malformed
// counts become zero.
func parseCount(s string) int64 {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return n
}
