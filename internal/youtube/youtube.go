package youtube

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	yt "google.golang.org/api/youtube/v3"

	"newsbalance/internal/api"
	"newsbalance/internal/bias"
)

const maxSearchResults = 30

// Client wraps the YouTube Data API for direct video search when the user
// supplies their own API key.
type Client struct {
	service *yt.Service
}

// New creates a YouTube client with the given API key.
func New(ctx context.Context, apiKey string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("youtube api key not set")
	}
	service, err := yt.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create youtube service: %w", err)
	}
	return &Client{service: service}, nil
}

// Search finds up to 30 videos for a query. The returned Videos carry no
// backend bias score; the title heuristic fills one in so the three-column
// layout still works.
func (c *Client) Search(ctx context.Context, query string) ([]api.Video, error) {
	call := c.service.Search.List([]string{"snippet"}).
		Q(query).
		Type("video").
		MaxResults(maxSearchResults).
		Context(ctx)

	resp, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("youtube search failed: %w", err)
	}

	videos := make([]api.Video, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.Id == nil || item.Id.VideoId == "" {
			continue
		}
		videos = append(videos, api.Video{
			ID:        item.Id.VideoId,
			Title:     item.Snippet.Title,
			VideoURL:  fmt.Sprintf("https://www.youtube.com/watch?v=%s", item.Id.VideoId),
			BiasScore: scoreFor(bias.ClassifyTitle(item.Snippet.Title)),
		})
	}
	return videos, nil
}

// Stats holds the metadata shown on the video detail page.
type Stats struct {
	PublishedAt  string
	ViewCount    uint64
	LikeCount    uint64
	CommentCount uint64
}

// VideoStats fetches snippet and statistics for one video.
func (c *Client) VideoStats(ctx context.Context, videoID string) (*Stats, error) {
	call := c.service.Videos.List([]string{"snippet", "statistics"}).
		Id(videoID).
		Context(ctx)

	resp, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("youtube videos lookup failed: %w", err)
	}
	if len(resp.Items) == 0 {
		return nil, fmt.Errorf("video %s not found", videoID)
	}

	item := resp.Items[0]
	stats := &Stats{}
	if item.Snippet != nil {
		stats.PublishedAt = item.Snippet.PublishedAt
	}
	if item.Statistics != nil {
		stats.ViewCount = item.Statistics.ViewCount
		stats.LikeCount = item.Statistics.LikeCount
		stats.CommentCount = item.Statistics.CommentCount
	}
	return stats, nil
}

// Thumbnail returns the hqdefault thumbnail URL for a video ID.
func Thumbnail(videoID string) string {
	return fmt.Sprintf("https://img.youtube.com/vi/%s/hqdefault.jpg", videoID)
}

// scoreFor maps a heuristic label back to a representative score so
// FromScore round-trips to the same bucket.
func scoreFor(label bias.Label) float64 {
	switch label {
	case bias.Left:
		return -0.5
	case bias.Right:
		return 0.5
	default:
		return 0
	}
}
