package api

import (
	"context"
	"fmt"
	"net/url"
)

// FactCheck asks the backend to evaluate one debate message's claims.
func (c *Client) FactCheck(ctx context.Context, roomID int64, sender, content string) (*FactCheckResult, error) {
	payload := map[string]any{
		"roomId":  roomID,
		"sender":  sender,
		"content": content,
	}
	var result FactCheckResult
	if err := c.postJSON(ctx, "fact_check", "/api/fact-check", payload, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// DebateSummary requests an AI wrap-up of a finished debate transcript.
func (c *Client) DebateSummary(ctx context.Context, roomID int64, messages string) (*DebateSummary, error) {
	payload := map[string]any{
		"roomId":   roomID,
		"messages": messages,
	}
	var summary DebateSummary
	if err := c.postJSON(ctx, "debate_summary", "/api/debate/summary", payload, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

// SearchTitles searches bias-scored news videos by title keyword. Cached
// briefly like SearchRooms.
func (c *Client) SearchTitles(ctx context.Context, query string) ([]Video, error) {
	key := searchCacheKey("titles", query)
	if cached, ok := c.searchCache.Get(key); ok {
		if videos, ok := cached.([]Video); ok {
			return videos, nil
		}
	}

	var videos []Video
	path := fmt.Sprintf("/search/info?query=%s", url.QueryEscape(query))
	if err := c.getJSON(ctx, "search_titles", path, &videos); err != nil {
		return nil, err
	}

	c.searchCache.Put(key, videos)
	return videos, nil
}

// Summaries returns the scored summary sentences for a video's transcript.
func (c *Client) Summaries(ctx context.Context, videoURL string) ([]SummarySentence, error) {
	var sentences []SummarySentence
	path := fmt.Sprintf("/search/summaries?videoUrl=%s", url.QueryEscape(videoURL))
	if err := c.getJSON(ctx, "summaries", path, &sentences); err != nil {
		return nil, err
	}
	return sentences, nil
}

// AnalyzeTranscript runs the transcript-based bias classification.
func (c *Client) AnalyzeTranscript(ctx context.Context, videoID string) (*TranscriptAnalysis, error) {
	payload := map[string]string{"videoId": videoID}
	var analysis TranscriptAnalysis
	if err := c.postJSON(ctx, "analyze_transcript", "/analyzeTranscript", payload, &analysis); err != nil {
		return nil, err
	}
	return &analysis, nil
}

// AnalyzeURL submits an arbitrary article or video URL for ad-hoc analysis
// and returns the backend's raw result object.
func (c *Client) AnalyzeURL(ctx context.Context, target string) (map[string]any, error) {
	payload := map[string]string{"url": target}
	var result map[string]any
	if err := c.postJSON(ctx, "analyze_url", "/api/debug/getdata", payload, &result); err != nil {
		return nil, err
	}
	return result, nil
}
