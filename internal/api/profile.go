package api

import (
	"context"
	"fmt"
	"net/url"
)

// Me returns the session owner's identity. The backend wraps it in the
// standard envelope.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var user User
	if err := c.getJSON(ctx, "me", "/session/my", &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Profile fetches another user's public profile by nickname.
func (c *Client) Profile(ctx context.Context, nickname string) (*Profile, error) {
	var p Profile
	path := "/session/Profile/" + url.PathEscape(nickname)
	if err := c.getJSON(ctx, "profile", path, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// UserInfo returns the full dashboard payload for the session owner.
func (c *Client) UserInfo(ctx context.Context) (*Profile, error) {
	var p Profile
	if err := c.getJSON(ctx, "user_info", "/user", &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// BiasStats returns the viewing-bias distribution for a period.
// Valid periods are "7", "30", "90", "180" and "Y".
func (c *Client) BiasStats(ctx context.Context, period string) ([]BiasSlice, error) {
	var slices []BiasSlice
	path := fmt.Sprintf("/bias?period=%s", url.QueryEscape(period))
	if err := c.getJSON(ctx, "bias_stats", path, &slices); err != nil {
		return nil, err
	}
	return slices, nil
}

// WatchTime returns watch-time buckets for a tab: "day", "week" or "month".
func (c *Client) WatchTime(ctx context.Context, tab string) ([]WatchPoint, error) {
	var points []WatchPoint
	path := fmt.Sprintf("/watchTime?tab=%s", url.QueryEscape(tab))
	if err := c.getJSON(ctx, "watch_time", path, &points); err != nil {
		return nil, err
	}
	return points, nil
}
