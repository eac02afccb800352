package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
)

// Rooms lists every debate room.
func (c *Client) Rooms(ctx context.Context) ([]Room, error) {
	var rooms []Room
	if err := c.getJSON(ctx, "rooms", "/api/debate-rooms", &rooms); err != nil {
		return nil, err
	}
	return rooms, nil
}

// HotRooms lists the currently popular rooms.
func (c *Client) HotRooms(ctx context.Context) ([]Room, error) {
	var rooms []Room
	if err := c.getJSON(ctx, "hot_rooms", "/api/debate-rooms/hot", &rooms); err != nil {
		return nil, err
	}
	return rooms, nil
}

// SearchRooms searches rooms by keyword. A 404 means no matches and
// returns an empty slice, not an error. Results are cached briefly so
// repeated identical searches skip the network.
func (c *Client) SearchRooms(ctx context.Context, q string) ([]Room, error) {
	key := searchCacheKey("rooms", q)
	if cached, ok := c.searchCache.Get(key); ok {
		if rooms, ok := cached.([]Room); ok {
			return rooms, nil
		}
	}

	var rooms []Room
	path := fmt.Sprintf("/api/debate-rooms/search?q=%s", url.QueryEscape(q))
	if err := c.getJSON(ctx, "search_rooms", path, &rooms); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
			return []Room{}, nil
		}
		return nil, err
	}

	c.searchCache.Put(key, rooms)
	return rooms, nil
}

// CreateRoom creates a debate room and returns it. Keywords beyond the
// first five are ignored by the backend.
func (c *Client) CreateRoom(ctx context.Context, title, topic string, keywords []string) (*RoomDetail, error) {
	payload := map[string]any{
		"title":    title,
		"topic":    topic,
		"keywords": keywords,
	}
	var room RoomDetail
	if err := c.postJSON(ctx, "create_room", "/api/debate-rooms", payload, &room); err != nil {
		return nil, err
	}
	return &room, nil
}

// Room fetches one room's full state including persisted history.
func (c *Client) Room(ctx context.Context, id int64) (*RoomDetail, error) {
	var room RoomDetail
	path := fmt.Sprintf("/api/debate-rooms/%d", id)
	if err := c.getJSON(ctx, "room", path, &room); err != nil {
		return nil, err
	}
	return &room, nil
}

// DeleteRoom removes a room the caller created.
func (c *Client) DeleteRoom(ctx context.Context, id int64) error {
	path := fmt.Sprintf("/api/debate-rooms/%d", id)
	_, err := c.do(ctx, "delete_room", http.MethodDelete, path, nil, "application/json")
	return err
}

// JoinRoom registers a visit and returns the updated room state.
func (c *Client) JoinRoom(ctx context.Context, id int64) (*RoomDetail, error) {
	var room RoomDetail
	path := fmt.Sprintf("/api/debate-rooms/%d/join", id)
	if err := c.postJSON(ctx, "join_room", path, nil, &room); err != nil {
		return nil, err
	}
	return &room, nil
}

// LeaveRoom records the caller's exit from the room.
func (c *Client) LeaveRoom(ctx context.Context, id int64) error {
	path := fmt.Sprintf("/api/debate-rooms/%d/leave", id)
	return c.postJSON(ctx, "leave_room", path, nil, nil)
}

// Ready toggles the caller's ready flag. The resulting state change
// arrives over the room's status topic, not in this response.
func (c *Client) Ready(ctx context.Context, id int64) error {
	path := fmt.Sprintf("/api/debate-rooms/%d/ready", id)
	return c.postJSON(ctx, "ready", path, nil, nil)
}

// RegisterAsDebaterA claims the A-side podium.
func (c *Client) RegisterAsDebaterA(ctx context.Context, id int64) (*RoomDetail, error) {
	var room RoomDetail
	path := fmt.Sprintf("/api/debate-rooms/%d/register-as-debater-a", id)
	if err := c.postJSON(ctx, "register_debater_a", path, nil, &room); err != nil {
		return nil, err
	}
	return &room, nil
}

// JoinAsDebaterB claims the B-side podium.
func (c *Client) JoinAsDebaterB(ctx context.Context, id int64) (*RoomDetail, error) {
	var room RoomDetail
	path := fmt.Sprintf("/api/debate-rooms/%d/join-as-debater-b", id)
	if err := c.postJSON(ctx, "join_debater_b", path, nil, &room); err != nil {
		return nil, err
	}
	return &room, nil
}
