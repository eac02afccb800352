package relay

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel/metric"
)

const (
	reconnectDelay    = 5 * time.Second
	heartbeatInterval = 4 * time.Second
)

// wireMessage is the JSON payload exchanged over the debate and chat
// destinations.
type wireMessage struct {
	Type          string `json:"type"`
	Content       string `json:"content"`
	Sender        string `json:"sender"`
	RoomID        int64  `json:"roomId"`
	CorrelationID string `json:"correlationId,omitempty"`
	Summary       string `json:"summary,omitempty"`
}

// Relay is one live STOMP-over-WebSocket connection to a debate room. It
// owns the connection, applies inbound frames to the Room in arrival order,
// and reconnects with a fixed delay until closed.
type Relay struct {
	wsURL    string
	userName string
	room     *Room
	logger   *slog.Logger

	// OnUpdate fires after any room state change; OnError receives broker
	// error broadcasts; OnRoomClosed fires when the creator tears the room
	// down. All may be nil.
	OnUpdate     func()
	OnError      func(content string)
	OnRoomClosed func(content string)

	received metric.Int64Counter
	sent     metric.Int64Counter

	mu     sync.Mutex
	conn   *websocket.Conn
	closed bool
}

// New creates a Relay for the room. wsURL is the backend WebSocket origin;
// the raw-websocket endpoint lives under it at /websocket.
func New(wsURL, userName string, room *Room, logger *slog.Logger, meter metric.Meter) *Relay {
	r := &Relay{
		wsURL:    strings.TrimRight(wsURL, "/"),
		userName: userName,
		room:     room,
		logger:   logger,
	}
	if meter != nil {
		r.received, _ = meter.Int64Counter("relay.messages.received",
			metric.WithDescription("Relay frames received"))
		r.sent, _ = meter.Int64Counter("relay.messages.sent",
			metric.WithDescription("Relay messages published"))
	}
	return r
}

// Connect dials the broker, completes the STOMP handshake, subscribes the
// room's topics and starts the read and heartbeat loops.
func (r *Relay) Connect(ctx context.Context) error {
	conn, err := r.dial(ctx)
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.conn = conn
	r.mu.Unlock()

	go r.readLoop(conn)
	go r.heartbeatLoop(conn)

	r.logger.Info("relay connected", "room", r.room.ID(), "user", r.userName)
	return nil
}

func (r *Relay) dial(ctx context.Context) (*websocket.Conn, error) {
	endpoint := r.wsURL + "/websocket"
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to WebSocket: %w", err)
	}

	connect := NewFrame(cmdConnect,
		"accept-version", "1.2",
		"heart-beat", "4000,4000",
		"userName", r.userName,
	)
	if err := conn.WriteMessage(websocket.TextMessage, connect.Marshal()); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to send CONNECT: %w", err)
	}

	// Heartbeats may precede the CONNECTED frame.
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			conn.Close()
			return nil, fmt.Errorf("failed to read CONNECTED: %w", err)
		}
		if IsHeartbeat(raw) {
			continue
		}
		frame, err := ParseFrame(raw)
		if err != nil {
			conn.Close()
			return nil, fmt.Errorf("bad handshake frame: %w", err)
		}
		if frame.Command == cmdError {
			conn.Close()
			return nil, fmt.Errorf("broker refused connection: %s", string(frame.Body))
		}
		if frame.Command != cmdConnected {
			conn.Close()
			return nil, fmt.Errorf("unexpected handshake frame: %s", frame.Command)
		}
		break
	}

	roomID := strconv.FormatInt(r.room.ID(), 10)
	topics := []string{
		"/topic/room/" + roomID + "/status",
		"/topic/room/" + roomID + "/participants",
		"/topic/debate/" + roomID,
		"/topic/chat/" + roomID,
		"/topic/error/" + roomID,
	}
	for i, topic := range topics {
		sub := NewFrame(cmdSubscribe,
			"id", fmt.Sprintf("sub-%d", i),
			"destination", topic,
		)
		if err := conn.WriteMessage(websocket.TextMessage, sub.Marshal()); err != nil {
			conn.Close()
			return nil, fmt.Errorf("failed to subscribe %s: %w", topic, err)
		}
	}

	return conn, nil
}

func (r *Relay) readLoop(conn *websocket.Conn) {
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			r.handleDisconnect(conn, err)
			return
		}
		if IsHeartbeat(raw) {
			continue
		}

		frame, err := ParseFrame(raw)
		if err != nil {
			r.logger.Warn("dropping malformed frame", "error", err)
			continue
		}
		if r.received != nil {
			r.received.Add(context.Background(), 1)
		}
		if frame.Command != cmdMessage {
			continue
		}
		r.handleMessage(frame)
	}
}

func (r *Relay) heartbeatLoop(conn *websocket.Conn) {
	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()

	for range ticker.C {
		r.mu.Lock()
		current, closed := r.conn, r.closed
		r.mu.Unlock()
		if closed || current != conn {
			return
		}
		if err := conn.WriteMessage(websocket.TextMessage, heartbeatFrame); err != nil {
			return
		}
	}
}

// handleDisconnect reconnects with a fixed delay until Close is called.
func (r *Relay) handleDisconnect(conn *websocket.Conn, cause error) {
	conn.Close()

	r.mu.Lock()
	if r.closed || r.conn != conn {
		r.mu.Unlock()
		return
	}
	r.conn = nil
	r.mu.Unlock()

	r.logger.Warn("relay connection lost", "room", r.room.ID(), "error", cause)

	for {
		time.Sleep(reconnectDelay)

		r.mu.Lock()
		if r.closed {
			r.mu.Unlock()
			return
		}
		r.mu.Unlock()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		next, err := r.dial(ctx)
		cancel()
		if err != nil {
			r.logger.Warn("relay reconnect failed", "room", r.room.ID(), "error", err)
			continue
		}

		r.mu.Lock()
		if r.closed {
			r.mu.Unlock()
			next.Close()
			return
		}
		r.conn = next
		r.mu.Unlock()

		go r.readLoop(next)
		go r.heartbeatLoop(next)

		r.logger.Info("relay reconnected", "room", r.room.ID())
		return
	}
}

func (r *Relay) handleMessage(frame *Frame) {
	destination := frame.Headers["destination"]
	roomID := strconv.FormatInt(r.room.ID(), 10)

	switch {
	case destination == "/topic/room/"+roomID+"/status":
		var status Status
		if err := json.Unmarshal(frame.Body, &status); err != nil {
			return
		}
		r.room.ApplyStatus(status)

	case destination == "/topic/room/"+roomID+"/participants":
		var update struct {
			CurrentParticipants int `json:"currentParticipants"`
		}
		if err := json.Unmarshal(frame.Body, &update); err != nil {
			return
		}
		r.room.SetParticipants(update.CurrentParticipants)

	case destination == "/topic/debate/"+roomID:
		var msg wireMessage
		if err := json.Unmarshal(frame.Body, &msg); err != nil {
			return
		}
		r.applyDebateMessage(msg)

	case destination == "/topic/chat/"+roomID:
		var msg wireMessage
		if err := json.Unmarshal(frame.Body, &msg); err != nil {
			return
		}
		r.room.AppendChat(msg.Sender + ": " + msg.Content)

	case destination == "/topic/error/"+roomID:
		var msg wireMessage
		if err := json.Unmarshal(frame.Body, &msg); err != nil {
			return
		}
		r.logger.Warn("broker error", "room", r.room.ID(), "content", msg.Content)
		if r.OnError != nil {
			r.OnError(msg.Content)
		}
		return

	default:
		return
	}

	if r.OnUpdate != nil {
		r.OnUpdate()
	}
}

func (r *Relay) applyDebateMessage(msg wireMessage) {
	switch msg.Type {
	case TypeDebate, TypeChat:
		r.room.AppendDebate(msg.CorrelationID, msg.Sender, msg.Content, msg.Summary)
	case TypeStart:
		r.room.SetStarted()
	case TypeTurn:
		r.room.SetTurn(msg.Content)
	case TypeDebateEndRequest:
		r.room.SetEndRequest(msg.Sender)
		r.room.AppendSystem(msg.Content)
	case TypeDebateEndAccept:
		r.room.AppendSystem(msg.Content)
		r.room.ClearEndRequest(true)
	case TypeDebateEndReject:
		r.room.AppendSystem(msg.Content)
		r.room.ClearEndRequest(false)
	case TypeCreatorLeave:
		// The creator leaving ends the room, not just the debate.
		r.room.AppendSystem(msg.Content)
		r.room.MarkEnded()
		if r.OnRoomClosed != nil {
			r.OnRoomClosed(msg.Content)
		}
	case TypeSystem, TypeReady, TypeDebaterLeave, TypeViewerLeave:
		r.room.AppendSystem(msg.Content)
	default:
		if msg.Content != "" {
			r.room.AppendSystem(msg.Content)
		}
	}
}

// publish marshals msg and SENDs it to the destination.
func (r *Relay) publish(destination string, msg wireMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	frame := NewFrame(cmdSend,
		"destination", destination,
		"content-type", "application/json",
	)
	frame.Body = body

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed || r.conn == nil {
		return fmt.Errorf("relay is not connected")
	}
	if err := r.conn.WriteMessage(websocket.TextMessage, frame.Marshal()); err != nil {
		return fmt.Errorf("failed to publish: %w", err)
	}
	if r.sent != nil {
		r.sent.Add(context.Background(), 1)
	}
	return nil
}

// SendDebate publishes a debate message, optimistically appending it to the
// transcript so the sender sees it immediately. The broker echo merges by
// correlation ID.
func (r *Relay) SendDebate(text string) error {
	correlationID := r.room.AppendLocal(r.userName, text)
	err := r.publish("/app/debate", wireMessage{
		Type:          TypeDebate,
		Content:       text,
		Sender:        r.userName,
		RoomID:        r.room.ID(),
		CorrelationID: correlationID,
	})
	if err == nil && r.OnUpdate != nil {
		r.OnUpdate()
	}
	return err
}

// SendChat publishes a viewer chat line. Chat has no optimistic append; the
// line shows up when the broker echoes it.
func (r *Relay) SendChat(text string) error {
	return r.publish("/app/chat", wireMessage{
		Type:    TypeViewerChat,
		Content: text,
		Sender:  r.userName,
		RoomID:  r.room.ID(),
	})
}

// RequestDebateEnd asks the opponent to end the debate by mutual consent.
func (r *Relay) RequestDebateEnd() error {
	r.room.SetEndRequest(r.userName)
	return r.publish("/app/debate", wireMessage{
		Type:    TypeDebateEndRequest,
		Content: r.userName + "님이 토론 종료를 요청했습니다.",
		Sender:  r.userName,
		RoomID:  r.room.ID(),
	})
}

// AcceptDebateEnd accepts a pending end request.
func (r *Relay) AcceptDebateEnd() error {
	return r.publish("/app/debate", wireMessage{
		Type:    TypeDebateEndAccept,
		Content: r.userName + "님이 토론 종료를 수락했습니다. 토론이 종료됩니다.",
		Sender:  r.userName,
		RoomID:  r.room.ID(),
	})
}

// RejectDebateEnd declines a pending end request.
func (r *Relay) RejectDebateEnd() error {
	return r.publish("/app/debate", wireMessage{
		Type:    TypeDebateEndReject,
		Content: r.userName + "님이 토론 종료를 거절했습니다.",
		Sender:  r.userName,
		RoomID:  r.room.ID(),
	})
}

// Leave announces the departure (debaters and viewers announce differently),
// then disconnects. Best effort: a dead connection still closes cleanly.
func (r *Relay) Leave(asDebater bool) error {
	leaveType := TypeViewerLeave
	if asDebater {
		leaveType = TypeDebaterLeave
	}
	_ = r.publish("/app/debate", wireMessage{
		Type:    leaveType,
		Content: r.userName + "님이 퇴장하셨습니다.",
		Sender:  systemSpeaker,
		RoomID:  r.room.ID(),
	})
	return r.Close()
}

// Close tears the connection down and stops reconnecting.
func (r *Relay) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true

	if r.conn != nil {
		disconnect := NewFrame(cmdDisconnect)
		r.conn.WriteMessage(websocket.TextMessage, disconnect.Marshal())
		r.conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		r.conn.Close()
		r.conn = nil
	}

	r.logger.Info("relay closed", "room", r.room.ID())
	return nil
}
