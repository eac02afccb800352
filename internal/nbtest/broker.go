package nbtest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"newsbalance/internal/relay"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(*http.Request) bool { return true },
}

type brokerClient struct {
	conn *websocket.Conn
	mu   sync.Mutex
	subs map[string]string // destination -> subscription id
}

func (c *brokerClient) send(frame *relay.Frame) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, frame.Marshal())
}

// Broker is a minimal STOMP broker: CONNECT/SUBSCRIBE bookkeeping plus
// application-level routing of /app/debate and /app/chat publishes back out
// on the room topics, the way the real backend's message relay behaves.
type Broker struct {
	mu      sync.Mutex
	clients map[*brokerClient]struct{}
	nextMsg int
}

func NewBroker() *Broker {
	return &Broker{clients: make(map[*brokerClient]struct{})}
}

// Handle upgrades an HTTP request and speaks STOMP until the peer leaves.
func (b *Broker) Handle(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	client := &brokerClient{conn: conn, subs: make(map[string]string)}
	b.mu.Lock()
	b.clients[client] = struct{}{}
	b.mu.Unlock()

	defer func() {
		b.mu.Lock()
		delete(b.clients, client)
		b.mu.Unlock()
		conn.Close()
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return
		}
		if relay.IsHeartbeat(raw) {
			continue
		}

		frame, err := relay.ParseFrame(raw)
		if err != nil {
			continue
		}

		switch frame.Command {
		case "CONNECT":
			connected := relay.NewFrame("CONNECTED",
				"version", "1.2",
				"heart-beat", "4000,4000",
			)
			if err := client.send(connected); err != nil {
				return
			}
		case "SUBSCRIBE":
			client.mu.Lock()
			client.subs[frame.Headers["destination"]] = frame.Headers["id"]
			client.mu.Unlock()
		case "SEND":
			b.route(frame)
		case "DISCONNECT":
			return
		}
	}
}

// route relays an application publish to the matching room topic.
func (b *Broker) route(frame *relay.Frame) {
	var msg struct {
		Type   string `json:"type"`
		RoomID int64  `json:"roomId"`
	}
	if err := json.Unmarshal(frame.Body, &msg); err != nil {
		return
	}

	var topic string
	switch frame.Headers["destination"] {
	case "/app/debate":
		topic = fmt.Sprintf("/topic/debate/%d", msg.RoomID)
	case "/app/chat":
		topic = fmt.Sprintf("/topic/chat/%d", msg.RoomID)
	default:
		return
	}

	b.publish(topic, frame.Body)
}

// Publish marshals payload and broadcasts it to every subscriber of the
// topic. Tests drive status and participant updates through this.
func (b *Broker) Publish(topic string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	b.publish(topic, body)
	return nil
}

func (b *Broker) publish(topic string, body []byte) {
	b.mu.Lock()
	b.nextMsg++
	msgID := fmt.Sprintf("msg-%d", b.nextMsg)
	clients := make([]*brokerClient, 0, len(b.clients))
	for client := range b.clients {
		clients = append(clients, client)
	}
	b.mu.Unlock()

	for _, client := range clients {
		client.mu.Lock()
		subID, subscribed := client.subs[topic]
		client.mu.Unlock()
		if !subscribed {
			continue
		}

		frame := relay.NewFrame("MESSAGE",
			"destination", topic,
			"message-id", msgID,
			"subscription", subID,
			"content-type", "application/json",
		)
		frame.Body = body
		_ = client.send(frame)
	}
}
