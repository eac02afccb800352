package relay_test

import (
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsbalance/internal/api"
	"newsbalance/internal/nbtest"
	"newsbalance/internal/relay"
)

func startBroker(t *testing.T) (*nbtest.Backend, string) {
	t.Helper()
	backend := nbtest.New()
	server := httptest.NewServer(backend.Engine)
	t.Cleanup(server.Close)
	wsURL := strings.Replace(server.URL, "http://", "ws://", 1) + "/ws"
	return backend, wsURL
}

func connectRelay(t *testing.T, wsURL, userName string, room *relay.Room) *relay.Relay {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	r := relay.New(wsURL, userName, room, logger, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, r.Connect(ctx))
	t.Cleanup(func() { r.Close() })
	return r
}

func TestRelayAppliesStatusBroadcast(t *testing.T) {
	backend, wsURL := startBroker(t)

	room := relay.NewRoom(&api.RoomDetail{ID: 1, Title: "기본 토론방", DebaterA: "찬성측", DebaterB: "반대측"})
	connectRelay(t, wsURL, "관전자", room)

	err := backend.Broker.Publish("/topic/room/1/status", relay.Status{
		Started:  true,
		DebaterA: "찬성측",
		DebaterB: "반대측",
	})
	require.NoError(t, err)

	assert.Eventually(t, room.Started, 3*time.Second, 20*time.Millisecond)

	msgs := room.Messages()
	require.NotEmpty(t, msgs)
	assert.Equal(t, "토론이 시작되었습니다.", msgs[len(msgs)-1].Text)
}

func TestRelayAppliesParticipantBroadcast(t *testing.T) {
	backend, wsURL := startBroker(t)

	room := relay.NewRoom(&api.RoomDetail{ID: 1})
	connectRelay(t, wsURL, "관전자", room)

	err := backend.Broker.Publish("/topic/room/1/participants", map[string]int{
		"currentParticipants": 12,
	})
	require.NoError(t, err)

	assert.Eventually(t, func() bool { return room.Participants() == 12 },
		3*time.Second, 20*time.Millisecond)
}

func TestSendDebateEchoMergesIntoPendingEntry(t *testing.T) {
	_, wsURL := startBroker(t)

	room := relay.NewRoom(&api.RoomDetail{ID: 1, DebaterA: "찬성측", DebaterB: "반대측", Started: true})
	r := connectRelay(t, wsURL, "찬성측", room)

	require.NoError(t, r.SendDebate("최저임금 인상은 필요합니다"))

	// Optimistic append is visible immediately.
	msgs := room.Messages()
	require.Len(t, msgs, 1)
	assert.True(t, msgs[0].Pending)

	// The broker echo settles it without duplicating.
	assert.Eventually(t, func() bool {
		msgs := room.Messages()
		return len(msgs) == 1 && !msgs[0].Pending
	}, 3*time.Second, 20*time.Millisecond)
}

func TestSendChatEchoAppendsToChatPane(t *testing.T) {
	_, wsURL := startBroker(t)

	room := relay.NewRoom(&api.RoomDetail{ID: 1})
	r := connectRelay(t, wsURL, "관전자", room)

	require.NoError(t, r.SendChat("응원합니다"))

	assert.Eventually(t, func() bool {
		chat := room.Chat()
		return len(chat) == 1 && chat[0] == "관전자: 응원합니다"
	}, 3*time.Second, 20*time.Millisecond)
}

func TestRelaySeparateClientsSeeEachOther(t *testing.T) {
	_, wsURL := startBroker(t)

	roomA := relay.NewRoom(&api.RoomDetail{ID: 1, DebaterA: "찬성측", DebaterB: "반대측", Started: true})
	roomB := relay.NewRoom(&api.RoomDetail{ID: 1, DebaterA: "찬성측", DebaterB: "반대측", Started: true})
	a := connectRelay(t, wsURL, "찬성측", roomA)
	connectRelay(t, wsURL, "반대측", roomB)

	require.NoError(t, a.SendDebate("먼저 발언하겠습니다"))

	assert.Eventually(t, func() bool {
		msgs := roomB.Messages()
		return len(msgs) == 1 && msgs[0].Speaker == "찬성측" && !msgs[0].Pending
	}, 3*time.Second, 20*time.Millisecond)
}

func TestRelayOnUpdateFires(t *testing.T) {
	backend, wsURL := startBroker(t)

	room := relay.NewRoom(&api.RoomDetail{ID: 1})
	r := connectRelay(t, wsURL, "관전자", room)

	updated := make(chan struct{}, 16)
	r.OnUpdate = func() { updated <- struct{}{} }

	require.NoError(t, backend.Broker.Publish("/topic/room/1/participants", map[string]int{
		"currentParticipants": 3,
	}))

	select {
	case <-updated:
	case <-time.After(3 * time.Second):
		t.Fatal("OnUpdate never fired")
	}
}

func TestRelayErrorBroadcast(t *testing.T) {
	backend, wsURL := startBroker(t)

	room := relay.NewRoom(&api.RoomDetail{ID: 1})
	r := connectRelay(t, wsURL, "관전자", room)

	errs := make(chan string, 1)
	r.OnError = func(content string) { errs <- content }

	require.NoError(t, backend.Broker.Publish("/topic/error/1", map[string]string{
		"type":    "SYSTEM",
		"content": "권한이 없습니다",
	}))

	select {
	case content := <-errs:
		assert.Equal(t, "권한이 없습니다", content)
	case <-time.After(3 * time.Second):
		t.Fatal("OnError never fired")
	}
}

func TestStartMessageKeepsStatusSnapshot(t *testing.T) {
	backend, wsURL := startBroker(t)

	room := relay.NewRoom(&api.RoomDetail{ID: 1, DebaterA: "찬성측", DebaterB: "반대측"})
	connectRelay(t, wsURL, "관전자", room)

	require.NoError(t, backend.Broker.Publish("/topic/room/1/status", relay.Status{
		DebaterA: "찬성측", DebaterB: "반대측",
		DebaterAReady: true, DebaterBReady: true,
		CurrentTurnUserNickname: "반대측",
	}))
	require.Eventually(t, func() bool { return room.CurrentTurn() == "반대측" },
		3*time.Second, 20*time.Millisecond)

	require.NoError(t, backend.Broker.Publish("/topic/debate/1", map[string]string{
		"type": "START",
	}))
	require.Eventually(t, room.Started, 3*time.Second, 20*time.Millisecond)

	// The bare START must not wipe the turn the status broadcast set.
	assert.Equal(t, "반대측", room.CurrentTurn())
	assert.True(t, room.MaySpeak("반대측"))

	msgs := room.Messages()
	require.NotEmpty(t, msgs)
	assert.Equal(t, "토론이 시작되었습니다.", msgs[len(msgs)-1].Text)
}

func TestCreatorLeaveClosesRoom(t *testing.T) {
	backend, wsURL := startBroker(t)

	room := relay.NewRoom(&api.RoomDetail{ID: 1, DebaterA: "방장", DebaterB: "반대측", Started: true})
	r := connectRelay(t, wsURL, "관전자", room)

	closed := make(chan string, 1)
	r.OnRoomClosed = func(content string) { closed <- content }

	require.NoError(t, backend.Broker.Publish("/topic/debate/1", map[string]string{
		"type":    "CREATOR_LEAVE",
		"content": "방장님이 퇴장하셨습니다.",
		"sender":  "System",
	}))

	select {
	case content := <-closed:
		assert.Equal(t, "방장님이 퇴장하셨습니다.", content)
	case <-time.After(3 * time.Second):
		t.Fatal("OnRoomClosed never fired")
	}

	assert.False(t, room.Started())
	assert.False(t, room.MaySpeak("반대측"))

	msgs := room.Messages()
	require.NotEmpty(t, msgs)
	assert.Equal(t, "방장님이 퇴장하셨습니다.", msgs[len(msgs)-1].Text)
}

func TestRelayCloseStopsPublishing(t *testing.T) {
	_, wsURL := startBroker(t)

	room := relay.NewRoom(&api.RoomDetail{ID: 1})
	r := connectRelay(t, wsURL, "관전자", room)

	require.NoError(t, r.Close())
	require.NoError(t, r.Close()) // idempotent

	assert.Error(t, r.SendChat("너무 늦은 메시지"))
}
