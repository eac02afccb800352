package api_test

import (
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"newsbalance/internal/api"
	"newsbalance/internal/nbtest"
)

func newTestClient(t *testing.T) (*api.Client, *nbtest.Backend) {
	t.Helper()

	backend := nbtest.New()
	server := httptest.NewServer(backend.Engine)
	t.Cleanup(server.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tracer := tracenoop.NewTracerProvider().Tracer("test")
	meter := metricnoop.NewMeterProvider().Meter("test")

	client, err := api.New(server.URL, logger, tracer, meter)
	require.NoError(t, err)
	return client, backend
}

func login(t *testing.T, client *api.Client) *api.User {
	t.Helper()
	user, err := client.Login(context.Background(), "tester@example.com", "password123")
	require.NoError(t, err)
	return user
}

func TestLoginSetsSessionCookie(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()

	user := login(t, client)
	assert.Equal(t, "테스터", user.Nickname)

	// The cookie jar carries the session on subsequent calls.
	session, err := client.Session(ctx)
	require.NoError(t, err)
	assert.Equal(t, "테스터", session.Nickname)
}

func TestLoginWrongPassword(t *testing.T) {
	client, _ := newTestClient(t)

	_, err := client.Login(context.Background(), "tester@example.com", "wrong")
	var apiErr *api.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 401, apiErr.Status)
	assert.Equal(t, "아이디 또는 비밀번호가 올바르지 않습니다", apiErr.Message)
}

func TestSessionWithoutLogin(t *testing.T) {
	client, _ := newTestClient(t)

	_, err := client.Session(context.Background())
	var apiErr *api.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 401, apiErr.Status)
}

func TestLogoutEndsSession(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()

	login(t, client)
	require.NoError(t, client.Logout(ctx))

	_, err := client.Session(ctx)
	assert.Error(t, err)
}

func TestPasswordResetUnknownEmail(t *testing.T) {
	client, _ := newTestClient(t)

	err := client.PasswordReset(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, api.ErrEmailNotFound)

	assert.NoError(t, client.PasswordReset(context.Background(), "tester@example.com"))
}

func TestCheckEmail(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()

	available, err := client.CheckEmail(ctx, "fresh@example.com")
	require.NoError(t, err)
	assert.True(t, available)

	available, err = client.CheckEmail(ctx, "tester@example.com")
	require.NoError(t, err)
	assert.False(t, available)
}

func TestVerifyCode(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()

	ok, err := client.VerifyCode(ctx, "x@example.com", "123456")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = client.VerifyCode(ctx, "x@example.com", "000000")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRegisterThenLogin(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()

	err := client.Register(ctx, api.RegisterRequest{
		Email: "new@example.com", Password: "newpassword1", Nickname: "새회원",
	})
	require.NoError(t, err)

	user, err := client.Login(ctx, "new@example.com", "newpassword1")
	require.NoError(t, err)
	assert.Equal(t, "새회원", user.Nickname)
}

func TestRoomsBareAndHotEnveloped(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()

	// The list endpoint returns a bare array.
	rooms, err := client.Rooms(ctx)
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	assert.Equal(t, "기본 토론방", rooms[0].Title)

	// The hot endpoint wraps the same shape in {success, result}.
	hot, err := client.HotRooms(ctx)
	require.NoError(t, err)
	require.Len(t, hot, 1)
	assert.Equal(t, rooms[0].ID, hot[0].ID)
}

func TestSearchRoomsNoMatchesIsEmptyNotError(t *testing.T) {
	client, _ := newTestClient(t)

	rooms, err := client.SearchRooms(context.Background(), "존재하지않는검색어")
	require.NoError(t, err)
	assert.Empty(t, rooms)
}

func TestSearchRoomsMatch(t *testing.T) {
	client, _ := newTestClient(t)

	rooms, err := client.SearchRooms(context.Background(), "기본")
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	assert.Equal(t, "기본 토론방", rooms[0].Title)
}

func TestCreateRoomRequiresLogin(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()

	_, err := client.CreateRoom(ctx, "새 토론방", "충분히 긴 토론 주제입니다", []string{"뉴스"})
	var apiErr *api.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 401, apiErr.Status)

	login(t, client)
	room, err := client.CreateRoom(ctx, "새 토론방", "충분히 긴 토론 주제입니다", []string{"뉴스"})
	require.NoError(t, err)
	assert.Equal(t, "새 토론방", room.Title)
	assert.NotZero(t, room.ID)
}

func TestJoinAndLeaveRoom(t *testing.T) {
	client, backend := newTestClient(t)
	ctx := context.Background()

	room, err := client.JoinRoom(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, room.CurrentParticipants)
	assert.Equal(t, 1, backend.Room(1).TotalVisits)

	require.NoError(t, client.LeaveRoom(ctx, 1))
	assert.Equal(t, 0, backend.Room(1).CurrentParticipants)
}

func TestDebaterRegistrationAndReady(t *testing.T) {
	client, backend := newTestClient(t)
	ctx := context.Background()

	login(t, client)

	room, err := client.RegisterAsDebaterA(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "테스터", room.DebaterA)

	backend.Room(1).DebaterB = "반대측"
	require.NoError(t, client.Ready(ctx, 1))
	assert.True(t, backend.Room(1).DebaterAReady)
	assert.False(t, backend.Room(1).Started)
}

func TestFactCheck(t *testing.T) {
	client, _ := newTestClient(t)

	result, err := client.FactCheck(context.Background(), 1, "찬성측", "최저임금 인상은 고용을 줄이지 않습니다")
	require.NoError(t, err)
	assert.NotEmpty(t, result.FactCheck)
	assert.Equal(t, "NewsBalance AI", result.FactCheckBy)
}

func TestDebateSummary(t *testing.T) {
	client, _ := newTestClient(t)

	summary, err := client.DebateSummary(context.Background(), 1, "찬성측: 주장\n반대측: 반론")
	require.NoError(t, err)
	assert.NotEmpty(t, summary.SummarizeMessage)
	require.Len(t, summary.RelatedArticles, 1)
	assert.NotEmpty(t, summary.RelatedArticles[0].Link)
}

func TestSearchTitles(t *testing.T) {
	client, _ := newTestClient(t)

	videos, err := client.SearchTitles(context.Background(), "뉴스")
	require.NoError(t, err)
	require.Len(t, videos, 3)
	assert.InDelta(t, -0.5, videos[0].BiasScore, 0.001)
}

func TestProfileAndStats(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()

	profile, err := client.Profile(ctx, "누군가")
	require.NoError(t, err)
	assert.Equal(t, "누군가", profile.Nickname)

	slices, err := client.BiasStats(ctx, "30")
	require.NoError(t, err)
	assert.Len(t, slices, 3)

	points, err := client.WatchTime(ctx, "day")
	require.NoError(t, err)
	assert.Len(t, points, 2)
}

func TestSubmitContact(t *testing.T) {
	client, _ := newTestClient(t)

	ticketID, err := client.SubmitContact(context.Background(), api.ContactRequest{
		Name: "홍길동", Email: "hong@example.com",
		Subject: "버그 제보", Message: "방 목록이 비어 보입니다",
		Type: "error", Priority: "high",
		Files: []api.Attachment{{Filename: "screen.png", Content: []byte{0x89, 0x50}}},
	})
	require.NoError(t, err)
	assert.Equal(t, "TCK-1042", ticketID)
}

func TestAnalyzeTranscript(t *testing.T) {
	client, _ := newTestClient(t)

	analysis, err := client.AnalyzeTranscript(context.Background(), "aaa111")
	require.NoError(t, err)
	assert.Equal(t, "neutral", analysis.Sentiment)
	assert.Equal(t, "center", analysis.Bias)
}
