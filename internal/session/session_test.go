package session_test

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
	"newsbalance/internal/session"
)

func newBackendClient(t *testing.T) *api.Client {
	t.Helper()
	server := httptest.NewServer(nbtest.New().Engine)
	t.Cleanup(server.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	client, err := api.New(server.URL, logger,
		tracenoop.NewTracerProvider().Tracer("test"),
		metricnoop.NewMeterProvider().Meter("test"))
	require.NoError(t, err)
	return client
}

func TestStoreStartsLoggedOut(t *testing.T) {
	s := session.NewStore()
	assert.False(t, s.IsLoggedIn())
	assert.Empty(t, s.Nickname())

	_, loggedIn := s.User()
	assert.False(t, loggedIn)
}

func TestLoginLogout(t *testing.T) {
	s := session.NewStore()

	s.Login(api.User{ID: 1, Nickname: "테스터", Email: "tester@example.com"})
	assert.True(t, s.IsLoggedIn())
	assert.Equal(t, "테스터", s.Nickname())

	s.Logout()
	assert.False(t, s.IsLoggedIn())
	assert.Empty(t, s.Nickname())
}

func TestSubscribe(t *testing.T) {
	s := session.NewStore()

	var events []bool
	cancel := s.Subscribe(func(user api.User, loggedIn bool) {
		events = append(events, loggedIn)
	})

	s.Login(api.User{Nickname: "테스터"})
	s.Logout()
	assert.Equal(t, []bool{true, false}, events)

	cancel()
	s.Login(api.User{Nickname: "테스터"})
	assert.Len(t, events, 2)
}

func TestHydrateWithoutCookieStaysLoggedOut(t *testing.T) {
	client := newBackendClient(t)
	s := session.NewStore()

	s.Hydrate(context.Background(), client)
	assert.False(t, s.IsLoggedIn())
}

func TestHydrateAdoptsServerSession(t *testing.T) {
	client := newBackendClient(t)
	ctx := context.Background()

	_, err := client.Login(ctx, "tester@example.com", "password123")
	require.NoError(t, err)

	s := session.NewStore()
	s.Hydrate(ctx, client)
	assert.True(t, s.IsLoggedIn())
	assert.Equal(t, "테스터", s.Nickname())
}
