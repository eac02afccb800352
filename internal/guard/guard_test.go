package guard_test

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
	"newsbalance/internal/guard"
	"newsbalance/internal/nbtest"
	"newsbalance/internal/session"
)

func setup(t *testing.T) (*api.Client, *session.Store, *guard.Guard) {
	t.Helper()
	server := httptest.NewServer(nbtest.New().Engine)
	t.Cleanup(server.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	client, err := api.New(server.URL, logger,
		tracenoop.NewTracerProvider().Tracer("test"),
		metricnoop.NewMeterProvider().Meter("test"))
	require.NoError(t, err)

	store := session.NewStore()
	return client, store, guard.New(client, store)
}

func TestRequireWhenLoggedOut(t *testing.T) {
	_, _, g := setup(t)

	err := g.Require(context.Background(), "create room")
	assert.ErrorIs(t, err, guard.ErrLoginRequired)
}

func TestRequireWithLiveSession(t *testing.T) {
	client, store, g := setup(t)
	ctx := context.Background()

	user, err := client.Login(ctx, "tester@example.com", "password123")
	require.NoError(t, err)
	store.Login(*user)

	assert.NoError(t, g.Require(ctx, "create room"))
	assert.True(t, store.IsLoggedIn())
}

func TestRequireClearsStaleLocalState(t *testing.T) {
	_, store, g := setup(t)

	// Local state says logged in, but there is no server session cookie.
	store.Login(api.User{Nickname: "유령"})

	err := g.Require(context.Background(), "create room")
	assert.ErrorIs(t, err, guard.ErrLoginRequired)
	assert.False(t, store.IsLoggedIn())
}
