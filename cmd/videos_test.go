package cmd

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"newsbalance/internal/api"
	"newsbalance/internal/config"
	"newsbalance/internal/i18n"
)

// newCountingApp wires an App against a backend that fails every request and
// counts them, so tests can assert a command never went to the network.
func newCountingApp(t *testing.T) (*App, *int32) {
	t.Helper()

	var requests int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	client, err := api.New(server.URL, logger,
		tracenoop.NewTracerProvider().Tracer("test"),
		metricnoop.NewMeterProvider().Meter("test"))
	require.NoError(t, err)

	translator, err := i18n.New("ko")
	require.NoError(t, err)

	return &App{
		Config: &config.Config{},
		Logger: logger,
		API:    client,
		T:      translator,
	}, &requests
}

func TestVideosEmptyQueryMakesNoRequest(t *testing.T) {
	app, requests := newCountingApp(t)

	for _, args := range [][]string{
		{},
		{""},
		{"   "},
		{"<>"}, // sanitizes to nothing
	} {
		cmd := newVideosCmd(app)
		cmd.SetArgs(args)
		cmd.SetOut(io.Discard)
		cmd.SetErr(io.Discard)
		assert.NoError(t, cmd.Execute(), "args %q", args)
	}

	assert.Zero(t, atomic.LoadInt32(requests))
}

func TestVideosNonEmptyQueryReachesBackend(t *testing.T) {
	app, requests := newCountingApp(t)

	cmd := newVideosCmd(app)
	cmd.SetArgs([]string{"뉴스"})
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)

	assert.Error(t, cmd.Execute()) // the counting backend 500s
	assert.Equal(t, int32(1), atomic.LoadInt32(requests))
}

func TestExtractVideoID(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"https://www.youtube.com/watch?v=abc123", "abc123"},
		{"https://www.youtube.com/watch?v=abc123&t=42s", "abc123"},
		{"https://www.youtube.com/embed/abc123", ""},
		{"not a url at all", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, extractVideoID(tt.raw), tt.raw)
	}
}
