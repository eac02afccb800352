package relay

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrameRoundTrip(t *testing.T) {
	frame := NewFrame(cmdSend,
		"destination", "/app/debate",
		"content-type", "application/json",
	)
	frame.Body = []byte(`{"type":"DEBATE","content":"hello"}`)

	parsed, err := ParseFrame(frame.Marshal())
	require.NoError(t, err)

	assert.Equal(t, cmdSend, parsed.Command)
	assert.Equal(t, "/app/debate", parsed.Headers["destination"])
	assert.Equal(t, "application/json", parsed.Headers["content-type"])
	assert.Equal(t, frame.Body, parsed.Body)
}

func TestFrameHeaderEscaping(t *testing.T) {
	frame := NewFrame(cmdSend, "destination", "/topic/with:colon")

	raw := frame.Marshal()
	assert.Contains(t, string(raw), `/topic/with\ccolon`)

	parsed, err := ParseFrame(raw)
	require.NoError(t, err)
	assert.Equal(t, "/topic/with:colon", parsed.Headers["destination"])
}

func TestConnectHeadersNotEscaped(t *testing.T) {
	frame := NewFrame(cmdConnect, "heart-beat", "4000,4000", "accept-version", "1.2")

	parsed, err := ParseFrame(frame.Marshal())
	require.NoError(t, err)
	assert.Equal(t, "1.2", parsed.Headers["accept-version"])
	assert.Equal(t, "4000,4000", parsed.Headers["heart-beat"])
}

func TestParseFrameFirstHeaderWins(t *testing.T) {
	raw := []byte("MESSAGE\ndestination:/topic/a\ndestination:/topic/b\n\nbody\x00")

	parsed, err := ParseFrame(raw)
	require.NoError(t, err)
	assert.Equal(t, "/topic/a", parsed.Headers["destination"])
	assert.Equal(t, []byte("body"), parsed.Body)
}

func TestParseFrameCarriageReturns(t *testing.T) {
	raw := []byte("CONNECTED\r\nversion:1.2\r\n\nx\x00")

	parsed, err := ParseFrame(raw)
	require.NoError(t, err)
	assert.Equal(t, cmdConnected, parsed.Command)
	assert.Equal(t, "1.2", parsed.Headers["version"])
}

func TestParseFrameMalformed(t *testing.T) {
	_, err := ParseFrame([]byte("MESSAGE\nno-terminator"))
	assert.Error(t, err)
}

func TestIsHeartbeat(t *testing.T) {
	assert.True(t, IsHeartbeat([]byte("\n")))
	assert.True(t, IsHeartbeat([]byte("\r\n")))
	assert.False(t, IsHeartbeat([]byte("MESSAGE\n\n\x00")))
}
