package relay

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
)

// STOMP 1.2 commands used by the relay.
const (
	cmdConnect     = "CONNECT"
	cmdConnected   = "CONNECTED"
	cmdSubscribe   = "SUBSCRIBE"
	cmdSend        = "SEND"
	cmdMessage     = "MESSAGE"
	cmdError       = "ERROR"
	cmdDisconnect  = "DISCONNECT"
	cmdReceipt     = "RECEIPT"
	cmdUnsubscribe = "UNSUBSCRIBE"
)

// heartbeatFrame is the bare EOL a STOMP peer sends to keep the
// connection alive.
var heartbeatFrame = []byte("\n")

// Frame is one STOMP frame: a command, headers, and a NUL-terminated body.
type Frame struct {
	Command string
	Headers map[string]string
	Body    []byte
}

// NewFrame builds a frame from alternating header name/value pairs.
func NewFrame(command string, headers ...string) *Frame {
	f := &Frame{Command: command, Headers: make(map[string]string)}
	for i := 0; i+1 < len(headers); i += 2 {
		f.Headers[headers[i]] = headers[i+1]
	}
	return f
}

// Marshal serializes the frame for the wire. Headers are written in sorted
// order so output is deterministic.
func (f *Frame) Marshal() []byte {
	var buf bytes.Buffer
	buf.WriteString(f.Command)
	buf.WriteByte('\n')

	names := make([]string, 0, len(f.Headers))
	for name := range f.Headers {
		names = append(names, name)
	}
	sort.Strings(names)

	escape := f.Command != cmdConnect && f.Command != cmdConnected
	for _, name := range names {
		value := f.Headers[name]
		if escape {
			name = escapeHeader(name)
			value = escapeHeader(value)
		}
		buf.WriteString(name)
		buf.WriteByte(':')
		buf.WriteString(value)
		buf.WriteByte('\n')
	}

	buf.WriteByte('\n')
	buf.Write(f.Body)
	buf.WriteByte(0)
	return buf.Bytes()
}

// IsHeartbeat reports whether raw is a bare heartbeat, not a frame.
func IsHeartbeat(raw []byte) bool {
	trimmed := bytes.TrimRight(raw, "\r\n")
	return len(trimmed) == 0
}

// ParseFrame decodes one frame from raw wire bytes.
func ParseFrame(raw []byte) (*Frame, error) {
	raw = bytes.TrimSuffix(raw, []byte{0})

	headerEnd := bytes.Index(raw, []byte("\n\n"))
	if headerEnd < 0 {
		return nil, fmt.Errorf("malformed frame: missing header terminator")
	}

	lines := strings.Split(string(raw[:headerEnd]), "\n")
	if len(lines) == 0 || lines[0] == "" {
		return nil, fmt.Errorf("malformed frame: missing command")
	}

	f := &Frame{
		Command: strings.TrimSuffix(lines[0], "\r"),
		Headers: make(map[string]string),
		Body:    raw[headerEnd+2:],
	}

	escape := f.Command != cmdConnect && f.Command != cmdConnected
	for _, line := range lines[1:] {
		line = strings.TrimSuffix(line, "\r")
		if line == "" {
			continue
		}
		name, value, ok := strings.Cut(line, ":")
		if !ok {
			return nil, fmt.Errorf("malformed header line: %q", line)
		}
		if escape {
			name = unescapeHeader(name)
			value = unescapeHeader(value)
		}
		// First occurrence wins per the STOMP spec.
		if _, exists := f.Headers[name]; !exists {
			f.Headers[name] = value
		}
	}

	return f, nil
}

var headerEscaper = strings.NewReplacer(
	`\`, `\\`,
	"\r", `\r`,
	"\n", `\n`,
	":", `\c`,
)

var headerUnescaper = strings.NewReplacer(
	`\r`, "\r",
	`\n`, "\n",
	`\c`, ":",
	`\\`, `\`,
)

func escapeHeader(s string) string   { return headerEscaper.Replace(s) }
func unescapeHeader(s string) string { return headerUnescaper.Replace(s) }
