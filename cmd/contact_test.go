package cmd

import (
	"io"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContactInvalidFormMakesNoRequest(t *testing.T) {
	app, requests := newCountingApp(t)

	cmd := newContactCmd(app)
	cmd.SetArgs([]string{})
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)

	// Nothing filled in: validation reports the required fields and the
	// ticket is never submitted.
	assert.Error(t, cmd.Execute())
	assert.Zero(t, atomic.LoadInt32(requests))
}

func TestContactValidFormReachesBackend(t *testing.T) {
	app, requests := newCountingApp(t)

	cmd := newContactCmd(app)
	cmd.SetArgs([]string{
		"--name", "홍길동",
		"--email", "hong@example.com",
		"--subject", "문의",
		"--message", "방 목록이 비어 보입니다",
	})
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)

	assert.Error(t, cmd.Execute()) // the counting backend 500s
	assert.Equal(t, int32(1), atomic.LoadInt32(requests))
}
