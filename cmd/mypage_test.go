package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBar(t *testing.T) {
	assert.Equal(t, "", bar(0, 2))
	assert.Equal(t, "██", bar(4, 2))
	assert.Equal(t, "███", bar(32, 10))
	assert.Equal(t, "", bar(-40, 2)) // a bad backend value must not panic
}
