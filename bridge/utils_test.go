package bridge

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncateString(t *testing.T) {
	assert.Equal(t, "short", TruncateString(10, "short"))
	assert.Equal(t, "hello …", TruncateString(8, "hello world"))
}

func TestReconnectDelay(t *testing.T) {
	assert.Equal(t, reconnectBaseDelay, reconnectDelay(1))
	assert.Equal(t, 2*reconnectBaseDelay, reconnectDelay(2))
	assert.Equal(t, 4*reconnectBaseDelay, reconnectDelay(3))
	assert.Equal(t, reconnectMaxDelay, reconnectDelay(50))
}

func TestEventKindString(t *testing.T) {
	assert.Equal(t, "quit", EventQuit.String())
	assert.Equal(t, "nick", EventNick.String())
	assert.Equal(t, "unknown", EventKind(99).String())
}
