package transmitter

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/matterbridge/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRequiresCredentials(t *testing.T) {
	_, err := New("", "token")
	assert.Error(t, err)

	_, err = New("123", "")
	assert.Error(t, err)

	tx, err := New("123", "token")
	require.NoError(t, err)
	assert.Equal(t, "123", tx.webhookID)
}

func TestPrepareParams(t *testing.T) {
	cases := []struct {
		Message          string
		Username         string
		Content          string
		ExpectedUsername string
		ExpectedContent  string
	}{
		{"plain", "Bob", "hello", "Bob", "hello"},
		{"system message", "", "*Bob* has joined the channel", "", "*Bob* has joined the channel"},
		{"single character username", "b", "hi", "b\u200B", "hi"},
		{"empty content", "Bob", "", "Bob", "\u200B"},
		{"everyone", "Bob", "hey @everyone", "Bob", "hey @\u200Beveryone"},
		{"here", "Bob", "@here now", "Bob", "@\u200Bhere now"},
	}

	for _, c := range cases {
		t.Run(c.Message, func(t *testing.T) {
			params := prepareParams(c.Username, c.Content)
			assert.Equal(t, c.ExpectedUsername, params.Username)
			assert.Equal(t, c.ExpectedContent, params.Content)
		})
	}
}

func TestSendKeepsOrder(t *testing.T) {
	var (
		mu        sync.Mutex
		delivered []string
		first     = true
	)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var params discordgo.WebhookParams
		if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		mu.Lock()
		slow := first
		first = false
		mu.Unlock()

		// A slow first request must not let the second overtake it
		if slow {
			time.Sleep(100 * time.Millisecond)
		}

		mu.Lock()
		delivered = append(delivered, params.Content)
		mu.Unlock()

		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	oldEndpoint := discordgo.EndpointWebhooks
	discordgo.EndpointWebhooks = srv.URL + "/webhooks/"
	defer func() { discordgo.EndpointWebhooks = oldEndpoint }()

	tx, err := New("123", "token")
	require.NoError(t, err)

	tx.Send("", "Command sent from IRC by Bob:")
	tx.Send("Bob", "!help")
	tx.Send("Bob", "thanks")
	tx.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"Command sent from IRC by Bob:", "!help", "thanks"}, delivered)
}

func TestSendAfterWaitIsDropped(t *testing.T) {
	tx, err := New("123", "token")
	require.NoError(t, err)

	tx.Wait()
	tx.Wait()

	assert.NotPanics(t, func() { tx.Send("Bob", "late") })
}
