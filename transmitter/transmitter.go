// Package transmitter provides functionality for transmitting
// messages to a single Discord channel through a webhook.
//
// Messages are sent fire-and-forget, in the order Send was called:
// a single worker executes the webhook and failures are only logged.
package transmitter

import (
	"strings"
	"sync"

	"github.com/matterbridge/discordgo"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// A Transmitter executes one webhook on behalf of the bridge.
type Transmitter struct {
	session *discordgo.Session

	webhookID    string
	webhookToken string

	queue    chan *discordgo.WebhookParams
	finished chan struct{}

	mu     sync.RWMutex
	closed bool
}

// ErrWebhookNotFound is returned when Discord does not know the configured webhook.
var ErrWebhookNotFound = errors.New("webhook does not exist")

// New returns a new Transmitter for the webhook with the given ID and token.
//
// No request is made to Discord; use Check to verify the webhook.
func New(webhookID, webhookToken string) (*Transmitter, error) {
	if webhookID == "" || webhookToken == "" {
		return nil, errors.New("webhook ID and token are required")
	}

	// Webhook execution is authenticated by the token in the URL,
	// so the session has no bot token of its own.
	session, err := discordgo.New("")
	if err != nil {
		return nil, errors.Wrap(err, "could not create discord session")
	}

	t := &Transmitter{
		session:      session,
		webhookID:    webhookID,
		webhookToken: webhookToken,

		queue:    make(chan *discordgo.WebhookParams, 256),
		finished: make(chan struct{}),
	}
	go t.run()

	return t, nil
}

// Send queues content, overriding the webhook's name with username
// unless username is empty. It only blocks while the queue is full.
func (t *Transmitter) Send(username, content string) {
	params := prepareParams(username, content)

	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.closed {
		log.WithField("msg.content", params.Content).Warnln("transmitter is closed, dropping message")
		return
	}
	t.queue <- params
}

func (t *Transmitter) run() {
	defer close(t.finished)

	for params := range t.queue {
		if err := t.execute(params); err != nil {
			log.WithError(err).WithFields(log.Fields{
				"msg.username": params.Username,
				"msg.content":  params.Content,
			}).Errorln("could not transmit message to discord")
		}
	}
}

// Wait stops accepting messages and blocks until every queued message has been attempted.
func (t *Transmitter) Wait() {
	t.mu.Lock()
	if !t.closed {
		t.closed = true
		close(t.queue)
	}
	t.mu.Unlock()

	<-t.finished
}

func prepareParams(username, content string) *discordgo.WebhookParams {
	// Discord doesn't accept single character usernames
	if len(username) == 1 {
		username += "\u200B"
	}

	// No content = zero width space
	if content == "" {
		content = "\u200B"
	}

	// Replace everyone and here - https://git.io/Je1yi
	content = strings.ReplaceAll(content, "@everyone", "@\u200Beveryone")
	content = strings.ReplaceAll(content, "@here", "@\u200Bhere")

	return &discordgo.WebhookParams{
		Username: username,
		Content:  content,
	}
}
