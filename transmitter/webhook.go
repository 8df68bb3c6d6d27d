package transmitter

import (
	"github.com/matterbridge/discordgo"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// execute runs the webhook without waiting for Discord to return the created message.
func (t *Transmitter) execute(params *discordgo.WebhookParams) error {
	_, err := t.session.WebhookExecute(t.webhookID, t.webhookToken, false, params)
	if err != nil {
		return errors.Wrap(err, "could not execute webhook")
	}
	return nil
}

// Check asks Discord whether the webhook exists.
//
// ErrWebhookNotFound is returned if Discord doesn't know the webhook.
// Any other failure is returned wrapped.
func (t *Transmitter) Check() error {
	wh, err := t.session.WebhookWithToken(t.webhookID, t.webhookToken)
	if err != nil {
		// Check if the error is a known REST error (UnknownWebhook)
		restErr, ok := err.(*discordgo.RESTError)
		if ok && restErr.Message != nil && restErr.Message.Code == discordgo.ErrCodeUnknownWebhook {
			return ErrWebhookNotFound
		}

		return errors.Wrap(err, "could not fetch webhook")
	}

	log.WithFields(log.Fields{
		"id":      wh.ID,
		"name":    wh.Name,
		"channel": wh.ChannelID,
	}).Infoln("Using webhook")

	return nil
}
