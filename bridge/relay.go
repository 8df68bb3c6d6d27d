package bridge

import (
	"fmt"
	"strings"

	"github.com/qaisjp/irc-discord-relay/ircnick"
	log "github.com/sirupsen/logrus"
)

// Leaves room for the PRIVMSG prefix within the 512 byte IRC line limit
const maxIRCMessageLength = 400

// discordMessage is a chat message sent to IRC (from Discord)
type discordMessage struct {
	author  string
	content string
}

// sendToDiscord formats text and relays it under the author's name.
func (b *Bridge) sendToDiscord(author, channel, text string) {
	if !b.isTarget(channel) {
		log.WithField("channel", channel).Debugln("Ignoring message sent from an unhandled IRC channel.")
		return
	}

	b.sink.Send(author, b.formatter.IRCToDiscord(text))
}

// sendExactToDiscord relays text verbatim as a system message.
func (b *Bridge) sendExactToDiscord(channel, text string) {
	if !b.isTarget(channel) {
		log.WithField("channel", channel).Debugln("Ignoring status message from an unhandled IRC channel.")
		return
	}

	b.sink.Send("", text)
}

// relayToIRC sends a Discord message to the IRC channel, one PRIVMSG per line.
func (b *Bridge) relayToIRC(author, content string) {
	nick := ircnick.NickClean(author)

	// Avoid highlighting the IRC user with the same nick
	if len(nick) > 1 {
		nick = nick[:1] + "\u200B" + nick[1:]
	}

	for _, line := range strings.Split(b.formatter.DiscordToIRC(content), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}

		msg := TruncateString(maxIRCMessageLength, fmt.Sprintf("<%s> %s", nick, line))
		b.irc.Privmsg(b.Config.IRCChannel, msg)
	}
}
