package bridge

import (
	"github.com/matterbridge/discordgo"
	"github.com/pkg/errors"
	"github.com/qaisjp/irc-discord-relay/dstate"
	log "github.com/sirupsen/logrus"
)

// discordBot listens to the mirrored Discord channel and hands messages to the bridge.
type discordBot struct {
	*discordgo.Session
	bridge *Bridge

	channelID string
}

func newDiscord(bridge *Bridge, botToken, channelID string) (*discordBot, error) {
	// Create a new Discord session using the provided bot token.
	session, err := discordgo.New("Bot " + botToken)
	if err != nil {
		return nil, errors.Wrap(err, "could not create discord session")
	}

	discord := &discordBot{
		Session:   session,
		bridge:    bridge,
		channelID: channelID,
	}

	// These events are all fired in separate goroutines
	discord.AddHandler(discord.onReady)
	discord.AddHandler(discord.onMessageCreate)

	return discord, nil
}

func (d *discordBot) onReady(s *discordgo.Session, m *discordgo.Ready) {
	log.WithField("user", m.User.Username).Infoln("Connected to Discord")
}

func (d *discordBot) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.ChannelID != d.channelID {
		return
	}

	// Ignore bots, and our own webhook echoing IRC back at us
	if m.Author.Bot || m.WebhookID != "" {
		return
	}

	content := m.ContentWithMentionsReplaced()
	for _, attachment := range m.Attachments {
		content += " " + attachment.URL
	}

	if content == "" {
		return
	}

	d.bridge.discordMessagesChan <- discordMessage{
		author:  dstate.MemberNick(s, m.GuildID, m.Author),
		content: content,
	}
}
