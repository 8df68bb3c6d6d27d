package bridge

import (
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// IRCClient is a single IRC session. Implementations must be safe to call
// from multiple goroutines and deliver events in arrival order.
type IRCClient interface {
	Connect(settings IRCSettings) error
	Events() <-chan Event
	GetNick() string

	Join(channel string)
	SendRaw(line string)
	Privmsg(target, message string)
	Quit()
}

// A Sink delivers messages to Discord. An empty username means no name override.
type Sink interface {
	Send(username, content string)
}

// A Formatter converts message bodies between IRC and Discord.
type Formatter interface {
	IRCToDiscord(text string) string
	DiscordToIRC(text string) string
}

// A Bridge relays a single IRC channel to a Discord channel
type Bridge struct {
	Config *Config

	irc       IRCClient
	sink      Sink
	formatter Formatter
	discord   *discordBot

	// channels are all normalized IRC channels we agree to mirror
	channels []string
	members  membership

	opened bool
	done   chan bool

	discordMessagesChan chan discordMessage
}

// New validates conf and prepares a Bridge. No connection is made until Open.
// The Bridge works on a copy of conf, the caller's value is left untouched.
func New(conf *Config, irc IRCClient, sink Sink, formatter Formatter) (*Bridge, error) {
	if err := conf.Validate(); err != nil {
		return nil, err
	}

	c := *conf
	conf = &c
	conf.IRCChannel = normalizeChannel(conf.IRCChannel)

	dib := &Bridge{
		Config:    conf,
		irc:       irc,
		sink:      sink,
		formatter: formatter,

		channels: []string{conf.IRCChannel},
		members:  make(membership),

		done:                make(chan bool),
		discordMessagesChan: make(chan discordMessage),
	}

	for _, channel := range conf.ChannelMappings {
		channel = normalizeChannel(channel)
		if !dib.isMirrored(channel) {
			dib.channels = append(dib.channels, channel)
		}
	}

	if conf.DiscordBotToken != "" {
		var err error
		dib.discord, err = newDiscord(dib, conf.DiscordBotToken, conf.DiscordChannelID)
		if err != nil {
			return nil, errors.Wrap(err, "could not create discord bot")
		}
	}

	return dib, nil
}

// Open connects to IRC (and Discord, if a bot token is configured) and starts relaying.
// Only a failure to open the Discord session is returned.
func (b *Bridge) Open() error {
	settings := b.Config.settings()

	log.WithFields(log.Fields{
		"server":          settings.Server,
		"nick":            settings.Nickname,
		"channels":        settings.Channels,
		"floodProtection": settings.FloodProtection,
		"floodDelay":      settings.FloodProtectionDelay,
		"retryCount":      settings.RetryCount,
	}).Infoln("Connecting to IRC...")

	// IRC failures are not fatal, the bridge stays up and keeps listening to Discord
	if err := b.irc.Connect(settings); err != nil {
		log.WithError(err).Errorln("can't open irc connection")
	}

	if b.discord != nil {
		if err := b.discord.Open(); err != nil {
			b.irc.Quit()
			return errors.Wrap(err, "can't open discord")
		}
	}

	b.opened = true
	go b.loop()

	return nil
}

// Close the Bridge
func (b *Bridge) Close() {
	if !b.opened {
		return
	}

	// Stop Discord first so nothing new is queued for IRC
	if b.discord != nil {
		b.discord.Close()
	}

	b.done <- true
	<-b.done
	b.opened = false
}

// SetDebugMode allows you to control debug logging.
func (b *Bridge) SetDebugMode(debug bool) {
	b.Config.Debug = debug
}

// Members returns the nicks tracked for channel, and whether the channel is tracked at all.
// It must only be called from the goroutine handling events.
func (b *Bridge) Members(channel string) ([]string, bool) {
	return b.members.members(channel)
}

func (b *Bridge) isTarget(channel string) bool {
	return strings.EqualFold(channel, b.Config.IRCChannel)
}

func (b *Bridge) isMirrored(channel string) bool {
	for _, c := range b.channels {
		if strings.EqualFold(c, channel) {
			return true
		}
	}
	return false
}

func (b *Bridge) loop() {
	events := b.irc.Events()

	for {
		select {

		// Events from IRC, relayed to Discord
		case e, ok := <-events:
			if !ok {
				log.Warnln("IRC event stream closed, no more events will be relayed.")
				events = nil
				continue
			}
			b.handleEvent(e)

		// Messages from Discord to IRC
		case msg := <-b.discordMessagesChan:
			b.relayToIRC(msg.author, msg.content)

		// Done!
		case <-b.done:
			b.irc.Quit()
			close(b.done)

			return
		}
	}
}
