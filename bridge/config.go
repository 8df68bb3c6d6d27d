package bridge

import (
	"strings"
	"time"

	"github.com/gobwas/glob"
	"github.com/pkg/errors"
)

// Config to be passed to New
type Config struct {
	IRCNickname string
	IRCServer   string // i.e, "irc.libera.chat:6697"
	IRCChannel  string // the only IRC channel mirrored by this bridge

	// IRCOptions overrides the defaults used when connecting. Nil fields keep the default.
	IRCOptions IRCOptions

	DiscordWebhookID    string
	DiscordWebhookToken string

	// DiscordBotToken and DiscordChannelID enable relaying Discord messages into IRC.
	DiscordBotToken  string
	DiscordChannelID string

	// Map from Discord to IRC
	ChannelMappings map[string]string

	// Messages starting with one of these are treated as bot commands
	CommandCharacters []string

	// IgnoreUsers are IRC nicks whose messages are never relayed
	IgnoreUsers []glob.Glob

	// IRCStatusNotices determines whether or not to show JOIN, PART, QUIT, KICK and NICK messages on Discord
	IRCStatusNotices bool

	// AnnounceSelfJoin also announces the bridge's own JOIN. Requires IRCStatusNotices.
	AnnounceSelfJoin bool

	// AutoSendCommands are raw IRC lines sent once registered. ${NICK} is replaced by IRCNickname.
	AutoSendCommands []string

	Debug bool
}

// IRCOptions are caller-supplied overrides for IRCSettings.
type IRCOptions struct {
	FloodProtection      *bool
	FloodProtectionDelay *time.Duration
	RetryCount           *int
	Channels             []string

	UseTLS             *bool
	InsecureSkipVerify *bool
	Password           *string
	RealName           *string
}

// IRCSettings is the resolved configuration handed to an IRCClient.
type IRCSettings struct {
	Server   string
	Nickname string
	RealName string
	Password string

	UseTLS bool

	// InsecureSkipVerify controls whether a client verifies the
	// server's certificate chain and host name.
	// This should be used only for testing.
	InsecureSkipVerify bool

	FloodProtection      bool
	FloodProtectionDelay time.Duration
	RetryCount           int

	// Channels are joined once the server has sent its MOTD
	Channels []string

	Debug bool
}

const (
	defaultFloodProtectionDelay = 500 * time.Millisecond
	defaultRetryCount           = 10
)

// A ConfigurationError is returned by Validate and New when a required field is missing.
type ConfigurationError struct {
	Field string
}

func (e *ConfigurationError) Error() string {
	return "missing required configuration field " + e.Field
}

// Validate reports the first missing required field as a *ConfigurationError,
// checked in declaration order, or an invalid channel mapping.
func (c *Config) Validate() error {
	required := []struct {
		field string
		value string
	}{
		{"IRCNickname", c.IRCNickname},
		{"IRCServer", c.IRCServer},
		{"IRCChannel", c.IRCChannel},
		{"DiscordWebhookID", c.DiscordWebhookID},
		{"DiscordWebhookToken", c.DiscordWebhookToken},
	}

	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return &ConfigurationError{Field: r.field}
		}
	}

	if c.DiscordBotToken != "" && c.DiscordChannelID == "" {
		return &ConfigurationError{Field: "DiscordChannelID"}
	}

	for discord, irc := range c.ChannelMappings {
		if !isChannelName(irc) {
			return errors.Errorf("channel mapping %s -> %s does not name an IRC channel", discord, irc)
		}
	}

	return nil
}

// settings resolves the IRC connection settings. Explicit options always win over defaults.
func (c *Config) settings() IRCSettings {
	s := IRCSettings{
		Server:               c.IRCServer,
		Nickname:             c.IRCNickname,
		RealName:             c.IRCNickname,
		UseTLS:               true,
		FloodProtection:      true,
		FloodProtectionDelay: defaultFloodProtectionDelay,
		RetryCount:           defaultRetryCount,
		Channels:             []string{c.IRCChannel},
		Debug:                c.Debug,
	}

	o := c.IRCOptions
	if o.FloodProtection != nil {
		s.FloodProtection = *o.FloodProtection
	}
	if o.FloodProtectionDelay != nil {
		s.FloodProtectionDelay = *o.FloodProtectionDelay
	}
	if o.RetryCount != nil {
		s.RetryCount = *o.RetryCount
	}
	if o.Channels != nil {
		s.Channels = o.Channels
	}
	if o.UseTLS != nil {
		s.UseTLS = *o.UseTLS
	}
	if o.InsecureSkipVerify != nil {
		s.InsecureSkipVerify = *o.InsecureSkipVerify
	}
	if o.Password != nil {
		s.Password = *o.Password
	}
	if o.RealName != nil {
		s.RealName = *o.RealName
	}

	return s
}

func normalizeChannel(channel string) string {
	return strings.ToLower(strings.TrimSpace(channel))
}

func isChannelName(s string) bool {
	return s != "" && strings.ContainsRune("#&+!", rune(s[0]))
}
