package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/qaisjp/irc-discord-relay/bridge"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfig = `
irc_nickname: relaybot
irc_server: irc.example.org:6697
irc_channel: "#Test"
discord_webhook_id: "1234"
discord_webhook_token: secret
irc_status_notices: true
command_characters: ["!", "."]
auto_send_commands:
  - "PRIVMSG NickServ :IDENTIFY ${NICK} hunter2"
ignore_users: ["*bot"]
irc_options:
  retry_count: 3
  flood_protection_delay: 1s
`

func readTestConfig(t *testing.T, text string) *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(bytes.NewBufferString(text)))
	return v
}

func TestLoadConfig(t *testing.T) {
	conf, err := loadConfig(readTestConfig(t, testConfig))
	require.NoError(t, err)

	assert.Equal(t, "relaybot", conf.IRCNickname)
	assert.Equal(t, "#Test", conf.IRCChannel)
	assert.True(t, conf.IRCStatusNotices)
	assert.False(t, conf.AnnounceSelfJoin)
	assert.Equal(t, []string{"!", "."}, conf.CommandCharacters)
	assert.Len(t, conf.AutoSendCommands, 1)

	require.Len(t, conf.IgnoreUsers, 1)
	assert.True(t, conf.IgnoreUsers[0].Match("spambot"))

	require.NotNil(t, conf.IRCOptions.RetryCount)
	assert.Equal(t, 3, *conf.IRCOptions.RetryCount)
	require.NotNil(t, conf.IRCOptions.FloodProtectionDelay)
	assert.Equal(t, time.Second, *conf.IRCOptions.FloodProtectionDelay)

	// Unset options keep the bridge defaults
	assert.Nil(t, conf.IRCOptions.FloodProtection)
	assert.Nil(t, conf.IRCOptions.UseTLS)
}

func TestLoadConfigNamesMissingField(t *testing.T) {
	text := strings.Replace(testConfig, "discord_webhook_id: \"1234\"\n", "", 1)
	require.NotEqual(t, testConfig, text)

	_, err := loadConfig(readTestConfig(t, text))

	var confErr *bridge.ConfigurationError
	require.True(t, errors.As(err, &confErr))
	assert.Equal(t, "DiscordWebhookID", confErr.Field)
}

func TestLoadConfigBadIgnorePattern(t *testing.T) {
	_, err := loadConfig(readTestConfig(t, "ignore_users: [\"[\"]\n"))
	assert.Error(t, err)
}
