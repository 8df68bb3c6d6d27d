package main

import (
	"flag"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/gobwas/glob"
	"github.com/pkg/errors"
	"github.com/qaisjp/irc-discord-relay/bridge"
	ircf "github.com/qaisjp/irc-discord-relay/irc/format"
	"github.com/qaisjp/irc-discord-relay/transmitter"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

func main() {
	config := flag.String("config", "", "Config file to read configuration stuff from")
	debugMode := flag.Bool("debug", false, "Debug mode? (false = use value from settings)")
	notls := flag.Bool("no-tls", false, "Avoids using TLS at all when connecting to IRC server")
	insecure := flag.Bool("insecure", false, "Skip TLS certificate verification? (INSECURE MODE) (false = use value from settings)")

	flag.Parse()

	if *config == "" {
		log.Fatalln("--config argument is required!")
		return
	}

	viper := viper.New()
	ext := filepath.Ext(*config)
	configName := strings.TrimSuffix(filepath.Base(*config), ext)
	configType := strings.TrimPrefix(ext, ".")
	configPath := filepath.Dir(*config)
	viper.SetConfigName(configName)
	viper.SetConfigType(configType)
	viper.AddConfigPath(configPath)

	log.WithFields(log.Fields{
		"ConfigName": configName,
		"ConfigType": configType,
		"ConfigPath": configPath,
	}).Infoln("Loading configuration...")

	err := viper.ReadInConfig()
	if err != nil {
		log.Fatalln(errors.Wrap(err, "could not read config"))
	}

	if !*debugMode {
		*debugMode = viper.GetBool("debug")
	}
	SetLogDebug(*debugMode)

	conf, err := loadConfig(viper)
	if err != nil {
		log.WithError(err).Fatalln("Configuration is invalid.")
		return
	}
	conf.Debug = *debugMode

	if *notls {
		noTLS := false
		conf.IRCOptions.UseTLS = &noTLS
	}
	if *insecure {
		conf.IRCOptions.InsecureSkipVerify = insecure
	}

	tx, err := transmitter.New(conf.DiscordWebhookID, conf.DiscordWebhookToken)
	if err != nil {
		log.WithError(err).Fatalln("Could not create Discord webhook transmitter.")
		return
	}

	dib, err := bridge.New(conf, bridge.NewIRCListener(), tx, ircf.Formatter{})
	if err != nil {
		log.WithField("error", err).Fatalln("IRC-Discord relay failed to initialise.")
		return
	}

	if err := tx.Check(); err != nil {
		log.WithError(err).Warnln("Discord webhook could not be verified, messages may not be delivered")
	}

	// Create new signal receiver
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)

	// Open the bot
	err = dib.Open()
	if err != nil {
		log.WithField("error", err).Fatalln("IRC-Discord relay failed to start.")
		return
	}

	// Inform the user that things are happening!
	log.Infoln("IRC-Discord relay is now running. Press Ctrl-C to exit.")

	// Start watching for live changes...
	viper.WatchConfig()
	viper.OnConfigChange(func(e fsnotify.Event) {
		log.WithField("file", e.Name).Println("Configuration file has changed!")

		if debug := viper.GetBool("debug"); *debugMode != debug {
			log.Printf("Debug changed from %+v to %+v", *debugMode, debug)
			*debugMode = debug
			dib.SetDebugMode(debug)
			SetLogDebug(debug)
		}
	})

	// Watch for a shutdown signal
	<-sc

	log.Infoln("Shutting down IRC-Discord relay...")

	// Cleanly close down the bridge, then let pending webhooks finish.
	dib.Close()
	tx.Wait()
}

// loadConfig reads bridge.Config from viper and validates it.
func loadConfig(v *viper.Viper) (*bridge.Config, error) {
	conf := &bridge.Config{
		IRCNickname:         v.GetString("irc_nickname"),
		IRCServer:           v.GetString("irc_server"), // Server address to use, example `irc.libera.chat:6697`.
		IRCChannel:          v.GetString("irc_channel"),
		DiscordWebhookID:    v.GetString("discord_webhook_id"),
		DiscordWebhookToken: v.GetString("discord_webhook_token"),
		DiscordBotToken:     v.GetString("discord_token"),   // Optional, enables Discord -> IRC
		DiscordChannelID:    v.GetString("discord_channel"), // Required with discord_token
		ChannelMappings:     v.GetStringMapString("channel_mappings"),
		CommandCharacters:   v.GetStringSlice("command_characters"),
		IRCStatusNotices:    v.GetBool("irc_status_notices"),
		AnnounceSelfJoin:    v.GetBool("announce_self_join"),
		AutoSendCommands:    v.GetStringSlice("auto_send_commands"),
	}

	for _, pattern := range v.GetStringSlice("ignore_users") {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid ignore_users pattern %q", pattern)
		}
		conf.IgnoreUsers = append(conf.IgnoreUsers, g)
	}

	opts := &conf.IRCOptions
	if v.IsSet("irc_options.flood_protection") {
		b := v.GetBool("irc_options.flood_protection")
		opts.FloodProtection = &b
	}
	if v.IsSet("irc_options.flood_protection_delay") {
		d := v.GetDuration("irc_options.flood_protection_delay")
		opts.FloodProtectionDelay = &d
	}
	if v.IsSet("irc_options.retry_count") {
		n := v.GetInt("irc_options.retry_count")
		opts.RetryCount = &n
	}
	if v.IsSet("irc_options.channels") {
		opts.Channels = v.GetStringSlice("irc_options.channels")
	}
	if v.IsSet("no_tls") {
		useTLS := !v.GetBool("no_tls")
		opts.UseTLS = &useTLS
	}
	if v.IsSet("insecure") {
		insecure := v.GetBool("insecure")
		opts.InsecureSkipVerify = &insecure
	}
	if v.IsSet("irc_pass") {
		pass := v.GetString("irc_pass") // Optional password for connecting to the IRC server
		opts.Password = &pass
	}
	if v.IsSet("irc_options.real_name") {
		name := v.GetString("irc_options.real_name")
		opts.RealName = &name
	}

	if err := conf.Validate(); err != nil {
		return nil, err
	}

	return conf, nil
}

func SetLogDebug(debug bool) {
	logger := log.StandardLogger()
	if debug {
		logger.SetLevel(log.DebugLevel)
	} else {
		logger.SetLevel(log.InfoLevel)
	}
}
