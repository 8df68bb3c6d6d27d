package bridge

import (
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
)

// handleEvent is the only place IRC events change bridge state.
func (b *Bridge) handleEvent(e Event) {
	log.WithFields(log.Fields{
		"kind":    e.Kind,
		"nick":    e.Nick,
		"channel": e.Channel,
	}).Debugln("Received IRC event")

	switch e.Kind {
	case EventMessage, EventNotice, EventAction:
		if !b.isTarget(e.Channel) || b.isIgnored(e.Nick) {
			return
		}
		b.onMessage(e)
	case EventJoin:
		if b.isTarget(e.Channel) {
			b.onJoin(e)
		}
	case EventPart:
		if b.isTarget(e.Channel) {
			b.onPart(e)
		}
	case EventKick:
		if b.isTarget(e.Channel) {
			b.onKick(e)
		}
	case EventQuit:
		b.onQuit(e)
	case EventNick:
		b.onNick(e)
	case EventNames:
		if b.isTarget(e.Channel) {
			b.onNames(e)
		}
	case EventInvite:
		b.onInvite(e)
	case EventRegistered:
		b.onRegistered()
	case EventError:
		log.WithField("error", e.Text).Errorln("Received error event from IRC")
	default:
		log.WithField("kind", e.Kind).Warnln("Ignoring unknown IRC event")
	}
}

func (b *Bridge) ownNick() string {
	if nick := b.irc.GetNick(); nick != "" {
		return nick
	}
	return b.Config.IRCNickname
}

func (b *Bridge) isIgnored(nick string) bool {
	for _, g := range b.Config.IgnoreUsers {
		if g.Match(nick) {
			return true
		}
	}
	return false
}

func (b *Bridge) isCommandMessage(text string) bool {
	for _, prefix := range b.Config.CommandCharacters {
		if prefix != "" && strings.HasPrefix(text, prefix) {
			return true
		}
	}
	return false
}

func (b *Bridge) onMessage(e Event) {
	switch e.Kind {
	case EventNotice:
		b.sendToDiscord(e.Nick, e.Channel, "*"+e.Text+"*")
	case EventAction:
		b.sendToDiscord(e.Nick, e.Channel, "_"+e.Text+"_")
	default:
		if b.isCommandMessage(e.Text) {
			b.sendExactToDiscord(e.Channel, fmt.Sprintf("Command sent from IRC by %s:", e.Nick))
			b.sendExactToDiscord(e.Channel, e.Text)
			return
		}
		b.sendToDiscord(e.Nick, e.Channel, e.Text)
	}
}

func (b *Bridge) onJoin(e Event) {
	if !b.Config.IRCStatusNotices {
		return
	}

	if e.Nick == b.ownNick() {
		if !b.Config.AnnounceSelfJoin {
			return
		}
		// The NAMES reply that follows our own JOIN already contains us
	} else if !b.members.add(e.Channel, e.Nick) {
		log.WithFields(log.Fields{
			"nick":    e.Nick,
			"channel": e.Channel,
		}).Warnln("Join in a channel without a member list")
	}

	b.sendExactToDiscord(e.Channel, fmt.Sprintf("*%s* has joined the channel", e.Nick))
}

func (b *Bridge) onPart(e Event) {
	if !b.Config.IRCStatusNotices {
		return
	}

	if e.Nick == b.ownNick() {
		// The member list would go stale, and we get a new one if we rejoin
		b.members.drop(e.Channel)
		return
	}

	if tracked, _ := b.members.remove(e.Channel, e.Nick); !tracked {
		log.WithFields(log.Fields{
			"nick":    e.Nick,
			"channel": e.Channel,
		}).Warnln("Part from a channel without a member list")
	}

	b.sendExactToDiscord(e.Channel, fmt.Sprintf("*%s* has left the channel (%s)", e.Nick, e.Text))
}

func (b *Bridge) onKick(e Event) {
	if !b.Config.IRCStatusNotices {
		return
	}

	if e.Target == b.ownNick() {
		b.members.drop(e.Channel)
		return
	}

	if tracked, _ := b.members.remove(e.Channel, e.Target); !tracked {
		log.WithFields(log.Fields{
			"nick":    e.Target,
			"channel": e.Channel,
		}).Warnln("Kick from a channel without a member list")
	}

	b.sendExactToDiscord(e.Channel, fmt.Sprintf("*%s* was kicked by %s (%s)", e.Target, e.Nick, e.Text))
}

func (b *Bridge) onQuit(e Event) {
	if !b.Config.IRCStatusNotices || e.Nick == b.ownNick() {
		return
	}

	for _, channel := range e.Channels {
		if !b.isTarget(channel) {
			continue
		}

		tracked, removed := b.members.remove(channel, e.Nick)
		if !tracked {
			log.WithFields(log.Fields{
				"nick":    e.Nick,
				"channel": channel,
			}).Warnln("Quit in a channel without a member list")
			continue
		}

		// They were not in this channel
		if !removed {
			continue
		}

		b.sendExactToDiscord(channel, fmt.Sprintf("*%s* has quit (%s)", e.Nick, e.Text))
	}
}

func (b *Bridge) onNick(e Event) {
	if !b.Config.IRCStatusNotices || e.Nick == e.Target {
		return
	}

	for _, channel := range b.members.rename(e.Nick, e.Target) {
		b.sendExactToDiscord(channel, fmt.Sprintf("*%s* is now known as %s", e.Nick, e.Target))
	}
}

func (b *Bridge) onNames(e Event) {
	if !b.Config.IRCStatusNotices {
		return
	}

	b.members.replace(e.Channel, e.Names)
	log.WithFields(log.Fields{
		"channel": e.Channel,
		"count":   len(e.Names),
	}).Debugln("Received member list")
}

func (b *Bridge) onInvite(e Event) {
	if !b.isMirrored(e.Channel) {
		log.WithFields(log.Fields{
			"from":    e.Nick,
			"channel": e.Channel,
		}).Infoln("Ignoring invite to a channel we don't mirror")
		return
	}

	log.WithFields(log.Fields{
		"from":    e.Nick,
		"channel": e.Channel,
	}).Infoln("Joining channel after invite")
	b.irc.Join(e.Channel)
}

func (b *Bridge) onRegistered() {
	log.WithField("nick", b.ownNick()).Infoln("Connected and registered to IRC")

	for _, com := range b.Config.AutoSendCommands {
		b.irc.SendRaw(strings.ReplaceAll(com, "${NICK}", b.ownNick()))
	}
}
