package bridge

import (
	"crypto/tls"
	stdlog "log"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	irc "github.com/qaisjp/go-ircevent"
	log "github.com/sirupsen/logrus"
)

const (
	reconnectBaseDelay = 1 * time.Second
	reconnectMaxDelay  = 30 * time.Second
)

// An ircListener is the bridge's IRC session. It turns go-ircevent callbacks
// into a single ordered Event stream and throttles outgoing lines.
type ircListener struct {
	conn      *irc.Connection
	settings  IRCSettings
	connected bool // set once by Connect

	events chan Event
	out    chan string

	done     chan struct{}
	quitOnce sync.Once

	// up is closed while the connection can take writes.
	// supervise swaps in a fresh one whenever the link drops.
	linkMu sync.Mutex
	up     chan struct{}

	mu     sync.Mutex
	joined map[string]struct{} // channels we are in
	names  map[string][]string // NAMES replies still being received
}

// NewIRCListener returns an IRCClient backed by github.com/qaisjp/go-ircevent.
func NewIRCListener() IRCClient {
	return &ircListener{
		events: make(chan Event, 64),
		out:    make(chan string, 256),
		done:   make(chan struct{}),
		up:     make(chan struct{}),
		joined: make(map[string]struct{}),
		names:  make(map[string][]string),
	}
}

func (i *ircListener) Events() <-chan Event {
	return i.events
}

func (i *ircListener) GetNick() string {
	if i.conn == nil {
		return ""
	}
	return i.conn.GetNick()
}

// Connect dials the server, retrying up to settings.RetryCount times,
// and keeps the session alive afterwards with the same retry budget.
func (i *ircListener) Connect(settings IRCSettings) error {
	i.settings = settings

	con := irc.IRC(settings.Nickname, settings.Nickname)
	con.RealName = settings.RealName
	con.Password = settings.Password
	con.QuitMessage = "Bridge shutting down"
	con.Log = stdlog.New(log.StandardLogger().WriterLevel(log.DebugLevel), "irc: ", 0)

	if settings.UseTLS {
		con.UseTLS = true
		con.TLSConfig = &tls.Config{
			InsecureSkipVerify: settings.InsecureSkipVerify,
		}
	}

	if settings.Debug {
		con.VerboseCallbackHandler = true
		con.Debug = true
	}

	i.conn = con
	i.addCallbacks()

	var err error
	for attempt := 0; attempt <= settings.RetryCount; attempt++ {
		if attempt > 0 {
			time.Sleep(reconnectDelay(attempt))
		}

		if err = con.Connect(settings.Server); err == nil {
			break
		}

		log.WithError(err).WithField("attempt", attempt+1).Warnln("Could not connect to IRC")
	}
	if err != nil {
		return errors.Wrapf(err, "could not connect to %s", settings.Server)
	}

	i.connected = true
	i.setLinkUp()

	var delay time.Duration
	if settings.FloodProtection {
		delay = settings.FloodProtectionDelay
	}

	go i.supervise()
	go i.drain(delay)

	return nil
}

// reconnectDelay doubles from reconnectBaseDelay up to reconnectMaxDelay.
func reconnectDelay(attempt int) time.Duration {
	delay := reconnectBaseDelay
	for n := 1; n < attempt && delay < reconnectMaxDelay; n++ {
		delay *= 2
	}
	if delay > reconnectMaxDelay {
		delay = reconnectMaxDelay
	}
	return delay
}

func (i *ircListener) setLinkUp() {
	i.linkMu.Lock()
	close(i.up)
	i.linkMu.Unlock()
}

func (i *ircListener) setLinkDown() {
	i.linkMu.Lock()
	i.up = make(chan struct{})
	i.linkMu.Unlock()
}

func (i *ircListener) linkUp() <-chan struct{} {
	i.linkMu.Lock()
	defer i.linkMu.Unlock()
	return i.up
}

func (i *ircListener) isLinkUp() bool {
	select {
	case <-i.linkUp():
		return true
	default:
		return false
	}
}

// supervise mirrors irc.Connection.Loop, but gives up after RetryCount failed reconnects.
func (i *ircListener) supervise() {
	errChan := i.conn.ErrorChan()

	for {
		select {
		case <-i.done:
			return
		case err := <-errChan:
			if i.quitting() {
				return
			}
			log.WithError(err).Errorln("IRC connection lost")

			i.setLinkDown()

			// Stop the old read, write and ping loops and close the socket.
			// Disconnect reports ErrDisconnected on the old error channel,
			// which is replaced by a successful Reconnect.
			i.conn.Disconnect()

			i.mu.Lock()
			i.joined = make(map[string]struct{})
			i.names = make(map[string][]string)
			i.mu.Unlock()

			reconnected := false
			for attempt := 1; attempt <= i.settings.RetryCount && !i.quitting(); attempt++ {
				time.Sleep(reconnectDelay(attempt))

				if err := i.conn.Reconnect(); err != nil {
					log.WithError(err).WithField("attempt", attempt).Warnln("Could not reconnect to IRC")
					continue
				}

				reconnected = true
				break
			}

			if !reconnected {
				if !i.quitting() {
					log.WithField("retries", i.settings.RetryCount).Errorln("Giving up on reconnecting to IRC")
				}
				return
			}

			errChan = i.conn.ErrorChan()
			i.setLinkUp()
			log.Infoln("Reconnected to IRC")
		}
	}
}

func (i *ircListener) quitting() bool {
	select {
	case <-i.done:
		return true
	default:
		return false
	}
}

// drain is the only writer to the connection. It holds lines while the link
// is down and waits delay between each write.
func (i *ircListener) drain(delay time.Duration) {
	for {
		select {
		case <-i.done:
			return
		case line := <-i.out:
			select {
			case <-i.done:
				return
			case <-i.linkUp():
			}

			i.write(line)
			if delay > 0 {
				time.Sleep(delay)
			}
		}
	}
}

// write hands line to go-ircevent. Disconnect closes the write channel under a
// writer that is already blocked on it, so that panic only costs the line.
func (i *ircListener) write(line string) {
	defer func() {
		if r := recover(); r != nil {
			log.WithField("line", line).Warnln("IRC connection dropped while sending, line lost")
		}
	}()
	i.conn.SendRaw(line)
}

func (i *ircListener) SendRaw(line string) {
	if !i.connected {
		log.WithField("line", line).Warnln("Dropping IRC line, not connected")
		return
	}

	select {
	case i.out <- line:
	case <-i.done:
	default:
		log.WithField("line", line).Warnln("Dropping IRC line, send queue is full")
	}
}

func (i *ircListener) Join(channel string) {
	i.SendRaw("JOIN " + channel)
}

func (i *ircListener) Privmsg(target, message string) {
	i.SendRaw("PRIVMSG " + target + " :" + message)
}

// Quit sends QUIT straight away, skipping anything still queued.
func (i *ircListener) Quit() {
	i.quitOnce.Do(func() {
		close(i.done)
		if i.connected && i.isLinkUp() {
			defer func() { recover() }()
			i.conn.Quit()
		}
	})
}

func (i *ircListener) emit(e Event) {
	select {
	case i.events <- e:
	case <-i.done:
	}
}

func (i *ircListener) isSelf(nick string) bool {
	return nick == i.conn.GetNick()
}

func (i *ircListener) addCallbacks() {
	con := i.conn

	// Welcome event
	con.AddCallback("001", func(e *irc.Event) {
		i.emit(Event{Kind: EventRegistered})
	})

	// End of MOTD, or no MOTD at all
	con.AddCallback("376", i.onMOTDEnd)
	con.AddCallback("422", i.onMOTDEnd)

	con.AddCallback("PRIVMSG", func(e *irc.Event) { i.onMessage(EventMessage, e) })
	con.AddCallback("CTCP_ACTION", func(e *irc.Event) { i.onMessage(EventAction, e) })
	con.AddCallback("NOTICE", func(e *irc.Event) { i.onMessage(EventNotice, e) })

	con.AddCallback("JOIN", i.onJoin)
	con.AddCallback("PART", i.onPart)
	con.AddCallback("KICK", i.onKick)
	con.AddCallback("QUIT", i.onQuit)
	con.AddCallback("NICK", i.onNick)
	con.AddCallback("INVITE", i.onInvite)

	// RPL_NAMREPLY and RPL_ENDOFNAMES
	con.AddCallback("353", i.onNamesReply)
	con.AddCallback("366", i.onNamesEnd)

	con.AddCallback("ERROR", func(e *irc.Event) {
		i.emit(Event{Kind: EventError, Text: e.Message()})
	})
}

func (i *ircListener) onMOTDEnd(e *irc.Event) {
	for _, channel := range i.settings.Channels {
		i.Join(channel)
	}
}

func (i *ircListener) onMessage(kind EventKind, e *irc.Event) {
	if len(e.Arguments) == 0 {
		return
	}

	// Ignore private messages and server notices
	target := e.Arguments[0]
	if !isChannelName(target) || e.Nick == "" {
		return
	}

	i.emit(Event{Kind: kind, Nick: e.Nick, Channel: target, Text: e.Message()})
}

func (i *ircListener) onJoin(e *irc.Event) {
	if len(e.Arguments) == 0 {
		return
	}
	channel := e.Arguments[0]

	if i.isSelf(e.Nick) {
		i.mu.Lock()
		i.joined[normalizeChannel(channel)] = struct{}{}
		i.mu.Unlock()
		log.WithField("channel", channel).Infoln("Listener has joined IRC channel")
	}

	i.emit(Event{Kind: EventJoin, Nick: e.Nick, Channel: channel})
}

func (i *ircListener) onPart(e *irc.Event) {
	if len(e.Arguments) == 0 {
		return
	}
	channel := e.Arguments[0]

	var reason string
	if len(e.Arguments) > 1 {
		reason = e.Message()
	}

	if i.isSelf(e.Nick) {
		i.leave(channel)
	}

	i.emit(Event{Kind: EventPart, Nick: e.Nick, Channel: channel, Text: reason})
}

func (i *ircListener) onKick(e *irc.Event) {
	if len(e.Arguments) < 2 {
		return
	}
	channel, victim := e.Arguments[0], e.Arguments[1]

	var reason string
	if len(e.Arguments) > 2 {
		reason = e.Message()
	}

	i.emit(Event{Kind: EventKick, Nick: e.Nick, Channel: channel, Target: victim, Text: reason})

	// On kick, rejoin the channel
	if i.isSelf(victim) {
		i.leave(channel)
		i.Join(channel)
	}
}

func (i *ircListener) leave(channel string) {
	i.mu.Lock()
	delete(i.joined, normalizeChannel(channel))
	i.mu.Unlock()
}

// onQuit reports the quit against every channel we are in; the bridge knows who was where.
func (i *ircListener) onQuit(e *irc.Event) {
	i.mu.Lock()
	channels := make([]string, 0, len(i.joined))
	for channel := range i.joined {
		channels = append(channels, channel)
	}
	i.mu.Unlock()
	sort.Strings(channels)

	i.emit(Event{Kind: EventQuit, Nick: e.Nick, Channels: channels, Text: e.Message()})
}

func (i *ircListener) onNick(e *irc.Event) {
	i.emit(Event{Kind: EventNick, Nick: e.Nick, Target: e.Message()})
}

func (i *ircListener) onInvite(e *irc.Event) {
	if len(e.Arguments) < 2 {
		return
	}
	i.emit(Event{Kind: EventInvite, Nick: e.Nick, Channel: e.Arguments[1]})
}

// onNamesReply collects one line of a NAMES reply: <me> <type> <channel> :<nicks>
func (i *ircListener) onNamesReply(e *irc.Event) {
	if len(e.Arguments) < 4 {
		return
	}
	channel := normalizeChannel(e.Arguments[2])

	i.mu.Lock()
	defer i.mu.Unlock()
	for _, nick := range strings.Fields(e.Message()) {
		// Discard the permission prefixes
		nick = strings.TrimLeft(nick, "~&@%+")
		if nick != "" {
			i.names[channel] = append(i.names[channel], nick)
		}
	}
}

// onNamesEnd emits the collected NAMES reply: <me> <channel> :End of /NAMES list.
func (i *ircListener) onNamesEnd(e *irc.Event) {
	if len(e.Arguments) < 2 {
		return
	}
	channel := e.Arguments[1]
	key := normalizeChannel(channel)

	i.mu.Lock()
	names := i.names[key]
	delete(i.names, key)
	i.mu.Unlock()

	i.emit(Event{Kind: EventNames, Channel: channel, Names: names})
}
