package bridge

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeIRC struct {
	mu sync.Mutex

	nick     string
	settings *IRCSettings
	events   chan Event

	joins    []string
	raw      []string
	privmsgs []string
	quit     bool
}

func newFakeIRC(nick string) *fakeIRC {
	return &fakeIRC{nick: nick, events: make(chan Event)}
}

func (f *fakeIRC) Connect(settings IRCSettings) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.settings = &settings
	return nil
}

func (f *fakeIRC) Events() <-chan Event { return f.events }
func (f *fakeIRC) GetNick() string      { return f.nick }

func (f *fakeIRC) Join(channel string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.joins = append(f.joins, channel)
}

func (f *fakeIRC) SendRaw(line string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.raw = append(f.raw, line)
}

func (f *fakeIRC) Privmsg(target, message string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.privmsgs = append(f.privmsgs, target+" "+message)
}

func (f *fakeIRC) Quit() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.quit = true
}

type sentMessage struct {
	Username string
	Content  string
}

type fakeSink struct {
	sent []sentMessage
}

func (s *fakeSink) Send(username, content string) {
	s.sent = append(s.sent, sentMessage{username, content})
}

// upperFormatter makes it obvious whether a relay went through the formatter.
type upperFormatter struct{}

func (upperFormatter) IRCToDiscord(text string) string { return "fmt:" + text }
func (upperFormatter) DiscordToIRC(text string) string { return "irc:" + text }

const testNick = "relaybot"

func testConfig() *Config {
	return &Config{
		IRCNickname:         testNick,
		IRCServer:           "irc.example.org:6697",
		IRCChannel:          "#test",
		DiscordWebhookID:    "1234",
		DiscordWebhookToken: "secret",
		IRCStatusNotices:    true,
	}
}

func newTestBridge(t *testing.T, mutate func(c *Config)) (*Bridge, *fakeIRC, *fakeSink) {
	t.Helper()

	conf := testConfig()
	if mutate != nil {
		mutate(conf)
	}

	irc := newFakeIRC(testNick)
	sink := &fakeSink{}

	b, err := New(conf, irc, sink, upperFormatter{})
	require.NoError(t, err)

	return b, irc, sink
}

func exact(content string) sentMessage {
	return sentMessage{Content: content}
}
