package bridge

// EventKind tags an Event.
type EventKind int

const (
	EventMessage EventKind = iota
	EventNotice
	EventAction
	EventJoin
	EventPart
	EventQuit
	EventNames
	EventInvite
	EventRegistered
	EventError
	EventKick
	EventNick
)

var eventKindNames = [...]string{
	"message", "notice", "action", "join", "part", "quit",
	"names", "invite", "registered", "error", "kick", "nick",
}

func (k EventKind) String() string {
	if int(k) < len(eventKindNames) {
		return eventKindNames[k]
	}
	return "unknown"
}

// An Event is something that happened on IRC. Which fields are set depends on Kind.
type Event struct {
	Kind EventKind

	// Nick is the user who caused the event. For EventKick it is the kicker.
	Nick    string
	Channel string

	// Channels the user shared with the bridge, for EventQuit
	Channels []string

	// Text is the message, part/quit/kick reason or error
	Text string

	// Target is the kicked user for EventKick, or the new nick for EventNick
	Target string

	// Names is the full member list for EventNames, without mode prefixes
	Names []string
}
