package popup

// Event is posted to the embedding frame so it can toggle its own
// interactivity while the popup is on screen.
type Event string

const (
	EventActive Event = "hema-popup-active"
	EventClosed Event = "hema-popup-closed"
)

type Notifier interface {
	Notify(Event)
}

type NotifierFunc func(Event)

func (f NotifierFunc) Notify(e Event) { f(e) }

// ChannelNotifier forwards events to a buffered channel and drops them when
// nobody is reading.
type ChannelNotifier struct {
	C chan Event
}

func NewChannelNotifier(buffer int) *ChannelNotifier {
	return &ChannelNotifier{C: make(chan Event, buffer)}
}

func (n *ChannelNotifier) Notify(e Event) {
	select {
	case n.C <- e:
	default:
	}
}
