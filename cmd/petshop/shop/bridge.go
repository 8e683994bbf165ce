package shop

import (
	"petshop/internal/logging"
	"petshop/internal/notify"
	"petshop/internal/session"

	tea "github.com/charmbracelet/bubbletea"
)

const bridgeBuffer = 64

// Bridge forwards session events and navigation intents into the bubbletea
// program. It is both the session's notify.Sink and its Navigator.
type Bridge struct {
	events chan notify.Event
	pages  chan session.Page
}

// NewBridge creates a bridge with buffered channels.
func NewBridge() *Bridge {
	return &Bridge{
		events: make(chan notify.Event, bridgeBuffer),
		pages:  make(chan session.Page, bridgeBuffer),
	}
}

// Notify queues an event. When the UI has fallen this far behind the event
// is dropped rather than blocking the session.
func (b *Bridge) Notify(e notify.Event) {
	select {
	case b.events <- e:
	default:
		logging.Get(logging.CategoryUI).Warn("dropping notification %s: queue full", e.Kind)
	}
}

// Navigate queues a navigation intent.
func (b *Bridge) Navigate(p session.Page) {
	select {
	case b.pages <- p:
	default:
		logging.Get(logging.CategoryUI).Warn("dropping navigation to %s: queue full", p)
	}
}

type eventMsg notify.Event

type navigateMsg session.Page

func (b *Bridge) nextEvent() tea.Cmd {
	return func() tea.Msg {
		return eventMsg(<-b.events)
	}
}

func (b *Bridge) nextPage() tea.Cmd {
	return func() tea.Msg {
		return navigateMsg(<-b.pages)
	}
}
