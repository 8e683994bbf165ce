// Package notify carries outcome events from the session to whatever renders
// them (the TUI notification strip, logs, tests).
package notify

import (
	"fmt"
	"sync"
	"time"
)

// Kind identifies what happened.
type Kind string

const (
	Added             Kind = "added"
	Merged            Kind = "merged"
	Removed           Kind = "removed"
	Updated           Kind = "updated"
	InsufficientStock Kind = "insufficient_stock"
	FormIncomplete    Kind = "form_incomplete"
	EmptyCartCheckout Kind = "empty_cart_checkout"
	CheckoutCompleted Kind = "checkout_completed"
	FavoriteAdded     Kind = "favorite_added"
	FavoriteRemoved   Kind = "favorite_removed"
)

// Severity selects how an event is presented.
type Severity int

const (
	SeverityInfo Severity = iota
	SeveritySuccess
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeveritySuccess:
		return "success"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	}
	return fmt.Sprintf("severity(%d)", int(s))
}

// SeverityOf returns the default severity for a kind.
func SeverityOf(k Kind) Severity {
	switch k {
	case Added, CheckoutCompleted, FavoriteAdded:
		return SeveritySuccess
	case Removed, FormIncomplete, EmptyCartCheckout:
		return SeverityWarning
	case InsufficientStock:
		return SeverityError
	}
	return SeverityInfo
}

// Event is one outcome notification.
type Event struct {
	Kind      Kind
	Severity  Severity
	Message   string
	ProductID int // 0 when not product-specific
	At        time.Time
}

// New builds an event with the kind's default severity.
func New(kind Kind, productID int, format string, args ...interface{}) Event {
	return Event{
		Kind:      kind,
		Severity:  SeverityOf(kind),
		Message:   fmt.Sprintf(format, args...),
		ProductID: productID,
		At:        time.Now(),
	}
}

// Sink receives events. Implementations must be safe for concurrent use:
// checkout completion notifies from a timer goroutine.
type Sink interface {
	Notify(Event)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Event)

// Notify calls f(e).
func (f SinkFunc) Notify(e Event) { f(e) }

// Discard drops every event.
var Discard Sink = SinkFunc(func(Event) {})

// Multi fans an event out to several sinks in order.
func Multi(sinks ...Sink) Sink {
	return SinkFunc(func(e Event) {
		for _, s := range sinks {
			if s != nil {
				s.Notify(e)
			}
		}
	})
}

// Recorder keeps events in memory, newest last.
type Recorder struct {
	mu     sync.Mutex
	events []Event
	limit  int
}

// NewRecorder returns a recorder that keeps at most limit events (0 = all).
func NewRecorder(limit int) *Recorder {
	return &Recorder{limit: limit}
}

// Notify records e.
func (r *Recorder) Notify(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	if r.limit > 0 && len(r.events) > r.limit {
		r.events = append([]Event(nil), r.events[len(r.events)-r.limit:]...)
	}
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Kinds returns the recorded kinds in order.
func (r *Recorder) Kinds() []Kind {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Kind, len(r.events))
	for i, e := range r.events {
		out[i] = e.Kind
	}
	return out
}

// Last returns the most recent event.
func (r *Recorder) Last() (Event, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.events) == 0 {
		return Event{}, false
	}
	return r.events[len(r.events)-1], true
}

// Reset drops all recorded events.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}
