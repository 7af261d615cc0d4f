// Package events carries expense-changed notifications from the API server to
// background workers.
//
// Events are deliberately thin: they name the trip and the entity that
// changed, and consumers reload whatever they need from storage. Balances are
// never shipped in an event.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"
)

// Kind says what happened to the entity.
type Kind string

const (
	ExpenseCreated  Kind = "expense.created"
	ExpenseUpdated  Kind = "expense.updated"
	ExpenseDeleted  Kind = "expense.deleted"
	PaymentRecorded Kind = "payment.recorded"
	PaymentDeleted  Kind = "payment.deleted"
	MemberRemoved   Kind = "member.removed"
)

// Event is one ledger change of a trip.
type Event struct {
	TripID   string    `json:"trip_id"`
	Kind     Kind      `json:"kind"`
	EntityID string    `json:"entity_id"`
	At       time.Time `json:"at"`
}

// New returns an event stamped with the current time.
func New(tripID string, kind Kind, entityID string) Event {
	return Event{TripID: tripID, Kind: kind, EntityID: entityID, At: time.Now().UTC()}
}

// ErrMalformed is wrapped by Parse for bodies that can never be processed.
var ErrMalformed = errors.New("malformed event")

// Marshal encodes the event as JSON.
func (e Event) Marshal() ([]byte, error) {
	return json.Marshal(e)
}

// Parse decodes an event and checks the fields consumers rely on.
func Parse(data []byte) (Event, error) {
	var e Event
	if err := json.Unmarshal(data, &e); err != nil {
		return Event{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if e.TripID == "" || e.Kind == "" {
		return Event{}, fmt.Errorf("%w: trip_id and kind are required", ErrMalformed)
	}
	return e, nil
}

// Publisher sends events. Implementations must be safe for concurrent use.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// Noop discards every event. It is used when no broker is configured.
type Noop struct{}

func (Noop) Publish(context.Context, Event) error { return nil }
func (Noop) Close() error                         { return nil }

// Recorder keeps published events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Publish(_ context.Context, e Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *Recorder) Close() error { return nil }

// Events returns a copy of everything published so far.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}
