package game

import (
	"time"
)

// EventKind :
// Identifies the subsystem an event should be handed
// to when it fires. Flights only ever produce events
// of the flight kind but other subsystems share the
// same queue.
type EventKind string

// Define the kinds of events known to the scheduler.
const (
	FlightEvent EventKind = "flight"
)

// Event :
// Describes a scheduled wake-up. Events are durable
// and ordered by their timestamp; when one becomes
// due the scheduler hands it to the subsystem that
// matches its kind.
//
// The `ID` defines the identifier of the event.
//
// The `At` defines the moment the event should fire,
// truncated to whole seconds.
//
// The `Kind` defines the subsystem to invoke.
//
// The `Subject` defines the identifier of the element
// the event refers to. For flight events this is the
// identifier of a flight.
type Event struct {
	ID      string    `json:"id"`
	At      time.Time `json:"at"`
	Kind    EventKind `json:"kind"`
	Subject string    `json:"subject"`
}

// EventStore :
// Provides the persistence operations needed by the
// scheduler. At most one live flight event references
// a given flight at any time, except while the event
// of a party is being handed to another member.
type EventStore interface {
	// Schedule persists the event, retiming it in
	// place when an event with the same identifier
	// already exists.
	Schedule(e Event) error
	Delete(id string) error
	FindByKindAndSubject(kind EventKind, subject string) (Event, error)
	// DueEvents returns the events whose timestamp is
	// not after the input moment, ordered by timestamp.
	DueEvents(now time.Time) ([]Event, error)
}
