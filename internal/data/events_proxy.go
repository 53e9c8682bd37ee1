package data

import (
	"fmt"
	"time"

	"ogflight_server/internal/game"
	"ogflight_server/pkg/db"
	"ogflight_server/pkg/logger"
)

// EventsProxy :
// DB backed implementation of the event store. Events
// survive a restart of the server: on startup the
// scheduler simply picks up the due ones from the
// `events` table.
type EventsProxy struct {
	commonProxy
}

// NewEventsProxy :
// Creates a proxy serving events from the input DB.
//
// The `dbase` defines the DB to use to fetch data.
//
// The `log` allows to notify errors and information.
//
// Returns the created proxy.
func NewEventsProxy(dbase *db.DB, log logger.Logger) *EventsProxy {
	return &EventsProxy{
		commonProxy: newCommonProxy(dbase, log, "events"),
	}
}

// fetchEvents :
// Fetches the events matching the input filters.
//
// The `filters` restrain the events to fetch.
//
// The `ordering` defines an optional `order by` clause.
//
// Returns the fetched events along with any error.
func (p *EventsProxy) fetchEvents(filters []db.Filter, ordering string) ([]game.Event, error) {
	query := db.QueryDesc{
		Props: []string{
			"id",
			"at",
			"kind",
			"subject",
		},
		Table:    "events",
		Filters:  filters,
		Ordering: ordering,
	}

	res, err := p.proxy.FetchFromDB(query)
	defer res.Close()

	if err != nil {
		return nil, err
	}
	if res.Err != nil {
		return nil, res.Err
	}

	events := make([]game.Event, 0)

	for res.Next() {
		var e game.Event
		var kind string

		err = res.Scan(
			&e.ID,
			&e.At,
			&kind,
			&e.Subject,
		)
		if err != nil {
			return nil, err
		}

		e.Kind = game.EventKind(kind)

		events = append(events, e)
	}

	return events, nil
}

// Schedule :
// Persists the input event, retiming it in place when
// an event with the same identifier already exists.
//
// The `e` defines the event to persist.
//
// Returns any error.
func (p *EventsProxy) Schedule(e game.Event) error {
	err := p.proxy.InsertToDB(db.InsertReq{
		Script: "schedule_event",
		Args:   []interface{}{e},
	})
	if err != nil {
		p.trace(logger.Error, fmt.Sprintf("Could not schedule event \"%s\" (err: %v)", e.ID, err))
	}

	return err
}

// Delete :
// Removes the input event.
//
// The `id` defines the identifier of the event.
//
// Returns any error.
func (p *EventsProxy) Delete(id string) error {
	err := p.proxy.InsertToDB(db.InsertReq{
		Script:     "delete_event",
		Args:       []interface{}{id},
		SkipReturn: true,
	})
	if err != nil {
		p.trace(logger.Error, fmt.Sprintf("Could not delete event \"%s\" (err: %v)", id, err))
	}

	return err
}

// FindByKindAndSubject :
// Fetches the live event with the input kind referring
// to the input subject.
//
// The `kind` defines the kind of the event.
//
// The `subject` defines the identifier of the element
// the event refers to.
//
// Returns the event along with any error.
func (p *EventsProxy) FindByKindAndSubject(kind game.EventKind, subject string) (game.Event, error) {
	events, err := p.fetchEvents(
		[]db.Filter{
			{Key: "kind", Values: []interface{}{string(kind)}},
			{Key: "subject", Values: []interface{}{subject}},
		},
		"at",
	)
	if err != nil {
		return game.Event{}, err
	}

	if len(events) == 0 {
		return game.Event{}, fmt.Errorf("no live event with kind \"%s\" for \"%s\"", kind, subject)
	}

	return events[0], nil
}

// DueEvents :
// Fetches the events whose timestamp is not after the
// input moment, ordered by timestamp.
//
// The `now` defines the moment to evaluate.
//
// Returns the due events along with any error.
func (p *EventsProxy) DueEvents(now time.Time) ([]game.Event, error) {
	return p.fetchEvents(
		[]db.Filter{
			{Key: "at", Values: []interface{}{now}, Operator: db.LessThan},
		},
		"at",
	)
}
