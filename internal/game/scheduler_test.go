package game

import (
	"testing"
	"time"

	"ogflight_server/internal/model"
	"ogflight_server/pkg/metrics"
)

func TestScheduler_PollResolvesDueEventsInOrder(t *testing.T) {
	i, w := newTestInstance()

	w.addPlayer("p1", model.TechLevels{})
	w.addBody("b1", "p1", model.NewPlanetCoordinate(1, 100, 5),
		model.Resources{}, model.ShipsCount{})

	// Two flights already due back home and a third one
	// still underway.
	early := w.outboundFlight("f1", "p1", model.Transport, model.NewPlanetCoordinate(1, 100, 8))
	early.ReturnTime = w.now.Add(-100 * time.Second)
	e1 := w.registerFlight(early)
	e1.At = early.ReturnTime
	w.events.events[e1.ID] = e1

	late := w.outboundFlight("f2", "p1", model.Transport, model.NewPlanetCoordinate(1, 100, 8))
	late.ReturnTime = w.now.Add(-10 * time.Second)
	e2 := w.registerFlight(late)
	e2.At = late.ReturnTime
	w.events.events[e2.ID] = e2

	pending := w.outboundFlight("f3", "p1", model.Transport, model.NewPlanetCoordinate(1, 100, 8))
	w.registerFlight(pending)

	// An event of another subsystem shares the queue and
	// should be left alone.
	w.events.events["e-build"] = Event{
		ID:      "e-build",
		At:      w.now.Add(-5 * time.Second),
		Kind:    EventKind("building_upgrade"),
		Subject: "b1",
	}

	s := NewScheduler(i, metrics.New(), i.Log)

	ok, err := s.poll()
	if err != nil {
		t.Fatalf("poll: %v", err)
	}
	if !ok {
		t.Fatalf("poll should succeed")
	}

	if _, present := w.flights.flights["f1"]; present {
		t.Fatalf("due flight f1 should be resolved")
	}
	if _, present := w.flights.flights["f2"]; present {
		t.Fatalf("due flight f2 should be resolved")
	}
	if _, present := w.flights.flights["f3"]; !present {
		t.Fatalf("pending flight f3 should be left alone")
	}

	if _, present := w.events.events["e-build"]; !present {
		t.Fatalf("foreign events should be left alone")
	}

	if w.reports.returns != 2 {
		t.Fatalf("return reports: got %d want 2", w.reports.returns)
	}
}

func TestScheduler_PollSkipsFailingEvent(t *testing.T) {
	i, w := newTestInstance()

	w.addPlayer("p1", model.TechLevels{})
	w.addBody("b1", "p1", model.NewPlanetCoordinate(1, 100, 5),
		model.Resources{}, model.ShipsCount{})

	// An orphaned event resolves cleanly by dropping the
	// event, so the due flight after it is still handled.
	w.events.events["orphan"] = Event{
		ID:      "orphan",
		At:      w.now.Add(-60 * time.Second),
		Kind:    FlightEvent,
		Subject: "ghost",
	}

	f := w.outboundFlight("f1", "p1", model.Transport, model.NewPlanetCoordinate(1, 100, 8))
	f.ReturnTime = w.now.Add(-10 * time.Second)
	e := w.registerFlight(f)
	e.At = f.ReturnTime
	w.events.events[e.ID] = e

	ok, err := (&Scheduler{instance: i}).poll()
	if err != nil {
		t.Fatalf("poll: %v", err)
	}
	if !ok {
		t.Fatalf("poll should succeed")
	}

	if _, present := w.flights.flights["f1"]; present {
		t.Fatalf("due flight should be resolved")
	}
	if _, present := w.events.events["orphan"]; present {
		t.Fatalf("orphaned event should be dropped")
	}
}
