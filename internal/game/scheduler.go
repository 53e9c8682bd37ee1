package game

import (
	"fmt"

	"ogflight_server/pkg/background"
	"ogflight_server/pkg/logger"
	"ogflight_server/pkg/metrics"
)

// Scheduler :
// Drives the resolution of due events. A background
// process polls the event store at a fixed interval
// and hands each due event to the resolver, one at a
// time so that resolutions never race each other.
//
// The `instance` defines the game instance used to
// resolve events.
//
// The `proc` defines the background process running
// the polling loop.
//
// The `metrics` instrument the resolutions. It can
// be left nil.
type Scheduler struct {
	instance Instance
	proc     *background.Process
	metrics  *metrics.Metrics
}

// NewScheduler :
// Creates a scheduler polling at the interval defined
// by the settings of the input instance.
//
// The `instance` defines the game instance to drive.
//
// The `m` defines the metrics to feed, or nil.
//
// The `log` defines the logger of the polling loop.
//
// Returns the created scheduler.
func NewScheduler(instance Instance, m *metrics.Metrics, log logger.Logger) *Scheduler {
	s := Scheduler{
		instance: instance,
		metrics:  m,
	}

	s.proc = background.NewProcess(instance.Settings.SchedulerInterval, log).
		WithModule("scheduler").
		WithOperation(s.poll)

	return &s
}

// Start :
// Starts the polling loop.
//
// Returns any error.
func (s *Scheduler) Start() error {
	return s.proc.Start()
}

// Stop :
// Stops the polling loop and waits for the current
// iteration to finish.
func (s *Scheduler) Stop() {
	s.proc.Stop()
}

// poll :
// Single iteration of the polling loop: fetch the due
// events and resolve them in order. A failing event
// does not prevent the following ones from being
// resolved.
//
// Returns whether the iteration succeeded along with
// any error.
func (s *Scheduler) poll() (bool, error) {
	now := s.instance.now()

	events, err := s.instance.Events.DueEvents(now)
	if err != nil {
		return false, err
	}

	var failure error

	for _, e := range events {
		if e.Kind != FlightEvent {
			continue
		}

		if s.metrics != nil {
			s.metrics.SchedulerLag.Observe(now.Sub(e.At).Seconds())
		}

		mission := ""
		if f, errF := s.instance.Flights.Flight(e.Subject); errF == nil {
			mission = string(f.Mission)
		}

		err = s.instance.HandleDueEvent(e)
		if err != nil {
			s.instance.trace(logger.Error, fmt.Sprintf("Failed to resolve event \"%s\" (err: %v)", e.ID, err))
			failure = err

			continue
		}

		if s.metrics != nil {
			s.metrics.EventsResolved.WithLabelValues(mission).Inc()
		}
	}

	return failure == nil, failure
}
