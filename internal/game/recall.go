package game

import (
	"fmt"

	"ogflight_server/pkg/logger"

	"github.com/google/uuid"
)

// Recall :
// Turns the input flight back home. The flight has to
// belong to the requester and still be recallable: a
// missile strike never is and any other flight only
// while its arrival lies in the future or, for a hold
// mission, while it loiters over its target.
// A recalled holding fleet stops loitering right away
// and flies home for as long as its outbound trip
// took; a fleet recalled mid-transit flies back for
// exactly as long as it has been underway.
//
// The `flightID` defines the identifier of the flight
// to recall.
//
// The `requester` defines the identifier of the player
// asking for the recall.
//
// Returns the updated flight along with any error.
func (i Instance) Recall(flightID string, requester string) (Flight, error) {
	f, err := i.Flights.Flight(flightID)
	if err != nil {
		return Flight{}, ErrFlightNotFound
	}

	if f.Player != requester {
		return Flight{}, ErrUnauthorizedFlightAccess
	}

	now := i.now()

	if !f.Recallable(now) {
		return Flight{}, ErrFlightNotRecallable
	}

	if f.ArrivalTime != nil && !now.Before(*f.ArrivalTime) {
		// The fleet is holding over its target: end the
		// hold right away, the trip home lasts as long
		// as the outbound trip did.
		arrival := *f.ArrivalTime
		hold := now
		f.HoldUntil = &hold
		f.ReturnTime = now.Add(arrival.Sub(f.DepartureTime))
	} else {
		// Mid-transit: the fleet turns back where it is,
		// so going home takes as long as it has already
		// been flying.
		f.ArrivalTime = nil
		f.HoldUntil = nil
		f.ReturnTime = f.DepartureTime.Add(2 * now.Sub(f.DepartureTime))
	}

	ownsEvent := true
	if f.Party != "" {
		ownsEvent, err = i.detachFromParty(&f)
		if err != nil {
			return Flight{}, err
		}
	}

	err = i.Flights.Update(f)
	if err != nil {
		return Flight{}, err
	}

	if ownsEvent {
		e, err := i.Events.FindByKindAndSubject(FlightEvent, f.ID)
		if err != nil {
			// The event of the flight vanished, which is an
			// anomaly: still steer the flight home with a
			// fresh one.
			i.trace(logger.Fatal, fmt.Sprintf("Flight \"%s\" has no live event, recreating it for recall", f.ID))

			e = Event{
				ID:      uuid.New().String(),
				Kind:    FlightEvent,
				Subject: f.ID,
			}
		}

		e.At = f.ReturnTime

		err = i.Events.Schedule(e)
		if err != nil {
			return Flight{}, err
		}
	} else {
		err = i.Events.Schedule(Event{
			ID:      uuid.New().String(),
			At:      f.ReturnTime,
			Kind:    FlightEvent,
			Subject: f.ID,
		})
		if err != nil {
			return Flight{}, err
		}
	}

	i.trace(logger.Verbose, fmt.Sprintf("Recalled flight \"%s\" (return: %v)", f.ID, f.ReturnTime))

	return f, nil
}

// detachFromParty :
// Removes the input flight from its party before it
// heads home. When the flight carried the shared event
// of the party, the event is handed to the next member
// in creation order; when no member remains the party
// is deleted and the event stays with the flight.
//
// The `f` defines the flight leaving its party.
//
// Returns whether the flight still owns a live event
// along with any error.
func (i Instance) detachFromParty(f *Flight) (bool, error) {
	members, err := i.Flights.FlightsForParty(f.Party)
	if err != nil {
		return false, err
	}

	party := f.Party
	f.Party = ""

	leading := len(members) > 0 && members[0].ID == f.ID

	remaining := make([]Flight, 0, len(members))
	for _, member := range members {
		if member.ID != f.ID {
			remaining = append(remaining, member)
		}
	}

	if !leading {
		// Non-leading members share the event of the
		// leader and so need a fresh one to go home.
		return false, nil
	}

	if len(remaining) == 0 {
		err = i.Parties.Delete(party)
		if err != nil {
			return false, err
		}

		return true, nil
	}

	e, err := i.Events.FindByKindAndSubject(FlightEvent, f.ID)
	if err != nil {
		i.trace(logger.Fatal, fmt.Sprintf("Party \"%s\" has no live event for leading flight \"%s\"", party, f.ID))
		return false, nil
	}

	e.Subject = remaining[0].ID

	err = i.Events.Schedule(e)
	if err != nil {
		return false, err
	}

	return false, nil
}
