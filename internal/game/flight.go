package game

import (
	"time"

	"ogflight_server/internal/model"
)

// Flight :
// Describes a single fleet that is in transit or on its
// way back home. It regroups the composition of the
// fleet, its payload and the timeline of the trip.
//
// The `ID` defines the identifier of the flight.
//
// The `Player` defines the identifier of the player
// owning the flight.
//
// The `Origin` defines the identifier of the body the
// flight departed from and will return to.
//
// The `Source` defines the coordinate of the origin
// body at departure time.
//
// The `Target` defines the coordinate the flight is
// directed at. Colonization and harvest missions do
// not target an inhabited body so no body identifier
// is kept, the coordinate is always resolved when the
// flight is processed.
//
// The `Party` defines the identifier of the party the
// flight belongs to, or an empty string for a solo
// flight. Only attack and destroy missions can belong
// to a party.
//
// The `Mission` defines the objective of the flight.
//
// The `Ships` define the composition of the fleet.
// Counts are always positive, entries reaching `0`
// are pruned.
//
// The `Cargo` defines the resources loaded in the
// bays of the fleet.
//
// The `SpeedFactor` defines the fraction of the max
// speed selected by the player, in tenths (so in the
// range `[1; 10]`).
//
// The `CreatedAt` defines the moment the flight was
// registered. It orders the members of a party.
//
// The `DepartureTime` defines the moment the fleet
// left its origin body.
//
// The `ArrivalTime` defines the moment the fleet
// reaches its target. It is cleared when the flight
// is recalled before arrival.
//
// The `HoldUntil` defines the moment a holding fleet
// stops loitering over its target. It is only set
// for hold missions.
//
// The `ReturnTime` defines the moment the fleet is
// back home. It is always set and always strictly
// after the departure.
//
// The `Missiles` define the number of missiles fired
// by a missile strike. It is `0` for any other
// mission, whose composition lives in `Ships`.
//
// The `MainTarget` defines the defense system aimed
// at in priority by a missile strike. It is empty
// for any other mission.
type Flight struct {
	ID          string            `json:"id"`
	Player      string            `json:"player"`
	Origin      string            `json:"origin"`
	Source      model.Coordinate  `json:"source"`
	Target      model.Coordinate  `json:"target"`
	Party       string            `json:"party,omitempty"`
	Mission     model.Mission     `json:"mission"`
	Ships       model.ShipsCount  `json:"ships"`
	Cargo       model.Resources   `json:"cargo"`
	SpeedFactor int               `json:"speed_factor"`
	Missiles    int               `json:"missiles,omitempty"`
	MainTarget  model.DefenseUnit `json:"main_target,omitempty"`

	CreatedAt     time.Time  `json:"created_at"`
	DepartureTime time.Time  `json:"departure_time"`
	ArrivalTime   *time.Time `json:"arrival_time,omitempty"`
	HoldUntil     *time.Time `json:"hold_until,omitempty"`
	ReturnTime    time.Time  `json:"return_time"`
}

// FlightStore :
// Provides the persistence operations needed to handle
// flights. The production implementation is backed by
// the DB while tests provide in-memory versions.
type FlightStore interface {
	Flight(id string) (Flight, error)
	FlightsForPlayer(player string) ([]Flight, error)
	// FlightsForParty returns the members of the party
	// ordered by creation time, identifiers breaking
	// ties.
	FlightsForParty(party string) ([]Flight, error)
	// HoldingFlightsAt returns the flights loitering
	// over the input coordinate at the input moment,
	// which excludes hold flights still in transit or
	// already heading home.
	HoldingFlightsAt(target model.Coordinate, at time.Time) ([]Flight, error)
	Create(f Flight) error
	Update(f Flight) error
	Delete(id string) error
}

// Returning :
// Determines whether the flight is on its way home,
// which is the case when its arrival was cleared by a
// recall or when the arrival already fired.
//
// The `now` defines the moment to evaluate.
//
// Returns `true` if the flight is heading home.
func (f Flight) Returning(now time.Time) bool {
	if f.ArrivalTime == nil {
		return true
	}

	limit := *f.ArrivalTime
	if f.HoldUntil != nil {
		limit = *f.HoldUntil
	}

	return now.After(limit)
}

// Recallable :
// Determines whether the owner can still call this
// flight back. Missiles cannot be recalled at all,
// other flights can be recalled while their arrival
// lies in the future and holding fleets can also be
// recalled while they loiter over their target.
//
// The `now` defines the moment to evaluate.
//
// Returns `true` if the flight can be recalled.
func (f Flight) Recallable(now time.Time) bool {
	if !f.Mission.Recallable() {
		return false
	}

	if f.ArrivalTime == nil {
		return false
	}

	if now.Before(*f.ArrivalTime) {
		return true
	}

	if f.Mission == model.Hold && f.HoldUntil != nil && now.Before(*f.HoldUntil) {
		return true
	}

	return false
}
