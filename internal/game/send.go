package game

import (
	"fmt"
	"math"
	"time"

	"ogflight_server/internal/model"
	"ogflight_server/pkg/logger"

	"github.com/google/uuid"
)

// SendRequest :
// Regroups the parameters of a dispatch request as
// provided by the player.
//
// The `Source` defines the identifier of the body the
// fleet departs from.
//
// The `Mission` defines the objective of the flight.
// It is overridden by the mission of the party when a
// party is joined.
//
// The `Target` defines the coordinate the flight is
// directed at. It is overridden by the target of the
// party when a party is joined.
//
// The `Party` defines the identifier of the party to
// join, or an empty string for a solo flight.
//
// The `Ships` define the requested composition. It is
// filtered against what the body actually hosts.
//
// The `Cargo` defines the requested payload. Amounts
// are clamped against the capacity of the fleet and
// the stock of the body.
//
// The `SpeedFactor` defines the fraction of the max
// speed to fly at, in tenths (range `[1; 10]`).
//
// The `HoldHours` define how long a hold mission
// loiters over its target.
type SendRequest struct {
	Source      string           `json:"source"`
	Mission     model.Mission    `json:"mission"`
	Target      model.Coordinate `json:"target"`
	Party       string           `json:"party,omitempty"`
	Ships       model.ShipsCount `json:"ships"`
	Cargo       model.Resources  `json:"cargo"`
	SpeedFactor int              `json:"speed_factor"`
	HoldHours   int              `json:"hold_hours,omitempty"`
}

// requiredShips :
// The ship a fleet has to include per mission.
var requiredShips = map[model.Mission]model.Ship{
	model.Colonization: model.ColonyShip,
	model.Espionage:    model.EspionageProbe,
	model.Harvest:      model.Recycler,
}

// Send :
// Validates the input dispatch request and creates the
// corresponding flight along with its arrival event.
// The preconditions are checked in a fixed order, each
// failing with its own error so that the caller can
// report a precise reason. Fuel, cargo and ships are
// deducted from the origin body atomically with the
// checks thanks to the per-body lock.
//
// The `req` defines the dispatch request.
//
// Returns the created flight along with any error.
func (i Instance) Send(req SendRequest) (Flight, error) {
	if !req.Mission.Valid() || req.Mission == model.MissileAttack {
		return Flight{}, ErrInvalidMission
	}

	release := i.lockBody(req.Source)
	defer release()

	body, err := i.Bodies.Body(req.Source)
	if err != nil {
		return Flight{}, err
	}

	player, err := i.Players.Player(body.Player)
	if err != nil {
		return Flight{}, err
	}

	occupied, err := i.OccupiedSlots(player.ID)
	if err != nil {
		return Flight{}, err
	}
	if occupied >= player.Techs.FleetSlots() {
		return Flight{}, ErrSlotsExhausted
	}

	mission := req.Mission
	target := req.Target
	var party Party

	if req.Party != "" {
		if mission != model.Attack && mission != model.Destroy {
			return Flight{}, ErrInvalidMission
		}

		party, err = i.Parties.Party(req.Party)
		if err != nil {
			return Flight{}, ErrPartyNotFound
		}

		if !party.CanJoin(player.ID) {
			return Flight{}, ErrUnauthorizedPartyAccess
		}

		mission = party.Mission
		target = party.Target
	}

	if target == body.Coordinate {
		return Flight{}, ErrInvalidTarget
	}

	ships := filterShips(req.Ships, body.Ships)
	if ships.Empty() {
		return Flight{}, ErrNoUnitsSelected
	}

	if mission == model.Hold && req.HoldHours <= 0 {
		return Flight{}, ErrHoldTimeMissing
	}

	if required, ok := requiredShips[mission]; ok && ships.Count(required) == 0 {
		return Flight{}, ErrMissingRequiredUnit
	}

	if !mission.ValidTarget(target) {
		return Flight{}, ErrInvalidTarget
	}

	targetBody, err := i.checkTargetExistence(mission, target, player)
	if err != nil {
		return Flight{}, err
	}

	if targetBody != nil {
		err = i.checkTargetRelationship(mission, *targetBody, player)
		if err != nil {
			return Flight{}, err
		}
	}

	factor := clampFactor(req.SpeedFactor)
	speed := FleetSpeed(ships, player.Techs)
	distance := Distance(i.Settings, body.Coordinate, target)
	duration := FlightDuration(i.Settings, distance, speed, factor)
	fuel := FuelConsumption(ships, player.Techs, distance, speed, factor)

	if fuel > body.Resources.Deuterium {
		return Flight{}, ErrInsufficientFuel
	}

	capacity := CargoCapacity(ships, fuel)
	if capacity < 0 {
		return Flight{}, ErrInsufficientCapacity
	}

	available := body.Resources
	available.Deuterium -= fuel
	cargo := clampCargo(req.Cargo, capacity, available)

	// Re-validate the selection against the live counts
	// right before deducting.
	live, err := i.Bodies.Body(req.Source)
	if err != nil {
		return Flight{}, err
	}
	for ship, count := range ships {
		if live.Ships.Count(ship) < count {
			return Flight{}, ErrInsufficientUnits
		}
	}

	now := i.now()

	flight := Flight{
		ID:            uuid.New().String(),
		Player:        player.ID,
		Origin:        body.ID,
		Source:        body.Coordinate,
		Target:        target,
		Party:         req.Party,
		Mission:       mission,
		Ships:         ships,
		Cargo:         cargo,
		SpeedFactor:   factor,
		CreatedAt:     now,
		DepartureTime: now,
	}

	if req.Party != "" {
		err = i.joinParty(&flight, party, now, duration)
	} else {
		i.assignSoloTimeline(&flight, now, duration, req.HoldHours)
	}
	if err != nil {
		return Flight{}, err
	}

	live.Resources = live.Resources.Sub(cargo)
	live.Resources.Deuterium -= fuel
	live.Ships = deductShips(live.Ships, ships)

	err = i.Bodies.Update(live)
	if err != nil {
		return Flight{}, err
	}

	err = i.Flights.Create(flight)
	if err != nil {
		return Flight{}, err
	}

	if req.Party == "" {
		err = i.Events.Schedule(Event{
			ID:      uuid.New().String(),
			At:      *flight.ArrivalTime,
			Kind:    FlightEvent,
			Subject: flight.ID,
		})
		if err != nil {
			return Flight{}, err
		}
	}

	i.trace(logger.Verbose, fmt.Sprintf("Dispatched flight \"%s\" (mission: %s, target: %s, arrival: %v)", flight.ID, flight.Mission, flight.Target, flight.ArrivalTime))

	return flight, nil
}

// SendProbes :
// Convenience dispatch of an espionage flight carrying
// only probes at full speed with no cargo.
//
// The `source` defines the identifier of the origin
// body.
//
// The `target` defines the coordinate to spy on.
//
// The `count` defines the number of probes to commit.
//
// Returns the created flight along with any error.
func (i Instance) SendProbes(source string, target model.Coordinate, count int) (Flight, error) {
	return i.Send(SendRequest{
		Source:  source,
		Mission: model.Espionage,
		Target:  target,
		Ships: model.ShipsCount{
			model.EspionageProbe: count,
		},
		SpeedFactor: 10,
	})
}

// OccupiedSlots :
// Counts the fleets the input player currently has
// underway.
//
// The `player` defines the identifier of the player.
//
// Returns the number of occupied slots along with any
// error.
func (i Instance) OccupiedSlots(player string) (int, error) {
	flights, err := i.Flights.FlightsForPlayer(player)
	if err != nil {
		return 0, err
	}

	return len(flights), nil
}

// MaxSlots :
// Computes the number of fleets the input player can
// keep underway given their researches.
//
// The `player` defines the identifier of the player.
//
// Returns the number of slots along with any error.
func (i Instance) MaxSlots(player string) (int, error) {
	p, err := i.Players.Player(player)
	if err != nil {
		return 0, err
	}

	return p.Techs.FleetSlots(), nil
}

// FlyableShip :
// Describes a type of ship available for dispatch on
// a body, with its stats adjusted for the researches
// of the owner.
type FlyableShip struct {
	Ship  model.Ship `json:"ship"`
	Count int        `json:"count"`
	Cargo int        `json:"cargo"`
	Speed float64    `json:"speed"`
}

// FlyableShips :
// Lists the ships docked at the input body that can
// be part of a fleet, with their effective speed.
//
// The `body` defines the identifier of the body.
//
// Returns the list of flyable ships along with any
// error.
func (i Instance) FlyableShips(body string) ([]FlyableShip, error) {
	b, err := i.Bodies.Body(body)
	if err != nil {
		return nil, err
	}

	p, err := i.Players.Player(b.Player)
	if err != nil {
		return nil, err
	}

	out := make([]FlyableShip, 0)

	for ship, count := range b.Ships {
		desc, err := ship.Desc()
		if err != nil || !desc.Flyable || count <= 0 {
			continue
		}

		out = append(out, FlyableShip{
			Ship:  ship,
			Count: count,
			Cargo: desc.Cargo,
			Speed: ship.Speed(p.Techs),
		})
	}

	return out, nil
}

// checkTargetExistence :
// Verifies that the target of the mission exists (or,
// for a colonization, that the coordinate is still
// free) and fetches the body living there when one is
// required.
//
// The `mission` defines the objective of the flight.
//
// The `target` defines the target coordinate.
//
// The `sender` defines the player dispatching the
// fleet.
//
// Returns the target body when the mission needs one
// along with any error.
func (i Instance) checkTargetExistence(mission model.Mission, target model.Coordinate, sender Player) (*Body, error) {
	switch mission {
	case model.Colonization:
		_, occupied, err := i.Bodies.BodyAt(target)
		if err != nil {
			return nil, err
		}
		if occupied {
			return nil, ErrInvalidTarget
		}

		return nil, nil
	case model.Harvest:
		_, exists, err := i.Debris.FieldAt(target)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, ErrTargetDoesNotExist
		}

		return nil, nil
	default:
		body, exists, err := i.Bodies.BodyAt(target)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, ErrTargetDoesNotExist
		}

		return &body, nil
	}
}

// checkTargetRelationship :
// Verifies that the owner of the target body accepts
// the mission: vacation mode protects from any flight,
// hostile missions cannot be directed at oneself and
// have to stay within the fair game band, deployments
// only make sense towards one's own bodies.
//
// The `mission` defines the objective of the flight.
//
// The `target` defines the target body.
//
// The `sender` defines the player dispatching the
// fleet.
//
// Returns any error.
func (i Instance) checkTargetRelationship(mission model.Mission, target Body, sender Player) error {
	owner, err := i.Players.Player(target.Player)
	if err != nil {
		return err
	}

	if owner.Vacation {
		return ErrTargetOnVacation
	}

	switch mission {
	case model.Attack, model.Destroy, model.Espionage, model.Hold:
		if owner.ID == sender.ID {
			return ErrInvalidTarget
		}

		rank, err := i.Ranking.Rank(sender.ID, owner.ID)
		if err != nil {
			return err
		}
		if rank != Equal {
			return ErrTargetRelationshipForbidden
		}
	case model.Deployment:
		if owner.ID != sender.ID {
			return ErrInvalidTarget
		}
	}

	return nil
}

// assignSoloTimeline :
// Computes the timeline of a flight that is not part
// of a party.
//
// The `flight` defines the flight to update.
//
// The `now` defines the departure time.
//
// The `duration` defines the one way trip time in
// seconds.
//
// The `holdHours` define the loiter time for hold
// missions.
func (i Instance) assignSoloTimeline(flight *Flight, now time.Time, duration int, holdHours int) {
	arrival := now.Add(time.Duration(duration) * time.Second)
	flight.ArrivalTime = &arrival

	if flight.Mission == model.Hold {
		holdUntil := arrival.Add(time.Duration(3600*holdHours) * time.Second)
		flight.HoldUntil = &holdUntil
		flight.ReturnTime = holdUntil.Add(time.Duration(duration) * time.Second)

		return
	}

	flight.ReturnTime = arrival.Add(time.Duration(duration) * time.Second)
}

// joinParty :
// Merges the input flight into its party. The join is
// rejected when it would delay the group past the
// accepted window; when the joiner arrives earlier
// than the current members the whole group is retimed
// to the earlier arrival and the shared event moved
// accordingly.
//
// The `flight` defines the joining flight.
//
// The `party` defines the party to join.
//
// The `now` defines the departure time.
//
// The `duration` defines the one way trip time in
// seconds.
//
// Returns any error.
func (i Instance) joinParty(flight *Flight, party Party, now time.Time, duration int) error {
	members, err := i.Flights.FlightsForParty(party.ID)
	if err != nil {
		return err
	}
	if len(members) == 0 {
		// A party with no member left should have been
		// deleted already.
		i.trace(logger.Error, fmt.Sprintf("Party \"%s\" has no member left", party.ID))
		return ErrPartyNotFound
	}

	if len(members)+1 > i.Settings.MaxCombatants {
		return ErrTooManyCombatants
	}

	leader := members[0]
	if leader.ArrivalTime == nil {
		i.trace(logger.Error, fmt.Sprintf("Leading flight \"%s\" of party \"%s\" has no arrival time", leader.ID, party.ID))
		return ErrPartyNotFound
	}
	leaderArrival := *leader.ArrivalTime

	candidate := now.Add(time.Duration(duration) * time.Second)

	// The join window intentionally tolerates a negative
	// remaining time when the scheduler is lagging.
	remaining := float64(leaderArrival.Unix() - now.Unix())
	if float64(candidate.Unix()-now.Unix()) > 1.3*remaining {
		return ErrPartyJoinTooLate
	}

	if !candidate.Before(leaderArrival) {
		flight.ArrivalTime = &leaderArrival
		flight.ReturnTime = leaderArrival.Add(time.Duration(duration) * time.Second)

		return nil
	}

	// The joiner arrives first: retime every member and
	// the shared event to the earlier arrival, shifting
	// each return by the same delta.
	delta := leaderArrival.Sub(candidate)

	for _, member := range members {
		arrival := candidate
		member.ArrivalTime = &arrival
		member.ReturnTime = member.ReturnTime.Add(-delta)

		err = i.Flights.Update(member)
		if err != nil {
			return err
		}
	}

	e, err := i.Events.FindByKindAndSubject(FlightEvent, leader.ID)
	if err != nil {
		i.trace(logger.Error, fmt.Sprintf("Party \"%s\" has no live event for leading flight \"%s\"", party.ID, leader.ID))
		return err
	}

	e.At = candidate
	e.Subject = members[0].ID

	err = i.Events.Schedule(e)
	if err != nil {
		return err
	}

	flight.ArrivalTime = &candidate
	flight.ReturnTime = candidate.Add(time.Duration(duration) * time.Second)

	return nil
}

// clampFactor :
// Clamps the input speed factor to the valid range.
//
// Returns the clamped factor.
func clampFactor(factor int) int {
	if factor < 1 {
		return 1
	}
	if factor > 10 {
		return 10
	}

	return factor
}

// filterShips :
// Restricts the requested composition to the flyable
// ships the body actually hosts, clamping counts to
// what is available and pruning empty entries.
//
// The `requested` defines the requested composition.
//
// The `onBody` defines the ships docked at the body.
//
// Returns the filtered composition.
func filterShips(requested model.ShipsCount, onBody model.ShipsCount) model.ShipsCount {
	out := make(model.ShipsCount)

	for ship, count := range requested {
		desc, err := ship.Desc()
		if err != nil || !desc.Flyable {
			continue
		}

		available := onBody.Count(ship)
		if count > available {
			count = available
		}

		if count > 0 {
			out[ship] = count
		}
	}

	return out
}

// deductShips :
// Removes the committed ships from the docked counts,
// pruning entries reaching zero.
//
// The `onBody` defines the ships docked at the body.
//
// The `committed` defines the ships leaving with the
// fleet.
//
// Returns the remaining docked ships.
func deductShips(onBody model.ShipsCount, committed model.ShipsCount) model.ShipsCount {
	out := make(model.ShipsCount)

	for ship, count := range onBody {
		remaining := count - committed.Count(ship)
		if remaining > 0 {
			out[ship] = remaining
		}
	}

	return out
}

// clampCargo :
// Clamps the requested payload to the capacity of the
// fleet and to the stock of the body, loading metal
// first, then crystal, then deuterium. Amounts are
// floored to whole units.
//
// The `requested` defines the requested payload.
//
// The `capacity` defines the capacity left once the
// fuel is loaded.
//
// The `available` defines the stock of the body with
// the fuel already deducted.
//
// Returns the clamped payload.
func clampCargo(requested model.Resources, capacity float64, available model.Resources) model.Resources {
	out := model.Resources{}

	out.Metal = math.Floor(math.Min(requested.Metal, math.Min(capacity, available.Metal)))
	out.Metal = math.Max(0, out.Metal)
	capacity -= out.Metal

	out.Crystal = math.Floor(math.Min(requested.Crystal, math.Min(capacity, available.Crystal)))
	out.Crystal = math.Max(0, out.Crystal)
	capacity -= out.Crystal

	out.Deuterium = math.Floor(math.Min(requested.Deuterium, math.Min(capacity, available.Deuterium)))
	out.Deuterium = math.Max(0, out.Deuterium)

	return out
}
