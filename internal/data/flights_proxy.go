package data

import (
	"fmt"
	"time"

	"ogflight_server/internal/game"
	"ogflight_server/internal/model"
	"ogflight_server/pkg/db"
	"ogflight_server/pkg/logger"

	"github.com/jackc/pgx/pgtype"
)

// FlightsProxy :
// DB backed implementation of the flight store. Flights
// are laid out in two tables: the `flights` table keeps
// the scalar properties and the timeline while the
// `flights_ships` table keeps the composition of each
// fleet.
type FlightsProxy struct {
	commonProxy
}

// NewFlightsProxy :
// Creates a proxy serving flights from the input DB.
//
// The `dbase` defines the DB to use to fetch data.
//
// The `log` allows to notify errors and information.
//
// Returns the created proxy.
func NewFlightsProxy(dbase *db.DB, log logger.Logger) *FlightsProxy {
	return &FlightsProxy{
		commonProxy: newCommonProxy(dbase, log, "flights"),
	}
}

// flightProps :
// The columns of the `flights` table, in the order the
// scanning code expects them.
func flightProps() []string {
	return []string{
		"id",
		"player",
		"origin",
		"source_galaxy",
		"source_solar_system",
		"source_position",
		"source_kind",
		"target_galaxy",
		"target_solar_system",
		"target_position",
		"target_kind",
		"party",
		"mission",
		"metal",
		"crystal",
		"deuterium",
		"speed_factor",
		"missiles",
		"main_target",
		"created_at",
		"departure_time",
		"arrival_time",
		"hold_until",
		"return_time",
	}
}

// fetchFlights :
// Fetches the flights matching the input filters along
// with their composition.
//
// The `filters` restrain the flights to fetch.
//
// The `ordering` defines an optional `order by` clause.
//
// Returns the fetched flights along with any error.
func (p *FlightsProxy) fetchFlights(filters []db.Filter, ordering string) ([]game.Flight, error) {
	query := db.QueryDesc{
		Props:    flightProps(),
		Table:    "flights",
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

	flights := make([]game.Flight, 0)

	for res.Next() {
		var f game.Flight
		var sourceKind, targetKind, mission, mainTarget string
		var arrival, hold pgtype.Timestamptz

		err = res.Scan(
			&f.ID,
			&f.Player,
			&f.Origin,
			&f.Source.Galaxy,
			&f.Source.System,
			&f.Source.Position,
			&sourceKind,
			&f.Target.Galaxy,
			&f.Target.System,
			&f.Target.Position,
			&targetKind,
			&f.Party,
			&mission,
			&f.Cargo.Metal,
			&f.Cargo.Crystal,
			&f.Cargo.Deuterium,
			&f.SpeedFactor,
			&f.Missiles,
			&mainTarget,
			&f.CreatedAt,
			&f.DepartureTime,
			&arrival,
			&hold,
			&f.ReturnTime,
		)
		if err != nil {
			return nil, err
		}

		f.Source.Kind = model.Location(sourceKind)
		f.Target.Kind = model.Location(targetKind)
		f.Mission = model.Mission(mission)
		f.MainTarget = model.DefenseUnit(mainTarget)

		if arrival.Status == pgtype.Present {
			at := arrival.Time
			f.ArrivalTime = &at
		}
		if hold.Status == pgtype.Present {
			at := hold.Time
			f.HoldUntil = &at
		}

		f.Ships, err = p.fetchShips(f.ID)
		if err != nil {
			return nil, err
		}

		flights = append(flights, f)
	}

	return flights, nil
}

// fetchShips :
// Fetches the composition of the input flight.
//
// The `flight` defines the identifier of the flight.
//
// Returns the ships of the flight along with any error.
func (p *FlightsProxy) fetchShips(flight string) (model.ShipsCount, error) {
	query := db.QueryDesc{
		Props: []string{
			"ship",
			"count",
		},
		Table: "flights_ships",
		Filters: []db.Filter{
			{Key: "flight", Values: []interface{}{flight}},
		},
	}

	res, err := p.proxy.FetchFromDB(query)
	defer res.Close()

	if err != nil {
		return nil, err
	}
	if res.Err != nil {
		return nil, res.Err
	}

	ships := model.ShipsCount{}

	for res.Next() {
		var ship string
		var count int

		err = res.Scan(&ship, &count)
		if err != nil {
			return nil, err
		}

		ships[model.Ship(ship)] = count
	}

	return ships, nil
}

// Flight :
// Fetches the flight with the input identifier.
//
// The `id` defines the identifier of the flight.
//
// Returns the flight along with any error.
func (p *FlightsProxy) Flight(id string) (game.Flight, error) {
	flights, err := p.fetchFlights(
		[]db.Filter{
			{Key: "id", Values: []interface{}{id}},
		},
		"",
	)
	if err != nil {
		return game.Flight{}, err
	}

	if len(flights) != 1 {
		return game.Flight{}, game.ErrFlightNotFound
	}

	return flights[0], nil
}

// FlightsForPlayer :
// Fetches the flights owned by the input player.
//
// The `player` defines the identifier of the player.
//
// Returns the flights along with any error.
func (p *FlightsProxy) FlightsForPlayer(player string) ([]game.Flight, error) {
	return p.fetchFlights(
		[]db.Filter{
			{Key: "player", Values: []interface{}{player}},
		},
		"created_at",
	)
}

// FlightsForParty :
// Fetches the members of the input party ordered by
// creation time, identifiers breaking ties.
//
// The `party` defines the identifier of the party.
//
// Returns the member flights along with any error.
func (p *FlightsProxy) FlightsForParty(party string) ([]game.Flight, error) {
	return p.fetchFlights(
		[]db.Filter{
			{Key: "party", Values: []interface{}{party}},
		},
		"created_at, id",
	)
}

// HoldingFlightsAt :
// Fetches the hold flights loitering over the input
// coordinate at the input moment: the fleet must have
// arrived already and not have left yet.
//
// The `target` defines the coordinate to inspect.
//
// The `at` defines the moment to evaluate.
//
// Returns the flights along with any error.
func (p *FlightsProxy) HoldingFlightsAt(target model.Coordinate, at time.Time) ([]game.Flight, error) {
	return p.fetchFlights(
		[]db.Filter{
			{Key: "mission", Values: []interface{}{string(model.Hold)}},
			{Key: "target_galaxy", Values: []interface{}{target.Galaxy}},
			{Key: "target_solar_system", Values: []interface{}{target.System}},
			{Key: "target_position", Values: []interface{}{target.Position}},
			{Key: "target_kind", Values: []interface{}{string(target.Kind)}},
			{Key: "arrival_time", Values: []interface{}{at}, Operator: db.LessThan},
			{Key: "hold_until", Values: []interface{}{at}, Operator: db.GreaterThan},
		},
		"created_at",
	)
}

// Create :
// Persists the input flight along with its composition.
//
// The `f` defines the flight to persist.
//
// Returns any error.
func (p *FlightsProxy) Create(f game.Flight) error {
	err := p.proxy.InsertToDB(db.InsertReq{
		Script: "create_flight",
		Args:   []interface{}{f},
	})
	if err != nil {
		p.trace(logger.Error, fmt.Sprintf("Could not create flight \"%s\" (err: %v)", f.ID, err))
	}

	return err
}

// Update :
// Persists the mutations of the input flight.
//
// The `f` defines the flight to update.
//
// Returns any error.
func (p *FlightsProxy) Update(f game.Flight) error {
	err := p.proxy.InsertToDB(db.InsertReq{
		Script: "update_flight",
		Args:   []interface{}{f},
	})
	if err != nil {
		p.trace(logger.Error, fmt.Sprintf("Could not update flight \"%s\" (err: %v)", f.ID, err))
	}

	return err
}

// Delete :
// Removes the input flight and its composition.
//
// The `id` defines the identifier of the flight.
//
// Returns any error.
func (p *FlightsProxy) Delete(id string) error {
	err := p.proxy.InsertToDB(db.InsertReq{
		Script:     "delete_flight",
		Args:       []interface{}{id},
		SkipReturn: true,
	})
	if err != nil {
		p.trace(logger.Error, fmt.Sprintf("Could not delete flight \"%s\" (err: %v)", id, err))
	}

	return err
}
