package data

import (
	"fmt"
	"time"

	"ogflight_server/internal/game"
	"ogflight_server/internal/model"
	"ogflight_server/pkg/db"
	"ogflight_server/pkg/logger"
)

// BodiesProxy :
// DB backed implementation of the body store. The state
// of a body is spread over the `bodies` table for the
// scalar properties, `bodies_ships` for the docked
// ships and `bodies_defenses` for the defense systems.
type BodiesProxy struct {
	commonProxy
}

// NewBodiesProxy :
// Creates a proxy serving bodies from the input DB.
//
// The `dbase` defines the DB to use to fetch data.
//
// The `log` allows to notify errors and information.
//
// Returns the created proxy.
func NewBodiesProxy(dbase *db.DB, log logger.Logger) *BodiesProxy {
	return &BodiesProxy{
		commonProxy: newCommonProxy(dbase, log, "bodies"),
	}
}

// fetchBodies :
// Fetches the bodies matching the input filters along
// with their ships and defenses.
//
// The `filters` restrain the bodies to fetch.
//
// Returns the fetched bodies along with any error.
func (p *BodiesProxy) fetchBodies(filters []db.Filter) ([]game.Body, error) {
	query := db.QueryDesc{
		Props: []string{
			"id",
			"player",
			"name",
			"galaxy",
			"solar_system",
			"position",
			"kind",
			"metal",
			"crystal",
			"deuterium",
		},
		Table:   "bodies",
		Filters: filters,
	}

	res, err := p.proxy.FetchFromDB(query)
	defer res.Close()

	if err != nil {
		return nil, err
	}
	if res.Err != nil {
		return nil, res.Err
	}

	bodies := make([]game.Body, 0)

	for res.Next() {
		var b game.Body
		var kind string

		err = res.Scan(
			&b.ID,
			&b.Player,
			&b.Name,
			&b.Coordinate.Galaxy,
			&b.Coordinate.System,
			&b.Coordinate.Position,
			&kind,
			&b.Resources.Metal,
			&b.Resources.Crystal,
			&b.Resources.Deuterium,
		)
		if err != nil {
			return nil, err
		}

		b.Coordinate.Kind = model.Location(kind)

		b.Ships, err = p.fetchShips(b.ID)
		if err != nil {
			return nil, err
		}

		b.Defenses, err = p.fetchDefenses(b.ID)
		if err != nil {
			return nil, err
		}

		bodies = append(bodies, b)
	}

	return bodies, nil
}

// fetchShips :
// Fetches the ships docked at the input body.
//
// The `body` defines the identifier of the body.
//
// Returns the docked ships along with any error.
func (p *BodiesProxy) fetchShips(body string) (model.ShipsCount, error) {
	query := db.QueryDesc{
		Props: []string{
			"ship",
			"count",
		},
		Table: "bodies_ships",
		Filters: []db.Filter{
			{Key: "body", Values: []interface{}{body}},
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

// fetchDefenses :
// Fetches the defense systems installed on the input
// body.
//
// The `body` defines the identifier of the body.
//
// Returns the defenses along with any error.
func (p *BodiesProxy) fetchDefenses(body string) (model.DefensesCount, error) {
	query := db.QueryDesc{
		Props: []string{
			"defense",
			"count",
		},
		Table: "bodies_defenses",
		Filters: []db.Filter{
			{Key: "body", Values: []interface{}{body}},
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

	defenses := model.DefensesCount{}

	for res.Next() {
		var defense string
		var count int

		err = res.Scan(&defense, &count)
		if err != nil {
			return nil, err
		}

		defenses[model.DefenseUnit(defense)] = count
	}

	return defenses, nil
}

// Body :
// Fetches the body with the input identifier.
//
// The `id` defines the identifier of the body.
//
// Returns the body along with any error.
func (p *BodiesProxy) Body(id string) (game.Body, error) {
	bodies, err := p.fetchBodies(
		[]db.Filter{
			{Key: "id", Values: []interface{}{id}},
		},
	)
	if err != nil {
		return game.Body{}, err
	}

	if len(bodies) != 1 {
		return game.Body{}, game.ErrTargetDoesNotExist
	}

	return bodies[0], nil
}

// BodyAt :
// Fetches the body living at the input coordinate, the
// boolean indicating whether one exists there at all.
//
// The `coord` defines the coordinate to inspect.
//
// Returns the body, its existence and any error.
func (p *BodiesProxy) BodyAt(coord model.Coordinate) (game.Body, bool, error) {
	bodies, err := p.fetchBodies(
		[]db.Filter{
			{Key: "galaxy", Values: []interface{}{coord.Galaxy}},
			{Key: "solar_system", Values: []interface{}{coord.System}},
			{Key: "position", Values: []interface{}{coord.Position}},
			{Key: "kind", Values: []interface{}{string(coord.Kind)}},
		},
	)
	if err != nil {
		return game.Body{}, false, err
	}

	if len(bodies) == 0 {
		return game.Body{}, false, nil
	}

	return bodies[0], true, nil
}

// PlanetsCount :
// Counts the planets owned by the input player. Moons
// do not count against the colonization cap.
//
// The `player` defines the identifier of the player.
//
// Returns the count along with any error.
func (p *BodiesProxy) PlanetsCount(player string) (int, error) {
	query := db.QueryDesc{
		Props: []string{
			"count(*)",
		},
		Table: "bodies",
		Filters: []db.Filter{
			{Key: "player", Values: []interface{}{player}},
			{Key: "kind", Values: []interface{}{string(model.World)}},
		},
	}

	res, err := p.proxy.FetchFromDB(query)
	defer res.Close()

	if err != nil {
		return 0, err
	}
	if res.Err != nil {
		return 0, res.Err
	}

	count := 0
	for res.Next() {
		err = res.Scan(&count)
		if err != nil {
			return 0, err
		}
	}

	return count, nil
}

// UpdateToTime :
// Applies the production accumulated by the input body
// up to the input moment and fetches the refreshed
// body.
//
// The `id` defines the identifier of the body.
//
// The `at` defines the moment to bring the body to.
//
// Returns the refreshed body along with any error.
func (p *BodiesProxy) UpdateToTime(id string, at time.Time) (game.Body, error) {
	err := p.proxy.InsertToDB(db.InsertReq{
		Script:     "update_body_to_time",
		Args:       []interface{}{id, at},
		SkipReturn: true,
	})
	if err != nil {
		p.trace(logger.Error, fmt.Sprintf("Could not update body \"%s\" to %v (err: %v)", id, at, err))
		return game.Body{}, err
	}

	return p.Body(id)
}

// Create :
// Persists the input body. This is used when a colony
// is settled.
//
// The `b` defines the body to persist.
//
// Returns any error.
func (p *BodiesProxy) Create(b game.Body) error {
	err := p.proxy.InsertToDB(db.InsertReq{
		Script: "create_body",
		Args:   []interface{}{b},
	})
	if err != nil {
		p.trace(logger.Error, fmt.Sprintf("Could not create body \"%s\" (err: %v)", b.ID, err))
	}

	return err
}

// Update :
// Persists the mutations of the input body.
//
// The `b` defines the body to update.
//
// Returns any error.
func (p *BodiesProxy) Update(b game.Body) error {
	err := p.proxy.InsertToDB(db.InsertReq{
		Script: "update_body",
		Args:   []interface{}{b},
	})
	if err != nil {
		p.trace(logger.Error, fmt.Sprintf("Could not update body \"%s\" (err: %v)", b.ID, err))
	}

	return err
}
