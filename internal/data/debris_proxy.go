package data

import (
	"fmt"

	"ogflight_server/internal/game"
	"ogflight_server/internal/model"
	"ogflight_server/pkg/db"
	"ogflight_server/pkg/logger"
)

// DebrisProxy :
// DB backed implementation of the debris store. Fields
// only ever hold metal and crystal so the layout is a
// single `debris_fields` table.
type DebrisProxy struct {
	commonProxy
}

// NewDebrisProxy :
// Creates a proxy serving debris fields from the input
// DB.
//
// The `dbase` defines the DB to use to fetch data.
//
// The `log` allows to notify errors and information.
//
// Returns the created proxy.
func NewDebrisProxy(dbase *db.DB, log logger.Logger) *DebrisProxy {
	return &DebrisProxy{
		commonProxy: newCommonProxy(dbase, log, "debris"),
	}
}

// FieldAt :
// Fetches the debris field hovering at the input
// coordinate, the boolean indicating whether one
// exists there at all.
//
// The `coord` defines the coordinate to inspect.
//
// Returns the field, its existence and any error.
func (p *DebrisProxy) FieldAt(coord model.Coordinate) (game.DebrisField, bool, error) {
	query := db.QueryDesc{
		Props: []string{
			"id",
			"galaxy",
			"solar_system",
			"position",
			"metal",
			"crystal",
			"updated_at",
		},
		Table: "debris_fields",
		Filters: []db.Filter{
			{Key: "galaxy", Values: []interface{}{coord.Galaxy}},
			{Key: "solar_system", Values: []interface{}{coord.System}},
			{Key: "position", Values: []interface{}{coord.Position}},
		},
	}

	res, err := p.proxy.FetchFromDB(query)
	defer res.Close()

	if err != nil {
		return game.DebrisField{}, false, err
	}
	if res.Err != nil {
		return game.DebrisField{}, false, res.Err
	}

	var field game.DebrisField
	found := false

	for res.Next() {
		err = res.Scan(
			&field.ID,
			&field.Coordinate.Galaxy,
			&field.Coordinate.System,
			&field.Coordinate.Position,
			&field.Metal,
			&field.Crystal,
			&field.UpdatedAt,
		)
		if err != nil {
			return game.DebrisField{}, false, err
		}

		field.Coordinate.Kind = model.Debris

		found = true
	}

	return field, found, nil
}

// Update :
// Persists the mutations of the input field.
//
// The `f` defines the field to update.
//
// Returns any error.
func (p *DebrisProxy) Update(f game.DebrisField) error {
	err := p.proxy.InsertToDB(db.InsertReq{
		Script: "update_debris_field",
		Args:   []interface{}{f},
	})
	if err != nil {
		p.trace(logger.Error, fmt.Sprintf("Could not update debris field \"%s\" (err: %v)", f.ID, err))
	}

	return err
}
