package game

import (
	"time"

	"ogflight_server/internal/model"
)

// Body :
// Describes a planet or a moon owned by a player. Only
// the facets needed by flights are kept here: resources
// to load and deduct, ships to commit and redeposit and
// defenses for missile strikes.
//
// The `ID` defines the identifier of the body.
//
// The `Player` defines the identifier of the owner.
//
// The `Name` defines the display name of the body.
//
// The `Coordinate` defines where the body lives.
//
// The `Resources` define the stock of the body at the
// moment it was last updated.
//
// The `Ships` define the ships docked at the body.
//
// The `Defenses` define the defense systems installed
// on the body.
type Body struct {
	ID         string              `json:"id"`
	Player     string              `json:"player"`
	Name       string              `json:"name"`
	Coordinate model.Coordinate    `json:"coordinate"`
	Resources  model.Resources     `json:"resources"`
	Ships      model.ShipsCount    `json:"ships"`
	Defenses   model.DefensesCount `json:"defenses"`
}

// BodyStore :
// Provides the persistence operations needed to access
// and mutate bodies. Production state is always brought
// current before a body is read for mutation, which is
// the job of `UpdateToTime`.
type BodyStore interface {
	Body(id string) (Body, error)
	// BodyAt fetches the body living at the input
	// coordinate, the boolean indicating whether one
	// exists there at all.
	BodyAt(coord model.Coordinate) (Body, bool, error)
	PlanetsCount(player string) (int, error)
	// UpdateToTime applies the production accumulated
	// up to the input moment and returns the refreshed
	// body.
	UpdateToTime(id string, at time.Time) (Body, error)
	Create(b Body) error
	Update(b Body) error
}

// Player :
// Describes the facets of a player that matter to the
// flights they own or are targeted by.
//
// The `ID` defines the identifier of the player.
//
// The `Name` defines the display name of the player.
//
// The `Vacation` defines whether the player enabled
// the vacation mode, which protects them from any
// hostile flight.
//
// The `Techs` define the levels of the researches of
// the player.
type Player struct {
	ID       string           `json:"id"`
	Name     string           `json:"name"`
	Vacation bool             `json:"vacation"`
	Techs    model.TechLevels `json:"techs"`
}

// PlayerStore :
// Provides read access to players.
type PlayerStore interface {
	Player(id string) (Player, error)
}

// DebrisField :
// Describes the salvageable resources hovering at a
// coordinate after a battle. Only metal and crystal
// ever end up in a field.
//
// The `ID` defines the identifier of the field.
//
// The `Coordinate` defines where the field hovers.
//
// The `Metal` and `Crystal` define the salvageable
// amounts.
//
// The `UpdatedAt` defines the moment the field was
// last modified.
type DebrisField struct {
	ID         string           `json:"id"`
	Coordinate model.Coordinate `json:"coordinate"`
	Metal      float64          `json:"metal"`
	Crystal    float64          `json:"crystal"`
	UpdatedAt  time.Time        `json:"updated_at"`
}

// DebrisStore :
// Provides the persistence operations needed to access
// and mutate debris fields.
type DebrisStore interface {
	// FieldAt fetches the field hovering at the input
	// coordinate, the boolean indicating whether one
	// exists there at all.
	FieldAt(coord model.Coordinate) (DebrisField, bool, error)
	Update(f DebrisField) error
}
