package data

import (
	"ogflight_server/internal/game"
	"ogflight_server/internal/model"
	"ogflight_server/pkg/db"
	"ogflight_server/pkg/logger"
)

// PlayersProxy :
// DB backed implementation of the player store. Only the
// facets needed by flights are fetched: the vacation
// mode and the research levels.
type PlayersProxy struct {
	commonProxy
}

// NewPlayersProxy :
// Creates a proxy serving players from the input DB.
//
// The `dbase` defines the DB to use to fetch data.
//
// The `log` allows to notify errors and information.
//
// Returns the created proxy.
func NewPlayersProxy(dbase *db.DB, log logger.Logger) *PlayersProxy {
	return &PlayersProxy{
		commonProxy: newCommonProxy(dbase, log, "players"),
	}
}

// Player :
// Fetches the player with the input identifier.
//
// The `id` defines the identifier of the player.
//
// Returns the player along with any error.
func (p *PlayersProxy) Player(id string) (game.Player, error) {
	query := db.QueryDesc{
		Props: []string{
			"id",
			"name",
			"vacation",
		},
		Table: "players",
		Filters: []db.Filter{
			{Key: "id", Values: []interface{}{id}},
		},
	}

	res, err := p.proxy.FetchFromDB(query)
	defer res.Close()

	if err != nil {
		return game.Player{}, err
	}
	if res.Err != nil {
		return game.Player{}, res.Err
	}

	var player game.Player
	found := false

	for res.Next() {
		err = res.Scan(
			&player.ID,
			&player.Name,
			&player.Vacation,
		)
		if err != nil {
			return game.Player{}, err
		}

		found = true
	}

	if !found {
		return game.Player{}, game.ErrTargetDoesNotExist
	}

	player.Techs, err = p.fetchTechs(id)
	if err != nil {
		return game.Player{}, err
	}

	return player, nil
}

// fetchTechs :
// Fetches the research levels of the input player.
//
// The `player` defines the identifier of the player.
//
// Returns the research levels along with any error.
func (p *PlayersProxy) fetchTechs(player string) (model.TechLevels, error) {
	query := db.QueryDesc{
		Props: []string{
			"technology",
			"level",
		},
		Table: "players_technologies",
		Filters: []db.Filter{
			{Key: "player", Values: []interface{}{player}},
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

	techs := model.TechLevels{}

	for res.Next() {
		var tech string
		var level int

		err = res.Scan(&tech, &level)
		if err != nil {
			return nil, err
		}

		techs[model.Technology(tech)] = level
	}

	return techs, nil
}
