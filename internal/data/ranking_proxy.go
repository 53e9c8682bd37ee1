package data

import (
	"ogflight_server/internal/game"
	"ogflight_server/pkg/db"
	"ogflight_server/pkg/logger"
)

// noobProtectionRatio :
// A target whose points differ from the caller's by
// more than this ratio is not fair game.
const noobProtectionRatio = 5.0

// RankingProxy :
// DB backed implementation of the ranking collaborator.
// The relative strength of two players derives from the
// points maintained by the scoring subsystem in the
// `players` table.
type RankingProxy struct {
	commonProxy
}

// NewRankingProxy :
// Creates a proxy ranking players from the input DB.
//
// The `dbase` defines the DB to use to fetch data.
//
// The `log` allows to notify errors and information.
//
// Returns the created proxy.
func NewRankingProxy(dbase *db.DB, log logger.Logger) *RankingProxy {
	return &RankingProxy{
		commonProxy: newCommonProxy(dbase, log, "ranking"),
	}
}

// points :
// Fetches the points of the input player.
//
// The `player` defines the identifier of the player.
//
// Returns the points along with any error.
func (p *RankingProxy) points(player string) (float64, error) {
	query := db.QueryDesc{
		Props: []string{
			"points",
		},
		Table: "players",
		Filters: []db.Filter{
			{Key: "id", Values: []interface{}{player}},
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

	points := 0.0
	found := false

	for res.Next() {
		err = res.Scan(&points)
		if err != nil {
			return 0, err
		}

		found = true
	}

	if !found {
		return 0, game.ErrTargetDoesNotExist
	}

	return points, nil
}

// Rank :
// Assesses the relative strength of the target compared
// to the caller. Targets outside the noob protection
// ratio are reported as weaker or stronger, which makes
// them off limits for hostile flights.
//
// The `caller` defines the player considering an action.
//
// The `target` defines the player targeted by it.
//
// Returns the relative strength along with any error.
func (p *RankingProxy) Rank(caller string, target string) (game.Rank, error) {
	callerPoints, err := p.points(caller)
	if err != nil {
		return game.Equal, err
	}

	targetPoints, err := p.points(target)
	if err != nil {
		return game.Equal, err
	}

	if targetPoints*noobProtectionRatio < callerPoints {
		return game.Weaker, nil
	}
	if targetPoints > callerPoints*noobProtectionRatio {
		return game.Stronger, nil
	}

	return game.Equal, nil
}
