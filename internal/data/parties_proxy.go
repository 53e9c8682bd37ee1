package data

import (
	"fmt"

	"ogflight_server/internal/game"
	"ogflight_server/internal/model"
	"ogflight_server/pkg/db"
	"ogflight_server/pkg/logger"
)

// PartiesProxy :
// DB backed implementation of the party store. The
// `parties` table keeps the shared target and mission
// while `parties_participants` keeps the players that
// are allowed to commit fleets.
type PartiesProxy struct {
	commonProxy
}

// NewPartiesProxy :
// Creates a proxy serving parties from the input DB.
//
// The `dbase` defines the DB to use to fetch data.
//
// The `log` allows to notify errors and information.
//
// Returns the created proxy.
func NewPartiesProxy(dbase *db.DB, log logger.Logger) *PartiesProxy {
	return &PartiesProxy{
		commonProxy: newCommonProxy(dbase, log, "parties"),
	}
}

// Party :
// Fetches the party with the input identifier.
//
// The `id` defines the identifier of the party.
//
// Returns the party along with any error.
func (p *PartiesProxy) Party(id string) (game.Party, error) {
	query := db.QueryDesc{
		Props: []string{
			"id",
			"target_galaxy",
			"target_solar_system",
			"target_position",
			"target_kind",
			"mission",
		},
		Table: "parties",
		Filters: []db.Filter{
			{Key: "id", Values: []interface{}{id}},
		},
	}

	res, err := p.proxy.FetchFromDB(query)
	defer res.Close()

	if err != nil {
		return game.Party{}, err
	}
	if res.Err != nil {
		return game.Party{}, res.Err
	}

	var party game.Party
	found := false

	for res.Next() {
		var kind, mission string

		err = res.Scan(
			&party.ID,
			&party.Target.Galaxy,
			&party.Target.System,
			&party.Target.Position,
			&kind,
			&mission,
		)
		if err != nil {
			return game.Party{}, err
		}

		party.Target.Kind = model.Location(kind)
		party.Mission = model.Mission(mission)

		found = true
	}

	if !found {
		return game.Party{}, game.ErrPartyNotFound
	}

	party.Participants, err = p.fetchParticipants(id)
	if err != nil {
		return game.Party{}, err
	}

	return party, nil
}

// fetchParticipants :
// Fetches the players allowed to commit fleets to the
// input party.
//
// The `party` defines the identifier of the party.
//
// Returns the participants along with any error.
func (p *PartiesProxy) fetchParticipants(party string) ([]string, error) {
	query := db.QueryDesc{
		Props: []string{
			"player",
		},
		Table: "parties_participants",
		Filters: []db.Filter{
			{Key: "party", Values: []interface{}{party}},
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

	participants := make([]string, 0)

	for res.Next() {
		var player string

		err = res.Scan(&player)
		if err != nil {
			return nil, err
		}

		participants = append(participants, player)
	}

	return participants, nil
}

// Create :
// Persists the input party along with its participants.
//
// The `party` defines the party to persist.
//
// Returns any error.
func (p *PartiesProxy) Create(party game.Party) error {
	err := p.proxy.InsertToDB(db.InsertReq{
		Script: "create_party",
		Args:   []interface{}{party},
	})
	if err != nil {
		p.trace(logger.Error, fmt.Sprintf("Could not create party \"%s\" (err: %v)", party.ID, err))
	}

	return err
}

// Delete :
// Removes the input party and its participants.
//
// The `id` defines the identifier of the party.
//
// Returns any error.
func (p *PartiesProxy) Delete(id string) error {
	err := p.proxy.InsertToDB(db.InsertReq{
		Script:     "delete_party",
		Args:       []interface{}{id},
		SkipReturn: true,
	})
	if err != nil {
		p.trace(logger.Error, fmt.Sprintf("Could not delete party \"%s\" (err: %v)", id, err))
	}

	return err
}
