package game

import (
	"ogflight_server/internal/model"
)

// Party :
// Describes a group of fleets striking the same target
// at the same moment. The party itself is created when
// its founding flight is dispatched; the flights keep
// a reference to it and the member arriving first in
// the timeline carries the single scheduled event of
// the group.
//
// The `ID` defines the identifier of the party.
//
// The `Target` defines the coordinate all the members
// of the party are directed at.
//
// The `Mission` defines the objective shared by the
// members. Only attack and destroy missions can be
// carried out as a group.
//
// The `Participants` define the identifiers of the
// players allowed to commit fleets to the party.
type Party struct {
	ID           string           `json:"id"`
	Target       model.Coordinate `json:"target"`
	Mission      model.Mission    `json:"mission"`
	Participants []string         `json:"participants"`
}

// PartyStore :
// Provides the persistence operations needed to handle
// parties.
type PartyStore interface {
	Party(id string) (Party, error)
	Create(p Party) error
	Delete(id string) error
}

// CanJoin :
// Determines whether the input player is one of the
// participants of this party.
//
// The `player` defines the identifier of the player.
//
// Returns `true` if the player can commit a fleet to
// the party.
func (p Party) CanJoin(player string) bool {
	for _, participant := range p.Participants {
		if participant == player {
			return true
		}
	}

	return false
}
