package data

import (
	"fmt"

	"ogflight_server/internal/game"
	"ogflight_server/pkg/db"
	"ogflight_server/pkg/logger"
)

// CombatProxy :
// Implementation of the attack resolver delegating the
// battle to the combat engine living in the DB. The
// engine owns the outcome entirely: losses on both
// sides, loot, debris creation and possibly the
// deletion of the attacking flight when it is wiped
// out.
type CombatProxy struct {
	commonProxy
}

// NewCombatProxy :
// Creates a proxy delegating battles to the input DB.
//
// The `dbase` defines the DB hosting the combat engine.
//
// The `log` allows to notify errors and information.
//
// Returns the created proxy.
func NewCombatProxy(dbase *db.DB, log logger.Logger) *CombatProxy {
	return &CombatProxy{
		commonProxy: newCommonProxy(dbase, log, "combat"),
	}
}

// Handle :
// Resolves the battle triggered by the input flight
// reaching its target.
//
// The `f` defines the attacking flight.
//
// The `destroyMoon` defines whether the battle should
// also roll for the destruction of the targeted moon.
//
// Returns any error.
func (p *CombatProxy) Handle(f game.Flight, destroyMoon bool) error {
	err := p.proxy.InsertToDB(db.InsertReq{
		Script:     "resolve_combat",
		Args:       []interface{}{f.ID, destroyMoon},
		SkipReturn: true,
	})
	if err != nil {
		p.trace(logger.Error, fmt.Sprintf("Could not resolve combat for flight \"%s\" (err: %v)", f.ID, err))
	}

	return err
}
