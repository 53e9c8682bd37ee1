package data

import (
	"fmt"
	"time"

	"ogflight_server/pkg/db"
	"ogflight_server/pkg/logger"
)

// ActivityProxy :
// DB backed implementation of the activity tracker. The
// last activity of each body feeds the galaxy view so
// other players can tell an abandoned planet from a
// living one.
type ActivityProxy struct {
	commonProxy
}

// NewActivityProxy :
// Creates a proxy recording activity into the input DB.
//
// The `dbase` defines the DB to use.
//
// The `log` allows to notify errors and information.
//
// Returns the created proxy.
func NewActivityProxy(dbase *db.DB, log logger.Logger) *ActivityProxy {
	return &ActivityProxy{
		commonProxy: newCommonProxy(dbase, log, "activity"),
	}
}

// RecordActivity :
// Registers an activity on the input body. Best effort,
// a failure is only logged.
//
// The `body` defines the identifier of the body.
//
// The `at` defines the moment of the activity.
func (p *ActivityProxy) RecordActivity(body string, at time.Time) {
	err := p.proxy.InsertToDB(db.InsertReq{
		Script:     "touch_body_activity",
		Args:       []interface{}{body, at},
		SkipReturn: true,
	})
	if err != nil {
		p.trace(logger.Error, fmt.Sprintf("Could not record activity on body \"%s\" (err: %v)", body, err))
	}
}
