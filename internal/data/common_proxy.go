package data

import (
	"ogflight_server/pkg/db"
	"ogflight_server/pkg/logger"
)

// commonProxy :
// Base layer shared by the proxies of this package. It
// wraps the DB along with a logger so that each proxy
// can notify its failures consistently.
//
// The `proxy` provides the low level access to the DB.
//
// The `log` allows to notify errors and information.
//
// The `module` identifies the proxy in the logs.
type commonProxy struct {
	proxy db.Proxy

	log    logger.Logger
	module string
}

// newCommonProxy :
// Creates the base layer from the input DB and logger.
//
// The `dbase` defines the DB to wrap.
//
// The `log` defines the logger to use.
//
// The `module` defines the name of the proxy in logs.
//
// Returns the created object.
func newCommonProxy(dbase *db.DB, log logger.Logger, module string) commonProxy {
	return commonProxy{
		proxy:  db.NewProxy(dbase),
		log:    log,
		module: module,
	}
}

// trace :
// Convenience wrapper around the internal logger.
//
// The `level` defines the severity of the message.
//
// The `msg` defines the message itself.
func (p commonProxy) trace(level logger.Severity, msg string) {
	if p.log != nil {
		p.log.Trace(level, p.module, msg)
	}
}
