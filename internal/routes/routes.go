package routes

import (
	"net/http"
)

// routes :
// Used to setup all the routes able to be served by
// this server. All the routes are set up with the
// adequate handler but no actual binding is done.
//
// The `mux` defines the muxer to register the routes
// on.
func (s *server) routes(mux *http.ServeMux) {
	// Dispatch a new fleet.
	// POST, `/fleets`
	mux.HandleFunc("/fleets", s.dispatchFleet())

	// Fire a missile strike.
	// POST, `/fleets/missiles`
	mux.HandleFunc("/fleets/missiles", s.dispatchMissiles())

	// Get details about a flight or recall it.
	// GET, `/fleets/flight_id`
	// POST, `/fleets/flight_id/recall`
	mux.HandleFunc("/fleets/", s.handleFleet())

	// List the flights of a player along with their
	// fleet slots.
	// GET, `/players/player_id/fleets`
	mux.HandleFunc("/players/", s.listPlayerFleets())

	// List the ships available for dispatch on a body.
	// GET, `/bodies/body_id/flyable`
	mux.HandleFunc("/bodies/", s.listFlyableShips())

	if s.metrics != nil {
		mux.Handle("/metrics", s.metrics.Handler())
	}
}
