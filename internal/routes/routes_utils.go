package routes

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"ogflight_server/internal/game"
	"ogflight_server/pkg/logger"
)

// answerWithJSON :
// Marshals the input payload and writes it to the
// response along with the provided status code.
//
// The `w` defines the response to write to.
//
// The `status` defines the HTTP status code.
//
// The `payload` defines the data to marshal.
func (s *server) answerWithJSON(w http.ResponseWriter, status int, payload interface{}) {
	out, err := json.Marshal(payload)
	if err != nil {
		s.trace(logger.Error, fmt.Sprintf("Could not marshal answer (err: %v)", err))
		http.Error(w, "Unexpected server error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(out)
}

// answerWithError :
// Writes the input error to the response with a status
// code matching its nature.
//
// The `w` defines the response to write to.
//
// The `err` defines the error to report.
func (s *server) answerWithError(w http.ResponseWriter, err error) {
	s.answerWithJSON(w, statusFor(err), map[string]string{"error": err.Error()})
}

// statusFor :
// Maps the errors produced by the game instance to an
// HTTP status code. Unknown errors default to a `500`.
//
// The `err` defines the error to map.
//
// Returns the corresponding status code.
func statusFor(err error) int {
	switch err {
	case game.ErrFlightNotFound,
		game.ErrPartyNotFound,
		game.ErrTargetDoesNotExist:
		return http.StatusNotFound
	case game.ErrUnauthorizedFlightAccess,
		game.ErrUnauthorizedPartyAccess,
		game.ErrTargetOnVacation,
		game.ErrTargetRelationshipForbidden:
		return http.StatusForbidden
	case game.ErrInvalidMission,
		game.ErrSlotsExhausted,
		game.ErrInvalidTarget,
		game.ErrNoUnitsSelected,
		game.ErrHoldTimeMissing,
		game.ErrMissingRequiredUnit,
		game.ErrInsufficientFuel,
		game.ErrInsufficientCapacity,
		game.ErrInsufficientUnits,
		game.ErrPartyJoinTooLate,
		game.ErrTooManyCombatants,
		game.ErrFlightNotRecallable,
		game.ErrInvalidMissileTarget,
		game.ErrOutOfMissileRange:
		return http.StatusBadRequest
	}

	return http.StatusInternalServerError
}

// routeElements :
// Splits the path of the input request into its
// components once the input prefix is stripped.
//
// The `r` defines the request to analyze.
//
// The `prefix` defines the prefix to strip.
//
// Returns the components of the path.
func routeElements(r *http.Request, prefix string) []string {
	path := strings.TrimPrefix(r.URL.Path, prefix)
	path = strings.Trim(path, "/")

	if len(path) == 0 {
		return make([]string, 0)
	}

	return strings.Split(path, "/")
}

// decodeBody :
// Unmarshals the body of the input request into the
// provided destination.
//
// The `r` defines the request to read.
//
// The `dest` defines the destination structure.
//
// Returns any error.
func decodeBody(r *http.Request, dest interface{}) error {
	return json.NewDecoder(r.Body).Decode(dest)
}
